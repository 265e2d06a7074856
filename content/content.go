// Package content embeds the Byte World content pack.
package content

import "embed"

// FS holds the pack's Lua files at its root, ready for loader.Load.
//
//go:embed *.lua
var FS embed.FS
