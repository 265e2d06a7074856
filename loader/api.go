package loader

import (
	lua "github.com/yuin/gopher-lua"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerHelpers(L)
}

// curried registers a constructor of the form Name "id" { ... }, which
// hands the id and table to add.
func curried(L *lua.LState, name string, add func(id string, tbl *lua.LTable)) {
	L.SetGlobal(name, L.NewFunction(func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			add(id, tbl)
			return 0
		}))
		return 1
	}))
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Location "id" { ... }
	curried(L, "Location", func(id string, tbl *lua.LTable) {
		coll.locations = append(coll.locations, rawDef{id: id, table: tbl})
	})

	// Enemy "id" { ... }
	curried(L, "Enemy", func(id string, tbl *lua.LTable) {
		coll.enemies = append(coll.enemies, rawDef{id: id, table: tbl})
	})

	// Item "id" { ... }
	curried(L, "Item", func(id string, tbl *lua.LTable) {
		coll.items = append(coll.items, rawDef{id: id, table: tbl})
	})

	// NPC "id" { ... }
	curried(L, "NPC", func(id string, tbl *lua.LTable) {
		coll.npcs = append(coll.npcs, rawDef{id: id, table: tbl})
	})

	// Stage "id" { ... } in quest order.
	curried(L, "Stage", func(id string, tbl *lua.LTable) {
		coll.stages = append(coll.stages, rawDef{id: id, table: tbl})
	})

	// RarityTable "id" { {"item", weight}, ... }
	curried(L, "RarityTable", func(id string, tbl *lua.LTable) {
		coll.rarity = append(coll.rarity, rawDef{id: id, table: tbl})
	})
}

func registerHelpers(L *lua.LState) {
	// Requires { all = {...}, any = {...}, none = {...}, item = "...", at = "...", message = "..." }
	// Pass-through, returns the table.
	L.SetGlobal("Requires", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		L.Push(tbl)
		return 1
	}))

	// Exit("direction", "to", [requires])
	L.SetGlobal("Exit", L.NewFunction(func(L *lua.LState) int {
		direction := L.CheckString(1)
		to := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("direction", lua.LString(direction))
		tbl.RawSetString("to", lua.LString(to))
		if req, ok := L.Get(3).(*lua.LTable); ok {
			tbl.RawSetString("requires", req)
		}
		L.Push(tbl)
		return 1
	}))

	// When(requires, "text") is a conditional line.
	L.SetGlobal("When", L.NewFunction(func(L *lua.LState) int {
		req := L.CheckTable(1)
		text := L.CheckString(2)
		tbl := L.NewTable()
		tbl.RawSetString("when", req)
		tbl.RawSetString("text", lua.LString(text))
		L.Push(tbl)
		return 1
	}))

	// Intent("name", "telegraph", base_damage, defend_multiplier)
	L.SetGlobal("Intent", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		tbl.RawSetString("name", lua.LString(L.CheckString(1)))
		tbl.RawSetString("telegraph", lua.LString(L.CheckString(2)))
		tbl.RawSetString("damage", L.CheckNumber(3))
		tbl.RawSetString("defend", L.OptNumber(4, 0.5))
		L.Push(tbl)
		return 1
	}))
}
