// Package events names the events a step emits and dispatches them to
// observers. Observers only watch: they cannot change state or output.
package events

import (
	"log/slog"
	"sort"

	"github.com/nathoo/byteworld/types"
)

// Event types emitted by the engine.
const (
	Moved            = "moved"
	EncounterStarted = "encounter_started"
	EncounterEnded   = "encounter_ended"
	DamageDealt      = "damage_dealt"
	DamageTaken      = "damage_taken"
	FlagSet          = "flag_set"
	ItemGained       = "item_gained"
	ItemLost         = "item_lost"
	LevelUp          = "level_up"
	QuestAdvanced    = "quest_advanced"
	GameWon          = "game_won"
)

// New builds an event from alternating key/value pairs.
func New(typ string, kv ...any) types.Event {
	data := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok {
			data[k] = kv[i+1]
		}
	}
	return types.Event{Type: typ, Data: data}
}

// Handler observes one event.
type Handler func(types.Event)

// Bus routes events to handlers registered by type.
type Bus struct {
	byType map[string][]Handler
	all    []Handler
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{byType: map[string][]Handler{}}
}

// On registers a handler for one event type.
func (b *Bus) On(typ string, h Handler) {
	b.byType[typ] = append(b.byType[typ], h)
}

// OnAll registers a handler for every event.
func (b *Bus) OnAll(h Handler) {
	b.all = append(b.all, h)
}

// Dispatch delivers events in order. Single pass: handlers run in
// registration order, catch-all handlers after typed ones.
func (b *Bus) Dispatch(evts []types.Event) {
	for _, ev := range evts {
		for _, h := range b.byType[ev.Type] {
			h(ev)
		}
		for _, h := range b.all {
			h(ev)
		}
	}
}

// LogHandler writes each event as one debug record, data keys sorted.
func LogHandler(log *slog.Logger) Handler {
	return func(ev types.Event) {
		keys := make([]string, 0, len(ev.Data))
		for k := range ev.Data {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		attrs := make([]any, 0, len(keys))
		for _, k := range keys {
			attrs = append(attrs, slog.Any(k, ev.Data[k]))
		}
		log.Debug(ev.Type, attrs...)
	}
}
