// Package events carries battle notifications to indexers: structured logs,
// a Redis channel and in-process subscribers feeding websocket streams.
package events

import (
	"context"
	"errors"
	"time"
)

type Kind string

const (
	KindPoolCreated        Kind = "pool_created"
	KindSeedBatchRefilled  Kind = "seed_batch_refilled"
	KindCharacterCreated   Kind = "character_created"
	KindTraitApplied       Kind = "trait_applied"
	KindBattleCreated      Kind = "battle_created"
	KindBattleJoined       Kind = "battle_joined"
	KindTurnResolved       Kind = "turn_resolved"
	KindDamageClamped      Kind = "damage_clamped"
	KindProgressionLevelUp Kind = "progression_level_up"
	KindBattleEnded        Kind = "battle_ended"
	KindBattleForfeited    Kind = "battle_forfeited"
	KindBattleSettled      Kind = "battle_settled"
)

// Event is one notification. Data holds the kind-specific payload.
type Event struct {
	Kind        Kind        `json:"kind"`
	BattleID    uint        `json:"battle_id,omitempty"`
	PoolID      uint        `json:"pool_id,omitempty"`
	CharacterID uint        `json:"character_id,omitempty"`
	At          time.Time   `json:"at"`
	Data        interface{} `json:"data,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher. A failing publisher does not
// stop the others; their errors are joined.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Discard drops every event.
type Discard struct{}

func (Discard) Publish(context.Context, Event) error { return nil }
