package events

import (
	"context"

	"github.com/uzochukwuV/massabeam/internal/constants"
	"github.com/uzochukwuV/massabeam/internal/logging"
)

// LogPublisher writes every event as a structured log line. Clamp
// notifications are logged as warnings.
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, e Event) error {
	fields := logging.Fields{constants.LogFieldEvent: string(e.Kind)}
	if e.BattleID != 0 {
		fields[constants.LogFieldBattleID] = e.BattleID
	}
	if e.PoolID != 0 {
		fields[constants.LogFieldPoolID] = e.PoolID
	}
	if e.CharacterID != 0 {
		fields[constants.LogFieldCharacterID] = e.CharacterID
	}
	if e.Data != nil {
		fields["data"] = e.Data
	}
	if e.Kind == KindDamageClamped {
		logging.Warn("damage clamped", fields)
		return nil
	}
	logging.Info("event", fields)
	return nil
}
