package game

// OutcomeVersion1 identifies the first stable outcome layout.
const OutcomeVersion1 = 1

// OutcomeV1 is the versioned, read-only view of a battle that settlement
// and external markets consume. New fields go into a new version.
type OutcomeV1 struct {
	Version    int         `json:"version"`
	BattleID   uint        `json:"battle_id"`
	State      BattleState `json:"state"`
	Finished   bool        `json:"finished"`
	Player1    string      `json:"player1"`
	Player2    string      `json:"player2"`
	Winner     string      `json:"winner,omitempty"`
	WinnerSide Side        `json:"winner_side"`
	Draw       bool        `json:"draw"`
	TurnNumber uint64      `json:"turn_number"`
	StakeTotal uint64      `json:"stake_total"`
	Settled    bool        `json:"settled"`
}

// OutcomeV1 returns the version 1 outcome view of the battle.
func (b *Battle) OutcomeV1() OutcomeV1 {
	finished := b.IsFinished()
	return OutcomeV1{
		Version:    OutcomeVersion1,
		BattleID:   b.ID,
		State:      b.State,
		Finished:   finished,
		Player1:    b.Player1.Identity,
		Player2:    b.Player2.Identity,
		Winner:     b.WinnerIdentity(),
		WinnerSide: b.Winner,
		Draw:       finished && b.Winner == SideNone,
		TurnNumber: b.TurnNumber,
		StakeTotal: b.StakeTotal,
		Settled:    b.Settled,
	}
}
