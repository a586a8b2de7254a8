package games

// RoundView is one completed round as shown to the player.
type RoundView struct {
	Round           int    `json:"round"`
	ComputerMove    string `json:"computer_move"`
	RequiredOutcome string `json:"required_outcome"`
	PlayerMove      string `json:"player_move"`
	Outcome         string `json:"outcome"`
	Correct         bool   `json:"correct"`
}

// State is a serializable snapshot of a RoundEngine. Upcoming computer moves
// are deliberately left out; only the current round's prompt is exposed.
type State struct {
	GameID          string      `json:"game_id"`
	Phase           Phase       `json:"phase"`
	TotalRounds     int         `json:"total_rounds"`
	CurrentRound    int         `json:"current_round"`
	Score           int         `json:"score"`
	ComputerMove    string      `json:"computer_move"`
	RequiredOutcome string      `json:"required_outcome"`
	LastRound       bool        `json:"last_round"`
	History         []RoundView `json:"history"`
}

// Snapshot returns the engine state for rendering.
func (e *RoundEngine) Snapshot() State {
	st := State{
		GameID:       e.gameID.String(),
		Phase:        e.Phase(),
		TotalRounds:  e.totalRounds,
		CurrentRound: e.currentRnd,
		Score:        e.score,
		LastRound:    e.IsLastRound(),
		History:      make([]RoundView, len(e.playerMoves)),
	}
	if m, err := e.CurrentComputerMove(); err == nil {
		st.ComputerMove = m.String()
	}
	if o, err := e.CurrentRequiredOutcome(); err == nil {
		st.RequiredOutcome = o.String()
	}
	for i := range e.playerMoves {
		st.History[i] = RoundView{
			Round:           i + 1,
			ComputerMove:    e.computerMoves[i].String(),
			RequiredOutcome: e.requiredOutcomes[i].String(),
			PlayerMove:      e.playerMoves[i].String(),
			Outcome:         e.achievedOutcomes[i].String(),
			Correct:         e.roundCorrect[i],
		}
	}
	return st
}
