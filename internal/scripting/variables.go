package scripting

import (
	"github.com/dop251/goja"

	"github.com/MJE43/rps-quiz/internal/games"
)

// Variables is the game state a strategy script can read.
type Variables struct {
	Stats *Statistics

	GameID   string
	Round    int
	Rounds   int
	Score    int
	Computer games.Move
	Required games.Outcome

	// Zero until the first round of the session has been played.
	HasLast     bool
	LastMove    games.Move
	LastOutcome games.Outcome
	LastCorrect bool

	Running bool
}

// NewVariables creates variables bound to stats.
func NewVariables(stats *Statistics) *Variables {
	return &Variables{Stats: stats}
}

// injectConstants sets the move and outcome names on the JS runtime.
func injectConstants(vm *goja.Runtime) {
	vm.Set("ROCK", games.Rock.String())
	vm.Set("PAPER", games.Paper.String())
	vm.Set("SCISSORS", games.Scissors.String())

	vm.Set("WIN", games.Win.String())
	vm.Set("LOSE", games.Lose.String())
	vm.Set("DRAW", games.Draw.String())
}

// injectVariables sets all readable globals on the JS runtime. Scripts may
// assign to them but the values are overwritten before every call.
func injectVariables(vm *goja.Runtime, vars *Variables) {
	vm.Set("gameid", vars.GameID)
	vm.Set("round", vars.Round)
	vm.Set("rounds", vars.Rounds)
	vm.Set("score", vars.Score)
	vm.Set("computer", vars.Computer.String())
	vm.Set("required", vars.Required.String())
	vm.Set("running", vars.Running)

	if vars.HasLast {
		vm.Set("lastmove", vars.LastMove.String())
		vm.Set("lastoutcome", vars.LastOutcome.String())
		vm.Set("lastcorrect", vars.LastCorrect)
	} else {
		vm.Set("lastmove", goja.Null())
		vm.Set("lastoutcome", goja.Null())
		vm.Set("lastcorrect", false)
	}

	// Statistics aliases
	vm.Set("games", vars.Stats.Games)
	vm.Set("played", vars.Stats.Rounds)
	vm.Set("correct", vars.Stats.Correct)
	vm.Set("incorrect", vars.Stats.Incorrect)
	vm.Set("streak", vars.Stats.CurrentStreak)
	vm.Set("perfect", vars.Stats.PerfectGames)
}
