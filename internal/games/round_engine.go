package games

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/MJE43/rps-quiz/internal/engine"
)

// Source supplies the randomness for a game's precomputed rounds.
type Source interface {
	// Intn returns a uniformly distributed value in [0, n).
	Intn(n int) int
}

// GameSource is an optional extension for sources that key every generated
// game separately, such as engine.Stream which moves to the next nonce.
type GameSource interface {
	Source
	NewGame()
}

// Phase is the position of the engine in the per-round state machine.
type Phase string

const (
	PhaseAwaitingMove  Phase = "awaiting_move"
	PhaseRoundResolved Phase = "round_resolved"
	PhaseGameComplete  Phase = "game_complete"
)

// RoundResult is what PlayRound reports back for round feedback.
type RoundResult struct {
	Outcome Outcome `json:"outcome"`
	Correct bool    `json:"correct"`
}

// RoundEngine owns the state of one quiz game: the computer moves and
// required outcomes fixed up front, and the player's history so far.
//
// A RoundEngine is not safe for concurrent use.
type RoundEngine struct {
	src         Source
	gameID      uuid.UUID
	totalRounds int
	currentRnd  int

	computerMoves    []Move
	requiredOutcomes []Outcome

	playerMoves      []Move
	achievedOutcomes []Outcome
	roundCorrect     []bool
	score            int
}

// NewRoundEngine creates a game of totalRounds rounds drawn from src. A nil
// src draws from a seeded stream with freshly generated seeds.
func NewRoundEngine(totalRounds int, src Source) (*RoundEngine, error) {
	if totalRounds <= 0 {
		return nil, fmt.Errorf("%w: total rounds must be positive, got %d", ErrInvalidConfiguration, totalRounds)
	}
	if src == nil {
		seeds, err := engine.RandomSeeds()
		if err != nil {
			return nil, err
		}
		src = engine.NewStream(seeds, 0)
	}

	e := &RoundEngine{
		src:         src,
		totalRounds: totalRounds,
	}
	e.generate()
	return e, nil
}

// generate puts the engine in its post-construction state with a fresh game.
func (e *RoundEngine) generate() {
	if gs, ok := e.src.(GameSource); ok {
		gs.NewGame()
	}

	e.gameID = uuid.New()
	e.currentRnd = 1
	e.computerMoves = make([]Move, e.totalRounds)
	e.requiredOutcomes = make([]Outcome, e.totalRounds)
	for i := 0; i < e.totalRounds; i++ {
		e.computerMoves[i] = Move(e.src.Intn(moveCount))
		e.requiredOutcomes[i] = Outcome(e.src.Intn(requiredOutcomeCount))
	}

	e.playerMoves = make([]Move, 0, e.totalRounds)
	e.achievedOutcomes = make([]Outcome, 0, e.totalRounds)
	e.roundCorrect = make([]bool, 0, e.totalRounds)
	e.score = 0
}

// CurrentComputerMove returns the computer's move for the current round.
func (e *RoundEngine) CurrentComputerMove() (Move, error) {
	idx, err := e.currentIndex()
	if err != nil {
		return 0, err
	}
	return e.computerMoves[idx], nil
}

// CurrentRequiredOutcome returns the outcome the player must achieve this round.
func (e *RoundEngine) CurrentRequiredOutcome() (Outcome, error) {
	idx, err := e.currentIndex()
	if err != nil {
		return 0, err
	}
	return e.requiredOutcomes[idx], nil
}

func (e *RoundEngine) currentIndex() (int, error) {
	idx := e.currentRnd - 1
	if idx < 0 || idx >= len(e.computerMoves) || idx >= len(e.requiredOutcomes) {
		return 0, fmt.Errorf("%w: round %d of %d", ErrOutOfRange, e.currentRnd, e.totalRounds)
	}
	return idx, nil
}

// PlayRound records the player's move for the current round, resolves it
// against the computer's move and scores it against the required outcome.
// It never changes the current round.
func (e *RoundEngine) PlayRound(player Move) (RoundResult, error) {
	if !player.Valid() {
		return RoundResult{}, fmt.Errorf("%w: %d", ErrInvalidMove, int(player))
	}
	if len(e.playerMoves) != e.currentRnd-1 {
		return RoundResult{}, fmt.Errorf("%w: round %d", ErrRoundAlreadyPlayed, e.currentRnd)
	}
	idx, err := e.currentIndex()
	if err != nil {
		return RoundResult{}, err
	}

	outcome := Resolve(player, e.computerMoves[idx])
	correct := outcome == e.requiredOutcomes[idx]

	e.playerMoves = append(e.playerMoves, player)
	e.achievedOutcomes = append(e.achievedOutcomes, outcome)
	e.roundCorrect = append(e.roundCorrect, correct)
	if correct {
		e.score++
	}

	return RoundResult{Outcome: outcome, Correct: correct}, nil
}

// AdvanceRound moves to the next round and reports true, or reports false
// without changing anything when the current round is the last one. It does
// not check that the current round was played.
func (e *RoundEngine) AdvanceRound() bool {
	if e.currentRnd >= e.totalRounds {
		return false
	}
	e.currentRnd++
	return true
}

// IsLastRound reports whether the current round is the final one.
func (e *RoundEngine) IsLastRound() bool {
	return e.currentRnd == e.totalRounds
}

// RoundPlayed reports whether the current round already has a player move.
func (e *RoundEngine) RoundPlayed() bool {
	return len(e.playerMoves) == e.currentRnd
}

// IsComplete reports whether the last round has been played.
func (e *RoundEngine) IsComplete() bool {
	return e.IsLastRound() && e.RoundPlayed()
}

// Phase derives the state machine position from the recorded history.
func (e *RoundEngine) Phase() Phase {
	switch {
	case e.IsComplete():
		return PhaseGameComplete
	case e.RoundPlayed():
		return PhaseRoundResolved
	default:
		return PhaseAwaitingMove
	}
}

// Reset starts a new game with the same number of rounds and freshly drawn
// computer moves and required outcomes.
func (e *RoundEngine) Reset() {
	e.generate()
}

// TotalRounds is the fixed number of rounds per game.
func (e *RoundEngine) TotalRounds() int { return e.totalRounds }

// CurrentRound is the 1-indexed round being played.
func (e *RoundEngine) CurrentRound() int { return e.currentRnd }

// Score counts the rounds whose achieved outcome matched the required one.
func (e *RoundEngine) Score() int { return e.score }

// GameID identifies the current game; it changes on every Reset.
func (e *RoundEngine) GameID() uuid.UUID { return e.gameID }

// The slice accessors below return copies; callers may modify them freely.

// ComputerMoves returns the computer move of every round in the game.
func (e *RoundEngine) ComputerMoves() []Move {
	return append([]Move(nil), e.computerMoves...)
}

// RequiredOutcomes returns the outcome the player must achieve in every round.
func (e *RoundEngine) RequiredOutcomes() []Outcome {
	return append([]Outcome(nil), e.requiredOutcomes...)
}

// PlayerMoves returns the moves played so far, one per completed round.
func (e *RoundEngine) PlayerMoves() []Move {
	return append([]Move(nil), e.playerMoves...)
}

// AchievedOutcomes returns the resolved outcome of every completed round.
func (e *RoundEngine) AchievedOutcomes() []Outcome {
	return append([]Outcome(nil), e.achievedOutcomes...)
}

// RoundCorrect reports, per completed round, whether the player was correct.
func (e *RoundEngine) RoundCorrect() []bool {
	return append([]bool(nil), e.roundCorrect...)
}
