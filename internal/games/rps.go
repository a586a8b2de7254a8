package games

import (
	"fmt"
	"strings"
)

// Move is a rock-paper-scissors hand. The encoding matters: Resolve relies on
// each move beating the one encoded directly below it, modulo 3.
type Move int

const (
	Rock Move = iota
	Paper
	Scissors
)

const moveCount = 3

// Outcome is the result of a round from the player's point of view.
type Outcome int

const (
	Win Outcome = iota
	Lose
	Draw
)

// requiredOutcomeCount limits required outcomes to Win and Lose.
const requiredOutcomeCount = 2

var moveNames = [...]string{"Rock", "Paper", "Scissors"}

var outcomeNames = [...]string{"Win", "Lose", "Draw"}

// Moves returns every move in encoding order.
func Moves() []Move {
	return []Move{Rock, Paper, Scissors}
}

// Valid reports whether m is one of Rock, Paper or Scissors.
func (m Move) Valid() bool {
	return m >= Rock && m <= Scissors
}

func (m Move) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Move(%d)", int(m))
	}
	return moveNames[m]
}

// Valid reports whether o is one of Win, Lose or Draw.
func (o Outcome) Valid() bool {
	return o >= Win && o <= Draw
}

func (o Outcome) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Verb is the lowercase form used in prompts ("what do you play to win").
func (o Outcome) Verb() string {
	return strings.ToLower(o.String())
}

// ParseMove accepts a move name or its first letter, case-insensitively.
func ParseMove(s string) (Move, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rock", "r":
		return Rock, nil
	case "paper", "p":
		return Paper, nil
	case "scissors", "scissor", "s":
		return Scissors, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMove, s)
}

// ParseOutcome accepts an outcome name, case-insensitively.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win":
		return Win, nil
	case "lose":
		return Lose, nil
	case "draw":
		return Draw, nil
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// Resolve scores player against computer. Equal moves draw; otherwise the
// player wins iff (player - computer) mod 3 == 1.
func Resolve(player, computer Move) Outcome {
	if player == computer {
		return Draw
	}
	if mod(int(player)-int(computer), moveCount) == 1 {
		return Win
	}
	return Lose
}

// Answer returns the move that produces required against computer.
func Answer(computer Move, required Outcome) Move {
	switch required {
	case Win:
		return Move(mod(int(computer)+1, moveCount))
	case Lose:
		return Move(mod(int(computer)-1, moveCount))
	default:
		return computer
	}
}

func mod(a, n int) int {
	return ((a % n) + n) % n
}
