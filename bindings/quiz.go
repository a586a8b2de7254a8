package bindings

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/MJE43/rps-quiz/internal/engine"
	"github.com/MJE43/rps-quiz/internal/games"
)

const defaultRounds = 3

var (
	ErrNoGame         = errors.New("no game in progress")
	ErrRoundNotPlayed = errors.New("current round has not been played")
)

// QuizModule is the surface a front-end binds to. It owns one RoundEngine
// and serializes every call to it.
type QuizModule struct {
	mu     sync.Mutex
	logger *log.Logger
	stream *engine.Stream
	quiz   *games.RoundEngine
}

// QuizConfig configures NewGame. Zero Seeds means freshly generated seeds.
type QuizConfig struct {
	Rounds int          `json:"rounds"`
	Seeds  engine.Seeds `json:"seeds"`
	Nonce  uint64       `json:"nonce"`
}

// QuizStatus is the front-end-facing snapshot of the current game.
type QuizStatus struct {
	Game           games.State `json:"game"`
	ClientSeed     string      `json:"clientSeed"`
	ServerSeedHash string      `json:"serverSeedHash"`
	Nonce          uint64      `json:"nonce"`
}

// RoundPrompt is what the player sees before choosing a move.
type RoundPrompt struct {
	Round           int      `json:"round"`
	TotalRounds     int      `json:"totalRounds"`
	ComputerMove    string   `json:"computerMove"`
	RequiredOutcome string   `json:"requiredOutcome"`
	Lines           []string `json:"lines"`
}

// RoundFeedback reports a played round.
type RoundFeedback struct {
	Round           int    `json:"round"`
	PlayerMove      string `json:"playerMove"`
	ComputerMove    string `json:"computerMove"`
	RequiredOutcome string `json:"requiredOutcome"`
	Outcome         string `json:"outcome"`
	Correct         bool   `json:"correct"`
	Score           int    `json:"score"`
	LastRound       bool   `json:"lastRound"`
	Message         string `json:"message"`
}

// SeedReveal discloses the seeds of the finished seed pair.
type SeedReveal struct {
	ServerSeed     string     `json:"serverSeed"`
	ServerSeedHash string     `json:"serverSeedHash"`
	ClientSeed     string     `json:"clientSeed"`
	LastNonce      uint64     `json:"lastNonce"`
	Status         QuizStatus `json:"status"`
}

// NewQuizModule creates a QuizModule. A nil logger logs to stdout.
func NewQuizModule(logger *log.Logger) *QuizModule {
	if logger == nil {
		logger = log.New(os.Stdout, "[QUIZ] ", log.LstdFlags)
	}
	return &QuizModule{logger: logger}
}

// NewGame replaces any current game with a new one.
func (qm *QuizModule) NewGame(cfg QuizConfig) (QuizStatus, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if cfg.Rounds == 0 {
		cfg.Rounds = defaultRounds
	}
	seeds := cfg.Seeds
	if seeds.Server == "" || seeds.Client == "" {
		var err error
		if seeds, err = engine.RandomSeeds(); err != nil {
			return QuizStatus{}, err
		}
	}

	stream := engine.NewStream(seeds, cfg.Nonce)
	quiz, err := games.NewRoundEngine(cfg.Rounds, stream)
	if err != nil {
		qm.logger.Printf("new game rejected: %v", err)
		return QuizStatus{}, err
	}
	qm.stream = stream
	qm.quiz = quiz

	qm.logger.Printf("game %s started: %d rounds, nonce %d", quiz.GameID(), quiz.TotalRounds(), stream.Nonce())
	return qm.statusLocked(), nil
}

// Prompt returns the current round's question.
func (qm *QuizModule) Prompt() (RoundPrompt, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.quiz == nil {
		return RoundPrompt{}, ErrNoGame
	}
	computer, err := qm.quiz.CurrentComputerMove()
	if err != nil {
		return RoundPrompt{}, err
	}
	required, err := qm.quiz.CurrentRequiredOutcome()
	if err != nil {
		return RoundPrompt{}, err
	}

	return RoundPrompt{
		Round:           qm.quiz.CurrentRound(),
		TotalRounds:     qm.quiz.TotalRounds(),
		ComputerMove:    computer.String(),
		RequiredOutcome: required.String(),
		Lines: []string{
			fmt.Sprintf("If the computer chooses **%s**", computer),
			fmt.Sprintf("What do you play to **%s** the game?", required),
		},
	}, nil
}

// Play submits the player's move for the current round.
func (qm *QuizModule) Play(moveName string) (RoundFeedback, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.quiz == nil {
		return RoundFeedback{}, ErrNoGame
	}
	move, err := games.ParseMove(moveName)
	if err != nil {
		return RoundFeedback{}, err
	}
	computer, err := qm.quiz.CurrentComputerMove()
	if err != nil {
		return RoundFeedback{}, err
	}
	required, err := qm.quiz.CurrentRequiredOutcome()
	if err != nil {
		return RoundFeedback{}, err
	}

	res, err := qm.quiz.PlayRound(move)
	if err != nil {
		// Playing twice means the front-end lost track of the round.
		qm.logger.Printf("play rejected in game %s round %d: %v", qm.quiz.GameID(), qm.quiz.CurrentRound(), err)
		return RoundFeedback{}, err
	}

	fb := RoundFeedback{
		Round:           qm.quiz.CurrentRound(),
		PlayerMove:      move.String(),
		ComputerMove:    computer.String(),
		RequiredOutcome: required.String(),
		Outcome:         res.Outcome.String(),
		Correct:         res.Correct,
		Score:           qm.quiz.Score(),
		LastRound:       qm.quiz.IsLastRound(),
		Message:         feedbackMessage(move, computer, required, res),
	}
	if qm.quiz.IsComplete() {
		qm.logger.Printf("game %s complete: score %d/%d", qm.quiz.GameID(), qm.quiz.Score(), qm.quiz.TotalRounds())
	}
	return fb, nil
}

// Continue acknowledges a played round: it advances to the next round, or
// starts a new game with the same settings after the last one.
func (qm *QuizModule) Continue() (QuizStatus, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.quiz == nil {
		return QuizStatus{}, ErrNoGame
	}
	if !qm.quiz.RoundPlayed() {
		return QuizStatus{}, ErrRoundNotPlayed
	}
	if qm.quiz.IsLastRound() {
		qm.quiz.Reset()
	} else {
		qm.quiz.AdvanceRound()
	}
	return qm.statusLocked(), nil
}

// Reset abandons the current game and starts a new one.
func (qm *QuizModule) Reset() (QuizStatus, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.quiz == nil {
		return QuizStatus{}, ErrNoGame
	}
	qm.quiz.Reset()
	return qm.statusLocked(), nil
}

// Status returns the current game snapshot.
func (qm *QuizModule) Status() (QuizStatus, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.quiz == nil {
		return QuizStatus{}, ErrNoGame
	}
	return qm.statusLocked(), nil
}

// RotateSeeds reveals the current server seed and starts a new game on a
// fresh seed pair. An empty clientSeed generates one.
func (qm *QuizModule) RotateSeeds(clientSeed string) (SeedReveal, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if qm.quiz == nil {
		return SeedReveal{}, ErrNoGame
	}

	next, err := engine.RandomSeeds()
	if err != nil {
		return SeedReveal{}, err
	}
	if clientSeed != "" {
		next.Client = clientSeed
	}

	old := qm.stream.Seeds()
	reveal := SeedReveal{
		ServerSeed:     old.Server,
		ServerSeedHash: engine.HashServerSeed(old.Server),
		ClientSeed:     old.Client,
		LastNonce:      qm.stream.Nonce(),
	}

	stream := engine.NewStream(next, 0)
	quiz, err := games.NewRoundEngine(qm.quiz.TotalRounds(), stream)
	if err != nil {
		return SeedReveal{}, err
	}
	qm.stream = stream
	qm.quiz = quiz

	reveal.Status = qm.statusLocked()
	return reveal, nil
}

func (qm *QuizModule) statusLocked() QuizStatus {
	seeds := qm.stream.Seeds()
	return QuizStatus{
		Game:           qm.quiz.Snapshot(),
		ClientSeed:     seeds.Client,
		ServerSeedHash: engine.HashServerSeed(seeds.Server),
		Nonce:          qm.stream.Nonce(),
	}
}

func feedbackMessage(player, computer games.Move, required games.Outcome, res games.RoundResult) string {
	verdict := "Wrong!"
	if res.Correct {
		verdict = "Correct!"
	}
	var what string
	switch res.Outcome {
	case games.Win:
		what = fmt.Sprintf("%s beats %s", player, computer)
	case games.Lose:
		what = fmt.Sprintf("%s loses to %s", player, computer)
	default:
		what = fmt.Sprintf("%s ties with %s", player, computer)
	}
	if res.Correct {
		return fmt.Sprintf("%s %s.", verdict, what)
	}
	return fmt.Sprintf("%s %s, you needed to %s.", verdict, what, required.Verb())
}
