package bindings

import (
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/MJE43/rps-quiz/internal/engine"
	"github.com/MJE43/rps-quiz/internal/games"
)

var fixedSeeds = engine.Seeds{Server: "bindings_server", Client: "bindings_client"}

func newTestQuiz(t *testing.T) *QuizModule {
	t.Helper()
	qm := NewQuizModule(log.New(io.Discard, "", 0))
	if _, err := qm.NewGame(QuizConfig{Rounds: 3, Seeds: fixedSeeds}); err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	return qm
}

func correctMove(t *testing.T, p RoundPrompt) string {
	t.Helper()
	c, err := games.ParseMove(p.ComputerMove)
	if err != nil {
		t.Fatal(err)
	}
	o, err := games.ParseOutcome(p.RequiredOutcome)
	if err != nil {
		t.Fatal(err)
	}
	return games.Answer(c, o).String()
}

func TestQuizRequiresGame(t *testing.T) {
	qm := NewQuizModule(log.New(io.Discard, "", 0))

	if _, err := qm.Prompt(); !errors.Is(err, ErrNoGame) {
		t.Errorf("Prompt error = %v", err)
	}
	if _, err := qm.Play("rock"); !errors.Is(err, ErrNoGame) {
		t.Errorf("Play error = %v", err)
	}
	if _, err := qm.Continue(); !errors.Is(err, ErrNoGame) {
		t.Errorf("Continue error = %v", err)
	}
	if _, err := qm.Status(); !errors.Is(err, ErrNoGame) {
		t.Errorf("Status error = %v", err)
	}
}

func TestQuizNewGameDefaults(t *testing.T) {
	qm := NewQuizModule(log.New(io.Discard, "", 0))
	st, err := qm.NewGame(QuizConfig{})
	if err != nil {
		t.Fatalf("NewGame failed: %v", err)
	}
	if st.Game.TotalRounds != 3 || st.Game.CurrentRound != 1 || st.Game.Score != 0 {
		t.Errorf("unexpected status: %+v", st.Game)
	}
	if st.ClientSeed == "" || len(st.ServerSeedHash) != 64 {
		t.Errorf("random seeds missing: %+v", st)
	}

	if _, err := qm.NewGame(QuizConfig{Rounds: -1}); !errors.Is(err, games.ErrInvalidConfiguration) {
		t.Errorf("negative rounds error = %v", err)
	}
}

func TestQuizFullGame(t *testing.T) {
	qm := newTestQuiz(t)
	first, _ := qm.Status()

	for round := 1; round <= 3; round++ {
		p, err := qm.Prompt()
		if err != nil {
			t.Fatalf("Prompt failed: %v", err)
		}
		if p.Round != round || p.TotalRounds != 3 {
			t.Fatalf("prompt round %d/%d", p.Round, p.TotalRounds)
		}

		fb, err := qm.Play(correctMove(t, p))
		if err != nil {
			t.Fatalf("Play failed: %v", err)
		}
		if !fb.Correct || fb.Score != round || fb.Outcome != p.RequiredOutcome {
			t.Errorf("round %d feedback: %+v", round, fb)
		}
		if fb.LastRound != (round == 3) {
			t.Errorf("round %d LastRound = %v", round, fb.LastRound)
		}

		st, err := qm.Continue()
		if err != nil {
			t.Fatalf("Continue failed: %v", err)
		}
		if round < 3 && st.Game.CurrentRound != round+1 {
			t.Errorf("expected round %d, got %d", round+1, st.Game.CurrentRound)
		}
		if round == 3 {
			if st.Game.CurrentRound != 1 || st.Game.Score != 0 || len(st.Game.History) != 0 {
				t.Errorf("expected fresh game, got %+v", st.Game)
			}
			if st.Game.GameID == first.Game.GameID || st.Nonce != first.Nonce+1 {
				t.Errorf("new game should use a new id and the next nonce: %+v", st)
			}
		}
	}
}

func TestQuizPlayTwice(t *testing.T) {
	qm := newTestQuiz(t)

	if _, err := qm.Play("rock"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if _, err := qm.Play("paper"); !errors.Is(err, games.ErrRoundAlreadyPlayed) {
		t.Errorf("second Play error = %v, want ErrRoundAlreadyPlayed", err)
	}
}

func TestQuizContinueBeforePlay(t *testing.T) {
	qm := newTestQuiz(t)

	if _, err := qm.Continue(); !errors.Is(err, ErrRoundNotPlayed) {
		t.Errorf("Continue error = %v, want ErrRoundNotPlayed", err)
	}
}

func TestQuizInvalidMove(t *testing.T) {
	qm := newTestQuiz(t)

	if _, err := qm.Play("lizard"); !errors.Is(err, games.ErrInvalidMove) {
		t.Errorf("Play error = %v, want ErrInvalidMove", err)
	}
	st, _ := qm.Status()
	if st.Game.Phase != games.PhaseAwaitingMove {
		t.Errorf("invalid move should leave the round open, phase %s", st.Game.Phase)
	}
}

func TestQuizDrawIsNeverCorrect(t *testing.T) {
	qm := newTestQuiz(t)

	p, _ := qm.Prompt()
	fb, err := qm.Play(p.ComputerMove)
	if err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if fb.Outcome != "Draw" || fb.Correct || fb.Score != 0 {
		t.Errorf("mirroring the computer should draw and be wrong: %+v", fb)
	}
	if !strings.HasPrefix(fb.Message, "Wrong!") {
		t.Errorf("message = %q", fb.Message)
	}
}

func TestQuizSeedsAreDeterministic(t *testing.T) {
	a := newTestQuiz(t)
	b := newTestQuiz(t)

	pa, _ := a.Prompt()
	pb, _ := b.Prompt()
	if pa.ComputerMove != pb.ComputerMove || pa.RequiredOutcome != pb.RequiredOutcome {
		t.Errorf("same seeds gave %+v and %+v", pa, pb)
	}
}

func TestQuizPromptLines(t *testing.T) {
	qm := newTestQuiz(t)
	p, _ := qm.Prompt()

	if len(p.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(p.Lines))
	}
	if p.Lines[0] != "If the computer chooses **"+p.ComputerMove+"**" {
		t.Errorf("line 0 = %q", p.Lines[0])
	}
	if p.Lines[1] != "What do you play to **"+p.RequiredOutcome+"** the game?" {
		t.Errorf("line 1 = %q", p.Lines[1])
	}
}

func TestQuizRotateSeeds(t *testing.T) {
	qm := newTestQuiz(t)
	before, _ := qm.Status()

	reveal, err := qm.RotateSeeds("my-client-seed")
	if err != nil {
		t.Fatalf("RotateSeeds failed: %v", err)
	}
	if reveal.ServerSeed != fixedSeeds.Server || reveal.ClientSeed != fixedSeeds.Client {
		t.Errorf("revealed wrong seeds: %+v", reveal)
	}
	if reveal.ServerSeedHash != before.ServerSeedHash {
		t.Error("revealed seed does not match the committed hash")
	}
	if reveal.Status.ClientSeed != "my-client-seed" || reveal.Status.ServerSeedHash == before.ServerSeedHash {
		t.Errorf("new seed pair not applied: %+v", reveal.Status)
	}
	if reveal.Status.Nonce != 0 || reveal.Status.Game.TotalRounds != 3 {
		t.Errorf("new game should restart at nonce 0 with the same rounds: %+v", reveal.Status)
	}
}

func TestFeedbackMessage(t *testing.T) {
	tests := []struct {
		player, computer games.Move
		required         games.Outcome
		want             string
	}{
		{games.Paper, games.Rock, games.Win, "Correct! Paper beats Rock."},
		{games.Rock, games.Paper, games.Lose, "Correct! Rock loses to Paper."},
		{games.Paper, games.Paper, games.Lose, "Wrong! Paper ties with Paper, you needed to lose."},
		{games.Scissors, games.Rock, games.Win, "Wrong! Scissors loses to Rock, you needed to win."},
	}
	for _, tt := range tests {
		outcome := games.Resolve(tt.player, tt.computer)
		res := games.RoundResult{Outcome: outcome, Correct: outcome == tt.required}
		if got := feedbackMessage(tt.player, tt.computer, tt.required, res); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}
