package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/MJE43/rps-quiz/bindings"
	"github.com/MJE43/rps-quiz/internal/config"
	"github.com/MJE43/rps-quiz/internal/engine"
	"github.com/MJE43/rps-quiz/internal/games"
	"github.com/MJE43/rps-quiz/internal/scripting"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	flag.IntVar(&cfg.Rounds, "rounds", cfg.Rounds, "rounds per game")
	flag.StringVar(&cfg.ServerSeed, "server-seed", cfg.ServerSeed, "server seed (random when empty)")
	flag.StringVar(&cfg.ClientSeed, "client-seed", cfg.ClientSeed, "client seed (random when empty)")
	flag.Uint64Var(&cfg.Nonce, "nonce", cfg.Nonce, "nonce of the first game")
	flag.StringVar(&cfg.Script, "script", cfg.Script, "JavaScript strategy file; plays automatically when set")
	flag.IntVar(&cfg.Games, "games", cfg.Games, "games to autoplay with -script (0 = until stop())")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := log.New(os.Stderr, cfg.LogPrefix, log.LstdFlags)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Script != "" {
		err = runScript(ctx, cfg, logger, os.Stdout)
	} else {
		err = runInteractive(cfg, logger, os.Stdin, os.Stdout)
	}
	if err != nil {
		logger.Fatalf("%v", err)
	}
}

func seedsFrom(cfg config.Config) engine.Seeds {
	if !cfg.HasSeeds() {
		return engine.Seeds{}
	}
	return engine.Seeds{Server: cfg.ServerSeed, Client: cfg.ClientSeed}
}

// runInteractive is the terminal front-end: it renders each prompt, reads a
// move per line and reveals the seeds when the player quits.
func runInteractive(cfg config.Config, logger *log.Logger, in io.Reader, out io.Writer) error {
	qm := bindings.NewQuizModule(logger)
	status, err := qm.NewGame(bindings.QuizConfig{Rounds: cfg.Rounds, Seeds: seedsFrom(cfg), Nonce: cfg.Nonce})
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Server seed hash: %s\nClient seed: %s\n", status.ServerSeedHash, status.ClientSeed)

	scanner := bufio.NewScanner(in)
	for {
		p, err := qm.Prompt()
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nRound %d of %d\n", p.Round, p.TotalRounds)
		for _, line := range p.Lines {
			fmt.Fprintln(out, strings.ReplaceAll(line, "**", ""))
		}

		fb, quit, err := readAndPlay(qm, scanner, out)
		if err != nil {
			return err
		}
		if quit {
			return reveal(qm, out)
		}
		fmt.Fprintf(out, "%s Score: %d\n", fb.Message, fb.Score)

		if fb.LastRound {
			fmt.Fprintf(out, "\nGame over! Final score %d/%d\n", fb.Score, p.TotalRounds)
			fmt.Fprint(out, "Play again? [y/N] ")
			if !scanner.Scan() || !strings.HasPrefix(strings.ToLower(strings.TrimSpace(scanner.Text())), "y") {
				return reveal(qm, out)
			}
		}
		if _, err := qm.Continue(); err != nil {
			return err
		}
	}
}

// readAndPlay reads lines until one is a valid move or a quit request.
func readAndPlay(qm *bindings.QuizModule, scanner *bufio.Scanner, out io.Writer) (bindings.RoundFeedback, bool, error) {
	for {
		fmt.Fprint(out, "Your move (rock/paper/scissors, q to quit): ")
		if !scanner.Scan() {
			return bindings.RoundFeedback{}, true, scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(text) {
		case "q", "quit", "exit":
			return bindings.RoundFeedback{}, true, nil
		}

		fb, err := qm.Play(text)
		if errors.Is(err, games.ErrInvalidMove) {
			fmt.Fprintf(out, "%q is not a move.\n", text)
			continue
		}
		return fb, false, err
	}
}

func reveal(qm *bindings.QuizModule, out io.Writer) error {
	r, err := qm.RotateSeeds("")
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\nServer seed: %s\nClient seed: %s\nLast nonce: %d\n", r.ServerSeed, r.ClientSeed, r.LastNonce)
	return nil
}

// runScript autoplays with a strategy file until it finishes or ctx ends.
func runScript(ctx context.Context, cfg config.Config, logger *log.Logger, out io.Writer) error {
	src, err := os.ReadFile(cfg.Script)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	sm := bindings.NewScriptModule(logger)
	err = sm.StartScript(bindings.ScriptRequest{
		Script:   string(src),
		Rounds:   cfg.Rounds,
		MaxGames: cfg.Games,
		Seeds:    seedsFrom(cfg),
		Nonce:    cfg.Nonce,
	})
	if err != nil {
		return err
	}

	finished := make(chan struct{})
	go func() {
		sm.WaitScript()
		close(finished)
	}()
	select {
	case <-finished:
	case <-ctx.Done():
		if err := sm.StopScript(); err != nil && !errors.Is(err, scripting.ErrNotRunning) {
			logger.Printf("stop: %v", err)
		}
		<-finished
	}

	st := sm.GetScriptState()
	fmt.Fprintf(out, "state=%s games=%d rounds=%d correct=%d perfect=%d best=%d accuracy=%s%%\n",
		st.State, st.Games, st.Rounds, st.Correct, st.PerfectGames, st.BestScore, st.Accuracy)
	if st.Error != "" {
		return errors.New(st.Error)
	}
	return nil
}
