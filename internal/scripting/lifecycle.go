package scripting

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MJE43/rps-quiz/internal/games"
)

// State represents the scripting engine's lifecycle state.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StateStopped State = "stopped"
	StateError   State = "error"
)

var (
	ErrAlreadyRunning = errors.New("engine is already running")
	ErrNotRunning     = errors.New("engine is not running")
)

// EventEmitter allows the engine to push state updates to a front-end.
type EventEmitter interface {
	// EmitScriptState sends the current engine state.
	EmitScriptState(state EngineSnapshot)
	// EmitScriptLog sends the log entries produced by the script since the
	// previous call, oldest first.
	EmitScriptLog(entries []LogEntry)
}

// Options configure a scripted session.
type Options struct {
	// Rounds per game. Defaults to 3.
	Rounds int
	// MaxGames stops the session after that many completed games; zero runs
	// until the script calls stop() or the engine is stopped.
	MaxGames int
	// Source draws the computer moves and required outcomes. Nil uses
	// random seeds.
	Source games.Source
}

const defaultRounds = 3

// EngineSnapshot is a serializable snapshot of the engine state.
type EngineSnapshot struct {
	State           State           `json:"state"`
	Error           string          `json:"error,omitempty"`
	Stats           *Statistics     `json:"stats"`
	Accuracy        decimal.Decimal `json:"accuracy"`
	Game            *games.State    `json:"game,omitempty"`
	RoundsPerSecond float64         `json:"roundsPerSecond"`
}

// Engine runs a strategy script against its own RoundEngine: the script's
// choose() picks each move, and finished games are reset and replayed.
type Engine struct {
	mu     sync.RWMutex
	state  State
	err    error
	cancel context.CancelFunc
	done   chan struct{}

	vm    *VM
	vars  *Variables
	stats *Statistics
	quiz  *games.RoundEngine

	maxGames int
	emitter  EventEmitter
	logger   *log.Logger

	startTime time.Time
	lastEmit  time.Time
	lastLog   uint64
}

// NewEngine creates a new scripting engine. Both arguments may be nil.
func NewEngine(emitter EventEmitter, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(os.Stderr, "[SCRIPT] ", log.LstdFlags)
	}
	return &Engine{
		state:   StateIdle,
		emitter: emitter,
		logger:  logger,
	}
}

// Run executes script synchronously until it stops, MaxGames is reached or
// ctx is cancelled. A normal stop returns nil.
func (e *Engine) Run(ctx context.Context, script string, opts Options) error {
	ctx, err := e.prepare(ctx, script, opts)
	if err != nil {
		return err
	}
	return e.loop(ctx)
}

// Start is like Run but the play loop runs in the background. Script
// compilation errors are still returned directly.
func (e *Engine) Start(script string, opts Options) error {
	ctx, err := e.prepare(context.Background(), script, opts)
	if err != nil {
		return err
	}
	go e.loop(ctx)
	return nil
}

// prepare compiles the script and builds a fresh RoundEngine for it.
func (e *Engine) prepare(parent context.Context, script string, opts Options) (context.Context, error) {
	if opts.Rounds == 0 {
		opts.Rounds = defaultRounds
	}
	if opts.MaxGames < 0 {
		return nil, fmt.Errorf("%w: max games must not be negative", games.ErrInvalidConfiguration)
	}

	e.mu.Lock()
	if e.state == StateRunning {
		e.mu.Unlock()
		return nil, ErrAlreadyRunning
	}

	quiz, err := games.NewRoundEngine(opts.Rounds, opts.Source)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	e.quiz = quiz
	e.stats = NewStatistics()
	e.vars = NewVariables(e.stats)
	e.vm = NewVM()
	e.maxGames = opts.MaxGames
	e.state = StateRunning
	e.err = nil
	e.startTime = time.Now()
	e.lastLog = 0
	e.done = make(chan struct{})

	ctx, cancel := context.WithCancel(parent)
	e.cancel = cancel
	e.refreshVarsLocked()
	e.mu.Unlock()

	e.vm.SetVariables(e.vars)

	if err := e.vm.Execute(script); err != nil {
		e.abort(err)
		return nil, err
	}
	if !e.vm.HasFunc("choose") {
		err := fmt.Errorf("script must define a choose() function")
		e.abort(err)
		return nil, err
	}

	e.emitState()
	return ctx, nil
}

// Stop gracefully stops a running engine. It returns ErrNotRunning when no
// session is running, including one that just finished on its own.
func (e *Engine) Stop() error {
	e.mu.Lock()
	if e.state != StateRunning {
		e.mu.Unlock()
		return ErrNotRunning
	}
	if e.cancel != nil {
		e.cancel()
	}
	done := e.done
	e.mu.Unlock()

	<-done
	return nil
}

// Wait blocks until the current play loop has exited.
func (e *Engine) Wait() {
	e.mu.RLock()
	done := e.done
	e.mu.RUnlock()
	if done != nil {
		<-done
	}
}

// GetState returns the current engine snapshot.
func (e *Engine) GetState() EngineSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot()
}

// GetLogs returns the script log buffer.
func (e *Engine) GetLogs() []LogEntry {
	e.mu.RLock()
	vm := e.vm
	e.mu.RUnlock()
	if vm == nil {
		return nil
	}
	return vm.GetLogs()
}

func (e *Engine) loop(ctx context.Context) (err error) {
	defer close(e.done)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("script panic: %v", r)
			e.fail(err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			e.finish("cancelled")
			return nil
		default:
		}

		if e.vm.IsStopRequested() {
			e.finish("stop() called")
			return nil
		}

		// 1. Ask the strategy for a move.
		move, err := e.vm.CallChoose()
		if err != nil {
			e.fail(err)
			return err
		}

		// 2. Play it and update statistics under the write lock.
		e.mu.Lock()
		res, err := e.quiz.PlayRound(move)
		if err != nil {
			e.mu.Unlock()
			e.fail(err)
			return err
		}
		e.stats.RecordRound(res.Correct)
		e.vars.HasLast = true
		e.vars.LastMove = move
		e.vars.LastOutcome = res.Outcome
		e.vars.LastCorrect = res.Correct

		gameOver := e.quiz.IsComplete()
		if gameOver {
			e.stats.RecordGame(e.quiz.Score(), e.quiz.TotalRounds())
		}
		e.refreshVarsLocked()
		e.mu.Unlock()
		e.vm.SetVariables(e.vars)

		// 3. Let the script see the finished game before it is replaced.
		if gameOver {
			if err := e.vm.CallGameOver(); err != nil {
				e.fail(err)
				return err
			}
		}

		// 4. Move on: next round, or a fresh game.
		e.mu.Lock()
		reachedMax := false
		if gameOver {
			reachedMax = e.maxGames > 0 && e.stats.Games >= e.maxGames
			if !reachedMax {
				e.quiz.Reset()
			}
		} else {
			e.quiz.AdvanceRound()
		}
		e.refreshVarsLocked()
		e.mu.Unlock()

		if reachedMax {
			e.finish(fmt.Sprintf("played %d games", e.maxGames))
			return nil
		}

		e.vm.SetVariables(e.vars)
		e.throttledEmitState()
	}
}

// refreshVarsLocked copies the current prompt into vars. Caller holds e.mu.
func (e *Engine) refreshVarsLocked() {
	e.vars.GameID = e.quiz.GameID().String()
	e.vars.Round = e.quiz.CurrentRound()
	e.vars.Rounds = e.quiz.TotalRounds()
	e.vars.Score = e.quiz.Score()
	e.vars.Running = e.state == StateRunning
	if m, err := e.quiz.CurrentComputerMove(); err == nil {
		e.vars.Computer = m
	}
	if o, err := e.quiz.CurrentRequiredOutcome(); err == nil {
		e.vars.Required = o
	}
}

func (e *Engine) finish(reason string) {
	e.mu.Lock()
	if e.state == StateRunning {
		e.state = StateStopped
	}
	e.vars.Running = false
	stats := *e.stats
	e.mu.Unlock()

	e.logger.Printf("script stopped (%s): games=%d rounds=%d accuracy=%s%%",
		reason, stats.Games, stats.Rounds, stats.Accuracy().StringFixed(2))
	e.emitState()
}

func (e *Engine) fail(err error) {
	e.mu.Lock()
	e.state = StateError
	e.err = err
	if e.vars != nil {
		e.vars.Running = false
	}
	if e.cancel != nil {
		e.cancel()
	}
	e.mu.Unlock()

	e.logger.Printf("script error: %v", err)
	e.emitState()
}

// abort fails a session whose play loop never started.
func (e *Engine) abort(err error) {
	e.fail(err)
	close(e.done)
}

func (e *Engine) snapshot() EngineSnapshot {
	snap := EngineSnapshot{
		State: e.state,
	}
	if e.err != nil {
		snap.Error = e.err.Error()
	}
	if e.stats != nil {
		statsCopy := *e.stats
		snap.Stats = &statsCopy
		snap.Accuracy = statsCopy.Accuracy()
	}
	if e.quiz != nil {
		st := e.quiz.Snapshot()
		snap.Game = &st
	}
	if e.state == StateRunning && e.stats != nil && e.stats.Rounds > 0 {
		elapsed := time.Since(e.startTime).Seconds()
		if elapsed > 0 {
			snap.RoundsPerSecond = float64(e.stats.Rounds) / elapsed
		}
	}
	return snap
}

func (e *Engine) emitState() {
	if e.emitter == nil {
		return
	}
	e.mu.RLock()
	snap := e.snapshot()
	vm := e.vm
	e.mu.RUnlock()
	e.emitter.EmitScriptState(snap)

	if vm != nil {
		if logs := vm.LogsSince(e.lastLog); len(logs) > 0 {
			e.emitter.EmitScriptLog(logs)
			e.lastLog = logs[len(logs)-1].Seq
		}
	}
	e.lastEmit = time.Now()
}

// throttledEmitState only emits if at least 100ms have passed since the last emission.
func (e *Engine) throttledEmitState() {
	if time.Since(e.lastEmit) < 100*time.Millisecond {
		return
	}
	e.emitState()
}
