package bindings

import (
	"errors"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/MJE43/rps-quiz/internal/engine"
	"github.com/MJE43/rps-quiz/internal/scripting"
)

// ScriptModule manages scripted autoplay sessions for a front-end.
type ScriptModule struct {
	mu      sync.RWMutex
	engine  *scripting.Engine
	logger  *log.Logger
	emitter *scriptEmitter
}

// ScriptRequest describes an autoplay session. Zero Seeds means random.
type ScriptRequest struct {
	Script   string       `json:"script"`
	Rounds   int          `json:"rounds"`
	MaxGames int          `json:"maxGames"`
	Seeds    engine.Seeds `json:"seeds"`
	Nonce    uint64       `json:"nonce"`
}

// ScriptState is the front-end-facing snapshot of engine state.
type ScriptState struct {
	State           string  `json:"state"`
	Error           string  `json:"error,omitempty"`
	Games           int     `json:"games"`
	Rounds          int     `json:"rounds"`
	Correct         int     `json:"correct"`
	Incorrect       int     `json:"incorrect"`
	PerfectGames    int     `json:"perfectGames"`
	BestScore       int     `json:"bestScore"`
	CurrentStreak   int     `json:"currentStreak"`
	Accuracy        string  `json:"accuracy"`
	RoundsPerSecond float64 `json:"roundsPerSecond"`
}

// scriptEmitter forwards engine events to the module logger: state changes
// and script log lines it has not printed yet.
type scriptEmitter struct {
	mu      sync.Mutex
	logger  *log.Logger
	state   scripting.State
	lastSeq uint64
}

func (e *scriptEmitter) EmitScriptState(state scripting.EngineSnapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if state.State == e.state {
		return
	}
	if state.Error != "" {
		e.logger.Printf("script %s: %s", state.State, state.Error)
	} else {
		e.logger.Printf("script %s", state.State)
	}
	e.state = state.State
}

func (e *scriptEmitter) EmitScriptLog(entries []scripting.LogEntry) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, entry := range entries {
		if entry.Seq <= e.lastSeq {
			continue
		}
		e.logger.Printf("script: %s", entry.Message)
		e.lastSeq = entry.Seq
	}
}

// reset forgets the previous session; a new VM numbers its lines from 1.
func (e *scriptEmitter) reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSeq = 0
}

// NewScriptModule creates a ScriptModule. A nil logger logs to stdout.
func NewScriptModule(logger *log.Logger) *ScriptModule {
	if logger == nil {
		logger = log.New(os.Stdout, "[SCRIPT] ", log.LstdFlags)
	}
	emitter := &scriptEmitter{logger: logger}
	return &ScriptModule{
		logger:  logger,
		emitter: emitter,
		engine:  scripting.NewEngine(emitter, logger),
	}
}

// StartScript starts a background autoplay session, stopping any running one.
func (sm *ScriptModule) StartScript(req ScriptRequest) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if err := stopIfRunning(sm.engine); err != nil {
		return fmt.Errorf("failed to stop running script: %w", err)
	}

	sm.emitter.reset()
	opts := scripting.Options{Rounds: req.Rounds, MaxGames: req.MaxGames}
	if req.Seeds.Server != "" && req.Seeds.Client != "" {
		opts.Source = engine.NewStream(req.Seeds, req.Nonce)
	}

	if err := sm.engine.Start(req.Script, opts); err != nil {
		return fmt.Errorf("failed to start script: %w", err)
	}
	sm.logger.Printf("script started: rounds=%d maxGames=%d", req.Rounds, req.MaxGames)
	return nil
}

// stopIfRunning stops eng; a session that already ended is not an error.
func stopIfRunning(eng *scripting.Engine) error {
	if err := eng.Stop(); err != nil && !errors.Is(err, scripting.ErrNotRunning) {
		return err
	}
	return nil
}

// StopScript stops the running session.
func (sm *ScriptModule) StopScript() error {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return sm.engine.Stop()
}

// WaitScript blocks until the current session ends on its own.
func (sm *ScriptModule) WaitScript() {
	sm.mu.RLock()
	eng := sm.engine
	sm.mu.RUnlock()
	eng.Wait()
}

// GetScriptState returns the current session state.
func (sm *ScriptModule) GetScriptState() ScriptState {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return toScriptState(sm.engine.GetState())
}

// GetScriptLogs returns messages the script wrote with log().
func (sm *ScriptModule) GetScriptLogs() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	entries := sm.engine.GetLogs()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func toScriptState(snap scripting.EngineSnapshot) ScriptState {
	st := ScriptState{
		State:           string(snap.State),
		Error:           snap.Error,
		Accuracy:        snap.Accuracy.StringFixed(2),
		RoundsPerSecond: snap.RoundsPerSecond,
	}
	if s := snap.Stats; s != nil {
		st.Games = s.Games
		st.Rounds = s.Rounds
		st.Correct = s.Correct
		st.Incorrect = s.Incorrect
		st.PerfectGames = s.PerfectGames
		st.BestScore = s.BestScore
		st.CurrentStreak = s.CurrentStreak
	}
	return st
}
