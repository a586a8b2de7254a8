package scripting

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/MJE43/rps-quiz/internal/games"
)

// LogEntry represents a single log message from the script. Seq counts every
// line the VM has logged, starting at 1, and keeps growing after the buffer
// starts dropping old entries.
type LogEntry struct {
	Seq     uint64    `json:"seq"`
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// VM wraps a goja runtime with sandbox restrictions and global function injection.
type VM struct {
	runtime *goja.Runtime
	mu      sync.Mutex

	logs    []LogEntry
	logsMu  sync.Mutex
	maxLogs int
	logSeq  uint64

	// stopRequested is set when the script calls stop().
	stopRequested bool
}

const (
	scriptInitTimeout = 2 * time.Second
	scriptCallTimeout = 1 * time.Second
)

// NewVM creates a sandboxed goja runtime with global functions injected.
func NewVM() *VM {
	vm := &VM{
		runtime: goja.New(),
		maxLogs: 500,
	}
	vm.injectGlobalFunctions()
	injectConstants(vm.runtime)
	return vm
}

// injectGlobalFunctions registers log, console.log, stop and answer.
func (vm *VM) injectGlobalFunctions() {
	vm.runtime.Set("log", func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			parts[i] = arg.String()
		}
		vm.appendLog(strings.Join(parts, " "))
		return goja.Undefined()
	})

	console := vm.runtime.NewObject()
	console.Set("log", vm.runtime.Get("log"))
	vm.runtime.Set("console", console)

	vm.runtime.Set("stop", func(call goja.FunctionCall) goja.Value {
		vm.stopRequested = true
		vm.runtime.Set("running", false)
		return goja.Undefined()
	})

	// answer(computer, required) returns the move name that achieves required.
	vm.runtime.Set("answer", func(call goja.FunctionCall) goja.Value {
		computer, err := games.ParseMove(call.Argument(0).String())
		if err != nil {
			panic(vm.runtime.NewTypeError("answer: %v", err))
		}
		required, err := games.ParseOutcome(call.Argument(1).String())
		if err != nil {
			panic(vm.runtime.NewTypeError("answer: %v", err))
		}
		return vm.runtime.ToValue(games.Answer(computer, required).String())
	})

	// Math is already available in goja by default.
	// Block dangerous globals.
	vm.runtime.Set("require", goja.Undefined())
	vm.runtime.Set("fetch", goja.Undefined())
	vm.runtime.Set("XMLHttpRequest", goja.Undefined())
	vm.runtime.Set("eval", goja.Undefined())
	vm.runtime.Set("Function", goja.Undefined())
}

func (vm *VM) appendLog(msg string) {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	if len(vm.logs) >= vm.maxLogs {
		vm.logs = vm.logs[1:]
	}
	vm.logSeq++
	vm.logs = append(vm.logs, LogEntry{Seq: vm.logSeq, Time: time.Now(), Message: msg})
}

// Execute runs user script source code once to register choose() and the
// optional gameover() callback.
func (vm *VM) Execute(source string) error {
	return vm.runWithTimeout(scriptInitTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()
		_, err := vm.runtime.RunString(source)
		if err != nil {
			return fmt.Errorf("script execution error: %w", err)
		}
		return nil
	})
}

// CallChoose calls the user-defined choose() function and converts its
// return value into a move.
func (vm *VM) CallChoose() (games.Move, error) {
	var move games.Move
	err := vm.runWithTimeout(scriptCallTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()

		callable, ok := goja.AssertFunction(vm.runtime.Get("choose"))
		if !ok {
			return fmt.Errorf("choose() function is not defined")
		}

		result, err := callable(goja.Undefined())
		if err != nil {
			return fmt.Errorf("choose() error: %w", err)
		}
		move, err = moveFromValue(result)
		return err
	})
	return move, err
}

// CallGameOver calls gameover() if the script defined one.
func (vm *VM) CallGameOver() error {
	if !vm.HasFunc("gameover") {
		return nil
	}
	return vm.runWithTimeout(scriptCallTimeout, func() error {
		vm.mu.Lock()
		defer vm.mu.Unlock()

		callable, _ := goja.AssertFunction(vm.runtime.Get("gameover"))
		if _, err := callable(goja.Undefined()); err != nil {
			return fmt.Errorf("gameover() error: %w", err)
		}
		return nil
	})
}

// HasFunc returns true if the user script defined a global function name.
func (vm *VM) HasFunc(name string) bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	_, ok := goja.AssertFunction(vm.runtime.Get(name))
	return ok
}

// IsStopRequested returns true if stop() was called from the script.
func (vm *VM) IsStopRequested() bool {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.stopRequested
}

// SetVariables pushes the current variable state into the JS runtime.
func (vm *VM) SetVariables(vars *Variables) {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	injectVariables(vm.runtime, vars)
}

// GetLogs returns a copy of the current log buffer.
func (vm *VM) GetLogs() []LogEntry {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	out := make([]LogEntry, len(vm.logs))
	copy(out, vm.logs)
	return out
}

// LogsSince returns the buffered entries with a Seq greater than seq.
func (vm *VM) LogsSince(seq uint64) []LogEntry {
	vm.logsMu.Lock()
	defer vm.logsMu.Unlock()
	// Seqs in the buffer are consecutive.
	start := 0
	if n := len(vm.logs); n > 0 && seq >= vm.logs[0].Seq {
		start = int(seq-vm.logs[0].Seq) + 1
		if start > n {
			start = n
		}
	}
	out := make([]LogEntry, len(vm.logs)-start)
	copy(out, vm.logs[start:])
	return out
}

func (vm *VM) runWithTimeout(timeout time.Duration, fn func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(timeout):
		// Interrupt a runaway script execution.
		vm.runtime.Interrupt("script execution timeout")
		select {
		case err := <-done:
			if err != nil {
				return fmt.Errorf("script timed out: %w", err)
			}
			return fmt.Errorf("script timed out")
		case <-time.After(200 * time.Millisecond):
			return fmt.Errorf("script timed out")
		}
	}
}

// moveFromValue accepts a move name ("rock", "R", ROCK) or its number (0-2).
func moveFromValue(v goja.Value) (games.Move, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return 0, fmt.Errorf("choose() must return a move")
	}
	switch x := v.Export().(type) {
	case string:
		return games.ParseMove(x)
	case int64:
		if m := games.Move(x); m.Valid() {
			return m, nil
		}
	case float64:
		if m := games.Move(int(x)); float64(int(x)) == x && m.Valid() {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: choose() returned %v", games.ErrInvalidMove, v)
}
