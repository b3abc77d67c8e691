package script

import (
	"errors"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/trialkey/internal/listener"
	"github.com/dshills/trialkey/internal/response"
)

// ErrRunnerClosed is returned when using a closed runner.
var ErrRunnerClosed = errors.New("script runner is closed")

// Runner owns a sandboxed Lua state bound to a listener registry.
type Runner struct {
	mu     sync.Mutex // guards L and closed
	L      *lua.LState
	reg    *listener.Registry
	logger *zap.Logger
	closed bool

	hmu     sync.Mutex // guards handles and nextID
	handles map[int64]listener.Handle
	nextID  int64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *zap.Logger) RunnerOption {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a sandboxed Lua runner bound to the registry.
func NewRunner(reg *listener.Registry, opts ...RunnerOption) (*Runner, error) {
	r := &Runner{
		reg:     reg,
		logger:  zap.NewNop(),
		handles: make(map[int64]listener.Handle),
	}
	for _, opt := range opts {
		opt(r)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	// Open only the safe libraries; no io, os, or debug.
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.LoadLibName, lua.OpenPackage}, // must be first
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{
			Fn:      L.NewFunction(lib.fn),
			NRet:    0,
			Protect: true,
		}, lua.LString(lib.name)); err != nil {
			L.Close()
			return nil, fmt.Errorf("opening lua library %s: %w", lib.name, err)
		}
	}

	mod := L.NewTable()
	L.SetFuncs(mod, map[string]lua.LGFunction{
		"request_response": r.luaRequestResponse,
		"cancel":           r.luaCancel,
		"cancel_all":       r.luaCancelAll,
		"compare_keys":     r.luaCompareKeys,
		"held_keys":        r.luaHeldKeys,
	})
	L.SetGlobal("trialkey", mod)

	r.L = L
	return r, nil
}

// RunFile executes a trial script from disk.
func (r *Runner) RunFile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}
	if err := r.L.DoFile(path); err != nil {
		return fmt.Errorf("running trial script %s: %w", path, err)
	}
	return nil
}

// Eval executes a chunk of Lua source.
func (r *Runner) Eval(src string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrRunnerClosed
	}
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("running trial chunk: %w", err)
	}
	return nil
}

// Close shuts down the Lua state. Listeners registered by scripts stay
// registered; their callbacks become no-ops.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

// luaRequestResponse implements trialkey.request_response(table) -> handle.
func (r *Runner) luaRequestResponse(L *lua.LState) int {
	tbl := L.CheckTable(1)

	fn, ok := tbl.RawGetString("callback").(*lua.LFunction)
	if !ok {
		L.ArgError(1, "callback function is required")
		return 0
	}

	req := listener.Request{
		Callback:     r.makeCallback(fn),
		Valid:        parseValid(tbl.RawGetString("valid_responses")),
		Persist:      lua.LVAsBool(tbl.RawGetString("persist")),
		AllowHeldKey: lua.LVAsBool(tbl.RawGetString("allow_held_key")),
	}
	if v := tbl.RawGetString("timing_method"); v != lua.LNil {
		req.TimingMethod = lua.LVAsString(v)
	}
	if v := tbl.RawGetString("minimum_rt"); v != lua.LNil {
		f := float64(lua.LVAsNumber(v))
		req.MinimumRT = &f
	}
	if v := tbl.RawGetString("audio_start"); v != lua.LNil {
		req.AudioStart = float64(lua.LVAsNumber(v))
	}
	if v := tbl.RawGetString("priority"); v != lua.LNil {
		req.Priority = listener.ParsePriority(lua.LVAsString(v))
	}

	h, err := r.reg.RequestResponse(req)
	if err != nil {
		L.RaiseError("request_response: %s", err.Error())
		return 0
	}

	r.hmu.Lock()
	r.nextID++
	id := r.nextID
	r.handles[id] = h
	r.hmu.Unlock()

	L.Push(lua.LNumber(id))
	return 1
}

// luaCancel implements trialkey.cancel(handle). Unknown handles are a
// no-op, matching the registry's idempotent cancellation.
func (r *Runner) luaCancel(L *lua.LState) int {
	id := int64(L.CheckNumber(1))

	r.hmu.Lock()
	h, ok := r.handles[id]
	if ok {
		delete(r.handles, id)
	}
	r.hmu.Unlock()

	if ok {
		r.reg.Cancel(h)
	}
	return 0
}

// luaCancelAll implements trialkey.cancel_all().
func (r *Runner) luaCancelAll(L *lua.LState) int {
	r.hmu.Lock()
	r.handles = make(map[int64]listener.Handle)
	r.hmu.Unlock()

	r.reg.CancelAll()
	return 0
}

// luaCompareKeys implements trialkey.compare_keys(a, b) -> bool | nil.
// nil means the comparison was indeterminate (invalid argument types).
func (r *Runner) luaCompareKeys(L *lua.LState) int {
	eq, err := r.reg.CompareKeys(luaToKeyArg(L.Get(1)), luaToKeyArg(L.Get(2)))
	if err != nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(lua.LBool(eq))
	return 1
}

// luaHeldKeys implements trialkey.held_keys() -> array of key names.
func (r *Runner) luaHeldKeys(L *lua.LState) int {
	tbl := L.NewTable()
	for _, name := range r.reg.HeldKeys() {
		tbl.Append(lua.LString(name))
	}
	L.Push(tbl)
	return 1
}

// makeCallback wraps a Lua function so key dispatch can invoke it. The
// call is serialized with script execution through r.mu.
func (r *Runner) makeCallback(fn *lua.LFunction) func(listener.Response) {
	return func(resp listener.Response) {
		r.mu.Lock()
		defer r.mu.Unlock()

		if r.closed {
			return
		}

		tbl := r.L.NewTable()
		tbl.RawSetString("key", lua.LString(resp.Key))
		tbl.RawSetString("rt", lua.LNumber(resp.RT))

		if err := r.L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, tbl); err != nil {
			r.logger.Warn("trial script callback failed", zap.Error(err))
		}
	}
}

// parseValid maps a Lua valid_responses value to a response spec.
// A table lists accepted keys; the strings "ALL_KEYS" and "NO_KEYS" are the
// sentinels; anything else names a single key; absent means all keys.
func parseValid(v lua.LValue) response.Spec {
	switch v := v.(type) {
	case *lua.LTable:
		var names []string
		v.ForEach(func(_, val lua.LValue) {
			names = append(names, lua.LVAsString(val))
		})
		return response.Keys(names...)
	case lua.LString:
		switch string(v) {
		case "ALL_KEYS":
			return response.AllKeys()
		case "NO_KEYS":
			return response.NoKeys()
		default:
			return response.Keys(string(v))
		}
	default:
		return response.AllKeys()
	}
}

// luaToKeyArg converts a Lua value to the any-typed argument CompareKeys
// expects: strings stay strings, nil stays nil, and anything else passes
// through as an invalid non-string value.
func luaToKeyArg(v lua.LValue) any {
	switch v := v.(type) {
	case lua.LString:
		return string(v)
	case *lua.LNilType:
		return nil
	case lua.LNumber:
		return float64(v)
	case lua.LBool:
		return bool(v)
	default:
		return v
	}
}
