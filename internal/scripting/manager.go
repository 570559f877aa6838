package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/greedflame/internal/game/attribute"
)

// vm is one loaded script set. An LState is single-threaded, so mu
// serializes every execution on L. closed is set under mu once L is closed.
type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	cancel func()
	closed bool
}

// Manager owns one sandboxed LState per script set and exposes hook dispatch.
//
// Manager is safe for concurrent use. Calls into the same script set are
// serialized; different sets run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	logger *zap.Logger
}

// NewManager creates a Manager.
//
// Precondition: logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no script sets loaded.
func NewManager(logger *zap.Logger) *Manager {
	if logger == nil {
		panic("scripting.NewManager: precondition violated: logger must be non-nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		logger: logger,
	}
}

// Load creates a sandboxed VM under key, registers all modules, then executes
// every *.lua file in scriptDir in lexicographic order. Loading the same key
// again replaces the previous VM.
//
// Precondition: key must be non-empty; scriptDir must be a readable directory.
// Postcondition: VM is registered; returns error on Lua load failure.
func (m *Manager) Load(key, scriptDir string, instLimit int) error {
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
		}
	}
	m.logger.Debug("scripting: loaded",
		zap.String("key", key),
		zap.Int("files", len(luaFiles)),
	)

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = &vm{L: L, limit: instLimit, cancel: cancel}
	m.mu.Unlock()

	if old != nil {
		old.close()
	}
	return nil
}

func (v *vm) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	v.closed = true
	if v.cancel != nil {
		v.cancel()
	}
	v.L.Close()
}

// Close releases every loaded VM.
//
// Postcondition: subsequent CallHook calls behave as if nothing was loaded.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.close()
	}
}

// CallHook calls the named Lua global function in key's VM with a fresh
// instruction budget. Returns (LNil, nil) if the hook is not defined or no VM
// exists. Lua runtime errors are logged at Warn level and never propagated.
//
// Precondition: args must be valid lua.LValue instances.
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.call(key, hook, func(*lua.LState) ([]lua.LValue, func()) { return args, nil })
}

// RunHolderHook calls hook with h wrapped via HolderValue. Gauge changes the
// script makes are applied to h in place.
//
// Precondition: h must be non-nil.
// Postcondition: Returns the hook's first return value, or LNil.
func (m *Manager) RunHolderHook(key, hook string, h *attribute.Holder) (lua.LValue, error) {
	if h == nil {
		return lua.LNil, fmt.Errorf("scripting: hook %q: holder must be non-nil", hook)
	}
	return m.call(key, hook, func(L *lua.LState) ([]lua.LValue, func()) {
		ud, release := HolderValue(L, h)
		return []lua.LValue{ud}, release
	})
}

// call runs hook under the VM lock. prepare builds the arguments and may
// return a cleanup func, which runs before the lock is released.
func (m *Manager) call(key, hook string, prepare func(*lua.LState) ([]lua.LValue, func())) (lua.LValue, error) {
	m.mu.RLock()
	v := m.vms[key]
	m.mu.RUnlock()

	if v == nil {
		m.logger.Info("scripting: no VM loaded",
			zap.String("key", key),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		m.logger.Info("scripting: VM closed before hook ran",
			zap.String("key", key),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}
	L := v.L

	fn := L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	cancel := armBudget(L, v.limit)
	defer cancel()

	args, cleanup := prepare(L)
	if cleanup != nil {
		defer cleanup()
	}

	if err := L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, args...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("key", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := L.Get(-1)
	L.Pop(1)
	return ret, nil
}
