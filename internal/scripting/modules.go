package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// RegisterModules registers the gauge type and the engine.* Lua tables into L.
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: gauge and engine globals are defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	registerGaugeType(L)

	engine := L.NewTable()
	L.SetField(engine, "log", m.newLogModule(L))
	L.SetGlobal("engine", engine)
}

func (m *Manager) newLogModule(L *lua.LState) *lua.LTable {
	logAt := func(emit func(string, ...zap.Field)) *lua.LFunction {
		return L.NewFunction(func(L *lua.LState) int {
			emit("lua", zap.String("msg", L.CheckString(1)))
			return 0
		})
	}
	mod := L.NewTable()
	L.SetField(mod, "debug", logAt(m.logger.Debug))
	L.SetField(mod, "info", logAt(m.logger.Info))
	L.SetField(mod, "warn", logAt(m.logger.Warn))
	L.SetField(mod, "error", logAt(m.logger.Error))
	return mod
}
