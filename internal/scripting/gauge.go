package scripting

import (
	"math"

	lua "github.com/yuin/gopher-lua"

	"github.com/cory-johannsen/greedflame/internal/game/attribute"
	"github.com/cory-johannsen/greedflame/internal/game/measure"
)

const (
	gaugeTypeName  = "gauge"
	holderTypeName = "attribute_holder"
)

var gaugeMethods = map[string]lua.LGFunction{
	"value": func(L *lua.LState) int {
		L.Push(lua.LNumber(checkGauge(L, 1).Value()))
		return 1
	},
	"maximum": func(L *lua.LState) int {
		L.Push(lua.LNumber(checkGauge(L, 1).Maximum()))
		return 1
	},
	"percentage": func(L *lua.LState) int {
		L.Push(lua.LNumber(checkGauge(L, 1).Percentage()))
		return 1
	},
	"is_full": func(L *lua.LState) int {
		L.Push(lua.LBool(checkGauge(L, 1).IsFull()))
		return 1
	},
	"is_empty": func(L *lua.LState) int {
		L.Push(lua.LBool(checkGauge(L, 1).IsEmpty()))
		return 1
	},
	"offset": func(L *lua.LState) int {
		checkGauge(L, 1).OffsetBy(checkInt64(L, 2))
		return 0
	},
	"increase": func(L *lua.LState) int {
		checkGauge(L, 1).IncreaseBy(*checkGauge(L, 2))
		return 0
	},
	"decrease": func(L *lua.LState) int {
		checkGauge(L, 1).DecreaseBy(*checkGauge(L, 2))
		return 0
	},
	"copy": func(L *lua.LState) int {
		L.Push(newGauge(L, *checkGauge(L, 1)))
		return 1
	},
}

// registerGaugeType installs the gauge and holder metatables and the global
// gauge constructor table.
func registerGaugeType(L *lua.LState) {
	mt := L.NewTypeMetatable(gaugeTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), gaugeMethods))
	L.SetField(mt, "__add", L.NewFunction(func(L *lua.LState) int {
		L.Push(newGauge(L, measure.Add(*checkGauge(L, 1), *checkGauge(L, 2))))
		return 1
	}))
	L.SetField(mt, "__sub", L.NewFunction(func(L *lua.LState) int {
		L.Push(newGauge(L, measure.Sub(*checkGauge(L, 1), *checkGauge(L, 2))))
		return 1
	}))
	L.SetField(mt, "__eq", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(checkGauge(L, 1).Equal(*checkGauge(L, 2))))
		return 1
	}))
	L.SetField(mt, "__lt", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(checkGauge(L, 1).Compare(*checkGauge(L, 2)) < 0))
		return 1
	}))
	L.SetField(mt, "__le", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LBool(checkGauge(L, 1).Compare(*checkGauge(L, 2)) <= 0))
		return 1
	}))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString(checkGauge(L, 1).String()))
		return 1
	}))

	ctor := L.NewTable()
	L.SetField(ctor, "new", L.NewFunction(func(L *lua.LState) int {
		value := checkInt64(L, 1)
		if L.GetTop() >= 2 {
			L.Push(newGauge(L, measure.New(value, checkInt64(L, 2))))
		} else {
			L.Push(newGauge(L, measure.New(value)))
		}
		return 1
	}))
	L.SetField(ctor, "ceiling", lua.LNumber(measure.Ceiling))
	L.SetGlobal("gauge", ctor)

	hmt := L.NewTypeMetatable(holderTypeName)
	L.SetField(hmt, "__index", L.NewFunction(holderIndex))
	L.SetField(hmt, "__newindex", L.NewFunction(holderNewIndex))
}

// newGauge wraps a copy of m in a fresh userdata.
func newGauge(L *lua.LState, m measure.Measure) *lua.LUserData {
	return wrapGauge(L, &m)
}

// wrapGauge wraps a live pointer; Lua mutations are visible through m.
func wrapGauge(L *lua.LState, m *measure.Measure) *lua.LUserData {
	ud := L.NewUserData()
	ud.Value = m
	L.SetMetatable(ud, L.GetTypeMetatable(gaugeTypeName))
	return ud
}

func checkGauge(L *lua.LState, n int) *measure.Measure {
	ud := L.CheckUserData(n)
	if m, ok := ud.Value.(*measure.Measure); ok {
		return m
	}
	if ud.Value == nil {
		L.ArgError(n, "gauge used after its holder was released")
		return nil
	}
	L.ArgError(n, "gauge expected")
	return nil
}

// checkInt64 reads an integer argument. Fractions truncate toward zero and
// magnitudes beyond int64 saturate, mirroring the gauge's own clamp policy.
// NaN has no integer meaning and raises an argument error.
func checkInt64(L *lua.LState, n int) int64 {
	f := float64(L.CheckNumber(n))
	switch {
	case math.IsNaN(f):
		L.ArgError(n, "number expected, got nan")
		return 0
	case f >= 9.2e18:
		return 1<<63 - 1
	case f <= -9.2e18:
		return -1 << 63
	}
	return int64(f)
}

// borrowedHolder is a holder lent to Lua for the duration of one hook.
// gauges records every live field wrapper handed out so release can cut
// them all off.
type borrowedHolder struct {
	h      *attribute.Holder
	gauges []*lua.LUserData
}

func (b *borrowedHolder) release() {
	b.h = nil
	for _, ud := range b.gauges {
		ud.Value = nil
	}
	b.gauges = nil
}

// HolderValue lends h to Lua. Field reads (h.stamina) return live gauges,
// so a script's mutations land in h directly until release is called.
// After release the holder and every gauge read from it raise an error when
// used, so a script cannot keep writing to h from a later hook.
//
// Precondition: L must have had RegisterModules applied; h must be non-nil.
// Postcondition: the caller must call release once the script is done with h.
func HolderValue(L *lua.LState, h *attribute.Holder) (ud *lua.LUserData, release func()) {
	b := &borrowedHolder{h: h}
	ud = L.NewUserData()
	ud.Value = b
	L.SetMetatable(ud, L.GetTypeMetatable(holderTypeName))
	return ud, b.release
}

func checkBorrowed(L *lua.LState, n int) *borrowedHolder {
	ud := L.CheckUserData(n)
	b, ok := ud.Value.(*borrowedHolder)
	if !ok {
		L.ArgError(n, "attribute holder expected")
		return nil
	}
	if b.h == nil {
		L.ArgError(n, "attribute holder used after it was released")
		return nil
	}
	return b
}

func checkHolder(L *lua.LState, n int) *attribute.Holder {
	return checkBorrowed(L, n).h
}

var holderMethods = map[string]lua.LGFunction{
	"can_attack": func(L *lua.LState) int {
		L.Push(lua.LBool(checkHolder(L, 1).CanAttack()))
		return 1
	},
	"can_special_attack": func(L *lua.LState) int {
		L.Push(lua.LBool(checkHolder(L, 1).CanSpecialAttack()))
		return 1
	},
	"is_alive": func(L *lua.LState) int {
		L.Push(lua.LBool(checkHolder(L, 1).IsAlive()))
		return 1
	},
	"heal": func(L *lua.LState) int {
		checkHolder(L, 1).Heal()
		return 0
	},
	"rest": func(L *lua.LState) int {
		checkHolder(L, 1).Rest()
		return 0
	},
	"spend_attack": func(L *lua.LState) int {
		L.Push(lua.LBool(checkHolder(L, 1).SpendAttack()))
		return 1
	},
	"spend_special": func(L *lua.LState) int {
		L.Push(lua.LBool(checkHolder(L, 1).SpendSpecial()))
		return 1
	},
}

func holderIndex(L *lua.LState) int {
	b := checkBorrowed(L, 1)
	key := L.CheckString(2)
	if field, ok := b.h.Field(key); ok {
		ud := wrapGauge(L, field)
		b.gauges = append(b.gauges, ud)
		L.Push(ud)
		return 1
	}
	if fn, ok := holderMethods[key]; ok {
		L.Push(L.NewFunction(fn))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}

// holderNewIndex copies an assigned gauge into the named field.
func holderNewIndex(L *lua.LState) int {
	h := checkHolder(L, 1)
	key := L.CheckString(2)
	field, ok := h.Field(key)
	if !ok {
		L.ArgError(2, "unknown attribute "+key)
		return 0
	}
	*field = *checkGauge(L, 3)
	return 0
}
