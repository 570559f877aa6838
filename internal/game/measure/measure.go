// Package measure defines the bounded gauge value used for every depletable
// character resource (hit points, stamina, magic power and so on).
//
// A Measure never fails: out-of-range input is saturated into range rather
// than rejected, so game-rule code can feed it arbitrary numbers.
package measure

import (
	"cmp"
	"fmt"
	"math"
)

// Ceiling is the largest value or maximum any Measure may hold.
const Ceiling = math.MaxUint16

// Measure is a current value paired with its maximum.
//
// Invariant: 0 <= Maximum() <= Ceiling and 0 <= Value() <= Maximum().
// The zero Measure is 0/0, which is both full and empty.
type Measure struct {
	value   uint16
	maximum uint16
}

// New builds a Measure from value and an optional maximum. When maximum is
// omitted it defaults to value. Extra arguments are ignored.
//
// Postcondition: maximum is clamped into [0, Ceiling] first, then value into
// [0, maximum].
func New(value int64, maximum ...int64) Measure {
	limit := value
	if len(maximum) > 0 {
		limit = maximum[0]
	}
	return clamp(value, limit)
}

func clamp(value, maximum int64) Measure {
	maximum = min(max(maximum, 0), Ceiling)
	value = min(max(value, 0), maximum)
	return Measure{value: uint16(value), maximum: uint16(maximum)}
}

// Value returns the current value.
func (m Measure) Value() int { return int(m.value) }

// Maximum returns the current maximum.
func (m Measure) Maximum() int { return int(m.maximum) }

// Percentage returns value*100/maximum truncated toward zero, or 0 when the
// maximum is 0.
//
// Postcondition: 0 <= result <= 100.
func (m Measure) Percentage() int {
	if m.maximum == 0 {
		return 0
	}
	return int(m.value) * 100 / int(m.maximum)
}

// IsFull reports whether value == maximum.
func (m Measure) IsFull() bool { return m.value == m.maximum }

// IsEmpty reports whether value == 0.
func (m Measure) IsEmpty() bool { return m.value == 0 }

// OffsetBy moves the value by delta in place.
//
// A raw sum above Ceiling saturates both value and maximum at Ceiling.
// Otherwise the value is clamped into [0, maximum] and the maximum is kept.
// Any int64 delta is accepted without wraparound.
func (m *Measure) OffsetBy(delta int64) {
	v := int64(m.value)
	// v <= Ceiling, so neither side of this comparison can overflow.
	if delta > Ceiling-v {
		m.value, m.maximum = Ceiling, Ceiling
		return
	}
	*m = clamp(v+delta, int64(m.maximum))
}

// IncreaseBy offsets the value by +other.Value().
func (m *Measure) IncreaseBy(other Measure) {
	m.OffsetBy(int64(other.value))
}

// DecreaseBy offsets the value by -other.Value().
func (m *Measure) DecreaseBy(other Measure) {
	m.OffsetBy(-int64(other.value))
}

// Add returns a new Measure holding the sums of both values and both maxima,
// clamped the same way New clamps.
func Add(a, b Measure) Measure {
	return clamp(int64(a.value)+int64(b.value), int64(a.maximum)+int64(b.maximum))
}

// Sub returns a new Measure holding a.Value()-b.Value(), bounded by the larger
// of the two maxima. A negative difference saturates at 0.
func Sub(a, b Measure) Measure {
	return clamp(int64(a.value)-int64(b.value), int64(max(a.maximum, b.maximum)))
}

// Add is the method form of Add(m, other).
func (m Measure) Add(other Measure) Measure { return Add(m, other) }

// Sub is the method form of Sub(m, other).
func (m Measure) Sub(other Measure) Measure { return Sub(m, other) }

// Equal reports whether both value and maximum match.
func (m Measure) Equal(other Measure) bool {
	return m == other
}

// Compare orders two measures by value alone, ignoring maximum.
// It returns -1, 0 or +1.
func (m Measure) Compare(other Measure) int {
	return cmp.Compare(m.value, other.value)
}

// String renders the measure as "value/maximum".
func (m Measure) String() string {
	return fmt.Sprintf("%d/%d", m.value, m.maximum)
}
