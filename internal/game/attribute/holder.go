// Package attribute composes a character's gauges into a Holder and derives
// the capability checks combat and UI code read from it.
package attribute

import (
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/greedflame/internal/game/measure"
)

// Field names in declaration order, as used by templates and scripts.
const (
	FieldHitPoints   = "hit_points"
	FieldStamina     = "stamina"
	FieldMagicPower  = "magic_power"
	FieldAttackPower = "attack_power"
	FieldArmor       = "armor"
	FieldNormalCost  = "normal_cost"
	FieldSpecialCost = "special_cost"
	FieldHealPoints  = "heal_points"
	FieldRestPoints  = "rest_points"
)

var fieldNames = []string{
	FieldHitPoints, FieldStamina, FieldMagicPower, FieldAttackPower, FieldArmor,
	FieldNormalCost, FieldSpecialCost, FieldHealPoints, FieldRestPoints,
}

// Holder is the full set of gauges for one character.
//
// A Holder is set up once with all nine fields. Afterwards only the owned
// Measures change; the Holder imposes no cross-field invariant.
type Holder struct {
	HitPoints   measure.Measure // HP
	Stamina     measure.Measure // spent by attacks
	MagicPower  measure.Measure // MP
	AttackPower measure.Measure // strength
	Armor       measure.Measure // defense
	NormalCost  measure.Measure // stamina cost of a normal attack
	SpecialCost measure.Measure // stamina cost of a special attack
	HealPoints  measure.Measure // HP recovered by Heal
	RestPoints  measure.Measure // stamina recovered by Rest
}

// CanAttack reports whether Stamina covers NormalCost. Only values are
// compared; maxima are ignored.
func (h *Holder) CanAttack() bool {
	return h.Stamina.Compare(h.NormalCost) >= 0
}

// CanSpecialAttack reports whether Stamina covers SpecialCost.
func (h *Holder) CanSpecialAttack() bool {
	return h.Stamina.Compare(h.SpecialCost) >= 0
}

// IsAlive reports whether HitPoints is non-empty.
func (h *Holder) IsAlive() bool {
	return !h.HitPoints.IsEmpty()
}

// Heal restores HealPoints worth of HitPoints.
func (h *Holder) Heal() {
	h.HitPoints.IncreaseBy(h.HealPoints)
}

// Rest restores RestPoints worth of Stamina.
func (h *Holder) Rest() {
	h.Stamina.IncreaseBy(h.RestPoints)
}

// SpendAttack deducts NormalCost from Stamina when CanAttack holds.
//
// Postcondition: Returns false and leaves Stamina untouched otherwise.
func (h *Holder) SpendAttack() bool {
	if !h.CanAttack() {
		return false
	}
	h.Stamina.DecreaseBy(h.NormalCost)
	return true
}

// SpendSpecial deducts SpecialCost from Stamina when CanSpecialAttack holds.
func (h *Holder) SpendSpecial() bool {
	if !h.CanSpecialAttack() {
		return false
	}
	h.Stamina.DecreaseBy(h.SpecialCost)
	return true
}

// Field returns a pointer to the named gauge so callers can mutate it in place.
//
// Postcondition: Returns nil and false when name is not one of FieldNames().
func (h *Holder) Field(name string) (*measure.Measure, bool) {
	switch name {
	case FieldHitPoints:
		return &h.HitPoints, true
	case FieldStamina:
		return &h.Stamina, true
	case FieldMagicPower:
		return &h.MagicPower, true
	case FieldAttackPower:
		return &h.AttackPower, true
	case FieldArmor:
		return &h.Armor, true
	case FieldNormalCost:
		return &h.NormalCost, true
	case FieldSpecialCost:
		return &h.SpecialCost, true
	case FieldHealPoints:
		return &h.HealPoints, true
	case FieldRestPoints:
		return &h.RestPoints, true
	}
	return nil, false
}

// FieldNames returns the nine gauge names in declaration order.
func FieldNames() []string {
	return append([]string(nil), fieldNames...)
}

// MarshalLogObject logs every gauge plus the derived predicates.
func (h *Holder) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, name := range fieldNames {
		m, _ := h.Field(name)
		if err := enc.AddObject(name, *m); err != nil {
			return err
		}
	}
	enc.AddBool("can_attack", h.CanAttack())
	enc.AddBool("can_special_attack", h.CanSpecialAttack())
	enc.AddBool("is_alive", h.IsAlive())
	return nil
}
