package measure

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Parse reads a Measure from text. Accepted forms are "12" (value and
// maximum both 12) and "7/12" (value 7, maximum 12). Numbers outside the
// int64 range saturate like any other out-of-range input.
//
// Postcondition: Returns a clamped Measure or a non-nil error for
// non-numeric input.
func Parse(s string) (Measure, error) {
	s = strings.TrimSpace(s)
	valueStr, maxStr, hasMax := strings.Cut(s, "/")
	value, err := parseInt(valueStr)
	if err != nil {
		return Measure{}, fmt.Errorf("measure: parsing value in %q: %w", s, err)
	}
	if !hasMax {
		return New(value), nil
	}
	maximum, err := parseInt(maxStr)
	if err != nil {
		return Measure{}, fmt.Errorf("measure: parsing maximum in %q: %w", s, err)
	}
	return New(value, maximum), nil
}

// parseInt accepts anything strconv.ParseInt accepts, keeping the saturated
// result when the number is merely out of int64 range.
func parseInt(s string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, err
	}
	return n, nil
}

// document is the mapping form of a Measure in YAML content files.
type document struct {
	Value *string `yaml:"value"`
	Max   *string `yaml:"max"`
}

// UnmarshalYAML decodes a scalar ("12", "7/12") or a {value, max} mapping.
// A mapping without max uses value as the maximum; one without value is 0.
func (m *Measure) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		parsed, err := Parse(node.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		*m = parsed
		return nil
	case yaml.MappingNode:
		var doc document
		if err := node.Decode(&doc); err != nil {
			return fmt.Errorf("line %d: decoding measure: %w", node.Line, err)
		}
		var value int64
		if doc.Value != nil {
			v, err := parseInt(*doc.Value)
			if err != nil {
				return fmt.Errorf("line %d: measure value %q: %w", node.Line, *doc.Value, err)
			}
			value = v
		}
		if doc.Max == nil {
			*m = New(value)
			return nil
		}
		maximum, err := parseInt(*doc.Max)
		if err != nil {
			return fmt.Errorf("line %d: measure max %q: %w", node.Line, *doc.Max, err)
		}
		*m = New(value, maximum)
		return nil
	default:
		return fmt.Errorf("line %d: measure must be a scalar or a mapping", node.Line)
	}
}

// MarshalYAML encodes the measure in its mapping form.
func (m Measure) MarshalYAML() (any, error) {
	return struct {
		Value int `yaml:"value"`
		Max   int `yaml:"max"`
	}{Value: m.Value(), Max: m.Maximum()}, nil
}

// MarshalLogObject lets a Measure be logged with zap.Object.
func (m Measure) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("value", m.Value())
	enc.AddInt("max", m.Maximum())
	enc.AddInt("percentage", m.Percentage())
	return nil
}
