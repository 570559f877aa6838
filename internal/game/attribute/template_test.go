package attribute_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/greedflame/internal/game/attribute"
	"github.com/cory-johannsen/greedflame/internal/game/measure"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadTemplates_ParsesYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "knight.yaml"), `
id: knight
name: "Knight"
description: "Heavily armored frontliner."
attributes:
  hit_points: 120
  stamina: "40/50"
  armor:
    value: 15
    max: 20
  normal_cost: 5
  special_cost: 20
  heal_points: 10
  rest_points: 8
`)
	writeFile(t, filepath.Join(dir, "README.txt"), "not yaml")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.yaml"), 0755))

	templates, err := attribute.LoadTemplates(dir)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	tmpl := templates[0]
	assert.Equal(t, "knight", tmpl.ID)
	assert.Equal(t, "Knight", tmpl.Name)

	h := tmpl.Build()
	assert.Equal(t, measure.New(120), h.HitPoints)
	assert.Equal(t, measure.New(40, 50), h.Stamina)
	assert.Equal(t, measure.New(15, 20), h.Armor)
	assert.Equal(t, measure.Measure{}, h.MagicPower)
	assert.True(t, h.CanAttack())
	assert.True(t, h.CanSpecialAttack())
}

func TestLoadTemplates_SaturatesOutOfRange(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "titan.yml"), `
id: titan
name: Titan
attributes:
  hit_points: 1000000
  stamina: -4
`)
	templates, err := attribute.LoadTemplates(dir)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	h := templates[0].Build()
	assert.Equal(t, measure.Ceiling, h.HitPoints.Maximum())
	assert.True(t, h.Stamina.IsEmpty())
}

func TestLoadTemplates_UnknownAttribute(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), `
id: bad
name: Bad
attributes:
  luck: 7
`)
	_, err := attribute.LoadTemplates(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "luck")
}

func TestLoadTemplates_MissingID(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "anon.yaml"), `name: Anon`)
	_, err := attribute.LoadTemplates(dir)
	assert.Error(t, err)
}

func TestLoadTemplates_MalformedMeasure(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "broken.yaml"), `
id: broken
name: Broken
attributes:
  stamina: lots
`)
	_, err := attribute.LoadTemplates(dir)
	assert.Error(t, err)
}

func TestLoadTemplates_MissingDir(t *testing.T) {
	_, err := attribute.LoadTemplates("/nonexistent/templates")
	assert.Error(t, err)
}

func TestTemplate_BuildIsIndependent(t *testing.T) {
	tmpl := &attribute.Template{
		ID: "x", Name: "X",
		Attributes: map[string]measure.Measure{attribute.FieldHitPoints: measure.New(10)},
	}
	a := tmpl.Build()
	a.HitPoints.OffsetBy(-10)
	b := tmpl.Build()
	assert.Equal(t, 10, b.HitPoints.Value())
}

func TestRegistry(t *testing.T) {
	r := attribute.NewRegistry()
	r.Register(&attribute.Template{ID: "b", Name: "B"})
	r.Register(&attribute.Template{ID: "a", Name: "A"})
	r.Register(&attribute.Template{ID: "a", Name: "A2",
		Attributes: map[string]measure.Measure{attribute.FieldStamina: measure.New(3)}})

	assert.Equal(t, []string{"a", "b"}, r.IDs())
	tmpl, ok := r.Template("a")
	require.True(t, ok)
	assert.Equal(t, "A2", tmpl.Name)

	h, err := r.Build("a")
	require.NoError(t, err)
	assert.Equal(t, 3, h.Stamina.Value())

	_, err = r.Build("missing")
	assert.ErrorIs(t, err, attribute.ErrUnknownTemplate)
}

func TestRegistry_RegisterPanics(t *testing.T) {
	r := attribute.NewRegistry()
	assert.Panics(t, func() { r.Register(nil) })
	assert.Panics(t, func() { r.Register(&attribute.Template{}) })
}
