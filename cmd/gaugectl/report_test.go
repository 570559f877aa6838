package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/greedflame/internal/config"
	"github.com/cory-johannsen/greedflame/internal/game/attribute"
)

func writeContent(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	attrs := filepath.Join(root, "attributes")
	scripts := filepath.Join(root, "scripts")
	require.NoError(t, os.Mkdir(attrs, 0755))
	require.NoError(t, os.Mkdir(scripts, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(attrs, "rogue.yaml"), []byte(`
id: rogue
name: Rogue
attributes:
  hit_points: "0/40"
  stamina: "3/30"
  normal_cost: 4
  special_cost: 10
  rest_points: 8
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(attrs, "mage.yaml"), []byte(`
id: mage
name: Mage
attributes:
  hit_points: 20
  stamina: 20
  magic_power: 60
  normal_cost: 2
  special_cost: 15
`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(scripts, "camp.lua"), []byte(`
function on_camp(h)
	h:rest()
end
`), 0644))
	return config.Config{
		Logging: config.LoggingConfig{Level: "info", Format: "json"},
		Content: config.ContentConfig{AttributesDir: attrs, ScriptsDir: scripts},
	}
}

func TestRun_AllTemplates(t *testing.T) {
	cfg := writeContent(t)
	var out bytes.Buffer
	require.NoError(t, run(cfg, zap.NewNop(), reportOptions{}, &out))
	s := out.String()
	assert.Contains(t, s, "== Mage (mage)")
	assert.Contains(t, s, "== Rogue (rogue)")
	assert.Less(t, bytes.Index(out.Bytes(), []byte("mage")), bytes.Index(out.Bytes(), []byte("rogue")))
	assert.Contains(t, s, "60/60")
}

func TestRun_SingleTemplateWithHook(t *testing.T) {
	cfg := writeContent(t)
	var out bytes.Buffer
	require.NoError(t, run(cfg, zap.NewNop(), reportOptions{TemplateID: "rogue", Hook: "on_camp"}, &out))
	s := out.String()
	assert.NotContains(t, s, "Mage")
	assert.Contains(t, s, "11/30")
	assert.Regexp(t, `can_attack\s+true`, s)
	assert.Regexp(t, `can_special_attack\s+true`, s)
	assert.Regexp(t, `is_alive\s+false`, s)
}

func TestRun_UnknownTemplate(t *testing.T) {
	cfg := writeContent(t)
	err := run(cfg, zap.NewNop(), reportOptions{TemplateID: "bard"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, attribute.ErrUnknownTemplate)
}

func TestRun_HookWithoutScriptsDir(t *testing.T) {
	cfg := writeContent(t)
	cfg.Content.ScriptsDir = ""
	err := run(cfg, zap.NewNop(), reportOptions{Hook: "on_camp"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestRun_MissingAttributesDir(t *testing.T) {
	cfg := writeContent(t)
	cfg.Content.AttributesDir = filepath.Join(t.TempDir(), "missing")
	err := run(cfg, zap.NewNop(), reportOptions{}, &bytes.Buffer{})
	assert.Error(t, err)
}
