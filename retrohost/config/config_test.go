package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retrohost/go-retrohost/retrohost/input/action"
)

func writeCfg(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retrohost.cfg")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseFile(t *testing.T) {
	path := writeCfg(t, `
# comment line
input_player1_a = "k"
savestate_directory = ./saves
gambatte_gb_colorization = "disabled"
not a key value line
`)

	m, err := ParseFile(path)
	require.NoError(t, err)
	assert.Equal(t, "k", m["input_player1_a"])
	assert.Equal(t, "./saves", m["savestate_directory"])
	assert.Equal(t, "disabled", m["gambatte_gb_colorization"])
	assert.NotContains(t, m, "# comment line")
}

func TestLoadAppliesCfgAndEnv(t *testing.T) {
	path := writeCfg(t, `savestate_directory = "/tmp/states"`)
	t.Setenv("RETROHOST_USERNAME", "player1")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/states", cfg.SaveDir, "cfg file overrides default")
	assert.Equal(t, "player1", cfg.Username, "env overrides default")
	assert.Equal(t, "./system", cfg.SystemDir, "untouched default survives")
}

func TestLoadMissingCfgIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.cfg"))
	require.NoError(t, err)
	assert.Equal(t, "./states", cfg.SaveDir)
}

func TestOption(t *testing.T) {
	cfg := &Config{Raw: map[string]string{"core_opt": "fast"}}
	v, ok := cfg.Option("core_opt")
	assert.True(t, ok)
	assert.Equal(t, "fast", v)
	_, ok = cfg.Option("missing")
	assert.False(t, ok)
}

func TestKeyMapMergesBindings(t *testing.T) {
	cfg := &Config{Raw: map[string]string{"input_player1_a": "j"}}
	keys := cfg.KeyMap()
	assert.Equal(t, action.PadA, keys["j"], "cfg binding applied")
	assert.Equal(t, action.PadStart, keys["Enter"], "defaults retained")
}
