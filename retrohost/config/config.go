// Package config assembles the launch configuration for the frontend.
//
// Precedence, lowest to highest: built-in defaults, the RetroArch config
// (so existing setups carry over), a local retrohost.cfg, environment
// variables, CLI flags (applied by the caller).
package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"

	"github.com/retrohost/go-retrohost/retrohost/input"
	"github.com/retrohost/go-retrohost/retrohost/input/action"
)

// Config is the launch configuration consumed by the frontend and the core
// integration layer.
type Config struct {
	ContentPath string
	CorePath    string

	SaveDir   string `env:"RETROHOST_SAVE_DIR"`
	SystemDir string `env:"RETROHOST_SYSTEM_DIR"`
	Username  string `env:"RETROHOST_USERNAME"`

	// Raw holds every key = "value" pair from the merged cfg files. Core
	// options (GET_VARIABLE) and input bindings are looked up here.
	Raw map[string]string
}

// padBindings maps RetroArch binding names to RetroPad actions.
var padBindings = map[string]action.Action{
	"input_player1_a":      action.PadA,
	"input_player1_b":      action.PadB,
	"input_player1_x":      action.PadX,
	"input_player1_y":      action.PadY,
	"input_player1_l":      action.PadL,
	"input_player1_r":      action.PadR,
	"input_player1_up":     action.PadUp,
	"input_player1_down":   action.PadDown,
	"input_player1_left":   action.PadLeft,
	"input_player1_right":  action.PadRight,
	"input_player1_select": action.PadSelect,
	"input_player1_start":  action.PadStart,
}

// Load builds a Config from defaults, discovered cfg files and environment
// variables. Missing cfg files are not an error.
func Load(localCfg string) (*Config, error) {
	cfg := &Config{
		SaveDir:   "./states",
		SystemDir: "./system",
		Username:  "retrohost",
		Raw:       map[string]string{},
	}

	if path := retroarchConfigPath(); path != "" {
		if m, err := ParseFile(path); err == nil {
			for k, v := range m {
				cfg.Raw[k] = v
			}
		}
	}
	if localCfg != "" {
		if m, err := ParseFile(localCfg); err == nil {
			for k, v := range m {
				cfg.Raw[k] = v
			}
		}
	}

	if v, ok := cfg.Raw["savestate_directory"]; ok {
		cfg.SaveDir = v
	}
	if v, ok := cfg.Raw["system_directory"]; ok {
		cfg.SystemDir = v
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return cfg, nil
}

// ParseFile reads a RetroArch-style cfg file: one key = "value" per line,
// quotes stripped, unknown lines ignored. The format predates INI and is not
// compatible with it (no sections, no escapes).
func ParseFile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	out := map[string]string{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(key)] = strings.ReplaceAll(strings.TrimSpace(value), "\"", "")
	}
	return out, scanner.Err()
}

// Option returns a core option value by key, used to answer GET_VARIABLE.
func (c *Config) Option(key string) (string, bool) {
	v, ok := c.Raw[key]
	return v, ok
}

// KeyMap builds the key→action map for backends: the package defaults with
// any input_player1_* bindings from the cfg files applied on top.
func (c *Config) KeyMap() map[string]action.Action {
	keys := make(map[string]action.Action, len(input.DefaultKeyMap))
	for k, v := range input.DefaultKeyMap {
		keys[k] = v
	}
	for binding, act := range padBindings {
		if key, ok := c.Raw[binding]; ok && key != "" {
			keys[key] = act
		}
	}
	return keys
}

// retroarchConfigPath locates the platform's RetroArch config file, so a
// user's existing bindings and directories carry over.
func retroarchConfigPath() string {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("APPDATA")
	case "darwin":
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, "Library", "Application Support", "RetroArch")
		return filepath.Join(base, "config", "retroarch.cfg")
	default:
		base = os.Getenv("XDG_CONFIG_HOME")
		if base == "" {
			home, _ := os.UserHomeDir()
			base = filepath.Join(home, ".config")
		}
	}
	if base == "" {
		return ""
	}
	return filepath.Join(base, "retroarch", "config", "retroarch.cfg")
}
