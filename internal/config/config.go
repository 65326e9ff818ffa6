// Package config loads zman's own settings: where patches live, where the
// preference file is kept and which directory receives the copied patches.
//
// These are tool settings, not the patch preference file itself (see
// package preset).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tailscale/hujson"
)

// Defaults used when no settings file or flag says otherwise.
const (
	DefaultPatchDir    = "./patches"
	DefaultDestDir     = "/Volumes/ZOIA/to_zoia"
	DefaultPatchConfig = "zoia_patches.conf"
)

// FileName is the project settings file looked up in the work directory.
const FileName = ".zman.json"

// Error variables for settings loading.
var (
	ErrFileNotFound = errors.New("settings file not found")
	ErrFileRead     = errors.New("cannot read settings file")
	ErrInvalid      = errors.New("invalid settings file")
	ErrEmptyValue   = errors.New("value cannot be empty")
)

// Config holds all settings.
type Config struct {
	// From settings files (serialized)
	PatchDir    string `json:"patch_dir"`
	DestDir     string `json:"dest_dir"`
	PatchConfig string `json:"patch_config"`

	// Resolved paths (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)

	// Sources tracks which settings files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which settings files were loaded.
type Sources struct {
	Global  string // Path to global settings if loaded, empty otherwise
	Project string // Path to project settings if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		PatchDir:    DefaultPatchDir,
		DestDir:     DefaultDestDir,
		PatchConfig: DefaultPatchConfig,
	}
}

// Resolve makes path absolute against the effective working directory.
func (c Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(c.EffectiveCwd, path)
}

// PatchDirAbs is the absolute patch directory.
func (c Config) PatchDirAbs() string { return c.Resolve(c.PatchDir) }

// DestDirAbs is the absolute destination directory.
func (c Config) DestDirAbs() string { return c.Resolve(c.DestDir) }

// PatchConfigAbs is the absolute path of the preference file.
func (c Config) PatchConfigAbs() string { return c.Resolve(c.PatchConfig) }

// globalPath returns the path to the global settings file.
// Uses $XDG_CONFIG_HOME/zman/config.json if set, otherwise ~/.config/zman/config.json.
// Returns empty string if home directory cannot be determined.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "zman", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "zman", "config.json")
	}

	return ""
}

// LoadInput holds the inputs for Load.
type LoadInput struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	SettingsPath    string            // --settings flag value
	Env             map[string]string // environment variables
}

// Load loads settings with the following precedence (highest wins):
// 1. Defaults
// 2. Global user settings (~/.config/zman/config.json or $XDG_CONFIG_HOME/zman/config.json)
// 3. Project settings at the default location (.zman.json, if exists)
// 4. Explicit settings file via SettingsPath (replaces 3, must exist)
//
// Command flags are applied by the caller on top of the result.
func Load(input LoadInput) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	} else if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("cannot resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	globalCfg, loadedGlobal, err := loadOptional(globalPath(input.Env))
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Global = loadedGlobal
	cfg = merge(cfg, globalCfg)

	projectCfg, loadedProject, err := loadProject(workDir, input.SettingsPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = loadedProject
	cfg = merge(cfg, projectCfg)

	cfg.EffectiveCwd = workDir

	return cfg, nil
}

// loadOptional loads a settings file if it exists.
// Returns the config, the path if loaded, and any error.
func loadOptional(path string) (Config, string, error) {
	if path == "" {
		return Config{}, "", nil
	}

	cfg, loaded, err := loadFile(path, false)
	if err != nil || !loaded {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadProject loads the project settings file (.zman.json) or an explicit one.
func loadProject(workDir, settingsPath string) (Config, string, error) {
	if settingsPath == "" {
		return loadOptional(filepath.Join(workDir, FileName))
	}

	path := settingsPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	// Check existence first to provide a clear "not found" error
	if _, statErr := os.Stat(path); statErr != nil {
		return Config{}, "", fmt.Errorf("%w: %s", ErrFileNotFound, settingsPath)
	}

	cfg, _, err := loadFile(path, true)
	if err != nil {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadFile loads a settings file. If mustExist is false, missing files return zero config.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrFileRead, path)
	}

	cfg, parseErr := parse(data)
	if parseErr != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrInvalid, path, parseErr)
	}

	return cfg, true, nil
}

func parse(data []byte) (Config, error) {
	// Standardize JSONC to JSON
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	var cfg Config

	if err := json.Unmarshal(standardized, &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	// An explicitly empty value is a mistake, not a request for the default.
	var raw map[string]any

	_ = json.Unmarshal(standardized, &raw)

	for _, key := range []string{"patch_dir", "dest_dir", "patch_config"} {
		if val, exists := raw[key]; exists {
			if str, ok := val.(string); ok && str == "" {
				return Config{}, fmt.Errorf("%w: %s", ErrEmptyValue, key)
			}
		}
	}

	return cfg, nil
}

func merge(base, overlay Config) Config {
	if overlay.PatchDir != "" {
		base.PatchDir = overlay.PatchDir
	}

	if overlay.DestDir != "" {
		base.DestDir = overlay.DestDir
	}

	if overlay.PatchConfig != "" {
		base.PatchConfig = overlay.PatchConfig
	}

	return base
}
