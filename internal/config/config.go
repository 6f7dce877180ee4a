// Package config loads environment configuration for deskinject.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultListenAddr       = "127.0.0.1:8787"
	defaultDataDir          = "./data"
	defaultPasswordMode     = true
	defaultInputEnabled     = true
	defaultWebRTCEnabled    = true
	defaultScanFallback     = false
	defaultMaxScriptSteps   = 500
	defaultControlReadLimit = 64 * 1024
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr       string
	UIPassword       string
	PasswordMode     bool
	DataDir          string
	ScriptDir        string
	InputEnabled     bool
	WebRTCEnabled    bool
	ScanFallback     bool
	STUNURLs         []string
	MaxScriptSteps   int
	ControlReadLimit int64
}

// Load reads configuration from ./data/.env and environment variables.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:       defaultListenAddr,
		PasswordMode:     defaultPasswordMode,
		DataDir:          defaultDataDir,
		InputEnabled:     defaultInputEnabled,
		WebRTCEnabled:    defaultWebRTCEnabled,
		ScanFallback:     defaultScanFallback,
		MaxScriptSteps:   defaultMaxScriptSteps,
		ControlReadLimit: defaultControlReadLimit,
	}

	if err := loadEnvFile(filepath.Join(cfg.DataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)
	cfg.ScriptDir = envString("SCRIPT_DIR", filepath.Join(cfg.DataDir, "scripts"))
	cfg.UIPassword = strings.TrimSpace(os.Getenv("UI_PASSWORD"))
	cfg.PasswordMode = envBool("PASSWORD_MODE", cfg.PasswordMode)
	cfg.InputEnabled = envBool("INPUT_ENABLED", cfg.InputEnabled)
	cfg.WebRTCEnabled = envBool("WEBRTC_ENABLED", cfg.WebRTCEnabled)
	cfg.ScanFallback = envBool("SCAN_FALLBACK", cfg.ScanFallback)
	cfg.STUNURLs = envList("STUN_URLS")

	maxSteps, err := envInt("MAX_SCRIPT_STEPS", cfg.MaxScriptSteps)
	if err != nil {
		return Config{}, err
	}
	if maxSteps <= 0 {
		return Config{}, fmt.Errorf("MAX_SCRIPT_STEPS must be > 0")
	}
	cfg.MaxScriptSteps = maxSteps

	readLimit, err := envInt("CONTROL_READ_LIMIT", int(cfg.ControlReadLimit))
	if err != nil {
		return Config{}, err
	}
	if readLimit < 512 {
		return Config{}, fmt.Errorf("CONTROL_READ_LIMIT must be >= 512")
	}
	cfg.ControlReadLimit = int64(readLimit)

	if cfg.PasswordMode && cfg.UIPassword == "" {
		return Config{}, errors.New("UI_PASSWORD is required")
	}

	return cfg, nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// envList splits a comma-separated env value, dropping empty entries.
func envList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads KEY=VALUE pairs from a .env file without overriding the environment.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.Trim(strings.TrimSpace(value), `"'`), true
}
