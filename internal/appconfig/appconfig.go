// Package appconfig loads the tool configuration: where the instrumentation
// shim and the window-control binary live, timing defaults, and the journal
// location.
package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/viper"
)

// TimeoutScaleEnv overrides the configured timeout scale, for CI runners
// that are slower than the configuration assumes.
const TimeoutScaleEnv = "KICADO_TIME_OUT_SCALE"

type Config struct {
	// ShimPath is the LD_PRELOAD instrumentation library.
	ShimPath string
	// ControlBinary is the window-control tool (xdotool compatible).
	ControlBinary string
	// TimeoutScale multiplies every wait budget.
	TimeoutScale float64
	// WaitStartSeconds is the budget for the editor to start and load.
	WaitStartSeconds int
	// JournalPath is the sqlite session journal. Empty disables it.
	JournalPath string
}

func DefaultConfig() Config {
	return Config{
		ShimPath:         "/usr/lib/kicado/libinterposer.so",
		ControlBinary:    "xdotool",
		TimeoutScale:     1.0,
		WaitStartSeconds: 120,
		JournalPath:      defaultJournalPath(),
	}
}

// DefaultConfigPath is where Load looks when no path is given.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, ".config", "kicado", "config.yaml"), nil
}

// Load reads configuration from the provided path. A missing file yields the
// defaults; the timeout-scale environment override applies last.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("shim_path", cfg.ShimPath)
	v.SetDefault("control_binary", cfg.ControlBinary)
	v.SetDefault("timeout_scale", cfg.TimeoutScale)
	v.SetDefault("wait_start_seconds", cfg.WaitStartSeconds)
	v.SetDefault("journal_path", cfg.JournalPath)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	cfg.ShimPath = v.GetString("shim_path")
	cfg.ControlBinary = v.GetString("control_binary")
	cfg.TimeoutScale = v.GetFloat64("timeout_scale")
	cfg.WaitStartSeconds = v.GetInt("wait_start_seconds")
	cfg.JournalPath = v.GetString("journal_path")

	if raw := os.Getenv(TimeoutScaleEnv); raw != "" {
		scale, err := strconv.ParseFloat(raw, 64)
		if err != nil || scale <= 0 {
			return Config{}, fmt.Errorf("invalid %s value %q", TimeoutScaleEnv, raw)
		}
		cfg.TimeoutScale = scale
	}

	if cfg.TimeoutScale <= 0 {
		return Config{}, fmt.Errorf("timeout_scale must be positive, got %v", cfg.TimeoutScale)
	}
	if cfg.WaitStartSeconds <= 0 {
		return Config{}, fmt.Errorf("wait_start_seconds must be positive, got %d", cfg.WaitStartSeconds)
	}
	return cfg, nil
}

func defaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "kicado.db"
	}
	return filepath.Join(home, ".local", "state", "kicado", "journal.db")
}
