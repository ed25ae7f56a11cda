// Package config loads the process configuration. All session state that
// the original deployment kept as ambient globals (API key, room URL,
// dial-out settings) lives in an explicit Config passed to constructors.
package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/sebas/hotline/internal/dial"
)

// Config holds the connector configuration.
type Config struct {
	// RoomURL is the websocket URL of the room's event gateway.
	RoomURL string
	// APIKey authenticates against the transport service.
	APIKey string
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
	// MetricsAddr is the listen address for the metrics endpoint.
	// Empty disables the endpoint.
	MetricsAddr string
	// MaxDialAttempts is the attempt budget per outbound destination.
	MaxDialAttempts int
	// DialOutSettings lists the outbound destinations to dial at startup.
	DialOutSettings []dial.Setting
}

// Load loads configuration from command line flags and environment
// variables; a .env file in the working directory is read first if present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	flag.StringVar(&cfg.RoomURL, "room", "", "Room gateway websocket URL")
	flag.StringVar(&cfg.LogLevel, "loglevel", "debug", "Log level (debug, info, warn, error)")
	flag.StringVar(&cfg.MetricsAddr, "metrics", ":9091", "Metrics listen address (empty to disable)")
	flag.IntVar(&cfg.MaxDialAttempts, "max-attempts", dial.DefaultMaxAttempts, "Dial-out attempt budget per destination")

	var settingsPath string
	flag.StringVar(&settingsPath, "dialout", "", "Path to dial-out settings JSON file")

	flag.Parse()

	if err := applyEnv(cfg, &settingsPath); err != nil {
		return nil, err
	}

	settings, err := loadSettings(os.Getenv("DIALOUT_SETTINGS"), settingsPath)
	if err != nil {
		return nil, err
	}
	cfg.DialOutSettings = settings

	if cfg.RoomURL == "" {
		return nil, fmt.Errorf("config: room URL is required (-room or DAILY_ROOM_URL)")
	}
	if cfg.MaxDialAttempts < 1 {
		return nil, fmt.Errorf("config: max dial attempts must be at least 1, got %d", cfg.MaxDialAttempts)
	}
	return cfg, nil
}

// applyEnv overrides flag values with environment variables when set.
func applyEnv(cfg *Config, settingsPath *string) error {
	if v := os.Getenv("DAILY_ROOM_URL"); v != "" {
		cfg.RoomURL = v
	}
	if v := os.Getenv("DAILY_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("LOGLEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("METRICS_ADDR"); v != "" {
		cfg.MetricsAddr = v
	}
	if v := os.Getenv("MAX_DIAL_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: MAX_DIAL_ATTEMPTS: %w", err)
		}
		cfg.MaxDialAttempts = n
	}
	if v := os.Getenv("DIALOUT_SETTINGS_PATH"); v != "" {
		*settingsPath = v
	}
	return nil
}

// loadSettings resolves the dial-out settings list. Inline JSON takes
// precedence over a settings file; both absent means no outbound calls.
func loadSettings(inline, path string) ([]dial.Setting, error) {
	switch {
	case inline != "":
		return dial.ParseSettings([]byte(inline))
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read dial-out settings: %w", err)
		}
		return dial.ParseSettings(data)
	}
	return nil, nil
}
