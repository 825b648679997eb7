package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the dashboard.
type Config struct {
	Port            string         `toml:"port"`
	RefreshInterval Duration       `toml:"refresh_interval"`
	SearchDebounce  Duration       `toml:"search_debounce"`
	CORSOrigins     []string       `toml:"cors_origins"`
	Backend         BackendConfig  `toml:"backend"`
	Follows         FollowConfig   `toml:"follows"`
	Display         DisplayConfig  `toml:"display"`
	Controls        ControlsConfig `toml:"controls"`
	Log             LogConfig      `toml:"log"`
	Metrics         MetricsConfig  `toml:"metrics"`
}

// BackendConfig selects and addresses the match and team source.
type BackendConfig struct {
	Source       string   `toml:"source"`
	BaseURL      string   `toml:"base_url"`
	UpcomingPath string   `toml:"upcoming_path"`
	LivePath     string   `toml:"live_path"`
	Timeout      Duration `toml:"timeout"`
}

// FollowConfig controls where the follow set is persisted.
type FollowConfig struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	Key     string `toml:"key"`
}

// DisplayConfig controls how timestamps are rendered.
type DisplayConfig struct {
	Timezone   string `toml:"timezone"`
	TimeLayout string `toml:"time_layout"`
}

// ControlsConfig seeds the dashboard controls at startup.
type ControlsConfig struct {
	Region       string `toml:"region"`
	Game         string `toml:"game"`
	OnlyFollowed bool   `toml:"only_followed"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Load builds the configuration from defaults, an optional .env file, an optional TOML
// file named by DASHBOARD_CONFIG, and finally the process environment.
func Load() (Config, error) {
	if err := loadDotenv(envOrDefault(envDotenvFile, defaultDotenvFile)); err != nil {
		return Config{}, err
	}

	cfg := defaults()
	if path := strings.TrimSpace(os.Getenv(envConfigFile)); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		Port:            defaultPort,
		RefreshInterval: defaultRefreshInterval,
		SearchDebounce:  defaultSearchDebounce,
		CORSOrigins:     []string{defaultCORSOrigin},
		Backend: BackendConfig{
			Source:       defaultBackendSource,
			BaseURL:      defaultBackendBaseURL,
			UpcomingPath: defaultUpcomingPath,
			LivePath:     defaultLivePath,
			Timeout:      defaultBackendTimeout,
		},
		Follows: FollowConfig{
			Backend: defaultFollowBackend,
			Path:    defaultFollowPath,
			Key:     defaultFollowKey,
		},
		Display: DisplayConfig{
			Timezone:   defaultTimezone,
			TimeLayout: defaultTimeLayout,
		},
		Metrics: defaultMetrics(),
	}
}

// loadDotenv loads path into the environment without overriding existing variables.
func loadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// applyFile overlays values present in the TOML file; absent keys keep their defaults.
func applyFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = defaultRefreshInterval
	}
	if cfg.SearchDebounce <= 0 {
		cfg.SearchDebounce = defaultSearchDebounce
	}
	if cfg.Backend.Timeout <= 0 {
		cfg.Backend.Timeout = defaultBackendTimeout
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Port = envOrDefault(envPort, cfg.Port)
	cfg.RefreshInterval = durationEnvOrDefault(envRefreshInterval, cfg.RefreshInterval)
	cfg.SearchDebounce = durationEnvOrDefault(envSearchDebounce, cfg.SearchDebounce)
	cfg.CORSOrigins = listEnvOrDefault(envCORSOrigins, cfg.CORSOrigins)

	cfg.Backend.Source = strings.ToLower(envOrDefault(envBackendSource, cfg.Backend.Source))
	cfg.Backend.BaseURL = envOrDefault(envBackendBaseURL, cfg.Backend.BaseURL)
	cfg.Backend.UpcomingPath = envOrDefault(envUpcomingPath, cfg.Backend.UpcomingPath)
	cfg.Backend.LivePath = envOrDefault(envLivePath, cfg.Backend.LivePath)
	cfg.Backend.Timeout = durationEnvOrDefault(envBackendTimeout, cfg.Backend.Timeout)

	cfg.Follows.Backend = envOrDefault(envFollowBackend, cfg.Follows.Backend)
	cfg.Follows.Path = envOrDefault(envFollowPath, cfg.Follows.Path)
	cfg.Follows.Key = envOrDefault(envFollowKey, cfg.Follows.Key)

	cfg.Display.Timezone = envOrDefault(envTimezone, cfg.Display.Timezone)
	cfg.Display.TimeLayout = envOrDefault(envTimeLayout, cfg.Display.TimeLayout)

	cfg.Controls.Region = envOrDefault(envDefaultRegion, cfg.Controls.Region)
	cfg.Controls.Game = envOrDefault(envDefaultGame, cfg.Controls.Game)
	cfg.Controls.OnlyFollowed = boolEnvOrDefault(envOnlyFollowed, cfg.Controls.OnlyFollowed)

	cfg.Log.Level = envOrDefault(envLogLevel, cfg.Log.Level)
	cfg.Log.Format = envOrDefault(envLogFormat, cfg.Log.Format)

	applyMetricsEnv(&cfg.Metrics)
}
