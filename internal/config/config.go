// Package config loads runtime configuration for the timelines CLI with
// a single viper-backed loader: environment variables first, then an
// optional ~/.timelines/config.yaml, then the defaults below.
package config

import (
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds everything main() needs to wire the service layer.
type Config struct {
	// DBPath is where the sqlite ticket event cache lives.
	DBPath string

	// LogUseCases mirrors TIMELINES_LOG_USE_CASES: when true, use-case
	// execution is logged to stderr via internal/observability.
	LogUseCases bool

	// ScheduleCacheSize bounds the in-process LRU schedule cache (C5).
	ScheduleCacheSize int

	// DefaultParticles is the Monte Carlo particle count used when a
	// caller doesn't specify one.
	DefaultParticles int

	// GitHubToken authenticates internal/tickets/githubprovider, if set.
	GitHubToken string
}

func defaults() Config {
	return Config{
		LogUseCases:       false,
		ScheduleCacheSize: 256,
		DefaultParticles:  100,
	}
}

// Load reads configuration from TIMELINES_* environment variables and, if
// present, ~/.timelines/config.yaml, falling back to defaults for
// anything unset.
func Load() (Config, error) {
	cfg := defaults()

	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, err
	}
	cfg.DBPath = filepath.Join(home, ".timelines", "tickets.db")

	v := viper.New()
	v.SetEnvPrefix("TIMELINES")
	v.AutomaticEnv()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(home, ".timelines"))

	v.SetDefault("db", cfg.DBPath)
	v.SetDefault("log_use_cases", cfg.LogUseCases)
	v.SetDefault("schedule_cache_size", cfg.ScheduleCacheSize)
	v.SetDefault("default_particles", cfg.DefaultParticles)
	v.SetDefault("github_token", "")

	if err := v.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return Config{}, err
		}
	}

	cfg.DBPath = v.GetString("db")
	cfg.LogUseCases = v.GetBool("log_use_cases")
	cfg.ScheduleCacheSize = v.GetInt("schedule_cache_size")
	cfg.DefaultParticles = v.GetInt("default_particles")
	cfg.GitHubToken = v.GetString("github_token")

	return cfg, nil
}
