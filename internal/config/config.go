package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"exile-tracker/internal/constants"
)

type Config struct {
	DBPath     string
	ServerPort string
	LogLevel   string

	// EnginePaths maps a game to the root of its desktop calculation
	// engine install. An empty path disables computation for that game.
	EnginePathPoE1 string
	EnginePathPoE2 string
	RunnerPath     string
	EngineTimeout  time.Duration

	// RedisAddr switches session storage to Redis when set.
	RedisAddr  string
	SessionTTL time.Duration

	// WeightsFile optionally overrides the built-in stat weight table.
	WeightsFile string

	League string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		DBPath:         getEnv("DB_PATH", "exile.db"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		EnginePathPoE1: getEnv("ENGINE_PATH_POE1", ""),
		EnginePathPoE2: getEnv("ENGINE_PATH_POE2", ""),
		RunnerPath:     getEnv("ENGINE_RUNNER", "pobrunner"),
		EngineTimeout:  getDurationEnv("ENGINE_TIMEOUT", constants.EngineTimeout),
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		SessionTTL:     getDurationEnv("SESSION_TTL", constants.SessionTTL),
		WeightsFile:    getEnv("WEIGHTS_FILE", ""),
		League:         getEnv("DEFAULT_LEAGUE", "Standard"),
	}

	if cfg.EngineTimeout <= 0 {
		return nil, fmt.Errorf("ENGINE_TIMEOUT must be positive")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Bool("engine_poe1", cfg.EnginePathPoE1 != "").
		Bool("engine_poe2", cfg.EnginePathPoE2 != "").
		Bool("redis", cfg.RedisAddr != "").
		Dur("session_ttl", cfg.SessionTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
