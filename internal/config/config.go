package config

import (
	"os"
	"strconv"
	"time"

	"ransomnotes/internal/domain"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Store   StoreConfig
	Bot     BotConfig
	Content ContentConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds default game rules, overridable per game at creation
type GameConfig struct {
	TilesPerPlayer        int
	PointsToWin           int
	SubmissionTimeSeconds int
	JudgingTimeSeconds    int
	MinPlayers            int
	MaxPlayers            int
}

// StoreConfig selects and configures the game store backend
type StoreConfig struct {
	Backend  string // "memory" or "redis"
	RedisURL string
	GameTTL  time.Duration
}

// BotConfig holds bot player configuration
type BotConfig struct {
	OllamaURL     string
	OllamaModel   string
	Timeout       time.Duration
	IdleTimeout   time.Duration
	CheckInterval time.Duration
}

// ContentConfig points at the prompt and word deck
type ContentConfig struct {
	Path string // empty means the embedded default deck
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "text"
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			TilesPerPlayer:        getEnvInt("TILES_PER_PLAYER", 45),
			PointsToWin:           getEnvInt("POINTS_TO_WIN", 5),
			SubmissionTimeSeconds: getEnvInt("SUBMISSION_TIME_SECONDS", 90),
			JudgingTimeSeconds:    getEnvInt("JUDGING_TIME_SECONDS", 60),
			MinPlayers:            getEnvInt("MIN_PLAYERS", 2),
			MaxPlayers:            getEnvInt("MAX_PLAYERS", 8),
		},
		Store: StoreConfig{
			Backend:  getEnv("STORE_BACKEND", "memory"),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
			GameTTL:  time.Duration(getEnvInt("GAME_TTL_SECONDS", 86400)) * time.Second,
		},
		Bot: BotConfig{
			OllamaURL:     getEnv("OLLAMA_URL", "http://localhost:11434"),
			OllamaModel:   getEnv("OLLAMA_MODEL", "llama3.2"),
			Timeout:       time.Duration(getEnvInt("BOT_TIMEOUT_SECONDS", 30)) * time.Second,
			IdleTimeout:   time.Duration(getEnvInt("BOT_IDLE_TIMEOUT_SECONDS", 300)) * time.Second,
			CheckInterval: time.Duration(getEnvInt("BOT_CHECK_INTERVAL_SECONDS", 30)) * time.Second,
		},
		Content: ContentConfig{
			Path: getEnv("CONTENT_PATH", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "text"),
		},
	}
}

// GameDefaults converts the configured rules into a domain game config
func (c *Config) GameDefaults() domain.GameConfig {
	return domain.GameConfig{
		TilesPerPlayer:        c.Game.TilesPerPlayer,
		PointsToWin:           c.Game.PointsToWin,
		SubmissionTimeSeconds: c.Game.SubmissionTimeSeconds,
		JudgingTimeSeconds:    c.Game.JudgingTimeSeconds,
		MinPlayers:            c.Game.MinPlayers,
		MaxPlayers:            c.Game.MaxPlayers,
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
