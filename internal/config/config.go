package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/fastygo/coachly/internal/llm"
)

// Config aggregates all runtime settings required by the application.
type Config struct {
	AppName     string
	Environment string
	HTTP        HTTPConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Auth        AuthConfig
	LLM         LLMConfig
	Chat        ChatConfig
	Buffer      BufferConfig
	Autopilot   AutopilotConfig
	Profile     ProfileConfig
	Context     ContextConfig
	Logger      LoggerConfig
	Migrations  MigrationsConfig
	CORS        CORSConfig
}

type HTTPConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	MaxConn      int
	MaxBodySize  int
}

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	Name            string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	MaxConnLifetime time.Duration
	SSLMode         string
}

// RedisConfig is optional. An empty URL disables token revocation.
type RedisConfig struct {
	URL      string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret string
	// RevocationTTL bounds revocation entries for tokens without exp.
	RevocationTTL time.Duration
}

// LLMConfig points at the OpenAI-compatible gateway used for JSON completions.
type LLMConfig struct {
	Endpoint        string
	APIKey          string
	Model           string
	Timeout         time.Duration
	PlanTimeout     time.Duration
	PlanTemperature float64
}

// ChatConfig describes the streaming upstream behind the chat endpoint.
type ChatConfig struct {
	Endpoint     string
	APIKey       string
	Model        string
	Format       string
	MaxNewTokens int
	Temperature  float64
	TopP         float64
	Timeout      time.Duration
}

type BufferConfig struct {
	Path          string
	Bucket        string
	SyncInterval  time.Duration
	BatchSize     int
	MaxRetry      int
	MaxAge        time.Duration
	CheckInterval time.Duration
}

type AutopilotConfig struct {
	Enabled bool
	// Schedule is a six-field cron expression with seconds.
	Schedule string
	Timeout  time.Duration
}

type ProfileConfig struct {
	TrialPeriod time.Duration
}

type ContextConfig struct {
	RequestTimeout  time.Duration
	StreamTimeout   time.Duration
	ShutdownTimeout time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type MigrationsConfig struct {
	Enabled bool
}

type CORSConfig struct {
	AllowOrigin  string
	AllowHeaders string
	AllowMethods string
}

// Load reads configuration from environment variables (optionally .env)
// and applies defaults so the service can boot without AI or auth keys.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		AppName:     getString("APP_NAME", "coachly"),
		Environment: getString("APP_ENV", "development"),
		HTTP: HTTPConfig{
			Host:         getString("SERVER_HOST", "0.0.0.0"),
			Port:         getString("SERVER_PORT", "8080"),
			ReadTimeout:  getDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDuration("SERVER_WRITE_TIMEOUT", 0),
			IdleTimeout:  getDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
			MaxConn:      getInt("SERVER_MAX_CONN", 0),
			MaxBodySize:  getInt("SERVER_MAX_BODY_BYTES", 1<<20),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			Host:            getString("DB_HOST", "localhost"),
			Port:            getString("DB_PORT", "5432"),
			Name:            getString("DB_NAME", "coachly"),
			User:            getString("DB_USER", "coachly"),
			Password:        os.Getenv("DB_PASSWORD"),
			MaxOpenConns:    getInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    getInt("DB_MAX_IDLE_CONNS", 5),
			MaxConnLifetime: getDuration("DB_CONN_LIFETIME", time.Hour),
			SSLMode:         getString("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      os.Getenv("REDIS_URL"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       getInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:     os.Getenv("JWT_SECRET"),
			RevocationTTL: getDuration("AUTH_REVOCATION_TTL", 24*time.Hour),
		},
		LLM: LLMConfig{
			Endpoint:        getString("AI_GATEWAY_URL", "https://ai.gateway.lovable.dev/v1/chat/completions"),
			APIKey:          os.Getenv("AI_GATEWAY_API_KEY"),
			Model:           getString("AI_MODEL", "google/gemini-2.5-flash"),
			Timeout:         getDuration("AI_TIMEOUT", 30*time.Second),
			PlanTimeout:     getDuration("AI_PLAN_TIMEOUT", 60*time.Second),
			PlanTemperature: getFloat("AI_PLAN_TEMPERATURE", 0),
		},
		Chat: ChatConfig{
			Endpoint:     getString("CHAT_ENDPOINT", "https://ai.gateway.lovable.dev/v1/chat/completions"),
			APIKey:       os.Getenv("CHAT_API_KEY"),
			Model:        getString("CHAT_MODEL", "google/gemini-2.5-flash"),
			Format:       strings.ToLower(getString("CHAT_FORMAT", "openai")),
			MaxNewTokens: getInt("CHAT_MAX_NEW_TOKENS", 500),
			Temperature:  getFloat("CHAT_TEMPERATURE", 0.7),
			TopP:         getFloat("CHAT_TOP_P", 0.95),
			Timeout:      getDuration("CHAT_TIMEOUT", 2*time.Minute),
		},
		Buffer: BufferConfig{
			Path:          getString("BOLTDB_PATH", "./data/buffer.db"),
			Bucket:        getString("BOLTDB_BUCKET", "pending_writes"),
			SyncInterval:  getDuration("SYNC_INTERVAL_SECONDS", 30*time.Second),
			BatchSize:     getInt("BUFFER_BATCH_SIZE", 50),
			MaxRetry:      getInt("MAX_RETRY_ATTEMPTS", 3),
			MaxAge:        time.Duration(getInt("BUFFER_RETENTION_HOURS", 24)) * time.Hour,
			CheckInterval: getDuration("HEALTH_CHECK_INTERVAL", 10*time.Second),
		},
		Autopilot: AutopilotConfig{
			Enabled:  getBool("AUTOPILOT_ENABLED", false),
			Schedule: getString("AUTOPILOT_SCHEDULE", "0 0 7 * * *"),
			Timeout:  getDuration("AUTOPILOT_TIMEOUT", 30*time.Minute),
		},
		Profile: ProfileConfig{
			TrialPeriod: time.Duration(getInt("PROFILE_TRIAL_DAYS", 7)) * 24 * time.Hour,
		},
		Context: ContextConfig{
			RequestTimeout:  getDuration("REQUEST_TIMEOUT_SECONDS", 90*time.Second),
			StreamTimeout:   getDuration("STREAM_TIMEOUT_SECONDS", 3*time.Minute),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT_SECONDS", 15*time.Second),
		},
		Logger: LoggerConfig{
			Level:    getString("LOG_LEVEL", "info"),
			Encoding: getString("LOG_ENCODING", "json"),
		},
		Migrations: MigrationsConfig{
			Enabled: getBool("RUN_MIGRATIONS", true),
		},
		CORS: CORSConfig{
			AllowOrigin:  getString("CORS_ALLOW_ORIGIN", "*"),
			AllowHeaders: getString("CORS_ALLOW_HEADERS", "authorization, x-client-info, apikey, content-type"),
			AllowMethods: getString("CORS_ALLOW_METHODS", "GET, POST, PUT, PATCH, DELETE, OPTIONS"),
		},
	}

	// The chat upstream shares the gateway key unless it has its own.
	if cfg.Chat.APIKey == "" {
		cfg.Chat.APIKey = cfg.LLM.APIKey
	}
	if cfg.Database.URL == "" {
		cfg.Database.URL = buildPostgresURL(cfg)
	}

	if cfg.Chat.Format != "openai" && cfg.Chat.Format != "tgi" {
		return nil, fmt.Errorf("CHAT_FORMAT must be openai or tgi, got %q", cfg.Chat.Format)
	}

	return cfg, nil
}

// MustLoad panics if configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

func buildPostgresURL(cfg *Config) string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Name,
		cfg.Database.SSLMode,
	)
}

func getString(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return fallback
}

// Address returns the HTTP listen address for the fasthttp server.
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%s", c.HTTP.Host, c.HTTP.Port)
}

// Gateway converts the AI sections into the LLM client configuration.
func (c *Config) Gateway() llm.Config {
	gw := llm.DefaultConfig()
	gw.Endpoint = c.LLM.Endpoint
	gw.APIKey = c.LLM.APIKey
	gw.Model = c.LLM.Model
	gw.TimeoutMs = int(c.LLM.Timeout.Milliseconds())
	gw.Tasks[llm.TaskPlan] = llm.TaskConfig{
		Temperature: c.LLM.PlanTemperature,
		TimeoutMs:   int(c.LLM.PlanTimeout.Milliseconds()),
	}
	gw.Chat = llm.ChatConfig{
		Endpoint:     c.Chat.Endpoint,
		APIKey:       c.Chat.APIKey,
		Model:        c.Chat.Model,
		Format:       llm.StreamFormat(c.Chat.Format),
		MaxNewTokens: c.Chat.MaxNewTokens,
		Temperature:  c.Chat.Temperature,
		TopP:         c.Chat.TopP,
		Timeout:      c.Chat.Timeout,
	}
	return gw
}
