package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

const (
	StoreTypeMemory   = "memory"
	StoreTypeSQLite   = "sqlite"
	StoreTypePostgres = "postgres"

	PolicyWindowDaily  = "daily"
	PolicyWindowWeekly = "weekly"

	HoroscopeModeOpenAIWeekly = "openai_weekly"
	HoroscopeModeStatic       = "static"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string

	TimezoneName string

	Telegram  TelegramConfig
	Horoscope HoroscopeConfig
	RateLimit RateLimitConfig
	DB        DBConfig
	Redis     RedisConfig
	Server    ServerConfig

	OTLPEndpoint string
}

type TelegramConfig struct {
	Token        string
	EnabledChats []int64
	PollTimeout  int
}

type OpenAIConfig struct {
	DebugMode            bool
	Token                string
	ModelName            string
	ImageModelName       string
	ImageQuality         string
	ImageModerationLevel string
}

type HoroscopeConfig struct {
	Mode   string
	OpenAI OpenAIConfig
}

type RateLimitConfig struct {
	Window        string
	Limit         int
	AdminPass     bool
	AdminUserID   int64
	RetentionDays int
	LockEnabled   bool
}

type DBConfig struct {
	Type     string
	Path     string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string

	QueryTimeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ServerConfig struct {
	Addr string
}

// Load loads configuration from environment variables and .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		AppName:      getenv("APP_SERVICE", "horoskop"),
		AppVersion:   getenv("APP_VERSION", "debug"),
		Environment:  getenv("ENVIRONMENT", "development"),
		TimezoneName: getenv("TIMEZONE_NAME", "Europe/Berlin"),
		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),
		Telegram: TelegramConfig{
			Token:        strings.TrimSpace(getenv("TELEGRAM_TOKEN", "")),
			EnabledChats: getenvInt64List("TELEGRAM_ENABLED_CHATS", []int64{133399998}),
			PollTimeout:  int(getenvInt64("TELEGRAM_POLL_TIMEOUT", 30)),
		},
		Horoscope: HoroscopeConfig{
			Mode: getenv("HOROSCOPE_MODE", HoroscopeModeOpenAIWeekly),
			OpenAI: OpenAIConfig{
				DebugMode:            getenvBool("OPENAI_DEBUG", false),
				Token:                strings.TrimSpace(getenv("OPENAI_TOKEN", "")),
				ModelName:            getenv("OPENAI_MODEL", ""),
				ImageModelName:       getenv("OPENAI_IMAGE_MODEL", ""),
				ImageQuality:         getenv("OPENAI_IMAGE_QUALITY", "medium"),
				ImageModerationLevel: getenv("OPENAI_IMAGE_MODERATION_LEVEL", "low"),
			},
		},
		RateLimit: RateLimitConfig{
			Window:        getenv("RATE_LIMIT_WINDOW", PolicyWindowWeekly),
			Limit:         int(getenvInt64("RATE_LIMIT", 1)),
			AdminPass:     getenvBool("RATE_LIMIT_ADMIN_PASS", true),
			AdminUserID:   getenvInt64("RATE_LIMIT_ADMIN_USER_ID", 133399998),
			RetentionDays: int(getenvInt64("RATE_LIMIT_RETENTION_DAYS", 90)),
			LockEnabled:   getenvBool("RATE_LIMIT_LOCK_ENABLED", false),
		},
		DB: DBConfig{
			Type:         getenv("DATABASE_TYPE", StoreTypeSQLite),
			Path:         getenv("DATABASE_PATH", "horoskop.db"),
			Host:         getenv("DATABASE_HOST", "localhost"),
			Port:         getenv("DATABASE_PORT", "5432"),
			Name:         getenv("DATABASE_NAME", "horoskop"),
			User:         getenv("DATABASE_USER", "horoskop"),
			Password:     getenv("DATABASE_PASSWORD", ""),
			SSLMode:      getenv("DATABASE_SSLMODE", "disable"),
			QueryTimeout: time.Duration(getenvInt64("DATABASE_QUERY_TIMEOUT_SECONDS", 5)) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getenv("REDIS_ADDR", ""),
			Password: getenv("REDIS_PASSWORD", ""),
			DB:       int(getenvInt64("REDIS_DB", 0)),
		},
		Server: ServerConfig{
			Addr: getenv("SERVER_ADDR", ":8080"),
		},
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Telegram.Token == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}

	switch c.Horoscope.Mode {
	case HoroscopeModeOpenAIWeekly:
		oa := c.Horoscope.OpenAI
		if oa.Token == "" {
			return errors.New("OPENAI_TOKEN is required for openai_weekly mode")
		}
		if oa.ModelName == "" {
			return errors.New("OPENAI_MODEL is required for openai_weekly mode")
		}
		if oa.ImageModelName == "" {
			return errors.New("OPENAI_IMAGE_MODEL is required for openai_weekly mode")
		}
		switch oa.ImageQuality {
		case "low", "medium", "high":
		default:
			return fmt.Errorf("invalid image quality %q", oa.ImageQuality)
		}
		switch oa.ImageModerationLevel {
		case "low", "auto":
		default:
			return fmt.Errorf("invalid image moderation level %q", oa.ImageModerationLevel)
		}
	case HoroscopeModeStatic:
	default:
		return fmt.Errorf("unknown horoscope mode %q", c.Horoscope.Mode)
	}

	switch c.RateLimit.Window {
	case PolicyWindowDaily, PolicyWindowWeekly:
	default:
		return fmt.Errorf("unknown rate limit window %q", c.RateLimit.Window)
	}
	if c.RateLimit.Limit < 1 {
		return fmt.Errorf("rate limit must be at least 1, got %d", c.RateLimit.Limit)
	}

	switch c.DB.Type {
	case StoreTypeMemory:
		// The in-memory store keeps only the latest usage per key, so a
		// higher limit could never deny.
		if c.RateLimit.Limit > 1 {
			return fmt.Errorf("memory store supports a rate limit of 1, got %d", c.RateLimit.Limit)
		}
	case StoreTypeSQLite:
	case StoreTypePostgres:
		if c.DB.Host == "" || c.DB.Name == "" || c.DB.User == "" {
			return errors.New("postgres store requires DATABASE_HOST, DATABASE_NAME and DATABASE_USER")
		}
	default:
		return fmt.Errorf("unknown database type %q", c.DB.Type)
	}

	if c.RateLimit.LockEnabled && c.Redis.Addr == "" {
		return errors.New("REDIS_ADDR is required when the rate limit lock is enabled")
	}

	if _, err := time.LoadLocation(c.TimezoneName); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.TimezoneName, err)
	}

	return nil
}

// Location resolves the configured working time zone. Load has already
// verified that the name is known to the tz database.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.TimezoneName)
	if err != nil {
		return time.UTC
	}
	return loc
}

var Module = fx.Module("config",
	fx.Provide(Load),
)

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt64(key string, def int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return def
	}
	return parsed
}

func getenvInt64List(key string, def []int64) []int64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parts := strings.Split(raw, ",")
	out := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		parsed, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			continue
		}
		out = append(out, parsed)
	}
	if len(out) == 0 {
		return def
	}
	return out
}
