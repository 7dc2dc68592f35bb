// Package config loads application configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"kalimerabot/internal/adapter/telegram/middleware"
	"kalimerabot/internal/platform/pg"
)

// Config holds application configuration values.
type Config struct {
	Env      string `validate:"required,oneof=dev prod"`
	Telegram struct {
		Token         string `validate:"required"`
		WebhookURL    string
		WebhookSecret string
	}
	HTTP struct {
		Addr string `validate:"required"`
	}
	DB struct {
		Driver string `validate:"required,oneof=sqlite postgres"`
		// Path is the SQLite file (sqlite driver).
		Path string
		// DSN is the connection string (postgres driver). Built from
		// the PG_* variables when not given directly.
		DSN string
	}
	Schedule struct {
		// Timezone all schedules are interpreted in.
		Timezone string `validate:"required"`
		// Message is the text delivered on schedule.
		Message string `validate:"required"`
		// TickInterval is how often due schedules are checked.
		TickInterval time.Duration `validate:"required,min=1s"`
		// InitialDelay is how soon after startup the first check runs.
		InitialDelay time.Duration
		// PaceDelay is the minimum gap between consecutive sends.
		PaceDelay time.Duration
		// MaxRateLimitWait caps how long one recipient's retry-after
		// hint may stall a delivery run.
		MaxRateLimitWait time.Duration `validate:"required,min=1s"`
	}
	// AdminIDs are the chats allowed to use /sendnow, /stats and the
	// log commands.
	AdminIDs []int64
	Log      struct {
		ConsoleLevel string `validate:"required,oneof=debug info warn error"`
		FileLevel    string `validate:"required,oneof=debug info warn error"`
		File         string
		// ErrorFile receives error-level entries, served by /errors.
		ErrorFile string
	}
}

var validate = validator.New()

// Load reads configuration from environment variables and an optional
// .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	var c Config
	c.Env = getenv("ENV", "prod")
	c.Telegram.Token = os.Getenv("TELEGRAM_BOT_TOKEN")
	c.Telegram.WebhookURL = os.Getenv("TELEGRAM_WEBHOOK_URL")
	c.Telegram.WebhookSecret = os.Getenv("TELEGRAM_WEBHOOK_SECRET")
	c.HTTP.Addr = getenv("HTTP_ADDR", ":8080")

	c.DB.Driver = strings.ToLower(getenv("DB_DRIVER", "sqlite"))
	c.DB.Path = getenv("DB_PATH", "data/bot.db")
	c.DB.DSN = os.Getenv("DB_DSN")
	if c.DB.Driver == "postgres" && c.DB.DSN == "" {
		c.DB.DSN = pg.BuildDSN(pg.DSNConfig{
			Host:            getenv("PG_HOST", "localhost"),
			Port:            getenvInt("PG_PORT", 5432),
			User:            os.Getenv("PG_USER"),
			Password:        os.Getenv("PG_PASSWORD"),
			Database:        os.Getenv("PG_DATABASE"),
			SSLMode:         getenv("PG_SSLMODE", "disable"),
			ApplicationName: "kalimerabot",
		})
	}

	c.Schedule.Timezone = getenv("SCHEDULE_TIMEZONE", "Europe/Athens")
	c.Schedule.Message = getenv("SCHEDULE_MESSAGE", "☀️ Καλημέρα! Αυτό είναι το προγραμματισμένο μήνυμά σου.")

	var err error
	if c.Schedule.TickInterval, err = getenvDuration("SCHEDULE_TICK_INTERVAL", time.Minute); err != nil {
		return Config{}, err
	}
	if c.Schedule.InitialDelay, err = getenvDuration("SCHEDULE_INITIAL_DELAY", time.Second); err != nil {
		return Config{}, err
	}
	if c.Schedule.PaceDelay, err = getenvDuration("SCHEDULE_PACE_DELAY", 50*time.Millisecond); err != nil {
		return Config{}, err
	}
	if c.Schedule.MaxRateLimitWait, err = getenvDuration("SCHEDULE_MAX_RATELIMIT_WAIT", time.Hour); err != nil {
		return Config{}, err
	}

	c.AdminIDs = middleware.ParseAllowedIDs(os.Getenv("ADMIN_CHAT_IDS"))

	c.Log.ConsoleLevel = strings.ToLower(getenv("LOG_CONSOLE_LEVEL", "info"))
	c.Log.FileLevel = strings.ToLower(getenv("LOG_FILE_LEVEL", "info"))
	c.Log.File = getenv("LOG_FILE", "data/logs/activity.log")
	c.Log.ErrorFile = getenv("LOG_ERROR_FILE", "data/logs/errors.log")

	if err := validate.Struct(c); err != nil {
		return Config{}, err
	}
	if c.Telegram.WebhookURL != "" && c.Telegram.WebhookSecret == "" {
		return Config{}, errors.New("TELEGRAM_WEBHOOK_SECRET required when TELEGRAM_WEBHOOK_URL is set")
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return Config{}, fmt.Errorf("invalid SCHEDULE_TIMEZONE %q: %w", c.Schedule.Timezone, err)
	}
	return c, nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvDuration(k string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", k, v, err)
	}
	return d, nil
}
