package utils

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Lock     LockConfig
	Booking  BookingConfig
	Billing  BillingConfig
	Events   EventsConfig
	Jobs     JobsConfig
}

type AppConfig struct {
	Name    string
	Port    string
	Debug   bool
	LogPath string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	MaxConns int32
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LockConfig controls the per-(court, date) critical section of the slot allocator.
type LockConfig struct {
	Driver  string // memory | redis
	Timeout time.Duration
	Retries int
	Backoff time.Duration
	TTL     time.Duration
}

type BookingConfig struct {
	OpenFrom string // HH:MM
	OpenTo   string // HH:MM, 24:00 allowed
}

type BillingConfig struct {
	AmountScale             int32
	DefaultIncrementMinutes int
}

type EventsConfig struct {
	AMQPURL  string
	Exchange string
}

type JobsConfig struct {
	AutoCompleteCron string
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	// Set defaults
	viper.SetDefault("APP_NAME", "court-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SLOT_LOCK_DRIVER", "memory")
	viper.SetDefault("SLOT_LOCK_TIMEOUT", "2s")
	viper.SetDefault("SLOT_LOCK_RETRIES", 3)
	viper.SetDefault("SLOT_LOCK_BACKOFF", "50ms")
	viper.SetDefault("SLOT_LOCK_TTL", "10s")
	viper.SetDefault("OPEN_FROM", "00:00")
	viper.SetDefault("OPEN_TO", "24:00")
	viper.SetDefault("BILLING_AMOUNT_SCALE", 2)
	viper.SetDefault("BILLING_INCREMENT_MINUTES", 60)
	viper.SetDefault("EVENTS_EXCHANGE", "court-booking")
	viper.SetDefault("AUTO_COMPLETE_CRON", "*/5 * * * *")

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:    viper.GetString("APP_NAME"),
			Port:    viper.GetString("PORT"),
			Debug:   viper.GetBool("DEBUG"),
			LogPath: viper.GetString("LOG_PATH"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASS"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Lock: LockConfig{
			Driver:  viper.GetString("SLOT_LOCK_DRIVER"),
			Timeout: viper.GetDuration("SLOT_LOCK_TIMEOUT"),
			Retries: viper.GetInt("SLOT_LOCK_RETRIES"),
			Backoff: viper.GetDuration("SLOT_LOCK_BACKOFF"),
			TTL:     viper.GetDuration("SLOT_LOCK_TTL"),
		},
		Booking: BookingConfig{
			OpenFrom: viper.GetString("OPEN_FROM"),
			OpenTo:   viper.GetString("OPEN_TO"),
		},
		Billing: BillingConfig{
			AmountScale:             viper.GetInt32("BILLING_AMOUNT_SCALE"),
			DefaultIncrementMinutes: viper.GetInt("BILLING_INCREMENT_MINUTES"),
		},
		Events: EventsConfig{
			AMQPURL:  viper.GetString("AMQP_URL"),
			Exchange: viper.GetString("EVENTS_EXCHANGE"),
		},
		Jobs: JobsConfig{
			AutoCompleteCron: viper.GetString("AUTO_COMPLETE_CRON"),
		},
	}

	return config, nil
}
