package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvDev = "dev"

var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set outside the dev environment")

const (
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort        int
	ShutdownTimeout time.Duration

	StoreDriver       string
	MongoURI          string
	MongoDB           string
	MongoTransactions bool

	CatalogDriver   string
	Postgres        PostgresConfig
	RedisAddr       string
	CatalogCacheTTL time.Duration

	RabbitMQURL      string
	RabbitMQExchange string

	JWTSecret string

	CheckoutMaxConcurrent int
}

type PostgresConfig struct {
	Host string
	Port int
	User string
	Pass string
	DB   string
}

// Load reads an optional .env file and then the process environment.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", EnvDev)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_PORT", 8080)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)

	v.SetDefault("STORE_DRIVER", DriverMongo)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "shopping")
	v.SetDefault("MONGO_TRANSACTIONS", false)

	v.SetDefault("CATALOG_DRIVER", DriverPostgres)
	v.SetDefault("POSTGRES_HOST", "localhost")
	v.SetDefault("POSTGRES_PORT", 5432)
	v.SetDefault("POSTGRES_USER", "shopping")
	v.SetDefault("POSTGRES_PASSWORD", "shoppingpassword")
	v.SetDefault("POSTGRES_DB", "shopping_db")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("CATALOG_CACHE_TTL", 5*time.Minute)

	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "orders")

	v.SetDefault("CHECKOUT_MAX_CONCURRENT", 10)

	return Config{
		AppEnv:          strings.ToLower(v.GetString("APP_ENV")),
		LogLevel:        v.GetString("LOG_LEVEL"),
		HTTPPort:        v.GetInt("HTTP_PORT"),
		ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),

		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		MongoURI:          v.GetString("MONGO_URI"),
		MongoDB:           v.GetString("MONGO_DB"),
		MongoTransactions: v.GetBool("MONGO_TRANSACTIONS"),

		CatalogDriver: strings.ToLower(v.GetString("CATALOG_DRIVER")),
		Postgres: PostgresConfig{
			Host: v.GetString("POSTGRES_HOST"),
			Port: v.GetInt("POSTGRES_PORT"),
			User: v.GetString("POSTGRES_USER"),
			Pass: v.GetString("POSTGRES_PASSWORD"),
			DB:   v.GetString("POSTGRES_DB"),
		},
		RedisAddr:       v.GetString("REDIS_ADDR"),
		CatalogCacheTTL: v.GetDuration("CATALOG_CACHE_TTL"),

		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		RabbitMQExchange: v.GetString("RABBITMQ_EXCHANGE"),

		JWTSecret: v.GetString("JWT_SECRET"),

		CheckoutMaxConcurrent: v.GetInt("CHECKOUT_MAX_CONCURRENT"),
	}
}

// Validate rejects settings that are only tolerable on a developer machine.
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" && c.AppEnv != EnvDev {
		return ErrMissingJWTSecret
	}
	return nil
}
