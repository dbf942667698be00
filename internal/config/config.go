package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// MinSecretLength is the shortest JWT secret accepted at startup.
const MinSecretLength = 32

// Config holds every setting the service reads at startup. It is built once
// and passed down explicitly; nothing mutates it afterwards.
type Config struct {
	AppPort string

	DatabaseDriver       string
	DatabaseDSN          string
	DatabaseAutoMigrate  bool
	DatabaseMaxOpenConns int

	JWTSecret    string
	JWTAlgorithm string
	TokenTTL     time.Duration
	BcryptCost   int

	RabbitMQURL           string
	RabbitMQExchange      string
	EventsConsumerEnabled bool

	LogLevel string
}

// Load reads the configuration from the environment and, when CONFIG_FILE is
// set, from that file. Environment variables win over file values.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if file := v.GetString("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", file, err)
		}
	}

	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:               v.GetString("APP_PORT"),
		DatabaseDriver:        strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:           v.GetString("DATABASE_DSN"),
		DatabaseAutoMigrate:   v.GetBool("DATABASE_AUTO_MIGRATE"),
		DatabaseMaxOpenConns:  v.GetInt("DATABASE_MAX_OPEN_CONNS"),
		JWTSecret:             v.GetString("JWT_SECRET"),
		JWTAlgorithm:          strings.ToUpper(v.GetString("JWT_ALGORITHM")),
		TokenTTL:              v.GetDuration("TOKEN_TTL"),
		BcryptCost:            v.GetInt("BCRYPT_COST"),
		RabbitMQURL:           v.GetString("RABBITMQ_URL"),
		RabbitMQExchange:      v.GetString("RABBITMQ_EXCHANGE"),
		EventsConsumerEnabled: v.GetBool("EVENTS_CONSUMER_ENABLED"),
		LogLevel:              v.GetString("LOG_LEVEL"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "todos.db")
	v.SetDefault("DATABASE_AUTO_MIGRATE", true)
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	v.SetDefault("JWT_ALGORITHM", "HS256")
	v.SetDefault("TOKEN_TTL", "30m")
	v.SetDefault("BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("RABBITMQ_EXCHANGE", "todo_events")
	v.SetDefault("EVENTS_CONSUMER_ENABLED", false)
	v.SetDefault("LOG_LEVEL", "info")
}

// Validate checks the settings that would otherwise fail late or insecurely.
func (c *Config) Validate() error {
	if len(c.JWTSecret) < MinSecretLength {
		return fmt.Errorf("JWT_SECRET must be set and at least %d bytes long", MinSecretLength)
	}
	if _, ok := jwt.GetSigningMethod(c.JWTAlgorithm).(*jwt.SigningMethodHMAC); !ok {
		return fmt.Errorf("unsupported JWT_ALGORITHM %q: expected HS256, HS384 or HS512", c.JWTAlgorithm)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver)
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	return nil
}

// EventsEnabled reports whether a broker is configured.
func (c *Config) EventsEnabled() bool {
	return c.RabbitMQURL != ""
}
