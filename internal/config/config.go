package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE"`
	Secret     string `env:"SECRET,required"`
	Port       uint16 `env:"PORT" envDefault:"8080"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	PostgresqlURL string `env:"POSTGRESQL_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`
	RabbitmqURL   string `env:"RABBITMQ_URL,required"`

	RabbitmqUserEventsExchange string `env:"RABBITMQ_USER_EVENTS_EXCHANGE" envDefault:"user-events"`

	BcryptHasherCost int `env:"BCRYPT_HASHER_COST" envDefault:"10"`

	IsRegistrationEnabled          bool `env:"ENABLE_REGISTRATION" envDefault:"true"`
	IsEmailConfirmationEnabled     bool `env:"ENABLE_EMAIL_CONFIRMATION" envDefault:"true"`
	ConfirmationValidDurationHours int  `env:"CONFIRMATION_VALID_DURATION_HOURS" envDefault:"24"`

	TokenCleanupPeriod time.Duration `env:"TOKEN_CLEANUP_PERIOD" envDefault:"1h"`

	AwsRegion                    string  `env:"AWS_REGION" envDefault:"eu-west-1"`
	AwsAccessKey                 string  `env:"AWS_ACCESS_KEY,required"`
	AwsSecretKey                 string  `env:"AWS_SECRET_KEY,required"`
	AwsEmailSender               string  `env:"AWS_EMAIL_SENDER,required"`
	AwsEmailWelcomeTemplate      string  `env:"AWS_EMAIL_WELCOME_TEMPLATE,required"`
	AwsEmailConfirmationTemplate string  `env:"AWS_EMAIL_CONFIRMATION_TEMPLATE,required"`
	EmailConfirmationBaseURL     url.URL `env:"EMAIL_CONFIRMATION_BASE_URL,required"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("could not load configuration: %w", err)
	}
	return cfg, nil
}
