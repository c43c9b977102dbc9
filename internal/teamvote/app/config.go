package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AdminAPIKey     string `env:"TEAMVOTE_ADMIN_API_KEY"`      // Optional: plain admin key, hashed at startup
	AdminAPIKeyHash string `env:"TEAMVOTE_ADMIN_API_KEY_HASH"` // Optional: argon2id hash of the admin key (wins over the plain key)

	DatabaseFile   string `env:"TEAMVOTE_DATABASE_FILE"    envDefault:"teamvote.db"`
	PepperFile     string `env:"TEAMVOTE_PEPPER_FILE"      envDefault:"pepper"`
	SessionKeyFile string `env:"TEAMVOTE_SESSION_KEY_FILE"` // Optional: empty means an in-memory key, sessions end on restart
	Issuer         string `env:"TEAMVOTE_ISSUER"           envDefault:"teamvote"`
	CookieSecure   bool   `env:"TEAMVOTE_COOKIE_SECURE"    envDefault:"false"`

	SessionTTL           time.Duration `env:"TEAMVOTE_SESSION_TTL"            envDefault:"24h"`
	RegistrationTokenTTL time.Duration `env:"TEAMVOTE_REGISTRATION_TOKEN_TTL" envDefault:"0s"` // 0 never expires

	Env                  string        `env:"ENV"                   envDefault:"dev"`  // dev, staging, prod
	LogLevel             string        `env:"LOG_LEVEL"             envDefault:"info"` // debug, info, warn, error
	LogFormat            string        `env:"LOG_FORMAT"            envDefault:"json"` // json, text
	Port                 int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod  time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`
	HousekeepingInterval time.Duration `env:"HOUSEKEEPING_INTERVAL" envDefault:"1h"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.DatabaseFile == "" {
		errs = append(errs, errors.New("TEAMVOTE_DATABASE_FILE must not be empty"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("TEAMVOTE_SESSION_TTL must be positive"))
	}
	if c.RegistrationTokenTTL < 0 {
		errs = append(errs, errors.New("TEAMVOTE_REGISTRATION_TOKEN_TTL must not be negative"))
	}
	if c.HousekeepingInterval <= 0 {
		errs = append(errs, errors.New("HOUSEKEEPING_INTERVAL must be positive"))
	}
	return errors.Join(errs...)
}
