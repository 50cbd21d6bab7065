package app

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is read from the environment and, optionally, a config file.
// Environment variables win over the file.
type Config struct {
	TokenSecret         string        `mapstructure:"AUTH_TOKEN_SECRET"`
	TokenPrevious       string        `mapstructure:"AUTH_TOKEN_PREVIOUS_SECRETS"` // comma separated
	TokenTTL            time.Duration `mapstructure:"AUTH_TOKEN_TTL"`
	Algorithm           string        `mapstructure:"AUTH_ALGORITHM"`
	Issuer              string        `mapstructure:"AUTH_ISSUER"`
	HighThreshold       float64       `mapstructure:"FRUSTRATION_HIGH_THRESHOLD"`
	StatsDefaultWindow  time.Duration `mapstructure:"STATS_DEFAULT_WINDOW"`
	StoreTimeout        time.Duration `mapstructure:"STORE_TIMEOUT"`
	DatabaseDriver      string        `mapstructure:"DATABASE_DRIVER"`
	DatabaseFile        string        `mapstructure:"DATABASE_FILE"`
	DatabaseURL         string        `mapstructure:"DATABASE_URL"`
	PepperFile          string        `mapstructure:"PEPPER_FILE"`
	BootstrapToken      string        `mapstructure:"BOOTSTRAP_TOKEN"`
	SessionIdleTimeout  time.Duration `mapstructure:"SESSION_IDLE_TIMEOUT"`
	HousekeepingEvery   time.Duration `mapstructure:"HOUSEKEEPING_INTERVAL"`
	Env                 string        `mapstructure:"ENV"`
	LogLevel            string        `mapstructure:"LOG_LEVEL"`
	LogFormat           string        `mapstructure:"LOG_FORMAT"`
	Port                int           `mapstructure:"PORT"`
	ShutdownGracePeriod time.Duration `mapstructure:"SHUTDOWN_GRACE_PERIOD"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// LoadConfig builds a Config from the environment. When configFile is not
// empty it is read first and must exist; its format follows the extension.
func LoadConfig(configFile string) (Config, error) {
	v := viper.New()

	// Every key needs a default, even an empty one, or Unmarshal won't see
	// the environment variable.
	v.SetDefault("AUTH_TOKEN_SECRET", "")
	v.SetDefault("AUTH_TOKEN_PREVIOUS_SECRETS", "")
	v.SetDefault("AUTH_TOKEN_TTL", "0s")
	v.SetDefault("AUTH_ALGORITHM", "HS256")
	v.SetDefault("AUTH_ISSUER", "adaptive-auth")
	v.SetDefault("FRUSTRATION_HIGH_THRESHOLD", 0.7)
	v.SetDefault("STATS_DEFAULT_WINDOW", "60s")
	v.SetDefault("STORE_TIMEOUT", "5s")
	v.SetDefault("DATABASE_DRIVER", DriverSQLite)
	v.SetDefault("DATABASE_FILE", "adaptive.db")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("PEPPER_FILE", "pepper")
	v.SetDefault("BOOTSTRAP_TOKEN", "")
	v.SetDefault("SESSION_IDLE_TIMEOUT", "2h")
	v.SetDefault("HOUSEKEEPING_INTERVAL", "10m")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PORT", 8080)
	v.SetDefault("SHUTDOWN_GRACE_PERIOD", "10s")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}

	cfg.Algorithm = strings.ToUpper(strings.TrimSpace(cfg.Algorithm))
	cfg.DatabaseDriver = strings.ToLower(strings.TrimSpace(cfg.DatabaseDriver))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once so a bad deployment is fixed in
// one go.
func (c Config) Validate() error {
	var errs []error

	switch {
	case c.TokenSecret == "":
		errs = append(errs, errors.New("config: AUTH_TOKEN_SECRET must be set"))
	case len(c.TokenSecret) < 32:
		errs = append(errs, errors.New("config: AUTH_TOKEN_SECRET must be at least 32 bytes"))
	}
	if c.TokenTTL < time.Second {
		errs = append(errs, errors.New("config: AUTH_TOKEN_TTL must be set and at least 1s"))
	}
	switch c.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("config: AUTH_ALGORITHM %q is not one of HS256, HS384, HS512", c.Algorithm))
	}
	if math.IsNaN(c.HighThreshold) || c.HighThreshold <= 0 || c.HighThreshold > 1 {
		errs = append(errs, errors.New("config: FRUSTRATION_HIGH_THRESHOLD must be in (0, 1]"))
	}
	if c.StatsDefaultWindow <= 0 {
		errs = append(errs, errors.New("config: STATS_DEFAULT_WINDOW must be positive"))
	}
	if c.StoreTimeout <= 0 {
		errs = append(errs, errors.New("config: STORE_TIMEOUT must be positive"))
	}
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			errs = append(errs, errors.New("config: DATABASE_FILE must be set for sqlite"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("config: DATABASE_URL must be set for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("config: DATABASE_DRIVER %q is not sqlite or postgres", c.DatabaseDriver))
	}
	if c.SessionIdleTimeout < 0 {
		errs = append(errs, errors.New("config: SESSION_IDLE_TIMEOUT must not be negative"))
	}
	if c.HousekeepingEvery <= 0 {
		errs = append(errs, errors.New("config: HOUSEKEEPING_INTERVAL must be positive"))
	}
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("config: PORT %d is out of range", c.Port))
	}

	return errors.Join(errs...)
}

// PreviousSecrets splits AUTH_TOKEN_PREVIOUS_SECRETS, dropping blanks.
func (c Config) PreviousSecrets() []string {
	if c.TokenPrevious == "" {
		return nil
	}
	parts := strings.Split(c.TokenPrevious, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
