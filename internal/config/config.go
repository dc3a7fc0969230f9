package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Port     string `env:"PORT, default=3000"`
	HTTPAddr string `env:"HTTP_ADDR"`

	DatabaseURL string `env:"DATABASE_URL"`

	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS, default=*"`
	CORSAllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS, default=false"`

	// TrustProxy honours X-Forwarded-For and X-Real-IP. Only enable behind
	// a proxy that overwrites them.
	TrustProxy bool `env:"TRUST_PROXY, default=false"`

	JWTSecret  string        `env:"JWT_SECRET"`
	JWTTTL     time.Duration `env:"JWT_TTL, default=1h"`
	BcryptCost int           `env:"BCRYPT_COST, default=10"`

	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Redis RedisConfig
	Login LoginLimit

	AppName    string `env:"APP_NAME, default=notely"`
	AppVersion string `env:"APP_VERSION, default=0.1.0"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB, default=0"`
}

// LoginLimit bounds login attempts per client IP.
type LoginLimit struct {
	Attempts int           `env:"LOGIN_RATE_LIMIT, default=10"`
	Window   time.Duration `env:"LOGIN_RATE_WINDOW, default=1m"`
}

// Load reads .env (if present) and the process environment.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()
	return LoadFrom(ctx, envconfig.OsLookuper())
}

// LoadFrom processes and validates configuration from an arbitrary lookuper.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: l}); err != nil {
		return Config{}, fmt.Errorf("process env: %w", err)
	}

	cfg.CORSAllowedOrigins = trimAll(cfg.CORSAllowedOrigins)
	cfg.JWTSecret = strings.TrimSpace(cfg.JWTSecret)
	cfg.DatabaseURL = strings.TrimSpace(cfg.DatabaseURL)
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":" + cfg.Port
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.DatabaseURL, validation.Required),
		validation.Field(&c.JWTSecret, validation.Required),
		validation.Field(&c.JWTTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.BcryptCost, validation.Min(bcrypt.MinCost), validation.Max(bcrypt.MaxCost)),
		validation.Field(&c.LogLevel, validation.In("trace", "debug", "info", "warn", "error")),
		validation.Field(&c.Login, validation.By(func(any) error {
			return validation.ValidateStruct(&c.Login,
				validation.Field(&c.Login.Attempts, validation.Min(1)),
				validation.Field(&c.Login.Window, validation.Min(time.Second)),
			)
		})),
	)
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
