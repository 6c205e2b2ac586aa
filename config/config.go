package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	App      App      `yaml:"app"`
	Backend  Backend  `yaml:"backend"`
	Auth     Auth     `yaml:"auth"`
	Redis    Redis    `yaml:"redis"`
	Frontend Frontend `yaml:"frontend"`
}

type App struct {
	Name string `yaml:"name" env:"APP_NAME" env-default:"viajes-global-storefront"`
	Port string `yaml:"port" env:"PORT" env-default:"8080"`
	Mode string `yaml:"mode" env:"GIN_MODE" env-default:"debug"`
}

// Backend is the external travel API that owns inventory, customers,
// bookings and payments. This service only orchestrates calls to it.
type Backend struct {
	BaseURL        string `yaml:"base_url" env:"BACKEND_URL" env-default:"http://localhost:9090/"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"BACKEND_TIMEOUT" env-default:"30"`
}

type Auth struct {
	JWTSecret   string `yaml:"jwt_secret" env:"JWT_SECRET_KEY" env-default:"empty-secret-key"`
	TokenTTLHrs int    `yaml:"token_ttl_hours" env:"TOKEN_TTL_HOURS" env-default:"24"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

type Frontend struct {
	// Comma-separated list of extra allowed CORS origins.
	Origins string `yaml:"origins" env:"FRONTEND_URL"`
}

func New() (*Config, error) {
	cfg := &Config{}

	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		// fallback to env vars if file not found
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("config error: %w", err)
		}
	} else {
		// Allow env vars to override config file
		cleanenv.ReadEnv(cfg)
	}

	return cfg, nil
}
