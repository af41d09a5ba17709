package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPServer HTTPServer
	Upstream   Upstream
	Cache      Cache
}

type HTTPServer struct {
	Port        string        `env:"HTTP_PORT" env-default:"8080"`
	Timeout     time.Duration `env:"HTTP_TIMEOUT" env-default:"2m"`
	IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type Upstream struct {
	URL         string        `env:"API_URL" env-default:"https://api.exchangerate.host"`
	AccessKey   string        `env:"API_ACCESS_KEY"`
	Timeout     time.Duration `env:"API_TIMEOUT" env-default:"30s"`
	MaxThrottle time.Duration `env:"API_MAX_THROTTLE" env-default:"2s"`
}

type Cache struct {
	TTL time.Duration `env:"CACHE_TTL" env-default:"24h"`
}

func NewConfig() *Config {
	cfg := &Config{}

	_ = godotenv.Load(".env")

	if err := cleanenv.ReadEnv(cfg); err != nil {
		log.Fatal("Error reading env")
	}

	return cfg
}
