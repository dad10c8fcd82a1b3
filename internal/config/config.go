package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API struct {
		BaseURL    string `yaml:"base_url"`
		CSRFCookie string `yaml:"csrf_cookie"`
	} `yaml:"api"`
	WS struct {
		BaseURL           string `yaml:"base_url"`
		ReconnectInterval string `yaml:"reconnect_interval"`
	} `yaml:"ws"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		TTL      string `yaml:"ttl"`
	} `yaml:"redis"`
	GameHub struct {
		StatePath string `yaml:"state_path"`
	} `yaml:"gamehub"`
	Enrich struct {
		TTL string `yaml:"ttl"`
	} `yaml:"enrich"`
}

// Load reads YAML config from path.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
