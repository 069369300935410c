package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	BackendREST    = "rest"
	BackendGraphQL = "graphql"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	StaticDir  string `yaml:"static_dir"`

	RootURL string `yaml:"root_url"`

	CacheLiveNavigation string `yaml:"cache_live_navigation"`

	Backend BackendConfig `yaml:"backend"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type BackendConfig struct {
	Kind            string        `yaml:"kind"`
	BaseURL         string        `yaml:"base_url"`
	GraphQLEndpoint string        `yaml:"graphql_endpoint"`
	AuthToken       string        `yaml:"auth_token"`
	Timeout         time.Duration `yaml:"timeout"`
}

func Defaults() Config {
	return Config{
		ListenAddr: ":8080",
		StaticDir:  "internal/web/static",
		Backend: BackendConfig{
			Kind:            BackendREST,
			BaseURL:         "http://localhost:8081",
			GraphQLEndpoint: "http://localhost:8081/graphql",
			Timeout:         15 * time.Second,
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Load reads the optional YAML file at path and applies environment
// overrides on top of it. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %q: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %q: %w", path, err)
		}
	}

	cfg.ListenAddr = getEnv("DIGIPARC_LISTEN_ADDR", cfg.ListenAddr)
	cfg.StaticDir = getEnv("DIGIPARC_STATIC_DIR", cfg.StaticDir)
	cfg.RootURL = getEnv("DIGIPARC_ROOT_URL", cfg.RootURL)
	cfg.CacheLiveNavigation = strings.TrimSpace(getEnv("DIGIPARC_CACHE_LIVE_NAV", cfg.CacheLiveNavigation))
	cfg.Backend.Kind = strings.ToLower(strings.TrimSpace(getEnv("DIGIPARC_BACKEND", cfg.Backend.Kind)))
	cfg.Backend.BaseURL = strings.TrimRight(getEnv("DIGIPARC_API_BASE_URL", cfg.Backend.BaseURL), "/")
	cfg.Backend.GraphQLEndpoint = getEnv("DIGIPARC_GRAPHQL_ENDPOINT", cfg.Backend.GraphQLEndpoint)
	cfg.Backend.AuthToken = getEnv("DIGIPARC_API_TOKEN", cfg.Backend.AuthToken)
	cfg.Backend.Timeout = getEnvDuration("DIGIPARC_API_TIMEOUT", cfg.Backend.Timeout)
	cfg.ShutdownTimeout = getEnvDuration("DIGIPARC_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Backend.Kind {
	case BackendREST:
		if strings.TrimSpace(c.Backend.BaseURL) == "" {
			return errors.New("backend base url is required for the rest backend")
		}
	case BackendGraphQL:
		if strings.TrimSpace(c.Backend.GraphQLEndpoint) == "" {
			return errors.New("graphql endpoint is required for the graphql backend")
		}
	default:
		return fmt.Errorf("unknown backend kind %q", c.Backend.Kind)
	}

	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive, got %s", c.Backend.Timeout)
	}
	return nil
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	return value
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}

	if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
		return parsed
	}

	// Bare integers are seconds.
	seconds, err := strconv.Atoi(value)
	if err != nil || seconds < 1 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}
