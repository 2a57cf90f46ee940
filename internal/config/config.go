package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig `mapstructure:"server"`
	API    APIConfig    `mapstructure:"api"`
	Events EventsConfig `mapstructure:"events"`
	UI     UIConfig     `mapstructure:"ui"`
	CORS   CORSConfig   `mapstructure:"cors"`
	Log    LogConfig    `mapstructure:"log"`
}

type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	MaxHeaderBytes int           `mapstructure:"max_header_bytes"`
}

// APIConfig locates the DM service. BaseURL wins when set; otherwise the
// URL is derived from Host and FallbackPort.
type APIConfig struct {
	BaseURL      string        `mapstructure:"base_url"`
	Host         string        `mapstructure:"host"`
	FallbackPort int           `mapstructure:"fallback_port"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

type EventsConfig struct {
	HeartbeatInterval time.Duration `mapstructure:"heartbeat_interval"`
}

type UIConfig struct {
	Title string `mapstructure:"title"`
}

type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

const (
	EnvPrefix   = "DM"
	defaultHost = "127.0.0.1"
)

// Load reads an optional YAML file, then DM_* environment variables. A
// .env file in the working directory is loaded into the environment first
// and never overrides variables that are already set.
func Load(configPath string) (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	// SSE streams stay open; a write timeout would cut them.
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.max_header_bytes", 1<<20)

	v.SetDefault("api.base_url", "")
	v.SetDefault("api.host", "")
	v.SetDefault("api.fallback_port", 8000)
	v.SetDefault("api.timeout", 60*time.Second)

	v.SetDefault("events.heartbeat_interval", 15*time.Second)

	v.SetDefault("ui.title", "Infinite Worlds")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{"Origin", "Content-Type", "Accept"})
	v.SetDefault("cors.allow_credentials", false)
	v.SetDefault("cors.max_age", 600)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// ResolveBaseURL returns the DM service root without a trailing slash.
// It is meant to be called once at startup.
func (c APIConfig) ResolveBaseURL() (string, error) {
	raw := strings.TrimSpace(c.BaseURL)
	if raw == "" {
		host := strings.TrimSpace(c.Host)
		if host == "" {
			host = defaultHost
		}
		port := c.FallbackPort
		if port <= 0 {
			port = 8000
		}
		raw = "http://" + net.JoinHostPort(host, strconv.Itoa(port))
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse api base url %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("api base url %q: scheme must be http or https", raw)
	}
	if u.Host == "" {
		return "", errors.New("api base url: missing host")
	}
	return strings.TrimRight(u.String(), "/"), nil
}
