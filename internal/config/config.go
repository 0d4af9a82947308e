package config

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"auction-server/internal/assets"
	"auction-server/internal/repository"

	"github.com/kelseyhightower/envconfig"
)

// Prefix of every environment variable read by Load
const Prefix = "AS"

const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

type Config struct {
	Server ServerConfig `envconfig:"SERVER"`
	Store  StoreConfig  `envconfig:"STORE"`
	Log    LogConfig    `envconfig:"LOG"`
}

type ServerConfig struct {
	Host            string        `envconfig:"HOST"`
	Port            int           `envconfig:"PORT" default:"58011"`
	UDPTimeout      time.Duration `envconfig:"UDP_TIMEOUT" default:"5s"`
	TCPReadTimeout  time.Duration `envconfig:"TCP_READ_TIMEOUT" default:"10s"`
	TCPWriteTimeout time.Duration `envconfig:"TCP_WRITE_TIMEOUT" default:"10s"`
	AdminAddr       string        `envconfig:"ADMIN_ADDR" default:":8080"` // empty disables the admin API
}

// Addr is the address both protocol listeners bind to
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type StoreConfig struct {
	Driver string `envconfig:"DRIVER" default:"memory"`
	repository.SQLiteConfig
	assets.Config
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"json"`
}

// ClientConfig is read by LoadClient, separately from the server configuration
type ClientConfig struct {
	Host         string        `envconfig:"HOST" default:"localhost"`
	Port         int           `envconfig:"PORT" default:"58011"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"10s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
}

func (c ClientConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// Load reads the configuration from AS_* environment variables
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadClient reads the client configuration from AS_CLIENT_* environment variables
func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig

	if err := envconfig.Process(Prefix+"_CLIENT", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process client environment config: %w", err)
	}

	if err := validateClientConfig(&cfg); err != nil {
		return nil, fmt.Errorf("client config validation failed: %w", err)
	}

	return &cfg, nil
}

func validateClientConfig(cfg *ClientConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("invalid client port: %d", cfg.Port)
	}
	for name, d := range map[string]time.Duration{
		"dial timeout":  cfg.DialTimeout,
		"read timeout":  cfg.ReadTimeout,
		"write timeout": cfg.WriteTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("invalid client %s: %s", name, d)
		}
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}

	for name, d := range map[string]time.Duration{
		"udp timeout":       cfg.Server.UDPTimeout,
		"tcp read timeout":  cfg.Server.TCPReadTimeout,
		"tcp write timeout": cfg.Server.TCPWriteTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("invalid %s: %s", name, d)
		}
	}

	switch cfg.Store.Driver {
	case DriverMemory, DriverSQLite:
	default:
		return fmt.Errorf("unknown store driver: %q", cfg.Store.Driver)
	}

	switch cfg.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format: %q", cfg.Log.Format)
	}

	return nil
}
