// Package config loads server settings from an optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/timely/internal/imaging"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

type Server struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
	// PublicURL prefixes share links; empty means links are built from the request host.
	PublicURL string `yaml:"public_url"`
}

type Store struct {
	Driver        string        `yaml:"driver"`
	Path          string        `yaml:"path"`
	MongoURI      string        `yaml:"mongo_uri"`
	MongoDatabase string        `yaml:"mongo_database"`
	Timeout       time.Duration `yaml:"timeout"`
}

type Uploads struct {
	Dir          string `yaml:"dir"`
	MaxDimension int    `yaml:"max_dimension"`
}

type Log struct {
	Path string `yaml:"path"`
}

type Admin struct {
	// Username of the single read-only operator.
	Username string `yaml:"username"`
}

type Config struct {
	Server  Server  `yaml:"server"`
	Store   Store   `yaml:"store"`
	Uploads Uploads `yaml:"uploads"`
	Log     Log     `yaml:"log"`
	Admin   Admin   `yaml:"admin"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads a YAML config file and fills in defaults for unset values.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	c.applyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 120 * time.Second
	}
	if c.Store.Driver == "" {
		c.Store.Driver = DriverSQLite
	}
	if c.Store.Path == "" {
		c.Store.Path = "timely.sqlite3"
	}
	if c.Store.MongoDatabase == "" {
		c.Store.MongoDatabase = "timely"
	}
	if c.Store.Timeout == 0 {
		c.Store.Timeout = 5 * time.Second
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "uploads"
	}
	if c.Uploads.MaxDimension == 0 {
		c.Uploads.MaxDimension = imaging.DefaultMaxDimension
	}
	if c.Admin.Username == "" {
		c.Admin.Username = "admin"
	}
}

// Validate checks values that have no sensible default.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverSQLite:
	case DriverMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store.mongo_uri is required for driver %q", DriverMongo)
		}
	default:
		return fmt.Errorf("unknown store driver %q (want %s or %s)", c.Store.Driver, DriverSQLite, DriverMongo)
	}
	if c.Uploads.MaxDimension < 0 {
		return fmt.Errorf("uploads.max_dimension must not be negative")
	}
	return nil
}
