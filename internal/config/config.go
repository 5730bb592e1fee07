package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the ggposrv server.
type Config struct {
	// Network
	BindAddress string `yaml:"bind_address"`
	Port        int    `yaml:"port"`

	// Holepunch enables the UDP rendezvous service; peer-address pushes then
	// point emulators at their local UDP proxy instead of the raw peer.
	Holepunch bool `yaml:"holepunch"`

	// ServerName appears in error pushes and the dynamic MOTD footer.
	ServerName string `yaml:"server_name"`

	// Paths
	QuarkDir string `yaml:"quark_dir"`
	PidFile  string `yaml:"pid_file"`
	LogFile  string `yaml:"log_file"`
	GeoTable string `yaml:"geo_table"` // optional static geo lookup table

	// Channels are appended to the built-in catalog.
	Channels []ChannelEntry `yaml:"channels"`

	// Database
	Database DatabaseConfig `yaml:"database"`
}

// ChannelEntry describes one extra chat channel.
type ChannelEntry struct {
	Name  string `yaml:"name"`
	Rom   string `yaml:"rom"`
	Topic string `yaml:"topic"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// Default returns a Config with sensible defaults.
func Default() Config {
	return Config{
		BindAddress: "0.0.0.0",
		Port:        7000,
		ServerName:  "localhost",
		QuarkDir:    "quarks",
		PidFile:     "ggposrv.pid",
		LogFile:     "ggposrv.log",
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "ggposrv",
			Password: "ggposrv",
			DBName:   "ggposrv",
			SSLMode:  "disable",
		},
	}
}

// Load loads config from a YAML file.
// If the file doesn't exist, returns defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
