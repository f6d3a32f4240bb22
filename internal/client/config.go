package client

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the client SDK's YAML configuration: lb_host, lb_port,
// server_list.
type Config struct {
	LBHost     string   `yaml:"lb_host"`
	LBPort     int      `yaml:"lb_port"`
	ServerList []string `yaml:"server_list"`
}

// LoadConfig reads and parses a client config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read client config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse client config: %w", err)
	}
	if cfg.LBHost == "" {
		return Config{}, fmt.Errorf("client config: lb_host is required")
	}
	return cfg, nil
}
