package router

import (
	"distributed-kvstore/internal/ringhash"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the router's YAML configuration: lb_host, lb_port, vNodes,
// hashRandom, N, plus the hashSeed/addressMap fields that make ring
// placement deterministic and deployment addresses configurable.
type Config struct {
	LBHost string `yaml:"lb_host"`
	LBPort int    `yaml:"lb_port"`

	VNodes int `yaml:"vNodes"`
	N      int `yaml:"N"`

	// HashRandom is carried for config-file compatibility but is not
	// read: ring placement is made deterministic by HashSeed instead. A
	// `true` value here is accepted and ignored rather than rejected,
	// since the field is documented as reserved.
	HashRandom bool   `yaml:"hashRandom"`
	HashSeed   string `yaml:"hashSeed"`

	// AddressMap rewrites "host:port" logical addresses to deployment
	// addresses (e.g. container IPs) before they are pushed to nodes
	// or embedded in preference lists.
	AddressMap map[string]string `yaml:"addressMap"`

	// ServerList is not part of the router's own YAML — it is supplied
	// separately to Init.
}

// LoadConfig reads and parses a router config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read router config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse router config: %w", err)
	}
	if cfg.VNodes < 1 {
		cfg.VNodes = 1
	}
	if cfg.N < 1 {
		return Config{}, fmt.Errorf("router config: N must be >= 1")
	}
	return cfg, nil
}

// ParseServerList parses "host:port" entries as used by both the
// router's init operation and the client SDK's own server_list config.
func ParseServerList(entries []string) ([]ringhash.NodeAddr, error) {
	out := make([]ringhash.NodeAddr, 0, len(entries))
	for _, e := range entries {
		host, portStr, ok := strings.Cut(e, ":")
		if !ok {
			return nil, fmt.Errorf("invalid server list entry %q: expected host:port", e)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid port in %q: %w", e, err)
		}
		out = append(out, ringhash.NodeAddr{Host: host, Port: port})
	}
	return out, nil
}
