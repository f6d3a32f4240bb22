package client

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		path := writeConfig(t, `
lb_host: localhost
lb_port: 9000
server_list:
  - localhost:9001
  - localhost:9002
`)
		cfg, err := LoadConfig(path)
		if err != nil {
			t.Fatalf("LoadConfig: %v", err)
		}
		if cfg.LBHost != "localhost" || cfg.LBPort != 9000 || len(cfg.ServerList) != 2 {
			t.Fatalf("unexpected config: %+v", cfg)
		}
	})

	t.Run("missing lb_host is rejected", func(t *testing.T) {
		path := writeConfig(t, "lb_port: 9000\n")
		if _, err := LoadConfig(path); err == nil {
			t.Fatal("expected error for missing lb_host")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Fatal("expected error for missing file")
		}
	})
}

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
