package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sitedesk.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
  dsn: /tmp/site.db
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Addr = %q, want default :8080", cfg.Server.Addr)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("ReadTimeout = %v, want 15s", cfg.Server.ReadTimeout)
	}
	if !cfg.Export.Gzip {
		t.Error("Export.Gzip = false, want default true")
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  name: "Loft Renovation"
  addr: ":9000"
  read_timeout: 5s
database:
  driver: postgres
  dsn: postgres://u:p@localhost/site
  schema: projects
export:
  gzip: false
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Name != "Loft Renovation" || cfg.Server.Addr != ":9000" {
		t.Errorf("server = %+v", cfg.Server)
	}
	if cfg.Database.Driver != "postgres" || cfg.Database.Schema != "projects" {
		t.Errorf("database = %+v", cfg.Database)
	}
	if cfg.Export.Gzip {
		t.Error("Export.Gzip = true, want false")
	}
}

func TestLoad_DSNFromEnv(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
  dsn: ""
`)
	t.Setenv("SITEDESK_DB_DSN", "postgres://env@localhost/site")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Database.DSN != "postgres://env@localhost/site" {
		t.Errorf("DSN = %q, want env fallback", cfg.Database.DSN)
	}
}

func TestLoad_MissingDSN(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
  dsn: ""
`)
	t.Setenv("SITEDESK_DB_DSN", "")

	if _, err := Load(path); err == nil {
		t.Error("Load() = nil error, want missing-DSN error")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() = nil error, want read error")
	}
}
