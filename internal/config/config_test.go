package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
app:
  name: "innkeep-test"
hotel:
  http:
    port: 9080
  database:
    path: "hotel.db"
todo:
  redis:
    address: "localhost:6379"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.App.Name != "innkeep-test" {
		t.Errorf("expected app name innkeep-test, got %s", cfg.App.Name)
	}
	if cfg.Hotel.HTTP.Port != 9080 {
		t.Errorf("expected hotel port 9080, got %d", cfg.Hotel.HTTP.Port)
	}
	if cfg.Todo.Redis.Address != "localhost:6379" {
		t.Errorf("expected redis address localhost:6379, got %s", cfg.Todo.Redis.Address)
	}

	// Defaults applied for sections the file omits.
	if cfg.Restaurant.HTTP.Port != 8081 {
		t.Errorf("expected default restaurant port 8081, got %d", cfg.Restaurant.HTTP.Port)
	}
	if cfg.Todo.HTTP.Port != 8082 {
		t.Errorf("expected default todo port 8082, got %d", cfg.Todo.HTTP.Port)
	}
	if cfg.RateLimit.Burst != 5 {
		t.Errorf("expected default burst 5, got %d", cfg.RateLimit.Burst)
	}
}

func TestLoadConfigExpandsEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	t.Setenv("INNKEEP_DB_PATH", filepath.Join(tmpDir, "hotel.db"))

	yamlContent := `
hotel:
  database:
    path: "${INNKEEP_DB_PATH}"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Hotel.Database.Path != filepath.Join(tmpDir, "hotel.db") {
		t.Errorf("env substitution failed, got %s", cfg.Hotel.Database.Path)
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid config",
			cfg: Config{
				Hotel: HotelConfig{Database: DatabaseConfig{Path: "hotel.db"}},
			},
			wantErr: false,
		},
		{
			name:    "missing database path",
			cfg:     Config{},
			wantErr: true,
		},
		{
			name: "rate limit enabled without rps",
			cfg: Config{
				Hotel:     HotelConfig{Database: DatabaseConfig{Path: "hotel.db"}},
				RateLimit: RateLimitConfig{Enabled: true},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
