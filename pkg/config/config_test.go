package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
listen: "0.0.0.0:8088"

logging:
  level: "DEBUG"

kdc:
  primary_realm: "TEST.REALM"
  service_principal: "krbtgt/TEST.REALM"
  max_ticket_lifetime: 4h

keytab:
  path: "` + filepath.ToSlash(tmpDir) + `/kdcd.keytab"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Logging.Level != "DEBUG" {
		t.Errorf("expected logging.level DEBUG, got %q", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("expected default format json, got %q", cfg.Logging.Format)
	}
	if cfg.KDC.PrimaryRealm != "TEST.REALM" {
		t.Errorf("expected primary realm TEST.REALM, got %q", cfg.KDC.PrimaryRealm)
	}
	if cfg.KDC.MaxTicketLifetime != 4*time.Hour {
		t.Errorf("expected max ticket lifetime 4h, got %v", cfg.KDC.MaxTicketLifetime)
	}
	if cfg.KDC.MaxRenewableLifetime != defaultMaxRenewableLifetime {
		t.Errorf("expected default renewable lifetime, got %v", cfg.KDC.MaxRenewableLifetime)
	}
	if cfg.ReplayCache.TTL != defaultReplayCacheTTL {
		t.Errorf("expected default replay cache ttl, got %v", cfg.ReplayCache.TTL)
	}
	if len(cfg.KDC.EncryptionTypes) == 0 {
		t.Error("expected default encryption types to be populated")
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	nonExistentPath := filepath.Join(tmpDir, "nonexistent.yaml")

	cfg, err := Load(nonExistentPath)
	if err != nil {
		t.Fatalf("expected no error loading default config, got: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config to be returned")
	}
	if cfg.KDC.PrimaryRealm == "" {
		t.Error("expected default config to carry a primary realm")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	configContent := `
logging:
  level: DEBUG
  invalid yaml here [[[
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected error with invalid YAML, got nil")
	}
}

func TestLoad_FailsValidation(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
kdc:
  primary_realm: ""
  service_principal: "krbtgt/TEST.REALM"

keytab:
  path: "` + filepath.ToSlash(tmpDir) + `/kdcd.keytab"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected validation error for empty primary_realm, got nil")
	}
}

func TestLoad_RenewableLifetimeShorterThanTicketLifetime(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
kdc:
  primary_realm: "TEST.REALM"
  service_principal: "krbtgt/TEST.REALM"
  max_ticket_lifetime: 10h
  max_renewable_lifetime: 1h

keytab:
  path: "` + filepath.ToSlash(tmpDir) + `/kdcd.keytab"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(configPath); err == nil {
		t.Fatal("expected validation error when renewable lifetime is shorter than ticket lifetime, got nil")
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "subdir", "config.yaml")

	cfg := GetDefaultConfig()
	cfg.KDC.PrimaryRealm = "ROUNDTRIP.TEST"

	if err := SaveConfig(cfg, configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := Load(configPath)
	if err != nil {
		t.Fatalf("failed to load saved config: %v", err)
	}
	if loaded.KDC.PrimaryRealm != "ROUNDTRIP.TEST" {
		t.Errorf("expected primary realm ROUNDTRIP.TEST, got %q", loaded.KDC.PrimaryRealm)
	}

	info, err := os.Stat(configPath)
	if err != nil {
		t.Fatalf("failed to stat saved config: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected config file mode 0600, got %v", perm)
	}
}

func TestToTGSConfig(t *testing.T) {
	cfg := GetDefaultConfig()
	cfg.KDC.PrimaryRealm = "EXAMPLE.COM"

	tgsCfg := cfg.KDC.ToTGSConfig()
	if tgsCfg.PrimaryRealm != "EXAMPLE.COM" {
		t.Errorf("expected primary realm EXAMPLE.COM, got %q", tgsCfg.PrimaryRealm)
	}
	if tgsCfg.MaxTicketLifetime != cfg.KDC.MaxTicketLifetime {
		t.Errorf("expected ticket lifetime to carry over, got %v", tgsCfg.MaxTicketLifetime)
	}
}
