package cliconfig

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfigValidates(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Pooling {
		t.Error("pooling must be off by default")
	}
	if !cfg.Dedup || !cfg.Throttle {
		t.Error("dedup and throttle should be on by default")
	}
}

func TestSettingsConversion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Host = "192.168.1.40"
	cfg.Port = 7001
	cfg.Layer = 3
	cfg.BaseClipSlot = 4
	cfg.RotationCount = 3

	s := cfg.Settings()
	if s.Addr() != "192.168.1.40:7001" {
		t.Errorf("Addr = %q", s.Addr())
	}
	if s.Layer != 3 || s.BaseClipSlot != 4 || s.RotationCount != 3 {
		t.Errorf("settings conversion mismatch: %+v", s)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFileConfig(t *testing.T) {
	path := writeConfigFile(t, `
host = "10.0.0.5"
port = 7001
layer = 2
rotation_count = 4
auto_clear = true
auto_clear_delay = "2s"
pooling = true
pool_interval = "25ms"
`)

	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.Host != "10.0.0.5" || cfg.Port != 7001 {
		t.Errorf("endpoint = %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.Layer != 2 || cfg.RotationCount != 4 {
		t.Errorf("layer=%d rotation=%d", cfg.Layer, cfg.RotationCount)
	}
	if !cfg.AutoClearEnabled || cfg.AutoClearDelay != 2*time.Second {
		t.Errorf("auto-clear=%v delay=%v", cfg.AutoClearEnabled, cfg.AutoClearDelay)
	}
	if !cfg.Pooling || cfg.PoolInterval != 25*time.Millisecond {
		t.Errorf("pooling=%v interval=%v", cfg.Pooling, cfg.PoolInterval)
	}
}

func TestApplyFileConfigRespectsChangedFlags(t *testing.T) {
	path := writeConfigFile(t, `
host = "10.0.0.5"
layer = 9
`)
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Host = "flagged.example"
	changed := map[string]bool{"host": true}
	if err := ApplyFileConfig(&cfg, fc, changed); err != nil {
		t.Fatalf("ApplyFileConfig: %v", err)
	}

	if cfg.Host != "flagged.example" {
		t.Errorf("host = %q, flag value should win over file", cfg.Host)
	}
	if cfg.Layer != 9 {
		t.Errorf("layer = %d, file value should apply", cfg.Layer)
	}
}

func TestApplyFileConfigBadDuration(t *testing.T) {
	path := writeConfigFile(t, `auto_clear_delay = "soon"`)
	fc, err := LoadFileConfig(path)
	if err != nil {
		t.Fatalf("LoadFileConfig: %v", err)
	}
	cfg := DefaultConfig()
	if err := ApplyFileConfig(&cfg, fc, nil); err == nil {
		t.Fatal("expected a duration parse error")
	}
}

func TestApplyEnvConfig(t *testing.T) {
	t.Setenv("TEXTSHIP_HOST", "env.example")
	t.Setenv("TEXTSHIP_PORT", "7002")
	t.Setenv("TEXTSHIP_ROTATION_COUNT", "5")
	t.Setenv("TEXTSHIP_AUTO_CLEAR", "true")
	t.Setenv("TEXTSHIP_AUTO_CLEAR_DELAY", "3s")

	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}
	if cfg.Host != "env.example" || cfg.Port != 7002 {
		t.Errorf("endpoint = %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.RotationCount != 5 {
		t.Errorf("rotation = %d", cfg.RotationCount)
	}
	if !cfg.AutoClearEnabled || cfg.AutoClearDelay != 3*time.Second {
		t.Errorf("auto-clear=%v delay=%v", cfg.AutoClearEnabled, cfg.AutoClearDelay)
	}
}

func TestApplyEnvConfigChangedFlagWins(t *testing.T) {
	t.Setenv("TEXTSHIP_PORT", "9999")
	cfg := DefaultConfig()
	cfg.Port = 7005
	if err := ApplyEnvConfig(&cfg, map[string]bool{"port": true}); err != nil {
		t.Fatalf("ApplyEnvConfig: %v", err)
	}
	if cfg.Port != 7005 {
		t.Errorf("port = %d, flag value should win over env", cfg.Port)
	}
}

func TestApplyEnvConfigBadInteger(t *testing.T) {
	t.Setenv("TEXTSHIP_PORT", "not-a-port")
	cfg := DefaultConfig()
	if err := ApplyEnvConfig(&cfg, nil); err == nil {
		t.Fatal("expected an integer parse error")
	}
}
