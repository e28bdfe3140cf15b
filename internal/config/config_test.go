package config

import (
	"strings"
	"testing"
)

func validBase() Config {
	cfg := Default()
	cfg.APIKeys = []string{"k1"}
	cfg.AdminAPIKey = "admin"
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := Default()
	if cfg.Port != 1133 || cfg.Host != "0.0.0.0" {
		t.Fatalf("unexpected server defaults: %+v", cfg)
	}
	if cfg.NCtx != 4096 || cfg.NBatch != 512 || cfg.NThreads != 8 || cfg.NGPULayers != -1 {
		t.Fatalf("unexpected engine defaults: %+v", cfg)
	}
	if !cfg.UseMlock || !cfg.UseMmap {
		t.Fatalf("expected mlock and mmap on by default")
	}
	if cfg.RopeFreqBase != 10000.0 || cfg.RopeFreqScale != 1.0 {
		t.Fatalf("unexpected rope defaults: %+v", cfg)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("INFERD_PORT", "8080")
	t.Setenv("INFERD_API_KEYS", "key1, key2 ,,key3")
	t.Setenv("INFERD_ADMIN_API_KEY", "root")
	t.Setenv("INFERD_MODEL_PATH", "/models/m.gguf")
	t.Setenv("INFERD_USE_MLOCK", "false")
	t.Setenv("INFERD_ROPE_FREQ_BASE", "500000")

	cfg, err := FromEnv(Default())
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port=%d", cfg.Port)
	}
	if len(cfg.APIKeys) != 3 || cfg.APIKeys[0] != "key1" || cfg.APIKeys[1] != "key2" || cfg.APIKeys[2] != "key3" {
		t.Fatalf("keys=%v", cfg.APIKeys)
	}
	if cfg.AdminAPIKey != "root" || cfg.ModelPath != "/models/m.gguf" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.UseMlock {
		t.Fatalf("expected mlock disabled via env")
	}
	if cfg.RopeFreqBase != 500000 {
		t.Fatalf("rope base=%v", cfg.RopeFreqBase)
	}
	// untouched field keeps its default
	if cfg.NCtx != 4096 {
		t.Fatalf("n_ctx=%d", cfg.NCtx)
	}
}

func TestFromEnvBadInt(t *testing.T) {
	t.Setenv("INFERD_PORT", "not-a-number")
	if _, err := FromEnv(Default()); err == nil || !strings.Contains(err.Error(), "INFERD_PORT") {
		t.Fatalf("expected INFERD_PORT parse error, got %v", err)
	}
}

func TestFromEnvBadBool(t *testing.T) {
	t.Setenv("INFERD_USE_MMAP", "maybe")
	if _, err := FromEnv(Default()); err == nil {
		t.Fatalf("expected bool parse error")
	}
}

func TestValidateMissingKeys(t *testing.T) {
	cfg := Default()
	cfg.AdminAPIKey = "admin"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "API key") {
		t.Fatalf("expected missing API keys error, got %v", err)
	}
}

func TestValidateMissingAdminKey(t *testing.T) {
	cfg := Default()
	cfg.APIKeys = []string{"k1"}
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "admin") {
		t.Fatalf("expected missing admin key error, got %v", err)
	}
}

func TestValidateOK(t *testing.T) {
	if err := validBase().Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateBadPort(t *testing.T) {
	cfg := validBase()
	cfg.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected invalid port error")
	}
}

func TestSplitKeys(t *testing.T) {
	if got := SplitKeys("a,b"); len(got) != 2 {
		t.Fatalf("got %v", got)
	}
	if got := SplitKeys(" , ,"); got != nil {
		t.Fatalf("expected nil for blank list, got %v", got)
	}
}

func TestAddr(t *testing.T) {
	cfg := Config{Host: "127.0.0.1", Port: 9000}
	if cfg.Addr() != "127.0.0.1:9000" {
		t.Fatalf("addr=%s", cfg.Addr())
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	p, err := expandHome("~/models/m.gguf")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if p != "/home/tester/models/m.gguf" {
		t.Fatalf("got %q", p)
	}
	p, err = expandHome("/abs/path")
	if err != nil || p != "/abs/path" {
		t.Fatalf("absolute path must pass through, got %q err=%v", p, err)
	}
	p, err = expandHome("~bob/models/m.gguf")
	if err != nil || p != "~bob/models/m.gguf" {
		t.Fatalf("~user path must pass through, got %q err=%v", p, err)
	}
}
