package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadFileYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "port: 9999\nmodel_path: /m.gguf\napi_keys: [a, b]\nuse_mlock: false\n")
	cfg, err := LoadFile(p, Default())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 9999 || cfg.ModelPath != "/m.gguf" || len(cfg.APIKeys) != 2 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.UseMlock {
		t.Fatalf("explicit false in file must override default true")
	}
	// unset fields keep defaults
	if cfg.NCtx != 4096 || !cfg.UseMmap {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestLoadFileJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"host":"127.0.0.1","port":7070,"n_ctx":2048}`)
	cfg, err := LoadFile(p, Default())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Host != "127.0.0.1" || cfg.Port != 7070 || cfg.NCtx != 2048 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadFileTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "port = 8081\nmodel_name = \"tiny\"\nrope_freq_base = 500000.0\n")
	cfg, err := LoadFile(p, Default())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != 8081 || cfg.ModelName != "tiny" || cfg.RopeFreqBase != 500000.0 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadFileErrors(t *testing.T) {
	if _, err := LoadFile("", Default()); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := LoadFile(p, Default()); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
	if _, err := LoadFile(filepath.Join(d, "missing.yaml"), Default()); err == nil {
		t.Fatalf("expected error on missing file")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "port: 9999\nmodel_name: from-file\n")
	cfg, err := LoadFile(p, Default())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	t.Setenv("INFERD_PORT", "1234")
	cfg, err = FromEnv(cfg)
	if err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.Port != 1234 {
		t.Fatalf("env must override file, port=%d", cfg.Port)
	}
	if cfg.ModelName != "from-file" {
		t.Fatalf("file value lost: %q", cfg.ModelName)
	}
}
