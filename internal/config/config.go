package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config holds all runtime parameters for the service. It is built once at
// startup and treated as immutable afterwards.
type Config struct {
	// Server
	Host     string `json:"host" yaml:"host" toml:"host"`
	Port     int    `json:"port" yaml:"port" toml:"port"`
	LogLevel string `json:"log_level" yaml:"log_level" toml:"log_level"`

	// Authentication
	APIKeys     []string `json:"api_keys" yaml:"api_keys" toml:"api_keys"`
	AdminAPIKey string   `json:"admin_api_key" yaml:"admin_api_key" toml:"admin_api_key"`

	// Model
	ModelPath string `json:"model_path" yaml:"model_path" toml:"model_path"`
	ModelName string `json:"model_name" yaml:"model_name" toml:"model_name"`

	// Engine tuning
	NGPULayers    int     `json:"n_gpu_layers" yaml:"n_gpu_layers" toml:"n_gpu_layers"`
	NCtx          int     `json:"n_ctx" yaml:"n_ctx" toml:"n_ctx"`
	NBatch        int     `json:"n_batch" yaml:"n_batch" toml:"n_batch"`
	NThreads      int     `json:"n_threads" yaml:"n_threads" toml:"n_threads"`
	UseMlock      bool    `json:"use_mlock" yaml:"use_mlock" toml:"use_mlock"`
	UseMmap       bool    `json:"use_mmap" yaml:"use_mmap" toml:"use_mmap"`
	RopeFreqBase  float64 `json:"rope_freq_base" yaml:"rope_freq_base" toml:"rope_freq_base"`
	RopeFreqScale float64 `json:"rope_freq_scale" yaml:"rope_freq_scale" toml:"rope_freq_scale"`
}

// Default returns the built-in defaults applied before file and env layers.
func Default() Config {
	return Config{
		Host:          "0.0.0.0",
		Port:          1133,
		LogLevel:      "info",
		ModelPath:     "/app/models/model.gguf",
		ModelName:     "llama-3-8b",
		NGPULayers:    -1,
		NCtx:          4096,
		NBatch:        512,
		NThreads:      8,
		UseMlock:      true,
		UseMmap:       true,
		RopeFreqBase:  10000.0,
		RopeFreqScale: 1.0,
	}
}

// envPrefix is prepended to every environment variable name.
const envPrefix = "INFERD_"

// FromEnv overlays environment variables onto base. Unset variables leave the
// base value untouched.
func FromEnv(base Config) (Config, error) {
	cfg := base
	var err error
	if v, ok := lookup("HOST"); ok {
		cfg.Host = v
	}
	if cfg.Port, err = intVar("PORT", cfg.Port); err != nil {
		return cfg, err
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("API_KEYS"); ok {
		cfg.APIKeys = SplitKeys(v)
	}
	if v, ok := lookup("ADMIN_API_KEY"); ok {
		cfg.AdminAPIKey = v
	}
	if v, ok := lookup("MODEL_PATH"); ok {
		cfg.ModelPath = v
	}
	if v, ok := lookup("MODEL_NAME"); ok {
		cfg.ModelName = v
	}
	if cfg.NGPULayers, err = intVar("N_GPU_LAYERS", cfg.NGPULayers); err != nil {
		return cfg, err
	}
	if cfg.NCtx, err = intVar("N_CTX", cfg.NCtx); err != nil {
		return cfg, err
	}
	if cfg.NBatch, err = intVar("N_BATCH", cfg.NBatch); err != nil {
		return cfg, err
	}
	if cfg.NThreads, err = intVar("N_THREADS", cfg.NThreads); err != nil {
		return cfg, err
	}
	if cfg.UseMlock, err = boolVar("USE_MLOCK", cfg.UseMlock); err != nil {
		return cfg, err
	}
	if cfg.UseMmap, err = boolVar("USE_MMAP", cfg.UseMmap); err != nil {
		return cfg, err
	}
	if cfg.RopeFreqBase, err = floatVar("ROPE_FREQ_BASE", cfg.RopeFreqBase); err != nil {
		return cfg, err
	}
	if cfg.RopeFreqScale, err = floatVar("ROPE_FREQ_SCALE", cfg.RopeFreqScale); err != nil {
		return cfg, err
	}
	if cfg.ModelPath != "" {
		if cfg.ModelPath, err = expandHome(cfg.ModelPath); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// Validate enforces the required credential and model settings. Missing API
// keys or admin key is a hard startup error, never a warning.
func (c Config) Validate() error {
	if len(c.APIKeys) == 0 {
		return errors.New("at least one API key must be configured (set " + envPrefix + "API_KEYS)")
	}
	for _, k := range c.APIKeys {
		if strings.TrimSpace(k) == "" {
			return errors.New("API key set contains an empty key")
		}
	}
	if c.AdminAPIKey == "" {
		return errors.New("admin API key must be configured (set " + envPrefix + "ADMIN_API_KEY)")
	}
	if c.ModelPath == "" {
		return errors.New("model path must be configured (set " + envPrefix + "MODEL_PATH)")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	return nil
}

// Addr returns the host:port listen address.
func (c Config) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// SplitKeys parses a comma-separated key list, trimming whitespace and
// dropping empty entries.
func SplitKeys(s string) []string {
	var keys []string
	for _, k := range strings.Split(s, ",") {
		k = strings.TrimSpace(k)
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

func lookup(name string) (string, bool) {
	v, ok := os.LookupEnv(envPrefix + name)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func intVar(name string, def int) (int, error) {
	v, ok := lookup(name)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	return n, nil
}

func boolVar(name string, def bool) (bool, error) {
	v, ok := lookup(name)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def, fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	return b, nil
}

func floatVar(name string, def float64) (float64, error) {
	v, ok := lookup(name)
	if !ok {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def, fmt.Errorf("%s%s: %w", envPrefix, name, err)
	}
	return f, nil
}

// expandHome expands a leading '~' to the user's home directory. Only the
// bare "~" and "~/..." forms are expanded; "~user" paths pass through
// untouched.
func expandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}
