package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config for the optional config file layer. Pointer
// fields distinguish "unset" from an explicit zero/false value.
type fileConfig struct {
	Host     *string `json:"host" yaml:"host" toml:"host"`
	Port     *int    `json:"port" yaml:"port" toml:"port"`
	LogLevel *string `json:"log_level" yaml:"log_level" toml:"log_level"`

	APIKeys     []string `json:"api_keys" yaml:"api_keys" toml:"api_keys"`
	AdminAPIKey *string  `json:"admin_api_key" yaml:"admin_api_key" toml:"admin_api_key"`

	ModelPath *string `json:"model_path" yaml:"model_path" toml:"model_path"`
	ModelName *string `json:"model_name" yaml:"model_name" toml:"model_name"`

	NGPULayers    *int     `json:"n_gpu_layers" yaml:"n_gpu_layers" toml:"n_gpu_layers"`
	NCtx          *int     `json:"n_ctx" yaml:"n_ctx" toml:"n_ctx"`
	NBatch        *int     `json:"n_batch" yaml:"n_batch" toml:"n_batch"`
	NThreads      *int     `json:"n_threads" yaml:"n_threads" toml:"n_threads"`
	UseMlock      *bool    `json:"use_mlock" yaml:"use_mlock" toml:"use_mlock"`
	UseMmap       *bool    `json:"use_mmap" yaml:"use_mmap" toml:"use_mmap"`
	RopeFreqBase  *float64 `json:"rope_freq_base" yaml:"rope_freq_base" toml:"rope_freq_base"`
	RopeFreqScale *float64 `json:"rope_freq_scale" yaml:"rope_freq_scale" toml:"rope_freq_scale"`
}

// LoadFile reads a configuration file based on its extension and overlays the
// values it sets onto base. Supports: .yaml/.yml, .json, .toml
func LoadFile(path string, base Config) (Config, error) {
	if path == "" {
		return base, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return base, err
	}
	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return base, err
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return base, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &fc); err != nil {
			return base, err
		}
	default:
		return base, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return fc.apply(base), nil
}

func (fc fileConfig) apply(cfg Config) Config {
	if fc.Host != nil {
		cfg.Host = *fc.Host
	}
	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = *fc.LogLevel
	}
	if fc.APIKeys != nil {
		cfg.APIKeys = fc.APIKeys
	}
	if fc.AdminAPIKey != nil {
		cfg.AdminAPIKey = *fc.AdminAPIKey
	}
	if fc.ModelPath != nil {
		cfg.ModelPath = *fc.ModelPath
	}
	if fc.ModelName != nil {
		cfg.ModelName = *fc.ModelName
	}
	if fc.NGPULayers != nil {
		cfg.NGPULayers = *fc.NGPULayers
	}
	if fc.NCtx != nil {
		cfg.NCtx = *fc.NCtx
	}
	if fc.NBatch != nil {
		cfg.NBatch = *fc.NBatch
	}
	if fc.NThreads != nil {
		cfg.NThreads = *fc.NThreads
	}
	if fc.UseMlock != nil {
		cfg.UseMlock = *fc.UseMlock
	}
	if fc.UseMmap != nil {
		cfg.UseMmap = *fc.UseMmap
	}
	if fc.RopeFreqBase != nil {
		cfg.RopeFreqBase = *fc.RopeFreqBase
	}
	if fc.RopeFreqScale != nil {
		cfg.RopeFreqScale = *fc.RopeFreqScale
	}
	return cfg
}
