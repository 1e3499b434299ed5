package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/xuenqlve/rangekit/errors"
	"go.yaml.in/yaml/v3"
)

const (
	TOML = "toml"
	JSON = "json"
	YAML = "yaml"
)

// FromFile 按扩展名解码配置文件，并填充默认值
func FromFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	contentType := filepath.Ext(path)
	if contentType == ".yml" {
		contentType = ".yaml"
	}
	if contentType != "" {
		contentType = contentType[1:]
	}
	return FromString(string(content), contentType)
}

func FromString(content string, contentType string) (*Config, error) {
	cfg := &Config{}
	switch contentType {
	case TOML:
		if _, err := toml.Decode(content, cfg); err != nil {
			return nil, errors.NewRangeError(errors.ErrCodeConfig, errors.Trace(err))
		}
	case JSON:
		if err := json.Unmarshal([]byte(content), cfg); err != nil {
			return nil, errors.NewRangeError(errors.ErrCodeConfig, errors.Trace(err))
		}
	case YAML:
		if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
			return nil, errors.NewRangeError(errors.ErrCodeConfig, errors.Trace(err))
		}
	default:
		return nil, errors.Annotatef(errors.ErrUnknownFormat, "content type %q", contentType)
	}
	if err := cfg.ValidateAndSetDefault(); err != nil {
		return nil, err
	}
	return cfg, nil
}
