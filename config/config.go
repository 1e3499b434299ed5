package config

import (
	"time"

	"github.com/xuenqlve/rangekit/data_source/clickhouse"
	"github.com/xuenqlve/rangekit/data_source/kafka"
	"github.com/xuenqlve/rangekit/data_source/mongodb"
	"github.com/xuenqlve/rangekit/data_source/mysql"
	"github.com/xuenqlve/rangekit/data_source/redis"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/fetch"
	"github.com/xuenqlve/rangekit/history"
	"github.com/xuenqlve/rangekit/log"
	"github.com/xuenqlve/rangekit/timeunit"
)

const (
	SourceMySQL      = "mysql"
	SourceClickHouse = "clickhouse"
	SourceMongoDB    = "mongodb"
)

type Config struct {
	Log        LogConfig          `toml:"log" json:"log" yaml:"log"`
	Fetch      FetchConfig        `toml:"fetch" json:"fetch" yaml:"fetch"`
	Redis      *redis.Config      `toml:"redis" json:"redis" yaml:"redis"`
	MySQL      *mysql.Config      `toml:"mysql" json:"mysql" yaml:"mysql"`
	ClickHouse *clickhouse.Config `toml:"clickhouse" json:"clickhouse" yaml:"clickhouse"`
	MongoDB    *mongodb.Config    `toml:"mongodb" json:"mongodb" yaml:"mongodb"`
	Kafka      *kafka.Config      `toml:"kafka" json:"kafka" yaml:"kafka"`
}

type LogConfig struct {
	Level string `toml:"level" json:"level" yaml:"level"`
	// 为空时只输出到控制台
	Path string `toml:"path" json:"path" yaml:"path"`
}

type FetchConfig struct {
	// 数据源：mysql / clickhouse / mongodb
	Source string `toml:"source" json:"source" yaml:"source"`
	// MaxRequestSize 单个请求的最大区间长度，<= 0 不分块
	MaxRequestSize float64 `toml:"max-request-size" json:"max-request-size" yaml:"max-request-size"`
	// ISO-8601 duration, e.g. "PT1H". Overrides MaxRequestSize (in seconds) when set.
	MaxRequestDuration string `toml:"max-request-duration" json:"max-request-duration" yaml:"max-request-duration"`
	// 每个 key 一次查询的总采样数，0 不限制
	TotalSamples int `toml:"total-samples" json:"total-samples" yaml:"total-samples"`
	Concurrency  int `toml:"concurrency" json:"concurrency" yaml:"concurrency"`
	// Go duration, e.g. "1h"
	HistoryTTL string        `toml:"history-ttl" json:"history-ttl" yaml:"history-ttl"`
	historyTTL time.Duration `toml:"-" json:"-" yaml:"-"`
}

// TTL returns the parsed HistoryTTL.
func (f *FetchConfig) TTL() time.Duration {
	return f.historyTTL
}

func (c *Config) ValidateAndSetDefault() error {
	if c.Log.Level == "" {
		c.Log.Level = log.InfoLevel
	}
	switch c.Log.Level {
	case log.DebugLevel, log.InfoLevel, log.WarnLevel, log.ErrorLevel:
	default:
		return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "unknown log level "+c.Log.Level)
	}

	if err := c.Fetch.validateAndSetDefault(); err != nil {
		return err
	}
	if err := c.decryptPasswords(); err != nil {
		return errors.NewRangeError(errors.ErrCodeConfig, err)
	}

	switch c.Fetch.Source {
	case "":
	case SourceMySQL:
		if c.MySQL == nil {
			return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "fetch source mysql needs a [mysql] section")
		}
	case SourceClickHouse:
		if c.ClickHouse == nil {
			return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "fetch source clickhouse needs a [clickhouse] section")
		}
	case SourceMongoDB:
		if c.MongoDB == nil {
			return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "fetch source mongodb needs a [mongodb] section")
		}
	default:
		return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "unknown fetch source "+c.Fetch.Source)
	}
	return nil
}

func (f *FetchConfig) validateAndSetDefault() error {
	if f.MaxRequestDuration != "" {
		seconds, err := timeunit.DurationToSeconds(f.MaxRequestDuration)
		if err != nil {
			return err
		}
		f.MaxRequestSize = seconds
	}
	if f.TotalSamples < 0 {
		return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "total-samples must not be negative")
	}
	if f.Concurrency <= 0 {
		f.Concurrency = fetch.DefaultConcurrency
	}

	f.historyTTL = history.DefaultTTL
	if f.HistoryTTL != "" {
		ttl, err := time.ParseDuration(f.HistoryTTL)
		if err != nil {
			return errors.NewRangeError(errors.ErrCodeConfig, errors.Annotatef(err, "history-ttl %q", f.HistoryTTL))
		}
		f.historyTTL = ttl
	}
	return nil
}

func (c *Config) decryptPasswords() error {
	passwords := make([]*string, 0, 5)
	if c.Redis != nil {
		passwords = append(passwords, &c.Redis.Password)
	}
	if c.MySQL != nil {
		passwords = append(passwords, &c.MySQL.Password)
	}
	if c.ClickHouse != nil {
		passwords = append(passwords, &c.ClickHouse.Password)
	}
	if c.MongoDB != nil {
		passwords = append(passwords, &c.MongoDB.Password)
	}
	if c.Kafka != nil && c.Kafka.Net != nil {
		passwords = append(passwords, &c.Kafka.Net.SASL.Password)
	}
	for _, p := range passwords {
		plain, err := Password(*p)
		if err != nil {
			return err
		}
		*p = plain
	}
	return nil
}

// InitLog 按配置初始化日志，Path 为空时只输出到控制台
func (c *Config) InitLog() {
	if c.Log.Path == "" {
		log.SetLevel(c.Log.Level)
		return
	}
	log.Init(c.Log.Level, c.Log.Path)
}
