package redis

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/log"
)

const Nil = redis.Nil

// Config 单机或集群，Addrs 多于一个地址时使用集群客户端
type Config struct {
	Addrs    []string `toml:"addrs" json:"addrs" yaml:"addrs"`
	Username string   `toml:"username" json:"username" yaml:"username"`
	Password string   `toml:"password" json:"password" yaml:"password"`
	DB       int      `toml:"db" json:"db" yaml:"db"`
	TLS      bool     `toml:"tls" json:"tls" yaml:"tls"`
	// history key 前缀
	Prefix string `toml:"prefix" json:"prefix" yaml:"prefix"`

	DialTimeout  time.Duration `toml:"dial-timeout" json:"dial-timeout" yaml:"dial-timeout"`
	ReadTimeout  time.Duration `toml:"read-timeout" json:"read-timeout" yaml:"read-timeout"`
	WriteTimeout time.Duration `toml:"write-timeout" json:"write-timeout" yaml:"write-timeout"`
}

func (c *Config) ValidateAndSetDefault() error {
	if len(c.Addrs) == 0 {
		return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "redis addrs is empty")
	}
	if len(c.Addrs) > 1 && c.DB != 0 {
		return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "redis cluster only supports db 0")
	}
	if c.DialTimeout <= 0 {
		c.DialTimeout = 3 * time.Second
	}
	if c.ReadTimeout <= 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 15 * time.Second
	}
	return nil
}

func (c *Config) options() *redis.UniversalOptions {
	opt := &redis.UniversalOptions{
		Addrs:           c.Addrs,
		Username:        c.Username,
		Password:        c.Password,
		DB:              c.DB,
		MaxRedirects:    8,
		MinRetryBackoff: 8 * time.Millisecond,
		MaxRetryBackoff: time.Second,
		DialTimeout:     c.DialTimeout,
		ReadTimeout:     c.ReadTimeout,
		WriteTimeout:    c.WriteTimeout,
	}
	if c.TLS {
		opt.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}
	return opt
}

func (c *Config) Connect(ctx context.Context) (redis.UniversalClient, error) {
	if err := c.ValidateAndSetDefault(); err != nil {
		return nil, err
	}
	client := redis.NewUniversalClient(c.options())
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Annotatef(err, "ping redis %v", c.Addrs)
	}
	log.Infof("redis connected. addrs=%v", c.Addrs)
	return client, nil
}
