package kafka

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"github.com/xuenqlve/rangekit/errors"
)

const DefaultTopic = "rangekit-requests"

type Config struct {
	BrokerAddrs []string        `toml:"broker-addrs" json:"broker-addrs" yaml:"broker-addrs"`
	Topic       string          `toml:"topic" json:"topic" yaml:"topic"`
	CertFile    string          `toml:"cert-file" json:"cert-file" yaml:"cert-file"`
	KeyFile     string          `toml:"key-file" json:"key-file" yaml:"key-file"`
	CaFile      string          `toml:"ca-file" json:"ca-file" yaml:"ca-file"`
	VerifySSL   bool            `toml:"verify-ssl" json:"verify-ssl" yaml:"verify-ssl"`
	Producer    *ProducerConfig `toml:"producer" json:"producer" yaml:"producer"`
	Consumer    *ConsumerConfig `toml:"consumer" json:"consumer" yaml:"consumer"`
	Net         *NetConfig      `toml:"net" json:"net" yaml:"net"`
}

type NetConfig struct {
	// SASL/PLAIN only
	SASL        SASL          `toml:"sasl" json:"sasl" yaml:"sasl"`
	DialTimeout time.Duration `toml:"dial-timeout" json:"dial-timeout" yaml:"dial-timeout"`
}

type ProducerConfig struct {
	Compression  string        `toml:"compression" json:"compression" yaml:"compression"`
	BatchSize    int           `toml:"batch-size" json:"batch-size" yaml:"batch-size"`
	BatchTimeout time.Duration `toml:"batch-timeout" json:"batch-timeout" yaml:"batch-timeout"`
	// 分区策略：可以是 "hash", "round-robin", "least-bytes"，默认 hash 保证同一 key 有序
	PartitionStrategy string `toml:"partition-strategy" json:"partition-strategy" yaml:"partition-strategy"`
}

type ConsumerConfig struct {
	GroupID  string        `toml:"group-id" json:"group-id" yaml:"group-id"`
	MinBytes int           `toml:"min-bytes" json:"min-bytes" yaml:"min-bytes"`
	MaxBytes int           `toml:"max-bytes" json:"max-bytes" yaml:"max-bytes"`
	MaxWait  time.Duration `toml:"max-wait" json:"max-wait" yaml:"max-wait"`
}

type SASL struct {
	Enable   bool   `toml:"enable" json:"enable" yaml:"enable"`
	User     string `toml:"user" json:"user" yaml:"user"`
	Password string `toml:"password" json:"password" yaml:"password"`
}

func (c *Config) ValidateAndSetDefault() error {
	if len(c.BrokerAddrs) == 0 {
		return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "kafka broker-addrs is empty")
	}
	if c.Topic == "" {
		c.Topic = DefaultTopic
	}
	return nil
}

func (c *Config) CreateWriter() (*kafka.Writer, error) {
	if err := c.ValidateAndSetDefault(); err != nil {
		return nil, err
	}
	writer := &kafka.Writer{
		Addr:     kafka.TCP(c.BrokerAddrs...),
		Topic:    c.Topic,
		Balancer: c.getBalancer(),
	}

	transport := &kafka.Transport{DialTimeout: c.getDialTimeout()}
	if c.hasTLSConfig() {
		tlsConfig, err := c.createTlsConfiguration()
		if err != nil {
			return nil, errors.Trace(err)
		}
		transport.TLS = tlsConfig
	}
	if c.Net != nil && c.Net.SASL.Enable {
		transport.SASL = plain.Mechanism{
			Username: c.Net.SASL.User,
			Password: c.Net.SASL.Password,
		}
	}
	writer.Transport = transport

	// 默认配置
	writer.BatchSize = 100
	writer.BatchTimeout = 10 * time.Millisecond
	writer.Compression = kafka.Snappy
	if p := c.Producer; p != nil {
		if p.BatchSize > 0 {
			writer.BatchSize = p.BatchSize
		}
		if p.BatchTimeout > 0 {
			writer.BatchTimeout = p.BatchTimeout
		}
		switch p.Compression {
		case "gzip":
			writer.Compression = kafka.Gzip
		case "lz4":
			writer.Compression = kafka.Lz4
		case "zstd":
			writer.Compression = kafka.Zstd
		}
	}
	return writer, nil
}

func (c *Config) CreateReader() (*kafka.Reader, error) {
	if err := c.ValidateAndSetDefault(); err != nil {
		return nil, err
	}
	readerConfig := kafka.ReaderConfig{
		Brokers:  c.BrokerAddrs,
		Topic:    c.Topic,
		MinBytes: 10e3, // 10KB
		MaxBytes: 10e6, // 10MB
		MaxWait:  time.Second,
	}
	if cc := c.Consumer; cc != nil {
		readerConfig.GroupID = cc.GroupID
		if cc.MinBytes > 0 {
			readerConfig.MinBytes = cc.MinBytes
		}
		if cc.MaxBytes > 0 {
			readerConfig.MaxBytes = cc.MaxBytes
		}
		if cc.MaxWait > 0 {
			readerConfig.MaxWait = cc.MaxWait
		}
	}

	dialer := &kafka.Dialer{
		Timeout:   c.getDialTimeout(),
		DualStack: true,
	}
	if c.hasTLSConfig() {
		tlsConfig, err := c.createTlsConfiguration()
		if err != nil {
			return nil, errors.Trace(err)
		}
		dialer.TLS = tlsConfig
	}
	if c.Net != nil && c.Net.SASL.Enable {
		dialer.SASLMechanism = plain.Mechanism{
			Username: c.Net.SASL.User,
			Password: c.Net.SASL.Password,
		}
	}
	readerConfig.Dialer = dialer
	return kafka.NewReader(readerConfig), nil
}

func (c *Config) hasTLSConfig() bool {
	return c.CertFile != "" && c.KeyFile != "" && c.CaFile != ""
}

func (c *Config) getDialTimeout() time.Duration {
	if c.Net != nil && c.Net.DialTimeout > 0 {
		return c.Net.DialTimeout
	}
	return 5 * time.Second
}

func (c *Config) createTlsConfiguration() (*tls.Config, error) {
	cert, err := tls.LoadX509KeyPair(c.CertFile, c.KeyFile)
	if err != nil {
		return nil, fmt.Errorf("LoadX509KeyPair: %v", err)
	}
	caCert, err := os.ReadFile(c.CaFile)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile: %v", err)
	}
	caCertPool := x509.NewCertPool()
	if !caCertPool.AppendCertsFromPEM(caCert) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}
	return &tls.Config{
		Certificates:       []tls.Certificate{cert},
		RootCAs:            caCertPool,
		InsecureSkipVerify: !c.VerifySSL,
	}, nil
}

func (c *Config) getBalancer() kafka.Balancer {
	if c.Producer == nil {
		return &kafka.Hash{}
	}
	switch c.Producer.PartitionStrategy {
	case "round-robin":
		return &kafka.RoundRobin{}
	case "least-bytes":
		return &kafka.LeastBytes{}
	}
	return &kafka.Hash{}
}
