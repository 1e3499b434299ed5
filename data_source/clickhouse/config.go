package clickhouse

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/xuenqlve/rangekit/chunk"
	"github.com/xuenqlve/rangekit/errors"
	"github.com/xuenqlve/rangekit/log"
)

type Config struct {
	Host     string `toml:"host" yaml:"host" json:"host"`
	Port     int    `toml:"port" yaml:"port" json:"port"`
	User     string `toml:"user" yaml:"user" json:"user"`
	Password string `toml:"password" yaml:"password" json:"password"`
	Database string `toml:"database" yaml:"database" json:"database"`

	Timeout        string `toml:"timeout" yaml:"timeout" json:"timeout"`
	MaxConnections int    `toml:"max_connections" yaml:"max_connections" json:"max_connections"`
	Secure         bool   `toml:"secure" yaml:"secure" json:"secure"`
	SkipVerify     bool   `toml:"skip-verify" yaml:"skip-verify" json:"skip-verify"`
	TLSKey         string `toml:"tls-key" yaml:"tls-key" json:"tls-key"`
	TLSCert        string `toml:"tls-cert" yaml:"tls-cert" json:"tls-cert"`
	TLSCa          string `toml:"tls-ca" yaml:"tls-ca" json:"tls-ca"`

	Debug bool `toml:"debug" yaml:"debug" json:"debug"`

	Query chunk.Query `toml:"query" yaml:"query" json:"query"`
}

func (ch *Config) ValidateAndSetDefault() (err error) {
	if ch.Host == "" {
		return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "clickhouse host is required")
	}
	if ch.Port == 0 {
		ch.Port = 9000
	}
	if ch.User == "" {
		ch.User = "default"
	}
	if ch.Timeout == "" {
		ch.Timeout = "30s"
	}
	if _, err = time.ParseDuration(ch.Timeout); err != nil {
		return errors.NewRangeError(errors.ErrCodeConfig, errors.Annotatef(err, "clickhouse timeout %q", ch.Timeout))
	}
	if ch.MaxConnections <= 0 {
		ch.MaxConnections = max(runtime.NumCPU()/2, 1)
	}
	return nil
}

func (ch *Config) Connect() (conn driver.Conn, err error) {
	if err = ch.ValidateAndSetDefault(); err != nil {
		return
	}
	timeout, err := time.ParseDuration(ch.Timeout)
	if err != nil {
		return
	}
	opt := &clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", ch.Host, ch.Port)},
		Auth: clickhouse.Auth{
			Database: ch.Database,
			Username: ch.User,
			Password: ch.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": int(timeout.Seconds()),
		},
		MaxOpenConns: ch.MaxConnections,
		MaxIdleConns: ch.MaxConnections,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		Debug:        ch.Debug,
	}
	if ch.Secure {
		tlsConfig := &tls.Config{
			InsecureSkipVerify: ch.SkipVerify,
		}
		if ch.TLSKey != "" || ch.TLSCert != "" || ch.TLSCa != "" {
			if ch.TLSCert != "" || ch.TLSKey != "" {
				cert, err := tls.LoadX509KeyPair(ch.TLSCert, ch.TLSKey)
				if err != nil {
					log.Errorf("tls.LoadX509KeyPair error: %v", err)
					return nil, err
				}
				tlsConfig.Certificates = []tls.Certificate{cert}
			}
			if ch.TLSCa != "" {
				caCert, err := os.ReadFile(ch.TLSCa)
				if err != nil {
					log.Errorf("read `tls_ca` file %s return error: %v ", ch.TLSCa, err)
					return nil, err
				}
				caCertPool := x509.NewCertPool()
				if !caCertPool.AppendCertsFromPEM(caCert) {
					log.Errorf("AppendCertsFromPEM %s return false", ch.TLSCa)
					return nil, fmt.Errorf("AppendCertsFromPEM %s return false", ch.TLSCa)
				}
				tlsConfig.RootCAs = caCertPool
			}
		}
		opt.TLS = tlsConfig
	}

	conn, err = clickhouse.Open(opt)
	if err != nil {
		log.Errorf("open clickhouse %s:%d error: %v", ch.Host, ch.Port, err)
		return nil, errors.Trace(err)
	}
	if err = conn.Ping(context.Background()); err != nil {
		return nil, errors.Annotatef(err, "ping clickhouse %s:%d", ch.Host, ch.Port)
	}
	return conn, nil
}
