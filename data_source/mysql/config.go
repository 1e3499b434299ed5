package mysql

import (
	"database/sql"
	"fmt"
	"net/url"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/xuenqlve/rangekit/chunk"
	"github.com/xuenqlve/rangekit/errors"
)

const DefaultMySQLVersion = "5.7"

type Config struct {
	Host     string `toml:"host" json:"host" yaml:"host"`
	Location string `toml:"location" json:"location" yaml:"location"`
	Username string `toml:"username" json:"username" yaml:"username"`
	Password string `toml:"password" json:"password" yaml:"password"`
	Port     int    `toml:"port" json:"port" yaml:"port"`
	Schema   string `toml:"schema" json:"schema" yaml:"schema"`
	// Timeout for establishing connections, aka dial timeout.
	// The value must be a decimal number with a unit suffix ("ms", "s", "m", "h"), such as "30s", "0.5m" or "1m30s".
	Timeout string `toml:"timeout" json:"timeout" yaml:"timeout"`
	// I/O read timeout.
	ReadTimeout string `toml:"read-timeout" json:"read-timeout" yaml:"read-timeout"`
	// I/O write timeout.
	WriteTimeout string `toml:"write-timeout" json:"write-timeout" yaml:"write-timeout"`

	MaxIdle                int           `toml:"max-idle" json:"max-idle" yaml:"max-idle"`
	MaxOpen                int           `toml:"max-open" json:"max-open" yaml:"max-open"`
	MaxLifeTimeDurationStr string        `toml:"max-life-time-duration" json:"max-life-time-duration" yaml:"max-life-time-duration"`
	MaxLifeTimeDuration    time.Duration `toml:"-" json:"-" yaml:"-"`
	MySQLVersion           string        `toml:"mysql-version" json:"mysql-version" yaml:"mysql-version"`

	Query chunk.Query `toml:"query" json:"query" yaml:"query"`
}

func (c *Config) ValidateAndSetDefault() error {
	if c.Host == "" {
		return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "mysql host is empty")
	}
	if c.Port == 0 {
		c.Port = 3306
	}
	// Sets the location for time.Time values (when using parseTime=true).
	if c.Location == "" {
		c.Location = time.Local.String()
	}
	if c.MaxOpen == 0 {
		c.MaxOpen = 20
	}
	if c.MaxIdle == 0 {
		c.MaxIdle = c.MaxOpen
	}

	var err error
	if c.MaxLifeTimeDurationStr == "" {
		c.MaxLifeTimeDurationStr = "1h"
		c.MaxLifeTimeDuration = time.Hour
	} else {
		c.MaxLifeTimeDuration, err = time.ParseDuration(c.MaxLifeTimeDurationStr)
		if err != nil {
			return errors.NewRangeError(errors.ErrCodeConfig, errors.Trace(err))
		}
	}

	if c.Timeout == "" {
		c.Timeout = "5s"
	}
	if c.ReadTimeout == "" {
		c.ReadTimeout = "5s"
	}
	if c.WriteTimeout == "" {
		c.WriteTimeout = "5s"
	}
	if c.MySQLVersion == "" {
		c.MySQLVersion = DefaultMySQLVersion
	}
	return nil
}

func (c *Config) DSN() string {
	dsn := fmt.Sprintf(`%s:%s@tcp(%s:%d)/%s?interpolateParams=true&timeout=%s&readTimeout=%s&writeTimeout=%s&parseTime=false&collation=utf8mb4_general_ci&charset=utf8mb4`,
		c.Username, c.Password, c.Host, c.Port, url.QueryEscape(c.Schema), c.Timeout, c.ReadTimeout, c.WriteTimeout)
	if c.Location != "" {
		dsn += "&loc=" + url.QueryEscape(c.Location)
	}
	if c.MySQLVersion == DefaultMySQLVersion {
		dsn += "&transaction_isolation=" + url.QueryEscape("'read-committed'")
	}
	return dsn
}

func (c *Config) Connect() (*sql.DB, error) {
	if err := c.ValidateAndSetDefault(); err != nil {
		return nil, errors.Trace(err)
	}
	db, err := sql.Open("mysql", c.DSN())
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = db.Ping(); err != nil {
		return nil, errors.Trace(err)
	}

	db.SetMaxOpenConns(c.MaxOpen)
	db.SetMaxIdleConns(c.MaxIdle)
	db.SetConnMaxLifetime(c.MaxLifeTimeDuration)
	return db, nil
}
