package mongodb

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/xuenqlve/rangekit/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config 只用于读取区间数据，不涉及写入
type Config struct {
	Host        []string `json:"urls" toml:"urls" yaml:"urls"`
	ReplicaSet  string   `json:"replica-set" toml:"replica-set" yaml:"replica-set"`
	Username    string   `json:"username" toml:"username" yaml:"username"`
	Password    string   `json:"password" toml:"password" yaml:"password"`
	AuthSource  string   `json:"auth-source" toml:"auth-source" yaml:"auth-source"`
	SslRootFile string   `json:"ssl-root-file" toml:"ssl-root-file" yaml:"ssl-root-file"`
	// 为 true 时优先读从节点
	SecondaryPreferred bool `json:"secondary-preferred" toml:"secondary-preferred" yaml:"secondary-preferred"`
	Timeout            bool `json:"timeout" toml:"timeout" yaml:"timeout"`

	Query Query `json:"query" toml:"query" yaml:"query"`
}

func (c *Config) ValidateAndSetDefault() error {
	if len(c.Host) == 0 {
		return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "mongodb config urls is empty")
	}
	if c.Username == "" {
		return errors.NewRangeErrorMessage(errors.ErrCodeConfig, "mongodb config username is empty")
	}
	if c.AuthSource == "" {
		c.AuthSource = "admin"
	}
	return nil
}

func (c *Config) makeURL() string {
	url := "mongodb://" + strings.Join(c.Host, ",")
	if c.ReplicaSet != "" {
		url = fmt.Sprintf("%s/?replicaSet=%s", url, c.ReplicaSet)
	}
	return url
}

func (c *Config) readPreference() *readpref.ReadPref {
	if c.SecondaryPreferred {
		return readpref.SecondaryPreferred()
	}
	return readpref.Primary()
}

func (c *Config) clientOptions() (*options.ClientOptions, error) {
	clientOps := options.Client().ApplyURI(c.makeURL()).SetAuth(options.Credential{
		AuthSource: c.AuthSource,
		Username:   c.Username,
		Password:   c.Password,
	})
	if c.SslRootFile != "" {
		tlsConfig := new(tls.Config)
		if err := addCACertFromFile(tlsConfig, c.SslRootFile); err != nil {
			return nil, errors.Annotatef(err, "load root ca file %s", c.SslRootFile)
		}
		// not check hostname
		tlsConfig.InsecureSkipVerify = true
		clientOps.SetTLSConfig(tlsConfig)
	}
	clientOps.SetReadPreference(c.readPreference())
	if c.Timeout {
		clientOps.SetConnectTimeout(20 * time.Second)
	}
	return clientOps, nil
}

func (c *Config) Connect(ctx context.Context) (*mongo.Client, error) {
	if err := c.ValidateAndSetDefault(); err != nil {
		return nil, errors.Trace(err)
	}
	clientOps, err := c.clientOptions()
	if err != nil {
		return nil, errors.NewRangeError(errors.ErrCodeConfig, err)
	}
	client, err := mongo.Connect(ctx, clientOps)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = client.Ping(ctx, clientOps.ReadPreference); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Trace(err)
	}
	return client, nil
}

func addCACertFromFile(cfg *tls.Config, file string) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}

	certBytes, err := loadCert(data)
	if err != nil {
		return err
	}

	cert, err := x509.ParseCertificate(certBytes)
	if err != nil {
		return err
	}

	if cfg.RootCAs == nil {
		cfg.RootCAs = x509.NewCertPool()
	}

	cfg.RootCAs.AddCert(cert)

	return nil
}

func loadCert(data []byte) ([]byte, error) {
	var certBlock *pem.Block

	for certBlock == nil {
		if len(data) == 0 {
			return nil, errors.New("pem file has no CERTIFICATE section")
		}

		block, rest := pem.Decode(data)
		if block == nil {
			return nil, errors.New("invalid pem file")
		}

		switch block.Type {
		case "CERTIFICATE":
			certBlock = block
		}

		data = rest
	}

	return certBlock.Bytes, nil
}
