// Package config handles configuration for the upload intermediary:
// defaults, JSON overlay, environment and command-line flags, applied in that
// order so later sources win.
package config

import (
	"time"

	"github.com/shipseva/docupload/internal/common"
)

const (
	DriverS3    = "s3"
	DriverMinio = "minio"
)

// Config holds runtime settings of the intermediary.
//
// Bucket, region and credentials intentionally default to empty: a server
// started without them still answers, reporting a configuration error per
// request instead of refusing to boot.
type Config struct {
	ListenAddr     string
	StorageDriver  string
	S3Bucket       string
	S3Region       string
	S3AccessKey    string
	S3SecretKey    string
	S3BaseEndpoint string
	PublicBaseURL  string
	GrantTTL       time.Duration
	MaxFileSize    int64
	AllowedTypes   []string
	SecretKey      string
	CORSOrigins    []string
	LogLevel       string
	// IssueToken, when set, makes the binary print a token for this user id
	// instead of serving.
	IssueToken string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.ListenAddr = ":8080"
	c.StorageDriver = DriverS3
	c.GrantTTL = common.GrantTTLSeconds * time.Second
	c.MaxFileSize = common.MaxUploadSize
	c.AllowedTypes = append([]string(nil), common.AllowedContentTypes...)
	c.CORSOrigins = []string{"http://localhost:3000"}
	c.LogLevel = "info"
}

// HasCredentials reports whether both halves of the storage key pair are set.
func (c *Config) HasCredentials() bool {
	return c.S3AccessKey != "" && c.S3SecretKey != ""
}

// LoadConfig builds a Config from defaults, an optional JSON file, the
// environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
