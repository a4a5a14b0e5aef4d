package config

import (
	"time"

	"github.com/shipseva/docupload/internal/common"
)

// Config holds runtime settings for the shipseva-kyc CLI.
type Config struct {
	AuthEndpoint   string
	KYCEndpoint    string
	Token          string
	Concurrency    int
	JournalPath    string
	Folder         string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.AuthEndpoint = "http://localhost:3000/api/upload/presigned-url"
	c.KYCEndpoint = "http://localhost:8000/api/kyc"
	c.Concurrency = 4
	c.JournalPath = "shipseva-kyc.db"
	c.Folder = common.KYCFolder
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
}

// LoadConfig constructs a Config from defaults, JSON, environment and flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
