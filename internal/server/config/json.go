package config

import (
	"encoding/json"
	"os"

	"github.com/shipseva/docupload/internal/flagx"
	"github.com/shipseva/docupload/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Only fields
// present (non-zero) in the file override the current values.
type JsonConfig struct {
	ListenAddr     string         `json:"listen_addr"`
	StorageDriver  string         `json:"storage_driver"`
	S3Bucket       string         `json:"s3_bucket"`
	S3Region       string         `json:"s3_region"`
	S3AccessKey    string         `json:"s3_access_key"`
	S3SecretKey    string         `json:"s3_secret_key"`
	S3BaseEndpoint string         `json:"s3_base_endpoint"`
	PublicBaseURL  string         `json:"public_base_url"`
	GrantTTL       timex.Duration `json:"grant_ttl"`
	MaxFileSize    int64          `json:"max_file_size"`
	AllowedTypes   []string       `json:"allowed_types"`
	SecretKey      string         `json:"secret_key"`
	CORSOrigins    []string       `json:"cors_origins"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. It panics when
// the file cannot be read or parsed; a broken config file is fatal at boot.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.ListenAddr, jc.ListenAddr)
	setString(&cfg.StorageDriver, jc.StorageDriver)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)
	setString(&cfg.PublicBaseURL, jc.PublicBaseURL)
	setString(&cfg.SecretKey, jc.SecretKey)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.GrantTTL.Duration > 0 {
		cfg.GrantTTL = jc.GrantTTL.Duration
	}
	if jc.MaxFileSize > 0 {
		cfg.MaxFileSize = jc.MaxFileSize
	}
	if len(jc.AllowedTypes) > 0 {
		cfg.AllowedTypes = jc.AllowedTypes
	}
	if len(jc.CORSOrigins) > 0 {
		cfg.CORSOrigins = jc.CORSOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
