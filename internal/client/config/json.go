package config

import (
	"encoding/json"
	"os"

	"github.com/shipseva/docupload/internal/flagx"
	"github.com/shipseva/docupload/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
type JsonConfig struct {
	AuthEndpoint   string         `json:"auth_endpoint"`
	KYCEndpoint    string         `json:"kyc_endpoint"`
	Token          string         `json:"token"`
	Concurrency    int            `json:"concurrency"`
	JournalPath    string         `json:"journal"`
	Folder         string         `json:"folder"`
	RequestTimeout timex.Duration `json:"request_timeout"`
	LogLevel       string         `json:"log_level"`
}

// parseJson overlays Config with values from the file named by -c/-config.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.AuthEndpoint, jc.AuthEndpoint)
	setString(&cfg.KYCEndpoint, jc.KYCEndpoint)
	setString(&cfg.Token, jc.Token)
	setString(&cfg.JournalPath, jc.JournalPath)
	setString(&cfg.Folder, jc.Folder)
	setString(&cfg.LogLevel, jc.LogLevel)

	if jc.Concurrency > 0 {
		cfg.Concurrency = jc.Concurrency
	}
	if jc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func parseEnv(cfg *Config) {
	setString(&cfg.AuthEndpoint, os.Getenv("SHIPSEVA_AUTH_ENDPOINT"))
	setString(&cfg.KYCEndpoint, os.Getenv("SHIPSEVA_KYC_ENDPOINT"))
	setString(&cfg.Token, os.Getenv("SHIPSEVA_TOKEN"))
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
