package config

import (
	"os"
	"strings"
)

// parseEnv overlays cfg with environment variables. The AWS_* names follow
// the AWS SDK conventions so the same environment serves both.
func parseEnv(cfg *Config) {
	setString(&cfg.ListenAddr, os.Getenv("LISTEN_ADDR"))
	setString(&cfg.StorageDriver, os.Getenv("STORAGE_DRIVER"))
	setString(&cfg.S3Bucket, firstEnv("AWS_S3_BUCKET_NAME", "S3_BUCKET_NAME"))
	setString(&cfg.S3Region, os.Getenv("AWS_REGION"))
	setString(&cfg.S3AccessKey, os.Getenv("AWS_ACCESS_KEY_ID"))
	setString(&cfg.S3SecretKey, os.Getenv("AWS_SECRET_ACCESS_KEY"))
	setString(&cfg.S3BaseEndpoint, os.Getenv("S3_ENDPOINT"))
	setString(&cfg.PublicBaseURL, os.Getenv("S3_PUBLIC_BASE_URL"))
	setString(&cfg.SecretKey, os.Getenv("JWT_SECRET"))
	setString(&cfg.LogLevel, os.Getenv("LOG_LEVEL"))

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
