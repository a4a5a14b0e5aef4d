package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Equal(t, DriverS3, c.StorageDriver)
	assert.Equal(t, time.Hour, c.GrantTTL)
	assert.Equal(t, int64(5*1024*1024), c.MaxFileSize)
	assert.ElementsMatch(t, []string{"image/jpeg", "image/jpg", "image/png", "application/pdf"}, c.AllowedTypes)
	assert.Empty(t, c.S3Bucket)
	assert.Empty(t, c.S3Region)
	assert.False(t, c.HasCredentials())
	assert.Empty(t, c.SecretKey)
}

func TestLoadConfig_UsesDefaultsWithoutSources(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"server"}

	for _, k := range []string{"AWS_S3_BUCKET_NAME", "S3_BUCKET_NAME", "AWS_REGION", "LISTEN_ADDR", "CORS_ORIGINS"} {
		t.Setenv(k, "")
	}

	c := LoadConfig()
	require.NotNil(t, c)
	assert.Equal(t, ":8080", c.ListenAddr)
	assert.Equal(t, time.Hour, c.GrantTTL)
	assert.Equal(t, []string{"http://localhost:3000"}, c.CORSOrigins)
}

func TestParseEnv(t *testing.T) {
	t.Setenv("AWS_S3_BUCKET_NAME", "")
	t.Setenv("S3_BUCKET_NAME", "fallback-bucket")
	t.Setenv("AWS_REGION", "ap-south-1")
	t.Setenv("AWS_ACCESS_KEY_ID", "AKIA")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "secret")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("STORAGE_DRIVER", "minio")

	var c Config
	c.LoadDefaults()
	parseEnv(&c)

	assert.Equal(t, "fallback-bucket", c.S3Bucket)
	assert.Equal(t, "ap-south-1", c.S3Region)
	assert.True(t, c.HasCredentials())
	assert.Equal(t, DriverMinio, c.StorageDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSOrigins)

	t.Setenv("AWS_S3_BUCKET_NAME", "primary")
	parseEnv(&c)
	assert.Equal(t, "primary", c.S3Bucket)
}
