package config

import (
	"flag"
	"os"
	"time"

	"github.com/shipseva/docupload/internal/flagx"
)

var serverFlags = []string{"-a", "-d", "-b", "-g", "-u", "-p", "-e", "-w", "-t", "-s", "-o", "-l", "-i"}

// parseFlags populates Config fields from command-line flags.
//
//	-a string   listen address (e.g. ":8080")
//	-d string   storage driver: s3 | minio
//	-b string   bucket
//	-g string   region
//	-u string   access key id
//	-p string   secret access key
//	-e string   storage base endpoint (minio or custom S3 endpoint)
//	-w string   public base URL for object links
//	-t int      grant validity, minutes
//	-s string   JWT secret; empty disables bearer auth
//	-o string   comma separated CORS origins
//	-l string   log level
//	-i string   print a bearer token for this user id and exit
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ListenAddr, "a", cfg.ListenAddr, "address and port to run server")
	fs.StringVar(&cfg.StorageDriver, "d", cfg.StorageDriver, "storage driver (s3|minio)")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "bucket")
	fs.StringVar(&cfg.S3Region, "g", cfg.S3Region, "region")
	fs.StringVar(&cfg.S3AccessKey, "u", cfg.S3AccessKey, "access key id")
	fs.StringVar(&cfg.S3SecretKey, "p", cfg.S3SecretKey, "secret access key")
	fs.StringVar(&cfg.S3BaseEndpoint, "e", cfg.S3BaseEndpoint, "storage base endpoint")
	fs.StringVar(&cfg.PublicBaseURL, "w", cfg.PublicBaseURL, "public base URL")
	ttl := fs.Int("t", int(cfg.GrantTTL.Minutes()), "grant validity (in minutes)")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "JWT secret key")
	origins := fs.String("o", "", "comma separated CORS origins")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.IssueToken, "i", cfg.IssueToken, "issue a bearer token for this user id and exit")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.GrantTTL = time.Duration(*ttl) * time.Minute
	if *origins != "" {
		cfg.CORSOrigins = splitList(*origins)
	}
}
