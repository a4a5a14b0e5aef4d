package config

import (
	"flag"
	"os"

	"github.com/shipseva/docupload/internal/flagx"
)

// Flags lists every argv flag owned by configuration, including the JSON
// file selectors.
var Flags = append([]string{
	"-auth-endpoint",
	"-kyc-endpoint",
	"-token",
	"-concurrency",
	"-journal",
	"-folder",
	"-request-timeout",
	"-log-level",
}, flagx.ConfigFileFlags...)

// parseFlags populates Config fields from command-line flags, ignoring
// everything it does not own.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], Flags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.AuthEndpoint, "auth-endpoint", cfg.AuthEndpoint, "upload authorization URL")
	fs.StringVar(&cfg.KYCEndpoint, "kyc-endpoint", cfg.KYCEndpoint, "KYC backend resource root")
	fs.StringVar(&cfg.Token, "token", cfg.Token, "bearer session token")
	fs.IntVar(&cfg.Concurrency, "concurrency", cfg.Concurrency, "parallel uploads per submission")
	fs.StringVar(&cfg.JournalPath, "journal", cfg.JournalPath, "upload journal path")
	fs.StringVar(&cfg.Folder, "folder", cfg.Folder, "storage folder for KYC documents")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "timeout for backend calls")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")

	// Config file flags are consumed by parseJson.
	fs.String("config", "", "Path to config file")
	fs.String("c", "", "Path to config file (short)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
