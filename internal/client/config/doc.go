// Package config loads runtime configuration for the shipseva-kyc CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c or -config.
//  3. Environment: SHIPSEVA_AUTH_ENDPOINT, SHIPSEVA_KYC_ENDPOINT, SHIPSEVA_TOKEN.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-auth-endpoint string     upload authorization URL
//	-kyc-endpoint string      KYC backend resource root
//	-token string             bearer session token
//	-concurrency int          parallel uploads per submission
//	-journal string           path of the local upload journal
//	-folder string            storage folder for KYC documents
//	-request-timeout duration timeout for backend and authorization calls
//	-log-level string         debug | info | warn | error
//
// # JSON schema
//
//	{
//	  "auth_endpoint": "http://localhost:3000/api/upload/presigned-url",
//	  "kyc_endpoint": "http://localhost:8000/api/kyc",
//	  "concurrency": 4,
//	  "request_timeout": "30s"
//	}
//
// The CLI shares argv between these flags and command flags; use Flags with
// flagx.StripArgs to drop the configuration flags before parsing commands.
package config
