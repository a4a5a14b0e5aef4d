package common

const (
	// MaxUploadSize is the per-file limit enforced on both sides of the
	// authorization exchange.
	MaxUploadSize int64 = 5 * 1024 * 1024

	// GrantTTLSeconds is the validity window of a presigned upload URL.
	GrantTTLSeconds = 3600

	// DefaultFolder is used when an authorization request names no folder.
	DefaultFolder = "uploads"

	// KYCFolder is the logical namespace of identity documents.
	KYCFolder = "kyc"

	RequestIDHeader     = "X-Request-ID"
	AuthorizationHeader = "Authorization"
	BearerPrefix        = "Bearer "
)

// AllowedContentTypes is the MIME allow-list of the intermediary.
var AllowedContentTypes = []string{"image/jpeg", "image/jpg", "image/png", "application/pdf"}
