// Package presign issues time-boxed, single-object write authorizations for
// direct-to-storage uploads. It re-validates every request independently of
// any client-side checks.
package presign

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shipseva/docupload/internal/common"
	"github.com/shipseva/docupload/internal/logging"
	"github.com/shipseva/docupload/internal/server/config"
	"github.com/shipseva/docupload/internal/storagekey"
)

// Request is the body of an authorization request.
type Request struct {
	FileName     string `json:"fileName"`
	FileType     string `json:"fileType"`
	FileSize     int64  `json:"fileSize"`
	DocumentType string `json:"documentType"`
	FolderPath   string `json:"folderPath,omitempty"`
}

// Grant is the issued authorization. It is never stored.
type Grant struct {
	UploadURL string `json:"uploadUrl"`
	FileURL   string `json:"fileUrl"`
	ExpiresIn int    `json:"expiresIn"`
}

// Object describes the single object a presigned PUT may create. Only
// fields the uploader sends as plain headers belong here: anything else the
// signer turns into a required header and storage rejects the PUT.
type Object struct {
	Bucket      string
	Key         string
	ContentType string
	Size        int64
}

// Presigner signs PUT URLs against a concrete storage backend.
type Presigner interface {
	PresignPut(ctx context.Context, obj Object, ttl time.Duration) (string, error)
	PublicURL(key string) string
}

// Error is a user-facing failure. Its message is returned to callers
// verbatim; Kind is one of the common sentinels.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func validationError(msg string) error {
	return &Error{Kind: common.ErrValidation, Message: msg}
}

func configurationError(msg string) error {
	return &Error{Kind: common.ErrConfiguration, Message: msg}
}

type Service struct {
	cfg       *config.Config
	presigner Presigner
	log       logging.Logger
	now       func() time.Time
}

func NewService(cfg *config.Config, presigner Presigner, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{cfg: cfg, presigner: presigner, log: log, now: time.Now}
}

// WithClock replaces the time source used for object keys.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Authorize checks server configuration, validates req and returns a grant
// for the object {folder}/{documentType}/{millis}_{fileName}.
func (s *Service) Authorize(ctx context.Context, req Request) (*Grant, error) {
	if err := s.checkConfig(ctx); err != nil {
		return nil, err
	}

	if err := s.validate(req); err != nil {
		return nil, err
	}

	now := s.now()
	key := storagekey.Build(req.FolderPath, req.DocumentType, req.FileName, now)

	uploadURL, err := s.presigner.PresignPut(ctx, Object{
		Bucket:      s.cfg.S3Bucket,
		Key:         key,
		ContentType: req.FileType,
		Size:        req.FileSize,
	}, s.cfg.GrantTTL)
	if err != nil {
		s.log.Error(ctx, "presign failed", "key", key, "error", err)
		return nil, &Error{Kind: common.ErrInternal, Message: "Failed to generate upload URL"}
	}

	fileURL := s.presigner.PublicURL(key)
	if s.cfg.PublicBaseURL != "" {
		fileURL = storagekey.PrefixedURL(s.cfg.PublicBaseURL, key)
	}

	s.log.Info(ctx, "upload grant issued", "key", key, "size", req.FileSize, "type", req.FileType)

	return &Grant{
		UploadURL: uploadURL,
		FileURL:   fileURL,
		ExpiresIn: int(s.cfg.GrantTTL / time.Second),
	}, nil
}

func (s *Service) checkConfig(ctx context.Context) error {
	switch {
	case s.cfg.S3Bucket == "":
		s.log.Error(ctx, "storage bucket is not configured")
		return configurationError("S3 bucket configuration is missing. Please contact support.")
	case s.cfg.S3Region == "":
		s.log.Error(ctx, "storage region is not configured")
		return configurationError("AWS region configuration is missing. Please contact support.")
	case !s.cfg.HasCredentials():
		s.log.Error(ctx, "storage credentials are not configured")
		return configurationError("AWS credentials are missing. Please contact support.")
	}
	return nil
}

func (s *Service) validate(req Request) error {
	if req.FileName == "" || req.FileType == "" || req.FileSize <= 0 || req.DocumentType == "" {
		return validationError("Missing required fields")
	}

	if req.FileSize > s.cfg.MaxFileSize {
		return validationError(fmt.Sprintf("File size exceeds %dMB limit", s.cfg.MaxFileSize/(1024*1024)))
	}

	if !slices.Contains(s.cfg.AllowedTypes, req.FileType) {
		return validationError("Invalid file type. Only JPG, PNG, and PDF files are allowed")
	}

	if strings.TrimSpace(req.DocumentType) == "" {
		return validationError("Document type is required")
	}

	return nil
}
