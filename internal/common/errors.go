// Package common defines the sentinel errors shared by the upload
// intermediary and the KYC client. Callers match them with errors.Is; richer
// error types elsewhere in the tree wrap one of these.
package common

import "errors"

var (
	// ErrValidation marks a file or request rejected by local or
	// intermediary validation. Always recoverable by the user.
	ErrValidation = errors.New("validation error")

	// ErrConfiguration means the intermediary lacks server-side secrets.
	// Not user-recoverable and never retried automatically.
	ErrConfiguration = errors.New("configuration error")

	// ErrAuthorizationExpired means an upload grant lapsed before the
	// transfer completed. Recoverable by requesting a fresh grant.
	ErrAuthorizationExpired = errors.New("authorization expired")

	// ErrTransfer covers network failures, non-2xx storage replies and
	// cancelled transfers.
	ErrTransfer = errors.New("transfer error")

	// Double-submission guard.
	ErrAlreadyInProgress = errors.New("submission already in progress")
	ErrAlreadySubmitted  = errors.New("already submitted")

	// ErrMandatoryMissing means a mandatory document was never selected.
	ErrMandatoryMissing = errors.New("mandatory document missing")

	// ErrUploadsFailed means at least one mandatory upload ended in failure.
	ErrUploadsFailed = errors.New("document uploads failed")

	// ErrBackendSubmission means the KYC service rejected the payload.
	ErrBackendSubmission = errors.New("kyc submission rejected")

	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrInternal     = errors.New("internal error")

	ErrInvalidToken = errors.New("invalid token")
)
