package kyc

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shipseva/docupload/internal/client/upload"
	"github.com/shipseva/docupload/internal/common"
	"github.com/shipseva/docupload/internal/logging"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds the uploads of one submission.
const DefaultConcurrency = 4

// RetryDetail marks journal attempts that only re-uploaded a single field.
const RetryDetail = "field retry, not submitted"

// Backend receives assembled submissions.
type Backend interface {
	Create(ctx context.Context, s Submission) (*Response, error)
	Update(ctx context.Context, id string, u Update) (*Response, error)
}

// Recorder keeps a local trail of uploaded objects and submission outcomes.
type Recorder interface {
	RecordUpload(ctx context.Context, attempt, field, documentType, url string) error
	RecordOutcome(ctx context.Context, attempt string, submitted bool, detail string) error
}

// Outcome describes a submission the backend accepted.
type Outcome struct {
	// Attempt identifies this submission in the journal.
	Attempt  string
	Response *Response
	// Uploaded maps field names to the objects written by this attempt.
	Uploaded map[string]string
	// Skipped lists optional fields whose upload failed and were left out.
	Skipped []FieldFailure
}

type Coordinator struct {
	backend     Backend
	recorder    Recorder
	concurrency int
	log         logging.Logger

	mu        sync.Mutex
	inFlight  bool
	submitted bool
}

// NewCoordinator returns a coordinator; recorder may be nil and a
// concurrency below 1 means DefaultConcurrency.
func NewCoordinator(backend Backend, recorder Recorder, concurrency int, log logging.Logger) *Coordinator {
	if concurrency < 1 {
		concurrency = DefaultConcurrency
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Coordinator{
		backend:     backend,
		recorder:    recorder,
		concurrency: concurrency,
		log:         log.With("module", "kyc_coordinator"),
	}
}

// Submit uploads every pending document of form, then creates the KYC
// record. Mandatory fields must end up uploaded; failed optional ones are
// left out of the payload. Concurrent and repeated calls are rejected with
// common.ErrAlreadyInProgress and common.ErrAlreadySubmitted.
func (c *Coordinator) Submit(ctx context.Context, form *Form) (*Outcome, error) {
	if err := c.acquire(); err != nil {
		return nil, err
	}
	ok := false
	defer func() { c.release(ok) }()

	scalars := form.Scalars.Normalize()
	if problems := scalars.Problems(true); len(problems) > 0 {
		return nil, scalarAbort(problems)
	}

	var missing []FieldFailure
	for _, f := range form.Fields() {
		if f.Mandatory && form.Task(f.Name).Snapshot().State == upload.StateEmpty {
			missing = append(missing, FieldFailure{Field: f.Name, Message: f.MissingMessage})
		}
	}
	if len(missing) > 0 {
		return nil, &AbortError{Kind: common.ErrMandatoryMissing, Failures: missing}
	}

	out := &Outcome{Attempt: uuid.NewString()}
	if err := c.uploadAll(ctx, form, out, nil); err != nil {
		c.recordOutcome(ctx, out.Attempt, false, err.Error())
		return nil, err
	}

	resp, err := c.backend.Create(ctx, buildSubmission(form, scalars))
	if err != nil {
		c.log.Warn(ctx, "backend rejected submission", "attempt", out.Attempt, "error", err)
		c.recordOutcome(ctx, out.Attempt, false, err.Error())
		return nil, err
	}

	out.Response = resp
	c.recordCarried(ctx, form, out)
	c.recordOutcome(ctx, out.Attempt, true, "")
	c.log.Info(ctx, "kyc submitted", "attempt", out.Attempt)
	ok = true
	return out, nil
}

// Resubmit updates a previously stored record with only what changed or
// was rejected. Fields without a new file keep their stored documents.
func (c *Coordinator) Resubmit(ctx context.Context, rec Record, form *Form) (*Outcome, error) {
	if rec.Status == RecordApproved {
		return nil, fmt.Errorf("%w: kyc %s is already approved", common.ErrAlreadySubmitted, rec.ID)
	}

	if err := c.acquire(); err != nil {
		return nil, err
	}
	ok := false
	defer func() { c.release(ok) }()

	scalars := form.Scalars.Normalize()
	if problems := scalars.Problems(false); len(problems) > 0 {
		return nil, scalarAbort(problems)
	}

	out := &Outcome{Attempt: uuid.NewString()}
	if err := c.uploadAll(ctx, form, out, &rec); err != nil {
		c.recordOutcome(ctx, out.Attempt, false, err.Error())
		return nil, err
	}

	u := Diff(rec, scalars, form.uploadedURLs())
	if u.Empty() {
		return nil, &AbortError{Kind: common.ErrValidation, Failures: []FieldFailure{{Message: "nothing to update"}}}
	}

	resp, err := c.backend.Update(ctx, rec.ID, u)
	if err != nil {
		c.log.Warn(ctx, "backend rejected update", "attempt", out.Attempt, "error", err)
		c.recordOutcome(ctx, out.Attempt, false, err.Error())
		return nil, err
	}

	out.Response = resp
	c.recordCarried(ctx, form, out)
	c.recordOutcome(ctx, out.Attempt, true, "")
	c.log.Info(ctx, "kyc updated", "attempt", out.Attempt, "id", rec.ID)
	ok = true
	return out, nil
}

// Retry re-uploads one failed field outside a submission. The object is
// journaled under its own unsubmitted attempt, so it is listed as an orphan
// until a later submission carries it.
func (c *Coordinator) Retry(ctx context.Context, form *Form, field string) (*Outcome, error) {
	task := form.Task(field)
	if task == nil {
		return nil, fmt.Errorf("%w: field %q", common.ErrNotFound, field)
	}

	if err := c.acquire(); err != nil {
		return nil, err
	}
	defer c.release(false)

	out := &Outcome{Attempt: uuid.NewString(), Uploaded: make(map[string]string)}
	if task.Snapshot().State == upload.StateUploaded {
		return out, nil
	}
	if err := task.Retry(ctx); err != nil {
		c.recordOutcome(ctx, out.Attempt, false, err.Error())
		return nil, err
	}

	s := task.Snapshot()
	if s.State == upload.StateUploaded {
		out.Uploaded[field] = s.RemoteURL
		if c.recorder != nil {
			if err := c.recorder.RecordUpload(ctx, out.Attempt, field, task.DocumentType(), s.RemoteURL); err != nil {
				c.log.Warn(ctx, "journal write failed", "field", field, "error", err)
			}
		}
	}
	c.recordOutcome(ctx, out.Attempt, false, RetryDetail)
	return out, nil
}

// Reset clears the submitted flag so the same coordinator can be reused for
// a new form.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.inFlight {
		c.submitted = false
	}
}

// acquire sets the guard before any work starts, so a second caller
// arriving at any later point is turned away.
func (c *Coordinator) acquire() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.inFlight:
		return common.ErrAlreadyInProgress
	case c.submitted:
		return common.ErrAlreadySubmitted
	}
	c.inFlight = true
	return nil
}

func (c *Coordinator) release(submitted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inFlight = false
	c.submitted = submitted
}

// uploadAll runs every pending upload, at most c.concurrency at a time, and
// waits for all of them. It fails when a mandatory field is not uploaded
// afterwards; with rec set, a mandatory field already stored in the record
// and not replaced counts as present.
func (c *Coordinator) uploadAll(ctx context.Context, form *Form, out *Outcome, rec *Record) error {
	out.Uploaded = make(map[string]string)
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(c.concurrency)

	for _, f := range form.Fields() {
		task := form.Task(f.Name)
		if !task.HasPendingFile() {
			continue
		}

		g.Go(func() error {
			if err := task.Upload(ctx); err != nil {
				// Failures stay on the task; the verdict is taken below.
				return nil
			}

			s := task.Snapshot()
			if s.State != upload.StateUploaded {
				return nil
			}

			mu.Lock()
			out.Uploaded[f.Name] = s.RemoteURL
			mu.Unlock()

			if c.recorder != nil {
				if err := c.recorder.RecordUpload(ctx, out.Attempt, f.Name, f.DocumentType, s.RemoteURL); err != nil {
					c.log.Warn(ctx, "journal write failed", "field", f.Name, "error", err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	var failed []FieldFailure
	for _, f := range form.Fields() {
		s := form.Task(f.Name).Snapshot()
		if s.State == upload.StateUploaded || s.State == upload.StateEmpty {
			continue
		}

		msg := s.LastError
		if msg == "" {
			msg = fmt.Sprintf("upload %s", s.State)
		}
		failure := FieldFailure{Field: f.Name, Message: msg}

		if f.Mandatory {
			failed = append(failed, failure)
		} else {
			out.Skipped = append(out.Skipped, failure)
			c.log.Warn(ctx, "optional document left out", "field", f.Name, "error", msg)
		}
	}

	if rec != nil {
		// A stored document stands in for a replacement that did not upload.
		fatal := failed[:0]
		for _, ff := range failed {
			if storedURL(*rec, ff.Field) != "" {
				out.Skipped = append(out.Skipped, ff)
				continue
			}
			fatal = append(fatal, ff)
		}
		failed = fatal
	}

	if len(failed) > 0 {
		return &AbortError{Kind: common.ErrUploadsFailed, Failures: failed}
	}
	return nil
}

// recordCarried journals objects an earlier, rejected attempt uploaded and
// this one submitted, so they are not reported as orphans.
func (c *Coordinator) recordCarried(ctx context.Context, form *Form, out *Outcome) {
	if c.recorder == nil {
		return
	}
	for _, f := range form.Fields() {
		url := form.remoteURL(f.Name)
		if url == "" || out.Uploaded[f.Name] != "" {
			continue
		}
		if err := c.recorder.RecordUpload(ctx, out.Attempt, f.Name, f.DocumentType, url); err != nil {
			c.log.Warn(ctx, "journal write failed", "field", f.Name, "error", err)
		}
	}
}

func (c *Coordinator) recordOutcome(ctx context.Context, attempt string, submitted bool, detail string) {
	if c.recorder == nil {
		return
	}
	if err := c.recorder.RecordOutcome(ctx, attempt, submitted, detail); err != nil {
		c.log.Warn(ctx, "journal write failed", "attempt", attempt, "error", err)
	}
}

func scalarAbort(problems []string) error {
	failures := make([]FieldFailure, 0, len(problems))
	for _, p := range problems {
		failures = append(failures, FieldFailure{Message: p})
	}
	return &AbortError{Kind: common.ErrValidation, Failures: failures}
}

func storedURL(rec Record, field string) string {
	switch field {
	case FieldPanFront:
		return rec.PAN.PANFront
	case FieldPanBack:
		return rec.PAN.PANBack
	case FieldAadharFront:
		return rec.Aadhar.AadharFront
	case FieldAadharBack:
		return rec.Aadhar.AadharBack
	case FieldGSTCertificate:
		return rec.GSTCertificate
	case FieldBankDocument:
		return rec.BankDocument
	}
	return ""
}
