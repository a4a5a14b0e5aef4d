package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"text/tabwriter"
	"time"

	"github.com/shipseva/docupload/internal/client/kyc"
	"github.com/shipseva/docupload/internal/common"
)

const historyLimit = 20

var errNotLoggedIn = fmt.Errorf("%w: not logged in, use 'login'", common.ErrUnauthorized)

// Submit applies optional name=value pairs, then uploads and submits.
func (a *App) Submit(ctx context.Context, args []string) error {
	if err := a.prepare(ctx, args); err != nil {
		return err
	}

	out, err := a.coord.Submit(ctx, a.form)
	if err != nil {
		a.reportAbort(err)
		return err
	}
	a.reportOutcome(out)
	return nil
}

// Resubmit updates the most recent stored KYC record with the form's new
// documents and changed values.
func (a *App) Resubmit(ctx context.Context, args []string) error {
	if err := a.prepare(ctx, args); err != nil {
		return err
	}

	recs, err := a.api.Documents(ctx)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return fmt.Errorf("%w: no KYC record to update, use 'submit'", common.ErrNotFound)
	}
	rec := slices.MaxFunc(recs, func(x, y kyc.Record) int { return x.CreatedAt.Compare(y.CreatedAt) })

	if rec.RejectionReason != "" {
		fmt.Fprintf(a.out, "Record %s was rejected: %s\n", rec.ID, rec.RejectionReason)
	}

	out, err := a.coord.Resubmit(ctx, rec, a.form)
	if err != nil {
		a.reportAbort(err)
		return err
	}
	a.reportOutcome(out)
	return nil
}

func (a *App) prepare(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	if len(args) > 0 {
		return a.Set(ctx, args)
	}
	return nil
}

func (a *App) reportAbort(err error) {
	var abort *kyc.AbortError
	if !errors.As(err, &abort) {
		return
	}
	for _, f := range abort.Failures {
		if f.Field == "" {
			fmt.Fprintf(a.out, "  - %s\n", f.Message)
			continue
		}
		fmt.Fprintf(a.out, "  - %s: %s\n", f.Field, f.Message)
	}
}

func (a *App) reportOutcome(out *kyc.Outcome) {
	for _, s := range out.Skipped {
		fmt.Fprintf(a.out, "Left out %s: %s\n", s.Field, s.Message)
	}
	if out.Response != nil && out.Response.Data != nil {
		fmt.Fprintf(a.out, "KYC %s is %s\n", out.Response.Data.KYCID, out.Response.Data.Status)
	}
	fmt.Fprintf(a.out, "Attempt %s: %d document(s) uploaded\n", out.Attempt, len(out.Uploaded))
}

// Status prints the backend's view of the user's KYC.
func (a *App) Status(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	resp, err := a.api.Status(ctx)
	if err != nil {
		return err
	}

	if resp.Data == nil {
		fmt.Fprintln(a.out, resp.Message)
		return nil
	}
	fmt.Fprintf(a.out, "KYC %s: %s\n", resp.Data.KYCID, resp.Data.Status)
	if resp.Data.SubmittedAt != "" {
		fmt.Fprintf(a.out, "Submitted at %s\n", resp.Data.SubmittedAt)
	}
	return nil
}

// History lists recent local attempts, newest first.
func (a *App) History(ctx context.Context) error {
	attempts, err := a.journal.Attempts(ctx, historyLimit)
	if err != nil {
		return err
	}
	if len(attempts) == 0 {
		fmt.Fprintln(a.out, "No attempts recorded")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ATTEMPT\tSTARTED\tUPLOADS\tOUTCOME\tDETAIL")
	for _, at := range attempts {
		outcome := "running"
		if at.Submitted != nil {
			outcome = "failed"
			switch {
			case *at.Submitted:
				outcome = "submitted"
			case at.Detail == kyc.RetryDetail:
				outcome = "retried"
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", at.ID, at.StartedAt.Local().Format(time.DateTime), at.Uploads, outcome, at.Detail)
	}
	return w.Flush()
}

// Orphans lists uploaded objects that no accepted submission refers to.
func (a *App) Orphans(ctx context.Context) error {
	orphans, err := a.journal.Orphans(ctx)
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		fmt.Fprintln(a.out, "No orphaned uploads")
		return nil
	}

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ATTEMPT\tFIELD\tUPLOADED\tURL")
	for _, o := range orphans {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", o.Attempt, o.Field, o.UploadedAt.Local().Format(time.DateTime), o.URL)
	}
	return w.Flush()
}

func (a *App) Forget(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: forget <attempt>")
	}
	if err := a.journal.Forget(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Forgot attempt %s\n", args[0])
	return nil
}
