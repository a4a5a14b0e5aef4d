package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/shipseva/docupload/internal/client/kyc"
	"github.com/shipseva/docupload/internal/client/upload"
)

// openFile is a test seam for reading documents from disk.
var openFile = upload.FromPath

// scalarSetters maps the names accepted by set to form values.
var scalarSetters = map[string]func(*kyc.Scalars, string){
	"pan":      func(s *kyc.Scalars, v string) { s.PANNumber = v },
	"aadhar":   func(s *kyc.Scalars, v string) { s.AadharNumber = v },
	"ifsc":     func(s *kyc.Scalars, v string) { s.IFSC = v },
	"account":  func(s *kyc.Scalars, v string) { s.AccountNumber = v },
	"holder":   func(s *kyc.Scalars, v string) { s.AccountHolderName = v },
	"bank":     func(s *kyc.Scalars, v string) { s.BankName = v },
	"branch":   func(s *kyc.Scalars, v string) { s.BranchName = v },
	"gst":      func(s *kyc.Scalars, v string) { s.GSTNumber = v },
	"business": func(s *kyc.Scalars, v string) { s.BusinessType = v },
}

// Set applies name=value pairs: document field names take a file path,
// everything else is a scalar. Every pair is tried; failures are joined.
func (a *App) Set(ctx context.Context, args []string) error {
	pairs, err := parseAssignments(args)
	if err != nil {
		return err
	}

	var errs []error
	for _, p := range pairs {
		name, value := p[0], p[1]

		if _, ok := kyc.FieldByName(name); ok {
			if err := a.selectFile(name, value); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
			}
			continue
		}

		set, ok := scalarSetters[name]
		if !ok {
			errs = append(errs, fmt.Errorf("unknown field %q", name))
			continue
		}
		set(&a.form.Scalars, value)
	}
	return errors.Join(errs...)
}

func (a *App) selectFile(field, path string) error {
	f, err := openFile(path)
	if err != nil {
		return err
	}
	if err := a.form.Select(field, f); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s: %s (%s)\n", field, f.Name, upload.FormatSize(f.Size))
	return nil
}

// Check validates the file at path against a field's rules without
// touching the form.
func (a *App) Check(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: check <field> <path>")
	}
	field, ok := kyc.FieldByName(args[0])
	if !ok {
		return fmt.Errorf("unknown field %q", args[0])
	}
	f, err := openFile(args[1])
	if err != nil {
		return err
	}

	res := upload.Validate(f, field.Policy)
	if !res.Valid {
		return res.Err()
	}
	fmt.Fprintf(a.out, "%s: %s is valid (%s, %s)\n", field.Name, f.Name, f.ContentType, upload.FormatSize(f.Size))
	return nil
}

func (a *App) Remove(ctx context.Context, args []string) error {
	task, err := a.task(args)
	if err != nil {
		return err
	}
	task.Remove()
	return nil
}

// Retry re-uploads a failed field on its own. The object is journaled but
// not submitted.
func (a *App) Retry(ctx context.Context, args []string) error {
	if _, err := a.task(args); err != nil {
		return err
	}
	out, err := a.coord.Retry(ctx, a.form, args[0])
	if err != nil {
		return err
	}
	if url, ok := out.Uploaded[args[0]]; ok {
		fmt.Fprintf(a.out, "%s uploaded (attempt %s), run submit to use it\n", args[0], out.Attempt)
		a.log.Debug(ctx, "field retried", "field", args[0], "url", url)
	}
	return nil
}

func (a *App) task(args []string) (*upload.Task, error) {
	if len(args) != 1 {
		return nil, errors.New("expected exactly one field name")
	}
	task := a.form.Task(args[0])
	if task == nil {
		return nil, fmt.Errorf("unknown field %q", args[0])
	}
	return task, nil
}

// Fields prints every document field with its current state.
func (a *App) Fields(ctx context.Context) error {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tREQUIRED\tSTATE\tFILE\tDETAIL")

	snaps := a.form.Snapshots()
	for i, f := range a.form.Fields() {
		s := snaps[i]

		required := ""
		if f.Mandatory {
			required = "yes"
		}

		file := "-"
		if s.FileName != "" {
			file = fmt.Sprintf("%s (%s)", s.FileName, upload.FormatSize(s.FileSize))
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", f.Name, required, s.State, file, detail(s))
	}
	return w.Flush()
}

func detail(s upload.Snapshot) string {
	switch s.State {
	case upload.StateTransferring:
		return fmt.Sprintf("%d%%", s.Progress)
	case upload.StateUploaded:
		return s.RemoteURL
	case upload.StateFailed:
		return s.LastError
	case upload.StateSelected:
		if s.PreviewRef != "" {
			return "preview: " + s.PreviewRef
		}
	}
	return ""
}
