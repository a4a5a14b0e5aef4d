package kyc

import (
	"fmt"

	"github.com/shipseva/docupload/internal/client/upload"
	"github.com/shipseva/docupload/internal/logging"
)

// Scalars are the non-file values of the form.
type Scalars struct {
	AadharNumber      string
	PANNumber         string
	IFSC              string
	AccountNumber     string
	AccountHolderName string
	BankName          string
	BranchName        string
	GSTNumber         string
	BusinessType      string
}

type FormOptions struct {
	Folder     string
	Authorizer upload.Authorizer
	Transferer upload.Transferer
	Previewer  upload.Previewer
	Logger     logging.Logger
}

// Form owns one upload task per catalogue field plus the scalar values.
type Form struct {
	Scalars Scalars

	fields []Field
	tasks  map[string]*upload.Task
}

func NewForm(opts FormOptions) *Form {
	f := &Form{fields: Fields(), tasks: make(map[string]*upload.Task)}
	for _, field := range f.fields {
		f.tasks[field.Name] = upload.NewTask(upload.TaskOptions{
			Name:         field.Name,
			DocumentType: field.DocumentType,
			Folder:       opts.Folder,
			Policy:       field.Policy,
			Authorizer:   opts.Authorizer,
			Transferer:   opts.Transferer,
			Previewer:    opts.Previewer,
			Logger:       opts.Logger,
		})
	}
	return f
}

func (f *Form) Fields() []Field {
	return f.fields
}

// Task returns the task of a field, or nil for an unknown name.
func (f *Form) Task(name string) *upload.Task {
	return f.tasks[name]
}

// Select puts file into the named field.
func (f *Form) Select(name string, file *upload.File) error {
	t := f.Task(name)
	if t == nil {
		return fmt.Errorf("unknown document field %q", name)
	}
	return t.Select(file)
}

// Snapshots returns the state of every field in form order.
func (f *Form) Snapshots() []upload.Snapshot {
	out := make([]upload.Snapshot, 0, len(f.fields))
	for _, field := range f.fields {
		out = append(out, f.tasks[field.Name].Snapshot())
	}
	return out
}

// uploadedURLs maps every uploaded field to its URL, including fields
// uploaded by an earlier attempt the backend turned down.
func (f *Form) uploadedURLs() map[string]string {
	out := make(map[string]string)
	for _, field := range f.fields {
		if u := f.remoteURL(field.Name); u != "" {
			out[field.Name] = u
		}
	}
	return out
}

// remoteURL is the uploaded URL of a field, or "".
func (f *Form) remoteURL(name string) string {
	s := f.tasks[name].Snapshot()
	if s.State != upload.StateUploaded {
		return ""
	}
	return s.RemoteURL
}
