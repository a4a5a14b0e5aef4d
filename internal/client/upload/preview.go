package upload

import (
	"os"

	"github.com/shipseva/docupload/internal/filex"
)

// Previewer creates local-only references to selected files.
type Previewer interface {
	Create(f *File) (string, error)
	Revoke(ref string) error
}

// TempPreviewer copies files into a preview directory; the reference is the
// copy's path.
type TempPreviewer struct {
	dir string
}

// NewTempPreviewer uses parent/shipseva-previews; an empty parent means the
// system temp directory.
func NewTempPreviewer(parent string) (*TempPreviewer, error) {
	if parent == "" {
		parent = os.TempDir()
	}
	dir, err := filex.EnsureSubdDir(parent, "shipseva-previews")
	if err != nil {
		return nil, err
	}
	return &TempPreviewer{dir: dir}, nil
}

func (p *TempPreviewer) Create(f *File) (string, error) {
	r, err := f.Open()
	if err != nil {
		return "", err
	}
	defer r.Close()

	return filex.CopyToTemp(p.dir, "."+f.Extension(), r)
}

func (p *TempPreviewer) Revoke(ref string) error {
	if err := os.Remove(ref); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
