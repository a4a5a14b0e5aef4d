package upload

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File is a candidate document: metadata plus a re-openable byte source,
// so a retry can stream the same bytes again.
type File struct {
	Name        string
	ContentType string
	Size        int64

	open func() (io.ReadCloser, error)
}

var extensionTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"pdf":  "application/pdf",
}

// FromPath opens a file on disk. The content type follows the extension the
// way a browser reports it and falls back to sniffing the content.
func FromPath(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	contentType, ok := extensionTypes[extension(name)]
	if !ok {
		mt, err := mimetype.DetectFile(path)
		if err != nil {
			return nil, fmt.Errorf("detect content type: %w", err)
		}
		contentType, _, _ = strings.Cut(mt.String(), ";")
	}

	return &File{
		Name:        name,
		ContentType: contentType,
		Size:        info.Size(),
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromBytes wraps in-memory content. An empty contentType is sniffed.
func FromBytes(name, contentType string, data []byte) *File {
	if contentType == "" {
		contentType, _, _ = strings.Cut(mimetype.Detect(data).String(), ";")
	}
	return &File{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// Open returns a fresh reader over the file content.
func (f *File) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, fmt.Errorf("file %s has no content", f.Name)
	}
	return f.open()
}

// Extension is the lower-cased text after the last '.', or the whole name
// when there is no dot.
func (f *File) Extension() string {
	return extension(f.Name)
}

func (f *File) IsImage() bool {
	return strings.HasPrefix(f.ContentType, "image/")
}

func extension(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return strings.ToLower(name[i+1:])
	}
	return strings.ToLower(name)
}
