package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/shipseva/docupload/internal/client/kyc"
	"github.com/shipseva/docupload/internal/client/upload"
)

// progressPrinter reports task changes. On a terminal, progress updates
// of a field overwrite each other; otherwise only whole steps of 25% are
// printed so logs stay short.
type progressPrinter struct {
	w   io.Writer
	tty bool

	mu   sync.Mutex
	last map[string]int
	open bool
}

func watchProgress(form *kyc.Form, w io.Writer, tty bool) *progressPrinter {
	p := &progressPrinter{w: w, tty: tty, last: make(map[string]int)}
	for _, f := range form.Fields() {
		form.Task(f.Name).Observe(p.observe)
	}
	return p
}

func (p *progressPrinter) observe(s upload.Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch s.State {
	case upload.StateAuthorizing:
		p.line(fmt.Sprintf("%s: authorizing %s", s.Name, s.FileName))
		p.last[s.Name] = -1
	case upload.StateTransferring:
		prev := p.last[s.Name]
		if !p.tty && s.Progress/25 == prev/25 && prev >= 0 {
			return
		}
		p.last[s.Name] = s.Progress
		if p.tty {
			fmt.Fprintf(p.w, "\r%s: %3d%%", s.Name, s.Progress)
			p.open = true
			return
		}
		p.line(fmt.Sprintf("%s: %d%%", s.Name, s.Progress))
	case upload.StateUploaded:
		p.line(fmt.Sprintf("%s: uploaded", s.Name))
		delete(p.last, s.Name)
	case upload.StateFailed:
		p.line(fmt.Sprintf("%s: failed: %s", s.Name, s.LastError))
		delete(p.last, s.Name)
	}
}

// line prints msg on its own line, ending a pending carriage-return line.
func (p *progressPrinter) line(msg string) {
	if p.open {
		fmt.Fprintln(p.w)
		p.open = false
	}
	fmt.Fprintln(p.w, msg)
}
