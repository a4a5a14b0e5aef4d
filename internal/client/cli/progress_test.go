package cli

import (
	"bytes"
	"testing"

	"github.com/shipseva/docupload/internal/client/upload"
	"github.com/stretchr/testify/assert"
)

func feed(p *progressPrinter, name string, percents ...int) {
	p.observe(upload.Snapshot{Name: name, State: upload.StateAuthorizing, FileName: "a.png"})
	for _, pct := range percents {
		p.observe(upload.Snapshot{Name: name, State: upload.StateTransferring, Progress: pct})
	}
	p.observe(upload.Snapshot{Name: name, State: upload.StateUploaded, Progress: 100})
}

func TestProgressPrinter_Plain(t *testing.T) {
	var buf bytes.Buffer
	p := &progressPrinter{w: &buf, last: map[string]int{}}

	feed(p, "panFront", 0, 10, 20, 30, 60, 99, 100)

	assert.Equal(t, "panFront: authorizing a.png\n"+
		"panFront: 0%\n"+
		"panFront: 30%\n"+
		"panFront: 60%\n"+
		"panFront: 99%\n"+
		"panFront: 100%\n"+
		"panFront: uploaded\n", buf.String())
}

func TestProgressPrinter_Terminal(t *testing.T) {
	var buf bytes.Buffer
	p := &progressPrinter{w: &buf, tty: true, last: map[string]int{}}

	feed(p, "panFront", 10, 50)
	p.observe(upload.Snapshot{Name: "panBack", State: upload.StateFailed, LastError: "upload was cancelled"})

	assert.Equal(t, "panFront: authorizing a.png\n"+
		"\rpanFront:  10%\rpanFront:  50%\n"+
		"panFront: uploaded\n"+
		"panBack: failed: upload was cancelled\n", buf.String())
}
