package bench

import (
	"fmt"
	"io"
	"sync"

	"github.com/gosuri/uilive"
)

// Progress keeps the console rows of a running test on screen, with a status
// line below them that is redrawn in place.
type Progress struct {
	mu     sync.Mutex
	w      *uilive.Writer
	rows   []string
	status string
}

func NewProgress(out io.Writer) *Progress {
	w := uilive.New()
	w.Out = out
	return &Progress{w: w}
}

// Status replaces the status line
func (p *Progress) Status(format string, args ...interface{}) {
	p.mu.Lock()
	p.status = fmt.Sprintf(format, args...)
	p.redraw()
	p.mu.Unlock()
}

// Row adds a permanent row and clears the status line
func (p *Progress) Row(row string) {
	p.mu.Lock()
	p.rows = append(p.rows, row)
	p.status = ""
	p.redraw()
	p.mu.Unlock()
}

// Done clears the status line, leaving the rows on screen
func (p *Progress) Done() {
	p.mu.Lock()
	p.status = ""
	p.redraw()
	p.mu.Unlock()
}

func (p *Progress) redraw() {
	for _, r := range p.rows {
		fmt.Fprintln(p.w, r)
	}
	if p.status != "" {
		fmt.Fprintln(p.w, p.status)
	}
	p.w.Flush()
}
