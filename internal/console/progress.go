package console

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"fancyhash/internal/digest"
)

// Width is the width of the caterpillar field.
const Width = 20

var bodies = [...]string{"_/\\_/\\_o", "__/\\__/o"}

// caterpillar returns animation frame n: the body crawls to the right and
// wraps around, alternating between its two shapes.
func caterpillar(n int) string {
	body := bodies[n%len(bodies)]
	span := Width - len(body) + 1
	off := (n / len(bodies)) % span
	return strings.Repeat(" ", off) + body + strings.Repeat(" ", Width-off-len(body))
}

// Progress renders digest progress on a single, carriage-return rewritten
// line and clears it when a file is done.
type Progress struct {
	mu    sync.Mutex
	w     io.Writer
	frame int
}

// NewProgress returns a Progress writing to w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w}
}

// Update draws p, or clears the line if p is the final update.
func (r *Progress) Update(p digest.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.Done {
		r.clear(p.Name)
		return
	}
	fmt.Fprintf(r.w, "\r%*s %s (%.2f%%)", Width, caterpillar(r.frame), p.Name, p.Percent())
	r.frame++
}

// Abort clears the line of name and reports the interrupt.
func (r *Progress) Abort(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clear(name)
	fmt.Fprintln(r.w, "... aborted.")
}

func (r *Progress) clear(name string) {
	fmt.Fprintf(r.w, "\r%*s\r", Width+10+len(name), "")
}
