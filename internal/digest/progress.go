package digest

import (
	"fmt"
	"time"
)

// Progress is a snapshot of one digest computation.
type Progress struct {
	Name      string
	Processed int64 // bytes requested so far, may exceed Total on the last chunk
	Total     int64 // file size at open time
	Done      bool
}

// Percent is the share of the file processed, clamped to [0, 100].
func (p Progress) Percent() float64 {
	switch {
	case p.Processed >= p.Total:
		return 100
	case p.Total > 0 && p.Processed > 0:
		return float64(p.Processed) * 100 / float64(p.Total)
	default:
		return 0
	}
}

func (p Progress) String() string {
	return fmt.Sprintf("%s (%.2f%%)", p.Name, p.Percent())
}

// ShouldEmit decides whether a progress update is due. The final update is
// always due; otherwise at least interval must have passed since the last
// one.
func ShouldEmit(sinceLast, interval time.Duration, done bool) bool {
	return done || sinceLast >= interval
}
