package verify

import "fmt"

// Kind classifies the outcome of one checksum-list entry or one computed
// file.
type Kind int

const (
	Match Kind = iota + 1
	Mismatch
	ReadFailure
	InvalidLine
	SkippedLine
	Computed
)

func (k Kind) String() string {
	switch k {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case ReadFailure:
		return "read-error"
	case InvalidLine:
		return "invalid"
	case SkippedLine:
		return "skipped"
	case Computed:
		return "computed"
	default:
		return "unknown"
	}
}

// Outcome is the result of one entry. Expected and Actual are set for
// Mismatch; Err carries the cause for ReadFailure and InvalidLine.
type Outcome struct {
	Kind     Kind
	Expected string
	Actual   string
	Err      error
}

// Counters tallies outcomes. Total counts every file a digest was
// attempted for, including the ones that could not be read.
type Counters struct {
	Total      int `json:"total"`
	Match      int `json:"match"`
	Mismatch   int `json:"mismatch"`
	Invalid    int `json:"invalid"`
	Skipped    int `json:"skipped"`
	ReadErrors int `json:"read_errors"`
}

// Record folds one outcome into c.
func (c *Counters) Record(o Outcome) {
	switch o.Kind {
	case Match:
		c.Total++
		c.Match++
	case Mismatch:
		c.Total++
		c.Mismatch++
	case ReadFailure:
		c.Total++
		c.ReadErrors++
	case InvalidLine:
		c.Invalid++
	case SkippedLine:
		c.Skipped++
	case Computed:
		c.Total++
	}
}

// Merge adds o to c.
func (c *Counters) Merge(o Counters) {
	c.Total += o.Total
	c.Match += o.Match
	c.Mismatch += o.Mismatch
	c.Invalid += o.Invalid
	c.Skipped += o.Skipped
	c.ReadErrors += o.ReadErrors
}

// Failed reports whether the run must end with a failure status.
func (c Counters) Failed() bool {
	return c.ReadErrors > 0 || c.Mismatch > 0
}

// Summary returns the shutdown warnings for c, if any. Files that could not
// be read are not counted as checked when reporting mismatches.
func (c Counters) Summary() []string {
	var out []string
	total := c.Total
	if c.ReadErrors > 0 {
		out = append(out, fmt.Sprintf("%d of %d files could not be read", c.ReadErrors, total))
		total -= c.ReadErrors
	}
	if c.Mismatch > 0 {
		out = append(out, fmt.Sprintf("%d of %d computed checksums did NOT match", c.Mismatch, total))
	}
	return out
}
