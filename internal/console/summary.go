package console

import (
	"io"

	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"

	"fancyhash/internal/verify"
)

// Exit statuses of a run.
const (
	ExitOK       = 0
	ExitMismatch = 1
	ExitTrouble  = 2
	ExitAborted  = 99
)

// Report is the outcome of a whole run.
type Report struct {
	verify.Counters
	Aborted bool `json:"aborted"`
	// Fatal counts lists abandoned as a whole.
	Fatal  int  `json:"fatal"`
	Strict bool `json:"-"`
}

// ExitCode derives the process exit status.
func (r Report) ExitCode() int {
	switch {
	case r.Aborted:
		return ExitAborted
	case r.ReadErrors > 0 || r.Fatal > 0:
		return ExitTrouble
	case r.Strict && r.Invalid > 0:
		return ExitTrouble
	case r.Mismatch > 0:
		return ExitMismatch
	default:
		return ExitOK
	}
}

// Warn logs the shutdown warnings of the run.
func (r Report) Warn(log logrus.FieldLogger) {
	for _, msg := range r.Summary() {
		log.Warn(msg)
	}
	if r.Strict && r.Invalid > 0 {
		log.Warnf("%d lines are improperly formatted", r.Invalid)
	}
}

type jsonReport struct {
	Report
	ExitCode int `json:"exit_code"`
}

// WriteJSON writes r as one indented JSON document.
func (r Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jsonReport{Report: r, ExitCode: r.ExitCode()})
}
