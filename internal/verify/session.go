// Package verify drives digest computation for plain files and for the
// entries of checksum-list files, and tallies the outcomes.
package verify

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"fancyhash/internal/algo"
	"fancyhash/internal/checksumline"
	"fancyhash/internal/digest"
)

// MismatchError describes a file whose digest differs from the expected
// value.
type MismatchError struct {
	Path      string
	Algorithm string
	Expected  string
	Actual    string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s checksum did NOT match: expected %s, got %s",
		e.Path, e.Algorithm, e.Expected, e.Actual)
}

// Options tune a Session.
type Options struct {
	// Algorithm forces the algorithm. In check mode it applies to lines
	// without an algorithm label; Unknown means guess from digest length.
	Algorithm algo.ID

	// Quiet drops the "ok" lines of check mode; Status drops all output.
	Quiet  bool
	Status bool

	// Warn reports improperly formatted lines.
	Warn bool

	// IgnoreMissing counts missing target files as skipped.
	IgnoreMissing bool

	// Format renders compute results. Nil selects the list format.
	Format *checksumline.Formatter

	// Progress receives throttled progress updates, if set.
	Progress func(digest.Progress)

	// Stdin is hashed when Compute is given "-". Nil selects os.Stdin.
	Stdin io.Reader
}

// Session computes and verifies digests one file at a time.
type Session struct {
	engine *digest.Engine
	out    io.Writer
	log    logrus.FieldLogger
	opts   Options
}

// New returns a Session writing results to out and classified messages to
// log.
func New(
	engine *digest.Engine,
	out io.Writer,
	log logrus.FieldLogger,
	opts Options,
) (*Session, error) {
	if opts.Format == nil {
		f, err := checksumline.NewFormatter(checksumline.ListFormat)
		if err != nil {
			return nil, err
		}
		opts.Format = f
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	return &Session{engine: engine, out: out, log: log, opts: opts}, nil
}

// Compute prints the digest line for path using the forced algorithm. The
// path "-" hashes standard input. A file that cannot be read is reported
// and counted; only cancellation is returned as an error.
func (s *Session) Compute(ctx context.Context, path string) (Counters, error) {
	var c Counters

	d := s.opts.Algorithm.Descriptor()
	if !d.ID.Valid() {
		return c, errors.New("computing digest: no algorithm selected")
	}
	s.log.Debugf("Computing %s for %s", d.Name, path)

	var (
		sum string
		err error
	)
	if path == checksumline.StdinName {
		sum, err = s.engine.ComputeReader(ctx, path, s.opts.Stdin, d.ID)
	} else {
		sum, err = s.engine.Compute(ctx, path, d.ID, s.opts.Progress)
	}
	if err != nil {
		if ctx.Err() != nil {
			return c, err
		}
		s.log.Error(err)
		c.Record(Outcome{Kind: ReadFailure, Err: err})
		return c, nil
	}

	c.Record(Outcome{Kind: Computed})
	s.println(s.opts.Format.Format(d, sum, path))
	return c, nil
}

// Check verifies every entry of the checksum-list file listPath.
//
// Problems with single entries are counted and reported, and checking goes
// on with the next line. The returned error is set only when the whole
// list has to be abandoned: the list cannot be read, a bare digest names
// no derivable file, or ctx is cancelled. The counters are valid in every
// case.
func (s *Session) Check(ctx context.Context, listPath string) (Counters, error) {
	const errCtx = "checking list"

	var c Counters

	rc, err := checksumline.OpenList(listPath)
	if err != nil {
		c.Record(Outcome{Kind: ReadFailure, Err: err})
		return c, fmt.Errorf("%s: %w", errCtx, &digest.ReadError{Path: listPath, Err: err})
	}
	defer rc.Close()

	lc := &listCheck{
		Session:  s,
		listPath: listPath,
		reported: make(map[int]bool),
	}

	// Lines have no length limit, so an oversized one is just invalid.
	br := bufio.NewReader(rc)
	for {
		line, rerr := br.ReadString('\n')
		if rerr != nil && rerr != io.EOF {
			c.Record(Outcome{Kind: ReadFailure, Err: rerr})
			return c, fmt.Errorf("%s: %w", errCtx, &digest.ReadError{Path: listPath, Err: rerr})
		}
		if line == "" && rerr == io.EOF {
			break
		}

		lc.lineno++
		if err := ctx.Err(); err != nil {
			return c, err
		}
		o, err := lc.checkLine(ctx, line)
		if err != nil {
			return c, fmt.Errorf("%s: %w", errCtx, err)
		}
		c.Record(o)

		if rerr == io.EOF {
			break
		}
	}

	if lc.wellFormed == 0 {
		s.log.Warnf("%s: no properly formatted checksum lines found", listPath)
	}
	return c, nil
}

// listCheck is the per-list state of Check.
type listCheck struct {
	*Session

	listPath   string
	lineno     int
	wellFormed int

	// reported holds the digest lengths whose ambiguity was already logged.
	reported map[int]bool
}

func (lc *listCheck) checkLine(ctx context.Context, raw string) (Outcome, error) {
	line := strings.TrimSpace(raw)
	if checksumline.IsComment(line) {
		return Outcome{Kind: SkippedLine}, nil
	}

	pl, err := checksumline.Parse(line)
	if err != nil {
		lc.warnf("improperly formatted checksum line")
		return Outcome{Kind: InvalidLine, Err: err}, nil
	}

	d, err := lc.resolve(pl)
	if err != nil {
		lc.warnf("%v", err)
		return Outcome{Kind: InvalidLine, Err: err}, nil
	}
	target := pl.Filename
	if target == "" {
		target, err = checksumline.TargetFromListName(checksumline.TrimCompression(lc.listPath))
		if err != nil {
			return Outcome{}, err
		}
	}

	return lc.verify(ctx, target, d, pl.Digest)
}

// resolve picks the algorithm for one line: its label if it has one, else
// the forced algorithm, else the first cataloged algorithm of matching
// digest length.
func (lc *listCheck) resolve(pl checksumline.Line) (algo.Descriptor, error) {
	if pl.Label != "" {
		id, ok := algo.ResolveLabel(pl.Label)
		if !ok {
			return algo.Descriptor{}, fmt.Errorf("unsupported algorithm %q", pl.Label)
		}
		return id.Descriptor(), nil
	}

	if lc.opts.Algorithm.Valid() {
		return lc.opts.Algorithm.Descriptor(), nil
	}

	d, candidates, err := algo.ResolveByDigest(pl.Digest)
	if err != nil {
		return algo.Descriptor{}, err
	}
	if len(candidates) > 1 && !lc.reported[d.HexLen] {
		lc.reported[d.HexLen] = true
		names := make([]string, 0, len(candidates))
		for _, cd := range candidates {
			names = append(names, cd.Name)
		}
		lc.log.WithField("candidates", strings.Join(names, ",")).
			Infof("%s: %d-digit digests are ambiguous, using %s", lc.listPath, d.HexLen, d.Name)
	}
	return d, nil
}

func (lc *listCheck) verify(
	ctx context.Context,
	target string,
	d algo.Descriptor,
	expected string,
) (Outcome, error) {
	lc.wellFormed++
	lc.log.Debugf("Computing %s for %s", d.Name, target)

	actual, err := lc.engine.Compute(ctx, target, d.ID, lc.opts.Progress)
	if err != nil {
		if ctx.Err() != nil {
			return Outcome{}, err
		}
		if lc.opts.IgnoreMissing && errors.Is(err, fs.ErrNotExist) {
			return Outcome{Kind: SkippedLine, Err: err}, nil
		}
		lc.log.Warn(err)
		return Outcome{Kind: ReadFailure, Err: err}, nil
	}

	if strings.EqualFold(actual, expected) {
		if !lc.opts.Quiet {
			lc.println(fmt.Sprintf("%s (%s): ok", target, d.Name))
		}
		return Outcome{Kind: Match}, nil
	}

	me := &MismatchError{
		Path:      target,
		Algorithm: d.Name,
		Expected:  strings.ToLower(expected),
		Actual:    actual,
	}
	lc.log.Error(me)
	return Outcome{Kind: Mismatch, Expected: me.Expected, Actual: actual, Err: me}, nil
}

func (lc *listCheck) warnf(format string, args ...interface{}) {
	if !lc.opts.Warn {
		return
	}
	lc.log.Warnf("%s:%d: "+format, append([]interface{}{lc.listPath, lc.lineno}, args...)...)
}

func (s *Session) println(line string) {
	if s.opts.Status {
		return
	}
	fmt.Fprintln(s.out, line)
}
