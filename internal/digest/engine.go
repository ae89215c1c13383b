// Package digest streams files through a digest algorithm in fixed-size
// chunks and reports throttled progress while doing so.
package digest

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sync"
	"time"

	"fancyhash/internal/algo"
)

// BaseChunk is the I/O granularity chunk sizes are derived from.
const BaseChunk = 512 << 5

// DefaultInterval is the minimum time between two progress updates.
const DefaultInterval = 250 * time.Millisecond

// ErrIsDirectory is the cause of a ReadError for directory arguments.
var ErrIsDirectory = errors.New("is a directory")

// ReadError reports a file that could not be opened or read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	var pe *fs.PathError
	if errors.As(e.Err, &pe) {
		return pe.Error()
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// GCD returns the greatest common divisor of a and b.
func GCD(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// LCM returns the least common multiple of a and b, or 0 if either is 0.
func LCM(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	l := a / GCD(a, b) * b
	if l < 0 {
		return -l
	}
	return l
}

// ChunkSize is the read size for an algorithm with the given block size: a
// multiple of the block size so the hash never re-buffers input.
func ChunkSize(blockSize int) int {
	if c := LCM(blockSize, BaseChunk); c > 0 {
		return c
	}
	return BaseChunk
}

var empty = struct {
	sync.Mutex
	sums map[algo.ID]string
}{sums: make(map[algo.ID]string)}

// EmptyDigest returns the digest of zero bytes for id. Each value is
// computed once per process.
func EmptyDigest(id algo.ID) string {
	empty.Lock()
	defer empty.Unlock()

	if s, ok := empty.sums[id]; ok {
		return s
	}
	h := id.New()
	if h == nil {
		return ""
	}
	s := hex.EncodeToString(h.Sum(nil))
	empty.sums[id] = s
	return s
}

// Engine computes file digests. The zero value is not usable; use
// NewEngine.
type Engine struct {
	interval time.Duration
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithInterval sets the minimum time between progress updates.
func WithInterval(d time.Duration) Option {
	return func(e *Engine) {
		e.interval = d
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine returns an Engine with DefaultInterval unless overridden.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		interval: DefaultInterval,
		now:      time.Now,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Compute returns the hex digest of the file at path.
//
// The file is read in ChunkSize pieces until the byte count taken from
// stat is covered; the digest itself is over exactly the bytes read. If
// progress is not nil it is called before the first chunk, whenever the
// engine's interval has passed, and once with Done set when hashing ends,
// also when it ends early on an error or cancellation. Failures to open or read the file are returned as *ReadError.
func (e *Engine) Compute(
	ctx context.Context,
	path string,
	id algo.ID,
	progress func(Progress),
) (string, error) {
	if !id.Valid() {
		return "", fmt.Errorf("computing digest: unsupported algorithm %d", id)
	}

	fi, err := os.Stat(path)
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	if fi.IsDir() {
		return "", &ReadError{Path: path, Err: ErrIsDirectory}
	}

	f, err := os.Open(path) //nolint:gosec // paths come from the command line or a checksum list
	if err != nil {
		return "", &ReadError{Path: path, Err: err}
	}
	defer f.Close()

	h := id.New()
	chunk := ChunkSize(id.Descriptor().BlockSize)
	buf := make([]byte, chunk)

	p := Progress{Name: path, Total: fi.Size()}
	last := e.now()
	if progress != nil {
		progress(p)
		defer func() {
			if !p.Done {
				p.Done = true
				progress(p)
			}
		}()
	}

	var fed int64
	for !p.Done {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		n, err := io.ReadFull(f, buf)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return "", &ReadError{Path: path, Err: err}
		}
		_, _ = h.Write(buf[:n])
		fed += int64(n)

		// Counts requested bytes, so the last chunk may overshoot Total.
		p.Processed += int64(chunk)
		p.Done = p.Processed >= p.Total

		if progress != nil {
			now := e.now()
			if ShouldEmit(now.Sub(last), e.interval, p.Done) {
				progress(p)
				last = now
			}
		}
	}

	if fed == 0 {
		return EmptyDigest(id), nil
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ComputeReader returns the hex digest of everything r yields until EOF.
// name only labels errors. No progress is reported since the total is
// unknown.
func (e *Engine) ComputeReader(ctx context.Context, name string, r io.Reader, id algo.ID) (string, error) {
	if !id.Valid() {
		return "", fmt.Errorf("computing digest: unsupported algorithm %d", id)
	}

	h := id.New()
	buf := make([]byte, ChunkSize(id.Descriptor().BlockSize))

	var fed int64
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := r.Read(buf)
		_, _ = h.Write(buf[:n])
		fed += int64(n)
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", &ReadError{Path: name, Err: err}
		}
	}

	if fed == 0 {
		return EmptyDigest(id), nil
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
