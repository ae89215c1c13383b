package checksumline

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf16"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// StdinName makes OpenList read the list from standard input.
const StdinName = "-"

type listReader struct {
	io.Reader
	closers []func() error
}

func (r *listReader) Close() error {
	var err error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if cerr := r.closers[i](); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// OpenList opens a checksum-list file for line reading. Lists ending in .gz
// or .zst are decompressed; byte order marks and UTF-16LE text are decoded
// by Decode.
func OpenList(path string) (io.ReadCloser, error) {
	lr := &listReader{}
	var src io.Reader

	if path == StdinName {
		src = os.Stdin
	} else {
		f, err := os.Open(path) //nolint:gosec // list paths come from the command line
		if err != nil {
			return nil, err
		}
		if fi, serr := f.Stat(); serr == nil && fi.IsDir() {
			_ = f.Close()
			return nil, &os.PathError{Op: "open", Path: path, Err: errors.New("is a directory")}
		}
		lr.closers = append(lr.closers, f.Close)
		src = f
	}

	switch compression(path) {
	case ".gz":
		gz, err := gzip.NewReader(src)
		if err != nil {
			_ = lr.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		lr.closers = append(lr.closers, gz.Close)
		src = gz
	case ".zst":
		zr, err := zstd.NewReader(src)
		if err != nil {
			_ = lr.Close()
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		lr.closers = append(lr.closers, func() error {
			zr.Close()
			return nil
		})
		src = zr
	}

	r, err := Decode(src)
	if err != nil {
		_ = lr.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	lr.Reader = r
	return lr, nil
}

// TrimCompression removes a .gz or .zst suffix from a list file name.
func TrimCompression(path string) string {
	if ext := compression(path); ext != "" {
		return path[:len(path)-len(ext)]
	}
	return path
}

func compression(path string) string {
	switch ext := filepath.Ext(path); strings.ToLower(ext) {
	case ".gz", ".zst":
		return strings.ToLower(ext)
	}
	return ""
}

// Decode strips a UTF-8 byte order mark and converts UTF-16LE input, with
// or without a byte order mark, to UTF-8.
func Decode(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)
	peek, perr := br.Peek(64)
	if perr != nil && perr != io.EOF {
		return nil, perr
	}

	switch {
	case bytes.HasPrefix(peek, utf8BOM):
		_, _ = br.Discard(len(utf8BOM))
		return br, nil
	case bytes.HasPrefix(peek, utf16LEBOM), looksLikeUTF16LE(peek):
		all, err := io.ReadAll(br)
		if err != nil {
			return nil, err
		}
		s, err := decodeUTF16LE(all)
		if err != nil {
			return nil, err
		}
		return strings.NewReader(s), nil
	default:
		return br, nil
	}
}

func looksLikeUTF16LE(b []byte) bool {
	n := len(b) &^ 1
	if n < 8 {
		return false
	}
	// ASCII text in UTF-16LE has a zero in nearly every odd byte.
	var zerosOdd, zerosEven int
	for i := 0; i < n; i++ {
		if b[i] != 0 {
			continue
		}
		if i%2 == 1 {
			zerosOdd++
		} else {
			zerosEven++
		}
	}
	half := n / 2
	return zerosOdd*5 >= half*4 && zerosEven*3 <= half*2
}

var (
	utf8BOM    = []byte{0xEF, 0xBB, 0xBF}
	utf16LEBOM = []byte{0xFF, 0xFE}
)

// ErrOddUTF16 is returned for UTF-16 input with a dangling byte.
var ErrOddUTF16 = errors.New("UTF-16LE list ends in the middle of a code unit")

func decodeUTF16LE(b []byte) (string, error) {
	b = bytes.TrimPrefix(b, utf16LEBOM)
	if len(b)&1 == 1 {
		return "", ErrOddUTF16
	}

	var sb strings.Builder
	sb.Grow(len(b) / 2)
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	for _, r := range utf16.Decode(units) {
		sb.WriteRune(r)
	}
	return sb.String(), nil
}
