// Package checksumline reads the checksum-list formats written by md5sum
// and friends, by openssl dgst and by "--tag" style tools.
//
// Each grammar is an independent matcher. Parse tries them in a fixed order
// and the first match wins:
//
//	7466be3ab27702b0738423e9d731b0175f101133 *pip-1.3.1.tar.gz   list style
//	SHA1(pip-1.3.1.tar.gz)= 7466be3ab27702b0738423e9d731b0175f101133   openssl
//	SHA1 (pip-1.3.1.tar.gz) = 7466be3ab27702b0738423e9d731b0175f101133  bsd tag
//	7466be3ab27702b0738423e9d731b0175f101133                     bare digest
package checksumline

import (
	"errors"
	"strings"

	"fancyhash/internal/algo"
)

// ErrInvalidLine is returned for lines that match no grammar.
var ErrInvalidLine = errors.New("improperly formatted checksum line")

// Grammar names the format a line was recognized as.
type Grammar int

const (
	Bare Grammar = iota + 1
	ListStyle
	OpenSSL
	BsdTag
)

func (g Grammar) String() string {
	switch g {
	case Bare:
		return "bare"
	case ListStyle:
		return "list"
	case OpenSSL:
		return "openssl"
	case BsdTag:
		return "bsd-tag"
	default:
		return "unknown"
	}
}

// Line is one parsed checksum entry.
type Line struct {
	Digest   string
	Filename string // empty for Bare lines
	Label    string // algorithm label from openssl and bsd tag lines
	Grammar  Grammar
}

type matcher func(line string) (Line, bool)

var grammars = []matcher{
	parseListStyle,
	parseOpenSSL,
	parseBsdTag,
	parseBare,
}

// IsComment reports whether line is blank or a '#' or ';' comment.
func IsComment(line string) bool {
	t := strings.TrimSpace(line)
	return t == "" || t[0] == '#' || t[0] == ';'
}

// Parse recognizes a single line with its terminator already removed.
func Parse(line string) (Line, error) {
	for _, m := range grammars {
		if l, ok := m(line); ok {
			return l, nil
		}
	}
	return Line{}, ErrInvalidLine
}

// parseListStyle matches "<hex><sep><filename>" where sep is two spaces,
// " *", or a single space directly followed by a word character.
func parseListStyle(line string) (Line, bool) {
	n := hexPrefix(line)
	if n == 0 {
		return Line{}, false
	}
	digest, rest := line[:n], line[n:]

	var name string
	switch {
	case strings.HasPrefix(rest, "  ") && len(rest) > 2:
		name = rest[2:]
	case strings.HasPrefix(rest, " *") && len(rest) > 2:
		name = rest[2:]
	case len(rest) > 1 && rest[0] == ' ' && isWordByte(rest[1]):
		name = rest[1:]
	default:
		return Line{}, false
	}
	return Line{Digest: digest, Filename: name, Grammar: ListStyle}, true
}

// parseOpenSSL matches "<LABEL>(<filename>)= <hex>". The filename runs to
// the last ")= " so it may contain parentheses itself.
func parseOpenSSL(line string) (Line, bool) {
	n := 0
	for n < len(line) && isUpperAlnum(line[n]) {
		n++
	}
	if n == 0 || n == len(line) || line[n] != '(' {
		return Line{}, false
	}
	rest := line[n+1:]
	i := strings.LastIndex(rest, ")= ")
	if i < 1 {
		return Line{}, false
	}
	digest := rest[i+3:]
	if !algo.IsHex(digest) {
		return Line{}, false
	}
	return Line{
		Digest:   digest,
		Filename: rest[:i],
		Label:    line[:n],
		Grammar:  OpenSSL,
	}, true
}

// parseBsdTag matches "<LABEL> (<filename>) = <hex>".
func parseBsdTag(line string) (Line, bool) {
	i := strings.Index(line, " (")
	if i < 1 || !isLabel(line[:i]) {
		return Line{}, false
	}
	rest := line[i+2:]
	j := strings.LastIndex(rest, ") = ")
	if j < 1 {
		return Line{}, false
	}
	digest := rest[j+4:]
	if !algo.IsHex(digest) {
		return Line{}, false
	}
	return Line{
		Digest:   digest,
		Filename: rest[:j],
		Label:    line[:i],
		Grammar:  BsdTag,
	}, true
}

func parseBare(line string) (Line, bool) {
	if !algo.IsHex(line) {
		return Line{}, false
	}
	return Line{Digest: line, Grammar: Bare}, true
}

func hexPrefix(s string) int {
	n := 0
	for n < len(s) && isHexByte(s[n]) {
		n++
	}
	return n
}

func isHexByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isUpperAlnum(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isWordByte(c byte) bool {
	return c == '_' || isUpperAlnum(c) || (c >= 'a' && c <= 'z')
}

func isLabel(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isWordByte(s[i]) && s[i] != '-' {
			return false
		}
	}
	return s != ""
}
