package algo

import (
	"errors"
	"fmt"
)

// ErrHashtypeDetection is matched by every error that means the algorithm
// could not be determined.
var ErrHashtypeDetection = errors.New("could not detect hash type")

// NotAHexDigestError reports a digest token containing non-hex characters.
type NotAHexDigestError struct {
	Digest  string
	Invalid string // the offending characters
}

func (e *NotAHexDigestError) Error() string {
	if e.Digest == "" {
		return "not a hex digest: empty value"
	}
	return fmt.Sprintf("not a hex digest: %q contains %q", e.Digest, e.Invalid)
}

func (e *NotAHexDigestError) Unwrap() error {
	return ErrHashtypeDetection
}

// UnknownLengthError reports a hex digest whose length matches no
// cataloged algorithm.
type UnknownLengthError struct {
	Length int
}

func (e *UnknownLengthError) Error() string {
	return fmt.Sprintf("no known algorithm produces %d-digit hex digests", e.Length)
}

func (e *UnknownLengthError) Unwrap() error {
	return ErrHashtypeDetection
}
