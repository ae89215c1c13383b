// Package algo is the catalog of digest algorithms fancyhash can compute.
//
// The catalog is a fixed, ordered table. The six standard algorithms come
// first; the extended set follows. Declaration order matters: when a digest
// length matches more than one algorithm, the first declared one wins.
package algo

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"hash"
	"strings"

	whirlpoolhash "github.com/jzelinskie/whirlpool"
	"lukechampine.com/blake3"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/blake2s"
	"golang.org/x/crypto/md4"
	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// ID identifies a supported digest algorithm. The zero value is Unknown.
type ID int

const (
	Unknown ID = iota
	MD5
	SHA1
	SHA224
	SHA256
	SHA384
	SHA512
	RIPEMD160
	SHA3_224
	SHA3_256
	SHA3_384
	SHA3_512
	BLAKE2s256
	BLAKE2b512
	BLAKE3
	Whirlpool
	MD4
	SHA512_224
	SHA512_256
)

// Descriptor describes one cataloged algorithm.
type Descriptor struct {
	ID        ID
	Name      string // canonical, lower case
	HexLen    int    // length of the hex digest
	BlockSize int    // internal block size in bytes
}

// Label is the upper case name used by other checksum tools, e.g. "SHA256".
func (d Descriptor) Label() string {
	return strings.ToUpper(d.Name)
}

var catalog = [...]Descriptor{
	{ID: MD5, Name: "md5", HexLen: 2 * md5.Size, BlockSize: md5.BlockSize},
	{ID: SHA1, Name: "sha1", HexLen: 2 * sha1.Size, BlockSize: sha1.BlockSize},
	{ID: SHA224, Name: "sha224", HexLen: 2 * sha256.Size224, BlockSize: sha256.BlockSize},
	{ID: SHA256, Name: "sha256", HexLen: 2 * sha256.Size, BlockSize: sha256.BlockSize},
	{ID: SHA384, Name: "sha384", HexLen: 2 * sha512.Size384, BlockSize: sha512.BlockSize},
	{ID: SHA512, Name: "sha512", HexLen: 2 * sha512.Size, BlockSize: sha512.BlockSize},

	{ID: RIPEMD160, Name: "ripemd160", HexLen: 2 * ripemd160.Size, BlockSize: ripemd160.BlockSize},
	{ID: SHA3_224, Name: "sha3-224", HexLen: 56, BlockSize: 144},
	{ID: SHA3_256, Name: "sha3-256", HexLen: 64, BlockSize: 136},
	{ID: SHA3_384, Name: "sha3-384", HexLen: 96, BlockSize: 104},
	{ID: SHA3_512, Name: "sha3-512", HexLen: 128, BlockSize: 72},
	{ID: BLAKE2s256, Name: "blake2s256", HexLen: 2 * blake2s.Size, BlockSize: blake2s.BlockSize},
	{ID: BLAKE2b512, Name: "blake2b512", HexLen: 2 * blake2b.Size, BlockSize: blake2b.BlockSize},
	{ID: BLAKE3, Name: "blake3", HexLen: 64, BlockSize: 64},
	{ID: Whirlpool, Name: "whirlpool", HexLen: 128, BlockSize: 64},
	{ID: MD4, Name: "md4", HexLen: 2 * md4.Size, BlockSize: md4.BlockSize},
	{ID: SHA512_224, Name: "sha512-224", HexLen: 2 * sha512.Size224, BlockSize: sha512.BlockSize},
	{ID: SHA512_256, Name: "sha512-256", HexLen: 2 * sha512.Size256, BlockSize: sha512.BlockSize},
}

// aliases maps additional user-facing names onto catalog entries.
var aliases = map[string]ID{
	"sha":    SHA1,
	"ripemd": RIPEMD160,
	"rmd160": RIPEMD160,
}

// All returns every descriptor in declaration order.
func All() []Descriptor {
	out := make([]Descriptor, len(catalog))
	copy(out, catalog[:])
	return out
}

// Names returns the canonical names in declaration order.
func Names() []string {
	out := make([]string, 0, len(catalog))
	for _, d := range catalog {
		out = append(out, d.Name)
	}
	return out
}

// Valid reports whether id names a cataloged algorithm.
func (id ID) Valid() bool {
	return id > Unknown && int(id) <= len(catalog)
}

// Descriptor returns the catalog entry for id, or the zero Descriptor.
func (id ID) Descriptor() Descriptor {
	if !id.Valid() {
		return Descriptor{}
	}
	return catalog[id-1]
}

func (id ID) String() string {
	if !id.Valid() {
		return "unknown"
	}
	return catalog[id-1].Name
}

// New returns a fresh digest state for id, or nil for Unknown.
func (id ID) New() hash.Hash {
	switch id {
	case MD5:
		return md5.New()
	case SHA1:
		return sha1.New()
	case SHA224:
		return sha256.New224()
	case SHA256:
		return sha256.New()
	case SHA384:
		return sha512.New384()
	case SHA512:
		return sha512.New()
	case RIPEMD160:
		return ripemd160.New()
	case SHA3_224:
		return sha3.New224()
	case SHA3_256:
		return sha3.New256()
	case SHA3_384:
		return sha3.New384()
	case SHA3_512:
		return sha3.New512()
	case BLAKE2s256:
		h, _ := blake2s.New256(nil) // only fails for oversized keys
		return h
	case BLAKE2b512:
		h, _ := blake2b.New512(nil)
		return h
	case BLAKE3:
		return blake3.New(32, nil)
	case Whirlpool:
		return whirlpoolhash.New()
	case MD4:
		return md4.New()
	case SHA512_224:
		return sha512.New512_224()
	case SHA512_256:
		return sha512.New512_256()
	}
	return nil
}

// ByLength returns all algorithms whose hex digest has n characters, in
// declaration order. The result is empty if none match.
func ByLength(n int) []Descriptor {
	var out []Descriptor
	for _, d := range catalog {
		if d.HexLen == n {
			out = append(out, d)
		}
	}
	return out
}

// ResolveLabel maps an external algorithm label, as written by openssl or
// by "--tag" output, to an algorithm. Matching is case-insensitive. "SHA"
// is the historical name of the first 20-byte algorithm.
func ResolveLabel(label string) (ID, bool) {
	if strings.EqualFold(label, "SHA") {
		if c := ByLength(40); len(c) > 0 {
			return c[0].ID, true
		}
		return Unknown, false
	}
	for _, d := range catalog {
		if strings.EqualFold(label, d.Label()) {
			return d.ID, true
		}
	}
	return Unknown, false
}

// Lookup resolves a user supplied algorithm name, e.g. from a flag or the
// config file.
func Lookup(name string) (ID, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, d := range catalog {
		if d.Name == name {
			return d.ID, true
		}
	}
	id, ok := aliases[name]
	return id, ok
}

// ResolveByDigest guesses the algorithm from the length of a hex digest.
// It returns the chosen descriptor together with every candidate, so the
// caller can tell when the choice was ambiguous.
func ResolveByDigest(digest string) (Descriptor, []Descriptor, error) {
	if bad := nonHex(digest); bad != "" || digest == "" {
		return Descriptor{}, nil, &NotAHexDigestError{Digest: digest, Invalid: bad}
	}
	candidates := ByLength(len(digest))
	if len(candidates) == 0 {
		return Descriptor{}, nil, &UnknownLengthError{Length: len(digest)}
	}
	return candidates[0], candidates, nil
}

// IsHex reports whether s is a non-empty string of hex digits.
func IsHex(s string) bool {
	return s != "" && nonHex(s) == ""
}

// nonHex returns the distinct non-hex characters of s, in order of
// appearance.
func nonHex(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') ||
			(r >= 'a' && r <= 'f') ||
			(r >= 'A' && r <= 'F') {
			continue
		}
		if !strings.ContainsRune(b.String(), r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
