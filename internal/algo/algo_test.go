package algo_test

import (
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"fancyhash/internal/algo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var emptyDigests = map[algo.ID]string{
	algo.MD5:    "d41d8cd98f00b204e9800998ecf8427e",
	algo.SHA1:   "da39a3ee5e6b4b0d3255bfef95601890afd80709",
	algo.SHA224: "d14a028c2a3a2bc9476102bb288234c415a2b01f828ea62ac5b3e42f",
	algo.SHA256: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
	algo.SHA384: "38b060a751ac96384cd9327eb1b1e36a21fdb71114be07434c0cc7bf63f6e1da274edebfe76f65fbd51ad2f14898b95b",
	algo.SHA512: "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e",
}

func TestCatalog_descriptors_match_hash_state(t *testing.T) {
	t.Parallel()

	for _, d := range algo.All() {
		t.Run(d.Name, func(t *testing.T) {
			h := d.ID.New()
			require.NotNil(t, h)

			assert.Equal(t, d.HexLen, 2*h.Size())
			assert.Equal(t, d.BlockSize, h.BlockSize())
			assert.Equal(t, d, d.ID.Descriptor())
			assert.Equal(t, d.Name, d.ID.String())
		})
	}
}

func TestCatalog_standard_algorithms_declared_first(t *testing.T) {
	t.Parallel()

	want := []string{"md5", "sha1", "sha224", "sha256", "sha384", "sha512"}
	assert.Equal(t, want, algo.Names()[:len(want)])
}

func TestNew_empty_input(t *testing.T) {
	t.Parallel()

	for id, want := range emptyDigests {
		h := id.New()
		assert.Equal(t, want, hex.EncodeToString(h.Sum(nil)), id.String())
	}
}

func TestUnknown(t *testing.T) {
	t.Parallel()

	assert.False(t, algo.Unknown.Valid())
	assert.Nil(t, algo.Unknown.New())
	assert.Equal(t, algo.Descriptor{}, algo.Unknown.Descriptor())
	assert.Equal(t, "unknown", algo.ID(999).String())
}

func TestByLength(t *testing.T) {
	t.Parallel()

	got := algo.ByLength(40)
	require.Len(t, got, 2)
	assert.Equal(t, algo.SHA1, got[0].ID)
	assert.Equal(t, algo.RIPEMD160, got[1].ID)

	got = algo.ByLength(64)
	require.NotEmpty(t, got)
	assert.Equal(t, algo.SHA256, got[0].ID)

	assert.Empty(t, algo.ByLength(7))
}

func TestResolveLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		label string
		want  algo.ID
		ok    bool
	}{
		"md5":              {label: "MD5", want: algo.MD5, ok: true},
		"sha alias":        {label: "SHA", want: algo.SHA1, ok: true},
		"sha1":             {label: "SHA1", want: algo.SHA1, ok: true},
		"sha224":           {label: "SHA224", want: algo.SHA224, ok: true},
		"sha256":           {label: "SHA256", want: algo.SHA256, ok: true},
		"sha384":           {label: "SHA384", want: algo.SHA384, ok: true},
		"sha512":           {label: "SHA512", want: algo.SHA512, ok: true},
		"case insensitive": {label: "sha256", want: algo.SHA256, ok: true},
		"ripemd160":        {label: "RIPEMD160", want: algo.RIPEMD160, ok: true},
		"dashed label":     {label: "SHA3-256", want: algo.SHA3_256, ok: true},
		"unknown":          {label: "CRC32", ok: false},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			got, ok := algo.ResolveLabel(tc.label)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	id, ok := algo.Lookup("SHA256")
	require.True(t, ok)
	assert.Equal(t, algo.SHA256, id)

	id, ok = algo.Lookup("rmd160")
	require.True(t, ok)
	assert.Equal(t, algo.RIPEMD160, id)

	id, ok = algo.Lookup("sha512-256")
	require.True(t, ok)
	assert.Equal(t, algo.SHA512_256, id)

	_, ok = algo.Lookup("crc32")
	assert.False(t, ok)
}

func TestResolveByDigest_first_declared_wins(t *testing.T) {
	t.Parallel()

	digest := "7466be3ab27702b0738423e9d731b0175f101133"

	first, candidates, err := algo.ResolveByDigest(digest)
	require.NoError(t, err)
	assert.Equal(t, algo.SHA1, first.ID)
	assert.Len(t, candidates, 2)

	again, _, err := algo.ResolveByDigest(digest)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestResolveByDigest_errors(t *testing.T) {
	t.Parallel()

	_, _, err := algo.ResolveByDigest("zz99")

	var nh *algo.NotAHexDigestError
	require.True(t, errors.As(err, &nh))
	assert.Equal(t, "z", nh.Invalid)
	assert.ErrorIs(t, err, algo.ErrHashtypeDetection)

	_, _, err = algo.ResolveByDigest(strings.Repeat("a", 10))

	var ul *algo.UnknownLengthError
	require.True(t, errors.As(err, &ul))
	assert.Equal(t, 10, ul.Length)
	assert.ErrorIs(t, err, algo.ErrHashtypeDetection)

	_, _, err = algo.ResolveByDigest("")
	assert.ErrorIs(t, err, algo.ErrHashtypeDetection)
}

func TestIsHex(t *testing.T) {
	t.Parallel()

	assert.True(t, algo.IsHex("0123456789abcdefABCDEF"))
	assert.False(t, algo.IsHex(""))
	assert.False(t, algo.IsHex("abcg"))
	assert.False(t, algo.IsHex("ab cd"))
}
