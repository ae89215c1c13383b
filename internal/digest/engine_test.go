package digest_test

import (
	"bytes"
	"context"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"
	"time"

	"fancyhash/internal/algo"
	"fancyhash/internal/digest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()

	pa := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(pa, data, 0o600))

	return pa
}

// stepClock returns a clock that advances by step on every call.
func stepClock(step time.Duration) func() time.Time {
	now := time.Unix(0, 0)
	return func() time.Time {
		t := now
		now = now.Add(step)
		return t
	}
}

func TestLCM(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 12, digest.LCM(4, 6))
	assert.Equal(t, digest.LCM(4, 6), digest.LCM(6, 4))
	assert.Equal(t, 0, digest.LCM(4, 0))
	assert.Equal(t, 0, digest.LCM(0, 4))
	assert.Equal(t, 12, digest.LCM(-4, 6))
	assert.Equal(t, 2, digest.GCD(4, 6))
}

func TestChunkSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 16384, digest.BaseChunk)
	assert.Equal(t, 16384, digest.ChunkSize(64))
	assert.Equal(t, 16384, digest.ChunkSize(128))
	assert.Equal(t, 147456, digest.ChunkSize(144))
	assert.Equal(t, digest.BaseChunk, digest.ChunkSize(0))

	for _, d := range algo.All() {
		c := digest.ChunkSize(d.BlockSize)
		assert.Zero(t, c%d.BlockSize, d.Name)
		assert.Zero(t, c%digest.BaseChunk, d.Name)
	}
}

func TestCompute_empty_file_all_algorithms(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pa := writeFile(t, dir, "empty.txt", nil)
	en := digest.NewEngine()

	for _, d := range algo.All() {
		t.Run(d.Name, func(t *testing.T) {
			want := hex.EncodeToString(d.ID.New().Sum(nil))

			first, err := en.Compute(context.Background(), pa, d.ID, nil)
			require.NoError(t, err)
			second, err := en.Compute(context.Background(), pa, d.ID, nil)
			require.NoError(t, err)

			assert.Equal(t, want, first)
			assert.Equal(t, first, second)
			assert.Equal(t, want, digest.EmptyDigest(d.ID))
		})
	}
}

func TestCompute_matches_reference(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	en := digest.NewEngine()

	// Sizes around the chunk boundary.
	for _, size := range []int{1, 16383, 16384, 16385, 3*16384 + 7} {
		data := bytes.Repeat([]byte{'x'}, size)
		pa := writeFile(t, dir, "data.bin", data)

		md5sum := md5.Sum(data)
		got, err := en.Compute(context.Background(), pa, algo.MD5, nil)
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString(md5sum[:]), got, "size %d", size)

		shasum := sha256.Sum256(data)
		got, err = en.Compute(context.Background(), pa, algo.SHA256, nil)
		require.NoError(t, err)
		assert.Equal(t, hex.EncodeToString(shasum[:]), got, "size %d", size)
	}
}

func TestCompute_known_value(t *testing.T) {
	t.Parallel()

	pa := writeFile(t, t.TempDir(), "x.bin", bytes.Repeat([]byte{'x'}, 40000))

	got, err := digest.NewEngine().Compute(context.Background(), pa, algo.MD5, nil)

	require.NoError(t, err)
	assert.Equal(t, "33766cd480de06a6b2e053eb8f67583e", got)
}

func TestCompute_progress_is_throttled(t *testing.T) {
	t.Parallel()

	pa := writeFile(t, t.TempDir(), "five.bin", make([]byte, 5*digest.BaseChunk))
	en := digest.NewEngine(
		digest.WithInterval(250*time.Millisecond),
		digest.WithClock(stepClock(100*time.Millisecond)),
	)

	var got []digest.Progress
	_, err := en.Compute(context.Background(), pa, algo.MD5, func(p digest.Progress) {
		got = append(got, p)
	})
	require.NoError(t, err)

	require.Len(t, got, 3)
	assert.Equal(t, int64(0), got[0].Processed)
	assert.False(t, got[0].Done)
	assert.Equal(t, int64(3*digest.BaseChunk), got[1].Processed)
	assert.False(t, got[1].Done)
	assert.Equal(t, int64(5*digest.BaseChunk), got[2].Processed)
	assert.True(t, got[2].Done)
	assert.Equal(t, pa, got[2].Name)
}

func TestCompute_final_progress_overshoots_but_percent_clamps(t *testing.T) {
	t.Parallel()

	pa := writeFile(t, t.TempDir(), "small.bin", []byte("hello\n"))

	var last digest.Progress
	_, err := digest.NewEngine().Compute(context.Background(), pa, algo.SHA1, func(p digest.Progress) {
		last = p
	})
	require.NoError(t, err)

	assert.True(t, last.Done)
	assert.Equal(t, int64(6), last.Total)
	assert.Equal(t, int64(digest.BaseChunk), last.Processed)
	assert.InDelta(t, 100.0, last.Percent(), 0.0001)
}

func TestCompute_read_errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	en := digest.NewEngine()

	_, err := en.Compute(context.Background(), filepath.Join(dir, "missing"), algo.MD5, nil)

	var re *digest.ReadError
	require.True(t, errors.As(err, &re))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = en.Compute(context.Background(), dir, algo.MD5, nil)
	require.True(t, errors.As(err, &re))
	assert.ErrorIs(t, err, digest.ErrIsDirectory)
	assert.Contains(t, err.Error(), "is a directory")
}

func TestCompute_unknown_algorithm(t *testing.T) {
	t.Parallel()

	pa := writeFile(t, t.TempDir(), "f", []byte("x"))

	_, err := digest.NewEngine().Compute(context.Background(), pa, algo.Unknown, nil)

	assert.Error(t, err)
}

func TestCompute_cancelled(t *testing.T) {
	t.Parallel()

	pa := writeFile(t, t.TempDir(), "f", []byte("x"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := digest.NewEngine().Compute(ctx, pa, algo.MD5, nil)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompute_cancelled_midway_ends_progress(t *testing.T) {
	t.Parallel()

	pa := writeFile(t, t.TempDir(), "five.bin", make([]byte, 5*digest.BaseChunk))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var got []digest.Progress
	_, err := digest.NewEngine(digest.WithInterval(0)).Compute(ctx, pa, algo.MD5, func(p digest.Progress) {
		got = append(got, p)
		cancel()
	})

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, got, 2)
	assert.False(t, got[0].Done)
	assert.True(t, got[1].Done)
	assert.Equal(t, int64(0), got[1].Processed)
}

func TestComputeReader(t *testing.T) {
	t.Parallel()

	en := digest.NewEngine()

	got, err := en.ComputeReader(context.Background(), "-", strings.NewReader("hello\n"), algo.MD5)
	require.NoError(t, err)
	assert.Equal(t, "b1946ac92492d2347c6235b4d2611184", got)

	got, err = en.ComputeReader(context.Background(), "-", strings.NewReader(""), algo.SHA1)
	require.NoError(t, err)
	assert.Equal(t, digest.EmptyDigest(algo.SHA1), got)

	big := bytes.Repeat([]byte{'x'}, 40000)
	got, err = en.ComputeReader(context.Background(), "-", iotest.OneByteReader(bytes.NewReader(big)), algo.MD5)
	require.NoError(t, err)
	assert.Equal(t, "33766cd480de06a6b2e053eb8f67583e", got)

	_, err = en.ComputeReader(context.Background(), "-", iotest.ErrReader(errors.New("boom")), algo.MD5)
	var re *digest.ReadError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "-", re.Path)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = en.ComputeReader(ctx, "-", strings.NewReader("x"), algo.MD5)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestProgress(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, digest.Progress{Total: 10}.Percent(), 0.0001)
	assert.InDelta(t, 50.0, digest.Progress{Processed: 5, Total: 10}.Percent(), 0.0001)
	assert.InDelta(t, 100.0, digest.Progress{Processed: 20, Total: 10}.Percent(), 0.0001)
	assert.InDelta(t, 100.0, digest.Progress{}.Percent(), 0.0001)
	assert.Equal(t, "f (50.00%)", digest.Progress{Name: "f", Processed: 5, Total: 10}.String())
}

func TestShouldEmit(t *testing.T) {
	t.Parallel()

	iv := 250 * time.Millisecond

	assert.True(t, digest.ShouldEmit(0, iv, true))
	assert.False(t, digest.ShouldEmit(100*time.Millisecond, iv, false))
	assert.True(t, digest.ShouldEmit(250*time.Millisecond, iv, false))
	assert.True(t, digest.ShouldEmit(time.Second, iv, false))
}
