package file

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCloseLifecycle(t *testing.T) {
	path := filepath.Join(t.TempDir(), "target.dat")
	f := New(path)

	assert.False(t, f.IsOpen())
	require.NoError(t, f.Open())
	assert.True(t, f.IsOpen())

	// Opening an open file is a no-op.
	require.NoError(t, f.Open())

	require.NoError(t, f.Close())
	assert.False(t, f.IsOpen())

	// Closing twice is also a no-op.
	require.NoError(t, f.Close())
}

func TestOpenFailurePropagates(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "missing-dir", "target.dat"))
	err := f.Open()
	require.Error(t, err)
	assert.False(t, f.IsOpen())
}

func TestPwritePreadRoundTrip(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "target.dat"))
	require.NoError(t, f.Open())
	defer f.Close()

	payload := []byte("deadbeefcafe")
	n, err := f.Pwrite(payload, 4096)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)

	got := make([]byte, len(payload))
	n, err = f.Pread(got, 4096)
	require.NoError(t, err)
	assert.Equal(t, len(payload), n)
	assert.Equal(t, payload, got)

	require.NoError(t, f.Sync())
}

func TestPreadPastEndFails(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "target.dat"))
	require.NoError(t, f.Open())
	defer f.Close()

	_, err := f.Pwrite([]byte("abc"), 0)
	require.NoError(t, err)

	buf := make([]byte, 16)
	_, err = f.Pread(buf, 0)
	assert.Error(t, err, "short region must not satisfy a full-buffer read")
}

func TestIONotOpen(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "target.dat"))

	_, err := f.Pwrite([]byte("x"), 0)
	assert.Error(t, err)
	_, err = f.Pread(make([]byte, 1), 0)
	assert.Error(t, err)
	assert.Error(t, f.Sync())
}

func TestReferenceCounting(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "target.dat"))

	assert.EqualValues(t, 0, f.Refs())
	f.Get()
	f.Get()
	assert.EqualValues(t, 2, f.Refs())
	f.Put()
	assert.EqualValues(t, 1, f.Refs())
	f.Put()
	assert.EqualValues(t, 0, f.Refs())

	assert.Panics(t, func() { f.Put() })
}

func TestTruncatePreallocates(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "target.dat"))
	require.NoError(t, f.Open())
	defer f.Close()

	require.NoError(t, f.Truncate(1<<20))

	buf := make([]byte, 512)
	n, err := f.Pread(buf, 1<<20-512)
	require.NoError(t, err)
	assert.Equal(t, 512, n)
}
