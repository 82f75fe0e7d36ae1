package filestorage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/coursehub/internal/pkg/apperrors"
)

var fixedNow = time.Unix(1700000000, 0)

func newTestManager(t *testing.T) (*Manager, *LocalStorage) {
	t.Helper()
	local, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	return NewManager(local).WithClock(func() time.Time { return fixedNow }), local
}

func TestExtensionSetAllows(t *testing.T) {
	assert.True(t, ImageExtensions.Allows("cover.PNG"))
	assert.True(t, VideoExtensions.Allows("lecture.mp4"))
	assert.True(t, DocumentExtensions.Allows("hw1.pdf"))
	assert.False(t, ImageExtensions.Allows("virus.exe"))
	assert.False(t, DocumentExtensions.Allows("noext"))
}

func TestUniqueName(t *testing.T) {
	assert.Equal(t, "1700000000_lecture_one.mp4", UniqueName("lecture one.MP4", fixedNow))
	assert.Equal(t, "1700000000_passwd.png", UniqueName("../../etc/passwd.png", fixedNow))
	assert.Equal(t, "1700000000_x.png", UniqueName(`C:\Users\me\x.png`, fixedNow))
	assert.Equal(t, "1700000000_file.png", UniqueName("日本.png", fixedNow))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "my_cool-file.v2", SanitizeName("  my cool-file.v2 "))
	assert.Equal(t, "hidden", SanitizeName("..hidden__"))
	assert.Equal(t, "", SanitizeName("$$$"))
}

func TestValidateReference(t *testing.T) {
	for _, ref := range []string{"", ".", "..", "../x.png", "a/b.png", `a\b.png`, "x\x00.png"} {
		assert.ErrorIs(t, ValidateReference(ref), apperrors.ErrInvalidBlobReference, ref)
	}
	assert.NoError(t, ValidateReference("1700000000_a..b.png"))
}

func TestManagerSaveAndOpen(t *testing.T) {
	ctx := context.Background()
	m, local := newTestManager(t)

	name, err := m.Save(ctx, "Intro.mp4", strings.NewReader("frames"), VideoExtensions)
	require.NoError(t, err)
	assert.Equal(t, "1700000000_Intro.mp4", name)

	_, err = os.Stat(filepath.Join(local.BasePath(), name))
	require.NoError(t, err)

	blob, err := m.Open(ctx, name)
	require.NoError(t, err)
	defer blob.Body.Close()
	data, err := io.ReadAll(blob.Body)
	require.NoError(t, err)
	assert.Equal(t, "frames", string(data))
	assert.EqualValues(t, 6, blob.Size)
	assert.NotEmpty(t, blob.ContentType)
}

func TestManagerSaveRejectsExtension(t *testing.T) {
	m, local := newTestManager(t)

	_, err := m.Save(context.Background(), "notes.exe", strings.NewReader("x"), DocumentExtensions)
	require.ErrorIs(t, err, apperrors.ErrUnsupportedFormat)
	msg, ok := apperrors.Message(err)
	assert.True(t, ok)
	assert.Equal(t, "Unsupported document format.", msg)

	entries, err := os.ReadDir(local.BasePath())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestManagerSaveCollisionRetriesWithSuffix(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	first, err := m.Save(ctx, "a.pdf", bytes.NewReader([]byte("one")), DocumentExtensions)
	require.NoError(t, err)
	second, err := m.Save(ctx, "a.pdf", bytes.NewReader([]byte("two")), DocumentExtensions)
	require.NoError(t, err)

	assert.Equal(t, "1700000000_a.pdf", first)
	assert.Equal(t, "1700000000_a_1.pdf", second)

	blob, err := m.Open(ctx, first)
	require.NoError(t, err)
	defer blob.Body.Close()
	data, _ := io.ReadAll(blob.Body)
	assert.Equal(t, "one", string(data))
}

func TestManagerSaveCollisionWithoutSeekFails(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t)

	_, err := m.Save(ctx, "a.pdf", strings.NewReader("one"), DocumentExtensions)
	require.NoError(t, err)
	_, err = m.Save(ctx, "a.pdf", io.LimitReader(strings.NewReader("two"), 3), DocumentExtensions)
	assert.ErrorIs(t, err, apperrors.ErrBlobExists)
}

func TestManagerDelete(t *testing.T) {
	ctx := context.Background()
	m, local := newTestManager(t)

	name, err := m.Save(ctx, "c.png", strings.NewReader("img"), ImageExtensions)
	require.NoError(t, err)

	require.NoError(t, m.Delete(ctx, name))
	_, err = os.Stat(filepath.Join(local.BasePath(), name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, m.Delete(ctx, name), "deleting twice is a no-op")
	assert.NoError(t, m.Delete(ctx, ""))
	assert.ErrorIs(t, m.Delete(ctx, "../c.png"), apperrors.ErrInvalidBlobReference)
}

func TestManagerOpenMissingAndTraversal(t *testing.T) {
	ctx := context.Background()
	m, local := newTestManager(t)

	_, err := m.Open(ctx, "nope.png")
	assert.ErrorIs(t, err, apperrors.ErrBlobNotFound)

	outside := filepath.Join(filepath.Dir(local.BasePath()), "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("s"), 0o644))
	_, err = m.Open(ctx, "../secret.txt")
	assert.ErrorIs(t, err, apperrors.ErrInvalidBlobReference)
}
