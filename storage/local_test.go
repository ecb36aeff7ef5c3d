package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorageRoundTrip(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()
	userID := uuid.New()

	path, err := s.Upload(ctx, userID, "Me At The Beach.PNG", bytes.NewBufferString("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, "avatars/"+userID.String()+"/"))
	assert.True(t, strings.HasSuffix(path, ".png"))

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	rc.Close()
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, path))
	_, err = s.Download(ctx, path)
	assert.ErrorIs(t, err, ErrFileNotFound)

	// deleting twice is not an error
	assert.NoError(t, s.Delete(ctx, path))
}

func TestLocalStorageRejectsNonImages(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), uuid.New(), "notes.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestLocalStorageStaysInsideRoot(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = s.Download(context.Background(), "../../etc/passwd")
	assert.ErrorIs(t, err, ErrFileNotFound)

	_, err = s.Download(context.Background(), "")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentType("a/b/c.JPG"))
	assert.Equal(t, "image/webp", ContentType("x.webp"))
	assert.Equal(t, "application/octet-stream", ContentType("x.pdf"))
	assert.True(t, IsImage("selfie.heic"))
	assert.False(t, IsImage("selfie"))
}

func TestNewStorage(t *testing.T) {
	s, err := NewStorage(StorageConfig{Type: StorageTypeLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = NewStorage(StorageConfig{Type: StorageTypeS3})
	assert.Error(t, err)

	_, err = NewStorage(StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}
