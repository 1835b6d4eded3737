package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/logiport/backend/internal/infrastructure/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func validS3Config() *config.StorageConfig {
	return &config.StorageConfig{
		Bucket:       "documents",
		AccessKey:    "test-key",
		SecretKey:    "test-secret",
		Region:       "us-east-1",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
		KeyPrefix:    "/archive/",
	}
}

func TestNewS3Archive_Validation(t *testing.T) {
	t.Run("nil config returns error", func(t *testing.T) {
		_, err := NewS3Archive(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration is required")
	})

	t.Run("missing bucket returns error", func(t *testing.T) {
		_, err := NewS3Archive(&config.StorageConfig{AccessKey: "k", SecretKey: "s"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket is required")
	})

	t.Run("missing credentials return errors", func(t *testing.T) {
		_, err := NewS3Archive(&config.StorageConfig{Bucket: "b", SecretKey: "s"})
		assert.ErrorContains(t, err, "access key is required")
		_, err = NewS3Archive(&config.StorageConfig{Bucket: "b", AccessKey: "k"})
		assert.ErrorContains(t, err, "secret key is required")
	})

	t.Run("valid config with options", func(t *testing.T) {
		a, err := NewS3Archive(validS3Config(), WithLogger(zaptest.NewLogger(t)), WithPresignExpiration(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "documents", a.Bucket())
		assert.Equal(t, time.Hour, a.presignExpiration)
		assert.Equal(t, "archive", a.keyPrefix)
	})

	t.Run("default presign expiration", func(t *testing.T) {
		a, err := NewS3Archive(validS3Config())
		require.NoError(t, err)
		assert.Equal(t, 15*time.Minute, a.presignExpiration)
	})
}

func TestS3Archive_ObjectKey(t *testing.T) {
	a, err := NewS3Archive(validS3Config())
	require.NoError(t, err)
	assert.Equal(t, "archive/2026/10/INV-COM-260006-AR.pdf", a.objectKey("/2026/10/INV-COM-260006-AR.pdf"))

	a.keyPrefix = ""
	assert.Equal(t, "2026/10/x.pdf", a.objectKey("2026/10/x.pdf"))
}

func TestS3Archive_DownloadURL(t *testing.T) {
	a, err := NewS3Archive(validS3Config())
	require.NoError(t, err)
	ctx := context.Background()

	_, _, err = a.DownloadURL(ctx, "", 0)
	assert.Error(t, err)

	u, expires, err := a.DownloadURL(ctx, "2026/10/INV-COM-260006-AR.pdf", 0)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(u, "http://localhost:9000/documents/archive/2026/10/INV-COM-260006-AR.pdf?"), u)
	assert.Contains(t, u, "X-Amz-Signature=")
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), expires, 5*time.Second)
}

func TestS3Archive_KeyValidation(t *testing.T) {
	a, err := NewS3Archive(validS3Config())
	require.NoError(t, err)
	ctx := context.Background()

	assert.Error(t, a.Put(ctx, "", strings.NewReader("x"), "application/pdf"))
	_, err = a.Exists(ctx, "")
	assert.Error(t, err)
}

func TestFSArchive(t *testing.T) {
	ctx := context.Background()
	fs := afero.NewMemMapFs()
	a, err := NewFSArchive(fs, "/mnt/archive")
	require.NoError(t, err)

	require.NoError(t, a.Put(ctx, "2026/10/CMR-1-EN.pdf", strings.NewReader("%PDF v1"), "application/pdf"))
	require.NoError(t, a.Put(ctx, "2026/10/CMR-1-EN.pdf", strings.NewReader("%PDF v2"), "application/pdf"))

	data, err := afero.ReadFile(fs, "/mnt/archive/2026/10/CMR-1-EN.pdf")
	require.NoError(t, err)
	assert.Equal(t, "%PDF v2", string(data))

	ok, err := a.Exists(ctx, "2026/10/CMR-1-EN.pdf")
	require.NoError(t, err)
	assert.True(t, ok)

	u, expires, err := a.DownloadURL(ctx, "2026/10/CMR-1-EN.pdf", 0)
	require.NoError(t, err)
	assert.Equal(t, "file:///mnt/archive/2026/10/CMR-1-EN.pdf", u)
	assert.True(t, expires.IsZero())

	err = a.Put(ctx, "../../etc/passwd", strings.NewReader("x"), "")
	assert.ErrorContains(t, err, "escapes the archive root")

	_, err = NewFSArchive(fs, "")
	assert.Error(t, err)
}
