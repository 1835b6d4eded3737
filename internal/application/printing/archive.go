package printing

import (
	"context"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Archiver copies produced documents to long-term storage
type Archiver interface {
	Put(ctx context.Context, key string, body io.Reader, contentType string) error
}

// archive uploads filePath under {YYYY}/{MM}/{name}. Failures are logged and
// never fail the render.
func (s *RenderService) archive(ctx context.Context, filePath string, at time.Time) bool {
	if s.deps.Archiver == nil {
		return false
	}
	key := archiveKey(filePath, at)
	f, err := s.deps.OutputFs.Open(filePath)
	if err != nil {
		s.logger.Warn("archive skipped, output not readable", zap.String("file", filePath), zap.Error(err))
		return false
	}
	defer f.Close()

	if err := s.deps.Archiver.Put(ctx, key, f, contentType(filePath)); err != nil {
		s.logger.Warn("archive upload failed", zap.String("key", key), zap.Error(err))
		return false
	}
	s.logger.Debug("document archived", zap.String("key", key))
	return true
}

func contentType(filePath string) string {
	if strings.HasSuffix(filePath, ".pdf") {
		return "application/pdf"
	}
	return "text/html; charset=utf-8"
}
