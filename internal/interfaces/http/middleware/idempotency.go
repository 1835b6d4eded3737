package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Idempotency headers
const (
	IdempotencyKeyHeader      = "Idempotency-Key"
	IdempotentReplayedHeader  = "Idempotent-Replayed"
	MaxIdempotencyKeyLength   = 128
	defaultIdempotencyTimeout = 24 * time.Hour
)

// storedResponse is what a completed key replays
type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// responseRecorder copies everything the handler writes
type responseRecorder struct {
	gin.ResponseWriter
	body bytes.Buffer
}

func (w *responseRecorder) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *responseRecorder) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the first successful response of a POST that carries
// an Idempotency-Key header. A retry while the first request is still running
// gets 409. Failed responses are not stored, so the client may retry them.
// Requests without the header pass through.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = defaultIdempotencyTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		if len(key) > MaxIdempotencyKeyLength {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeBadRequest, "Idempotency-Key is too long", GetRequestID(c)))
			return
		}
		ctx := c.Request.Context()
		scoped := c.FullPath() + "|" + key

		if replayed := replay(c, store, scoped, logger); replayed {
			return
		}

		reserved, err := store.Reserve(ctx, scoped, ttl)
		if err != nil {
			// serve without replay protection
			logger.Warn("idempotency store unavailable", zap.Error(err))
			c.Next()
			return
		}
		if !reserved {
			if replayed := replay(c, store, scoped, logger); !replayed {
				abortInProgress(c)
			}
			return
		}

		// a failed or panicking handler leaves the key free for a retry
		stored := false
		defer func() {
			if stored {
				return
			}
			if err := store.Release(context.WithoutCancel(ctx), scoped); err != nil {
				logger.Warn("failed to release idempotency key", zap.String("key", key), zap.Error(err))
			}
		}()

		rec := &responseRecorder{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		status := rec.Status()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return
		}
		payload, err := json.Marshal(storedResponse{
			Status:      status,
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		})
		if err == nil {
			err = store.Complete(ctx, scoped, payload, ttl)
		}
		if err != nil {
			logger.Warn("failed to store idempotent response", zap.String("key", key), zap.Error(err))
			return
		}
		stored = true
	}
}

// replay writes the stored response for key. A reserved key with no response
// yet aborts with 409 and also counts as handled.
func replay(c *gin.Context, store shared.IdempotencyStore, key string, logger *zap.Logger) bool {
	raw, found, err := store.Lookup(c.Request.Context(), key)
	if err != nil {
		logger.Warn("idempotency lookup failed", zap.Error(err))
		return false
	}
	if !found {
		return false
	}
	if raw == nil {
		abortInProgress(c)
		return true
	}

	var resp storedResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		logger.Warn("discarding unreadable idempotent response", zap.Error(err))
		return false
	}
	c.Header(IdempotentReplayedHeader, "true")
	c.Data(resp.Status, resp.ContentType, resp.Body)
	c.Abort()
	return true
}

func abortInProgress(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusConflict, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeRequestInProgress,
		"a request with this Idempotency-Key is still being processed",
		GetRequestID(c),
	))
}
