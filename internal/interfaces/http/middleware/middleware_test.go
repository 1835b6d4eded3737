package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestCORSWithConfig(t *testing.T) {
	newRouter := func(cfg CORSConfig) *gin.Engine {
		r := gin.New()
		r.Use(CORSWithConfig(cfg))
		r.POST("/render", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
		return r
	}
	do := func(r *gin.Engine, method, origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/render", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("empty allow list sets no headers", func(t *testing.T) {
		w := do(newRouter(DefaultCORSConfig()), http.MethodPost, "https://ops.example.com")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("listed origin is echoed with credentials", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"https://ops.example.com"}
		w := do(newRouter(cfg), http.MethodPost, "https://ops.example.com")
		assert.Equal(t, "https://ops.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), UserRolesHeader)
		assert.Equal(t, "43200", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("unlisted origin gets nothing", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"https://ops.example.com"}
		w := do(newRouter(cfg), http.MethodPost, "https://evil.example.com")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard never sends credentials", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"*"}
		w := do(newRouter(cfg), http.MethodPost, "https://any.example.com")
		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight answers 204", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"https://ops.example.com"}
		r := newRouter(cfg)
		r.OPTIONS("/render", func(c *gin.Context) { c.String(http.StatusOK, "unreachable") })

		w := do(r, http.MethodOptions, "https://ops.example.com")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "https://ops.example.com", w.Header().Get("Access-Control-Allow-Origin"))

		w = do(r, http.MethodOptions, "https://evil.example.com")
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})
}

func TestSecure(t *testing.T) {
	r := gin.New()
	r.Use(Secure())
	r.GET("/system/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/system/ping", nil))

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
}

func TestTimeout(t *testing.T) {
	var deadline time.Time
	var hasDeadline bool
	r := gin.New()
	r.Use(Timeout(5 * time.Second))
	r.GET("/slow", func(c *gin.Context) {
		deadline, hasDeadline = c.Request.Context().Deadline()
		c.Status(http.StatusOK)
	})

	start := time.Now()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/slow", nil))

	require.True(t, hasDeadline)
	assert.WithinDuration(t, start.Add(5*time.Second), deadline, time.Second)
	assert.Equal(t, "5s", w.Header().Get("X-Request-Timeout"))

	t.Run("zero disables the bound", func(t *testing.T) {
		r := gin.New()
		r.Use(Timeout(0))
		r.GET("/slow", func(c *gin.Context) {
			_, hasDeadline = c.Request.Context().Deadline()
			c.Status(http.StatusOK)
		})
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/slow", nil))
		assert.False(t, hasDeadline)
	})
}

func TestBodyLimit(t *testing.T) {
	newRouter := func(limit int64) *gin.Engine {
		r := gin.New()
		r.Use(BodyLimit(limit))
		r.POST("/render", func(c *gin.Context) {
			if _, err := io.ReadAll(c.Request.Body); err != nil {
				c.String(http.StatusRequestEntityTooLarge, "read limit")
				return
			}
			c.String(http.StatusOK, "ok")
		})
		return r
	}

	t.Run("allows body within limit", func(t *testing.T) {
		w := httptest.NewRecorder()
		newRouter(1024).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/render",
			strings.NewReader(`{"doc_code":"cmr"}`)))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects declared length over limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/render", bytes.NewReader(make([]byte, 200)))
		req.ContentLength = 200
		w := httptest.NewRecorder()
		newRouter(100).ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
	})

	t.Run("caps streamed bodies", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/render", bytes.NewReader(make([]byte, 200)))
		req.ContentLength = -1
		w := httptest.NewRecorder()
		newRouter(100).ServeHTTP(w, req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "read limit", w.Body.String())
	})
}

func TestValidation(t *testing.T) {
	require.NoError(t, SetupValidator())

	type renderBody struct {
		DocCode       string `json:"doc_code" binding:"required,doccode"`
		TransactionID uint   `json:"transaction_id" binding:"required"`
		Lang          string `json:"lang" binding:"omitempty,oneof=ar en tr"`
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(RequestIDKey, "req-42")
		c.Next()
	})
	r.POST("/render", func(c *gin.Context) {
		var req renderBody
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.String(http.StatusOK, req.DocCode)
	})

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/render", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"doc_code":"packing_list.export.simple","transaction_id":6,"lang":"tr"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "packing_list.export.simple", w.Body.String())

	w = post(`{"doc_code":"Invoice/Commercial","lang":"de"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-42", resp.Error.RequestID)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, map[string]string{
		"doc_code":       "Must be a dotted document code such as invoice.commercial",
		"transaction_id": "This field is required",
		"lang":           "Must be one of: ar en tr",
	}, fields)
}

func TestDocCodePattern(t *testing.T) {
	for _, code := range []string{"cmr", "form_a", "invoice.commercial", "invoice.commercial.ar", "packing_list.export.with_line_id"} {
		assert.True(t, docCodePattern.MatchString(code), code)
	}
	for _, code := range []string{"", ".cmr", "invoice..commercial", "Invoice", "invoice/commercial", "1invoice", "invoice."} {
		assert.False(t, docCodePattern.MatchString(code), code)
	}
}

func TestUserRoles(t *testing.T) {
	var roles []string
	r := gin.New()
	r.Use(UserRoles())
	r.GET("/", func(c *gin.Context) {
		roles = RolesFromContext(c.Request.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(UserRolesHeader, " Clerk, ,EXPORT ")
	r.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, []string{"clerk", "export"}, roles)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, roles)
}

func TestRoleAuthorizer(t *testing.T) {
	ctx := func(roles ...string) context.Context {
		return WithRoles(context.Background(), roles)
	}

	t.Run("empty allow list grants everyone", func(t *testing.T) {
		a := NewRoleAuthorizer(nil, nil)
		assert.NoError(t, a.Authorize(context.Background(), "invoice.commercial"))
	})

	a := NewRoleAuthorizer([]string{" Export ", "logistics"}, nil)

	t.Run("listed role passes", func(t *testing.T) {
		assert.NoError(t, a.Authorize(ctx("clerk", "export"), "invoice.commercial"))
		assert.NoError(t, a.Authorize(ctx("logistics"), "cmr"))
	})

	t.Run("admin passes", func(t *testing.T) {
		assert.NoError(t, a.Authorize(ctx(AdminRole), "doc_group"))
	})

	t.Run("other roles are forbidden", func(t *testing.T) {
		err := a.Authorize(ctx("clerk"), "form_a")
		require.Error(t, err)
		assert.Equal(t, shared.CodeForbidden, shared.CodeOf(err))
		assert.Contains(t, err.Error(), "form_a")
	})

	t.Run("no roles are forbidden", func(t *testing.T) {
		err := a.Authorize(context.Background(), "cmr")
		require.Error(t, err)
		assert.Equal(t, shared.CodeForbidden, shared.CodeOf(err))
		assert.Contains(t, err.Error(), "no roles")
	})
}

func TestTracingWithConfig(t *testing.T) {
	assert.Empty(t, TracingWithConfig(TracingConfig{Enabled: false}))

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	r := gin.New()
	r.Use(UserRoles())
	r.Use(TracingWithConfig(TracingConfig{ServiceName: "docgen", Enabled: true, TracerProvider: tp})...)
	r.GET("/documents/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	req := httptest.NewRequest(http.MethodGet, "/documents/7", nil)
	req.Header.Set(UserRolesHeader, "Clerk, accountant")
	req.Header.Set("X-Request-ID", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Len(t, w.Header().Get(TraceIDHeader), 32)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.True(t, strings.HasSuffix(spans[0].Name(), "/documents/:id"), spans[0].Name())

	attrs := map[string]string{}
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "req-1", attrs["request_id"])
	assert.Equal(t, "clerk,accountant", attrs["user_roles"])
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
