package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	printingapp "github.com/logiport/backend/internal/application/printing"
	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/infrastructure/logger"
	"github.com/logiport/backend/internal/interfaces/http/dto"
	"github.com/logiport/backend/internal/interfaces/http/middleware"
	"github.com/logiport/backend/internal/interfaces/http/router"
	"github.com/logiport/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
	if err := middleware.SetupValidator(); err != nil {
		panic(err)
	}
}

// =============================================================================
// Mocks
// =============================================================================

type MockDocumentService struct {
	mock.Mock
}

func (m *MockDocumentService) RenderDocument(ctx context.Context, req printingapp.RenderRequest) (*printingapp.RenderResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.RenderResult), args.Error(1)
}

func (m *MockDocumentService) AllocateDocNo(ctx context.Context, req printingapp.AllocateDocNoRequest) (*printingapp.DocNoResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*printingapp.DocNoResponse), args.Error(1)
}

func (m *MockDocumentService) DocumentTypes(ctx context.Context, lang string) ([]printingapp.DocumentTypeResponse, error) {
	args := m.Called(ctx, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]printingapp.DocumentTypeResponse), args.Error(1)
}

func (m *MockDocumentService) Engines() map[string]bool {
	return m.Called().Get(0).(map[string]bool)
}

type MockNumberingService struct {
	mock.Mock
}

func (m *MockNumberingService) NextNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockNumberingService) SyncCounter(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNumberingService) ObserveNumber(ctx context.Context, transactionNo string) (bool, error) {
	args := m.Called(ctx, transactionNo)
	return args.Bool(0), args.Error(1)
}

// newTestEngine wires the handlers the same way the server does
func newTestEngine(docs DocumentService, numbering NumberingService, opts ...SystemOption) *gin.Engine {
	engine := gin.New()
	engine.Use(logger.GinMiddleware(zap.NewNop()), middleware.UserRoles())

	r := router.NewRouter(engine)
	r.Register(DocumentRoutes(NewDocumentHandler(docs)))
	r.Register(NumberingRoutes(NewNumberingHandler(numbering)))
	opts = append(opts, WithRoutes(r.Routes))
	r.Register(SystemRoutes(NewSystemHandler(opts...)))
	r.Setup()
	return engine
}

// =============================================================================
// Documents
// =============================================================================

func TestDocumentHandler_Render(t *testing.T) {
	docs := new(MockDocumentService)
	engine := newTestEngine(docs, new(MockNumberingService))

	result := &printingapp.RenderResult{
		DocCode:    "invoice.commercial",
		Lang:       "ar",
		DocumentNo: "INV-COM-260006",
		GroupID:    1,
		DocumentID: 3,
		Seq:        1,
		OutHTML:    "/out/2026/10/INV-COM-260006-AR.html",
		OutPDF:     "/out/2026/10/INV-COM-260006-AR.pdf",
		Engine:     "chromedp",
		Attempts:   []printingapp.AttemptResult{{Engine: "chromedp", Success: true}},
		Warnings:   []string{},
		RenderedAt: time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC),
	}

	testutil.RunHTTPTestCases(t, engine, []testutil.HTTPTestCase{
		{
			Name:   "renders and returns artifact paths",
			Method: http.MethodPost,
			Path:   "/api/v1/documents/render",
			Body:   map[string]any{"doc_code": "invoice.commercial", "transaction_id": 6, "lang": "ar"},
			Setup: func(t *testing.T) {
				docs.On("RenderDocument", mock.Anything, printingapp.RenderRequest{
					DocCode: "invoice.commercial", TransactionID: 6, Lang: "ar",
				}).Return(result, nil).Once()
			},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				resp := testutil.JSONResponseAs[APIResponse[printingapp.RenderResult]](t, tc)
				assert.True(t, resp.Success)
				assert.Equal(t, "INV-COM-260006", resp.Data.DocumentNo)
				assert.Equal(t, "/out/2026/10/INV-COM-260006-AR.pdf", resp.Data.OutPDF)
				assert.Len(t, resp.Data.Attempts, 1)
			},
		},
		{
			Name:           "rejects bad doc_code and language before calling the service",
			Method:         http.MethodPost,
			Path:           "/api/v1/documents/render",
			Body:           map[string]any{"doc_code": "Invoice Commercial", "transaction_id": 6, "lang": "de"},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   dto.ErrCodeValidation,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				resp := testutil.JSONResponseAs[ErrorResponse](t, tc)
				assert.False(t, resp.Success)
				assert.Len(t, resp.Error.Details, 2)
				assert.NotEmpty(t, resp.Error.RequestID)
			},
		},
		{
			Name:           "rejects malformed JSON",
			Method:         http.MethodPost,
			Path:           "/api/v1/documents/render",
			Body:           `{"doc_code":`,
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   dto.ErrCodeInvalidJSON,
		},
		{
			Name:   "maps missing template to 404",
			Method: http.MethodPost,
			Path:   "/api/v1/documents/render",
			Body:   map[string]any{"doc_code": "cmr", "transaction_id": 6, "lang": "tr"},
			Setup: func(t *testing.T) {
				docs.On("RenderDocument", mock.Anything, mock.MatchedBy(func(r printingapp.RenderRequest) bool {
					return r.DocCode == "cmr"
				})).Return(nil, shared.NewDomainError(shared.CodeTemplateNotFound, "no template for cmr/tr")).Once()
			},
			ExpectedStatus: http.StatusNotFound,
			ExpectedCode:   dto.ErrCodeTemplateNotFound,
		},
		{
			Name:   "maps forbidden to 403",
			Method: http.MethodPost,
			Path:   "/api/v1/documents/render",
			Body:   map[string]any{"doc_code": "form_a", "transaction_id": 6},
			Setup: func(t *testing.T) {
				docs.On("RenderDocument", mock.Anything, mock.MatchedBy(func(r printingapp.RenderRequest) bool {
					return r.DocCode == "form_a"
				})).Return(nil, shared.NewDomainError(shared.CodeForbidden, "roles clerk may not generate form_a")).Once()
			},
			ExpectedStatus: http.StatusForbidden,
			ExpectedCode:   dto.ErrCodeForbidden,
		},
		{
			Name:   "hides unexpected errors",
			Method: http.MethodPost,
			Path:   "/api/v1/documents/render",
			Body:   map[string]any{"doc_code": "invoice.normal", "transaction_id": 6},
			Setup: func(t *testing.T) {
				docs.On("RenderDocument", mock.Anything, mock.MatchedBy(func(r printingapp.RenderRequest) bool {
					return r.DocCode == "invoice.normal"
				})).Return(nil, errors.New("disk on fire")).Once()
			},
			ExpectedStatus: http.StatusInternalServerError,
			ExpectedCode:   dto.ErrCodeInternal,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				assert.NotContains(t, tc.Recorder.Body.String(), "disk on fire")
			},
		},
	})

	docs.AssertExpectations(t)
}

func TestDocumentHandler_RenderPassesRoles(t *testing.T) {
	docs := new(MockDocumentService)
	engine := newTestEngine(docs, new(MockNumberingService))

	var roles []string
	docs.On("RenderDocument", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			roles = middleware.RolesFromContext(args.Get(0).(context.Context))
		}).
		Return(&printingapp.RenderResult{DocCode: "cmr"}, nil)

	testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Method:         http.MethodPost,
		Path:           "/api/v1/documents/render",
		Body:           map[string]any{"doc_code": "cmr", "transaction_id": 6},
		Headers:        map[string]string{middleware.UserRolesHeader: "logistics,admin"},
		ExpectedStatus: http.StatusOK,
	})
	assert.Equal(t, []string{"logistics", "admin"}, roles)
}

func TestDocumentHandler_AllocateDocNo(t *testing.T) {
	docs := new(MockDocumentService)
	engine := newTestEngine(docs, new(MockNumberingService))

	testutil.RunHTTPTestCases(t, engine, []testutil.HTTPTestCase{
		{
			Name:   "allocates",
			Method: http.MethodPost,
			Path:   "/api/v1/documents/groups",
			Body:   map[string]any{"transaction_id": 6},
			Setup: func(t *testing.T) {
				docs.On("AllocateDocNo", mock.Anything, printingapp.AllocateDocNoRequest{TransactionID: 6}).
					Return(&printingapp.DocNoResponse{GroupID: 4, DocumentNo: "INVPL-260006", Seq: 2}, nil).Once()
			},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				resp := testutil.JSONResponseAs[APIResponse[printingapp.DocNoResponse]](t, tc)
				assert.Equal(t, "INVPL-260006", resp.Data.DocumentNo)
				assert.Equal(t, 2, resp.Data.Seq)
			},
		},
		{
			Name:           "requires transaction_id",
			Method:         http.MethodPost,
			Path:           "/api/v1/documents/groups",
			Body:           map[string]any{"prefix": "EXP"},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   dto.ErrCodeValidation,
		},
		{
			Name:   "maps exhausted sequences to 409",
			Method: http.MethodPost,
			Path:   "/api/v1/documents/groups",
			Body:   map[string]any{"transaction_id": 7, "prefix": "EXP"},
			Setup: func(t *testing.T) {
				docs.On("AllocateDocNo", mock.Anything, printingapp.AllocateDocNoRequest{TransactionID: 7, Prefix: "EXP"}).
					Return(nil, shared.NewDomainError(shared.CodeAllocationExhausted, "no free sequence")).Once()
			},
			ExpectedStatus: http.StatusConflict,
			ExpectedCode:   dto.ErrCodeAllocationExhausted,
		},
	})

	docs.AssertExpectations(t)
}

func TestDocumentHandler_ListTypes(t *testing.T) {
	docs := new(MockDocumentService)
	engine := newTestEngine(docs, new(MockNumberingService))

	docs.On("DocumentTypes", mock.Anything, "tr").Return([]printingapp.DocumentTypeResponse{
		{Code: "INV_EXT", Title: "Ticari Fatura", IsActive: true, SortOrder: 20, DocCodes: []string{"invoice.commercial"}},
	}, nil)
	docs.On("DocumentTypes", mock.Anything, "fr").
		Return(nil, shared.NewDomainError(shared.CodeInvalidLanguage, `unsupported language "fr"`))

	tc := testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Path:           "/api/v1/documents/types?lang=tr",
		ExpectedStatus: http.StatusOK,
	})
	resp := testutil.JSONResponseAs[APIResponse[[]printingapp.DocumentTypeResponse]](t, tc)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Ticari Fatura", resp.Data[0].Title)

	testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Path:           "/api/v1/documents/types?lang=fr",
		ExpectedStatus: http.StatusBadRequest,
		ExpectedCode:   dto.ErrCodeInvalidLanguage,
	})
}

func TestDocumentHandler_Engines(t *testing.T) {
	docs := new(MockDocumentService)
	docs.On("Engines").Return(map[string]bool{"wkhtmltopdf": false, "chromedp": true})
	engine := newTestEngine(docs, new(MockNumberingService))

	tc := testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Path:           "/api/v1/documents/engines",
		ExpectedStatus: http.StatusOK,
	})
	resp := testutil.JSONResponseAs[APIResponse[[]EngineStatus]](t, tc)
	assert.Equal(t, []EngineStatus{
		{Name: "chromedp", Available: true},
		{Name: "wkhtmltopdf", Available: false},
	}, resp.Data)
}

// =============================================================================
// Numbering
// =============================================================================

func TestNumberingHandler(t *testing.T) {
	numbering := new(MockNumberingService)
	engine := newTestEngine(new(MockDocumentService), numbering)

	testutil.RunHTTPTestCases(t, engine, []testutil.HTTPTestCase{
		{
			Name:   "next number",
			Method: http.MethodPost,
			Path:   "/api/v1/numbering/next",
			Setup: func(t *testing.T) {
				numbering.On("NextNumber", mock.Anything).Return("260007", nil).Once()
			},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				resp := testutil.JSONResponseAs[APIResponse[NextNumberResponse]](t, tc)
				assert.Equal(t, NextNumberResponse{TransactionNo: "260007"}, resp.Data)
			},
		},
		{
			Name:   "timestamp fallback is flagged",
			Method: http.MethodPost,
			Path:   "/api/v1/numbering/next",
			Setup: func(t *testing.T) {
				numbering.On("NextNumber", mock.Anything).Return("T20261015120000-1a2b3c4d", nil).Once()
			},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				resp := testutil.JSONResponseAs[APIResponse[NextNumberResponse]](t, tc)
				assert.True(t, resp.Data.Fallback)
			},
		},
		{
			Name:   "cancelled allocation is an internal error",
			Method: http.MethodPost,
			Path:   "/api/v1/numbering/next",
			Setup: func(t *testing.T) {
				numbering.On("NextNumber", mock.Anything).Return("", context.Canceled).Once()
			},
			ExpectedStatus: http.StatusInternalServerError,
			ExpectedCode:   dto.ErrCodeInternal,
		},
		{
			Name:   "sync counter",
			Method: http.MethodPost,
			Path:   "/api/v1/numbering/sync",
			Setup: func(t *testing.T) {
				numbering.On("SyncCounter", mock.Anything).Return(int64(260006), nil).Once()
			},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				resp := testutil.JSONResponseAs[APIResponse[SyncCounterResponse]](t, tc)
				assert.Equal(t, int64(260006), resp.Data.LastNumber)
			},
		},
		{
			Name:   "sync counter store failure",
			Method: http.MethodPost,
			Path:   "/api/v1/numbering/sync",
			Setup: func(t *testing.T) {
				numbering.On("SyncCounter", mock.Anything).
					Return(int64(0), shared.WrapDomainError(shared.CodePersistenceFailed, "failed to sync transaction counter", errors.New("locked"))).Once()
			},
			ExpectedStatus: http.StatusInternalServerError,
			ExpectedCode:   dto.ErrCodePersistenceFailed,
		},
		{
			Name:   "observe number",
			Method: http.MethodPost,
			Path:   "/api/v1/numbering/observe",
			Body:   ObserveNumberRequest{TransactionNo: "260120"},
			Setup: func(t *testing.T) {
				numbering.On("ObserveNumber", mock.Anything, "260120").Return(true, nil).Once()
			},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				resp := testutil.JSONResponseAs[APIResponse[ObserveNumberResponse]](t, tc)
				assert.Equal(t, ObserveNumberResponse{TransactionNo: "260120", Auto: true, Raised: true}, resp.Data)
			},
		},
		{
			Name:   "observe manual number",
			Method: http.MethodPost,
			Path:   "/api/v1/numbering/observe",
			Body:   ObserveNumberRequest{TransactionNo: "2026/14"},
			Setup: func(t *testing.T) {
				numbering.On("ObserveNumber", mock.Anything, "2026/14").Return(false, nil).Once()
			},
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *testutil.TestContext) {
				resp := testutil.JSONResponseAs[APIResponse[ObserveNumberResponse]](t, tc)
				assert.False(t, resp.Data.Auto)
				assert.False(t, resp.Data.Raised)
			},
		},
		{
			Name:           "observe requires a number",
			Method:         http.MethodPost,
			Path:           "/api/v1/numbering/observe",
			Body:           map[string]any{},
			ExpectedStatus: http.StatusBadRequest,
			ExpectedCode:   dto.ErrCodeValidation,
		},
	})

	numbering.AssertExpectations(t)
}

// =============================================================================
// System
// =============================================================================

func TestSystemHandler(t *testing.T) {
	engine := newTestEngine(new(MockDocumentService), new(MockNumberingService))

	tc := testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Path:           "/api/v1/system/info",
		ExpectedStatus: http.StatusOK,
	})
	info := testutil.JSONResponseAs[APIResponse[SystemInfoResponse]](t, tc)
	assert.Equal(t, Version, info.Data.Version)
	assert.NotEmpty(t, info.Data.GoVersion)

	tc = testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Path:           "/api/v1/system/ping",
		ExpectedStatus: http.StatusOK,
	})
	ping := testutil.JSONResponseAs[APIResponse[PingResponse]](t, tc)
	assert.Equal(t, "pong", ping.Data.Message)
	_, err := time.Parse(time.RFC3339, ping.Data.Timestamp)
	assert.NoError(t, err)

	tc = testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Path:           "/api/v1/system/health",
		ExpectedStatus: http.StatusOK,
	})
	health := testutil.JSONResponseAs[APIResponse[HealthResponse]](t, tc)
	assert.Equal(t, "unchecked", health.Data.Database)

	tc = testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Path:           "/api/v1/system/routes",
		ExpectedStatus: http.StatusOK,
	})
	routes := testutil.JSONResponseAs[APIResponse[[]router.RouteInfo]](t, tc)
	assert.Contains(t, routes.Data, router.RouteInfo{
		Method:      http.MethodPost,
		Path:        "/api/v1/documents/render",
		Description: "render one document of a transaction",
	})
	assert.Contains(t, routes.Data, router.RouteInfo{Method: http.MethodGet, Path: "/api/v1/system/health"})
}

func TestSystemHandler_HealthWithDatabase(t *testing.T) {
	healthy := true
	ping := func(ctx context.Context) error {
		if !healthy {
			return fmt.Errorf("dial tcp: connection refused")
		}
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		return nil
	}
	engine := newTestEngine(new(MockDocumentService), new(MockNumberingService), WithDatabasePing(ping))

	tc := testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Path:           "/api/v1/system/health",
		ExpectedStatus: http.StatusOK,
	})
	assert.Equal(t, "ok", testutil.JSONResponseAs[APIResponse[HealthResponse]](t, tc).Data.Database)

	healthy = false
	testutil.RunHTTPTestCase(t, engine, testutil.HTTPTestCase{
		Path:           "/api/v1/system/health",
		ExpectedStatus: http.StatusServiceUnavailable,
		ExpectedCode:   dto.ErrCodeInternal,
	})
}
