// Package printing orchestrates trade document generation: context building,
// template rendering, PDF conversion, output naming and persistence.
package printing

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/logiport/backend/internal/application/document"
	domain "github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/shared"
	"github.com/logiport/backend/internal/domain/trade"
	infra "github.com/logiport/backend/internal/infrastructure/printing"
	"github.com/logiport/backend/internal/infrastructure/printing/builders"
	"github.com/logiport/backend/internal/infrastructure/telemetry"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// DocGroupPermission is the permission code checked by AllocateDocNo
const DocGroupPermission = "doc_group"

// Authorizer decides whether the caller may produce docCode.
// A nil error allows the request.
type Authorizer interface {
	Authorize(ctx context.Context, docCode string) error
}

// AuthorizerFunc adapts a function to Authorizer
type AuthorizerFunc func(ctx context.Context, docCode string) error

// Authorize calls f
func (f AuthorizerFunc) Authorize(ctx context.Context, docCode string) error {
	return f(ctx, docCode)
}

// AllowAll permits every request
var AllowAll Authorizer = AuthorizerFunc(func(context.Context, string) error { return nil })

// Config holds render defaults
type Config struct {
	PreferredEngine string
	DefaultLanguage shared.Language
}

// Deps are the collaborators of RenderService. Authorizer defaults to
// AllowAll. Archiver and Metrics are optional.
type Deps struct {
	Catalog       *domain.Catalog
	Transactions  trade.TransactionRepository
	DocumentTypes domain.DocumentTypeRepository
	Builders      builders.DocumentContextBuilder
	Templates     *infra.TemplateResolver
	Engine        *infra.TemplateEngine
	PDF           *infra.EngineChain
	Paths         *infra.OutputPathAllocator
	OutputFs      afero.Fs
	Persistence   *document.PersistenceService
	Authorizer    Authorizer
	Archiver      Archiver
	Metrics       *telemetry.DocumentMetrics
}

// RenderService renders one document per request
type RenderService struct {
	deps   Deps
	cfg    Config
	logger *zap.Logger
	now    func() time.Time
}

// NewRenderService creates a new RenderService
func NewRenderService(deps Deps, cfg Config, logger *zap.Logger) *RenderService {
	if deps.Authorizer == nil {
		deps.Authorizer = AllowAll
	}
	if deps.OutputFs == nil {
		deps.OutputFs = afero.NewOsFs()
	}
	if cfg.PreferredEngine == "" {
		cfg.PreferredEngine = infra.EngineChromedp
	}
	if !cfg.DefaultLanguage.IsValid() {
		cfg.DefaultLanguage = shared.DefaultLanguage
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RenderService{
		deps:   deps,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// =============================================================================
// Rendering
// =============================================================================

// RenderDocument builds the context for the transaction, renders the HTML,
// converts it to PDF when possible and records the result.
//
// Builder, template and document type resolution all happen before any file
// is written. PDF failures degrade to an HTML-only result. When persistence
// fails the files of this request are removed again.
func (s *RenderService) RenderDocument(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "render", "document",
		telemetry.WithAttribute(telemetry.SpanAttrDocCode, req.DocCode),
		telemetry.WithAttribute(telemetry.SpanAttrTransactionID, req.TransactionID),
	)
	defer span.End()
	start := s.now()

	result, err := s.renderDocument(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		s.deps.Metrics.RecordRender(ctx, req.DocCode, req.Lang, telemetry.OutcomeFailed, s.now().Sub(start))
		return nil, err
	}

	outcome := telemetry.OutcomeHTML
	if result.OutPDF != "" {
		outcome = telemetry.OutcomePDF
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrLang, result.Lang,
		telemetry.SpanAttrDocNo, result.DocumentNo,
		telemetry.SpanAttrEngine, result.Engine,
		telemetry.SpanAttrGroupID, result.GroupID,
		telemetry.SpanAttrSeq, result.Seq,
	)
	for _, a := range result.Attempts {
		if !a.Success {
			s.deps.Metrics.RecordEngineFailure(ctx, a.Engine)
		}
	}
	s.deps.Metrics.RecordRender(ctx, result.DocCode, result.Lang, outcome, s.now().Sub(start))
	return result, nil
}

func (s *RenderService) renderDocument(ctx context.Context, req RenderRequest) (*RenderResult, error) {
	lang := s.cfg.DefaultLanguage
	if req.Lang != "" {
		l, ok := shared.ParseLanguage(req.Lang)
		if !ok {
			return nil, shared.NewDomainError(shared.CodeInvalidLanguage,
				fmt.Sprintf("unsupported language %q", req.Lang))
		}
		lang = l
	}
	docCode := strings.TrimSpace(req.DocCode)
	if docCode == "" {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "doc_code is required")
	}

	if err := s.authorize(ctx, docCode); err != nil {
		return nil, err
	}

	tx, err := s.deps.Transactions.FindByID(ctx, req.TransactionID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.WrapDomainError(shared.CodeNotFound,
				fmt.Sprintf("transaction #%d not found", req.TransactionID), err)
		}
		return nil, fmt.Errorf("failed to load transaction: %w", err)
	}
	txNo := tx.DisplayNo()

	data, err := s.deps.Builders.Build(ctx, docCode, req.TransactionID, lang)
	if err != nil {
		return nil, err
	}

	prefix := s.deps.Catalog.Prefix(docCode)
	docNo := strings.TrimSpace(req.DocumentNo)
	if docNo == "" {
		docNo = domain.DocNo(prefix, txNo)
	}
	data["transaction_no"] = txNo
	data["doc_no"] = docNo
	setDefault(data, "invoice_no", docNo)
	setDefault(data, "doc_code", docCode)
	setDefault(data, "lang", lang.String())

	if _, err := s.deps.Catalog.DocumentTypeCode(docCode); err != nil {
		return nil, err
	}
	spec, err := s.deps.Templates.Resolve(docCode, lang.String())
	if err != nil {
		return nil, err
	}
	content, err := s.deps.Templates.Read(spec)
	if err != nil {
		return nil, err
	}
	for k, v := range spec.Extra {
		setDefault(data, k, v)
	}
	html, err := s.deps.Engine.Render(spec.Path, content, data)
	if err != nil {
		return nil, err
	}

	now := s.now()
	paths, err := s.deps.Paths.Allocate(prefix, txNo, lang, now)
	if err != nil {
		return nil, err
	}
	if err := s.deps.Paths.WriteHTML(paths, html); err != nil {
		return nil, shared.WrapDomainError(shared.CodeRenderFailed, "failed to write HTML output", err)
	}

	result := &RenderResult{
		DocCode:    docCode,
		Lang:       lang.String(),
		DocumentNo: docNo,
		OutHTML:    paths.HTML,
		Attempts:   []AttemptResult{},
		Warnings:   warningsOf(data),
		RenderedAt: now,
	}

	filePath := paths.HTML
	if !req.ForceHTMLOnly {
		outcome := s.deps.PDF.Render(ctx, s.cfg.PreferredEngine, html, paths.PDF, infra.FileBaseURL(paths.Dir))
		result.Attempts = toAttemptResults(outcome.Attempts)
		if outcome.Success {
			result.OutPDF = paths.PDF
			result.Engine = outcome.Engine
			filePath = paths.PDF
		} else {
			telemetry.AddEvent(telemetry.SpanFromContext(ctx), "pdf_unavailable", telemetry.SpanAttrDocCode, docCode)
			s.logger.Warn("pdf unavailable, returning html only",
				zap.String("doc_code", docCode),
				zap.String("html", paths.HTML),
				zap.Error(outcome.Err()),
			)
		}
	}

	totals, _ := data["totals"].(map[string]any)
	persisted, err := s.deps.Persistence.Persist(ctx, document.PersistRequest{
		TransactionID: req.TransactionID,
		DocCode:       docCode,
		Lang:          lang,
		FilePath:      filePath,
		Totals:        totals,
		Context:       data,
		DocumentNo:    docNo,
	})
	if err != nil {
		if rmErr := s.deps.Paths.Remove(paths); rmErr != nil {
			s.logger.Error("failed to remove outputs after persistence failure",
				zap.String("html", paths.HTML),
				zap.Error(rmErr),
			)
		}
		return nil, err
	}
	result.GroupID = persisted.GroupID
	result.DocumentID = persisted.DocumentID
	result.Seq = persisted.Seq

	result.Archived = s.archive(ctx, filePath, now)

	s.logger.Info("document rendered",
		zap.String("doc_code", docCode),
		zap.String("lang", lang.String()),
		zap.Uint("transaction_id", req.TransactionID),
		zap.String("doc_no", docNo),
		zap.String("file", filePath),
		zap.String("engine", result.Engine),
		zap.Int("warnings", len(result.Warnings)),
	)
	return result, nil
}

// Engines reports the registered PDF engines and whether each can run
func (s *RenderService) Engines() map[string]bool {
	return s.deps.PDF.Engines()
}

// DocumentTypes lists the document-type catalog with titles in lang. Each
// entry carries the doc_codes that persist under it.
func (s *RenderService) DocumentTypes(ctx context.Context, lang string) ([]DocumentTypeResponse, error) {
	l := s.cfg.DefaultLanguage
	if lang != "" {
		parsed, ok := shared.ParseLanguage(lang)
		if !ok {
			return nil, shared.NewDomainError(shared.CodeInvalidLanguage,
				fmt.Sprintf("unsupported language %q", lang))
		}
		l = parsed
	}

	types, err := s.deps.DocumentTypes.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list document types: %w", err)
	}

	docCodes := make(map[string][]string)
	for _, docCode := range s.deps.Catalog.KnownDocCodes() {
		code := s.deps.Catalog.DocumentTypeCodes[docCode]
		docCodes[code] = append(docCodes[code], docCode)
	}

	out := make([]DocumentTypeResponse, len(types))
	for i := range types {
		t := &types[i]
		out[i] = DocumentTypeResponse{
			Code:      t.Code,
			Title:     t.Title(l),
			GroupCode: t.GroupCode,
			IsActive:  t.IsActive,
			SortOrder: t.SortOrder,
			DocCodes:  docCodes[t.Code],
		}
	}
	return out, nil
}

// =============================================================================
// Doc groups
// =============================================================================

// AllocateDocNo reuses or creates the shared doc group of a transaction
func (s *RenderService) AllocateDocNo(ctx context.Context, req AllocateDocNoRequest) (*DocNoResponse, error) {
	if err := s.authorize(ctx, DocGroupPermission); err != nil {
		return nil, err
	}
	alloc, err := s.deps.Persistence.AllocateGroupDocNo(ctx, req.TransactionID, strings.TrimSpace(req.Prefix))
	if err != nil {
		return nil, err
	}
	return &DocNoResponse{GroupID: alloc.GroupID, DocumentNo: alloc.DocumentNo, Seq: alloc.Seq}, nil
}

func (s *RenderService) authorize(ctx context.Context, docCode string) error {
	err := s.deps.Authorizer.Authorize(ctx, docCode)
	if err == nil {
		return nil
	}
	if shared.CodeOf(err) == shared.CodeForbidden {
		return err
	}
	return shared.WrapDomainError(shared.CodeForbidden,
		fmt.Sprintf("not allowed to generate %s", docCode), err)
}

// setDefault stores v under k unless data already holds a non-blank value
func setDefault(data map[string]any, k string, v any) {
	switch cur := data[k].(type) {
	case nil:
		data[k] = v
	case string:
		if strings.TrimSpace(cur) == "" {
			data[k] = v
		}
	}
}

func warningsOf(data map[string]any) []string {
	if w, ok := data[builders.WarningsKey].([]string); ok {
		return w
	}
	return []string{}
}

func archiveKey(filePath string, at time.Time) string {
	return at.Format("2006/01") + "/" + filepath.Base(filePath)
}
