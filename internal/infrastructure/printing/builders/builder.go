// Package builders turns a transaction into the context map a document
// template renders. Every document family has one builder; the Router picks
// the builder for a doc_code by longest registered prefix.
package builders

import (
	"context"

	"github.com/logiport/backend/internal/domain/shared"
)

// DocumentContextBuilder produces the template context for one document.
// A builder never returns a nil map together with a nil error.
type DocumentContextBuilder interface {
	Build(ctx context.Context, docCode string, transactionID uint, lang shared.Language) (map[string]any, error)
}

// BuilderFunc adapts a plain function to DocumentContextBuilder
type BuilderFunc func(ctx context.Context, docCode string, transactionID uint, lang shared.Language) (map[string]any, error)

// Build calls f
func (f BuilderFunc) Build(ctx context.Context, docCode string, transactionID uint, lang shared.Language) (map[string]any, error) {
	return f(ctx, docCode, transactionID, lang)
}

// LegacyBuilderFunc adapts builders that only take the transaction and language.
// The doc_code and context are dropped.
type LegacyBuilderFunc func(transactionID uint, lang shared.Language) (map[string]any, error)

// Build calls f with the transaction id and language
func (f LegacyBuilderFunc) Build(_ context.Context, _ string, transactionID uint, lang shared.Language) (map[string]any, error) {
	return f(transactionID, lang)
}
