package builders

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/shared"
)

// Router resolves a doc_code to its context builder.
// Rules are matched by the longest prefix that doc_code literally starts with.
type Router struct {
	rules    []printing.BuilderRule
	registry map[string]DocumentContextBuilder

	mu       sync.RWMutex
	resolved map[string]DocumentContextBuilder
}

// NewRouter validates rules against registry. Two rules with the same prefix
// naming different builders, or a rule naming an unregistered builder, are
// configuration errors.
func NewRouter(rules []printing.BuilderRule, registry map[string]DocumentContextBuilder) (*Router, error) {
	owner := make(map[string]string, len(rules))
	for _, rule := range rules {
		if rule.Prefix == "" {
			return nil, shared.NewDomainError(shared.CodeConfiguration, "builder rule with empty prefix")
		}
		if prev, ok := owner[rule.Prefix]; ok && prev != rule.Builder {
			return nil, shared.NewDomainError(shared.CodeConfiguration,
				fmt.Sprintf("prefix %q routes to both %q and %q", rule.Prefix, prev, rule.Builder))
		}
		owner[rule.Prefix] = rule.Builder
		if _, ok := registry[rule.Builder]; !ok {
			return nil, shared.NewDomainError(shared.CodeConfiguration,
				fmt.Sprintf("prefix %q routes to unregistered builder %q", rule.Prefix, rule.Builder))
		}
	}

	sorted := make([]printing.BuilderRule, 0, len(owner))
	for prefix, builder := range owner {
		sorted = append(sorted, printing.BuilderRule{Prefix: prefix, Builder: builder})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if len(sorted[i].Prefix) != len(sorted[j].Prefix) {
			return len(sorted[i].Prefix) > len(sorted[j].Prefix)
		}
		return sorted[i].Prefix < sorted[j].Prefix
	})

	return &Router{
		rules:    sorted,
		registry: registry,
		resolved: make(map[string]DocumentContextBuilder),
	}, nil
}

// BuilderID returns the builder identifier routed for docCode
func (r *Router) BuilderID(docCode string) (string, error) {
	for _, rule := range r.rules {
		if strings.HasPrefix(docCode, rule.Prefix) {
			return rule.Builder, nil
		}
	}
	return "", shared.NewDomainError(shared.CodeBuilderNotFound,
		fmt.Sprintf("no builder registered for doc_code %q", docCode))
}

// Resolve returns the builder for docCode, memoized per builder identifier
func (r *Router) Resolve(docCode string) (DocumentContextBuilder, error) {
	id, err := r.BuilderID(docCode)
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	b, ok := r.resolved[id]
	r.mu.RUnlock()
	if ok {
		return b, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.resolved[id]; ok {
		return b, nil
	}
	b = r.registry[id]
	r.resolved[id] = b
	return b, nil
}

// Build resolves the builder for docCode and runs it
func (r *Router) Build(ctx context.Context, docCode string, transactionID uint, lang shared.Language) (map[string]any, error) {
	b, err := r.Resolve(docCode)
	if err != nil {
		return nil, err
	}
	data, err := b.Build(ctx, docCode, transactionID, lang)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, shared.NewDomainError(shared.CodeInvalidContext,
			fmt.Sprintf("builder for %q returned no context", docCode))
	}
	return data, nil
}

var _ DocumentContextBuilder = (*Router)(nil)
