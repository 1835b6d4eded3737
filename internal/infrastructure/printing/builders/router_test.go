package builders

import (
	"context"
	"testing"

	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(name string) DocumentContextBuilder {
	return BuilderFunc(func(_ context.Context, docCode string, id uint, lang shared.Language) (map[string]any, error) {
		return map[string]any{"builder": name, "doc_code": docCode, "id": id, "lang": lang}, nil
	})
}

func testRegistry() map[string]DocumentContextBuilder {
	return map[string]DocumentContextBuilder{
		"general": named("general"),
		"special": named("special"),
		"packing": named("packing"),
		"nil":     BuilderFunc(func(context.Context, string, uint, shared.Language) (map[string]any, error) { return nil, nil }),
	}
}

func TestRouter_LongestPrefixWins(t *testing.T) {
	r, err := NewRouter([]printing.BuilderRule{
		{Prefix: "invoice.", Builder: "general"},
		{Prefix: "invoice.syrian.entry", Builder: "special"},
		{Prefix: "packing_list.", Builder: "packing"},
	}, testRegistry())
	require.NoError(t, err)

	tests := []struct {
		docCode string
		want    string
	}{
		{"invoice.commercial", "general"},
		{"invoice.syrian.entry", "special"},
		{"invoice.syrian.entry.ar", "special"},
		{"invoice.syrian.transit", "general"},
		{"packing_list.export.simple", "packing"},
	}
	for _, tt := range tests {
		t.Run(tt.docCode, func(t *testing.T) {
			id, err := r.BuilderID(tt.docCode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)

			data, err := r.Build(context.Background(), tt.docCode, 7, shared.LanguageEnglish)
			require.NoError(t, err)
			assert.Equal(t, tt.want, data["builder"])
			assert.Equal(t, tt.docCode, data["doc_code"])
			assert.Equal(t, uint(7), data["id"])
		})
	}
}

func TestRouter_NoMatch(t *testing.T) {
	r, err := NewRouter([]printing.BuilderRule{{Prefix: "invoice.", Builder: "general"}}, testRegistry())
	require.NoError(t, err)

	_, err = r.Resolve("certificate_of_origin")
	assert.Equal(t, shared.CodeBuilderNotFound, shared.CodeOf(err))

	// a prefix must match literally, not just share a stem
	_, err = r.Resolve("invoice")
	assert.Equal(t, shared.CodeBuilderNotFound, shared.CodeOf(err))
}

func TestRouter_Configuration(t *testing.T) {
	t.Run("same prefix to two builders", func(t *testing.T) {
		_, err := NewRouter([]printing.BuilderRule{
			{Prefix: "invoice.", Builder: "general"},
			{Prefix: "invoice.", Builder: "special"},
		}, testRegistry())
		assert.Equal(t, shared.CodeConfiguration, shared.CodeOf(err))
	})

	t.Run("repeated identical rule is accepted", func(t *testing.T) {
		_, err := NewRouter([]printing.BuilderRule{
			{Prefix: "invoice.", Builder: "general"},
			{Prefix: "invoice.", Builder: "general"},
		}, testRegistry())
		assert.NoError(t, err)
	})

	t.Run("unregistered builder", func(t *testing.T) {
		_, err := NewRouter([]printing.BuilderRule{{Prefix: "cmr", Builder: "missing"}}, testRegistry())
		assert.Equal(t, shared.CodeConfiguration, shared.CodeOf(err))
	})

	t.Run("empty prefix", func(t *testing.T) {
		_, err := NewRouter([]printing.BuilderRule{{Prefix: "", Builder: "general"}}, testRegistry())
		assert.Equal(t, shared.CodeConfiguration, shared.CodeOf(err))
	})

	t.Run("default catalog routes to the shipped builders", func(t *testing.T) {
		_, err := NewDefaultRouter(printing.DefaultCatalog(), nil)
		assert.NoError(t, err)
	})
}

func TestRouter_MemoizesPerBuilder(t *testing.T) {
	r, err := NewRouter([]printing.BuilderRule{
		{Prefix: "invoice.normal", Builder: "general"},
		{Prefix: "invoice.commercial", Builder: "general"},
	}, testRegistry())
	require.NoError(t, err)

	_, err = r.Resolve("invoice.normal")
	require.NoError(t, err)
	_, err = r.Resolve("invoice.commercial")
	require.NoError(t, err)

	r.mu.RLock()
	defer r.mu.RUnlock()
	assert.Len(t, r.resolved, 1)
	assert.Contains(t, r.resolved, "general")
}

func TestRouter_NilContextIsInvalid(t *testing.T) {
	r, err := NewRouter([]printing.BuilderRule{{Prefix: "cmr", Builder: "nil"}}, testRegistry())
	require.NoError(t, err)

	_, err = r.Build(context.Background(), "cmr", 1, shared.LanguageEnglish)
	assert.Equal(t, shared.CodeInvalidContext, shared.CodeOf(err))
}

func TestDefaultCatalogRouting(t *testing.T) {
	r, err := NewDefaultRouter(printing.DefaultCatalog(), nil)
	require.NoError(t, err)

	tests := map[string]string{
		"invoice.normal":                   printing.BuilderInvoice,
		"invoice.commercial":               printing.BuilderInvoice,
		"invoice.foreign.commercial":       printing.BuilderInvoiceForeign,
		"invoice.proforma":                 printing.BuilderInvoiceProforma,
		"invoice.syrian":                   printing.BuilderSyrianTransit,
		"invoice.syrian.entry":             printing.BuilderInvoiceSyrianEntry,
		"invoice.syrian.transit":           printing.BuilderSyrianTransit,
		"invoice.syrian.intermediary":      printing.BuilderSyrianIntermediary,
		"invoice.syrian.other":             printing.BuilderInvoice,
		"packing_list.export.with_line_id": printing.BuilderPackingList,
		"cmr":                              printing.BuilderCMR,
		"form_a":                           printing.BuilderFormA,
		"form.a":                           printing.BuilderFormA,
	}
	for code, want := range tests {
		id, err := r.BuilderID(code)
		require.NoError(t, err, code)
		assert.Equal(t, want, id, code)
	}
}

func TestLegacyBuilderFunc(t *testing.T) {
	var gotID uint
	var gotLang shared.Language
	b := LegacyBuilderFunc(func(id uint, lang shared.Language) (map[string]any, error) {
		gotID, gotLang = id, lang
		return map[string]any{"ok": true}, nil
	})

	data, err := b.Build(context.Background(), "cmr", 42, shared.LanguageTurkish)
	require.NoError(t, err)
	assert.Equal(t, true, data["ok"])
	assert.Equal(t, uint(42), gotID)
	assert.Equal(t, shared.LanguageTurkish, gotLang)
}
