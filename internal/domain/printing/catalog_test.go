package printing

import (
	"testing"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalog_Prefix(t *testing.T) {
	c := DefaultCatalog()

	t.Run("known doc codes", func(t *testing.T) {
		assert.Equal(t, "INV-COM", c.Prefix("invoice.commercial"))
		assert.Equal(t, "INV-SE", c.Prefix("invoice.syrian.entry"))
		assert.Equal(t, "PKL", c.Prefix("packing_list.export.with_dates"))
		assert.Equal(t, "CMR", c.Prefix("cmr"))
	})

	t.Run("unknown code uses last segment", func(t *testing.T) {
		assert.Equal(t, "BAZ", c.Prefix("foo.bar.baz"))
	})

	t.Run("fallback is capped at six characters", func(t *testing.T) {
		assert.Equal(t, "TOOLON", c.Prefix("foo.toolongcode"))
	})
}

func TestCatalog_DocumentTypeCode(t *testing.T) {
	c := DefaultCatalog()

	t.Run("exact match", func(t *testing.T) {
		code, err := c.DocumentTypeCode("invoice.commercial")
		require.NoError(t, err)
		assert.Equal(t, "INV_EXT", code)
	})

	t.Run("language suffix is stripped", func(t *testing.T) {
		code, err := c.DocumentTypeCode("packing_list.export.simple.ar")
		require.NoError(t, err)
		assert.Equal(t, "PL_EXPORT_SIMPLE", code)
	})

	t.Run("unmapped code is a configuration error listing known codes", func(t *testing.T) {
		_, err := c.DocumentTypeCode("invoice.unknown")
		require.Error(t, err)
		assert.Equal(t, shared.CodeConfiguration, shared.CodeOf(err))
		assert.Contains(t, err.Error(), "invoice.commercial")
	})
}

func TestDocumentType_Title(t *testing.T) {
	dt := &DocumentType{Code: "INV_EXT", Names: shared.LocalizedText{AR: "فاتورة تجارية", EN: "Commercial Invoice"}}
	assert.Equal(t, "فاتورة تجارية", dt.Title(shared.LanguageArabic))
	assert.Equal(t, "Commercial Invoice", dt.Title(shared.LanguageTurkish))
	assert.Equal(t, "CMR", (&DocumentType{Code: "CMR"}).Title(shared.LanguageEnglish))
}

func TestDocNo(t *testing.T) {
	assert.Equal(t, "INV-COM-260006", DocNo("INV-COM", "260006"))
	assert.Equal(t, "PKL-2026-14-A", DocNo("PKL", "2026/14\\A"))
}
