package printing

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"26/27":      "26-27",
		`A\B`:        "A-B",
		"":           "UNKNOWN",
		"   ":        "UNKNOWN",
		"260006":     "260006",
		"26 / 0001":  "26-0001",
		"a//b\\\\c":  "a-b-c",
		" EXP 12 \t": "EXP-12",
	}
	for in, want := range tests {
		assert.Equal(t, want, Sanitize(in), "Sanitize(%q)", in)
	}
}

func TestOutputPathAllocator_Allocate(t *testing.T) {
	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	dir := filepath.Join("/docs", "2026", "10")

	t.Run("base name when nothing exists", func(t *testing.T) {
		a := NewOutputPathAllocator(afero.NewMemMapFs(), "/docs", 0)
		p, err := a.Allocate("INV-COM", "260006", shared.LanguageArabic, at)
		require.NoError(t, err)
		assert.Equal(t, "INV-COM-260006-AR", p.Stem)
		assert.Equal(t, dir, p.Dir)
		assert.Equal(t, filepath.Join(dir, "INV-COM-260006-AR.html"), p.HTML)
		assert.Equal(t, filepath.Join(dir, "INV-COM-260006-AR.pdf"), p.PDF)
	})

	t.Run("existing pdf bumps to v2 and leaves it untouched", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		existing := filepath.Join(dir, "INV-COM-260006-AR.pdf")
		require.NoError(t, afero.WriteFile(fs, existing, []byte("reviewed"), 0o644))
		a := NewOutputPathAllocator(fs, "/docs", 0)

		p, err := a.Allocate("INV-COM", "260006", shared.LanguageArabic, at)
		require.NoError(t, err)
		assert.Equal(t, "INV-COM-260006-AR-v2", p.Stem)

		data, err := afero.ReadFile(fs, existing)
		require.NoError(t, err)
		assert.Equal(t, "reviewed", string(data))
	})

	t.Run("an html sibling alone also counts as taken", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		a := NewOutputPathAllocator(fs, "/docs", 0)
		first, err := a.Allocate("PKL", "26/27", shared.LanguageEnglish, at)
		require.NoError(t, err)
		require.NoError(t, a.WriteHTML(first, "<p>1</p>"))

		second, err := a.Allocate("PKL", "26/27", shared.LanguageEnglish, at)
		require.NoError(t, err)
		assert.Equal(t, "PKL-26-27-EN", first.Stem)
		assert.Equal(t, "PKL-26-27-EN-v2", second.Stem)
	})

	t.Run("exhaustion", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		a := NewOutputPathAllocator(fs, "/docs", 3)
		for _, stem := range []string{"CMR-1-EN", "CMR-1-EN-v2"} {
			require.NoError(t, afero.WriteFile(fs, filepath.Join(dir, stem+".pdf"), nil, 0o644))
		}

		_, err := a.Allocate("CMR", "1", shared.LanguageEnglish, at)
		require.Error(t, err)
		assert.Equal(t, shared.CodeAllocationExhausted, shared.CodeOf(err))
	})
}

func TestOutputPathAllocator_Remove(t *testing.T) {
	fs := afero.NewMemMapFs()
	a := NewOutputPathAllocator(fs, "/docs", 0)
	p, err := a.Allocate("INV", "1", shared.LanguageTurkish, time.Now())
	require.NoError(t, err)
	require.NoError(t, a.WriteHTML(p, "<p>x</p>"))

	require.NoError(t, a.Remove(p))
	ok, err := afero.Exists(fs, p.HTML)
	require.NoError(t, err)
	assert.False(t, ok)
}
