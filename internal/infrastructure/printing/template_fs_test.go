package printing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/logiport/backend/internal/domain/printing"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedTemplates_CoverCatalog(t *testing.T) {
	fs := EmbeddedTemplates()
	catalog := printing.DefaultCatalog()

	for code, folder := range catalog.TemplateFolders {
		ok, err := afero.Exists(fs, folder+"/en.html")
		require.NoError(t, err)
		assert.True(t, ok, "%s has no English template in %s", code, folder)
	}
}

func TestNewTemplateFS(t *testing.T) {
	t.Run("no external dir", func(t *testing.T) {
		fs, err := NewTemplateFS("")
		require.NoError(t, err)
		ok, _ := afero.Exists(fs, "invoices/commercial/en.html")
		assert.True(t, ok)
	})

	t.Run("missing external dir falls back to embedded", func(t *testing.T) {
		fs, err := NewTemplateFS(filepath.Join(t.TempDir(), "nope"))
		require.NoError(t, err)
		ok, _ := afero.Exists(fs, "cmr/en.html")
		assert.True(t, ok)
	})

	t.Run("external files shadow and extend", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "cmr"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "cmr", "en.html"), []byte("custom cmr"), 0o644))
		require.NoError(t, os.MkdirAll(filepath.Join(dir, "form_a"), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "form_a", "tr.html"), []byte("form a tr"), 0o644))

		fs, err := NewTemplateFS(dir)
		require.NoError(t, err)

		b, err := afero.ReadFile(fs, "cmr/en.html")
		require.NoError(t, err)
		assert.Equal(t, "custom cmr", string(b))

		b, err = afero.ReadFile(fs, "form_a/tr.html")
		require.NoError(t, err)
		assert.Equal(t, "form a tr", string(b))

		b, err = afero.ReadFile(fs, "invoices/commercial/en.html")
		require.NoError(t, err)
		assert.Contains(t, string(b), "COMMERCIAL INVOICE")
	})
}

func TestOverlayFS_RejectsWrites(t *testing.T) {
	fs := newOverlayFS(EmbeddedTemplates(), afero.NewMemMapFs())
	err := afero.WriteFile(fs, "cmr/en.html", []byte("x"), 0o644)
	assert.Error(t, err)
}

func TestEmbeddedTemplates_ResolveThroughOverlay(t *testing.T) {
	layer := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(layer, "cmr/en.html", []byte("<p>{{ .cmr_no }}</p>"), 0o644))
	r := NewTemplateResolver(newOverlayFS(EmbeddedTemplates(), layer), printing.DefaultCatalog())

	// cmr is English only, so Arabic resolves to the overridden en.html
	spec, err := r.Resolve("cmr", "ar")
	require.NoError(t, err)
	content, err := r.Read(spec)
	require.NoError(t, err)

	out, err := NewTemplateEngine().Render(spec.Path, content, map[string]any{"cmr_no": "CMR-260001"})
	require.NoError(t, err)
	assert.Equal(t, "<p>CMR-260001</p>", out)
}
