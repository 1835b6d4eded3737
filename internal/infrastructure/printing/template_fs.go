package printing

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/spf13/afero"
)

//go:embed all:templates
var embeddedTemplates embed.FS

// EmbeddedTemplates returns the shipped templates as a read-only filesystem
// rooted at the templates directory.
func EmbeddedTemplates() afero.Fs {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		panic(fmt.Sprintf("embedded templates: %v", err))
	}
	return afero.NewReadOnlyFs(afero.FromIOFS{FS: sub})
}

// NewTemplateFS returns the filesystem templates are resolved on.
// Files in externalDir shadow the embedded ones with the same relative path;
// anything missing there is served from the embedded set. An empty or
// missing externalDir yields the embedded templates alone.
func NewTemplateFS(externalDir string) (afero.Fs, error) {
	base := EmbeddedTemplates()
	if externalDir == "" {
		return base, nil
	}

	osFs := afero.NewOsFs()
	ok, err := afero.DirExists(osFs, externalDir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat templates dir %s: %w", externalDir, err)
	}
	if !ok {
		return base, nil
	}
	return newOverlayFS(base, afero.NewBasePathFs(osFs, externalDir)), nil
}

// newOverlayFS reads from layer first and falls back to base.
// Writes are rejected so the external directory is never modified.
func newOverlayFS(base, layer afero.Fs) afero.Fs {
	return afero.NewReadOnlyFs(afero.NewCopyOnWriteFs(base, layer))
}
