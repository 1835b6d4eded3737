package printing

import (
	"fmt"
	"os"
	"path"

	"github.com/logiport/backend/internal/domain/printing"
	"github.com/logiport/backend/internal/domain/shared"
	"github.com/spf13/afero"
)

// TemplateResolver maps (doc_code, language) to a template file.
// Paths are slash separated and relative to the root of fs.
type TemplateResolver struct {
	fs      afero.Fs
	catalog *printing.Catalog
}

// NewTemplateResolver creates a resolver over fs
func NewTemplateResolver(fs afero.Fs, catalog *printing.Catalog) *TemplateResolver {
	return &TemplateResolver{fs: fs, catalog: catalog}
}

// Resolve returns the template for docCode in lang. First match wins:
//  1. {folder}/{lang}.html
//  2. the substitute family's {lang}.html
//  3. {folder}/en.html
//
// Families with a substitute always carry their default title, in lang for
// the first two steps and in English for the last. English-only families
// always resolve to en.html.
func (r *TemplateResolver) Resolve(docCode, lang string) (*printing.TemplateSpec, error) {
	l, ok := shared.ParseLanguage(lang)
	if !ok {
		return nil, shared.NewDomainError(shared.CodeInvalidLanguage,
			fmt.Sprintf("unsupported language %q", lang))
	}
	folder, ok := r.catalog.TemplateFolder(docCode)
	if !ok {
		return nil, shared.NewDomainError(shared.CodeConfiguration,
			fmt.Sprintf("no template folder registered for doc_code %q", docCode))
	}
	if r.catalog.IsEnglishOnly(docCode) {
		l = shared.LanguageEnglish
	}

	sub, hasSub := r.catalog.TemplateSubstitutes[docCode]
	titled := func(lang shared.Language) map[string]any {
		if !hasSub {
			return nil
		}
		return map[string]any{"title": sub.Titles.In(lang)}
	}

	if exact := templateFile(folder, l); r.exists(exact) {
		return &printing.TemplateSpec{DocCode: docCode, Lang: l, Path: exact, Extra: titled(l)}, nil
	}

	if hasSub {
		if subFolder, ok := r.catalog.TemplateFolder(sub.DocCode); ok {
			if p := templateFile(subFolder, l); r.exists(p) {
				return &printing.TemplateSpec{DocCode: docCode, Lang: l, Path: p, Extra: titled(l)}, nil
			}
		}
	}

	if fallback := templateFile(folder, shared.DefaultLanguage); r.exists(fallback) {
		return &printing.TemplateSpec{DocCode: docCode, Lang: l, Path: fallback, Extra: titled(shared.DefaultLanguage)}, nil
	}

	return nil, shared.NewDomainError(shared.CodeTemplateNotFound,
		fmt.Sprintf("no template for doc_code %q in %s (folder %s)", docCode, l, folder))
}

// Read returns the contents of a resolved template
func (r *TemplateResolver) Read(spec *printing.TemplateSpec) (string, error) {
	b, err := afero.ReadFile(r.fs, spec.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", shared.WrapDomainError(shared.CodeTemplateNotFound, "template disappeared: "+spec.Path, err)
		}
		return "", fmt.Errorf("failed to read template %s: %w", spec.Path, err)
	}
	return string(b), nil
}

func (r *TemplateResolver) exists(p string) bool {
	info, err := r.fs.Stat(p)
	return err == nil && !info.IsDir()
}

func templateFile(folder string, lang shared.Language) string {
	return path.Join(folder, lang.String()+".html")
}
