package printing

import (
	"html"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
)

var headOpenTag = regexp.MustCompile(`(?i)<head(\s[^>]*)?>`)

// FileBaseURL returns a file:// URL for dir with a trailing slash
func FileBaseURL(dir string) string {
	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	s := u.String()
	if !strings.HasSuffix(s, "/") {
		s += "/"
	}
	return s
}

// InjectBaseHref inserts <base href="baseURL"> right after the opening head
// tag so relative asset references resolve against the source directory.
// A document without a head is first wrapped in a minimal shell.
func InjectBaseHref(doc, baseURL string) string {
	if baseURL == "" {
		return doc
	}
	if !headOpenTag.MatchString(doc) {
		doc = `<!DOCTYPE html><html><head><meta charset="utf-8"></head><body>` + doc + `</body></html>`
	}
	tag := `<base href="` + html.EscapeString(baseURL) + `">`
	loc := headOpenTag.FindStringIndex(doc)
	return doc[:loc[1]] + tag + doc[loc[1]:]
}
