package printing

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/logiport/backend/internal/domain/shared"
	"github.com/spf13/afero"
)

// DefaultMaxOutputVersions bounds the -vN suffix search
const DefaultMaxOutputVersions = 200

// UnknownTransactionNo replaces a blank transaction number in file names
const UnknownTransactionNo = "UNKNOWN"

var unsafePathRun = regexp.MustCompile(`[/\\\s]+`)

// Sanitize makes a transaction number safe for file names: runs of slashes,
// backslashes or whitespace become a single dash.
func Sanitize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return UnknownTransactionNo
	}
	return unsafePathRun.ReplaceAllString(s, "-")
}

// OutputPaths is an allocated .html/.pdf pair sharing one stem
type OutputPaths struct {
	Dir  string
	Stem string
	HTML string
	PDF  string
}

// OutputPathAllocator picks collision-free output paths under
// {root}/{YYYY}/{MM}/
type OutputPathAllocator struct {
	fs          afero.Fs
	root        string
	maxVersions int
}

// NewOutputPathAllocator creates an allocator. maxVersions <= 1 uses the default.
func NewOutputPathAllocator(fs afero.Fs, root string, maxVersions int) *OutputPathAllocator {
	if maxVersions <= 1 {
		maxVersions = DefaultMaxOutputVersions
	}
	return &OutputPathAllocator{fs: fs, root: root, maxVersions: maxVersions}
}

// Allocate returns {PREFIX}-{SAFE_TX}-{LANG} when neither sibling exists,
// else the first free -v2 .. -v{maxVersions-1}. Existing files are never reused.
func (a *OutputPathAllocator) Allocate(prefix, transactionNo string, lang shared.Language, at time.Time) (*OutputPaths, error) {
	dir := filepath.Join(a.root, at.Format("2006"), at.Format("01"))
	base := fmt.Sprintf("%s-%s-%s", prefix, Sanitize(transactionNo), lang.Upper())

	for v := 1; v < a.maxVersions; v++ {
		stem := base
		if v > 1 {
			stem = fmt.Sprintf("%s-v%d", base, v)
		}
		p := &OutputPaths{
			Dir:  dir,
			Stem: stem,
			HTML: filepath.Join(dir, stem+".html"),
			PDF:  filepath.Join(dir, stem+".pdf"),
		}
		taken, err := a.taken(p)
		if err != nil {
			return nil, err
		}
		if !taken {
			return p, nil
		}
	}
	return nil, shared.NewDomainError(shared.CodeAllocationExhausted,
		fmt.Sprintf("no free output name for %s after %d versions", base, a.maxVersions-1))
}

// WriteHTML creates the directory and writes the HTML file
func (a *OutputPathAllocator) WriteHTML(p *OutputPaths, html string) error {
	if err := a.fs.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := afero.WriteFile(a.fs, p.HTML, []byte(html), 0o644); err != nil {
		return fmt.Errorf("failed to write HTML: %w", err)
	}
	return nil
}

// Remove deletes whichever of the pair exists
func (a *OutputPathAllocator) Remove(p *OutputPaths) error {
	var firstErr error
	for _, f := range []string{p.HTML, p.PDF} {
		if ok, _ := afero.Exists(a.fs, f); !ok {
			continue
		}
		if err := a.fs.Remove(f); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *OutputPathAllocator) taken(p *OutputPaths) (bool, error) {
	for _, f := range []string{p.HTML, p.PDF} {
		ok, err := afero.Exists(a.fs, f)
		if err != nil {
			return false, fmt.Errorf("failed to stat %s: %w", f, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}
