// Package printing provides the infrastructure side of document generation:
// template lookup, HTML templating, output path allocation and HTML to PDF
// conversion through an ordered chain of engines.
//
// This package contains:
// - NewTemplateFS: embedded templates overlaid by an optional external directory
// - TemplateResolver: (doc_code, lang) to a template file with layered fallback
// - TemplateEngine: html/template rendering with formatting helpers
// - OutputPathAllocator: collision-free {PREFIX}-{TX}-{LANG}[-vN] paths
// - EngineChain: tries ChromedpEngine and WkhtmltopdfEngine in order
//
// Example usage:
//
//	chain := NewEngineChain(afero.NewOsFs(), logger,
//	    NewChromedpEngine(ChromedpConfig{}, fs),
//	    NewWkhtmltopdfEngine(WkhtmltopdfConfig{}),
//	)
//	outcome := chain.Render(ctx, "chromedp", html, "/out/2026/10/INV-260006-AR.pdf", FileBaseURL("/out/2026/10"))
//	if !outcome.Success {
//	    log.Println(outcome.Err())
//	}
package printing
