// Package highlight wraps the chroma library as the syntax-highlighting
// collaborator: code text in, self-contained HTML document out.
//
// Chroma is the Go ecosystem's pygments equivalent. Its lexer and style
// registries also supply the enumerated choice lists that snippet validation
// enforces — the lists are computed once at construction and never change,
// so the validator and the renderer can never disagree about what is
// supported. The renderer holds no other state; a single instance is safe
// for concurrent use by every request.
package highlight

import (
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/alecthomas/chroma/v2"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Options are the inputs to a single rendering. Title is optional; when set
// it becomes the document title and a heading above the highlighted block,
// matching what pygments does for full-document output.
type Options struct {
	Code     string
	Language string
	Style    string
	Linenos  bool
	Title    string
}

// Renderer produces highlighted HTML documents and exposes the supported
// language and style identifiers.
type Renderer struct {
	languages []string
	styleList []string
	langSet   map[string]struct{}
	styleSet  map[string]struct{}
}

// NewRenderer builds a Renderer with the choice lists snapshotted from
// chroma's registries. Names(true) includes lexer aliases so common
// identifiers like "python" and "go" are accepted, not just canonical names.
func NewRenderer() *Renderer {
	languages := lexers.Names(true)
	styleNames := styles.Names()

	r := &Renderer{
		languages: languages,
		styleList: styleNames,
		langSet:   make(map[string]struct{}, len(languages)),
		styleSet:  make(map[string]struct{}, len(styleNames)),
	}
	for _, name := range languages {
		r.langSet[name] = struct{}{}
	}
	for _, name := range styleNames {
		r.styleSet[name] = struct{}{}
	}
	return r
}

// Languages returns the supported language identifiers, sorted.
// The returned slice is a copy — callers can't mutate the registry snapshot.
func (r *Renderer) Languages() []string {
	out := make([]string, len(r.languages))
	copy(out, r.languages)
	return out
}

// Styles returns the supported style identifiers, sorted.
func (r *Renderer) Styles() []string {
	out := make([]string, len(r.styleList))
	copy(out, r.styleList)
	return out
}

// SupportsLanguage reports whether name is a known lexer name or alias.
func (r *Renderer) SupportsLanguage(name string) bool {
	_, ok := r.langSet[name]
	return ok
}

// SupportsStyle reports whether name is a known style.
func (r *Renderer) SupportsStyle(name string) bool {
	_, ok := r.styleSet[name]
	return ok
}

// Render produces a self-contained HTML document for the given options.
//
// Validation is expected to have rejected unsupported language/style values
// upstream; if one slips through anyway this returns an error rather than
// silently falling back, so the caller can abort the save without persisting
// a stale Highlighted value.
func (r *Renderer) Render(opts Options) (string, error) {
	if !r.SupportsLanguage(opts.Language) {
		return "", fmt.Errorf("highlight: unsupported language %q", opts.Language)
	}
	if !r.SupportsStyle(opts.Style) {
		return "", fmt.Errorf("highlight: unsupported style %q", opts.Style)
	}

	lexer := lexers.Get(opts.Language)
	if lexer == nil {
		return "", fmt.Errorf("highlight: no lexer registered for %q", opts.Language)
	}
	// Coalesce merges adjacent tokens of the same type — smaller output.
	lexer = chroma.Coalesce(lexer)

	style := styles.Get(opts.Style)
	if style == nil {
		return "", fmt.Errorf("highlight: no style registered for %q", opts.Style)
	}

	formatter := chromahtml.New(
		chromahtml.WithClasses(true),
		chromahtml.WithLineNumbers(opts.Linenos),
		chromahtml.TabWidth(4),
	)

	iterator, err := lexer.Tokenise(nil, opts.Code)
	if err != nil {
		return "", fmt.Errorf("highlight: tokenising code: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("<!DOCTYPE html>\n<html>\n<head>\n")
	if opts.Title != "" {
		fmt.Fprintf(&sb, "<title>%s</title>\n", stdhtml.EscapeString(opts.Title))
	}
	sb.WriteString("<style>\n")
	if err := formatter.WriteCSS(&sb, style); err != nil {
		return "", fmt.Errorf("highlight: writing stylesheet: %w", err)
	}
	sb.WriteString("</style>\n</head>\n<body>\n")
	if opts.Title != "" {
		fmt.Fprintf(&sb, "<h2>%s</h2>\n", stdhtml.EscapeString(opts.Title))
	}
	if err := formatter.Format(&sb, style, iterator); err != nil {
		return "", fmt.Errorf("highlight: formatting code: %w", err)
	}
	sb.WriteString("</body>\n</html>\n")

	return sb.String(), nil
}
