package engine

import (
	"io"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
)

// FileWriter wraps an output stream per media type. The minifying variant
// compresses markup on the way out; the no-op variant passes it through.
type FileWriter interface {
	Writer(mediatype string, out io.WriteCloser) io.WriteCloser
}

type TDMinifier struct {
	Minifier *minify.M
}

func (m *TDMinifier) Writer(mediatype string, out io.WriteCloser) io.WriteCloser {
	return m.Minifier.Writer(mediatype, out)
}

type NOOPWriter struct{}

func (m *NOOPWriter) Writer(mediatype string, out io.WriteCloser) io.WriteCloser {
	return out
}

// NewMinifyWriter configures the shared minifier the way browsers expect
// site output: document tags kept, end tags kept.
func NewMinifyWriter() FileWriter {
	minifier := minify.New()
	minifier.AddFunc("text/css", css.Minify)
	minifier.Add("text/html", &html.Minifier{
		KeepDocumentTags: true,
		KeepEndTags:      true,
	})
	minifier.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), js.Minify)
	return &TDMinifier{Minifier: minifier}
}
