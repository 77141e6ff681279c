package api

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/gomarkdown/markdown"

	"civicpulse/domain/core"
	"civicpulse/domain/verdict"
	"civicpulse/ports"
)

// ReactReader is the read side for react verdict documents, including the
// human-review HTML rendering of the stored analysis markdown.
type ReactReader struct {
	repo ports.ReactRepository
}

// NewReactReader creates a react verdict reader
func NewReactReader(repo ports.ReactRepository) *ReactReader {
	return &ReactReader{repo: repo}
}

// Get retrieves a react verdict by id
func (r *ReactReader) Get(ctx context.Context, id core.ReactID) (*verdict.ReactVerdict, error) {
	return r.repo.GetByID(ctx, id)
}

// RenderHTML renders a react verdict as a review page: header facts, the
// analysis markdown converted to HTML and the thought/action trace in order.
func (r *ReactReader) RenderHTML(rv *verdict.ReactVerdict) []byte {
	var buf bytes.Buffer

	buf.WriteString("<!DOCTYPE html>\n<html><head><title>React Verdict ")
	buf.WriteString(html.EscapeString(rv.ID.String()))
	buf.WriteString("</title></head><body>\n")

	fmt.Fprintf(&buf, "<h1>%s &mdash; %s</h1>\n",
		html.EscapeString(rv.Category), html.EscapeString(string(rv.FinalVerdict)))
	fmt.Fprintf(&buf, "<p>Cell %s | status %s | confidence %.2f</p>\n",
		html.EscapeString(rv.CellID.String()), html.EscapeString(string(rv.Status)), rv.Confidence)

	if rv.Analysis != "" {
		buf.WriteString("<h2>Analysis</h2>\n")
		buf.Write(markdown.ToHTML([]byte(rv.Analysis), nil, nil))
	}
	if rv.Error != "" {
		fmt.Fprintf(&buf, "<h2>Error</h2>\n<pre>%s</pre>\n", html.EscapeString(rv.Error))
	}

	buf.WriteString("<h2>Trace</h2>\n<ol>\n")
	for _, t := range rv.ThoughtProcess {
		fmt.Fprintf(&buf, "<li><em>%s</em> %s</li>\n",
			html.EscapeString(t.Timestamp), html.EscapeString(t.Thought))
	}
	buf.WriteString("</ol>\n<ol>\n")
	for _, a := range rv.Actions {
		fmt.Fprintf(&buf, "<li><em>%s</em> %s (executed: %t)<br><code>%s</code></li>\n",
			html.EscapeString(a.Timestamp), html.EscapeString(a.Action),
			a.Executed, html.EscapeString(a.Result))
	}
	buf.WriteString("</ol>\n</body></html>\n")

	return buf.Bytes()
}
