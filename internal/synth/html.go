package synth

import (
	"context"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// HTMLWriter renders standalone HTML pages. Metadata mode puts
// credentials into head meta tags; distributed mode spreads them over
// body sections.
type HTMLWriter struct{}

func (w *HTMLWriter) Modes() []types.EmbedMode {
	return []types.EmbedMode{types.ModeInlineBody, types.ModeMetadata, types.ModeDistributed}
}

func (w *HTMLWriter) Ext() string { return "html" }

func (w *HTMLWriter) Synthesize(ctx context.Context, doc types.Document, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	title := html.EscapeString(titleFor(doc.Topic))

	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	b.WriteString("<meta charset=\"utf-8\">\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", title)
	if doc.Embedding.Mode == types.ModeMetadata {
		for _, cred := range doc.Credentials {
			fmt.Fprintf(&b, "<meta name=%q content=%q>\n",
				"config."+cred.Type, cred.Value)
		}
	}
	b.WriteString("</head>\n<body>\n")
	fmt.Fprintf(&b, "<h1>%s</h1>\n", title)

	switch doc.Embedding.Mode {
	case types.ModeDistributed:
		bySection := sectionCredentials(doc)
		parts := splitSections(doc.Content, doc.Embedding.Sections)
		for s, part := range parts {
			fmt.Fprintf(&b, "<section>\n<h2>Part %d</h2>\n<p>%s</p>\n", s+1, html.EscapeString(part))
			for _, cred := range bySection[s] {
				fmt.Fprintf(&b, "<pre>%s</pre>\n", html.EscapeString(credentialLine(cred)))
			}
			b.WriteString("</section>\n")
		}
	case types.ModeInlineBody:
		fmt.Fprintf(&b, "<p>%s</p>\n<pre>\n", html.EscapeString(doc.Content))
		for _, cred := range doc.Credentials {
			fmt.Fprintf(&b, "%s\n", html.EscapeString(credentialLine(cred)))
		}
		b.WriteString("</pre>\n")
	default:
		fmt.Fprintf(&b, "<p>%s</p>\n", html.EscapeString(doc.Content))
	}

	b.WriteString("</body>\n</html>\n")
	return os.WriteFile(path, []byte(b.String()), 0o644)
}
