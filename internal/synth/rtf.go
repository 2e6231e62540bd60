package synth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// RTFWriter renders rich text documents.
type RTFWriter struct{}

func (w *RTFWriter) Modes() []types.EmbedMode {
	return []types.EmbedMode{types.ModeInlineBody, types.ModeDistributed}
}

func (w *RTFWriter) Ext() string { return "rtf" }

func (w *RTFWriter) Synthesize(ctx context.Context, doc types.Document, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var b strings.Builder
	b.WriteString(`{\rtf1\ansi\deff0{\fonttbl{\f0 Calibri;}}`)
	b.WriteString("\n")
	fmt.Fprintf(&b, `{\b\fs32 %s}\par\par`, escapeRTF(titleFor(doc.Topic)))
	b.WriteString("\n")

	switch doc.Embedding.Mode {
	case types.ModeDistributed:
		bySection := sectionCredentials(doc)
		parts := splitSections(doc.Content, doc.Embedding.Sections)
		for s, part := range parts {
			fmt.Fprintf(&b, `{\b\fs26 Section %d}\par`, s+1)
			b.WriteString("\n")
			fmt.Fprintf(&b, `%s\par`, escapeRTF(part))
			b.WriteString("\n")
			for _, cred := range bySection[s] {
				fmt.Fprintf(&b, `{\f1 %s}\par`, escapeRTF(credentialLine(cred)))
				b.WriteString("\n")
			}
			b.WriteString(`\par` + "\n")
		}
	default:
		fmt.Fprintf(&b, `%s\par\par`, escapeRTF(doc.Content))
		b.WriteString("\n")
		b.WriteString(`{\b Connection details}\par` + "\n")
		for _, cred := range doc.Credentials {
			fmt.Fprintf(&b, `{\f1 %s}\par`, escapeRTF(credentialLine(cred)))
			b.WriteString("\n")
		}
	}

	b.WriteString("}\n")
	return os.WriteFile(path, []byte(b.String()), 0o644)
}

var rtfEscaper = strings.NewReplacer(`\`, `\\`, `{`, `\{`, `}`, `\}`)

func escapeRTF(s string) string { return rtfEscaper.Replace(s) }

func titleFor(topic string) string {
	first := topic
	if i := strings.IndexByte(topic, ','); i >= 0 {
		first = topic[:i]
	}
	return strings.TrimSpace(first)
}
