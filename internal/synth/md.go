package synth

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// MarkdownWriter renders internal-wiki style notes.
type MarkdownWriter struct{}

func (w *MarkdownWriter) Modes() []types.EmbedMode {
	return []types.EmbedMode{types.ModeInlineBody, types.ModeDistributed}
}

func (w *MarkdownWriter) Ext() string { return "md" }

func (w *MarkdownWriter) Synthesize(ctx context.Context, doc types.Document, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", titleFor(doc.Topic))

	switch doc.Embedding.Mode {
	case types.ModeDistributed:
		bySection := sectionCredentials(doc)
		parts := splitSections(doc.Content, doc.Embedding.Sections)
		for s, part := range parts {
			fmt.Fprintf(&b, "## Part %d\n\n%s\n\n", s+1, part)
			if creds := bySection[s]; len(creds) > 0 {
				b.WriteString("```\n")
				for _, cred := range creds {
					b.WriteString(credentialLine(cred) + "\n")
				}
				b.WriteString("```\n\n")
			}
		}
	default:
		fmt.Fprintf(&b, "%s\n\n## Settings\n\n```\n", doc.Content)
		for _, cred := range doc.Credentials {
			b.WriteString(credentialLine(cred) + "\n")
		}
		b.WriteString("```\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
