package synth

import (
	"context"
	"encoding/base64"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// EMLWriter renders RFC 5322 email messages. Message formats carry
// credentials either inline in the body or as an attached config blob.
type EMLWriter struct{}

func (w *EMLWriter) Modes() []types.EmbedMode {
	return []types.EmbedMode{types.ModeInlineBody, types.ModeAttachment}
}

func (w *EMLWriter) Ext() string { return "eml" }

func (w *EMLWriter) Synthesize(ctx context.Context, doc types.Document, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rng := rand.New(rand.NewSource(int64(doc.Seed)))
	from := fmt.Sprintf("%s@example.com", pickName(rng))
	to := fmt.Sprintf("%s@example.com", pickName(rng))
	date := time.Unix(int64(doc.Seed%1_500_000_000)+1_400_000_000, 0).UTC()

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subjectFor(doc.Topic))
	fmt.Fprintf(&b, "Date: %s\r\n", date.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Message-ID: <%d@example.com>\r\n", doc.Seed)
	b.WriteString("MIME-Version: 1.0\r\n")

	switch doc.Embedding.Mode {
	case types.ModeAttachment:
		w.writeMultipart(&b, doc)
	default:
		w.writeInline(&b, doc)
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func (w *EMLWriter) writeInline(b *strings.Builder, doc types.Document) {
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(doc.Content)
	b.WriteString("\r\n\r\nFor reference, the current settings are:\r\n")
	for _, cred := range doc.Credentials {
		fmt.Fprintf(b, "  %s\r\n", credentialLine(cred))
	}
	b.WriteString("\r\nPlease keep this between us until the rollout completes.\r\n")
}

func (w *EMLWriter) writeMultipart(b *strings.Builder, doc types.Document) {
	boundary := fmt.Sprintf("----boundary-%016x", doc.Seed)
	fmt.Fprintf(b, "Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary)

	fmt.Fprintf(b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	b.WriteString(doc.Content)
	b.WriteString("\r\n\r\nThe environment file is attached.\r\n\r\n")

	var blob strings.Builder
	blob.WriteString("# environment configuration\n")
	for _, cred := range doc.Credentials {
		fmt.Fprintf(&blob, "%s=%s\n", strings.ToUpper(cred.Type), cred.Value)
	}
	encoded := base64.StdEncoding.EncodeToString([]byte(blob.String()))

	fmt.Fprintf(b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: application/octet-stream; name=\"config.env\"\r\n")
	b.WriteString("Content-Disposition: attachment; filename=\"config.env\"\r\n")
	b.WriteString("Content-Transfer-Encoding: base64\r\n\r\n")
	for len(encoded) > 76 {
		b.WriteString(encoded[:76])
		b.WriteString("\r\n")
		encoded = encoded[76:]
	}
	b.WriteString(encoded)
	fmt.Fprintf(b, "\r\n--%s--\r\n", boundary)
}

var senderNames = []string{
	"james.wilson", "maria.garcia", "wei.chen", "fatima.khan",
	"ole.hansen", "ana.souza", "dmitri.petrov", "aisha.bello",
}

func pickName(rng *rand.Rand) string { return senderNames[rng.Intn(len(senderNames))] }

func subjectFor(topic string) string {
	first := topic
	if i := strings.IndexByte(topic, ','); i >= 0 {
		first = topic[:i]
	}
	return "Re: " + strings.TrimSpace(first)
}
