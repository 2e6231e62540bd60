package synth

import (
	"context"
	"encoding/base64"
	"encoding/csv"
	"net/mail"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

func testDoc(mode types.EmbedMode) types.Document {
	doc := types.Document{
		Topic:   "database migration",
		Content: "The first phase moved the user tables. The second phase moved billing. The third phase handled archival data. Validation ran overnight. The cutover is planned for Friday. Rollback scripts are staged.",
		Credentials: []types.Credential{
			{Type: "api_key", Value: "sk-testvalue1234"},
			{Type: "password", Value: "hunter2secret"},
			{Type: "github_token", Value: "ghp_testtoken"},
		},
		Embedding: types.EmbeddingDecision{Mode: mode},
		Seed:      99,
	}
	if mode == types.ModeDistributed {
		doc.Embedding.Sections = 2
		doc.Embedding.Slots = map[int]int{0: 0, 1: 1, 2: 0}
	}
	return doc
}

func TestRegistryCoversEveryFormat(t *testing.T) {
	reg := DefaultRegistry()
	for _, name := range FormatNames() {
		s, ok := reg[name]
		require.True(t, ok, "format %s missing from registry", name)
		assert.Equal(t, name, s.Ext())
		assert.NotEmpty(t, s.Modes())
	}
}

func TestEMLInlineBody(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.eml")
	doc := testDoc(types.ModeInlineBody)
	require.NoError(t, (&EMLWriter{}).Synthesize(context.Background(), doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	msg, err := mail.ReadMessage(strings.NewReader(string(data)))
	require.NoError(t, err, "output should parse as a mail message")
	assert.Contains(t, msg.Header.Get("Subject"), "database migration")

	body := string(data)
	for _, cred := range doc.Credentials {
		assert.Contains(t, body, cred.Value)
	}
}

func TestEMLAttachmentBlob(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.eml")
	doc := testDoc(types.ModeAttachment)
	require.NoError(t, (&EMLWriter{}).Synthesize(context.Background(), doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "multipart/mixed")
	assert.Contains(t, body, `filename="config.env"`)

	// Credentials live only in the base64 blob, not the visible body.
	for _, cred := range doc.Credentials {
		assert.NotContains(t, body, cred.Value)
	}
	start := strings.Index(body, "base64\r\n\r\n")
	require.Positive(t, start)
	blob := body[start+len("base64\r\n\r\n"):]
	blob = blob[:strings.Index(blob, "\r\n--")]
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(blob, "\r\n", ""))
	require.NoError(t, err)
	for _, cred := range doc.Credentials {
		assert.Contains(t, string(decoded), cred.Value)
	}
}

func TestCSVMetadataColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	doc := testDoc(types.ModeMetadata)
	require.NoError(t, (&CSVWriter{}).Synthesize(context.Background(), doc, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Greater(t, len(rows), 1)
	assert.Equal(t, []string{"id", "resource", "owner", "status", "notes"}, rows[0])

	var found int
	for _, row := range rows[1:] {
		for _, cred := range doc.Credentials {
			if strings.Contains(row[4], cred.Value) {
				found++
			}
		}
	}
	assert.Equal(t, len(doc.Credentials), found)
}

func TestCSVDistributedSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	doc := testDoc(types.ModeDistributed)
	require.NoError(t, (&CSVWriter{}).Synthesize(context.Background(), doc, path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	content := make([]string, 0, len(rows))
	for _, row := range rows {
		content = append(content, strings.Join(row, ","))
	}
	joined := strings.Join(content, "\n")
	for _, cred := range doc.Credentials {
		assert.Contains(t, joined, cred.Value)
	}
}

func TestMarkdownDistributedSlots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.md")
	doc := testDoc(types.ModeDistributed)
	require.NoError(t, (&MarkdownWriter{}).Synthesize(context.Background(), doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)

	part2 := strings.Index(body, "## Part 2")
	require.Positive(t, part2)
	// Slots put credentials 0 and 2 in section 0, credential 1 in section 1.
	assert.Less(t, strings.Index(body, doc.Credentials[0].Value), part2)
	assert.Less(t, strings.Index(body, doc.Credentials[2].Value), part2)
	assert.Greater(t, strings.Index(body, doc.Credentials[1].Value), part2)
}

func TestHTMLMetadataInHead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.html")
	doc := testDoc(types.ModeMetadata)
	require.NoError(t, (&HTMLWriter{}).Synthesize(context.Background(), doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	head := body[:strings.Index(body, "</head>")]
	for _, cred := range doc.Credentials {
		assert.Contains(t, head, cred.Value)
	}
}

func TestRTFInline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.rtf")
	doc := testDoc(types.ModeInlineBody)
	require.NoError(t, (&RTFWriter{}).Synthesize(context.Background(), doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.True(t, strings.HasPrefix(body, `{\rtf1`))
	for _, cred := range doc.Credentials {
		assert.Contains(t, body, cred.Value)
	}
}

func TestVDXWellFormedAndDistributed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.vdx")
	doc := testDoc(types.ModeDistributed)
	require.NoError(t, (&VDXWriter{}).Synthesize(context.Background(), doc, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	body := string(data)
	assert.Contains(t, body, "<VisioDocument>")
	for _, cred := range doc.Credentials {
		assert.Contains(t, body, cred.Value)
	}
}

func TestSplitSections(t *testing.T) {
	parts := splitSections("One. Two. Three. Four. Five. Six.", 3)
	require.Len(t, parts, 3)
	for _, p := range parts {
		assert.NotEmpty(t, p)
	}
	assert.Equal(t, []string{"abcdef"}, splitSections("abcdef", 1))
}
