package batch

import (
	"context"
	"fmt"
	"os"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// MockCredentialSource is a configurable CredentialSource for tests.
type MockCredentialSource struct {
	GenerateFunc func(ctx context.Context, credType string, seed uint64) (string, error)
	TypesFunc    func() []string
}

func (m *MockCredentialSource) Generate(ctx context.Context, credType string, seed uint64) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, credType, seed)
	}
	return fmt.Sprintf("%s-%d", credType, seed), nil
}

func (m *MockCredentialSource) Types() []string {
	if m.TypesFunc != nil {
		return m.TypesFunc()
	}
	return []string{"api_key", "password"}
}

// MockContentSource is a configurable ContentSource for tests.
type MockContentSource struct {
	GenerateFunc func(ctx context.Context, topic, format string, seed uint64) (string, error)
}

func (m *MockContentSource) Generate(ctx context.Context, topic, format string, seed uint64) (string, error) {
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, topic, format, seed)
	}
	return fmt.Sprintf("notes on %s for %s run %d", topic, format, seed), nil
}

// MockSynthesizer is a configurable Synthesizer for tests. The default
// behavior writes the document content so path assertions work.
type MockSynthesizer struct {
	ModesFunc      func() []types.EmbedMode
	ExtFunc        func() string
	SynthesizeFunc func(ctx context.Context, doc types.Document, path string) error
}

func (m *MockSynthesizer) Modes() []types.EmbedMode {
	if m.ModesFunc != nil {
		return m.ModesFunc()
	}
	return []types.EmbedMode{types.ModeInlineBody}
}

func (m *MockSynthesizer) Ext() string {
	if m.ExtFunc != nil {
		return m.ExtFunc()
	}
	return "txt"
}

func (m *MockSynthesizer) Synthesize(ctx context.Context, doc types.Document, path string) error {
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, doc, path)
	}
	return os.WriteFile(path, []byte(doc.Content), 0o644)
}
