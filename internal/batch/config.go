package batch

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// CredentialSource produces credential values for registered types.
type CredentialSource interface {
	Generate(ctx context.Context, credType string, seed uint64) (string, error)
	Types() []string
}

// ContentSource produces topic-relevant body text for a document.
type ContentSource interface {
	Generate(ctx context.Context, topic, format string, seed uint64) (string, error)
}

// Synthesizer renders a finished document to disk in one file format.
type Synthesizer interface {
	// Modes lists the embedding modes the format can structurally express.
	Modes() []types.EmbedMode
	// Ext is the file extension without the dot.
	Ext() string
	Synthesize(ctx context.Context, doc types.Document, path string) error
}

// Config describes one batch run. Validated once before planning; jobs
// never consult it for mutable state.
type Config struct {
	Count           int      `validate:"required,min=1"`
	OutputDir       string   `validate:"required"`
	Formats         []string `validate:"required,min=1"`
	CredentialTypes []string `validate:"required,min=1"`
	Topics          []string `validate:"required,min=1"`

	// EmbedStrategy is a mode name or "random".
	EmbedStrategy string

	// SeedTime pins the batch epoch for reproducible runs. Zero means
	// time of invocation.
	SeedTime time.Time

	// Workers forces the pool size when > 0, bypassing the budgeter.
	Workers int

	// MemoryLimit is the ceiling in bytes handed to the budgeter. Zero
	// means unbounded.
	MemoryLimit uint64

	// PerWorkerEstimate is the budgeter's cost model for one concurrent
	// job, in bytes.
	PerWorkerEstimate uint64

	// HardCap bounds the worker count regardless of budget.
	HardCap int

	// Sequential forces a single worker.
	Sequential bool

	// JobTimeout bounds each collaborator call within one job. Zero
	// disables the bound.
	JobTimeout time.Duration
}

var validate = validator.New()

// Validate checks the configuration and resolves cross-field rules that
// struct tags cannot express. All violations are ErrConfiguration.
func (c *Config) Validate(credentials CredentialSource, synths map[string]Synthesizer) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	for _, f := range c.Formats {
		if _, ok := synths[f]; !ok {
			return fmt.Errorf("%w: unknown format %q", ErrConfiguration, f)
		}
	}
	known := make(map[string]struct{})
	for _, t := range credentials.Types() {
		known[t] = struct{}{}
	}
	for _, t := range c.CredentialTypes {
		if _, ok := known[t]; !ok {
			return fmt.Errorf("%w: unknown credential type %q", ErrConfiguration, t)
		}
	}
	if c.EmbedStrategy != "" && c.EmbedStrategy != "random" && !types.IsValidEmbedMode(c.EmbedStrategy) {
		return fmt.Errorf("%w: unknown embed strategy %q", ErrConfiguration, c.EmbedStrategy)
	}
	return nil
}

// Orchestrator plans and runs one batch.
type Orchestrator struct {
	cfg         Config
	credentials CredentialSource
	content     ContentSource
	synths      map[string]Synthesizer
	log         zerolog.Logger
}

// NewOrchestrator wires a batch runner from its collaborators.
func NewOrchestrator(cfg Config, credentials CredentialSource, content ContentSource, synths map[string]Synthesizer, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		cfg:         cfg,
		credentials: credentials,
		content:     content,
		synths:      synths,
		log:         log,
	}
}
