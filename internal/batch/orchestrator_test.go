package batch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

const mib = 1 << 20

func testConfig(t *testing.T) Config {
	t.Helper()
	return Config{
		Count:           5,
		OutputDir:       t.TempDir(),
		Formats:         []string{"eml"},
		CredentialTypes: []string{"api_key", "password"},
		Topics:          []string{"security audit"},
		SeedTime:        time.UnixMilli(1_700_000_000_000),
	}
}

func newTestOrchestrator(cfg Config, creds CredentialSource, content ContentSource, synths map[string]Synthesizer) *Orchestrator {
	if creds == nil {
		creds = &MockCredentialSource{}
	}
	if content == nil {
		content = &MockContentSource{}
	}
	if synths == nil {
		synths = map[string]Synthesizer{"eml": &MockSynthesizer{ExtFunc: func() string { return "eml" }}}
	}
	return NewOrchestrator(cfg, creds, content, synths, zerolog.Nop())
}

func TestRunProducesEveryFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.MemoryLimit = 2048 * mib
	cfg.PerWorkerEstimate = 500 * mib

	o := newTestOrchestrator(cfg, nil, nil, nil)
	report, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, report.TotalFiles)
	assert.Empty(t, report.Failures)
	assert.LessOrEqual(t, report.Workers, 4, "2048 MiB at 500 MiB per worker fits at most 4")
	assert.GreaterOrEqual(t, report.Workers, 1)
	assert.Equal(t, 10, report.TotalCredentials)
	assert.Equal(t, map[string]int{"eml": 5}, report.FilesByFormat)
	assert.NotEmpty(t, report.BatchID)

	for _, f := range report.Files {
		data, err := os.ReadFile(f.Path)
		require.NoError(t, err, "file for job %d should exist", f.JobIndex)
		assert.NotEmpty(t, data)
	}
}

func TestRunEveryJobAccountedFor(t *testing.T) {
	cfg := testConfig(t)
	cfg.Count = 20
	creds := &MockCredentialSource{
		GenerateFunc: func(ctx context.Context, credType string, seed uint64) (string, error) {
			if seed%3 == 0 && credType == "api_key" {
				return "", errors.New("pattern refused")
			}
			return credType + "-value", nil
		},
	}
	o := newTestOrchestrator(cfg, creds, nil, nil)
	report, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cfg.Count, report.TotalFiles+len(report.Failures))
}

func TestRunToleratesPartialCredentialFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Count = 1
	creds := &MockCredentialSource{
		GenerateFunc: func(ctx context.Context, credType string, seed uint64) (string, error) {
			if credType == "password" {
				return "", errors.New("generator down")
			}
			return "AKIAEXAMPLE", nil
		},
	}
	o := newTestOrchestrator(cfg, creds, nil, nil)
	report, err := o.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	assert.Equal(t, 1, report.Files[0].CredentialsEmbedded)
	assert.Equal(t, []string{"api_key"}, report.Files[0].CredentialTypes)
	assert.Empty(t, report.Failures)
}

func TestRunFailsJobWhenNoCredentialSucceeds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Count = 1
	creds := &MockCredentialSource{
		GenerateFunc: func(ctx context.Context, credType string, seed uint64) (string, error) {
			return "", errors.New("generator down")
		},
	}
	o := newTestOrchestrator(cfg, creds, nil, nil)
	report, err := o.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, types.StageCredentials, report.Failures[0].Stage)
	assert.Equal(t, types.KindCredentialGeneration, report.Failures[0].Kind)
	assert.Empty(t, report.Files)
}

func TestRunClassifiesContentFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Count = 1
	content := &MockContentSource{
		GenerateFunc: func(ctx context.Context, topic, format string, seed uint64) (string, error) {
			return "", errors.New("all generators exhausted")
		},
	}
	o := newTestOrchestrator(cfg, nil, content, nil)
	report, err := o.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, types.StageContent, report.Failures[0].Stage)
	assert.Equal(t, types.KindContentGeneration, report.Failures[0].Kind)
}

func TestRunClassifiesSynthesisFailure(t *testing.T) {
	cfg := testConfig(t)
	cfg.Count = 1
	synths := map[string]Synthesizer{
		"eml": &MockSynthesizer{
			ExtFunc: func() string { return "eml" },
			SynthesizeFunc: func(ctx context.Context, doc types.Document, path string) error {
				return errors.New("disk full")
			},
		},
	}
	o := newTestOrchestrator(cfg, nil, nil, synths)
	report, err := o.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, types.StageSynthesis, report.Failures[0].Stage)
	assert.Equal(t, types.KindSynthesis, report.Failures[0].Kind)
}

func TestRunSequentialMatchesConcurrent(t *testing.T) {
	run := func(sequential bool, dir string) types.Report {
		cfg := testConfig(t)
		cfg.Count = 12
		cfg.OutputDir = dir
		cfg.Sequential = sequential
		cfg.EmbedStrategy = string(types.ModeInlineBody)
		o := newTestOrchestrator(cfg, nil, nil, nil)
		report, err := o.Run(context.Background())
		require.NoError(t, err)
		return report
	}

	seq := run(true, t.TempDir())
	con := run(false, t.TempDir())

	assert.Equal(t, 1, seq.Workers)
	require.Equal(t, len(seq.Files), len(con.Files))
	for i := range seq.Files {
		assert.Equal(t, filepath.Base(seq.Files[i].Path), filepath.Base(con.Files[i].Path))
		assert.Equal(t, seq.Files[i].Embedding, con.Files[i].Embedding)
		assert.Equal(t, seq.Files[i].CredentialsEmbedded, con.Files[i].CredentialsEmbedded)
	}
}

func TestRunRecordsFallback(t *testing.T) {
	cfg := testConfig(t)
	cfg.Count = 1
	cfg.EmbedStrategy = string(types.ModeMetadata)
	synths := map[string]Synthesizer{
		"eml": &MockSynthesizer{
			ModesFunc: func() []types.EmbedMode {
				return []types.EmbedMode{types.ModeInlineBody, types.ModeAttachment}
			},
			ExtFunc: func() string { return "eml" },
		},
	}
	o := newTestOrchestrator(cfg, nil, nil, synths)
	report, err := o.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Files, 1)
	dec := report.Files[0].Embedding
	assert.True(t, dec.Fallback)
	assert.Equal(t, types.ModeMetadata, dec.Requested)
	assert.Equal(t, types.ModeInlineBody, dec.Mode)
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := testConfig(t)
	cfg.Count = 30
	cfg.Workers = 2
	started := make(chan struct{}, 1)
	content := &MockContentSource{
		GenerateFunc: func(ctx context.Context, topic, format string, seed uint64) (string, error) {
			select {
			case started <- struct{}{}:
			default:
			}
			select {
			case <-time.After(20 * time.Millisecond):
				return "body", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
	}
	o := newTestOrchestrator(cfg, nil, content, nil)

	type outcome struct {
		report types.Report
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		report, err := o.Run(ctx)
		done <- outcome{report, err}
	}()

	<-started
	cancel()
	out := <-done
	require.NoError(t, out.err)
	report := out.report

	assert.True(t, report.Cancelled)
	assert.Equal(t, cfg.Count, report.TotalFiles+len(report.Failures), "every job must be accounted for")
	var cancelledJobs int
	for _, f := range report.Failures {
		if f.Kind == types.KindCancelled {
			cancelledJobs++
		}
	}
	assert.NotZero(t, cancelledJobs)
}

func TestRunConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero count", func(c *Config) { c.Count = 0 }},
		{"no formats", func(c *Config) { c.Formats = nil }},
		{"unknown format", func(c *Config) { c.Formats = []string{"docx"} }},
		{"unknown credential type", func(c *Config) { c.CredentialTypes = []string{"nope"} }},
		{"no topics", func(c *Config) { c.Topics = nil }},
		{"unknown strategy", func(c *Config) { c.EmbedStrategy = "sideways" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(t)
			tt.mutate(&cfg)
			o := newTestOrchestrator(cfg, nil, nil, nil)
			_, err := o.Run(context.Background())
			assert.ErrorIs(t, err, ErrConfiguration)
		})
	}
}

func TestRunResourceExhausted(t *testing.T) {
	cfg := testConfig(t)
	cfg.MemoryLimit = 100 * mib
	cfg.PerWorkerEstimate = 500 * mib
	o := newTestOrchestrator(cfg, nil, nil, nil)
	_, err := o.Run(context.Background())
	assert.ErrorIs(t, err, ErrResourceExhausted)
}

func TestRunJobTimeout(t *testing.T) {
	cfg := testConfig(t)
	cfg.Count = 1
	cfg.JobTimeout = 10 * time.Millisecond
	content := &MockContentSource{
		GenerateFunc: func(ctx context.Context, topic, format string, seed uint64) (string, error) {
			select {
			case <-time.After(time.Second):
				return "too late", nil
			case <-ctx.Done():
				return "", ctx.Err()
			}
		},
	}
	o := newTestOrchestrator(cfg, nil, content, nil)
	report, err := o.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, types.StageContent, report.Failures[0].Stage)
}
