package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/yassine-ta/credentialforge/internal/embed"
	"github.com/yassine-ta/credentialforge/pkg/types"
)

// executor runs single jobs through the content, credential, embedding
// and synthesis stages. Any failure is converted to a Failure result at
// the stage boundary; Execute never returns an error.
type executor struct {
	credentials CredentialSource
	content     ContentSource
	synths      map[string]Synthesizer
	strategy    string
	timeout     time.Duration
	log         zerolog.Logger
}

// Execute runs one job to completion and reports exactly one result.
func (e *executor) Execute(ctx context.Context, job types.Job) types.Result {
	if err := ctx.Err(); err != nil {
		return failure(job, types.StageContent, types.KindCancelled, "job not started: batch cancelled")
	}

	content, err := e.call(ctx, func(c context.Context) (string, error) {
		return e.content.Generate(c, job.Topic, job.Format, job.Seed)
	})
	if err != nil {
		return classify(job, types.StageContent, types.KindContentGeneration, err)
	}

	creds, err := e.generateCredentials(ctx, job)
	if err != nil {
		return classify(job, types.StageCredentials, types.KindCredentialGeneration, err)
	}

	synth := e.synths[job.Format]
	decision, err := embed.Decide(embed.Request{
		Supported:     synth.Modes(),
		Strategy:      e.strategy,
		Credentials:   len(creds),
		ContentLength: len(content),
		Seed:          job.Seed,
	})
	if err != nil {
		return classify(job, types.StageEmbedding, types.KindConfiguration, err)
	}
	if decision.Fallback {
		e.log.Debug().
			Int("job", job.Index).
			Str("format", job.Format).
			Str("requested", string(decision.Requested)).
			Str("mode", string(decision.Mode)).
			Msg("embedding mode fallback")
	}

	doc := types.Document{
		Topic:       job.Topic,
		Content:     content,
		Credentials: creds,
		Embedding:   decision,
		Seed:        job.Seed,
	}
	if err := os.MkdirAll(filepath.Dir(job.Path), 0o755); err != nil {
		return classify(job, types.StageSynthesis, types.KindSynthesis, err)
	}
	if _, err := e.call(ctx, func(c context.Context) (string, error) {
		return "", synth.Synthesize(c, doc, job.Path)
	}); err != nil {
		return classify(job, types.StageSynthesis, types.KindSynthesis, err)
	}

	embeddedTypes := make([]string, len(creds))
	for i, c := range creds {
		embeddedTypes[i] = c.Type
	}
	return types.Result{
		JobIndex: job.Index,
		File: &types.FileRecord{
			JobIndex:            job.Index,
			Path:                job.Path,
			Format:              job.Format,
			Topic:               job.Topic,
			CredentialTypes:     embeddedTypes,
			CredentialsEmbedded: len(creds),
			Embedding:           decision,
		},
	}
}

// generateCredentials produces one value per requested type. Individual
// type failures are tolerated as long as at least one value exists; a
// fully empty set fails the job.
func (e *executor) generateCredentials(ctx context.Context, job types.Job) ([]types.Credential, error) {
	creds := make([]types.Credential, 0, len(job.CredentialTypes))
	var lastErr error
	for i, credType := range job.CredentialTypes {
		ct, i := credType, i
		value, err := e.call(ctx, func(c context.Context) (string, error) {
			return e.credentials.Generate(c, ct, job.Seed+uint64(i))
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			lastErr = err
			e.log.Warn().Int("job", job.Index).Str("type", ct).Err(err).Msg("credential generation failed")
			continue
		}
		creds = append(creds, types.Credential{Type: ct, Value: value})
	}
	if len(creds) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("no credential type produced a value: %w", lastErr)
		}
		return nil, errors.New("no credential types requested")
	}
	return creds, nil
}

// call runs one collaborator invocation under the optional job timeout.
func (e *executor) call(ctx context.Context, fn func(context.Context) (string, error)) (string, error) {
	if e.timeout <= 0 {
		return fn(ctx)
	}
	bounded, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()
	return fn(bounded)
}

func classify(job types.Job, stage types.Stage, kind types.ErrorKind, err error) types.Result {
	if errors.Is(err, context.Canceled) {
		kind = types.KindCancelled
	}
	return failure(job, stage, kind, err.Error())
}

func failure(job types.Job, stage types.Stage, kind types.ErrorKind, msg string) types.Result {
	return types.Result{
		JobIndex: job.Index,
		Fail: &types.Failure{
			JobIndex: job.Index,
			Stage:    stage,
			Kind:     kind,
			Message:  msg,
		},
	}
}
