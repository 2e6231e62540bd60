// Package content produces the topic prose that credentials are embedded
// into. Generators are interchangeable strategies ranked by priority: the
// chain tries each in order and records which one actually served the call,
// so an LLM-backed generator can sit in front of the always-available
// template generator without the orchestrator knowing about either.
package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// ErrExhausted is returned when every ranked generator failed.
var ErrExhausted = errors.New("all content generators failed")

// Request describes one content generation call.
type Request struct {
	Topic  string // may be a comma-joined multi-topic string
	Format string
	Seed   uint64
}

// Generator is one content generation strategy.
type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Chain tries generators in priority order.
type Chain struct {
	gens []Generator
	log  zerolog.Logger
}

// NewChain builds a ranked chain. Generators are tried in the order given.
func NewChain(log zerolog.Logger, gens ...Generator) *Chain {
	return &Chain{gens: gens, log: log}
}

// Name identifies the chain for logs.
func (c *Chain) Name() string { return "chain" }

// Generate returns content from the first generator that succeeds.
func (c *Chain) Generate(ctx context.Context, req Request) (string, error) {
	var lastErr error
	for _, g := range c.gens {
		text, err := g.Generate(ctx, req)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		c.log.Debug().
			Str("generator", g.Name()).
			Str("topic", req.Topic).
			Err(err).
			Msg("content generator failed, trying next")
	}
	if lastErr != nil {
		return "", fmt.Errorf("%w: %s", ErrExhausted, lastErr)
	}
	return "", ErrExhausted
}
