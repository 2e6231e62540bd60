// Package embed decides how and where credential values are placed inside
// a target document. Decisions are pure functions of the request: the same
// format capabilities, strategy, and seed always produce the same decision.
package embed

import (
	"fmt"
	"math/rand"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// StrategyRandom selects uniformly among the format's supported modes,
// driven by the job's uniqueness seed.
const StrategyRandom = "random"

// Request carries everything the engine needs for one decision.
type Request struct {
	Supported     []types.EmbedMode // capability set declared by the format
	Strategy      string            // StrategyRandom or a specific mode name
	Credentials   int               // number of credentials to place
	ContentLength int               // rune length of the generated content
	Seed          uint64            // job uniqueness seed
}

// Section count buckets by content length. Sparse content must not request
// more sections than it has room for.
const (
	shortContentMax  = 800
	mediumContentMax = 3000

	shortSections  = 2
	mediumSections = 4
	longSections   = 6
)

// Decide returns the embedding decision for one job. The returned mode is
// always a member of req.Supported; an unsupported requested mode falls
// back to the first supported mode and the substitution is recorded.
func Decide(req Request) (types.EmbeddingDecision, error) {
	if len(req.Supported) == 0 {
		return types.EmbeddingDecision{}, fmt.Errorf("format declares no embedding modes")
	}

	var decision types.EmbeddingDecision

	switch {
	case req.Strategy == StrategyRandom || req.Strategy == "":
		// Seeded source so the choice is reproducible per job, never a
		// process-global one.
		rng := rand.New(rand.NewSource(int64(req.Seed)))
		decision.Mode = req.Supported[rng.Intn(len(req.Supported))]
	case types.IsValidEmbedMode(req.Strategy):
		requested := types.EmbedMode(req.Strategy)
		if supports(req.Supported, requested) {
			decision.Mode = requested
		} else {
			decision.Mode = req.Supported[0]
			decision.Fallback = true
			decision.Requested = requested
		}
	default:
		return types.EmbeddingDecision{}, fmt.Errorf("unknown embedding strategy %q", req.Strategy)
	}

	if decision.Mode == types.ModeDistributed {
		decision.Sections = sectionCount(req.ContentLength)
		decision.Slots = assignSlots(req.Credentials, decision.Sections)
	}

	return decision, nil
}

func supports(modes []types.EmbedMode, mode types.EmbedMode) bool {
	for _, m := range modes {
		if m == mode {
			return true
		}
	}
	return false
}

func sectionCount(contentLength int) int {
	switch {
	case contentLength <= shortContentMax:
		return shortSections
	case contentLength <= mediumContentMax:
		return mediumSections
	default:
		return longSections
	}
}

// assignSlots spreads credentials round-robin so no section holds more than
// ceil(count/sections) of them.
func assignSlots(count, sections int) map[int]int {
	if count <= 0 {
		return nil
	}
	slots := make(map[int]int, count)
	for i := 0; i < count; i++ {
		slots[i] = i % sections
	}
	return slots
}
