package batch

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slug reduces a topic to a filesystem-safe fragment.
func Slug(s string) string {
	out := slugPattern.ReplaceAllString(strings.ToLower(s), "-")
	out = strings.Trim(out, "-")
	if out == "" {
		return "doc"
	}
	if len(out) > 48 {
		out = strings.Trim(out[:48], "-")
	}
	return out
}

// Plan expands a validated configuration into the full job list.
// Formats and topics rotate round-robin so a batch covers every
// requested value evenly instead of skewing toward the first; under the
// random strategy topics are instead drawn from the job's own seed, so
// a pinned epoch still replays the identical plan.
func Plan(cfg Config, epoch time.Time, synths map[string]Synthesizer) []types.Job {
	randomize := cfg.EmbedStrategy == "" || cfg.EmbedStrategy == "random"
	jobs := make([]types.Job, cfg.Count)
	for i := 0; i < cfg.Count; i++ {
		seed := JobSeed(epoch, i)
		format := cfg.Formats[i%len(cfg.Formats)]
		var topic string
		if randomize {
			rng := rand.New(rand.NewSource(int64(seed)))
			topic = cfg.Topics[rng.Intn(len(cfg.Topics))]
		} else {
			topic = cfg.Topics[(i/len(cfg.Formats))%len(cfg.Topics)]
		}

		ext := format
		if s, ok := synths[format]; ok {
			ext = s.Ext()
		}
		name := fmt.Sprintf("%04d-%s.%s", i, Slug(topic), ext)

		jobs[i] = types.Job{
			Index:           i,
			Format:          format,
			Topic:           topic,
			CredentialTypes: append([]string(nil), cfg.CredentialTypes...),
			Seed:            seed,
			Path:            filepath.Join(cfg.OutputDir, format, name),
		}
	}
	return jobs
}
