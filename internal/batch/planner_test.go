package batch

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlug(t *testing.T) {
	assert.Equal(t, "security-audit", Slug("Security Audit"))
	assert.Equal(t, "q3-db-migration", Slug("Q3: DB migration!"))
	assert.Equal(t, "doc", Slug("***"))
}

func planConfig() Config {
	return Config{
		Count:           6,
		OutputDir:       "/tmp/out",
		Formats:         []string{"eml", "csv"},
		CredentialTypes: []string{"api_key"},
		Topics:          []string{"backup policy", "incident response", "key rotation"},
	}
}

func testSynths() map[string]Synthesizer {
	return map[string]Synthesizer{
		"eml": &MockSynthesizer{ExtFunc: func() string { return "eml" }},
		"csv": &MockSynthesizer{ExtFunc: func() string { return "csv" }},
	}
}

func TestPlanRoundRobinFormats(t *testing.T) {
	epoch := time.UnixMilli(1_700_000_000_000)
	jobs := Plan(planConfig(), epoch, testSynths())
	require.Len(t, jobs, 6)
	for i, job := range jobs {
		assert.Equal(t, i, job.Index)
		if i%2 == 0 {
			assert.Equal(t, "eml", job.Format)
		} else {
			assert.Equal(t, "csv", job.Format)
		}
	}
}

func TestPlanRoundRobinTopicsUnderFixedStrategy(t *testing.T) {
	cfg := planConfig()
	cfg.EmbedStrategy = "inline-body"
	jobs := Plan(cfg, time.UnixMilli(1), testSynths())

	counts := make(map[string]int)
	for _, job := range jobs {
		counts[job.Topic]++
	}
	assert.Equal(t, map[string]int{
		"backup policy":     2,
		"incident response": 2,
		"key rotation":      2,
	}, counts)
}

func TestPlanReproducibleWithPinnedEpoch(t *testing.T) {
	epoch := time.UnixMilli(1_700_000_000_000)
	first := Plan(planConfig(), epoch, testSynths())
	second := Plan(planConfig(), epoch, testSynths())
	assert.Equal(t, first, second)
}

func TestPlanPathsUnderFormatDirs(t *testing.T) {
	epoch := time.UnixMilli(1_700_000_000_000)
	jobs := Plan(planConfig(), epoch, testSynths())
	for _, job := range jobs {
		assert.Equal(t, filepath.Join("/tmp/out", job.Format), filepath.Dir(job.Path))
		assert.True(t, strings.HasSuffix(job.Path, "."+job.Format), "path %q should carry the format extension", job.Path)
		assert.Contains(t, filepath.Base(job.Path), Slug(job.Topic))
	}
}

func TestPlanCopiesCredentialTypes(t *testing.T) {
	cfg := planConfig()
	jobs := Plan(cfg, time.UnixMilli(1), testSynths())
	jobs[0].CredentialTypes[0] = "mutated"
	assert.Equal(t, "api_key", cfg.CredentialTypes[0])
}
