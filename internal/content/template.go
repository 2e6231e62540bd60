package content

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// TemplateGenerator is the always-available content source. Output varies
// with the job seed: company, project, environment and timeline are drawn
// per call so no two jobs in a batch read identically.
type TemplateGenerator struct{}

// NewTemplateGenerator creates the template-backed content generator.
func NewTemplateGenerator() *TemplateGenerator {
	return &TemplateGenerator{}
}

// Name identifies the generator in logs and chain diagnostics.
func (g *TemplateGenerator) Name() string { return "template" }

var (
	companies = []string{
		"Meridian Systems", "Northwind Analytics", "Cobalt Dynamics",
		"Apex Data Group", "Helix Technologies", "Stratus Labs",
		"Vantage Software", "Kestrel Networks",
	}
	projects = []string{
		"Project Aurora", "the Q3 platform migration", "the Atlas rollout",
		"the infrastructure refresh", "Project Basalt", "the compliance initiative",
	}
	environments = []string{
		"production", "staging", "the EU production cluster",
		"the disaster-recovery site", "the shared development environment",
	}
	timelines = []string{
		"this sprint", "the current release cycle", "Q3 planning",
		"the maintenance window on Saturday", "the phased rollout",
	}
	metrics = []string{
		"uptime at 99.97%", "p95 latency down 18%", "error rate below 0.2%",
		"throughput up 2.4x since the last review", "queue depth stable under load",
	}
)

type templateContext struct {
	Company     string
	Project     string
	Environment string
	Timeline    string
	Metric      string
}

func newTemplateContext(rng *rand.Rand) templateContext {
	return templateContext{
		Company:     companies[rng.Intn(len(companies))],
		Project:     projects[rng.Intn(len(projects))],
		Environment: environments[rng.Intn(len(environments))],
		Timeline:    timelines[rng.Intn(len(timelines))],
		Metric:      metrics[rng.Intn(len(metrics))],
	}
}

// Generate renders topic content for the format. Multi-topic strings
// (comma-joined) produce one passage per topic, combined in a way that
// suits the format family.
func (g *TemplateGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.TrimSpace(req.Topic) == "" {
		return "", fmt.Errorf("empty topic")
	}

	rng := rand.New(rand.NewSource(int64(req.Seed)))
	tc := newTemplateContext(rng)

	topics := splitTopics(req.Topic)
	passages := make([]string, 0, len(topics))
	for _, topic := range topics {
		passages = append(passages, g.passage(topic, req.Format, tc, rng))
	}

	return combine(passages, topics, req.Format, tc), nil
}

func splitTopics(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func (g *TemplateGenerator) passage(topic, format string, tc templateContext, rng *rand.Rand) string {
	switch familyOf(format) {
	case familyMessage:
		return fmt.Sprintf(
			"I wanted to share an update on our %s work at %s as part of %s. "+
				"The system has been running in %s with %s. "+
				"The configuration changes below were applied during %s; please review them before the next deployment.",
			topic, tc.Company, tc.Project, tc.Environment, tc.Metric, tc.Timeline)
	case familyTabular:
		return fmt.Sprintf(
			"Operational summary for %s at %s. Environment: %s. Tracking period: %s. Key result: %s.",
			topic, tc.Company, tc.Environment, tc.Timeline, tc.Metric)
	case familyDiagram:
		return fmt.Sprintf(
			"%s architecture for %s. Components span %s and are scheduled for review during %s.",
			titleCaser.String(topic), tc.Company, tc.Environment, tc.Timeline)
	default:
		return fmt.Sprintf(
			"This document covers the %s implementation at %s under %s. "+
				"The current deployment targets %s and has sustained %s. "+
				"Work items for %s include configuration hardening, access review, and rotation of service credentials.",
			topic, tc.Company, tc.Project, tc.Environment, tc.Metric, tc.Timeline)
	}
}

func combine(passages, topics []string, format string, tc templateContext) string {
	if len(passages) == 1 {
		return passages[0]
	}
	switch familyOf(format) {
	case familyMessage:
		var b strings.Builder
		fmt.Fprintf(&b, "This update covers %s.\n\n", strings.Join(topics, ", "))
		for i, p := range passages {
			fmt.Fprintf(&b, "%d. %s\n\n", i+1, p)
		}
		b.WriteString("Let me know if anything needs clarification before " + tc.Timeline + ".")
		return b.String()
	default:
		var b strings.Builder
		for i, p := range passages {
			fmt.Fprintf(&b, "%s\n\n%s\n\n", titleCaser.String(topics[i]), p)
		}
		return strings.TrimSpace(b.String())
	}
}

// Format families map many concrete formats onto a few content shapes.
const (
	familyMessage  = "message"
	familyTabular  = "tabular"
	familyDiagram  = "diagram"
	familyDocument = "document"
)

func familyOf(format string) string {
	switch format {
	case "eml", "msg":
		return familyMessage
	case "csv", "xlsx", "xls":
		return familyTabular
	case "vdx", "vsdx":
		return familyDiagram
	default:
		return familyDocument
	}
}
