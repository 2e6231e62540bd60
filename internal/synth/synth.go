// Package synth renders finished documents to disk. Each writer declares
// the embedding modes its format can structurally express; placement of
// credential values follows the job's embedding decision.
package synth

import (
	"fmt"
	"strings"

	"github.com/yassine-ta/credentialforge/internal/batch"
	"github.com/yassine-ta/credentialforge/pkg/types"
)

// DefaultRegistry returns every built-in format writer keyed by name.
func DefaultRegistry() map[string]batch.Synthesizer {
	return map[string]batch.Synthesizer{
		"eml":  &EMLWriter{},
		"rtf":  &RTFWriter{},
		"csv":  &CSVWriter{},
		"html": &HTMLWriter{},
		"md":   &MarkdownWriter{},
		"vdx":  &VDXWriter{},
	}
}

// FormatNames lists the registered formats in registry order.
func FormatNames() []string {
	return []string{"eml", "rtf", "csv", "html", "md", "vdx"}
}

// splitSections cuts content into n roughly even parts on sentence
// boundaries, falling back to raw byte splits when the text has too few
// sentences. Always returns exactly n parts, some possibly empty.
func splitSections(content string, n int) []string {
	if n <= 1 {
		return []string{content}
	}
	sentences := strings.SplitAfter(content, ". ")
	parts := make([]string, n)
	if len(sentences) >= n {
		per := len(sentences) / n
		rem := len(sentences) % n
		idx := 0
		for i := 0; i < n; i++ {
			take := per
			if i < rem {
				take++
			}
			parts[i] = strings.TrimSpace(strings.Join(sentences[idx:idx+take], ""))
			idx += take
		}
		return parts
	}
	per := len(content) / n
	for i := 0; i < n; i++ {
		start := i * per
		end := start + per
		if i == n-1 {
			end = len(content)
		}
		parts[i] = strings.TrimSpace(content[start:end])
	}
	return parts
}

// sectionCredentials groups credentials by their assigned section.
func sectionCredentials(doc types.Document) map[int][]types.Credential {
	out := make(map[int][]types.Credential)
	for i, cred := range doc.Credentials {
		section := doc.Embedding.Slots[i]
		out[section] = append(out[section], cred)
	}
	return out
}

func credentialLine(cred types.Credential) string {
	return fmt.Sprintf("%s = %s", strings.ToUpper(cred.Type), cred.Value)
}
