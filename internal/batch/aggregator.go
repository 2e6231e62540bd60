package batch

import (
	"sort"
	"sync"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// aggregator collects results from concurrent workers. Every submitted
// job contributes exactly one result, so files+failures always equals
// the submitted count on finalize.
type aggregator struct {
	mu       sync.Mutex
	files    []types.FileRecord
	failures []types.Failure
}

func (a *aggregator) Add(r types.Result) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if r.Succeeded() {
		a.files = append(a.files, *r.File)
		return
	}
	a.failures = append(a.failures, *r.Fail)
}

// Finalize folds the collected results into a report. Files and
// failures are ordered by job index regardless of completion order.
func (a *aggregator) Finalize(report *types.Report) {
	a.mu.Lock()
	defer a.mu.Unlock()

	sort.Slice(a.files, func(i, j int) bool { return a.files[i].JobIndex < a.files[j].JobIndex })
	sort.Slice(a.failures, func(i, j int) bool { return a.failures[i].JobIndex < a.failures[j].JobIndex })

	report.Files = a.files
	report.Failures = a.failures
	report.TotalFiles = len(a.files)
	report.FilesByFormat = make(map[string]int)
	report.CredentialsByType = make(map[string]int)
	for _, f := range a.files {
		report.FilesByFormat[f.Format]++
		report.TotalCredentials += f.CredentialsEmbedded
		for _, t := range f.CredentialTypes {
			report.CredentialsByType[t]++
		}
	}
}
