package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// WriteReport persists the batch report next to the generated files.
// The write goes through a temp file and rename so a crash never leaves
// a truncated report behind.
func WriteReport(outputDir string, report types.Report) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling report: %w", err)
	}

	path := filepath.Join(outputDir, "report.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return "", fmt.Errorf("renaming report: %w", err)
	}
	return path, nil
}
