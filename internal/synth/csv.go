package synth

import (
	"context"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// CSVWriter renders tabular exports. Tabular formats have no free-form
// body, so credentials land either in a metadata column or spread
// across row sections.
type CSVWriter struct{}

func (w *CSVWriter) Modes() []types.EmbedMode {
	return []types.EmbedMode{types.ModeMetadata, types.ModeDistributed}
}

func (w *CSVWriter) Ext() string { return "csv" }

const csvRowsPerSection = 5

func (w *CSVWriter) Synthesize(ctx context.Context, doc types.Document, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating csv: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"id", "resource", "owner", "status", "notes"}); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	rng := rand.New(rand.NewSource(int64(doc.Seed)))

	switch doc.Embedding.Mode {
	case types.ModeDistributed:
		bySection := sectionCredentials(doc)
		sections := doc.Embedding.Sections
		if sections < 1 {
			sections = 1
		}
		row := 0
		for s := 0; s < sections; s++ {
			for i := 0; i < csvRowsPerSection; i++ {
				if err := cw.Write(dataRow(row, doc.Topic, rng)); err != nil {
					return fmt.Errorf("writing row: %w", err)
				}
				row++
			}
			for _, cred := range bySection[s] {
				rec := dataRow(row, doc.Topic, rng)
				rec[4] = credentialLine(cred)
				if err := cw.Write(rec); err != nil {
					return fmt.Errorf("writing row: %w", err)
				}
				row++
			}
		}
	default:
		// Metadata mode: credentials ride in the notes column of
		// otherwise ordinary rows.
		total := csvRowsPerSection * 3
		credAt := make(map[int]types.Credential, len(doc.Credentials))
		for i, cred := range doc.Credentials {
			credAt[(i+1)*total/(len(doc.Credentials)+1)] = cred
		}
		for row := 0; row < total; row++ {
			rec := dataRow(row, doc.Topic, rng)
			if cred, ok := credAt[row]; ok {
				rec[4] = credentialLine(cred)
			}
			if err := cw.Write(rec); err != nil {
				return fmt.Errorf("writing row: %w", err)
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

var csvOwners = []string{"platform", "data-eng", "sre", "payments", "identity"}
var csvStatuses = []string{"active", "migrating", "deprecated", "review"}

func dataRow(id int, topic string, rng *rand.Rand) []string {
	resource := strings.ReplaceAll(strings.Fields(topic)[0], ",", "")
	return []string{
		fmt.Sprintf("%04d", id+1),
		fmt.Sprintf("%s-%02d", strings.ToLower(resource), rng.Intn(90)+10),
		csvOwners[rng.Intn(len(csvOwners))],
		csvStatuses[rng.Intn(len(csvStatuses))],
		"",
	}
}
