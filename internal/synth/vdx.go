package synth

import (
	"context"
	"encoding/xml"
	"fmt"
	"os"

	"github.com/yassine-ta/credentialforge/pkg/types"
)

// VDXWriter renders Visio-style XML diagrams. Diagrams have no body or
// metadata surface, so the only placement is text distributed across
// shapes.
type VDXWriter struct{}

func (w *VDXWriter) Modes() []types.EmbedMode {
	return []types.EmbedMode{types.ModeDistributed}
}

func (w *VDXWriter) Ext() string { return "vdx" }

type vdxDocument struct {
	XMLName xml.Name  `xml:"VisioDocument"`
	Title   string    `xml:"DocumentProperties>Title"`
	Pages   []vdxPage `xml:"Pages>Page"`
}

type vdxPage struct {
	ID     int        `xml:"ID,attr"`
	Name   string     `xml:"Name,attr"`
	Shapes []vdxShape `xml:"Shapes>Shape"`
}

type vdxShape struct {
	ID   int     `xml:"ID,attr"`
	Type string  `xml:"Type,attr"`
	PinX float64 `xml:"XForm>PinX"`
	PinY float64 `xml:"XForm>PinY"`
	Text string  `xml:"Text"`
}

func (w *VDXWriter) Synthesize(ctx context.Context, doc types.Document, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	sections := doc.Embedding.Sections
	if sections < 1 {
		sections = 1
	}
	bySection := sectionCredentials(doc)
	parts := splitSections(doc.Content, sections)

	shapes := make([]vdxShape, 0, sections*2)
	id := 1
	for s, part := range parts {
		shapes = append(shapes, vdxShape{
			ID:   id,
			Type: "Shape",
			PinX: 2.0,
			PinY: float64(10 - s*2),
			Text: part,
		})
		id++
		for _, cred := range bySection[s] {
			shapes = append(shapes, vdxShape{
				ID:   id,
				Type: "Shape",
				PinX: 6.0,
				PinY: float64(10 - s*2),
				Text: credentialLine(cred),
			})
			id++
		}
	}

	out := vdxDocument{
		Title: titleFor(doc.Topic),
		Pages: []vdxPage{{ID: 0, Name: "Page-1", Shapes: shapes}},
	}
	data, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling diagram: %w", err)
	}
	return os.WriteFile(path, append([]byte(xml.Header), data...), 0o644)
}
