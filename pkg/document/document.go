// Package document defines the persisted envelope around a diagram and
// the JSON file store used by the editor binary. The editor core is
// agnostic to where documents are written; anything satisfying Store
// works.
package document

import (
	"strings"
	"time"
	"unicode"

	"mapedit/pkg/content"
	"mapedit/pkg/diagram"
)

// Document is the unit of persistence: one diagram plus the metadata the
// owning application needs (title, section, tags, timestamps).
type Document struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	SectionID   string               `json:"sectionId"`
	Tags        []string             `json:"tags"`
	Nodes       []diagram.Shape      `json:"nodes"`
	Connections []diagram.Connection `json:"connections"`
	Viewport    diagram.Viewport     `json:"viewport"`
	CreatedAt   time.Time            `json:"createdAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// New creates an empty document with a fresh id and timestamps.
func New(title string) *Document {
	now := time.Now().UTC()
	return &Document{
		ID:        diagram.NewID(),
		Title:     title,
		Tags:      []string{},
		Viewport:  diagram.Viewport{Zoom: 1},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// FromDiagram captures a deep copy of the diagram into the document, so
// a save can never observe a half-updated state mid-drag.
func (doc *Document) FromDiagram(d *diagram.Diagram) {
	c := d.Clone()
	doc.Nodes = c.Shapes
	doc.Connections = c.Connections
	doc.Viewport = c.Viewport
}

// ToDiagram builds a live diagram from the document. Connections
// referencing missing shapes are dropped rather than failing the load.
func (doc *Document) ToDiagram() *diagram.Diagram {
	d := &diagram.Diagram{
		Shapes:      make([]diagram.Shape, len(doc.Nodes)),
		Connections: make([]diagram.Connection, len(doc.Connections)),
		Viewport:    doc.Viewport,
	}
	copy(d.Shapes, doc.Nodes)
	copy(d.Connections, doc.Connections)
	if d.Viewport.Zoom == 0 {
		d.Viewport.Zoom = 1
	}
	d.DropDanglingConnections()
	return d
}

// SearchEntry is what the owning application pushes into its inverted
// index on save. The core never queries the index.
type SearchEntry struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Text  string `json:"searchableText"`
}

// BuildSearchEntry flattens every node's content into indexable text.
func BuildSearchEntry(doc *Document) SearchEntry {
	var sb strings.Builder
	for _, n := range doc.Nodes {
		text := strings.TrimSpace(content.Flatten(n.Content))
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return SearchEntry{ID: doc.ID, Title: doc.Title, Text: sb.String()}
}

// ExportFilename derives a download filename from the document title:
// non-alphanumeric characters stripped, with a fallback for titles that
// strip to nothing.
func ExportFilename(title, ext string) string {
	var sb strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	name := sb.String()
	if name == "" {
		name = "diagram"
	}
	return name + ext
}
