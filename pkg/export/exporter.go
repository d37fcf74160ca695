// Package export converts diagrams into standalone image documents. It
// reads the diagram model directly and is independent of the live render
// tree.
package export

import (
	"errors"
	"fmt"

	"mapedit/pkg/diagram"
)

// ErrEmptyDiagram is returned when there is nothing to export. Callers
// surface it as a user-facing message; no file is produced.
var ErrEmptyDiagram = errors.New("diagram has no shapes to export")

// Padding in output units added around the content bounding box.
const Padding = 20.0

// Format represents an export format.
type Format string

const (
	// FormatSVG exports to a self-contained vector document.
	FormatSVG Format = "svg"
	// FormatPNG exports to a raster image.
	FormatPNG Format = "png"
)

// Exporter converts a diagram to one output format.
type Exporter interface {
	// Export renders the diagram. The diagram is treated as read-only;
	// callers hand over a deep copy when exporting mid-session.
	Export(d *diagram.Diagram) ([]byte, error)
	// FileExtension returns the extension including the dot.
	FileExtension() string
	// FormatName returns a human-readable name for this format.
	FormatName() string
}

// NewExporter creates an exporter for the specified format.
func NewExporter(format Format) (Exporter, error) {
	switch format {
	case FormatSVG:
		return NewSVGExporter(), nil
	case FormatPNG:
		return NewPNGExporter(), nil
	default:
		return nil, fmt.Errorf("unsupported export format: %s", format)
	}
}

// ParseFormat converts a string to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "svg":
		return FormatSVG, nil
	case "png":
		return FormatPNG, nil
	default:
		return "", fmt.Errorf("unknown format: %s", s)
	}
}

// AvailableFormats lists all export formats.
func AvailableFormats() []Format {
	return []Format{FormatSVG, FormatPNG}
}
