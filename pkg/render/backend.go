// Package render projects the diagram model into a live visual tree,
// keyed by shape and connection identity. A Backend owns the actual
// drawing substrate; the Engine decides what to draw and when.
package render

import (
	"mapedit/pkg/diagram"
	"mapedit/pkg/geometry"
)

// ShapePatch is the bounded attribute set mutated on the live update
// path. All values are screen space.
type ShapePatch struct {
	X, Y, W, H float64
}

// Affordances are the selection decorations for a shape: resize handles
// at the corners and connection anchors at the side midpoints. All
// points are screen space.
type Affordances struct {
	Handles []geometry.Point
	Anchors []geometry.Point
}

// Backend is a visual substrate the engine draws into. Implementations
// keep one element per id; Upsert creates or replaces it, PatchShape
// mutates position and size in place without replacing the element.
// Flush makes accumulated changes visible.
type Backend interface {
	// Clear drops every element. Used on structural rebuilds.
	Clear()

	// UpsertShape creates or replaces the element for s at the given
	// screen rect.
	UpsertShape(s diagram.Shape, r geometry.Rect)

	// UpsertConnection creates or replaces the element for c with the
	// given screen polyline.
	UpsertConnection(c diagram.Connection, pts []geometry.Point)

	// PatchShape moves and sizes the existing element for id.
	PatchShape(id string, p ShapePatch)

	// SetAffordances attaches selection decorations to the element for
	// id. A nil value removes them.
	SetAffordances(id string, a *Affordances)

	// Flush presents pending changes.
	Flush()
}
