// Package history provides bounded undo/redo over serialized snapshots of
// a diagram's shapes and connections. The viewport is deliberately
// excluded: undoing an edit should not yank the view around.
package history

import (
	"encoding/json"

	"mapedit/pkg/diagram"
)

// DefaultCapacity bounds the undo stack when no capacity is given.
const DefaultCapacity = 20

// state is the serialized unit of history.
type state struct {
	Shapes      []diagram.Shape      `json:"shapes"`
	Connections []diagram.Connection `json:"connections"`
}

// History manages the undo and redo stacks. Snapshot is called
// immediately before each mutating operation begins; undo/redo exchange
// the current document for a stored one.
type History struct {
	undo []string // serialized states, oldest first
	redo []string
	max  int
}

// New creates a history manager with the given capacity. Non-positive
// capacities fall back to DefaultCapacity.
func New(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &History{max: capacity}
}

func encode(d *diagram.Diagram) (string, error) {
	data, err := json.Marshal(state{Shapes: d.Shapes, Connections: d.Connections})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decode(s string, viewport diagram.Viewport) (*diagram.Diagram, error) {
	var st state
	if err := json.Unmarshal([]byte(s), &st); err != nil {
		return nil, err
	}
	return &diagram.Diagram{
		Shapes:      st.Shapes,
		Connections: st.Connections,
		Viewport:    viewport,
	}, nil
}

// Snapshot pushes the current state onto the undo stack. It is a no-op
// when the serialized form equals the top of the stack, so repeated
// no-op gestures do not balloon history. Every effective push clears the
// redo stack and evicts the oldest entry beyond capacity.
func (h *History) Snapshot(d *diagram.Diagram) error {
	s, err := encode(d)
	if err != nil {
		return err
	}
	if len(h.undo) > 0 && h.undo[len(h.undo)-1] == s {
		return nil
	}
	h.undo = append(h.undo, s)
	if len(h.undo) > h.max {
		h.undo = h.undo[1:]
	}
	h.redo = nil
	return nil
}

// CanUndo reports whether an undo entry is available.
func (h *History) CanUndo() bool {
	return len(h.undo) > 0
}

// CanRedo reports whether a redo entry is available. Redo is only valid
// immediately after an undo with no intervening mutation.
func (h *History) CanRedo() bool {
	return len(h.redo) > 0
}

// Undo returns the previous state, saving the current diagram to the
// redo stack. Returns nil when there is nothing to undo. The restored
// diagram keeps the current viewport.
func (h *History) Undo(current *diagram.Diagram) (*diagram.Diagram, error) {
	if !h.CanUndo() {
		return nil, nil
	}
	cur, err := encode(current)
	if err != nil {
		return nil, err
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, cur)
	return decode(top, current.Viewport)
}

// Redo returns the state undone last, saving the current diagram back to
// the undo stack. Returns nil when there is nothing to redo.
func (h *History) Redo(current *diagram.Diagram) (*diagram.Diagram, error) {
	if !h.CanRedo() {
		return nil, nil
	}
	cur, err := encode(current)
	if err != nil {
		return nil, err
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, cur)
	return decode(top, current.Viewport)
}

// Len returns the number of undo entries currently held.
func (h *History) Len() int {
	return len(h.undo)
}

// Clear drops both stacks.
func (h *History) Clear() {
	h.undo = nil
	h.redo = nil
}
