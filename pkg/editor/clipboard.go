package editor

import (
	"encoding/json"
	"fmt"

	"github.com/atotto/clipboard"

	"mapedit/pkg/diagram"
)

// pasteOffset keeps a pasted shape from landing exactly on its source.
const pasteOffset = 16.0

// Copy puts the selected shape on the system clipboard as JSON. With no
// shape selected it does nothing.
func (s *Session) Copy() error {
	sh := s.diagram.FindShape(s.selectedShape)
	if sh == nil {
		return nil
	}
	data, err := json.Marshal(sh)
	if err != nil {
		return fmt.Errorf("copy shape: %w", err)
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		return fmt.Errorf("copy shape: %w", err)
	}
	return nil
}

// Paste inserts the clipboard shape, offset from its source position,
// with a fresh id, and selects it. Clipboard content that is not a
// shape is ignored.
func (s *Session) Paste() Effect {
	text, err := clipboard.ReadAll()
	if err != nil || text == "" {
		return EffectNone
	}
	var sh diagram.Shape
	if err := json.Unmarshal([]byte(text), &sh); err != nil {
		return EffectNone
	}
	if sh.Width == 0 && sh.Height == 0 {
		return EffectNone
	}
	eff := s.CommitEdit()
	s.nudgeActive = false
	sh.ID = ""
	sh.X += pasteOffset
	sh.Y += pasteOffset
	s.history.Snapshot(s.diagram)
	id := s.diagram.AddShape(sh)
	s.selectShape(id)
	return eff.merge(EffectStructural)
}
