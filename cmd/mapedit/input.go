package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"mapedit/pkg/diagram"
	"mapedit/pkg/editor"
	"mapedit/pkg/render"
)

func (a *App) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	buttons := ev.Buttons()
	p := render.CellToScreen(x, y)

	if buttons&tcell.WheelUp != 0 {
		a.apply(a.session.Wheel(p, 1))
		return
	}
	if buttons&tcell.WheelDown != 0 {
		a.apply(a.session.Wheel(p, -1))
		return
	}

	// Right click adds a shape at the cursor (tcell: Button2 = right)
	if buttons&tcell.Button2 != 0 {
		a.apply(a.session.AddShapeAt(p, diagram.KindRectangle))
		return
	}

	left := buttons&tcell.Button1 != 0
	switch {
	case left && !a.leftMouseDown:
		a.leftMouseDown = true
		a.lastMouseX, a.lastMouseY = x, y
		a.apply(a.session.PointerDown(p))
	case left && a.leftMouseDown:
		if x != a.lastMouseX || y != a.lastMouseY {
			a.lastMouseX, a.lastMouseY = x, y
			a.apply(a.session.PointerMove(p))
		}
	case !left && a.leftMouseDown:
		a.leftMouseDown = false
		a.apply(a.session.PointerUp(p))
	}
}

// handleKey processes a key event; returns true to quit.
func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlQ:
		return true
	case tcell.KeyCtrlS:
		a.save()
		return false
	case tcell.KeyCtrlE:
		a.export()
		return false
	case tcell.KeyCtrlZ:
		a.apply(a.session.Undo())
		return false
	case tcell.KeyCtrlY:
		a.apply(a.session.Redo())
		return false
	case tcell.KeyCtrlC:
		if err := a.session.Copy(); err != nil {
			a.setMessage(fmt.Sprintf("Copy failed: %v", err), MsgError)
		} else if a.session.SelectedShape() != "" {
			a.setMessage("Copied shape", MsgInfo)
		}
		return false
	case tcell.KeyCtrlV:
		a.apply(a.session.Paste())
		return false
	}

	if a.session.State() == editor.StateEditingText {
		switch ev.Key() {
		case tcell.KeyEscape:
			a.apply(a.session.CommitEdit())
		case tcell.KeyBackspace, tcell.KeyBackspace2:
			a.apply(a.session.Backspace())
		case tcell.KeyEnter:
			a.apply(a.session.TypeRune('\n'))
		case tcell.KeyRune:
			a.apply(a.session.TypeRune(ev.Rune()))
		}
		return false
	}

	switch ev.Key() {
	case tcell.KeyEscape:
		a.apply(a.session.Deselect())
	case tcell.KeyDelete, tcell.KeyBackspace, tcell.KeyBackspace2:
		a.apply(a.session.Delete())
	case tcell.KeyLeft:
		a.nudge(ev, -1, 0)
	case tcell.KeyRight:
		a.nudge(ev, 1, 0)
	case tcell.KeyUp:
		a.nudge(ev, 0, -1)
	case tcell.KeyDown:
		a.nudge(ev, 0, 1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'g':
			if a.session.ToggleGrid() {
				a.setMessage("Grid snapping on", MsgInfo)
			} else {
				a.setMessage("Grid snapping off", MsgInfo)
			}
		case 'k':
			a.apply(a.session.CycleSelectedKind())
		case 'r':
			a.apply(a.session.ToggleSelectedRouting())
		case 'a':
			a.apply(a.session.CycleSelectedArrow())
		case 'p':
			a.apply(a.session.CycleSelectedPattern())
		case 'q':
			return true
		}
	}
	return false
}

func (a *App) nudge(ev *tcell.EventKey, dx, dy int) {
	large := ev.Modifiers()&tcell.ModShift != 0
	a.lastNudge = time.Now()
	a.apply(a.session.Nudge(dx, dy, large))
}
