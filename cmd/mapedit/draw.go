package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"mapedit/pkg/render"
)

var (
	styleStatus     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleMsgInfo    = tcell.StyleDefault.Foreground(tcell.ColorSilver).Background(tcell.ColorNavy)
	styleMsgError   = tcell.StyleDefault.Foreground(tcell.ColorRed).Background(tcell.ColorNavy).Bold(true)
	styleMsgSuccess = tcell.StyleDefault.Foreground(tcell.ColorGreen).Background(tcell.ColorNavy)
	styleRubber     = tcell.StyleDefault.Foreground(tcell.NewRGBColor(200, 162, 200)) // Lilac
)

// drawStatus paints the bottom status row: title, modified marker,
// interaction state, grid setting, and the last message.
func (a *App) drawStatus() {
	w, h := a.screen.Size()
	row := h - 1
	if row < 0 {
		return
	}

	mark := " "
	if a.modified {
		mark = "*"
	}
	grid := "off"
	if a.session.GridEnabled() {
		grid = "on"
	}
	left := fmt.Sprintf(" %s%s  [%s]  grid:%s ", a.doc.Title, mark, a.session.State(), grid)

	for col := 0; col < w; col++ {
		a.screen.SetContent(col, row, ' ', nil, styleStatus)
	}
	putString(a.screen, 0, row, left, styleStatus)

	if a.message != "" {
		style := styleMsgInfo
		switch a.messageType {
		case MsgError:
			style = styleMsgError
		case MsgSuccess:
			style = styleMsgSuccess
		}
		putString(a.screen, len(left)+2, row, a.message, style)
	}
}

// drawOverlay paints transient chrome on top of the rendered canvas:
// currently the connection rubber band.
func (a *App) drawOverlay() {
	from, to, ok := a.session.RubberBand()
	if !ok {
		return
	}
	w, h := a.screen.Size()
	x0, y0 := render.ScreenToCell(from)
	x1, y1 := render.ScreenToCell(to)
	dx, dy := abs(x1-x0), abs(y1-y0)
	steps := dx
	if dy > steps {
		steps = dy
	}
	for i := 0; i <= steps; i++ {
		cx, cy := x0, y0
		if steps > 0 {
			cx = x0 + (x1-x0)*i/steps
			cy = y0 + (y1-y0)*i/steps
		}
		if cx >= 0 && cy >= 0 && cx < w && cy < h-1 {
			a.screen.SetContent(cx, cy, '·', nil, styleRubber)
		}
	}
	a.screen.Show()
}

func putString(s tcell.Screen, x, y int, text string, style tcell.Style) {
	w, _ := s.Size()
	for i, r := range text {
		if x+i >= w {
			break
		}
		s.SetContent(x+i, y, r, nil, style)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
