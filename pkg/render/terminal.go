package render

import (
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"mapedit/pkg/content"
	"mapedit/pkg/diagram"
	"mapedit/pkg/geometry"
)

// One terminal cell covers this many screen units. Screen-space
// coordinates divide by these to land on a cell.
const (
	cellW = 8.0
	cellH = 16.0
)

type terminalShape struct {
	shape diagram.Shape
	rect  geometry.Rect
}

type terminalConn struct {
	conn diagram.Connection
	pts  []geometry.Point
}

// Terminal is a Backend drawing into a tcell screen. Elements are kept
// keyed by id so patches mutate the stored geometry; Flush repaints the
// canvas region from that state.
type Terminal struct {
	screen tcell.Screen

	shapes   map[string]*terminalShape
	shapeIDs []string
	conns    map[string]*terminalConn
	connIDs  []string
	aff      map[string]Affordances
}

// NewTerminal returns a backend drawing into screen. The bottom row is
// reserved for the caller's status bar.
func NewTerminal(screen tcell.Screen) *Terminal {
	t := &Terminal{screen: screen}
	t.Clear()
	return t
}

func (t *Terminal) Clear() {
	t.shapes = make(map[string]*terminalShape)
	t.shapeIDs = nil
	t.conns = make(map[string]*terminalConn)
	t.connIDs = nil
	t.aff = make(map[string]Affordances)
}

func (t *Terminal) UpsertShape(s diagram.Shape, r geometry.Rect) {
	if _, ok := t.shapes[s.ID]; !ok {
		t.shapeIDs = append(t.shapeIDs, s.ID)
	}
	t.shapes[s.ID] = &terminalShape{shape: s, rect: r}
}

func (t *Terminal) UpsertConnection(c diagram.Connection, pts []geometry.Point) {
	if _, ok := t.conns[c.ID]; !ok {
		t.connIDs = append(t.connIDs, c.ID)
	}
	t.conns[c.ID] = &terminalConn{conn: c, pts: pts}
}

func (t *Terminal) PatchShape(id string, p ShapePatch) {
	if ts, ok := t.shapes[id]; ok {
		ts.rect = geometry.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
	}
}

func (t *Terminal) SetAffordances(id string, a *Affordances) {
	if a == nil {
		delete(t.aff, id)
		return
	}
	t.aff[id] = *a
}

// Flush repaints connections, then shapes, then affordances, and shows
// the screen. The caller draws its own chrome before Flush.
func (t *Terminal) Flush() {
	w, h := t.screen.Size()
	canvasH := h - 1
	for row := 0; row < canvasH; row++ {
		for col := 0; col < w; col++ {
			t.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
		}
	}
	for _, id := range t.connIDs {
		t.drawConnection(t.conns[id], w, canvasH)
	}
	for _, id := range t.shapeIDs {
		t.drawShape(t.shapes[id], w, canvasH)
	}
	for id, a := range t.aff {
		if _, ok := t.shapes[id]; ok {
			t.drawAffordances(a, w, canvasH)
		}
	}
	t.screen.Show()
}

func (t *Terminal) drawShape(ts *terminalShape, maxW, maxH int) {
	x := int(ts.rect.X / cellW)
	y := int(ts.rect.Y / cellH)
	w := int(ts.rect.W / cellW)
	h := int(ts.rect.H / cellH)
	if w < 2 {
		w = 2
	}
	if h < 2 {
		h = 2
	}
	style := tcell.StyleDefault.Foreground(hexColor(ts.shape.Style.Border))

	tl, tr, bl, br := '┌', '┐', '└', '┘'
	switch ts.shape.Kind {
	case diagram.KindRoundedRect, diagram.KindEllipse:
		tl, tr, bl, br = '╭', '╮', '╰', '╯'
	case diagram.KindDiamond, diagram.KindHexagon:
		tl, tr, bl, br = '/', '\\', '\\', '/'
	}

	t.setCell(x, y, tl, style, maxW, maxH)
	t.setCell(x+w-1, y, tr, style, maxW, maxH)
	t.setCell(x, y+h-1, bl, style, maxW, maxH)
	t.setCell(x+w-1, y+h-1, br, style, maxW, maxH)
	for i := 1; i < w-1; i++ {
		t.setCell(x+i, y, '─', style, maxW, maxH)
		t.setCell(x+i, y+h-1, '─', style, maxW, maxH)
	}
	for i := 1; i < h-1; i++ {
		t.setCell(x, y+i, '│', style, maxW, maxH)
		t.setCell(x+w-1, y+i, '│', style, maxW, maxH)
		for j := 1; j < w-1; j++ {
			t.setCell(x+j, y+i, ' ', tcell.StyleDefault, maxW, maxH)
		}
	}

	label := []rune(firstLine(content.Flatten(ts.shape.Content)))
	if len(label) == 0 {
		return
	}
	if len(label) > w-2 && w > 3 {
		label = append(label[:w-3], '…')
	}
	lx := x + (w-len(label))/2
	ly := y + h/2
	textStyle := tcell.StyleDefault.Foreground(hexColor(ts.shape.TextStyle.Color))
	for i, r := range label {
		t.setCell(lx+i, ly, r, textStyle, maxW, maxH)
	}
}

func (t *Terminal) drawConnection(tc *terminalConn, maxW, maxH int) {
	style := tcell.StyleDefault.Foreground(hexColor(tc.conn.Style.Stroke))
	for i := 0; i+1 < len(tc.pts); i++ {
		t.drawSegment(tc.pts[i], tc.pts[i+1], style, maxW, maxH)
	}
	if tc.conn.Style.Arrow != diagram.ArrowNone && len(tc.pts) > 0 {
		end := tc.pts[len(tc.pts)-1]
		t.setCell(int(end.X/cellW), int(end.Y/cellH), '▶', style, maxW, maxH)
	}
}

func (t *Terminal) drawSegment(a, b geometry.Point, style tcell.Style, maxW, maxH int) {
	x0, y0 := int(a.X/cellW), int(a.Y/cellH)
	x1, y1 := int(b.X/cellW), int(b.Y/cellH)
	dx, dy := abs(x1-x0), abs(y1-y0)
	steps := dx
	if dy > steps {
		steps = dy
	}
	if steps == 0 {
		return
	}
	for i := 0; i <= steps; i++ {
		cx := x0 + (x1-x0)*i/steps
		cy := y0 + (y1-y0)*i/steps
		r := '·'
		if dy == 0 {
			r = '─'
		} else if dx == 0 {
			r = '│'
		}
		t.setCell(cx, cy, r, style, maxW, maxH)
	}
}

func (t *Terminal) drawAffordances(a Affordances, maxW, maxH int) {
	handleStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	anchorStyle := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	for _, p := range a.Handles {
		t.setCell(int(p.X/cellW), int(p.Y/cellH), '■', handleStyle, maxW, maxH)
	}
	for _, p := range a.Anchors {
		t.setCell(int(p.X/cellW), int(p.Y/cellH), '+', anchorStyle, maxW, maxH)
	}
}

func (t *Terminal) setCell(x, y int, r rune, style tcell.Style, maxW, maxH int) {
	if x < 0 || y < 0 || x >= maxW || y >= maxH {
		return
	}
	t.screen.SetContent(x, y, r, nil, style)
}

// CellToScreen converts a terminal cell position to screen-space
// coordinates at the cell's center. Input handling uses it to map
// tcell mouse events into the coordinate system the rest of the
// editor works in.
func CellToScreen(col, row int) geometry.Point {
	return geometry.Point{X: (float64(col) + 0.5) * cellW, Y: (float64(row) + 0.5) * cellH}
}

// ScreenToCell is the inverse of CellToScreen.
func ScreenToCell(p geometry.Point) (col, row int) {
	return int(p.X / cellW), int(p.Y / cellH)
}

func hexColor(s string) tcell.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return tcell.ColorDefault
	}
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
