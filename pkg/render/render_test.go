package render

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mapedit/pkg/diagram"
	"mapedit/pkg/geometry"
)

// fakeBackend records every call so tests can assert which update path
// the engine took.
type fakeBackend struct {
	clears  int
	flushes int
	shapes  map[string]geometry.Rect
	conns   map[string][]geometry.Point
	patches []string
	aff     map[string]*Affordances
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{}
	b.Clear()
	b.clears = 0
	return b
}

func (b *fakeBackend) Clear() {
	b.clears++
	b.shapes = make(map[string]geometry.Rect)
	b.conns = make(map[string][]geometry.Point)
	b.aff = make(map[string]*Affordances)
}

func (b *fakeBackend) UpsertShape(s diagram.Shape, r geometry.Rect) {
	b.shapes[s.ID] = r
}

func (b *fakeBackend) UpsertConnection(c diagram.Connection, pts []geometry.Point) {
	b.conns[c.ID] = pts
}

func (b *fakeBackend) PatchShape(id string, p ShapePatch) {
	b.patches = append(b.patches, id)
	b.shapes[id] = geometry.Rect{X: p.X, Y: p.Y, W: p.W, H: p.H}
}

func (b *fakeBackend) SetAffordances(id string, a *Affordances) {
	if a == nil {
		delete(b.aff, id)
		return
	}
	b.aff[id] = a
}

func (b *fakeBackend) Flush() { b.flushes++ }

func twoShapeDiagram() *diagram.Diagram {
	d := diagram.New()
	d.AddShape(diagram.Shape{ID: "a", X: 100, Y: 100, Width: 150, Height: 100})
	d.AddShape(diagram.Shape{ID: "b", X: 400, Y: 100, Width: 150, Height: 100})
	d.AddConnection(diagram.Connection{
		ID: "ab", From: "a", To: "b",
		FromAnchor: diagram.AnchorRight, ToAnchor: diagram.AnchorLeft,
	})
	return d
}

func TestRebuildEmitsEverything(t *testing.T) {
	b := newFakeBackend()
	e := NewEngine(b)
	e.Rebuild(twoShapeDiagram())

	if b.clears != 1 {
		t.Errorf("Rebuild should clear once, got %d", b.clears)
	}
	if len(b.shapes) != 2 || len(b.conns) != 1 {
		t.Errorf("Expected 2 shapes and 1 connection, got %d/%d", len(b.shapes), len(b.conns))
	}
	if len(b.patches) != 0 {
		t.Error("Rebuild must not use the patch path")
	}
	if b.flushes != 1 {
		t.Errorf("Expected 1 flush, got %d", b.flushes)
	}
}

func TestLivePatchesOnlyMovedShape(t *testing.T) {
	d := twoShapeDiagram()
	b := newFakeBackend()
	e := NewEngine(b)
	e.Rebuild(d)

	d.MoveShape("a", 150, 130)
	e.Live(d, "a")

	if b.clears != 1 {
		t.Error("Live path must not rebuild the tree")
	}
	if len(b.patches) != 1 || b.patches[0] != "a" {
		t.Errorf("Expected one patch for a, got %v", b.patches)
	}
	got := b.shapes["a"]
	if got.X != 150 || got.Y != 130 {
		t.Errorf("Patched rect = %+v", got)
	}
	// The attached connection follows the shape's new anchor point.
	pts := b.conns["ab"]
	if len(pts) == 0 {
		t.Fatal("Connection not recomputed")
	}
	if pts[0].X != 300 || pts[0].Y != 180 {
		t.Errorf("Connection start = %+v, want right anchor of moved shape", pts[0])
	}
}

func TestLiveAppliesViewportTransform(t *testing.T) {
	d := twoShapeDiagram()
	d.Viewport = diagram.Viewport{PanX: 10, PanY: 20, Zoom: 2}
	b := newFakeBackend()
	e := NewEngine(b)
	e.Rebuild(d)
	e.Live(d, "a")

	got := b.shapes["a"]
	if got.X != 100*2+10 || got.Y != 100*2+20 || got.W != 300 {
		t.Errorf("Screen rect = %+v", got)
	}
}

func TestSelectMovesAffordances(t *testing.T) {
	d := twoShapeDiagram()
	b := newFakeBackend()
	e := NewEngine(b)
	e.Rebuild(d)

	e.Select(d, "a")
	if b.aff["a"] == nil {
		t.Fatal("Selection should attach affordances")
	}
	a := b.aff["a"]
	if len(a.Handles) != 4 || len(a.Anchors) != 4 {
		t.Errorf("Expected 4 handles and 4 anchors, got %d/%d", len(a.Handles), len(a.Anchors))
	}
	if (a.Anchors[1] != geometry.Point{X: 250, Y: 150}) {
		t.Errorf("Right anchor = %+v", a.Anchors[1])
	}

	e.Select(d, "b")
	if b.aff["a"] != nil {
		t.Error("Previous selection should lose affordances")
	}
	if b.aff["b"] == nil {
		t.Error("New selection should gain affordances")
	}

	e.Select(d, "")
	if len(b.aff) != 0 {
		t.Error("Deselect should clear affordances")
	}
}

func TestSelectSameShapeIsNoOp(t *testing.T) {
	d := twoShapeDiagram()
	b := newFakeBackend()
	e := NewEngine(b)
	e.Select(d, "a")
	flushes := b.flushes
	e.Select(d, "a")
	if b.flushes != flushes {
		t.Error("Reselecting the same shape should not flush")
	}
}

func TestThrottleCoalesces(t *testing.T) {
	th := NewThrottle(5 * time.Millisecond)
	defer th.Stop()

	var runs int64
	var mu sync.Mutex
	last := 0
	for i := 1; i <= 10; i++ {
		i := i
		th.Submit(func() {
			atomic.AddInt64(&runs, 1)
			mu.Lock()
			last = i
			mu.Unlock()
		})
	}
	time.Sleep(50 * time.Millisecond)

	if n := atomic.LoadInt64(&runs); n != 1 {
		t.Errorf("Expected 1 coalesced run, got %d", n)
	}
	mu.Lock()
	defer mu.Unlock()
	if last != 10 {
		t.Errorf("Latest submission should win, ran %d", last)
	}
}

func TestThrottleFlushRunsImmediately(t *testing.T) {
	th := NewThrottle(time.Hour)
	defer th.Stop()

	ran := false
	th.Submit(func() { ran = true })
	th.Flush()
	if !ran {
		t.Error("Flush should run the pending function")
	}
	th.Flush() // second flush with nothing pending is a no-op
}

func TestThrottleStopDiscardsPending(t *testing.T) {
	th := NewThrottle(time.Hour)
	ran := false
	th.Submit(func() { ran = true })
	th.Stop()
	th.Flush()
	if ran {
		t.Error("Stop should discard the pending function")
	}
}
