package layout

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tinbound/armflow/graph"
)

func diamond() (*graph.Graph, map[string]Size) {
	g := graph.New()
	g.AddHierRootNode("entry")
	g.AddEdgeByNids("entry", "left", nil)
	g.AddEdgeByNids("entry", "right", nil)
	g.AddEdgeByNids("left", "join", nil)
	g.AddEdgeByNids("right", "join", nil)
	sizes := map[string]Size{
		"entry": {W: 40, H: 20},
		"left":  {W: 40, H: 20},
		"right": {W: 40, H: 20},
		"join":  {W: 40, H: 20},
	}
	return g, sizes
}

func TestLayoutAssignsDistinctRowsByDepth(t *testing.T) {
	g, sizes := diamond()
	l := New(g, sizes, Narrow, DefaultOptions())
	l.Run()
	entryRow := l.cells["entry"].row
	leftRow := l.cells["left"].row
	joinRow := l.cells["join"].row
	if !(entryRow < leftRow && leftRow < joinRow) {
		t.Fatalf("rows not strictly increasing by depth: entry=%d left=%d join=%d", entryRow, leftRow, joinRow)
	}
}

func TestLayoutSiblingsGetDistinctColumns(t *testing.T) {
	g, sizes := diamond()
	l := New(g, sizes, Narrow, DefaultOptions())
	l.Run()
	if l.cells["left"].col == l.cells["right"].col {
		t.Fatal("left and right siblings were assigned the same column")
	}
}

func TestLayoutWritesPositionsIntoNodeProps(t *testing.T) {
	g, sizes := diamond()
	l := New(g, sizes, Narrow, DefaultOptions())
	l.Run()
	n, _ := g.GetNode("join")
	if _, ok := n.Props["position"]; !ok {
		t.Fatal("node props missing position after Run")
	}
}

func TestLayoutRoutesEdgesWithNonEmptyPolylines(t *testing.T) {
	g, sizes := diamond()
	l := New(g, sizes, Narrow, DefaultOptions())
	l.Run()
	for _, e := range g.Edges() {
		pts := e.Props.EdgePoints()
		if len(pts) == 0 {
			t.Fatalf("edge %s has no routed polyline", e.ID)
		}
	}
}

func TestLayoutIsDeterministicAcrossRuns(t *testing.T) {
	g1, sizes1 := diamond()
	New(g1, sizes1, Narrow, DefaultOptions()).Run()
	pos1 := positionsOf(g1)

	g2, sizes2 := diamond()
	New(g2, sizes2, Narrow, DefaultOptions()).Run()
	pos2 := positionsOf(g2)

	if diff := cmp.Diff(pos1, pos2); diff != "" {
		t.Fatalf("layout is not deterministic across identical runs (-first +second):\n%s", diff)
	}
}

func positionsOf(g *graph.Graph) map[string]graph.Point {
	out := map[string]graph.Point{}
	for _, id := range []string{"entry", "left", "right", "join"} {
		if n, ok := g.GetNode(id); ok {
			if p, ok := n.Props["position"].(graph.Point); ok {
				out[id] = p
			}
		}
	}
	return out
}

func TestLayoutCycleDoesNotHang(t *testing.T) {
	g := graph.New()
	g.AddHierRootNode("a")
	g.AddEdgeByNids("a", "b", nil)
	g.AddEdgeByNids("b", "a", nil)
	sizes := map[string]Size{"a": {W: 10, H: 10}, "b": {W: 10, H: 10}}
	l := New(g, sizes, Narrow, DefaultOptions())
	done := make(chan struct{})
	go func() {
		l.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not terminate on a cyclic graph")
	}
}
