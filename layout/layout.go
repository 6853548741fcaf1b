// Package layout implements the CFG Layout Engine (component H): a
// three-pass hierarchical grid layout (recursive grid assignment,
// position assignment, polyline edge routing) over a graph.Graph
// whose nodes already carry a pre-populated size.
package layout

import "github.com/tinbound/armflow/graph"

// Variant selects Pass 1's column-spacing rule.
type Variant int

const (
	Narrow Variant = iota // default, matching spec.md
	Medium
	Wide
)

// Options externalizes the constants spec.md names only
// descriptively, so config can tune them per deployment.
type Options struct {
	NodePad       int
	HeightPad     int
	EdgeDistance  int // cap on inter-anchor spacing along a node edge
}

// DefaultOptions mirrors the teacher's habit of naming its magic
// layout constants once, centrally.
func DefaultOptions() Options {
	return Options{NodePad: 20, HeightPad: 20, EdgeDistance: 12}
}

// Size is a node's pre-rendered pixel dimensions.
type Size struct{ W, H int }

// cell is the per-node layout bookkeeping Pass 1/2 accumulate. It is
// keyed by node id in Layout.cells rather than stuffed into
// graph.Props directly, so the layout engine doesn't need write
// access to a shared Props map mid-recursion.
type cell struct {
	row, col           int
	rowCount, colCount int
	size               Size
	pos                graph.Point
}

// Layout runs the three-pass engine over g starting at each
// hierarchical root, using variant for Pass 1's column rule and sizes
// for each node's pre-rendered dimensions (every node referenced by a
// root's reachable set must have an entry).
type Layout struct {
	Opts    Options
	Variant Variant

	g      *graph.Graph
	sizes  map[string]Size
	cells  map[string]*cell
	placed map[string]bool
}

// New prepares a Layout run. Run (whose passes live in pass1.go/
// pass2.go/pass3.go) is not safe for concurrent use on the same receiver, matching the
// single-threaded cooperative convention the whole core follows.
func New(g *graph.Graph, sizes map[string]Size, variant Variant, opts Options) *Layout {
	return &Layout{
		Opts:    opts,
		Variant: variant,
		g:       g,
		sizes:   sizes,
		cells:   map[string]*cell{},
		placed:  map[string]bool{},
	}
}

// Result is the outcome of a layout run: total canvas dimensions, plus
// the per-node positions and per-edge polylines written back into the
// graph's Props so callers read them the normal graph.Props way.
type Result struct {
	Width, Height int
}

// Run executes all three passes over every hierarchical root in g and
// writes row/col/position/edge_points into each reached node/edge's
// Props.
func (l *Layout) Run() Result {
	maxRow, maxCol := 0, 0
	colOffset := 0
	for _, root := range l.g.GetHierRootNodes() {
		l.assignGrid(root.ID, map[string]bool{})
		width := l.shiftSubtree(root.ID, colOffset, map[string]bool{})
		colOffset += width
		if c := l.cells[root.ID]; c != nil {
			if c.row+c.rowCount > maxRow {
				maxRow = c.row + c.rowCount
			}
			if c.col+c.colCount > maxCol {
				maxCol = c.col + c.colCount
			}
		}
	}

	w, h := l.assignPositions(maxRow, maxCol)
	l.routeEdges()
	return Result{Width: w, Height: h}
}
