package layout

import "github.com/tinbound/armflow/graph"

// routeEdges is Pass 3: distributes per-node anchor points across the
// bottom/top edges of source/destination nodes and builds each edge's
// polyline.
func (l *Layout) routeEdges() {
	outCount := map[string]int{}
	inCount := map[string]int{}
	outSeen := map[string]int{}
	inSeen := map[string]int{}

	edges := l.g.Edges()
	for _, e := range edges {
		outCount[e.Src]++
		inCount[e.Dst]++
	}

	vpad := l.Opts.HeightPad

	for _, e := range edges {
		srcCell, srcOK := l.cells[e.Src]
		dstCell, dstOK := l.cells[e.Dst]
		if !srcOK || !dstOK {
			continue
		}
		srcSize := l.sizeOf(e.Src)
		dstSize := l.sizeOf(e.Dst)

		srcIdx := outSeen[e.Src]
		outSeen[e.Src]++
		dstIdx := inSeen[e.Dst]
		inSeen[e.Dst]++

		srcAnchor := l.anchor(srcCell.pos.X, srcCell.pos.X+srcSize.W, outCount[e.Src], srcIdx)
		dstAnchor := l.anchor(dstCell.pos.X, dstCell.pos.X+dstSize.W, inCount[e.Dst], dstIdx)

		src := graph.Point{X: srcAnchor, Y: srcCell.pos.Y + srcSize.H}
		dst := graph.Point{X: dstAnchor, Y: dstCell.pos.Y}

		var pts []graph.Point
		switch {
		case srcCell.row == dstCell.row:
			pts = []graph.Point{
				src,
				{X: src.X, Y: src.Y - vpad/2},
				{X: dst.X, Y: dst.Y - vpad/2},
				dst,
			}
		case srcCell.row < dstCell.row:
			pts = []graph.Point{
				src,
				{X: src.X, Y: src.Y + vpad/2},
				{X: dst.X, Y: dst.Y - vpad/2},
				dst,
			}
		default: // back edge: double out of the source before reversing
			pts = []graph.Point{
				src,
				{X: src.X, Y: src.Y + vpad/2},
				{X: src.X, Y: src.Y + vpad},
				{X: dst.X, Y: dst.Y - vpad},
				{X: dst.X, Y: dst.Y - vpad/2},
				dst,
			}
		}

		e.Props["edge_points"] = pts
	}
}

// anchor distributes count points evenly across [lo, hi), spacing
// capped at Opts.EdgeDistance, and returns the idx'th one.
func (l *Layout) anchor(lo, hi, count, idx int) int {
	if count <= 1 {
		return (lo + hi) / 2
	}
	span := hi - lo
	step := span / (count + 1)
	if step > l.Opts.EdgeDistance {
		step = l.Opts.EdgeDistance
		center := (lo + hi) / 2
		start := center - step*(count-1)/2
		return start + step*idx
	}
	return lo + step*(idx+1)
}
