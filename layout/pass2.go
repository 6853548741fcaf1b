package layout

// assignPositions is Pass 2: turns each node's (row, col) grid
// coordinate into a pixel position, given every row's tallest node and
// every column's widest node.
func (l *Layout) assignPositions(maxRow, maxCol int) (totalW, totalH int) {
	rowHeight := make([]int, maxRow+1)
	colWidth := make([]int, maxCol+1)

	for id, c := range l.cells {
		s := l.sizeOf(id)
		if c.row >= 0 && c.row < len(rowHeight) && s.H > rowHeight[c.row] {
			rowHeight[c.row] = s.H
		}
		if c.col >= 0 && c.col < len(colWidth) && s.W > colWidth[c.col] {
			colWidth[c.col] = s.W
		}
	}

	rowPos := make([]int, len(rowHeight)+1)
	for r := range rowHeight {
		rowPos[r+1] = rowPos[r] + l.Opts.HeightPad + rowHeight[r]
	}
	colPos := make([]int, len(colWidth)+1)
	for c := range colWidth {
		colPos[c+1] = colPos[c] + l.Opts.NodePad + colWidth[c]
	}

	for id, c := range l.cells {
		s := l.sizeOf(id)
		cellX, cellY := 0, 0
		if c.col >= 0 && c.col < len(colPos) {
			cellX = colPos[c.col]
		}
		if c.row >= 0 && c.row < len(rowPos) {
			cellY = rowPos[c.row]
		}
		colW, rowH := 0, 0
		if c.col >= 0 && c.col < len(colWidth) {
			colW = colWidth[c.col]
		}
		if c.row >= 0 && c.row < len(rowHeight) {
			rowH = rowHeight[c.row]
		}
		c.pos.X = cellX + (colW-s.W)/2
		c.pos.Y = cellY + (rowH-s.H)/2

		if n, ok := l.g.GetNode(id); ok {
			n.Props["row"] = c.row
			n.Props["col"] = c.col
			n.Props["position"] = c.pos
		}
	}

	return colPos[len(colPos)-1], rowPos[len(rowPos)-1]
}
