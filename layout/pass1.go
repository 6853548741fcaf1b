package layout

// assignGrid is Pass 1: recursive grid assignment. It computes, for
// every node reachable from id, a (row, col) and (row_count, col_count)
// — the node's position in a row/column grid and the size of the
// subtree rooted at it — then shifts children so siblings never share
// columns.
//
// visited guards against the graph's own cycles (a function that
// calls itself, or two blocks that loop); a node already on the
// current recursion path is treated as a leaf so the grid assignment
// always terminates.
func (l *Layout) assignGrid(id string, visited map[string]bool) *cell {
	if c, ok := l.cells[id]; ok {
		return c
	}
	if visited[id] {
		return &cell{row: 0, col: 0, rowCount: 1, colCount: 1, size: l.sizeOf(id)}
	}
	visited[id] = true
	defer delete(visited, id)

	children := l.g.GetRefsFrom(id)
	c := &cell{size: l.sizeOf(id)}
	l.cells[id] = c

	if len(children) == 0 {
		c.row, c.col = 0, 0
		c.rowCount, c.colCount = 1, 1
		return c
	}

	childCells := make([]*cell, 0, len(children))
	maxChildRowCount := 0
	totalColCount := 0
	for _, child := range children {
		cc := l.assignGrid(child, visited)
		childCells = append(childCells, cc)
		if cc.rowCount > maxChildRowCount {
			maxChildRowCount = cc.rowCount
		}
		totalColCount += cc.colCount
	}

	// Place children left-to-right at cumulative column offsets so no
	// two subtrees share a column, one row below the parent. A child
	// reached a second time through another path (a diamond merge)
	// keeps the placement its first visitor gave it: only placed[]
	// writes the offset, so the shared descendant isn't shifted twice.
	// The shift moves the child's whole subtree, each node at most once
	// here, skipping nodes on the current recursion path.
	offset := 0
	moved := map[string]bool{}
	var shift func(n string, dcol int)
	shift = func(n string, dcol int) {
		nc, ok := l.cells[n]
		if !ok || moved[n] || visited[n] {
			return
		}
		moved[n] = true
		nc.col += dcol
		nc.row++
		for _, gc := range l.g.GetRefsFrom(n) {
			shift(gc, dcol)
		}
	}
	for i, child := range children {
		cc := childCells[i]
		if !l.placed[child] {
			shift(child, offset)
			l.placed[child] = true
		}
		offset += cc.colCount
	}

	c.rowCount = maxChildRowCount + 1
	c.colCount = totalColCount
	if c.colCount == 0 {
		c.colCount = 1
	}
	c.row = 0
	c.col = l.parentColumn(childCells)
	return c
}

// parentColumn applies the selected Variant's column rule.
func (l *Layout) parentColumn(children []*cell) int {
	switch len(children) {
	case 0:
		return 0
	case 1:
		return children[0].col
	}
	first, last := children[0], children[len(children)-1]
	switch l.Variant {
	case Wide:
		if len(children) == 2 {
			return first.colCount
		}
		return (first.col + last.col) / 2
	case Medium:
		return (first.col + last.col) / 2
	default: // Narrow
		return (first.col + last.col - 2) / 2
	}
}

// shiftSubtree adds colOffset to every node's column in the subtree
// rooted at id (used to place successive hierarchical roots side by
// side) and returns the subtree's total column span.
func (l *Layout) shiftSubtree(id string, colOffset int, visited map[string]bool) int {
	if visited[id] {
		return 0
	}
	visited[id] = true
	c, ok := l.cells[id]
	if !ok {
		return 0
	}
	c.col += colOffset
	for _, child := range l.g.GetRefsFrom(id) {
		l.shiftSubtree(child, colOffset, visited)
	}
	return c.colCount
}

func (l *Layout) sizeOf(id string) Size {
	if s, ok := l.sizes[id]; ok {
		return s
	}
	return Size{W: 1, H: 1}
}
