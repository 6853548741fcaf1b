package graph

// Path is a sequence of node ids from a hierarchical root to some
// node (or through it, for GetHierPathsThru).
type Path []string

// GetHierPathsFrom enumerates every acyclic path starting at id and
// following outgoing edges. A "visited along this path" set breaks
// loops so a cycle contributes its acyclic prefix exactly once rather
// than looping forever.
func (g *Graph) GetHierPathsFrom(id string) []Path {
	var out []Path
	g.walkPaths(id, map[string]bool{}, Path{id}, &out)
	return out
}

func (g *Graph) walkPaths(id string, visited map[string]bool, prefix Path, out *[]Path) {
	if visited[id] {
		*out = append(*out, append(Path(nil), prefix...))
		return
	}
	visited[id] = true
	defer delete(visited, id)

	succs := g.GetRefsFrom(id)
	if len(succs) == 0 {
		*out = append(*out, append(Path(nil), prefix...))
		return
	}
	for _, next := range succs {
		g.walkPaths(next, visited, append(prefix, next), out)
	}
}

// GetHierPathsTo enumerates every path from a hierarchical root to id,
// by walking forward from each root and cutting each path at id.
func (g *Graph) GetHierPathsTo(id string) []Path {
	var out []Path
	for _, root := range g.GetHierRootNodes() {
		for _, p := range g.GetHierPathsFrom(root.ID) {
			if idx := indexOf(p, id); idx >= 0 {
				out = append(out, append(Path(nil), p[:idx+1]...))
			}
		}
	}
	return out
}

// GetHierPathsThru enumerates every acyclic root-to-leaf path that
// passes through id.
func (g *Graph) GetHierPathsThru(id string) []Path {
	var out []Path
	for _, root := range g.GetHierRootNodes() {
		for _, p := range g.GetHierPathsFrom(root.ID) {
			if indexOf(p, id) >= 0 {
				out = append(out, p)
			}
		}
	}
	return out
}

// GetHierPathCount returns the total number of distinct root-to-leaf
// paths in the graph.
func (g *Graph) GetHierPathCount() int {
	count := 0
	for _, root := range g.GetHierRootNodes() {
		count += len(g.GetHierPathsFrom(root.ID))
	}
	return count
}

func indexOf(p Path, id string) int {
	for i, v := range p {
		if v == id {
			return i
		}
	}
	return -1
}
