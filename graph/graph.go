// Package graph implements the Hierarchical Graph (component G): a
// directed graph of nodes and edges carrying an open property bag,
// hierarchical-root bookkeeping, and path enumeration used by the CFG
// layout engine.
package graph

import "fmt"

// Props is the open attribute bag node/edge metadata lives in (node
// props: cbva, cbsize, and the layout engine's transient row/col/size/
// position keys; edge props: the final routed polyline).
type Props map[string]any

func (p Props) getUint32(key string) (uint32, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	u, ok := v.(uint32)
	return u, ok
}

// NodeCBVA reads the code-block start VA a disassembly node carries.
func (p Props) NodeCBVA() (uint32, bool) { return p.getUint32("cbva") }

// NodeCBSize reads the code-block byte size a disassembly node carries.
func (p Props) NodeCBSize() (uint32, bool) { return p.getUint32("cbsize") }

// EdgePoints reads the routed polyline an edge carries after layout's
// pass 3; nil before layout has run.
func (p Props) EdgePoints() []Point {
	v, ok := p["edge_points"]
	if !ok {
		return nil
	}
	pts, _ := v.([]Point)
	return pts
}

func (p Props) SetEdgePoints(pts []Point) { p["edge_points"] = pts }

// Point is a layout coordinate.
type Point struct{ X, Y int }

// Node is one graph vertex: an id, its property bag, and cached
// adjacency for O(1) GetRefsFrom/To.
type Node struct {
	ID    string
	Props Props

	out []string
	in  []string
}

// Edge is one directed connection with its own property bag.
type Edge struct {
	ID       string
	Src, Dst string
	Props    Props
}

// Graph is the CodeGraph from spec.md §3.
type Graph struct {
	nodes     map[string]*Node
	edges     map[string]*Edge
	hierRoots map[string]bool
	nextEdge  int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		nodes:     map[string]*Node{},
		edges:     map[string]*Edge{},
		hierRoots: map[string]bool{},
	}
}

// AddNode inserts a node with id, returning it. Re-adding an existing
// id returns the existing node unchanged (FormNode is the keyed
// create-or-return variant with custom construction; AddNode is the
// simple form).
func (g *Graph) AddNode(id string, props Props) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	if props == nil {
		props = Props{}
	}
	n := &Node{ID: id, Props: props}
	g.nodes[id] = n
	return n
}

// AddHierRootNode marks id as a hierarchical root, creating the node
// first if it doesn't exist.
func (g *Graph) AddHierRootNode(id string) *Node {
	n := g.AddNode(id, nil)
	g.hierRoots[id] = true
	return n
}

// AddEdgeByNids connects src->dst, creating both endpoints if absent.
func (g *Graph) AddEdgeByNids(src, dst string, props Props) *Edge {
	g.AddNode(src, nil)
	g.AddNode(dst, nil)
	if props == nil {
		props = Props{}
	}
	id := fmt.Sprintf("e%d", g.nextEdge)
	g.nextEdge++
	e := &Edge{ID: id, Src: src, Dst: dst, Props: props}
	g.edges[id] = e
	g.nodes[src].out = append(g.nodes[src].out, dst)
	g.nodes[dst].in = append(g.nodes[dst].in, src)
	return e
}

// GetNode looks up a node by id.
func (g *Graph) GetNode(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// GetRefsFrom returns the ids of nodes id has an outgoing edge to.
func (g *Graph) GetRefsFrom(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return append([]string(nil), n.out...)
}

// GetRefsTo returns the ids of nodes with an outgoing edge to id.
func (g *Graph) GetRefsTo(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return append([]string(nil), n.in...)
}

// Edges returns every edge in the graph, in no particular order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	return out
}

// GetHierRootNodes returns every node marked as a hierarchical root.
func (g *Graph) GetHierRootNodes() []*Node {
	var out []*Node
	for id := range g.hierRoots {
		out = append(out, g.nodes[id])
	}
	return out
}

// FormNode is the create-or-return-existing keyed factory: on first
// creation it runs ctor(node) for initialization; on a repeat call
// with the same kind+key it returns the existing node untouched.
func (g *Graph) FormNode(kind, key string, ctor func(*Node)) *Node {
	id := kind + ":" + key
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := g.AddNode(id, nil)
	if ctor != nil {
		ctor(n)
	}
	return n
}

// GetClusterGraphs partitions the graph into weakly-connected
// subgraphs, one per hierarchical root reachable component plus any
// nodes unreachable from a root.
func (g *Graph) GetClusterGraphs() []*Graph {
	visited := map[string]bool{}
	var clusters []*Graph

	build := func(seed string) *Graph {
		cluster := New()
		queue := []string{seed}
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			if visited[id] {
				continue
			}
			visited[id] = true
			n := g.nodes[id]
			cluster.AddNode(id, n.Props)
			if g.hierRoots[id] {
				cluster.hierRoots[id] = true
			}
			for _, dst := range n.out {
				queue = append(queue, dst)
			}
			for _, src := range n.in {
				queue = append(queue, src)
			}
		}
		for _, e := range g.edges {
			if cluster.nodes[e.Src] != nil && cluster.nodes[e.Dst] != nil {
				cluster.AddEdgeByNids(e.Src, e.Dst, e.Props)
			}
		}
		return cluster
	}

	for id := range g.hierRoots {
		if !visited[id] {
			clusters = append(clusters, build(id))
		}
	}
	for id := range g.nodes {
		if !visited[id] {
			clusters = append(clusters, build(id))
		}
	}
	return clusters
}
