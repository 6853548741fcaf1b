package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestFormNodeIsCreateOrReturnExisting(t *testing.T) {
	g := New()
	calls := 0
	ctor := func(n *Node) { calls++; n.Props["kind"] = "block" }
	n1 := g.FormNode("block", "0x1000", ctor)
	n2 := g.FormNode("block", "0x1000", ctor)
	if n1 != n2 {
		t.Fatal("FormNode returned distinct nodes for the same kind+key")
	}
	if calls != 1 {
		t.Fatalf("ctor called %d times, want 1", calls)
	}
}

func TestRefsFromAndTo(t *testing.T) {
	g := New()
	g.AddEdgeByNids("a", "b", nil)
	g.AddEdgeByNids("a", "c", nil)
	from := g.GetRefsFrom("a")
	if len(from) != 2 {
		t.Fatalf("refs from a = %v, want 2 entries", from)
	}
	to := g.GetRefsTo("c")
	if len(to) != 1 || to[0] != "a" {
		t.Fatalf("refs to c = %v, want [a]", to)
	}
}

func TestPathEnumerationBreaksCycles(t *testing.T) {
	g := New()
	g.AddHierRootNode("a")
	g.AddEdgeByNids("a", "b", nil)
	g.AddEdgeByNids("b", "a", nil) // cycle back to root
	paths := g.GetHierPathsFrom("a")
	if len(paths) == 0 {
		t.Fatal("expected at least one terminated path despite the cycle")
	}
	for _, p := range paths {
		if len(p) > len(g.nodes)+1 {
			t.Fatalf("path %v longer than the graph, cycle not terminated", p)
		}
	}
}

func TestHierPathCountOnDiamond(t *testing.T) {
	g := New()
	g.AddHierRootNode("entry")
	g.AddEdgeByNids("entry", "left", nil)
	g.AddEdgeByNids("entry", "right", nil)
	g.AddEdgeByNids("left", "join", nil)
	g.AddEdgeByNids("right", "join", nil)
	if got := g.GetHierPathCount(); got != 2 {
		t.Fatalf("path count = %d, want 2 (entry-left-join, entry-right-join)", got)
	}
}

func TestFormNodePropsMatchExpectedBag(t *testing.T) {
	g := New()
	n := g.FormNode("block", "0x8000", func(n *Node) {
		n.Props["cbva"] = uint32(0x8000)
		n.Props["cbsize"] = uint32(16)
	})
	want := Props{"cbva": uint32(0x8000), "cbsize": uint32(16)}
	if diff := cmp.Diff(want, n.Props); diff != "" {
		t.Fatalf("node props mismatch (-want +got):\n%s", diff)
	}
}

func TestClusterGraphPreservesNodeProps(t *testing.T) {
	g := New()
	g.AddNode("fn1", Props{"cbva": uint32(0x1000)})
	g.AddHierRootNode("fn1")
	clusters := g.GetClusterGraphs()
	if len(clusters) != 1 {
		t.Fatalf("clusters = %d, want 1", len(clusters))
	}
	n, ok := clusters[0].GetNode("fn1")
	if !ok {
		t.Fatal("fn1 missing from its cluster")
	}
	want := Props{"cbva": uint32(0x1000)}
	if diff := cmp.Diff(want, n.Props); diff != "" {
		t.Fatalf("cluster node props mismatch (-want +got):\n%s", diff)
	}
}

func TestClusterGraphsSeparateDisconnectedComponents(t *testing.T) {
	g := New()
	g.AddHierRootNode("fn1")
	g.AddEdgeByNids("fn1", "fn1_block2", nil)
	g.AddHierRootNode("fn2")
	g.AddEdgeByNids("fn2", "fn2_block2", nil)
	clusters := g.GetClusterGraphs()
	if len(clusters) != 2 {
		t.Fatalf("clusters = %d, want 2", len(clusters))
	}
}
