package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/tinbound/armflow/config"
	"github.com/tinbound/armflow/graph"
	"github.com/tinbound/armflow/layout"
)

var layoutCmd = &cobra.Command{
	Use:   "layout <session.toml>",
	Short: "Analyze, then lay out the discovered call graph",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ws, err := config.Load(args[0])
		if err != nil {
			return err
		}
		if len(ws.EntryPoints) == 0 {
			return fmt.Errorf("session has no entry_points configured")
		}

		a, _, err := runAnalysis(ws)
		if err != nil {
			return err
		}

		g := callGraph(a, ws.EntryPoints)
		sizes := uniformSizes(g)
		opts, variant := ws.LayoutOptions()

		result := layout.New(g, sizes, variant, opts).Run()
		fmt.Printf("canvas %dx%d\n", result.Width, result.Height)

		ids := make([]string, 0)
		for _, n := range g.GetHierRootNodes() {
			ids = append(ids, n.ID)
		}
		sort.Strings(ids)
		for _, rootID := range ids {
			printSubtree(g, rootID, 0, map[string]bool{})
		}
		return nil
	},
}

// uniformSizes gives every node in g a fixed placeholder size, since
// this CLI has no renderer to measure real disassembly-block boxes.
func uniformSizes(g *graph.Graph) map[string]layout.Size {
	sizes := map[string]layout.Size{}
	for _, root := range g.GetHierRootNodes() {
		collectSizes(g, root.ID, sizes, map[string]bool{})
	}
	return sizes
}

func collectSizes(g *graph.Graph, id string, sizes map[string]layout.Size, visited map[string]bool) {
	if visited[id] {
		return
	}
	visited[id] = true
	sizes[id] = layout.Size{W: 120, H: 40}
	for _, child := range g.GetRefsFrom(id) {
		collectSizes(g, child, sizes, visited)
	}
}

func printSubtree(g *graph.Graph, id string, depth int, visited map[string]bool) {
	if visited[id] {
		return
	}
	visited[id] = true
	n, ok := g.GetNode(id)
	if !ok {
		return
	}
	pos, _ := n.Props["position"]
	fmt.Printf("%*s%s  pos=%v\n", depth*2, "", id, pos)
	children := append([]string(nil), g.GetRefsFrom(id)...)
	sort.Strings(children)
	for _, child := range children {
		printSubtree(g, child, depth+1, visited)
	}
}
