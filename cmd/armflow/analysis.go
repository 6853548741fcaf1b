package main

import (
	"fmt"
	"sort"

	"github.com/tinbound/armflow/arm"
	"github.com/tinbound/armflow/armerr"
	"github.com/tinbound/armflow/codeflow"
	"github.com/tinbound/armflow/config"
	"github.com/tinbound/armflow/graph"
	"github.com/tinbound/armflow/mem"
)

// runAnalysis loads ws's entry points through a codeflow.Analyzer and
// returns the analyzer (for the opdone/funcs bookkeeping the analyze
// subcommand prints) and the memory image it scanned. The call graph
// for the layout subcommand is built separately by callGraph.
func runAnalysis(ws *config.Workspace) (*codeflow.Analyzer, *mem.Image, error) {
	img, err := ws.BuildImage()
	if err != nil {
		return nil, nil, fmt.Errorf("build image: %w", err)
	}

	decode := func(va uint32) (*arm.Opcode, error) {
		word, ok := img.ReadU32(va)
		if !ok {
			return nil, fmt.Errorf("fetch %#08x: %w", va, armerr.ErrUnmappedMemory)
		}
		return arm.Decode(va, word)
	}

	a := codeflow.New(img, decode, codeflow.DefaultSink{})
	for _, ep := range ws.EntryPoints {
		a.AddEntryPoint(ep)
	}
	return a, img, nil
}

// callGraph turns the analyzer's discovered functions and call edges
// into a graph.Graph, one hierarchical root per entry point, suitable
// as layout.New's input graph.
func callGraph(a *codeflow.Analyzer, entryPoints []uint32) *graph.Graph {
	g := graph.New()
	entry := map[uint32]bool{}
	for _, ep := range entryPoints {
		entry[ep] = true
	}

	funcs := make([]uint32, 0, len(a.State.Funcs))
	for fva := range a.State.Funcs {
		funcs = append(funcs, fva)
	}
	sort.Slice(funcs, func(i, j int) bool { return funcs[i] < funcs[j] })

	for _, fva := range funcs {
		id := nodeID(fva)
		g.AddNode(id, graph.Props{"cbva": fva})
		if entry[fva] {
			g.AddHierRootNode(id)
		}
	}
	for _, fva := range funcs {
		for _, callee := range a.State.FCalls[fva] {
			if a.State.Funcs[callee] {
				g.AddEdgeByNids(nodeID(fva), nodeID(callee), nil)
			}
		}
	}
	return g
}

func nodeID(va uint32) string { return fmt.Sprintf("fn_%08x", va) }
