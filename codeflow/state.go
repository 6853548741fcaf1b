// Package codeflow implements the Code-Flow Analyzer (component D): a
// worklist-driven recursive disassembly scan that discovers code
// blocks and functions from seed addresses, following branches,
// calls, and indirect tables while handling cycles and no-return
// propagation.
package codeflow

// noFlowEdge is a (from, to) pair the scan must not cross as a
// fall-through or taken-branch successor.
type noFlowEdge struct{ from, to uint32 }

// State is the CodeFlowState from spec.md §3: everything a discovery
// campaign mutates. The Analyzer never clears the exported maps, so
// OpDone, CallsFrom, Funcs and FCalls persist across AddCodeFlow scans
// on the same Analyzer; only cfBlocks entries are released per scan.
type State struct {
	OpDone    map[uint32]bool
	CallsFrom map[uint32]bool
	CFNoRet   map[uint32]bool
	CFNoFlow  map[noFlowEdge]bool
	Funcs     map[uint32]bool
	FCalls    map[uint32][]uint32

	// cfBlocks is the active DFS recursion stack, used to detect a
	// procedural target reached while its own scan is still on the
	// stack (spec.md step 6: "queue via cf_eps if currently on the
	// active stack").
	cfBlocks map[uint32]bool
	// cfEps collects entry points discovered while their address was
	// still on cfBlocks, drained into AddEntryPoint once the scan that
	// discovered them completes.
	cfEps map[uint32]bool
}

// NewState returns an empty CodeFlowState.
func NewState() *State {
	return &State{
		OpDone:    map[uint32]bool{},
		CallsFrom: map[uint32]bool{},
		CFNoRet:   map[uint32]bool{},
		CFNoFlow:  map[noFlowEdge]bool{},
		Funcs:     map[uint32]bool{},
		FCalls:    map[uint32][]uint32{},
		cfBlocks:  map[uint32]bool{},
		cfEps:     map[uint32]bool{},
	}
}

// FunctionMeta is the payload on_function receives: everything the
// scan learned about a function by the time it was first recorded.
type FunctionMeta struct {
	Callees []uint32
}
