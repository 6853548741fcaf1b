package codeflow

import "github.com/tinbound/armflow/mem"

// Workspace is the Go shape of spec.md §6's "workspace callbacks":
// the minimal surface the CFA needs from whatever owns the memory
// image, used opaquely (mem.Image satisfies it directly).
type Workspace interface {
	IsFunction(va uint32) bool
	IsValidPointer(va uint32) bool
	ProbeMemory(va uint32, n int, perm mem.Perm) bool
	ReadPointer(va uint32) (uint32, bool)
	PointerSize() int
}

// Known layers `funcs` tracking on top of a plain Workspace, so
// IsFunction reflects addresses this campaign has discovered even
// before the embedder's own workspace model learns about them.
type Known struct {
	Workspace
	state *State
}

// NewKnown wraps ws with state's function-discovery bookkeeping.
func NewKnown(ws Workspace, state *State) Known {
	return Known{Workspace: ws, state: state}
}

func (k Known) IsFunction(va uint32) bool {
	if k.state.Funcs[va] {
		return true
	}
	return k.Workspace.IsFunction(va)
}
