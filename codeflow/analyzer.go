package codeflow

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tinbound/armflow/arm"
	"github.com/tinbound/armflow/mem"
)

// DecodeFunc fetches and decodes the instruction at va. The Analyzer
// is architecture-agnostic by construction (spec.md §6 "decoder
// plug-in"); this core always wires it to arm.Decode over a mem.Image.
type DecodeFunc func(va uint32) (*arm.Opcode, error)

// workItem is one pending (predecessor, target) edge to process,
// carrying an arch tag kept only for forward-compat with a future
// non-ARM decoder plug-in — this core never inspects it.
type workItem struct {
	pred, va uint32
	arch     string
}

// Analyzer runs code-flow discovery scans over a Workspace, decoding
// through Decode and reporting through Sink.
type Analyzer struct {
	State     *State
	Workspace Workspace
	Decode    DecodeFunc
	Sink      Sink

	resolvers []DynamicBranchResolver
	log       *logrus.Entry
}

// New builds an Analyzer. sink may be DefaultSink{} for a scan that
// only needs opdone/funcs bookkeeping.
func New(ws Workspace, decode DecodeFunc, sink Sink) *Analyzer {
	return &Analyzer{
		State:     NewState(),
		Workspace: ws,
		Decode:    decode,
		Sink:      sink,
		log:       logrus.WithField("component", "codeflow"),
	}
}

// AddNoReturnAddr marks va as never falling through.
func (a *Analyzer) AddNoReturnAddr(va uint32) { a.State.CFNoRet[va] = true }

// AddNoFlow suppresses the from->to edge as a scan successor.
func (a *Analyzer) AddNoFlow(from, to uint32) {
	a.State.CFNoFlow[noFlowEdge{from, to}] = true
}

// AddDynamicBranchHandler appends a resolver. For an unresolved branch
// the Sink's OnDynamicBranch fires first; resolvers are then tried in
// registration order and the first one returning a non-nil branch set
// wins. The site itself is not recorded anywhere.
func (a *Analyzer) AddDynamicBranchHandler(cb DynamicBranchResolver) {
	a.resolvers = append(a.resolvers, cb)
}

// AddEntryPoint records va as a function, runs AddCodeFlow from it,
// and fires OnFunction exactly once for fva.
func (a *Analyzer) AddEntryPoint(va uint32) {
	if a.State.Funcs[va] {
		return
	}
	a.State.Funcs[va] = true
	callees := a.AddCodeFlow(va)
	a.State.FCalls[va] = callees
	a.Sink.OnFunction(va, FunctionMeta{Callees: callees})
	a.drainDeferredEntryPoints()
}

func (a *Analyzer) drainDeferredEntryPoints() {
	for len(a.State.cfEps) > 0 {
		var next uint32
		for v := range a.State.cfEps {
			next = v
			break
		}
		delete(a.State.cfEps, next)
		a.AddEntryPoint(next)
	}
}

// AddCodeFlow performs the depth-first worklist scan from va
// (spec.md §4.D algorithm) and returns the procedural branch targets
// (callees) it saw directly from this scan.
func (a *Analyzer) AddCodeFlow(va uint32) []uint32 {
	var callees []uint32
	worklist := []workItem{{pred: va, va: va}}

	a.State.cfBlocks[va] = true
	defer delete(a.State.cfBlocks, va) // step 4a: guaranteed release

	for len(worklist) > 0 {
		item := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		if a.State.CFNoFlow[noFlowEdge{item.pred, item.va}] {
			a.Sink.OnNoFlow(item.pred, item.va)
			continue
		}
		if a.State.OpDone[item.va] {
			continue
		}
		a.State.OpDone[item.va] = true

		op, err := a.Decode(item.va)
		if err != nil {
			a.log.WithError(err).WithField("va", fmt.Sprintf("%#x", item.va)).Warn("decode failed, pruning branch")
			continue
		}

		branches := a.Sink.OnOpcode(item.va, op, op.Branches())

		for _, b := range branches {
			if b.Flags&arm.BranchFALL != 0 && a.State.CFNoRet[item.va] {
				continue // a no-return VA never falls through
			}
			worklist = a.processBranch(item.va, op, b, worklist, &callees)
		}
	}

	return callees
}

func (a *Analyzer) processBranch(va uint32, op *arm.Opcode, b arm.Branch, worklist []workItem, callees *[]uint32) []workItem {
	if b.Target == nil {
		a.Sink.OnDynamicBranch(va, op, b.Flags, []arm.Branch{b})
		for _, resolve := range a.resolvers {
			if extra := resolve(va, op); extra != nil {
				for _, eb := range extra {
					worklist = a.processBranch(va, op, eb, worklist, callees)
				}
				return worklist
			}
		}
		return worklist
	}

	bva := *b.Target

	if b.Flags&arm.BranchTABLE != 0 {
		worklist = a.expandBranchTable(va, bva, worklist)
		return worklist
	}

	if b.Flags&arm.BranchDEREF != 0 {
		if !a.Workspace.ProbeMemory(bva, a.Workspace.PointerSize(), mem.PermRead) {
			return worklist
		}
		deref, ok := a.Workspace.ReadPointer(bva)
		if !ok {
			return worklist
		}
		if a.State.CFNoRet[deref] {
			a.State.CFNoFlow[noFlowEdge{va, va + op.Size}] = true
		}
		bva = deref
	}

	if !a.Workspace.ProbeMemory(bva, 1, mem.PermExec) {
		return worklist
	}

	if b.Flags&arm.BranchPROC != 0 {
		// "call to next instruction" (e.g. bl $+4 to read PC into LR)
		// is not a real call: none of the function-queueing/no-return/
		// calls_from bookkeeping applies, and flow falls through to
		// the plain enqueue below, same as any other branch target.
		if bva != va+op.Size {
			if a.State.cfBlocks[bva] {
				a.State.cfEps[bva] = true
			} else {
				a.AddEntryPoint(bva)
			}
			if a.State.CFNoRet[bva] {
				a.State.CFNoFlow[noFlowEdge{va, va + op.Size}] = true
			}
			a.State.CallsFrom[bva] = true
			*callees = append(*callees, bva)
			return worklist
		}
	}

	worklist = append(worklist, workItem{pred: va, va: bva})
	return worklist
}

// expandBranchTable walks a jump/branch table starting at tableVA
// while each successive pointer-size slot holds a valid pointer,
// invoking OnBranchTable per resolved entry and stopping on the first
// false return.
func (a *Analyzer) expandBranchTable(va, tableVA uint32, worklist []workItem) []workItem {
	psize := uint32(a.Workspace.PointerSize())
	ptrVA := tableVA
	for a.Workspace.IsValidPointer(ptrVA) {
		dest, ok := a.Workspace.ReadPointer(ptrVA)
		if !ok {
			break
		}
		if !a.Sink.OnBranchTable(tableVA, ptrVA, dest) {
			break
		}
		worklist = append(worklist, workItem{pred: va, va: dest})
		ptrVA += psize
	}
	return worklist
}
