package codeflow

import "github.com/tinbound/armflow/arm"

// Sink is the capability interface an embedder overrides to observe
// or filter a scan as it runs (spec.md §4.D "Callbacks"). Generalized
// from the teacher's flat method-table dispatch (cpu.CPU's per-
// mnemonic handler table) to embedding: callers embed DefaultSink and
// override only what they need.
type Sink interface {
	// OnOpcode may filter or augment the branch set Branches()
	// produced for a just-decoded opcode.
	OnOpcode(va uint32, op *arm.Opcode, branches []arm.Branch) []arm.Branch
	OnFunction(fva uint32, meta FunctionMeta)
	OnNoFlow(from, to uint32)
	// OnBranchTable is asked once per resolved table entry; returning
	// false stops further table expansion.
	OnBranchTable(tableVA, ptrVA, destVA uint32) bool
	OnDynamicBranch(va uint32, op *arm.Opcode, flags arm.BranchFlag, branches []arm.Branch)
}

// DefaultSink satisfies Sink with identity behaviour: opcodes pass
// their branch set through unchanged, every other callback is a
// no-op that continues the scan.
type DefaultSink struct{}

func (DefaultSink) OnOpcode(va uint32, op *arm.Opcode, branches []arm.Branch) []arm.Branch {
	return branches
}
func (DefaultSink) OnFunction(fva uint32, meta FunctionMeta)  {}
func (DefaultSink) OnNoFlow(from, to uint32)                  {}
func (DefaultSink) OnBranchTable(tableVA, ptrVA, destVA uint32) bool { return true }
func (DefaultSink) OnDynamicBranch(va uint32, op *arm.Opcode, flags arm.BranchFlag, branches []arm.Branch) {
}

// DynamicBranchResolver attempts to resolve an indirect branch's
// targets (e.g. by emulating up to the branch, or recognizing a
// compiler idiom). It returns additional branches to enqueue, or nil
// if it could not resolve anything; resolvers run in registration
// order after Sink.OnDynamicBranch, and the first non-nil result ends
// the search.
type DynamicBranchResolver func(va uint32, op *arm.Opcode) []arm.Branch
