// Package coproc implements the Coprocessor Stubs component (F):
// a fixed registry of per-coprocessor-number handlers the emulator
// dispatches LDC/STC/CDP/MCR/MRC/MCRR/MRRC through. Real silicon wires
// these to MMU, VFP, or vendor-specific logic; this core only needs
// somewhere for the instruction's side effects to land, so stubs are
// observable no-ops by default (spec.md §3, component F).
package coproc

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Op carries the coprocessor register and opcode fields of one
// dispatched coprocessor instruction.
type Op struct {
	CRn, CRd, CRm int
	Opcode1       uint32
	Opcode2       uint32
}

// Stub is one coprocessor's instruction handler. MRC and MRRC return
// the value(s) placed in the destination register(s), LDC returns the
// loaded data, and CDP/MCR/MCRR/STC return nothing.
type Stub interface {
	Name() string
	CDP(op Op)
	MCR(op Op, value uint32)
	MRC(op Op) uint32
	MCRR(op Op, lo, hi uint32)
	MRRC(op Op) (lo, hi uint32)
	STC(op Op, addr uint32, data []byte)
	LDC(op Op, addr uint32) []byte
}

// Registry is the fixed 16-slot coprocessor table (CP0-CP15); index by
// Opcode.CoprocIndex, which Decode already validated to be in range.
type Registry [16]Stub

// NewRegistry returns a registry where every slot holds a BaseStub
// (logs and no-ops), with coprocessor 15 bound to SystemControlStub.
func NewRegistry() *Registry {
	var r Registry
	for i := range r {
		r[i] = &BaseStub{index: i}
	}
	r[15] = NewSystemControlStub()
	return &r
}

// Get returns the stub for index, or a BaseStub fallback if the slot
// is nil (shouldn't happen once NewRegistry has run, but keeps Get
// total for callers that build a Registry by hand).
func (r *Registry) Get(index int) Stub {
	if index < 0 || index >= len(r) || r[index] == nil {
		return &BaseStub{index: index}
	}
	return r[index]
}

// Bind installs a custom stub at index, replacing whatever was there.
func (r *Registry) Bind(index int, s Stub) {
	r[index] = s
}

// BaseStub is the default handler: it logs the dispatched operation at
// debug level and returns zero values, which is the faithful behaviour
// for an unimplemented/absent coprocessor (spec.md's PDE stance: an
// unknown side effect is "undefined", not fatal).
type BaseStub struct {
	index int
}

func (b *BaseStub) Name() string { return fmt.Sprintf("cp%d", b.index) }

func (b *BaseStub) log(action string, op Op) {
	logrus.WithFields(logrus.Fields{
		"coproc": b.index,
		"crn":    op.CRn,
		"crd":    op.CRd,
		"crm":    op.CRm,
		"opc1":   op.Opcode1,
		"opc2":   op.Opcode2,
	}).Debugf("coproc: unmodelled %s", action)
}

func (b *BaseStub) CDP(op Op)                    { b.log("cdp", op) }
func (b *BaseStub) MCR(op Op, value uint32)      { b.log("mcr", op) }
func (b *BaseStub) MRC(op Op) uint32             { b.log("mrc", op); return 0 }
func (b *BaseStub) MCRR(op Op, lo, hi uint32)    { b.log("mcrr", op) }
func (b *BaseStub) MRRC(op Op) (uint32, uint32)  { b.log("mrrc", op); return 0, 0 }
func (b *BaseStub) STC(op Op, addr uint32, data []byte) { b.log("stc", op) }
func (b *BaseStub) LDC(op Op, addr uint32) []byte {
	b.log("ldc", op)
	return nil
}
