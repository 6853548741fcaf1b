package emu

import (
	"github.com/tinbound/armflow/arm"
	"github.com/tinbound/armflow/coproc"
)

// execCoproc dispatches a decoded coprocessor instruction to its
// registry slot. Decode already rejected CoprocIndex > 15, so Get
// always resolves a real stub here.
func (e *Emulator) execCoproc(op *arm.Opcode) error {
	stub := e.Coprocs.Get(op.CoprocIndex)
	cop := coproc.Op{
		CRn:     op.CoprocRn,
		CRd:     op.CoprocRd,
		CRm:     op.CoprocRm,
		Opcode1: op.CoprocOp,
	}

	switch op.Mnemonic {
	case "cdp":
		stub.CDP(cop)
	case "mcr":
		stub.MCR(cop, e.Regs.Get(op.CoprocRd))
	case "mrc":
		e.Regs.Set(op.CoprocRd, stub.MRC(cop))
	case "mcrr":
		stub.MCRR(cop, e.Regs.Get(op.CoprocRd), e.Regs.Get(op.CoprocRn))
	case "mrrc":
		lo, hi := stub.MRRC(cop)
		e.Regs.Set(op.CoprocRd, lo)
		e.Regs.Set(op.CoprocRn, hi)
	case "stc":
		stub.STC(cop, 0, nil)
	case "ldc":
		stub.LDC(cop, 0)
	}
	return nil
}
