package emu

import (
	"github.com/tinbound/armflow/arm"
	"github.com/tinbound/armflow/regs"
)

// execBranch implements B and BL: both redirect PC unconditionally
// once past the condition check Step already performed; BL additionally
// stores the return address in LR.
func (e *Emulator) execBranch(op *arm.Opcode) (redirected bool, err error) {
	if op.Mnemonic == "bl" {
		e.Regs.Set(regs.R14, op.VA+op.Size)
	}
	target, _ := op.Operands[0].GetValue(e)
	e.Regs.Set(regs.R15, target)
	return true, nil
}

// execBranchExchange implements BX/BLX register-form: the target
// register's value becomes the new PC (bit 0, the Thumb-mode marker,
// is not modelled since this core only emulates ARM-mode code).
func (e *Emulator) execBranchExchange(op *arm.Opcode) (redirected bool, err error) {
	rm := op.Operands[0].(arm.Register)
	target := e.Regs.Get(rm.Num)
	if op.Mnemonic == "blx" {
		e.Regs.Set(regs.R14, op.VA+op.Size)
	}
	e.Regs.Set(regs.R15, target&^1)
	return true, nil
}

// execCompareBranch implements CBZ/CBNZ: branch on Rd's value being
// zero/nonzero, independent of the condition flags.
func (e *Emulator) execCompareBranch(op *arm.Opcode) (redirected bool, err error) {
	rd := op.Operands[0].(arm.Register)
	v := e.Regs.Get(rd.Num)
	take := (op.Mnemonic == "cbz" && v == 0) || (op.Mnemonic == "cbnz" && v != 0)
	if !take {
		return false, nil
	}
	target, _ := op.Operands[1].GetValue(e)
	e.Regs.Set(regs.R15, target)
	return true, nil
}
