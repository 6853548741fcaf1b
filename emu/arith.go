package emu

import (
	"github.com/tinbound/armflow/arm"
	"github.com/tinbound/armflow/armerr"
	"github.com/tinbound/armflow/regs"
)

// AddWithCarry is the single arithmetic core every data-processing add
// or subtract routes through (ARM's own pseudocode name for it).
// Subtraction is expressed as AddWithCarry(x, ^y, 1): SUB/CMP pass
// carryIn=1, SBC/RSC pass the current C flag.
func AddWithCarry(x, y, carryIn uint32) (result uint32, carryOut bool, overflow bool) {
	sum := uint64(x) + uint64(y) + uint64(carryIn)
	result = uint32(sum)
	carryOut = sum > 0xFFFFFFFF
	signX, signY, signR := x>>31, y>>31, result>>31
	overflow = signX == signY && signX != signR
	return
}

func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// execDataProcessing implements the sixteen data-processing opcodes
// (spec.md §4.B). The destination, first operand and operand-2 are
// already resolved into arm.Operand values by Decode; this only needs
// to pick the ALU function and write flags when IFlagS is set.
func (e *Emulator) execDataProcessing(op *arm.Opcode) (redirected bool, err error) {
	var rd, rn arm.Operand
	var op2 arm.Operand
	switch op.Mnemonic {
	case "tst", "teq", "cmp", "cmn":
		rn, op2 = op.Operands[0], op.Operands[1]
	case "mov", "mvn":
		rd, op2 = op.Operands[0], op.Operands[1]
	default:
		rd, rn, op2 = op.Operands[0], op.Operands[1], op.Operands[2]
	}

	op2Val, _ := op2.GetValue(e)
	shifterCarry := e.CarryFlag()
	if reg, ok := op2.(arm.Register); ok {
		shifterCarry = reg.CarryOut(e)
	}
	if imm, ok := op2.(arm.Immediate); ok && imm.CarryOutValid {
		shifterCarry = imm.CarryOutBit
	}

	var rnVal uint32
	if rn != nil {
		rnVal, _ = rn.GetValue(e)
	}

	var result uint32
	var carryOut, overflow bool
	logical := false

	switch op.Mnemonic {
	case "and", "tst":
		result = rnVal & op2Val
		logical = true
	case "eor", "teq":
		result = rnVal ^ op2Val
		logical = true
	case "orr":
		result = rnVal | op2Val
		logical = true
	case "bic":
		result = rnVal &^ op2Val
		logical = true
	case "mov":
		result = op2Val
		logical = true
	case "mvn":
		result = ^op2Val
		logical = true
	case "add", "cmn":
		result, carryOut, overflow = AddWithCarry(rnVal, op2Val, 0)
	case "adc":
		result, carryOut, overflow = AddWithCarry(rnVal, op2Val, boolBit(e.CarryFlag()))
	case "sub", "cmp":
		result, carryOut, overflow = AddWithCarry(rnVal, ^op2Val, 1)
	case "rsb":
		result, carryOut, overflow = AddWithCarry(op2Val, ^rnVal, 1)
	case "sbc":
		result, carryOut, overflow = AddWithCarry(rnVal, ^op2Val, boolBit(e.CarryFlag()))
	case "rsc":
		result, carryOut, overflow = AddWithCarry(op2Val, ^rnVal, boolBit(e.CarryFlag()))
	}

	r, isReg := rd.(arm.Register)
	toPC := isReg && r.Num == 15
	if toPC && op.IFlags.Has(arm.IFlagS) {
		// Exception return: only modes that bank an SPSR may do this.
		if _, ok := e.Regs.GetSPSR(); !ok {
			return false, armerr.ErrBankViolation
		}
	}

	if op.IFlags.Has(arm.IFlagS) {
		e.setNZ(result)
		if logical {
			e.Regs.SetFlag(regs.FlagC, shifterCarry)
		} else {
			e.Regs.SetFlag(regs.FlagC, carryOut)
			e.Regs.SetFlag(regs.FlagV, overflow)
		}
	}

	if rd != nil {
		if err := rd.SetValue(e, result); err != nil {
			return false, err
		}
		if toPC {
			if op.IFlags.Has(arm.IFlagS) {
				e.restoreFromSPSR()
			}
			return true, nil
		}
	}
	return false, nil
}

func (e *Emulator) setNZ(v uint32) {
	e.Regs.SetFlag(regs.FlagN, v&0x80000000 != 0)
	e.Regs.SetFlag(regs.FlagZ, v == 0)
}
