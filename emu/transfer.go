package emu

import (
	"fmt"

	"github.com/tinbound/armflow/arm"
	"github.com/tinbound/armflow/armerr"
	"github.com/tinbound/armflow/regs"
)

// execSingleTransfer implements LDR/STR and their byte/halfword/signed
// variants, already folded into one Memory operand by Decode.
func (e *Emulator) execSingleTransfer(op *arm.Opcode) error {
	rd := op.Operands[0].(arm.Register)
	m := op.Operands[1]

	if op.Mnemonic == "ldr" {
		v, ok := m.GetValue(e)
		if !ok {
			return fmt.Errorf("load at pc=%#x: %w", op.VA, armerr.ErrUnmappedMemory)
		}
		e.Regs.Set(rd.Num, v)
		return nil
	}
	v := e.Regs.Get(rd.Num)
	if err := m.SetValue(e, v); err != nil {
		return fmt.Errorf("store at pc=%#x: %w", op.VA, err)
	}
	return nil
}

// execBlockTransfer implements LDM/STM across its four addressing
// variants (IA/IB/DA/DB), including write-back and the user-bank
// transfer ("^" suffix) flag. redirected is true when LDM loads PC.
//
// spec.md §4.E: registers are visited low-to-high for increment
// addressing, high-to-low for decrement; each register's address is
// pre-adjusted by one word (B set) or post-adjusted (B clear). The
// address variable itself, after the loop, is already the correct
// write-back value for every one of the four variants — no separate
// base±n*4 recomputation is needed.
func (e *Emulator) execBlockTransfer(op *arm.Opcode) (redirected bool, err error) {
	rn := op.Operands[0].(arm.Register)
	list := op.Operands[1].(arm.RegisterList)
	regsList := list.Registers()
	if len(regsList) == 0 {
		return false, nil
	}

	ascending := op.IFlags.Has(arm.IFlagDAIB_IA) || op.IFlags.Has(arm.IFlagDAIB_IB)
	before := op.IFlags.Has(arm.IFlagDAIB_IB) || op.IFlags.Has(arm.IFlagDAIB_DB)

	order := regsList
	step := int32(4)
	if !ascending {
		order = reverseRegs(regsList)
		step = -4
	}

	userBank := op.IFlags.Has(arm.IFlagUserBank)
	pcInList := list.Mask&(1<<15) != 0
	// "LDM user registers" (^ without PC) addresses the User-mode bank
	// for every register in the list; "LDM exception return" (^ with
	// PC) uses the current bank throughout and restores CPSR from
	// SPSR afterward. The two share an encoding but are NOT the same
	// operation (see isExceptionReturn).
	plainUserBank := userBank && !pcInList

	addr := e.Regs.Get(rn.Num)
	for _, r := range order {
		if before {
			addr = uint32(int32(addr) + step)
		}
		if op.Mnemonic == "ldm" {
			v, ok := e.ReadMem(addr, arm.SizeWord)
			if !ok {
				return false, fmt.Errorf("ldm at %#x: %w", addr, armerr.ErrUnmappedMemory)
			}
			if plainUserBank {
				e.setUserBankRegNum(r, v)
			} else {
				e.Regs.Set(r, v)
			}
			if r == regs.R15 {
				redirected = true
			}
		} else {
			var v uint32
			if plainUserBank {
				v = e.userBankRegNum(r)
			} else {
				v = e.Regs.Get(r)
			}
			if !e.WriteMem(addr, arm.SizeWord, v) {
				return false, fmt.Errorf("stm at %#x: %w", addr, armerr.ErrUnmappedMemory)
			}
		}
		if !before {
			addr = uint32(int32(addr) + step)
		}
	}

	if isExceptionReturn(userBank, pcInList) && op.Mnemonic == "ldm" {
		e.restoreFromSPSR()
	}

	if op.IFlags.Has(arm.IFlagWriteback) {
		e.Regs.Set(rn.Num, addr)
	}

	return redirected, nil
}

// reverseRegs returns regs in reverse order (high register number
// first), used for decrement addressing per spec.md §4.E.
func reverseRegs(list []int) []int {
	out := make([]int, len(list))
	for i, r := range list {
		out[len(list)-1-i] = r
	}
	return out
}
