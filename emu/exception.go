package emu

import "github.com/tinbound/armflow/regs"

// restoreFromSPSR implements the LDM-exception-return tail: when the
// S-bit is set and PC is in the register list, CPSR is reloaded from
// the current mode's SPSR once the transfer completes.
//
// The guard below only fires the restore when the current mode
// actually banks an SPSR (every mode except User/System). An earlier
// draft of this logic inverted that check and fired the restore in
// User/System mode instead — where GetSPSR reports !ok and the
// restore should be skipped — silently leaving CPSR untouched while
// claiming success. Guarding on ok (not !ok) is the corrected form.
func (e *Emulator) restoreFromSPSR() {
	spsr, ok := e.Regs.GetSPSR()
	if !ok {
		return
	}
	e.Regs.SetCPSR(spsr)
}

// isExceptionReturn reports whether an LDM with the ^ suffix and PC in
// its register list should restore CPSR from SPSR, vs. the plain
// "load user-mode registers" form (^, PC absent). Per the ARM ARM,
// the two forms share an encoding and are disambiguated purely by
// whether r15 is in the list.
func isExceptionReturn(userBank bool, pcInList bool) bool {
	return userBank && pcInList
}

// userBankRegNum maps a logical register number to its User-mode
// value regardless of the Context's current bank, for the "LDM user
// registers" form (^ without PC). regs.Context only exposes banked
// access through the active mode, so this spells out the User-mode
// read via a temporary mode switch rather than adding a parallel
// unbanked accessor to regs for a single caller.
func (e *Emulator) userBankRegNum(n int) uint32 {
	cur := e.Regs.Mode()
	e.Regs.SetProcMode(regs.ModeUser)
	v := e.Regs.Get(n)
	e.Regs.SetProcMode(cur)
	return v
}

func (e *Emulator) setUserBankRegNum(n int, v uint32) {
	cur := e.Regs.Mode()
	e.Regs.SetProcMode(regs.ModeUser)
	e.Regs.Set(n, v)
	e.Regs.SetProcMode(cur)
}
