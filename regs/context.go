// Package regs implements the Register Context (component C): the
// banked ARM register file, CPSR/SPSR flags, and the meta-register
// bit-packing scheme spec.md §3 describes for sub-word pseudo-registers
// (e.g. condition flags packed into CPSR).
package regs

import "fmt"

// Mode is an ARM processor mode. Each exception mode owns its own bank
// of some logical registers (r13/r14 and an SPSR, plus r8-r12 in FIQ)
// while sharing the rest with User mode; System shares all of User's.
type Mode uint8

const (
	ModeUser Mode = iota
	ModeFIQ
	ModeIRQ
	ModeSupervisor
	ModeAbort
	ModeUndefined
	ModeSystem
	numModes
)

func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "usr"
	case ModeFIQ:
		return "fiq"
	case ModeIRQ:
		return "irq"
	case ModeSupervisor:
		return "svc"
	case ModeAbort:
		return "abt"
	case ModeUndefined:
		return "und"
	case ModeSystem:
		return "sys"
	default:
		return "???"
	}
}

// Logical register indices: r0-r15 plus CPSR, the 17 values the bank
// table maps per mode (spec.md §3). SPSR is reached through
// GetSPSR/SetSPSR, not a logical index.
const (
	R0 = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	R8
	R9
	R10
	R11
	R12
	R13 // SP
	R14 // LR
	R15 // PC
	CPSR
	numLogical
)

// bankTable[mode][logical] is the physical slot index backing that
// logical register in that mode. User and System share physical
// storage for every general register; FIQ banks r8-r14; the other
// privileged modes bank only r13/r14 and carry their own SPSR slot.
// SPSR slots are not in this table: spsrSlots maps each exception
// mode to its own, and User/System have none.
var bankTable [numModes][numLogical]int

func init() {
	// Physical slot layout: 0-15 are the User-mode general registers
	// and CPSR lives at 16. Banked slots for privileged modes follow,
	// allocated in fixed order so the table below is self-documenting.
	next := numLogical
	alloc := func() int { s := next; next++; return s }

	for m := Mode(0); m < numModes; m++ {
		for l := 0; l < numLogical; l++ {
			bankTable[m][l] = l
		}
	}

	bankedR13 := map[Mode]int{}
	bankedR14 := map[Mode]int{}
	bankedSPSR := map[Mode]int{}
	for _, m := range []Mode{ModeFIQ, ModeIRQ, ModeSupervisor, ModeAbort, ModeUndefined} {
		bankedR13[m] = alloc()
		bankedR14[m] = alloc()
		bankedSPSR[m] = alloc()
	}
	fiqR8_12 := make([]int, 5)
	for i := range fiqR8_12 {
		fiqR8_12[i] = alloc()
	}

	for m, slot := range bankedR13 {
		bankTable[m][R13] = slot
	}
	for m, slot := range bankedR14 {
		bankTable[m][R14] = slot
	}
	for i, slot := range fiqR8_12 {
		bankTable[ModeFIQ][R8+i] = slot
	}
	spsrSlots = bankedSPSR

	if next > maxSlots {
		panic(fmt.Sprintf("regs: bank table needs %d slots, table has room for %d", next, maxSlots))
	}
}

// spsrSlots maps a privileged mode to the physical slot holding its
// SPSR. User and System have none; GetSPSR/SetSPSR report ok=false
// there and touch nothing.
var spsrSlots map[Mode]int

const maxSlots = 64

// Context is the banked register file for one CPU core.
type Context struct {
	vals [maxSlots]uint32
	mode Mode
}

// NewContext returns a Context reset to User mode with all registers
// zero.
func NewContext() *Context {
	return &Context{mode: ModeUser}
}

// Mode reports the active processor mode, as last set by SetCPSR
// (from CPSR's mode field) or by SetProcMode.
func (c *Context) Mode() Mode { return c.mode }

// SetProcMode switches the active register bank to m. It does not
// write CPSR (the mode bits keep their old value) and does not save
// CPSR into the new mode's SPSR; emu's User-bank accessors use it for
// temporary bank switches.
func (c *Context) SetProcMode(m Mode) {
	if m >= numModes {
		panic(fmt.Sprintf("regs: invalid mode %d", m))
	}
	c.mode = m
}

func (c *Context) slot(logical int) int {
	return bankTable[c.mode][logical]
}

// Get reads logical register n (0-15) through the current mode's bank.
func (c *Context) Get(n int) uint32 {
	return c.vals[c.slot(n)]
}

// Set writes logical register n (0-15) through the current mode's
// bank.
func (c *Context) Set(n int, v uint32) {
	c.vals[c.slot(n)] = v
}

// GetCPSR returns the current program status register. CPSR is not
// banked: every mode shares physical slot CPSR.
func (c *Context) GetCPSR() uint32 { return c.vals[CPSR] }

// SetCPSR writes CPSR and updates the cached Mode from its low 5 bits.
func (c *Context) SetCPSR(v uint32) {
	c.vals[CPSR] = v
	c.mode = modeFromBits(v & 0x1F)
}

// GetSPSR reads the saved program status register for the current
// mode. ok is false in User/System mode, which have no SPSR.
func (c *Context) GetSPSR() (value uint32, ok bool) {
	slot, has := spsrSlots[c.mode]
	if !has {
		return 0, false
	}
	return c.vals[slot], true
}

// SetSPSR writes the current mode's SPSR. ok is false (no write made)
// in User/System mode.
func (c *Context) SetSPSR(v uint32) (ok bool) {
	slot, has := spsrSlots[c.mode]
	if !has {
		return false
	}
	c.vals[slot] = v
	return true
}

// modeFromBits maps CPSR's 5-bit mode field to a Mode. Unrecognized
// encodings fall back to User, matching the permissive stance emu
// takes toward malformed mode-switch writes (spec.md's PDE posture:
// don't panic on an ill-formed value, propagate best-effort state).
func modeFromBits(bits uint32) Mode {
	switch bits {
	case 0b10000:
		return ModeUser
	case 0b10001:
		return ModeFIQ
	case 0b10010:
		return ModeIRQ
	case 0b10011:
		return ModeSupervisor
	case 0b10111:
		return ModeAbort
	case 0b11011:
		return ModeUndefined
	case 0b11111:
		return ModeSystem
	default:
		return ModeUser
	}
}
