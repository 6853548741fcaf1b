package regs

// Flag bit positions within CPSR/SPSR (ARM APSR layout).
const (
	FlagN = 31
	FlagZ = 30
	FlagC = 29
	FlagV = 28
)

// GetFlag reads one condition bit out of CPSR.
func (c *Context) GetFlag(bit int) bool {
	return c.GetCPSR()&(1<<uint(bit)) != 0
}

// SetFlag writes one condition bit into CPSR, leaving the rest of the
// register (including the mode bits) untouched.
func (c *Context) SetFlag(bit int, v bool) {
	cur := c.GetCPSR()
	if v {
		cur |= 1 << uint(bit)
	} else {
		cur &^= 1 << uint(bit)
	}
	c.vals[CPSR] = cur
}

// FlagState is a tri-state condition-flag value: Set/Clear are the
// usual booleans, Undefined marks a flag the emulator could not
// compute under PDE (spec.md's partial-defined emulation) and must
// not be trusted by a later condition check.
type FlagState uint8

const (
	FlagClear FlagState = iota
	FlagSet
	FlagUndefined
)

// Bool converts a definite FlagState to bool; ok is false for
// FlagUndefined.
func (s FlagState) Bool() (v bool, ok bool) {
	switch s {
	case FlagSet:
		return true, true
	case FlagClear:
		return false, true
	default:
		return false, false
	}
}

func FlagStateOf(v bool) FlagState {
	if v {
		return FlagSet
	}
	return FlagClear
}

// metaSlot packs (offset, width, logical) into the scheme spec.md §3
// describes for pseudo-registers narrower than a word: bits 0-7 hold
// the bit offset within the backing logical register, bits 8-15 hold
// the field width, and bits 16-31 hold the logical register index.
type metaSlot uint32

func packMeta(offset, width uint8, logical uint16) metaSlot {
	return metaSlot(uint32(offset) | uint32(width)<<8 | uint32(logical)<<16)
}

func (m metaSlot) offset() uint8  { return uint8(m & 0xFF) }
func (m metaSlot) width() uint8   { return uint8((m >> 8) & 0xFF) }
func (m metaSlot) logical() int   { return int(m >> 16) }

// GetMeta reads a sub-word pseudo-register described by a metaSlot.
func (c *Context) GetMeta(m metaSlot) uint32 {
	backing := c.Get(m.logical())
	width := uint32(m.width())
	mask := uint32(1)<<width - 1
	return (backing >> uint(m.offset())) & mask
}

// SetMeta writes a sub-word pseudo-register back into its backing
// logical register. Earlier revisions of this packing masked the
// shifted value with the backing register's own width instead of the
// field's width, which let a wide value bleed into neighbouring bits;
// this masks with the field width first, per SPEC_FULL.md's corrected
// formula.
func (c *Context) SetMeta(m metaSlot, value uint32) {
	width := uint32(m.width())
	fieldMask := uint32(1)<<width - 1
	offset := uint(m.offset())
	backing := c.Get(m.logical())
	cleared := backing &^ (fieldMask << offset)
	c.Set(m.logical(), cleared|((value&fieldMask)<<offset))
}
