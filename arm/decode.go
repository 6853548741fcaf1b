package arm

import (
	"fmt"

	"github.com/tinbound/armflow/armerr"
)

// dpMnemonics maps the 4-bit data-processing opcode field to its
// mnemonic, in encoding order (AND=0000 .. MVN=1111).
var dpMnemonics = [16]string{
	"and", "eor", "sub", "rsb", "add", "adc", "sbc", "rsc",
	"tst", "teq", "cmp", "cmn", "orr", "mov", "bic", "mvn",
}

// dpIsCompareOnly reports whether the data-processing opcode never
// writes Rd (TST/TEQ/CMP/CMN): these implicitly always set flags and
// their encoded Rd field is reused as the SBZ bits in some encodings.
func dpIsCompareOnly(opcode uint32) bool {
	return opcode >= 0x8 && opcode <= 0xB
}

// Decode parses one 32-bit little-endian ARM instruction word at va.
// It fails with armerr.ErrInvalidInstruction when the bit pattern has
// no assigned meaning in the subset this core implements.
func Decode(va uint32, word uint32) (*Opcode, error) {
	op := &Opcode{VA: va, Size: 4, Cond: Cond((word >> 28) & 0xF)}

	class := (word >> 26) & 0x3
	switch class {
	case 0b00:
		if isBranchExchange(word) {
			return decodeBX(op, word)
		}
		if isExtraLoadStore(word) {
			return decodeExtraLoadStore(op, word)
		}
		return decodeDataProcessing(op, word)
	case 0b01:
		return decodeSingleTransfer(op, word)
	case 0b10:
		if (word>>25)&1 == 1 {
			return decodeBranch(op, word)
		}
		return decodeBlockTransfer(op, word)
	case 0b11:
		if (word>>24)&0xF == 0xF {
			return decodeSWI(op, word)
		}
		return decodeCoproc(op, word)
	}
	return nil, fmt.Errorf("word 0x%08X at 0x%08X: %w", word, va, armerr.ErrInvalidInstruction)
}

func isBranchExchange(word uint32) bool {
	// cond 0001 0010 1111 1111 1111 00L1 Rm  (BX: L=0, BLX: L=1)
	return (word>>4)&0xFFFFFF == 0x12FFF1 || (word>>4)&0xFFFFFF == 0x12FFF3
}

func decodeBX(op *Opcode, word uint32) (*Opcode, error) {
	rm := int(word & 0xF)
	op.Operands = []Operand{Register{Num: rm}}
	if (word>>5)&1 == 1 {
		op.Mnemonic = "blx"
		op.IFlags |= IFlagLink
	} else {
		op.Mnemonic = "bx"
	}
	return op, nil
}

// isExtraLoadStore detects LDRH/STRH/LDRSB/LDRSH: bit7=1, bit4=1,
// within the data-processing class (bits27:25 == 000).
func isExtraLoadStore(word uint32) bool {
	return (word>>25)&0x7 == 0 && (word>>7)&1 == 1 && (word>>4)&1 == 1 && (word>>20)&0x19 != 0x10
}

func decodeExtraLoadStore(op *Opcode, word uint32) (*Opcode, error) {
	p := (word >> 24) & 1
	u := (word >> 23) & 1
	i := (word >> 22) & 1
	w := (word >> 21) & 1
	l := (word >> 20) & 1
	rn := int((word >> 16) & 0xF)
	rd := int((word >> 12) & 0xF)
	sh := (word >> 5) & 0x3
	var immH, immL, rm uint32
	if i == 1 {
		immH = (word >> 8) & 0xF
		immL = word & 0xF
	} else {
		rm = word & 0xF
	}

	var size Size
	var signed bool
	switch sh {
	case 0b01:
		size = SizeHalf
	case 0b10:
		size = SizeByte
		signed = true
	case 0b11:
		size = SizeHalf
		signed = true
	default:
		return nil, fmt.Errorf("reserved extra-load/store sh=00 word 0x%08X: %w", word, armerr.ErrInvalidInstruction)
	}

	var off Operand
	if i == 1 {
		off = Immediate{Value: (immH << 4) | immL}
	} else {
		off = Register{Num: int(rm)}
	}

	m := Memory{Base: rn, Offset: off, Add: u == 1, PreIndex: p == 1, WriteBack: w == 1 || p == 0, Size: size, Signed: signed}
	op.Operands = []Operand{Register{Num: rd}, m}
	op.OpSize = size
	if l == 1 {
		op.Mnemonic = "ldr"
	} else {
		op.Mnemonic = "str"
	}
	return op, nil
}

func decodeDataProcessing(op *Opcode, word uint32) (*Opcode, error) {
	i := (word >> 25) & 1
	opcode := (word >> 21) & 0xF
	s := (word >> 20) & 1
	rn := int((word >> 16) & 0xF)
	rd := int((word >> 12) & 0xF)

	op.Mnemonic = dpMnemonics[opcode]
	if s == 1 {
		op.IFlags |= IFlagS
	}

	var op2 Operand
	if i == 1 {
		rot := (word >> 8) & 0xF
		imm8 := word & 0xFF
		val := rotateRight32(imm8, uint(rot*2))
		carry := false
		if rot != 0 {
			carry = val&(1<<31) != 0
		}
		op2 = Immediate{Value: val, CarryOutValid: rot != 0, CarryOutBit: carry}
	} else {
		rm := int(word & 0xF)
		shiftType := ShiftKind((word >> 5) & 0x3)
		if (word>>4)&1 == 1 {
			op2 = Register{Num: rm, Shift: shiftType, ShiftByReg: true, ShiftReg: int((word >> 8) & 0xF)}
		} else {
			amt := uint8((word >> 7) & 0x1F)
			if amt == 0 && shiftType == ShiftROR {
				shiftType = ShiftRRX
			}
			op2 = Register{Num: rm, Shift: shiftType, ShiftAmt: amt}
		}
	}

	if dpIsCompareOnly(opcode) {
		op.Operands = []Operand{Register{Num: rn}, op2}
	} else if opcode == 0xD || opcode == 0xF { // MOV/MVN: no Rn
		op.Operands = []Operand{Register{Num: rd}, op2}
	} else {
		op.Operands = []Operand{Register{Num: rd}, Register{Num: rn}, op2}
	}
	return op, nil
}

func rotateRight32(v uint32, n uint) uint32 {
	n &= 31
	if n == 0 {
		return v
	}
	return (v >> n) | (v << (32 - n))
}

func decodeSingleTransfer(op *Opcode, word uint32) (*Opcode, error) {
	i := (word >> 25) & 1
	p := (word >> 24) & 1
	u := (word >> 23) & 1
	b := (word >> 22) & 1
	w := (word >> 21) & 1
	l := (word >> 20) & 1
	rn := int((word >> 16) & 0xF)
	rd := int((word >> 12) & 0xF)

	var off Operand
	if i == 0 {
		off = Immediate{Value: word & 0xFFF}
	} else {
		rm := int(word & 0xF)
		shiftType := ShiftKind((word >> 5) & 0x3)
		amt := uint8((word >> 7) & 0x1F)
		off = Register{Num: rm, Shift: shiftType, ShiftAmt: amt}
	}

	size := SizeWord
	if b == 1 {
		size = SizeByte
	}
	m := Memory{Base: rn, Offset: off, Add: u == 1, PreIndex: p == 1, WriteBack: w == 1 || p == 0, Size: size}
	op.Operands = []Operand{Register{Num: rd}, m}
	op.OpSize = size
	if l == 1 {
		op.Mnemonic = "ldr"
	} else {
		op.Mnemonic = "str"
	}
	return op, nil
}

func decodeBlockTransfer(op *Opcode, word uint32) (*Opcode, error) {
	p := (word >> 24) & 1
	u := (word >> 23) & 1
	s := (word >> 22) & 1
	w := (word >> 21) & 1
	l := (word >> 20) & 1
	rn := int((word >> 16) & 0xF)
	regList := uint16(word & 0xFFFF)

	switch {
	case p == 1 && u == 1:
		op.IFlags |= IFlagDAIB_IB
	case p == 0 && u == 1:
		op.IFlags |= IFlagDAIB_IA
	case p == 1 && u == 0:
		op.IFlags |= IFlagDAIB_DB
	default:
		op.IFlags |= IFlagDAIB_DA
	}
	if s == 1 {
		op.IFlags |= IFlagUserBank
	}
	if w == 1 {
		op.IFlags |= IFlagWriteback
	}

	op.RegList = regList
	op.Operands = []Operand{Register{Num: rn}, RegisterList{Mask: regList}}
	if l == 1 {
		op.Mnemonic = "ldm"
	} else {
		op.Mnemonic = "stm"
	}
	return op, nil
}

func decodeBranch(op *Opcode, word uint32) (*Opcode, error) {
	l := (word >> 24) & 1
	imm24 := word & 0xFFFFFF
	signed := int32(imm24<<8) >> 8 // sign-extend 24->32, then <<2 below
	disp := signed << 2
	tgt := uint32(int64(op.VA) + 8 + int64(disp))
	op.branchTarget = &tgt
	op.Operands = []Operand{Immediate{Value: tgt}}
	if l == 1 {
		op.Mnemonic = "bl"
		op.IFlags |= IFlagLink
	} else {
		op.Mnemonic = "b"
	}
	return op, nil
}

func decodeSWI(op *Opcode, word uint32) (*Opcode, error) {
	op.vector = word & 0xFFFFFF
	op.Mnemonic = "swi"
	op.Operands = []Operand{Immediate{Value: op.vector}}
	return op, nil
}

func decodeCoproc(op *Opcode, word uint32) (*Opcode, error) {
	cpNum := int((word >> 8) & 0xF)
	crn := int((word >> 16) & 0xF)
	crd := int((word >> 12) & 0xF)
	crm := int(word & 0xF)
	op.CoprocIndex = cpNum
	op.CoprocRn = crn
	op.CoprocRd = crd
	op.CoprocRm = crm

	if cpNum > 15 {
		return nil, fmt.Errorf("coprocessor index %d: %w", cpNum, armerr.ErrInvalidCoproc)
	}

	bits27_24 := (word >> 24) & 0xF
	bits23_21 := (word >> 21) & 0x7

	if bits27_24 == 0xC && bits23_21 == 0x2 {
		// Double register transfer: MCRR (L=0) / MRRC (L=1).
		l := (word >> 20) & 1
		op.CoprocOp = (word >> 4) & 0xF
		if l == 1 {
			op.Mnemonic = "mrrc"
		} else {
			op.Mnemonic = "mcrr"
		}
		return op, nil
	}

	if bits27_24 == 0xC {
		// LDC/STC.
		l := (word >> 20) & 1
		n := (word >> 22) & 1 // long transfer marker, not modeled further
		_ = n
		if l == 1 {
			op.Mnemonic = "ldc"
		} else {
			op.Mnemonic = "stc"
		}
		return op, nil
	}

	// CDP / MRC / MCR (bits27:24 == 1110).
	op.CoprocOp = (word >> 20) & 0xF
	if (word>>4)&1 == 0 {
		op.Mnemonic = "cdp"
		return op, nil
	}
	l := (word >> 20) & 1
	if l == 1 {
		op.Mnemonic = "mrc"
	} else {
		op.Mnemonic = "mcr"
	}
	return op, nil
}
