// Package emu implements the Instruction-Set Emulator (component E):
// a single-step ARM interpreter built on the Register Context (regs),
// Memory Image (mem), Opcode Model (arm) and Coprocessor Stubs
// (coproc) components. It is the arm.OperandEnv implementation, the
// one place those leaf packages come together.
package emu

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tinbound/armflow/arm"
	"github.com/tinbound/armflow/armerr"
	"github.com/tinbound/armflow/coproc"
	"github.com/tinbound/armflow/mem"
	"github.com/tinbound/armflow/regs"
)

// Host lets an embedder observe emulation events it cares about
// (software interrupts, undefined instructions) without the
// Emulator depending on any particular frontend.
type Host interface {
	OnSWI(vector uint32)
	OnUndefined(va uint32, word uint32)
}

// NopHost implements Host with no-ops, the default when no embedder
// supplies one.
type NopHost struct{}

func (NopHost) OnSWI(uint32)           {}
func (NopHost) OnUndefined(uint32, uint32) {}

// Emulator is one ARM core: a register bank, a memory image, a
// coprocessor registry, and the host callback.
type Emulator struct {
	Regs    *regs.Context
	Mem     *mem.Image
	Coprocs *coproc.Registry
	Host    Host

	log *logrus.Entry
}

// New builds an Emulator over an existing memory image. The caller
// owns image construction (region layout is a config-time concern);
// the emulator only reads and writes through it.
func New(image *mem.Image) *Emulator {
	return &Emulator{
		Regs:    regs.NewContext(),
		Mem:     image,
		Coprocs: coproc.NewRegistry(),
		Host:    NopHost{},
		log:     logrus.WithField("component", "emu"),
	}
}

// --- arm.OperandEnv ---

func (e *Emulator) GetReg(n int) uint32 {
	if n == armPC {
		return e.Regs.Get(regs.R15)
	}
	return e.Regs.Get(n)
}

func (e *Emulator) SetReg(n int, v uint32) {
	e.Regs.Set(n, v)
}

func (e *Emulator) PC() uint32 { return e.Regs.Get(regs.R15) }

func (e *Emulator) CarryFlag() bool { return e.Regs.GetFlag(regs.FlagC) }

func (e *Emulator) ReadMem(va uint32, size arm.Size) (uint32, bool) {
	b, ok := e.Mem.ReadBytes(va, size.Bytes())
	if !ok {
		return 0, false
	}
	switch size {
	case arm.SizeByte:
		return uint32(b[0]), true
	case arm.SizeHalf:
		return uint32(e.Mem.Endian().Uint16(b)), true
	default:
		return e.Mem.Endian().Uint32(b), true
	}
}

func (e *Emulator) WriteMem(va uint32, size arm.Size, v uint32) bool {
	switch size {
	case arm.SizeByte:
		return e.Mem.WriteBytes(va, []byte{byte(v)}) == nil
	case arm.SizeHalf:
		buf := make([]byte, 2)
		e.Mem.Endian().PutUint16(buf, uint16(v))
		return e.Mem.WriteBytes(va, buf) == nil
	default:
		buf := make([]byte, 4)
		e.Mem.Endian().PutUint32(buf, v)
		return e.Mem.WriteBytes(va, buf) == nil
	}
}

// armPC is the logical register number the arm package's decoded
// operands use for PC-relative addressing; it is the same index as
// regs.R15, kept as a separate name so emu's OperandEnv methods read
// self-documentingly at the call sites above.
const armPC = regs.R15

// Flags reads the four condition flags emu needs to check an
// instruction's predicate.
func (e *Emulator) Flags() arm.Flags {
	return arm.Flags{
		N: e.Regs.GetFlag(regs.FlagN),
		Z: e.Regs.GetFlag(regs.FlagZ),
		C: e.Regs.GetFlag(regs.FlagC),
		V: e.Regs.GetFlag(regs.FlagV),
	}
}

// Step fetches, decodes, and executes one instruction at the current
// PC, then advances PC unless the instruction itself redirected flow
// (branch/BX/LDM-to-PC).
func (e *Emulator) Step() error {
	pc := e.Regs.Get(regs.R15)
	word, ok := e.ReadMem(pc, arm.SizeWord)
	if !ok {
		return fmt.Errorf("fetch at %#x: %w", pc, armerr.ErrUnmappedMemory)
	}

	op, err := arm.Decode(pc, word)
	if err != nil {
		e.Host.OnUndefined(pc, word)
		return fmt.Errorf("decode at %#x: %w", pc, err)
	}

	if !op.Cond.Eval(e.Flags()) {
		e.Regs.Set(regs.R15, pc+op.Size)
		return nil
	}

	redirected, err := e.execute(op)
	if err != nil {
		return fmt.Errorf("execute %s at %#x: %w", op.Mnemonic, pc, err)
	}
	if !redirected {
		e.Regs.Set(regs.R15, pc+op.Size)
	}
	return nil
}

func (e *Emulator) execute(op *arm.Opcode) (redirected bool, err error) {
	switch op.Mnemonic {
	case "and", "eor", "sub", "rsb", "add", "adc", "sbc", "rsc",
		"tst", "teq", "cmp", "cmn", "orr", "mov", "bic", "mvn":
		return e.execDataProcessing(op)
	case "ldr", "str":
		return false, e.execSingleTransfer(op)
	case "ldm", "stm":
		return e.execBlockTransfer(op)
	case "b", "bl":
		return e.execBranch(op)
	case "bx", "blx":
		return e.execBranchExchange(op)
	case "cbz", "cbnz":
		return e.execCompareBranch(op)
	case "swi", "svc":
		e.Host.OnSWI(op.Operands[0].(arm.Immediate).Value)
		return false, nil
	case "cdp", "mcr", "mrc", "mcrr", "mrrc", "ldc", "stc":
		return false, e.execCoproc(op)
	default:
		return false, fmt.Errorf("%s: %w", op.Mnemonic, armerr.ErrUnsupportedInstruction)
	}
}
