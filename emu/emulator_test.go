package emu

import (
	"testing"

	"github.com/tinbound/armflow/arm"
	"github.com/tinbound/armflow/mem"
	"github.com/tinbound/armflow/regs"
)

func newTestEmulator(t *testing.T) *Emulator {
	t.Helper()
	img := mem.New(4, mem.LittleEndian)
	if err := img.AddRegion(0x1000, 0x1000, mem.PermRead|mem.PermWrite|mem.PermExec, "code"); err != nil {
		t.Fatal(err)
	}
	return New(img)
}

func putWord(t *testing.T, e *Emulator, va uint32, w uint32) {
	t.Helper()
	if !e.WriteMem(va, arm.SizeWord, w) {
		t.Fatalf("putWord: write at %#x failed", va)
	}
}

func TestMovImmediateAndAdd(t *testing.T) {
	e := newTestEmulator(t)
	e.Regs.Set(regs.R15, 0x1000)
	// MOV r0, #5  -> cond=AL(1110) 00 I=1 opcode=1101(mov) S=0 Rn=0000 Rd=0000 rot=0000 imm8=00000101
	putWord(t, e, 0x1000, 0xE3A00005)
	// ADD r1, r0, #3
	putWord(t, e, 0x1004, 0xE2801003)
	if err := e.Step(); err != nil {
		t.Fatalf("step1: %v", err)
	}
	if got := e.Regs.Get(regs.R0); got != 5 {
		t.Fatalf("r0 = %d, want 5", got)
	}
	if err := e.Step(); err != nil {
		t.Fatalf("step2: %v", err)
	}
	if got := e.Regs.Get(1); got != 8 {
		t.Fatalf("r1 = %d, want 8", got)
	}
	if got := e.Regs.Get(regs.R15); got != 0x1008 {
		t.Fatalf("pc = %#x, want 0x1008", got)
	}
}

func TestAddWithCarrySetsFlags(t *testing.T) {
	result, carry, overflow := AddWithCarry(0xFFFFFFFF, 1, 0)
	if result != 0 || !carry || overflow {
		t.Fatalf("0xFFFFFFFF+1 = %#x carry=%v overflow=%v, want 0,true,false", result, carry, overflow)
	}
	result, carry, overflow = AddWithCarry(0x7FFFFFFF, 1, 0)
	if result != 0x80000000 || carry || !overflow {
		t.Fatalf("0x7FFFFFFF+1 = %#x carry=%v overflow=%v, want 0x80000000,false,true", result, carry, overflow)
	}
}

func TestSubtractionUsesInvertedAddWithCarry(t *testing.T) {
	result, carry, _ := AddWithCarry(5, ^uint32(3), 1)
	if result != 2 || !carry {
		t.Fatalf("5-3 via AddWithCarry = %d carry=%v, want 2,true", result, carry)
	}
}

func TestBranchRedirectsPCWithoutFallthroughAdvance(t *testing.T) {
	e := newTestEmulator(t)
	e.Regs.Set(regs.R15, 0x1000)
	// B #0x1010 forward: cond=AL 101 L=0 imm24 = (0x1010-0x1000-8)/4 = 2
	putWord(t, e, 0x1000, 0xEA000002)
	if err := e.Step(); err != nil {
		t.Fatalf("step: %v", err)
	}
	if got := e.Regs.Get(regs.R15); got != 0x1010 {
		t.Fatalf("pc = %#x, want 0x1010", got)
	}
}

func TestExceptionReturnRestoresCPSRFromSPSR(t *testing.T) {
	e := newTestEmulator(t)
	e.Regs.SetProcMode(regs.ModeIRQ)
	e.Regs.SetSPSR(0x10) // User mode bits, all flags clear
	e.Regs.SetCPSR(0x12) // currently IRQ
	e.restoreFromSPSR()
	if e.Regs.GetCPSR() != 0x10 {
		t.Fatalf("CPSR = %#x, want restored SPSR 0x10", e.Regs.GetCPSR())
	}
}

func TestRestoreFromSPSRNoOpInUserMode(t *testing.T) {
	e := newTestEmulator(t)
	e.Regs.SetProcMode(regs.ModeUser)
	before := e.Regs.GetCPSR()
	e.restoreFromSPSR()
	if e.Regs.GetCPSR() != before {
		t.Fatal("restoreFromSPSR modified CPSR in User mode, should be a no-op")
	}
}

// TestLDMDecrementBeforeMatchesScenarioS5 exercises ldmdb sp!, {r4,r5,r6}
// with sp=0x1010 and memory {0x100c:A, 0x1008:B, 0x1004:C}, matching
// spec.md's "LDM decrement" scenario exactly: r6=A, r5=B, r4=C, sp=0x1004.
func TestLDMDecrementBeforeMatchesScenarioS5(t *testing.T) {
	e := newTestEmulator(t)
	e.Regs.Set(regs.R13, 0x1010)
	putWord(t, e, 0x100C, 0xAAAA1111)
	putWord(t, e, 0x1008, 0xBBBB2222)
	putWord(t, e, 0x1004, 0xCCCC3333)

	// ldmdb sp!, {r4,r5,r6}: cond=AL 100 P=1 U=0 S=0 W=1 L=1 Rn=13(sp) reglist={4,5,6}
	op, err := arm.Decode(0x2000, 0xE93D0070)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if _, err := e.execute(op); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := e.Regs.Get(regs.R6); got != 0xAAAA1111 {
		t.Fatalf("r6 = %#x, want 0xAAAA1111 (highest address, 0x100c)", got)
	}
	if got := e.Regs.Get(5); got != 0xBBBB2222 {
		t.Fatalf("r5 = %#x, want 0xBBBB2222 (0x1008)", got)
	}
	if got := e.Regs.Get(4); got != 0xCCCC3333 {
		t.Fatalf("r4 = %#x, want 0xCCCC3333 (lowest address, 0x1004)", got)
	}
	if got := e.Regs.Get(regs.R13); got != 0x1004 {
		t.Fatalf("sp = %#x, want 0x1004 (writeback base-n*4)", got)
	}
}
