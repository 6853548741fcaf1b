package codeflow

import (
	"testing"

	"github.com/tinbound/armflow/arm"
	"github.com/tinbound/armflow/armerr"
	"github.com/tinbound/armflow/mem"
)

func newWorkspace(t *testing.T) *mem.Image {
	t.Helper()
	img := mem.New(4, mem.LittleEndian)
	if err := img.AddRegion(0x8000, 0x2000, mem.PermRead|mem.PermWrite|mem.PermExec, "code"); err != nil {
		t.Fatal(err)
	}
	return img
}

func putWord(t *testing.T, img *mem.Image, va uint32, w uint32) {
	t.Helper()
	if err := img.WriteU32(va, w); err != nil {
		t.Fatalf("putWord %#x: %v", va, err)
	}
}

func decoderFor(img *mem.Image) DecodeFunc {
	return func(va uint32) (*arm.Opcode, error) {
		word, ok := img.ReadU32(va)
		if !ok {
			return nil, armerr.ErrUnmappedMemory
		}
		return arm.Decode(va, word)
	}
}

// nopWord is MOV r0, r0 (cond AL, non-S): a harmless one-word filler
// instruction used to pad scan targets in these tests.
const nopWord = 0xE1A00000

func TestLinearScanMarksEveryVAOnce(t *testing.T) {
	img := newWorkspace(t)
	putWord(t, img, 0x8000, nopWord)
	putWord(t, img, 0x8004, nopWord)
	putWord(t, img, 0x8008, nopWord)
	a := New(img, decoderFor(img), DefaultSink{})
	a.AddCodeFlow(0x8000)
	for _, va := range []uint32{0x8000, 0x8004, 0x8008} {
		if !a.State.OpDone[va] {
			t.Fatalf("va %#x not marked done", va)
		}
	}
}

func TestCallDoesNotCrossIntoLinearFlow(t *testing.T) {
	img := newWorkspace(t)
	// BL #0x9000 at 0x8000: imm24 = (0x9000-0x8000-8)/4 = 0x3FE
	putWord(t, img, 0x8000, 0xEB0003FE)
	putWord(t, img, 0x8004, nopWord) // fall-through after the call
	putWord(t, img, 0x9000, nopWord)
	a := New(img, decoderFor(img), DefaultSink{})
	callees := a.AddCodeFlow(0x8000)
	if len(callees) != 1 || callees[0] != 0x9000 {
		t.Fatalf("callees = %v, want [0x9000]", callees)
	}
	if !a.State.Funcs[0x9000] {
		t.Fatal("call target not registered as a function")
	}
	if !a.State.OpDone[0x8004] {
		t.Fatal("fall-through after a call should still be scanned")
	}
}

func TestNoReturnSuppressesFallthrough(t *testing.T) {
	img := newWorkspace(t)
	putWord(t, img, 0x8000, nopWord)
	putWord(t, img, 0x8004, nopWord)
	a := New(img, decoderFor(img), DefaultSink{})
	a.AddNoReturnAddr(0x8000)
	a.AddCodeFlow(0x8000)
	if a.State.OpDone[0x8004] {
		t.Fatal("no-return VA should not have produced a fall-through successor")
	}
}

func TestDynamicBranchInvokesResolver(t *testing.T) {
	img := newWorkspace(t)
	putWord(t, img, 0x8000, 0xE12FFF1E) // bx lr
	putWord(t, img, 0x9000, nopWord)
	a := New(img, decoderFor(img), DefaultSink{})
	resolved := false
	a.AddDynamicBranchHandler(func(va uint32, op *arm.Opcode) []arm.Branch {
		resolved = true
		tgt := uint32(0x9000)
		return []arm.Branch{{Target: &tgt, Flags: arm.BranchPROC}}
	})
	a.AddCodeFlow(0x8000)
	if !resolved {
		t.Fatal("dynamic branch resolver never invoked")
	}
}

func TestNoFlowEdgeSkipsTarget(t *testing.T) {
	img := newWorkspace(t)
	putWord(t, img, 0x8000, nopWord)
	putWord(t, img, 0x8004, nopWord)
	a := New(img, decoderFor(img), DefaultSink{})
	a.AddNoFlow(0x8000, 0x8004)
	a.AddCodeFlow(0x8000)
	if a.State.OpDone[0x8004] {
		t.Fatal("suppressed noflow edge should not have been scanned")
	}
}
