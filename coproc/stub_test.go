package coproc

import "testing"

func TestRegistryBindsSystemControlAtFifteen(t *testing.T) {
	r := NewRegistry()
	if r.Get(15).Name() != "cp15" {
		t.Fatalf("slot 15 = %s, want cp15", r.Get(15).Name())
	}
	if r.Get(3).Name() != "cp3" {
		t.Fatalf("slot 3 = %s, want base stub cp3", r.Get(3).Name())
	}
}

func TestSystemControlRegisterRoundTrip(t *testing.T) {
	s := NewSystemControlStub()
	s.MCR(Op{CRn: 1}, 0xCAFE)
	if got := s.MRC(Op{CRn: 1}); got != 0xCAFE {
		t.Fatalf("cp15 crn1 = %#x, want 0xCAFE", got)
	}
	if got := s.MRC(Op{CRn: 2}); got != 0 {
		t.Fatalf("cp15 crn2 = %#x, want 0 (never written)", got)
	}
}

func TestBaseStubIsSideEffectFree(t *testing.T) {
	b := &BaseStub{index: 7}
	b.MCR(Op{}, 1)
	if got := b.MRC(Op{}); got != 0 {
		t.Fatalf("base stub MRC = %#x, want 0", got)
	}
	lo, hi := b.MRRC(Op{})
	if lo != 0 || hi != 0 {
		t.Fatal("base stub MRRC should return zero pair")
	}
	if data := b.LDC(Op{}, 0); data != nil {
		t.Fatal("base stub LDC should return nil")
	}
}

func TestOutOfRangeRegistryIndexFallsBackToBaseStub(t *testing.T) {
	r := NewRegistry()
	s := r.Get(99)
	if s.Name() != "cp99" {
		t.Fatalf("out-of-range Get = %s, want fallback base stub", s.Name())
	}
}
