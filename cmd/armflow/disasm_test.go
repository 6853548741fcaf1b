package main

import (
	"testing"

	"github.com/tinbound/armflow/arm"
)

func TestFormatMnemonicAppendsConditionAndSFlag(t *testing.T) {
	word := uint32(0x10900001) // addnes r0, r0, r1 (cond=ne, S set)
	op, err := arm.Decode(0x8000, word)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got := formatMnemonic(op)
	if want := "addnes   ; 3 operand(s)"; got != want {
		t.Fatalf("formatMnemonic = %q, want %q", got, want)
	}
	if op.Cond != arm.CondNE {
		t.Fatalf("decoded cond = %v, want CondNE", op.Cond)
	}
}

func TestParseVAAcceptsHexAndDecimal(t *testing.T) {
	for _, s := range []string{"0x8000", "32768"} {
		va, err := parseVA(s)
		if err != nil {
			t.Fatalf("parseVA(%q): %v", s, err)
		}
		if va != 0x8000 {
			t.Fatalf("parseVA(%q) = %#x, want 0x8000", s, va)
		}
	}
}

func TestParseVARejectsGarbage(t *testing.T) {
	if _, err := parseVA("not-a-number"); err == nil {
		t.Fatal("expected an error for a non-numeric VA")
	}
}
