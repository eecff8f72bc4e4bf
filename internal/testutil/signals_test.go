package testutil

import (
	"math"
	"testing"
)

func TestDeterministicSine(t *testing.T) {
	s := DeterministicSine(1000, 48000, 1.0, 48)
	if len(s) != 48 {
		t.Fatalf("len = %d, want 48", len(s))
	}
	if math.Abs(s[0]) > 1e-15 {
		t.Fatalf("s[0] = %v, want 0", s[0])
	}
	if math.Abs(s[12]-1) > 1e-12 {
		t.Fatalf("s[12] = %v, want 1 at a quarter period", s[12])
	}
}

func TestReferenceSquare(t *testing.T) {
	s := ReferenceSquare(1000, 48000, 0.2, 48)
	if s[0] != 0.2 {
		t.Fatalf("s[0] = %v, want 0.2", s[0])
	}
	if s[30] != -0.2 {
		t.Fatalf("s[30] = %v, want -0.2 in the second half cycle", s[30])
	}
	for i, v := range s {
		if math.Abs(v) != 0.2 {
			t.Fatalf("s[%d] = %v, want ±0.2", i, v)
		}
	}
}

func TestDC(t *testing.T) {
	d := DC(0.5, 4)
	for i, v := range d {
		if v != 0.5 {
			t.Fatalf("DC[%d] = %v, want 0.5", i, v)
		}
	}
}

func TestSilence(t *testing.T) {
	s := Silence(16)
	if len(s) != 16 {
		t.Fatalf("len = %d, want 16", len(s))
	}
	RequireSilent(t, s)
}
