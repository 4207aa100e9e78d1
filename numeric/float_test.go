package numeric

import (
	"math"
	"testing"
)

func TestFP32RoundTripMatchesNativeBits(t *testing.T) {
	tests := []float32{0, 1, -1, 3.5, -3.5, 1234.5, 1e10, -1e-10}
	for _, x := range tests {
		got := FP32.ToBits(float64(x))
		want := math.Float32bits(x)
		if got != want {
			t.Errorf("FP32.ToBits(%v) = 0x%08x, want 0x%08x", x, got, want)
		}
		back := FP32.FromBits(got)
		if float32(back) != x {
			t.Errorf("FP32 round trip %v -> %v", x, back)
		}
	}
}

func TestRoundTripFiniteNormalP3(t *testing.T) {
	formats := map[string]Format{"fp16": FP16, "bf16": BF16, "e4m3": E4M3, "e5m2": E5M2}
	for name, f := range formats {
		for b := uint32(0); b < (1 << uint(f.Width)); b++ {
			exp := (b >> uint(f.ManBits)) & (1<<uint(f.ExpBits) - 1)
			if exp == 0 || exp == (1<<uint(f.ExpBits))-1 {
				continue // skip zero/subnormal/inf/nan corners
			}
			x := f.FromBits(b)
			if math.IsNaN(x) || math.IsInf(x, 0) {
				continue
			}
			back := f.ToBits(x)
			if back != b {
				t.Errorf("%s round trip bits 0x%x -> float %v -> bits 0x%x", name, b, x, back)
			}
		}
	}
}

func TestBF16TruncateOfFP32(t *testing.T) {
	// BF16 is the round-to-nearest-even truncation of the low 16 bits of FP32.
	x := float32(3.14159265)
	fp32bits := math.Float32bits(x)
	expected := uint32((fp32bits) >> 16)
	got := BF16.ToBits(float64(x))
	if got != expected && got != expected+1 {
		t.Errorf("BF16.ToBits(%v) = 0x%04x, want approx 0x%04x", x, got, expected)
	}
}

func TestSignExtendInt8(t *testing.T) {
	tests := []struct {
		in   uint8
		want int32
	}{
		{0x00, 0},
		{0x7F, 127},
		{0x80, -128},
		{0xFF, -1},
	}
	for _, tt := range tests {
		if got := SignExtendInt8(tt.in); got != tt.want {
			t.Errorf("SignExtendInt8(0x%02x) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestNaNCanonical(t *testing.T) {
	b := FP32.ToBits(math.NaN())
	x := FP32.FromBits(b)
	if !math.IsNaN(x) {
		t.Errorf("expected NaN, got %v", x)
	}
}

func TestQuantizeIdempotent(t *testing.T) {
	formats := []Format{FP16, BF16, E4M3, E5M2}
	for _, f := range formats {
		x := 3.25
		once := f.Quantize(x)
		twice := f.Quantize(once)
		if once != twice {
			t.Errorf("Quantize not idempotent for width %d: %v vs %v", f.Width, once, twice)
		}
	}
}
