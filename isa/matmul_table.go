package isa

// MatmulEntry describes one of the ten supported Matmul encodings
// (spec.md §4.6's table; this is *exactly* that table, not the full
// original instruction set which also defines now-rejected variants).
type MatmulEntry struct {
	Mnemonic string
	Func4    uint32
	SizeSup  uint32
	SSize    uint32
	DSize    uint32
}

// MatmulTable is keyed by canonical mnemonic.
var MatmulTable = map[string]MatmulEntry{
	"mfmacc.s":       {"mfmacc.s", 0b0000, 0b000, 0b10, 0b10},
	"mfmacc.h":       {"mfmacc.h", 0b0000, 0b000, 0b01, 0b01},
	"mfmacc.s.h":     {"mfmacc.s.h", 0b0000, 0b000, 0b01, 0b10},
	"mfmacc.s.bf16":  {"mfmacc.s.bf16", 0b0000, 0b001, 0b01, 0b10},
	"mfmacc.bf16.e5": {"mfmacc.bf16.e5", 0b0000, 0b100, 0b00, 0b01},
	"mfmacc.bf16.e4": {"mfmacc.bf16.e4", 0b0000, 0b101, 0b00, 0b01},
	"mmacc.w.b":      {"mmacc.w.b", 0b0001, 0b011, 0b00, 0b10},
	"mmaccu.w.b":     {"mmaccu.w.b", 0b0001, 0b000, 0b00, 0b10},
	"mmaccus.w.b":    {"mmaccus.w.b", 0b0001, 0b001, 0b00, 0b10},
	"mmaccsu.w.b":    {"mmaccsu.w.b", 0b0001, 0b010, 0b00, 0b10},
}

// MatmulByFields reverse-resolves (func4, size_sup, s_size, d_size) back to
// a mnemonic.
func MatmulByFields(func4, sizeSup, sSize, dSize uint32) (string, bool) {
	for name, e := range MatmulTable {
		if e.Func4 == func4 && e.SizeSup == sizeSup && e.SSize == sSize && e.DSize == dSize {
			return name, true
		}
	}
	return "", false
}

// MatmulKind classifies the operand/arithmetic kind of a Matmul encoding so
// the handler can select its quantization/accumulation path.
type MatmulKind int

const (
	MatmulFP32xFP32toFP32 MatmulKind = iota
	MatmulFP16xFP16toFP16
	MatmulFP16xFP16toFP32
	MatmulBF16xBF16toFP32
	MatmulE5M2xE5M2toBF16
	MatmulE4M3xE4M3toBF16
	MatmulI8sxI8stoI32
	MatmulU8xU8toI32
	MatmulU8xI8stoI32
	MatmulI8sxU8toI32
)

// KindOf maps a Matmul mnemonic to its MatmulKind.
func KindOf(mnemonic string) (MatmulKind, bool) {
	kinds := map[string]MatmulKind{
		"mfmacc.s":       MatmulFP32xFP32toFP32,
		"mfmacc.h":       MatmulFP16xFP16toFP16,
		"mfmacc.s.h":     MatmulFP16xFP16toFP32,
		"mfmacc.s.bf16":  MatmulBF16xBF16toFP32,
		"mfmacc.bf16.e5": MatmulE5M2xE5M2toBF16,
		"mfmacc.bf16.e4": MatmulE4M3xE4M3toBF16,
		"mmacc.w.b":      MatmulI8sxI8stoI32,
		"mmaccu.w.b":     MatmulU8xU8toI32,
		"mmaccus.w.b":    MatmulU8xI8stoI32,
		"mmaccsu.w.b":    MatmulI8sxU8toI32,
	}
	k, ok := kinds[mnemonic]
	return k, ok
}
