package isa

// EWEntry describes one Element-Wise mnemonic (spec.md §4.7). IsFloat
// distinguishes the uop=10 float group from the uop=01 integer group.
type EWEntry struct {
	Mnemonic string
	Func4    uint32
	IsFloat  bool
	SSize    uint32 // float group only: 01=FP16, 10=FP32 (s_size == d_size)
}

// EWTable is keyed by canonical mnemonic. These are the short (matrix-matrix
// default, ctrl=0b111) spellings used throughout spec.md's worked examples;
// the assembler additionally accepts an optional trailing immediate operand
// selecting a broadcast row (ctrl = that row's 3-bit value), per spec.md
// §4.7's ctrl field semantics.
var EWTable = map[string]EWEntry{
	// Integer ops (uop=01, s_size=d_size=10 implied).
	"madd.w":  {"madd.w", 0b0000, false, 0},
	"msub.w":  {"msub.w", 0b0001, false, 0},
	"mmul.w":  {"mmul.w", 0b0010, false, 0},
	"mmax.w":  {"mmax.w", 0b0100, false, 0},
	"mumax.w": {"mumax.w", 0b0101, false, 0},
	"mmin.w":  {"mmin.w", 0b0110, false, 0},
	"mumin.w": {"mumin.w", 0b0111, false, 0},
	"msrl.w":  {"msrl.w", 0b1000, false, 0},
	"msll.w":  {"msll.w", 0b1001, false, 0},
	"msra.w":  {"msra.w", 0b1010, false, 0},

	// Float ops (uop=10), FP32 spelling.
	"mfadd.s": {"mfadd.s", 0b0000, true, 0b10},
	"mfsub.s": {"mfsub.s", 0b0001, true, 0b10},
	"mfmul.s": {"mfmul.s", 0b0010, true, 0b10},
	"mfmax.s": {"mfmax.s", 0b0011, true, 0b10},
	"mfmin.s": {"mfmin.s", 0b0100, true, 0b10},

	// Float ops (uop=10), FP16 spelling.
	"mfadd.h": {"mfadd.h", 0b0000, true, 0b01},
	"mfsub.h": {"mfsub.h", 0b0001, true, 0b01},
	"mfmul.h": {"mfmul.h", 0b0010, true, 0b01},
	"mfmax.h": {"mfmax.h", 0b0011, true, 0b01},
	"mfmin.h": {"mfmin.h", 0b0100, true, 0b01},
}

// EWByFields reverse-resolves (isFloat, func4, sSize) back to a mnemonic.
func EWByFields(isFloat bool, func4, sSize uint32) (string, bool) {
	for name, e := range EWTable {
		if e.IsFloat == isFloat && e.Func4 == func4 && (!isFloat || e.SSize == sSize) {
			return name, true
		}
	}
	return "", false
}
