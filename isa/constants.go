// Package isa holds the static instruction-set description shared by the
// encoder and the decoder/dispatcher: bit-field layout constants, the
// mnemonic tables, and the register name tables. Keeping these as data
// (rather than duplicating magic numbers in both the encoder and the VM)
// is what lets the two sides of the assembler/simulator mirror each other
// (testable property P6).
package isa

// Architectural scalar constants (spec.md §3), fixed at build time.
const (
	XLEN               = 32 // instruction & GPR width
	ELEN               = 32 // max element size supported by this core
	TLEN               = 512
	TRLEN              = 128
	ROWNUM             = TLEN / TRLEN  // 4
	ElementsPerRowTR   = TRLEN / ELEN  // 4
	NumTileRegisters   = 8             // tr0..tr7
	NumAccRegisters    = 4             // acc0..acc3 (== tr0..tr3)
	NumGPR             = 32
)

// MajorOpcode is the RISC-V custom-1 opcode used by every matrix
// instruction (spec.md §4.3).
const MajorOpcode uint32 = 0b0101011

// func3 values distinguishing the top-level instruction groups.
const (
	Func3ConfigLoadStoreMatmulMisc uint32 = 0b000
	Func3ElementWise               uint32 = 0b001
)

// uop values, valid only when func3 == Func3ConfigLoadStoreMatmulMisc.
const (
	UopConfig    uint32 = 0b00
	UopLoadStore uint32 = 0b01
	UopMatmul    uint32 = 0b10
	UopMisc      uint32 = 0b11
)

// uop values valid when func3 == Func3ElementWise.
const (
	UopElementWiseInt   uint32 = 0b01
	UopElementWiseFloat uint32 = 0b10
)

// Field widths/shifts of the common 32-bit layout (spec.md §4.3):
//
//	31..28 func4 | 27..26 uop | 25..23 ctrl/imm3 | 22..20 ms2 |
//	19..18 s_size | 17..15 ms1 | 14..12 func3 | 11..10 d_size |
//	9..7 md | 6..0 opcode
const (
	ShiftOpcode = 0
	ShiftMd     = 7
	ShiftDSize  = 10
	ShiftFunc3  = 12
	ShiftMs1    = 15
	ShiftSSize  = 18
	ShiftMs2    = 20
	ShiftCtrl   = 23
	ShiftUop    = 26
	ShiftFunc4  = 28

	MaskOpcode = 0x7F
	MaskMd     = 0x7
	MaskDSize  = 0x3
	MaskFunc3  = 0x7
	MaskMs1    = 0x7
	MaskSSize  = 0x3
	MaskMs2    = 0x7
	MaskCtrl   = 0x7
	MaskUop    = 0x3
	MaskFunc4  = 0xF
)

// Load/Store form reinterprets bits 25..20 as ls(1)||rs2(5), and 19..15 as rs1.
const (
	ShiftLS  = 25
	MaskLS   = 0x1
	ShiftRS2 = 20
	MaskRS2  = 0x1F
	ShiftRS1 = 15
	MaskRS1  = 0x1F
)

// Config form reinterprets bits 24..20 ++ 19..15 as a 10-bit immediate, or
// the same span as an rs2/rs1 GPR pair selected by ctrl bit 25.
const (
	ShiftCtrlBit25 = 25
	ShiftConfigImmHi = 20
	MaskConfigImmHi  = 0x1F
	ShiftConfigImmLo = 15
	MaskConfigImmLo  = 0x1F
	ConfigImmMax     = 1 << 10
)

// mmovw.x.m reinterprets bits 11..7 (elsewhere d_size++md) as rd, a full
// 5-bit GPR index: that mnemonic's destination is a scalar register, not a
// matrix register, and its source accumulator already occupies ms2's span.
const (
	ShiftMiscRd = 7
	MaskMiscRd  = 0x1F
)
