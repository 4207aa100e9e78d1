package vm

import (
	"fmt"

	"github.com/rvmatrix/miss/isa"
)

// Decoded is the tagged-variant result of decoding a 32-bit instruction
// word (spec.md §4.3): the common field bundle, plus the reinterpreted
// views used by the Load/Store and Config groups.
type Decoded struct {
	Word  uint32
	Class isa.Group

	Opcode uint32
	Func3  uint32
	Uop    uint32
	Func4  uint32
	Ctrl   uint32 // bits 25..23, a.k.a. imm3 in the Misc/EW groups
	Ms2    uint32
	SSize  uint32
	Ms1    uint32
	DSize  uint32
	Md     uint32

	// Load/Store reinterpretation of bits 25..15.
	LS  uint32
	RS2 uint32
	RS1 uint32

	// Config reinterpretation of bits 24..15 and ctrl bit 25.
	CtrlBit25 uint32
	ConfigImm uint32

	// mmovw.x.m's reinterpretation of bits 11..7 as a full GPR index.
	MiscRd uint32
}

// Decode extracts the common field layout from word and classifies it into
// one of the five dispatch groups per spec.md §4.3's table. Any other
// (opcode, func3, uop) triple is reported as an error; the caller (the
// Step loop) is responsible for advancing PC regardless.
func Decode(word uint32) (Decoded, error) {
	d := Decoded{
		Word:      word,
		Opcode:    (word >> isa.ShiftOpcode) & isa.MaskOpcode,
		Md:        (word >> isa.ShiftMd) & isa.MaskMd,
		DSize:     (word >> isa.ShiftDSize) & isa.MaskDSize,
		Func3:     (word >> isa.ShiftFunc3) & isa.MaskFunc3,
		Ms1:       (word >> isa.ShiftMs1) & isa.MaskMs1,
		SSize:     (word >> isa.ShiftSSize) & isa.MaskSSize,
		Ms2:       (word >> isa.ShiftMs2) & isa.MaskMs2,
		Ctrl:      (word >> isa.ShiftCtrl) & isa.MaskCtrl,
		Uop:       (word >> isa.ShiftUop) & isa.MaskUop,
		Func4:     (word >> isa.ShiftFunc4) & isa.MaskFunc4,
		LS:        (word >> isa.ShiftLS) & isa.MaskLS,
		RS2:       (word >> isa.ShiftRS2) & isa.MaskRS2,
		RS1:       (word >> isa.ShiftRS1) & isa.MaskRS1,
		CtrlBit25: (word >> isa.ShiftCtrlBit25) & 1,
		ConfigImm: (((word >> isa.ShiftConfigImmHi) & isa.MaskConfigImmHi) << 5) | ((word >> isa.ShiftConfigImmLo) & isa.MaskConfigImmLo),
		MiscRd:    (word >> isa.ShiftMiscRd) & isa.MaskMiscRd,
	}

	if d.Opcode != isa.MajorOpcode {
		return d, fmt.Errorf("unknown major opcode 0b%07b (word=0x%08x)", d.Opcode, word)
	}

	switch {
	case d.Func3 == isa.Func3ConfigLoadStoreMatmulMisc && d.Uop == isa.UopConfig:
		d.Class = isa.GroupConfig
	case d.Func3 == isa.Func3ConfigLoadStoreMatmulMisc && d.Uop == isa.UopLoadStore:
		d.Class = isa.GroupLoadStore
	case d.Func3 == isa.Func3ConfigLoadStoreMatmulMisc && d.Uop == isa.UopMatmul:
		d.Class = isa.GroupMatmul
	case d.Func3 == isa.Func3ConfigLoadStoreMatmulMisc && d.Uop == isa.UopMisc:
		d.Class = isa.GroupMisc
	case d.Func3 == isa.Func3ElementWise && (d.Uop == isa.UopElementWiseInt || d.Uop == isa.UopElementWiseFloat):
		d.Class = isa.GroupElementWise
	default:
		return d, fmt.Errorf("unrecognized (func3=0b%03b, uop=0b%02b) combination (word=0x%08x)", d.Func3, d.Uop, word)
	}

	return d, nil
}
