package encoder

import (
	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/parser"
)

// encodeMisc packs one of the seven Miscellaneous mnemonics (spec.md §4.8).
// Operand shapes vary per mnemonic: "mzero md", "mmov.mm md, ms1",
// "mmovw.x.m rd, srcacc, rs1", "mmovw.m.x md, rs2, rs1",
// "mdupw.m.x md, rs2", "mrslidedown md, ms1, ctrl",
// "mcslidedown.w md, ms1, ctrl".
func (e *Encoder) encodeMisc(inst *parser.Instruction) (uint32, error) {
	switch inst.Mnemonic {
	case "mzero":
		if err := requireOperands(inst, 1); err != nil {
			return 0, err
		}
		md, err := e.matrixReg(inst, inst.Operands[0])
		if err != nil {
			return 0, err
		}
		return packCommon(0b0000, isa.UopMisc, 0, 0, 0, 0, isa.Func3ConfigLoadStoreMatmulMisc, 0, md), nil

	case "mmov.mm":
		if err := requireOperands(inst, 2); err != nil {
			return 0, err
		}
		md, err := e.matrixReg(inst, inst.Operands[0])
		if err != nil {
			return 0, err
		}
		ms1, err := e.matrixReg(inst, inst.Operands[1])
		if err != nil {
			return 0, err
		}
		return packCommon(0b0001, isa.UopMisc, 0, 0, 0, ms1, isa.Func3ConfigLoadStoreMatmulMisc, 0, md), nil

	case "mmovw.x.m":
		if err := requireOperands(inst, 3); err != nil {
			return 0, err
		}
		rd, err := e.gprReg(inst, inst.Operands[0])
		if err != nil {
			return 0, err
		}
		srcAcc, err := e.matrixReg(inst, inst.Operands[1])
		if err != nil {
			return 0, err
		}
		rs1, err := e.gprReg(inst, inst.Operands[2])
		if err != nil {
			return 0, err
		}
		return packMiscMovXM(srcAcc, rs1, rd), nil

	case "mmovw.m.x":
		if err := requireOperands(inst, 3); err != nil {
			return 0, err
		}
		md, err := e.matrixReg(inst, inst.Operands[0])
		if err != nil {
			return 0, err
		}
		rs2, err := e.gprReg(inst, inst.Operands[1])
		if err != nil {
			return 0, err
		}
		rs1, err := e.gprReg(inst, inst.Operands[2])
		if err != nil {
			return 0, err
		}
		return packCommon(0b0011, isa.UopMisc, 0b100, rs2, 0, rs1, isa.Func3ConfigLoadStoreMatmulMisc, 0b10, md), nil

	case "mdupw.m.x":
		if err := requireOperands(inst, 2); err != nil {
			return 0, err
		}
		md, err := e.matrixReg(inst, inst.Operands[0])
		if err != nil {
			return 0, err
		}
		rs2, err := e.gprReg(inst, inst.Operands[1])
		if err != nil {
			return 0, err
		}
		return packCommon(0b0011, isa.UopMisc, 0, rs2, 0, 0, isa.Func3ConfigLoadStoreMatmulMisc, 0b10, md), nil

	case "mrslidedown":
		return e.encodeSlide(inst, 0b0101, 0b00)

	case "mcslidedown.w":
		return e.encodeSlide(inst, 0b0111, 0b10)

	default:
		return 0, NewEncodingError(inst, "unknown misc mnemonic: "+inst.Mnemonic)
	}
}

// packMiscMovXM packs mmovw.x.m (spec.md:222), the one Misc mnemonic whose
// destination is a scalar register: ms2 carries the source accumulator,
// rs1 the element index, ctrl's low two bits the FP32 size selector, and
// rd is packed into bits 11..7 since ms2's span is occupied by the source.
func packMiscMovXM(srcAcc, rs1, rd uint32) uint32 {
	return (uint32(0b0010)&0xF)<<isa.ShiftFunc4 |
		isa.UopMisc<<isa.ShiftUop |
		(uint32(0b010)&isa.MaskCtrl)<<isa.ShiftCtrl |
		(srcAcc&isa.MaskMs2)<<isa.ShiftMs2 |
		(rs1&isa.MaskRS1)<<isa.ShiftMs1 |
		isa.Func3ConfigLoadStoreMatmulMisc<<isa.ShiftFunc3 |
		(rd&isa.MaskMiscRd)<<isa.ShiftMiscRd |
		isa.MajorOpcode<<isa.ShiftOpcode
}

func (e *Encoder) encodeSlide(inst *parser.Instruction, func4, size uint32) (uint32, error) {
	if err := requireOperands(inst, 3); err != nil {
		return 0, err
	}
	md, err := e.matrixReg(inst, inst.Operands[0])
	if err != nil {
		return 0, err
	}
	ms1, err := e.matrixReg(inst, inst.Operands[1])
	if err != nil {
		return 0, err
	}
	ctrl, err := parseImmediate(inst.Operands[2])
	if err != nil || ctrl > 0b111 {
		return 0, NewEncodingError(inst, "shift amount must be 0..7")
	}
	return packCommon(func4, isa.UopMisc, ctrl, 0, size, ms1, isa.Func3ConfigLoadStoreMatmulMisc, size, md), nil
}
