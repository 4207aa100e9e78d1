package encoder

import (
	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/parser"
)

// encodeElementWise packs one of the twenty Element-Wise mnemonics
// (spec.md §4.7): "mfmul.s acc0, acc2, acc1" — md, ms2, ms1 — plus an
// optional fourth operand selecting a broadcast row; with three operands
// ctrl defaults to 0b111 (matrix-matrix).
func (e *Encoder) encodeElementWise(inst *parser.Instruction) (uint32, error) {
	entry := isa.EWTable[inst.Mnemonic]
	if len(inst.Operands) != 3 && len(inst.Operands) != 4 {
		return 0, NewEncodingError(inst, "expected 3 or 4 operands")
	}

	md, err := e.matrixReg(inst, inst.Operands[0])
	if err != nil {
		return 0, err
	}
	ms2, err := e.matrixReg(inst, inst.Operands[1])
	if err != nil {
		return 0, err
	}
	ms1, err := e.matrixReg(inst, inst.Operands[2])
	if err != nil {
		return 0, err
	}

	ctrl := uint32(0b111)
	if len(inst.Operands) == 4 {
		row, err := parseImmediate(inst.Operands[3])
		if err != nil || row > 0b111 {
			return 0, NewEncodingError(inst, "broadcast row must be 0..7")
		}
		ctrl = row
	}

	uop := isa.UopElementWiseInt
	ssize, dsize := uint32(0b10), uint32(0b10)
	if entry.IsFloat {
		uop = isa.UopElementWiseFloat
		ssize, dsize = entry.SSize, entry.SSize
	}

	return packCommon(entry.Func4, uop, ctrl, ms2, ssize, ms1, isa.Func3ElementWise, dsize, md), nil
}
