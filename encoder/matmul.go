package encoder

import (
	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/parser"
)

// encodeMatmul packs one of the ten Matmul mnemonics (spec.md §4.6):
// "mfmacc.s acc0, tr4, tr5" — destination accumulator, A (ms1), B (ms2).
func (e *Encoder) encodeMatmul(inst *parser.Instruction) (uint32, error) {
	entry := isa.MatmulTable[inst.Mnemonic]
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
	ms2, err := e.matrixReg(inst, inst.Operands[2])
	if err != nil {
		return 0, err
	}

	return packCommon(entry.Func4, isa.UopMatmul, entry.SizeSup, ms2, entry.SSize, ms1,
		isa.Func3ConfigLoadStoreMatmulMisc, entry.DSize, md), nil
}
