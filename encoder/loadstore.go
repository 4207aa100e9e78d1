package encoder

import (
	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/parser"
)

// encodeLoadStore packs one of the 36 Load/Store mnemonics (spec.md §4.5):
// "mlae32 tr0, (x1), x2" — destination/source matrix register, parenthesized
// base GPR, stride GPR.
func (e *Encoder) encodeLoadStore(inst *parser.Instruction) (uint32, error) {
	entry := isa.LoadStoreTable[inst.Mnemonic]
	if err := requireOperands(inst, 3); err != nil {
		return 0, err
	}

	md, err := e.matrixReg(inst, inst.Operands[0])
	if err != nil {
		return 0, err
	}
	baseTok, ok := parser.StripParens(inst.Operands[1])
	if !ok {
		return 0, NewEncodingError(inst, "expected base register in parentheses, got "+inst.Operands[1])
	}
	rs1, err := e.gprReg(inst, baseTok)
	if err != nil {
		return 0, err
	}
	rs2, err := e.gprReg(inst, inst.Operands[2])
	if err != nil {
		return 0, err
	}

	return packLoadStore(entry.Func4, entry.LS, rs2, rs1, entry.DSize, md), nil
}

// packLoadStore builds the Load/Store reinterpretation of bits 25..15
// (spec.md §4.3): ls(1) || rs2(5) || rs1(5).
func packLoadStore(func4, ls, rs2, rs1, dsize, md uint32) uint32 {
	return (func4&0xF)<<isa.ShiftFunc4 |
		isa.UopLoadStore<<isa.ShiftUop |
		(ls&isa.MaskLS)<<isa.ShiftLS |
		(rs2&isa.MaskRS2)<<isa.ShiftRS2 |
		(rs1&isa.MaskRS1)<<isa.ShiftRS1 |
		isa.Func3ConfigLoadStoreMatmulMisc<<isa.ShiftFunc3 |
		(dsize&0x3)<<isa.ShiftDSize |
		(md&0x7)<<isa.ShiftMd |
		isa.MajorOpcode<<isa.ShiftOpcode
}
