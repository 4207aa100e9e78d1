package encoder

import (
	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/parser"
)

// encodeConfig packs one of the Configuration-handler instructions
// (spec.md §4.4): mrelease (no operands), and the msettile{k,m,n}[i] pairs,
// which take either an immediate or a GPR operand depending on the `i`
// suffix.
func (e *Encoder) encodeConfig(inst *parser.Instruction) (uint32, error) {
	entry := isa.ConfigTable[inst.Mnemonic]

	if inst.Mnemonic == "mrelease" {
		if err := requireOperands(inst, 0); err != nil {
			return 0, err
		}
		return packConfig(entry.Func4, 0, 0, 0), nil
	}

	if err := requireOperands(inst, 1); err != nil {
		return 0, err
	}

	if entry.Immediate {
		imm, err := parseImmediate(inst.Operands[0])
		if err != nil {
			return 0, NewEncodingError(inst, "invalid immediate: "+inst.Operands[0])
		}
		if imm >= isa.ConfigImmMax {
			return 0, NewEncodingError(inst, "immediate out of range [0,1024)")
		}
		return packConfig(entry.Func4, 0, imm, 0), nil
	}

	rs1, err := e.gprReg(inst, inst.Operands[0])
	if err != nil {
		return 0, err
	}
	return packConfig(entry.Func4, 1, 0, rs1), nil
}

// packConfig builds the Config reinterpretation of bits 24..15 (spec.md
// §4.3): either a 10-bit immediate split hi/lo, or an rs1 GPR index,
// selected by ctrl bit 25.
func packConfig(func4, ctrlBit25, imm, rs1 uint32) uint32 {
	word := (func4&0xF)<<isa.ShiftFunc4 |
		isa.UopConfig<<isa.ShiftUop |
		(ctrlBit25&1)<<isa.ShiftCtrlBit25 |
		isa.Func3ConfigLoadStoreMatmulMisc<<isa.ShiftFunc3 |
		isa.MajorOpcode<<isa.ShiftOpcode

	if ctrlBit25 == 1 {
		word |= (rs1 & isa.MaskConfigImmLo) << isa.ShiftConfigImmLo
	} else {
		hi := (imm >> 5) & isa.MaskConfigImmHi
		lo := imm & isa.MaskConfigImmLo
		word |= hi<<isa.ShiftConfigImmHi | lo<<isa.ShiftConfigImmLo
	}
	return word
}
