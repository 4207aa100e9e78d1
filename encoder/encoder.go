package encoder

import (
	"strconv"
	"strings"

	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/parser"
)

// Encoder packs parsed instructions into 32-bit machine words (spec.md
// §4.9). It is stateless: there are no labels or a literal pool in this
// dialect, so every instruction encodes independently of the others
// (a one-pass assembler, despite the spec's "two-pass(-ish)" framing, which
// refers to the reference implementation's now-irrelevant symbol-resolution
// pass).
type Encoder struct{}

// NewEncoder returns a ready-to-use Encoder.
func NewEncoder() *Encoder { return &Encoder{} }

// EncodeInstruction routes inst to its instruction-class packer using the
// classification parser.ParseLine already assigned to inst.Type.
func (e *Encoder) EncodeInstruction(inst *parser.Instruction) (uint32, error) {
	switch inst.Type {
	case parser.InstrConfig:
		return e.encodeConfig(inst)
	case parser.InstrLoadStore:
		return e.encodeLoadStore(inst)
	case parser.InstrMatmul:
		return e.encodeMatmul(inst)
	case parser.InstrMisc:
		return e.encodeMisc(inst)
	case parser.InstrElementWise:
		return e.encodeElementWise(inst)
	default:
		return 0, NewEncodingError(inst, "unknown mnemonic: "+inst.Mnemonic)
	}
}

// packCommon builds the shared 32-bit layout (spec.md §4.3) used directly
// by Matmul/Misc/ElementWise, and (via different field meanings) by
// Load/Store and Config.
func packCommon(func4, uop, ctrl, field20, ssize, field15, func3, dsize, md uint32) uint32 {
	return (func4&0xF)<<isa.ShiftFunc4 |
		(uop&0x3)<<isa.ShiftUop |
		(ctrl&0x7)<<isa.ShiftCtrl |
		(field20&0x1F)<<isa.ShiftMs2 |
		(ssize&0x3)<<isa.ShiftSSize |
		(field15&0x1F)<<isa.ShiftMs1 |
		(func3&0x7)<<isa.ShiftFunc3 |
		(dsize&0x3)<<isa.ShiftDSize |
		(md&0x7)<<isa.ShiftMd |
		isa.MajorOpcode<<isa.ShiftOpcode
}

func (e *Encoder) matrixReg(inst *parser.Instruction, tok string) (uint32, error) {
	code, err := isa.MatrixRegisterCode(strings.ToLower(tok))
	if err != nil {
		return 0, NewEncodingError(inst, err.Error())
	}
	return code, nil
}

func (e *Encoder) gprReg(inst *parser.Instruction, tok string) (uint32, error) {
	code, err := isa.GPRCode(strings.ToLower(tok))
	if err != nil {
		return 0, NewEncodingError(inst, err.Error())
	}
	return code, nil
}

func parseImmediate(tok string) (uint32, error) {
	tok = strings.TrimPrefix(tok, "#")
	base := 10
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		base = 16
		tok = tok[2:]
	} else if strings.HasPrefix(tok, "0b") || strings.HasPrefix(tok, "0B") {
		base = 2
		tok = tok[2:]
	}
	v, err := strconv.ParseUint(tok, base, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

func requireOperands(inst *parser.Instruction, n int) error {
	if len(inst.Operands) != n {
		return NewEncodingError(inst, "expected "+strconv.Itoa(n)+" operand(s), got "+strconv.Itoa(len(inst.Operands)))
	}
	return nil
}
