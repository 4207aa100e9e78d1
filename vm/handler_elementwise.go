package vm

import (
	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/numeric"
)

// execElementWise implements the Element-Wise handler of spec.md §4.7:
// acc[md] <- op(acc[ms2], acc[ms1]) over [0,M)x[0,N), with ctrl selecting
// matrix-matrix (ctrl==0b111) or a broadcast of ms1's row ctrl.
func (s *Simulator) execElementWise(d Decoded) error {
	// Element-wise ops span only [0,M)x[0,N); K is not consulted.
	m, n := s.CSR.MTileM, s.CSR.MTileN
	if m == 0 || n == 0 {
		return &DimensionError{Mnemonic: "element-wise", M: m, N: n, K: s.CSR.MTileK}
	}

	switch d.Uop {
	case isa.UopElementWiseInt:
		return s.execElementWiseInt(d, m, n)
	case isa.UopElementWiseFloat:
		return s.execElementWiseFloat(d, m, n)
	default:
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "unrecognized element-wise uop"}
	}
}

func (s *Simulator) execElementWiseInt(d Decoded, m, n uint32) error {
	if d.SSize != 0b10 || d.DSize != 0b10 {
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "integer element-wise requires s_size=d_size=10 (INT32)"}
	}
	if d.Ctrl != 0b111 && d.Ctrl >= isa.ROWNUM {
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "broadcast row out of range"}
	}

	for i := uint32(0); i < m && i < isa.ROWNUM; i++ {
		ms1Row := i
		if d.Ctrl != 0b111 {
			ms1Row = d.Ctrl
		}
		for j := uint32(0); j < n && j < isa.ElementsPerRowTR; j++ {
			a := s.Tiles.Int[d.Ms2][i][j]
			b := s.Tiles.Int[d.Ms1][ms1Row][j]

			var result int32
			var saturate bool
			switch d.Func4 {
			case 0b0000:
				result, saturate = saturateInt32(int64(a)+int64(b), s.CSR.XMSatEn != 0)
			case 0b0001:
				result, saturate = saturateInt32(int64(a)-int64(b), s.CSR.XMSatEn != 0)
			case 0b0010:
				result, saturate = saturateInt32(int64(a)*int64(b), s.CSR.XMSatEn != 0)
			case 0b0100:
				if a >= b {
					result = a
				} else {
					result = b
				}
			case 0b0101:
				if uint32(a) >= uint32(b) {
					result = a
				} else {
					result = b
				}
			case 0b0110:
				if a <= b {
					result = a
				} else {
					result = b
				}
			case 0b0111:
				if uint32(a) <= uint32(b) {
					result = a
				} else {
					result = b
				}
			case 0b1000:
				result = int32(uint32(a) >> (uint32(b) & 0x1F))
			case 0b1001:
				result = int32(uint32(a) << (uint32(b) & 0x1F))
			case 0b1010:
				result = a >> (uint32(b) & 0x1F)
			default:
				return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "unrecognized integer element-wise func4"}
			}

			s.Tiles.Int[d.Md][i][j] = result
			if saturate {
				s.CSR.XMSat = 1
			}
		}
	}
	return nil
}

func (s *Simulator) execElementWiseFloat(d Decoded, m, n uint32) error {
	if d.SSize != d.DSize || (d.SSize != 0b01 && d.SSize != 0b10) {
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "float element-wise requires matching s_size=d_size in {FP16,FP32}"}
	}
	fmtv := numeric.FP32
	if d.SSize == 0b01 {
		fmtv = numeric.FP16
	}
	if d.Ctrl != 0b111 && d.Ctrl >= isa.ROWNUM {
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "broadcast row out of range"}
	}

	for i := uint32(0); i < m && i < isa.ROWNUM; i++ {
		ms1Row := i
		if d.Ctrl != 0b111 {
			ms1Row = d.Ctrl
		}
		for j := uint32(0); j < n && j < isa.ElementsPerRowTR; j++ {
			a := fmtv.Quantize(s.Tiles.Float[d.Ms2][i][j])
			b := fmtv.Quantize(s.Tiles.Float[d.Ms1][ms1Row][j])

			var result float64
			switch d.Func4 {
			case 0b0000:
				result = a + b
			case 0b0001:
				result = a - b
			case 0b0010:
				result = a * b
			case 0b0011:
				if a >= b {
					result = a
				} else {
					result = b
				}
			case 0b0100:
				if a <= b {
					result = a
				} else {
					result = b
				}
			default:
				return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "unrecognized float element-wise func4"}
			}

			s.Tiles.Float[d.Md][i][j] = fmtv.Quantize(result)
		}
	}
	return nil
}
