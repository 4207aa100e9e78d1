package vm

import (
	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/numeric"
)

// execMatmul implements the ten supported multi-precision MAC encodings of
// spec.md §4.6: C <- C + A*B ("precision simulation" — spec.md §9). Every
// A/B operand is quantized through the source format at each step; the
// products are summed in a wide (float64/int64) accumulator, and only the
// old accumulator value and the final C + sum pass through the destination
// format.
func (s *Simulator) execMatmul(d Decoded) error {
	mnemonic, ok := isa.MatmulByFields(d.Func4, d.Ctrl, d.SSize, d.DSize)
	if !ok {
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "rejected matmul encoding (fp8->fp16/fp32, fp64, tf32, and packed variants are not supported)"}
	}
	kind, _ := isa.KindOf(mnemonic)

	m, n, k, err := s.requireDims(mnemonic)
	if err != nil {
		return err
	}
	if d.Md >= 4 {
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "matmul destination must be an accumulator register (acc0..3)"}
	}

	if isIntMatmulKind(kind) {
		s.execMatmulInt(d, kind, m, n, k)
	} else {
		s.execMatmulFloat(d, kind, m, n, k)
	}
	return nil
}

func isIntMatmulKind(k isa.MatmulKind) bool {
	switch k {
	case isa.MatmulI8sxI8stoI32, isa.MatmulU8xU8toI32, isa.MatmulU8xI8stoI32, isa.MatmulI8sxU8toI32:
		return true
	default:
		return false
	}
}

func (s *Simulator) execMatmulInt(d Decoded, kind isa.MatmulKind, m, n, k uint32) {
	for i := uint32(0); i < m && i < isa.ROWNUM; i++ {
		for j := uint32(0); j < n && j < isa.ElementsPerRowTR; j++ {
			cOld := s.Tiles.Int[d.Md][i][j] // already INT32-precision
			sum := int64(0)
			for kk := uint32(0); kk < k && kk < isa.ElementsPerRowTR; kk++ {
				aByte := byte(s.Tiles.Int[d.Ms1][i][kk])
				bByte := byte(s.Tiles.Int[d.Ms2][kk][j])
				a, b := signAndUnsign(kind, aByte, bByte)
				sum += a * b
			}
			total := int64(cOld) + sum
			result, saturated := saturateInt32(total, s.CSR.XMSatEn != 0)
			s.Tiles.Int[d.Md][i][j] = result
			if saturated {
				s.CSR.XMSat = 1
			}
		}
	}
	s.Tiles.AccDestBitsInt[d.Md] = 32
}

// signAndUnsign interprets aByte (A, from ms1) and bByte (B, from ms2)
// per the matmul kind's signedness convention (spec.md §4.6 table).
func signAndUnsign(kind isa.MatmulKind, aByte, bByte byte) (int64, int64) {
	switch kind {
	case isa.MatmulI8sxI8stoI32:
		return int64(int8(aByte)), int64(int8(bByte))
	case isa.MatmulU8xU8toI32:
		return int64(aByte), int64(bByte)
	case isa.MatmulU8xI8stoI32:
		return int64(aByte), int64(int8(bByte))
	case isa.MatmulI8sxU8toI32:
		return int64(int8(aByte)), int64(bByte)
	default:
		return 0, 0
	}
}

func saturateInt32(total int64, saturate bool) (int32, bool) {
	const maxI32 = int64(1<<31 - 1)
	const minI32 = -int64(1 << 31)
	if saturate {
		if total > maxI32 {
			return int32(maxI32), true
		}
		if total < minI32 {
			return int32(minI32), true
		}
		return int32(total), false
	}
	// Wrap modulo 2^32, two's-complement; wrapping never sets xmsat.
	return int32(uint32(total)), false
}

func (s *Simulator) execMatmulFloat(d Decoded, kind isa.MatmulKind, m, n, k uint32) {
	destFmt := destFormat(kind)
	srcFmt := srcFormat(kind)

	for i := uint32(0); i < m && i < isa.ROWNUM; i++ {
		for j := uint32(0); j < n && j < isa.ElementsPerRowTR; j++ {
			cOld := destFmt.Quantize(s.Tiles.Float[d.Md][i][j])
			sum := 0.0
			for kk := uint32(0); kk < k && kk < isa.ElementsPerRowTR; kk++ {
				a := readMatmulOperand(s, kind, d.Ms1, i, kk)
				b := readMatmulOperand(s, kind, d.Ms2, kk, j)
				a = srcFmt.Quantize(a)
				b = srcFmt.Quantize(b)
				sum += a * b
			}
			cNew := destFmt.Quantize(cOld + sum)
			s.Tiles.Float[d.Md][i][j] = cNew
		}
	}
	s.Tiles.AccDestBitsFloat[d.Md] = destFmt.Width
}

// readMatmulOperand reads one A/B element honoring the two documented
// storage quirks: FP8 sources live in the integer view as raw bytes
// (because load wrote them there), and the BF16-via-FP16-load path
// reinterprets the 16-bit pattern the FP16 loader stored rather than
// trusting its decoded FP16 value.
func readMatmulOperand(s *Simulator, kind isa.MatmulKind, reg, row, col uint32) float64 {
	switch kind {
	case isa.MatmulE5M2xE5M2toBF16:
		b := byte(s.Tiles.Int[reg][row][col])
		return numeric.E5M2.FromBits(uint32(b))
	case isa.MatmulE4M3xE4M3toBF16:
		b := byte(s.Tiles.Int[reg][row][col])
		return numeric.E4M3.FromBits(uint32(b))
	case isa.MatmulBF16xBF16toFP32:
		bits := numeric.FP16.ToBits(s.Tiles.Float[reg][row][col])
		return numeric.BF16.FromBits(bits)
	default:
		return s.Tiles.Float[reg][row][col]
	}
}

func destFormat(kind isa.MatmulKind) numeric.Format {
	switch kind {
	case isa.MatmulFP32xFP32toFP32, isa.MatmulFP16xFP16toFP32, isa.MatmulBF16xBF16toFP32:
		return numeric.FP32
	case isa.MatmulFP16xFP16toFP16:
		return numeric.FP16
	case isa.MatmulE5M2xE5M2toBF16, isa.MatmulE4M3xE4M3toBF16:
		return numeric.BF16
	default:
		return numeric.FP32
	}
}

func srcFormat(kind isa.MatmulKind) numeric.Format {
	switch kind {
	case isa.MatmulFP32xFP32toFP32:
		return numeric.FP32
	case isa.MatmulFP16xFP16toFP16, isa.MatmulFP16xFP16toFP32:
		return numeric.FP16
	case isa.MatmulBF16xBF16toFP32:
		return numeric.BF16
	case isa.MatmulE5M2xE5M2toBF16:
		return numeric.E5M2
	case isa.MatmulE4M3xE4M3toBF16:
		return numeric.E4M3
	default:
		return numeric.FP32
	}
}
