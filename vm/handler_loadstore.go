package vm

import (
	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/numeric"
)

// execLoadStore implements the strided matrix load/store forms of spec.md
// §4.5: A/B row-major, C column-major, and their three transposed
// counterparts, at EEW in {8,16,32}. d_size=11 (64-bit) and func4=0011
// (whole-register) are rejected per spec.md §4.5/§7.
func (s *Simulator) execLoadStore(d Decoded) error {
	if d.DSize == 0b11 {
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "64-bit load/store element width is not supported"}
	}
	if d.Func4 == 0b0011 {
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "whole-register load/store (mlme*/msme*) is not supported"}
	}

	eew := isa.EEWBits(d.DSize)
	if eew == 0 {
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "unrecognized element width"}
	}
	bytesPerElem := uint32(eew / 8)

	m, n, k, err := s.requireDims("load/store")
	if err != nil {
		return err
	}

	var rows, cols uint32
	switch d.Func4 {
	case 0b0000, 0b0100: // A / A-transposed: M x K
		rows, cols = m, k
	case 0b0001, 0b0101: // B / B-transposed: N x K
		rows, cols = n, k
	case 0b0010, 0b0110: // C / C-transposed: M x N
		rows, cols = m, n
	default:
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "unrecognized load/store func4"}
	}

	if isa.IsAccumulatorRole(d.Func4) {
		if d.Md >= 4 {
			return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "C load/store requires an accumulator register (acc0..3)"}
		}
	} else if d.Md >= 4 {
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "A/B load/store requires a tr0..3 register"}
	}

	base := s.GPR.Read(d.RS1)
	stride := s.GPR.Read(d.RS2)
	columnMajor := isa.IsAccumulatorRole(d.Func4)
	transposed := isa.IsTransposed(d.Func4)

	for i := uint32(0); i < rows && i < isa.ROWNUM; i++ {
		for j := uint32(0); j < cols && j < isa.ElementsPerRowTR; j++ {
			ii, jj := i, j
			if transposed {
				ii, jj = j, i
			}
			var addr uint32
			if columnMajor {
				addr = base + jj*stride + ii*bytesPerElem
			} else {
				addr = base + ii*stride + jj*bytesPerElem
			}

			if d.LS == 0 {
				if err := s.loadElement(d.Md, i, j, addr, d.DSize); err != nil {
					return err
				}
			} else {
				if err := s.storeElement(d.Md, i, j, addr, d.DSize); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (s *Simulator) loadElement(regIdx, i, j, addr, dsize uint32) error {
	switch dsize {
	case 0b00:
		b, err := s.Memory.ReadByte(addr)
		if err != nil {
			return err
		}
		s.Tiles.Int[regIdx][i][j] = numeric.SignExtendInt8(b)
	case 0b01:
		bits, err := s.Memory.ReadUint16LE(addr)
		if err != nil {
			return err
		}
		s.Tiles.Float[regIdx][i][j] = numeric.FP16.FromBits(uint32(bits))
	case 0b10:
		bits, err := s.Memory.ReadUint32LE(addr)
		if err != nil {
			return err
		}
		s.Tiles.Float[regIdx][i][j] = float64(numeric.FromFloat32Bits(bits))
	}
	return nil
}

func (s *Simulator) storeElement(regIdx, i, j, addr, dsize uint32) error {
	switch dsize {
	case 0b00:
		v := s.Tiles.Int[regIdx][i][j]
		return s.Memory.WriteByte(addr, byte(v))
	case 0b01:
		bits := numeric.FP16.ToBits(s.Tiles.Float[regIdx][i][j])
		return s.Memory.WriteUint16LE(addr, uint16(bits))
	case 0b10:
		bits := numeric.ToFloat32Bits(float32(s.Tiles.Float[regIdx][i][j]))
		return s.Memory.WriteUint32LE(addr, bits)
	}
	return nil
}
