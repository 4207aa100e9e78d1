package vm

import (
	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/numeric"
)

// execMisc implements the seven supported Miscellaneous instructions of
// spec.md §4.8. The GPR-moving forms read/write a scalar register rather
// than a matrix register: mmovw.m.x/mdupw.m.x pack their GPR source into
// ms2's bit span (RS2, a full 5-bit GPR index, same as Load/Store) since
// their destination is an ordinary md matrix register. mmovw.x.m is the
// mirror image — its matrix source is ms2 (spec.md:222) and its GPR
// destination, rd, has no room left in ms2's span, so it is packed into
// bits 11..7 (otherwise d_size++md, both idle on this mnemonic) instead.
func (s *Simulator) execMisc(d Decoded) error {
	switch d.Func4 {
	case 0b0000: // mzero
		if d.Ctrl != 0b000 {
			return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "mzero requires ctrl=000"}
		}
		s.Tiles.Zero(d.Md)
		return nil

	case 0b0001: // mmov.mm
		for i := 0; i < isa.ROWNUM; i++ {
			for j := 0; j < isa.ElementsPerRowTR; j++ {
				s.Tiles.Int[d.Md][i][j] = s.Tiles.Int[d.Ms1][i][j]
				s.Tiles.Float[d.Md][i][j] = s.Tiles.Float[d.Ms1][i][j]
			}
		}
		return nil

	case 0b0010: // mmovw.x.m
		if d.Ctrl&0x3 != 0b10 {
			return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "mmovw.x.m requires size=10 (FP32)"}
		}
		idx := s.GPR.Read(d.RS1)
		row, col := idx/isa.ElementsPerRowTR, idx%isa.ElementsPerRowTR
		if row >= isa.ROWNUM {
			return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "mmovw.x.m index out of range"}
		}
		bits := numeric.ToFloat32Bits(float32(s.Tiles.Float[d.Ms2][row][col]))
		s.GPR.Write(d.MiscRd, bits)
		return nil

	case 0b0011: // mmovw.m.x / mdupw.m.x, disambiguated by ctrl bit 25
		if d.DSize != 0b10 {
			return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "mmovw.m.x/mdupw.m.x require d_size=10 (FP32)"}
		}
		value := float64(numeric.FromFloat32Bits(s.GPR.Read(d.RS2)))
		if d.CtrlBit25 == 1 { // mmovw.m.x
			idx := s.GPR.Read(d.RS1)
			row, col := idx/isa.ElementsPerRowTR, idx%isa.ElementsPerRowTR
			if row >= isa.ROWNUM {
				return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "mmovw.m.x index out of range"}
			}
			s.Tiles.Float[d.Md][row][col] = value
		} else { // mdupw.m.x
			for i := 0; i < isa.ROWNUM; i++ {
				for j := 0; j < isa.ElementsPerRowTR; j++ {
					s.Tiles.Float[d.Md][i][j] = value
				}
			}
		}
		return nil

	case 0b0101: // mrslidedown
		if d.SSize != 0b00 || d.DSize != 0b00 {
			return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "mrslidedown requires s_size=d_size=00"}
		}
		shift := d.Ctrl % isa.ROWNUM
		for i := 0; i < isa.ROWNUM; i++ {
			src := (uint32(i) + isa.ROWNUM - shift) % isa.ROWNUM
			for j := 0; j < isa.ElementsPerRowTR; j++ {
				s.Tiles.Float[d.Md][i][j] = s.Tiles.Float[d.Ms1][src][j]
			}
		}
		return nil

	case 0b0111: // mcslidedown.w
		if d.SSize != 0b10 || d.DSize != 0b10 {
			return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "mcslidedown.w requires s_size=d_size=10 (FP32)"}
		}
		shift := d.Ctrl % isa.ElementsPerRowTR
		for i := 0; i < isa.ROWNUM; i++ {
			for j := 0; j < isa.ElementsPerRowTR; j++ {
				src := (uint32(j) + isa.ElementsPerRowTR - shift) % isa.ElementsPerRowTR
				s.Tiles.Float[d.Md][i][j] = s.Tiles.Float[d.Ms1][i][src]
			}
		}
		return nil

	default:
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "unrecognized misc func4"}
	}
}
