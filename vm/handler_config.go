package vm

import "github.com/rvmatrix/miss/isa"

// execConfig implements the five Configuration-handler instructions
// (spec.md §4.4): mrelease, and the three msettile{k,m,n}[i] pairs.
func (s *Simulator) execConfig(d Decoded) error {
	switch d.Func4 {
	case 0b0000: // mrelease
		s.CSR.MStatusMS = 1
		return nil
	case 0b0001, 0b0010, 0b0011:
		val := d.ConfigImm
		if d.CtrlBit25 == 1 {
			val = s.GPR.Read(d.RS1) & 0x3FF
		}
		if val >= isa.ConfigImmMax {
			return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "config immediate out of range [0,1024)"}
		}
		switch d.Func4 {
		case 0b0001:
			s.CSR.MTileK = val
		case 0b0010:
			s.CSR.MTileM = val
		case 0b0011:
			s.CSR.MTileN = val
		}
		return nil
	default:
		name, _ := isa.ConfigByFunc4(d.Func4, d.CtrlBit25 == 0)
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "unknown config func4 (mnemonic guess: " + name + ")"}
	}
}
