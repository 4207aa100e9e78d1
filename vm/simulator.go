package vm

import (
	"fmt"
	"io"

	"github.com/rvmatrix/miss/isa"
)

// Simulator is the matrix accelerator's complete architectural state
// (spec.md §3, §5): GPR/CSR/tile register files, main memory, and the
// program being executed. Execution is single-threaded and synchronous —
// one instruction runs to completion before the next is fetched; there are
// no suspension points (spec.md §5).
type Simulator struct {
	GPR      GPR
	CSR      *CSRFile
	Tiles    *TileFile
	Memory   *Memory
	Program  []uint32 // fetched instruction words, independent of data Memory
	PC       uint32    // byte address; indexes Program at PC/4
	Halted   bool
	ExitCode int

	// Diagnostics receives UnsupportedInstruction/DimensionError warnings
	// (spec.md §7); the core never panics or prints to a hardcoded stream.
	Diagnostics io.Writer
}

// NewSimulator constructs a Simulator with freshly zeroed register files and
// a Memory of the given size (DefaultMemorySize if smaller).
func NewSimulator(memSize int, diagnostics io.Writer) *Simulator {
	return &Simulator{
		CSR:         NewCSRFile(),
		Tiles:       NewTileFile(),
		Memory:      NewMemory(memSize),
		Diagnostics: diagnostics,
	}
}

// LoadProgram installs the instruction words to execute and resets PC to 0.
func (s *Simulator) LoadProgram(words []uint32) {
	s.Program = words
	s.PC = 0
	s.Halted = false
}

// Step fetches, decodes, and dispatches a single instruction. It always
// advances the PC by 4 on return (even when the instruction was
// unsupported or dimension-mismatched, per spec.md §7), except when the
// instruction fails with a MemoryError (the simulator halts with PC left on
// that instruction) or the program has already run to completion.
func (s *Simulator) Step() error {
	idx := s.PC / 4
	if int(idx) >= len(s.Program) {
		s.Halted = true
		return nil
	}
	word := s.Program[idx]

	d, err := Decode(word)
	if err != nil {
		s.warnf("decode error at pc=0x%08x: %v", s.PC, err)
		s.PC += 4
		return nil
	}

	execErr := s.dispatch(d)
	if execErr != nil {
		switch e := execErr.(type) {
		case *UnsupportedInstructionError, *DimensionError:
			s.warnf("%v", e)
		case *MemoryError:
			s.Halted = true
			return execErr
		default:
			s.warnf("%v", execErr)
		}
	}

	s.PC += 4
	return nil
}

// Run steps until the program halts or an unrecoverable (MemoryError)
// condition occurs, or maxSteps instructions have executed (0 = unlimited).
func (s *Simulator) Run(maxSteps int) error {
	for steps := 0; !s.Halted; steps++ {
		if maxSteps > 0 && steps >= maxSteps {
			return fmt.Errorf("exceeded max steps (%d)", maxSteps)
		}
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulator) warnf(format string, args ...interface{}) {
	if s.Diagnostics != nil {
		fmt.Fprintf(s.Diagnostics, format+"\n", args...)
	}
}

func (s *Simulator) dispatch(d Decoded) error {
	switch d.Class {
	case isa.GroupConfig:
		return s.execConfig(d)
	case isa.GroupLoadStore:
		return s.execLoadStore(d)
	case isa.GroupMatmul:
		return s.execMatmul(d)
	case isa.GroupMisc:
		return s.execMisc(d)
	case isa.GroupElementWise:
		return s.execElementWise(d)
	default:
		return &UnsupportedInstructionError{PC: s.PC, Word: d.Word, Message: "unrecognized dispatch group"}
	}
}

// requireDims returns M, N, K and a DimensionError if any is zero — the
// shared guard used by the handlers that need all three tile dimensions
// (matmul, load/store); element-wise checks only M and N itself
// (spec.md §7).
func (s *Simulator) requireDims(mnemonic string) (m, n, k uint32, err error) {
	m, n, k = s.CSR.MTileM, s.CSR.MTileN, s.CSR.MTileK
	if m == 0 || n == 0 || k == 0 {
		return m, n, k, &DimensionError{Mnemonic: mnemonic, M: m, N: n, K: k}
	}
	return m, n, k, nil
}
