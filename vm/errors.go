package vm

import "fmt"

// UnsupportedInstructionError is returned when the decoder or a handler
// recognizes a legal-looking opcode/func4/size combination the core
// deliberately does not implement (spec.md §7). Handlers must not mutate
// architectural state before returning one; the top-level loop prints the
// diagnostic and advances PC.
type UnsupportedInstructionError struct {
	PC      uint32
	Word    uint32
	Message string
}

func (e *UnsupportedInstructionError) Error() string {
	return fmt.Sprintf("unsupported instruction at pc=0x%08x (word=0x%08x): %s", e.PC, e.Word, e.Message)
}

// MemoryError is raised when an access falls outside the backing memory
// array. Unlike UnsupportedInstructionError, this terminates the run.
type MemoryError struct {
	Addr uint32
	N    int
	Op   string // "read" or "write"
}

func (e *MemoryError) Error() string {
	return fmt.Sprintf("memory %s of %d bytes at 0x%08x is out of range", e.Op, e.N, e.Addr)
}

// DimensionError is raised when mtilem/mtilen/mtilek are unset (zero) for an
// instruction that requires a nonzero tile shape (spec.md §7). It is a
// warning-and-skip condition, not a terminating one.
type DimensionError struct {
	Mnemonic string
	M, N, K  uint32
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: tile dimensions not set (M=%d N=%d K=%d)", e.Mnemonic, e.M, e.N, e.K)
}
