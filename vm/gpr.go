package vm

import "github.com/rvmatrix/miss/isa"

// GPR is the 32-entry, 32-bit-wide general purpose register file (spec.md
// §3). It exists only as a scalar source/sink for a handful of matrix
// instructions' operands (spec.md §1 Non-goals) — there is no base integer
// ISA behind it.
type GPR struct {
	regs [isa.NumGPR]uint32
}

// Read returns the value of register n; register 0 always reads as 0.
func (g *GPR) Read(n uint32) uint32 {
	if n == 0 {
		return 0
	}
	return g.regs[n&0x1F]
}

// Write sets register n to v; writes to register 0 are silently ignored.
func (g *GPR) Write(n uint32, v uint32) {
	if n == 0 {
		return
	}
	g.regs[n&0x1F] = v
}
