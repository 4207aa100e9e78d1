package isa

import "fmt"

// MatrixRegisterCode resolves a tile/accumulator register name to its 3-bit
// code. tr0..tr3 and acc0..acc3 are two spellings of the same four physical
// registers (codes 0..3, per the tile/accumulator aliasing in spec.md §3);
// tr4..tr7 are the independent tile registers (codes 4..7) and have no accN
// spelling. See DESIGN.md "Open Question 1" for why this mapping, not the
// tr0..3->0..3 / acc0..3->4..7 split found in one reference table, is the
// one consistent with the handler's own register resolution.
var matrixRegisterNames = map[string]uint32{
	"tr0": 0, "acc0": 0,
	"tr1": 1, "acc1": 1,
	"tr2": 2, "acc2": 2,
	"tr3": 3, "acc3": 3,
	"tr4": 4,
	"tr5": 5,
	"tr6": 6,
	"tr7": 7,
}

// MatrixRegisterCode returns the 3-bit code for a tile/accumulator register
// name (case-insensitive handled by caller via canonicalization).
func MatrixRegisterCode(name string) (uint32, error) {
	code, ok := matrixRegisterNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown matrix register %q", name)
	}
	return code, nil
}

// MatrixRegisterName renders a 3-bit register code back to its canonical tr
// name, used for diagnostics and disassembly. Codes 0..3 are rendered as
// trN; callers needing the acc spelling for a known-accumulator context
// should use AccRegisterName instead.
func MatrixRegisterName(code uint32) string {
	return fmt.Sprintf("tr%d", code&0x7)
}

// AccRegisterName renders an accumulator index (0..3) as accN.
func AccRegisterName(idx uint32) string {
	return fmt.Sprintf("acc%d", idx&0x3)
}

// gprNames maps every accepted GPR spelling (x0..x31 plus RISC-V ABI names)
// to its 5-bit register number.
var gprNames = buildGPRNames()

func buildGPRNames() map[string]uint32 {
	m := make(map[string]uint32, 64)
	for i := uint32(0); i < NumGPR; i++ {
		m[fmt.Sprintf("x%d", i)] = i
	}
	abi := []string{
		"zero", "ra", "sp", "gp", "tp",
		"t0", "t1", "t2",
		"s0", "s1",
		"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
		"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
		"t3", "t4", "t5", "t6",
	}
	for i, name := range abi {
		m[name] = uint32(i)
	}
	m["fp"] = 8 // s0/fp alias
	return m
}

// GPRCode returns the 5-bit register number for a GPR spelling (x0..x31 or
// an ABI name).
func GPRCode(name string) (uint32, error) {
	code, ok := gprNames[name]
	if !ok {
		return 0, fmt.Errorf("unknown GPR %q", name)
	}
	return code, nil
}

// GPRName renders a register number back to its x<N> spelling.
func GPRName(n uint32) string {
	return fmt.Sprintf("x%d", n&0x1F)
}

// abiNames is the canonical ABI spelling for each GPR index, for
// disassembly/snapshot output (GPRCode also accepts all of these as input).
var abiNames = []string{
	"zero", "ra", "sp", "gp", "tp",
	"t0", "t1", "t2",
	"s0", "s1",
	"a0", "a1", "a2", "a3", "a4", "a5", "a6", "a7",
	"s2", "s3", "s4", "s5", "s6", "s7", "s8", "s9", "s10", "s11",
	"t3", "t4", "t5", "t6",
}

// GPRAbiName returns the canonical ABI name for register n (e.g. "sp" for
// x2), used by the gpr.txt snapshot format.
func GPRAbiName(n uint32) string {
	return abiNames[n&0x1F]
}
