package vm

import "github.com/rvmatrix/miss/isa"

// TileFile holds the eight logical tile registers' dual-view storage
// (spec.md §3). Register indices 0..3 are a single physical store reachable
// under two names (tr0..3 and acc0..3); index 4..7 is the independent
// storage for tr4..7. Representing this as one 8-element array — rather
// than duplicating indices 0..3 into a separate "acc" array — is what makes
// the aliasing automatic instead of something every mutating path has to
// keep in lockstep by hand (spec.md §9 design note).
type TileFile struct {
	Int   [isa.NumTileRegisters][isa.ROWNUM][isa.ElementsPerRowTR]int32
	Float [isa.NumTileRegisters][isa.ROWNUM][isa.ElementsPerRowTR]float64

	// Destination-precision metadata recorded by the last matmul to write
	// each accumulator (spec.md §3); only indices 0..3 are meaningful.
	AccDestBitsInt   [isa.NumAccRegisters]int
	AccDestBitsFloat [isa.NumAccRegisters]int
}

// NewTileFile returns a zeroed tile file with the default destination width
// (32 bits) recorded for every accumulator, matching construction-time state
// in the reference implementation.
func NewTileFile() *TileFile {
	tf := &TileFile{}
	for i := range tf.AccDestBitsInt {
		tf.AccDestBitsInt[i] = 32
		tf.AccDestBitsFloat[i] = 32
	}
	return tf
}

// Zero clears both views of register idx (spec.md P4: mzero is idempotent).
func (t *TileFile) Zero(idx uint32) {
	t.Int[idx] = [isa.ROWNUM][isa.ElementsPerRowTR]int32{}
	t.Float[idx] = [isa.ROWNUM][isa.ElementsPerRowTR]float64{}
}
