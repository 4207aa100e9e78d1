package vm

import (
	"math"
	"testing"

	"github.com/rvmatrix/miss/isa"
	"github.com/rvmatrix/miss/numeric"
)

func packLoadStore(func4, ls, rs2, rs1, dsize, md uint32) uint32 {
	return (func4&0xF)<<isa.ShiftFunc4 |
		isa.UopLoadStore<<isa.ShiftUop |
		(ls&isa.MaskLS)<<isa.ShiftLS |
		(rs2&isa.MaskRS2)<<isa.ShiftRS2 |
		(rs1&isa.MaskRS1)<<isa.ShiftRS1 |
		isa.Func3ConfigLoadStoreMatmulMisc<<isa.ShiftFunc3 |
		(dsize&0x3)<<isa.ShiftDSize |
		(md&0x7)<<isa.ShiftMd |
		isa.MajorOpcode<<isa.ShiftOpcode
}

func TestSimulatorRunHaltsAtProgramEnd(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	mzero := pack(0b0000, isa.UopMisc, 0, 0, 0, 0, isa.Func3ConfigLoadStoreMatmulMisc, 0, 0)
	s.LoadProgram([]uint32{mzero, mzero})

	if err := s.Run(0); err != nil {
		t.Fatalf("Run returned an error: %v", err)
	}
	if !s.Halted {
		t.Fatal("expected simulator to be halted after exhausting the program")
	}
	if s.PC != 8 {
		t.Errorf("PC = %d, want 8", s.PC)
	}
}

func TestSimulatorRunRespectsMaxSteps(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	mzero := pack(0b0000, isa.UopMisc, 0, 0, 0, 0, isa.Func3ConfigLoadStoreMatmulMisc, 0, 0)
	s.LoadProgram([]uint32{mzero, mzero, mzero})

	if err := s.Run(1); err == nil {
		t.Fatal("expected an error when max steps is exceeded before the program halts")
	}
}

func TestExecConfigSetsTileDimensions(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	// msettilem 4: func4=0b0010, immediate form (ctrl bit 25 = 0).
	word := pack(0b0010, isa.UopConfig, 0, 0, 0, 0, isa.Func3ConfigLoadStoreMatmulMisc, 0, 0)
	// Config reinterprets bits 24..15 as a split immediate; rebuild by hand.
	imm := uint32(4)
	word = (uint32(0b0010)&0xF)<<isa.ShiftFunc4 |
		isa.UopConfig<<isa.ShiftUop |
		((imm>>5)&isa.MaskConfigImmHi)<<isa.ShiftConfigImmHi |
		(imm&isa.MaskConfigImmLo)<<isa.ShiftConfigImmLo |
		isa.Func3ConfigLoadStoreMatmulMisc<<isa.ShiftFunc3 |
		isa.MajorOpcode<<isa.ShiftOpcode

	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if s.CSR.MTileM != 4 {
		t.Errorf("MTileM = %d, want 4", s.CSR.MTileM)
	}
}

func TestExecMrelease(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	word := pack(0b0000, isa.UopConfig, 0, 0, 0, 0, isa.Func3ConfigLoadStoreMatmulMisc, 0, 0)
	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if s.CSR.MStatusMS != 1 {
		t.Errorf("MStatusMS = %d, want 1", s.CSR.MStatusMS)
	}
}

func TestMatmulFP32IdentityAccumulate(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	s.CSR.MTileM, s.CSR.MTileN, s.CSR.MTileK = 1, 1, 1
	s.Tiles.Float[4][0][0] = 1.0 // tr4 (A)
	s.Tiles.Float[5][0][0] = 1.0 // tr5 (B)

	// mfmacc.s acc0, tr4, tr5: func4=0000, sizeSup(ctrl)=000, sSize=10, dSize=10.
	word := pack(0b0000, isa.UopMatmul, 0b000, 5, 0b10, 4, isa.Func3ConfigLoadStoreMatmulMisc, 0b10, 0)
	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if got := s.Tiles.Float[0][0][0]; got != 1.0 {
		t.Errorf("acc0[0][0] = %v, want 1.0", got)
	}

	// A second accumulation should add onto the existing value: 1 + 1*1 = 2.
	if err := s.dispatch(d); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if got := s.Tiles.Float[0][0][0]; got != 2.0 {
		t.Errorf("acc0[0][0] after second MAC = %v, want 2.0", got)
	}
}

func TestMatmulInt8SaturatesOnOverflow(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	s.CSR.MTileM, s.CSR.MTileN, s.CSR.MTileK = 1, 1, 1
	s.CSR.XMSatEn = 1
	s.Tiles.Int[4][0][0] = 127 // tr4 (A), signed int8 in low byte
	s.Tiles.Int[5][0][0] = 127 // tr5 (B)
	s.Tiles.Int[0][0][0] = math.MaxInt32 - 100 // acc0, already near the ceiling

	// mmacc.w.b acc0, tr4, tr5: func4=0001, sizeSup(ctrl)=011 (signed x signed).
	word := pack(0b0001, isa.UopMatmul, 0b011, 5, 0b00, 4, isa.Func3ConfigLoadStoreMatmulMisc, 0b10, 0)
	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if got := s.Tiles.Int[0][0][0]; got != math.MaxInt32 {
		t.Errorf("acc0[0][0] = %d, want saturated %d", got, int32(math.MaxInt32))
	}
	if s.CSR.XMSat != 1 {
		t.Error("expected xmsat to be set after a saturating overflow")
	}
}

func TestMatmulMissingDimsIsDimensionError(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	word := pack(0b0000, isa.UopMatmul, 0b000, 5, 0b10, 4, isa.Func3ConfigLoadStoreMatmulMisc, 0b10, 0)
	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	err = s.dispatch(d)
	if _, ok := err.(*DimensionError); !ok {
		t.Fatalf("dispatch error = %v (%T), want *DimensionError", err, err)
	}
}

func TestLoadStoreRoundTrip(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	s.CSR.MTileM, s.CSR.MTileN, s.CSR.MTileK = 1, 1, 1
	s.GPR.Write(1, 0x100) // base for load
	s.GPR.Write(2, 16)    // stride
	s.GPR.Write(3, 0x200) // base for store

	if err := s.Memory.WriteByte(0x100, 0x7B); err != nil {
		t.Fatalf("seeding memory: %v", err)
	}

	// mlae8 tr0, (x1), x2: func4=0000 (A, row-major), ls=0 (load), dsize=00.
	loadWord := packLoadStore(0b0000, 0, 2, 1, 0b00, 0)
	d, err := Decode(loadWord)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err != nil {
		t.Fatalf("load dispatch error: %v", err)
	}
	if s.Tiles.Int[0][0][0] != 0x7B {
		t.Fatalf("tr0[0][0] = %d, want 0x7B", s.Tiles.Int[0][0][0])
	}

	// msae8 tr0, (x3), x2: func4=0000, ls=1 (store).
	storeWord := packLoadStore(0b0000, 1, 2, 3, 0b00, 0)
	d, err = Decode(storeWord)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err != nil {
		t.Fatalf("store dispatch error: %v", err)
	}
	stored, err := s.Memory.ReadByte(0x200)
	if err != nil {
		t.Fatalf("reading back stored byte: %v", err)
	}
	if stored != 0x7B {
		t.Errorf("stored byte = 0x%x, want 0x7B", stored)
	}
}

// TestLoadStoreTransposedAccumulatorAddressing pins down the address
// formula a transposed-C load must use: addr(i,j) = base + i*stride +
// j*elemSize. A previous version of this handler computed columnMajor as
// `d.Func4 == 0b0010`, which is false for the transposed-C encoding
// (func4=0b0110), so the transpose index-swap was applied on top of the
// row-major formula instead of the column-major one, silently swapping i
// and j back. Distinct per-cell values make that swap observable.
func TestLoadStoreTransposedAccumulatorAddressing(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	s.CSR.MTileM, s.CSR.MTileN, s.CSR.MTileK = 2, 2, 2
	s.GPR.Write(1, 0x100)
	s.GPR.Write(2, 8) // stride in bytes, covering two 4-byte FP32 columns

	const base = 0x100
	for i := uint32(0); i < 2; i++ {
		for j := uint32(0); j < 2; j++ {
			addr := uint32(base) + i*8 + j*4
			if err := s.Memory.WriteUint32LE(addr, math.Float32bits(float32(i*10+j))); err != nil {
				t.Fatalf("seeding memory: %v", err)
			}
		}
	}

	// mlcte32 acc0, (x1), x2: func4=0b0110 (C, transposed), ls=0, dsize=10 (FP32).
	word := packLoadStore(0b0110, 0, 2, 1, 0b10, 0)
	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}

	for i := uint32(0); i < 2; i++ {
		for j := uint32(0); j < 2; j++ {
			want := float64(i*10 + j)
			if got := s.Tiles.Float[0][i][j]; got != want {
				t.Errorf("Tiles.Float[0][%d][%d] = %v, want %v", i, j, got, want)
			}
		}
	}
}

func TestMiscMzeroAndMove(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	s.Tiles.Int[1][0][0] = 42
	s.Tiles.Float[1][0][0] = 4.5

	// mmov.mm tr0, tr1: func4=0001, field15(ms1)=1, md=0.
	moveWord := pack(0b0001, isa.UopMisc, 0, 0, 0, 1, isa.Func3ConfigLoadStoreMatmulMisc, 0, 0)
	d, err := Decode(moveWord)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if s.Tiles.Int[0][0][0] != 42 || s.Tiles.Float[0][0][0] != 4.5 {
		t.Fatalf("mmov.mm did not copy both views: int=%d float=%v", s.Tiles.Int[0][0][0], s.Tiles.Float[0][0][0])
	}

	// mzero tr0: func4=0000, ctrl must be 0.
	zeroWord := pack(0b0000, isa.UopMisc, 0, 0, 0, 0, isa.Func3ConfigLoadStoreMatmulMisc, 0, 0)
	d, err = Decode(zeroWord)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if s.Tiles.Int[0][0][0] != 0 || s.Tiles.Float[0][0][0] != 0 {
		t.Fatalf("mzero left nonzero state: int=%d float=%v", s.Tiles.Int[0][0][0], s.Tiles.Float[0][0][0])
	}
}

// TestMiscMovwXMReadsSourceFromMs2AndWritesRdFromBits11To7 is a regression
// test for a bug where mmovw.x.m read its source accumulator from md and
// wrote its destination GPR into ms2's bit span, inverting the word's
// literal field semantics. rd is packed here via pack()'s dsize/md
// parameters, which together span bits 11..7 (dsize the high two bits, md
// the low three) — the same span the fixed decoder reassembles as
// Decoded.MiscRd.
func TestMiscMovwXMReadsSourceFromMs2AndWritesRdFromBits11To7(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	s.Tiles.Float[5][0][0] = 2.5 // tr5, the source accumulator (ms2)
	s.GPR.Write(2, 0)            // rs1: element index 0 -> row 0, col 0

	const rd = uint32(9) // x9
	word := pack(0b0010, isa.UopMisc, 0b010, 5, 0, 2, isa.Func3ConfigLoadStoreMatmulMisc, rd>>3, rd&0x7)
	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if d.Ms2 != 5 {
		t.Fatalf("Ms2 = %d, want 5 (the source accumulator)", d.Ms2)
	}
	if d.MiscRd != rd {
		t.Fatalf("MiscRd = %d, want %d", d.MiscRd, rd)
	}

	if err := s.dispatch(d); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	want := numeric.ToFloat32Bits(2.5)
	if got := s.GPR.Read(rd); got != want {
		t.Errorf("GPR[%d] = 0x%08x, want 0x%08x", rd, got, want)
	}
}

func TestElementWiseIntAdd(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	s.CSR.MTileM, s.CSR.MTileN = 1, 1
	s.Tiles.Int[1][0][0] = 10 // acc1 (ms2)
	s.Tiles.Int[2][0][0] = 32 // acc2 (ms1)

	// madd.w acc0, acc1, acc2: func4=0000, ctrl=111 (matrix-matrix), ssize=dsize=10.
	word := pack(0b0000, isa.UopElementWiseInt, 0b111, 1, 0b10, 2, isa.Func3ElementWise, 0b10, 0)
	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if got := s.Tiles.Int[0][0][0]; got != 42 {
		t.Errorf("acc0[0][0] = %d, want 42", got)
	}
}

func TestElementWiseFloatMul(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	s.CSR.MTileM, s.CSR.MTileN = 1, 1
	s.Tiles.Float[1][0][0] = 3.0 // acc1 (ms2)
	s.Tiles.Float[2][0][0] = 4.0 // acc2 (ms1)

	// mfmul.s acc0, acc1, acc2: func4=0010, ctrl=111, ssize=dsize=10 (FP32).
	word := pack(0b0010, isa.UopElementWiseFloat, 0b111, 1, 0b10, 2, isa.Func3ElementWise, 0b10, 0)
	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err != nil {
		t.Fatalf("dispatch error: %v", err)
	}
	if got := s.Tiles.Float[0][0][0]; got != 12.0 {
		t.Errorf("acc0[0][0] = %v, want 12.0", got)
	}
}

// TestElementWiseBroadcastRowOutOfRangeIsRejectedNotPanicked is a
// regression test for a bug where an out-of-range broadcast-row ctrl
// (4..7, valid per the encoder's own range check but beyond ROWNUM=4)
// indexed straight into the fixed [8][4][4] tile arrays and panicked
// instead of returning an error.
func TestElementWiseBroadcastRowOutOfRangeIsRejectedNotPanicked(t *testing.T) {
	s := NewSimulator(DefaultMemorySize, nil)
	s.CSR.MTileM, s.CSR.MTileN = 1, 1

	// madd.w acc0, acc1, acc2, 4 (broadcast row 4, out of ROWNUM range):
	// func4=0000, ctrl=100, ssize=dsize=10 (INT32).
	word := pack(0b0000, isa.UopElementWiseInt, 0b100, 1, 0b10, 2, isa.Func3ElementWise, 0b10, 0)
	d, err := Decode(word)
	if err != nil {
		t.Fatalf("Decode error: %v", err)
	}
	if err := s.dispatch(d); err == nil {
		t.Fatal("expected an error for ctrl=4 (out of ROWNUM range), got nil")
	}
}

func TestUnsupportedInstructionWarnsRatherThanHalting(t *testing.T) {
	var buf diagSink
	s := NewSimulator(DefaultMemorySize, &buf)
	// d_size=11 (64-bit) load/store is explicitly rejected.
	word := packLoadStore(0b0000, 0, 0, 0, 0b11, 0)
	s.LoadProgram([]uint32{word})

	if err := s.Step(); err != nil {
		t.Fatalf("Step returned an error for an unsupported (non-memory) instruction: %v", err)
	}
	if s.Halted {
		t.Fatal("an unsupported instruction should warn and continue, not halt")
	}
	if len(buf.writes) == 0 {
		t.Fatal("expected a diagnostic to be written for the unsupported instruction")
	}
}

type diagSink struct {
	writes []string
}

func (d *diagSink) Write(p []byte) (int, error) {
	d.writes = append(d.writes, string(p))
	return len(p), nil
}
