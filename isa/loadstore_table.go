package isa

import "fmt"

// LoadStoreEntry describes one Load/Store mnemonic (spec.md §4.5): a
// (variant, element-width) pair crossed with load/store direction.
type LoadStoreEntry struct {
	Mnemonic string
	Func4    uint32 // selects A/B/C row-major or transposed
	LS       uint32 // 0 = load, 1 = store
	DSize    uint32 // EEW: 00=8-bit(int), 01=16-bit(fp16), 10=32-bit(fp32)
}

// loadStoreVariants maps the mnemonic's infix (ae/be/ce/ate/bte/cte) to its
// func4 and matrix-role, per spec.md §4.5's table.
var loadStoreVariants = []struct {
	infix string
	func4 uint32
}{
	{"ae", 0b0000},  // A, row-major
	{"be", 0b0001},  // B, row-major
	{"ce", 0b0010},  // C, column-major
	{"ate", 0b0100}, // A, transposed
	{"bte", 0b0101}, // B, transposed
	{"cte", 0b0110}, // C, transposed
}

var loadStoreWidths = []struct {
	suffix string
	dsize  uint32
}{
	{"8", 0b00},
	{"16", 0b01},
	{"32", 0b10},
}

// LoadStoreTable is keyed by canonical mnemonic, e.g. "mlae32", "mscte16".
var LoadStoreTable = buildLoadStoreTable()

func buildLoadStoreTable() map[string]LoadStoreEntry {
	m := make(map[string]LoadStoreEntry, 36)
	for _, dir := range []struct {
		prefix string
		ls     uint32
	}{{"ml", 0}, {"ms", 1}} {
		for _, v := range loadStoreVariants {
			for _, w := range loadStoreWidths {
				name := fmt.Sprintf("%s%s%s", dir.prefix, v.infix, w.suffix)
				m[name] = LoadStoreEntry{Mnemonic: name, Func4: v.func4, LS: dir.ls, DSize: w.dsize}
			}
		}
	}
	return m
}

// LoadStoreByFields reverse-resolves (func4, ls, dsize) back to a mnemonic.
func LoadStoreByFields(func4, ls, dsize uint32) (string, bool) {
	for name, e := range LoadStoreTable {
		if e.Func4 == func4 && e.LS == ls && e.DSize == dsize {
			return name, true
		}
	}
	return "", false
}

// EEWBits returns the effective element width in bits for a d_size value.
func EEWBits(dsize uint32) int {
	switch dsize {
	case 0b00:
		return 8
	case 0b01:
		return 16
	case 0b10:
		return 32
	default:
		return 0
	}
}

// IsAccumulatorRole reports whether a Load/Store func4 targets the C
// (accumulator) tile role rather than A/B.
func IsAccumulatorRole(func4 uint32) bool {
	return func4 == 0b0010 || func4 == 0b0110
}

// IsTransposed reports whether a Load/Store func4 is a transposed variant.
func IsTransposed(func4 uint32) bool {
	return func4 == 0b0100 || func4 == 0b0101 || func4 == 0b0110
}
