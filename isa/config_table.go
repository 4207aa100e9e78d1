package isa

// ConfigEntry describes one of the five Configuration-handler instructions
// (spec.md §4.4). Every config mnemonic shares func3/uop with the rest of
// the Config group; only func4 varies. The immediate-vs-GPR operand form is
// selected by the assembler from the mnemonic's own spelling (the `i`
// suffix, e.g. msettileki vs msettilek) and encoded into ctrl bit 25.
type ConfigEntry struct {
	Mnemonic  string
	Func4     uint32
	Immediate bool // true for the *i suffixed (immediate-operand) mnemonics
}

// ConfigTable is keyed by canonical (lowercased) mnemonic.
var ConfigTable = buildConfigTable()

func buildConfigTable() map[string]ConfigEntry {
	entries := []ConfigEntry{
		{"mrelease", 0b0000, false},
		{"msettileki", 0b0001, true},
		{"msettilek", 0b0001, false},
		{"msettilemi", 0b0010, true},
		{"msettilem", 0b0010, false},
		{"msettileni", 0b0011, true},
		{"msettilen", 0b0011, false},
	}
	m := make(map[string]ConfigEntry, len(entries))
	for _, e := range entries {
		m[e.Mnemonic] = e
	}
	return m
}

// ConfigByFunc4 reverse-resolves a func4 + immediate-form flag back to its
// mnemonic, used by the Config handler (vm/handler_config.go) to name the
// instruction in its diagnostics.
func ConfigByFunc4(func4 uint32, immediate bool) (string, bool) {
	for mnemonic, e := range ConfigTable {
		if e.Func4 == func4 && e.Immediate == immediate {
			return mnemonic, true
		}
	}
	return "", false
}
