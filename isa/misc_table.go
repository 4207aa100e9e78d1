package isa

// MiscEntry describes one of the seven supported Misc instructions
// (spec.md §4.8). Extra structural constraints (ctrl==0, d_size==10, the
// ctrl-bit-25 split between mmovw.m.x and mdupw.m.x, and the s_size==d_size
// requirement on the slide forms) are enforced by the handler/encoder, not
// encoded in this table, since they are not part of the mnemonic->func4
// mapping itself.
type MiscEntry struct {
	Mnemonic string
	Func4    uint32
}

var MiscTable = map[string]MiscEntry{
	"mzero":        {"mzero", 0b0000},
	"mmov.mm":      {"mmov.mm", 0b0001},
	"mmovw.x.m":    {"mmovw.x.m", 0b0010},
	"mmovw.m.x":    {"mmovw.m.x", 0b0011},
	"mdupw.m.x":    {"mdupw.m.x", 0b0011},
	"mrslidedown":  {"mrslidedown", 0b0101},
	"mcslidedown.w": {"mcslidedown.w", 0b0111},
}

// MiscByFunc4 reverse-resolves func4 to the set of mnemonics sharing it
// (mmovw.m.x and mdupw.m.x share func4 0b0011, disambiguated by ctrl bit 25
// at decode time).
func MiscByFunc4(func4 uint32) []string {
	var names []string
	for name, e := range MiscTable {
		if e.Func4 == func4 {
			names = append(names, name)
		}
	}
	return names
}
