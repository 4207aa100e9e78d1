package tools

import (
	"strings"

	"github.com/rvmatrix/miss/parser"
)

// Format re-renders assembly source in a canonical layout: lowercase
// mnemonic, operands comma-and-space separated, a single trailing comment
// preserved, blank lines collapsed to one.
func Format(src string) string {
	var out strings.Builder
	lines := strings.Split(src, "\n")
	blankRun := false

	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			if !blankRun && i != len(lines)-1 {
				out.WriteString("\n")
			}
			blankRun = true
			continue
		}
		blankRun = false

		comment := ""
		if idx := strings.IndexByte(trimmed, '#'); idx >= 0 {
			comment = strings.TrimSpace(trimmed[idx:])
			trimmed = strings.TrimSpace(trimmed[:idx])
		}
		if trimmed == "" {
			if comment != "" {
				out.WriteString(comment + "\n")
			}
			continue
		}

		inst, err := parser.ParseLine(trimmed, parser.Position{})
		if err != nil || inst == nil {
			out.WriteString(raw + "\n")
			continue
		}

		out.WriteString(inst.Mnemonic)
		if len(inst.Operands) > 0 {
			out.WriteString(" ")
			out.WriteString(strings.Join(inst.Operands, ", "))
		}
		if comment != "" {
			out.WriteString("  " + comment)
		}
		out.WriteString("\n")
	}

	return out.String()
}
