// Package loader reads machine-code programs and reads/writes the snapshot
// file formats of spec.md §6, so the simulator core never needs to touch
// the filesystem itself.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LoadMachineCode reads one instruction per line, each a 32-character
// string of '0'/'1' (MSB first); blank lines and `#...` comments are
// ignored (spec.md §6).
func LoadMachineCode(r io.Reader) ([]uint32, error) {
	var words []uint32
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if len(line) != 32 {
			return nil, fmt.Errorf("line %d: expected a 32-character binary string, got %d characters", lineNo, len(line))
		}
		v, err := strconv.ParseUint(line, 2, 32)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid binary string %q: %w", lineNo, line, err)
		}
		words = append(words, uint32(v))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// WriteMachineCode writes words back out in the same one-per-line,
// zero-padded binary format LoadMachineCode reads (used by the assembler).
func WriteMachineCode(w io.Writer, words []uint32) error {
	bw := bufio.NewWriter(w)
	for _, word := range words {
		if _, err := fmt.Fprintf(bw, "%032b\n", word); err != nil {
			return err
		}
	}
	return bw.Flush()
}
