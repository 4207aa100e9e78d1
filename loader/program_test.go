package loader

import (
	"bytes"
	"strings"
	"testing"
)

func TestLoadMachineCodeSkipsBlankAndCommentLines(t *testing.T) {
	src := strings.Repeat("0", 33) + "1\n" // 34 chars, wrong length
	_, err := LoadMachineCode(strings.NewReader(src))
	if err == nil {
		t.Fatal("expected an error for a line of the wrong length")
	}

	src = "\n# a comment\n" + strings.Repeat("0", 31) + "1\n"
	words, err := LoadMachineCode(strings.NewReader(src))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 1 || words[0] != 1 {
		t.Fatalf("words = %v, want [1]", words)
	}
}

func TestLoadMachineCodeRejectsNonBinaryCharacters(t *testing.T) {
	src := strings.Repeat("0", 30) + "2" + "0\n" // contains a '2'
	if _, err := LoadMachineCode(strings.NewReader(src)); err == nil {
		t.Fatal("expected an error for a non-binary character")
	}
}

func TestWriteMachineCodeRoundTripsThroughLoadMachineCode(t *testing.T) {
	words := []uint32{0, 1, 0xDEADBEEF, 0xFFFFFFFF}

	var buf bytes.Buffer
	if err := WriteMachineCode(&buf, words); err != nil {
		t.Fatalf("WriteMachineCode: %v", err)
	}

	got, err := LoadMachineCode(&buf)
	if err != nil {
		t.Fatalf("LoadMachineCode: %v", err)
	}
	if len(got) != len(words) {
		t.Fatalf("got %d words, want %d", len(got), len(words))
	}
	for i, w := range words {
		if got[i] != w {
			t.Errorf("word[%d] = 0x%08x, want 0x%08x", i, got[i], w)
		}
	}
}

func TestWriteMachineCodeProducesZeroPadded32BitLines(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMachineCode(&buf, []uint32{1}); err != nil {
		t.Fatalf("WriteMachineCode: %v", err)
	}
	want := strings.Repeat("0", 31) + "1\n"
	if buf.String() != want {
		t.Errorf("output = %q, want %q", buf.String(), want)
	}
}
