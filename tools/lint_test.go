package tools

import "testing"

func TestLintAcceptsValidProgram(t *testing.T) {
	src := "msettilemi 4\nmsettileni 4\nmsettileki 4\n"
	issues := Lint(src, "test.s")
	if HasErrors(issues) {
		t.Fatalf("expected no errors, got %v", issues)
	}
}

func TestLintReportsUnknownMnemonic(t *testing.T) {
	src := "bogus tr0, tr1, tr2\n"
	issues := Lint(src, "test.s")
	if !HasErrors(issues) {
		t.Fatal("expected an error for an unknown mnemonic")
	}
}

func TestLintWarnsOnMixedCaseMnemonic(t *testing.T) {
	src := "mRelease\n"
	issues := Lint(src, "test.s")
	foundWarning := false
	for _, i := range issues {
		if i.Level == LintWarning {
			foundWarning = true
		}
	}
	if !foundWarning {
		t.Fatal("expected a mixed-case mnemonic warning")
	}
}

func TestLintIgnoresBlankAndCommentLines(t *testing.T) {
	src := "\n# just a comment\n   \n"
	issues := Lint(src, "test.s")
	if len(issues) != 0 {
		t.Fatalf("expected no issues on blank/comment-only source, got %v", issues)
	}
}
