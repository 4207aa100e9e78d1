// Package tools holds small standalone collaborators around the assembler
// and simulator core: a static linter and a source formatter (spec.md §4.9
// mentions neither directly, but both are natural companions to a
// line-oriented dialect with no labels or macros to resolve).
package tools

import (
	"fmt"
	"strings"

	"github.com/rvmatrix/miss/encoder"
	"github.com/rvmatrix/miss/parser"
)

// LintLevel represents the severity of a lint issue.
type LintLevel int

const (
	LintError LintLevel = iota
	LintWarning
)

func (l LintLevel) String() string {
	switch l {
	case LintError:
		return "error"
	case LintWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// LintIssue is a single finding, positioned at a source line.
type LintIssue struct {
	Level   LintLevel
	Line    int
	Message string
}

func (i *LintIssue) String() string {
	return fmt.Sprintf("line %d: %s: %s", i.Line, i.Level, i.Message)
}

// Lint parses src as assembly text and reports one issue per line that
// fails to encode, plus a style warning for a mnemonic not written in
// lowercase, which doesn't block assembly. Indentation is not checked.
func Lint(src string, filename string) []*LintIssue {
	var issues []*LintIssue
	enc := encoder.NewEncoder()

	lines := strings.Split(src, "\n")
	for i, raw := range lines {
		lineNo := i + 1
		inst, err := parser.ParseLine(raw, parser.Position{Filename: filename, Line: lineNo, Column: 1})
		if err != nil {
			issues = append(issues, &LintIssue{Level: LintError, Line: lineNo, Message: err.Error()})
			continue
		}
		if inst == nil {
			continue
		}

		if firstToken := strings.Fields(raw)[0]; firstToken != inst.Mnemonic {
			issues = append(issues, &LintIssue{Level: LintWarning, Line: lineNo, Message: "mnemonic has mixed case; canonical form is lowercase"})
		}

		if _, err := enc.EncodeInstruction(inst); err != nil {
			issues = append(issues, &LintIssue{Level: LintError, Line: lineNo, Message: err.Error()})
		}
	}
	return issues
}

// HasErrors reports whether any issue in issues is LintError severity.
func HasErrors(issues []*LintIssue) bool {
	for _, i := range issues {
		if i.Level == LintError {
			return true
		}
	}
	return false
}
