// Package diagnostic implements structured compiler error reporting: a
// single diagnostic carries file/line/column and a message, and renders
// with source-line + caret context so a failure points straight at the
// offending declaration.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/firefly-oss/firefly-lang-sub000/internal/ast"
)

// Kind taxonomizes the back end's internal failure modes.
type Kind int

const (
	KindUnresolvedSymbol Kind = iota
	KindNoApplicableMethod
	KindTypeMismatch
	KindPatternCodegen
	KindVerifierFailure
)

func (k Kind) String() string {
	switch k {
	case KindUnresolvedSymbol:
		return "unresolved symbol"
	case KindNoApplicableMethod:
		return "no applicable method"
	case KindTypeMismatch:
		return "type mismatch"
	case KindPatternCodegen:
		return "pattern codegen failure"
	case KindVerifierFailure:
		return "verifier failure"
	default:
		return "error"
	}
}

// Diagnostic is one structured compiler error: one diagnostic per failed
// declaration, carrying its source location.
type Diagnostic struct {
	Kind    Kind
	Message string
	Pos     ast.Position
	Source  string // the declaring file's full source text, if available
	Decl    string // enclosing declaration's name, for grouping
}

func New(kind Kind, pos ast.Position, format string, args ...any) *Diagnostic {
	return &Diagnostic{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (d *Diagnostic) Error() string { return d.Format(false) }

// Format renders the diagnostic with a source-line + caret.
func (d *Diagnostic) Format(color bool) string {
	var sb strings.Builder

	if d.Pos.File != "" {
		fmt.Fprintf(&sb, "Error in %s:%d:%d [%s]\n", d.Pos.File, d.Pos.Line, d.Pos.Column, d.Kind)
	} else {
		fmt.Fprintf(&sb, "Error at %d:%d [%s]\n", d.Pos.Line, d.Pos.Column, d.Kind)
	}

	if line := d.sourceLine(d.Pos.Line); line != "" {
		prefix := fmt.Sprintf("%4d | ", d.Pos.Line)
		sb.WriteString(prefix)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(prefix)+max(d.Pos.Column-1, 0)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

func (d *Diagnostic) sourceLine(lineNum int) string {
	if d.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(d.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// FormatAll formats a batch of diagnostics, numbering them when there is
// more than one.
func FormatAll(diags []*Diagnostic, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return diags[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "code generation failed with %d error(s):\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "[Error %d of %d]\n", i+1, len(diags))
		sb.WriteString(d.Format(color))
		if i < len(diags)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

// Bag collects diagnostics for declarations that fail while sibling
// declarations continue to emit.
type Bag struct {
	diags []*Diagnostic
}

func (b *Bag) Add(d *Diagnostic) { b.diags = append(b.diags, d) }
func (b *Bag) Empty() bool       { return len(b.diags) == 0 }
func (b *Bag) All() []*Diagnostic { return b.diags }
func (b *Bag) Error() string     { return FormatAll(b.diags, false) }
