package cgen

import (
	"strconv"
	"strings"
)

// DiagKind classifies a soft failure.
type DiagKind string

const (
	DiagType   DiagKind = "type"   // value type without a C type
	DiagUnary  DiagKind = "unary"  // unary operator without a name
	DiagBinary DiagKind = "binary" // binary operator without a token
	DiagWidth  DiagKind = "width"  // load or store width without a view
	DiagNode   DiagKind = "node"   // node kind without a lowering
	DiagGlobal DiagKind = "global" // global initialiser that is not a literal
	DiagBuild  DiagKind = "build"  // construct the IR builder could not model
)

// Diagnostic is one placeholder written to the output.
type Diagnostic struct {
	Function string
	Kind     DiagKind
	ID       uint64
	Message  string
}

func (d Diagnostic) String() string {
	var b strings.Builder
	if d.Function != "" {
		b.WriteString(d.Function)
		b.WriteString(": ")
	}
	b.WriteString(string(d.Kind))
	b.WriteString(" #")
	b.WriteString(strconv.FormatUint(d.ID, 10))
	if d.Message != "" {
		b.WriteString(": ")
		b.WriteString(d.Message)
	}
	return b.String()
}

// Diagnostics is the list of soft failures of one generation. It implements
// error so strict callers can return it directly.
type Diagnostics []Diagnostic

func (d Diagnostics) Error() string {
	switch len(d) {
	case 0:
		return "no diagnostics"
	case 1:
		return "1 emission diagnostic: " + d[0].String()
	}
	var b strings.Builder
	b.WriteString(strconv.Itoa(len(d)))
	b.WriteString(" emission diagnostics: ")
	for i, diag := range d {
		if i > 0 {
			b.WriteString("; ")
		}
		if i == 3 {
			b.WriteString("...")
			break
		}
		b.WriteString(diag.String())
	}
	return b.String()
}

// Count returns the number of diagnostics of kind k.
func (d Diagnostics) Count(k DiagKind) int {
	n := 0
	for _, diag := range d {
		if diag.Kind == k {
			n++
		}
	}
	return n
}
