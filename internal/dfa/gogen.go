package dfa

import (
	"bytes"
	"fmt"
	"go/token"
	"io"

	"github.com/pkg/errors"
	"golang.org/x/tools/imports"
)

// ErrInvalidIdentifier is returned by WriteGo for a package or function name
// that is not a Go identifier.
var ErrInvalidIdentifier = errors.New("not a valid Go identifier")

// WriteGo writes a Go source file declaring func fn(input string) bool, a
// table-free matcher equivalent to Evaluate. source, when set, is quoted in
// the doc comment.
func (d *DFA) WriteGo(w io.Writer, pkg, fn, source string) error {
	for _, name := range []string{pkg, fn} {
		if !token.IsIdentifier(name) {
			return errors.Wrapf(ErrInvalidIdentifier, "%q", name)
		}
	}

	var b bytes.Buffer
	b.WriteString("// Code generated by dfagen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkg)
	if source != "" {
		fmt.Fprintf(&b, "// %s reports whether input matches %q.\n", fn, source)
	} else {
		fmt.Fprintf(&b, "// %s reports whether input is accepted.\n", fn)
	}
	fmt.Fprintf(&b, "func %s(input string) bool {\n", fn)
	fmt.Fprintf(&b, "state := %d\n", d.Start)

	if len(d.Transitions) == 0 {
		b.WriteString("if len(input) > 0 {\nreturn false\n}\n")
	} else {
		b.WriteString("for _, c := range input {\nswitch state {\n")
		for s := 0; s < d.NumStates; s++ {
			chars := sortedChars(d.Transitions[s])
			if len(chars) == 0 {
				continue
			}
			fmt.Fprintf(&b, "case %d:\nswitch c {\n", s)
			for _, c := range chars {
				fmt.Fprintf(&b, "case %q:\nstate = %d\n", c, d.Transitions[s][c])
			}
			b.WriteString("default:\nreturn false\n}\n")
		}
		b.WriteString("default:\nreturn false\n}\n}\n")
	}

	var accepting []int
	for s := 0; s < d.NumStates; s++ {
		if d.Accepting[s] {
			accepting = append(accepting, s)
		}
	}
	switch len(accepting) {
	case 0:
		b.WriteString("_ = state\nreturn false\n")
	case d.NumStates:
		b.WriteString("_ = state\nreturn true\n")
	default:
		b.WriteString("switch state {\ncase ")
		for i, s := range accepting {
			if i > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%d", s)
		}
		b.WriteString(":\nreturn true\n}\nreturn false\n")
	}
	b.WriteString("}\n")

	src, err := formatCode(b.Bytes())
	if err != nil {
		return err
	}
	_, err = w.Write(src)
	return err
}

func formatCode(src []byte) ([]byte, error) {
	out, err := imports.Process("dfa.go", src, &imports.Options{
		TabWidth:  8,
		TabIndent: true,
		Comments:  true,
	})
	if err != nil {
		return nil, errors.Wrap(err, "format generated code")
	}
	return out, nil
}
