package ast

import (
	"strconv"
	"strings"
)

// PrintState carries the output and indentation while pretty printing a tree.
type PrintState struct {
	Out         *strings.Builder
	IndentLevel int
	Compact     bool // single line, minimal spaces.
}

// NewPrintState returns a PrintState writing to a fresh builder.
func NewPrintState(compact bool) *PrintState {
	return &PrintState{Out: &strings.Builder{}, Compact: compact}
}

func (ps *PrintState) String() string {
	return ps.Out.String()
}

func (ps *PrintState) Print(str ...string) *PrintState {
	for _, s := range str {
		ps.Out.WriteString(s)
	}
	return ps
}

// Space writes a space, unless compact.
func (ps *PrintState) Space() *PrintState {
	if !ps.Compact {
		ps.Out.WriteString(" ")
	}
	return ps
}

func (ps *PrintState) newLine() {
	ps.Out.WriteString("\n")
	ps.Out.WriteString(strings.Repeat("  ", ps.IndentLevel))
}

func (n *NumberLiteral) PrettyPrint(ps *PrintState) *PrintState {
	return ps.Print(strconv.FormatInt(n.Value, 10))
}

func (v *Var) PrettyPrint(ps *PrintState) *PrintState {
	return ps.Print(v.Name)
}

func binary(ps *PrintState, left Expression, op string, right Expression) *PrintState {
	ps.Print("(")
	left.PrettyPrint(ps)
	ps.Space().Print(op).Space()
	right.PrettyPrint(ps)
	return ps.Print(")")
}

func (p *Plus) PrettyPrint(ps *PrintState) *PrintState {
	return binary(ps, p.Left, "+", p.Right)
}

func (m *Multiply) PrettyPrint(ps *PrintState) *PrintState {
	return binary(ps, m.Left, "*", m.Right)
}

func (a *AssignVar) PrettyPrint(ps *PrintState) *PrintState {
	ps.Print(a.Name).Space().Print("=").Space()
	return a.Value.PrettyPrint(ps)
}

func (p *Print) PrettyPrint(ps *PrintState) *PrintState {
	ps.Print("print(")
	p.Value.PrettyPrint(ps)
	return ps.Print(")")
}

func printStatements(ps *PrintState, statements []Statement) *PrintState {
	ps.Print("{")
	if len(statements) == 0 {
		return ps.Print("}")
	}
	ps.IndentLevel++
	for i, s := range statements {
		switch {
		case !ps.Compact:
			ps.newLine()
		case i > 0:
			ps.Print("; ")
		}
		s.PrettyPrint(ps)
	}
	ps.IndentLevel--
	if !ps.Compact {
		ps.newLine()
	}
	return ps.Print("}")
}

func (b *Block) PrettyPrint(ps *PrintState) *PrintState {
	return printStatements(ps, b.Statements)
}

func (f *For) PrettyPrint(ps *PrintState) *PrintState {
	ps.Print("for ", f.Iter).Space().Print("=").Space()
	f.Lower.PrettyPrint(ps)
	ps.Print("..")
	f.Upper.PrettyPrint(ps)
	ps.Print(" ")
	if b, ok := f.Body.(*Block); ok {
		return b.PrettyPrint(ps)
	}
	return printStatements(ps, []Statement{f.Body})
}
