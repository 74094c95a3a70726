// Package ast defines the closed set of nodes a tinyeval program is made of.
// Trees are built directly by callers (there is no parser) and are never mutated by evaluation.
package ast

import (
	"strconv"
	"strings"
)

// Node is implemented only by the types of this package.
type Node interface {
	String() string
	PrettyPrint(out *PrintState) *PrintState
	node()
}

// Expression nodes evaluate to a number.
type Expression interface {
	Node
	expression()
}

// Statement nodes evaluate for their side effects on the context.
type Statement interface {
	Node
	statement()
}

type NumberLiteral struct {
	Value int64
}

type Var struct {
	Name string
}

type Plus struct {
	Left  Expression
	Right Expression
}

type Multiply struct {
	Left  Expression
	Right Expression
}

type AssignVar struct {
	Name  string
	Value Expression
}

type Print struct {
	Value Expression
}

type Block struct {
	Statements []Statement
}

// For binds Iter to each of Lower..Upper (inclusive) and runs Body each time.
type For struct {
	Lower Expression
	Upper Expression
	Iter  string
	Body  Statement
}

func (*NumberLiteral) node() {}
func (*Var) node()           {}
func (*Plus) node()          {}
func (*Multiply) node()      {}
func (*AssignVar) node()     {}
func (*Print) node()         {}
func (*Block) node()         {}
func (*For) node()           {}

func (*NumberLiteral) expression() {}
func (*Var) expression()           {}
func (*Plus) expression()          {}
func (*Multiply) expression()      {}

func (*AssignVar) statement() {}
func (*Print) statement()     {}
func (*Block) statement()     {}
func (*For) statement()       {}

// Short constructors, mostly for tests and hand built programs.

func Num(v int64) *NumberLiteral { return &NumberLiteral{Value: v} }

func Ident(name string) *Var { return &Var{Name: name} }

func Add(left, right Expression) *Plus { return &Plus{Left: left, Right: right} }

func Mul(left, right Expression) *Multiply { return &Multiply{Left: left, Right: right} }

func Assign(name string, value Expression) *AssignVar { return &AssignVar{Name: name, Value: value} }

func Out(value Expression) *Print { return &Print{Value: value} }

func Seq(statements ...Statement) *Block { return &Block{Statements: statements} }

func Loop(lower, upper Expression, iter string, body Statement) *For {
	return &For{Lower: lower, Upper: upper, Iter: iter, Body: body}
}

// toString is the compact single line rendering used by all String() methods.
func toString(n Node) string {
	ps := &PrintState{Out: &strings.Builder{}, Compact: true}
	n.PrettyPrint(ps)
	return ps.Out.String()
}

func (n *NumberLiteral) String() string { return strconv.FormatInt(n.Value, 10) }
func (v *Var) String() string           { return v.Name }
func (p *Plus) String() string          { return toString(p) }
func (m *Multiply) String() string      { return toString(m) }
func (a *AssignVar) String() string     { return toString(a) }
func (p *Print) String() string         { return toString(p) }
func (b *Block) String() string         { return toString(b) }
func (f *For) String() string           { return toString(f) }
