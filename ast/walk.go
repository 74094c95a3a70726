package ast

import (
	"fortio.org/log"
	"fortio.org/sets"
)

// Walk calls f for node and then, if f returned true, for each child in evaluation order.
func Walk(node Node, f func(Node) bool) {
	if !f(node) {
		return
	}
	switch node := node.(type) {
	case *NumberLiteral, *Var:
		// leaves.
	case *Plus:
		Walk(node.Left, f)
		Walk(node.Right, f)
	case *Multiply:
		Walk(node.Left, f)
		Walk(node.Right, f)
	case *AssignVar:
		Walk(node.Value, f)
	case *Print:
		Walk(node.Value, f)
	case *Block:
		for _, s := range node.Statements {
			Walk(s, f)
		}
	case *For:
		Walk(node.Lower, f)
		Walk(node.Upper, f)
		Walk(node.Body, f)
	default:
		log.Critf("Walk: unexpected node type %T", node)
	}
}

// FreeVariables returns, sorted, the names read by a Var before anything binds them.
// Bindings are flat (blocks and loops don't scope), so once bound a name stays bound
// for the rest of the program; a loop variable counts as bound inside and after its loop,
// even when the loop runs zero times.
func FreeVariables(stmt Statement) []string {
	bound := sets.New[string]()
	free := sets.New[string]()
	freeVars(stmt, bound, free)
	return sets.Sort(free)
}

func freeVars(node Node, bound, free sets.Set[string]) {
	switch node := node.(type) {
	case *NumberLiteral:
	case *Var:
		if !bound.Has(node.Name) {
			free.Add(node.Name)
		}
	case *Plus:
		freeVars(node.Left, bound, free)
		freeVars(node.Right, bound, free)
	case *Multiply:
		freeVars(node.Left, bound, free)
		freeVars(node.Right, bound, free)
	case *AssignVar:
		freeVars(node.Value, bound, free)
		bound.Add(node.Name)
	case *Print:
		freeVars(node.Value, bound, free)
	case *Block:
		for _, s := range node.Statements {
			freeVars(s, bound, free)
		}
	case *For:
		freeVars(node.Lower, bound, free)
		freeVars(node.Upper, bound, free)
		bound.Add(node.Iter)
		freeVars(node.Body, bound, free)
	default:
		log.Critf("FreeVariables: unexpected node type %T", node)
	}
}
