package eval

import (
	"fmt"

	"fortio.org/log"
	"grol.io/tinyeval/ast"
	"grol.io/tinyeval/object"
)

// Value evaluates an expression. Left operands are evaluated before right ones.
func (s *State) Value(ctx *object.Context, expr ast.Expression) (int64, error) {
	s.enter()
	defer s.leave()
	switch node := expr.(type) {
	case *ast.NumberLiteral:
		return node.Value, nil
	case *ast.Var:
		v, ok := ctx.VarValue(node.Name)
		if !ok {
			return 0, &UnboundVariableError{Name: node.Name}
		}
		return v, nil
	case *ast.Plus:
		left, right, err := s.operands(ctx, node.Left, node.Right)
		if err != nil {
			return 0, err
		}
		return left + right, nil
	case *ast.Multiply:
		left, right, err := s.operands(ctx, node.Left, node.Right)
		if err != nil {
			return 0, err
		}
		return left * right, nil
	}
	// Only reachable with a nil expression as the set of types is closed.
	panic(fmt.Sprintf("unexpected expression type %T", expr))
}

func (s *State) operands(ctx *object.Context, l, r ast.Expression) (left, right int64, err error) {
	left, err = s.Value(ctx, l)
	if err != nil {
		return
	}
	right, err = s.Value(ctx, r)
	return
}

// Exec runs a statement for its effects on ctx. The first error aborts the rest of
// the evaluation; output printed before it stays in ctx.
func (s *State) Exec(ctx *object.Context, stmt ast.Statement) error {
	s.enter()
	defer s.leave()
	switch node := stmt.(type) {
	case *ast.AssignVar:
		v, err := s.Value(ctx, node.Value)
		if err != nil {
			return err
		}
		ctx.DefineVar(node.Name, v)
		return nil
	case *ast.Print:
		v, err := s.Value(ctx, node.Value)
		if err != nil {
			return err
		}
		ctx.Print(v)
		return nil
	case *ast.Block:
		return s.evalBlock(ctx, node)
	case *ast.For:
		return s.evalFor(ctx, node)
	}
	panic(fmt.Sprintf("unexpected statement type %T", stmt))
}

func (s *State) evalBlock(ctx *object.Context, b *ast.Block) error {
	ctx.PushScope()
	defer ctx.PopScope()
	for _, statement := range b.Statements {
		if err := s.Exec(ctx, statement); err != nil {
			return err
		}
	}
	return nil
}

// Bounds are evaluated once, before the first iteration.
func (s *State) evalFor(ctx *object.Context, f *ast.For) error {
	lower, upper, err := s.operands(ctx, f.Lower, f.Upper)
	if err != nil {
		return err
	}
	log.LogVf("for %s = %d..%d", f.Iter, lower, upper)
	ctx.PushScope()
	defer ctx.PopScope()
	ctx.DefineVar(f.Iter, lower)
	if lower > upper {
		return nil
	}
	for i := lower; ; i++ {
		ctx.DefineVar(f.Iter, i)
		if err := s.Exec(ctx, f.Body); err != nil {
			return err
		}
		if i == upper { // checked before i++ so upper == MaxInt64 doesn't wrap around.
			return nil
		}
	}
}
