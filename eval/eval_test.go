package eval_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"grol.io/tinyeval/ast"
	"grol.io/tinyeval/eval"
	"grol.io/tinyeval/object"
	"grol.io/tinyeval/program"
)

func TestEvalIntegerExpression(t *testing.T) {
	tests := []struct {
		input    ast.Expression
		expected int64
	}{
		{ast.Num(5), 5},
		{ast.Num(-10), -10},
		{ast.Num(0), 0},
		{ast.Add(ast.Num(5), ast.Mul(ast.Num(2), ast.Num(10))), 25},
		{ast.Mul(ast.Num(2), ast.Add(ast.Num(5), ast.Num(10))), 30},
		{ast.Add(ast.Num(-50), ast.Add(ast.Num(100), ast.Num(-50))), 0},
		{ast.Mul(ast.Num(-3), ast.Num(3)), -9},
		{ast.Add(ast.Num(math.MaxInt64), ast.Num(1)), math.MinInt64}, // native wrap around.
	}
	for i, tt := range tests {
		got, err := eval.Value(object.NewContext(), tt.input)
		if err != nil {
			t.Errorf("test %d %s: unexpected error %v", i, tt.input, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("test %d %s: got %d, want %d", i, tt.input, got, tt.expected)
		}
	}
}

func TestVarLookup(t *testing.T) {
	ctx := object.NewContext()
	err := eval.Run(ctx, ast.Assign("x", ast.Num(12)))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	v, err := eval.Value(ctx, ast.Mul(ast.Ident("x"), ast.Ident("x")))
	if err != nil || v != 144 {
		t.Errorf("x*x got %d, %v; want 144", v, err)
	}
}

func TestUnboundVariable(t *testing.T) {
	ctx := object.NewContext()
	_, err := eval.Value(ctx, ast.Ident("y"))
	if !errors.Is(err, eval.ErrUnboundVariable) {
		t.Fatalf("expected unbound variable error, got %v", err)
	}
	var uerr *eval.UnboundVariableError
	if !errors.As(err, &uerr) || uerr.Name != "y" {
		t.Errorf("expected UnboundVariableError for y, got %#v", err)
	}
	if err.Error() != `unbound variable "y"` {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestErrorAbortsButKeepsOutput(t *testing.T) {
	ctx := object.NewContext()
	prog := ast.Seq(
		ast.Out(ast.Num(1)),
		ast.Loop(ast.Num(1), ast.Num(5), "i", ast.Seq(
			ast.Out(ast.Ident("i")),
			ast.Out(ast.Add(ast.Ident("i"), ast.Ident("missing"))),
		)),
		ast.Out(ast.Num(99)),
	)
	err := eval.Run(ctx, prog)
	if !errors.Is(err, eval.ErrUnboundVariable) {
		t.Fatalf("expected unbound variable error, got %v", err)
	}
	if diff := cmp.Diff([]string{"1", "1"}, ctx.Stdout()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestReferenceProgram(t *testing.T) {
	ctx := object.NewContext()
	if err := eval.Run(ctx, program.Demo()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	expected := []string{"27", "29", "31", "33", "35", "37", "39", "41", "43", "45"}
	if diff := cmp.Diff(expected, ctx.Stdout()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	// reading twice gives the same thing.
	if diff := cmp.Diff(ctx.Stdout(), ctx.Stdout()); diff != "" {
		t.Errorf("second read differs:\n%s", diff)
	}
	// flat bindings: the loop variable is still there with the last value.
	if v, ok := ctx.VarValue("i"); !ok || v != 10 {
		t.Errorf("i after loop got %d, %v; want 10", v, ok)
	}
	if ctx.ScopeDepth() != 0 {
		t.Errorf("unbalanced scopes: %d", ctx.ScopeDepth())
	}
}

func TestForLoop(t *testing.T) {
	tests := []struct {
		name     string
		lower    int64
		upper    int64
		expected []string
	}{
		{"one to ten", 1, 10, []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}},
		{"single", 3, 3, []string{"3"}},
		{"empty", 5, 4, nil},
		{"negative", -2, 1, []string{"-2", "-1", "0", "1"}},
		{"max int", math.MaxInt64 - 1, math.MaxInt64, []string{"9223372036854775806", "9223372036854775807"}},
	}
	for _, tt := range tests {
		ctx := object.NewContext()
		ctx.Print(0) // pre-existing output is kept as is.
		err := eval.Run(ctx, ast.Loop(ast.Num(tt.lower), ast.Num(tt.upper), "i", ast.Out(ast.Ident("i"))))
		if err != nil {
			t.Errorf("%s: unexpected error %v", tt.name, err)
			continue
		}
		expected := append([]string{"0"}, tt.expected...)
		if diff := cmp.Diff(expected, ctx.Stdout()); diff != "" {
			t.Errorf("%s: output mismatch (-want +got):\n%s", tt.name, diff)
		}
		// iterator is bound to lower even when the body never runs.
		if tt.lower > tt.upper {
			if v, _ := ctx.VarValue("i"); v != tt.lower {
				t.Errorf("%s: i got %d, want %d", tt.name, v, tt.lower)
			}
		}
	}
}

func TestForBoundsEvaluatedOnce(t *testing.T) {
	ctx := object.NewContext()
	prog := ast.Seq(
		ast.Assign("n", ast.Num(3)),
		ast.Loop(ast.Num(1), ast.Ident("n"), "i", ast.Seq(
			ast.Assign("n", ast.Add(ast.Ident("n"), ast.Num(1))),
			// rebinding the loop variable doesn't change the iteration sequence.
			ast.Out(ast.Ident("i")),
			ast.Assign("i", ast.Num(100)),
		)),
		ast.Out(ast.Ident("n")),
		ast.Out(ast.Ident("i")),
	)
	if err := eval.Run(ctx, prog); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	expected := []string{"1", "2", "3", "6", "100"}
	if diff := cmp.Diff(expected, ctx.Stdout()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestBlockLeaksBindings(t *testing.T) {
	ctx := object.NewContext()
	prog := ast.Seq(
		ast.Seq(ast.Assign("inner", ast.Num(7))),
		ast.Out(ast.Ident("inner")),
	)
	if err := eval.Run(ctx, prog); err != nil {
		t.Fatalf("binding made in a nested block should be visible after it: %v", err)
	}
	if diff := cmp.Diff([]string{"7"}, ctx.Stdout()); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyBlock(t *testing.T) {
	ctx := object.NewContext()
	if err := eval.Run(ctx, ast.Seq()); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if diff := cmp.Diff([]string{}, ctx.Stdout(), cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("expected no output:\n%s", diff)
	}
}

func TestAssignThenRead(t *testing.T) {
	for _, v := range []int64{0, -1, 42, math.MinInt64} {
		ctx := object.NewContext()
		if err := eval.Run(ctx, ast.Assign("v", ast.Num(v))); err != nil {
			t.Fatalf("unexpected error %v", err)
		}
		got, err := eval.Value(ctx, ast.Ident("v"))
		if err != nil || got != v {
			t.Errorf("got %d, %v; want %d", got, err, v)
		}
	}
}

func nested(depth int) ast.Statement {
	var stmt ast.Statement = ast.Out(ast.Num(1))
	for i := 0; i < depth; i++ {
		stmt = ast.Seq(stmt)
	}
	return stmt
}

func TestMaxDepth(t *testing.T) {
	s := eval.NewState()
	s.MaxDepth = 50
	ctx := object.NewContext()
	if err := s.Exec(ctx, nested(10)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic past max depth")
		}
		if r != "max depth 50 reached" {
			t.Errorf("unexpected panic %v", r)
		}
	}()
	_ = s.Exec(ctx, nested(100))
}
