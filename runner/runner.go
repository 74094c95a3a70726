// Package runner wires decoding, checking, pretty printing and evaluation of
// tinyeval programs for the command line and tests.
package runner

import (
	"fmt"
	"io"
	"strings"

	"fortio.org/log"
	"grol.io/tinyeval/ast"
	"grol.io/tinyeval/eval"
	"grol.io/tinyeval/object"
	"grol.io/tinyeval/program"
)

type Options struct {
	ShowTree bool // print the tree before running it.
	Compact  bool // single line tree.
	Check    bool // refuse to run programs reading variables that are never bound first.
	ShowVars bool // dump the bindings after the run.
	MaxDepth int  // 0 for eval.DefaultMaxDepth.
	PanicOk  bool // don't recover panics, only for development/debugging.
}

// RunProgram evaluates stmt in a new context. Printed values are written to out as
// they happen and also returned. On error the output printed so far is returned
// along with it.
func RunProgram(stmt ast.Statement, out io.Writer, options Options) (output []string, err error) {
	if options.ShowTree {
		fmt.Fprint(out, "== Tree ==> ")
		fmt.Fprintln(out, stmt.PrettyPrint(ast.NewPrintState(options.Compact)).String())
	}
	if options.Check {
		if free := ast.FreeVariables(stmt); len(free) > 0 {
			log.Errf("check failed, %d variable(s) read before being set: %v", len(free), free)
			return nil, fmt.Errorf("%w: %s read before being set", eval.ErrUnboundVariable, strings.Join(free, ", "))
		}
		log.LogVf("check ok")
	}
	ctx := object.NewContext()
	ctx.Echo = out
	s := eval.NewState()
	if options.MaxDepth > 0 {
		s.MaxDepth = options.MaxDepth
	}
	err = safeExec(s, ctx, stmt, options.PanicOk)
	if options.ShowVars {
		for _, name := range ctx.Names() {
			v, _ := ctx.VarValue(name)
			fmt.Fprintf(out, "%s = %d\n", name, v)
		}
	}
	return ctx.Stdout(), err
}

func safeExec(s *eval.State, ctx *object.Context, stmt ast.Statement, panicOk bool) (err error) {
	if !panicOk {
		defer func() {
			if r := recover(); r != nil {
				log.Critf("Caught panic: %v", r)
				s.Reset()
				err = fmt.Errorf("panic: %v", r)
			}
		}()
	}
	return s.Exec(ctx, stmt)
}

// RunReader decodes a yaml program from in and runs it.
func RunReader(in io.Reader, out io.Writer, options Options) ([]string, error) {
	stmt, err := program.Decode(in)
	if err != nil {
		return nil, err
	}
	return RunProgram(stmt, out, options)
}

// RunString is RunReader on a string, returning the output as newline terminated text.
func RunString(code string, options Options) (string, error) {
	out := strings.Builder{}
	_, err := RunReader(strings.NewReader(code), &out, options)
	return out.String(), err
}
