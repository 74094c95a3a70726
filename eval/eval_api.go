package eval

import (
	"fmt"

	"fortio.org/log"
	"grol.io/tinyeval/ast"
	"grol.io/tinyeval/object"
)

// Exported part of the eval package.

// Approximate maximum nesting depth of a tree before the evaluator gives up
// instead of running into a goroutine stack overflow.
const DefaultMaxDepth = 100_000

// State holds the evaluator's own bookkeeping. Program state lives in the
// [object.Context] passed explicitly to each call.
type State struct {
	// Max depth / nesting level - default DefaultMaxDepth.
	MaxDepth int
	depth    int
}

func NewState() *State {
	return &State{MaxDepth: DefaultMaxDepth}
}

// Reset post panic recovery.
func (s *State) Reset() {
	s.depth = 0
}

func (s *State) enter() {
	if s.depth >= s.MaxDepth {
		log.LogVf("max depth %d reached", s.MaxDepth) // will be logged by the panic handler.
		// State must be reset using s.Reset() to reuse the evaluator post panic.
		panic(fmt.Sprintf("max depth %d reached", s.MaxDepth))
	}
	s.depth++
}

func (s *State) leave() {
	s.depth--
}

// Run executes stmt against ctx with a fresh State.
func Run(ctx *object.Context, stmt ast.Statement) error {
	return NewState().Exec(ctx, stmt)
}

// Value evaluates expr with a fresh State.
func Value(ctx *object.Context, expr ast.Expression) (int64, error) {
	return NewState().Value(ctx, expr)
}
