package eval

import (
	"errors"
	"strconv"
)

// ErrUnboundVariable is the only evaluation error kind: a Var referring to a name
// that was never defined in the context.
var ErrUnboundVariable = errors.New("unbound variable")

type UnboundVariableError struct {
	Name string
}

func (e *UnboundVariableError) Error() string {
	return "unbound variable " + strconv.Quote(e.Name)
}

func (e *UnboundVariableError) Is(target error) bool {
	return target == ErrUnboundVariable
}
