// Package object holds the mutable evaluation state: variable bindings and printed output.
package object

import (
	"io"
	"sort"
	"strconv"

	"fortio.org/log"
)

// Context is the environment of one program run. Bindings are flat: scopes are
// tracked but never isolate or restore anything.
type Context struct {
	// Echo, when set, also receives each printed line (newline terminated).
	Echo  io.Writer
	store map[string]int64
	log   []string
	depth int // scope nesting, informational only.
}

func NewContext() *Context {
	return &Context{store: make(map[string]int64)}
}

// DefineVar inserts or overwrites the binding for name.
func (c *Context) DefineVar(name string, value int64) {
	log.Debugf("define %s = %d (scope depth %d)", name, value, c.depth)
	c.store[name] = value
}

// VarValue returns the value bound to name, ok is false if name was never defined.
func (c *Context) VarValue(name string) (value int64, ok bool) {
	value, ok = c.store[name]
	return
}

// Print appends the decimal representation of value to the output log.
func (c *Context) Print(value int64) {
	line := strconv.FormatInt(value, 10)
	c.log = append(c.log, line)
	if c.Echo == nil {
		return
	}
	if _, err := io.WriteString(c.Echo, line+"\n"); err != nil {
		log.Warnf("echo of printed value %s failed: %v", line, err)
	}
}

// PushScope marks entry into a block or loop body. Bindings are not isolated.
func (c *Context) PushScope() {
	c.depth++
}

// PopScope marks exit from a block or loop body. Bindings made inside are kept.
func (c *Context) PopScope() {
	c.depth--
}

func (c *Context) ScopeDepth() int {
	return c.depth
}

// Stdout returns the printed lines in print order. The slice is a copy.
func (c *Context) Stdout() []string {
	res := make([]string, len(c.log))
	copy(res, c.log)
	return res
}

// Len is the number of bindings.
func (c *Context) Len() int {
	return len(c.store)
}

// Names returns the bound names, sorted.
func (c *Context) Names() []string {
	names := make([]string, 0, len(c.store))
	for k := range c.store {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
