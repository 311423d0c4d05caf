// Package actors provides idiomatic, reference implementations of the
// convenience actors the dataflow engine's core treats as external
// collaborators: a function wrapper, a while-loop combinator, a
// shell-command runner, file/collection generators, a round-robin
// splitter, and a composite chain helper. None of these are imported by
// package flowgraph; actors imports flowgraph, never the reverse.
package actors

import (
	"golang.org/x/xerrors"

	"github.com/flowgraph/flowgraph"
)

// Func wraps a plain Go function as an actor. Go has no runtime
// return-annotation introspection, so (unlike the Python original's
// FuncActor) inport and outport names are declared explicitly at
// construction instead of being derived from the function's signature.
type Func struct {
	*flowgraph.BaseActor

	inNames  []string
	outNames []string
	fn       func(args []interface{}) ([]interface{}, error)
}

// NewFunc constructs a Func actor named name. fn is invoked with one
// argument per entry in inNames, in order, and must return one value per
// entry in outNames, in order.
func NewFunc(name string, inNames, outNames []string, fn func(args []interface{}) ([]interface{}, error)) *Func {
	f := &Func{inNames: inNames, outNames: outNames, fn: fn}
	f.BaseActor = flowgraph.NewBaseActor(f, name)
	for _, n := range inNames {
		f.InPorts().Append(n)
	}
	for _, n := range outNames {
		f.OutPorts().Append(n)
	}
	return f
}

// GetRunArgs pops one value from each declared inport, in declaration
// order, and returns them as positional arguments.
func (f *Func) GetRunArgs() ([]interface{}, map[string]interface{}) {
	args := make([]interface{}, len(f.inNames))
	for i, name := range f.inNames {
		port, _ := f.InPorts().Get(name)
		v, err := port.Pop()
		if err != nil {
			panic(err)
		}
		args[i] = v
	}
	return args, nil
}

// Run invokes the wrapped function and maps its returned values onto the
// declared outports, in order.
func (f *Func) Run(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
	values, err := f.fn(args)
	if err != nil {
		return flowgraph.Empty(), err
	}
	if len(values) != len(f.outNames) {
		return flowgraph.Empty(), xerrors.Errorf("actor %q: function returned %d values, want %d", f.Name(), len(values), len(f.outNames))
	}
	out := make(map[string]interface{}, len(values))
	for i, name := range f.outNames {
		out[name] = values[i]
	}
	return flowgraph.Emit(out), nil
}

// Call invokes the wrapped function directly, bypassing any scheduler.
// It mirrors the dataflow path exactly: actor(x, y) == f(x, y).
func (f *Func) Call(args ...interface{}) ([]interface{}, error) {
	return f.fn(args)
}
