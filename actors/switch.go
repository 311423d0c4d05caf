package actors

import "github.com/flowgraph/flowgraph"

// Switch is the while-loop combinator: it pops a value from loop_in and,
// while condition holds, emits it on loop_out for another pass through the
// loop body; once condition fails, it emits the value on final instead.
// The body itself is wired externally (a self-loop back to loop_in) or,
// via NewLoopWithInner, constructed and wired internally as a composite.
type Switch struct {
	*flowgraph.BaseActor

	condition func(interface{}) bool
}

// NewSwitch constructs a Switch actor named name with the given loop
// condition.
func NewSwitch(name string, condition func(interface{}) bool) *Switch {
	s := &Switch{condition: condition}
	s.BaseActor = flowgraph.NewBaseActor(s, name)
	s.InPorts().Append("loop_in")
	s.OutPorts().Append("loop_out")
	s.OutPorts().Append("final")
	return s
}

// GetRunArgs pops the pending loop value.
func (s *Switch) GetRunArgs() ([]interface{}, map[string]interface{}) {
	port, _ := s.InPorts().Get("loop_in")
	v, err := port.Pop()
	if err != nil {
		panic(err)
	}
	return []interface{}{v}, nil
}

// Run emits on loop_out while the condition holds, else on final.
func (s *Switch) Run(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
	value := args[0]
	if s.condition(value) {
		return flowgraph.Emit(map[string]interface{}{"loop_out": value}), nil
	}
	return flowgraph.Emit(map[string]interface{}{"final": value}), nil
}

// NewLoopWithInner builds a Composite wrapping a Switch whose body is the
// given inner actor (assumed to have exactly one inport and one outport),
// wired as loop_out -> inner.in and inner.out -> loop_in. The composite
// exposes a single "loop_in" inport and a single "final" outport,
// producing the same observable result as a Switch wired to an external
// self-loop.
func NewLoopWithInner(name string, condition func(interface{}) bool, inner flowgraph.Actor) *flowgraph.Composite {
	c := flowgraph.NewComposite(name)
	sw := NewSwitch(name+"_condition", condition)
	c.AddActor(sw)
	c.AddActor(inner)

	loopOut, _ := sw.OutPorts().Get("loop_out")
	loopIn, _ := sw.InPorts().Get("loop_in")
	innerIn := inner.InPorts().At(0)
	innerOut := inner.OutPorts().At(0)

	_ = loopOut.Connect(innerIn)
	_ = innerOut.Connect(loopIn)

	c.ExposeInput("loop_in", loopIn)
	final, _ := sw.OutPorts().Get("final")
	_ = c.ExposeOutput("final", final)
	return c
}
