package actors_test

import (
	gc "gopkg.in/check.v1"

	"github.com/flowgraph/flowgraph"
	"github.com/flowgraph/flowgraph/actors"
)

type FuncSuite struct{}

var _ = gc.Suite(new(FuncSuite))

func incrementAndScale(args []interface{}) ([]interface{}, error) {
	x := args[0].(int)
	y := args[1].(float64)
	return []interface{}{x + 1, y + 2}, nil
}

func (s *FuncSuite) TestRunEmitsOneValuePerOutport(c *gc.C) {
	f := actors.NewFunc("f", []string{"x", "y"}, []string{"a", "b"}, incrementAndScale)

	sched := flowgraph.NewLinearizedScheduler()
	x, _ := f.InPorts().Get("x")
	y, _ := f.InPorts().Get("y")
	sched.PutValue(x, 2)
	sched.PutValue(y, 3.1)
	c.Assert(sched.Execute(), gc.IsNil)

	aPort, _ := f.OutPorts().Get("a")
	bPort, _ := f.OutPorts().Get("b")
	a, err := aPort.Pop()
	c.Assert(err, gc.IsNil)
	b, err := bPort.Pop()
	c.Assert(err, gc.IsNil)

	c.Assert(a, gc.Equals, 3)
	c.Assert(b, gc.Equals, 5.1)
}

func (s *FuncSuite) TestCallMatchesDataflowFiring(c *gc.C) {
	f := actors.NewFunc("f", []string{"x", "y"}, []string{"a", "b"}, incrementAndScale)

	direct, err := f.Call(2, 3.1)
	c.Assert(err, gc.IsNil)

	sched := flowgraph.NewLinearizedScheduler()
	x, _ := f.InPorts().Get("x")
	y, _ := f.InPorts().Get("y")
	sched.PutValue(x, 2)
	sched.PutValue(y, 3.1)
	c.Assert(sched.Execute(), gc.IsNil)

	aPort, _ := f.OutPorts().Get("a")
	bPort, _ := f.OutPorts().Get("b")
	a, _ := aPort.Pop()
	b, _ := bPort.Pop()

	c.Assert(a, gc.Equals, direct[0])
	c.Assert(b, gc.Equals, direct[1])
}

func (s *FuncSuite) TestRunFailsWhenFunctionReturnsWrongArity(c *gc.C) {
	f := actors.NewFunc("bad", []string{"x"}, []string{"a", "b"}, func(args []interface{}) ([]interface{}, error) {
		return []interface{}{1}, nil
	})

	sched := flowgraph.NewLinearizedScheduler()
	x, _ := f.InPorts().Get("x")
	sched.PutValue(x, 1)

	err := sched.Execute()
	c.Assert(err, gc.ErrorMatches, "(?s).*function returned 1 values, want 2.*")
}
