package flowgraph_test

import (
	gc "gopkg.in/check.v1"

	"github.com/flowgraph/flowgraph"
)

type LinearizedSchedulerSuite struct{}

var _ = gc.Suite(new(LinearizedSchedulerSuite))

func (s *LinearizedSchedulerSuite) TestThreeStageChainProducesEight(c *gc.C) {
	a1, _, a3 := threeStageChain()
	sched := flowgraph.NewLinearizedScheduler()

	in, _ := a1.InPorts().Get("x")
	sched.PutValue(in, 5)
	c.Assert(sched.Execute(), gc.IsNil)

	out, _ := a3.OutPorts().Get("x")
	v, err := out.Pop()
	c.Assert(err, gc.IsNil)
	c.Assert(v, gc.Equals, 8)
}

func (s *LinearizedSchedulerSuite) TestFanOutDeliversToEveryConnection(c *gc.C) {
	producer := newStubActor("producer", []string{"x"}, []string{"x"})
	producer.runFn = func(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
		return flowgraph.Emit(map[string]interface{}{"x": args[0]}), nil
	}
	// Each sink also has a never-fed "y" inport, so it never fires and the
	// delivered value stays buffered on "x" for inspection.
	sink1 := newStubActor("sink1", []string{"x", "y"}, nil)
	sink2 := newStubActor("sink2", []string{"x", "y"}, nil)

	out, _ := producer.OutPorts().Get("x")
	in1, _ := sink1.InPorts().Get("x")
	in2, _ := sink2.InPorts().Get("x")
	_ = out.Connect(in1)
	_ = out.Connect(in2)

	sched := flowgraph.NewLinearizedScheduler()
	pin, _ := producer.InPorts().Get("x")
	sched.PutValue(pin, "hi")
	c.Assert(sched.Execute(), gc.IsNil)

	v1, err := in1.Pop()
	c.Assert(err, gc.IsNil)
	c.Assert(v1, gc.Equals, "hi")

	v2, err := in2.Pop()
	c.Assert(err, gc.IsNil)
	c.Assert(v2, gc.Equals, "hi")
}

func (s *LinearizedSchedulerSuite) TestUnconnectedOutportKeepsValueBuffered(c *gc.C) {
	producer := newStubActor("producer", []string{"x"}, []string{"x"})
	producer.runFn = func(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
		return flowgraph.Emit(map[string]interface{}{"x": args[0]}), nil
	}

	sched := flowgraph.NewLinearizedScheduler()
	pin, _ := producer.InPorts().Get("x")
	sched.PutValue(pin, 42)
	c.Assert(sched.Execute(), gc.IsNil)

	out, _ := producer.OutPorts().Get("x")
	c.Assert(out.Ready(), gc.Equals, true)
	v, _ := out.Peek()
	c.Assert(v, gc.Equals, 42)
}

func (s *LinearizedSchedulerSuite) TestUnknownOutportFails(c *gc.C) {
	bad := newStubActor("bad", []string{"x"}, []string{"y"})
	bad.runFn = func(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
		return flowgraph.Emit(map[string]interface{}{"not_declared": 1}), nil
	}

	sched := flowgraph.NewLinearizedScheduler()
	in, _ := bad.InPorts().Get("x")
	sched.PutValue(in, 1)
	err := sched.Execute()
	c.Assert(err, gc.ErrorMatches, "(?s).*unknown outport.*")
}
