package flowgraph_test

import (
	gc "gopkg.in/check.v1"

	"github.com/flowgraph/flowgraph"
)

type NaiveSchedulerSuite struct{}

var _ = gc.Suite(new(NaiveSchedulerSuite))

func incrementActor(name string) *stubActor {
	a := newStubActor(name, []string{"x"}, []string{"x"})
	a.runFn = func(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
		return flowgraph.Emit(map[string]interface{}{"x": args[0].(int) + 1}), nil
	}
	return a
}

func threeStageChain() (*stubActor, *stubActor, *stubActor) {
	a1, a2, a3 := incrementActor("s1"), incrementActor("s2"), incrementActor("s3")
	a1out, _ := a1.OutPorts().Get("x")
	a2in, _ := a2.InPorts().Get("x")
	a2out, _ := a2.OutPorts().Get("x")
	a3in, _ := a3.InPorts().Get("x")
	_ = a1out.Connect(a2in)
	_ = a2out.Connect(a3in)
	return a1, a2, a3
}

func (s *NaiveSchedulerSuite) TestThreeStageChainProducesEight(c *gc.C) {
	a1, _, a3 := threeStageChain()
	sched := flowgraph.NewNaiveScheduler()

	in, _ := a1.InPorts().Get("x")
	sched.PutValue(in, 5)
	c.Assert(sched.Execute(), gc.IsNil)

	out, _ := a3.OutPorts().Get("x")
	v, err := out.Pop()
	c.Assert(err, gc.IsNil)
	c.Assert(v, gc.Equals, 8)
}

func (s *NaiveSchedulerSuite) TestCopyIsFreshAndEmpty(c *gc.C) {
	sched := flowgraph.NewNaiveScheduler()
	fresh := sched.Copy()
	c.Assert(fresh, gc.NotNil)
	c.Assert(fresh.Execute(), gc.IsNil)
}
