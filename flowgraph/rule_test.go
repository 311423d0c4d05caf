package flowgraph_test

import (
	gc "gopkg.in/check.v1"

	"github.com/flowgraph/flowgraph"
)

type FiringRuleSuite struct{}

var _ = gc.Suite(new(FiringRuleSuite))

func (s *FiringRuleSuite) TestAnyPortReadyFiresOnSinglePort(c *gc.C) {
	a := newStubActor("gen", []string{"p", "q"}, nil)
	a.SetFiringRule(flowgraph.FiringRule{Kind: flowgraph.AnyPortReady})

	p, _ := a.InPorts().Get("p")
	c.Assert(p.Put(1), gc.Equals, true)
}

func (s *FiringRuleSuite) TestAlwaysReadyFiresWithNothingBuffered(c *gc.C) {
	a := newStubActor("sink", []string{"p"}, nil)
	a.SetFiringRule(flowgraph.FiringRule{Kind: flowgraph.AlwaysReady})

	c.Assert(a.CanRun(), gc.Equals, true)
}

func (s *FiringRuleSuite) TestCustomRuleDelegates(c *gc.C) {
	a := newStubActor("custom", []string{"p"}, nil)
	called := false
	a.SetFiringRule(flowgraph.FiringRule{
		Kind: flowgraph.CustomRule,
		Custom: func(pg *flowgraph.PortGroup) bool {
			called = true
			return true
		},
	})

	c.Assert(a.CanRun(), gc.Equals, true)
	c.Assert(called, gc.Equals, true)
}

func (s *FiringRuleSuite) TestDefaultRuleRequiresAllPorts(c *gc.C) {
	a := newStubActor("default", []string{"p", "q"}, nil)
	p, _ := a.InPorts().Get("p")
	q, _ := a.InPorts().Get("q")

	c.Assert(p.Put(1), gc.Equals, false)
	c.Assert(q.Put(2), gc.Equals, true)
}
