package actors_test

import (
	gc "gopkg.in/check.v1"

	"github.com/flowgraph/flowgraph"
	"github.com/flowgraph/flowgraph/actors"
)

type ChainSuite struct{}

var _ = gc.Suite(new(ChainSuite))

func (s *ChainSuite) TestChainWiresActorsEndToEnd(c *gc.C) {
	chain, err := actors.NewChain("triple",
		incrementStub("a"), incrementStub("b"), incrementStub("c"))
	c.Assert(err, gc.IsNil)

	sched := flowgraph.NewLinearizedScheduler()
	c.Assert(sched.RunWorkflow(chain, map[string]interface{}{"in": 1}), gc.IsNil)

	out, _ := chain.OutPorts().Get("out")
	v, err := out.Pop()
	c.Assert(err, gc.IsNil)
	c.Assert(v, gc.Equals, 4)
}

func (s *ChainSuite) TestChainRejectsEmptyActorList(c *gc.C) {
	_, err := actors.NewChain("empty")
	c.Assert(err, gc.ErrorMatches, ".*chain needs at least one actor.*")
}
