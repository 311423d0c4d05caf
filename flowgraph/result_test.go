package flowgraph_test

import (
	gc "gopkg.in/check.v1"

	"github.com/flowgraph/flowgraph"
)

type ResultSuite struct{}

var _ = gc.Suite(new(ResultSuite))

func (s *ResultSuite) TestEmptyResultIsEmpty(c *gc.C) {
	c.Assert(flowgraph.Empty().IsEmpty(), gc.Equals, true)
}

func (s *ResultSuite) TestEmitWithNoEntriesIsEmpty(c *gc.C) {
	c.Assert(flowgraph.Emit(map[string]interface{}{}).IsEmpty(), gc.Equals, true)
}

func (s *ResultSuite) TestEmitWithEntriesIsNotEmpty(c *gc.C) {
	r := flowgraph.Emit(map[string]interface{}{"a": 1})
	c.Assert(r.IsEmpty(), gc.Equals, false)
	c.Assert(r.Values(), gc.DeepEquals, map[string]interface{}{"a": 1})
}

func (s *ResultSuite) TestStreamWithItemsIsNotEmpty(c *gc.C) {
	r := flowgraph.Stream(
		flowgraph.StreamItem{Port: "line", Value: "a"},
		flowgraph.StreamItem{Port: "line", Value: "b"},
	)
	c.Assert(r.IsEmpty(), gc.Equals, false)
	c.Assert(r.StreamItems(), gc.HasLen, 2)
}

func (s *ResultSuite) TestEmptyStreamIsEmpty(c *gc.C) {
	c.Assert(flowgraph.Stream().IsEmpty(), gc.Equals, true)
}
