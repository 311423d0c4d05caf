package actors_test

import (
	"os"

	gc "gopkg.in/check.v1"

	"github.com/flowgraph/flowgraph"
	"github.com/flowgraph/flowgraph/actors"
)

type GeneratorSuite struct{}

var _ = gc.Suite(new(GeneratorSuite))

func (s *GeneratorSuite) TestLineReaderStreamsEachLine(c *gc.C) {
	f, err := os.CreateTemp(c.MkDir(), "lines")
	c.Assert(err, gc.IsNil)
	_, err = f.WriteString("alpha\nbeta\ngamma\n")
	c.Assert(err, gc.IsNil)
	c.Assert(f.Close(), gc.IsNil)

	reader := actors.NewLineReader("reader", "path", "line")
	sched := flowgraph.NewLinearizedScheduler()

	in, _ := reader.InPorts().Get("path")
	sched.PutValue(in, f.Name())
	c.Assert(sched.Execute(), gc.IsNil)

	out, _ := reader.OutPorts().Get("line")
	var got []string
	for out.Ready() {
		v, err := out.Pop()
		c.Assert(err, gc.IsNil)
		got = append(got, v.(string))
	}
	c.Assert(got, gc.DeepEquals, []string{"alpha", "beta", "gamma"})
}

func (s *GeneratorSuite) TestIteratorStreamsEachElement(c *gc.C) {
	it := actors.NewIterator("it", "items", "element")
	sched := flowgraph.NewLinearizedScheduler()

	in, _ := it.InPorts().Get("items")
	sched.PutValue(in, []interface{}{1, 2, 3})
	c.Assert(sched.Execute(), gc.IsNil)

	out, _ := it.OutPorts().Get("element")
	var got []interface{}
	for out.Ready() {
		v, err := out.Pop()
		c.Assert(err, gc.IsNil)
		got = append(got, v)
	}
	c.Assert(got, gc.DeepEquals, []interface{}{1, 2, 3})
}
