package actors_test

import (
	gc "gopkg.in/check.v1"

	"github.com/flowgraph/flowgraph"
	"github.com/flowgraph/flowgraph/actors"
)

type ShellSuite struct{}

var _ = gc.Suite(new(ShellSuite))

func (s *ShellSuite) TestNonShellModeAppendsInputAsArgument(c *gc.C) {
	sh := actors.NewShell("echoer", "echo", false)
	sched := flowgraph.NewLinearizedScheduler()

	in, _ := sh.InPorts().Get("stdin")
	sched.PutValue(in, "hello")
	c.Assert(sched.Execute(), gc.IsNil)

	ret, _ := sh.OutPorts().Get("ret")
	stdout, _ := sh.OutPorts().Get("stdout")
	stderr, _ := sh.OutPorts().Get("stderr")

	retVal, _ := ret.Pop()
	outVal, _ := stdout.Pop()
	errVal, _ := stderr.Pop()

	c.Assert(retVal, gc.Equals, 0)
	c.Assert(outVal, gc.Equals, "hello")
	c.Assert(errVal, gc.Equals, "")
}

func (s *ShellSuite) TestShellModeInterpolatesInput(c *gc.C) {
	sh := actors.NewShell("shellecho", "echo", true)
	sched := flowgraph.NewLinearizedScheduler()

	in, _ := sh.InPorts().Get("stdin")
	sched.PutValue(in, "world")
	c.Assert(sched.Execute(), gc.IsNil)

	stdout, _ := sh.OutPorts().Get("stdout")
	outVal, _ := stdout.Pop()
	c.Assert(outVal, gc.Equals, "world")
}

func (s *ShellSuite) TestNonZeroExitCodeIsReported(c *gc.C) {
	sh := actors.NewShell("failer", "exit", true)
	sched := flowgraph.NewLinearizedScheduler()

	in, _ := sh.InPorts().Get("stdin")
	sched.PutValue(in, "7")
	c.Assert(sched.Execute(), gc.IsNil)

	ret, _ := sh.OutPorts().Get("ret")
	retVal, _ := ret.Pop()
	c.Assert(retVal, gc.Equals, 7)
}
