package flowgraph_test

import (
	"sync"
	"sync/atomic"

	gc "gopkg.in/check.v1"

	"github.com/flowgraph/flowgraph"
)

type ThreadedSchedulerSuite struct{}

var _ = gc.Suite(new(ThreadedSchedulerSuite))

func (s *ThreadedSchedulerSuite) TestThreeStageChainProducesEight(c *gc.C) {
	a1, _, a3 := threeStageChain()
	sched := flowgraph.NewThreadedScheduler(4)

	in, _ := a1.InPorts().Get("x")
	sched.PutValue(in, 5)
	c.Assert(sched.Execute(), gc.IsNil)

	out, _ := a3.OutPorts().Get("x")
	v, err := out.Pop()
	c.Assert(err, gc.IsNil)
	c.Assert(v, gc.Equals, 8)
}

// TestAtMostOneConcurrentFiringPerActor drives many deliveries at the same
// actor and asserts a mutex-guarded counter never observes more than
// one in-flight firing at once — invariant 4.
func (s *ThreadedSchedulerSuite) TestAtMostOneConcurrentFiringPerActor(c *gc.C) {
	var mu sync.Mutex
	var inFlight, maxInFlight int32

	slow := newStubActor("slow", []string{"x"}, nil)
	slow.runFn = func(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
		n := atomic.AddInt32(&inFlight, 1)
		mu.Lock()
		if n > maxInFlight {
			maxInFlight = n
		}
		mu.Unlock()
		atomic.AddInt32(&inFlight, -1)
		return flowgraph.Empty(), nil
	}

	sched := flowgraph.NewThreadedScheduler(8)
	in, _ := slow.InPorts().Get("x")
	for i := 0; i < 50; i++ {
		sched.PutValue(in, i)
	}
	c.Assert(sched.Execute(), gc.IsNil)

	mu.Lock()
	defer mu.Unlock()
	c.Assert(maxInFlight, gc.Equals, int32(1))
}

func (s *ThreadedSchedulerSuite) TestCopyReturnsThreadedScheduler(c *gc.C) {
	sched := flowgraph.NewThreadedScheduler(6)
	fresh, ok := sched.Copy().(*flowgraph.ThreadedScheduler)
	c.Assert(ok, gc.Equals, true)
	c.Assert(fresh, gc.NotNil)
}
