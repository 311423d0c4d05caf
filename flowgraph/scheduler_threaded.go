package flowgraph

import (
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
)

// ThreadedScheduler runs a worker pool over a shared delivery queue,
// guaranteeing at most one concurrent firing per actor. A sync.Cond is
// signalled on every PutValue and on every firing completion, so workers
// only wake when there is a chance of new eligible work rather than
// sleeping and rescanning.
type ThreadedScheduler struct {
	maxWorkers   int
	clk          clock.Clock
	pollInterval time.Duration

	mu           sync.Mutex
	cond         *sync.Cond
	queue        []deliveryItem
	running      map[Actor]bool
	errs         *multierror.Error
	firingCounts map[string]int
	metrics      MetricsSink
}

// SetMetrics attaches a telemetry sink that future firings report into.
func (s *ThreadedScheduler) SetMetrics(m MetricsSink) {
	s.mu.Lock()
	s.metrics = m
	s.mu.Unlock()
}

// NewThreadedScheduler constructs a ThreadedScheduler with maxWorkers
// worker goroutines, the wall clock, and the ~20ms safety-broadcast
// interval documented as the worst-case responsiveness bound.
func NewThreadedScheduler(maxWorkers int) *ThreadedScheduler {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	s := &ThreadedScheduler{
		maxWorkers:   maxWorkers,
		clk:          clock.WallClock,
		pollInterval: 20 * time.Millisecond,
		running:      make(map[Actor]bool),
	}
	s.cond = sync.NewCond(&s.mu)
	return s
}

// PutValue only enqueues (inport, value); the actual Port.Put happens when
// a worker claims the item, per deliverValue, matching the Python
// original's deferred-put semantics for this scheduler.
func (s *ThreadedScheduler) PutValue(inport *Port, value interface{}) {
	s.mu.Lock()
	s.queue = append(s.queue, deliveryItem{port: inport, value: value})
	if s.metrics != nil {
		s.metrics.SetQueueDepth(len(s.queue))
	}
	s.cond.Broadcast()
	s.mu.Unlock()
}

// claim scans the queue, under the scheduler's own lock, for the first
// entry whose owner is not currently running. It blocks on the condition
// variable while there is outstanding work but none of it is currently
// claimable, and returns ok=false once both the queue and the running set
// are empty, telling the caller to exit.
func (s *ThreadedScheduler) claim() (item deliveryItem, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for {
		for i, candidate := range s.queue {
			if s.running[candidate.port.Owner()] {
				continue
			}
			s.queue = append(s.queue[:i:i], s.queue[i+1:]...)
			s.running[candidate.port.Owner()] = true
			if s.metrics != nil {
				s.metrics.SetQueueDepth(len(s.queue))
				s.metrics.SetActiveActors(len(s.running))
			}
			return candidate, true
		}
		if len(s.queue) == 0 && len(s.running) == 0 {
			s.cond.Broadcast()
			return deliveryItem{}, false
		}
		s.cond.Wait()
	}
}

func (s *ThreadedScheduler) complete(owner Actor) {
	s.mu.Lock()
	delete(s.running, owner)
	if s.metrics != nil {
		s.metrics.SetActiveActors(len(s.running))
	}
	s.cond.Broadcast()
	s.mu.Unlock()
}

func (s *ThreadedScheduler) recordErr(owner Actor, err error) {
	s.mu.Lock()
	s.errs = multierror.Append(s.errs, err)
	sink := s.metrics
	s.mu.Unlock()
	if sink != nil {
		sink.RecordFailure(owner.Name())
	}
}

func (s *ThreadedScheduler) worker(wg *sync.WaitGroup) {
	defer wg.Done()
	for {
		item, ok := s.claim()
		if !ok {
			return
		}
		owner := item.port.Owner()
		shouldRun, handled := deliverValue(s, item.port, item.value)
		if !handled && shouldRun {
			if err := fire(owner, s, localInvoke); err != nil {
				s.recordErr(owner, err)
			}
		}
		s.complete(owner)
	}
}

// safetyBroadcast periodically wakes every waiting worker, bounding the
// worst-case delay between a PutValue/complete signal being missed and a
// worker noticing new work to the documented ~20ms, without making that
// the primary wakeup path.
func (s *ThreadedScheduler) safetyBroadcast(stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		case <-s.clk.After(s.pollInterval):
			s.mu.Lock()
			s.cond.Broadcast()
			s.mu.Unlock()
		}
	}
}

// Execute spins up maxWorkers workers and blocks until all of them have
// observed that the queue and running set are both empty.
func (s *ThreadedScheduler) Execute() error {
	stop := make(chan struct{})
	go s.safetyBroadcast(stop)

	var wg sync.WaitGroup
	for i := 0; i < s.maxWorkers; i++ {
		wg.Add(1)
		go s.worker(&wg)
	}
	wg.Wait()
	close(stop)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errs == nil {
		return nil
	}
	err := s.errs.ErrorOrNil()
	s.errs = nil
	return err
}

// RunWorkflow delivers inputs and executes.
func (s *ThreadedScheduler) RunWorkflow(w *Composite, inputs map[string]interface{}) error {
	return RunWorkflow(s, w, inputs)
}

// Copy returns a fresh ThreadedScheduler with the same worker count and
// clock, and an empty queue.
func (s *ThreadedScheduler) Copy() Scheduler {
	out := NewThreadedScheduler(s.maxWorkers)
	out.clk = s.clk
	out.pollInterval = s.pollInterval
	out.metrics = s.metrics
	return out
}

// RecordFiring implements FiringRecorder, also forwarding to any attached
// telemetry sink.
func (s *ThreadedScheduler) RecordFiring(actorName string) {
	s.mu.Lock()
	s.firingCounts = recordFiring(s.firingCounts, actorName)
	sink := s.metrics
	s.mu.Unlock()
	if sink != nil {
		sink.RecordFiring(actorName)
	}
}

// Status reports the current queue depth, running-actor count, and
// per-actor firing counts.
func (s *ThreadedScheduler) Status() interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerStatus{
		QueueDepth:    len(s.queue),
		RunningActors: len(s.running),
		FiringCounts:  s.firingCounts,
	}
}
