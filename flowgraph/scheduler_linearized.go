package flowgraph

import "github.com/hashicorp/go-multierror"

// deliveryItem is one pending (inport, value) pair awaiting dispatch.
type deliveryItem struct {
	port  *Port
	value interface{}
}

// LinearizedScheduler drains a single FIFO queue of pending deliveries,
// one at a time, on the caller's own goroutine. It is the semantic
// reference the other schedulers are compared against: deterministic FIFO
// across all deliveries in one Execute call.
type LinearizedScheduler struct {
	queue        []deliveryItem
	errs         *multierror.Error
	firingCounts map[string]int
	metrics      MetricsSink
}

// NewLinearizedScheduler constructs an empty LinearizedScheduler.
func NewLinearizedScheduler() *LinearizedScheduler {
	return &LinearizedScheduler{}
}

// SetMetrics attaches a telemetry sink that future firings report into.
func (s *LinearizedScheduler) SetMetrics(m MetricsSink) { s.metrics = m }

// PutValue appends (inport, value) to the tail of the queue.
func (s *LinearizedScheduler) PutValue(inport *Port, value interface{}) {
	s.queue = append(s.queue, deliveryItem{port: inport, value: value})
	if s.metrics != nil {
		s.metrics.SetQueueDepth(len(s.queue))
	}
}

// Execute drains the queue one item at a time. Because a firing fans its
// outports out through PutValue, running an actor appends further items
// to the tail, so the loop naturally continues until the queue empties.
func (s *LinearizedScheduler) Execute() error {
	for len(s.queue) > 0 {
		item := s.queue[0]
		s.queue = s.queue[1:]
		if s.metrics != nil {
			s.metrics.SetQueueDepth(len(s.queue))
		}

		shouldRun, handled := deliverValue(s, item.port, item.value)
		if handled || !shouldRun {
			continue
		}
		owner := item.port.Owner()
		if s.metrics != nil {
			s.metrics.SetActiveActors(1)
		}
		if err := fire(owner, s, localInvoke); err != nil {
			s.errs = multierror.Append(s.errs, err)
			if s.metrics != nil {
				s.metrics.RecordFailure(owner.Name())
			}
		}
		if s.metrics != nil {
			s.metrics.SetActiveActors(0)
		}
	}
	if s.errs == nil {
		return nil
	}
	err := s.errs.ErrorOrNil()
	s.errs = nil
	return err
}

// RunWorkflow delivers inputs and executes.
func (s *LinearizedScheduler) RunWorkflow(w *Composite, inputs map[string]interface{}) error {
	return RunWorkflow(s, w, inputs)
}

// Copy returns a fresh LinearizedScheduler with an empty queue.
func (s *LinearizedScheduler) Copy() Scheduler {
	return NewLinearizedScheduler()
}

// RecordFiring implements FiringRecorder, also forwarding to any attached
// telemetry sink.
func (s *LinearizedScheduler) RecordFiring(actorName string) {
	s.firingCounts = recordFiring(s.firingCounts, actorName)
	if s.metrics != nil {
		s.metrics.RecordFiring(actorName)
	}
}

// Status reports the current queue depth and per-actor firing counts.
func (s *LinearizedScheduler) Status() interface{} {
	return SchedulerStatus{QueueDepth: len(s.queue), FiringCounts: s.firingCounts}
}
