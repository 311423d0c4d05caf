package flowgraph

// NaiveScheduler fires an actor synchronously and recursively, the moment
// a delivery makes it eligible. Execute is a no-op: all work happens
// inside PutValue. Recursion depth tracks dataflow depth, so this
// scheduler is not suitable for long chains — a documented limitation,
// not a bug.
type NaiveScheduler struct {
	errs         []error
	firingCounts map[string]int
	metrics      MetricsSink
}

// NewNaiveScheduler constructs a NaiveScheduler.
func NewNaiveScheduler() *NaiveScheduler {
	return &NaiveScheduler{}
}

// SetMetrics attaches a telemetry sink that future firings report into.
func (s *NaiveScheduler) SetMetrics(m MetricsSink) { s.metrics = m }

// PutValue delivers value to inport and, if that makes the owning actor
// eligible, fires it immediately before returning.
func (s *NaiveScheduler) PutValue(inport *Port, value interface{}) {
	shouldRun, handled := deliverValue(s, inport, value)
	if handled || !shouldRun {
		return
	}
	owner := inport.Owner()
	if err := fire(owner, s, localInvoke); err != nil {
		s.errs = append(s.errs, err)
		if s.metrics != nil {
			s.metrics.RecordFailure(owner.Name())
		}
	}
}

// Execute returns the first error encountered by any firing triggered
// since construction (or since the last Execute call), because every
// firing already happened inside PutValue.
func (s *NaiveScheduler) Execute() error {
	if len(s.errs) == 0 {
		return nil
	}
	err := s.errs[0]
	s.errs = nil
	return err
}

// RunWorkflow delivers inputs and executes.
func (s *NaiveScheduler) RunWorkflow(w *Composite, inputs map[string]interface{}) error {
	return RunWorkflow(s, w, inputs)
}

// Copy returns a fresh NaiveScheduler with an empty error log.
func (s *NaiveScheduler) Copy() Scheduler {
	return NewNaiveScheduler()
}

// RecordFiring implements FiringRecorder, also forwarding to any attached
// telemetry sink. NaiveScheduler fires synchronously inside PutValue, so
// queue depth and active-actor count are always zero by the time a sink
// could observe them.
func (s *NaiveScheduler) RecordFiring(actorName string) {
	s.firingCounts = recordFiring(s.firingCounts, actorName)
	if s.metrics != nil {
		s.metrics.RecordFiring(actorName)
		s.metrics.SetQueueDepth(0)
		s.metrics.SetActiveActors(0)
	}
}

// Status reports per-actor firing counts. NaiveScheduler never queues or
// tracks running actors, so those fields are always zero.
func (s *NaiveScheduler) Status() interface{} {
	return SchedulerStatus{FiringCounts: s.firingCounts}
}
