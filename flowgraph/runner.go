package flowgraph

import (
	"github.com/opentracing/opentracing-go"
	"golang.org/x/xerrors"
)

// Dispatcher is the narrow interface a firing needs to enqueue further
// deliveries. It is passed explicitly to actors and runner helpers rather
// than read off Actor.Scheduler() at every call site, per the design note
// on the self.scheduler back-reference: this keeps the hot path explicit
// and makes the same code path work whether a firing ran locally, in a
// worker goroutine, or as a remote job's result.
type Dispatcher interface {
	// PutValue delivers value to inport and, depending on the
	// scheduler, may run the owning actor before returning.
	PutValue(inport *Port, value interface{})
}

// DispatcherFunc adapts a plain func to a Dispatcher.
type DispatcherFunc func(inport *Port, value interface{})

// PutValue implements Dispatcher.
func (f DispatcherFunc) PutValue(inport *Port, value interface{}) { f(inport, value) }

// Scheduler is the full surface a caller drives a workflow through:
// deliver inputs, run to completion, run a whole workflow from its inputs,
// and produce a fresh scheduler of the same configuration.
type Scheduler interface {
	Dispatcher
	// Execute drains all pending work, returning the first
	// (aggregated, where applicable) error encountered.
	Execute() error
	// RunWorkflow delivers inputs to w's inports and executes.
	RunWorkflow(w *Composite, inputs map[string]interface{}) error
	// Copy returns a fresh scheduler with the same configuration and an
	// empty queue.
	Copy() Scheduler
}

// invokeFunc actually calls an actor's Run, whether locally, in a worker
// goroutine, or as the tail end of a remote job's result delivery.
type invokeFunc func(Actor, []interface{}, map[string]interface{}) (Result, error)

// localInvoke is the default invokeFunc: it calls Run in the caller's own
// goroutine.
func localInvoke(a Actor, args []interface{}, kwargs map[string]interface{}) (Result, error) {
	return a.Run(args, kwargs)
}

// deliverValue is the single place "port.Put(value)" happens on behalf of
// a scheduler. It is Composite-aware: if port belongs to a Composite's
// exposed inport group, the value is forwarded to every internal target
// registered via Composite.ExposeInput instead of being buffered on the
// composite's own port (a composite inport is a pass-through proxy, never
// a real buffer). It reports whether the owning actor is now eligible to
// fire, and whether the delivery was fully handled as a forward (in which
// case the caller must not also treat port's own owner as newly fed).
func deliverValue(self Dispatcher, port *Port, value interface{}) (shouldRun bool, handled bool) {
	if c, ok := port.Owner().(*Composite); ok {
		if targets, ok := c.InputTargets(port.Name()); ok {
			for _, target := range targets {
				self.PutValue(target, value)
			}
			return false, true
		}
	}
	return port.Put(value), false
}

// FiringRecorder is implemented by schedulers that track per-actor firing
// counts for introspection (see package admin). It is optional: fire only
// calls it when self happens to implement it.
type FiringRecorder interface {
	RecordFiring(actorName string)
}

// MetricsSink receives live telemetry derived from real firings and queue
// state: one RecordFiring per completed firing, and current queue-depth /
// active-actor counts as a scheduler's Execute loop progresses. Package
// telemetry's Metrics implements it, without flowgraph importing telemetry
// (schedulers accept a sink via SetMetrics; nil means no telemetry).
type MetricsSink interface {
	RecordFiring(actor string)
	RecordFailure(actor string)
	SetQueueDepth(n int)
	SetActiveActors(n int)
}

// fire binds self as the actor's current scheduler, collects run
// arguments, invokes it via invoke under its own tracing span, and
// propagates the result. It assumes the caller has already verified
// CanRun (a FiringRuleViolation indicates a scheduler bug, not a data
// condition).
func fire(actor Actor, self Scheduler, invoke invokeFunc) error {
	if !actor.CanRun() {
		return xerrors.Errorf("actor %q: %w", actor.Name(), ErrFiringRuleViolation)
	}
	actor.SetScheduler(self)
	args, kwargs := actor.GetRunArgs()

	span := opentracing.GlobalTracer().StartSpan(actor.Name())
	result, err := invoke(actor, args, kwargs)
	if err != nil {
		span.SetTag("error", true)
		span.Finish()
		return xerrors.Errorf("actor %q: %w: %v", actor.Name(), ErrActorFailed, err)
	}
	span.Finish()

	if rec, ok := self.(FiringRecorder); ok {
		rec.RecordFiring(actor.Name())
	}
	return propagate(actor, self, result)
}

// propagate writes a firing's Result onto the actor's outports and drains
// each written outport along its connections.
func propagate(actor Actor, self Dispatcher, result Result) error {
	if result.IsEmpty() {
		return nil
	}
	switch {
	case result.Values() != nil:
		for name, value := range result.Values() {
			if err := emitOne(actor, self, name, value); err != nil {
				return err
			}
		}
	default:
		for _, item := range result.StreamItems() {
			if err := emitOne(actor, self, item.Port, item.Value); err != nil {
				return err
			}
		}
	}
	return nil
}

// emitOne validates name against the actor's declared outports, buffers
// value on it, and propagates it along every connection.
func emitOne(actor Actor, self Dispatcher, name string, value interface{}) error {
	outport, err := actor.OutPorts().MustGet(name)
	if err != nil {
		return xerrors.Errorf("actor %q: %w", actor.Name(), err)
	}
	outport.Put(value)
	return propagateOutport(outport, self)
}

// propagateOutport pops exactly one value from outport and delivers it to
// every connected inport. If outport has no connections, the value stays
// buffered so external callers can read it once Execute returns.
func propagateOutport(outport *Port, self Dispatcher) error {
	if !outport.IsConnected() {
		return nil
	}
	value, err := outport.Pop()
	if err != nil {
		return err
	}
	for _, peer := range outport.Connections() {
		self.PutValue(peer, value)
	}
	return nil
}

// RunWorkflow validates inputs against w's declared inports, delivers each
// one through the owning scheduler (w's own scheduler if it has one, else
// s), and drains the graph. It is the shared implementation behind every
// Scheduler.RunWorkflow.
func RunWorkflow(s Scheduler, w *Composite, inputs map[string]interface{}) error {
	for name := range inputs {
		if _, err := w.InPorts().MustGet(name); err != nil {
			return err
		}
	}
	active := s
	if owned := w.OwnScheduler(); owned != nil {
		active = owned
	}
	for name, value := range inputs {
		port, _ := w.InPorts().Get(name)
		active.PutValue(port, value)
	}
	return active.Execute()
}
