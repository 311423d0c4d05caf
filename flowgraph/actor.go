package flowgraph

import "sync"

// Actor is a named computation node with declared input and output port
// groups, a firing rule, and a pure Run. Concrete actors embed BaseActor
// and supply GetRunArgs/Run; Composite is the one built-in implementation
// whose body is itself a sub-graph.
type Actor interface {
	// Name returns the actor's name, unique within its enclosing
	// Composite.
	Name() string
	// InPorts returns the actor's input port group.
	InPorts() *PortGroup
	// OutPorts returns the actor's output port group.
	OutPorts() *PortGroup
	// CanRun reports whether the actor's firing rule currently holds.
	CanRun() bool
	// GetRunArgs pops one value per consumed inport and returns the
	// positional and keyword arguments Run should be invoked with. Its
	// only side effect is popping from inports.
	GetRunArgs() ([]interface{}, map[string]interface{})
	// Run is pure: no access to actor state, no port I/O. It returns the
	// outcome of one firing.
	Run(args []interface{}, kwargs map[string]interface{}) (Result, error)
	// SystemActor reports whether this actor must execute in the
	// scheduler's own process because Run depends on local mutable
	// state.
	SystemActor() bool
	// Scheduler returns the Dispatcher currently driving this actor, or
	// nil if none is bound.
	Scheduler() Dispatcher
	// SetScheduler binds the Dispatcher currently driving this actor.
	// Called by the runner before every firing.
	SetScheduler(Dispatcher)
}

// BaseActor implements the bookkeeping every Actor needs: name, port
// groups, firing rule, system-actor flag, and the scheduler back-reference
// an actor can read to enqueue follow-up work itself. Concrete actor types embed *BaseActor and provide GetRunArgs
// and Run.
type BaseActor struct {
	name   string
	in     *PortGroup
	out    *PortGroup
	rule   FiringRule
	system bool

	mu        sync.Mutex
	scheduler Dispatcher
}

// NewBaseActor constructs a BaseActor named name. owner is the concrete
// actor embedding this BaseActor; it is threaded through so ports created
// via InPorts().Append/OutPorts().Append report the right Owner even
// though Go has no virtual dispatch through embedding at construction
// time.
func NewBaseActor(owner Actor, name string) *BaseActor {
	return &BaseActor{
		name: name,
		in:   NewPortGroup(owner, Input),
		out:  NewPortGroup(owner, Output),
		rule: DefaultFiringRule(),
	}
}

// Name returns the actor's name.
func (a *BaseActor) Name() string { return a.name }

// InPorts returns the input port group.
func (a *BaseActor) InPorts() *PortGroup { return a.in }

// OutPorts returns the output port group.
func (a *BaseActor) OutPorts() *PortGroup { return a.out }

// SetFiringRule overrides the default AllPortsReady strategy.
func (a *BaseActor) SetFiringRule(rule FiringRule) { a.rule = rule }

// CanRun evaluates the actor's current firing rule against its inports.
func (a *BaseActor) CanRun() bool { return a.rule.evaluate(a.in) }

// MarkSystemActor flags the actor as one that must run in the scheduler's
// own process.
func (a *BaseActor) MarkSystemActor() { a.system = true }

// SystemActor reports the system-actor flag.
func (a *BaseActor) SystemActor() bool { return a.system }

// Scheduler returns the Dispatcher currently bound to this actor.
func (a *BaseActor) Scheduler() Dispatcher {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scheduler
}

// SetScheduler binds the Dispatcher currently driving this actor.
func (a *BaseActor) SetScheduler(d Dispatcher) {
	a.mu.Lock()
	a.scheduler = d
	a.mu.Unlock()
}
