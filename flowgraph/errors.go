package flowgraph

import "golang.org/x/xerrors"

// Sentinel errors for the failure kinds named by the component design.
// Callers compare against these with errors.Is/xerrors.Is.
var (
	// ErrEmptyPort is returned by Port.Pop when the buffer has nothing
	// queued.
	ErrEmptyPort = xerrors.New("flowgraph: pop on empty port")

	// ErrUnknownInport is returned when a workflow input names an inport
	// the workflow never declared.
	ErrUnknownInport = xerrors.New("flowgraph: unknown inport")

	// ErrUnknownOutport is returned when a firing's Result names an
	// outport its actor never declared.
	ErrUnknownOutport = xerrors.New("flowgraph: unknown outport")

	// ErrFiringRuleViolation is returned when a runner is asked to fire
	// an actor whose firing rule does not currently hold.
	ErrFiringRuleViolation = xerrors.New("flowgraph: firing rule violation")

	// ErrActorFailed wraps an error raised from inside Actor.Run.
	ErrActorFailed = xerrors.New("flowgraph: actor failed")

	// ErrClusterUnavailable is returned by a RemoteScheduler when
	// initialization cannot reserve the configured minimum of engines
	// before its timeout elapses.
	ErrClusterUnavailable = xerrors.New("flowgraph: cluster unavailable")

	// ErrBadConfiguration is returned for scheduler construction errors
	// that are not cluster-availability failures (e.g. a multi-cluster
	// scheduler given neither profiles nor profile directories).
	ErrBadConfiguration = xerrors.New("flowgraph: bad configuration")

	// ErrIncompatibleDirection is returned by Port.Connect when both
	// ports share a direction.
	ErrIncompatibleDirection = xerrors.New("flowgraph: incompatible port direction")
)
