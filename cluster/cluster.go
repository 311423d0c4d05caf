// Package cluster defines the abstract remote-execution collaborator the
// flowgraph Remote and Multi-cluster schedulers depend on, plus one
// in-process reference implementation (Local) for tests and demos.
//
// A real cross-host Cluster (gRPC, a message queue, ...) is explicitly out
// of scope here: the flowgraph core only depends on the Cluster/Job
// interfaces below, never on a concrete transport. See the module's
// DESIGN.md for why this repo does not vendor a gRPC/protobuf stack for
// that purpose.
package cluster

//go:generate mockgen -package clustermock -destination clustermock/cluster_mock.go github.com/flowgraph/flowgraph/cluster Cluster,Job

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/xerrors"
)

// ErrUnavailable is returned by Reserve when the minimum engine count
// cannot be met before ctx is done.
var ErrUnavailable = xerrors.New("cluster: unavailable")

// RunFunc is the work a submitted Job performs. It mirrors an actor's Run
// signature without depending on the flowgraph package, so flowgraph can
// depend on cluster without a cycle; flowgraph type-asserts the returned
// interface{} back to its own Result type.
type RunFunc func(args []interface{}, kwargs map[string]interface{}) (interface{}, error)

// Job is a future-like handle to one submitted unit of work.
type Job interface {
	// ID returns the job's identifier.
	ID() uuid.UUID
	// Ready reports whether Result would return without blocking.
	Ready() bool
	// Result blocks until the job completes and returns its outcome.
	Result() (interface{}, error)
}

// Cluster is the abstract remote-execution collaborator: reserve a
// minimum number of engines, then submit work to them.
type Cluster interface {
	// Reserve blocks until at least minEngines engines are available or
	// ctx is done, whichever comes first.
	Reserve(ctx context.Context, minEngines int) error
	// Submit schedules fn for execution on one of the reserved engines
	// and returns a handle to its eventual result.
	Submit(fn RunFunc, args []interface{}, kwargs map[string]interface{}) (Job, error)
}

// localJob is the immediately-ready job handle RunLocally returns: work
// has already completed by the time the handle exists.
type localJob struct {
	id     uuid.UUID
	value  interface{}
	err    error
}

func (j *localJob) ID() uuid.UUID       { return j.id }
func (j *localJob) Ready() bool         { return true }
func (j *localJob) Result() (interface{}, error) { return j.value, j.err }

// RunLocally executes fn synchronously in the caller's own goroutine and
// wraps the outcome in an immediately-ready Job. This is the reference
// grounding for system actors, which must run in the scheduler's own
// process rather than being submitted to a Cluster.
func RunLocally(fn RunFunc, args []interface{}, kwargs map[string]interface{}) Job {
	value, err := fn(args, kwargs)
	return &localJob{id: uuid.New(), value: value, err: err}
}

// engineJob is the handle returned by Local.Submit: a channel carrying the
// eventual (value, error) pair, produced by one of the pool's goroutines.
type engineJob struct {
	id   uuid.UUID
	done chan struct{}
	value interface{}
	err   error
}

func (j *engineJob) ID() uuid.UUID { return j.id }

func (j *engineJob) Ready() bool {
	select {
	case <-j.done:
		return true
	default:
		return false
	}
}

func (j *engineJob) Result() (interface{}, error) {
	<-j.done
	return j.value, j.err
}

// Local is an in-process pool of goroutine "engines" implementing Cluster.
// It is grounded on dbspgraph's workerPool.ReserveWorkers: Reserve blocks
// until the configured engine count has registered, notified rather than
// polled, and Submit puts work on a buffered channel shared by the pool,
// where whichever idle engine receives it first runs it.
type Local struct {
	mu       sync.Mutex
	engines  int
	changed  chan struct{}
	work     chan func()
	started  bool
}

// NewLocal constructs a Local cluster with no engines registered yet;
// AddEngines brings it up to a usable size.
func NewLocal() *Local {
	return &Local{
		changed: make(chan struct{}, 1),
		work:    make(chan func(), 64),
	}
}

// AddEngines registers n additional engine goroutines, each pulling
// submitted work off the shared channel until the cluster is discarded.
func (l *Local) AddEngines(n int) {
	l.mu.Lock()
	l.engines += n
	select {
	case l.changed <- struct{}{}:
	default:
	}
	l.mu.Unlock()

	for i := 0; i < n; i++ {
		go func() {
			for task := range l.work {
				task()
			}
		}()
	}
}

func (l *Local) engineCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.engines
}

// Reserve blocks until at least minEngines engines have been added, or
// ctx is done.
func (l *Local) Reserve(ctx context.Context, minEngines int) error {
	for l.engineCount() < minEngines {
		select {
		case <-ctx.Done():
			return xerrors.Errorf("reserve %d engines: %w", minEngines, ErrUnavailable)
		case <-l.changed:
		}
	}
	return nil
}

// Submit hands fn to whichever engine goroutine picks it up next and
// returns a handle to its eventual result.
func (l *Local) Submit(fn RunFunc, args []interface{}, kwargs map[string]interface{}) (Job, error) {
	job := &engineJob{id: uuid.New(), done: make(chan struct{})}
	l.work <- func() {
		job.value, job.err = fn(args, kwargs)
		close(job.done)
	}
	return job, nil
}
