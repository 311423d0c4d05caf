package flowgraph

import (
	"context"
	"sync"
	"time"

	"github.com/flowgraph/flowgraph/cluster"
	"github.com/hashicorp/go-multierror"
	"github.com/juju/clock"
	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// runningJob tracks one submitted firing: its Job handle, the tracing span
// opened when it was submitted, and whether its started/completed lines
// have already been logged, so the reap loop logs each exactly once no
// matter how many passes it takes to become ready.
type runningJob struct {
	job           cluster.Job
	span          opentracing.Span
	startedLogged bool
}

// RemoteConfig configures a RemoteScheduler.
type RemoteConfig struct {
	// MinEngines is the minimum number of cluster engines init must
	// observe before the scheduler is usable.
	MinEngines int
	// Timeout bounds how long init waits to reach MinEngines.
	Timeout time.Duration
	// PollInterval is the sleep between execute passes. Defaults to
	// 100ms per the component design.
	PollInterval time.Duration
	// Clock is the time source used for the poll sleep and the init
	// backoff. Defaults to clock.WallClock.
	Clock clock.Clock
	// Logger receives one started/completed line per remote job.
	// Defaults to logrus.StandardLogger().
	Logger *logrus.Entry
}

func (c *RemoteConfig) setDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = 100 * time.Millisecond
	}
	if c.Clock == nil {
		c.Clock = clock.WallClock
	}
	if c.Logger == nil {
		c.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
}

// RemoteScheduler submits non-system actor firings to a cluster.Cluster
// and runs system actors synchronously in this process. Its execute loop
// drains a FIFO delivery queue, promotes eligible actors to a wait queue,
// submits wait-queue entries, and reaps ready jobs, sleeping between
// passes instead of busy-waiting.
type RemoteScheduler struct {
	pickCluster func() cluster.Cluster
	clk         clock.Clock
	pollInterval time.Duration
	logger      *logrus.Entry

	mu           sync.Mutex
	queue        []deliveryItem
	wait         []Actor
	running      map[Actor]*runningJob
	errs         *multierror.Error
	firingCounts map[string]int
	metrics      MetricsSink
}

// SetMetrics attaches a telemetry sink that future firings and execute
// passes report into.
func (s *RemoteScheduler) SetMetrics(m MetricsSink) {
	s.mu.Lock()
	s.metrics = m
	s.mu.Unlock()
}

// reportQueueStats publishes the current queue depth (items still
// pending plus actors waiting to submit) and active-actor count (jobs
// currently running on the cluster) to the attached sink, if any.
func (s *RemoteScheduler) reportQueueStats() {
	s.mu.Lock()
	sink := s.metrics
	depth := len(s.queue) + len(s.wait)
	active := len(s.running)
	s.mu.Unlock()
	if sink == nil {
		return
	}
	sink.SetQueueDepth(depth)
	sink.SetActiveActors(active)
}

// NewRemoteScheduler reserves cfg.MinEngines engines on cl within
// cfg.Timeout and returns a RemoteScheduler bound to it.
func NewRemoteScheduler(cl cluster.Cluster, cfg RemoteConfig) (*RemoteScheduler, error) {
	cfg.setDefaults()
	if err := initCluster(cl, cfg.MinEngines, cfg.Timeout, cfg.Clock); err != nil {
		return nil, err
	}
	return &RemoteScheduler{
		pickCluster:  func() cluster.Cluster { return cl },
		clk:          cfg.Clock,
		pollInterval: cfg.PollInterval,
		logger:       cfg.Logger,
		running:      make(map[Actor]*runningJob),
	}, nil
}

// initCluster blocks for up to timeout attempting cl.Reserve(minEngines),
// retrying a transient failure after a backoff of 10% of timeout. The
// timeout is always the caller's configured value, never an ambient
// reference, so the retry interval can never silently drift.
func initCluster(cl cluster.Cluster, minEngines int, timeout time.Duration, clk clock.Clock) error {
	if clk == nil {
		clk = clock.WallClock
	}
	deadline := clk.Now().Add(timeout)
	backoff := timeout / 10
	if backoff <= 0 {
		backoff = time.Millisecond
	}
	for {
		ctx, cancel := context.WithDeadline(context.Background(), deadline)
		err := cl.Reserve(ctx, minEngines)
		cancel()
		if err == nil {
			return nil
		}
		if !clk.Now().Before(deadline) {
			return xerrors.Errorf("init cluster: %w", ErrClusterUnavailable)
		}
		<-clk.After(backoff)
		if !clk.Now().Before(deadline) {
			return xerrors.Errorf("init cluster: %w", ErrClusterUnavailable)
		}
	}
}

// PutValue only enqueues (inport, value); the actual Port.Put is deferred
// to drainExecutionQueue, matching the Threaded scheduler's deferred-put
// semantics.
func (s *RemoteScheduler) PutValue(inport *Port, value interface{}) {
	s.mu.Lock()
	s.queue = append(s.queue, deliveryItem{port: inport, value: value})
	s.mu.Unlock()
}

// Execute alternates drainExecutionQueue, drainWaitQueue, and
// reapReadyJobs until the queue, wait list, and running set are all
// empty, sleeping pollInterval between passes.
func (s *RemoteScheduler) Execute() error {
	for {
		s.drainExecutionQueue()
		s.drainWaitQueue()
		if err := s.reapReadyJobs(); err != nil {
			return err
		}
		s.reportQueueStats()

		s.mu.Lock()
		done := len(s.queue) == 0 && len(s.wait) == 0 && len(s.running) == 0
		s.mu.Unlock()
		if done {
			break
		}
		<-s.clk.After(s.pollInterval)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.errs == nil {
		return nil
	}
	err := s.errs.ErrorOrNil()
	s.errs = nil
	return err
}

func (s *RemoteScheduler) drainExecutionQueue() {
	s.mu.Lock()
	items := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, item := range items {
		shouldRun, handled := deliverValue(s, item.port, item.value)
		if handled || !shouldRun {
			continue
		}
		s.mu.Lock()
		s.wait = append(s.wait, item.port.Owner())
		s.mu.Unlock()
	}
}

func (s *RemoteScheduler) drainWaitQueue() {
	s.mu.Lock()
	pending := s.wait
	s.wait = nil
	s.mu.Unlock()

	var stillWaiting []Actor
	for _, actor := range pending {
		s.mu.Lock()
		_, alreadyRunning := s.running[actor]
		s.mu.Unlock()
		if alreadyRunning {
			stillWaiting = append(stillWaiting, actor)
			continue
		}
		s.submit(actor)
	}
	if len(stillWaiting) > 0 {
		s.mu.Lock()
		s.wait = append(s.wait, stillWaiting...)
		s.mu.Unlock()
	}
}

// submit binds actor to this scheduler, collects its run arguments, and
// either runs it synchronously (system actors) or hands it to the current
// cluster (everything else), recording the resulting job.
func (s *RemoteScheduler) submit(actor Actor) {
	actor.SetScheduler(s)
	args, kwargs := actor.GetRunArgs()

	runFn := func(a []interface{}, k map[string]interface{}) (interface{}, error) {
		return actor.Run(a, k)
	}

	var job cluster.Job
	if actor.SystemActor() {
		job = cluster.RunLocally(runFn, args, kwargs)
	} else {
		var err error
		job, err = s.pickCluster().Submit(runFn, args, kwargs)
		if err != nil {
			s.mu.Lock()
			s.errs = multierror.Append(s.errs, xerrors.Errorf("actor %q: %w", actor.Name(), err))
			sink := s.metrics
			s.mu.Unlock()
			if sink != nil {
				sink.RecordFailure(actor.Name())
			}
			return
		}
	}

	s.mu.Lock()
	s.running[actor] = &runningJob{job: job, span: opentracing.GlobalTracer().StartSpan(actor.Name())}
	s.mu.Unlock()
}

// reapReadyJobs iterates the running set, logging "started" and
// "completed" exactly once per job, fetching results from every ready job
// and propagating them exactly as the local runner would. Jobs not yet
// ready are kept for the next pass.
func (s *RemoteScheduler) reapReadyJobs() error {
	s.mu.Lock()
	pending := make(map[Actor]*runningJob, len(s.running))
	for a, rj := range s.running {
		pending[a] = rj
	}
	s.mu.Unlock()

	for actor, rj := range pending {
		if !rj.startedLogged {
			s.logger.WithField("actor", actor.Name()).Info("firing started")
			rj.startedLogged = true
		}
		if !rj.job.Ready() {
			continue
		}

		raw, err := rj.job.Result()
		s.logger.WithField("actor", actor.Name()).Info("firing completed")

		s.mu.Lock()
		delete(s.running, actor)
		s.mu.Unlock()

		if err != nil {
			rj.span.SetTag("error", true)
			rj.span.Finish()
			if s.metrics != nil {
				s.metrics.RecordFailure(actor.Name())
			}
			return xerrors.Errorf("actor %q: %w: %v", actor.Name(), ErrActorFailed, err)
		}
		result, ok := raw.(Result)
		if !ok {
			rj.span.SetTag("error", true)
			rj.span.Finish()
			if s.metrics != nil {
				s.metrics.RecordFailure(actor.Name())
			}
			return xerrors.Errorf("actor %q: %w: unexpected job result type", actor.Name(), ErrActorFailed)
		}
		rj.span.Finish()
		s.RecordFiring(actor.Name())
		if err := propagate(actor, s, result); err != nil {
			return err
		}
	}
	return nil
}

// RunWorkflow delivers inputs and executes.
func (s *RemoteScheduler) RunWorkflow(w *Composite, inputs map[string]interface{}) error {
	return RunWorkflow(s, w, inputs)
}

// Copy returns a fresh RemoteScheduler sharing the same cluster selector,
// clock, poll interval, and logger, with an empty queue. It does not
// re-run init, since the underlying cluster is already reserved.
func (s *RemoteScheduler) Copy() Scheduler {
	return &RemoteScheduler{
		pickCluster:  s.pickCluster,
		clk:          s.clk,
		pollInterval: s.pollInterval,
		logger:       s.logger,
		metrics:      s.metrics,
		running:      make(map[Actor]*runningJob),
	}
}

// RecordFiring implements FiringRecorder, also forwarding to any attached
// telemetry sink.
func (s *RemoteScheduler) RecordFiring(actorName string) {
	s.mu.Lock()
	s.firingCounts = recordFiring(s.firingCounts, actorName)
	sink := s.metrics
	s.mu.Unlock()
	if sink != nil {
		sink.RecordFiring(actorName)
	}
}

// Status reports the current queue depth, running-job count, and
// per-actor firing counts.
func (s *RemoteScheduler) Status() interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SchedulerStatus{
		QueueDepth:    len(s.queue) + len(s.wait),
		RunningActors: len(s.running),
		FiringCounts:  s.firingCounts,
	}
}
