package flowgraph

import (
	"sync"
	"time"

	"github.com/flowgraph/flowgraph/cluster"
	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
	"golang.org/x/xerrors"
)

// MultiClusterConfig configures a round-robin fan-out across several
// cluster.Cluster instances, reusing RemoteScheduler for everything except
// how pickCluster is built.
type MultiClusterConfig struct {
	// Profiles names pre-resolved cluster targets; Dial turns one into a
	// cluster.Cluster. Either Profiles or ProfileDirs must be non-empty.
	Profiles []string
	// ProfileDirs is the directory-based alternative to Profiles.
	ProfileDirs []string
	// Dial connects to the cluster named by a profile or profile
	// directory entry.
	Dial func(selector string) (cluster.Cluster, error)

	MinEngines   int
	Timeout      time.Duration
	PollInterval time.Duration
	Clock        clock.Clock
	Logger       *logrus.Entry
}

// NewMultiClusterScheduler dials and reserves one cluster.Cluster per
// configured profile (or profile directory), then returns a
// RemoteScheduler whose cluster selector round-robins across all of them.
// System actors still run locally, exactly as under the single-cluster
// RemoteScheduler.
func NewMultiClusterScheduler(cfg MultiClusterConfig) (*RemoteScheduler, error) {
	selectors := cfg.Profiles
	if len(selectors) == 0 {
		selectors = cfg.ProfileDirs
	}
	if len(selectors) == 0 {
		return nil, xerrors.Errorf("multi-cluster scheduler: %w: neither profiles nor profile directories given", ErrBadConfiguration)
	}
	if cfg.Dial == nil {
		return nil, xerrors.Errorf("multi-cluster scheduler: %w: no Dial function configured", ErrBadConfiguration)
	}

	rc := RemoteConfig{
		MinEngines:   cfg.MinEngines,
		Timeout:      cfg.Timeout,
		PollInterval: cfg.PollInterval,
		Clock:        cfg.Clock,
		Logger:       cfg.Logger,
	}
	rc.setDefaults()

	clusters := make([]cluster.Cluster, 0, len(selectors))
	for _, selector := range selectors {
		cl, err := cfg.Dial(selector)
		if err != nil {
			return nil, xerrors.Errorf("dial cluster %q: %w", selector, err)
		}
		if err := initCluster(cl, rc.MinEngines, rc.Timeout, rc.Clock); err != nil {
			return nil, xerrors.Errorf("cluster %q: %w", selector, err)
		}
		clusters = append(clusters, cl)
	}

	var mu sync.Mutex
	next := 0
	pick := func() cluster.Cluster {
		mu.Lock()
		defer mu.Unlock()
		cl := clusters[next]
		next = (next + 1) % len(clusters)
		return cl
	}

	return &RemoteScheduler{
		pickCluster:  pick,
		clk:          rc.Clock,
		pollInterval: rc.PollInterval,
		logger:       rc.Logger,
		running:      make(map[Actor]*runningJob),
	}, nil
}
