// Command flowgraph wires a small demo chain workflow end to end under a
// configurable scheduler, printing the result, mirroring the teacher
// repository's urfave/cli-driven main.go entry points.
package main

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/sirupsen/logrus"
	jaeger "github.com/uber/jaeger-client-go"
	jaegercfg "github.com/uber/jaeger-client-go/config"
	"github.com/urfave/cli"

	"github.com/flowgraph/flowgraph"
	"github.com/flowgraph/flowgraph/actors"
	"github.com/flowgraph/flowgraph/admin"
	"github.com/flowgraph/flowgraph/cluster"
	"github.com/flowgraph/flowgraph/telemetry"
)

func main() {
	logger := logrus.New()

	app := cli.NewApp()
	app.Name = "flowgraph"
	app.Usage = "run a demo dataflow workflow under a configurable scheduler"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "scheduler",
			Value:  "linearized",
			Usage:  "naive|linearized|threaded|remote",
			EnvVar: "FLOWGRAPH_SCHEDULER",
		},
		cli.IntFlag{
			Name:   "threads",
			Value:  4,
			Usage:  "worker count for the threaded scheduler",
			EnvVar: "FLOWGRAPH_THREADS",
		},
		cli.IntFlag{
			Name:   "min-engines",
			Value:  1,
			Usage:  "minimum cluster engines for the remote scheduler",
			EnvVar: "FLOWGRAPH_MIN_ENGINES",
		},
		cli.DurationFlag{
			Name:   "cluster-timeout",
			Value:  5 * time.Second,
			Usage:  "init_cluster timeout for the remote scheduler",
			EnvVar: "FLOWGRAPH_CLUSTER_TIMEOUT",
		},
		cli.StringFlag{
			Name:   "metrics-addr",
			Usage:  "address to serve Prometheus metrics on, if set",
			EnvVar: "FLOWGRAPH_METRICS_ADDR",
		},
		cli.StringFlag{
			Name:   "admin-addr",
			Usage:  "address to serve the admin status endpoint on, if set",
			EnvVar: "FLOWGRAPH_ADMIN_ADDR",
		},
		cli.BoolFlag{
			Name:   "trace",
			Usage:  "report firing spans to a Jaeger agent",
			EnvVar: "FLOWGRAPH_TRACE",
		},
	}

	app.Action = func(c *cli.Context) error {
		return run(c, logger)
	}

	if err := app.Run(os.Args); err != nil {
		logger.WithError(err).Fatal("flowgraph: fatal error")
	}
}

func run(c *cli.Context, logger *logrus.Logger) error {
	if c.Bool("trace") {
		closer, err := installTracer(logger)
		if err != nil {
			return err
		}
		defer closer.Close()
	}

	metrics := telemetry.NewMetrics(c.String("scheduler"))
	if addr := c.String("metrics-addr"); addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", telemetry.Handler())
			logger.WithField("addr", addr).Info("serving metrics")
			if err := http.ListenAndServe(addr, mux); err != nil {
				logger.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	chain, err := buildDemoChain()
	if err != nil {
		return err
	}

	scheduler, adminServer, err := buildScheduler(c, chain, metrics)
	if err != nil {
		return err
	}

	if addr := c.String("admin-addr"); addr != "" && adminServer != nil {
		go func() {
			logger.WithField("addr", addr).Info("serving admin status")
			if err := http.ListenAndServe(addr, adminServer.Handler()); err != nil {
				logger.WithError(err).Error("admin server stopped")
			}
		}()
	}

	if err := scheduler.RunWorkflow(chain, map[string]interface{}{"in": 5}); err != nil {
		return err
	}

	out, _ := chain.OutPorts().Get("out")
	value, ok := out.Peek()
	if !ok {
		return fmt.Errorf("flowgraph: chain produced no output")
	}
	fmt.Printf("chain(5) = %v\n", value)
	return nil
}

// buildDemoChain wires three +1 stages into a single chain, matching the
// composite scenario used throughout the test suite.
func buildDemoChain() (*flowgraph.Composite, error) {
	incr := func(stage string) *actors.Func {
		return actors.NewFunc(stage, []string{"x"}, []string{"x"}, func(args []interface{}) ([]interface{}, error) {
			return []interface{}{args[0].(int) + 1}, nil
		})
	}
	return actors.NewChain("demo_chain", incr("stage1"), incr("stage2"), incr("stage3"))
}

func buildScheduler(c *cli.Context, chain *flowgraph.Composite, metrics *telemetry.Metrics) (flowgraph.Scheduler, *admin.Server, error) {
	switch c.String("scheduler") {
	case "naive":
		s := flowgraph.NewNaiveScheduler()
		s.SetMetrics(metrics)
		return s, admin.NewServer(s), nil
	case "linearized":
		s := flowgraph.NewLinearizedScheduler()
		s.SetMetrics(metrics)
		return s, admin.NewServer(s), nil
	case "threaded":
		s := flowgraph.NewThreadedScheduler(c.Int("threads"))
		s.SetMetrics(metrics)
		return s, admin.NewServer(s), nil
	case "remote":
		local := cluster.NewLocal()
		local.AddEngines(c.Int("min-engines"))
		s, err := flowgraph.NewRemoteScheduler(local, flowgraph.RemoteConfig{
			MinEngines: c.Int("min-engines"),
			Timeout:    c.Duration("cluster-timeout"),
		})
		if err != nil {
			return nil, nil, err
		}
		s.SetMetrics(metrics)
		return s, admin.NewServer(s), nil
	default:
		return nil, nil, fmt.Errorf("flowgraph: unknown scheduler %q", c.String("scheduler"))
	}
}

func installTracer(logger *logrus.Logger) (io.Closer, error) {
	cfg := jaegercfg.Configuration{
		ServiceName: "flowgraph",
		Sampler: &jaegercfg.SamplerConfig{
			Type:  jaeger.SamplerTypeConst,
			Param: 1,
		},
		Reporter: &jaegercfg.ReporterConfig{
			LogSpans: true,
		},
	}
	tracer, closer, err := cfg.NewTracer()
	if err != nil {
		return nil, err
	}
	opentracing.SetGlobalTracer(tracer)
	return closer, nil
}
