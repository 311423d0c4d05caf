package flowgraph_test

import (
	"context"

	"github.com/golang/mock/gomock"
	gc "gopkg.in/check.v1"

	"github.com/flowgraph/flowgraph"
	"github.com/flowgraph/flowgraph/cluster"
	"github.com/flowgraph/flowgraph/cluster/clustermock"
)

type RemoteSchedulerMockSuite struct{}

var _ = gc.Suite(new(RemoteSchedulerMockSuite))

func (s *RemoteSchedulerMockSuite) TestSubmitFailureIsSurfacedFromExecute(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	mockCluster := clustermock.NewMockCluster(ctrl)
	mockCluster.EXPECT().Reserve(gomock.Any(), 1).Return(nil)
	mockCluster.EXPECT().Submit(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, cluster.ErrUnavailable)

	sched, err := flowgraph.NewRemoteScheduler(mockCluster, flowgraph.RemoteConfig{MinEngines: 1})
	c.Assert(err, gc.IsNil)

	actor := newStubActor("remote", []string{"x"}, nil)
	in, _ := actor.InPorts().Get("x")
	sched.PutValue(in, 1)

	c.Assert(sched.Execute(), gc.ErrorMatches, "(?s).*remote.*unavailable.*")
}

func (s *RemoteSchedulerMockSuite) TestReserveIsCalledWithConfiguredMinEngines(c *gc.C) {
	ctrl := gomock.NewController(c)
	defer ctrl.Finish()

	mockCluster := clustermock.NewMockCluster(ctrl)
	mockCluster.EXPECT().Reserve(gomock.Any(), 4).DoAndReturn(
		func(ctx context.Context, minEngines int) error { return nil },
	)

	_, err := flowgraph.NewRemoteScheduler(mockCluster, flowgraph.RemoteConfig{MinEngines: 4})
	c.Assert(err, gc.IsNil)
}
