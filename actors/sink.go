package actors

import "github.com/flowgraph/flowgraph"

// Sink is always ready and drains every value that arrives on any of its
// inports without producing output.
type Sink struct {
	*flowgraph.BaseActor
}

// NewSink constructs a Sink actor named name with one inport per entry in
// inNames.
func NewSink(name string, inNames ...string) *Sink {
	s := &Sink{}
	s.BaseActor = flowgraph.NewBaseActor(s, name)
	for _, n := range inNames {
		s.InPorts().Append(n)
	}
	s.SetFiringRule(flowgraph.FiringRule{Kind: flowgraph.AlwaysReady})
	return s
}

// GetRunArgs drains one value from every inport that currently has one,
// discarding them.
func (s *Sink) GetRunArgs() ([]interface{}, map[string]interface{}) {
	for _, port := range s.InPorts().All() {
		if port.Ready() {
			_, _ = port.Pop()
		}
	}
	return nil, nil
}

// Run is a no-op: a Sink never produces output.
func (s *Sink) Run(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
	return flowgraph.Empty(), nil
}
