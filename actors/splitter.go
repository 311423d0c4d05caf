package actors

import (
	"fmt"
	"sync"

	"github.com/flowgraph/flowgraph"
)

// Splitter is a system actor: it fans a single inport out across
// multiplicity outports, round-robin, keeping a counter across firings.
// Because that counter is per-instance mutable state, Splitter must run
// in the scheduler's own process even under the Remote scheduler —
// SystemActor reports true.
type Splitter struct {
	*flowgraph.BaseActor

	inportName   string
	multiplicity int

	mu   sync.Mutex
	next int
}

// NewSplitter constructs a Splitter actor named name, reading from
// inportName and cycling across multiplicity outports named
// "<inportName>_1" .. "<inportName>_multiplicity".
func NewSplitter(name, inportName string, multiplicity int) *Splitter {
	s := &Splitter{inportName: inportName, multiplicity: multiplicity, next: 1}
	s.BaseActor = flowgraph.NewBaseActor(s, name)
	s.InPorts().Append(inportName)
	for i := 1; i <= multiplicity; i++ {
		s.OutPorts().Append(fmt.Sprintf("%s_%d", inportName, i))
	}
	s.MarkSystemActor()
	return s
}

// GetRunArgs pops the pending value.
func (s *Splitter) GetRunArgs() ([]interface{}, map[string]interface{}) {
	port, _ := s.InPorts().Get(s.inportName)
	v, err := port.Pop()
	if err != nil {
		panic(err)
	}
	return []interface{}{v}, nil
}

// Run emits the value on the next outport in round-robin order.
func (s *Splitter) Run(args []interface{}, kwargs map[string]interface{}) (flowgraph.Result, error) {
	value := args[0]

	s.mu.Lock()
	i := s.next
	s.next = s.next%s.multiplicity + 1
	s.mu.Unlock()

	outport := fmt.Sprintf("%s_%d", s.inportName, i)
	return flowgraph.Emit(map[string]interface{}{outport: value}), nil
}

// TODO: SequentialMerger and RandomMerger companions to Splitter.
