package actors

import (
	"golang.org/x/xerrors"

	"github.com/flowgraph/flowgraph"
)

// NewChain wires a sequence of single-in/single-out actors end to end —
// actors[i]'s sole outport connects to actors[i+1]'s sole inport — and
// returns a Composite exposing the first actor's inport as "in" and the
// last actor's outport as "out". Because it is an ordinary Composite, a
// Chain participates in whichever scheduler drives its enclosing
// workflow; it needs no scheduler of its own.
func NewChain(name string, actors ...flowgraph.Actor) (*flowgraph.Composite, error) {
	if len(actors) < 1 {
		return nil, errChainNeedsActors
	}
	c := flowgraph.NewComposite(name)
	for _, a := range actors {
		c.AddActor(a)
	}
	for i := 0; i < len(actors)-1; i++ {
		out := actors[i].OutPorts().At(0)
		in := actors[i+1].InPorts().At(0)
		if err := out.Connect(in); err != nil {
			return nil, err
		}
	}

	first, last := actors[0], actors[len(actors)-1]
	c.ExposeInput("in", first.InPorts().At(0))
	if err := c.ExposeOutput("out", last.OutPorts().At(0)); err != nil {
		return nil, err
	}
	return c, nil
}

var errChainNeedsActors = xerrors.New("actors: chain needs at least one actor")
