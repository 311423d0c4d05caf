package flowgraph

import (
	"sync"

	"golang.org/x/xerrors"
)

// Direction distinguishes a Port's role on its owning Actor.
type Direction int

const (
	// Input ports accept values delivered by a scheduler.
	Input Direction = iota
	// Output ports hold values produced by a firing until propagation
	// drains them to connected peers.
	Output
)

func (d Direction) String() string {
	if d == Input {
		return "input"
	}
	return "output"
}

// Port is a named, buffered endpoint on an Actor. Input ports are filled by
// a scheduler's PutValue; output ports are filled by a firing's Result and
// drained by propagation. A Port's buffer order is the order of delivery.
type Port struct {
	mu          sync.Mutex
	name        string
	owner       Actor
	direction   Direction
	buffer      []interface{}
	connections map[*Port]struct{}
}

// NewPort constructs a Port owned by owner. PortGroup.Append is the usual
// way to create one; this constructor is exported for code that builds
// ports outside of a group.
func NewPort(owner Actor, name string, direction Direction) *Port {
	return &Port{
		name:        name,
		owner:       owner,
		direction:   direction,
		connections: make(map[*Port]struct{}),
	}
}

// Name returns the port's name, unique within its owner's PortGroup.
func (p *Port) Name() string { return p.name }

// Owner returns the actor this port belongs to.
func (p *Port) Owner() Actor { return p.owner }

// Direction reports whether this is an input or output port.
func (p *Port) Direction() Direction { return p.direction }

// Put appends value to the buffer and returns whether, after this
// insertion, the owning actor's firing rule is satisfied. Put never
// invokes the actor itself — the scheduler decides whether and when to
// actually fire it.
func (p *Port) Put(value interface{}) bool {
	p.mu.Lock()
	p.buffer = append(p.buffer, value)
	p.mu.Unlock()

	if p.owner == nil {
		return false
	}
	return p.owner.CanRun()
}

// Pop removes and returns the oldest buffered value. It fails with
// ErrEmptyPort if the buffer is empty.
func (p *Port) Pop() (interface{}, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buffer) == 0 {
		return nil, xerrors.Errorf("port %q: %w", p.name, ErrEmptyPort)
	}
	v := p.buffer[0]
	p.buffer = p.buffer[1:]
	return v, nil
}

// Peek returns the oldest buffered value without removing it, and whether
// one was present.
func (p *Port) Peek() (interface{}, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buffer) == 0 {
		return nil, false
	}
	return p.buffer[0], true
}

// Len reports the number of values currently buffered.
func (p *Port) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.buffer)
}

// Ready reports whether the port has at least one buffered value.
func (p *Port) Ready() bool { return p.Len() > 0 }

// Connect wires p to peer, a port of the opposite direction. The
// connection is symmetric: both ports record each other as a peer, and
// either may later be asked IsConnected or Connections.
func (p *Port) Connect(peer *Port) error {
	if p.direction == peer.direction {
		return xerrors.Errorf("connect %q -> %q: %w", p.name, peer.name, ErrIncompatibleDirection)
	}
	p.mu.Lock()
	p.connections[peer] = struct{}{}
	p.mu.Unlock()

	peer.mu.Lock()
	peer.connections[p] = struct{}{}
	peer.mu.Unlock()
	return nil
}

// IsConnected reports whether p has any peer connections.
func (p *Port) IsConnected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.connections) > 0
}

// Connections returns the set of ports currently connected to p, in no
// particular order.
func (p *Port) Connections() []*Port {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]*Port, 0, len(p.connections))
	for peer := range p.connections {
		out = append(out, peer)
	}
	return out
}
