package flowgraph

import (
	"sync"

	"golang.org/x/xerrors"
)

// PortGroup is an ordered, name-indexed collection of ports belonging to
// one actor. Names are unique within a group; iteration order is
// insertion order.
type PortGroup struct {
	mu        sync.RWMutex
	owner     Actor
	direction Direction
	order     []string
	ports     map[string]*Port
}

// NewPortGroup constructs an empty PortGroup for owner holding ports of the
// given direction.
func NewPortGroup(owner Actor, direction Direction) *PortGroup {
	return &PortGroup{
		owner:     owner,
		direction: direction,
		ports:     make(map[string]*Port),
	}
}

// Append creates and registers a new port named name, owned by the
// group's actor. It returns the new port. Appending a name already present
// replaces neither port nor position; callers should not append the same
// name twice.
func (g *PortGroup) Append(name string) *Port {
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.ports[name]; ok {
		return existing
	}
	p := NewPort(g.owner, name, g.direction)
	g.ports[name] = p
	g.order = append(g.order, name)
	return p
}

// adopt registers an already-constructed port under name without building
// a new one. Used by Composite to alias an internal port as one of its own
// so the same *Port object is shared by both.
func (g *PortGroup) adopt(name string, p *Port) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.ports[name]; !ok {
		g.order = append(g.order, name)
	}
	g.ports[name] = p
}

// Get looks up a port by name.
func (g *PortGroup) Get(name string) (*Port, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.ports[name]
	return p, ok
}

// MustGet looks up a port by name, returning an error wrapping
// ErrUnknownInport or ErrUnknownOutport depending on the group's
// direction.
func (g *PortGroup) MustGet(name string) (*Port, error) {
	p, ok := g.Get(name)
	if ok {
		return p, nil
	}
	if g.direction == Input {
		return nil, xerrors.Errorf("port %q: %w", name, ErrUnknownInport)
	}
	return nil, xerrors.Errorf("port %q: %w", name, ErrUnknownOutport)
}

// At returns the i-th port in insertion order.
func (g *PortGroup) At(i int) *Port {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ports[g.order[i]]
}

// Names returns the port names in insertion order.
func (g *PortGroup) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Len reports the number of ports in the group.
func (g *PortGroup) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.order)
}

// All returns every port in the group, in insertion order.
func (g *PortGroup) All() []*Port {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]*Port, len(g.order))
	for i, name := range g.order {
		out[i] = g.ports[name]
	}
	return out
}

// Ready reports whether every port in the group has at least one buffered
// value. This implements the default AllPortsReady firing rule.
func (g *PortGroup) Ready() bool {
	for _, p := range g.All() {
		if !p.Ready() {
			return false
		}
	}
	return true
}

// AnyReady reports whether at least one port in the group has a buffered
// value.
func (g *PortGroup) AnyReady() bool {
	for _, p := range g.All() {
		if p.Ready() {
			return true
		}
	}
	return false
}
