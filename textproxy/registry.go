package textproxy

import (
	"github.com/mlange-42/ark/ecs"
)

// Tracked links an entity to its proxy.
type Tracked struct {
	Proxy *Proxy
}

// Placement is the proxy's position for the current frame.
type Placement struct {
	X, Y    float64
	Visible bool
}

// Registry holds every proxy as an entity so per-frame updates run as a
// single query.
type Registry struct {
	world  *ecs.World
	mapper *ecs.Map2[Tracked, Placement]
	filter *ecs.Filter2[Tracked, Placement]
	count  int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	world := ecs.NewWorld()
	return &Registry{
		world:  world,
		mapper: ecs.NewMap2[Tracked, Placement](world),
		filter: ecs.NewFilter2[Tracked, Placement](world),
	}
}

// Add registers a proxy.
func (r *Registry) Add(p *Proxy) ecs.Entity {
	r.count++
	return r.mapper.NewEntity(&Tracked{Proxy: p}, &Placement{})
}

// Len returns the number of registered proxies.
func (r *Registry) Len() int {
	return r.count
}

// UpdateAll positions every Ready proxy and returns how many were placed.
// Culling against the view is left to the caller.
func (r *Registry) UpdateAll(animatedScroll, surfaceW, surfaceH float64) int {
	visible := 0
	query := r.filter.Query()
	for query.Next() {
		tr, pl := query.Get()
		x, y, ok := tr.Proxy.Update(animatedScroll, surfaceW, surfaceH)
		pl.X, pl.Y, pl.Visible = x, y, ok
		if ok {
			visible++
		}
	}
	return visible
}

// ResizeAll re-captures every proxy after a reflow.
func (r *Registry) ResizeAll(actualScroll float64) {
	query := r.filter.Query()
	for query.Next() {
		tr, _ := query.Get()
		tr.Proxy.Resize(actualScroll)
	}
}

// Each calls fn for every proxy with its last placement.
func (r *Registry) Each(fn func(p *Proxy, pl Placement)) {
	query := r.filter.Query()
	for query.Next() {
		tr, pl := query.Get()
		fn(tr.Proxy, *pl)
	}
}

// Clear removes every proxy.
func (r *Registry) Clear() {
	var entities []ecs.Entity
	query := r.filter.Query()
	for query.Next() {
		entities = append(entities, query.Entity())
	}
	for _, e := range entities {
		r.world.RemoveEntity(e)
	}
	r.count = 0
}
