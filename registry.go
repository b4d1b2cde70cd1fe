package feather2d

import (
	"fmt"

	"github.com/akmonengine/feather2d/actor"
)

// BodyHandle identifies a body stored in a Registry.
// The zero value never refers to a body.
type BodyHandle struct {
	index      uint32
	generation uint32
}

// Index of the slot, stable for the life of the body
func (h BodyHandle) Index() int {
	return int(h.index)
}

// IsZero reports whether h is the zero handle
func (h BodyHandle) IsZero() bool {
	return h.generation == 0
}

func (h BodyHandle) String() string {
	return fmt.Sprintf("body#%d.%d", h.index, h.generation)
}

type slot struct {
	body       actor.RigidBody
	generation uint32
	alive      bool
}

// Registry owns every body in one contiguous table.
// Other components keep handles and borrow a *RigidBody only for the duration of a call;
// the pointer is invalidated by the next Insert.
type Registry struct {
	slots []slot
	free  []uint32
	count int
}

func NewRegistry() *Registry {
	return &Registry{
		slots: make([]slot, 0, 64),
	}
}

// Insert stores a copy of body and returns its handle.
// Freed slots are reused with a new generation so old handles stay invalid.
func (r *Registry) Insert(body actor.RigidBody) BodyHandle {
	r.count++

	if n := len(r.free); n > 0 {
		index := r.free[n-1]
		r.free = r.free[:n-1]

		s := &r.slots[index]
		s.body = body
		s.alive = true

		return BodyHandle{index: index, generation: s.generation}
	}

	r.slots = append(r.slots, slot{body: body, generation: 1, alive: true})

	return BodyHandle{index: uint32(len(r.slots) - 1), generation: 1}
}

// Remove deletes the body behind h. It returns false for stale or unknown handles.
func (r *Registry) Remove(h BodyHandle) bool {
	if !r.Contains(h) {
		return false
	}

	s := &r.slots[h.index]
	s.alive = false
	s.body = actor.RigidBody{}
	s.generation++
	r.free = append(r.free, h.index)
	r.count--

	return true
}

// Contains reports whether h refers to a live body
func (r *Registry) Contains(h BodyHandle) bool {
	if h.IsZero() || int(h.index) >= len(r.slots) {
		return false
	}
	s := &r.slots[h.index]

	return s.alive && s.generation == h.generation
}

// Get borrows the body behind h
func (r *Registry) Get(h BodyHandle) (*actor.RigidBody, bool) {
	if !r.Contains(h) {
		return nil, false
	}

	return &r.slots[h.index].body, true
}

// Len returns the number of live bodies
func (r *Registry) Len() int {
	return r.count
}

// Handles returns the live handles in slot order
func (r *Registry) Handles() []BodyHandle {
	handles := make([]BodyHandle, 0, r.count)
	for i := range r.slots {
		if r.slots[i].alive {
			handles = append(handles, BodyHandle{index: uint32(i), generation: r.slots[i].generation})
		}
	}

	return handles
}

// Each calls fn for every live body in slot order
func (r *Registry) Each(fn func(h BodyHandle, body *actor.RigidBody)) {
	for i := range r.slots {
		s := &r.slots[i]
		if s.alive {
			fn(BodyHandle{index: uint32(i), generation: s.generation}, &s.body)
		}
	}
}
