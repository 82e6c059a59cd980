package observe

import (
	"sync"
)

// Registry binds subscriptions to records and delivers change events.
//
// Delivery is synchronous and sequential, in subscription-registration
// order. The subscriber list is snapshotted at dispatch start, so a
// handler may subscribe, unsubscribe, or mutate records without upsetting
// an in-flight dispatch. A registry serializes its own bookkeeping with a
// mutex, but per-record mutation order is the caller's responsibility
// (single writer at a time per record).
type Registry struct {
	mu       sync.Mutex
	nextID   uint64
	byTarget map[string][]*subscription // record identity -> registration order
}

// subscription is one live (observer, target, property) binding. It holds
// only the target's identity, never the record itself, so it can never
// keep a record alive or outlive it.
type subscription struct {
	id       uint64
	observer string
	target   string
	property string
	fn       Handler
}

// Handle identifies a subscription for later removal. The zero Handle is
// inert; Unsubscribe on it is a no-op.
type Handle struct {
	reg    *Registry
	id     uint64
	target string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byTarget: make(map[string][]*subscription)}
}

// Subscribe registers observer for change events on one property of rec.
// It fails if the property is not in rec's descriptor or if rec has been
// destroyed.
func (g *Registry) Subscribe(observer string, rec *Record, property string, fn Handler) (Handle, error) {
	if rec.Destroyed() {
		return Handle{}, ErrRecordDestroyed
	}
	if !rec.desc.Has(property) {
		return Handle{}, &UnknownPropertyError{TypeName: rec.desc.TypeName(), Property: property}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.nextID++
	sub := &subscription{
		id:       g.nextID,
		observer: observer,
		target:   rec.identity,
		property: property,
		fn:       fn,
	}
	g.byTarget[rec.identity] = append(g.byTarget[rec.identity], sub)
	return Handle{reg: g, id: sub.id, target: rec.identity}, nil
}

// SubscribeAll registers observer for every property of rec, in the
// descriptor's stable declaration order. On failure no subscriptions are
// left behind.
func (g *Registry) SubscribeAll(observer string, rec *Record, fn Handler) ([]Handle, error) {
	props := rec.desc.Properties()
	handles := make([]Handle, 0, len(props))
	for _, p := range props {
		h, err := g.Subscribe(observer, rec, p.Name, fn)
		if err != nil {
			for _, prev := range handles {
				prev.Unsubscribe()
			}
			return nil, err
		}
		handles = append(handles, h)
	}
	return handles, nil
}

// Unsubscribe invalidates the subscription. Invalidation is terminal and
// idempotent; unsubscribing an already-removed handle is a no-op.
func (h Handle) Unsubscribe() {
	if h.reg == nil {
		return
	}
	h.reg.remove(h.target, h.id)
}

func (g *Registry) remove(target string, id uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	subs := g.byTarget[target]
	for i, sub := range subs {
		if sub.id == id {
			g.byTarget[target] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(g.byTarget[target]) == 0 {
		delete(g.byTarget, target)
	}
}

// SubscriptionCount returns the number of live subscriptions for rec.
func (g *Registry) SubscriptionCount(rec *Record) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.byTarget[rec.identity])
}

// notify delivers evt to every live subscription matching the record and
// the event's property, in registration order. Called by the record after
// a mutation commits, on the mutator's call stack.
func (g *Registry) notify(rec *Record, evt Event) {
	g.mu.Lock()
	var matched []*subscription
	for _, sub := range g.byTarget[rec.identity] {
		if sub.property == evt.Property {
			matched = append(matched, sub)
		}
	}
	g.mu.Unlock()

	for _, sub := range matched {
		sub.fn(evt)
	}
}

// dropTarget invalidates every subscription keyed to the record identity.
// Runs as the first step of record destruction, so no notification can
// execute against a destroyed target.
func (g *Registry) dropTarget(identity string) {
	g.mu.Lock()
	delete(g.byTarget, identity)
	g.mu.Unlock()
}
