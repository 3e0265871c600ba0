// Package service holds the console's application services: the login flow,
// the dashboard and settings loaders, and per-screen load tracking.
package service

import "sync"

// Ticket identifies one load started on a View.
type Ticket struct {
	gen uint64
}

// View tracks the data shown by one screen. Every load takes a Ticket; a
// result is applied only if its ticket is still the latest one and the view
// has not been reset or closed since. Loads that lose the race are dropped,
// so out-of-order completions never overwrite newer data.
//
// A failed load keeps the previously applied data.
type View[P, T any] struct {
	mu      sync.Mutex
	gen     uint64
	closed  bool
	params  P
	data    T
	hasData bool
	err     error
}

// NewView returns an open, empty View.
func NewView[P, T any]() *View[P, T] {
	return &View[P, T]{}
}

// Begin records params as the view's current parameters and returns a ticket
// that supersedes all earlier ones.
func (v *View[P, T]) Begin(params P) Ticket {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	if !v.closed {
		v.params = params
	}
	return Ticket{gen: v.gen}
}

// Commit applies data if t is current. It reports whether it did.
func (v *View[P, T]) Commit(t Ticket, data T) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.current(t) {
		return false
	}
	v.data = data
	v.hasData = true
	v.err = nil
	return true
}

// Fail records err if t is current, keeping prior data.
func (v *View[P, T]) Fail(t Ticket, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.current(t) {
		return false
	}
	v.err = err
	return true
}

// Current reports whether t is still the latest ticket.
func (v *View[P, T]) Current(t Ticket) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current(t)
}

func (v *View[P, T]) current(t Ticket) bool {
	return !v.closed && t.gen == v.gen
}

// Params returns the parameters of the latest load.
func (v *View[P, T]) Params() P {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.params
}

// Snapshot returns the applied data, whether any was ever applied, and the
// error of the latest load, if it failed.
func (v *View[P, T]) Snapshot() (T, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.data, v.hasData, v.err
}

// Reset drops all data and parameters and invalidates outstanding tickets.
// The view stays usable.
func (v *View[P, T]) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	var zeroP P
	var zeroT T
	v.gen++
	v.params = zeroP
	v.data = zeroT
	v.hasData = false
	v.err = nil
}

// Close invalidates outstanding tickets permanently.
func (v *View[P, T]) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.gen++
	v.closed = true
}

// LoadResult is the outcome of Load.
type LoadResult[T any] struct {
	// Data is the freshly fetched value on success, otherwise the view's
	// prior data.
	Data T
	// Err is the fetch error, if any.
	Err error
	// Applied is false when a newer load superseded this one.
	Applied bool
}

// Load runs fetch under a new ticket and applies its result if still current.
func Load[P, T any](v *View[P, T], params P, fetch func(P) (T, error)) LoadResult[T] {
	t := v.Begin(params)
	data, err := fetch(params)
	if err != nil {
		applied := v.Fail(t, err)
		prior, _, _ := v.Snapshot()
		return LoadResult[T]{Data: prior, Err: err, Applied: applied}
	}
	applied := v.Commit(t, data)
	return LoadResult[T]{Data: data, Applied: applied}
}

// Resetter is anything that can drop its state on logout.
type Resetter interface {
	Reset()
}

// ViewSet groups views so they can be reset together.
type ViewSet struct {
	mu    sync.Mutex
	views []Resetter
}

// Add registers r.
func (s *ViewSet) Add(r Resetter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.views = append(s.views, r)
}

// ResetAll resets every registered view.
func (s *ViewSet) ResetAll() {
	s.mu.Lock()
	views := append([]Resetter(nil), s.views...)
	s.mu.Unlock()
	for _, v := range views {
		v.Reset()
	}
}
