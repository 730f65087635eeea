// Package connectivity reports network reachability to the API gateway and
// lets it subscribe to state changes, so queued writes can be replayed the
// moment a connection comes back.
package connectivity

import "sync"

// State is a point-in-time reachability snapshot.
type State struct {
	Connected         bool
	InternetReachable bool
}

// Online reports whether the API should be considered reachable.
func (s State) Online() bool {
	return s.Connected && s.InternetReachable
}

// Probe exposes the current reachability and a change subscription.
// The function returned by OnChange unsubscribes the callback.
type Probe interface {
	CurrentState() State
	OnChange(fn func(State)) func()
}

// Static is a Probe whose state is set manually. It backs tests and
// guest-mode sessions where no network probing is wanted.
type Static struct {
	mu    sync.Mutex
	state State
	subs  map[int]func(State)
	next  int
}

// NewStatic returns a Static probe that starts online.
func NewStatic(online bool) *Static {
	return &Static{
		state: State{Connected: online, InternetReachable: online},
		subs:  make(map[int]func(State)),
	}
}

func (s *Static) CurrentState() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetOnline flips the state and notifies subscribers when it changed.
func (s *Static) SetOnline(online bool) {
	s.mu.Lock()
	prev := s.state
	s.state = State{Connected: online, InternetReachable: online}
	cur := s.state
	var fns []func(State)
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if prev == cur {
		return
	}
	for _, fn := range fns {
		fn(cur)
	}
}

func (s *Static) OnChange(fn func(State)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}
