package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/timfmjones/dreamjournal/internal/logging"
)

// PingFunc probes the API endpoint once, returning an error when unreachable.
type PingFunc func(ctx context.Context) error

// Watcher is a Probe backed by a periodic reachability ping. Run must be
// started by the caller (typically in its own goroutine); until the first
// ping completes the watcher reports the initial state it was given.
type Watcher struct {
	ping     PingFunc
	interval time.Duration
	log      logging.Logger

	mu    sync.Mutex
	state State
	subs  map[int]func(State)
	next  int
}

func NewWatcher(ping PingFunc, interval time.Duration, initial bool, log logging.Logger) *Watcher {
	return &Watcher{
		ping:     ping,
		interval: interval,
		log:      log,
		state:    State{Connected: initial, InternetReachable: initial},
		subs:     make(map[int]func(State)),
	}
}

func (w *Watcher) CurrentState() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Watcher) OnChange(fn func(State)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.next
	w.next++
	w.subs[id] = fn
	return func() {
		w.mu.Lock()
		defer w.mu.Unlock()
		delete(w.subs, id)
	}
}

// Run probes every interval until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := w.ping(pingCtx)
			cancel()
			w.set(err == nil)

		case <-ctx.Done():
			return
		}
	}
}

func (w *Watcher) set(online bool) {
	w.mu.Lock()
	prev := w.state
	w.state = State{Connected: online, InternetReachable: online}
	cur := w.state
	var fns []func(State)
	for _, fn := range w.subs {
		fns = append(fns, fn)
	}
	w.mu.Unlock()

	if prev == cur {
		return
	}
	if online {
		w.log.Info(context.Background(), "network restored")
	} else {
		w.log.Warn(context.Background(), "network lost")
	}
	for _, fn := range fns {
		fn(cur)
	}
}
