// Package api is the single chokepoint for all remote calls. It attaches the
// bearer token, gates on connectivity (handing writes to the request queue
// while offline), shields the transport with a circuit breaker, and maps
// every failure into a uniform Result instead of raising.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/timfmjones/dreamjournal/internal/client/auth"
	"github.com/timfmjones/dreamjournal/internal/client/connectivity"
	"github.com/timfmjones/dreamjournal/internal/client/queue"
	"github.com/timfmjones/dreamjournal/internal/common"
	"github.com/timfmjones/dreamjournal/internal/logging"
)

// Result is the uniform outcome of every gateway call. Exactly one of Data
// or Err is populated on completion; Offline marks calls that were gated or
// failed without reaching the server (queued writes report ErrQueued, which
// is informational).
type Result struct {
	Data    json.RawMessage
	Err     error
	Offline bool
}

// Ok reports whether the call produced usable data.
func (r Result) Ok() bool { return r.Err == nil }

// Gateway is the HTTP client for the dream journal API.
type Gateway struct {
	baseURL string
	http    *http.Client
	probe   connectivity.Probe
	queue   *queue.Queue
	tokens  auth.TokenSource
	breaker *gobreaker.CircuitBreaker
	log     logging.Logger
}

// errUpstream marks 5xx responses inside the breaker so they count as
// failures without losing the response for message extraction.
var errUpstream = errors.New("upstream failure")

type httpResult struct {
	status int
	body   []byte
}

func New(baseURL string, probe connectivity.Probe, q *queue.Queue, tokens auth.TokenSource, log logging.Logger) *Gateway {
	g := &Gateway{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		probe:   probe,
		queue:   q,
		tokens:  tokens,
		log:     log.With("component", "api"),
	}
	g.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "dream-api",
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     20 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.log.Warn(context.Background(), "circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	})
	return g
}

// SetHTTPClient overrides the transport, mainly for tests.
func (g *Gateway) SetHTTPClient(c *http.Client) { g.http = c }

// SetTokenSource swaps the session identity, e.g. after login or logout.
func (g *Gateway) SetTokenSource(ts auth.TokenSource) { g.tokens = ts }

// WatchConnectivity subscribes the queue drain to connectivity restoration.
// Returns the unsubscribe function.
func (g *Gateway) WatchConnectivity() func() {
	return g.probe.OnChange(func(s connectivity.State) {
		if !s.Online() {
			return
		}
		go g.queue.Drain(context.Background(), g)
	})
}

// DrainQueue replays pending writes immediately, e.g. from a manual sync.
func (g *Gateway) DrainQueue(ctx context.Context) (replayed, requeued int) {
	return g.queue.Drain(ctx, g)
}

// QueueLen reports the number of writes awaiting replay.
func (g *Gateway) QueueLen() int { return g.queue.Len() }

// Request performs one API call. While offline, non-GET calls are handed to
// the request queue and return immediately; GETs surface an offline result
// without queuing (stale reads have no replay consumer).
func (g *Gateway) Request(ctx context.Context, method, endpoint string, payload any) Result {
	body, err := marshalPayload(payload)
	if err != nil {
		return Result{Err: fmt.Errorf("failed to encode payload: %w", err)}
	}

	if !g.probe.CurrentState().Online() {
		if method == http.MethodGet {
			return Result{Offline: true, Err: common.ErrOffline}
		}
		g.queue.Enqueue(ctx, method, endpoint, body)
		return Result{Offline: true, Err: common.ErrQueued}
	}

	status, respBody, err := g.send(ctx, method, endpoint, body)
	if err != nil {
		// Transport failure or open breaker: same handling as
		// connectivity loss.
		if method == http.MethodGet {
			return Result{Offline: true, Err: common.ErrOffline}
		}
		g.queue.Enqueue(ctx, method, endpoint, body)
		return Result{Offline: true, Err: common.ErrQueued}
	}

	if status < 200 || status > 299 {
		srvErr := serverError(status, respBody)
		// A transient 500 is treated the same as connectivity loss:
		// the write replays later. Rejected deletes are the exception:
		// removal is idempotent and safe to omit, and replaying a
		// stale delete after the id was reused would destroy data.
		if method != http.MethodGet && method != http.MethodDelete {
			g.queue.Enqueue(ctx, method, endpoint, body)
		}
		return Result{Err: srvErr}
	}

	return Result{Data: respBody}
}

// Do replays one queued request over the raw transport, implementing
// queue.Transport. It deliberately skips connectivity gating and queueing;
// a failed replay is the queue's problem, not a new enqueue.
func (g *Gateway) Do(ctx context.Context, method, endpoint string, payload json.RawMessage) error {
	status, body, err := g.send(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return serverError(status, body)
	}
	return nil
}

// send issues the HTTP call through the circuit breaker and returns the
// status and body. The error return covers transport-level failures only;
// non-2xx statuses come back as data.
func (g *Gateway) send(ctx context.Context, method, endpoint string, body json.RawMessage) (int, []byte, error) {
	res, err := g.breaker.Execute(func() (any, error) {
		var reader io.Reader
		if len(body) > 0 {
			reader = bytes.NewReader(body)
		}

		req, err := http.NewRequestWithContext(ctx, method, g.baseURL+endpoint, reader)
		if err != nil {
			return nil, err
		}
		if len(body) > 0 {
			req.Header.Set("Content-Type", "application/json")
		}
		if err := g.authorize(ctx, req); err != nil {
			return nil, err
		}

		resp, err := g.http.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		hr := httpResult{status: resp.StatusCode, body: data}
		if resp.StatusCode >= http.StatusInternalServerError {
			return hr, errUpstream
		}
		return hr, nil
	})

	if hr, ok := res.(httpResult); ok {
		return hr.status, hr.body, nil
	}
	return 0, nil, err
}

// authorize attaches the bearer token when the session has one. Absence of a
// token is not an error; unauthenticated reads may be legal for some
// endpoints.
func (g *Gateway) authorize(ctx context.Context, req *http.Request) error {
	if g.tokens == nil {
		return nil
	}
	token, err := g.tokens.IDToken(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain token: %w", err)
	}
	if token != "" {
		req.Header.Set(common.AuthHeaderName, "Bearer "+token)
	}
	return nil
}

func marshalPayload(payload any) (json.RawMessage, error) {
	switch p := payload.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return p, nil
	case []byte:
		return p, nil
	default:
		return json.Marshal(p)
	}
}
