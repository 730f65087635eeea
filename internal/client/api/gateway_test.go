package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timfmjones/dreamjournal/internal/client/auth"
	"github.com/timfmjones/dreamjournal/internal/client/cache"
	"github.com/timfmjones/dreamjournal/internal/client/connectivity"
	"github.com/timfmjones/dreamjournal/internal/client/queue"
	"github.com/timfmjones/dreamjournal/internal/common"
	"github.com/timfmjones/dreamjournal/internal/logging"
)

// staticToken is a fixed-token auth.TokenSource.
type staticToken struct {
	token string
}

func (s staticToken) IDToken(context.Context) (string, error) { return s.token, nil }
func (s staticToken) Session() auth.Session {
	if s.token == "" {
		return auth.Session{Mode: auth.SessionNone}
	}
	return auth.Session{Mode: auth.SessionSignedIn, UserID: "uid-test"}
}

type capturedRequest struct {
	method string
	path   string
	auth   string
	body   []byte
}

func newGateway(t *testing.T, handler http.HandlerFunc, online bool, token string) (*Gateway, *queue.Queue, *httptest.Server, *[]capturedRequest) {
	t.Helper()

	var captured []capturedRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		captured = append(captured, capturedRequest{
			method: r.Method,
			path:   r.URL.RequestURI(),
			auth:   r.Header.Get("Authorization"),
			body:   body,
		})
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	q := queue.New(cache.NewMemory(), logging.Nop{})
	g := New(ts.URL, connectivity.NewStatic(online), q, staticToken{token: token}, logging.Nop{})
	g.SetHTTPClient(ts.Client())
	return g, q, ts, &captured
}

func TestRequest_AttachesBearerToken(t *testing.T) {
	g, _, _, captured := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":true}`))
	}, true, "tok-123")

	res := g.Request(context.Background(), http.MethodGet, "/stats", nil)
	require.NoError(t, res.Err)
	require.JSONEq(t, `{"ok":true}`, string(res.Data))
	require.Equal(t, "Bearer tok-123", (*captured)[0].auth)
}

func TestRequest_NoTokenIsNotAnError(t *testing.T) {
	g, _, _, captured := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dreams":[]}`))
	}, true, "")

	res := g.Request(context.Background(), http.MethodGet, "/dreams", nil)
	require.NoError(t, res.Err)
	require.Empty(t, (*captured)[0].auth)
}

func TestRequest_OfflineWriteIsQueued(t *testing.T) {
	g, q, _, captured := newGateway(t, func(w http.ResponseWriter, r *http.Request) {}, false, "tok")

	res := g.Request(context.Background(), http.MethodPost, "/dreams", map[string]any{"title": "x"})
	require.True(t, res.Offline)
	require.ErrorIs(t, res.Err, common.ErrQueued)
	require.Equal(t, 1, q.Len())
	require.Empty(t, *captured, "offline write must not hit the transport")

	pending := q.Pending()[0]
	require.Equal(t, http.MethodPost, pending.Method)
	require.Equal(t, "/dreams", pending.Endpoint)
	require.JSONEq(t, `{"title":"x"}`, string(pending.Payload))
}

func TestRequest_OfflineReadIsNotQueued(t *testing.T) {
	g, q, _, captured := newGateway(t, func(w http.ResponseWriter, r *http.Request) {}, false, "tok")

	res := g.Request(context.Background(), http.MethodGet, "/dreams", nil)
	require.True(t, res.Offline)
	require.ErrorIs(t, res.Err, common.ErrOffline)
	require.Equal(t, 0, q.Len())
	require.Empty(t, *captured)
}

func TestRequest_ServerErrorShapesMessageAndRequeuesWrites(t *testing.T) {
	g, q, _, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"title too long"}`))
	}, true, "tok")

	res := g.Request(context.Background(), http.MethodPut, "/dreams/1", map[string]any{"title": "x"})
	require.Error(t, res.Err)

	var srvErr *ServerError
	require.ErrorAs(t, res.Err, &srvErr)
	require.Equal(t, http.StatusBadRequest, srvErr.Status)
	require.Equal(t, "title too long", srvErr.Message)

	// a failed write replays later, same as connectivity loss
	require.Equal(t, 1, q.Len())
}

func TestRequest_ServerErrorOnReadDoesNotQueue(t *testing.T) {
	g, q, _, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}, true, "tok")

	res := g.Request(context.Background(), http.MethodGet, "/dreams", nil)
	var srvErr *ServerError
	require.ErrorAs(t, res.Err, &srvErr)
	require.Equal(t, "server error (status 404)", srvErr.Error())
	require.Equal(t, 0, q.Len())
}

func TestRequest_RejectedDeleteIsNotRequeued(t *testing.T) {
	g, q, _, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}, true, "tok")

	res := g.Request(context.Background(), http.MethodDelete, "/dreams/7", nil)
	require.Error(t, res.Err)
	require.Equal(t, 0, q.Len(), "a rejected delete must not replay later")
}

func TestRequest_TransportFailureQueuesWrite(t *testing.T) {
	g, q, ts, _ := newGateway(t, func(w http.ResponseWriter, r *http.Request) {}, true, "tok")
	ts.Close() // connection refused from now on

	res := g.Request(context.Background(), http.MethodDelete, "/dreams/5", nil)
	require.True(t, res.Offline)
	require.ErrorIs(t, res.Err, common.ErrQueued)
	require.Equal(t, 1, q.Len())
}

func TestDrainQueue_ReplaysThroughRawTransport(t *testing.T) {
	g, q, _, captured := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}, false, "tok")

	g.Request(context.Background(), http.MethodPost, "/dreams", map[string]any{"id": "a"})
	g.Request(context.Background(), http.MethodPatch, "/dreams/a/favorite", map[string]any{"isFavorite": true})
	require.Equal(t, 2, q.Len())

	// back online: the drain hits the transport in FIFO order
	replayed, requeued := g.DrainQueue(context.Background())
	require.Equal(t, 2, replayed)
	require.Zero(t, requeued)
	require.Equal(t, 0, q.Len())

	require.Len(t, *captured, 2)
	require.Equal(t, http.MethodPost, (*captured)[0].method)
	require.Equal(t, "/dreams", (*captured)[0].path)
	require.Equal(t, "Bearer tok", (*captured)[0].auth)
	require.Equal(t, http.MethodPatch, (*captured)[1].method)
}

func TestWatchConnectivity_DrainsOnRestore(t *testing.T) {
	probe := connectivity.NewStatic(false)
	q := queue.New(cache.NewMemory(), logging.Nop{})

	done := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
		select {
		case done <- struct{}{}:
		default:
		}
	}))
	t.Cleanup(ts.Close)

	g := New(ts.URL, probe, q, staticToken{token: "tok"}, logging.Nop{})
	g.SetHTTPClient(ts.Client())
	unsub := g.WatchConnectivity()
	defer unsub()

	g.Request(context.Background(), http.MethodPost, "/dreams", map[string]any{"id": "a"})
	require.Equal(t, 1, q.Len())

	probe.SetOnline(true)
	<-done
}

func TestListDreams_BuildsQuery(t *testing.T) {
	g, _, _, captured := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"dreams":[],"hasMore":false}`))
	}, true, "tok")

	res := g.ListDreams(context.Background(), ListParams{Page: 2, Limit: 20, Search: "ocean", FavoritesOnly: true})
	require.NoError(t, res.Err)

	req := (*captured)[0]
	require.Equal(t, http.MethodGet, req.method)
	require.Contains(t, req.path, "/dreams?")
	require.Contains(t, req.path, "page=2")
	require.Contains(t, req.path, "limit=20")
	require.Contains(t, req.path, "search=ocean")
	require.Contains(t, req.path, "favoritesOnly=true")
}

func TestGenerationEndpoints_MethodAndPath(t *testing.T) {
	tests := []struct {
		name string
		call func(g *Gateway, ctx context.Context) Result
		path string
	}{
		{"generate title", func(g *Gateway, ctx context.Context) Result {
			return g.GenerateTitle(ctx, map[string]any{"dreamText": "x"})
		}, "/generate-title"},
		{"generate story", func(g *Gateway, ctx context.Context) Result {
			return g.GenerateStory(ctx, map[string]any{"dreamText": "x"})
		}, "/generate-story"},
		{"generate images", func(g *Gateway, ctx context.Context) Result {
			return g.GenerateImages(ctx, map[string]any{"story": "x"})
		}, "/generate-images"},
		{"analyze dream", func(g *Gateway, ctx context.Context) Result {
			return g.AnalyzeDream(ctx, map[string]any{"dreamText": "x"})
		}, "/analyze-dream"},
		{"text to speech", func(g *Gateway, ctx context.Context) Result {
			return g.TextToSpeech(ctx, map[string]any{"text": "x"})
		}, "/text-to-speech"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, _, captured := newGateway(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(`{"ok":true}`))
			}, true, "tok")

			res := tt.call(g, context.Background())
			require.NoError(t, res.Err)

			req := (*captured)[0]
			require.Equal(t, http.MethodPost, req.method)
			require.Equal(t, tt.path, req.path)
			require.Contains(t, string(req.body), `"x"`)
		})
	}
}

func TestMarshalPayload(t *testing.T) {
	b, err := marshalPayload(nil)
	require.NoError(t, err)
	require.Nil(t, b)

	b, err = marshalPayload(json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(b))

	b, err = marshalPayload(map[string]any{"a": 1})
	require.NoError(t, err)
	require.JSONEq(t, `{"a":1}`, string(b))

	_, err = marshalPayload(func() {})
	require.Error(t, err)
}
