// Package store is the single source of truth for the in-process collection
// of journal entries. It reconciles three layers: optimistic in-memory state,
// the local cache (the only layer in guest mode, a fallback otherwise), and
// the API gateway (when signed in).
//
// Mutations are optimistic-first: the caller sees the change synchronously,
// persistence follows best-effort. A remote failure never rolls the local
// change back; per-entry SyncState records whether the server has confirmed
// the copy.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/timfmjones/dreamjournal/internal/client/api"
	"github.com/timfmjones/dreamjournal/internal/client/auth"
	"github.com/timfmjones/dreamjournal/internal/client/cache"
	"github.com/timfmjones/dreamjournal/internal/client/models"
	"github.com/timfmjones/dreamjournal/internal/client/translate"
	"github.com/timfmjones/dreamjournal/internal/common"
	"github.com/timfmjones/dreamjournal/internal/logging"
)

// recentCount is how many entries the Recent view holds.
const recentCount = 5

// defaultPageSize is the remote listing page size when none is configured.
const defaultPageSize = 10

// Gateway is the remote surface the store consumes. *api.Gateway satisfies it.
type Gateway interface {
	ListDreams(ctx context.Context, p api.ListParams) api.Result
	CreateDream(ctx context.Context, wire map[string]any) api.Result
	UpdateDream(ctx context.Context, id string, wire map[string]any) api.Result
	DeleteDream(ctx context.Context, id string) api.Result
	ToggleFavorite(ctx context.Context, id string, favorite bool) api.Result
}

// SessionFunc reports the current session identity; it is consulted on every
// operation so a login mid-session switches the storage path immediately.
type SessionFunc func() auth.Session

// NotifyFunc surfaces a user-facing, toast-equivalent message.
type NotifyFunc func(msg string)

// Store holds the journal collection and its derived views.
type Store struct {
	gateway  Gateway
	cache    cache.Cache
	session  SessionFunc
	notify   NotifyFunc
	log      logging.Logger
	pageSize int

	mu        sync.Mutex
	entries   []models.DreamEntry // newest first
	recent    []models.DreamEntry
	favorites []models.DreamEntry
	page      int
	hasMore   bool
	loadGen   uint64
}

type Option func(*Store)

// WithPageSize sets the remote listing page size.
func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithNotify installs the user-notification callback.
func WithNotify(fn NotifyFunc) Option {
	return func(s *Store) { s.notify = fn }
}

func New(g Gateway, c cache.Cache, session SessionFunc, log logging.Logger, opts ...Option) *Store {
	s := &Store{
		gateway:  g,
		cache:    c,
		session:  session,
		notify:   func(string) {},
		log:      log.With("component", "store"),
		pageSize: defaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Views. All return copies; callers cannot mutate store state through them.

func (s *Store) Entries() []models.DreamEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEntries(s.entries)
}

// Recent is the newest five entries.
func (s *Store) Recent() []models.DreamEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEntries(s.recent)
}

// Favorites is the favorite-flagged subset, newest first.
func (s *Store) Favorites() []models.DreamEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyEntries(s.favorites)
}

// HasMore reports whether another remote page exists.
func (s *Store) HasMore() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hasMore
}

// GetByID is a pure lookup against the current collection; it performs no
// I/O. Querying before Load completes returns ok=false rather than failing.
func (s *Store) GetByID(id string) (*models.DreamEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.entries {
		if s.entries[i].ID == id {
			e := s.entries[i]
			return &e, true
		}
	}
	return nil, false
}

// Load populates the collection.
//
// Guest sessions replace the collection wholesale from the local cache (the
// local store is not paginated). Signed-in sessions fetch page 1 (reset) or
// the next page, translate each item, and replace or append; any gateway
// error falls back to the cached snapshot so the UI is never left empty by a
// transient network failure. Appends deduplicate by id, and a generation
// counter discards responses that lost the race to a newer Load.
func (s *Store) Load(ctx context.Context, reset bool) error {
	if s.session().Mode != auth.SessionSignedIn {
		entries, err := s.loadLocal(ctx)
		if err != nil {
			s.log.Warn(ctx, "failed to read local snapshot", "error", err)
			return common.ErrCacheUnavailable
		}
		s.mu.Lock()
		s.entries = entries
		s.page = 1
		s.hasMore = false
		s.refreshViews()
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	page := 1
	if !reset {
		page = s.page + 1
	}
	s.mu.Unlock()

	res := s.gateway.ListDreams(ctx, api.ListParams{Page: page, Limit: s.pageSize})
	if res.Err != nil {
		s.log.Warn(ctx, "listing failed, falling back to cache", "error", res.Err)
		s.notify("couldn't refresh, showing cached data")

		entries, err := s.loadLocal(ctx)
		if err != nil {
			return res.Err
		}
		s.mu.Lock()
		if gen == s.loadGen && (reset || len(s.entries) == 0) {
			s.entries = entries
			s.hasMore = false
			s.refreshViews()
		}
		s.mu.Unlock()
		return nil
	}

	var payload struct {
		Dreams  []map[string]any `json:"dreams"`
		HasMore bool             `json:"hasMore"`
	}
	if err := json.Unmarshal(res.Data, &payload); err != nil {
		return fmt.Errorf("failed to decode listing: %w", err)
	}

	fetched := make([]models.DreamEntry, 0, len(payload.Dreams))
	for _, w := range payload.Dreams {
		e := translate.FromWire(w)
		e.Sync = models.SyncConfirmed
		fetched = append(fetched, e)
	}

	s.mu.Lock()
	if gen != s.loadGen {
		// a newer Load completed first; this response is stale
		s.mu.Unlock()
		return nil
	}
	if reset {
		s.entries = fetched
	} else {
		seen := make(map[string]struct{}, len(s.entries))
		for _, e := range s.entries {
			seen[e.ID] = struct{}{}
		}
		for _, e := range fetched {
			if _, dup := seen[e.ID]; dup {
				continue
			}
			s.entries = append(s.entries, e)
		}
	}
	s.page = page
	s.hasMore = payload.HasMore
	s.refreshViews()
	s.mu.Unlock()

	s.persistLocal(ctx)
	return nil
}

// Create inserts a new entry at the head of the collection before any
// persistence attempt, so the caller sees it synchronously. Missing fields
// get defaults; the id is generated (timestamp plus random suffix) unless
// the caller supplied one.
//
// Signed-in persistence reconciles the server's authoritative copy in place
// on success; on failure the optimistic copy remains the entry of record (the
// gateway has already queued replayable writes). The returned error is
// non-nil only for an outright server rejection.
func (s *Store) Create(ctx context.Context, entry models.DreamEntry) (*models.DreamEntry, error) {
	now := time.Now().UTC()
	if entry.ID == "" {
		entry.ID = newID(now)
	}
	if entry.Tone == "" {
		entry.Tone = models.ToneWhimsical
	}
	if entry.Length == "" {
		entry.Length = models.LengthMedium
	}
	if entry.InputMode == "" {
		entry.InputMode = models.InputText
	}
	if entry.Date == "" {
		entry.Date = now.Format("2006-01-02")
	}
	entry.CreatedAt = now
	entry.UpdatedAt = now
	entry.Sync = models.SyncLocal

	sess := s.session()
	if sess.Mode == auth.SessionSignedIn {
		entry.UserID = sess.UserID
		entry.UserEmail = sess.Email
	}

	s.mu.Lock()
	s.entries = append([]models.DreamEntry{entry}, s.entries...)
	s.refreshViews()
	s.mu.Unlock()

	if sess.Mode != auth.SessionSignedIn {
		s.persistLocal(ctx)
		return &entry, nil
	}

	res := s.gateway.CreateDream(ctx, translate.ToWire(entry))
	if res.Err != nil {
		if res.Offline {
			// queued for replay; the local copy stands
			return &entry, nil
		}
		s.log.Warn(ctx, "create rejected by server", "id", entry.ID, "error", res.Err)
		s.notify("dream saved locally only")
		return &entry, res.Err
	}

	confirmed := s.reconcile(ctx, entry.ID, res.Data)
	if confirmed != nil {
		return confirmed, nil
	}
	return &entry, nil
}

// Update merges the patch locally first, stamping UpdatedAt, then persists
// best-effort. A remote failure leaves the optimistic merge standing.
func (s *Store) Update(ctx context.Context, id string, patch models.DreamPatch) (*models.DreamEntry, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, common.ErrNotFound
	}
	e := &s.entries[idx]
	e.UpdatedAt = touch(e.UpdatedAt)
	patch.Apply(e)
	e.Sync = models.SyncLocal
	merged := *e
	s.refreshViews()
	s.mu.Unlock()

	if s.session().Mode != auth.SessionSignedIn {
		s.persistLocal(ctx)
		return &merged, nil
	}

	res := s.gateway.UpdateDream(ctx, id, translate.ToWire(merged))
	if res.Err != nil {
		// queued (offline/transport/5xx handled by the gateway); the
		// optimistic merge is the entry of record meanwhile
		return &merged, nil
	}

	if confirmed := s.reconcile(ctx, id, res.Data); confirmed != nil {
		return confirmed, nil
	}
	return &merged, nil
}

// Delete removes the entry from all views immediately, then persists the
// removal best-effort. A failed remote delete is not retried: removal is
// idempotent and safe to omit, and replaying a stale delete after the id was
// reused would destroy data.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return common.ErrNotFound
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.refreshViews()
	s.mu.Unlock()

	if s.session().Mode != auth.SessionSignedIn {
		s.persistLocal(ctx)
		return nil
	}

	res := s.gateway.DeleteDream(ctx, id)
	if res.Err != nil && !res.Offline {
		s.log.Warn(ctx, "remote delete failed, local removal stands", "id", id, "error", res.Err)
		s.notify("couldn't delete on server")
	}
	s.persistLocal(ctx)
	return nil
}

// ToggleFavorite flips the favorite flag in place across all views, with the
// same best-effort persistence as Update.
func (s *Store) ToggleFavorite(ctx context.Context, id string) (*models.DreamEntry, error) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, common.ErrNotFound
	}
	e := &s.entries[idx]
	e.IsFavorite = !e.IsFavorite
	e.UpdatedAt = touch(e.UpdatedAt)
	flipped := *e
	s.refreshViews()
	s.mu.Unlock()

	if s.session().Mode != auth.SessionSignedIn {
		s.persistLocal(ctx)
		return &flipped, nil
	}

	res := s.gateway.ToggleFavorite(ctx, id, flipped.IsFavorite)
	if res.Err != nil {
		return &flipped, nil
	}
	if confirmed := s.reconcile(ctx, id, res.Data); confirmed != nil {
		return confirmed, nil
	}
	return &flipped, nil
}

// reconcile splices the server's authoritative copy over the optimistic one,
// matching by the optimistic id (the server may have assigned a new one).
// Returns nil when the response carried no usable entry.
func (s *Store) reconcile(ctx context.Context, optimisticID string, data json.RawMessage) *models.DreamEntry {
	var w map[string]any
	if err := json.Unmarshal(data, &w); err != nil || len(w) == 0 {
		return nil
	}
	// some endpoints wrap the entry as {"dream": {...}}
	if inner, ok := w["dream"].(map[string]any); ok {
		w = inner
	}
	if _, ok := w["id"]; !ok {
		return nil
	}

	confirmed := translate.FromWire(w)
	confirmed.Sync = models.SyncConfirmed

	s.mu.Lock()
	if idx := s.indexOf(optimisticID); idx >= 0 {
		s.entries[idx] = confirmed
		s.refreshViews()
	}
	s.mu.Unlock()

	s.persistLocal(ctx)
	return &confirmed
}

// indexOf must be called with the lock held.
func (s *Store) indexOf(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// refreshViews must be called with the lock held.
func (s *Store) refreshViews() {
	n := recentCount
	if len(s.entries) < n {
		n = len(s.entries)
	}
	s.recent = copyEntries(s.entries[:n])

	s.favorites = s.favorites[:0]
	for _, e := range s.entries {
		if e.IsFavorite {
			s.favorites = append(s.favorites, e)
		}
	}
}

// persistLocal writes the wire-shape snapshot used by guest mode and by the
// signed-in fallback path. Failures degrade to "no local fallback", logged
// but never propagated.
func (s *Store) persistLocal(ctx context.Context) {
	s.mu.Lock()
	wires := make([]map[string]any, 0, len(s.entries))
	for _, e := range s.entries {
		wires = append(wires, translate.ToWire(e))
	}
	s.mu.Unlock()

	data, err := json.Marshal(wires)
	if err != nil {
		s.log.Warn(ctx, "failed to marshal snapshot", "error", err)
		return
	}
	if err := s.cache.Set(ctx, common.CacheKeyDreams, data); err != nil {
		s.log.Warn(ctx, "failed to persist snapshot", "error", err)
	}
}

func (s *Store) loadLocal(ctx context.Context) ([]models.DreamEntry, error) {
	data, err := s.cache.Get(ctx, common.CacheKeyDreams)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	var wires []map[string]any
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, fmt.Errorf("corrupt snapshot: %w", err)
	}

	entries := make([]models.DreamEntry, 0, len(wires))
	for _, w := range wires {
		entries = append(entries, translate.FromWire(w))
	}
	return entries, nil
}

// newID generates a client-assigned id: creation timestamp plus a random
// suffix, unique enough for the in-memory collection and readable in logs.
func newID(now time.Time) string {
	suffix := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s", now.UnixMilli(), suffix)
}

// touch returns the mutation timestamp, clamped so UpdatedAt never decreases
// even under coarse clocks.
func touch(prev time.Time) time.Time {
	now := time.Now().UTC()
	if now.Before(prev) {
		return prev
	}
	return now
}

func copyEntries(src []models.DreamEntry) []models.DreamEntry {
	out := make([]models.DreamEntry, len(src))
	copy(out, src)
	return out
}
