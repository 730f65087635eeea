package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/timfmjones/dreamjournal/internal/client/api"
	"github.com/timfmjones/dreamjournal/internal/client/auth"
	"github.com/timfmjones/dreamjournal/internal/client/cache"
	"github.com/timfmjones/dreamjournal/internal/client/config"
	"github.com/timfmjones/dreamjournal/internal/client/connectivity"
	"github.com/timfmjones/dreamjournal/internal/client/queue"
	"github.com/timfmjones/dreamjournal/internal/client/store"
	"github.com/timfmjones/dreamjournal/internal/filex"
	"github.com/timfmjones/dreamjournal/internal/logging"
	"github.com/timfmjones/dreamjournal/internal/netx"

	_ "modernc.org/sqlite"
)

// App wires the client components behind the REPL commands.
type App struct {
	config  *config.Config
	log     logging.Logger
	reader  *bufio.Reader
	watcher *connectivity.Watcher
	queue   *queue.Queue
	gateway *api.Gateway
	store   *store.Store
	tokens  auth.TokenSource
	db      *sql.DB
}

// NewApp builds a ready-to-run App from the given config.
//
// The local cache opens at cfg.CacheDSN; if the database cannot be opened the
// app falls back to an in-memory cache so the session still works, just
// without persistence. The session starts signed out unless cfg.TokenFile
// names a readable token.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	a := &App{
		config: cfg,
		log:    log,
		reader: bufio.NewReader(os.Stdin),
		tokens: auth.Anonymous{},
	}

	dsn, err := filex.ResolveDataFile("data", cfg.CacheDSN)
	if err != nil {
		dsn = cfg.CacheDSN
	}

	var kv cache.Cache
	sqliteCache, db, err := cache.Open(ctx, dsn)
	if err != nil {
		log.Warn(ctx, "local cache unavailable, entries will not persist", "dsn", dsn, "error", err)
		kv = cache.NewMemory()
	} else {
		kv = sqliteCache
		a.db = db
	}

	if cfg.TokenFile != "" {
		bearer, err := auth.NewBearerFromFile(cfg.TokenFile)
		if err != nil {
			log.Warn(ctx, "could not restore session from token file", "path", cfg.TokenFile, "error", err)
		} else {
			a.tokens = bearer
		}
	}

	pingClient := &http.Client{Timeout: 5 * time.Second}
	ping := func(ctx context.Context) error {
		return netx.CheckEndpoint(ctx, pingClient, cfg.APIBaseURL+"/api/health")
	}
	a.watcher = connectivity.NewWatcher(ping, cfg.OnlineCheckInterval, true, log)

	a.queue = queue.New(kv, log)
	a.queue.Restore(ctx)

	a.gateway = api.New(cfg.APIBaseURL, a.watcher, a.queue, a.tokens, log)

	a.store = store.New(a.gateway, kv, a.session, log,
		store.WithPageSize(cfg.PageSize),
		store.WithNotify(func(msg string) { printlnFn("! " + msg) }),
	)

	return a, nil
}

// session reports the current identity. The store calls this on every
// operation so login and logout take effect without rebuilding anything.
func (a *App) session() auth.Session {
	return a.tokens.Session()
}

func (a *App) isSignedIn() bool {
	return a.session().Mode == auth.SessionSignedIn
}

// status renders the prompt fragment: identity, connectivity, and the number
// of writes waiting for replay.
func (a *App) status() string {
	s := a.session()

	who := s.Mode.String()
	if s.Email != "" {
		who = s.Email
	}

	link := "offline"
	if a.watcher.CurrentState().Online() {
		link = "online"
	}

	if n := a.gateway.QueueLen(); n > 0 {
		return fmt.Sprintf("(%s %s +%d queued) ", who, link, n)
	}
	return fmt.Sprintf("(%s %s) ", who, link)
}

// Run starts the connectivity watcher, performs the initial load, and blocks
// in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	go a.watcher.Run(ctx)

	stopDrain := a.gateway.WatchConnectivity()
	defer stopDrain()

	stopAnnounce := a.watcher.OnChange(func(st connectivity.State) {
		if st.Online() {
			printlnFn("Back online.")
		} else {
			printlnFn("Connection lost, working offline.")
		}
	})
	defer stopAnnounce()

	if err := a.store.Load(ctx, true); err != nil {
		a.log.Warn(ctx, "initial load failed", "error", err)
	}

	printlnFn("Dream journal CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn(ctx, "closing cache", "error", err)
		}
	}
}
