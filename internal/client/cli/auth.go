package cli

import (
	"context"
	"os"

	"github.com/timfmjones/dreamjournal/internal/client/auth"
)

// getToken is an indirection used to facilitate testing. It points to the
// interactive no-echo prompt and can be swapped in tests.
var getToken = GetToken

// Login prompts for an ID token, derives the session identity from its
// claims, and points the gateway at the new credentials. The remote list is
// reloaded under the new identity; queued guest writes stay queued and replay
// with the new token on the next drain.
func (a *App) Login(ctx context.Context) error {
	raw, err := getToken(os.Stdout)
	if err != nil {
		return err
	}

	bearer, err := auth.NewBearer(raw)
	if err != nil {
		printlnFn("That token could not be parsed:", err.Error())
		return err
	}

	a.tokens = bearer
	a.gateway.SetTokenSource(bearer)

	s := bearer.Session()
	printlnFn("Signed in as", s.Email)

	if err := a.store.Load(ctx, true); err != nil {
		a.log.Warn(ctx, "load after login failed", "error", err)
	}
	return nil
}

// Guest switches to guest mode. Entries live only in the local cache and
// nothing is sent to the server.
func (a *App) Guest(ctx context.Context) error {
	a.tokens = auth.Guest{}
	a.gateway.SetTokenSource(a.tokens)
	printlnFn("Guest mode: entries stay on this device.")

	if err := a.store.Load(ctx, true); err != nil {
		a.log.Warn(ctx, "load in guest mode failed", "error", err)
	}
	return nil
}

// Logout drops the credentials and returns to the signed-out state. The
// local cache is kept; it holds the offline copy of the journal.
func (a *App) Logout(ctx context.Context) error {
	a.tokens = auth.Anonymous{}
	a.gateway.SetTokenSource(a.tokens)
	printlnFn("Signed out.")

	if err := a.store.Load(ctx, true); err != nil {
		a.log.Warn(ctx, "load after logout failed", "error", err)
	}
	return nil
}
