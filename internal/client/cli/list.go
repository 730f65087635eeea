package cli

import (
	"context"
	"fmt"

	"github.com/timfmjones/dreamjournal/internal/client/models"
)

// formatEntry renders the one-line listing form of an entry: id, favorite
// and pending-sync markers, date, and title.
func formatEntry(e models.DreamEntry) string {
	fav := " "
	if e.IsFavorite {
		fav = "*"
	}
	pending := " "
	if e.Sync == models.SyncLocal {
		pending = "~"
	}
	title := e.Title
	if title == "" {
		title = "(untitled)"
	}
	return fmt.Sprintf("%s%s %s  %s  %s", fav, pending, e.ID, e.Date, title)
}

func printEntries(entries []models.DreamEntry) {
	if len(entries) == 0 {
		printlnFn("No entries.")
		return
	}
	for _, e := range entries {
		printlnFn(formatEntry(e))
	}
}

// List refreshes from the start and prints every loaded entry.
func (a *App) List(ctx context.Context) error {
	if err := a.store.Load(ctx, true); err != nil {
		printlnFn("Refresh failed:", err.Error())
	}
	printEntries(a.store.Entries())
	if a.store.HasMore() {
		printlnFn("(type 'more' for older entries)")
	}
	return nil
}

// More fetches the next page and reprints the list.
func (a *App) More(ctx context.Context) error {
	if !a.store.HasMore() {
		printlnFn("No more entries.")
		return nil
	}
	if err := a.store.Load(ctx, false); err != nil {
		printlnFn("Fetch failed:", err.Error())
	}
	printEntries(a.store.Entries())
	return nil
}

// Recent prints the most recent entries without hitting the network.
func (a *App) Recent(ctx context.Context) error {
	printEntries(a.store.Recent())
	return nil
}

// Favorites prints the favorite entries currently loaded.
func (a *App) Favorites(ctx context.Context) error {
	printEntries(a.store.Favorites())
	return nil
}
