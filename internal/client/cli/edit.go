package cli

import (
	"context"
	"errors"
	"os"

	"github.com/timfmjones/dreamjournal/internal/client/models"
	"github.com/timfmjones/dreamjournal/internal/common"
)

// Edit prompts for a replacement title and applies it as a patch. An empty
// input leaves the entry unchanged.
func (a *App) Edit(ctx context.Context, id string) error {
	e, ok := a.store.GetByID(id)
	if !ok {
		printlnFn("No entry with id", id)
		return common.ErrNotFound
	}

	printlnFn("Current title:", e.Title)
	title, err := getSimpleText(a.reader, "New title", os.Stdout)
	if err != nil {
		return err
	}
	if title == "" {
		printlnFn("Unchanged.")
		return nil
	}

	updated, err := a.store.Update(ctx, id, models.DreamPatch{Title: &title})
	if err != nil {
		printlnFn("Update failed:", err.Error())
		return err
	}
	printlnFn("Updated", updated.ID)
	return nil
}

// Favorite toggles the favorite flag on an entry.
func (a *App) Favorite(ctx context.Context, id string) error {
	e, err := a.store.ToggleFavorite(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No entry with id", id)
		} else {
			printlnFn("Favorite failed:", err.Error())
		}
		return err
	}
	if e.IsFavorite {
		printlnFn("Marked favorite.")
	} else {
		printlnFn("Unmarked.")
	}
	return nil
}

// Delete removes an entry. The local copy goes away immediately; if the
// server later rejects the delete the entry is gone locally all the same.
func (a *App) Delete(ctx context.Context, id string) error {
	if err := a.store.Delete(ctx, id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			printlnFn("No entry with id", id)
		}
		return err
	}
	printlnFn("Deleted", id)
	return nil
}
