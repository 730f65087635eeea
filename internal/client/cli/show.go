package cli

import (
	"context"
	"fmt"

	"github.com/timfmjones/dreamjournal/internal/client/models"
	"github.com/timfmjones/dreamjournal/internal/common"
)

// Show prints the full detail of a single entry from the loaded views.
func (a *App) Show(ctx context.Context, id string) error {
	e, ok := a.store.GetByID(id)
	if !ok {
		printlnFn("No entry with id", id)
		return common.ErrNotFound
	}

	printlnFn(formatEntry(*e))
	printlnFn(fmt.Sprintf("  date: %s  tone: %s  length: %s  input: %s",
		e.Date, e.Tone, e.Length, e.InputMode))
	if e.Sync == models.SyncLocal {
		printlnFn("  sync: pending")
	}
	printlnFn("")
	printlnFn(e.OriginalDream)
	if e.Story != "" {
		printlnFn("")
		printlnFn("Story:")
		printlnFn(e.Story)
	}
	if e.Analysis != "" {
		printlnFn("")
		printlnFn("Analysis:")
		printlnFn(e.Analysis)
	}
	for _, img := range e.Images {
		printlnFn("  image:", img.URL)
	}
	return nil
}
