package cli

import (
	"context"
	"os"

	"github.com/timfmjones/dreamjournal/internal/client/models"
)

// getSimpleText and getMultiline are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getMultiline = GetMultiline

// parseTone maps free-form user input to a story tone, defaulting to
// whimsical on anything unrecognized or empty.
func parseTone(s string) models.Tone {
	switch s {
	case string(models.ToneDark):
		return models.ToneDark
	case string(models.ToneMystical):
		return models.ToneMystical
	case string(models.ToneAdventurous):
		return models.ToneAdventurous
	default:
		return models.ToneWhimsical
	}
}

func parseLength(s string) models.Length {
	switch s {
	case string(models.LengthShort):
		return models.LengthShort
	case string(models.LengthLong):
		return models.LengthLong
	default:
		return models.LengthMedium
	}
}

// Add prompts for a new journal entry and saves it through the store. The
// entry appears immediately; while signed in the server copy follows, and
// offline the write waits in the replay queue.
func (a *App) Add(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Title (optional)", os.Stdout)
	if err != nil {
		return err
	}

	body, err := getMultiline(a.reader, "Describe the dream", os.Stdout)
	if err != nil {
		return err
	}
	if body == "" {
		printlnFn("Nothing to save.")
		return nil
	}

	tone, err := getSimpleText(a.reader, "Tone [whimsical/dark/mystical/adventurous]", os.Stdout)
	if err != nil {
		return err
	}

	length, err := getSimpleText(a.reader, "Length [short/medium/long]", os.Stdout)
	if err != nil {
		return err
	}

	entry, err := a.store.Create(ctx, models.DreamEntry{
		Title:         title,
		OriginalDream: body,
		Tone:          parseTone(tone),
		Length:        parseLength(length),
		InputMode:     models.InputText,
	})
	if err != nil {
		printlnFn("Save failed:", err.Error())
		return err
	}

	printlnFn("Saved", entry.ID)
	if entry.Sync == models.SyncLocal && a.isSignedIn() {
		printlnFn("(will sync when the server is reachable)")
	}
	return nil
}
