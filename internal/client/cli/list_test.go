package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/timfmjones/dreamjournal/internal/client/models"
)

func TestFormatEntry(t *testing.T) {
	tests := []struct {
		name  string
		entry models.DreamEntry
		want  string
	}{
		{
			name: "plain confirmed entry",
			entry: models.DreamEntry{
				ID:    "d-1",
				Title: "Flying",
				Date:  "2026-08-29",
				Sync:  models.SyncConfirmed,
			},
			want: "   d-1  2026-08-29  Flying",
		},
		{
			name: "favorite with pending sync",
			entry: models.DreamEntry{
				ID:         "d-2",
				Title:      "Falling",
				Date:       "2026-08-28",
				IsFavorite: true,
				Sync:       models.SyncLocal,
			},
			want: "*~ d-2  2026-08-28  Falling",
		},
		{
			name: "missing title gets placeholder",
			entry: models.DreamEntry{
				ID:   "d-3",
				Date: "2026-08-27",
				Sync: models.SyncConfirmed,
			},
			want: "   d-3  2026-08-27  (untitled)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, formatEntry(tt.entry))
		})
	}
}

func TestShow_PrintsDate(t *testing.T) {
	a := newGuestApp(t)
	out := captureOutput(t)
	ctx := context.Background()

	created, err := a.store.Create(ctx, models.DreamEntry{
		Title:         "Ocean",
		OriginalDream: "waves",
		Date:          "2026-08-20",
	})
	require.NoError(t, err)

	require.NoError(t, a.Show(ctx, created.ID))
	require.True(t, contains(*out, "date: 2026-08-20"))
}
