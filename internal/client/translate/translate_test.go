package translate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/timfmjones/dreamjournal/internal/client/models"
)

func sampleEntry() models.DreamEntry {
	created := time.Date(2025, 11, 2, 8, 30, 0, 0, time.UTC)
	return models.DreamEntry{
		ID:            "d1",
		Title:         "Flying over water",
		OriginalDream: "I was flying over a dark ocean",
		Story:         "Once upon a time...",
		Analysis:      "Themes of freedom",
		Tone:          models.ToneMystical,
		Length:        models.LengthLong,
		InputMode:     models.InputVoice,
		Date:          "2025-11-02",
		Images:        []models.GeneratedImage{{URL: "https://img/1.png", Description: "ocean"}},
		AudioURI:      "file:///recordings/d1.m4a",
		IsFavorite:    true,
		Mood:          "calm",
		Lucidity:      3,
		Tags:          []string{"ocean", "flying"},
		CreatedAt:     created,
		UpdatedAt:     created.Add(time.Minute),
		UserID:        "uid-1",
		UserEmail:     "dreamer@example.com",
	}
}

func TestToWire_RenamesAndDerivesHasAudio(t *testing.T) {
	w := ToWire(sampleEntry())

	require.Equal(t, "I was flying over a dark ocean", w["dreamText"])
	require.Equal(t, "Themes of freedom", w["analysisText"])
	require.Equal(t, "mystical", w["storyTone"])
	require.Equal(t, "long", w["storyLength"])
	require.Equal(t, true, w["hasAudio"])

	// client-only names must not leak onto the wire
	for _, k := range []string{"originalDream", "analysis", "tone", "length", "inputMode"} {
		_, ok := w[k]
		require.False(t, ok, "wire object leaked client key %q", k)
	}
}

func TestToWire_DropsAbsentOptionalsEntirely(t *testing.T) {
	w := ToWire(models.DreamEntry{ID: "d2", Title: "Short"})

	for _, k := range []string{"analysisText", "story", "mood", "lucidity", "tags", "images", "audioUri", "createdAt", "updatedAt"} {
		v, ok := w[k]
		require.False(t, ok, "expected %q absent, got %v", k, v)
	}
	require.Equal(t, false, w["hasAudio"])

	// no nulls, ever
	b, err := json.Marshal(w)
	require.NoError(t, err)
	require.NotContains(t, string(b), "null")
}

func TestFromWire_AppliesDefaults(t *testing.T) {
	e := FromWire(map[string]any{
		"id":        "x",
		"dreamText": "hello",
		"storyTone": nil,
	})

	require.Equal(t, "x", e.ID)
	require.Equal(t, "hello", e.OriginalDream)
	require.Equal(t, models.ToneWhimsical, e.Tone)
	require.Equal(t, models.LengthMedium, e.Length)
	require.Equal(t, models.InputText, e.InputMode)
	require.Empty(t, e.Analysis)
}

func TestFromWire_PreservesUnknownFields(t *testing.T) {
	e := FromWire(map[string]any{
		"id":           "x",
		"dreamText":    "hello",
		"sleepQuality": 0.8,
		"serverRev":    "r42",
	})

	require.Equal(t, map[string]any{"sleepQuality": 0.8, "serverRev": "r42"}, e.Extra)

	w := ToWire(e)
	require.Equal(t, 0.8, w["sleepQuality"])
	require.Equal(t, "r42", w["serverRev"])
}

func TestRoundTrip_PreservesPresentFields(t *testing.T) {
	e := sampleEntry()
	got := FromWire(ToWire(e))

	require.Equal(t, e.ID, got.ID)
	require.Equal(t, e.Title, got.Title)
	require.Equal(t, e.OriginalDream, got.OriginalDream)
	require.Equal(t, e.Story, got.Story)
	require.Equal(t, e.Analysis, got.Analysis)
	require.Equal(t, e.Tone, got.Tone)
	require.Equal(t, e.Length, got.Length)
	require.Equal(t, e.InputMode, got.InputMode)
	require.Equal(t, e.Date, got.Date)
	require.Equal(t, e.Images, got.Images)
	require.Equal(t, e.AudioURI, got.AudioURI)
	require.Equal(t, e.IsFavorite, got.IsFavorite)
	require.Equal(t, e.Mood, got.Mood)
	require.Equal(t, e.Lucidity, got.Lucidity)
	require.Equal(t, e.Tags, got.Tags)
	require.True(t, e.CreatedAt.Equal(got.CreatedAt))
	require.True(t, e.UpdatedAt.Equal(got.UpdatedAt))
	require.Equal(t, e.UserID, got.UserID)
	require.Equal(t, e.UserEmail, got.UserEmail)
}

func TestFromWire_NeverPanicsOnMistypedField(t *testing.T) {
	require.NotPanics(t, func() {
		e := FromWire(map[string]any{
			"id":       "x",
			"lucidity": "very", // wrong type: left at zero
		})
		require.Equal(t, "x", e.ID)
		require.Zero(t, e.Lucidity)
	})
}
