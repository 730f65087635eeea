// Package models defines client-side data models used by the dream journal
// client: the journal entry itself and the queued-write envelope persisted
// while the device is offline.
package models

import "time"

// Tone selects the narrative style used when a story is generated from a dream.
type Tone string

const (
	ToneWhimsical   Tone = "whimsical"
	ToneDark        Tone = "dark"
	ToneMystical    Tone = "mystical"
	ToneAdventurous Tone = "adventurous"
)

// Length selects how long a generated story should be.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// InputMode records how the dream was originally captured.
type InputMode string

const (
	InputText  InputMode = "text"
	InputVoice InputMode = "voice"
)

// SyncState tracks where the authoritative copy of an entry lives.
// Optimistic mutations move an entry back to SyncLocal; a successful
// create/update round-trip while signed in moves it to SyncConfirmed.
type SyncState string

const (
	SyncLocal     SyncState = "local"
	SyncConfirmed SyncState = "confirmed"
)

// GeneratedImage is one AI-generated illustration attached to an entry.
type GeneratedImage struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// DreamEntry is a single journal record.
//
// The zero values of the optional string fields mean "absent"; the Schema
// Translator substitutes documented defaults when reading the wire shape.
type DreamEntry struct {
	// ID is unique within the in-memory collection and the local cache
	// snapshot. It is client-assigned on optimistic create and may be
	// replaced by a server-assigned id once the create round-trip succeeds.
	ID string `json:"id"`

	Title string `json:"title"`

	// OriginalDream is the free-text dream as the user entered it.
	OriginalDream string `json:"originalDream"`

	// Story and Analysis hold generated derived content, when present.
	Story    string `json:"story,omitempty"`
	Analysis string `json:"analysis,omitempty"`

	Tone      Tone      `json:"tone"`
	Length    Length    `json:"length"`
	InputMode InputMode `json:"inputMode"`

	// Date is the ISO-8601 creation date shown to the user.
	Date string `json:"date,omitempty"`

	Images   []GeneratedImage `json:"images,omitempty"`
	AudioURI string           `json:"audioUri,omitempty"`

	IsFavorite bool `json:"isFavorite"`

	Mood     string   `json:"mood,omitempty"`
	Lucidity int      `json:"lucidity,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// CreatedAt/UpdatedAt are set by the Dream Store, never by callers.
	// UpdatedAt is monotonically non-decreasing across mutations.
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	UserID    string `json:"userId,omitempty"`
	UserEmail string `json:"userEmail,omitempty"`

	// Sync is client-side reconciliation state; it never goes on the wire.
	Sync SyncState `json:"-"`

	// Extra carries unknown wire fields through a fromWire/toWire round
	// trip unchanged, so schema drift never silently loses data.
	Extra map[string]any `json:"-"`
}

// DreamPatch is a partial update; nil fields are left untouched.
type DreamPatch struct {
	Title         *string           `json:"title,omitempty"`
	OriginalDream *string           `json:"originalDream,omitempty"`
	Story         *string           `json:"story,omitempty"`
	Analysis      *string           `json:"analysis,omitempty"`
	Tone          *Tone             `json:"tone,omitempty"`
	Length        *Length           `json:"length,omitempty"`
	Images        *[]GeneratedImage `json:"images,omitempty"`
	Mood          *string           `json:"mood,omitempty"`
	Lucidity      *int              `json:"lucidity,omitempty"`
	Tags          *[]string         `json:"tags,omitempty"`
	IsFavorite    *bool             `json:"isFavorite,omitempty"`
}

// Apply merges the patch into e.
func (p DreamPatch) Apply(e *DreamEntry) {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.OriginalDream != nil {
		e.OriginalDream = *p.OriginalDream
	}
	if p.Story != nil {
		e.Story = *p.Story
	}
	if p.Analysis != nil {
		e.Analysis = *p.Analysis
	}
	if p.Tone != nil {
		e.Tone = *p.Tone
	}
	if p.Length != nil {
		e.Length = *p.Length
	}
	if p.Images != nil {
		e.Images = *p.Images
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.Lucidity != nil {
		e.Lucidity = *p.Lucidity
	}
	if p.Tags != nil {
		e.Tags = *p.Tags
	}
	if p.IsFavorite != nil {
		e.IsFavorite = *p.IsFavorite
	}
}
