// Package translate converts between the client's DreamEntry shape and the
// server's wire shape. All field-name drift between the two schemas lives in
// this package, so the rest of the system never sees server-specific keys.
package translate

import (
	"encoding/json"

	"github.com/timfmjones/dreamjournal/internal/client/models"
)

// fieldMapping renames one client field on the wire, with an optional default
// substituted when the wire omits the field (or carries an explicit null).
// New renames are added here and nowhere else.
type fieldMapping struct {
	client string
	wire   string
	def    any // nil means "leave absent"
}

var fieldMap = []fieldMapping{
	{client: "originalDream", wire: "dreamText", def: ""},
	{client: "analysis", wire: "analysisText", def: nil},
	{client: "tone", wire: "storyTone", def: string(models.ToneWhimsical)},
	{client: "length", wire: "storyLength", def: string(models.LengthMedium)},
}

// passthrough lists the keys that travel under the same name in both shapes.
var passthrough = []string{
	"id", "title", "story", "date", "images", "audioUri", "isFavorite",
	"mood", "lucidity", "tags", "createdAt", "updatedAt", "userId", "userEmail",
}

// clientKnown is the set of client-shape keys FromWire maps into struct
// fields. Anything outside it after renaming is an unknown server field and
// is passed through into DreamEntry.Extra so a round trip never loses data.
var clientKnown = map[string]struct{}{}

func init() {
	for _, k := range passthrough {
		clientKnown[k] = struct{}{}
	}
	for _, fm := range fieldMap {
		clientKnown[fm.client] = struct{}{}
	}
	clientKnown["inputMode"] = struct{}{}
}

// ToWire converts an entry to the server's wire shape. Absent optional fields
// are dropped entirely; the wire object never carries null for "no value".
func ToWire(e models.DreamEntry) map[string]any {
	b, err := json.Marshal(e)
	if err != nil {
		// DreamEntry contains only JSON-encodable fields.
		return map[string]any{}
	}
	m := map[string]any{}
	_ = json.Unmarshal(b, &m)

	if e.CreatedAt.IsZero() {
		delete(m, "createdAt")
	}
	if e.UpdatedAt.IsZero() {
		delete(m, "updatedAt")
	}

	for _, fm := range fieldMap {
		if v, ok := m[fm.client]; ok {
			delete(m, fm.client)
			m[fm.wire] = v
		}
	}

	// inputMode is derived on the wire: the server only tracks hasAudio.
	delete(m, "inputMode")
	m["hasAudio"] = e.InputMode == models.InputVoice

	for k, v := range e.Extra {
		if _, taken := m[k]; !taken {
			m[k] = v
		}
	}

	return m
}

// FromWire converts a wire object to a DreamEntry, substituting the
// documented defaults for absent (or null) optional fields. It never fails
// on a well-formed object; unknown extra fields land in Extra unchanged.
func FromWire(w map[string]any) models.DreamEntry {
	m := make(map[string]any, len(w))
	for k, v := range w {
		m[k] = v
	}

	for _, fm := range fieldMap {
		v, ok := m[fm.wire]
		delete(m, fm.wire)
		if !ok || v == nil {
			if fm.def != nil {
				m[fm.client] = fm.def
			}
			continue
		}
		m[fm.client] = v
	}

	hasAudio, _ := m["hasAudio"].(bool)
	delete(m, "hasAudio")
	if hasAudio {
		m["inputMode"] = string(models.InputVoice)
	} else {
		m["inputMode"] = string(models.InputText)
	}

	var extra map[string]any
	for k := range m {
		if _, known := clientKnown[k]; known {
			continue
		}
		if extra == nil {
			extra = map[string]any{}
		}
		extra[k] = m[k]
		delete(m, k)
	}

	var e models.DreamEntry
	if b, err := json.Marshal(m); err == nil {
		// Best effort: a mistyped field leaves its zero value behind
		// rather than failing the whole entry.
		_ = json.Unmarshal(b, &e)
	}
	e.Extra = extra

	if e.Tone == "" {
		e.Tone = models.ToneWhimsical
	}
	if e.Length == "" {
		e.Length = models.LengthMedium
	}
	if e.InputMode == "" {
		e.InputMode = models.InputText
	}

	return e
}
