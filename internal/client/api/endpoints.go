package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// ListParams selects a page of the dream listing.
type ListParams struct {
	Page          int
	Limit         int
	Search        string
	FavoritesOnly bool
}

// ListDreams fetches one page of entries: GET /dreams.
func (g *Gateway) ListDreams(ctx context.Context, p ListParams) Result {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("limit", strconv.Itoa(p.Limit))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.FavoritesOnly {
		q.Set("favoritesOnly", "true")
	}
	return g.Request(ctx, http.MethodGet, "/dreams?"+q.Encode(), nil)
}

// CreateDream posts a new entry in wire shape.
func (g *Gateway) CreateDream(ctx context.Context, wire map[string]any) Result {
	return g.Request(ctx, http.MethodPost, "/dreams", wire)
}

// UpdateDream replaces an entry's wire fields.
func (g *Gateway) UpdateDream(ctx context.Context, id string, wire map[string]any) Result {
	return g.Request(ctx, http.MethodPut, "/dreams/"+url.PathEscape(id), wire)
}

// DeleteDream removes an entry.
func (g *Gateway) DeleteDream(ctx context.Context, id string) Result {
	return g.Request(ctx, http.MethodDelete, "/dreams/"+url.PathEscape(id), nil)
}

// ToggleFavorite flips the favorite flag server-side.
func (g *Gateway) ToggleFavorite(ctx context.Context, id string, favorite bool) Result {
	return g.Request(ctx, http.MethodPatch,
		fmt.Sprintf("/dreams/%s/favorite", url.PathEscape(id)),
		map[string]any{"isFavorite": favorite})
}

// Derived-content generation. The payloads are opaque passthroughs: the
// server owns their schema and the client only relays them.

func (g *Gateway) GenerateTitle(ctx context.Context, payload any) Result {
	return g.Request(ctx, http.MethodPost, "/generate-title", payload)
}

func (g *Gateway) GenerateStory(ctx context.Context, payload any) Result {
	return g.Request(ctx, http.MethodPost, "/generate-story", payload)
}

func (g *Gateway) GenerateImages(ctx context.Context, payload any) Result {
	return g.Request(ctx, http.MethodPost, "/generate-images", payload)
}

func (g *Gateway) AnalyzeDream(ctx context.Context, payload any) Result {
	return g.Request(ctx, http.MethodPost, "/analyze-dream", payload)
}

func (g *Gateway) TextToSpeech(ctx context.Context, payload any) Result {
	return g.Request(ctx, http.MethodPost, "/text-to-speech", payload)
}

// Stats fetches aggregate journal statistics: GET /stats.
func (g *Gateway) Stats(ctx context.Context) Result {
	return g.Request(ctx, http.MethodGet, "/stats", nil)
}
