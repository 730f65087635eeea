package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"

	"github.com/timfmjones/dreamjournal/internal/common"
)

// audioMIME picks a MIME type for a recording by file extension.
func audioMIME(filename string) string {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "wav":
		return "audio/wav"
	case "caf":
		return "audio/x-caf"
	case "m4a":
		return "audio/mp4"
	default:
		return "audio/mpeg"
	}
}

// ProgressFunc reports upload progress as (sent, total) bytes.
type ProgressFunc func(sent, total int64)

// countingReader invokes progress as the transport consumes the body, so
// large audio uploads report completion explicitly instead of fire-and-forget.
type countingReader struct {
	r        io.Reader
	total    int64
	sent     int64
	progress ProgressFunc
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.sent += int64(n)
		if c.progress != nil {
			c.progress(c.sent, c.total)
		}
	}
	return n, err
}

// Transcribe uploads a recording as multipart form data to POST /transcribe
// and returns the transcribed text. It is not queueable: a binary body has
// no replay representation, and the UI offers its own recovery paths
// (switch to text entry, use a placeholder, cancel) on failure.
//
// Failures reaching the server come back as *TranscriptionError so the
// caller can branch on the kind.
func (g *Gateway) Transcribe(ctx context.Context, filename string, audio io.Reader, progress ProgressFunc) (string, error) {
	if !g.probe.CurrentState().Online() {
		return "", common.ErrOffline
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	hdr := textproto.MIMEHeader{}
	hdr.Set("Content-Disposition",
		`form-data; name="audio"; filename="`+filepath.Base(filename)+`"`)
	hdr.Set("Content-Type", audioMIME(filename))
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	body := &countingReader{r: &buf, total: int64(buf.Len()), progress: progress}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/transcribe", body)
	if err != nil {
		return "", err
	}
	// multipart sets its own boundary; no manual JSON content type here
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.ContentLength = body.total
	if err := g.authorize(ctx, req); err != nil {
		return "", err
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return "", common.ErrOffline
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		srvErr := serverError(resp.StatusCode, data)
		return "", classifyTranscription(resp.StatusCode, srvErr.Message)
	}

	var payload struct {
		Text          string `json:"text"`
		Transcription string `json:"transcription"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return "", classifyTranscription(resp.StatusCode, "unreadable transcription response")
	}
	if payload.Text != "" {
		return payload.Text, nil
	}
	if payload.Transcription != "" {
		return payload.Transcription, nil
	}
	return "", classifyTranscription(resp.StatusCode, "no speech detected in audio")
}
