package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"songscan/internal/catalog"
	"songscan/internal/services"
)

const defaultAnalyzeTimeout = 2 * time.Minute

// RemoteConfig captures the runtime settings for the analyzer service.
type RemoteConfig struct {
	Endpoint       string
	TimeoutSeconds int
}

// Remote calls the song-matching analyzer service over HTTP.
type Remote struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
}

// RemoteOption customizes the client.
type RemoteOption func(*Remote)

// WithHTTPClient overrides the default HTTP client (used in tests).
func WithHTTPClient(client *http.Client) RemoteOption {
	return func(r *Remote) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// WithTimeout overrides the request timeout with sub-second precision (used in
// tests; production configuration is second-granular).
func WithTimeout(timeout time.Duration) RemoteOption {
	return func(r *Remote) {
		if timeout > 0 {
			r.timeout = timeout
		}
	}
}

// NewRemote constructs a remote analyzer client.
func NewRemote(cfg RemoteConfig, opts ...RemoteOption) *Remote {
	timeout := defaultAnalyzeTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	remote := &Remote{
		endpoint:   strings.TrimRight(strings.TrimSpace(cfg.Endpoint), "/"),
		timeout:    timeout,
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(remote)
	}
	return remote
}

type analyzeRequest struct {
	MediaPath string      `json:"mediaPath"`
	Catalog   []songEntry `json:"catalog"`
}

type songEntry struct {
	ID             string            `json:"id"`
	Title          string            `json:"title"`
	OriginalArtist string            `json:"originalArtist"`
	LyricsText     string            `json:"lyricsText"`
	Language       string            `json:"language,omitempty"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

type analyzeResponse struct {
	Segments []Segment `json:"segments"`
}

// Analyze posts the media reference and catalog to the analyzer service. The
// in-flight request is cancelled when the configured timeout elapses.
func (r *Remote) Analyze(ctx context.Context, mediaPath string, songs []catalog.Song) ([]Segment, error) {
	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	payload := analyzeRequest{MediaPath: mediaPath, Catalog: make([]songEntry, 0, len(songs))}
	for _, song := range songs {
		payload.Catalog = append(payload.Catalog, songEntry{
			ID:             song.ID,
			Title:          song.Title,
			OriginalArtist: song.OriginalArtist,
			LyricsText:     song.LyricsText,
			Language:       song.Language,
			Metadata:       song.Metadata,
		})
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "analyze", "encode request", "", err)
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, r.endpoint+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "analyze", "build request", "", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if errors.Is(callCtx.Err(), context.DeadlineExceeded) {
			return nil, services.Wrap(
				services.ErrAnalysis,
				"analyze",
				"remote",
				fmt.Sprintf("analyze request timed out after %s", r.timeout),
				context.DeadlineExceeded,
			)
		}
		return nil, services.Wrap(services.ErrAnalysis, "analyze", "remote", "analyzer unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := readSnippet(resp.Body)
		message := fmt.Sprintf("analyzer returned status %d", resp.StatusCode)
		if snippet != "" {
			message += ": " + snippet
		}
		return nil, services.Wrap(services.ErrAnalysis, "analyze", "remote", message, nil)
	}

	var decoded analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, services.Wrap(services.ErrAnalysis, "analyze", "decode response", "", err)
	}
	for _, segment := range decoded.Segments {
		if err := segment.Validate(); err != nil {
			return nil, services.Wrap(services.ErrAnalysis, "analyze", "validate response", err.Error(), nil)
		}
	}
	if decoded.Segments == nil {
		return []Segment{}, nil
	}
	return decoded.Segments, nil
}

func readSnippet(r io.Reader) string {
	const limit = 200
	data, err := io.ReadAll(io.LimitReader(r, limit))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
