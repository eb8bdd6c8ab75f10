// Package wellness constructs the request body for the downstream
// recommendation service and fetches its response. The response's domain
// meaning is not interpreted here; it passes through as opaque JSON.
package wellness

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avmiller/listen-lens/internal/analysis"
	"github.com/avmiller/listen-lens/internal/mood"
)

const (
	requestTimeout  = 15 * time.Second
	maxRecentTracks = 20
)

// RequestTrack is the minimal track shape the downstream service accepts.
type RequestTrack struct {
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// Request is the JSON body sent to the recommendation service.
type Request struct {
	MoodByDay    []mood.DailyMoodData `json:"mood_by_day"`
	Personality  string               `json:"personality"`
	TopGenres    []string             `json:"top_genres"`
	TopArtists   []string             `json:"top_artists"`
	RecentTracks []RequestTrack       `json:"recent_tracks"`
}

// BuildRequest assembles the request body from computed analytics data.
func BuildRequest(days []mood.DailyMoodData, personality analysis.Personality, topGenres, topArtists []string, recent []analysis.Track) Request {
	if len(recent) > maxRecentTracks {
		recent = recent[:maxRecentTracks]
	}
	tracks := make([]RequestTrack, 0, len(recent))
	for _, t := range recent {
		tracks = append(tracks, RequestTrack{Name: t.Name, Artist: t.Artist})
	}
	if days == nil {
		days = []mood.DailyMoodData{}
	}
	if topGenres == nil {
		topGenres = []string{}
	}
	if topArtists == nil {
		topArtists = []string{}
	}
	return Request{
		MoodByDay:    days,
		Personality:  personality.Dominant,
		TopGenres:    topGenres,
		TopArtists:   topArtists,
		RecentTracks: tracks,
	}
}

// Client talks to the recommendation service.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// Fetch POSTs the request body and returns the response payload as raw
// JSON. Transport and status errors are wrapped; the caller decides how to
// surface them.
func (c *Client) Fetch(ctx context.Context, req Request) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling recommendation service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recommendation service returned status %d", resp.StatusCode)
	}

	var payload json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return payload, nil
}
