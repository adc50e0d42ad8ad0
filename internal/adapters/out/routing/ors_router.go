// Package routing computes road distance and travel time through the
// OpenRouteService directions API.
package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
)

const (
	DefaultBaseURL = "https://api.openrouteservice.org"
	DefaultProfile = "driving-car"
)

var ErrNoRoute = errors.New("routing provider returned no route")

type ORSRouter struct {
	apiKey  string
	baseURL string
	profile string
	session *http.Client
	backoff time.Duration
}

var _ services.Router = (*ORSRouter)(nil)

type Option func(*ORSRouter)

func WithBaseURL(u string) Option {
	return func(r *ORSRouter) { r.baseURL = strings.TrimRight(u, "/") }
}

func WithProfile(p string) Option {
	return func(r *ORSRouter) { r.profile = p }
}

func WithHTTPClient(c *http.Client) Option {
	return func(r *ORSRouter) { r.session = c }
}

// WithBackoff sets the first retry delay. It doubles on each attempt.
func WithBackoff(d time.Duration) Option {
	return func(r *ORSRouter) { r.backoff = d }
}

func NewORSRouter(apiKey string, opts ...Option) *ORSRouter {
	r := &ORSRouter{
		apiKey:  apiKey,
		baseURL: DefaultBaseURL,
		profile: DefaultProfile,
		session: &http.Client{Timeout: 10 * time.Second},
		backoff: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type directionsRequest struct {
	Coordinates [][2]float64 `json:"coordinates"`
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"` // meters
			Duration float64 `json:"duration"` // seconds
		} `json:"summary"`
	} `json:"routes"`
}

// Route returns the driving route between two points.
func (r *ORSRouter) Route(ctx context.Context, origin, destination kernel.Location) (services.Route, error) {
	body, err := json.Marshal(directionsRequest{
		Coordinates: [][2]float64{
			{origin.Longitude(), origin.Latitude()},
			{destination.Longitude(), destination.Latitude()},
		},
	})
	if err != nil {
		return services.Route{}, fmt.Errorf("marshal directions request: %w", err)
	}

	url := fmt.Sprintf("%s/v2/directions/%s", r.baseURL, r.profile)
	resp, err := r.doWithRetry(ctx, func() (*http.Request, error) {
		return r.newRequest(ctx, http.MethodPost, url, bytes.NewReader(body))
	})
	if err != nil {
		return services.Route{}, fmt.Errorf("ors directions: %w", err)
	}
	defer resp.Body.Close()

	var out directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return services.Route{}, fmt.Errorf("decode directions response: %w", err)
	}
	if len(out.Routes) == 0 {
		return services.Route{}, ErrNoRoute
	}

	summary := out.Routes[0].Summary
	return services.Route{
		DistanceKm: summary.Distance / 1000,
		Duration:   time.Duration(summary.Duration * float64(time.Second)),
	}, nil
}
