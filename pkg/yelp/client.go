// Package yelp searches businesses through the Yelp Fusion API.
package yelp

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/anonto42/food-roulette/backend/pkg/upstream"
)

// Business is one search hit.
type Business struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Rating   float64  `json:"rating"`
	URL      string   `json:"url"`
	ImageURL string   `json:"image_url"`
	Location Location `json:"location"`
}

// Location carries the display address lines.
type Location struct {
	DisplayAddress []string `json:"display_address"`
}

// Address joins the display address the way it is stored on a like.
func (b Business) Address() string {
	return strings.Join(b.Location.DisplayAddress, ",")
}

// Searcher is what the handlers need from the business search.
type Searcher interface {
	Search(ctx context.Context, location, term string) ([]Business, error)
}

// Client implements Searcher.
type Client struct {
	http *upstream.Client
}

// NewClient wraps an upstream client. The client must already send the
// bearer API key; see AuthHeader.
func NewClient(c *upstream.Client) *Client {
	return &Client{http: c}
}

// AuthHeader builds the Authorization header for an API key.
func AuthHeader(apiKey string) http.Header {
	return http.Header{"Authorization": {"Bearer " + apiKey}}
}

// Search finds businesses near location matching term.
func (c *Client) Search(ctx context.Context, location, term string) ([]Business, error) {
	var resp struct {
		Businesses []Business `json:"businesses"`
	}
	params := url.Values{"location": {location}, "term": {term}}
	if err := c.http.GetJSON(ctx, "businesses/search", params, &resp); err != nil {
		return nil, err
	}
	return resp.Businesses, nil
}
