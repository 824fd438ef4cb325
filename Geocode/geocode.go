package Geocode

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// Client resolves coordinates to a display address via a Nominatim-compatible
// reverse geocoding endpoint.
type Client struct {
	BaseURL   string
	UserAgent string
	HTTP      *http.Client
}

func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		BaseURL:   baseURL,
		UserAgent: userAgent,
		HTTP:      &http.Client{Timeout: 5 * time.Second},
	}
}

type reverseResponse struct {
	DisplayName string `json:"display_name"`
}

// Reverse returns a human-readable address for the coordinates. On any failure
// it falls back to a plain coordinate string, a punch must never fail because
// the geocoder is down.
func (c *Client) Reverse(lat, lng float64) string {
	fallback := fmt.Sprintf("Lat: %v, Lng: %v", lat, lng)
	if c == nil {
		return fallback
	}

	reqURL := fmt.Sprintf("%s/reverse?format=json&lat=%s&lon=%s",
		c.BaseURL,
		url.QueryEscape(fmt.Sprintf("%v", lat)),
		url.QueryEscape(fmt.Sprintf("%v", lng)))

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return fallback
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fallback
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fallback
	}

	var result reverseResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fallback
	}
	if result.DisplayName == "" {
		return "Unknown Location"
	}
	return result.DisplayName
}
