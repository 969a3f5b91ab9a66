// Copyright 2025 Promptline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"promptline/core"
	"promptline/weather"
)

const defaultBaseURL = "https://api.openweathermap.org"

var (
	// ErrAPIKeyRequired is returned when a client is built without an API key.
	ErrAPIKeyRequired = errors.New("openweather api key required")

	// ErrCityNotFound is returned when the provider does not know the city.
	ErrCityNotFound = errors.New("city not found")
)

// Client resolves current weather conditions from the OpenWeatherMap API.
// Temperatures are requested in metric units.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

var _ weather.Service = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used in tests.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
// Default has a 60 second overall timeout.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.client = client
		}
	}
}

// WithClientLogger sets a custom logger.
// Default is slog.Default().
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger.With("component", "openweather")
		}
	}
}

// NewClient creates an OpenWeatherMap client.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 60 * time.Second},
		logger:  slog.Default().With("component", "openweather"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// currentResponse is the subset of the provider's current-weather payload the
// service needs.
type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp float32 `json:"temp"`
	} `json:"main"`
}

// ByCity implements weather.Service.
func (c *Client) ByCity(ctx context.Context, city string) (core.Weather, error) {
	if city == "" {
		return core.Weather{}, weather.ErrEmptyCity
	}

	query := url.Values{}
	query.Set("q", city)
	query.Set("units", "metric")
	query.Set("appid", c.apiKey)
	endpoint := fmt.Sprintf("%s/data/2.5/weather?%s", c.baseURL, query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return core.Weather{}, fmt.Errorf("building weather request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return core.Weather{}, fmt.Errorf("fetching weather for %q: %w", city, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return core.Weather{}, fmt.Errorf("%w: %s", ErrCityNotFound, city)
	default:
		return core.Weather{}, fmt.Errorf("weather request for %q: unexpected status %d", city, resp.StatusCode)
	}

	var current currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&current); err != nil {
		return core.Weather{}, fmt.Errorf("decoding weather for %q: %w", city, err)
	}

	c.logger.Debug("weather resolved", "city", current.Name, "temp", current.Main.Temp)
	return core.Weather{City: city, Temperature: current.Main.Temp}, nil
}
