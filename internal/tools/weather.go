// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// DefaultWeatherURL is the OpenWeatherMap current-weather endpoint.
const DefaultWeatherURL = "http://api.openweathermap.org/data/2.5/weather"

// WeatherSignupURL is shown when no API key is configured.
const WeatherSignupURL = "https://openweathermap.org/api"

// WeatherReport is the subset of the OpenWeatherMap answer fiber shows.
type WeatherReport struct {
	Location    string
	Temperature float64
	Description string
	Humidity    float64
	WindSpeed   float64
}

// String renders the report as a sentence.
func (r WeatherReport) String() string {
	return fmt.Sprintf("The current temperature is %s°C with %s. The humidity is %s%% and wind speed is %s m/s.",
		formatNumber(r.Temperature), r.Description, formatNumber(r.Humidity), formatNumber(r.WindSpeed))
}

// Weather queries OpenWeatherMap.
type Weather struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewWeather returns a client for the public endpoint.
func NewWeather(apiKey string, client *http.Client) *Weather {
	if client == nil {
		client = http.DefaultClient
	}
	return &Weather{APIKey: apiKey, BaseURL: DefaultWeatherURL, Client: client}
}

type weatherResponse struct {
	Main struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

// Current returns the current weather for city.
func (w *Weather) Current(ctx context.Context, city string) (WeatherReport, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return WeatherReport{}, ErrNoLocation
	}
	key := strings.TrimSpace(w.APIKey)
	if key == "" || key == "your_api_key_here" {
		return WeatherReport{}, ErrMissingAPIKey
	}

	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", key)
	q.Set("units", "metric")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return WeatherReport{}, fmt.Errorf("weather: failed to create request: %w", err)
	}

	resp, err := w.Client.Do(req)
	if err != nil {
		return WeatherReport{}, fmt.Errorf("weather: request failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return WeatherReport{}, ErrInvalidAPIKey
	default:
		return WeatherReport{}, fmt.Errorf("could not get weather for %s: %w",
			city, &StatusError{Service: "weather", StatusCode: resp.StatusCode})
	}

	var body weatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return WeatherReport{}, fmt.Errorf("weather: failed to decode response: %w", err)
	}
	if len(body.Weather) == 0 {
		return WeatherReport{}, fmt.Errorf("weather: response has no conditions")
	}

	return WeatherReport{
		Location:    city,
		Temperature: body.Main.Temp,
		Description: body.Weather[0].Description,
		Humidity:    body.Main.Humidity,
		WindSpeed:   body.Wind.Speed,
	}, nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
