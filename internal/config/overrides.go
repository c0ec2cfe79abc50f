// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"github.com/spf13/viper"
)

// Keys shared by command-line flags and environment variables.
const (
	KeyModel       = "model"
	KeyOllamaURL   = "ollama_url"
	KeyNotesDir    = "default_path"
	KeyWeatherKey  = "weather_api_key"
	KeyPort        = "port"
	KeyVerbose     = "verbose"
	KeyNoColor     = "no_color"
	KeyOpenBrowser = "open_browser"
)

// envBindings maps override keys to the environment variables that set them.
var envBindings = map[string][]string{
	KeyModel:      {"OLLAMA_MODEL"},
	KeyOllamaURL:  {"FIBER_OLLAMA_URL"},
	KeyNotesDir:   {"DEFAULT_PATH"},
	KeyWeatherKey: {"OPENWEATHERMAP_API_KEY"},
	KeyPort:       {"FIBER_PORT"},
	KeyVerbose:    {"FIBER_VERBOSE"},
	KeyNoColor:    {"NO_COLOR", "FIBER_NO_COLOR"},
}

// NewViper returns a viper instance with every environment binding in place.
// Callers bind their flags to the Key* names before ApplyOverrides.
func NewViper() *viper.Viper {
	v := viper.New()
	for key, envs := range envBindings {
		// BindEnv only fails when given no key.
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
	return v
}

// ApplyOverrides copies every key that was explicitly set, through a
// changed flag or a non-empty environment variable, over the file values.
func (c *Config) ApplyOverrides(v *viper.Viper) {
	if v.IsSet(KeyModel) {
		c.Ollama.Model = v.GetString(KeyModel)
	}
	if v.IsSet(KeyOllamaURL) {
		c.Ollama.URL = v.GetString(KeyOllamaURL)
	}
	if v.IsSet(KeyNotesDir) {
		c.Notes.Dir = v.GetString(KeyNotesDir)
	}
	if v.IsSet(KeyWeatherKey) {
		c.Weather.APIKey = v.GetString(KeyWeatherKey)
	}
	if v.IsSet(KeyPort) {
		c.Server.Port = v.GetInt(KeyPort)
	}
	if v.IsSet(KeyVerbose) {
		c.Log.Debug = v.GetBool(KeyVerbose)
	}
	if v.IsSet(KeyNoColor) {
		// NO_COLOR disables color whatever its value.
		c.UI.NoColor = v.GetString(KeyNoColor) != "false"
	}
	if v.IsSet(KeyOpenBrowser) {
		c.Search.OpenBrowser = v.GetBool(KeyOpenBrowser)
	}
}
