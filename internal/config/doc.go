// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads and validates fiber's settings.
//
// Settings come from three layers, highest precedence first:
//   - command-line flags and environment variables (bound through viper)
//   - ~/.fiber/config.toml
//   - built-in defaults
//
// Recognized environment variables are OLLAMA_MODEL, FIBER_OLLAMA_URL,
// DEFAULT_PATH, OPENWEATHERMAP_API_KEY, FIBER_PORT, FIBER_VERBOSE and NO_COLOR.
//
// # Usage
//
//	cfg, err := config.Load(path)
//	if err != nil {
//	    return err
//	}
//	v := config.NewViper()
//	_ = v.BindPFlag(config.KeyModel, cmd.Flags().Lookup("model"))
//	cfg.ApplyOverrides(v)
//
// The server hot-reloads the file with a Watcher.
package config
