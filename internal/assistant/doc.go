// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package assistant implements fiber's operations on top of the generation
// client, the intent router, the section parser and the web tools.
//
// An App is built once per process from an explicit Deps value and is
// passed to every command handler:
//
//	app := assistant.New(assistant.Deps{
//		Generator: ollama.NewClient(),
//		Session:   store,
//		Weather:   tools.NewWeather(apiKey, nil),
//		...
//	})
//	reply, err := app.Process(ctx, "weather in Paris", assistant.Hooks{})
//
// Operations return data; rendering belongs to the caller.
package assistant
