// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router decides how a free-text query is handled.
//
// Routes are checked in a fixed priority order:
// Document creation -> Weather -> Time -> Chat
//
// # Key Types
//
//   - Intent: the routing decision with the extracted topic, location or zone
//   - Kind: routing target enumeration
//   - Command: a leading command word and its arguments, used by the HTTP API
//
// # Usage
//
//	intent := router.Route("write notes about goroutines")
//	switch intent.Kind {
//	case router.KindDocument:
//	    // create notes on intent.Topic
//	case router.KindWeather:
//	    // look up intent.Location
//	case router.KindTime:
//	    // format the clock for intent.Timezone
//	default:
//	    // general chat
//	}
//
// # Precedence
//
// Document creation wins over everything else, so "write about the weather
// in Paris" is a document request and weather detection never runs for it.
package router
