// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrMissingAPIKey = errors.New("OpenWeatherMap API key not found")
	ErrInvalidAPIKey = errors.New("invalid OpenWeatherMap API key")
	ErrNoLocation    = errors.New("no location given")
	ErrUnknownZone   = errors.New("unknown time zone")
	ErrNoDefinition  = errors.New("no definition found")
	ErrInvalidURL    = errors.New("invalid URL format. URL must start with http:// or https://")
	ErrNoContent     = errors.New("no content could be extracted from the webpage")
)

// StatusError is a non-200 answer from a web API.
type StatusError struct {
	Service    string
	StatusCode int
}

func (e *StatusError) Error() string {
	switch e.StatusCode {
	case http.StatusNotFound:
		return fmt.Sprintf("%s: page not found (404)", e.Service)
	case http.StatusForbidden:
		return fmt.Sprintf("%s: access forbidden (403). This site may be blocking automated access", e.Service)
	case http.StatusUnauthorized:
		return fmt.Sprintf("%s: authentication required (401). This may be a paywall", e.Service)
	}
	return fmt.Sprintf("%s: status code %d", e.Service, e.StatusCode)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
