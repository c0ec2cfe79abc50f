// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package tools

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // zone lookups on hosts without a zoneinfo database

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LocalZone is the label used when no zone is requested.
const LocalZone = "local"

// zoneAliases maps common city and abbreviation names to IANA zones.
var zoneAliases = map[string]string{
	"utc":           "UTC",
	"gmt":           "UTC",
	"new york":      "America/New_York",
	"nyc":           "America/New_York",
	"los angeles":   "America/Los_Angeles",
	"san francisco": "America/Los_Angeles",
	"chicago":       "America/Chicago",
	"denver":        "America/Denver",
	"toronto":       "America/Toronto",
	"london":        "Europe/London",
	"paris":         "Europe/Paris",
	"berlin":        "Europe/Berlin",
	"madrid":        "Europe/Madrid",
	"rome":          "Europe/Rome",
	"moscow":        "Europe/Moscow",
	"dubai":         "Asia/Dubai",
	"mumbai":        "Asia/Kolkata",
	"delhi":         "Asia/Kolkata",
	"india":         "Asia/Kolkata",
	"singapore":     "Asia/Singapore",
	"hong kong":     "Asia/Hong_Kong",
	"shanghai":      "Asia/Shanghai",
	"beijing":       "Asia/Shanghai",
	"tokyo":         "Asia/Tokyo",
	"seoul":         "Asia/Seoul",
	"sydney":        "Australia/Sydney",
	"auckland":      "Pacific/Auckland",
}

var titleCaser = cases.Title(language.English)

// TimeReport is a point in time in a named zone.
type TimeReport struct {
	Time time.Time
	Zone string
}

// String renders the report the way the assistant answers time questions.
func (r TimeReport) String() string {
	return fmt.Sprintf("It's currently %s on %s, %s (%s time).",
		r.Time.Format("03:04 PM"), r.Time.Format("Monday"), r.Time.Format("January 02, 2006"), r.Zone)
}

// ResolveZone maps a user-supplied zone name to a location. Empty and
// "local" resolve to time.Local. Names are tried as given, then through
// the alias table, then title-cased per path segment with spaces turned
// into underscores ("america/new york" → "America/New_York").
func ResolveZone(name string) (*time.Location, string, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, LocalZone) {
		return time.Local, LocalZone, nil
	}

	candidates := []string{name}
	if alias, ok := zoneAliases[strings.ToLower(name)]; ok {
		candidates = append(candidates, alias)
	}
	candidates = append(candidates, canonicalZone(name))

	for _, c := range candidates {
		if loc, err := time.LoadLocation(c); err == nil {
			return loc, c, nil
		}
	}
	return nil, "", fmt.Errorf("%w: %s", ErrUnknownZone, name)
}

func canonicalZone(name string) string {
	segments := strings.Split(name, "/")
	for i, seg := range segments {
		words := strings.Fields(seg)
		for j, w := range words {
			if len(w) <= 3 && len(segments) == 1 {
				words[j] = strings.ToUpper(w)
				continue
			}
			words[j] = titleCaser.String(w)
		}
		segments[i] = strings.Join(words, "_")
	}
	return strings.Join(segments, "/")
}

// Clock reports the current time. Now defaults to time.Now.
type Clock struct {
	Now func() time.Time
}

// Current returns the time in zone (see ResolveZone).
func (c Clock) Current(zone string) (TimeReport, error) {
	loc, label, err := ResolveZone(zone)
	if err != nil {
		return TimeReport{}, err
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return TimeReport{Time: now().In(loc), Zone: label}, nil
}
