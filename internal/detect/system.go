// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// =============================================================================
// SYSTEM INFO
// =============================================================================

// SystemInfo describes the machine fiber is running on.
type SystemInfo struct {
	OS        string
	Arch      string
	CPUCount  int
	GoVersion string
	Terminal  string
	Language  string
	Timezone  string

	// HomeFree is the free space on the volume holding the home directory.
	// Zero when it could not be determined.
	HomeFree uint64
}

// Field is one labeled line of the info display.
type Field struct {
	Label string
	Value string
}

// CollectSystemInfo reads the host facts. It never fails; unknown values
// are reported as "unknown".
func CollectSystemInfo(now time.Time) SystemInfo {
	info := SystemInfo{
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		CPUCount:  runtime.NumCPU(),
		GoVersion: runtime.Version(),
		Terminal:  envOr("TERM", "unknown"),
		Language:  language(),
		Timezone:  zoneName(now),
	}
	if home, err := os.UserHomeDir(); err == nil {
		if free, err := freeDiskSpace(home); err == nil {
			info.HomeFree = free
		}
	}
	return info
}

// Fields returns the labeled lines shown under "System Information".
func (s SystemInfo) Fields() []Field {
	fields := []Field{
		{"OS", s.OS + " (" + s.Arch + ")"},
		{"CPU Count", strconv.Itoa(s.CPUCount)},
		{"Go Version", s.GoVersion},
		{"Terminal", s.Terminal},
		{"Language", s.Language},
		{"Timezone", s.Timezone},
	}
	if s.HomeFree > 0 {
		fields = append(fields, Field{"Free Disk (home)", humanize.IBytes(s.HomeFree)})
	}
	return fields
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// language reports the locale name from LC_ALL, LC_MESSAGES or LANG
// without its encoding suffix.
func language() string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := os.Getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexByte(v, '.'); i > 0 {
			v = v[:i]
		}
		return v
	}
	return "unknown"
}

func zoneName(now time.Time) string {
	name, _ := now.Zone()
	if name == "" {
		return "unknown"
	}
	return name
}
