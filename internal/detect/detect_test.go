// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

// =============================================================================
// SYSTEM INFO TESTS
// =============================================================================

func TestCollectSystemInfo(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("LC_ALL", "")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "en_US.UTF-8")

	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.FixedZone("CET", 3600))
	info := CollectSystemInfo(now)

	if info.Terminal != "xterm-256color" {
		t.Errorf("Terminal = %q, want %q", info.Terminal, "xterm-256color")
	}
	if info.Language != "en_US" {
		t.Errorf("Language = %q, want %q", info.Language, "en_US")
	}
	if info.Timezone != "CET" {
		t.Errorf("Timezone = %q, want %q", info.Timezone, "CET")
	}
	if info.CPUCount < 1 {
		t.Errorf("CPUCount = %d, want >= 1", info.CPUCount)
	}
	if !strings.HasPrefix(info.GoVersion, "go") {
		t.Errorf("GoVersion = %q, want go prefix", info.GoVersion)
	}
}

func TestCollectSystemInfo_Unknowns(t *testing.T) {
	t.Setenv("TERM", "")
	t.Setenv("LC_ALL", "C")
	t.Setenv("LC_MESSAGES", "")
	t.Setenv("LANG", "")

	info := CollectSystemInfo(time.Now())
	if info.Terminal != "unknown" {
		t.Errorf("Terminal = %q, want unknown", info.Terminal)
	}
	if info.Language != "unknown" {
		t.Errorf("Language = %q, want unknown", info.Language)
	}
}

func TestSystemInfo_Fields(t *testing.T) {
	info := SystemInfo{
		OS:        "linux",
		Arch:      "amd64",
		CPUCount:  8,
		GoVersion: "go1.24.0",
		Terminal:  "xterm",
		Language:  "en_US",
		Timezone:  "UTC",
		HomeFree:  2 * 1024 * 1024 * 1024,
	}

	fields := info.Fields()
	want := map[string]string{
		"OS":               "linux (amd64)",
		"CPU Count":        "8",
		"Go Version":       "go1.24.0",
		"Free Disk (home)": "2.0 GiB",
	}
	got := map[string]string{}
	for _, f := range fields {
		got[f.Label] = f.Value
	}
	for label, value := range want {
		if got[label] != value {
			t.Errorf("field %q = %q, want %q", label, got[label], value)
		}
	}
	if fields[0].Label != "OS" {
		t.Errorf("first field = %q, want OS", fields[0].Label)
	}

	info.HomeFree = 0
	for _, f := range info.Fields() {
		if f.Label == "Free Disk (home)" {
			t.Error("free disk field should be omitted when unknown")
		}
	}
}

// =============================================================================
// TOOL PROBE TESTS
// =============================================================================

type fakeRunner struct {
	mu    sync.Mutex
	calls int
	out   map[string][2]string
}

func (f *fakeRunner) run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	out, ok := f.out[name]
	if !ok {
		return nil, nil, errors.New("executable file not found in $PATH")
	}
	return []byte(out[0]), []byte(out[1]), nil
}

func newFakeDetector(out map[string][2]string) (*Detector, *fakeRunner) {
	r := &fakeRunner{out: out}
	d := NewDetector()
	d.Runner = r.run
	return d, r
}

func TestDetector_Tools(t *testing.T) {
	d, _ := newFakeDetector(map[string][2]string{
		"git":  {"git version 2.43.0\n", ""},
		"java": {"", "openjdk version \"21.0.2\" 2024-01-16\nOpenJDK Runtime Environment\n"},
		"go":   {"go version go1.24.0 linux/amd64\n", ""},
		"gcc":  {"gcc (GCC) 13.2.1\nCopyright (C) 2023\n", ""},
	})

	tools := d.Tools(context.Background())
	if len(tools) != len(DefaultProbes) {
		t.Fatalf("len(tools) = %d, want %d", len(tools), len(DefaultProbes))
	}

	want := map[string]string{
		"git":    "git version 2.43.0",
		"java":   "openjdk version \"21.0.2\" 2024-01-16",
		"go":     "go version go1.24.0 linux/amd64",
		"gcc":    "gcc (GCC) 13.2.1",
		"docker": "",
		"node":   "",
	}
	for i, tool := range tools {
		if tool.Name != DefaultProbes[i].Name {
			t.Errorf("tools[%d].Name = %q, want %q", i, tool.Name, DefaultProbes[i].Name)
		}
		if v, ok := want[tool.Name]; ok && tool.Version != v {
			t.Errorf("%s version = %q, want %q", tool.Name, tool.Version, v)
		}
	}
	if tools[1].Installed() {
		t.Error("node should not be reported as installed")
	}
}

func TestDetector_Cache(t *testing.T) {
	d, r := newFakeDetector(map[string][2]string{"git": {"git version 2.43.0", ""}})
	now := time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
	d.Clock = func() time.Time { return now }
	d.Probes = []Probe{{"git", []string{"--version"}}}

	d.Tools(context.Background())
	d.Tools(context.Background())
	if r.calls != 1 {
		t.Errorf("calls = %d, want 1 (cached)", r.calls)
	}

	now = now.Add(toolCacheDuration)
	d.Tools(context.Background())
	if r.calls != 2 {
		t.Errorf("calls = %d, want 2 after expiry", r.calls)
	}

	d.ClearCache()
	d.Tools(context.Background())
	if r.calls != 3 {
		t.Errorf("calls = %d, want 3 after ClearCache", r.calls)
	}
}

func TestDetector_CancelledNotCached(t *testing.T) {
	d, r := newFakeDetector(map[string][2]string{"git": {"git version 2.43.0", ""}})
	d.Probes = []Probe{{"git", []string{"--version"}}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Tools(ctx)
	d.Tools(context.Background())
	if r.calls != 2 {
		t.Errorf("calls = %d, want 2", r.calls)
	}
}

func TestDetector_ProbeTimeout(t *testing.T) {
	d := NewDetector()
	d.Probes = []Probe{{"slow", nil}}
	d.Timeout = 20 * time.Millisecond
	d.Runner = func(ctx context.Context, _ string, _ ...string) ([]byte, []byte, error) {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}

	start := time.Now()
	tools := d.Tools(context.Background())
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Tools took %v, want the probe timeout to apply", elapsed)
	}
	if tools[0].Installed() {
		t.Error("timed out probe should report no version")
	}
}

func TestFirstLine(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"v20.11.0\n", "v20.11.0"},
		{"\n  line one  \nline two", "line one"},
	}
	for _, tc := range tests {
		if got := firstLine([]byte(tc.in)); got != tc.want {
			t.Errorf("firstLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
