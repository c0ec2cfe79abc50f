// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package detect

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// probeTimeout bounds a single version command.
const probeTimeout = 5 * time.Second

// toolCacheDuration is how long a Detector reuses its last result.
const toolCacheDuration = 5 * time.Minute

// =============================================================================
// PROBES
// =============================================================================

// Probe is a developer tool and the command that prints its version.
type Probe struct {
	Name string
	Args []string
}

// DefaultProbes lists the tools reported by the info command, in display order.
var DefaultProbes = []Probe{
	{"git", []string{"--version"}},
	{"node", []string{"--version"}},
	{"npm", []string{"--version"}},
	{"yarn", []string{"--version"}},
	{"docker", []string{"--version"}},
	{"java", []string{"-version"}},
	{"mvn", []string{"--version"}},
	{"gcc", []string{"--version"}},
	{"rustc", []string{"--version"}},
	{"go", []string{"version"}},
}

// ToolVersion is the result of one probe. Version is empty when the tool
// is not installed or its command failed.
type ToolVersion struct {
	Name    string
	Version string
}

// Installed reports whether the probe produced a version line.
func (t ToolVersion) Installed() bool {
	return t.Version != ""
}

// Runner executes a command and returns its stdout and stderr.
type Runner func(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// =============================================================================
// DETECTOR
// =============================================================================

// Detector probes installed tools concurrently.
type Detector struct {
	Probes  []Probe
	Runner  Runner
	Timeout time.Duration
	Logger  *zap.Logger

	// Clock defaults to time.Now.
	Clock func() time.Time

	mu        sync.Mutex
	cached    []ToolVersion
	cacheTime time.Time
}

// NewDetector returns a Detector for DefaultProbes using os/exec.
func NewDetector() *Detector {
	return &Detector{
		Probes:  DefaultProbes,
		Runner:  ExecRunner,
		Timeout: probeTimeout,
		Logger:  zap.NewNop(),
		Clock:   time.Now,
	}
}

// Tools returns one ToolVersion per probe in probe order. Results are
// cached for a few minutes.
func (d *Detector) Tools(ctx context.Context) []ToolVersion {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if d.cached != nil && now.Sub(d.cacheTime) < toolCacheDuration {
		return append([]ToolVersion(nil), d.cached...)
	}

	results := d.probeAll(ctx)

	// A cancelled run is not cached; its empty versions are not real.
	if ctx.Err() == nil {
		d.cached = results
		d.cacheTime = now
	}
	return append([]ToolVersion(nil), results...)
}

// ClearCache forces the next Tools call to run every probe again.
func (d *Detector) ClearCache() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.cached = nil
	d.cacheTime = time.Time{}
}

func (d *Detector) probeAll(ctx context.Context) []ToolVersion {
	probes := d.Probes
	if probes == nil {
		probes = DefaultProbes
	}
	results := make([]ToolVersion, len(probes))

	// Probe failures are recorded per tool, so the group never returns an error.
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range probes {
		g.Go(func() error {
			results[i] = ToolVersion{Name: p.Name, Version: d.probe(gctx, p)}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func (d *Detector) probe(ctx context.Context, p Probe) string {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = probeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	run := d.Runner
	if run == nil {
		run = ExecRunner
	}
	stdout, stderr, err := run(ctx, p.Name, p.Args...)
	if err != nil {
		d.logger().Debug("tool probe failed",
			zap.String("tool", p.Name),
			zap.Error(err))
		return ""
	}

	// java and a few others print their version on stderr.
	if line := firstLine(stdout); line != "" {
		return line
	}
	return firstLine(stderr)
}

func (d *Detector) now() time.Time {
	if d.Clock != nil {
		return d.Clock()
	}
	return time.Now()
}

func (d *Detector) logger() *zap.Logger {
	if d.Logger != nil {
		return d.Logger
	}
	return zap.NewNop()
}

func firstLine(b []byte) string {
	text := strings.TrimSpace(string(b))
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return strings.TrimSpace(text)
}
