// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package detect gathers the host facts shown by the info command.
//
// # Key Types
//
//   - SystemInfo: operating system, CPU count, Go runtime, terminal and timezone
//   - Probe: one developer tool and the arguments that print its version
//   - Detector: runs every probe concurrently and caches the result
//
// # Usage
//
//	info := detect.CollectSystemInfo(time.Now())
//	tools := detect.NewDetector().Tools(ctx)
//	for _, t := range tools {
//		fmt.Println(t.Name, t.Version)
//	}
package detect
