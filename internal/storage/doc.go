// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage keeps an index of the documents fiber has written.
//
// Every note, article summary and comparison export is recorded in a small
// SQLite database (~/.fiber/fiber.db) so the `notes` command can list them
// without walking the notes directory.
//
// # Usage
//
//	idx, err := storage.Open(storage.DefaultPath(stateDir))
//	defer idx.Close()
//
//	rec, err := idx.Record(ctx, storage.DocumentRecord{
//		Kind:  storage.KindNote,
//		Title: "Go channels",
//		Path:  "/home/me/Fiber_Notes/go_channels.md",
//		Words: 512,
//	})
//
//	recent, err := idx.Recent(ctx, 10)
//
// The index is advisory. Files deleted by hand still appear until Prune runs.
package storage
