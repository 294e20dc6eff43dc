// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package headless provides a render.Device that records calls instead of
// talking to a GPU.
//
// Every created object gets a real identity and is counted, and submitted
// render passes are kept as PassRecords. Tests use it to observe exactly
// which passes ran, which textures they read and wrote, and how many GPU
// objects were created. The demo uses it when no GPU is available.
package headless
