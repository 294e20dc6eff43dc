// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import "errors"

// Errors returned while building the plugin. Per-frame conditions such as
// a pipeline still compiling or a view without a target never surface as
// errors.
var (
	// ErrLayoutCreation is returned when the device rejects the bind group
	// layout. No FXAA pipeline can be built without it.
	ErrLayoutCreation = errors.New("fxaa: bind group layout creation failed")

	// ErrInvalidQuality is returned by Settings.Validate for unknown tiers.
	ErrInvalidQuality = errors.New("fxaa: invalid quality tier")

	// ErrSubGraph is returned when the plugin cannot be wired into a
	// render sub-graph.
	ErrSubGraph = errors.New("fxaa: cannot register node in sub-graph")
)
