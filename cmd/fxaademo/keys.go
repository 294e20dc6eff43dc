// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package main

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/fxaa"
)

// handleKey applies a key press to s.
func handleKey(s fxaa.Settings, key gpucontext.Key) fxaa.Settings {
	switch key {
	case gpucontext.Key1, gpucontext.Key2:
		s.Enabled = false
	case gpucontext.Key3:
		s.Enabled = true
	case gpucontext.KeySpace:
		next := (s.EdgeThreshold + 1) % (fxaa.QualityUltra + 1)
		s.EdgeThreshold = next
		s.EdgeThresholdMin = next
	}
	return s
}

// bindKeys applies key presses of src to the settings returned by get.
func bindKeys(src gpucontext.EventSource, get func() fxaa.Settings, set func(fxaa.Settings)) {
	src.OnKeyPress(func(key gpucontext.Key, _ gpucontext.Modifiers) {
		set(handleKey(get(), key))
	})
}
