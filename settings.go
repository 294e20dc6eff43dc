// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import (
	"fmt"
	"strings"
)

// Quality is an edge detection threshold tier.
type Quality uint8

const (
	// QualityLow trades edge coverage for speed.
	QualityLow Quality = iota

	// QualityMedium is a balanced threshold.
	QualityMedium

	// QualityHigh is the default threshold.
	QualityHigh

	// QualityUltra smooths the faintest edges.
	QualityUltra
)

// String returns the tier label used in shader defs.
func (q Quality) String() string {
	switch q {
	case QualityLow:
		return "LOW"
	case QualityMedium:
		return "MEDIUM"
	case QualityHigh:
		return "HIGH"
	case QualityUltra:
		return "ULTRA"
	default:
		return "UNKNOWN"
	}
}

// ParseQuality parses a tier label, case-insensitively.
func ParseQuality(s string) (Quality, error) {
	for q := QualityLow; q <= QualityUltra; q++ {
		if strings.EqualFold(s, q.String()) {
			return q, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidQuality, s)
}

// Valid reports whether q is a known tier.
func (q Quality) Valid() bool { return q <= QualityUltra }

// Settings is the per-camera FXAA configuration. Attach it to a camera
// entity in the main world; it is copied to the render world every frame.
type Settings struct {
	// Enabled turns the effect on for the camera.
	Enabled bool

	// EdgeThreshold is the relative local contrast needed to treat a
	// pixel as an edge.
	EdgeThreshold Quality

	// EdgeThresholdMin is the absolute contrast below which dark pixels
	// are ignored.
	EdgeThresholdMin Quality
}

// DefaultSettings returns {Enabled: true, High, High}.
func DefaultSettings() Settings {
	return Settings{
		Enabled:          true,
		EdgeThreshold:    QualityHigh,
		EdgeThresholdMin: QualityHigh,
	}
}

// Validate reports unknown quality tiers.
func (s Settings) Validate() error {
	if !s.EdgeThreshold.Valid() {
		return fmt.Errorf("%w: edge threshold %d", ErrInvalidQuality, uint8(s.EdgeThreshold))
	}
	if !s.EdgeThresholdMin.Valid() {
		return fmt.Errorf("%w: edge threshold min %d", ErrInvalidQuality, uint8(s.EdgeThresholdMin))
	}
	return nil
}

// ShaderDefs returns the FXAA shader defs selecting s's thresholds.
func (s Settings) ShaderDefs() []string {
	return ToggleNames(s)
}

// ToggleNames returns exactly two shader defs, EDGE_THRESH_<tier> followed
// by EDGE_THRESH_MIN_<tier>.
func ToggleNames(s Settings) []string {
	return []string{
		"EDGE_THRESH_" + s.EdgeThreshold.String(),
		"EDGE_THRESH_MIN_" + s.EdgeThresholdMin.String(),
	}
}
