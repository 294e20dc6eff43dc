// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"

	"github.com/gogpu/fxaa/render"
)

// Backend names.
const (
	NameWGPU     = "wgpu"
	NameHeadless = "headless"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotOpen is returned when a backend is used before Open.
	ErrNotOpen = errors.New("backend: not open")
)

// Backend opens a render device.
type Backend interface {
	// Name returns the backend identifier (e.g., "wgpu", "headless").
	Name() string

	// Open creates the device and the handle describing it to the host.
	Open() (render.Device, render.DeviceHandle, error)

	// Close releases everything Open created.
	Close()
}
