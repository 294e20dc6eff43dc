// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/fxaa/backend"
	"github.com/gogpu/fxaa/render"
)

// init registers the headless backend on package import.
func init() {
	backend.Register(backend.NameHeadless, func() backend.Backend {
		return &Backend{}
	})
}

// Backend opens recording devices.
type Backend struct {
	// SurfaceFormat is reported by the device handle. Undefined means no
	// surface, so the display format falls back to render.DefaultDisplayFormat.
	SurfaceFormat gputypes.TextureFormat

	device *Device
}

// Name returns "headless".
func (b *Backend) Name() string { return backend.NameHeadless }

// Open creates a recording device.
func (b *Backend) Open() (render.Device, render.DeviceHandle, error) {
	b.device = New()
	return b.device, NewHandle(b.device, b.SurfaceFormat), nil
}

// Device returns the device created by Open, or nil.
func (b *Backend) Device() *Device { return b.device }

// Close forgets the device.
func (b *Backend) Close() { b.device = nil }

var _ backend.Backend = (*Backend)(nil)
