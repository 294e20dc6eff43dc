// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	_ "github.com/gogpu/wgpu/hal/allbackends" // register HAL backends

	"github.com/gogpu/fxaa/backend"
	"github.com/gogpu/fxaa/render"
)

// init registers the wgpu backend on package import.
func init() {
	backend.Register(backend.NameWGPU, func() backend.Backend {
		return &Backend{}
	})
}

// Backend opens an offscreen wgpu device on the best available adapter.
type Backend struct {
	// PowerPreference selects between integrated and discrete adapters.
	PowerPreference gputypes.PowerPreference

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
}

// Name returns "wgpu".
func (b *Backend) Name() string { return backend.NameWGPU }

// Open creates the instance, adapter and device.
func (b *Backend) Open() (render.Device, render.DeviceHandle, error) {
	instance, err := wgpu.CreateInstance(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("create instance: %w", err)
	}
	adapter, err := instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		PowerPreference: b.PowerPreference,
	})
	if err != nil {
		instance.Release()
		return nil, nil, fmt.Errorf("request adapter: %w", err)
	}
	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label:          "fxaa",
		RequiredLimits: wgpu.DefaultLimits(),
	})
	if err != nil {
		adapter.Release()
		instance.Release()
		return nil, nil, fmt.Errorf("request device: %w", err)
	}
	b.instance, b.adapter, b.device = instance, adapter, device
	return NewDevice(device), NewHandle(adapter, device, gputypes.TextureFormatUndefined), nil
}

// Close releases the device, adapter and instance.
func (b *Backend) Close() {
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}

var _ backend.Backend = (*Backend)(nil)
