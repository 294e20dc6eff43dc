// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/fxaa/render"
)

// Factory creates a new backend instance.
type Factory func() Backend

// registry holds registered backends. wgpu is preferred over headless.
var registry = gpucontext.NewRegistry[Backend](
	gpucontext.WithPriority(NameWGPU, NameHeadless),
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registry.Register(name, factory)
}

// Unregister removes a backend from the registry.
func Unregister(name string) {
	registry.Unregister(name)
}

// Available returns the names of registered backends.
func Available() []string {
	return registry.Available()
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	return registry.Has(name)
}

// Get returns a backend instance by name, or nil if it is not registered.
func Get(name string) Backend {
	return registry.Get(name)
}

// Default returns the highest priority registered backend, or nil.
func Default() Backend {
	return registry.Best()
}

// DefaultName returns the name of the backend Default would return.
func DefaultName() string {
	return registry.BestName()
}

// Open opens the named backend, or the default one if name is empty.
func Open(name string) (Backend, render.Device, render.DeviceHandle, error) {
	var b Backend
	if name == "" {
		b = Default()
	} else {
		b = Get(name)
	}
	if b == nil {
		return nil, nil, nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	dev, h, err := b.Open()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("backend %s: %w", b.Name(), err)
	}
	return b, dev, h, nil
}
