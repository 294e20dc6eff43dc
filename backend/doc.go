// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package backend selects the device a render app runs on.
//
// Backends register themselves from init functions and are picked by name
// or by priority:
//
//	import (
//		"github.com/gogpu/fxaa/backend"
//		_ "github.com/gogpu/fxaa/backend/headless"
//		_ "github.com/gogpu/fxaa/backend/wgpu"
//	)
//
//	b := backend.Default() // wgpu if registered, else headless
//	dev, handle, err := b.Open()
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer b.Close()
//
// # Available Backends
//
//   - "wgpu": GPU rendering via gogpu/wgpu
//   - "headless": recording device without GPU, always available
package backend
