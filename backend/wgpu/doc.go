// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package wgpu implements render.Device on top of gogpu/wgpu.
//
// Shader modules are created from SPIR-V when the pipeline cache compiled
// them with naga, otherwise from WGSL. Importing the package registers the
// "wgpu" backend:
//
//	import _ "github.com/gogpu/fxaa/backend/wgpu"
//
//	b, dev, handle, err := backend.Open("wgpu")
//
// All hardware backends of gogpu/wgpu (Vulkan, Metal, DX12, GLES) are linked
// in through hal/allbackends.
package wgpu
