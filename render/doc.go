// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render is the small frame host that post-process nodes plug into.
//
// # Key Principle
//
// render RECEIVES a GPU device from the host application, it does NOT
// create its own. A backend (backend/wgpu, backend/headless) implements
// Device; the host describes it with a DeviceHandle.
//
// # Frame Model
//
// An App owns two worlds. The main world holds cameras and their
// components. Every frame the render world is cleared and refilled by
// extraction, view targets are allocated, prepare steps run, and each
// camera's sub-graph of the RenderGraph is executed:
//
//	Clear -> Extract -> Prepare -> Graph.Update -> Run views -> Submit
//	      -> PipelineCache.ProcessQueue -> TextureCache.Update
//
// Pipelines are queued by descriptor in the PipelineCache and compiled at
// the end of the frame, so a pipeline queued in frame N is ready in frame
// N+1. Textures come from the TextureCache, which hands each cached texture
// out at most once per frame and releases textures idle for a few frames.
//
// # Core Sub-Graphs
//
// NewApp creates the "core_3d" and "core_2d" sub-graphs:
//
//	graph_input.view_entity -> main_pass.view
//	main_pass -> tonemapping -> upscaling
//
// Post-process plugins insert their node between main_pass and tonemapping.
//
// # Usage
//
//	app, err := render.NewApp(dev, render.WithDeviceHandle(handle))
//	if err != nil {
//	    return err
//	}
//	defer app.Destroy()
//
//	if err := app.AddPlugin(plugin); err != nil {
//	    return err
//	}
//	app.SpawnCamera(render.Camera{Target: 1, Size: render.Size{Width: 800, Height: 600}})
//
//	for running {
//	    if err := app.Update(); err != nil {
//	        return err
//	    }
//	}
package render
