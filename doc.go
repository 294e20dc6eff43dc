// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package fxaa implements fast approximate anti-aliasing as a post-process
// node of the render graph in package render.
//
// The node runs after the main pass and before tonemapping in both the 3D
// and 2D core sub-graphs. Per view it records one or two full-screen
// passes:
//
//   - SDR view: FXAA from the main texture into the display-format output.
//   - HDR view (default): HDR to LDR compression into an intermediate
//     texture, then FXAA into the display-format output.
//   - HDR view without tone compression: FXAA with a reversible tonemap,
//     ping-ponging between the HDR main textures.
//
// A disabled camera records nothing. While a pipeline is still compiling
// its pass is skipped, or replaced by a plain blit for the final pass.
//
// # Usage
//
//	app, _ := render.NewApp(device)
//	if err := app.AddPlugin(fxaa.NewPlugin()); err != nil {
//	    log.Fatal(err)
//	}
//	cam := app.SpawnCamera(render.Camera{Target: 1, Size: render.Size{Width: 1280, Height: 720}})
//	render.Insert(app.Main(), cam, fxaa.DefaultSettings())
//	for {
//	    if err := app.Update(); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// The edge detection itself lives in an embedded WGSL shader; thresholds
// are selected with shader defs derived from Settings.
package fxaa
