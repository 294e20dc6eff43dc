// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

// ExtractFunc copies state from the main world into the render world.
// It runs once per frame after the render world is cleared.
type ExtractFunc func(main, render *World)

// ExtractComponent returns an ExtractFunc that copies the T component of
// every main-world camera into the render world. Copies are by value, so
// later changes in the main world do not leak into the current frame.
func ExtractComponent[T any]() ExtractFunc {
	return func(main, render *World) {
		for _, e := range Query[Camera](main) {
			if v, ok := Get[T](main, e); ok {
				Insert(render, e, v)
			}
		}
	}
}

// extractCameras mirrors main-world cameras into render-side records.
func extractCameras(main, render *World) {
	Each(main, func(e Entity, cam Camera) {
		ec := ExtractedCamera{
			Target:   cam.Target,
			SubGraph: cam.SubGraph,
			Order:    cam.Order,
		}
		if !cam.Size.IsZero() {
			size := cam.Size
			ec.PhysicalTargetSize = &size
		}
		if ec.SubGraph == "" {
			ec.SubGraph = SubGraph3D
		}
		Insert(render, e, ec)
		Insert(render, e, ExtractedView{HDR: cam.HDR})
	})
}
