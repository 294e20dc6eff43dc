// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import (
	"fmt"

	"github.com/gogpu/fxaa/render"
)

// intermediateLabel is the debug label of the per-view scratch texture.
const intermediateLabel = "fxaa_intermediate_texture"

// ViewResources is attached to every prepared view entity.
type ViewResources struct {
	// Texture is the intermediate texture, sized to the camera target and
	// formatted per the view's dynamic range mode.
	Texture render.CachedTexture

	// Pipelines are the view's pipeline ids.
	Pipelines VariantSet

	// HDR is the dynamic range mode the resources were prepared for.
	HDR bool
}

// Prepare allocates intermediate textures and resolves pipelines for every
// camera carrying Settings. Cameras without a target size are skipped.
// Cameras sharing a render target share one intermediate texture.
func Prepare(w *render.World) error {
	pipelines, ok := render.Resource[*Pipelines](w)
	if !ok {
		return nil
	}
	cache, ok := render.Resource[*render.PipelineCache](w)
	if !ok {
		return nil
	}
	textures, ok := render.Resource[*render.TextureCache](w)
	if !ok {
		return nil
	}

	// Frame-local: rebuilt every call, never retained.
	perTarget := make(map[render.TargetID]render.CachedTexture)

	for _, e := range render.Query[Settings](w) {
		settings, _ := render.Get[Settings](w, e)
		if err := settings.Validate(); err != nil {
			Logger().Warn("fxaa: skipping camera", "entity", e, "err", err)
			continue
		}
		cam, ok := render.Get[render.ExtractedCamera](w, e)
		if !ok {
			continue
		}
		view, ok := render.Get[render.ExtractedView](w, e)
		if !ok {
			continue
		}
		if cam.PhysicalTargetSize == nil || cam.PhysicalTargetSize.IsZero() {
			Logger().Debug("fxaa: camera has no target size", "entity", e)
			continue
		}

		tex, ok := perTarget[cam.Target]
		if !ok || tex.Texture.Format() != pipelines.IntermediateFormat(view.HDR) {
			desc := render.DefaultTextureDescriptor(
				cam.PhysicalTargetSize.Width,
				cam.PhysicalTargetSize.Height,
				pipelines.IntermediateFormat(view.HDR),
			)
			desc.Label = intermediateLabel
			var err error
			tex, err = textures.Get(desc)
			if err != nil {
				return fmt.Errorf("fxaa: intermediate texture: %w", err)
			}
			perTarget[cam.Target] = tex
		}

		render.Insert(w, e, ViewResources{
			Texture:   tex,
			Pipelines: pipelines.Resolve(cache, NewPipelineKey(view.HDR, settings)),
			HDR:       view.HDR,
		})
	}
	return nil
}
