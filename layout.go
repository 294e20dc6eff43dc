// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import (
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fxaa/render"
)

// Bind group slots shared by every FXAA pipeline.
const (
	bindingTexture uint32 = 0
	bindingSampler uint32 = 1
)

// LayoutDescriptor returns the binding contract of every pass: a
// filterable 2D float texture and a filtering sampler, both visible to the
// fragment stage.
func LayoutDescriptor() *gputypes.BindGroupLayoutDescriptor {
	return &gputypes.BindGroupLayoutDescriptor{
		Label: "fxaa_texture_bind_group_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    bindingTexture,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
					Multisampled:  false,
				},
			},
			{
				Binding:    bindingSampler,
				Visibility: gputypes.ShaderStageFragment,
				Sampler: &gputypes.SamplerBindingLayout{
					Type: gputypes.SamplerBindingTypeFiltering,
				},
			},
		},
	}
}

// NewLayout creates the shared bind group layout on dev.
func NewLayout(dev render.Device) (render.BindGroupLayout, error) {
	layout, err := dev.CreateBindGroupLayout(LayoutDescriptor())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLayoutCreation, err)
	}
	return layout, nil
}

// linearSampler describes the sampler bound next to every source texture.
func linearSampler() *gputypes.SamplerDescriptor {
	d := gputypes.LinearSamplerDescriptor()
	d.Label = "fxaa_sampler"
	return &d
}
