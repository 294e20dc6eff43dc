// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fxaa/backend/headless"
	"github.com/gogpu/fxaa/render"
)

func TestLayoutDescriptor(t *testing.T) {
	d := LayoutDescriptor()
	if len(d.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(d.Entries))
	}

	tex := d.Entries[0]
	if tex.Binding != 0 || tex.Visibility != gputypes.ShaderStageFragment || tex.Texture == nil {
		t.Fatalf("entry 0 = %+v, want fragment texture at binding 0", tex)
	}
	if tex.Texture.SampleType != gputypes.TextureSampleTypeFloat ||
		tex.Texture.ViewDimension != gputypes.TextureViewDimension2D ||
		tex.Texture.Multisampled {
		t.Errorf("texture layout = %+v, want filterable 2D float", *tex.Texture)
	}

	smp := d.Entries[1]
	if smp.Binding != 1 || smp.Visibility != gputypes.ShaderStageFragment || smp.Sampler == nil {
		t.Fatalf("entry 1 = %+v, want fragment sampler at binding 1", smp)
	}
	if smp.Sampler.Type != gputypes.SamplerBindingTypeFiltering {
		t.Errorf("sampler type = %v, want filtering", smp.Sampler.Type)
	}
}

func TestNewLayout(t *testing.T) {
	dev := headless.New()
	layout, err := NewLayout(dev)
	if err != nil {
		t.Fatalf("NewLayout() error = %v", err)
	}
	rec, ok := layout.(*headless.BindGroupLayout)
	if !ok {
		t.Fatalf("layout type = %T", layout)
	}
	if rec.Label != "fxaa_texture_bind_group_layout" || len(rec.Entries) != 2 {
		t.Errorf("layout = %q with %d entries", rec.Label, len(rec.Entries))
	}
}

func TestNewLayoutFailure(t *testing.T) {
	dev := headless.New()
	oom := errors.New("out of memory")
	dev.FailNext(headless.KindBindGroupLayout, oom)

	_, err := NewLayout(dev)
	if !errors.Is(err, ErrLayoutCreation) || !errors.Is(err, oom) {
		t.Errorf("NewLayout() error = %v, want %v wrapping %v", err, ErrLayoutCreation, oom)
	}
}

func TestPluginLayoutFailureIsFatal(t *testing.T) {
	dev := headless.New()
	dev.FailNext(headless.KindBindGroupLayout, errors.New("lost"))
	app, err := render.NewApp(dev)
	if err != nil {
		t.Fatal(err)
	}
	defer app.Destroy()

	if err := app.AddPlugin(NewPlugin()); !errors.Is(err, ErrLayoutCreation) {
		t.Errorf("AddPlugin() error = %v, want %v", err, ErrLayoutCreation)
	}
	if _, ok := render.Resource[*Pipelines](app.Render()); ok {
		t.Error("pipelines registered after layout failure")
	}
}

func TestLinearSampler(t *testing.T) {
	d := linearSampler()
	if d.MagFilter != gputypes.FilterModeLinear || d.MinFilter != gputypes.FilterModeLinear {
		t.Errorf("filters = %v/%v, want linear", d.MagFilter, d.MinFilter)
	}
	if d.Label != "fxaa_sampler" {
		t.Errorf("Label = %q", d.Label)
	}
}
