// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render_test

import (
	"errors"
	"testing"

	"github.com/gogpu/fxaa/backend/headless"
	"github.com/gogpu/fxaa/render"
)

func TestTextureCacheReuseAcrossFrames(t *testing.T) {
	dev := headless.New()
	c := render.NewTextureCache(dev)
	desc := render.DefaultTextureDescriptor(64, 32, render.HDRFormat)

	first, err := c.Get(desc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if first.IsZero() || first.DefaultView == nil {
		t.Fatal("Get() returned an empty texture")
	}
	c.Update()

	second, err := c.Get(desc)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if second.Texture.ID() != first.Texture.ID() {
		t.Errorf("texture id = %d next frame, want reused %d", second.Texture.ID(), first.Texture.ID())
	}
	if second.DefaultView.ID() != first.DefaultView.ID() {
		t.Error("default view identity changed across frames")
	}
	if got := dev.Created(headless.KindTexture); got != 1 {
		t.Errorf("textures created = %d, want 1", got)
	}
}

func TestTextureCacheOncePerFrame(t *testing.T) {
	dev := headless.New()
	c := render.NewTextureCache(dev)
	desc := render.DefaultTextureDescriptor(16, 16, render.DefaultDisplayFormat)

	a, _ := c.Get(desc)
	b, _ := c.Get(desc)
	if a.Texture.ID() == b.Texture.ID() {
		t.Error("the same texture was handed out twice in one frame")
	}
	if got := c.Len(); got != 2 {
		t.Errorf("Len() = %d, want 2", got)
	}
}

func TestTextureCacheRelease(t *testing.T) {
	dev := headless.New()
	c := render.NewTextureCache(dev)
	desc := render.DefaultTextureDescriptor(8, 8, render.DefaultDisplayFormat)

	ct, _ := c.Get(desc)
	c.Update() // frame in which it was used

	// Retained while idle for up to three frames.
	for frame := 1; frame <= 3; frame++ {
		c.Update()
		if dev.Destroyed(ct.Texture.ID()) {
			t.Fatalf("texture destroyed after %d idle frames", frame)
		}
	}
	c.Update()
	if !dev.Destroyed(ct.Texture.ID()) {
		t.Error("texture not destroyed after four idle frames")
	}
	if !dev.Destroyed(ct.DefaultView.ID()) {
		t.Error("default view not destroyed with its texture")
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}

func TestTextureCacheDistinctDescriptors(t *testing.T) {
	dev := headless.New()
	c := render.NewTextureCache(dev)

	small, _ := c.Get(render.DefaultTextureDescriptor(8, 8, render.HDRFormat))
	c.Update()
	large, _ := c.Get(render.DefaultTextureDescriptor(16, 8, render.HDRFormat))

	if small.Texture.ID() == large.Texture.ID() {
		t.Error("a resized descriptor reused the old texture")
	}
	if large.Texture.Width() != 16 {
		t.Errorf("Width() = %d, want 16", large.Texture.Width())
	}
}

func TestTextureCacheCreateError(t *testing.T) {
	dev := headless.New()
	c := render.NewTextureCache(dev)
	boom := errors.New("out of memory")
	dev.FailNext(headless.KindTexture, boom)

	_, err := c.Get(render.DefaultTextureDescriptor(8, 8, render.HDRFormat))
	if !errors.Is(err, boom) {
		t.Errorf("Get() error = %v, want %v", err, boom)
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len() = %d after a failed Get, want 0", got)
	}
}

func TestTextureCacheDestroyAll(t *testing.T) {
	dev := headless.New()
	c := render.NewTextureCache(dev)
	for i := range 3 {
		_, _ = c.Get(render.DefaultTextureDescriptor(uint32(8+i), 8, render.HDRFormat))
	}
	c.DestroyAll()

	if got := dev.LiveTextures(); got != 0 {
		t.Errorf("LiveTextures() = %d, want 0", got)
	}
	if got := c.Len(); got != 0 {
		t.Errorf("Len() = %d, want 0", got)
	}
}
