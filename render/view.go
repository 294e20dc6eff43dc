// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// HDRFormat is the format of main textures of HDR views.
const HDRFormat = gputypes.TextureFormatRGBA16Float

// Size is a size in physical pixels.
type Size struct {
	Width, Height uint32
}

// IsZero reports whether either dimension is zero.
func (s Size) IsZero() bool { return s.Width == 0 || s.Height == 0 }

// TargetID identifies a render target (window or offscreen image). Several
// cameras may render to the same target.
type TargetID uint64

// Camera is the main-world camera component.
type Camera struct {
	// Target is the render target this camera draws into.
	Target TargetID

	// Size is the physical size of the target. A zero size means the
	// target is unavailable this frame (e.g. a minimized window).
	Size Size

	// HDR selects a floating point main texture.
	HDR bool

	// Order sorts cameras rendering in the same frame.
	Order int

	// SubGraph names the render sub-graph that draws this camera.
	SubGraph string
}

// ExtractedCamera is the render-side copy of a Camera.
type ExtractedCamera struct {
	Target             TargetID
	PhysicalTargetSize *Size
	SubGraph           string
	Order              int
}

// ExtractedView holds per-view render state.
type ExtractedView struct {
	HDR bool
}

// PostProcessWrite is a source/destination pair for a post-process pass.
type PostProcessWrite struct {
	Source      CachedTexture
	Destination CachedTexture
}

// ViewTarget holds the textures a view renders into: two main textures
// used as a ping-pong pair by post-processing, and the output texture in
// the display format.
type ViewTarget struct {
	main   [2]CachedTexture
	index  int
	output CachedTexture
	hdr    bool
}

// NewViewTarget creates a view target. a and b must share descriptor.
func NewViewTarget(a, b, output CachedTexture, hdr bool) *ViewTarget {
	return &ViewTarget{main: [2]CachedTexture{a, b}, output: output, hdr: hdr}
}

// MainTexture returns the main texture currently holding the view's color.
func (t *ViewTarget) MainTexture() CachedTexture { return t.main[t.index] }

// MainTextureFormat returns the format of the main textures.
func (t *ViewTarget) MainTextureFormat() gputypes.TextureFormat {
	return t.main[0].Texture.Format()
}

// IsHDR reports whether the main textures use the HDR format.
func (t *ViewTarget) IsHDR() bool { return t.hdr }

// Output returns the display-format output texture.
func (t *ViewTarget) Output() CachedTexture { return t.output }

// PostProcessWrite flips the ping-pong pair: the current main texture
// becomes the source and the other one the destination, which is the main
// texture from then on.
func (t *ViewTarget) PostProcessWrite() PostProcessWrite {
	src := t.main[t.index]
	t.index ^= 1
	return PostProcessWrite{Source: src, Destination: t.main[t.index]}
}

// viewTargetKey deduplicates view targets shared by cameras.
type viewTargetKey struct {
	target TargetID
	hdr    bool
}

// viewTextureUsage is the usage of every view target texture.
const viewTextureUsage = TextureUsageRenderAttachment | TextureUsageTextureBinding | TextureUsageCopySrc

// prepareViewTargets allocates a ViewTarget for every extracted view with a
// target size. Cameras sharing a target and HDR mode share textures.
func prepareViewTargets(w *World, textures *TextureCache, display gputypes.TextureFormat) error {
	shared := make(map[viewTargetKey]*ViewTarget)

	for _, e := range Query[ExtractedCamera](w) {
		cam, _ := Get[ExtractedCamera](w, e)
		view, ok := Get[ExtractedView](w, e)
		if !ok || cam.PhysicalTargetSize == nil {
			continue
		}

		key := viewTargetKey{target: cam.Target, hdr: view.HDR}
		if vt, ok := shared[key]; ok {
			Insert(w, e, vt)
			continue
		}

		size := *cam.PhysicalTargetSize
		format := display
		if view.HDR {
			format = HDRFormat
		}

		mainDesc := DefaultTextureDescriptor(size.Width, size.Height, format)
		mainDesc.Usage = viewTextureUsage
		mainDesc.Label = "main_texture_a"
		a, err := textures.Get(mainDesc)
		if err != nil {
			return fmt.Errorf("view target: %w", err)
		}
		mainDesc.Label = "main_texture_b"
		b, err := textures.Get(mainDesc)
		if err != nil {
			return fmt.Errorf("view target: %w", err)
		}

		outDesc := DefaultTextureDescriptor(size.Width, size.Height, display)
		outDesc.Usage = viewTextureUsage
		outDesc.Label = "output_texture"
		out, err := textures.Get(outDesc)
		if err != nil {
			return fmt.Errorf("view target: %w", err)
		}

		vt := NewViewTarget(a, b, out, view.HDR)
		shared[key] = vt
		Insert(w, e, vt)
	}
	return nil
}
