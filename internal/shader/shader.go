// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package shader holds the WGSL assets of the FXAA post-process passes and
// the small toolchain that turns them into SPIR-V: a preprocessor for
// #ifdef-style shader defs and a naga-backed compiler.
package shader

import (
	_ "embed"
	"fmt"
)

// Embedded WGSL shader sources.

//go:embed wgsl/fullscreen.wgsl
var fullscreenSource string

//go:embed wgsl/fxaa.wgsl
var fxaaSource string

//go:embed wgsl/to_ldr.wgsl
var toLDRSource string

//go:embed wgsl/blit.wgsl
var blitSource string

// Handle identifies an embedded shader asset.
type Handle uint8

// Shader asset handles.
const (
	// Invalid is the zero handle. It never resolves to a source.
	Invalid Handle = iota

	// Fullscreen is the procedural full-screen triangle vertex stage.
	Fullscreen

	// FXAA is the edge-smoothing fragment stage.
	FXAA

	// ToLDR is the HDR to LDR range compression fragment stage.
	ToLDR

	// Blit is the pass-through copy fragment stage.
	Blit
)

// Entry points shared by the assets.
const (
	FullscreenEntryPoint = "fullscreen_vertex_shader"
	FragmentEntryPoint   = "fs_main"
)

// Fullscreen is a vertex-only module, so every fragment asset is compiled
// together with it into a single WGSL unit.
var sources = map[Handle]string{
	Fullscreen: fullscreenSource,
	FXAA:       fxaaSource,
	ToLDR:      toLDRSource,
	Blit:       blitSource,
}

// String returns the asset name.
func (h Handle) String() string {
	switch h {
	case Fullscreen:
		return "fullscreen"
	case FXAA:
		return "fxaa"
	case ToLDR:
		return "to_ldr"
	case Blit:
		return "blit"
	default:
		return fmt.Sprintf("Handle(%d)", uint8(h))
	}
}

// Source returns the raw WGSL text of an asset.
func Source(h Handle) (string, bool) {
	src, ok := sources[h]
	return src, ok
}

// Module returns the preprocessed WGSL for a vertex/fragment pair.
// The vertex asset is emitted first so that its output struct is visible
// to the fragment stage. A zero fragment handle yields a vertex-only module.
func Module(vertex, fragment Handle, defs []string) (string, error) {
	vs, ok := Source(vertex)
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrUnknownShader, vertex)
	}
	src := vs
	if fragment != Invalid {
		fs, ok := Source(fragment)
		if !ok {
			return "", fmt.Errorf("%w: %v", ErrUnknownShader, fragment)
		}
		src = vs + "\n" + fs
	}
	out, err := Preprocess(src, defs)
	if err != nil {
		return "", fmt.Errorf("shader %v/%v: %w", vertex, fragment, err)
	}
	return out, nil
}
