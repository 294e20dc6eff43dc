// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/fxaa/render"
)

// Option configures a Plugin.
//
// Example:
//
//	p := fxaa.NewPlugin(
//	    fxaa.WithToneCompression(false),
//	    fxaa.WithSubGraphs(render.SubGraph3D),
//	)
type Option func(*options)

// options holds Plugin configuration.
type options struct {
	toneCompression bool
	hdrFormat       gputypes.TextureFormat
	displayFormat   gputypes.TextureFormat
	subGraphs       []string
}

// defaultOptions returns the default plugin options.
func defaultOptions() options {
	return options{
		toneCompression: true,
		hdrFormat:       render.HDRFormat,
		displayFormat:   gputypes.TextureFormatUndefined, // taken from the app
		subGraphs:       []string{render.SubGraph3D, render.SubGraph2D},
	}
}

// WithToneCompression selects how HDR views are handled. When enabled (the
// default) HDR color is compressed into an intermediate texture and FXAA
// writes the display-format output. When disabled FXAA runs on the HDR
// image directly with a reversible tonemap and the result stays in the HDR
// main texture.
func WithToneCompression(enabled bool) Option {
	return func(o *options) {
		o.toneCompression = enabled
	}
}

// WithHDRFormat sets the HDR float format. It must match the host's HDR
// main texture format.
func WithHDRFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.hdrFormat = f
	}
}

// WithDisplayFormat overrides the display-default format reported by the
// app.
func WithDisplayFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.displayFormat = f
	}
}

// WithSubGraphs sets the render sub-graphs the node is added to.
func WithSubGraphs(names ...string) Option {
	return func(o *options) {
		o.subGraphs = append([]string(nil), names...)
	}
}
