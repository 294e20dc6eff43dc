// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import (
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fxaa/internal/shader"
	"github.com/gogpu/fxaa/render"
)

// Pass identifies one of the four pipelines of a view.
type Pass uint8

// Passes.
const (
	// PassFXAA smooths edges into a display-format target.
	PassFXAA Pass = iota

	// PassFXAAHDR smooths edges of an HDR image in place, wrapping the
	// filter in a reversible tonemap.
	PassFXAAHDR

	// PassToLDR compresses HDR color into [0, 1] in an HDR-format target.
	PassToLDR

	// PassBlit copies the source unchanged.
	PassBlit
)

// String returns the pass label.
func (p Pass) String() string {
	switch p {
	case PassFXAA:
		return "fxaa"
	case PassFXAAHDR:
		return "fxaa_hdr"
	case PassToLDR:
		return "fxaa_to_ldr"
	case PassBlit:
		return "fxaa_blit"
	default:
		return fmt.Sprintf("Pass(%d)", uint8(p))
	}
}

// tonemapDef enables the reversible tonemap of the FXAA shader.
const tonemapDef = "TONEMAP"

// PipelineKey selects a VariantSet.
type PipelineKey struct {
	// HDR is the view's dynamic range mode.
	HDR bool

	// Toggles is the comma-joined ToggleNames of the view's settings.
	Toggles string
}

// NewPipelineKey derives the key of a view.
func NewPipelineKey(hdr bool, s Settings) PipelineKey {
	return PipelineKey{HDR: hdr, Toggles: strings.Join(ToggleNames(s), ",")}
}

// defs returns the toggle tokens of k.
func (k PipelineKey) defs() []string {
	if k.Toggles == "" {
		return nil
	}
	return strings.Split(k.Toggles, ",")
}

// VariantSet holds the pipeline ids of one view.
type VariantSet struct {
	FXAA    render.CachedPipelineID
	FXAAHDR render.CachedPipelineID
	ToLDR   render.CachedPipelineID
	Blit    render.CachedPipelineID
}

// Pipelines builds FXAA pipeline descriptors and resolves them through the
// host pipeline cache. It is created once per plugin build and stored as a
// render-world resource.
type Pipelines struct {
	layout          render.BindGroupLayout
	hdrFormat       gputypes.TextureFormat
	displayFormat   gputypes.TextureFormat
	toneCompression bool

	mu   sync.Mutex
	memo map[PipelineKey]VariantSet
}

// NewPipelines creates a pipeline provider.
func NewPipelines(layout render.BindGroupLayout, hdrFormat, displayFormat gputypes.TextureFormat, toneCompression bool) *Pipelines {
	return &Pipelines{
		layout:          layout,
		hdrFormat:       hdrFormat,
		displayFormat:   displayFormat,
		toneCompression: toneCompression,
		memo:            make(map[PipelineKey]VariantSet),
	}
}

// Layout returns the shared bind group layout.
func (p *Pipelines) Layout() render.BindGroupLayout { return p.layout }

// HDRFormat returns the HDR float format.
func (p *Pipelines) HDRFormat() gputypes.TextureFormat { return p.hdrFormat }

// DisplayFormat returns the display-default format.
func (p *Pipelines) DisplayFormat() gputypes.TextureFormat { return p.displayFormat }

// ToneCompression reports whether HDR views are compressed before FXAA.
func (p *Pipelines) ToneCompression() bool { return p.toneCompression }

// IntermediateFormat returns the intermediate texture format of a view.
func (p *Pipelines) IntermediateFormat(hdr bool) gputypes.TextureFormat {
	if hdr {
		return p.hdrFormat
	}
	return p.displayFormat
}

// targetFormat returns the color target format of pass for key.
func (p *Pipelines) targetFormat(pass Pass, key PipelineKey) gputypes.TextureFormat {
	switch pass {
	case PassFXAAHDR, PassToLDR:
		return p.hdrFormat
	case PassBlit:
		// The blit stands in for the final pass, so it writes wherever the
		// final pass writes.
		if key.HDR && !p.toneCompression {
			return p.hdrFormat
		}
		return p.displayFormat
	default:
		return p.displayFormat
	}
}

// Descriptor builds the pipeline descriptor of pass for key.
func (p *Pipelines) Descriptor(pass Pass, key PipelineKey) render.RenderPipelineDescriptor {
	var (
		asset shader.Handle
		defs  []string
	)
	switch pass {
	case PassFXAA:
		asset, defs = shader.FXAA, key.defs()
	case PassFXAAHDR:
		asset, defs = shader.FXAA, append(key.defs(), tonemapDef)
	case PassToLDR:
		asset = shader.ToLDR
	default:
		asset = shader.Blit
	}

	return render.RenderPipelineDescriptor{
		Label:  pass.String(),
		Layout: []render.BindGroupLayout{p.layout},
		Vertex: render.VertexState{
			Shader:     shader.Fullscreen,
			EntryPoint: shader.FullscreenEntryPoint,
		},
		Fragment: &render.FragmentState{
			Shader:     asset,
			EntryPoint: shader.FragmentEntryPoint,
			ShaderDefs: defs,
			Targets: []gputypes.ColorTargetState{{
				Format:    p.targetFormat(pass, key),
				Blend:     nil,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive:   gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList},
		Multisample: gputypes.DefaultMultisampleState(),
	}
}

// Resolve queues the four pipelines of key and returns their ids.
// Results are memoized per key; a different key always resolves a fresh,
// complete set.
func (p *Pipelines) Resolve(cache *render.PipelineCache, key PipelineKey) VariantSet {
	p.mu.Lock()
	defer p.mu.Unlock()

	if set, ok := p.memo[key]; ok {
		return set
	}
	set := VariantSet{
		FXAA:    cache.QueueRenderPipeline(p.Descriptor(PassFXAA, key)),
		FXAAHDR: cache.QueueRenderPipeline(p.Descriptor(PassFXAAHDR, key)),
		ToLDR:   cache.QueueRenderPipeline(p.Descriptor(PassToLDR, key)),
		Blit:    cache.QueueRenderPipeline(p.Descriptor(PassBlit, key)),
	}
	p.memo[key] = set
	Logger().Debug("fxaa: pipelines resolved", "hdr", key.HDR, "toggles", key.Toggles)
	return set
}

// QueueBlits queues the blit pipelines of both dynamic range modes. The
// plugin compiles them at build time so that views have a pass-through from
// their first frame.
func (p *Pipelines) QueueBlits(cache *render.PipelineCache) []render.CachedPipelineID {
	return []render.CachedPipelineID{
		cache.QueueRenderPipeline(p.Descriptor(PassBlit, PipelineKey{HDR: false})),
		cache.QueueRenderPipeline(p.Descriptor(PassBlit, PipelineKey{HDR: true})),
	}
}

// Reset drops memoized variant sets. Call it after the pipeline cache was
// destroyed.
func (p *Pipelines) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.memo = make(map[PipelineKey]VariantSet)
}
