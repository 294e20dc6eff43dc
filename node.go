// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fxaa/render"
)

// cachedBindGroup is the single bind group the node keeps between frames.
type cachedBindGroup struct {
	source  render.ResourceID
	group   render.BindGroup
	sampler render.Sampler
}

func (c *cachedBindGroup) destroy() {
	c.group.Destroy()
	c.sampler.Destroy()
}

// Node is the render graph node running the FXAA passes of a view.
//
// SDR views and HDR views with tone compression always write Output: the
// FXAA pass, a blit while FXAA is compiling, or a blit when the camera has
// FXAA disabled. HDR views filtered in place write the main texture pair
// and record nothing when disabled.
//
// The node keeps one bind group, keyed by the identity of the texture view
// it samples. A matching source reuses it; any other source replaces it.
// Replaced bind groups are released in the next Update, after the frame
// that used them was submitted. A bind group is therefore created once per
// source change only for views with a single pass; HDR views with tone
// compression sample two sources per frame and recreate both every frame.
type Node struct {
	pipelines *Pipelines

	mu      sync.Mutex
	cached  *cachedBindGroup
	retired []*cachedBindGroup
	views   int
}

// NewNode creates a node drawing with pipelines.
func NewNode(pipelines *Pipelines) *Node {
	return &Node{pipelines: pipelines}
}

// Input declares the view entity slot.
func (n *Node) Input() []render.SlotInfo {
	return []render.SlotInfo{{Name: render.SlotView, Type: render.SlotEntity}}
}

// Update refreshes the prepared view count and releases bind groups
// replaced during the previous frame.
func (n *Node) Update(w *render.World) {
	views := len(render.Query[ViewResources](w))

	n.mu.Lock()
	retired := n.retired
	n.retired = nil
	n.views = views
	n.mu.Unlock()

	for _, c := range retired {
		c.destroy()
	}
}

// Views returns the number of prepared views seen by the last Update.
func (n *Node) Views() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.views
}

// Run records the FXAA passes of the view passed in the view slot.
func (n *Node) Run(gc *render.GraphContext, rc *render.RenderContext, w *render.World) error {
	view, err := gc.InputEntity(render.SlotView)
	if err != nil {
		return err
	}

	res, ok := render.Get[ViewResources](w, view)
	if !ok {
		return nil
	}
	target, ok := render.Get[*render.ViewTarget](w, view)
	if !ok {
		return nil
	}
	settings, ok := render.Get[Settings](w, view)
	if !ok {
		return nil
	}
	cache, ok := render.Resource[*render.PipelineCache](w)
	if !ok {
		return nil
	}

	if res.HDR && !n.pipelines.ToneCompression() {
		return n.inPlace(rc, cache, view, settings.Enabled, res.Pipelines, target)
	}

	// The final image of these views always lands in Output.
	source := target.MainTexture()
	if !settings.Enabled {
		pass, p := pick(cache, PassBlit, res.Pipelines.Blit, res.Pipelines.Blit)
		return n.draw(rc, view, pass, p, source, target.Output())
	}

	if res.HDR {
		if p := cache.RenderPipeline(res.Pipelines.ToLDR); p != nil {
			if err := n.pass(rc, PassToLDR, p, source, res.Texture); err != nil {
				return err
			}
			source = res.Texture
		} else {
			Logger().Debug("fxaa: pipeline not ready", "pass", PassToLDR, "view", view)
		}
	}
	pass, p := pick(cache, PassFXAA, res.Pipelines.FXAA, res.Pipelines.Blit)
	return n.draw(rc, view, pass, p, source, target.Output())
}

// inPlace filters an HDR view inside its main texture pair. The pair is
// swapped only when a pass is recorded, so a skipped frame leaves the scene
// in MainTexture.
func (n *Node) inPlace(rc *render.RenderContext, cache *render.PipelineCache, view render.Entity,
	enabled bool, set VariantSet, target *render.ViewTarget,
) error {
	if !enabled {
		return nil
	}
	pass, p := pick(cache, PassFXAAHDR, set.FXAAHDR, set.Blit)
	if p == nil {
		Logger().Debug("fxaa: pipeline not ready", "pass", pass, "view", view)
		return nil
	}
	pp := target.PostProcessWrite()
	return n.pass(rc, pass, p, pp.Source, pp.Destination)
}

// pick returns the pipeline of pass, or the blit pipeline while pass is not
// ready. The pipeline is nil when neither is ready.
func pick(cache *render.PipelineCache, pass Pass, id, blit render.CachedPipelineID) (Pass, render.RenderPipeline) {
	if p := cache.RenderPipeline(id); p != nil {
		return pass, p
	}
	if p := cache.RenderPipeline(blit); p != nil {
		return PassBlit, p
	}
	return pass, nil
}

// draw records pass, or logs and skips it without a pipeline.
func (n *Node) draw(rc *render.RenderContext, view render.Entity, pass Pass,
	pipeline render.RenderPipeline, src, dst render.CachedTexture,
) error {
	if pipeline == nil {
		Logger().Debug("fxaa: pipeline not ready", "pass", pass, "view", view)
		return nil
	}
	return n.pass(rc, pass, pipeline, src, dst)
}

// pass records one full-screen draw from src into dst.
func (n *Node) pass(rc *render.RenderContext, pass Pass, pipeline render.RenderPipeline, src, dst render.CachedTexture) error {
	group, err := n.bindGroup(rc.Device(), src.DefaultView)
	if err != nil {
		return err
	}

	enc, err := rc.CommandEncoder()
	if err != nil {
		return fmt.Errorf("fxaa: %s: %w", pass, err)
	}
	rp, err := enc.BeginRenderPass(&render.RenderPassDescriptor{
		Label: pass.String() + "_pass",
		ColorAttachments: []render.RenderPassColorAttachment{{
			View:    dst.DefaultView,
			LoadOp:  gputypes.LoadOpLoad,
			StoreOp: gputypes.StoreOpStore,
		}},
	})
	if err != nil {
		return fmt.Errorf("fxaa: %s: %w", pass, err)
	}
	rp.SetPipeline(pipeline)
	rp.SetBindGroup(0, group, nil)
	rp.Draw(3, 1, 0, 0)
	if err := rp.End(); err != nil {
		return fmt.Errorf("fxaa: %s: %w", pass, err)
	}
	return nil
}

// bindGroup returns the cached bind group for source, or replaces it.
func (n *Node) bindGroup(dev render.Device, source render.TextureView) (render.BindGroup, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cached != nil && n.cached.source == source.ID() {
		return n.cached.group, nil
	}

	sampler, err := dev.CreateSampler(linearSampler())
	if err != nil {
		return nil, fmt.Errorf("fxaa: sampler: %w", err)
	}
	group, err := dev.CreateBindGroup(&render.BindGroupDescriptor{
		Label:  "fxaa_texture_bind_group",
		Layout: n.pipelines.Layout(),
		Entries: []render.BindGroupEntry{
			{Binding: bindingTexture, TextureView: source},
			{Binding: bindingSampler, Sampler: sampler},
		},
	})
	if err != nil {
		sampler.Destroy()
		return nil, fmt.Errorf("fxaa: bind group: %w", err)
	}

	if n.cached != nil {
		n.retired = append(n.retired, n.cached)
	}
	n.cached = &cachedBindGroup{source: source.ID(), group: group, sampler: sampler}
	Logger().Debug("fxaa: bind group created", "source", source.ID())
	return group, nil
}

var _ render.Node = (*Node)(nil)
