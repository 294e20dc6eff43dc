// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/fxaa/render"
)

// BindGroupLayout wraps *wgpu.BindGroupLayout.
type BindGroupLayout struct {
	id  render.ResourceID
	raw *wgpu.BindGroupLayout
}

// ID implements render.Object.
func (l *BindGroupLayout) ID() render.ResourceID { return l.id }

// Destroy implements render.Object.
func (l *BindGroupLayout) Destroy() { l.raw.Release() }

// Sampler wraps *wgpu.Sampler.
type Sampler struct {
	id  render.ResourceID
	raw *wgpu.Sampler
}

// ID implements render.Object.
func (s *Sampler) ID() render.ResourceID { return s.id }

// Destroy implements render.Object.
func (s *Sampler) Destroy() { s.raw.Release() }

// BindGroup wraps *wgpu.BindGroup.
type BindGroup struct {
	id  render.ResourceID
	raw *wgpu.BindGroup
}

// ID implements render.Object.
func (g *BindGroup) ID() render.ResourceID { return g.id }

// Destroy implements render.Object.
func (g *BindGroup) Destroy() { g.raw.Release() }

// ShaderModule wraps *wgpu.ShaderModule.
type ShaderModule struct {
	id  render.ResourceID
	raw *wgpu.ShaderModule
}

// ID implements render.Object.
func (m *ShaderModule) ID() render.ResourceID { return m.id }

// Destroy implements render.Object.
func (m *ShaderModule) Destroy() { m.raw.Release() }

// RenderPipeline wraps *wgpu.RenderPipeline and the layout created for it.
type RenderPipeline struct {
	id     render.ResourceID
	raw    *wgpu.RenderPipeline
	layout *wgpu.PipelineLayout
}

// ID implements render.Object.
func (p *RenderPipeline) ID() render.ResourceID { return p.id }

// Destroy releases the pipeline and its layout.
func (p *RenderPipeline) Destroy() {
	p.raw.Release()
	p.layout.Release()
}

// Texture wraps *wgpu.Texture.
type Texture struct {
	id     render.ResourceID
	device *wgpu.Device
	raw    *wgpu.Texture
	desc   render.TextureDescriptor
}

// ID implements render.Object.
func (t *Texture) ID() render.ResourceID { return t.id }

// Destroy implements render.Object.
func (t *Texture) Destroy() { t.raw.Release() }

// Width implements render.Texture.
func (t *Texture) Width() uint32 { return t.desc.Width }

// Height implements render.Texture.
func (t *Texture) Height() uint32 { return t.desc.Height }

// Format implements render.Texture.
func (t *Texture) Format() gputypes.TextureFormat { return t.raw.Format() }

// CreateView implements render.Texture.
func (t *Texture) CreateView() (render.TextureView, error) {
	v, err := t.device.CreateTextureView(t.raw, nil)
	if err != nil {
		return nil, fmt.Errorf("texture %q view: %w", t.desc.Label, err)
	}
	return &TextureView{id: render.NewResourceID(), raw: v}, nil
}

// TextureView wraps *wgpu.TextureView.
type TextureView struct {
	id  render.ResourceID
	raw *wgpu.TextureView
}

// ID implements render.Object.
func (v *TextureView) ID() render.ResourceID { return v.id }

// Destroy implements render.Object.
func (v *TextureView) Destroy() { v.raw.Release() }

// CommandEncoder wraps *wgpu.CommandEncoder.
type CommandEncoder struct {
	raw *wgpu.CommandEncoder
}

// BeginRenderPass implements render.CommandEncoder.
func (e *CommandEncoder) BeginRenderPass(desc *render.RenderPassDescriptor) (render.RenderPass, error) {
	attachments := make([]wgpu.RenderPassColorAttachment, 0, len(desc.ColorAttachments))
	for i, a := range desc.ColorAttachments {
		v, ok := a.View.(*TextureView)
		if !ok {
			return nil, fmt.Errorf("pass %q attachment %d: %w", desc.Label, i, ErrForeignResource)
		}
		attachments = append(attachments, wgpu.RenderPassColorAttachment{
			View:       v.raw,
			LoadOp:     a.LoadOp,
			StoreOp:    a.StoreOp,
			ClearValue: a.ClearValue,
		})
	}
	p, err := e.raw.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label:            desc.Label,
		ColorAttachments: attachments,
	})
	if err != nil {
		return nil, err
	}
	return &RenderPass{raw: p}, nil
}

// Finish implements render.CommandEncoder.
func (e *CommandEncoder) Finish() (render.CommandBuffer, error) {
	cb, err := e.raw.Finish()
	if err != nil {
		return nil, err
	}
	return &CommandBuffer{id: render.NewResourceID(), raw: cb}, nil
}

// RenderPass wraps *wgpu.RenderPassEncoder. Resources of other devices are
// ignored; the encoder reports the missing state when drawing.
type RenderPass struct {
	raw *wgpu.RenderPassEncoder
}

// SetPipeline implements render.RenderPass.
func (p *RenderPass) SetPipeline(pl render.RenderPipeline) {
	if rp, ok := pl.(*RenderPipeline); ok {
		p.raw.SetPipeline(rp.raw)
	}
}

// SetBindGroup implements render.RenderPass.
func (p *RenderPass) SetBindGroup(index uint32, group render.BindGroup, dynamicOffsets []uint32) {
	if g, ok := group.(*BindGroup); ok {
		p.raw.SetBindGroup(index, g.raw, dynamicOffsets)
	}
}

// Draw implements render.RenderPass.
func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.raw.Draw(vertexCount, instanceCount, firstVertex, firstInstance)
}

// End implements render.RenderPass.
func (p *RenderPass) End() error { return p.raw.End() }

// CommandBuffer wraps *wgpu.CommandBuffer.
type CommandBuffer struct {
	id  render.ResourceID
	raw *wgpu.CommandBuffer
}

// ID implements render.CommandBuffer.
func (b *CommandBuffer) ID() render.ResourceID { return b.id }
