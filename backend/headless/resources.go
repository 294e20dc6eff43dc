// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/fxaa/render"
)

// resource is the identity shared by all recorded objects.
type resource struct {
	device *Device
	id     render.ResourceID
}

// ID returns the object identity.
func (r resource) ID() render.ResourceID { return r.id }

// Destroy marks the object destroyed.
func (r resource) Destroy() { r.device.destroy(r.id) }

// BindGroupLayout is a recorded layout.
type BindGroupLayout struct {
	resource
	Label   string
	Entries []gputypes.BindGroupLayoutEntry
}

// Sampler is a recorded sampler.
type Sampler struct {
	resource
	Desc gputypes.SamplerDescriptor
}

// BindGroup is a recorded bind group.
type BindGroup struct {
	resource
	Views []render.ResourceID
}

// ShaderModule is a recorded shader module.
type ShaderModule struct {
	resource
	Label      string
	SPIRVWords int
}

// RenderPipeline is a recorded pipeline.
type RenderPipeline struct {
	resource
	Label  string
	Format gputypes.TextureFormat
}

// Texture is a recorded texture.
type Texture struct {
	resource
	Desc render.TextureDescriptor
}

// Width returns the texture width.
func (t *Texture) Width() uint32 { return t.Desc.Width }

// Height returns the texture height.
func (t *Texture) Height() uint32 { return t.Desc.Height }

// Format returns the texture format.
func (t *Texture) Format() gputypes.TextureFormat { return t.Desc.Format }

// CreateView records a view over t.
func (t *Texture) CreateView() (render.TextureView, error) {
	id, err := t.device.create(KindTextureView)
	if err != nil {
		return nil, err
	}
	return &TextureView{resource: resource{t.device, id}, texture: t}, nil
}

// TextureView is a recorded texture view.
type TextureView struct {
	resource
	texture *Texture
}

// Texture returns the viewed texture.
func (v *TextureView) Texture() *Texture { return v.texture }

// CommandEncoder records render passes.
type CommandEncoder struct {
	device   *Device
	id       render.ResourceID
	label    string
	passes   []PassRecord
	open     *RenderPass
	finished bool
}

// BeginRenderPass starts recording a pass.
func (e *CommandEncoder) BeginRenderPass(desc *render.RenderPassDescriptor) (render.RenderPass, error) {
	if e.finished {
		return nil, ErrEncoderFinished
	}
	if e.open != nil {
		return nil, ErrPassOpen
	}

	rec := PassRecord{Label: desc.Label}
	if len(desc.ColorAttachments) > 0 {
		a := desc.ColorAttachments[0]
		rec.LoadOp = a.LoadOp
		if a.View != nil {
			rec.Target = a.View.ID()
			if v, ok := a.View.(*TextureView); ok {
				rec.TargetTexture = v.texture.id
				rec.TargetFormat = v.texture.Desc.Format
				rec.TargetSize = render.Size{Width: v.texture.Desc.Width, Height: v.texture.Desc.Height}
			}
		}
	}
	e.open = &RenderPass{encoder: e, rec: rec}
	return e.open, nil
}

// Finish closes the encoder.
func (e *CommandEncoder) Finish() (render.CommandBuffer, error) {
	if e.finished {
		return nil, ErrEncoderFinished
	}
	if e.open != nil {
		return nil, ErrPassOpen
	}
	e.finished = true
	return &CommandBuffer{id: e.id, passes: e.passes}, nil
}

// RenderPass records one pass.
type RenderPass struct {
	encoder *CommandEncoder
	rec     PassRecord
}

// SetPipeline records the bound pipeline.
func (p *RenderPass) SetPipeline(pl render.RenderPipeline) {
	if rp, ok := pl.(*RenderPipeline); ok {
		p.rec.Pipeline = rp.Label
	}
}

// SetBindGroup records the bind group at index 0.
func (p *RenderPass) SetBindGroup(index uint32, group render.BindGroup, _ []uint32) {
	if index != 0 || group == nil {
		return
	}
	p.rec.BindGroup = group.ID()
	if bg, ok := group.(*BindGroup); ok {
		p.rec.Sources = append([]render.ResourceID(nil), bg.Views...)
	}
}

// Draw records a draw call.
func (p *RenderPass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.rec.Draws = append(p.rec.Draws, DrawCall{vertexCount, instanceCount, firstVertex, firstInstance})
}

// End closes the pass.
func (p *RenderPass) End() error {
	if p.encoder.open != p {
		return ErrPassOpen
	}
	p.encoder.passes = append(p.encoder.passes, p.rec)
	p.encoder.open = nil
	return nil
}

// CommandBuffer holds the passes of a finished encoder.
type CommandBuffer struct {
	id     render.ResourceID
	passes []PassRecord
}

// ID returns the identity of the encoder that produced the buffer.
func (b *CommandBuffer) ID() render.ResourceID { return b.id }
