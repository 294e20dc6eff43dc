// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"

	"github.com/gogpu/fxaa/render"
)

// ErrForeignResource is returned when a resource created by another device
// is passed to this one.
var ErrForeignResource = errors.New("wgpu: resource not created by this device")

// Device adapts a *wgpu.Device to render.Device.
type Device struct {
	device *wgpu.Device
	queue  *wgpu.Queue
}

// NewDevice wraps an existing wgpu device. The caller keeps ownership.
func NewDevice(device *wgpu.Device) *Device {
	return &Device{device: device, queue: device.Queue()}
}

// Raw returns the wrapped wgpu device.
func (d *Device) Raw() *wgpu.Device { return d.device }

// CreateBindGroupLayout implements render.Device.
func (d *Device) CreateBindGroupLayout(desc *gputypes.BindGroupLayoutDescriptor) (render.BindGroupLayout, error) {
	l, err := d.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label:   desc.Label,
		Entries: desc.Entries,
	})
	if err != nil {
		return nil, err
	}
	return &BindGroupLayout{id: render.NewResourceID(), raw: l}, nil
}

// CreateSampler implements render.Device.
func (d *Device) CreateSampler(desc *gputypes.SamplerDescriptor) (render.Sampler, error) {
	s, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:        desc.Label,
		AddressModeU: desc.AddressModeU,
		AddressModeV: desc.AddressModeV,
		AddressModeW: desc.AddressModeW,
		MagFilter:    desc.MagFilter,
		MinFilter:    desc.MinFilter,
		MipmapFilter: wgpu.FilterMode(desc.MipmapFilter),
		LodMinClamp:  desc.LodMinClamp,
		LodMaxClamp:  desc.LodMaxClamp,
		Compare:      desc.Compare,
		Anisotropy:   desc.MaxAnisotropy,
	})
	if err != nil {
		return nil, err
	}
	return &Sampler{id: render.NewResourceID(), raw: s}, nil
}

// CreateBindGroup implements render.Device.
func (d *Device) CreateBindGroup(desc *render.BindGroupDescriptor) (render.BindGroup, error) {
	layout, ok := desc.Layout.(*BindGroupLayout)
	if !ok {
		return nil, fmt.Errorf("bind group %q layout: %w", desc.Label, ErrForeignResource)
	}
	entries := make([]wgpu.BindGroupEntry, 0, len(desc.Entries))
	for _, e := range desc.Entries {
		entry := wgpu.BindGroupEntry{Binding: e.Binding}
		switch {
		case e.TextureView != nil:
			v, ok := e.TextureView.(*TextureView)
			if !ok {
				return nil, fmt.Errorf("bind group %q binding %d: %w", desc.Label, e.Binding, ErrForeignResource)
			}
			entry.TextureView = v.raw
		case e.Sampler != nil:
			s, ok := e.Sampler.(*Sampler)
			if !ok {
				return nil, fmt.Errorf("bind group %q binding %d: %w", desc.Label, e.Binding, ErrForeignResource)
			}
			entry.Sampler = s.raw
		}
		entries = append(entries, entry)
	}
	g, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   desc.Label,
		Layout:  layout.raw,
		Entries: entries,
	})
	if err != nil {
		return nil, err
	}
	return &BindGroup{id: render.NewResourceID(), raw: g}, nil
}

// CreateTexture implements render.Device.
func (d *Device) CreateTexture(desc *render.TextureDescriptor) (render.Texture, error) {
	t, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: desc.Label,
		Size: wgpu.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: max(desc.MipLevelCount, 1),
		SampleCount:   max(desc.SampleCount, 1),
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Usage:         desc.Usage.GPUTypes(),
	})
	if err != nil {
		return nil, err
	}
	return &Texture{id: render.NewResourceID(), device: d.device, raw: t, desc: *desc}, nil
}

// CreateShaderModule implements render.Device.
func (d *Device) CreateShaderModule(desc *render.ShaderModuleDescriptor) (render.ShaderModule, error) {
	md := &wgpu.ShaderModuleDescriptor{Label: desc.Label}
	if len(desc.SPIRV) > 0 {
		md.SPIRV = desc.SPIRV
	} else {
		md.WGSL = desc.WGSL
	}
	m, err := d.device.CreateShaderModule(md)
	if err != nil {
		return nil, err
	}
	return &ShaderModule{id: render.NewResourceID(), raw: m}, nil
}

// CreateRenderPipeline implements render.Device. A pipeline layout is
// created from the bind group layouts and owned by the pipeline.
func (d *Device) CreateRenderPipeline(desc *render.PipelineDescriptor) (render.RenderPipeline, error) {
	layouts := make([]*wgpu.BindGroupLayout, 0, len(desc.BindGroupLayouts))
	for i, l := range desc.BindGroupLayouts {
		bl, ok := l.(*BindGroupLayout)
		if !ok {
			return nil, fmt.Errorf("pipeline %q layout %d: %w", desc.Label, i, ErrForeignResource)
		}
		layouts = append(layouts, bl.raw)
	}
	vs, ok := desc.VertexModule.(*ShaderModule)
	if !ok {
		return nil, fmt.Errorf("pipeline %q vertex module: %w", desc.Label, ErrForeignResource)
	}

	pl, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: layouts,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline %q layout: %w", desc.Label, err)
	}

	pd := &wgpu.RenderPipelineDescriptor{
		Label:  desc.Label,
		Layout: pl,
		Vertex: wgpu.VertexState{
			Module:     vs.raw,
			EntryPoint: desc.VertexEntryPoint,
		},
		Primitive:   desc.Primitive,
		Multisample: desc.Multisample,
	}
	if desc.FragmentModule != nil {
		fs, ok := desc.FragmentModule.(*ShaderModule)
		if !ok {
			pl.Release()
			return nil, fmt.Errorf("pipeline %q fragment module: %w", desc.Label, ErrForeignResource)
		}
		pd.Fragment = &wgpu.FragmentState{
			Module:     fs.raw,
			EntryPoint: desc.FragmentEntryPoint,
			Targets:    desc.Targets,
		}
	}

	p, err := d.device.CreateRenderPipeline(pd)
	if err != nil {
		pl.Release()
		return nil, err
	}
	return &RenderPipeline{id: render.NewResourceID(), raw: p, layout: pl}, nil
}

// CreateCommandEncoder implements render.Device.
func (d *Device) CreateCommandEncoder(label string) (render.CommandEncoder, error) {
	e, err := d.device.CreateCommandEncoder(&wgpu.CommandEncoderDescriptor{Label: label})
	if err != nil {
		return nil, err
	}
	return &CommandEncoder{raw: e}, nil
}

// Submit implements render.Device. The queue takes ownership of the buffers.
func (d *Device) Submit(buffers ...render.CommandBuffer) error {
	raw := make([]*wgpu.CommandBuffer, 0, len(buffers))
	for _, b := range buffers {
		cb, ok := b.(*CommandBuffer)
		if !ok {
			return fmt.Errorf("submit: %w", ErrForeignResource)
		}
		raw = append(raw, cb.raw)
	}
	_, err := d.queue.Submit(raw...)
	return err
}

var _ render.Device = (*Device)(nil)

// Handle describes a wgpu device to the host. It implements
// gpucontext.DeviceProvider.
type Handle struct {
	device  *wgpu.Device
	adapter *wgpu.Adapter
	format  gputypes.TextureFormat
}

// NewHandle returns a provider for the device. format is the surface format,
// or Undefined when rendering offscreen.
func NewHandle(adapter *wgpu.Adapter, device *wgpu.Device, format gputypes.TextureFormat) Handle {
	return Handle{device: device, adapter: adapter, format: format}
}

// Device returns the *wgpu.Device.
func (h Handle) Device() gpucontext.Device { return h.device }

// Queue returns the device queue.
func (h Handle) Queue() gpucontext.Queue {
	if h.device == nil {
		return nil
	}
	return h.device.Queue()
}

// Adapter returns the *wgpu.Adapter.
func (h Handle) Adapter() gpucontext.Adapter { return h.adapter }

// SurfaceFormat returns the configured surface format.
func (h Handle) SurfaceFormat() gputypes.TextureFormat { return h.format }

// AdapterInfo reports the adapter name and class.
func (h Handle) AdapterInfo() gpucontext.AdapterInfo {
	if h.adapter == nil {
		return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
	}
	info := h.adapter.Info()
	return gpucontext.AdapterInfo{Name: info.Name, Type: adapterType(info.DeviceType)}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

var _ render.DeviceHandle = Handle{}
