// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"sync/atomic"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from the host application.
//
// The host owns the device; render only receives it. DeviceHandle is an
// alias for gpucontext.DeviceProvider so any gpucontext host can be plugged
// in directly.
type DeviceHandle = gpucontext.DeviceProvider

// ResourceID is a process-unique identity of a GPU resource.
// Two handles with the same ID refer to the same underlying object.
type ResourceID uint64

var lastResourceID atomic.Uint64

// NewResourceID returns a fresh resource identity. Backends call it once per
// created object.
func NewResourceID() ResourceID {
	return ResourceID(lastResourceID.Add(1))
}

// Device creates GPU objects and submits recorded work.
//
// Backends implement Device over a real GPU (backend/wgpu) or by recording
// calls (backend/headless).
type Device interface {
	CreateBindGroupLayout(desc *gputypes.BindGroupLayoutDescriptor) (BindGroupLayout, error)
	CreateSampler(desc *gputypes.SamplerDescriptor) (Sampler, error)
	CreateBindGroup(desc *BindGroupDescriptor) (BindGroup, error)
	CreateTexture(desc *TextureDescriptor) (Texture, error)
	CreateShaderModule(desc *ShaderModuleDescriptor) (ShaderModule, error)
	CreateRenderPipeline(desc *PipelineDescriptor) (RenderPipeline, error)
	CreateCommandEncoder(label string) (CommandEncoder, error)
	Submit(buffers ...CommandBuffer) error
}

// Object is the common part of every GPU object handle.
type Object interface {
	// ID returns the identity of the underlying object.
	ID() ResourceID

	// Destroy releases the underlying object.
	Destroy()
}

// TextureDescriptor describes parameters for creating a texture.
// It is comparable and used as a texture cache key.
type TextureDescriptor struct {
	// Label is an optional debug label for the texture.
	Label string

	// Width is the texture width in pixels.
	Width uint32

	// Height is the texture height in pixels.
	Height uint32

	// MipLevelCount is the number of mipmap levels.
	MipLevelCount uint32

	// SampleCount is the number of samples for multisampling.
	SampleCount uint32

	// Format is the texture pixel format.
	Format gputypes.TextureFormat

	// Usage specifies how the texture will be used.
	Usage TextureUsage
}

// TextureUsage specifies how a texture can be used.
// These flags can be combined with bitwise OR.
type TextureUsage uint32

const (
	// TextureUsageCopySrc allows the texture to be used as a copy source.
	TextureUsageCopySrc TextureUsage = 1 << iota

	// TextureUsageCopyDst allows the texture to be used as a copy destination.
	TextureUsageCopyDst

	// TextureUsageTextureBinding allows the texture to be sampled.
	TextureUsageTextureBinding

	// TextureUsageStorageBinding allows the texture to be used in a storage binding.
	TextureUsageStorageBinding

	// TextureUsageRenderAttachment allows the texture to be used as a render attachment.
	TextureUsageRenderAttachment
)

// GPUTypes converts the flags to the WebGPU usage bitset.
func (u TextureUsage) GPUTypes() gputypes.TextureUsage {
	var out gputypes.TextureUsage
	if u&TextureUsageCopySrc != 0 {
		out |= gputypes.TextureUsageCopySrc
	}
	if u&TextureUsageCopyDst != 0 {
		out |= gputypes.TextureUsageCopyDst
	}
	if u&TextureUsageTextureBinding != 0 {
		out |= gputypes.TextureUsageTextureBinding
	}
	if u&TextureUsageStorageBinding != 0 {
		out |= gputypes.TextureUsageStorageBinding
	}
	if u&TextureUsageRenderAttachment != 0 {
		out |= gputypes.TextureUsageRenderAttachment
	}
	return out
}

// DefaultTextureDescriptor returns a TextureDescriptor with sensible defaults.
// Only Width, Height, and Format need to be set.
func DefaultTextureDescriptor(width, height uint32, format gputypes.TextureFormat) TextureDescriptor {
	return TextureDescriptor{
		Width:         width,
		Height:        height,
		MipLevelCount: 1,
		SampleCount:   1,
		Format:        format,
		Usage:         TextureUsageTextureBinding | TextureUsageRenderAttachment,
	}
}

// Texture represents a GPU texture resource.
type Texture interface {
	Object

	// Width returns the texture width in pixels.
	Width() uint32

	// Height returns the texture height in pixels.
	Height() uint32

	// Format returns the texture pixel format.
	Format() gputypes.TextureFormat

	// CreateView creates a view over the whole texture.
	CreateView() (TextureView, error)
}

// TextureView represents a view into a texture.
// Views are used to bind textures to shader stages and as attachments.
type TextureView interface {
	Object
}

// BindGroupLayout is a compiled binding contract.
type BindGroupLayout interface {
	Object
}

// Sampler is a texture sampler object.
type Sampler interface {
	Object
}

// BindGroup binds concrete resources to a BindGroupLayout.
type BindGroup interface {
	Object
}

// ShaderModule is a compiled shader.
type ShaderModule interface {
	Object
}

// RenderPipeline is a compiled graphics pipeline.
type RenderPipeline interface {
	Object
}

// CommandBuffer is finished, submittable GPU work.
type CommandBuffer interface {
	ID() ResourceID
}

// BindGroupEntry binds one resource. Exactly one of TextureView and
// Sampler is set.
type BindGroupEntry struct {
	Binding     uint32
	TextureView TextureView
	Sampler     Sampler
}

// BindGroupDescriptor describes a bind group.
type BindGroupDescriptor struct {
	Label   string
	Layout  BindGroupLayout
	Entries []BindGroupEntry
}

// ShaderModuleDescriptor carries shader code. Backends use SPIRV when set,
// otherwise WGSL.
type ShaderModuleDescriptor struct {
	Label string
	WGSL  string
	SPIRV []uint32
}

// PipelineDescriptor is the device-level render pipeline descriptor with
// compiled shader modules. Use RenderPipelineDescriptor with PipelineCache
// instead of creating pipelines directly.
type PipelineDescriptor struct {
	Label              string
	BindGroupLayouts   []BindGroupLayout
	VertexModule       ShaderModule
	VertexEntryPoint   string
	FragmentModule     ShaderModule
	FragmentEntryPoint string
	Targets            []gputypes.ColorTargetState
	Primitive          gputypes.PrimitiveState
	Multisample        gputypes.MultisampleState
}

// RenderPassColorAttachment is a color target of a render pass.
type RenderPassColorAttachment struct {
	View       TextureView
	LoadOp     gputypes.LoadOp
	StoreOp    gputypes.StoreOp
	ClearValue gputypes.Color
}

// RenderPassDescriptor describes a render pass.
type RenderPassDescriptor struct {
	Label            string
	ColorAttachments []RenderPassColorAttachment
}

// CommandEncoder records GPU commands.
type CommandEncoder interface {
	BeginRenderPass(desc *RenderPassDescriptor) (RenderPass, error)
	Finish() (CommandBuffer, error)
}

// RenderPass records draw commands into one set of attachments.
type RenderPass interface {
	SetPipeline(p RenderPipeline)
	SetBindGroup(index uint32, group BindGroup, dynamicOffsets []uint32)
	Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32)
	End() error
}

// DefaultDisplayFormat is the display format used when the host has no
// surface attached.
const DefaultDisplayFormat = gputypes.TextureFormatRGBA8UnormSrgb

// DisplayFormat returns the format of the host surface, or
// DefaultDisplayFormat for headless hosts.
func DisplayFormat(h DeviceHandle) gputypes.TextureFormat {
	if h == nil {
		return DefaultDisplayFormat
	}
	if f := h.SurfaceFormat(); f != gputypes.TextureFormatUndefined {
		return f
	}
	return DefaultDisplayFormat
}

// NullDeviceHandle is a DeviceHandle that provides nil implementations.
// Used for headless rendering where no host surface exists.
type NullDeviceHandle struct{}

// Device returns nil for the null device.
func (NullDeviceHandle) Device() gpucontext.Device { return nil }

// Queue returns nil for the null device.
func (NullDeviceHandle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil for the null device.
func (NullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns undefined format for the null device.
func (NullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo reports an unknown adapter.
func (NullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "null", Type: gpucontext.AdapterTypeUnknown}
}

// Ensure NullDeviceHandle implements DeviceHandle.
var _ DeviceHandle = NullDeviceHandle{}
