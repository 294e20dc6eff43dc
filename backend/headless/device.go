// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package headless

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/fxaa/render"
)

// Errors returned by the recording device.
var (
	// ErrInjected is returned by a creation call configured to fail.
	ErrInjected = errors.New("headless: injected failure")

	// ErrInvalidTexture is returned for a zero-sized texture.
	ErrInvalidTexture = errors.New("headless: invalid texture size")

	// ErrPassOpen is returned when a pass is begun while another one is open
	// or an encoder is finished with an open pass.
	ErrPassOpen = errors.New("headless: render pass still open")

	// ErrEncoderFinished is returned when a finished encoder is reused.
	ErrEncoderFinished = errors.New("headless: encoder already finished")
)

// Kind names a class of created object.
type Kind uint8

// Object kinds.
const (
	KindBindGroupLayout Kind = iota
	KindSampler
	KindBindGroup
	KindTexture
	KindTextureView
	KindShaderModule
	KindRenderPipeline
	KindCommandEncoder
	kindCount
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindBindGroupLayout:
		return "bind_group_layout"
	case KindSampler:
		return "sampler"
	case KindBindGroup:
		return "bind_group"
	case KindTexture:
		return "texture"
	case KindTextureView:
		return "texture_view"
	case KindShaderModule:
		return "shader_module"
	case KindRenderPipeline:
		return "render_pipeline"
	case KindCommandEncoder:
		return "command_encoder"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// DrawCall is one recorded draw.
type DrawCall struct {
	VertexCount, InstanceCount uint32
	FirstVertex, FirstInstance uint32
}

// PassRecord is one submitted render pass.
type PassRecord struct {
	Label string

	// Pipeline is the label of the bound pipeline, empty if none.
	Pipeline string

	// BindGroup is the identity of the bind group at index 0.
	BindGroup render.ResourceID

	// Sources are the texture views sampled through the bind group.
	Sources []render.ResourceID

	// Target is the color attachment view; TargetTexture its texture.
	Target        render.ResourceID
	TargetTexture render.ResourceID
	TargetFormat  gputypes.TextureFormat
	TargetSize    render.Size

	LoadOp gputypes.LoadOp
	Draws  []DrawCall
}

// Device is a recording render.Device.
type Device struct {
	mu        sync.Mutex
	created   [kindCount]int
	destroyed map[render.ResourceID]bool
	textures  map[render.ResourceID]*Texture
	passes    []PassRecord
	submits   int
	fail      map[Kind]error
}

// New creates a recording device.
func New() *Device {
	return &Device{
		destroyed: make(map[render.ResourceID]bool),
		textures:  make(map[render.ResourceID]*Texture),
		fail:      make(map[Kind]error),
	}
}

// FailNext makes every following creation of kind fail with err until
// cleared with a nil err.
func (d *Device) FailNext(kind Kind, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err == nil {
		delete(d.fail, kind)
		return
	}
	d.fail[kind] = err
}

// Created returns the number of objects of kind created so far.
func (d *Device) Created(kind Kind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.created[kind]
}

// Destroyed reports whether the object with id was destroyed.
func (d *Device) Destroyed(id render.ResourceID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.destroyed[id]
}

// Passes returns all submitted passes in submission order.
func (d *Device) Passes() []PassRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]PassRecord(nil), d.passes...)
}

// TakePasses returns and forgets the submitted passes.
func (d *Device) TakePasses() []PassRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := d.passes
	d.passes = nil
	return out
}

// Submits returns the number of Submit calls.
func (d *Device) Submits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.submits
}

// LiveTextures returns the number of textures not yet destroyed.
func (d *Device) LiveTextures() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for id := range d.textures {
		if !d.destroyed[id] {
			n++
		}
	}
	return n
}

// create counts a new object of kind, or returns the injected failure.
func (d *Device) create(kind Kind) (render.ResourceID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fail[kind]; err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrInjected, kind, err)
	}
	d.created[kind]++
	return render.NewResourceID(), nil
}

func (d *Device) destroy(id render.ResourceID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroyed[id] = true
}

// CreateBindGroupLayout records a layout.
func (d *Device) CreateBindGroupLayout(desc *gputypes.BindGroupLayoutDescriptor) (render.BindGroupLayout, error) {
	id, err := d.create(KindBindGroupLayout)
	if err != nil {
		return nil, err
	}
	entries := append([]gputypes.BindGroupLayoutEntry(nil), desc.Entries...)
	return &BindGroupLayout{resource: resource{d, id}, Label: desc.Label, Entries: entries}, nil
}

// CreateSampler records a sampler.
func (d *Device) CreateSampler(desc *gputypes.SamplerDescriptor) (render.Sampler, error) {
	id, err := d.create(KindSampler)
	if err != nil {
		return nil, err
	}
	return &Sampler{resource: resource{d, id}, Desc: *desc}, nil
}

// CreateBindGroup records a bind group.
func (d *Device) CreateBindGroup(desc *render.BindGroupDescriptor) (render.BindGroup, error) {
	id, err := d.create(KindBindGroup)
	if err != nil {
		return nil, err
	}
	bg := &BindGroup{resource: resource{d, id}}
	for _, e := range desc.Entries {
		if e.TextureView != nil {
			bg.Views = append(bg.Views, e.TextureView.ID())
		}
	}
	return bg, nil
}

// CreateTexture records a texture.
func (d *Device) CreateTexture(desc *render.TextureDescriptor) (render.Texture, error) {
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidTexture, desc.Width, desc.Height)
	}
	id, err := d.create(KindTexture)
	if err != nil {
		return nil, err
	}
	t := &Texture{resource: resource{d, id}, Desc: *desc}

	d.mu.Lock()
	d.textures[id] = t
	d.mu.Unlock()
	return t, nil
}

// CreateShaderModule records a shader module.
func (d *Device) CreateShaderModule(desc *render.ShaderModuleDescriptor) (render.ShaderModule, error) {
	id, err := d.create(KindShaderModule)
	if err != nil {
		return nil, err
	}
	return &ShaderModule{resource: resource{d, id}, Label: desc.Label, SPIRVWords: len(desc.SPIRV)}, nil
}

// CreateRenderPipeline records a pipeline.
func (d *Device) CreateRenderPipeline(desc *render.PipelineDescriptor) (render.RenderPipeline, error) {
	id, err := d.create(KindRenderPipeline)
	if err != nil {
		return nil, err
	}
	p := &RenderPipeline{resource: resource{d, id}, Label: desc.Label}
	if len(desc.Targets) > 0 {
		p.Format = desc.Targets[0].Format
	}
	return p, nil
}

// CreateCommandEncoder records an encoder.
func (d *Device) CreateCommandEncoder(label string) (render.CommandEncoder, error) {
	id, err := d.create(KindCommandEncoder)
	if err != nil {
		return nil, err
	}
	return &CommandEncoder{device: d, id: id, label: label}, nil
}

// Submit appends the passes of buffers to the device's pass log.
func (d *Device) Submit(buffers ...render.CommandBuffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.submits++
	for _, b := range buffers {
		cb, ok := b.(*CommandBuffer)
		if !ok {
			return fmt.Errorf("headless: foreign command buffer %T", b)
		}
		d.passes = append(d.passes, cb.passes...)
	}
	return nil
}

// Texture returns the recorded texture with id.
func (d *Device) Texture(id render.ResourceID) (*Texture, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	t, ok := d.textures[id]
	return t, ok
}

var _ render.Device = (*Device)(nil)

// Handle is a gpucontext.DeviceProvider for a headless device.
type Handle struct {
	device *Device
	format gputypes.TextureFormat
}

// NewHandle returns a device handle reporting format as surface format.
// Use TextureFormatUndefined for a host without surface.
func NewHandle(d *Device, format gputypes.TextureFormat) Handle {
	return Handle{device: d, format: format}
}

// Device returns the recording device.
func (h Handle) Device() gpucontext.Device { return h.device }

// Queue returns nil; submission goes through Device.Submit.
func (h Handle) Queue() gpucontext.Queue { return nil }

// Adapter returns nil.
func (h Handle) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns the configured format.
func (h Handle) SurfaceFormat() gputypes.TextureFormat { return h.format }

// AdapterInfo describes the recording device as a software adapter.
func (h Handle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: "headless", Type: gpucontext.AdapterTypeSoftware}
}

var _ render.DeviceHandle = Handle{}
