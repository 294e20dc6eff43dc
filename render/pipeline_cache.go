// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/fxaa/internal/cache"
	"github.com/gogpu/fxaa/internal/shader"
	"github.com/gogpu/gputypes"
)

// Pipeline cache errors.
var (
	// ErrPipelineNotQueued is returned for an id the cache never handed out.
	ErrPipelineNotQueued = errors.New("render: pipeline id not queued")

	// ErrMissingVertexShader is returned for a descriptor without a vertex shader.
	ErrMissingVertexShader = errors.New("render: vertex shader is required")
)

// shaderModuleCapacity bounds the number of compiled shader modules kept alive.
const shaderModuleCapacity = 64

// ShaderCompiler turns preprocessed WGSL into SPIR-V. A nil compiler hands
// WGSL to the device unchanged.
type ShaderCompiler func(wgsl string) ([]uint32, error)

// CachedPipelineID identifies a queued pipeline. It is valid for the
// lifetime of the PipelineCache that returned it.
type CachedPipelineID uint32

// PipelineState is the compilation state of a queued pipeline.
type PipelineState uint8

// Pipeline states.
const (
	PipelineQueued PipelineState = iota
	PipelineReady
	PipelineFailed
)

// String returns the state name.
func (s PipelineState) String() string {
	switch s {
	case PipelineQueued:
		return "queued"
	case PipelineReady:
		return "ready"
	case PipelineFailed:
		return "failed"
	default:
		return fmt.Sprintf("PipelineState(%d)", uint8(s))
	}
}

// VertexState selects the vertex stage of a pipeline. No vertex buffers
// are supported; vertex stages generate their geometry procedurally.
type VertexState struct {
	Shader     shader.Handle
	EntryPoint string
	ShaderDefs []string
}

// FragmentState selects the fragment stage and color targets.
type FragmentState struct {
	Shader     shader.Handle
	EntryPoint string
	ShaderDefs []string
	Targets    []gputypes.ColorTargetState
}

// RenderPipelineDescriptor describes a render pipeline by shader asset and
// shader defs. Descriptors are immutable once queued.
type RenderPipelineDescriptor struct {
	Label       string
	Layout      []BindGroupLayout
	Vertex      VertexState
	Fragment    *FragmentState
	Primitive   gputypes.PrimitiveState
	Multisample gputypes.MultisampleState
}

// cachedPipeline is one slot of the cache.
type cachedPipeline struct {
	desc     RenderPipelineDescriptor
	state    PipelineState
	pipeline RenderPipeline
	err      error
}

// PipelineCache is a content-addressed, deferred render pipeline cache.
//
// QueueRenderPipeline returns an id immediately; the pipeline is compiled
// by the next ProcessQueue call. Until then RenderPipeline returns nil and
// callers are expected to skip the work that needs it.
//
// PipelineCache is safe for concurrent use.
type PipelineCache struct {
	device   Device
	compiler ShaderCompiler

	mu      sync.RWMutex
	byHash  map[uint64]CachedPipelineID
	entries []*cachedPipeline
	pending []CachedPipelineID

	modules *cache.Cache[string, ShaderModule]

	hits   atomic.Uint64
	misses atomic.Uint64
}

// PipelineCacheOption configures a PipelineCache.
type PipelineCacheOption func(*PipelineCache)

// WithShaderCompiler replaces the WGSL to SPIR-V compiler. Pass nil to hand
// WGSL to the device directly.
func WithShaderCompiler(c ShaderCompiler) PipelineCacheOption {
	return func(pc *PipelineCache) {
		pc.compiler = c
	}
}

// NewPipelineCache creates a pipeline cache for a device. By default WGSL is
// compiled to SPIR-V with naga.
func NewPipelineCache(device Device, opts ...PipelineCacheOption) *PipelineCache {
	c := &PipelineCache{
		device:   device,
		compiler: shader.CompileSPIRV,
		byHash:   make(map[uint64]CachedPipelineID),
		modules: cache.New[string, ShaderModule](shaderModuleCapacity, func(_ string, m ShaderModule) {
			m.Destroy()
		}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// QueueRenderPipeline returns the id of an identical, already queued
// descriptor, or queues desc for compilation.
func (c *PipelineCache) QueueRenderPipeline(desc RenderPipelineDescriptor) CachedPipelineID {
	h := HashRenderPipelineDescriptor(&desc)

	// Fast path: read lock
	c.mu.RLock()
	if id, ok := c.byHash[h]; ok {
		c.mu.RUnlock()
		c.hits.Add(1)
		return id
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if id, ok := c.byHash[h]; ok {
		c.hits.Add(1)
		return id
	}

	id := CachedPipelineID(len(c.entries))
	c.entries = append(c.entries, &cachedPipeline{desc: cloneDescriptor(desc)})
	c.byHash[h] = id
	c.pending = append(c.pending, id)
	c.misses.Add(1)
	return id
}

// RenderPipeline returns the compiled pipeline, or nil if it is not ready.
func (c *PipelineCache) RenderPipeline(id CachedPipelineID) RenderPipeline {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if int(id) >= len(c.entries) {
		return nil
	}
	e := c.entries[id]
	if e.state != PipelineReady {
		return nil
	}
	return e.pipeline
}

// State returns the compilation state of id.
func (c *PipelineCache) State(id CachedPipelineID) (PipelineState, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if int(id) >= len(c.entries) {
		return PipelineFailed, ErrPipelineNotQueued
	}
	e := c.entries[id]
	return e.state, e.err
}

// Descriptor returns the queued descriptor of id.
func (c *PipelineCache) Descriptor(id CachedPipelineID) (RenderPipelineDescriptor, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if int(id) >= len(c.entries) {
		return RenderPipelineDescriptor{}, false
	}
	return c.entries[id].desc, true
}

// ProcessQueue compiles every pending pipeline. A failed pipeline stays in
// PipelineFailed and is never retried; the failure is logged.
// It returns the number of pipelines that became ready.
func (c *PipelineCache) ProcessQueue() int {
	c.mu.Lock()
	pending := c.pending
	c.pending = nil
	jobs := make([]*cachedPipeline, len(pending))
	for i, id := range pending {
		jobs[i] = c.entries[id]
	}
	c.mu.Unlock()

	ready := 0
	for i, e := range jobs {
		p, err := c.compile(&e.desc)

		c.mu.Lock()
		if err != nil {
			e.state = PipelineFailed
			e.err = err
		} else {
			e.state = PipelineReady
			e.pipeline = p
			ready++
		}
		c.mu.Unlock()

		if err != nil {
			slogger().Warn("render: pipeline compilation failed",
				"id", pending[i], "label", e.desc.Label, "err", err)
		} else {
			slogger().Debug("render: pipeline ready", "id", pending[i], "label", e.desc.Label)
		}
	}
	return ready
}

// compile preprocesses, compiles and creates one pipeline.
func (c *PipelineCache) compile(desc *RenderPipelineDescriptor) (RenderPipeline, error) {
	if desc.Vertex.Shader == shader.Invalid {
		return nil, ErrMissingVertexShader
	}

	fragment := shader.Invalid
	defs := append([]string(nil), desc.Vertex.ShaderDefs...)
	if desc.Fragment != nil {
		fragment = desc.Fragment.Shader
		defs = append(defs, desc.Fragment.ShaderDefs...)
	}

	key := moduleKey(desc.Vertex.Shader, fragment, defs)
	module, err := c.modules.GetOrCreate(key, func() (ShaderModule, error) {
		src, err := shader.Module(desc.Vertex.Shader, fragment, defs)
		if err != nil {
			return nil, err
		}
		md := &ShaderModuleDescriptor{Label: key, WGSL: src}
		if c.compiler != nil {
			words, err := c.compiler(src)
			if err != nil {
				return nil, err
			}
			md.SPIRV = words
		}
		return c.device.CreateShaderModule(md)
	})
	if err != nil {
		return nil, fmt.Errorf("%s: shader module: %w", desc.Label, err)
	}

	pd := &PipelineDescriptor{
		Label:            desc.Label,
		BindGroupLayouts: desc.Layout,
		VertexModule:     module,
		VertexEntryPoint: desc.Vertex.EntryPoint,
		Primitive:        desc.Primitive,
		Multisample:      desc.Multisample,
	}
	if desc.Fragment != nil {
		pd.FragmentModule = module
		pd.FragmentEntryPoint = desc.Fragment.EntryPoint
		pd.Targets = desc.Fragment.Targets
	}

	p, err := c.device.CreateRenderPipeline(pd)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", desc.Label, err)
	}
	return p, nil
}

// Stats returns the number of queue hits (deduplicated descriptors) and
// misses (newly queued descriptors).
func (c *PipelineCache) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}

// HitRate returns the queue hit rate (0.0 to 1.0).
//
// Returns 0.0 if nothing has been queued.
func (c *PipelineCache) HitRate() float64 {
	hits, misses := c.Stats()
	total := hits + misses
	if total == 0 {
		return 0.0
	}
	return float64(hits) / float64(total)
}

// Size returns the number of queued pipelines, ready or not.
func (c *PipelineCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Pending returns the number of pipelines waiting for ProcessQueue.
func (c *PipelineCache) Pending() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pending)
}

// DestroyAll destroys all compiled pipelines and shader modules.
// Previously returned ids become invalid.
func (c *PipelineCache) DestroyAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		if e.pipeline != nil {
			e.pipeline.Destroy()
		}
	}
	c.modules.Purge()
	c.entries = nil
	c.pending = nil
	c.byHash = make(map[uint64]CachedPipelineID)
	c.hits.Store(0)
	c.misses.Store(0)
}

func moduleKey(vertex, fragment shader.Handle, defs []string) string {
	return vertex.String() + "+" + fragment.String() + "[" + strings.Join(defs, ",") + "]"
}

func cloneDescriptor(d RenderPipelineDescriptor) RenderPipelineDescriptor {
	d.Layout = append([]BindGroupLayout(nil), d.Layout...)
	d.Vertex.ShaderDefs = append([]string(nil), d.Vertex.ShaderDefs...)
	if d.Fragment != nil {
		f := *d.Fragment
		f.ShaderDefs = append([]string(nil), f.ShaderDefs...)
		f.Targets = append([]gputypes.ColorTargetState(nil), f.Targets...)
		d.Fragment = &f
	}
	return d
}

// =============================================================================
// Descriptor Hashing
// =============================================================================

// HashRenderPipelineDescriptor computes a hash for a render pipeline descriptor.
//
// The hash includes every field that affects the compiled pipeline. The
// label is part of the identity. Uses FNV-1a.
func HashRenderPipelineDescriptor(desc *RenderPipelineDescriptor) uint64 {
	h := fnv.New64a()

	hashWriteString(h, desc.Label)

	hashWriteUint32(h, uint32(len(desc.Layout)))
	for _, l := range desc.Layout {
		if l == nil {
			hashWriteUint64(h, 0)
			continue
		}
		hashWriteUint64(h, uint64(l.ID()))
	}

	hashWriteUint32(h, uint32(desc.Vertex.Shader))
	hashWriteString(h, desc.Vertex.EntryPoint)
	hashWriteStrings(h, desc.Vertex.ShaderDefs)

	hashWriteBool(h, desc.Fragment != nil)
	if f := desc.Fragment; f != nil {
		hashWriteUint32(h, uint32(f.Shader))
		hashWriteString(h, f.EntryPoint)
		hashWriteStrings(h, f.ShaderDefs)
		hashWriteUint32(h, uint32(len(f.Targets)))
		for _, t := range f.Targets {
			hashWriteUint32(h, uint32(t.Format))
			hashWriteUint32(h, uint32(t.WriteMask))
			hashWriteBool(h, t.Blend != nil)
			if b := t.Blend; b != nil {
				hashWriteUint32(h, uint32(b.Color.SrcFactor))
				hashWriteUint32(h, uint32(b.Color.DstFactor))
				hashWriteUint32(h, uint32(b.Color.Operation))
				hashWriteUint32(h, uint32(b.Alpha.SrcFactor))
				hashWriteUint32(h, uint32(b.Alpha.DstFactor))
				hashWriteUint32(h, uint32(b.Alpha.Operation))
			}
		}
	}

	p := desc.Primitive
	hashWriteUint32(h, uint32(p.Topology))
	hashWriteBool(h, p.StripIndexFormat != nil)
	if p.StripIndexFormat != nil {
		hashWriteUint32(h, uint32(*p.StripIndexFormat))
	}
	hashWriteUint32(h, uint32(p.FrontFace))
	hashWriteUint32(h, uint32(p.CullMode))
	hashWriteBool(h, p.UnclippedDepth)

	m := desc.Multisample
	hashWriteUint32(h, m.Count)
	hashWriteUint64(h, uint64(m.Mask))
	hashWriteBool(h, m.AlphaToCoverageEnabled)

	return h.Sum64()
}

func hashWriteUint32(h hash.Hash64, v uint32) {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteUint64(h hash.Hash64, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, _ = h.Write(buf[:])
}

func hashWriteString(h hash.Hash64, s string) {
	hashWriteUint32(h, uint32(len(s)))
	_, _ = h.Write([]byte(s))
}

func hashWriteStrings(h hash.Hash64, ss []string) {
	hashWriteUint32(h, uint32(len(ss)))
	for _, s := range ss {
		hashWriteString(h, s)
	}
}

func hashWriteBool(h hash.Hash64, b bool) {
	if b {
		_, _ = h.Write([]byte{1})
	} else {
		_, _ = h.Write([]byte{0})
	}
}
