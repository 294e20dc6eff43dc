// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fxaa/backend/headless"
	"github.com/gogpu/fxaa/internal/shader"
	"github.com/gogpu/fxaa/render"
)

func blitDescriptor(format gputypes.TextureFormat) render.RenderPipelineDescriptor {
	return render.RenderPipelineDescriptor{
		Label: "blit",
		Vertex: render.VertexState{
			Shader:     shader.Fullscreen,
			EntryPoint: shader.FullscreenEntryPoint,
		},
		Fragment: &render.FragmentState{
			Shader:     shader.Blit,
			EntryPoint: shader.FragmentEntryPoint,
			Targets:    []gputypes.ColorTargetState{{Format: format, WriteMask: gputypes.ColorWriteMaskAll}},
		},
		Primitive:   gputypes.PrimitiveState{Topology: gputypes.PrimitiveTopologyTriangleList},
		Multisample: gputypes.DefaultMultisampleState(),
	}
}

func wgslOnly(dev render.Device) *render.PipelineCache {
	return render.NewPipelineCache(dev, render.WithShaderCompiler(nil))
}

func TestPipelineCacheDeferred(t *testing.T) {
	dev := headless.New()
	c := wgslOnly(dev)

	id := c.QueueRenderPipeline(blitDescriptor(render.DefaultDisplayFormat))
	if p := c.RenderPipeline(id); p != nil {
		t.Fatal("RenderPipeline() ready before ProcessQueue")
	}
	if state, _ := c.State(id); state != render.PipelineQueued {
		t.Errorf("State() = %v, want %v", state, render.PipelineQueued)
	}
	if got := c.Pending(); got != 1 {
		t.Errorf("Pending() = %d, want 1", got)
	}

	if got := c.ProcessQueue(); got != 1 {
		t.Errorf("ProcessQueue() = %d, want 1", got)
	}
	if p := c.RenderPipeline(id); p == nil {
		t.Fatal("RenderPipeline() = nil after ProcessQueue")
	}
	if state, err := c.State(id); state != render.PipelineReady || err != nil {
		t.Errorf("State() = %v, %v, want %v, nil", state, err, render.PipelineReady)
	}
	if got := c.Pending(); got != 0 {
		t.Errorf("Pending() = %d, want 0", got)
	}
}

func TestPipelineCacheDeduplicates(t *testing.T) {
	dev := headless.New()
	c := wgslOnly(dev)

	a := c.QueueRenderPipeline(blitDescriptor(render.DefaultDisplayFormat))
	b := c.QueueRenderPipeline(blitDescriptor(render.DefaultDisplayFormat))
	other := c.QueueRenderPipeline(blitDescriptor(render.HDRFormat))

	if a != b {
		t.Errorf("identical descriptors got ids %d and %d", a, b)
	}
	if a == other {
		t.Error("descriptors with different target formats share an id")
	}
	if got := c.Size(); got != 2 {
		t.Errorf("Size() = %d, want 2", got)
	}
	hits, misses := c.Stats()
	if hits != 1 || misses != 2 {
		t.Errorf("Stats() = %d, %d, want 1, 2", hits, misses)
	}
	if got, want := c.HitRate(), 1.0/3.0; got != want {
		t.Errorf("HitRate() = %v, want %v", got, want)
	}
}

func TestPipelineCacheSharesShaderModules(t *testing.T) {
	dev := headless.New()
	c := wgslOnly(dev)

	c.QueueRenderPipeline(blitDescriptor(render.DefaultDisplayFormat))
	c.QueueRenderPipeline(blitDescriptor(render.HDRFormat))
	c.ProcessQueue()

	if got := dev.Created(headless.KindShaderModule); got != 1 {
		t.Errorf("shader modules created = %d, want 1", got)
	}
	if got := dev.Created(headless.KindRenderPipeline); got != 2 {
		t.Errorf("pipelines created = %d, want 2", got)
	}
}

func TestPipelineCacheCompilesSPIRV(t *testing.T) {
	dev := headless.New()
	var got string
	c := render.NewPipelineCache(dev, render.WithShaderCompiler(func(wgsl string) ([]uint32, error) {
		got = wgsl
		return []uint32{0x07230203, 0, 0}, nil
	}))

	id := c.QueueRenderPipeline(blitDescriptor(render.DefaultDisplayFormat))
	c.ProcessQueue()

	if c.RenderPipeline(id) == nil {
		t.Fatal("pipeline not ready")
	}
	want, err := shader.Module(shader.Fullscreen, shader.Blit, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Error("compiler did not receive the preprocessed module source")
	}
}

func TestPipelineCacheFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(*headless.Device)
		opts  []render.PipelineCacheOption
		desc  func() render.RenderPipelineDescriptor
		want  error
	}{
		{
			name: "missing vertex shader",
			desc: func() render.RenderPipelineDescriptor {
				d := blitDescriptor(render.DefaultDisplayFormat)
				d.Vertex.Shader = shader.Invalid
				return d
			},
			want: render.ErrMissingVertexShader,
		},
		{
			name: "unknown fragment asset",
			desc: func() render.RenderPipelineDescriptor {
				d := blitDescriptor(render.DefaultDisplayFormat)
				d.Fragment.Shader = shader.Handle(99)
				return d
			},
			want: shader.ErrUnknownShader,
		},
		{
			name: "compiler error",
			opts: []render.PipelineCacheOption{render.WithShaderCompiler(func(string) ([]uint32, error) {
				return nil, boom
			})},
			desc: func() render.RenderPipelineDescriptor { return blitDescriptor(render.DefaultDisplayFormat) },
			want: boom,
		},
		{
			name:  "device error",
			setup: func(d *headless.Device) { d.FailNext(headless.KindRenderPipeline, boom) },
			desc:  func() render.RenderPipelineDescriptor { return blitDescriptor(render.DefaultDisplayFormat) },
			want:  boom,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := headless.New()
			if tt.setup != nil {
				tt.setup(dev)
			}
			opts := append([]render.PipelineCacheOption{render.WithShaderCompiler(nil)}, tt.opts...)
			c := render.NewPipelineCache(dev, opts...)

			id := c.QueueRenderPipeline(tt.desc())
			if got := c.ProcessQueue(); got != 0 {
				t.Errorf("ProcessQueue() = %d, want 0", got)
			}
			if c.RenderPipeline(id) != nil {
				t.Error("failed pipeline reported ready")
			}
			state, err := c.State(id)
			if state != render.PipelineFailed || !errors.Is(err, tt.want) {
				t.Errorf("State() = %v, %v, want %v, %v", state, err, render.PipelineFailed, tt.want)
			}

			// Failed pipelines are never retried.
			if got := c.ProcessQueue(); got != 0 {
				t.Errorf("second ProcessQueue() = %d, want 0", got)
			}
		})
	}
}

func TestPipelineCacheUnknownID(t *testing.T) {
	c := wgslOnly(headless.New())

	if c.RenderPipeline(7) != nil {
		t.Error("RenderPipeline() of an unknown id should be nil")
	}
	if _, err := c.State(7); !errors.Is(err, render.ErrPipelineNotQueued) {
		t.Errorf("State() error = %v, want %v", err, render.ErrPipelineNotQueued)
	}
	if _, ok := c.Descriptor(7); ok {
		t.Error("Descriptor() found an unknown id")
	}
}

func TestPipelineCacheDescriptorIsCopied(t *testing.T) {
	c := wgslOnly(headless.New())
	d := blitDescriptor(render.DefaultDisplayFormat)
	d.Fragment.ShaderDefs = []string{"A"}
	id := c.QueueRenderPipeline(d)

	d.Fragment.ShaderDefs[0] = "B"
	got, ok := c.Descriptor(id)
	if !ok {
		t.Fatal("Descriptor() not found")
	}
	if got.Fragment.ShaderDefs[0] != "A" {
		t.Errorf("queued descriptor changed to %q", got.Fragment.ShaderDefs[0])
	}
}

func TestPipelineCacheDestroyAll(t *testing.T) {
	dev := headless.New()
	c := wgslOnly(dev)
	id := c.QueueRenderPipeline(blitDescriptor(render.DefaultDisplayFormat))
	c.ProcessQueue()
	p := c.RenderPipeline(id)

	c.DestroyAll()

	if !dev.Destroyed(p.ID()) {
		t.Error("pipeline not destroyed")
	}
	if got := c.Size(); got != 0 {
		t.Errorf("Size() = %d, want 0", got)
	}
	if c.RenderPipeline(id) != nil {
		t.Error("RenderPipeline() returned a destroyed pipeline")
	}
}

func TestPipelineCacheConcurrentQueue(t *testing.T) {
	c := wgslOnly(headless.New())
	ids := make([]render.CachedPipelineID, 16)

	var wg sync.WaitGroup
	for i := range ids {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids[i] = c.QueueRenderPipeline(blitDescriptor(render.DefaultDisplayFormat))
		}()
	}
	wg.Wait()

	for _, id := range ids {
		if id != ids[0] {
			t.Fatalf("concurrent queue returned ids %v", ids)
		}
	}
	if got := c.Size(); got != 1 {
		t.Errorf("Size() = %d, want 1", got)
	}
}

func TestHashRenderPipelineDescriptor(t *testing.T) {
	base := blitDescriptor(render.DefaultDisplayFormat)
	h := render.HashRenderPipelineDescriptor(&base)

	same := blitDescriptor(render.DefaultDisplayFormat)
	if got := render.HashRenderPipelineDescriptor(&same); got != h {
		t.Error("equal descriptors hash differently")
	}

	variants := map[string]func(*render.RenderPipelineDescriptor){
		"label":        func(d *render.RenderPipelineDescriptor) { d.Label = "other" },
		"fragment def": func(d *render.RenderPipelineDescriptor) { d.Fragment.ShaderDefs = []string{"TONEMAP"} },
		"vertex def":   func(d *render.RenderPipelineDescriptor) { d.Vertex.ShaderDefs = []string{"X"} },
		"asset":        func(d *render.RenderPipelineDescriptor) { d.Fragment.Shader = shader.FXAA },
		"no fragment":  func(d *render.RenderPipelineDescriptor) { d.Fragment = nil },
		"topology": func(d *render.RenderPipelineDescriptor) {
			d.Primitive.Topology = gputypes.PrimitiveTopologyTriangleStrip
		},
		"blend": func(d *render.RenderPipelineDescriptor) {
			d.Fragment.Targets[0].Blend = &gputypes.BlendState{}
		},
		"sample count": func(d *render.RenderPipelineDescriptor) { d.Multisample.Count = 4 },
	}
	for name, mutate := range variants {
		t.Run(name, func(t *testing.T) {
			d := blitDescriptor(render.DefaultDisplayFormat)
			mutate(&d)
			if render.HashRenderPipelineDescriptor(&d) == h {
				t.Errorf("changing %s did not change the hash", name)
			}
		})
	}
}
