// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/fxaa/backend/headless"
	"github.com/gogpu/fxaa/render"
)

func TestNodeFirstFrameBlits(t *testing.T) {
	a := newTestApp(t)
	cam := a.spawn(render.Camera{Target: 1, Size: size720}, DefaultSettings())

	passes := a.frame(t)
	if got := labels(passes); !slices.Equal(got, []string{"fxaa_blit_pass"}) {
		t.Fatalf("first frame passes = %v, want [fxaa_blit_pass] while fxaa compiles", got)
	}
	vt := viewTarget(t, a, cam)
	if passes[0].Target != vt.Output().DefaultView.ID() {
		t.Error("blit did not write the output texture")
	}
	if !slices.Equal(passes[0].Sources, []render.ResourceID{vt.MainTexture().DefaultView.ID()}) {
		t.Error("blit did not sample the main texture")
	}
}

func TestNodeSDR(t *testing.T) {
	a := newTestApp(t)
	cam := a.spawn(render.Camera{Target: 1, Size: size720}, DefaultSettings())
	a.frame(t)

	passes := a.frame(t)
	if got := labels(passes); !slices.Equal(got, []string{"fxaa_pass"}) {
		t.Fatalf("passes = %v, want [fxaa_pass]", got)
	}

	vt := viewTarget(t, a, cam)
	p := passes[0]
	if p.Pipeline != "fxaa" {
		t.Errorf("Pipeline = %q, want fxaa", p.Pipeline)
	}
	if p.TargetFormat != render.DefaultDisplayFormat {
		t.Errorf("TargetFormat = %v, want %v", p.TargetFormat, render.DefaultDisplayFormat)
	}
	if p.Target != vt.Output().DefaultView.ID() {
		t.Error("fxaa did not write the output texture")
	}
	if !slices.Equal(p.Sources, []render.ResourceID{vt.MainTexture().DefaultView.ID()}) {
		t.Error("fxaa did not sample the main texture")
	}
	if p.LoadOp != gputypes.LoadOpLoad {
		t.Errorf("LoadOp = %v, want load", p.LoadOp)
	}
	if want := []headless.DrawCall{{VertexCount: 3, InstanceCount: 1}}; !slices.Equal(p.Draws, want) {
		t.Errorf("Draws = %+v, want one full-screen triangle", p.Draws)
	}
}

func TestNodeHDR(t *testing.T) {
	a := newTestApp(t)
	size := render.Size{Width: 256, Height: 256}
	cam := a.spawn(render.Camera{Target: 1, Size: size, HDR: true}, DefaultSettings())
	a.frame(t)

	passes := a.frame(t)
	if got := labels(passes); !slices.Equal(got, []string{"fxaa_to_ldr_pass", "fxaa_pass"}) {
		t.Fatalf("passes = %v, want [fxaa_to_ldr_pass fxaa_pass]", got)
	}

	vt := viewTarget(t, a, cam)
	res := viewResources(t, a, cam)
	toLDR, final := passes[0], passes[1]

	if toLDR.Target != res.Texture.DefaultView.ID() {
		t.Error("to_ldr did not write the intermediate texture")
	}
	if toLDR.TargetFormat != render.HDRFormat || toLDR.TargetSize != size {
		t.Errorf("to_ldr target = %v %v, want %v %v", toLDR.TargetFormat, toLDR.TargetSize, render.HDRFormat, size)
	}
	if !slices.Equal(toLDR.Sources, []render.ResourceID{vt.MainTexture().DefaultView.ID()}) {
		t.Error("to_ldr did not sample the main texture")
	}

	if !slices.Equal(final.Sources, []render.ResourceID{res.Texture.DefaultView.ID()}) {
		t.Error("fxaa did not sample the intermediate texture")
	}
	if final.Target != vt.Output().DefaultView.ID() || final.TargetFormat != render.DefaultDisplayFormat {
		t.Errorf("fxaa target = %v, want display-format output", final.TargetFormat)
	}
}

func TestNodeHDRWithoutToneCompression(t *testing.T) {
	a := newTestApp(t, WithToneCompression(false))
	cam := a.spawn(render.Camera{Target: 1, Size: size720, HDR: true}, DefaultSettings())
	a.frame(t)

	passes := a.frame(t)
	if got := labels(passes); !slices.Equal(got, []string{"fxaa_hdr_pass"}) {
		t.Fatalf("passes = %v, want [fxaa_hdr_pass]", got)
	}
	p := passes[0]
	if p.Pipeline != "fxaa_hdr" || p.TargetFormat != render.HDRFormat {
		t.Errorf("pass = %s into %v, want fxaa_hdr into %v", p.Pipeline, p.TargetFormat, render.HDRFormat)
	}

	// The write flipped the ping-pong pair: the destination is now the
	// main texture and the source is the other one.
	vt := viewTarget(t, a, cam)
	if p.Target != vt.MainTexture().DefaultView.ID() {
		t.Error("fxaa_hdr did not write the new main texture")
	}
	if len(p.Sources) != 1 || p.Sources[0] == p.Target {
		t.Errorf("fxaa_hdr sources = %v, want the previous main texture", p.Sources)
	}
}

func TestNodeDisabledPassesThrough(t *testing.T) {
	tests := []struct {
		name string
		hdr  bool
	}{
		{"sdr", false},
		{"hdr", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestApp(t)
			s := DefaultSettings()
			s.Enabled = false
			cam := a.spawn(render.Camera{Target: 1, Size: size720, HDR: tt.hdr}, s)

			for range 3 {
				passes := a.frame(t)
				if got := labels(passes); !slices.Equal(got, []string{"fxaa_blit_pass"}) {
					t.Fatalf("disabled camera recorded %v, want [fxaa_blit_pass]", got)
				}
				vt := viewTarget(t, a, cam)
				if passes[0].Target != vt.Output().DefaultView.ID() {
					t.Error("pass-through did not write the output texture")
				}
				if passes[0].TargetFormat != render.DefaultDisplayFormat {
					t.Errorf("TargetFormat = %v, want %v", passes[0].TargetFormat, render.DefaultDisplayFormat)
				}
			}
			if got := a.dev.Created(headless.KindBindGroup); got != 1 {
				t.Errorf("bind groups created = %d, want 1", got)
			}
		})
	}
}

func TestNodeOutputWrittenEveryFrame(t *testing.T) {
	for _, hdr := range []bool{false, true} {
		a := newTestApp(t)
		cam := a.spawn(render.Camera{Target: 1, Size: size720, HDR: hdr}, DefaultSettings())

		for i, enabled := range []bool{true, true, false, true, false, false, true} {
			s := DefaultSettings()
			s.Enabled = enabled
			render.Insert(a.Main(), cam, s)

			passes := a.frame(t)
			if len(passes) == 0 {
				t.Fatalf("hdr=%v frame %d (enabled=%v): no pass recorded", hdr, i+1, enabled)
			}
			last := passes[len(passes)-1]
			if last.Target != viewTarget(t, a, cam).Output().DefaultView.ID() {
				t.Errorf("hdr=%v frame %d (enabled=%v): final pass %s did not write the output", hdr, i+1, enabled, last.Label)
			}
		}
	}
}

func TestNodeInPlaceFirstFrame(t *testing.T) {
	a := newTestApp(t, WithToneCompression(false))
	cam := a.spawn(render.Camera{Target: 1, Size: size720, HDR: true}, DefaultSettings())

	passes := a.frame(t)
	if got := labels(passes); !slices.Equal(got, []string{"fxaa_blit_pass"}) {
		t.Fatalf("passes = %v, want [fxaa_blit_pass]", got)
	}
	p := passes[0]
	if p.TargetFormat != render.HDRFormat {
		t.Errorf("TargetFormat = %v, want %v", p.TargetFormat, render.HDRFormat)
	}
	if p.Target != viewTarget(t, a, cam).MainTexture().DefaultView.ID() {
		t.Error("main texture does not point at the written buffer")
	}
}

func TestNodeInPlaceSkipKeepsMainTexture(t *testing.T) {
	tests := []struct {
		name     string
		compiler render.ShaderCompiler
		enabled  bool
	}{
		{"nothing compiles", func(string) ([]uint32, error) { return nil, errors.New("no compiler") }, true},
		{"disabled", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAppWithCompiler(t, tt.compiler, WithToneCompression(false))
			s := DefaultSettings()
			s.Enabled = tt.enabled
			cam := a.spawn(render.Camera{Target: 1, Size: size720, HDR: true}, s)

			for frame := 1; frame <= 2; frame++ {
				if err := a.Update(); err != nil {
					t.Fatal(err)
				}
				passes := a.dev.TakePasses()
				if got := labels(passes); !slices.Equal(got, []string{render.NodeMainPass}) {
					t.Fatalf("frame %d passes = %v, want only the main pass", frame, got)
				}
				if got := viewTarget(t, a, cam).MainTexture().Texture.ID(); got != passes[0].TargetTexture {
					t.Errorf("frame %d: MainTexture() = %d, want the scene texture %d", frame, got, passes[0].TargetTexture)
				}
			}
		})
	}
}

func TestNodeToggle(t *testing.T) {
	a := newTestApp(t)
	cam := a.spawn(render.Camera{Target: 1, Size: size720}, DefaultSettings())
	a.frame(t)
	if got := len(a.frame(t)); got != 1 {
		t.Fatalf("enabled passes = %d, want 1", got)
	}

	off := DefaultSettings()
	off.Enabled = false
	render.Insert(a.Main(), cam, off)
	if got := labels(a.frame(t)); !slices.Equal(got, []string{"fxaa_blit_pass"}) {
		t.Errorf("passes after disabling = %v, want [fxaa_blit_pass]", got)
	}

	render.Insert(a.Main(), cam, DefaultSettings())
	if got := len(a.frame(t)); got != 1 {
		t.Errorf("passes after re-enabling = %d, want 1", got)
	}
}

func TestNodeQualityChange(t *testing.T) {
	a := newTestApp(t)
	cam := a.spawn(render.Camera{Target: 1, Size: size720}, DefaultSettings())
	a.frame(t)
	a.frame(t)

	render.Insert(a.Main(), cam, Settings{Enabled: true, EdgeThreshold: QualityUltra, EdgeThresholdMin: QualityUltra})
	passes := a.frame(t)
	if got := labels(passes); !slices.Equal(got, []string{"fxaa_blit_pass"}) {
		t.Errorf("passes while new variant compiles = %v, want [fxaa_blit_pass]", got)
	}
	if got := labels(a.frame(t)); !slices.Equal(got, []string{"fxaa_pass"}) {
		t.Errorf("passes after compile = %v, want [fxaa_pass]", got)
	}
}

func TestNodeBindGroupReused(t *testing.T) {
	a := newTestApp(t)
	a.spawn(render.Camera{Target: 1, Size: size720}, DefaultSettings())

	var groups []render.ResourceID
	for range 5 {
		for _, p := range a.frame(t) {
			groups = append(groups, p.BindGroup)
		}
	}
	if got := a.dev.Created(headless.KindBindGroup); got != 1 {
		t.Errorf("bind groups created = %d, want 1", got)
	}
	if got := a.dev.Created(headless.KindSampler); got != 1 {
		t.Errorf("samplers created = %d, want 1", got)
	}
	if len(slices.Compact(groups)) != 1 {
		t.Errorf("bind groups used = %v, want one", groups)
	}
}

func TestNodeRetiresReplacedBindGroups(t *testing.T) {
	a := newTestApp(t)
	a.spawn(render.Camera{Target: 1, Size: size720, HDR: true}, DefaultSettings())
	a.frame(t)

	passes := a.frame(t)
	if len(passes) != 2 {
		t.Fatalf("passes = %v", labels(passes))
	}
	toLDR, final := passes[0].BindGroup, passes[1].BindGroup
	if toLDR == final {
		t.Fatal("passes with different sources shared a bind group")
	}
	if got := a.dev.Created(headless.KindBindGroup); got != 2 {
		t.Errorf("bind groups created = %d, want 2", got)
	}
	if a.dev.Destroyed(toLDR) {
		t.Fatal("bind group released within the frame that used it")
	}

	a.frame(t)
	if !a.dev.Destroyed(toLDR) {
		t.Error("replaced bind group not released by the next frame")
	}
	if a.dev.Destroyed(final) {
		t.Error("bind group released before its replacement frame ended")
	}

	a.frame(t)
	if !a.dev.Destroyed(final) {
		t.Error("replaced bind group not released")
	}
	if got := a.dev.Created(headless.KindBindGroup); got != 6 {
		t.Errorf("bind groups created = %d after 4 frames, want 6", got)
	}
}

func TestNodeBlitFallback(t *testing.T) {
	broken := errors.New("unsupported")
	compiler := func(wgsl string) ([]uint32, error) {
		if strings.Contains(wgsl, "EDGE_THRESHOLD_MAX") {
			return nil, broken
		}
		return []uint32{0x07230203}, nil
	}
	a := newTestAppWithCompiler(t, compiler)
	cam := a.spawn(render.Camera{Target: 1, Size: size720}, DefaultSettings())
	a.frame(t)

	for range 2 {
		passes := a.frame(t)
		if got := labels(passes); !slices.Equal(got, []string{"fxaa_blit_pass"}) {
			t.Fatalf("passes = %v, want [fxaa_blit_pass]", got)
		}
		p := passes[0]
		if p.Pipeline != "fxaa_blit" || p.Target != viewTarget(t, a, cam).Output().DefaultView.ID() {
			t.Errorf("blit = %s into %d, want fxaa_blit into the output", p.Pipeline, p.Target)
		}
	}

	res := viewResources(t, a, cam)
	if state, err := a.PipelineCache().State(res.Pipelines.FXAA); state != render.PipelineFailed || !errors.Is(err, broken) {
		t.Errorf("fxaa state = %v, %v, want failed with %v", state, err, broken)
	}
}

func TestNodeSkipsWhenNothingCompiles(t *testing.T) {
	compiler := func(string) ([]uint32, error) { return nil, errors.New("no compiler") }
	a := newTestAppWithCompiler(t, compiler)
	a.spawn(render.Camera{Target: 1, Size: size720, HDR: true}, DefaultSettings())

	for range 3 {
		if passes := a.frame(t); len(passes) != 0 {
			t.Fatalf("passes = %v, want none", labels(passes))
		}
	}
}

func TestNodeMultipleViews(t *testing.T) {
	a := newTestApp(t)
	a.spawn(render.Camera{Target: 1, Size: size720}, DefaultSettings())
	a.spawn(render.Camera{Target: 2, Size: size720, HDR: true, Order: 1}, DefaultSettings())
	a.SpawnCamera(render.Camera{Target: 3, Size: size720, Order: 2})
	a.frame(t)

	passes := a.frame(t)
	want := []string{"fxaa_pass", "fxaa_to_ldr_pass", "fxaa_pass"}
	if got := labels(passes); !slices.Equal(got, want) {
		t.Errorf("passes = %v, want %v", got, want)
	}
	node, _ := a.plugin.Node(render.SubGraph3D)
	if got := node.Views(); got != 2 {
		t.Errorf("Views() = %d, want 2", got)
	}
}

func TestNodeSkipsUnpreparedView(t *testing.T) {
	a := newTestApp(t)
	a.spawn(render.Camera{Target: 1}, DefaultSettings())
	a.frame(t)
	if passes := a.frame(t); len(passes) != 0 {
		t.Errorf("passes = %v, want none for a view without target", labels(passes))
	}
}

func TestNodeBindGroupFailure(t *testing.T) {
	a := newTestApp(t)
	a.spawn(render.Camera{Target: 1, Size: size720}, DefaultSettings())

	a.dev.FailNext(headless.KindBindGroup, errors.New("lost"))
	if err := a.Update(); !errors.Is(err, headless.ErrInjected) {
		t.Errorf("Update() error = %v, want %v", err, headless.ErrInjected)
	}
	if got := a.dev.Created(headless.KindBindGroup); got != 0 {
		t.Errorf("bind groups created = %d, want 0", got)
	}

	a.dev.FailNext(headless.KindBindGroup, nil)
	if got := labels(a.frame(t)); !slices.Equal(got, []string{"fxaa_blit_pass"}) {
		t.Errorf("passes after recovery = %v, want [fxaa_blit_pass]", got)
	}
	if got := labels(a.frame(t)); !slices.Equal(got, []string{"fxaa_pass"}) {
		t.Errorf("passes once compiled = %v, want [fxaa_pass]", got)
	}
}
