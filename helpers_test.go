// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import (
	"strings"
	"testing"

	"github.com/gogpu/fxaa/backend/headless"
	"github.com/gogpu/fxaa/render"
)

// testApp is an app on a recording device with the plugin installed.
type testApp struct {
	*render.App
	dev    *headless.Device
	plugin *Plugin
}

// newTestApp builds an app that hands WGSL straight to the device.
func newTestApp(t *testing.T, opts ...Option) *testApp {
	t.Helper()
	return newTestAppWithCompiler(t, nil, opts...)
}

func newTestAppWithCompiler(t *testing.T, compiler render.ShaderCompiler, opts ...Option) *testApp {
	t.Helper()
	dev := headless.New()
	app, err := render.NewApp(dev, render.WithPipelineCacheOptions(render.WithShaderCompiler(compiler)))
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(app.Destroy)

	p := NewPlugin(opts...)
	if err := app.AddPlugin(p); err != nil {
		t.Fatalf("AddPlugin() error = %v", err)
	}
	return &testApp{App: app, dev: dev, plugin: p}
}

// spawn adds a camera carrying s.
func (a *testApp) spawn(cam render.Camera, s Settings) render.Entity {
	e := a.SpawnCamera(cam)
	render.Insert(a.Main(), e, s)
	return e
}

// frame renders one frame and returns the FXAA passes it recorded.
func (a *testApp) frame(t *testing.T) []headless.PassRecord {
	t.Helper()
	if err := a.Update(); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	var out []headless.PassRecord
	for _, p := range a.dev.TakePasses() {
		if strings.HasPrefix(p.Label, "fxaa") {
			out = append(out, p)
		}
	}
	return out
}

// labels returns the labels of passes.
func labels(passes []headless.PassRecord) []string {
	out := make([]string, len(passes))
	for i, p := range passes {
		out[i] = p.Label
	}
	return out
}

func viewTarget(t *testing.T, a *testApp, e render.Entity) *render.ViewTarget {
	t.Helper()
	vt, ok := render.Get[*render.ViewTarget](a.Render(), e)
	if !ok {
		t.Fatalf("entity %d has no view target", e)
	}
	return vt
}

func viewResources(t *testing.T, a *testApp, e render.Entity) ViewResources {
	t.Helper()
	res, ok := render.Get[ViewResources](a.Render(), e)
	if !ok {
		t.Fatalf("entity %d has no fxaa resources", e)
	}
	return res
}

var size720 = render.Size{Width: 1280, Height: 720}
