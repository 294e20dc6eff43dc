// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"slices"

	"github.com/gogpu/gputypes"
)

// ErrNilDevice is returned when an App is created without a device.
var ErrNilDevice = errors.New("render: device is nil")

// PrepareFunc runs once per frame after view targets are prepared and
// before the render graph executes.
type PrepareFunc func(w *World) error

// Plugin extends an App.
type Plugin interface {
	Build(app *App) error
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	handle       DeviceHandle
	cacheOptions []PipelineCacheOption
	subGraphs    []string
}

func defaultAppOptions() appOptions {
	return appOptions{
		handle:    NullDeviceHandle{},
		subGraphs: []string{SubGraph3D, SubGraph2D},
	}
}

// WithDeviceHandle sets the host device handle. The display format is
// taken from its surface format.
func WithDeviceHandle(h DeviceHandle) AppOption {
	return func(o *appOptions) {
		if h != nil {
			o.handle = h
		}
	}
}

// WithPipelineCacheOptions configures the app's pipeline cache.
func WithPipelineCacheOptions(opts ...PipelineCacheOption) AppOption {
	return func(o *appOptions) {
		o.cacheOptions = append(o.cacheOptions, opts...)
	}
}

// WithCoreSubGraphs replaces the set of core view sub-graphs created by
// NewApp.
func WithCoreSubGraphs(names ...string) AppOption {
	return func(o *appOptions) {
		o.subGraphs = append([]string(nil), names...)
	}
}

// App drives frames: extraction from the main world, preparation, render
// graph execution and submission.
//
// Pipelines queued during frame N are compiled at the end of frame N and
// are available from frame N+1.
type App struct {
	device    Device
	handle    DeviceHandle
	display   gputypes.TextureFormat
	main      *World
	render    *World
	graph     *RenderGraph
	pipelines *PipelineCache
	textures  *TextureCache
	extract   []ExtractFunc
	prepare   []PrepareFunc
	frame     uint64
}

// NewApp creates an App rendering with device.
func NewApp(device Device, opts ...AppOption) (*App, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	o := defaultAppOptions()
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		device:    device,
		handle:    o.handle,
		display:   DisplayFormat(o.handle),
		main:      NewWorld(),
		render:    NewWorld(),
		graph:     NewRenderGraph(),
		pipelines: NewPipelineCache(device, o.cacheOptions...),
		textures:  NewTextureCache(device),
	}
	for _, name := range o.subGraphs {
		g, err := NewCoreGraph()
		if err != nil {
			return nil, fmt.Errorf("render: core graph %s: %w", name, err)
		}
		a.graph.AddSubGraph(name, g)
	}

	SetResource(a.render, a.device)
	SetResource(a.render, a.pipelines)
	SetResource(a.render, a.textures)
	SetResource(a.render, DisplayFormatResource(a.display))

	slogger().Info("render: app created",
		"adapter", a.handle.AdapterInfo().Name, "display_format", a.display)
	return a, nil
}

// DisplayFormatResource is the render-world resource holding the display
// format.
type DisplayFormatResource gputypes.TextureFormat

// Device returns the render device.
func (a *App) Device() Device { return a.device }

// DeviceHandle returns the host device handle.
func (a *App) DeviceHandle() DeviceHandle { return a.handle }

// DisplayFormat returns the display-default texture format.
func (a *App) DisplayFormat() gputypes.TextureFormat { return a.display }

// Main returns the main (simulation) world.
func (a *App) Main() *World { return a.main }

// Render returns the render world. Its entities are rebuilt every frame;
// resources persist.
func (a *App) Render() *World { return a.render }

// Graph returns the root render graph.
func (a *App) Graph() *RenderGraph { return a.graph }

// PipelineCache returns the app's pipeline cache.
func (a *App) PipelineCache() *PipelineCache { return a.pipelines }

// TextureCache returns the app's texture cache.
func (a *App) TextureCache() *TextureCache { return a.textures }

// Frame returns the number of completed frames.
func (a *App) Frame() uint64 { return a.frame }

// AddPlugin builds p into the app.
func (a *App) AddPlugin(p Plugin) error {
	return p.Build(a)
}

// AddExtract registers an extraction step.
func (a *App) AddExtract(fn ExtractFunc) { a.extract = append(a.extract, fn) }

// AddPrepare registers a prepare step.
func (a *App) AddPrepare(fn PrepareFunc) { a.prepare = append(a.prepare, fn) }

// SpawnCamera adds a camera to the main world.
func (a *App) SpawnCamera(cam Camera) Entity {
	e := a.main.Spawn()
	Insert(a.main, e, cam)
	return e
}

// Update renders one frame.
func (a *App) Update() error {
	a.render.Clear()

	extractCameras(a.main, a.render)
	for _, fn := range a.extract {
		fn(a.main, a.render)
	}

	if err := prepareViewTargets(a.render, a.textures, a.display); err != nil {
		return err
	}
	for _, fn := range a.prepare {
		if err := fn(a.render); err != nil {
			return err
		}
	}

	a.graph.Update(a.render)

	rc := NewRenderContext(a.device)
	if err := a.runViews(rc); err != nil {
		return err
	}

	buffers, err := rc.Finish()
	if err != nil {
		return fmt.Errorf("render: finish: %w", err)
	}
	if len(buffers) > 0 {
		if err := a.device.Submit(buffers...); err != nil {
			return fmt.Errorf("render: submit: %w", err)
		}
	}

	a.pipelines.ProcessQueue()
	a.textures.Update()
	a.frame++
	return nil
}

// runViews runs each camera's sub-graph in camera order.
func (a *App) runViews(rc *RenderContext) error {
	views := Query[ExtractedCamera](a.render)
	slices.SortStableFunc(views, func(x, y Entity) int {
		cx, _ := Get[ExtractedCamera](a.render, x)
		cy, _ := Get[ExtractedCamera](a.render, y)
		return cx.Order - cy.Order
	})

	for _, e := range views {
		cam, _ := Get[ExtractedCamera](a.render, e)
		if !Has[*ViewTarget](a.render, e) {
			continue
		}
		g, err := a.graph.SubGraph(cam.SubGraph)
		if err != nil {
			return err
		}
		if err := g.Run(rc, a.render, map[string]SlotValue{InputViewEntity: {Entity: e}}); err != nil {
			return fmt.Errorf("render: view %d: %w", e, err)
		}
	}
	return nil
}

// Destroy releases every cached GPU object.
func (a *App) Destroy() {
	a.pipelines.DestroyAll()
	a.textures.DestroyAll()
}
