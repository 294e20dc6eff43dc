// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command fxaademo renders a few frames with FXAA through a render backend.
//
// Without a window the demo replays a key script: 1 and 2 disable FXAA,
// 3 enables it and space cycles the quality tier.
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/fxaa"
	"github.com/gogpu/fxaa/backend"
	_ "github.com/gogpu/fxaa/backend/headless"
	_ "github.com/gogpu/fxaa/backend/wgpu"
	"github.com/gogpu/fxaa/render"
)

func main() {
	var (
		backendName = flag.String("backend", "", "render backend (wgpu, headless); empty picks the best available")
		frames      = flag.Int("frames", 8, "number of frames to render")
		width       = flag.Uint("width", 1280, "target width")
		height      = flag.Uint("height", 720, "target height")
		hdr         = flag.Bool("hdr", true, "render the 3D camera in HDR")
		twoD        = flag.Bool("2d", false, "also render a 2D camera")
		quality     = flag.String("quality", "HIGH", "edge threshold tier (LOW, MEDIUM, HIGH, ULTRA)")
		verbose     = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	fxaa.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	q, err := fxaa.ParseQuality(*quality)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(*backendName, *frames, uint32(*width), uint32(*height), *hdr, *twoD, q); err != nil {
		log.Fatal(err)
	}
}

func run(backendName string, frames int, width, height uint32, hdr, twoD bool, q fxaa.Quality) error {
	b, dev, handle, err := backend.Open(backendName)
	if err != nil {
		return err
	}
	defer b.Close()

	app, err := render.NewApp(dev, render.WithDeviceHandle(handle))
	if err != nil {
		return err
	}
	defer app.Destroy()

	if err := app.AddPlugin(fxaa.NewPlugin()); err != nil {
		return err
	}

	settings := fxaa.DefaultSettings()
	settings.EdgeThreshold = q
	settings.EdgeThresholdMin = q

	size := render.Size{Width: width, Height: height}
	cameras := []render.Entity{
		app.SpawnCamera(render.Camera{Target: 1, Size: size, HDR: hdr, SubGraph: render.SubGraph3D}),
	}
	if twoD {
		cameras = append(cameras,
			app.SpawnCamera(render.Camera{Target: 2, Size: size, Order: 1, SubGraph: render.SubGraph2D}))
	}
	for _, e := range cameras {
		render.Insert(app.Main(), e, settings)
	}

	// A windowed host passes its event source here.
	var events gpucontext.EventSource = gpucontext.NullEventSource{}
	for _, e := range cameras {
		bindKeys(events,
			func() fxaa.Settings { s, _ := render.Get[fxaa.Settings](app.Main(), e); return s },
			func(s fxaa.Settings) { render.Insert(app.Main(), e, s) })
	}

	fmt.Printf("backend %s, adapter %q\n", b.Name(), handle.AdapterInfo().Name)
	fmt.Println("Toggle with:\n1 - NO AA\n2 - NO AA\n3 - FXAA\nspace - next quality")

	for frame := range frames {
		if key, ok := script[frame]; ok {
			for _, e := range cameras {
				s, _ := render.Get[fxaa.Settings](app.Main(), e)
				render.Insert(app.Main(), e, handleKey(s, key))
			}
		}
		if err := app.Update(); err != nil {
			return fmt.Errorf("frame %d: %w", frame, err)
		}
	}

	for _, e := range cameras {
		s, _ := render.Get[fxaa.Settings](app.Main(), e)
		fmt.Printf("camera %d: enabled=%t quality=%s/%s\n", e, s.Enabled, s.EdgeThreshold, s.EdgeThresholdMin)
	}
	pc := app.PipelineCache()
	fmt.Printf("%d frames, %d pipelines, hit rate %.2f\n", app.Frame(), pc.Size(), pc.HitRate())
	return nil
}

// script is the key replayed before a frame.
var script = map[int]gpucontext.Key{
	3: gpucontext.Key1,
	4: gpucontext.Key3,
	5: gpucontext.KeySpace,
	6: gpucontext.KeySpace,
}
