// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package fxaa

import (
	"fmt"

	"github.com/gogpu/fxaa/render"
)

// Node names in the core sub-graphs.
const (
	NodeName3D = "fxaa_node_3d"
	NodeName2D = "fxaa_node_2d"
)

// NodeName returns the FXAA node name used in sub-graph g.
func NodeName(g string) string {
	switch g {
	case render.SubGraph3D:
		return NodeName3D
	case render.SubGraph2D:
		return NodeName2D
	default:
		return "fxaa_node_" + g
	}
}

// Plugin adds FXAA to a render app.
type Plugin struct {
	opts  options
	nodes map[string]*Node
}

// NewPlugin creates the plugin.
func NewPlugin(opts ...Option) *Plugin {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Plugin{opts: o, nodes: make(map[string]*Node)}
}

// Build creates the bind group layout and registers extraction, the
// prepare step and one node per configured sub-graph:
//
//	view_entity -> fxaa.view
//	main_pass -> fxaa -> tonemapping
//
// The blit pipelines are compiled during Build; every other pipeline is
// compiled after the frame that first needs it. A layout failure is fatal.
func (p *Plugin) Build(app *render.App) error {
	layout, err := NewLayout(app.Device())
	if err != nil {
		return err
	}

	display := p.opts.displayFormat
	if display == 0 {
		display = app.DisplayFormat()
	}
	pipelines := NewPipelines(layout, p.opts.hdrFormat, display, p.opts.toneCompression)
	render.SetResource(app.Render(), pipelines)

	pipelines.QueueBlits(app.PipelineCache())
	app.PipelineCache().ProcessQueue()

	app.AddExtract(render.ExtractComponent[Settings]())
	app.AddPrepare(Prepare)

	for _, name := range p.opts.subGraphs {
		g, err := app.Graph().SubGraph(name)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrSubGraph, err)
		}
		node := NewNode(pipelines)
		if err := wireNode(g, NodeName(name), node); err != nil {
			return fmt.Errorf("%w %s: %w", ErrSubGraph, name, err)
		}
		p.nodes[name] = node
	}

	Logger().Info("fxaa: plugin built",
		"sub_graphs", p.opts.subGraphs,
		"tone_compression", p.opts.toneCompression,
		"display_format", display)
	return nil
}

// Node returns the node registered in sub-graph name.
func (p *Plugin) Node(name string) (*Node, bool) {
	n, ok := p.nodes[name]
	return n, ok
}

func wireNode(g *render.RenderGraph, name string, node *Node) error {
	if err := g.AddNode(name, node); err != nil {
		return err
	}
	if err := g.AddSlotEdge(render.GraphInputNode, render.InputViewEntity, name, render.SlotView); err != nil {
		return err
	}
	if err := g.AddNodeEdge(render.NodeMainPass, name); err != nil {
		return err
	}
	return g.AddNodeEdge(name, render.NodeTonemapping)
}

var _ render.Plugin = (*Plugin)(nil)
