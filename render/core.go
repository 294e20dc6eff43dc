// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"fmt"

	"github.com/gogpu/gputypes"
)

// Core sub-graph names.
const (
	SubGraph3D = "core_3d"
	SubGraph2D = "core_2d"
)

// Core node and slot names.
const (
	// InputViewEntity is the graph input slot carrying the view entity.
	InputViewEntity = "view_entity"

	// SlotView is the input slot name used by view nodes.
	SlotView = "view"

	NodeMainPass    = "main_pass"
	NodeTonemapping = "tonemapping"
	NodeUpscaling   = "upscaling"
)

// ClearColor is the main pass clear color resource.
type ClearColor gputypes.Color

// MainPassNode clears the view's main texture. Scene drawing is left to
// the host application.
type MainPassNode struct{}

// Input declares the view slot.
func (MainPassNode) Input() []SlotInfo { return []SlotInfo{{Name: SlotView, Type: SlotEntity}} }

// Update does nothing.
func (MainPassNode) Update(*World) {}

// Run records one clear pass into the main texture.
func (MainPassNode) Run(gc *GraphContext, rc *RenderContext, w *World) error {
	view, err := gc.InputEntity(SlotView)
	if err != nil {
		return err
	}
	target, ok := Get[*ViewTarget](w, view)
	if !ok {
		return nil
	}
	cc, _ := Resource[ClearColor](w)

	enc, err := rc.CommandEncoder()
	if err != nil {
		return err
	}
	pass, err := enc.BeginRenderPass(&RenderPassDescriptor{
		Label: NodeMainPass,
		ColorAttachments: []RenderPassColorAttachment{{
			View:       target.MainTexture().DefaultView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color(cc),
		}},
	})
	if err != nil {
		return fmt.Errorf("main pass: %w", err)
	}
	return pass.End()
}

// NewCoreGraph builds a view sub-graph:
//
//	view_entity -> main_pass -> tonemapping -> upscaling
//
// Tonemapping and upscaling are ordering anchors for post-process nodes.
func NewCoreGraph() (*RenderGraph, error) {
	g := NewRenderGraph()
	g.SetInput(SlotInfo{Name: InputViewEntity, Type: SlotEntity})

	if err := g.AddNode(NodeMainPass, MainPassNode{}); err != nil {
		return nil, err
	}
	if err := g.AddNode(NodeTonemapping, EmptyNode{}); err != nil {
		return nil, err
	}
	if err := g.AddNode(NodeUpscaling, EmptyNode{}); err != nil {
		return nil, err
	}
	if err := g.AddSlotEdge(GraphInputNode, InputViewEntity, NodeMainPass, SlotView); err != nil {
		return nil, err
	}
	if err := g.AddNodeEdge(NodeMainPass, NodeTonemapping); err != nil {
		return nil, err
	}
	if err := g.AddNodeEdge(NodeTonemapping, NodeUpscaling); err != nil {
		return nil, err
	}
	return g, nil
}
