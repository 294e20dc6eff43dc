// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"sync"
)

// Render graph errors.
var (
	// ErrNodeNotFound is returned when an edge names an unknown node.
	ErrNodeNotFound = errors.New("render: node not found")

	// ErrNodeExists is returned when a node name is reused.
	ErrNodeExists = errors.New("render: node already exists")

	// ErrSlotNotFound is returned when a slot edge names an unknown slot.
	ErrSlotNotFound = errors.New("render: slot not found")

	// ErrGraphCycle is returned when node edges form a cycle.
	ErrGraphCycle = errors.New("render: graph contains a cycle")

	// ErrSubGraphNotFound is returned for an unknown sub-graph name.
	ErrSubGraphNotFound = errors.New("render: sub-graph not found")

	// ErrInputNotSet is returned when a node reads an input slot that no
	// edge fills.
	ErrInputNotSet = errors.New("render: input slot not set")
)

// GraphInputNode is the name of the pseudo node carrying a graph's inputs
// in slot edges.
const GraphInputNode = "graph_input"

// SlotType is the type of value a slot carries.
type SlotType uint8

// Slot types.
const (
	SlotEntity SlotType = iota
)

// SlotInfo declares a node slot.
type SlotInfo struct {
	Name string
	Type SlotType
}

// SlotValue is a value passed through a slot.
type SlotValue struct {
	Entity Entity
}

// Node is a unit of per-frame GPU work.
//
// Input declares the node's input slots. Update is called once per frame
// before the graph runs. Run records commands for one view and may be
// called several times per frame, once per view.
type Node interface {
	Input() []SlotInfo
	Update(w *World)
	Run(gc *GraphContext, rc *RenderContext, w *World) error
}

// EmptyNode is a node without work, used as an ordering anchor.
type EmptyNode struct{}

// Input returns no slots.
func (EmptyNode) Input() []SlotInfo { return nil }

// Update does nothing.
func (EmptyNode) Update(*World) {}

// Run does nothing.
func (EmptyNode) Run(*GraphContext, *RenderContext, *World) error { return nil }

// slotEdge routes an output slot of one node to an input slot of another.
type slotEdge struct {
	from, fromSlot string
	toSlot         string
}

type graphNode struct {
	name   string
	node   Node
	inputs []slotEdge // keyed by toSlot
}

// RenderGraph is a named DAG of nodes with optional sub-graphs.
// Nodes run in dependency order; ties keep insertion order.
type RenderGraph struct {
	mu        sync.RWMutex
	input     []SlotInfo
	nodes     map[string]*graphNode
	order     []string
	deps      map[string][]string // node -> nodes it runs after
	subGraphs map[string]*RenderGraph
	subOrder  []string
}

// NewRenderGraph creates an empty graph.
func NewRenderGraph() *RenderGraph {
	return &RenderGraph{
		nodes:     make(map[string]*graphNode),
		deps:      make(map[string][]string),
		subGraphs: make(map[string]*RenderGraph),
	}
}

// SetInput declares the graph's input slots.
func (g *RenderGraph) SetInput(slots ...SlotInfo) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.input = append([]SlotInfo(nil), slots...)
}

// AddNode adds a named node.
func (g *RenderGraph) AddNode(name string, n Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[name]; ok || name == GraphInputNode {
		return fmt.Errorf("%w: %s", ErrNodeExists, name)
	}
	g.nodes[name] = &graphNode{name: name, node: n}
	g.order = append(g.order, name)
	return nil
}

// Node returns the node registered under name.
func (g *RenderGraph) Node(name string) (Node, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	gn, ok := g.nodes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, name)
	}
	return gn.node, nil
}

// AddNodeEdge makes to run after from.
func (g *RenderGraph) AddNodeEdge(from, to string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[from]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, from)
	}
	if _, ok := g.nodes[to]; !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, to)
	}
	g.deps[to] = append(g.deps[to], from)
	return nil
}

// AddSlotEdge routes slot fromSlot of node from into slot toSlot of node
// to. Use GraphInputNode as from to route a graph input. A slot edge also
// orders the nodes.
func (g *RenderGraph) AddSlotEdge(from, fromSlot, to, toSlot string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	dst, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, to)
	}
	if !hasSlot(dst.node.Input(), toSlot) {
		return fmt.Errorf("%w: %s.%s", ErrSlotNotFound, to, toSlot)
	}

	if from == GraphInputNode {
		if !hasSlot(g.input, fromSlot) {
			return fmt.Errorf("%w: %s.%s", ErrSlotNotFound, from, fromSlot)
		}
	} else {
		// Nodes have no output slots; a node-to-node slot edge forwards the
		// value the source node itself received under fromSlot.
		src, ok := g.nodes[from]
		if !ok {
			return fmt.Errorf("%w: %s", ErrNodeNotFound, from)
		}
		if !hasSlot(src.node.Input(), fromSlot) {
			return fmt.Errorf("%w: %s.%s", ErrSlotNotFound, from, fromSlot)
		}
		g.deps[to] = append(g.deps[to], from)
	}

	dst.inputs = append(dst.inputs, slotEdge{from: from, fromSlot: fromSlot, toSlot: toSlot})
	return nil
}

func hasSlot(slots []SlotInfo, name string) bool {
	for _, s := range slots {
		if s.Name == name {
			return true
		}
	}
	return false
}

// AddSubGraph registers a named sub-graph.
func (g *RenderGraph) AddSubGraph(name string, sub *RenderGraph) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.subGraphs[name]; !ok {
		g.subOrder = append(g.subOrder, name)
	}
	g.subGraphs[name] = sub
}

// SubGraph returns the named sub-graph.
func (g *RenderGraph) SubGraph(name string) (*RenderGraph, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	sub, ok := g.subGraphs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSubGraphNotFound, name)
	}
	return sub, nil
}

// Update calls Update on every node of the graph and its sub-graphs.
func (g *RenderGraph) Update(w *World) {
	g.mu.RLock()
	nodes := make([]Node, 0, len(g.order))
	for _, name := range g.order {
		nodes = append(nodes, g.nodes[name].node)
	}
	subs := make([]*RenderGraph, 0, len(g.subOrder))
	for _, name := range g.subOrder {
		subs = append(subs, g.subGraphs[name])
	}
	g.mu.RUnlock()

	for _, n := range nodes {
		n.Update(w)
	}
	for _, s := range subs {
		s.Update(w)
	}
}

// Order returns node names in execution order.
func (g *RenderGraph) Order() ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.sortLocked()
}

// sortLocked is Kahn's algorithm with insertion order as tie-breaker.
func (g *RenderGraph) sortLocked() ([]string, error) {
	indegree := make(map[string]int, len(g.nodes))
	dependents := make(map[string][]string, len(g.nodes))
	for _, name := range g.order {
		for _, dep := range g.deps[name] {
			indegree[name]++
			dependents[dep] = append(dependents[dep], name)
		}
	}

	out := make([]string, 0, len(g.order))
	done := make(map[string]bool, len(g.order))
	for len(out) < len(g.order) {
		progressed := false
		for _, name := range g.order {
			if done[name] || indegree[name] > 0 {
				continue
			}
			done[name] = true
			out = append(out, name)
			for _, d := range dependents[name] {
				indegree[d]--
			}
			progressed = true
			break
		}
		if !progressed {
			return nil, ErrGraphCycle
		}
	}
	return out, nil
}

// Run executes the graph once with the given input slot values.
func (g *RenderGraph) Run(rc *RenderContext, w *World, inputs map[string]SlotValue) error {
	g.mu.RLock()
	order, err := g.sortLocked()
	if err != nil {
		g.mu.RUnlock()
		return err
	}
	nodes := make([]*graphNode, len(order))
	for i, name := range order {
		nodes[i] = g.nodes[name]
	}
	g.mu.RUnlock()

	// received holds the resolved inputs of every node run so far.
	received := make(map[string]map[string]SlotValue, len(nodes))
	for _, gn := range nodes {
		gc := &GraphContext{node: gn.name, inputs: make(map[string]SlotValue, len(gn.inputs))}
		for _, e := range gn.inputs {
			var src map[string]SlotValue
			if e.from == GraphInputNode {
				src = inputs
			} else {
				src = received[e.from]
			}
			if v, ok := src[e.fromSlot]; ok {
				gc.inputs[e.toSlot] = v
			}
		}
		received[gn.name] = gc.inputs

		if err := gn.node.Run(gc, rc, w); err != nil {
			return fmt.Errorf("node %s: %w", gn.name, err)
		}
	}
	return nil
}

// GraphContext carries the slot inputs of one node run.
type GraphContext struct {
	node   string
	inputs map[string]SlotValue
}

// InputEntity returns the entity passed into slot name.
func (gc *GraphContext) InputEntity(name string) (Entity, error) {
	v, ok := gc.inputs[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s", ErrInputNotSet, gc.node, name)
	}
	return v.Entity, nil
}

// RenderContext gives nodes access to the device and a shared command
// encoder for the frame.
type RenderContext struct {
	device  Device
	encoder CommandEncoder
}

// NewRenderContext creates a render context for one frame.
func NewRenderContext(device Device) *RenderContext {
	return &RenderContext{device: device}
}

// Device returns the render device.
func (rc *RenderContext) Device() Device { return rc.device }

// CommandEncoder returns the frame's command encoder, creating it on first
// use.
func (rc *RenderContext) CommandEncoder() (CommandEncoder, error) {
	if rc.encoder == nil {
		enc, err := rc.device.CreateCommandEncoder("render_graph")
		if err != nil {
			return nil, err
		}
		rc.encoder = enc
	}
	return rc.encoder, nil
}

// Finish finishes the encoder. It returns nil if nothing was recorded.
func (rc *RenderContext) Finish() ([]CommandBuffer, error) {
	if rc.encoder == nil {
		return nil, nil
	}
	cb, err := rc.encoder.Finish()
	rc.encoder = nil
	if err != nil {
		return nil, err
	}
	return []CommandBuffer{cb}, nil
}
