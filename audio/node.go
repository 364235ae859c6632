package audio

import (
	"slices"

	"github.com/cwbudde/algo-vecmath"
)

// Node is any element of a Context's graph.
type Node interface {
	audioNode() *node
}

type processor interface {
	process(q, start int64, in, out []float64)
}

// node carries the wiring and per-quantum output cache shared by all node
// types. Concrete nodes embed it and supply a processor.
type node struct {
	ctx  *Context
	proc processor

	inputs  []*node
	outputs []*node
	params  []*Param

	in       []float64
	out      []float64
	rendered int64
}

func (n *node) init(c *Context, p processor) {
	n.ctx = c
	n.proc = p
	n.in = make([]float64, RenderQuantum)
	n.out = make([]float64, RenderQuantum)
}

func (n *node) audioNode() *node { return n }

// Connect routes this node's output into dst. Connecting twice, or to a
// node of another Context, is a no-op.
func (n *node) Connect(dst Node) {
	d := dst.audioNode()
	if d.ctx != n.ctx || d == n {
		return
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if slices.Contains(d.inputs, n) {
		return
	}
	d.inputs = append(d.inputs, n)
	n.outputs = append(n.outputs, d)
}

// ConnectParam adds this node's output to the computed value of p.
func (n *node) ConnectParam(p *Param) {
	if p.ctx != n.ctx {
		return
	}

	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	if slices.Contains(p.inputs, n) {
		return
	}
	p.inputs = append(p.inputs, n)
	n.params = append(n.params, p)
}

// Disconnect removes every outgoing connection of this node.
func (n *node) Disconnect() {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	for _, d := range n.outputs {
		d.inputs = slices.DeleteFunc(d.inputs, func(x *node) bool { return x == n })
	}
	for _, p := range n.params {
		p.inputs = slices.DeleteFunc(p.inputs, func(x *node) bool { return x == n })
	}
	n.outputs = nil
	n.params = nil
}

// Connected reports whether the node feeds any node or parameter.
func (n *node) Connected() bool {
	n.ctx.mu.Lock()
	defer n.ctx.mu.Unlock()

	return len(n.outputs) > 0 || len(n.params) > 0
}

// pull renders the node for quantum q once and returns the cached output.
// The caller holds the Context lock.
func (n *node) pull(q, start int64) []float64 {
	if n.rendered == q {
		return n.out
	}
	n.rendered = q

	n.proc.process(q, start, mix(n.in, n.inputs, q, start), n.out)

	return n.out
}

// mix sums the outputs of srcs for quantum q into buf.
func mix(buf []float64, srcs []*node, q, start int64) []float64 {
	clear(buf)
	for _, src := range srcs {
		vecmath.AddBlockInPlace(buf, src.pull(q, start))
	}
	return buf
}

// Destination is the sink whose mixed input becomes the rendered output.
type Destination struct {
	node
}

func (d *Destination) process(_, _ int64, in, out []float64) {
	copy(out, in)
}

// InputCount returns the number of nodes currently connected to d.
func (d *Destination) InputCount() int {
	d.ctx.mu.Lock()
	defer d.ctx.mu.Unlock()

	return len(d.inputs)
}

// scheduled tracks the start and stop frames of a source node.
type scheduled struct {
	startAt int64
	stopAt  int64
	started bool
}

func (s *scheduled) start(c *Context, when float64) {
	if s.started {
		return
	}
	s.started = true
	s.startAt = c.frameAt(when)
	s.stopAt = -1
}

func (s *scheduled) stop(c *Context, when float64) {
	if !s.started {
		return
	}
	s.stopAt = c.frameAt(when)
}

func (s *scheduled) playing(frame int64) bool {
	return s.started && frame >= s.startAt && (s.stopAt < 0 || frame < s.stopAt)
}
