// Package gainproc implements the graph's summing node: it mixes the
// output of every attached input and scales the result by a scheduled
// gain parameter.
package gainproc

import (
	"synthcore/internal/node"
	"synthcore/internal/parameter"
	"synthcore/internal/sampleclock"
)

// Processor sums its named inputs and applies a gain parameter.
type Processor struct {
	gain   *parameter.Parameter
	inputs map[string]node.Node
}

// New creates a GainProcessor with gain defaulting to 1 (range [0,1]) and
// no inputs attached.
func New() *Processor {
	return &Processor{
		gain:   parameter.New(1, 0, 1),
		inputs: make(map[string]node.Node),
	}
}

// Gain returns the processor's gain parameter.
func (p *Processor) Gain() *parameter.Parameter { return p.gain }

// Produce implements node.Node: sum every input's sample, then scale by
// the gain parameter evaluated at sample.
func (p *Processor) Produce(clk *sampleclock.Clock, sample uint64) float32 {
	var sum float32
	for _, in := range p.inputs {
		sum += in.Produce(clk, sample)
	}
	return sum * p.gain.ValueAt(sample)
}

// SetParameter implements node.Node. "gain" is the only named parameter.
func (p *Processor) SetParameter(name string, value float32) {
	if name == "gain" {
		p.gain.SetValue(value)
	}
}

// AttachInput implements node.Node. Attaching a name that already exists
// replaces that input.
func (p *Processor) AttachInput(name string, child node.Node) {
	p.inputs[name] = child
}

// DetachInput implements node.Node.
func (p *Processor) DetachInput(name string) {
	delete(p.inputs, name)
}

// Duplicate returns a copy with its own gain parameter and a recursive
// copy of the inputs map (each input is itself duplicated).
func (p *Processor) Duplicate() node.Node {
	dup := &Processor{
		gain:   p.gain.Clone(),
		inputs: make(map[string]node.Node, len(p.inputs)),
	}
	for name, child := range p.inputs {
		dup.inputs[name] = child.Duplicate()
	}
	return dup
}
