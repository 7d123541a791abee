// Package compose builds the product of several protocol models and answers
// questions about it without ever materialising the product. The composition
// is conjunctive: an action is allowed in a joint state when every component
// that defines the action has a transition for it there. Components that do
// not define the action have no say and keep their state. An action that no
// component defines is not allowed.
//
// Everything here is deterministic. The alphabet is the sorted union of the
// component vocabularies and Expand reports moves in alphabet order, so two
// walks over the same composition visit the same joints in the same order.
package compose

import (
	"fmt"
	"sort"

	"github.com/muveraai/conclave"
	"github.com/muveraai/conclave/model"
)

// Move is one outgoing edge of a joint state.
type Move struct {
	Action model.Action
	To     Joint
}

// Composer is the lazy product of its component protocols. Like the
// components it is read-only after New.
type Composer struct {
	protos   []*model.Protocol
	alphabet []model.Action
}

// New composes the given protocols, in the given order. The order is part of
// the composition: joint states and denier lists follow it. Composing
// nothing, a nil protocol or two protocols with the same name is a
// configuration error.
func New(protos ...*model.Protocol) (*Composer, error) {
	if len(protos) == 0 {
		return nil, conclave.Configf("nothing to compose")
	}
	names := make(map[string]bool, len(protos))
	seen := make(map[model.Action]bool)
	var alphabet []model.Action
	for _, p := range protos {
		if p == nil {
			return nil, conclave.Configf("nil protocol in composition")
		}
		if names[p.Name()] {
			return nil, conclave.Configf("duplicate protocol name %q in composition", p.Name())
		}
		names[p.Name()] = true
		for _, a := range p.Actions() {
			if !seen[a] {
				seen[a] = true
				alphabet = append(alphabet, a)
			}
		}
	}
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })
	return &Composer{
		protos:   append([]*model.Protocol{}, protos...),
		alphabet: alphabet,
	}, nil
}

// Size returns the number of components.
func (c *Composer) Size() int {
	return len(c.protos)
}

// Protocols returns the components, in composition order.
func (c *Composer) Protocols() []*model.Protocol {
	return append([]*model.Protocol{}, c.protos...)
}

// Names returns the component names, in composition order.
func (c *Composer) Names() []string {
	names := make([]string, len(c.protos))
	for i, p := range c.protos {
		names[i] = p.Name()
	}
	return names
}

// Alphabet returns the sorted union of the component vocabularies.
func (c *Composer) Alphabet() []model.Action {
	return append([]model.Action{}, c.alphabet...)
}

// ProductSize returns the number of joint states of the full product,
// reachable or not.
func (c *Composer) ProductSize() int {
	n := 1
	for _, p := range c.protos {
		n *= p.NumStates()
	}
	return n
}

// Initial returns the joint state where every component is in its initial
// state.
func (c *Composer) Initial() Joint {
	j := make(Joint, len(c.protos))
	for i, p := range c.protos {
		j[i] = p.Initial()
	}
	return j
}

// StateNames resolves a joint state to the component state names, in
// composition order.
func (c *Composer) StateNames(j Joint) []string {
	c.check(j)
	names := make([]string, len(j))
	for i, p := range c.protos {
		names[i] = p.StateName(j[i])
	}
	return names
}

// Allows tells whether the composition allows a in joint state j.
func (c *Composer) Allows(j Joint, a model.Action) bool {
	c.check(j)
	defined := false
	for i, p := range c.protos {
		if !p.Defines(a) {
			continue
		}
		defined = true
		if !p.Enabled(j[i], a) {
			return false
		}
	}
	return defined
}

// Deniers returns the names of the components that define a but have no
// transition for it in joint state j, in composition order. An empty result
// means no component vetoes a, which for a defined action means it is
// allowed.
func (c *Composer) Deniers(j Joint, a model.Action) []string {
	c.check(j)
	var out []string
	for i, p := range c.protos {
		if p.Defines(a) && !p.Enabled(j[i], a) {
			out = append(out, p.Name())
		}
	}
	return out
}

// Step returns the joint state reached by taking a in j: every component
// defining a takes its transition, the others keep their state. The second
// return is false when the composition does not allow a in j.
func (c *Composer) Step(j Joint, a model.Action) (Joint, bool) {
	c.check(j)
	to := make(Joint, len(j))
	defined := false
	for i, p := range c.protos {
		if !p.Defines(a) {
			to[i] = j[i]
			continue
		}
		defined = true
		t, ok := p.Step(j[i], a)
		if !ok {
			return nil, false
		}
		to[i] = t
	}
	if !defined {
		return nil, false
	}
	return to, true
}

// Enabled returns the actions the composition allows in j, in alphabet
// order.
func (c *Composer) Enabled(j Joint) []model.Action {
	var out []model.Action
	for _, a := range c.alphabet {
		if c.Allows(j, a) {
			out = append(out, a)
		}
	}
	return out
}

// Expand returns the outgoing moves of j, in alphabet order.
func (c *Composer) Expand(j Joint) []Move {
	var moves []Move
	for _, a := range c.alphabet {
		if to, ok := c.Step(j, a); ok {
			moves = append(moves, Move{Action: a, To: to})
		}
	}
	return moves
}

func (c *Composer) String() string {
	return fmt.Sprintf("Composer: %d protocols, %d actions", len(c.protos), len(c.alphabet))
}

// check panics when j does not have one entry per component. Such a joint
// cannot come out of this composer, so hitting one is a bug in the caller,
// not a configuration problem.
func (c *Composer) check(j Joint) {
	if len(j) != len(c.protos) {
		panic(fmt.Sprintf("joint state has %d entries, composition has %d components",
			len(j), len(c.protos)))
	}
}
