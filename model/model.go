// Package model implements the finite-state protocol models that the rest of
// the repository composes and verifies. A protocol names its states and the
// shared actions it cares about, and says for every (state, action) pair
// which state the protocol moves to when the action is taken. Permission is
// the existence of a transition: a protocol permits an action in a state if
// and only if it has a transition for it there. There is no separate
// permitted flag and no way to "allow without moving" other than a self-loop.
//
// A Protocol is compiled once from its Def and is read-only afterwards, so
// it can be shared freely between goroutines.
package model

import (
	"fmt"
	"sort"

	"github.com/muveraai/conclave"
	"github.com/muveraai/conclave/model/rules"
)

// Action is one value of the action vocabulary shared between protocols.
type Action string

// Transition is one directed edge of a protocol: taking Action in state From
// moves the protocol to state To. Guard is a free-form annotation describing
// an external condition under which the transition fires. Guards are carried
// through to reports but never evaluated.
type Transition struct {
	From   string
	To     string
	Action Action
	Guard  string
}

// Def describes a protocol before compilation. It is the form that scenario
// files decode into. Transitions and Rules both contribute edges, Rules
// being the compact one-line-per-state notation of the rules package. When
// Actions is empty the vocabulary is inferred from the edges, in sorted
// order. When Accepting is empty every state is accepting.
type Def struct {
	Name        string
	States      []string
	Initial     string
	Actions     []Action
	Accepting   []string
	Rules       []string
	Transitions []Transition
}

// Protocol is a compiled protocol model. All lookups are table indexing, no
// map is touched after New returns except for name resolution.
type Protocol struct {
	name      string
	states    []string
	index     map[string]int
	actions   []Action
	actIndex  map[Action]int
	initial   int
	next      [][]int
	guards    [][]string
	accepting []bool
}

// New compiles def into a Protocol. Every malformed def is reported as a
// configuration error: a missing name, no states, duplicate state or action
// names, an initial or accepting state that is not declared, an edge whose
// endpoints or action are not declared, or two edges leaving the same state
// on the same action.
func New(def Def) (*Protocol, error) {
	if def.Name == "" {
		return nil, conclave.Configf("protocol has no name")
	}
	if len(def.States) == 0 {
		return nil, conclave.Configf("protocol %q: no states", def.Name)
	}
	p := &Protocol{
		name:   def.Name,
		states: append([]string{}, def.States...),
		index:  make(map[string]int, len(def.States)),
	}
	for i, s := range p.states {
		if s == "" {
			return nil, conclave.Configf("protocol %q: empty state name", def.Name)
		}
		if _, ok := p.index[s]; ok {
			return nil, conclave.Configf("protocol %q: duplicate state %q", def.Name, s)
		}
		p.index[s] = i
	}
	init, ok := p.index[def.Initial]
	if !ok {
		return nil, conclave.Configf("protocol %q: initial state %q is not a declared state",
			def.Name, def.Initial)
	}
	p.initial = init

	edges := append([]Transition{}, def.Transitions...)
	if len(def.Rules) > 0 {
		rs, err := rules.ParseAll(def.Rules)
		if err != nil {
			return nil, conclave.ConfigWrap(err, fmt.Sprintf("protocol %q", def.Name))
		}
		for _, r := range rs {
			edges = append(edges, Transition{From: r.From, To: r.To, Action: Action(r.Action)})
		}
	}

	if len(def.Actions) > 0 {
		p.actions = append([]Action{}, def.Actions...)
	} else {
		seen := make(map[Action]bool)
		for _, e := range edges {
			if !seen[e.Action] {
				seen[e.Action] = true
				p.actions = append(p.actions, e.Action)
			}
		}
		sort.Slice(p.actions, func(i, j int) bool { return p.actions[i] < p.actions[j] })
	}
	p.actIndex = make(map[Action]int, len(p.actions))
	for i, a := range p.actions {
		if a == "" {
			return nil, conclave.Configf("protocol %q: empty action name", def.Name)
		}
		if _, ok := p.actIndex[a]; ok {
			return nil, conclave.Configf("protocol %q: duplicate action %q", def.Name, a)
		}
		p.actIndex[a] = i
	}

	p.next = make([][]int, len(p.states))
	p.guards = make([][]string, len(p.states))
	for i := range p.next {
		row := make([]int, len(p.actions))
		for j := range row {
			row[j] = -1
		}
		p.next[i] = row
		p.guards[i] = make([]string, len(p.actions))
	}
	for _, e := range edges {
		from, ok := p.index[e.From]
		if !ok {
			return nil, conclave.Configf("protocol %q: transition from unknown state %q",
				def.Name, e.From)
		}
		to, ok := p.index[e.To]
		if !ok {
			return nil, conclave.Configf("protocol %q: transition to unknown state %q",
				def.Name, e.To)
		}
		act, ok := p.actIndex[e.Action]
		if !ok {
			return nil, conclave.Configf("protocol %q: transition on unknown action %q",
				def.Name, e.Action)
		}
		if p.next[from][act] != -1 {
			return nil, conclave.Configf("protocol %q: state %q has two transitions on action %q",
				def.Name, e.From, e.Action)
		}
		p.next[from][act] = to
		p.guards[from][act] = e.Guard
	}

	p.accepting = make([]bool, len(p.states))
	if len(def.Accepting) == 0 {
		for i := range p.accepting {
			p.accepting[i] = true
		}
	} else {
		for _, s := range def.Accepting {
			i, ok := p.index[s]
			if !ok {
				return nil, conclave.Configf("protocol %q: accepting state %q is not a declared state",
					def.Name, s)
			}
			p.accepting[i] = true
		}
	}
	return p, nil
}

// Name returns the protocol name.
func (p *Protocol) Name() string {
	return p.name
}

// NumStates returns how many states the protocol declares.
func (p *Protocol) NumStates() int {
	return len(p.states)
}

// Initial returns the index of the initial state.
func (p *Protocol) Initial() int {
	return p.initial
}

// StateName returns the name of the state with index i.
func (p *Protocol) StateName(i int) string {
	return p.states[i]
}

// StateIndex resolves a state name to its index.
func (p *Protocol) StateIndex(name string) (int, bool) {
	i, ok := p.index[name]
	return i, ok
}

// Actions returns a copy of the action vocabulary, in vocabulary order.
func (p *Protocol) Actions() []Action {
	return append([]Action{}, p.actions...)
}

// Defines tells whether a is part of the protocol's vocabulary. A protocol
// has no say over actions it does not define.
func (p *Protocol) Defines(a Action) bool {
	_, ok := p.actIndex[a]
	return ok
}

// Enabled tells whether the protocol defines a and has a transition for it
// from state s.
func (p *Protocol) Enabled(s int, a Action) bool {
	i, ok := p.actIndex[a]
	if !ok {
		return false
	}
	return p.next[s][i] != -1
}

// Step returns the state reached by taking a in state s. It returns -1 and
// false when the protocol has no such transition.
func (p *Protocol) Step(s int, a Action) (int, bool) {
	i, ok := p.actIndex[a]
	if !ok {
		return -1, false
	}
	t := p.next[s][i]
	if t == -1 {
		return -1, false
	}
	return t, true
}

// Permitted returns the actions the protocol permits in state s, in
// vocabulary order.
func (p *Protocol) Permitted(s int) []Action {
	var out []Action
	for i, a := range p.actions {
		if p.next[s][i] != -1 {
			out = append(out, a)
		}
	}
	return out
}

// Accepting tells whether state s is accepting.
func (p *Protocol) Accepting(s int) bool {
	return p.accepting[s]
}

// Guard returns the guard annotation of the transition leaving s on a, or
// the empty string when there is no transition or no guard.
func (p *Protocol) Guard(s int, a Action) string {
	i, ok := p.actIndex[a]
	if !ok {
		return ""
	}
	return p.guards[s][i]
}

func (p *Protocol) String() string {
	return fmt.Sprintf("Protocol %s: %d states, %d actions",
		p.name, len(p.states), len(p.actions))
}
