// Package verify implements the bounded breadth-first search over a
// composition and the catalogue of properties checked on it. The search
// visits joint states in a deterministic order and keeps at most a
// configured number of them, so two runs over the same inputs always report
// the same counts, the same verdicts and the same counterexamples.
package verify

import (
	"go.dedis.ch/onet/v3/log"

	"github.com/muveraai/conclave"
	"github.com/muveraai/conclave/compose"
	"github.com/muveraai/conclave/model"
)

// DefaultMaxStates is the default ceiling on the number of joint states one
// search may visit.
const DefaultMaxStates = 10000

// Verifier runs property checks against one composition. The exploration is
// done once and shared between checks, which keeps repeated VerifyAll calls
// byte-identical and cheap.
type Verifier struct {
	comp  *compose.Composer
	bound int
	space *StateSpace
}

// New returns a verifier for the given composition with the default state
// ceiling.
func New(c *compose.Composer) *Verifier {
	return &Verifier{comp: c, bound: DefaultMaxStates}
}

// MaxStates returns the current state ceiling.
func (v *Verifier) MaxStates() int {
	return v.bound
}

// SetMaxStates changes the state ceiling and discards any recorded
// exploration.
func (v *Verifier) SetMaxStates(n int) error {
	if n < 1 {
		return conclave.Configf("state bound must be positive, got %d", n)
	}
	v.bound = n
	v.space = nil
	return nil
}

// Explore runs the bounded breadth-first search and returns the recorded
// state space. The result is cached, a second call returns the same record.
func (v *Verifier) Explore() *StateSpace {
	if v.space == nil {
		v.space = v.search()
	}
	return v.space
}

// Verify checks one property. An empty priority list means composition
// order.
// Malformed inputs, an unknown property or a priority list that is not a
// permutation of the composed protocol names, are configuration errors and
// are reported before any search output is produced.
func (v *Verifier) Verify(p Property, priority []string) (Result, error) {
	ev, ok := evaluatorOf(p)
	if !ok {
		return Result{}, conclave.Configf("unknown property %q", p)
	}
	pr, err := v.priorityOrder(priority)
	if err != nil {
		return Result{}, err
	}
	return v.run(ev, pr), nil
}

// VerifyAll checks every property of the catalogue, in catalogue order,
// over a single shared exploration.
func (v *Verifier) VerifyAll(priority []string) (Results, error) {
	pr, err := v.priorityOrder(priority)
	if err != nil {
		return nil, err
	}
	out := make(Results, 0, len(catalogue))
	for _, ev := range catalogue {
		out = append(out, v.run(ev, pr))
	}
	log.Lvl2("checked", len(out), "properties, all hold:", out.AllHold())
	return out, nil
}

func (v *Verifier) run(ev entry, pr *priorityOrder) Result {
	ss := v.Explore()
	res := ev.eval(ss, pr)
	res.Property = ev.prop
	res.BoundExceeded = ss.truncated
	if ss.truncated && res.Holds {
		res.Detail += "; the state bound was reached before exhaustion, the property is only guaranteed on the explored prefix"
	}
	log.Lvl3("property", ev.prop, "holds:", res.Holds, "states checked:", res.StatesChecked)
	return res
}

// priorityOrder resolves the caller's priority list, most-important-first.
type priorityOrder struct {
	names []string
	rank  map[string]int
}

func (v *Verifier) priorityOrder(priority []string) (*priorityOrder, error) {
	names := v.comp.Names()
	if len(priority) == 0 {
		priority = names
	}
	if len(priority) != len(names) {
		return nil, conclave.Configf("priority list names %d protocols, the composition has %d",
			len(priority), len(names))
	}
	composed := make(map[string]bool, len(names))
	for _, n := range names {
		composed[n] = true
	}
	pr := &priorityOrder{
		names: append([]string{}, priority...),
		rank:  make(map[string]int, len(priority)),
	}
	for i, n := range priority {
		if !composed[n] {
			return nil, conclave.Configf("priority list names unknown protocol %q", n)
		}
		if _, ok := pr.rank[n]; ok {
			return nil, conclave.Configf("priority list names protocol %q twice", n)
		}
		pr.rank[n] = i
	}
	return pr, nil
}

// StateSpace is the record of one bounded breadth-first search: the reached
// joint states in traversal order, their enabled actions and the spanning
// tree the search built. It is read-only.
type StateSpace struct {
	comp      *compose.Composer
	order     []compose.Joint
	index     map[string]int
	enabled   [][]model.Action
	pred      []int
	via       []model.Action
	truncated bool
}

type queueEntry struct {
	joint compose.Joint
	pred  int
	via   model.Action
}

func (v *Verifier) search() *StateSpace {
	ss := &StateSpace{comp: v.comp, index: make(map[string]int)}
	init := v.comp.Initial()
	seen := map[string]bool{init.Key(): true}
	queue := []queueEntry{{joint: init, pred: -1}}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		rank := len(ss.order)
		ss.order = append(ss.order, e.joint)
		ss.index[e.joint.Key()] = rank
		ss.pred = append(ss.pred, e.pred)
		ss.via = append(ss.via, e.via)

		moves := v.comp.Expand(e.joint)
		en := make([]model.Action, len(moves))
		for i, m := range moves {
			en[i] = m.Action
		}
		ss.enabled = append(ss.enabled, en)

		for _, m := range moves {
			k := m.To.Key()
			if seen[k] {
				continue
			}
			if len(seen) >= v.bound {
				ss.truncated = true
				continue
			}
			seen[k] = true
			queue = append(queue, queueEntry{joint: m.To, pred: rank, via: m.Action})
		}
	}
	if ss.truncated {
		log.Warn("bound of", v.bound, "joint states reached before the reachable space was exhausted")
	} else {
		log.Lvl3("explored", len(ss.order), "joint states out of a product of", v.comp.ProductSize())
	}
	return ss
}

// Len returns the number of reached joint states.
func (ss *StateSpace) Len() int {
	return len(ss.order)
}

// Truncated tells whether the search hit the state ceiling.
func (ss *StateSpace) Truncated() bool {
	return ss.truncated
}

// Composer returns the composition the search ran on.
func (ss *StateSpace) Composer() *compose.Composer {
	return ss.comp
}

// Joint returns the i-th reached joint state, in traversal order.
func (ss *StateSpace) Joint(i int) compose.Joint {
	return ss.order[i].Clone()
}

// Index returns the traversal rank of a joint state, or false if the search
// never reached it.
func (ss *StateSpace) Index(j compose.Joint) (int, bool) {
	i, ok := ss.index[j.Key()]
	return i, ok
}

// StateNames returns the component state names of the i-th reached joint
// state.
func (ss *StateSpace) StateNames(i int) []string {
	return ss.comp.StateNames(ss.order[i])
}

// Enabled returns the actions enabled in the i-th reached joint state, in
// alphabet order.
func (ss *StateSpace) Enabled(i int) []model.Action {
	return append([]model.Action{}, ss.enabled[i]...)
}

// Path returns the actions leading from the initial joint state to the i-th
// reached one, following the tree the search built. Path(0) is empty.
func (ss *StateSpace) Path(i int) []model.Action {
	var rev []model.Action
	for i > 0 {
		rev = append(rev, ss.via[i])
		i = ss.pred[i]
	}
	for l, r := 0, len(rev)-1; l < r; l, r = l+1, r-1 {
		rev[l], rev[r] = rev[r], rev[l]
	}
	return rev
}
