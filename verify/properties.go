package verify

import (
	"fmt"
	"strings"

	"github.com/muveraai/conclave/model"
)

// entry ties a property to its evaluator. The catalogue below is built once
// and never written afterwards, so it is safe to share between concurrent
// verification runs.
type entry struct {
	prop Property
	desc string
	eval func(*StateSpace, *priorityOrder) Result
}

var catalogue = []entry{
	{
		prop: MonotonicRestriction,
		desc: "composing protocols only ever removes permissions, never adds them",
		eval: evalMonotonic,
	},
	{
		prop: DeadlockFreedom,
		desc: "every reachable joint state enables at least one action",
		eval: evalDeadlock,
	},
	{
		prop: PriorityOrdering,
		desc: "every denial is attributed to the highest-priority protocol denying the action",
		eval: evalPriority,
	},
}

// Catalogue returns the checkable properties, in catalogue order.
func Catalogue() []Property {
	out := make([]Property, len(catalogue))
	for i, e := range catalogue {
		out[i] = e.prop
	}
	return out
}

// Description returns the human-readable description of p, or the empty
// string for an unknown property.
func (p Property) Description() string {
	if e, ok := evaluatorOf(p); ok {
		return e.desc
	}
	return ""
}

func evaluatorOf(p Property) (entry, bool) {
	for _, e := range catalogue {
		if e.prop == p {
			return e, true
		}
	}
	return entry{}, false
}

// evalMonotonic walks every reached joint state and checks that each enabled
// action is enabled in every component that defines it. The conjunctive
// composition makes a violation impossible unless the composer itself is
// broken, so a counterexample here is reported as a defect. When the
// property holds, the detail reports which single model was the most
// permissive at the initial state and by how much the composition reduced
// it.
func evalMonotonic(ss *StateSpace, _ *priorityOrder) Result {
	protos := ss.comp.Protocols()
	for rank, j := range ss.order {
		for _, a := range ss.enabled[rank] {
			for i, p := range protos {
				if p.Defines(a) && !p.Enabled(j[i], a) {
					names := ss.comp.StateNames(j)
					return Result{
						Holds:         false,
						StatesChecked: rank + 1,
						Detail: fmt.Sprintf("composition enables %q in %s although %s denies it, the composer is defective",
							a, jointLabel(names), p.Name()),
						Counterexample: &Counterexample{
							State:  names,
							Action: a,
							Path:   ss.Path(rank),
						},
					}
				}
			}
		}
	}

	init := ss.order[0]
	best, bestCount := "", -1
	for i, p := range protos {
		if n := len(p.Permitted(init[i])); n > bestCount {
			best, bestCount = p.Name(), n
		}
	}
	composed := len(ss.enabled[0])
	return Result{
		Holds:         true,
		StatesChecked: len(ss.order),
		Detail: fmt.Sprintf("most permissive model at the initial state is %s with %d actions, the composition enables %d, a reduction of %d",
			best, bestCount, composed, bestCount-composed),
	}
}

// evalDeadlock reports the first reached joint state with an empty enabled
// set. Traversal order makes "first" well defined, so the counterexample is
// stable across runs.
func evalDeadlock(ss *StateSpace, _ *priorityOrder) Result {
	for rank := range ss.order {
		if len(ss.enabled[rank]) > 0 {
			continue
		}
		names := ss.StateNames(rank)
		return Result{
			Holds:         false,
			StatesChecked: rank + 1,
			Detail:        fmt.Sprintf("joint state %s enables no action", jointLabel(names)),
			Counterexample: &Counterexample{
				State: names,
				Path:  ss.Path(rank),
			},
		}
	}
	return Result{
		Holds:         true,
		StatesChecked: len(ss.order),
		Detail:        fmt.Sprintf("all %d reached joint states enable at least one action", len(ss.order)),
	}
}

// evalPriority attributes every denial to the highest-priority denier and
// counts the attributions per protocol. Priority is attribution only: which
// actions are enabled is decided by the conjunctive rule alone, so the
// property can only fail if an action is enabled while some definer denies
// it, which again means the composer is defective.
func evalPriority(ss *StateSpace, pr *priorityOrder) Result {
	counts := make([]int, len(pr.names))
	alphabet := ss.comp.Alphabet()
	for rank, j := range ss.order {
		en := make(map[model.Action]bool, len(ss.enabled[rank]))
		for _, a := range ss.enabled[rank] {
			en[a] = true
		}
		for _, a := range alphabet {
			deniers := ss.comp.Deniers(j, a)
			if len(deniers) == 0 {
				continue
			}
			if en[a] {
				names := ss.comp.StateNames(j)
				return Result{
					Holds:         false,
					StatesChecked: rank + 1,
					Detail: fmt.Sprintf("composition enables %q in %s although %s denies it, the composer is defective",
						a, jointLabel(names), deniers[0]),
					Counterexample: &Counterexample{
						State:  names,
						Action: a,
						Path:   ss.Path(rank),
					},
				}
			}
			dom := deniers[0]
			for _, d := range deniers[1:] {
				if pr.rank[d] < pr.rank[dom] {
					dom = d
				}
			}
			counts[pr.rank[dom]]++
		}
	}

	parts := make([]string, len(pr.names))
	for i, n := range pr.names {
		parts[i] = fmt.Sprintf("%s=%d", n, counts[i])
	}
	return Result{
		Holds:         true,
		StatesChecked: len(ss.order),
		Detail:        "dominant denials by priority: " + strings.Join(parts, " "),
	}
}

func jointLabel(names []string) string {
	return "(" + strings.Join(names, ", ") + ")"
}
