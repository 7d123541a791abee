package verify

import (
	"github.com/muveraai/conclave/model"
)

// Property identifies one entry of the property catalogue.
type Property string

const (
	// MonotonicRestriction checks that the composition never permits an
	// action that a component defining it denies. The conjunctive
	// composition rule guarantees this structurally, so a violation is a
	// composer defect, not a protocol defect.
	MonotonicRestriction Property = "monotonic_restriction"
	// DeadlockFreedom checks that every reached joint state enables at
	// least one action.
	DeadlockFreedom Property = "deadlock_freedom"
	// PriorityOrdering checks that every denial is attributed to the
	// highest-priority denier. Priority never changes which actions are
	// enabled, it only says which protocol's denial counts as dominant.
	PriorityOrdering Property = "priority_ordering"
)

// Counterexample pins down the first joint state where a property fails.
type Counterexample struct {
	// State holds the component state names, in composition order.
	State []string `json:"state"`
	// Action is the action at issue. It is empty for a deadlock, where
	// the problem is the absence of any action.
	Action model.Action `json:"action,omitempty"`
	// Path holds the actions leading from the initial joint state to
	// State, in order.
	Path []model.Action `json:"path"`
}

// Result is the outcome of checking one property.
type Result struct {
	Property Property `json:"property"`
	Holds    bool     `json:"holds"`
	// StatesChecked counts the joint states the property was evaluated
	// on: all reached states when the property holds, or the 1-based
	// position of the counterexample in traversal order when it does
	// not.
	StatesChecked int `json:"states_checked"`
	// BoundExceeded is set when the search hit the state ceiling before
	// exhausting the reachable space. A holding property is then only
	// guaranteed on the explored prefix, which Detail repeats.
	BoundExceeded  bool            `json:"bound_exceeded"`
	Detail         string          `json:"detail"`
	Counterexample *Counterexample `json:"counterexample,omitempty"`
}

// Results holds one Result per checked property, in catalogue order.
type Results []Result

// Get returns the result for property p.
func (rs Results) Get(p Property) (Result, bool) {
	for _, r := range rs {
		if r.Property == p {
			return r, true
		}
	}
	return Result{}, false
}

// AllHold tells whether every checked property holds.
func (rs Results) AllHold() bool {
	for _, r := range rs {
		if !r.Holds {
			return false
		}
	}
	return true
}
