// Package scenario holds the predefined protocol catalogue used by the
// experiments, plus the scenario file format that lets new compositions be
// described without writing code. All machines here are synthetic three
// state illustrations of governance protocols acting on one agent, not
// models of real systems.
//
// Every protocol declares the full shared action vocabulary even where it
// never enables an action. Declaring an action without a transition is how
// a protocol denies it, leaving it out of the vocabulary would instead make
// the protocol a silent pass-through for it.
package scenario

import (
	"github.com/muveraai/conclave/model"
)

// The shared action vocabulary of the predefined catalogue.
const (
	Read     model.Action = "read"
	Write    model.Action = "write"
	Execute  model.Action = "execute"
	Delete   model.Action = "delete"
	Escalate model.Action = "escalate"
)

// AllActions returns the shared vocabulary as a fresh slice.
func AllActions() []model.Action {
	return []model.Action{Read, Write, Execute, Delete, Escalate}
}

// ATP describes the adaptive trust protocol. Trust is built up in three
// tiers. The low tier only permits reading, a first write moves the agent
// to the medium tier, a successful execute to the high tier where
// everything except escalate is permitted. Escalate is never permitted,
// raising privileges is the one thing trust never earns here.
func ATP() model.Def {
	return model.Def{
		Name:    "ATP",
		States:  []string{"low", "medium", "high"},
		Initial: "low",
		Actions: AllActions(),
		Transitions: []model.Transition{
			{From: "low", To: "medium", Action: Write, Guard: "first_benign_write_observed"},
			{From: "medium", To: "high", Action: Execute, Guard: "two_or_more_successful_interactions"},
		},
		Rules: []string{
			"low: read -> low",
			"medium: read -> medium, write -> medium",
			"high: read -> high, write -> high, execute -> high, delete -> high",
		},
	}
}

// ASP describes the adaptive security protocol. Normal operation permits
// read, write and execute, but an execute raises the posture to elevated
// where only a read, which clears the review, is permitted. The lockdown
// state permits nothing and is the only non-accepting state.
func ASP() model.Def {
	return model.Def{
		Name:      "ASP",
		States:    []string{"normal", "elevated", "lockdown"},
		Initial:   "normal",
		Actions:   AllActions(),
		Accepting: []string{"normal", "elevated"},
		Transitions: []model.Transition{
			{From: "normal", To: "elevated", Action: Execute, Guard: "execute_triggers_review"},
			{From: "elevated", To: "normal", Action: Read, Guard: "read_clears_elevated_state"},
		},
		Rules: []string{
			"normal: read -> normal, write -> normal",
		},
	}
}

// AEAP describes the adaptive efficiency and allocation protocol, a
// resource budget governor. Writes and deletes consume budget and move the
// protocol towards warning, where only read and execute stay permitted.
// Once exhausted, only read is left.
func AEAP() model.Def {
	return model.Def{
		Name:    "AEAP",
		States:  []string{"available", "warning", "exhausted"},
		Initial: "available",
		Actions: AllActions(),
		Transitions: []model.Transition{
			{From: "available", To: "warning", Action: Write, Guard: "write_consumes_budget"},
			{From: "available", To: "warning", Action: Delete, Guard: "delete_consumes_budget"},
		},
		Rules: []string{
			"available: read -> available, execute -> available",
			"warning: read -> warning, execute -> warning",
			"exhausted: read -> exhausted",
		},
	}
}

// Broken describes an intentionally pathological protocol with a single
// sink state that denies every action. Any composition containing it
// deadlocks in its initial joint state, which makes it the known-bad
// control case for the deadlock check.
func Broken() model.Def {
	return model.Def{
		Name:    "BROKEN",
		States:  []string{"sink"},
		Initial: "sink",
		Actions: AllActions(),
	}
}

// Standard returns the defs of the standard composition, ATP then ASP then
// AEAP. Each call returns fresh values.
func Standard() []model.Def {
	return []model.Def{ATP(), ASP(), AEAP()}
}

// Models compiles a list of defs in order.
func Models(defs []model.Def) ([]*model.Protocol, error) {
	out := make([]*model.Protocol, len(defs))
	for i, def := range defs {
		p, err := model.New(def)
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}
