package conclave

/*
This repository implements conclave, a bounded model checker for
compositions of finite-state governance protocols. Each protocol is a small
deterministic state machine over a shared action vocabulary; composition is
conjunctive, so an action is permitted by the composed system only when
every protocol that defines the action permits it in its current state. The
checker enumerates the reachable joint state space breadth-first up to a
configurable ceiling and verifies three properties over it: monotonic
restriction (composing never grants more permission than any single
protocol would), deadlock freedom (some action stays available in every
reachable joint state) and priority ordering (a denial is always attributed
to the highest-priority denying protocol).

The repository is split into:

	model       - immutable protocol state machines and their validation
	model/rules - the transition-rule grammar used in scenario files
	compose     - the lazy product automaton over a list of protocols
	verify      - the bounded breadth-first search and the property catalogue
	scenario    - predefined protocol sets and TOML scenario files
	archive     - a bbolt-backed record of past verification runs
	vcadmin     - the command-line tool driving all of the above

All verification is pure and in-memory: a run is a function of the models,
the priority list and the bound, and two runs over the same inputs visit the
same states and report identical results.
*/
