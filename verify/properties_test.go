package verify

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muveraai/conclave/compose"
	"github.com/muveraai/conclave/model"
)

func TestCatalogue(t *testing.T) {
	require.Equal(t, []Property{
		MonotonicRestriction,
		DeadlockFreedom,
		PriorityOrdering,
	}, Catalogue())

	for _, p := range Catalogue() {
		require.NotEmpty(t, p.Description())
	}
	require.Empty(t, Property("liveness").Description())
}

func TestMonotonicRestriction(t *testing.T) {
	v := New(tierBudget(t))
	res, err := v.Verify(MonotonicRestriction, nil)
	require.NoError(t, err)
	require.True(t, res.Holds)
	require.Equal(t, 3, res.StatesChecked)
	require.Nil(t, res.Counterexample)
	require.Contains(t, res.Detail, "most permissive model at the initial state is tier")
	require.Contains(t, res.Detail, "a reduction of 0")
}

func TestDeadlockFreedom(t *testing.T) {
	v := New(tierBudget(t))
	res, err := v.Verify(DeadlockFreedom, nil)
	require.NoError(t, err)
	require.False(t, res.Holds)
	require.Equal(t, 3, res.StatesChecked)
	require.Contains(t, res.Detail, "(high, warning)")
	require.NotNil(t, res.Counterexample)
	require.Equal(t, []string{"high", "warning"}, res.Counterexample.State)
	require.Equal(t, model.Action(""), res.Counterexample.Action)
	require.Equal(t, []model.Action{"write", "escalate"}, res.Counterexample.Path)
}

// A protocol whose single state denies every action deadlocks the
// composition at the initial joint state. Only that one state needs to be
// examined.
func TestDeadlockFreedom_Sink(t *testing.T) {
	tb := tierBudget(t)
	protos := tb.Protocols()
	broken := mustProtocol(t, model.Def{
		Name:    "broken",
		States:  []string{"stuck"},
		Initial: "stuck",
		Actions: []model.Action{"read", "write", "escalate"},
	})
	c, err := compose.New(protos[0], protos[1], broken)
	require.NoError(t, err)

	v := New(c)
	res, err := v.Verify(DeadlockFreedom, nil)
	require.NoError(t, err)
	require.False(t, res.Holds)
	require.Equal(t, 1, res.StatesChecked)
	require.Equal(t, []string{"low", "available", "stuck"}, res.Counterexample.State)
	require.Empty(t, res.Counterexample.Path)

	// The composition enables nothing anywhere, so the reduction at the
	// initial state is the full permission set of the widest model.
	mono, err := v.Verify(MonotonicRestriction, nil)
	require.NoError(t, err)
	require.True(t, mono.Holds)
	require.Contains(t, mono.Detail, "the composition enables 0")
	require.Contains(t, mono.Detail, "a reduction of 2")
}

// Both the safety and the efficiency protocol deny deploy in every state.
// Whatever the composition order says, the attribution must follow the
// priority list.
func TestPriorityOrdering_Attribution(t *testing.T) {
	safety := mustProtocol(t, model.Def{
		Name:    "safety",
		States:  []string{"armed"},
		Initial: "armed",
		Actions: []model.Action{"deploy", "audit"},
		Rules:   []string{"armed: audit -> armed"},
	})
	compliance := mustProtocol(t, model.Def{
		Name:    "compliance",
		States:  []string{"ok"},
		Initial: "ok",
		Actions: []model.Action{"deploy", "audit"},
		Rules:   []string{"ok: deploy -> ok, audit -> ok"},
	})
	efficiency := mustProtocol(t, model.Def{
		Name:    "efficiency",
		States:  []string{"idle"},
		Initial: "idle",
		Actions: []model.Action{"deploy", "audit"},
		Rules:   []string{"idle: audit -> idle"},
	})
	c, err := compose.New(safety, compliance, efficiency)
	require.NoError(t, err)
	v := New(c)

	res, err := v.Verify(PriorityOrdering, []string{"safety", "compliance", "efficiency"})
	require.NoError(t, err)
	require.True(t, res.Holds)
	require.Equal(t, 1, res.StatesChecked)
	require.Equal(t, "dominant denials by priority: safety=1 compliance=0 efficiency=0", res.Detail)

	// Reversing the priority moves the attribution, not the semantics.
	res, err = v.Verify(PriorityOrdering, []string{"efficiency", "compliance", "safety"})
	require.NoError(t, err)
	require.True(t, res.Holds)
	require.Equal(t, "dominant denials by priority: efficiency=1 compliance=0 safety=0", res.Detail)
}

// The conjunctive rule makes enabled-yet-denied impossible with a sound
// composer, so the defect branches are exercised on a tampered record of
// the traversal.
func TestComposerDefectReported(t *testing.T) {
	v := New(tierBudget(t))
	ss := v.Explore()
	// Claim that write is enabled in (medium, warning) although tier has
	// no write transition at medium.
	ss.enabled[1] = append(ss.enabled[1], "write")

	pr, err := v.priorityOrder(nil)
	require.NoError(t, err)

	res := evalMonotonic(ss, pr)
	require.False(t, res.Holds)
	require.Equal(t, 2, res.StatesChecked)
	require.Contains(t, res.Detail, `composition enables "write" in (medium, warning) although tier denies it`)
	require.Contains(t, res.Detail, "defective")
	require.NotNil(t, res.Counterexample)
	require.Equal(t, []string{"medium", "warning"}, res.Counterexample.State)
	require.Equal(t, model.Action("write"), res.Counterexample.Action)
	require.Equal(t, []model.Action{"write"}, res.Counterexample.Path)

	res = evalPriority(ss, pr)
	require.False(t, res.Holds)
	require.Equal(t, 2, res.StatesChecked)
	require.Contains(t, res.Detail, "defective")
}

func TestPriorityOrdering_Counts(t *testing.T) {
	v := New(tierBudget(t))
	res, err := v.Verify(PriorityOrdering, nil)
	require.NoError(t, err)
	require.True(t, res.Holds)
	require.Equal(t, 3, res.StatesChecked)
	require.Equal(t, "dominant denials by priority: tier=4 budget=2", res.Detail)
}
