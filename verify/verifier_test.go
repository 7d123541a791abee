package verify

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.dedis.ch/onet/v3/log"

	"github.com/muveraai/conclave"
	"github.com/muveraai/conclave/compose"
	"github.com/muveraai/conclave/model"
)

func TestMain(m *testing.M) {
	log.MainTest(m)
}

func mustProtocol(t *testing.T, def model.Def) *model.Protocol {
	p, err := model.New(def)
	require.NoError(t, err)
	return p
}

// tierBudget composes a three-tier access protocol with a write-budget
// protocol. The composition reaches three joint states and the last one,
// (high, warning), is a deadlock.
func tierBudget(t *testing.T) *compose.Composer {
	tier := mustProtocol(t, model.Def{
		Name:    "tier",
		States:  []string{"low", "medium", "high"},
		Initial: "low",
		Rules: []string{
			"low: read -> low, write -> medium",
			"medium: read -> medium, escalate -> high",
			"high: read -> high",
		},
	})
	budget := mustProtocol(t, model.Def{
		Name:    "budget",
		States:  []string{"available", "warning", "exhausted"},
		Initial: "available",
		Rules: []string{
			"available: read -> available, write -> warning",
			"warning: write -> exhausted",
		},
	})
	c, err := compose.New(tier, budget)
	require.NoError(t, err)
	return c
}

func TestVerifier_Explore(t *testing.T) {
	v := New(tierBudget(t))
	require.Equal(t, DefaultMaxStates, v.MaxStates())

	ss := v.Explore()
	require.Equal(t, 3, ss.Len())
	require.False(t, ss.Truncated())

	require.True(t, ss.Joint(0).Equal(compose.Joint{0, 0}))
	require.Equal(t, []string{"low", "available"}, ss.StateNames(0))
	require.Equal(t, []model.Action{"read", "write"}, ss.Enabled(0))
	require.Empty(t, ss.Path(0))

	require.Equal(t, []string{"medium", "warning"}, ss.StateNames(1))
	require.Equal(t, []model.Action{"escalate"}, ss.Enabled(1))
	require.Equal(t, []model.Action{"write"}, ss.Path(1))

	require.Equal(t, []string{"high", "warning"}, ss.StateNames(2))
	require.Empty(t, ss.Enabled(2))
	require.Equal(t, []model.Action{"write", "escalate"}, ss.Path(2))

	i, ok := ss.Index(compose.Joint{1, 1})
	require.True(t, ok)
	require.Equal(t, 1, i)
	_, ok = ss.Index(compose.Joint{2, 2})
	require.False(t, ok)

	// The record is cached.
	require.True(t, ss == v.Explore())
}

func TestVerifier_Bound(t *testing.T) {
	v := New(tierBudget(t))

	// With the full space explored the deadlock is found.
	res, err := v.Verify(DeadlockFreedom, nil)
	require.NoError(t, err)
	require.False(t, res.Holds)
	require.False(t, res.BoundExceeded)

	// A bound of two states stops short of the deadlock, which makes the
	// property hold on the explored prefix, clearly marked.
	require.NoError(t, v.SetMaxStates(2))
	res, err = v.Verify(DeadlockFreedom, nil)
	require.NoError(t, err)
	require.True(t, res.Holds)
	require.True(t, res.BoundExceeded)
	require.Equal(t, 2, res.StatesChecked)
	require.Contains(t, res.Detail, "explored prefix")

	// Monotonic restriction is a per-state check, raising the bound can
	// only increase the states checked, never flip it to false.
	mono2, err := v.Verify(MonotonicRestriction, nil)
	require.NoError(t, err)
	require.NoError(t, v.SetMaxStates(DefaultMaxStates))
	mono, err := v.Verify(MonotonicRestriction, nil)
	require.NoError(t, err)
	require.True(t, mono2.Holds)
	require.True(t, mono.Holds)
	require.True(t, mono.StatesChecked >= mono2.StatesChecked)
}

func TestVerifier_SetMaxStates(t *testing.T) {
	v := New(tierBudget(t))
	err := v.SetMaxStates(0)
	require.Error(t, err)
	require.True(t, conclave.IsConfig(err))
	require.NoError(t, v.SetMaxStates(1))
	require.Equal(t, 1, v.MaxStates())

	// Even a bound of one state examines the initial state.
	ss := v.Explore()
	require.Equal(t, 1, ss.Len())
	require.True(t, ss.Truncated())
}

func TestVerifier_PriorityValidation(t *testing.T) {
	v := New(tierBudget(t))

	for _, priority := range [][]string{
		{"tier"},
		{"tier", "budget", "tier"},
		{"tier", "unknown"},
		{"tier", "tier"},
	} {
		_, err := v.Verify(PriorityOrdering, priority)
		require.Error(t, err, "priority %v", priority)
		require.True(t, conclave.IsConfig(err))
		_, err = v.VerifyAll(priority)
		require.Error(t, err)
	}

	// An absent list means composition order, which scenario files decode
	// to an empty slice.
	res, err := v.Verify(PriorityOrdering, nil)
	require.NoError(t, err)
	require.True(t, res.Holds)
	empty, err := v.Verify(PriorityOrdering, []string{})
	require.NoError(t, err)
	require.Equal(t, res, empty)

	_, err = v.Verify(PriorityOrdering, []string{"budget", "tier"})
	require.NoError(t, err)
}

func TestVerifier_UnknownProperty(t *testing.T) {
	v := New(tierBudget(t))
	_, err := v.Verify(Property("liveness"), nil)
	require.Error(t, err)
	require.True(t, conclave.IsConfig(err))
}

func TestVerifier_Deterministic(t *testing.T) {
	run := func() []byte {
		v := New(tierBudget(t))
		rs, err := v.VerifyAll([]string{"budget", "tier"})
		require.NoError(t, err)
		buf, err := json.Marshal(rs)
		require.NoError(t, err)
		return buf
	}
	first := run()
	for i := 0; i < 3; i++ {
		require.Equal(t, first, run())
	}
}

func TestVerifier_VerifyAll(t *testing.T) {
	v := New(tierBudget(t))
	rs, err := v.VerifyAll(nil)
	require.NoError(t, err)
	require.Len(t, rs, 3)
	require.Equal(t, MonotonicRestriction, rs[0].Property)
	require.Equal(t, DeadlockFreedom, rs[1].Property)
	require.Equal(t, PriorityOrdering, rs[2].Property)
	require.False(t, rs.AllHold())

	dl, ok := rs.Get(DeadlockFreedom)
	require.True(t, ok)
	require.False(t, dl.Holds)
	_, ok = rs.Get(Property("liveness"))
	require.False(t, ok)
}
