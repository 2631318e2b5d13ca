package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_BeginSolve(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	const staleAfter = time.Minute

	t.Run("marks the module busy", func(t *testing.T) {
		s := NewSession("s", start)
		s.InvalidateInput(ModuleLinear)

		rev, err := s.BeginSolve(ModuleLinear, start, staleAfter)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), rev)
		assert.Equal(t, StateSolving, s.Module(ModuleLinear).State())
	})

	t.Run("rejects a second solve while busy", func(t *testing.T) {
		s := NewSession("s", start)
		_, err := s.BeginSolve(ModuleTransport, start, staleAfter)
		require.NoError(t, err)

		_, err = s.BeginSolve(ModuleTransport, start.Add(30*time.Second), staleAfter)
		assert.ErrorIs(t, err, ErrSolveInProgress)
	})

	t.Run("takes over an abandoned busy flag", func(t *testing.T) {
		s := NewSession("s", start)
		_, err := s.BeginSolve(ModuleNetwork, start, staleAfter)
		require.NoError(t, err)

		later := start.Add(staleAfter)
		_, err = s.BeginSolve(ModuleNetwork, later, staleAfter)
		require.NoError(t, err)
		assert.Equal(t, later, *s.Module(ModuleNetwork).BusySince)
	})

	t.Run("clears the previous capture", func(t *testing.T) {
		s := NewSession("s", start)
		require.NoError(t, s.RecordCapture(&ModuleCapture{ModuleID: ModuleLinear}, 0))

		_, err := s.BeginSolve(ModuleLinear, start, staleAfter)
		require.NoError(t, err)
		assert.Nil(t, s.Module(ModuleLinear).Capture)
	})

	t.Run("modules are independent", func(t *testing.T) {
		s := NewSession("s", start)
		_, err := s.BeginSolve(ModuleLinear, start, staleAfter)
		require.NoError(t, err)
		_, err = s.BeginSolve(ModuleTransport, start, staleAfter)
		assert.NoError(t, err)
	})
}

func TestSession_FinishSolve(t *testing.T) {
	now := time.Now()

	t.Run("records the capture and clears busy", func(t *testing.T) {
		s := NewSession("s", now)
		rev, err := s.BeginSolve(ModuleLinear, now, time.Minute)
		require.NoError(t, err)

		require.NoError(t, s.FinishSolve(ModuleLinear, rev, &ModuleCapture{ModuleID: ModuleLinear, ObjectiveOrCost: 36}))
		st := s.Module(ModuleLinear)
		assert.False(t, st.Busy)
		assert.Nil(t, st.BusySince)
		assert.Equal(t, StateCaptured, st.State())
	})

	t.Run("nil capture only releases the module", func(t *testing.T) {
		s := NewSession("s", now)
		rev, err := s.BeginSolve(ModuleLinear, now, time.Minute)
		require.NoError(t, err)

		require.NoError(t, s.FinishSolve(ModuleLinear, rev, nil))
		assert.Equal(t, StateAbsent, s.Module(ModuleLinear).State())
	})

	t.Run("input change during the solve discards the result", func(t *testing.T) {
		s := NewSession("s", now)
		rev, err := s.BeginSolve(ModuleTransport, now, time.Minute)
		require.NoError(t, err)
		s.InvalidateInput(ModuleTransport)

		err = s.FinishSolve(ModuleTransport, rev, &ModuleCapture{ModuleID: ModuleTransport})
		assert.ErrorIs(t, err, ErrStaleResult)
		st := s.Module(ModuleTransport)
		assert.False(t, st.Busy)
		assert.Nil(t, st.Capture)
	})
}

func TestSession_RecordCapture(t *testing.T) {
	s := NewSession("s", time.Now())

	assert.ErrorIs(t, s.RecordCapture(&ModuleCapture{ModuleID: "quantum"}, 0), ErrUnknownModule)

	s.InvalidateInput(ModuleNetwork)
	assert.ErrorIs(t, s.RecordCapture(&ModuleCapture{ModuleID: ModuleNetwork}, 0), ErrStaleResult)
	assert.Equal(t, StateAbsent, s.Module(ModuleNetwork).State())

	require.NoError(t, s.RecordCapture(&ModuleCapture{ModuleID: ModuleNetwork, TotalUnitsOrCapacity: 15}, 1))
	assert.Equal(t, StateCaptured, s.Module(ModuleNetwork).State())

	s.InvalidateInput(ModuleNetwork)
	assert.Equal(t, StateAbsent, s.Module(ModuleNetwork).State())
}

func TestSession_Captures(t *testing.T) {
	s := NewSession("s", time.Now())
	assert.Empty(t, s.Captures())

	require.NoError(t, s.RecordCapture(&ModuleCapture{ModuleID: ModuleLinear, ObjectiveOrCost: 36}, 0))
	snap := s.Captures()
	require.Len(t, snap, 1)

	c := snap[ModuleLinear]
	c.ObjectiveOrCost = 0
	assert.Equal(t, 36.0, s.Module(ModuleLinear).Capture.ObjectiveOrCost)
}

func TestModuleState_State(t *testing.T) {
	var nilState *ModuleState
	assert.Equal(t, StateAbsent, nilState.State())
	assert.Equal(t, StateSolving, (&ModuleState{Busy: true, Capture: &ModuleCapture{}}).State())
	assert.Equal(t, StateCaptured, (&ModuleState{Capture: &ModuleCapture{}}).State())
}
