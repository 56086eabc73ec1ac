package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yudhapratama/manpower/pkg/core/allocator"
	"github.com/yudhapratama/manpower/pkg/core/model"
)

func employee(id string, gender model.Gender, score float64) model.Employee {
	return model.Employee{
		ID:             model.EmployeeID(id),
		Name:           "Employee " + id,
		Gender:         gender,
		Type:           model.EmploymentDaily,
		WorkloadPoints: score,
		Status:         model.StatusAvailable,
	}
}

func defaultPool() []model.Employee {
	return []model.Employee{
		employee("1", model.GenderMale, 50),
		employee("2", model.GenderMale, 40),
		employee("3", model.GenderFemale, 30),
		employee("4", model.GenderFemale, 20),
		employee("5", model.GenderMale, 10),
	}
}

func TestToggleSelect_SeedsAndClears(t *testing.T) {
	requests := []model.Request{
		{ID: "r1", RequestedAmount: 2, ScheduledEmployeeIDs: []model.EmployeeID{"1", "2", "3"}},
	}
	s := New(requests, defaultPool(), nil)

	require.NoError(t, s.ToggleSelect("r1"))
	st := s.State("r1")
	assert.True(t, st.Selected)
	// Seeded from existing schedules, cut at the requested amount
	assert.Equal(t, []model.EmployeeID{"1", "2"}, st.Assigned)

	require.NoError(t, s.ToggleSelect("r1"))
	assert.False(t, st.Selected)
	assert.Nil(t, st.Assigned)
	assert.Nil(t, st.Line)
}

func TestToggleSelect_UnknownRequest(t *testing.T) {
	s := New(nil, defaultPool(), nil)

	err := s.ToggleSelect("ghost")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestManualAssign(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 3}}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))

	require.NoError(t, s.ManualAssign("r1", 0, "1"))
	require.NoError(t, s.ManualAssign("r1", 2, "2"))

	st := s.State("r1")
	assert.Equal(t, []model.EmployeeID{"1", "", "2"}, st.Assigned)
	assert.False(t, st.Complete())

	require.NoError(t, s.ManualAssign("r1", 1, "3"))
	assert.True(t, st.Complete())
}

func TestManualAssign_Rejections(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 2}}
	s := New(requests, defaultPool(), nil)

	// Not selected yet
	var verr *ValidationError
	err := s.ManualAssign("r1", 0, "1")
	assert.ErrorAs(t, err, &verr)

	require.NoError(t, s.ToggleSelect("r1"))

	// Slot out of range
	err = s.ManualAssign("r1", 2, "1")
	assert.ErrorAs(t, err, &verr)

	// Duplicate within the same request
	require.NoError(t, s.ManualAssign("r1", 0, "1"))
	err = s.ManualAssign("r1", 1, "1")
	assert.ErrorAs(t, err, &verr)

	// Replacing a slot with its own occupant is fine
	assert.NoError(t, s.ManualAssign("r1", 0, "1"))

	// Unknown request
	err = s.ManualAssign("ghost", 0, "1")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}

func TestManualAssign_GenderCap(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 3, FemaleCount: 1}}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))

	require.NoError(t, s.ManualAssign("r1", 0, "3"))

	// Second female exceeds the declared maximum
	var verr *ValidationError
	err := s.ManualAssign("r1", 1, "4")
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "at most 1")

	// Males have no declared count, so no cap applies
	assert.NoError(t, s.ManualAssign("r1", 1, "1"))
	assert.NoError(t, s.ManualAssign("r1", 2, "2"))

	// Replacing the female slot with another female stays within the cap
	assert.NoError(t, s.ManualAssign("r1", 0, "4"))
}

func TestManualAssign_UnknownEmployeeSkipsGenderCheck(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 2, FemaleCount: 1}}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))

	assert.NoError(t, s.ManualAssign("r1", 0, "outsider"))
}

func TestAutoFill_SingleRequest(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 2}}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))

	require.NoError(t, s.AutoFill(allocator.StrategyOptimal))

	st := s.State("r1")
	assert.Equal(t, []model.EmployeeID{"1", "2"}, st.Assigned)
}

func TestAutoFill_ReplacesManualWork(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 2}}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))
	require.NoError(t, s.ManualAssign("r1", 0, "5"))

	require.NoError(t, s.AutoFill(allocator.StrategyOptimal))

	assert.Equal(t, []model.EmployeeID{"1", "2"}, s.State("r1").Assigned)
}

func TestAutoFill_MultipleRequestsShareThePool(t *testing.T) {
	requests := []model.Request{
		{ID: "r1", RequestedAmount: 2},
		{ID: "r2", RequestedAmount: 2},
	}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))
	require.NoError(t, s.ToggleSelect("r2"))

	require.NoError(t, s.AutoFill(allocator.StrategyOptimal))

	seen := make(map[model.EmployeeID]int)
	for _, id := range append(s.State("r1").Assigned, s.State("r2").Assigned...) {
		seen[id]++
	}
	for id, n := range seen {
		assert.Equal(t, 1, n, "employee %s double-booked", id)
	}
}

func TestAutoFill_Validation(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 2}}
	s := New(requests, defaultPool(), nil)

	var verr *ValidationError
	err := s.AutoFill(allocator.Strategy("bogus"))
	assert.ErrorAs(t, err, &verr)

	err = s.AutoFill(allocator.StrategyOptimal)
	assert.ErrorAs(t, err, &verr)
	assert.Contains(t, err.Error(), "no requests selected")
}

func TestLineAssignmentLifecycle(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 4}}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))
	require.NoError(t, s.AutoFill(allocator.StrategyOptimal))

	require.NoError(t, s.ToggleLineAssignment("r1", true, 2))
	st := s.State("r1")
	require.NotNil(t, st.Line)
	assert.Equal(t, []int{2, 2}, st.Line.LineCounts)

	// Move the second employee to line 2
	id := st.Assigned[1]
	require.NoError(t, s.MoveEmployeeLine("r1", id, 2))
	assert.True(t, st.Line.ManualCounts)
	assert.Equal(t, 2, allocator.LineOf(st.Assigned, st.Line.LineCounts, id))

	// Distribute evenly resets to the automatic split
	require.NoError(t, s.DistributeEvenly("r1"))
	assert.False(t, st.Line.ManualCounts)
	assert.Equal(t, []int{2, 2}, st.Line.LineCounts)

	// Disabling drops the config entirely
	require.NoError(t, s.ToggleLineAssignment("r1", false, 0))
	assert.Nil(t, st.Line)
}

func TestAdjustLine(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 4}}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))
	require.NoError(t, s.AutoFill(allocator.StrategyOptimal))
	require.NoError(t, s.ToggleLineAssignment("r1", true, 2))

	require.NoError(t, s.AdjustLine("r1", 1, -1))
	st := s.State("r1")
	assert.Equal(t, []int{1, 2}, st.Line.LineCounts)
	assert.True(t, st.Line.ManualCounts)

	// An increment beyond the assigned count is rejected
	var verr *ValidationError
	require.NoError(t, s.AdjustLine("r1", 2, 1))
	err := s.AdjustLine("r1", 2, 1)
	assert.ErrorAs(t, err, &verr)
}

func TestLinePresets(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 4}}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))
	require.NoError(t, s.AutoFill(allocator.StrategyOptimal))
	require.NoError(t, s.ToggleLineAssignment("r1", true, 3))

	st := s.State("r1")

	require.NoError(t, s.AllInFirstLine("r1"))
	assert.Equal(t, []int{4, 0, 0}, st.Line.LineCounts)
	assert.True(t, st.Line.ManualCounts)

	require.NoError(t, s.SplitFirstTwo("r1"))
	assert.Equal(t, []int{2, 2, 0}, st.Line.LineCounts)

	require.NoError(t, s.ResetLineDefault("r1"))
	assert.Equal(t, []int{2, 1, 1}, st.Line.LineCounts)
	assert.False(t, st.Line.ManualCounts)
}

func TestMoveEmployeeLine_RejectedMoveKeepsAutoCounts(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 4}}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))
	require.NoError(t, s.AutoFill(allocator.StrategyOptimal))
	require.NoError(t, s.ToggleLineAssignment("r1", true, 2))

	st := s.State("r1")
	var verr *ValidationError

	// Unknown employee, out-of-range target, and same-line target are all
	// rejected without freezing automatic recalculation
	assert.ErrorAs(t, s.MoveEmployeeLine("r1", "zz", 2), &verr)
	assert.ErrorAs(t, s.MoveEmployeeLine("r1", st.Assigned[0], 3), &verr)
	assert.ErrorAs(t, s.MoveEmployeeLine("r1", st.Assigned[0], 1), &verr)

	assert.False(t, st.Line.ManualCounts)
	assert.Equal(t, []int{2, 2}, st.Line.LineCounts)

	require.NoError(t, s.MoveEmployeeLine("r1", st.Assigned[0], 2))
	assert.True(t, st.Line.ManualCounts)
}

func TestLineOperations_RequireEnabledLines(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 2}}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))

	var verr *ValidationError
	assert.ErrorAs(t, s.MoveEmployeeLine("r1", "1", 2), &verr)
	assert.ErrorAs(t, s.AdjustLine("r1", 1, 1), &verr)
	assert.ErrorAs(t, s.DistributeEvenly("r1"), &verr)
	assert.ErrorAs(t, s.ResetLineDefault("r1"), &verr)
}

func TestSubmit_BlocksIncomplete(t *testing.T) {
	requests := []model.Request{
		{ID: "r1", RequestedAmount: 2},
		{ID: "r2", RequestedAmount: 3},
	}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))
	require.NoError(t, s.ToggleSelect("r2"))
	require.NoError(t, s.ManualAssign("r1", 0, "1"))
	require.NoError(t, s.ManualAssign("r1", 1, "2"))

	var verr *ValidationError
	_, err := s.Submit()
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "r2")
}

func TestSubmit_BlocksEmptySlots(t *testing.T) {
	requests := []model.Request{{ID: "r1", RequestedAmount: 2}}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))
	// Filling slot 1 leaves slot 0 as an empty placeholder; length matches
	// the requested amount but the submission must still be blocked
	require.NoError(t, s.ManualAssign("r1", 1, "2"))

	st := s.State("r1")
	require.Len(t, st.Assigned, 2)

	var verr *ValidationError
	_, err := s.Submit()
	assert.ErrorAs(t, err, &verr)
}

func TestSubmit_Payload(t *testing.T) {
	requests := []model.Request{
		{ID: "r1", RequestedAmount: 2},
		{ID: "r2", RequestedAmount: 2, LineManaged: true},
	}
	s := New(requests, defaultPool(), nil)
	require.NoError(t, s.ToggleSelect("r1"))
	require.NoError(t, s.ToggleSelect("r2"))
	require.NoError(t, s.AutoFill(allocator.StrategyBalanced))
	s.SetVisibility(VisibilityPublic)

	payload, err := s.Submit()
	require.NoError(t, err)

	assert.Equal(t, allocator.StrategyBalanced, payload.Strategy)
	assert.Equal(t, VisibilityPublic, payload.Visibility)
	assert.Len(t, payload.Assignments["r1"], 2)
	assert.Len(t, payload.Assignments["r2"], 2)

	// Only the line-managed request carries line numbers, rotated 1,2
	assert.NotContains(t, payload.Lines, "r1")
	r2 := s.State("r2").Assigned
	assert.Equal(t, 1, payload.Lines["r2"][r2[0]])
	assert.Equal(t, 2, payload.Lines["r2"][r2[1]])
}

func TestSubmit_NothingSelected(t *testing.T) {
	s := New([]model.Request{{ID: "r1", RequestedAmount: 1}}, defaultPool(), nil)

	var verr *ValidationError
	_, err := s.Submit()
	assert.ErrorAs(t, err, &verr)
}

func TestNew_DeduplicatesRequests(t *testing.T) {
	requests := []model.Request{
		{ID: "r1", RequestedAmount: 1},
		{ID: "r1", RequestedAmount: 5},
	}
	s := New(requests, defaultPool(), nil)

	assert.Equal(t, 1, s.State("r1").Request.RequestedAmount)
}
