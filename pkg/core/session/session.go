// Package session tracks the operator-editable assignment state for a set
// of manpower requests: per-request selections, manual overrides, and line
// configurations, up to the final submission payload.
//
// One session owns one normalized map of request id to request state. All
// mutations are synchronous and atomic per operation; validation failures
// leave state untouched and come back as typed, user-facing errors.
package session

import (
	"errors"
	"fmt"
	"slices"

	"github.com/yudhapratama/manpower/pkg/core/allocator"
	"github.com/yudhapratama/manpower/pkg/core/model"
)

// ErrRequestNotFound signals caller-side staleness: the operated-on request
// is not part of this session. The operation is skipped; the caller should
// prompt for a refetch rather than treat this as a core failure.
var ErrRequestNotFound = errors.New("request not found in session")

// ValidationError is a user-correctable rejection. State is never mutated
// when one is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func validationErrorf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// Visibility is an opaque pass-through flag on the submission payload.
type Visibility string

const (
	VisibilityPrivate Visibility = "private"
	VisibilityPublic  Visibility = "public"
)

// RequestState is the per-request slice of the session.
type RequestState struct {
	Request  model.Request
	Selected bool

	// Assigned holds the chosen employee ids in slot order. Length is at
	// most RequestedAmount; fewer entries mean unfilled slots.
	Assigned []model.EmployeeID

	// Line is non-nil only while line assignment is enabled.
	Line *allocator.LineConfig
}

// Complete reports whether every requested slot is filled.
func (s *RequestState) Complete() bool {
	return len(s.Assigned) == s.Request.RequestedAmount
}

// Session is the mutable assignment state for one fulfillment screen.
type Session struct {
	states    map[string]*RequestState
	order     []string
	pool      []model.Employee
	sectionOf allocator.SectionResolver

	strategy   allocator.Strategy
	visibility Visibility
}

// New creates a session over the given requests and eligible pool. Request
// order is preserved and used as the bulk fairness order.
func New(requests []model.Request, pool []model.Employee, sectionOf allocator.SectionResolver) *Session {
	s := &Session{
		states:     make(map[string]*RequestState, len(requests)),
		order:      make([]string, 0, len(requests)),
		pool:       slices.Clone(pool),
		sectionOf:  sectionOf,
		strategy:   allocator.StrategyOptimal,
		visibility: VisibilityPrivate,
	}
	for _, req := range requests {
		if _, dup := s.states[req.ID]; dup {
			continue
		}
		s.states[req.ID] = &RequestState{Request: req}
		s.order = append(s.order, req.ID)
	}
	return s
}

// State returns the state for a request, or nil when unknown.
func (s *Session) State(requestID string) *RequestState {
	return s.states[requestID]
}

// SelectedRequests returns the selected request states in session order.
func (s *Session) SelectedRequests() []*RequestState {
	selected := make([]*RequestState, 0, len(s.order))
	for _, id := range s.order {
		if st := s.states[id]; st.Selected {
			selected = append(selected, st)
		}
	}
	return selected
}

// SetVisibility sets the opaque visibility flag on the eventual payload.
func (s *Session) SetVisibility(v Visibility) { s.visibility = v }

// ToggleSelect flips a request in or out of the working set. Entering the
// set seeds the assignment with the request's currently scheduled
// employees; leaving it discards the selection and line config.
func (s *Session) ToggleSelect(requestID string) error {
	st, ok := s.states[requestID]
	if !ok {
		return ErrRequestNotFound
	}
	if st.Selected {
		st.Selected = false
		st.Assigned = nil
		st.Line = nil
		return nil
	}
	st.Selected = true
	st.Assigned = slices.Clone(st.Request.ScheduledEmployeeIDs)
	if len(st.Assigned) > st.Request.RequestedAmount {
		st.Assigned = st.Assigned[:st.Request.RequestedAmount]
	}
	return nil
}

// ManualAssign places one employee into a slot of a selected request.
// Rejected with a validation error when the employee already occupies
// another slot of the same request, or when the placement would push a
// declared gender count past its maximum (declared counts are maxima for
// manual overrides, not exact quotas; a count of zero declares no quota).
func (s *Session) ManualAssign(requestID string, slotIndex int, employeeID model.EmployeeID) error {
	st, ok := s.states[requestID]
	if !ok {
		return ErrRequestNotFound
	}
	if !st.Selected {
		return validationErrorf("request %s is not selected", requestID)
	}
	if slotIndex < 0 || slotIndex >= st.Request.RequestedAmount {
		return validationErrorf("slot %d is out of range (request needs %d)", slotIndex, st.Request.RequestedAmount)
	}

	for i, id := range st.Assigned {
		if id == employeeID && i != slotIndex {
			return validationErrorf("employee %s is already assigned to this request", employeeID)
		}
	}

	if err := s.checkGenderCap(st, slotIndex, employeeID); err != nil {
		return err
	}

	// Grow the slot list up to the target index; intermediate slots stay
	// empty until filled
	for len(st.Assigned) <= slotIndex {
		st.Assigned = append(st.Assigned, "")
	}
	st.Assigned[slotIndex] = employeeID
	s.recalculateLines(st)
	return nil
}

// checkGenderCap rejects a placement that would exceed a declared gender
// maximum. The slot being written is excluded from the current tally since
// its occupant is replaced.
func (s *Session) checkGenderCap(st *RequestState, slotIndex int, employeeID model.EmployeeID) error {
	gender, known := s.genderOf(employeeID)
	if !known {
		return nil
	}

	limit := st.Request.MaleCount
	if gender == model.GenderFemale {
		limit = st.Request.FemaleCount
	}
	if limit == 0 {
		return nil
	}

	count := 0
	for i, id := range st.Assigned {
		if i == slotIndex || id == "" {
			continue
		}
		if g, ok := s.genderOf(id); ok && g == gender {
			count++
		}
	}
	if count+1 > limit {
		return validationErrorf("request %s allows at most %d %s employees", st.Request.ID, limit, gender)
	}
	return nil
}

func (s *Session) genderOf(id model.EmployeeID) (model.Gender, bool) {
	for _, e := range s.pool {
		if e.ID == id {
			return e.Gender, true
		}
	}
	return model.GenderMale, false
}

// AutoFill replaces the selections of every selected request using the
// given strategy. Single selected request: rank-then-select (revision
// variant when schedules exist). Multiple: one bulk allocation sharing the
// pool so no employee is double-booked across the batch.
func (s *Session) AutoFill(strategy allocator.Strategy) error {
	if _, err := allocator.ParseStrategy(string(strategy)); err != nil {
		return validationErrorf("%v", err)
	}
	s.strategy = strategy

	selected := s.SelectedRequests()
	if len(selected) == 0 {
		return validationErrorf("no requests selected")
	}

	if len(selected) == 1 {
		st := selected[0]
		scheduledSet := make(map[model.EmployeeID]bool, len(st.Request.ScheduledEmployeeIDs))
		for _, id := range st.Request.ScheduledEmployeeIDs {
			scheduledSet[id] = true
		}
		ranked := allocator.Rank(s.pool, st.Request, scheduledSet)

		var res allocator.SelectionResult
		if len(st.Request.ScheduledEmployeeIDs) > 0 {
			res = allocator.SelectRevision(ranked, st.Request, nil, st.Request.ScheduledEmployeeIDs)
		} else {
			res = allocator.Select(ranked, st.Request, nil)
		}
		st.Assigned = res.Selected
		s.recalculateLines(st)
		return nil
	}

	requests := make([]model.Request, len(selected))
	for i, st := range selected {
		requests[i] = st.Request
	}
	result := allocator.Allocate(allocator.BulkInput{
		Requests:  requests,
		Pool:      s.pool,
		Strategy:  strategy,
		SectionOf: s.sectionOf,
	})
	for _, st := range selected {
		st.Assigned = result[st.Request.ID]
		s.recalculateLines(st)
	}
	return nil
}

// ToggleLineAssignment enables or disables line assignment for a request.
// Enabling initializes an even split; disabling reverts everyone to line 1.
func (s *Session) ToggleLineAssignment(requestID string, enabled bool, lineCount int) error {
	st, ok := s.states[requestID]
	if !ok {
		return ErrRequestNotFound
	}
	if !enabled {
		st.Line = nil
		return nil
	}
	if lineCount < 2 {
		lineCount = 2
	}
	st.Line = allocator.NewLineConfig(len(st.Assigned), lineCount)
	return nil
}

// MoveEmployeeLine moves one assigned employee to a different line. A
// rejected move leaves the state untouched, including the manual-override
// flag, so automatic recalculation stays in effect.
func (s *Session) MoveEmployeeLine(requestID string, employeeID model.EmployeeID, targetLine int) error {
	st, ok := s.states[requestID]
	if !ok {
		return ErrRequestNotFound
	}
	if st.Line == nil {
		return validationErrorf("line assignment is not enabled for request %s", requestID)
	}
	assigned, counts, moved := allocator.MoveEmployee(st.Assigned, st.Line.LineCounts, employeeID, targetLine)
	if !moved {
		return validationErrorf("cannot move employee %s to line %d for request %s", employeeID, targetLine, requestID)
	}
	st.Assigned = assigned
	st.Line.LineCounts = counts
	st.Line.ManualCounts = true
	return nil
}

// AdjustLine applies a delta to one line's count, rejecting adjustments
// that would break the count invariant.
func (s *Session) AdjustLine(requestID string, line, delta int) error {
	st, ok := s.states[requestID]
	if !ok {
		return ErrRequestNotFound
	}
	if st.Line == nil {
		return validationErrorf("line assignment is not enabled for request %s", requestID)
	}
	counts, ok2 := allocator.AdjustLineCount(st.Line.LineCounts, line, delta, len(st.Assigned))
	if !ok2 {
		return validationErrorf("adjustment would break line counts for request %s", requestID)
	}
	st.Line.LineCounts = counts
	st.Line.ManualCounts = true
	return nil
}

// DistributeEvenly is the quick preset resetting a request's line counts to
// an even split of the current assignment. Clears the manual-override flag.
func (s *Session) DistributeEvenly(requestID string) error {
	st, ok := s.states[requestID]
	if !ok {
		return ErrRequestNotFound
	}
	if st.Line == nil {
		return validationErrorf("line assignment is not enabled for request %s", requestID)
	}
	st.Line.LineCounts = allocator.CalculateLineCounts(len(st.Assigned), st.Line.LineCount)
	st.Line.ManualCounts = false
	return nil
}

// AllInFirstLine is the quick preset putting every assigned employee in
// line 1.
func (s *Session) AllInFirstLine(requestID string) error {
	st, ok := s.states[requestID]
	if !ok {
		return ErrRequestNotFound
	}
	if st.Line == nil {
		return validationErrorf("line assignment is not enabled for request %s", requestID)
	}
	st.Line.LineCounts = allocator.AllInFirstLine(len(st.Assigned), st.Line.LineCount)
	st.Line.ManualCounts = true
	return nil
}

// SplitFirstTwo is the quick preset splitting the assignment across the
// first two lines.
func (s *Session) SplitFirstTwo(requestID string) error {
	st, ok := s.states[requestID]
	if !ok {
		return ErrRequestNotFound
	}
	if st.Line == nil {
		return validationErrorf("line assignment is not enabled for request %s", requestID)
	}
	st.Line.LineCounts = allocator.SplitFirstTwo(len(st.Assigned), st.Line.LineCount)
	st.Line.ManualCounts = true
	return nil
}

// ResetLineDefault is the quick preset recalculating counts against the
// request's requested amount rather than the current assigned count.
func (s *Session) ResetLineDefault(requestID string) error {
	st, ok := s.states[requestID]
	if !ok {
		return ErrRequestNotFound
	}
	if st.Line == nil {
		return validationErrorf("line assignment is not enabled for request %s", requestID)
	}
	st.Line.LineCounts = allocator.CalculateLineCounts(st.Request.RequestedAmount, st.Line.LineCount)
	st.Line.ManualCounts = false
	return nil
}

// recalculateLines re-derives an even split after the assigned count
// changes, respecting manual overrides.
func (s *Session) recalculateLines(st *RequestState) {
	if st.Line != nil {
		st.Line.Recalculate(len(st.Assigned))
	}
}

// SubmissionPayload is what the persistence boundary receives.
type SubmissionPayload struct {
	// Assignments maps request id to the final ordered employee ids.
	Assignments map[string][]model.EmployeeID

	// Lines maps request id to employee line numbers, present only for
	// line-managed requests.
	Lines map[string]map[model.EmployeeID]int

	Strategy   allocator.Strategy
	Visibility Visibility
}

// Submit validates completeness and builds the submission payload. Any
// selected request with unfilled or empty slots blocks the whole submission
// and leaves state untouched.
func (s *Session) Submit() (*SubmissionPayload, error) {
	selected := s.SelectedRequests()
	if len(selected) == 0 {
		return nil, validationErrorf("no requests selected")
	}

	for _, st := range selected {
		if !st.Complete() {
			return nil, validationErrorf(
				"request %s is incomplete: %d of %d slots filled",
				st.Request.ID, len(st.Assigned), st.Request.RequestedAmount)
		}
		if slices.Contains(st.Assigned, "") {
			return nil, validationErrorf("request %s has empty slots", st.Request.ID)
		}
	}

	payload := &SubmissionPayload{
		Assignments: make(map[string][]model.EmployeeID, len(selected)),
		Lines:       make(map[string]map[model.EmployeeID]int),
		Strategy:    s.strategy,
		Visibility:  s.visibility,
	}
	for _, st := range selected {
		payload.Assignments[st.Request.ID] = slices.Clone(st.Assigned)
		if st.Request.LineManaged || st.Line != nil {
			policy := allocator.PolicyFor(st.Request, st.Line)
			payload.Lines[st.Request.ID] = policy.Lines(st.Assigned)
		}
	}
	return payload, nil
}
