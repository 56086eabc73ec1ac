package allocator

import (
	"github.com/yudhapratama/manpower/pkg/core/model"
)

// SelectionResult is the outcome of a constrained selection.
type SelectionResult struct {
	// Selected holds chosen employee ids in consumption order. May be
	// shorter than the request's amount when the pool runs out; shortfall
	// is reported by comparison, never by error.
	Selected []model.EmployeeID

	// RemainingPool holds the unchosen eligible candidates in ranked order.
	RemainingPool []model.Employee
}

// Select picks an initial employee set for a request from a ranked pool.
//
// Greedy, two-phase: gender quotas are consumed first (males up to
// MaleCount, females up to FemaleCount, each preserving ranked order), then
// any remaining slots are filled from the leftover candidates regardless of
// gender. The result is truncated to RequestedAmount as a final guard
// against inconsistent counts.
//
// Employees in used or with a non-available status are never selected.
// The function is pure: same inputs, same output.
func Select(ranked []model.Employee, request model.Request, used map[model.EmployeeID]bool) SelectionResult {
	eligible := filterEligible(ranked, used, nil)
	return fill(eligible, request.RequestedAmount, request.MaleCount, request.FemaleCount)
}

// SelectRevision fills a request that already has scheduled employees.
// Scheduled ids are seeded into the result first, in their existing order,
// and only the shortfall is filled greedily, with same-subsection
// candidates exhausted before other-subsection candidates.
func SelectRevision(ranked []model.Employee, request model.Request, used map[model.EmployeeID]bool, scheduled []model.EmployeeID) SelectionResult {
	seeded := make([]model.EmployeeID, 0, request.RequestedAmount)
	seededSet := make(map[model.EmployeeID]bool, len(scheduled))
	for _, id := range scheduled {
		if len(seeded) == request.RequestedAmount {
			break
		}
		if seededSet[id] {
			continue
		}
		seeded = append(seeded, id)
		seededSet[id] = true
	}

	// Remaining gender demand after the seeded employees are accounted for
	maleNeed, femaleNeed := request.MaleCount, request.FemaleCount
	byID := make(map[model.EmployeeID]model.Employee, len(ranked))
	for _, e := range ranked {
		byID[e.ID] = e
	}
	for _, id := range seeded {
		e, ok := byID[id]
		if !ok {
			continue
		}
		if e.Gender == model.GenderFemale {
			femaleNeed = decrementFloor(femaleNeed)
		} else {
			maleNeed = decrementFloor(maleNeed)
		}
	}

	candidates := filterEligible(ranked, used, seededSet)

	// Shortfall slots prefer the request's own subsection
	own := make([]model.Employee, 0, len(candidates))
	other := make([]model.Employee, 0, len(candidates))
	for _, e := range candidates {
		if e.InSubsection(request.SubsectionID) {
			own = append(own, e)
		} else {
			other = append(other, e)
		}
	}

	result := fill(append(own, other...), request.RequestedAmount-len(seeded), maleNeed, femaleNeed)
	return SelectionResult{
		Selected:      append(seeded, result.Selected...),
		RemainingPool: result.RemainingPool,
	}
}

// fill runs the two consumption phases over an eligible, ordered pool.
func fill(eligible []model.Employee, amount, maleCount, femaleCount int) SelectionResult {
	if amount < 0 {
		amount = 0
	}

	selected := make([]model.EmployeeID, 0, amount)
	selectedSet := make(map[model.EmployeeID]bool, amount)

	// Gender phase: males then females, each in ranked order. Skipped
	// entirely when no gender counts are declared.
	if maleCount > 0 || femaleCount > 0 {
		maleTaken, femaleTaken := 0, 0
		for _, e := range eligible {
			if e.Gender == model.GenderFemale || maleTaken >= maleCount {
				continue
			}
			selected = append(selected, e.ID)
			selectedSet[e.ID] = true
			maleTaken++
		}
		for _, e := range eligible {
			if e.Gender != model.GenderFemale || femaleTaken >= femaleCount {
				continue
			}
			selected = append(selected, e.ID)
			selectedSet[e.ID] = true
			femaleTaken++
		}
	}

	// Generic phase: top up remaining slots from whatever is left
	for _, e := range eligible {
		if len(selected) >= amount {
			break
		}
		if selectedSet[e.ID] {
			continue
		}
		selected = append(selected, e.ID)
		selectedSet[e.ID] = true
	}

	// Defensive: inconsistent gender counts must not overshoot the quota
	if len(selected) > amount {
		for _, id := range selected[amount:] {
			delete(selectedSet, id)
		}
		selected = selected[:amount]
	}

	remaining := make([]model.Employee, 0, len(eligible)-len(selected))
	for _, e := range eligible {
		if !selectedSet[e.ID] {
			remaining = append(remaining, e)
		}
	}

	return SelectionResult{Selected: selected, RemainingPool: remaining}
}

// filterEligible drops used, already-seeded, and unavailable candidates
// while preserving ranked order.
func filterEligible(ranked []model.Employee, used, seeded map[model.EmployeeID]bool) []model.Employee {
	eligible := make([]model.Employee, 0, len(ranked))
	for _, e := range ranked {
		if used[e.ID] || seeded[e.ID] {
			continue
		}
		if e.Status != model.StatusAvailable {
			continue
		}
		eligible = append(eligible, e)
	}
	return eligible
}

func decrementFloor(n int) int {
	if n <= 0 {
		return 0
	}
	return n - 1
}
