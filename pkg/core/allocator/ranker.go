package allocator

import (
	"cmp"
	"slices"
	"strconv"

	"github.com/yudhapratama/manpower/pkg/core/model"
)

// Rank orders candidates for a single request. The result is a new slice;
// inputs are never mutated and the sort is stable, so equal candidates keep
// their incoming order and repeated calls return identical output.
//
// Tie-break chain (first rule that differentiates two candidates wins):
//  1. Already scheduled for this request
//  2. Member of the request's own subsection
//  3. Gender matches a nonzero gender requirement
//  4. Higher composite score
//  5. Monthly employment type before daily
//  6. Among daily employees, higher tenure weight
//  7. Ascending numeric id
//
// Callers must re-rank whenever the pool, the scheduled set, or the request
// requirements change; ranked output is never cached.
func Rank(candidates []model.Employee, request model.Request, scheduled map[model.EmployeeID]bool) []model.Employee {
	ranked := slices.Clone(candidates)
	slices.SortStableFunc(ranked, func(a, b model.Employee) int {
		return compareCandidates(a, b, request, scheduled)
	})
	return ranked
}

func compareCandidates(a, b model.Employee, request model.Request, scheduled map[model.EmployeeID]bool) int {
	// Rule 1: scheduled employees stay visible at the top in revise flows
	if c := compareBool(scheduled[a.ID], scheduled[b.ID]); c != 0 {
		return c
	}

	// Rule 2: own-subsection candidates first
	if c := compareBool(a.InSubsection(request.SubsectionID), b.InSubsection(request.SubsectionID)); c != 0 {
		return c
	}

	// Rule 3: gender-demand match
	if c := compareBool(matchesGenderDemand(a, request), matchesGenderDemand(b, request)); c != 0 {
		return c
	}

	// Rule 4: higher composite score first
	if c := cmp.Compare(b.CompositeScore(), a.CompositeScore()); c != 0 {
		return c
	}

	// Rule 5: monthly before daily
	if c := compareBool(a.Type == model.EmploymentMonthly, b.Type == model.EmploymentMonthly); c != 0 {
		return c
	}

	// Rule 6: tenure weight decides between two daily employees
	if a.Type == model.EmploymentDaily && b.Type == model.EmploymentDaily {
		if c := cmp.Compare(b.TenureWeight, a.TenureWeight); c != 0 {
			return c
		}
	}

	// Rule 7: deterministic fallback
	return CompareEmployeeIDs(a.ID, b.ID)
}

// matchesGenderDemand reports whether the candidate's gender is still asked
// for by the request's declared gender counts.
func matchesGenderDemand(e model.Employee, request model.Request) bool {
	switch e.Gender {
	case model.GenderFemale:
		return request.FemaleCount > 0
	default:
		return request.MaleCount > 0
	}
}

// compareBool sorts true before false.
func compareBool(a, b bool) int {
	if a == b {
		return 0
	}
	if a {
		return -1
	}
	return 1
}

// CompareEmployeeIDs orders ids ascending, numerically when both ids parse
// as integers ("9" before "10") and lexically otherwise.
func CompareEmployeeIDs(a, b model.EmployeeID) int {
	an, aerr := strconv.ParseInt(string(a), 10, 64)
	bn, berr := strconv.ParseInt(string(b), 10, 64)
	if aerr == nil && berr == nil {
		return cmp.Compare(an, bn)
	}
	return cmp.Compare(string(a), string(b))
}
