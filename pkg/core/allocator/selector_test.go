package allocator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yudhapratama/manpower/pkg/core/model"
)

func TestSelect_GenderPhaseThenTopUp(t *testing.T) {
	// 5 slots, 2 males and 2 females declared. Males come first in ranked
	// order, then females, then the best leftover regardless of gender.
	request := model.Request{ID: "r1", RequestedAmount: 5, MaleCount: 2, FemaleCount: 2}
	ranked := []model.Employee{
		testEmployee("1"),
		testEmployee("2", female),
		testEmployee("3"),
		testEmployee("4", female),
		testEmployee("5"),
		testEmployee("6", female),
	}

	res := Select(ranked, request, nil)

	assert.Equal(t, []model.EmployeeID{"1", "3", "2", "4", "5"}, res.Selected)
	assert.Equal(t, []model.EmployeeID{"6"}, rankedIDs(res.RemainingPool))
}

func TestSelect_NoGenderCountsTakesTopRanked(t *testing.T) {
	request := model.Request{ID: "r1", RequestedAmount: 2}
	ranked := []model.Employee{
		testEmployee("1", female),
		testEmployee("2"),
		testEmployee("3"),
	}

	res := Select(ranked, request, nil)

	assert.Equal(t, []model.EmployeeID{"1", "2"}, res.Selected)
}

func TestSelect_ShortfallReturnsPartial(t *testing.T) {
	request := model.Request{ID: "r1", RequestedAmount: 5}
	ranked := []model.Employee{
		testEmployee("1"),
		testEmployee("2"),
	}

	res := Select(ranked, request, nil)

	assert.Len(t, res.Selected, 2)
	assert.Empty(t, res.RemainingPool)
	assert.Equal(t, 3, request.Shortfall(len(res.Selected)))
}

func TestSelect_SkipsUsedAndUnavailable(t *testing.T) {
	request := model.Request{ID: "r1", RequestedAmount: 2}
	unavailable := testEmployee("2")
	unavailable.Status = model.StatusUnavailable
	ranked := []model.Employee{
		testEmployee("1"),
		unavailable,
		testEmployee("3"),
		testEmployee("4"),
	}
	used := map[model.EmployeeID]bool{"1": true}

	res := Select(ranked, request, used)

	assert.Equal(t, []model.EmployeeID{"3", "4"}, res.Selected)
}

func TestSelect_GenderCountsExceedingAmountAreTruncated(t *testing.T) {
	// 3 males + 3 females declared against 4 slots: the selection never
	// overshoots the requested amount.
	request := model.Request{ID: "r1", RequestedAmount: 4, MaleCount: 3, FemaleCount: 3}
	ranked := []model.Employee{
		testEmployee("1"),
		testEmployee("2"),
		testEmployee("3"),
		testEmployee("4", female),
		testEmployee("5", female),
		testEmployee("6", female),
	}

	res := Select(ranked, request, nil)

	assert.Len(t, res.Selected, 4)
	assert.Equal(t, []model.EmployeeID{"1", "2", "3", "4"}, res.Selected)
	// Truncated employees stay in the remaining pool
	assert.Contains(t, rankedIDs(res.RemainingPool), model.EmployeeID("5"))
	assert.Contains(t, rankedIDs(res.RemainingPool), model.EmployeeID("6"))
}

func TestSelect_Idempotent(t *testing.T) {
	request := model.Request{ID: "r1", RequestedAmount: 3, MaleCount: 1, FemaleCount: 1}
	ranked := []model.Employee{
		testEmployee("1"),
		testEmployee("2", female),
		testEmployee("3"),
		testEmployee("4"),
	}

	first := Select(ranked, request, nil)
	second := Select(ranked, request, nil)

	assert.Equal(t, first.Selected, second.Selected)
	assert.Equal(t, rankedIDs(first.RemainingPool), rankedIDs(second.RemainingPool))
}

func TestSelectRevision_SeedsScheduledFirst(t *testing.T) {
	request := model.Request{ID: "r1", RequestedAmount: 3}
	ranked := []model.Employee{
		testEmployee("1", withScore(50, 0, 0)),
		testEmployee("2"),
		testEmployee("3"),
	}

	res := SelectRevision(ranked, request, nil, []model.EmployeeID{"3"})

	assert.Equal(t, []model.EmployeeID{"3", "1", "2"}, res.Selected)
}

func TestSelectRevision_ShortfallPrefersOwnSubsection(t *testing.T) {
	request := model.Request{ID: "r1", SubsectionID: "sub1", RequestedAmount: 3}
	ranked := []model.Employee{
		testEmployee("1", withScore(90, 0, 0)),
		testEmployee("2", withSubsections("sub1")),
		testEmployee("3", withSubsections("sub1")),
	}

	res := SelectRevision(ranked, request, nil, []model.EmployeeID{"9"})

	// The high scorer outside the subsection waits behind both members
	assert.Equal(t, []model.EmployeeID{"9", "2", "3"}, res.Selected)
}

func TestSelectRevision_SeededGendersReduceQuota(t *testing.T) {
	// One female already scheduled against a 1-female quota: the shortfall
	// must not chase another female.
	request := model.Request{ID: "r1", RequestedAmount: 2, FemaleCount: 1}
	ranked := []model.Employee{
		testEmployee("1", female),
		testEmployee("2", female, withScore(50, 0, 0)),
		testEmployee("3"),
	}

	res := SelectRevision(ranked, request, nil, []model.EmployeeID{"1"})

	assert.Equal(t, []model.EmployeeID{"1", "2"}, res.Selected)
	// Female quota satisfied by the seed, so the generic phase picks by
	// rank; "2" wins on score, not on gender demand
}

func TestSelectRevision_DuplicateAndExcessSeeds(t *testing.T) {
	request := model.Request{ID: "r1", RequestedAmount: 2}
	ranked := []model.Employee{
		testEmployee("1"),
		testEmployee("2"),
		testEmployee("3"),
	}

	res := SelectRevision(ranked, request, nil, []model.EmployeeID{"1", "1", "2", "3"})

	// Duplicates collapse and the seed list is cut at the requested amount
	assert.Equal(t, []model.EmployeeID{"1", "2"}, res.Selected)
}

func TestSelectRevision_UnknownSeedsKept(t *testing.T) {
	// Seeds referencing employees outside the pool are kept verbatim; the
	// query layer owns their validity.
	request := model.Request{ID: "r1", RequestedAmount: 2}
	ranked := []model.Employee{
		testEmployee("1"),
	}

	res := SelectRevision(ranked, request, nil, []model.EmployeeID{"ghost"})

	assert.Equal(t, []model.EmployeeID{"ghost", "1"}, res.Selected)
}
