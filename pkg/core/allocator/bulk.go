package allocator

import (
	"github.com/yudhapratama/manpower/pkg/core/model"
)

// BulkInput configures a multi-request allocation batch.
type BulkInput struct {
	// Requests are processed strictly in the given order; earlier requests
	// get first pick of the sorted pool. The order is the caller's
	// fairness policy.
	Requests []model.Request

	// Pool is the shared candidate pool for the whole batch.
	Pool []model.Employee

	Strategy Strategy

	// Existing maps request id to an already-chosen selection. Existing
	// ids are kept in place, excluded from the pool, and only the
	// shortfall of such requests is filled.
	Existing map[string][]model.EmployeeID

	// SectionOf resolves subsection ids to section ids for the
	// same-section strategy. Optional.
	SectionOf SectionResolver
}

// Allocate fulfills every request in the batch from one shared pool,
// guaranteeing that no employee appears in more than one request.
//
// The pool is sorted once by strategy (the first request is the reference
// for same-section ordering), then each request greedily consumes
// candidates via the constrained selector. No backtracking: a request early
// in the list may exhaust candidates a later request needed, and the later
// request is left partially fulfilled. Every request always gets an entry
// in the result, possibly shorter than its requested amount; completeness
// is the caller's check before submission.
func Allocate(in BulkInput) map[string][]model.EmployeeID {
	used := make(map[model.EmployeeID]bool)
	for _, ids := range in.Existing {
		for _, id := range ids {
			used[id] = true
		}
	}

	pool := make([]model.Employee, 0, len(in.Pool))
	for _, e := range in.Pool {
		if e.Status != model.StatusAvailable || used[e.ID] {
			continue
		}
		pool = append(pool, e)
	}

	var ref model.Request
	if len(in.Requests) > 0 {
		ref = in.Requests[0]
	}
	pool = SortPool(pool, in.Strategy, ref, in.SectionOf)

	result := make(map[string][]model.EmployeeID, len(in.Requests))
	for _, request := range in.Requests {
		var res SelectionResult
		if existing := in.Existing[request.ID]; len(existing) > 0 {
			res = SelectRevision(pool, request, used, existing)
		} else {
			res = Select(pool, request, used)
		}

		for _, id := range res.Selected {
			used[id] = true
		}
		pool = res.RemainingPool
		result[request.ID] = res.Selected
	}

	return result
}
