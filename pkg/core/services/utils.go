package services

import (
	"github.com/yudhapratama/manpower/pkg/core/allocator"
	"github.com/yudhapratama/manpower/pkg/core/model"
	"github.com/yudhapratama/manpower/pkg/db"
)

// filterPendingRequests filters request rows to only those still pending
func filterPendingRequests(requests []db.RequestRecord) []db.RequestRecord {
	filtered := make([]db.RequestRecord, 0)
	for _, req := range requests {
		if req.Status == string(model.RequestPending) {
			filtered = append(filtered, req)
		}
	}
	return filtered
}

// toEmployeePool converts employee rows into the core employee type
func toEmployeePool(records []db.EmployeeRecord) []model.Employee {
	pool := make([]model.Employee, len(records))
	for i, rec := range records {
		pool[i] = rec.ToEmployee()
	}
	return pool
}

// scheduledIDs extracts the assigned employee ids from schedule rows, which
// arrive in slot order from the query layer.
func scheduledIDs(schedules []db.ScheduleRecord) []model.EmployeeID {
	ids := make([]model.EmployeeID, len(schedules))
	for i, s := range schedules {
		ids[i] = model.NewEmployeeID(s.EmployeeID)
	}
	return ids
}

// buildSectionResolver builds a subsection-to-section resolver from the
// request rows in scope. Unknown subsections resolve to an empty section so
// they never match anything.
func buildSectionResolver(requests []db.RequestRecord) allocator.SectionResolver {
	sections := make(map[string]string, len(requests))
	for _, req := range requests {
		if req.SubsectionID != "" && req.SectionID != "" {
			sections[req.SubsectionID] = req.SectionID
		}
	}
	return func(subsectionID string) string {
		return sections[subsectionID]
	}
}

// fulfillmentStats summarizes an assignment map against its requests
type fulfillmentStats struct {
	Requests  int
	Complete  int
	Shortfall int
}

func summarizeFulfillment(requests []model.Request, assignments map[string][]model.EmployeeID) fulfillmentStats {
	stats := fulfillmentStats{Requests: len(requests)}
	for _, req := range requests {
		assigned := len(assignments[req.ID])
		if req.Shortfall(assigned) == 0 {
			stats.Complete++
		} else {
			stats.Shortfall += req.Shortfall(assigned)
		}
	}
	return stats
}
