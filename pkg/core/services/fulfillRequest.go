package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yudhapratama/manpower/pkg/core/allocator"
	"github.com/yudhapratama/manpower/pkg/core/model"
	"github.com/yudhapratama/manpower/pkg/core/session"
	"github.com/yudhapratama/manpower/pkg/db"
)

// FulfillRequestResult contains the single-request fulfillment outcome
type FulfillRequestResult struct {
	RequestID string
	BatchID   string
	Assigned  []model.EmployeeID
	Shortfall int
	Saved     bool
}

// FulfillRequestStore defines the database operations needed for fulfilling
// one request
type FulfillRequestStore interface {
	GetRequest(ctx context.Context, id string) (*db.RequestRecord, error)
	GetSchedulesForRequest(ctx context.Context, requestID string) ([]db.ScheduleRecord, error)
	GetAvailableEmployees(ctx context.Context) ([]db.EmployeeRecord, error)
	ReplaceSchedulesForRequest(ctx context.Context, requestID string, schedules []db.ScheduleRecord) error
	UpdateRequestStatus(ctx context.Context, id, status string) error
}

// FulfillRequest ranks the available pool for one request and assigns the
// best candidates. Existing schedules seed a revision: scheduled employees
// keep their slots and only the shortfall is filled.
// If dryRun is true, the assignment is not saved to the database.
func FulfillRequest(
	ctx context.Context,
	database FulfillRequestStore,
	requestID string,
	strategy allocator.Strategy,
	lineManaged bool,
	logger *zap.Logger,
	dryRun bool,
) (*FulfillRequestResult, error) {
	logger.Debug("Starting fulfillRequest",
		zap.String("request_id", requestID),
		zap.String("strategy", string(strategy)),
		zap.Bool("dry_run", dryRun))

	record, err := database.GetRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch request: %w", err)
	}
	if record == nil {
		return nil, fmt.Errorf("request %s not found", requestID)
	}
	if lineManaged {
		record.LineManaged = true
	}

	schedules, err := database.GetSchedulesForRequest(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedules: %w", err)
	}
	scheduled := scheduledIDs(schedules)
	logger.Debug("Existing schedules", zap.Int("count", len(scheduled)))

	employees, err := database.GetAvailableEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	pool := toEmployeePool(employees)
	logger.Debug("Available pool", zap.Int("count", len(pool)))

	request := record.ToRequest(scheduled)

	scheduledSet := make(map[model.EmployeeID]bool, len(scheduled))
	for _, id := range scheduled {
		scheduledSet[id] = true
	}
	ranked := allocator.Rank(pool, request, scheduledSet)

	var res allocator.SelectionResult
	if len(scheduled) > 0 {
		res = allocator.SelectRevision(ranked, request, nil, scheduled)
	} else {
		res = allocator.Select(ranked, request, nil)
	}

	shortfall := request.Shortfall(len(res.Selected))
	logger.Info("Selection completed",
		zap.String("request_id", requestID),
		zap.Int("assigned", len(res.Selected)),
		zap.Int("shortfall", shortfall))

	result := &FulfillRequestResult{
		RequestID: requestID,
		Assigned:  res.Selected,
		Shortfall: shortfall,
	}

	if dryRun {
		logger.Info("Dry run mode - assignment not saved")
		return result, nil
	}
	if shortfall > 0 {
		logger.Warn("Request not fully covered - assignment not saved",
			zap.Int("shortfall", shortfall))
		return result, nil
	}

	batchID := uuid.New().String()
	policy := allocator.PolicyFor(request, nil)
	rows := buildScheduleRows(batchID, request, res.Selected, policy, strategy, string(session.VisibilityPrivate))

	if err := database.ReplaceSchedulesForRequest(ctx, requestID, rows); err != nil {
		return nil, fmt.Errorf("failed to save schedules: %w", err)
	}
	if err := database.UpdateRequestStatus(ctx, requestID, string(model.RequestFulfilled)); err != nil {
		return nil, fmt.Errorf("failed to update request status: %w", err)
	}

	logger.Info("Assignment saved",
		zap.String("batch_id", batchID),
		zap.Int("count", len(rows)))

	result.BatchID = batchID
	result.Saved = true
	return result, nil
}

// buildScheduleRows converts a final assignment into schedule rows, deriving
// line numbers from the given policy.
func buildScheduleRows(
	batchID string,
	request model.Request,
	assigned []model.EmployeeID,
	policy allocator.LineAssignmentPolicy,
	strategy allocator.Strategy,
	visibility string,
) []db.ScheduleRecord {
	lines := policy.Lines(assigned)

	rows := make([]db.ScheduleRecord, len(assigned))
	for i, id := range assigned {
		rows[i] = db.ScheduleRecord{
			ID:         uuid.New().String(),
			BatchID:    batchID,
			RequestID:  request.ID,
			EmployeeID: string(id),
			SlotIndex:  i,
			LineNumber: lines[id],
			Strategy:   string(strategy),
			Visibility: visibility,
		}
	}
	return rows
}
