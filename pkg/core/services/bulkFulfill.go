package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/yudhapratama/manpower/internal/config"
	"github.com/yudhapratama/manpower/pkg/core/allocator"
	"github.com/yudhapratama/manpower/pkg/core/model"
	"github.com/yudhapratama/manpower/pkg/core/session"
	"github.com/yudhapratama/manpower/pkg/db"
)

// BulkFulfillResult contains the batch fulfillment outcome
type BulkFulfillResult struct {
	Date      string
	BatchID   string
	Requests  int
	Complete  int
	Shortfall int
	Saved     bool

	// Assignments maps request id to the final employee ids, including
	// partially covered requests on a dry run or failed batch.
	Assignments map[string][]model.EmployeeID
}

// BulkFulfillStore defines the database operations needed for fulfilling a
// day's requests in one batch
type BulkFulfillStore interface {
	GetRequestsByDate(ctx context.Context, date string) ([]db.RequestRecord, error)
	GetSchedulesForRequest(ctx context.Context, requestID string) ([]db.ScheduleRecord, error)
	GetAvailableEmployees(ctx context.Context) ([]db.EmployeeRecord, error)
	ReplaceSchedulesForRequest(ctx context.Context, requestID string, schedules []db.ScheduleRecord) error
	UpdateRequestStatus(ctx context.Context, id, status string) error
}

// BulkFulfill assigns employees to every pending request of one date from a
// shared pool, so no employee is double-booked across the batch. Requests
// are processed in id order; earlier requests get first pick.
// If dryRun is true, assignments are not saved to the database.
// If forceCommit is true, assignments are saved even when some requests are
// left partially covered (only the complete ones are persisted).
func BulkFulfill(
	ctx context.Context,
	database BulkFulfillStore,
	cfg *config.Config,
	date string,
	strategy allocator.Strategy,
	logger *zap.Logger,
	dryRun bool,
	forceCommit bool,
) (*BulkFulfillResult, error) {
	logger.Debug("Starting bulkFulfill",
		zap.String("date", date),
		zap.String("strategy", string(strategy)),
		zap.Bool("dry_run", dryRun),
		zap.Bool("force_commit", forceCommit))

	allRequests, err := database.GetRequestsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}
	pending := filterPendingRequests(allRequests)
	logger.Debug("Pending requests", zap.Int("count", len(pending)))

	if len(pending) == 0 {
		return nil, fmt.Errorf("no pending requests found for %s", date)
	}

	employees, err := database.GetAvailableEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	pool := toEmployeePool(employees)
	logger.Debug("Available pool", zap.Int("count", len(pool)))

	requests := make([]model.Request, 0, len(pending))
	for _, rec := range pending {
		schedules, err := database.GetSchedulesForRequest(ctx, rec.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch schedules for request %s: %w", rec.ID, err)
		}
		if cfg.IsLineManagedSubsection(rec.SubsectionID) {
			rec.LineManaged = true
		}
		requests = append(requests, rec.ToRequest(scheduledIDs(schedules)))
	}

	// Drive the batch through a session so the flow matches the
	// interactive screen: select everything, auto-fill, submit.
	sess := session.New(requests, pool, buildSectionResolver(pending))
	for _, req := range requests {
		if err := sess.ToggleSelect(req.ID); err != nil {
			return nil, fmt.Errorf("failed to select request %s: %w", req.ID, err)
		}
	}

	logger.Info("Running bulk allocation", zap.Int("requests", len(requests)))
	if err := sess.AutoFill(strategy); err != nil {
		return nil, fmt.Errorf("bulk allocation failed: %w", err)
	}

	assignments := make(map[string][]model.EmployeeID, len(requests))
	for _, req := range requests {
		assignments[req.ID] = sess.State(req.ID).Assigned
	}
	stats := summarizeFulfillment(requests, assignments)

	logger.Info("Bulk allocation completed",
		zap.Int("requests", stats.Requests),
		zap.Int("complete", stats.Complete),
		zap.Int("shortfall", stats.Shortfall))

	result := &BulkFulfillResult{
		Date:        date,
		Requests:    stats.Requests,
		Complete:    stats.Complete,
		Shortfall:   stats.Shortfall,
		Assignments: assignments,
	}

	allComplete := stats.Complete == stats.Requests
	shouldSave := !dryRun && (allComplete || forceCommit)

	if !shouldSave {
		if dryRun {
			logger.Info("Dry run mode - assignments not saved")
		} else {
			logger.Warn("Batch incomplete - not saving (use forceCommit to save complete requests anyway)")
		}
		return result, nil
	}

	if allComplete {
		// Submit re-validates completeness; a failure here is a bug in
		// the allocation above, not operator input.
		if _, err := sess.Submit(); err != nil {
			return nil, fmt.Errorf("submission failed: %w", err)
		}
	}

	batchID := uuid.New().String()
	saved := 0
	for _, req := range requests {
		assigned := assignments[req.ID]
		if req.Shortfall(len(assigned)) > 0 {
			logger.Warn("Skipping partially covered request",
				zap.String("request_id", req.ID),
				zap.Int("assigned", len(assigned)))
			continue
		}

		policy := allocator.PolicyFor(req, sess.State(req.ID).Line)
		rows := buildScheduleRows(batchID, req, assigned, policy, strategy, string(session.VisibilityPrivate))

		if err := database.ReplaceSchedulesForRequest(ctx, req.ID, rows); err != nil {
			return nil, fmt.Errorf("failed to save schedules for request %s: %w", req.ID, err)
		}
		if err := database.UpdateRequestStatus(ctx, req.ID, string(model.RequestFulfilled)); err != nil {
			return nil, fmt.Errorf("failed to update request %s: %w", req.ID, err)
		}
		saved++
	}

	logger.Info("Assignments saved",
		zap.String("batch_id", batchID),
		zap.Int("requests", saved))

	result.BatchID = batchID
	result.Saved = true
	return result, nil
}
