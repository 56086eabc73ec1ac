package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yudhapratama/manpower/pkg/db"
)

// RequestSummary is one row of the request listing
type RequestSummary struct {
	Request  db.RequestRecord
	Assigned int
}

// ViewRequestsStore defines the database operations needed for listing
// requests
type ViewRequestsStore interface {
	GetRequestsByDate(ctx context.Context, date string) ([]db.RequestRecord, error)
	GetSchedulesForRequest(ctx context.Context, requestID string) ([]db.ScheduleRecord, error)
}

// ViewRequests lists every request of one date with its assigned headcount,
// for the operator to review before and after fulfillment.
func ViewRequests(
	ctx context.Context,
	database ViewRequestsStore,
	date string,
	logger *zap.Logger,
) ([]RequestSummary, error) {
	logger.Debug("Starting viewRequests", zap.String("date", date))

	requests, err := database.GetRequestsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}

	summaries := make([]RequestSummary, 0, len(requests))
	for _, req := range requests {
		schedules, err := database.GetSchedulesForRequest(ctx, req.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch schedules for request %s: %w", req.ID, err)
		}
		summaries = append(summaries, RequestSummary{
			Request:  req,
			Assigned: len(schedules),
		})
	}

	logger.Debug("Listed requests", zap.Int("count", len(summaries)))
	return summaries, nil
}
