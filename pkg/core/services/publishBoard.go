package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yudhapratama/manpower/internal/config"
	"github.com/yudhapratama/manpower/pkg/core/model"
	"github.com/yudhapratama/manpower/pkg/db"
)

// PublishBoardResult contains the board publishing outcome
type PublishBoardResult struct {
	Date     string
	SheetID  string
	Tab      string
	Requests int
	Rows     int
}

// PublishBoardStore defines the database operations needed for publishing
// the assignment board
type PublishBoardStore interface {
	GetRequestsByDate(ctx context.Context, date string) ([]db.RequestRecord, error)
	GetSchedulesForDate(ctx context.Context, date string) ([]db.ScheduleRecord, error)
	GetEmployees(ctx context.Context) ([]db.EmployeeRecord, error)
}

// BoardWriter is the sheets surface the publisher needs
type BoardWriter interface {
	ClearRange(spreadsheetID, sheetRange string) error
	UpdateRows(spreadsheetID, sheetRange string, values [][]interface{}) error
	AppendRows(spreadsheetID, sheetRange string, values [][]interface{}) error
}

// PublishBoard writes the fulfilled assignment board for one date to the
// configured Google Sheet tab. Only schedules of fulfilled, publicly visible
// requests appear on the board; private schedules are operator-only.
//
// By default the tab is cleared and rewritten with a header. With appendOnly
// the data rows are added below the existing table instead, so several dates
// can accumulate on one tab.
func PublishBoard(
	ctx context.Context,
	database PublishBoardStore,
	sheetsClient BoardWriter,
	cfg *config.Config,
	date string,
	includePrivate bool,
	appendOnly bool,
	logger *zap.Logger,
) (*PublishBoardResult, error) {
	logger.Debug("Starting publishBoard",
		zap.String("date", date),
		zap.Bool("include_private", includePrivate),
		zap.Bool("append_only", appendOnly))

	if cfg.BoardSheetID == "" {
		return nil, fmt.Errorf("boardSheetID is not configured")
	}
	tab := cfg.BoardTab
	if tab == "" {
		tab = "Board"
	}

	requests, err := database.GetRequestsByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch requests: %w", err)
	}
	requestsByID := make(map[string]db.RequestRecord, len(requests))
	for _, req := range requests {
		requestsByID[req.ID] = req
	}

	schedules, err := database.GetSchedulesForDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch schedules: %w", err)
	}
	logger.Debug("Found schedules", zap.Int("count", len(schedules)))

	employees, err := database.GetEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch employees: %w", err)
	}
	namesByID := make(map[string]string, len(employees))
	for _, e := range employees {
		namesByID[e.ID] = e.Name
	}

	rows := [][]interface{}{
		{"Date", "Request", "Subsection", "Line", "Slot", "Employee ID", "Employee Name"},
	}
	published := make(map[string]bool)
	for _, s := range schedules {
		req, ok := requestsByID[s.RequestID]
		if !ok || req.Status != string(model.RequestFulfilled) {
			continue
		}
		if !includePrivate && s.Visibility != "public" {
			continue
		}

		rows = append(rows, []interface{}{
			req.Date,
			req.ID,
			req.SubsectionID,
			s.LineNumber,
			s.SlotIndex + 1,
			s.EmployeeID,
			namesByID[s.EmployeeID],
		})
		published[s.RequestID] = true
	}

	if len(rows) == 1 {
		return nil, fmt.Errorf("no publishable schedules found for %s", date)
	}

	if appendOnly {
		if err := sheetsClient.AppendRows(cfg.BoardSheetID, tab, rows[1:]); err != nil {
			return nil, fmt.Errorf("failed to append to board: %w", err)
		}
	} else {
		if err := sheetsClient.ClearRange(cfg.BoardSheetID, tab); err != nil {
			return nil, fmt.Errorf("failed to clear board: %w", err)
		}
		if err := sheetsClient.UpdateRows(cfg.BoardSheetID, tab+"!A1", rows); err != nil {
			return nil, fmt.Errorf("failed to write board: %w", err)
		}
	}

	logger.Info("Board published",
		zap.String("sheet_id", cfg.BoardSheetID),
		zap.String("tab", tab),
		zap.Int("requests", len(published)),
		zap.Int("rows", len(rows)-1))

	return &PublishBoardResult{
		Date:     date,
		SheetID:  cfg.BoardSheetID,
		Tab:      tab,
		Requests: len(published),
		Rows:     len(rows) - 1,
	}, nil
}
