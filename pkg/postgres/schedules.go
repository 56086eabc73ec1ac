package postgres

import (
	"context"
	"fmt"

	dbmodels "github.com/yudhapratama/manpower/pkg/db"
)

// GetSchedulesForRequest returns the schedule rows of one request in slot
// order.
func (db *DB) GetSchedulesForRequest(ctx context.Context, requestID string) ([]dbmodels.ScheduleRecord, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, batch_id, request_id, employee_id, slot_index,
		       line_number, strategy, visibility
		FROM schedule
		WHERE request_id = $1
		ORDER BY slot_index
	`, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []dbmodels.ScheduleRecord
	for rows.Next() {
		var s dbmodels.ScheduleRecord
		err := rows.Scan(
			&s.ID, &s.BatchID, &s.RequestID, &s.EmployeeID, &s.SlotIndex,
			&s.LineNumber, &s.Strategy, &s.Visibility,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}

	return schedules, nil
}

// GetSchedulesForDate returns every schedule row joined with its request's
// date, for board publishing.
func (db *DB) GetSchedulesForDate(ctx context.Context, date string) ([]dbmodels.ScheduleRecord, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT s.id, s.batch_id, s.request_id, s.employee_id, s.slot_index,
		       s.line_number, s.strategy, s.visibility
		FROM schedule s
		JOIN manpower_request r ON r.id = s.request_id
		WHERE r.request_date = $1
		ORDER BY s.request_id, s.slot_index
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedules: %w", err)
	}
	defer rows.Close()

	var schedules []dbmodels.ScheduleRecord
	for rows.Next() {
		var s dbmodels.ScheduleRecord
		err := rows.Scan(
			&s.ID, &s.BatchID, &s.RequestID, &s.EmployeeID, &s.SlotIndex,
			&s.LineNumber, &s.Strategy, &s.Visibility,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate schedules: %w", err)
	}

	return schedules, nil
}

// ReplaceSchedulesForRequest deletes any existing schedule rows for the
// request and inserts the new set in one transaction. Revisions replace the
// whole assignment rather than patching rows.
func (db *DB) ReplaceSchedulesForRequest(ctx context.Context, requestID string, schedules []dbmodels.ScheduleRecord) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `DELETE FROM schedule WHERE request_id = $1`, requestID)
	if err != nil {
		return fmt.Errorf("failed to delete schedules for request %s: %w", requestID, err)
	}

	for _, s := range schedules {
		_, err = tx.Exec(ctx, `
			INSERT INTO schedule
				(id, batch_id, request_id, employee_id, slot_index,
				 line_number, strategy, visibility)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, s.ID, s.BatchID, s.RequestID, s.EmployeeID, s.SlotIndex,
			s.LineNumber, s.Strategy, s.Visibility)
		if err != nil {
			return fmt.Errorf("failed to insert schedule for request %s: %w", s.RequestID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schedules: %w", err)
	}
	return nil
}
