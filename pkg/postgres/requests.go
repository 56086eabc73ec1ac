package postgres

import (
	"context"
	"fmt"
	"time"

	dbmodels "github.com/yudhapratama/manpower/pkg/db"
)

const requestColumns = `
	id, to_char(request_date, 'YYYY-MM-DD'), subsection_id, section_id,
	requested_amount, male_count, female_count, status, line_managed
`

// GetRequestsByDate returns every manpower request for the given date,
// ordered by id.
func (db *DB) GetRequestsByDate(ctx context.Context, date string) ([]dbmodels.RequestRecord, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM manpower_request
		WHERE request_date = $1
		ORDER BY id
	`, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	return scanRequests(rows)
}

// GetRequest returns one request by id, or nil when it does not exist.
func (db *DB) GetRequest(ctx context.Context, id string) (*dbmodels.RequestRecord, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT `+requestColumns+`
		FROM manpower_request
		WHERE id = $1
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query request: %w", err)
	}
	defer rows.Close()

	requests, err := scanRequests(rows)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, nil
	}
	return &requests[0], nil
}

// InsertRequests stores a batch of generated requests in one transaction.
// Existing ids are skipped so repeated generation windows stay idempotent.
func (db *DB) InsertRequests(ctx context.Context, requests []dbmodels.RequestRecord) error {
	if len(requests) == 0 {
		return nil
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range requests {
		date, err := time.Parse("2006-01-02", r.Date)
		if err != nil {
			return fmt.Errorf("invalid request date %q: %w", r.Date, err)
		}
		_, err = tx.Exec(ctx, `
			INSERT INTO manpower_request
				(id, request_date, subsection_id, section_id,
				 requested_amount, male_count, female_count, status, line_managed)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (id) DO NOTHING
		`, r.ID, date, r.SubsectionID, r.SectionID,
			r.RequestedAmount, r.MaleCount, r.FemaleCount, r.Status, r.LineManaged)
		if err != nil {
			return fmt.Errorf("failed to insert request %s: %w", r.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit requests: %w", err)
	}
	return nil
}

// UpdateRequestStatus sets the status of one request.
func (db *DB) UpdateRequestStatus(ctx context.Context, id, status string) error {
	tag, err := db.pool.Exec(ctx, `
		UPDATE manpower_request SET status = $2 WHERE id = $1
	`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("request %s not found", id)
	}
	return nil
}

type pgxRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanRequests(rows pgxRows) ([]dbmodels.RequestRecord, error) {
	var requests []dbmodels.RequestRecord
	for rows.Next() {
		var r dbmodels.RequestRecord
		err := rows.Scan(
			&r.ID, &r.Date, &r.SubsectionID, &r.SectionID,
			&r.RequestedAmount, &r.MaleCount, &r.FemaleCount, &r.Status, &r.LineManaged,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate requests: %w", err)
	}
	return requests, nil
}
