package postgres

import (
	"context"
	"fmt"

	dbmodels "github.com/yudhapratama/manpower/pkg/db"
)

// GetEmployees returns every employee row.
func (db *DB) GetEmployees(ctx context.Context) ([]dbmodels.EmployeeRecord, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, name, gender, employment_type, subsection_ids,
		       workload_points, blind_test_points, rating_points,
		       tenure_weight, status
		FROM employee
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []dbmodels.EmployeeRecord
	for rows.Next() {
		var e dbmodels.EmployeeRecord
		err := rows.Scan(
			&e.ID, &e.Name, &e.Gender, &e.EmploymentType, &e.SubsectionIDs,
			&e.WorkloadPoints, &e.BlindTestPoints, &e.RatingPoints,
			&e.TenureWeight, &e.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}

// GetAvailableEmployees returns employees whose status is available.
func (db *DB) GetAvailableEmployees(ctx context.Context) ([]dbmodels.EmployeeRecord, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, name, gender, employment_type, subsection_ids,
		       workload_points, blind_test_points, rating_points,
		       tenure_weight, status
		FROM employee
		WHERE status = 'available'
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query available employees: %w", err)
	}
	defer rows.Close()

	var employees []dbmodels.EmployeeRecord
	for rows.Next() {
		var e dbmodels.EmployeeRecord
		err := rows.Scan(
			&e.ID, &e.Name, &e.Gender, &e.EmploymentType, &e.SubsectionIDs,
			&e.WorkloadPoints, &e.BlindTestPoints, &e.RatingPoints,
			&e.TenureWeight, &e.Status,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}
