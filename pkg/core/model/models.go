package model

import (
	"fmt"
	"slices"
	"strings"
)

// EmployeeID is the canonical employee identifier. Upstream systems deliver
// ids as either numbers or strings; everything past the ingestion boundary
// compares EmployeeID values only.
type EmployeeID string

// NewEmployeeID normalizes a raw id value to its canonical string form.
func NewEmployeeID(raw any) EmployeeID {
	switch v := raw.(type) {
	case string:
		return EmployeeID(v)
	case EmployeeID:
		return v
	case float64:
		// JSON numbers decode as float64; ids are integral
		return EmployeeID(fmt.Sprintf("%.0f", v))
	default:
		return EmployeeID(fmt.Sprint(v))
	}
}

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender normalizes a raw gender value. Anything that is not
// recognizably female defaults to male.
func ParseGender(raw string) Gender {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "female", "f", "perempuan", "wanita":
		return GenderFemale
	default:
		return GenderMale
	}
}

type EmploymentType string

const (
	// EmploymentMonthly is a salaried ("bulanan") employee
	EmploymentMonthly EmploymentType = "monthly"
	// EmploymentDaily is a daily-rate ("harian") employee
	EmploymentDaily EmploymentType = "daily"
)

// ParseEmploymentType normalizes a raw employment type value.
// Unknown values default to daily, the lower-priority type.
func ParseEmploymentType(raw string) EmploymentType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "monthly", "bulanan":
		return EmploymentMonthly
	default:
		return EmploymentDaily
	}
}

type EmployeeStatus string

const (
	StatusAvailable   EmployeeStatus = "available"
	StatusUnavailable EmployeeStatus = "unavailable"
)

type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestFulfilled RequestStatus = "fulfilled"
)

// Employee is a candidate for assignment. The pool handed to the core is
// already filtered to eligible candidates by the query layer.
type Employee struct {
	ID            EmployeeID
	Name          string
	Gender        Gender
	Type          EmploymentType
	SubsectionIDs []string

	// Score components. Missing values are stored as 0.
	WorkloadPoints  float64
	BlindTestPoints float64
	RatingPoints    float64

	// TenureWeight breaks ties between daily-type employees only
	TenureWeight float64

	Status EmployeeStatus
}

// CompositeScore is the ranking score: workload + blind test + rating.
func (e Employee) CompositeScore() float64 {
	return e.WorkloadPoints + e.BlindTestPoints + e.RatingPoints
}

// InSubsection reports whether the employee belongs to the given subsection.
func (e Employee) InSubsection(subsectionID string) bool {
	return slices.Contains(e.SubsectionIDs, subsectionID)
}

// Request is a manpower requisition for a date and subsection.
type Request struct {
	ID           string
	Date         string // 2006-01-02
	SubsectionID string
	SectionID    string

	RequestedAmount int
	MaleCount       int
	FemaleCount     int

	Status RequestStatus

	// ScheduledEmployeeIDs holds employees already scheduled for this
	// request, in slot order. Non-empty only in revise flows.
	ScheduledEmployeeIDs []EmployeeID

	// LineManaged marks requests whose subsection requires line rotation
	// (or where the operator enabled line assignment). Supplied by the
	// ingestion layer, never derived from a category name in the core.
	LineManaged bool
}

// Shortfall returns how many requested slots are not covered by the given
// assignment length. Never negative.
func (r Request) Shortfall(assigned int) int {
	if assigned >= r.RequestedAmount {
		return 0
	}
	return r.RequestedAmount - assigned
}
