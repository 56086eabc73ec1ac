package db

import (
	"github.com/yudhapratama/manpower/pkg/core/model"
)

// EmployeeRecord is a database employee row
type EmployeeRecord struct {
	ID              string
	Name            string
	Gender          string
	EmploymentType  string
	SubsectionIDs   []string
	WorkloadPoints  float64
	BlindTestPoints float64
	RatingPoints    float64
	TenureWeight    float64
	Status          string
}

// RequestRecord is a database manpower request row
type RequestRecord struct {
	ID              string
	Date            string
	SubsectionID    string
	SectionID       string
	RequestedAmount int
	MaleCount       int
	FemaleCount     int
	Status          string
	LineManaged     bool
}

// ScheduleRecord is one assigned employee slot of a fulfilled request
type ScheduleRecord struct {
	ID         string
	BatchID    string
	RequestID  string
	EmployeeID string
	SlotIndex  int
	LineNumber int
	Strategy   string
	Visibility string
}

// ToEmployee converts a database row into the core employee type,
// normalizing gender, employment type, and id at the ingestion boundary.
func (r EmployeeRecord) ToEmployee() model.Employee {
	status := model.StatusUnavailable
	if r.Status == string(model.StatusAvailable) {
		status = model.StatusAvailable
	}
	return model.Employee{
		ID:              model.NewEmployeeID(r.ID),
		Name:            r.Name,
		Gender:          model.ParseGender(r.Gender),
		Type:            model.ParseEmploymentType(r.EmploymentType),
		SubsectionIDs:   r.SubsectionIDs,
		WorkloadPoints:  r.WorkloadPoints,
		BlindTestPoints: r.BlindTestPoints,
		RatingPoints:    r.RatingPoints,
		TenureWeight:    r.TenureWeight,
		Status:          status,
	}
}

// ToRequest converts a database row into the core request type. The
// scheduled ids come from existing schedule rows (revise flows).
func (r RequestRecord) ToRequest(scheduled []model.EmployeeID) model.Request {
	status := model.RequestPending
	if r.Status == string(model.RequestFulfilled) {
		status = model.RequestFulfilled
	}
	return model.Request{
		ID:                   r.ID,
		Date:                 r.Date,
		SubsectionID:         r.SubsectionID,
		SectionID:            r.SectionID,
		RequestedAmount:      r.RequestedAmount,
		MaleCount:            r.MaleCount,
		FemaleCount:          r.FemaleCount,
		Status:               status,
		ScheduledEmployeeIDs: scheduled,
		LineManaged:          r.LineManaged,
	}
}
