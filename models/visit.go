package models

import (
	"database/sql"
	"time"
)

// VisitAssignment is a DM-issued field-visit task for an officer.
type VisitAssignment struct {
	AssignmentID  int64     `db:"assignment_id" json:"assignment_id"`
	DMID          int64     `db:"dm_id" json:"dm_id"`
	OfficerID     int64     `db:"officer_id" json:"officer_id"`
	District      string    `db:"district" json:"district"`
	GramPanchayat string    `db:"gram_panchayat" json:"gram_panchayat"`
	Village       string    `db:"village" json:"village"`
	Priority      Priority  `db:"priority" json:"priority"`
	VisitDate     time.Time `db:"visit_date" json:"visit_date"`
	Notes         string    `db:"notes" json:"notes"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`

	// Report is the single current visit report, if one has been submitted.
	Report *VisitReport `json:"visit_report,omitempty"`
}

// VisitReport is the officer's post-visit submission. One row per assignment;
// resubmission overwrites (last writer wins), unlike the complaint audit trail.
type VisitReport struct {
	AssignmentID    int64          `db:"assignment_id" json:"assignment_id"`
	ActualVisitDate time.Time      `db:"actual_visit_date" json:"actual_visit_date"`
	Remarks         string         `db:"remarks" json:"remarks"`
	ProofPath       sql.NullString `db:"proof_path" json:"proof_path,omitempty"`
	Stats           VisitStats     `json:"stats"`
	SubmittedAt     time.Time      `db:"submitted_at" json:"submitted_at"`
}

// VisitStats is the per-date complaint breakdown by status, both as the
// aggregator output and as the counters embedded in a visit report.
type VisitStats struct {
	Total      int `db:"total" json:"total"`
	Solved     int `db:"solved" json:"solved"`
	Pending    int `db:"pending" json:"pending"`
	Forwarded  int `db:"forwarded" json:"forwarded"`
	Rejected   int `db:"rejected" json:"rejected"`
	InProgress int `db:"in_progress" json:"inProgress"`
}
