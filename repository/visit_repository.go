package repository

import (
	"database/sql"
	"fmt"
	"sjdportal/models"
)

// VisitRepository handles database operations for visit assignments and their
// single current report
type VisitRepository struct {
	db *sql.DB
}

// NewVisitRepository creates a new visit repository
func NewVisitRepository(db *sql.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

// CreateAssignment creates a new visit assignment.
func (r *VisitRepository) CreateAssignment(assignment *models.VisitAssignment) error {
	result, err := r.db.Exec(`
		INSERT INTO visit_assignments (
			dm_id, officer_id, district, gram_panchayat, village,
			priority, visit_date, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		assignment.DMID,
		assignment.OfficerID,
		assignment.District,
		assignment.GramPanchayat,
		assignment.Village,
		assignment.Priority,
		assignment.VisitDate.Format("2006-01-02"),
		assignment.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to create visit assignment: %w", err)
	}

	assignmentID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get assignment ID: %w", err)
	}

	assignment.AssignmentID = assignmentID
	return nil
}

// GetAssignmentByID retrieves an assignment with its report, if one exists.
func (r *VisitRepository) GetAssignmentByID(assignmentID int64) (*models.VisitAssignment, error) {
	var a models.VisitAssignment
	err := r.db.QueryRow(`
		SELECT assignment_id, dm_id, officer_id, district, gram_panchayat,
			village, priority, visit_date, notes, created_at
		FROM visit_assignments
		WHERE assignment_id = ?
	`, assignmentID).Scan(
		&a.AssignmentID, &a.DMID, &a.OfficerID, &a.District, &a.GramPanchayat,
		&a.Village, &a.Priority, &a.VisitDate, &a.Notes, &a.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("visit assignment %d: %w", assignmentID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit assignment: %w", err)
	}

	report, err := r.getReport(assignmentID)
	if err != nil {
		return nil, err
	}
	a.Report = report

	return &a, nil
}

// getReport fetches the report row for an assignment, nil when none exists.
func (r *VisitRepository) getReport(assignmentID int64) (*models.VisitReport, error) {
	var rep models.VisitReport
	err := r.db.QueryRow(`
		SELECT assignment_id, actual_visit_date, remarks, proof_path,
			complaints_found, complaints_solved, complaints_pending,
			complaints_forwarded, complaints_rejected, complaints_in_progress,
			submitted_at
		FROM visit_reports
		WHERE assignment_id = ?
	`, assignmentID).Scan(
		&rep.AssignmentID, &rep.ActualVisitDate, &rep.Remarks, &rep.ProofPath,
		&rep.Stats.Total, &rep.Stats.Solved, &rep.Stats.Pending,
		&rep.Stats.Forwarded, &rep.Stats.Rejected, &rep.Stats.InProgress,
		&rep.SubmittedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get visit report: %w", err)
	}
	return &rep, nil
}

// listAssignments runs an assignment list query and attaches reports.
func (r *VisitRepository) listAssignments(where string, args ...interface{}) ([]models.VisitAssignment, error) {
	rows, err := r.db.Query(`
		SELECT assignment_id, dm_id, officer_id, district, gram_panchayat,
			village, priority, visit_date, notes, created_at
		FROM visit_assignments
	`+where+`
		ORDER BY visit_date DESC, assignment_id DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query visit assignments: %w", err)
	}
	defer rows.Close()

	var assignments []models.VisitAssignment
	for rows.Next() {
		var a models.VisitAssignment
		err := rows.Scan(
			&a.AssignmentID, &a.DMID, &a.OfficerID, &a.District,
			&a.GramPanchayat, &a.Village, &a.Priority, &a.VisitDate,
			&a.Notes, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit assignment: %w", err)
		}
		assignments = append(assignments, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visit assignments: %w", err)
	}

	for i := range assignments {
		report, err := r.getReport(assignments[i].AssignmentID)
		if err != nil {
			return nil, err
		}
		assignments[i].Report = report
	}

	return assignments, nil
}

// ListByDM retrieves assignments created by a DM, newest visit first.
func (r *VisitRepository) ListByDM(dmID int64) ([]models.VisitAssignment, error) {
	return r.listAssignments(`WHERE dm_id = ?`, dmID)
}

// ListByOfficer retrieves assignments given to an officer, newest visit first.
func (r *VisitRepository) ListByOfficer(officerID int64) ([]models.VisitAssignment, error) {
	return r.listAssignments(`WHERE officer_id = ?`, officerID)
}

// UpsertReport writes the single current report for an assignment.
// Resubmission overwrites every field (last writer wins); the report is
// deliberately not append-only, unlike the complaint audit trail.
func (r *VisitRepository) UpsertReport(report *models.VisitReport) error {
	_, err := r.db.Exec(`
		INSERT INTO visit_reports (
			assignment_id, actual_visit_date, remarks, proof_path,
			complaints_found, complaints_solved, complaints_pending,
			complaints_forwarded, complaints_rejected, complaints_in_progress
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			actual_visit_date = VALUES(actual_visit_date),
			remarks = VALUES(remarks),
			proof_path = VALUES(proof_path),
			complaints_found = VALUES(complaints_found),
			complaints_solved = VALUES(complaints_solved),
			complaints_pending = VALUES(complaints_pending),
			complaints_forwarded = VALUES(complaints_forwarded),
			complaints_rejected = VALUES(complaints_rejected),
			complaints_in_progress = VALUES(complaints_in_progress),
			submitted_at = NOW()
	`,
		report.AssignmentID,
		report.ActualVisitDate.Format("2006-01-02"),
		report.Remarks,
		report.ProofPath,
		report.Stats.Total,
		report.Stats.Solved,
		report.Stats.Pending,
		report.Stats.Forwarded,
		report.Stats.Rejected,
		report.Stats.InProgress,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert visit report: %w", err)
	}
	return nil
}

// ReferencedPaths returns every attachment/proof path currently referenced by
// a complaint, forward, update or visit report. The upload janitor uses this
// to spare live files.
func (r *VisitRepository) ReferencedPaths() (map[string]bool, error) {
	paths := make(map[string]bool)

	queries := []string{
		`SELECT attachment_path FROM complaints WHERE attachment_path IS NOT NULL`,
		`SELECT attachment_path FROM complaint_forwards WHERE attachment_path IS NOT NULL`,
		`SELECT attachment_path FROM complaint_updates WHERE attachment_path IS NOT NULL`,
		`SELECT proof_path FROM visit_reports WHERE proof_path IS NOT NULL`,
	}

	for _, q := range queries {
		rows, err := r.db.Query(q)
		if err != nil {
			return nil, fmt.Errorf("failed to query referenced paths: %w", err)
		}
		for rows.Next() {
			var p string
			if err := rows.Scan(&p); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan referenced path: %w", err)
			}
			paths[p] = true
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error iterating referenced paths: %w", err)
		}
		rows.Close()
	}

	return paths, nil
}
