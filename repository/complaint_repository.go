package repository

import (
	"database/sql"
	"fmt"
	"sjdportal/models"
	"time"
)

// ComplaintRepository handles database operations for complaints and their
// append-only forward/update history
type ComplaintRepository struct {
	db *sql.DB
}

// NewComplaintRepository creates a new complaint repository
func NewComplaintRepository(db *sql.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

const complaintColumns = `
	complaint_id, tracking_id, title, description, category, location,
	source_type, citizen_id, citizen_name, citizen_mobile, citizen_dob,
	filed_by_officer_id, village, block, tehsil, district, state, pincode,
	landmark, status, attachment_path, version, created_at, updated_at`

// scanComplaint scans one complaint row in complaintColumns order.
func scanComplaint(row interface{ Scan(...interface{}) error }) (*models.Complaint, error) {
	var c models.Complaint
	err := row.Scan(
		&c.ComplaintID, &c.TrackingID, &c.Title, &c.Description, &c.Category,
		&c.Location, &c.SourceType, &c.CitizenID, &c.CitizenName,
		&c.CitizenMobile, &c.CitizenDob, &c.FiledByOfficerID, &c.Village,
		&c.Block, &c.Tehsil, &c.District, &c.State, &c.Pincode, &c.Landmark,
		&c.Status, &c.AttachmentPath, &c.Version, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// CreateComplaint creates a new complaint in the database. The caller must
// have stamped TrackingID and Status already.
func (r *ComplaintRepository) CreateComplaint(complaint *models.Complaint) error {
	query := `
		INSERT INTO complaints (
			tracking_id, title, description, category, location,
			source_type, citizen_id, citizen_name, citizen_mobile, citizen_dob,
			filed_by_officer_id, village, block, tehsil, district, state,
			pincode, landmark, status, attachment_path, version
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 1)
	`

	result, err := r.db.Exec(
		query,
		complaint.TrackingID,
		complaint.Title,
		complaint.Description,
		complaint.Category,
		complaint.Location,
		complaint.SourceType,
		complaint.CitizenID,
		complaint.CitizenName,
		complaint.CitizenMobile,
		complaint.CitizenDob,
		complaint.FiledByOfficerID,
		complaint.Village,
		complaint.Block,
		complaint.Tehsil,
		complaint.District,
		complaint.State,
		complaint.Pincode,
		complaint.Landmark,
		complaint.Status,
		complaint.AttachmentPath,
	)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}

	complaintID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get complaint ID: %w", err)
	}

	complaint.ComplaintID = complaintID
	complaint.Version = 1
	return nil
}

// GetComplaintByID retrieves a complaint by its ID
func (r *ComplaintRepository) GetComplaintByID(complaintID int64) (*models.Complaint, error) {
	row := r.db.QueryRow(
		`SELECT `+complaintColumns+` FROM complaints WHERE complaint_id = ?`,
		complaintID,
	)
	complaint, err := scanComplaint(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("complaint %d: %w", complaintID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return complaint, nil
}

// GetComplaintByTrackingID retrieves a complaint by exact tracking id match.
// No prefix or pattern matching: the tracking id is the public lookup key and
// must never leak other complaints.
func (r *ComplaintRepository) GetComplaintByTrackingID(trackingID string) (*models.Complaint, error) {
	row := r.db.QueryRow(
		`SELECT `+complaintColumns+` FROM complaints WHERE tracking_id = ?`,
		trackingID,
	)
	complaint, err := scanComplaint(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("tracking id %q: %w", trackingID, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint by tracking id: %w", err)
	}
	return complaint, nil
}

// casStatus bumps the complaint's status and version iff the caller still
// holds the current version. Returns models.ErrConflict when the row moved
// underneath the caller, models.ErrNotFound when it does not exist.
func casStatus(tx *sql.Tx, complaintID int64, expectedVersion int64, newStatus models.ComplaintStatus) error {
	result, err := tx.Exec(`
		UPDATE complaints
		SET status = ?, version = version + 1, updated_at = NOW()
		WHERE complaint_id = ? AND version = ?
	`, newStatus, complaintID, expectedVersion)
	if err != nil {
		return fmt.Errorf("failed to update complaint status: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if affected == 0 {
		var exists int
		if err := tx.QueryRow(
			`SELECT COUNT(*) FROM complaints WHERE complaint_id = ?`, complaintID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("failed to recheck complaint: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("complaint %d: %w", complaintID, models.ErrNotFound)
		}
		return fmt.Errorf("complaint %d: %w", complaintID, models.ErrConflict)
	}
	return nil
}

// AppendStatusUpdate appends one immutable update entry and sets the
// complaint status, as a single transaction guarded by the version the
// caller read. Either both land or neither does.
func (r *ComplaintRepository) AppendStatusUpdate(update *models.ComplaintUpdate, expectedVersion int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := casStatus(tx, update.ComplaintID, expectedVersion, update.Status); err != nil {
		return err
	}

	result, err := tx.Exec(`
		INSERT INTO complaint_updates (
			complaint_id, updated_by_role, updated_by_id, status, remarks, attachment_path
		) VALUES (?, ?, ?, ?, ?, ?)
	`,
		update.ComplaintID,
		update.UpdatedByRole,
		update.UpdatedByID,
		update.Status,
		update.Remarks,
		update.AttachmentPath,
	)
	if err != nil {
		return fmt.Errorf("failed to append status update: %w", err)
	}

	updateID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get update ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status update: %w", err)
	}

	update.UpdateID = updateID
	return nil
}

// AppendForward appends one immutable forward entry and moves the complaint
// to Forwarded, under the same version guard as AppendStatusUpdate.
func (r *ComplaintRepository) AppendForward(forward *models.ComplaintForward, expectedVersion int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := casStatus(tx, forward.ComplaintID, expectedVersion, models.StatusForwarded); err != nil {
		return err
	}

	result, err := tx.Exec(`
		INSERT INTO complaint_forwards (
			complaint_id, forwarded_by_role, forwarded_by_id,
			target_role, target_id, remarks, attachment_path
		) VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		forward.ComplaintID,
		forward.ForwardedByRole,
		forward.ForwardedByID,
		forward.TargetRole,
		forward.TargetID,
		forward.Remarks,
		forward.AttachmentPath,
	)
	if err != nil {
		return fmt.Errorf("failed to append forward: %w", err)
	}

	forwardID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get forward ID: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit forward: %w", err)
	}

	forward.ForwardID = forwardID
	return nil
}

// GetUpdates retrieves the update timeline for a complaint in append order.
func (r *ComplaintRepository) GetUpdates(complaintID int64) ([]models.ComplaintUpdate, error) {
	rows, err := r.db.Query(`
		SELECT update_id, complaint_id, updated_by_role, updated_by_id,
			status, remarks, attachment_path, created_at
		FROM complaint_updates
		WHERE complaint_id = ?
		ORDER BY update_id ASC
	`, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query updates: %w", err)
	}
	defer rows.Close()

	var updates []models.ComplaintUpdate
	for rows.Next() {
		var u models.ComplaintUpdate
		err := rows.Scan(
			&u.UpdateID, &u.ComplaintID, &u.UpdatedByRole, &u.UpdatedByID,
			&u.Status, &u.Remarks, &u.AttachmentPath, &u.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan update: %w", err)
		}
		updates = append(updates, u)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating updates: %w", err)
	}

	return updates, nil
}

// GetForwards retrieves the forward chain for a complaint in append order.
func (r *ComplaintRepository) GetForwards(complaintID int64) ([]models.ComplaintForward, error) {
	rows, err := r.db.Query(`
		SELECT forward_id, complaint_id, forwarded_by_role, forwarded_by_id,
			target_role, target_id, remarks, attachment_path, created_at
		FROM complaint_forwards
		WHERE complaint_id = ?
		ORDER BY forward_id ASC
	`, complaintID)
	if err != nil {
		return nil, fmt.Errorf("failed to query forwards: %w", err)
	}
	defer rows.Close()

	var forwards []models.ComplaintForward
	for rows.Next() {
		var f models.ComplaintForward
		err := rows.Scan(
			&f.ForwardID, &f.ComplaintID, &f.ForwardedByRole, &f.ForwardedByID,
			&f.TargetRole, &f.TargetID, &f.Remarks, &f.AttachmentPath, &f.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan forward: %w", err)
		}
		forwards = append(forwards, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating forwards: %w", err)
	}

	return forwards, nil
}

// GetLatestForward returns the newest forward for a complaint, or nil when
// the complaint has never been forwarded.
func (r *ComplaintRepository) GetLatestForward(complaintID int64) (*models.ComplaintForward, error) {
	var f models.ComplaintForward
	err := r.db.QueryRow(`
		SELECT forward_id, complaint_id, forwarded_by_role, forwarded_by_id,
			target_role, target_id, remarks, attachment_path, created_at
		FROM complaint_forwards
		WHERE complaint_id = ?
		ORDER BY forward_id DESC
		LIMIT 1
	`, complaintID).Scan(
		&f.ForwardID, &f.ComplaintID, &f.ForwardedByRole, &f.ForwardedByID,
		&f.TargetRole, &f.TargetID, &f.Remarks, &f.AttachmentPath, &f.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest forward: %w", err)
	}
	return &f, nil
}

// ListForActor retrieves the complaints visible to an actor, newest first.
// Citizens see their own; officers see complaints they filed or currently
// hold; departments see complaints they currently hold; DM and superadmin
// see everything.
func (r *ComplaintRepository) ListForActor(actor models.Actor) ([]models.Complaint, error) {
	query := `SELECT ` + complaintColumns + ` FROM complaints`
	var args []interface{}

	const latestTarget = `
		(SELECT CONCAT(f.target_role, ':', f.target_id)
		 FROM complaint_forwards f
		 WHERE f.complaint_id = complaints.complaint_id
		 ORDER BY f.forward_id DESC LIMIT 1)`

	switch actor.Role {
	case models.RoleCitizen:
		query += ` WHERE citizen_id = ?`
		args = append(args, actor.ID)
	case models.RoleOfficer:
		query += ` WHERE filed_by_officer_id = ? OR ` + latestTarget + ` = ?`
		args = append(args, actor.ID, fmt.Sprintf("officer:%d", actor.ID))
	case models.RoleDepartment:
		query += ` WHERE ` + latestTarget + ` = ?`
		args = append(args, fmt.Sprintf("department:%d", actor.ID))
	case models.RoleDM, models.RoleSuperadmin:
		// unrestricted
	default:
		return nil, fmt.Errorf("role %q: %w", actor.Role, models.ErrForbidden)
	}

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, *c)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complaints: %w", err)
	}

	return complaints, nil
}

// StatsForDate counts complaints created on the given calendar date, grouped
// by status. officerID narrows to complaints that officer filed; nil is the
// DM-side query across all complaints. Pure read; reflects live state.
func (r *ComplaintRepository) StatsForDate(officerID *int64, date time.Time) (models.VisitStats, error) {
	query := `
		SELECT status, COUNT(*)
		FROM complaints
		WHERE DATE(created_at) = ?
	`
	args := []interface{}{date.Format("2006-01-02")}

	if officerID != nil {
		query += ` AND filed_by_officer_id = ?`
		args = append(args, *officerID)
	}
	query += ` GROUP BY status`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return models.VisitStats{}, fmt.Errorf("failed to query complaint stats: %w", err)
	}
	defer rows.Close()

	var stats models.VisitStats
	for rows.Next() {
		var status models.ComplaintStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return models.VisitStats{}, fmt.Errorf("failed to scan stats row: %w", err)
		}
		stats.Total += count
		switch status {
		case models.StatusResolved:
			stats.Solved = count
		case models.StatusPending:
			stats.Pending = count
		case models.StatusForwarded:
			stats.Forwarded = count
		case models.StatusRejected:
			stats.Rejected = count
		case models.StatusInProgress:
			stats.InProgress = count
		}
	}

	if err = rows.Err(); err != nil {
		return models.VisitStats{}, fmt.Errorf("error iterating stats: %w", err)
	}

	return stats, nil
}
