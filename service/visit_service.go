package service

import (
	"database/sql"
	"fmt"
	"log"
	"sjdportal/models"
	"time"
)

// VisitStore is the persistence surface for visit assignments and reports.
// *repository.VisitRepository implements it.
type VisitStore interface {
	CreateAssignment(assignment *models.VisitAssignment) error
	GetAssignmentByID(assignmentID int64) (*models.VisitAssignment, error)
	ListByDM(dmID int64) ([]models.VisitAssignment, error)
	ListByOfficer(officerID int64) ([]models.VisitAssignment, error)
	UpsertReport(report *models.VisitReport) error
}

// VisitService implements the DM->officer field-visit workflow: assignment
// creation, report submission and the per-date statistics the report form
// pulls from.
type VisitService struct {
	store      VisitStore
	complaints ComplaintStore
	accounts   AccountStore
}

// NewVisitService creates a new visit service
func NewVisitService(store VisitStore, complaints ComplaintStore, accounts AccountStore) *VisitService {
	return &VisitService{
		store:      store,
		complaints: complaints,
		accounts:   accounts,
	}
}

// CreateAssignment creates a field-visit assignment. DM only; the assignee
// must be an existing officer account.
func (s *VisitService) CreateAssignment(req *models.CreateVisitRequest, actor models.Actor) (*models.VisitAssignment, error) {
	if actor.Role != models.RoleDM && actor.Role != models.RoleSuperadmin {
		return nil, fmt.Errorf("role %q cannot assign visits: %w", actor.Role, models.ErrForbidden)
	}
	if !models.ValidPriority(req.Priority) {
		return nil, fmt.Errorf("unknown priority %q", req.Priority)
	}

	exists, err := s.accounts.RoleExists(models.RoleOfficer, req.OfficerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("no officer account with id %d: %w", req.OfficerID, models.ErrInvalidTarget)
	}

	visitDate, err := time.Parse("2006-01-02", req.VisitDate)
	if err != nil {
		return nil, fmt.Errorf("invalid visit date %q: %w", req.VisitDate, err)
	}

	assignment := &models.VisitAssignment{
		DMID:          actor.ID,
		OfficerID:     req.OfficerID,
		District:      req.Location.District,
		GramPanchayat: req.Location.GramPanchayat,
		Village:       req.Location.Village,
		Priority:      models.Priority(req.Priority),
		VisitDate:     visitDate,
		Notes:         req.Notes,
	}
	if err := s.store.CreateAssignment(assignment); err != nil {
		return nil, err
	}
	log.Printf("[visit] assignment %d: dm %d -> officer %d at %s/%s on %s",
		assignment.AssignmentID, actor.ID, req.OfficerID,
		req.Location.GramPanchayat, req.Location.Village, req.VisitDate)

	return assignment, nil
}

// GetAssignment retrieves one assignment with its report. Readable by the
// creating DM, the assigned officer and superadmin.
func (s *VisitService) GetAssignment(assignmentID int64, actor models.Actor) (*models.VisitAssignment, error) {
	assignment, err := s.store.GetAssignmentByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if !canReadAssignment(assignment, actor) {
		return nil, fmt.Errorf("%s:%d cannot read assignment %d: %w", actor.Role, actor.ID, assignmentID, models.ErrForbidden)
	}
	return assignment, nil
}

// ListAssignments returns the assignments relevant to the actor: a DM sees
// the ones it created, an officer the ones assigned to it.
func (s *VisitService) ListAssignments(actor models.Actor) ([]models.VisitAssignment, error) {
	switch actor.Role {
	case models.RoleDM, models.RoleSuperadmin:
		return s.store.ListByDM(actor.ID)
	case models.RoleOfficer:
		return s.store.ListByOfficer(actor.ID)
	}
	return nil, fmt.Errorf("role %q has no visit assignments: %w", actor.Role, models.ErrForbidden)
}

// SubmitReport writes the visit report for an assignment. Only the assigned
// officer may write it; the DM reads but never writes. Resubmission
// overwrites the previous report entirely: a visit is reported once and may
// only be corrected, not re-filed as history.
func (s *VisitService) SubmitReport(assignmentID int64, actor models.Actor, req *models.SubmitVisitReportRequest) (*models.VisitReport, error) {
	assignment, err := s.store.GetAssignmentByID(assignmentID)
	if err != nil {
		return nil, err
	}
	if actor.Role != models.RoleOfficer || actor.ID != assignment.OfficerID {
		return nil, fmt.Errorf("only the assigned officer may report on assignment %d: %w", assignmentID, models.ErrForbidden)
	}

	actualDate, err := time.Parse("2006-01-02", req.ActualVisitDate)
	if err != nil {
		return nil, fmt.Errorf("invalid visit date %q: %w", req.ActualVisitDate, err)
	}

	report := &models.VisitReport{
		AssignmentID:    assignmentID,
		ActualVisitDate: actualDate,
		Remarks:         req.Remarks,
		Stats:           req.Stats,
		SubmittedAt:     time.Now(),
	}
	if req.ProofPath != nil {
		report.ProofPath = sql.NullString{String: *req.ProofPath, Valid: true}
	}

	if err := s.store.UpsertReport(report); err != nil {
		return nil, err
	}
	log.Printf("[visit] report submitted for assignment %d by officer %d (visited %s)",
		assignmentID, actor.ID, req.ActualVisitDate)

	return report, nil
}

// StatsForOfficerDate computes the live per-date complaint breakdown the
// report form shows. officerID narrows to complaints that officer filed;
// nil is the DM-side district-wide view. Pure read; calling it repeatedly
// as the officer changes the date has no side effects.
func (s *VisitService) StatsForOfficerDate(officerID *int64, date time.Time) (models.VisitStats, error) {
	return s.complaints.StatsForDate(officerID, date)
}

func canReadAssignment(assignment *models.VisitAssignment, actor models.Actor) bool {
	switch actor.Role {
	case models.RoleSuperadmin:
		return true
	case models.RoleDM:
		return assignment.DMID == actor.ID
	case models.RoleOfficer:
		return assignment.OfficerID == actor.ID
	}
	return false
}
