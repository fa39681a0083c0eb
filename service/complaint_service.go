package service

import (
	"database/sql"
	"fmt"
	"log"
	"sjdportal/models"
	"sort"
	"time"
)

// ComplaintStore is the persistence surface the routing engine needs.
// *repository.ComplaintRepository implements it.
type ComplaintStore interface {
	CreateComplaint(complaint *models.Complaint) error
	GetComplaintByID(complaintID int64) (*models.Complaint, error)
	GetComplaintByTrackingID(trackingID string) (*models.Complaint, error)
	AppendStatusUpdate(update *models.ComplaintUpdate, expectedVersion int64) error
	AppendForward(forward *models.ComplaintForward, expectedVersion int64) error
	GetUpdates(complaintID int64) ([]models.ComplaintUpdate, error)
	GetForwards(complaintID int64) ([]models.ComplaintForward, error)
	GetLatestForward(complaintID int64) (*models.ComplaintForward, error)
	ListForActor(actor models.Actor) ([]models.Complaint, error)
	StatsForDate(officerID *int64, date time.Time) (models.VisitStats, error)
}

// AccountStore is the role registry surface. *repository.AccountRepository
// implements it.
type AccountStore interface {
	RoleExists(role models.ActorRole, id int64) (bool, error)
	GetName(id int64) (string, error)
	GetByEmail(email string) (*models.Account, error)
}

// ComplaintService implements the complaint lifecycle: creation with tracking
// id stamping, the status state machine, the forward chain, and public
// tracking.
type ComplaintService struct {
	store     ComplaintStore
	accounts  AccountStore
	allocator *TrackingAllocator
}

// NewComplaintService creates a new complaint service
func NewComplaintService(store ComplaintStore, accounts AccountStore, allocator *TrackingAllocator) *ComplaintService {
	return &ComplaintService{
		store:     store,
		accounts:  accounts,
		allocator: allocator,
	}
}

// CreateComplaint files a new complaint for the acting account.
//
// Citizens file for themselves (Public variant, linked to their account).
// Officers file on an unregistered citizen's behalf (Officer variant) and
// must supply the citizen's name; the structured location fields belong to
// this variant only. Every complaint starts Pending with a freshly allocated
// tracking id.
func (s *ComplaintService) CreateComplaint(req *models.CreateComplaintRequest, actor models.Actor) (*models.CreateComplaintResponse, error) {
	trackingID, err := s.allocator.Allocate()
	if err != nil {
		return nil, err
	}

	complaint := &models.Complaint{
		TrackingID:  trackingID,
		Title:       req.Title,
		Description: req.Description,
		Status:      models.StatusPending,
	}
	if req.Category != nil {
		complaint.Category = sql.NullString{String: *req.Category, Valid: true}
	}
	if req.Location != nil {
		complaint.Location = sql.NullString{String: *req.Location, Valid: true}
	}
	if req.AttachmentPath != nil {
		complaint.AttachmentPath = sql.NullString{String: *req.AttachmentPath, Valid: true}
	}

	switch actor.Role {
	case models.RoleCitizen:
		complaint.SourceType = models.SourcePublic
		complaint.CitizenID = sql.NullInt64{Int64: actor.ID, Valid: true}
	case models.RoleOfficer:
		if req.CitizenName == nil || *req.CitizenName == "" {
			return nil, fmt.Errorf("citizen name is required when filing on a citizen's behalf")
		}
		complaint.SourceType = models.SourceOfficer
		complaint.FiledByOfficerID = sql.NullInt64{Int64: actor.ID, Valid: true}
		complaint.CitizenName = sql.NullString{String: *req.CitizenName, Valid: true}
		setNullString(&complaint.CitizenMobile, req.CitizenMobile)
		setNullString(&complaint.CitizenDob, req.CitizenDob)
		setNullString(&complaint.Village, req.Village)
		setNullString(&complaint.Block, req.Block)
		setNullString(&complaint.Tehsil, req.Tehsil)
		setNullString(&complaint.District, req.District)
		setNullString(&complaint.State, req.State)
		setNullString(&complaint.Pincode, req.Pincode)
		setNullString(&complaint.Landmark, req.Landmark)
	default:
		return nil, fmt.Errorf("role %q cannot file complaints: %w", actor.Role, models.ErrForbidden)
	}

	if err := s.store.CreateComplaint(complaint); err != nil {
		return nil, err
	}
	log.Printf("[complaint] created %s (id=%d, source=%s)", trackingID, complaint.ComplaintID, complaint.SourceType)

	return &models.CreateComplaintResponse{
		ComplaintID: complaint.ComplaintID,
		TrackingID:  trackingID,
		Status:      string(models.StatusPending),
		Message:     "Complaint registered successfully",
	}, nil
}

// UpdateStatus appends one update entry and moves the complaint to newStatus.
//
// Rules: the complaint must exist and be non-terminal, the actor must have
// visibility of it, and the write is guarded by the version read here; a
// concurrent mutation surfaces as models.ErrConflict for the caller to retry.
func (s *ComplaintService) UpdateStatus(complaintID int64, actor models.Actor, newStatus models.ComplaintStatus, remarks string, attachmentPath *string) (*models.MutateComplaintResponse, error) {
	if !models.ValidStatus(string(newStatus)) {
		return nil, fmt.Errorf("unknown status %q", newStatus)
	}

	complaint, err := s.store.GetComplaintByID(complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.Status.IsTerminal() {
		return nil, fmt.Errorf("complaint %s is %s: %w", complaint.TrackingID, complaint.Status, models.ErrTerminalState)
	}
	if err := s.checkVisibility(complaint, actor); err != nil {
		return nil, err
	}

	update := &models.ComplaintUpdate{
		ComplaintID:   complaintID,
		UpdatedByRole: actor.Role,
		UpdatedByID:   actor.ID,
		Status:        newStatus,
		Remarks:       remarks,
	}
	if attachmentPath != nil {
		update.AttachmentPath = sql.NullString{String: *attachmentPath, Valid: true}
	}

	if err := s.store.AppendStatusUpdate(update, complaint.Version); err != nil {
		return nil, err
	}
	log.Printf("[complaint] %s: %s -> %s by %s:%d", complaint.TrackingID, complaint.Status, newStatus, actor.Role, actor.ID)

	return &models.MutateComplaintResponse{
		ComplaintID: complaintID,
		TrackingID:  complaint.TrackingID,
		OldStatus:   string(complaint.Status),
		NewStatus:   string(newStatus),
		Message:     "Status updated successfully",
	}, nil
}

// Forward appends one forward entry and moves the complaint to Forwarded.
//
// The target must resolve to an existing officer, department or dm account
// (models.ErrInvalidTarget otherwise). Cycles are allowed: real escalation
// chains route back and forth, and every hop stays in the forward chain.
func (s *ComplaintService) Forward(complaintID int64, actor models.Actor, target models.ForwardTarget, remarks string, attachmentPath *string) (*models.MutateComplaintResponse, error) {
	complaint, err := s.store.GetComplaintByID(complaintID)
	if err != nil {
		return nil, err
	}
	if complaint.Status.IsTerminal() {
		return nil, fmt.Errorf("complaint %s is %s: %w", complaint.TrackingID, complaint.Status, models.ErrTerminalState)
	}
	if err := s.checkVisibility(complaint, actor); err != nil {
		return nil, err
	}

	exists, err := s.accounts.RoleExists(target.Role, target.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("no %s account with id %d: %w", target.Role, target.ID, models.ErrInvalidTarget)
	}

	forward := &models.ComplaintForward{
		ComplaintID:     complaintID,
		ForwardedByRole: actor.Role,
		ForwardedByID:   actor.ID,
		TargetRole:      target.Role,
		TargetID:        target.ID,
		Remarks:         remarks,
	}
	if attachmentPath != nil {
		forward.AttachmentPath = sql.NullString{String: *attachmentPath, Valid: true}
	}

	if err := s.store.AppendForward(forward, complaint.Version); err != nil {
		return nil, err
	}
	log.Printf("[complaint] %s forwarded to %s:%d by %s:%d", complaint.TrackingID, target.Role, target.ID, actor.Role, actor.ID)

	return &models.MutateComplaintResponse{
		ComplaintID: complaintID,
		TrackingID:  complaint.TrackingID,
		OldStatus:   string(complaint.Status),
		NewStatus:   string(models.StatusForwarded),
		Message:     "Complaint forwarded successfully",
	}, nil
}

// Track is the public, unauthenticated lookup by exact tracking id. Display
// names for the citizen/filing officer are populated; nothing beyond the one
// matched complaint is ever returned.
func (s *ComplaintService) Track(trackingID string) (*models.TrackComplaintResponse, error) {
	complaint, err := s.store.GetComplaintByTrackingID(trackingID)
	if err != nil {
		return nil, err
	}

	response := &models.TrackComplaintResponse{Complaint: complaint}

	if complaint.CitizenID.Valid {
		name, err := s.accounts.GetName(complaint.CitizenID.Int64)
		if err == nil {
			response.CitizenName = name
		}
	} else if complaint.CitizenName.Valid {
		response.CitizenName = complaint.CitizenName.String
	}
	if complaint.FiledByOfficerID.Valid {
		name, err := s.accounts.GetName(complaint.FiledByOfficerID.Int64)
		if err == nil {
			response.FiledByName = name
		}
	}

	timeline, err := s.buildTimeline(complaint.ComplaintID)
	if err != nil {
		return nil, err
	}
	response.Timeline = timeline

	return response, nil
}

// ListComplaints returns the complaints visible to the actor.
func (s *ComplaintService) ListComplaints(actor models.Actor) ([]models.Complaint, error) {
	return s.store.ListForActor(actor)
}

// buildTimeline merges updates and forwards into one display timeline in
// strict append order. The order is never resorted beyond the merge.
func (s *ComplaintService) buildTimeline(complaintID int64) ([]models.TimelineEntry, error) {
	updates, err := s.store.GetUpdates(complaintID)
	if err != nil {
		return nil, err
	}
	forwards, err := s.store.GetForwards(complaintID)
	if err != nil {
		return nil, err
	}

	entries := make([]models.TimelineEntry, 0, len(updates)+len(forwards))
	for i := range updates {
		u := updates[i]
		status := string(u.Status)
		entry := models.TimelineEntry{
			Kind:      "update",
			ByRole:    string(u.UpdatedByRole),
			ByID:      u.UpdatedByID,
			Status:    &status,
			Remarks:   u.Remarks,
			CreatedAt: u.CreatedAt,
		}
		if u.AttachmentPath.Valid {
			entry.AttachmentPath = &u.AttachmentPath.String
		}
		entries = append(entries, entry)
	}
	for i := range forwards {
		f := forwards[i]
		targetRole := string(f.TargetRole)
		targetID := f.TargetID
		entry := models.TimelineEntry{
			Kind:       "forward",
			ByRole:     string(f.ForwardedByRole),
			ByID:       f.ForwardedByID,
			TargetRole: &targetRole,
			TargetID:   &targetID,
			Remarks:    f.Remarks,
			CreatedAt:  f.CreatedAt,
		}
		if f.AttachmentPath.Valid {
			entry.AttachmentPath = &f.AttachmentPath.String
		}
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})

	return entries, nil
}

// checkVisibility enforces who may mutate a complaint.
//
// Superadmin and DM actors always pass (the DM office oversees the whole
// district). An officer passes when it filed the complaint, currently holds
// it (newest forward targets it), or the complaint is an unrouted citizen
// filing. A department passes only while it is the current holder. Citizens
// never mutate status or routing.
func (s *ComplaintService) checkVisibility(complaint *models.Complaint, actor models.Actor) error {
	switch actor.Role {
	case models.RoleSuperadmin, models.RoleDM:
		return nil
	case models.RoleOfficer:
		if complaint.FiledByOfficerID.Valid && complaint.FiledByOfficerID.Int64 == actor.ID {
			return nil
		}
		latest, err := s.store.GetLatestForward(complaint.ComplaintID)
		if err != nil {
			return err
		}
		if latest != nil {
			if latest.TargetRole == models.RoleOfficer && latest.TargetID == actor.ID {
				return nil
			}
		} else if complaint.SourceType == models.SourcePublic {
			return nil
		}
	case models.RoleDepartment:
		latest, err := s.store.GetLatestForward(complaint.ComplaintID)
		if err != nil {
			return err
		}
		if latest != nil && latest.TargetRole == models.RoleDepartment && latest.TargetID == actor.ID {
			return nil
		}
	}
	return fmt.Errorf("%s:%d has no visibility of complaint %s: %w", actor.Role, actor.ID, complaint.TrackingID, models.ErrForbidden)
}

// setNullString assigns an optional request field into a nullable column.
func setNullString(dst *sql.NullString, src *string) {
	if src != nil && *src != "" {
		*dst = sql.NullString{String: *src, Valid: true}
	}
}
