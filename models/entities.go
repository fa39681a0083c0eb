package models

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ComplaintStatus represents the possible statuses of a complaint
type ComplaintStatus string

const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "In Progress"
	StatusForwarded  ComplaintStatus = "Forwarded"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusRejected   ComplaintStatus = "Rejected"
)

// IsTerminal reports whether the status permits no further transitions.
func (s ComplaintStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusRejected
}

// ValidStatus reports whether the string is a known complaint status.
func ValidStatus(s string) bool {
	switch ComplaintStatus(s) {
	case StatusPending, StatusInProgress, StatusForwarded, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// SourceType distinguishes citizen self-filed complaints from complaints an
// officer filed on an unregistered citizen's behalf.
type SourceType string

const (
	SourcePublic  SourceType = "Public"
	SourceOfficer SourceType = "Officer"
)

// ActorRole represents the account role performing an action
type ActorRole string

const (
	RoleCitizen    ActorRole = "citizen"
	RoleOfficer    ActorRole = "officer"
	RoleDepartment ActorRole = "department"
	RoleDM         ActorRole = "dm"
	RoleSuperadmin ActorRole = "superadmin"
)

// Actor is the authenticated account acting on a request (set by auth middleware).
type Actor struct {
	Role ActorRole
	ID   int64
}

// ForwardTarget is the typed forward destination: an officer, department or
// DM account, validated against the accounts table before use.
type ForwardTarget struct {
	Role ActorRole
	ID   int64
}

// ParseForwardTarget parses the wire composite "<role>:<id>" used by the
// frontend (e.g. "department:12"). Only officer/department/dm are valid roles.
func ParseForwardTarget(composite string) (ForwardTarget, error) {
	parts := strings.SplitN(composite, ":", 2)
	if len(parts) != 2 {
		return ForwardTarget{}, fmt.Errorf("%w: malformed forward target %q", ErrInvalidTarget, composite)
	}
	role := ActorRole(strings.TrimSpace(parts[0]))
	switch role {
	case RoleOfficer, RoleDepartment, RoleDM:
	default:
		return ForwardTarget{}, fmt.Errorf("%w: role %q cannot receive forwards", ErrInvalidTarget, parts[0])
	}
	id, err := strconv.ParseInt(strings.TrimSpace(parts[1]), 10, 64)
	if err != nil || id <= 0 {
		return ForwardTarget{}, fmt.Errorf("%w: bad target id %q", ErrInvalidTarget, parts[1])
	}
	return ForwardTarget{Role: role, ID: id}, nil
}

// Priority represents visit assignment priority levels
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// ValidPriority reports whether the string is a known priority.
func ValidPriority(p string) bool {
	switch Priority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Account is the minimal role registry row used for actor resolution, forward
// target validation and login. Admin CRUD over accounts is out of scope.
type Account struct {
	AccountID    int64          `db:"account_id" json:"account_id"`
	Role         ActorRole      `db:"role" json:"role"`
	Name         string         `db:"name" json:"name"`
	Email        string         `db:"email" json:"email"`
	PasswordHash string         `db:"password_hash" json:"-"`
	District     sql.NullString `db:"district" json:"district,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// Complaint represents a grievance record.
//
// Two variants share this core, keyed by SourceType: Public rows link a
// registered citizen account (CitizenID); Officer rows carry the citizen's
// free-text identity plus structured location fields and the filing officer.
type Complaint struct {
	ComplaintID int64  `db:"complaint_id" json:"complaint_id"`
	TrackingID  string `db:"tracking_id" json:"tracking_id"`

	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Category    sql.NullString `db:"category" json:"category"`
	Location    sql.NullString `db:"location" json:"location"`

	SourceType SourceType `db:"source_type" json:"source_type"`

	// Public variant
	CitizenID sql.NullInt64 `db:"citizen_id" json:"citizen_id,omitempty"`

	// Officer-filed variant
	CitizenName      sql.NullString `db:"citizen_name" json:"citizen_name,omitempty"`
	CitizenMobile    sql.NullString `db:"citizen_mobile" json:"citizen_mobile,omitempty"`
	CitizenDob       sql.NullString `db:"citizen_dob" json:"citizen_dob,omitempty"`
	FiledByOfficerID sql.NullInt64  `db:"filed_by_officer_id" json:"filed_by_officer_id,omitempty"`
	Village          sql.NullString `db:"village" json:"village,omitempty"`
	Block            sql.NullString `db:"block" json:"block,omitempty"`
	Tehsil           sql.NullString `db:"tehsil" json:"tehsil,omitempty"`
	District         sql.NullString `db:"district" json:"district,omitempty"`
	State            sql.NullString `db:"state" json:"state,omitempty"`
	Pincode          sql.NullString `db:"pincode" json:"pincode,omitempty"`
	Landmark         sql.NullString `db:"landmark" json:"landmark,omitempty"`

	Status         ComplaintStatus `db:"status" json:"status"`
	AttachmentPath sql.NullString  `db:"attachment_path" json:"attachment_path,omitempty"`

	// Version is the optimistic-lock counter; every mutation must carry the
	// version it read or fail with ErrConflict.
	Version int64 `db:"version" json:"-"`

	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt sql.NullTime `db:"updated_at" json:"updated_at"`
}

// ComplaintForward is one routing hop (immutable, append-only).
type ComplaintForward struct {
	ForwardID       int64          `db:"forward_id" json:"forward_id"`
	ComplaintID     int64          `db:"complaint_id" json:"complaint_id"`
	ForwardedByRole ActorRole      `db:"forwarded_by_role" json:"forwarded_by_role"`
	ForwardedByID   int64          `db:"forwarded_by_id" json:"forwarded_by_id"`
	TargetRole      ActorRole      `db:"target_role" json:"target_role"`
	TargetID        int64          `db:"target_id" json:"target_id"`
	Remarks         string         `db:"remarks" json:"remarks"`
	AttachmentPath  sql.NullString `db:"attachment_path" json:"attachment_path,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
}

// ComplaintUpdate is one status-change entry in the audit timeline
// (immutable, append-only).
type ComplaintUpdate struct {
	UpdateID       int64           `db:"update_id" json:"update_id"`
	ComplaintID    int64           `db:"complaint_id" json:"complaint_id"`
	UpdatedByRole  ActorRole       `db:"updated_by_role" json:"updated_by_role"`
	UpdatedByID    int64           `db:"updated_by_id" json:"updated_by_id"`
	Status         ComplaintStatus `db:"status" json:"status"`
	Remarks        string          `db:"remarks" json:"remarks"`
	AttachmentPath sql.NullString  `db:"attachment_path" json:"attachment_path,omitempty"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
