package models

import "time"

// ErrorResponse is the uniform error body returned by all handlers.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// CreateComplaintRequest is the complaint creation payload. When an officer
// files on a citizen's behalf the citizen identity and structured location
// fields are required; citizen self-filing ignores them.
type CreateComplaintRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description string  `json:"description" validate:"required"`
	Category    *string `json:"category,omitempty"`
	Location    *string `json:"location,omitempty"`

	// Officer on-behalf fields
	CitizenName   *string `json:"citizen_name,omitempty"`
	CitizenMobile *string `json:"citizen_mobile,omitempty" validate:"omitempty,len=10,numeric"`
	CitizenDob    *string `json:"citizen_dob,omitempty"`
	Village       *string `json:"village,omitempty"`
	Block         *string `json:"block,omitempty"`
	Tehsil        *string `json:"tehsil,omitempty"`
	District      *string `json:"district,omitempty"`
	State         *string `json:"state,omitempty"`
	Pincode       *string `json:"pincode,omitempty" validate:"omitempty,len=6,numeric"`
	Landmark      *string `json:"landmark,omitempty"`

	// AttachmentPath is set internally after the upload is stored, never
	// taken from the client body.
	AttachmentPath *string `json:"-"`
}

// CreateComplaintResponse echoes the identifiers the frontend needs, most
// importantly the generated tracking id.
type CreateComplaintResponse struct {
	ComplaintID int64  `json:"complaint_id"`
	TrackingID  string `json:"trackingId"`
	Status      string `json:"status"`
	Message     string `json:"message"`
}

// MutateComplaintRequest is the PUT body for a complaint: either a status
// update (Status set) or a forward (ForwardTo set), never both.
type MutateComplaintRequest struct {
	Status    *string `json:"status,omitempty"`
	ForwardTo *string `json:"forwardTo,omitempty"` // "<role>:<id>" composite
	Remarks   string  `json:"remarks"`

	AttachmentPath *string `json:"-"`
}

// MutateComplaintResponse reports the complaint state after a mutation.
type MutateComplaintResponse struct {
	ComplaintID int64  `json:"complaint_id"`
	TrackingID  string `json:"trackingId"`
	OldStatus   string `json:"old_status"`
	NewStatus   string `json:"new_status"`
	Message     string `json:"message"`
}

// TimelineEntry is one merged timeline event (forward or status update),
// rendered strictly in append order.
type TimelineEntry struct {
	Kind           string    `json:"kind"` // "update" | "forward"
	ByRole         string    `json:"by_role"`
	ByID           int64     `json:"by_id"`
	Status         *string   `json:"status,omitempty"`
	TargetRole     *string   `json:"target_role,omitempty"`
	TargetID       *int64    `json:"target_id,omitempty"`
	Remarks        string    `json:"remarks"`
	AttachmentPath *string   `json:"attachment_path,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// TrackComplaintResponse is the public tracking view: the complaint with
// display names populated and the full timeline.
type TrackComplaintResponse struct {
	Complaint   *Complaint      `json:"complaint"`
	CitizenName string          `json:"citizen_name,omitempty"`
	FiledByName string          `json:"filed_by_name,omitempty"`
	Timeline    []TimelineEntry `json:"timeline"`
}

// CreateVisitRequest is the DM's visit assignment payload.
type CreateVisitRequest struct {
	OfficerID int64         `json:"officer" validate:"required,gt=0"`
	Location  VisitLocation `json:"location" validate:"required"`
	Priority  string        `json:"priority" validate:"required"`
	VisitDate string        `json:"visitDate" validate:"required,datetime=2006-01-02"`
	Notes     string        `json:"notes"`
}

// VisitLocation mirrors the frontend's location object.
type VisitLocation struct {
	District      string `json:"district" validate:"required"`
	GramPanchayat string `json:"gramPanchayat" validate:"required"`
	Village       string `json:"village" validate:"required"`
}

// SubmitVisitReportRequest is the officer's report payload (multipart fields).
type SubmitVisitReportRequest struct {
	ActualVisitDate string     `json:"visitDate" validate:"required,datetime=2006-01-02"`
	Remarks         string     `json:"summary"`
	Stats           VisitStats `json:"stats"`

	ProofPath *string `json:"-"`
}

// LoginRequest is the ambient token-issue payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token and the account's role.
type LoginResponse struct {
	Token string `json:"token"`
	Role  string `json:"role"`
	ID    int64  `json:"id"`
	Name  string `json:"name"`
}
