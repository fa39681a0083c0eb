package handler

import (
	"encoding/json"
	"net/http"
	"sjdportal/middleware"
	"sjdportal/models"
	"sjdportal/service"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

const maxMultipartMemory = 10 << 20 // 10 MiB

// ComplaintHandler handles HTTP requests for complaints
type ComplaintHandler struct {
	service     *service.ComplaintService
	attachments *service.AttachmentService
	validate    *validator.Validate
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(svc *service.ComplaintService, attachments *service.AttachmentService) *ComplaintHandler {
	return &ComplaintHandler{
		service:     svc,
		attachments: attachments,
		validate:    validator.New(),
	}
}

// CreateComplaint handles POST /api/v1/complaints
// Accepts JSON, or multipart/form-data when an attachment is present. The
// attachment is stored (or fails) before the complaint row is written.
func (h *ComplaintHandler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	var req models.CreateComplaintRequest
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse multipart body")
			return
		}
		req = models.CreateComplaintRequest{
			Title:         r.FormValue("title"),
			Description:   r.FormValue("description"),
			Category:      formValuePtr(r, "category"),
			Location:      formValuePtr(r, "location"),
			CitizenName:   formValuePtr(r, "citizen_name"),
			CitizenMobile: formValuePtr(r, "citizen_mobile"),
			CitizenDob:    formValuePtr(r, "citizen_dob"),
			Village:       formValuePtr(r, "village"),
			Block:         formValuePtr(r, "block"),
			Tehsil:        formValuePtr(r, "tehsil"),
			District:      formValuePtr(r, "district"),
			State:         formValuePtr(r, "state"),
			Pincode:       formValuePtr(r, "pincode"),
			Landmark:      formValuePtr(r, "landmark"),
		}
		path, stored, err := h.storeUpload(r, "attachment", "complaints")
		if err != nil {
			respondDomainError(w, err)
			return
		}
		if stored {
			req.AttachmentPath = &path
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
			return
		}
	}

	if err := h.validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	response, err := h.service.CreateComplaint(&req, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, response)
}

// MutateComplaint handles PUT /api/v1/complaints/{id}
// A single PUT carries either a status update (status field) or a forward
// (forwardTo field, "<role>:<id>"), with optional remarks and attachment.
func (h *ComplaintHandler) MutateComplaint(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	complaintID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid complaint ID")
		return
	}

	var req models.MutateComplaintRequest
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse multipart body")
			return
		}
		req.Status = formValuePtr(r, "status")
		req.ForwardTo = formValuePtr(r, "forwardTo")
		req.Remarks = r.FormValue("remarks")
		path, stored, err := h.storeUpload(r, "attachment", "complaints")
		if err != nil {
			respondDomainError(w, err)
			return
		}
		if stored {
			req.AttachmentPath = &path
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
			return
		}
	}

	switch {
	case req.ForwardTo != nil && req.Status != nil:
		respondWithError(w, http.StatusBadRequest, "Validation error", "Provide either status or forwardTo, not both")
	case req.ForwardTo != nil:
		target, err := models.ParseForwardTarget(*req.ForwardTo)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		response, err := h.service.Forward(complaintID, actor, target, req.Remarks, req.AttachmentPath)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, response)
	case req.Status != nil:
		if !models.ValidStatus(*req.Status) {
			respondWithError(w, http.StatusBadRequest, "Validation error", "Unknown status value")
			return
		}
		response, err := h.service.UpdateStatus(complaintID, actor, models.ComplaintStatus(*req.Status), req.Remarks, req.AttachmentPath)
		if err != nil {
			respondDomainError(w, err)
			return
		}
		respondWithJSON(w, http.StatusOK, response)
	default:
		respondWithError(w, http.StatusBadRequest, "Validation error", "Either status or forwardTo is required")
	}
}

// TrackComplaint handles GET /api/v1/complaints/track/{trackingId}
// Public, no authentication; exact tracking id match only.
func (h *ComplaintHandler) TrackComplaint(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	trackingID := vars["trackingId"]
	if trackingID == "" {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Tracking ID is required")
		return
	}

	response, err := h.service.Track(trackingID)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}

// ListComplaints handles GET /api/v1/complaints
// Returns the complaints visible to the authenticated actor.
func (h *ComplaintHandler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	complaints, err := h.service.ListComplaints(actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if complaints == nil {
		complaints = []models.Complaint{}
	}

	respondWithJSON(w, http.StatusOK, complaints)
}

// storeUpload stores the named multipart file if present. Returns the stored
// reference and whether a file was actually uploaded.
func (h *ComplaintHandler) storeUpload(r *http.Request, field, bucket string) (string, bool, error) {
	file, _, err := r.FormFile(field)
	if err == http.ErrMissingFile {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	defer file.Close()

	path, err := h.attachments.Store(file, bucket)
	if err != nil {
		return "", false, err
	}
	return path, true, nil
}

// Helper functions

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

func formValuePtr(r *http.Request, field string) *string {
	if v := r.FormValue(field); v != "" {
		return &v
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)[name], 10, 64)
}
