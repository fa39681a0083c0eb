package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sjdportal/middleware"
	"sjdportal/models"
	"sjdportal/service"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// VisitHandler handles HTTP requests for visit assignments and reports
type VisitHandler struct {
	service     *service.VisitService
	attachments *service.AttachmentService
	validate    *validator.Validate
}

// NewVisitHandler creates a new visit handler
func NewVisitHandler(svc *service.VisitService, attachments *service.AttachmentService) *VisitHandler {
	return &VisitHandler{
		service:     svc,
		attachments: attachments,
		validate:    validator.New(),
	}
}

// CreateAssignment handles POST /api/v1/visits (DM only)
func (h *VisitHandler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	var req models.CreateVisitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error", err.Error())
		return
	}

	assignment, err := h.service.CreateAssignment(&req, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, assignment)
}

// ListAssignments handles GET /api/v1/visits
// A DM sees the assignments it created, an officer the ones assigned to it.
func (h *VisitHandler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	assignments, err := h.service.ListAssignments(actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}
	if assignments == nil {
		assignments = []models.VisitAssignment{}
	}

	respondWithJSON(w, http.StatusOK, assignments)
}

// GetAssignment handles GET /api/v1/visits/{id}
func (h *VisitHandler) GetAssignment(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	assignmentID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid assignment ID")
		return
	}

	assignment, err := h.service.GetAssignment(assignmentID, actor)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, assignment)
}

// SubmitReport handles PUT /api/v1/visits/{id}/report
// Multipart: visitDate, summary, proofFile plus the six numeric stat fields.
// The proof file is stored before the report row is written.
func (h *VisitHandler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	assignmentID, err := pathID(r, "id")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Invalid assignment ID")
		return
	}

	var req models.SubmitVisitReportRequest
	if isMultipart(r) {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse multipart body")
			return
		}
		req.ActualVisitDate = r.FormValue("visitDate")
		req.Remarks = r.FormValue("summary")
		stats, err := parseStatsForm(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Validation error", err.Error())
			return
		}
		req.Stats = stats

		file, _, ferr := r.FormFile("proofFile")
		if ferr == nil {
			defer file.Close()
			path, serr := h.attachments.Store(file, "visits")
			if serr != nil {
				respondDomainError(w, serr)
				return
			}
			req.ProofPath = &path
		} else if ferr != http.ErrMissingFile {
			respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to read proof file")
			return
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

	report, err := h.service.SubmitReport(assignmentID, actor, &req)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, report)
}

// GetStats handles GET /api/v1/visits/stats?date=YYYY-MM-DD[&officerId=N]
// Officers get their own breakdown; a DM may pass officerId, or omit it for
// the district-wide view.
func (h *VisitHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	actor, err := middleware.GetActor(r)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Unauthorized", err.Error())
		return
	}

	dateStr := r.URL.Query().Get("date")
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Validation error", "date must be YYYY-MM-DD")
		return
	}

	var officerID *int64
	switch actor.Role {
	case models.RoleOfficer:
		officerID = &actor.ID
	case models.RoleDM, models.RoleSuperadmin:
		if q := r.URL.Query().Get("officerId"); q != "" {
			id, err := strconv.ParseInt(q, 10, 64)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "Validation error", "Invalid officerId")
				return
			}
			officerID = &id
		}
	default:
		respondWithError(w, http.StatusForbidden, "Forbidden", "Role cannot query visit statistics")
		return
	}

	stats, err := h.service.StatsForOfficerDate(officerID, date)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, stats)
}

// parseStatsForm reads the six numeric stat fields from a multipart form.
func parseStatsForm(r *http.Request) (models.VisitStats, error) {
	var stats models.VisitStats
	fields := []struct {
		name string
		dst  *int
	}{
		{"complaintsFound", &stats.Total},
		{"complaintsSolved", &stats.Solved},
		{"complaintsPending", &stats.Pending},
		{"complaintsForwarded", &stats.Forwarded},
		{"complaintsRejected", &stats.Rejected},
		{"complaintsInProgress", &stats.InProgress},
	}
	for _, f := range fields {
		v := r.FormValue(f.name)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return stats, fmt.Errorf("field %s must be a non-negative integer", f.name)
		}
		*f.dst = n
	}
	return stats, nil
}
