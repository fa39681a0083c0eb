package routes

import (
	"net/http"
	"sjdportal/handler"
	"sjdportal/middleware"
	"sjdportal/models"
	"sjdportal/service"

	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	complaintService *service.ComplaintService,
	visitService *service.VisitService,
	authService *service.AuthService,
	attachmentService *service.AttachmentService,
	jwtSecret string,
	uploadBasePath string,
) *mux.Router {
	router := mux.NewRouter()

	complaintHandler := handler.NewComplaintHandler(complaintService, attachmentService)
	visitHandler := handler.NewVisitHandler(visitService, attachmentService)
	authHandler := handler.NewAuthHandler(authService)

	authMiddleware := middleware.NewAuthMiddleware(jwtSecret)
	actorRoles := authMiddleware.RequireRoles(
		models.RoleOfficer, models.RoleDepartment, models.RoleDM, models.RoleSuperadmin,
	)
	filerRoles := authMiddleware.RequireRoles(
		models.RoleCitizen, models.RoleOfficer,
	)
	visitRoles := authMiddleware.RequireRoles(
		models.RoleOfficer, models.RoleDM, models.RoleSuperadmin,
	)

	apiV1 := router.PathPrefix("/api/v1").Subrouter()

	// Auth
	apiV1.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Complaints
	complaints := apiV1.PathPrefix("/complaints").Subrouter()

	// GET /api/v1/complaints/track/{trackingId} - public status lookup, no auth, exact match
	complaints.HandleFunc("/track/{trackingId:.*}", complaintHandler.TrackComplaint).Methods("GET")

	// POST /api/v1/complaints - citizen self-filing or officer on-behalf filing
	complaints.Handle("", filerRoles(http.HandlerFunc(complaintHandler.CreateComplaint))).Methods("POST")

	// GET /api/v1/complaints - complaints visible to the actor
	complaints.Handle("", authMiddleware.RequireAuth(http.HandlerFunc(complaintHandler.ListComplaints))).Methods("GET")

	// PUT /api/v1/complaints/{id} - status update or forward (handling actors only)
	complaints.Handle("/{id:[0-9]+}", actorRoles(http.HandlerFunc(complaintHandler.MutateComplaint))).Methods("PUT")

	// Visits
	visits := apiV1.PathPrefix("/visits").Subrouter()

	// GET /api/v1/visits/stats?date=YYYY-MM-DD[&officerId=N] - live per-date complaint breakdown
	visits.Handle("/stats", visitRoles(http.HandlerFunc(visitHandler.GetStats))).Methods("GET")

	// POST /api/v1/visits - DM assigns a field visit to an officer
	visits.Handle("", visitRoles(http.HandlerFunc(visitHandler.CreateAssignment))).Methods("POST")

	// GET /api/v1/visits - assignments created by (DM) or given to (officer) the actor
	visits.Handle("", visitRoles(http.HandlerFunc(visitHandler.ListAssignments))).Methods("GET")

	// GET /api/v1/visits/{id} - one assignment with its report
	visits.Handle("/{id:[0-9]+}", visitRoles(http.HandlerFunc(visitHandler.GetAssignment))).Methods("GET")

	// PUT /api/v1/visits/{id}/report - assigned officer submits/overwrites the visit report
	visits.Handle("/{id:[0-9]+}/report", visitRoles(http.HandlerFunc(visitHandler.SubmitReport))).Methods("PUT")

	// Stored attachments are served back under the shared uploads namespace.
	router.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadBasePath))),
	).Methods("GET")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
