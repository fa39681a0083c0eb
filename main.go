package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"sjdportal/config"
	"sjdportal/repository"
	"sjdportal/routes"
	"sjdportal/schema"
	"sjdportal/service"
	"sjdportal/worker"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	cfg := config.LoadConfig()

	// Initialize database connection (UTC so DATE() grouping is consistent)
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("Failed to open database connection: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}
	log.Println("Database connection established")

	// Ensure tables exist and seed the superadmin + tracking counter
	schema.InitializeDatabase(db)
	schema.SeedSuperadmin(db, cfg.Auth.SeedAdminEmail, cfg.Auth.SeedAdminPass)

	// Initialize repositories
	complaintRepo := repository.NewComplaintRepository(db)
	accountRepo := repository.NewAccountRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)
	visitRepo := repository.NewVisitRepository(db)

	// Initialize services
	allocator := service.NewTrackingAllocator(sequenceRepo)
	attachmentService := service.NewAttachmentService(cfg.Uploads.BasePath, cfg.Uploads.MaxBytes)
	complaintService := service.NewComplaintService(complaintRepo, accountRepo, allocator)
	visitService := service.NewVisitService(visitRepo, complaintRepo, accountRepo)
	authService := service.NewAuthService(accountRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenHours)

	// Orphan upload cleanup
	if cfg.Uploads.JanitorIntervalMins > 0 {
		janitor := worker.NewUploadJanitor(
			visitRepo,
			cfg.Uploads.BasePath,
			time.Duration(cfg.Uploads.JanitorIntervalMins)*time.Minute,
			time.Duration(cfg.Uploads.JanitorGraceMins)*time.Minute,
		)
		janitor.Start()
	}

	// Setup routes
	router := routes.SetupRoutes(
		complaintService,
		visitService,
		authService,
		attachmentService,
		cfg.Auth.JWTSecret,
		cfg.Uploads.BasePath,
	)

	// CORS for the browser frontend
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}

	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, corsHandler(router)))
}
