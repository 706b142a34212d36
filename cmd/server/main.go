package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"orgflow-backend/internal/auth"
	"orgflow-backend/internal/config"
	"orgflow-backend/internal/database"
	"orgflow-backend/internal/db"
	"orgflow-backend/internal/handlers"
	"orgflow-backend/internal/health"
	h "orgflow-backend/internal/http"
	"orgflow-backend/internal/middleware"
	"orgflow-backend/internal/monitoring"
	"orgflow-backend/internal/repositories"
	"orgflow-backend/internal/services"
	"orgflow-backend/internal/session"
	"orgflow-backend/internal/storage"
	"orgflow-backend/internal/ws"
	"orgflow-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis session store (optional - graceful fallback if unavailable)
	if err := session.Init(cfg); err != nil {
		log.Printf("[Redis] Session store unavailable: %v (sessions not revocable before expiry)", err)
	} else {
		log.Println("[Redis] Session store connected")
	}

	// Run database migrations
	// Uses embedded migrations for standalone binary operation
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS, ".")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool)

	// Start monitoring dashboard server in background
	go monitoring.NewMonitoringServer(pool, cfg.Server.MonitoringPort).Start()

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	adminRepo := repositories.NewAdminRepository(pool)
	companyRepo := repositories.NewCompanyRepository(pool)
	branchRepo := repositories.NewBranchRepository(pool)
	employeeRepo := repositories.NewEmployeeRepository(pool)
	taskRepo := repositories.NewTaskRepository(pool)
	reportRepo := repositories.NewReportRepository(pool)
	messageRepo := repositories.NewMessageRepository(pool)

	seedAdmin(adminRepo)

	// Object storage is optional; avatar endpoints report unavailable
	// when it is not configured
	var store *storage.Client
	if cfg.Storage.Bucket != "" && cfg.Storage.AccessKey != "" {
		var err error
		store, err = storage.NewClient(context.Background(), cfg)
		if err != nil {
			log.Printf("[Storage] Object storage unavailable: %v", err)
			store = nil
		} else {
			log.Println("[Storage] Object storage connected")
		}
	}

	// Initialize services
	sessionTTL := time.Duration(cfg.JWT.ExpirationHours) * time.Hour
	authService := services.NewAuthService(adminRepo, companyRepo, employeeRepo, jwtManager, sessionTTL)
	companyService := services.NewCompanyService(companyRepo)
	branchService := services.NewBranchService(branchRepo)
	employeeService := services.NewEmployeeService(employeeRepo, branchRepo)
	taskService := services.NewTaskService(taskRepo, employeeRepo)
	reportService := services.NewReportService(reportRepo)
	messageService := services.NewMessageService(messageRepo)

	// Live message notifications
	messageHub := ws.NewHub()
	messageService.Notify = messageHub.Notify

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, adminRepo, companyRepo, employeeRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	companyHandler := handlers.NewCompanyHandler(companyService)
	branchHandler := handlers.NewBranchHandler(branchService)
	employeeHandler := handlers.NewEmployeeHandler(employeeService)
	taskHandler := handlers.NewTaskHandler(taskService, branchService, employeeService)
	reportHandler := handlers.NewReportHandler(reportService)
	messageHandler := handlers.NewMessageHandler(messageService)
	profileHandler := handlers.NewProfileHandler(companyService, employeeService, adminRepo, store)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		companyHandler,
		branchHandler,
		employeeHandler,
		taskHandler,
		reportHandler,
		messageHandler,
		profileHandler,
		healthHandler,
		messageHub,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// seedAdmin creates the bootstrap admin account from the environment.
// Skipped when ADMIN_PASSWORD is unset; an existing admin is never
// overwritten.
func seedAdmin(repo *repositories.AdminRepository) {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Println("[Admin] ADMIN_PASSWORD not set, skipping admin seed")
		return
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash admin password: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := repo.EnsureExists(ctx, username, "Administrator", hash); err != nil {
		log.Fatalf("Failed to seed admin account: %v", err)
	}
}
