package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orgflow-backend/internal/handlers"
	"orgflow-backend/internal/middleware"
	"orgflow-backend/internal/models"
	"orgflow-backend/internal/ws"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	companyHandler *handlers.CompanyHandler,
	branchHandler *handlers.BranchHandler,
	employeeHandler *handlers.EmployeeHandler,
	taskHandler *handlers.TaskHandler,
	reportHandler *handlers.ReportHandler,
	messageHandler *handlers.MessageHandler,
	profileHandler *handlers.ProfileHandler,
	healthHandler *handlers.HealthHandler,
	messageHub *ws.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	employeeRoles := []string{models.RoleManager, models.RoleAsstManager, models.RoleEmployee}
	managerRoles := []string{models.RoleManager, models.RoleAsstManager}

	// Public API routes - Authentication
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	authAPI.HandleFunc("/me", authHandler.Me).Methods("GET")

	// Protected API routes - Companies (admin only)
	companiesAPI := r.PathPrefix("/api/companies").Subrouter()
	companiesAPI.Use(authMiddleware.RequireRole(models.RoleAdmin))
	companiesAPI.HandleFunc("", companyHandler.ListCompanies).Methods("GET")
	companiesAPI.HandleFunc("", companyHandler.CreateCompany).Methods("POST")
	companiesAPI.HandleFunc("/{id}", companyHandler.GetCompany).Methods("GET")
	companiesAPI.HandleFunc("/{id}/toggle-active", companyHandler.ToggleStatus).Methods("PATCH")

	// Protected API routes - Branches (company only)
	branchesAPI := r.PathPrefix("/api/branches").Subrouter()
	branchesAPI.Use(authMiddleware.RequireRole(models.RoleCompany))
	branchesAPI.HandleFunc("", branchHandler.ListBranches).Methods("GET")
	branchesAPI.HandleFunc("", branchHandler.CreateBranch).Methods("POST")
	branchesAPI.HandleFunc("/{id}", branchHandler.GetBranch).Methods("GET")
	branchesAPI.HandleFunc("/{id}/toggle-active", branchHandler.ToggleStatus).Methods("PATCH")

	// Protected API routes - Employees (company manages, managers view)
	employeesAPI := r.PathPrefix("/api/employees").Subrouter()
	employeesAPI.Use(authMiddleware.Authenticate)
	employeesAPI.HandleFunc("", authMiddleware.RequireRole(models.RoleCompany, models.RoleManager, models.RoleAsstManager)(http.HandlerFunc(employeeHandler.ListEmployees)).ServeHTTP).Methods("GET")
	employeesAPI.HandleFunc("", authMiddleware.RequireRole(models.RoleCompany)(http.HandlerFunc(employeeHandler.CreateEmployee)).ServeHTTP).Methods("POST")
	employeesAPI.HandleFunc("/{id}", authMiddleware.RequireRole(models.RoleCompany)(http.HandlerFunc(employeeHandler.GetEmployee)).ServeHTTP).Methods("GET")
	employeesAPI.HandleFunc("/{id}/toggle-active", authMiddleware.RequireRole(models.RoleCompany)(http.HandlerFunc(employeeHandler.ToggleStatus)).ServeHTTP).Methods("PATCH")
	employeesAPI.HandleFunc("/{id}/role", authMiddleware.RequireRole(models.RoleCompany)(http.HandlerFunc(employeeHandler.UpdateRole)).ServeHTTP).Methods("PATCH")

	// Protected API routes - Tasks
	tasksAPI := r.PathPrefix("/api/tasks").Subrouter()
	tasksAPI.Use(authMiddleware.Authenticate)
	tasksAPI.HandleFunc("", taskHandler.ListTasks).Methods("GET")
	tasksAPI.HandleFunc("", authMiddleware.RequireRole(models.RoleCompany, models.RoleManager, models.RoleAsstManager)(http.HandlerFunc(taskHandler.CreateTask)).ServeHTTP).Methods("POST")
	tasksAPI.HandleFunc("/{id}", taskHandler.GetTask).Methods("GET")
	tasksAPI.HandleFunc("/{id}/complete", authMiddleware.RequireRole(employeeRoles...)(http.HandlerFunc(taskHandler.CompleteTask)).ServeHTTP).Methods("POST")
	tasksAPI.HandleFunc("/{id}/complete-branch", authMiddleware.RequireRole(managerRoles...)(http.HandlerFunc(taskHandler.ManagerCompleteTask)).ServeHTTP).Methods("POST")
	tasksAPI.HandleFunc("/{id}/status", authMiddleware.RequireRole(employeeRoles...)(http.HandlerFunc(taskHandler.CompletionStatus)).ServeHTTP).Methods("GET")

	// Protected API routes - Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("", reportHandler.ListReports).Methods("GET")
	reportsAPI.HandleFunc("", authMiddleware.RequireRole(employeeRoles...)(http.HandlerFunc(reportHandler.SubmitReport)).ServeHTTP).Methods("POST")
	reportsAPI.HandleFunc("/export", authMiddleware.RequireRole(models.RoleCompany, models.RoleManager, models.RoleAsstManager)(http.HandlerFunc(reportHandler.ExportPDF)).ServeHTTP).Methods("GET")

	// WebSocket for live message notifications. Registered before the
	// messages subrouter so /{id} does not capture the path.
	r.HandleFunc("/api/messages/ws", messageHub.HandleWS)

	// Protected API routes - Messages
	messagesAPI := r.PathPrefix("/api/messages").Subrouter()
	messagesAPI.Use(authMiddleware.Authenticate)
	messagesAPI.HandleFunc("", messageHandler.SendMessage).Methods("POST")
	messagesAPI.HandleFunc("/inbox", messageHandler.Inbox).Methods("GET")
	messagesAPI.HandleFunc("/sent", messageHandler.Sent).Methods("GET")
	messagesAPI.HandleFunc("/{id}", messageHandler.GetMessage).Methods("GET")
	messagesAPI.HandleFunc("/{id}", messageHandler.DeleteMessage).Methods("DELETE")

	// Protected API routes - Own profile
	profileAPI := r.PathPrefix("/api/profile").Subrouter()
	profileAPI.Use(authMiddleware.Authenticate)
	profileAPI.HandleFunc("", profileHandler.GetProfile).Methods("GET")
	profileAPI.HandleFunc("", profileHandler.UpdateProfile).Methods("PUT")
	profileAPI.HandleFunc("/password", profileHandler.ChangePassword).Methods("PUT")
	profileAPI.HandleFunc("/avatar", profileHandler.UploadAvatar).Methods("POST")
	profileAPI.HandleFunc("/avatar", profileHandler.AvatarURL).Methods("GET")

	// Health endpoints (no auth required - for Kubernetes probes)
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")

	// Metrics endpoint (Prometheus format)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
