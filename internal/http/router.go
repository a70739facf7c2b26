package http

import (
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fintrack-backend/internal/handlers"
	"fintrack-backend/internal/middleware"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	clientHandler *handlers.ClientHandler,
	invoiceHandler *handlers.InvoiceHandler,
	expenseHandler *handlers.ExpenseHandler,
	healthHandler *handlers.HealthHandler,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public API routes - Authentication
	r.HandleFunc("/api/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/api/auth/login", authHandler.Login).Methods("POST")

	// Protected API routes - Account
	authAPI := r.PathPrefix("/api/auth").Subrouter()
	authAPI.Use(authMiddleware.Authenticate)
	authAPI.HandleFunc("/me", authHandler.Me).Methods("GET")
	authAPI.HandleFunc("/updateprofile", userHandler.UpdateProfile).Methods("PUT")
	authAPI.HandleFunc("/changepassword", userHandler.ChangePassword).Methods("PUT")
	authAPI.HandleFunc("/updatesalary", userHandler.UpdateSalary).Methods("PUT")

	// Protected API routes - User settings
	userAPI := r.PathPrefix("/api/user").Subrouter()
	userAPI.Use(authMiddleware.Authenticate)
	userAPI.HandleFunc("/settings", userHandler.GetSettings).Methods("GET")
	userAPI.HandleFunc("/settings", userHandler.UpdateSettings).Methods("PUT")

	// Protected API routes - Clients
	// Literal paths are registered before /{id} so "stats" never parses as an id
	clientsAPI := r.PathPrefix("/api/clients").Subrouter()
	clientsAPI.Use(authMiddleware.Authenticate)
	clientsAPI.HandleFunc("", clientHandler.Create).Methods("POST")
	clientsAPI.HandleFunc("", clientHandler.List).Methods("GET")
	clientsAPI.HandleFunc("/stats", clientHandler.Stats).Methods("GET")
	clientsAPI.HandleFunc("/{id}", clientHandler.Get).Methods("GET")
	clientsAPI.HandleFunc("/{id}", clientHandler.Update).Methods("PUT")
	clientsAPI.HandleFunc("/{id}", clientHandler.Delete).Methods("DELETE")

	// Protected API routes - Invoices
	invoicesAPI := r.PathPrefix("/api/invoices").Subrouter()
	invoicesAPI.Use(authMiddleware.Authenticate)
	invoicesAPI.HandleFunc("", invoiceHandler.Create).Methods("POST")
	invoicesAPI.HandleFunc("", invoiceHandler.List).Methods("GET")
	invoicesAPI.HandleFunc("/stats", invoiceHandler.Stats).Methods("GET")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.Get).Methods("GET")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.Update).Methods("PUT")
	invoicesAPI.HandleFunc("/{id}", invoiceHandler.Delete).Methods("DELETE")
	invoicesAPI.HandleFunc("/{id}/status", invoiceHandler.UpdateStatus).Methods("PATCH")

	// Protected API routes - Expenses
	expensesAPI := r.PathPrefix("/api/expenses").Subrouter()
	expensesAPI.Use(authMiddleware.Authenticate)
	expensesAPI.HandleFunc("", expenseHandler.Create).Methods("POST")
	expensesAPI.HandleFunc("", expenseHandler.List).Methods("GET")
	expensesAPI.HandleFunc("/stats", expenseHandler.Stats).Methods("GET")
	expensesAPI.HandleFunc("/categories", expenseHandler.Categories).Methods("GET")
	expensesAPI.HandleFunc("/{id}", expenseHandler.Get).Methods("GET")
	expensesAPI.HandleFunc("/{id}", expenseHandler.Update).Methods("PUT")
	expensesAPI.HandleFunc("/{id}", expenseHandler.Delete).Methods("DELETE")
	expensesAPI.HandleFunc("/{id}/receipt", expenseHandler.UploadReceipt).Methods("POST")
	expensesAPI.HandleFunc("/{id}/receipt", expenseHandler.GetReceipt).Methods("GET")

	// Health and metrics
	r.HandleFunc("/health", healthHandler.BasicHealth).Methods("GET")
	r.HandleFunc("/health/ready", healthHandler.ReadinessHealth).Methods("GET")
	r.HandleFunc("/health/detailed", healthHandler.DetailedHealth).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	return r
}
