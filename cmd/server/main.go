package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"fintrack-backend/internal/auth"
	"fintrack-backend/internal/cache"
	"fintrack-backend/internal/config"
	"fintrack-backend/internal/database"
	"fintrack-backend/internal/db"
	"fintrack-backend/internal/handlers"
	"fintrack-backend/internal/health"
	h "fintrack-backend/internal/http"
	"fintrack-backend/internal/middleware"
	"fintrack-backend/internal/repositories"
	"fintrack-backend/internal/services"
	"fintrack-backend/internal/storage"
	"fintrack-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Verbose 500 bodies outside production
	handlers.SetErrorDetail(!cfg.IsProduction())

	// Connect to the database
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (login will use bcrypt only)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations from the embedded filesystem
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS, ".")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Receipt object storage (optional - uploads disabled without credentials)
	receiptStore, err := storage.NewReceiptStore(cfg)
	if err != nil {
		log.Printf("[Storage] Receipt storage disabled: %v", err)
		receiptStore = nil
	} else {
		log.Println("[Storage] Receipt storage configured")
	}

	// Initialize health checker and JWT manager
	healthChecker := health.NewHealthChecker(pool)
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	clientRepo := repositories.NewClientRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	expenseRepo := repositories.NewExpenseRepository(pool)

	// Initialize services
	userService := services.NewUserService(userRepo, jwtManager)
	clientService := services.NewClientService(clientRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, clientRepo)
	expenseService := services.NewExpenseService(expenseRepo, receiptStore)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	clientHandler := handlers.NewClientHandler(clientService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService)
	expenseHandler := handlers.NewExpenseHandler(expenseService)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	router := h.NewRouter(
		authHandler,
		userHandler,
		clientHandler,
		invoiceHandler,
		expenseHandler,
		healthHandler,
		authMiddleware,
	)

	// Wrap with panic recovery and metrics middleware
	handler := middleware.PanicRecovery(middleware.MetricsMiddleware(corsMiddleware(router)))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s (env: %s)", addr, cfg.Server.Env)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
