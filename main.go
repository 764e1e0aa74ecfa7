package main

import (
	"log"

	"github.com/gin-gonic/gin"

	"fintrack-backend/config"
	"fintrack-backend/database"
	"fintrack-backend/handlers"
	"fintrack-backend/middleware"
)

func main() {
	// Load configuration
	config.Load()

	// Connect to database
	database.Connect()

	// Connect to Redis (optional, won't crash if unavailable)
	database.ConnectRedis()

	// Setup router
	r := gin.Default()
	r.Use(middleware.CORSMiddleware())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.AppConfig.AppName,
		})
	})

	// ==========================================
	// AUTH ROUTES (public)
	// ==========================================
	auth := r.Group("/auth")
	{
		auth.POST("/register", handlers.Register)
		auth.POST("/login", handlers.Login)
	}

	// ==========================================
	// API ROUTES (authenticated)
	// ==========================================
	api := r.Group("/api")
	api.Use(middleware.AuthRequired())
	{
		// User
		api.GET("/users/me", handlers.GetProfile)
		api.PUT("/users/me", handlers.UpdateProfile)

		// Debts (money lent to others)
		api.POST("/debts", handlers.CreateDebt)
		api.GET("/debts/dashboard", handlers.GetDebtDashboard)
		api.POST("/debts/:id/repayments", handlers.Repay)
		api.POST("/debts/:id/mark-paid", handlers.MarkPaid)
		api.DELETE("/debts/:id", handlers.DeleteDebt)

		// Borrowers
		api.GET("/borrowers", handlers.GetBorrowers)
		api.GET("/borrowers/:id/ledger", handlers.GetLedger)
		api.DELETE("/borrowers/:id", handlers.DeleteBorrower)

		// Loans (money borrowed, tracked via EMI)
		api.POST("/loans", handlers.CreateLoan)
		api.GET("/loans", handlers.GetLoans)
		api.PUT("/loans/:id", handlers.UpdateLoan)
		api.DELETE("/loans/:id", handlers.DeleteLoan)
		api.GET("/loans/:id/schedule", handlers.GetSchedule)
	}

	// Start server
	port := config.AppConfig.Port
	log.Printf("🚀 %s server starting on port %s", config.AppConfig.AppName, port)

	addr := "0.0.0.0:" + port
	if err := r.Run(addr); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
