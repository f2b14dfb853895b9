// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/building-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/building-ledger/backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine            *gin.Engine
	healthController  *controller.HealthController
	financeController *controller.FinanceController
	webhookController *controller.WebhookController
	intakeRateLimiter *middleware.RateLimiter
	authMiddleware    *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	financeController *controller.FinanceController,
	webhookController *controller.WebhookController,
	intakeRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:  healthController,
		financeController: financeController,
		webhookController: webhookController,
		intakeRateLimiter: intakeRateLimiter,
		authMiddleware:    authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	// Set Gin mode based on environment
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	// Create router with default middleware (logger and recovery)
	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		// Gateway webhook. Authenticated by signature, not bearer token.
		if r.webhookController != nil {
			v1.POST("/webhooks/stripe", r.webhookController.HandleStripeEvent)
		}

		if r.financeController == nil || r.authMiddleware == nil {
			return
		}

		// Unit routes
		units := v1.Group("/units")
		units.Use(r.authMiddleware.Authenticate())
		{
			units.GET("/:id/balance", r.financeController.GetUnitBalance)
			units.GET("/:id/transactions", r.financeController.GetTransactionHistory)

			if r.intakeRateLimiter != nil {
				units.POST("/:id/payments/deposit", r.intakeRateLimiter.Middleware(), r.financeController.InitiateDeposit)
				units.POST("/:id/payments/bank-transfer", r.intakeRateLimiter.Middleware(), r.financeController.SubmitBankTransfer)
			} else {
				units.POST("/:id/payments/deposit", r.financeController.InitiateDeposit)
				units.POST("/:id/payments/bank-transfer", r.financeController.SubmitBankTransfer)
			}

			// Manager-only unit operations
			managed := units.Group("")
			managed.Use(r.authMiddleware.RequireManager())
			{
				managed.POST("/:id/payments/cash", r.financeController.RecordCashDeposit)
				managed.POST("/:id/settlement", r.financeController.ClearUnitBalance)
				managed.POST("/:id/notes", r.financeController.CreateSystemNote)
			}
		}

		// Transaction approval routes (manager only)
		transactions := v1.Group("/transactions")
		transactions.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireManager())
		{
			transactions.POST("/:id/approve", r.financeController.ApproveTransaction)
			transactions.POST("/:id/reject", r.financeController.RejectTransaction)
		}

		// Building routes (manager only)
		buildings := v1.Group("/buildings")
		buildings.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireManager())
		{
			buildings.GET("/:id/summary", r.financeController.GetFinancialSummary)
			buildings.GET("/:id/transactions", r.financeController.ListBuildingTransactions)
			buildings.POST("/:id/fees", r.financeController.GenerateFees)
			buildings.POST("/:id/expenses", r.financeController.CreateExpense)
			buildings.GET("/:id/expenses", r.financeController.ListExpenses)
		}
	}
}
