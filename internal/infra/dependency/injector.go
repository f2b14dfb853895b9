// Package dependency provides dependency injection for the application.
package dependency

import (
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/building-ledger/backend/config"
	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/application/usecase/expense"
	"github.com/building-ledger/backend/internal/application/usecase/fee"
	"github.com/building-ledger/backend/internal/application/usecase/payment"
	"github.com/building-ledger/backend/internal/application/usecase/receipt"
	"github.com/building-ledger/backend/internal/application/usecase/report"
	"github.com/building-ledger/backend/internal/application/usecase/settlement"
	"github.com/building-ledger/backend/internal/infra/scheduler"
	"github.com/building-ledger/backend/internal/infra/server/router"
	"github.com/building-ledger/backend/internal/integration/adapters"
	"github.com/building-ledger/backend/internal/integration/cache"
	"github.com/building-ledger/backend/internal/integration/email"
	"github.com/building-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/building-ledger/backend/internal/integration/entrypoint/middleware"
	"github.com/building-ledger/backend/internal/integration/gateway"
	"github.com/building-ledger/backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config       *config.Config
	DB           *gorm.DB
	Router       *router.Router
	FeeScheduler *scheduler.FeeScheduler
}

// NewInjector creates a new dependency injector with all dependencies wired.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Injector, error) {
	// Create repositories
	transactionRepo := persistence.NewTransactionRepository(db)
	unitRepo := persistence.NewUnitRepository(db)
	buildingRepo := persistence.NewBuildingRepository(db)
	expenseRepo := persistence.NewExpenseRepository(db)

	// Create adapters/services
	eventCache := cache.NewRedisEventCache(redisClient)
	tokenVerifier := adapters.NewTokenVerifier(cfg.JWT.Secret)
	stripeGateway := gateway.NewStripeGateway(
		cfg.Payment.StripeSecretKey,
		cfg.Payment.StripeWebhookSecret,
		cfg.Payment.Currency,
	)

	fileStore, err := adapters.NewLocalFileStore(cfg.Storage.ReceiptDir)
	if err != nil {
		return nil, err
	}

	var notifier adapter.ReceiptNotifier
	if cfg.Email.Enabled {
		notifier = email.NewResendNotifier(cfg.Email.ResendAPIKey, cfg.Email.FromName, cfg.Email.FromEmail)
	} else {
		slog.Info("Email notifications disabled")
	}
	receiptService := receipt.NewService(adapters.NewHTMLReceiptRenderer(), fileStore, transactionRepo, notifier)

	// Create payment use cases
	recordGatewayDeposit := payment.NewRecordGatewayDepositUseCase(transactionRepo, unitRepo, expenseRepo, eventCache, receiptService)
	recordCashDeposit := payment.NewRecordCashDepositUseCase(transactionRepo, unitRepo, receiptService)
	submitBankTransfer := payment.NewSubmitBankTransferUseCase(transactionRepo, unitRepo)
	initiateDeposit := payment.NewInitiateGatewayDepositUseCase(unitRepo, stripeGateway)
	approveTransaction := payment.NewApproveTransactionUseCase(transactionRepo, receiptService)
	rejectTransaction := payment.NewRejectTransactionUseCase(transactionRepo)

	// Create fee use cases
	generateFees := fee.NewGenerateMonthlyFeesUseCase(transactionRepo, unitRepo, buildingRepo)
	runFeeBatch := fee.NewRunFeeBatchUseCase(buildingRepo, generateFees, cfg.Fees.WorkerCount)

	// Create report use cases
	getUnitBalance := report.NewGetUnitBalanceUseCase(transactionRepo, unitRepo)
	getHistory := report.NewGetTransactionHistoryUseCase(transactionRepo, unitRepo)
	listTransactions := report.NewListBuildingTransactionsUseCase(transactionRepo, buildingRepo)
	getSummary := report.NewGetFinancialSummaryUseCase(transactionRepo, expenseRepo, buildingRepo)

	// Create settlement use cases
	clearUnitBalance := settlement.NewClearUnitBalanceUseCase(transactionRepo, unitRepo, receiptService)
	createSystemNote := settlement.NewCreateSystemNoteUseCase(transactionRepo, unitRepo)

	// Create expense use cases
	createExpense := expense.NewCreateExpenseUseCase(expenseRepo, buildingRepo)
	listExpenses := expense.NewListExpensesUseCase(expenseRepo, buildingRepo)

	// Create controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})

	financeController := controller.NewFinanceController(
		recordCashDeposit,
		submitBankTransfer,
		initiateDeposit,
		approveTransaction,
		rejectTransaction,
		generateFees,
		getUnitBalance,
		getHistory,
		listTransactions,
		getSummary,
		clearUnitBalance,
		createSystemNote,
		createExpense,
		listExpenses,
	)

	webhookController := controller.NewWebhookController(stripeGateway, recordGatewayDeposit)

	// Create middleware
	// Use higher rate limits for test environments to prevent flaky tests
	var intakeRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "test" {
		intakeRateLimiter = middleware.NewRateLimiterWithConfig(1000, 1*time.Minute)
	} else {
		intakeRateLimiter = middleware.NewRateLimiter()
	}
	authMiddleware := middleware.NewAuthMiddleware(tokenVerifier)

	// Create router
	r := router.NewRouter(healthController, financeController, webhookController, intakeRateLimiter, authMiddleware)

	var feeScheduler *scheduler.FeeScheduler
	if cfg.Fees.SchedulerEnabled {
		feeScheduler = scheduler.NewFeeScheduler(runFeeBatch, cfg.Fees.CheckInterval)
	}

	return &Injector{
		Config:       cfg,
		DB:           db,
		Router:       r,
		FeeScheduler: feeScheduler,
	}, nil
}
