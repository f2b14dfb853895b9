// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/building-ledger/backend/internal/application/usecase/expense"
	"github.com/building-ledger/backend/internal/application/usecase/fee"
	"github.com/building-ledger/backend/internal/application/usecase/payment"
	"github.com/building-ledger/backend/internal/application/usecase/receipt"
	"github.com/building-ledger/backend/internal/application/usecase/report"
	"github.com/building-ledger/backend/internal/application/usecase/settlement"
	"github.com/building-ledger/backend/internal/domain/entity"
	"github.com/building-ledger/backend/internal/infra/server/router"
	"github.com/building-ledger/backend/internal/integration/adapters"
	"github.com/building-ledger/backend/internal/integration/cache"
	"github.com/building-ledger/backend/internal/integration/entrypoint/controller"
	"github.com/building-ledger/backend/internal/integration/entrypoint/middleware"
	"github.com/building-ledger/backend/internal/integration/gateway"
	"github.com/building-ledger/backend/internal/integration/persistence"
	"github.com/building-ledger/backend/internal/integration/persistence/model"
	"github.com/building-ledger/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

var serverOnce sync.Once
var testServer *httptest.Server
var testDB *mock.Db
var testRedis *redis.Client

// stubGateway satisfies the payment gateway port without network calls.
type stubGateway struct{}

func (stubGateway) CreateDepositIntent(context.Context, uuid.UUID, decimal.Decimal) (string, error) {
	return "cs_test_secret", nil
}

type testContext struct {
	client  *http.Client
	headers map[string]string
	db      *mock.Db

	response     *http.Response
	responseBody any

	accessToken       string
	currentBuildingID uuid.UUID
	currentUnitID     uuid.UUID
	currentOccupantID uuid.UUID
	lastTransactionID uuid.UUID
}

func startServer() {
	serverOnce.Do(func() {
		gin.SetMode(gin.TestMode)
		_ = os.Setenv("ENV", "test")

		testDB = mock.NewDb(map[string]any{
			"buildings":          &model.BuildingModel{},
			"units":              &model.UnitModel{},
			"transactions":       &model.TransactionModel{},
			"transaction_splits": &model.TransactionSplitModel{},
			"building_expenses":  &model.BuildingExpenseModel{},
			"fee_runs":           &model.FeeRunModel{},
		})

		transactionRepo := persistence.NewTransactionRepository(testDB.DbConn)
		unitRepo := persistence.NewUnitRepository(testDB.DbConn)
		buildingRepo := persistence.NewBuildingRepository(testDB.DbConn)
		expenseRepo := persistence.NewExpenseRepository(testDB.DbConn)

		testRedis = mock.NewRedis()
		eventCache := cache.NewRedisEventCache(testRedis)
		tokenVerifier := adapters.NewTokenVerifier(testJWTSecret)
		stripeGateway := gateway.NewStripeGateway("sk_test_123", "whsec_test_123", "eur")

		receiptDir, err := os.MkdirTemp("", "receipts")
		if err != nil {
			panic(err)
		}
		fileStore, err := adapters.NewLocalFileStore(receiptDir)
		if err != nil {
			panic(err)
		}
		receipts := receipt.NewService(adapters.NewHTMLReceiptRenderer(), fileStore, transactionRepo, nil)

		recordCashDeposit := payment.NewRecordCashDepositUseCase(transactionRepo, unitRepo, receipts)
		submitBankTransfer := payment.NewSubmitBankTransferUseCase(transactionRepo, unitRepo)
		initiateDeposit := payment.NewInitiateGatewayDepositUseCase(unitRepo, stubGateway{})
		recordGatewayDeposit := payment.NewRecordGatewayDepositUseCase(transactionRepo, unitRepo, expenseRepo, eventCache, receipts)
		approveTransaction := payment.NewApproveTransactionUseCase(transactionRepo, receipts)
		rejectTransaction := payment.NewRejectTransactionUseCase(transactionRepo)
		generateFees := fee.NewGenerateMonthlyFeesUseCase(transactionRepo, unitRepo, buildingRepo)
		getUnitBalance := report.NewGetUnitBalanceUseCase(transactionRepo, unitRepo)
		getHistory := report.NewGetTransactionHistoryUseCase(transactionRepo, unitRepo)
		listTransactions := report.NewListBuildingTransactionsUseCase(transactionRepo, buildingRepo)
		getSummary := report.NewGetFinancialSummaryUseCase(transactionRepo, expenseRepo, buildingRepo)
		clearUnitBalance := settlement.NewClearUnitBalanceUseCase(transactionRepo, unitRepo, receipts)
		createSystemNote := settlement.NewCreateSystemNoteUseCase(transactionRepo, unitRepo)
		createExpense := expense.NewCreateExpenseUseCase(expenseRepo, buildingRepo)
		listExpenses := expense.NewListExpensesUseCase(expenseRepo, buildingRepo)

		healthController := controller.NewHealthController(func() bool {
			return testDB != nil && testDB.DbConn != nil
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

		intakeRateLimiter := middleware.NewRateLimiterWithConfig(1000, time.Minute)
		authMiddleware := middleware.NewAuthMiddleware(tokenVerifier)

		r := router.NewRouter(healthController, financeController, webhookController, intakeRateLimiter, authMiddleware)
		testServer = httptest.NewServer(r.Setup("test"))
	})
}

// InitializeTestSuite sets up shared resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(startServer)
	ctx.AfterSuite(func() {
		if testServer != nil {
			testServer.Close()
		}
	})
}

// InitializeScenario registers a fresh scenario context and its steps.
func InitializeScenario(ctx *godog.ScenarioContext) {
	startServer()

	test := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
		db:     testDB,
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		test.before()
		return ctx, nil
	})

	// Setup steps
	ctx.Step(`^a building exists with repair budget "([^"]*)" and maintenance budget "([^"]*)"$`, test.aBuildingExistsWithBudgets)
	ctx.Step(`^a building exists without configured budgets$`, test.aBuildingExistsWithoutBudgets)
	ctx.Step(`^a verified unit exists with area "([^"]*)" and (\d+) residents$`, test.aVerifiedUnitExists)
	ctx.Step(`^a vacant verified unit exists with area "([^"]*)" and (\d+) residents$`, test.aVacantVerifiedUnitExists)
	ctx.Step(`^an unverified unit exists with area "([^"]*)" and (\d+) residents$`, test.anUnverifiedUnitExists)
	ctx.Step(`^the unit owes "([^"]*)" to the "([^"]*)" fund$`, test.theUnitOwesToTheFund)
	ctx.Step(`^the unit has a confirmed cash payment of "([^"]*)"$`, test.theUnitHasAConfirmedCashPayment)
	ctx.Step(`^I am authenticated as a manager$`, test.iAmAuthenticatedAsAManager)
	ctx.Step(`^I am authenticated as a resident$`, test.iAmAuthenticatedAsAResident)
	ctx.Step(`^I am not authenticated$`, test.iAmNotAuthenticated)

	// Request steps
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.Step(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Step(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertion steps
	ctx.Step(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Step(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func (t *testContext) before() {
	t.headers = make(map[string]string)
	t.accessToken = ""
	t.response = nil
	t.responseBody = nil
	t.currentBuildingID = uuid.Nil
	t.currentUnitID = uuid.Nil
	t.currentOccupantID = uuid.Nil
	t.lastTransactionID = uuid.Nil

	if t.db != nil {
		_ = t.db.ClearDB()
	}
	if testRedis != nil {
		_ = mock.ClearRedis(testRedis)
	}
}

func (t *testContext) aBuildingExistsWithBudgets(repairBudget, maintenanceBudget string) error {
	repair, err := decimal.NewFromString(repairBudget)
	if err != nil {
		return err
	}
	maintenance, err := decimal.NewFromString(maintenanceBudget)
	if err != nil {
		return err
	}
	return t.createBuilding(&repair, &maintenance)
}

func (t *testContext) aBuildingExistsWithoutBudgets() error {
	return t.createBuilding(nil, nil)
}

func (t *testContext) createBuilding(repair, maintenance *decimal.Decimal) error {
	building := &model.BuildingModel{
		ID:                uuid.New(),
		Name:              "Integration Test Building",
		RepairBudget:      repair,
		MaintenanceBudget: maintenance,
		CreatedAt:         time.Now(),
	}
	if err := t.db.DbConn.Create(building).Error; err != nil {
		return err
	}
	t.currentBuildingID = building.ID
	return nil
}

func (t *testContext) aVerifiedUnitExists(area string, residents int) error {
	occupantID := uuid.New()
	t.currentOccupantID = occupantID
	return t.createUnit(area, residents, &occupantID)
}

func (t *testContext) aVacantVerifiedUnitExists(area string, residents int) error {
	return t.createUnit(area, residents, nil)
}

func (t *testContext) anUnverifiedUnitExists(area string, residents int) error {
	unitArea, err := decimal.NewFromString(area)
	if err != nil {
		return err
	}
	occupantID := uuid.New()
	unit := &model.UnitModel{
		ID:             uuid.New(),
		BuildingID:     t.currentBuildingID,
		Number:         "13B",
		Area:           unitArea,
		ResidentsCount: residents,
		Verified:       false,
		OccupantID:     &occupantID,
	}
	return t.db.DbConn.Create(unit).Error
}

func (t *testContext) createUnit(area string, residents int, occupantID *uuid.UUID) error {
	unitArea, err := decimal.NewFromString(area)
	if err != nil {
		return err
	}
	unit := &model.UnitModel{
		ID:             uuid.New(),
		BuildingID:     t.currentBuildingID,
		Number:         "12A",
		Area:           unitArea,
		ResidentsCount: residents,
		Verified:       true,
		OccupantID:     occupantID,
	}
	if err := t.db.DbConn.Create(unit).Error; err != nil {
		return err
	}
	t.currentUnitID = unit.ID
	return nil
}

func (t *testContext) theUnitOwesToTheFund(amount, fund string) error {
	debt, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	charge := &model.TransactionModel{
		ID:            uuid.New(),
		UnitID:        t.currentUnitID,
		OccupantID:    &t.currentOccupantID,
		Amount:        debt.Neg(),
		Type:          string(entity.TransactionTypeFee),
		PaymentMethod: string(entity.PaymentMethodSystem),
		FundType:      &fund,
		Description:   "Monthly fee",
		Status:        string(entity.TransactionStatusConfirmed),
		CreatedAt:     time.Now(),
	}
	return t.db.DbConn.Create(charge).Error
}

func (t *testContext) theUnitHasAConfirmedCashPayment(amount string) error {
	paid, err := decimal.NewFromString(amount)
	if err != nil {
		return err
	}
	fund := string(entity.FundTypeGeneral)
	transactionID := uuid.New()
	deposit := &model.TransactionModel{
		ID:            transactionID,
		UnitID:        t.currentUnitID,
		OccupantID:    &t.currentOccupantID,
		Amount:        paid,
		Type:          string(entity.TransactionTypePayment),
		PaymentMethod: string(entity.PaymentMethodCash),
		Description:   "Cash deposit",
		Status:        string(entity.TransactionStatusConfirmed),
		CreatedAt:     time.Now(),
	}
	if err := t.db.DbConn.Create(deposit).Error; err != nil {
		return err
	}
	split := &model.TransactionSplitModel{
		ID:            uuid.New(),
		TransactionID: transactionID,
		FundType:      fund,
		Amount:        paid,
	}
	return t.db.DbConn.Create(split).Error
}

func (t *testContext) iAmAuthenticatedAsAManager() error {
	return t.issueToken("manager")
}

func (t *testContext) iAmAuthenticatedAsAResident() error {
	return t.issueToken("resident")
}

func (t *testContext) iAmNotAuthenticated() error {
	t.accessToken = ""
	return nil
}

func (t *testContext) issueToken(role string) error {
	now := time.Now().UTC()
	claims := adapters.AccessClaims{
		UserID:    uuid.New().String(),
		Role:      role,
		TokenType: "access",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(15 * time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testJWTSecret))
	if err != nil {
		return fmt.Errorf("failed to sign access token: %w", err)
	}
	t.accessToken = signed
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{building_id}}", t.currentBuildingID.String())
	content = strings.ReplaceAll(content, "{{unit_id}}", t.currentUnitID.String())
	content = strings.ReplaceAll(content, "{{transaction_id}}", t.lastTransactionID.String())
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	url := testServer.URL + path

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = resp
	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.responseBody = string(bodyBytes)
	} else {
		t.responseBody = responseBody

		if idStr, ok := responseBody["id"].(string); ok {
			if id, err := uuid.Parse(idStr); err == nil {
				t.lastTransactionID = id
			}
		}
		if transaction, ok := responseBody["transaction"].(map[string]any); ok {
			if idStr, ok := transaction["id"].(string); ok {
				if id, err := uuid.Parse(idStr); err == nil {
					t.lastTransactionID = id
				}
			}
		}
	}

	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.StatusCode != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.StatusCode, t.responseBody)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	value, err := t.lookupField(field)
	if err != nil {
		return err
	}
	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	_, err := t.lookupField(field)
	return err
}

func (t *testContext) lookupField(dotSeparatedField string) (any, error) {
	if t.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := t.responseBody.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", t.responseBody)
	}

	var value any = body
	for _, segment := range strings.Split(dotSeparatedField, ".") {
		object, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("field '%s' not found in response: %v", dotSeparatedField, body)
		}
		value, ok = object[segment]
		if !ok {
			return nil, fmt.Errorf("field '%s' not found in response: %v", dotSeparatedField, body)
		}
	}
	return value, nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	return t.countRows(quantity, table, nil)
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}
	return t.countRows(quantity, table, criteria)
}

func (t *testContext) countRows(quantity int, table string, criteria map[string]any) error {
	entityModel, ok := t.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entityModel).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := t.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	count := entitySlicePtr.Elem().Len()
	if count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}
