// Package persistence implements repository interfaces for database operations.
package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/building-ledger/backend/internal/application/adapter"
	"github.com/building-ledger/backend/internal/domain/entity"
	domainerror "github.com/building-ledger/backend/internal/domain/error"
	"github.com/building-ledger/backend/internal/domain/valueobject"
	"github.com/building-ledger/backend/internal/integration/persistence/model"
)

// transactionRepository implements the adapter.TransactionRepository interface.
type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository instance.
func NewTransactionRepository(db *gorm.DB) adapter.TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

// CreateConfirmedPayment inserts a CONFIRMED payment together with its fund
// splits. The unit row is locked first so concurrent payments against the
// same unit cannot both read the pre-payment debt and over-allocate.
func (r *transactionRepository) CreateConfirmedPayment(ctx context.Context, transaction *entity.Transaction, targetFund *entity.FundType) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		unit, err := lockUnit(tx, transaction.UnitID)
		if err != nil {
			return err
		}

		transaction.OccupantID = unit.OccupantID
		transaction.Status = entity.TransactionStatusConfirmed

		var allocations []valueobject.Allocation
		if targetFund != nil {
			allocations = valueobject.DirectAllocation(transaction.Amount, *targetFund)
		} else {
			debts, err := r.occupantDebts(tx, unit.ID, unit.OccupantID)
			if err != nil {
				return err
			}
			allocations = valueobject.Waterfall(transaction.Amount, debts)
		}
		for _, a := range allocations {
			transaction.AddSplit(a.Fund, a.Amount)
		}

		if err := tx.Create(model.TransactionFromEntity(transaction)).Error; err != nil {
			if isDuplicateKey(err) {
				return domainerror.ErrDuplicateReference
			}
			return err
		}
		return nil
	})
}

// CreatePending inserts a PENDING payment with no splits. The responsible
// occupant is recorded at submission time.
func (r *transactionRepository) CreatePending(ctx context.Context, transaction *entity.Transaction) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var unit model.UnitModel
		if err := tx.Where("id = ?", transaction.UnitID).First(&unit).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrUnitNotFound
			}
			return err
		}

		transaction.OccupantID = unit.OccupantID
		transaction.Status = entity.TransactionStatusPending

		if err := tx.Create(model.TransactionFromEntity(transaction)).Error; err != nil {
			if isDuplicateKey(err) {
				return domainerror.ErrDuplicateReference
			}
			return err
		}
		return nil
	})
}

// CreateDirect inserts a transaction exactly as given, without allocation.
func (r *transactionRepository) CreateDirect(ctx context.Context, transaction *entity.Transaction) error {
	if err := r.db.WithContext(ctx).Create(model.TransactionFromEntity(transaction)).Error; err != nil {
		if isDuplicateKey(err) {
			return domainerror.ErrDuplicateReference
		}
		return err
	}
	return nil
}

// Approve transitions a PENDING transaction to CONFIRMED, allocating its
// amount through the waterfall inside the same database transaction.
func (r *transactionRepository) Approve(ctx context.Context, id uuid.UUID) (*entity.Transaction, bool, error) {
	var approved *entity.Transaction
	confirmedNow := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.TransactionModel
		if err := tx.Preload("Splits").Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrTransactionNotFound
			}
			return err
		}

		switch entity.TransactionStatus(m.Status) {
		case entity.TransactionStatusConfirmed:
			// Idempotent: approving again changes nothing.
			approved = m.ToEntity()
			return nil
		case entity.TransactionStatusRejected:
			return domainerror.ErrTransactionTerminal
		}

		if _, err := lockUnit(tx, m.UnitID); err != nil {
			return err
		}

		transaction := m.ToEntity()
		debts, err := r.occupantDebts(tx, transaction.UnitID, transaction.OccupantID)
		if err != nil {
			return err
		}
		for _, a := range valueobject.Waterfall(transaction.Amount, debts) {
			transaction.AddSplit(a.Fund, a.Amount)
		}

		for _, split := range transaction.Splits {
			splitModel := model.TransactionSplitModel{
				ID:            split.ID,
				TransactionID: split.TransactionID,
				FundType:      string(split.FundType),
				Amount:        split.Amount,
			}
			if err := tx.Create(&splitModel).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&model.TransactionModel{}).
			Where("id = ?", id).
			Update("status", string(entity.TransactionStatusConfirmed)).Error; err != nil {
			return err
		}

		transaction.Status = entity.TransactionStatusConfirmed
		approved = transaction
		confirmedNow = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return approved, confirmedNow, nil
}

// Reject transitions a PENDING transaction to REJECTED. No splits are
// created; the record stays as evidence that the claimed transfer was invalid.
func (r *transactionRepository) Reject(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var rejected *entity.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m model.TransactionModel
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerror.ErrTransactionNotFound
			}
			return err
		}

		transaction := m.ToEntity()
		if transaction.IsTerminal() {
			return domainerror.ErrTransactionTerminal
		}

		if err := tx.Model(&m).Update("status", string(entity.TransactionStatusRejected)).Error; err != nil {
			return err
		}

		transaction.Status = entity.TransactionStatusRejected
		rejected = transaction
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rejected, nil
}

// PostMonthlyCharges records the fee run and inserts the generated FEE
// transactions in one database transaction per building, so one building's
// failure cannot poison another's run.
func (r *transactionRepository) PostMonthlyCharges(ctx context.Context, buildingID uuid.UUID, period string, fees []*entity.Transaction, failedUnits []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run := model.FeeRunModel{
			ID:         uuid.New(),
			BuildingID: buildingID,
			Period:     period,
			UnitCount:  len(fees),
			CreatedAt:  time.Now().UTC(),
		}
		for _, unitID := range failedUnits {
			run.FailedUnitIDs = append(run.FailedUnitIDs, unitID.String())
		}

		if err := tx.Create(&run).Error; err != nil {
			if isDuplicateKey(err) {
				return domainerror.ErrFeeRunAlreadyProcessed
			}
			return err
		}

		for _, fee := range fees {
			if err := tx.Create(model.TransactionFromEntity(fee)).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID retrieves a transaction with its splits.
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Transaction, error) {
	var m model.TransactionModel
	result := r.db.WithContext(ctx).Preload("Splits").Where("id = ?", id).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// FindByReferenceID retrieves a transaction by its external reference.
func (r *transactionRepository) FindByReferenceID(ctx context.Context, referenceID string) (*entity.Transaction, error) {
	var m model.TransactionModel
	result := r.db.WithContext(ctx).Preload("Splits").Where("reference_id = ?", referenceID).First(&m)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrTransactionNotFound
		}
		return nil, result.Error
	}
	return m.ToEntity(), nil
}

// AttachProof sets the internally generated receipt location.
func (r *transactionRepository) AttachProof(ctx context.Context, id uuid.UUID, proofURL string) error {
	result := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("id = ?", id).
		Update("proof_url", proofURL)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerror.ErrTransactionNotFound
	}
	return nil
}

// OccupantBalance sums confirmed transaction amounts for (unit, occupant).
func (r *transactionRepository) OccupantBalance(ctx context.Context, unitID, occupantID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("unit_id = ? AND occupant_id = ? AND status = ?", unitID, occupantID, string(entity.TransactionStatusConfirmed)).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// HasPending reports whether the unit has any PENDING transactions.
func (r *transactionRepository) HasPending(ctx context.Context, unitID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.TransactionModel{}).
		Where("unit_id = ? AND status = ?", unitID, string(entity.TransactionStatusPending)).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// HistoryByUnit lists transactions for the unit scoped to the occupant.
func (r *transactionRepository) HistoryByUnit(ctx context.Context, unitID, occupantID uuid.UUID, transactionType *entity.TransactionType) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).
		Preload("Splits").
		Where("unit_id = ? AND occupant_id = ?", unitID, occupantID)

	if transactionType != nil {
		query = query.Where("type = ?", string(*transactionType))
	}

	var models []model.TransactionModel
	if err := query.Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(models))
	for i := range models {
		transactions[i] = models[i].ToEntity()
	}
	return transactions, nil
}

// Search lists transactions across a building for manager views.
func (r *transactionRepository) Search(ctx context.Context, search adapter.TransactionSearch) ([]*entity.Transaction, error) {
	query := r.db.WithContext(ctx).
		Preload("Splits").
		Joins("JOIN units ON units.id = transactions.unit_id").
		Where("units.building_id = ?", search.BuildingID)

	if search.Type != nil {
		query = query.Where("transactions.type = ?", string(*search.Type))
	}
	if search.Status != nil {
		query = query.Where("transactions.status = ?", string(*search.Status))
	}

	var models []model.TransactionModel
	if err := query.Order("transactions.created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}

	transactions := make([]*entity.Transaction, len(models))
	for i := range models {
		transactions[i] = models[i].ToEntity()
	}
	return transactions, nil
}

// IncomeByFund sums confirmed payment splits per fund for a building.
func (r *transactionRepository) IncomeByFund(ctx context.Context, buildingID uuid.UUID) (map[entity.FundType]decimal.Decimal, error) {
	var rows []struct {
		FundType string          `gorm:"column:fund_type"`
		Total    decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Table("transaction_splits").
		Select("transaction_splits.fund_type as fund_type, COALESCE(SUM(transaction_splits.amount), 0) as total").
		Joins("JOIN transactions ON transactions.id = transaction_splits.transaction_id").
		Joins("JOIN units ON units.id = transactions.unit_id").
		Where("units.building_id = ? AND transactions.status = ?", buildingID, string(entity.TransactionStatusConfirmed)).
		Group("transaction_splits.fund_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[entity.FundType]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[entity.FundType(row.FundType)] = row.Total
	}
	return sums, nil
}

// IncomeByMethod sums confirmed transaction amounts per payment method.
func (r *transactionRepository) IncomeByMethod(ctx context.Context, buildingID uuid.UUID) (map[entity.PaymentMethod]decimal.Decimal, error) {
	var rows []struct {
		PaymentMethod string          `gorm:"column:payment_method"`
		Total         decimal.Decimal `gorm:"column:total"`
	}
	err := r.db.WithContext(ctx).
		Table("transactions").
		Select("transactions.payment_method as payment_method, COALESCE(SUM(transactions.amount), 0) as total").
		Joins("JOIN units ON units.id = transactions.unit_id").
		Where("units.building_id = ? AND transactions.status = ?", buildingID, string(entity.TransactionStatusConfirmed)).
		Group("transactions.payment_method").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	sums := make(map[entity.PaymentMethod]decimal.Decimal, len(rows))
	for _, row := range rows {
		sums[entity.PaymentMethod(row.PaymentMethod)] = row.Total
	}
	return sums, nil
}

// occupantDebts gathers the outstanding debt per prioritized fund for the
// unit's occupant. A vacant unit carries no billable debt.
func (r *transactionRepository) occupantDebts(tx *gorm.DB, unitID uuid.UUID, occupantID *uuid.UUID) (valueobject.FundDebts, error) {
	debts := valueobject.FundDebts{}
	if occupantID == nil {
		return debts, nil
	}

	for _, fund := range []entity.FundType{entity.FundTypeRepair, entity.FundTypeMaintenance} {
		debt, err := fundDebt(tx, unitID, *occupantID, fund)
		if err != nil {
			return nil, err
		}
		debts[fund] = debt
	}
	return debts, nil
}

// fundDebt computes max(0, charged - paid) for (unit, occupant, fund).
// Charges are the absolute amounts of confirmed FEE transactions recorded
// against the occupant; payments are the confirmed splits applied to the fund.
func fundDebt(tx *gorm.DB, unitID, occupantID uuid.UUID, fund entity.FundType) (decimal.Decimal, error) {
	var charged struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err := tx.Model(&model.TransactionModel{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("unit_id = ? AND occupant_id = ? AND fund_type = ? AND type = ? AND status = ?",
			unitID, occupantID, string(fund), string(entity.TransactionTypeFee), string(entity.TransactionStatusConfirmed)).
		Scan(&charged).Error
	if err != nil {
		return decimal.Zero, err
	}

	var paid struct {
		Total decimal.Decimal `gorm:"column:total"`
	}
	err = tx.Table("transaction_splits").
		Select("COALESCE(SUM(transaction_splits.amount), 0) as total").
		Joins("JOIN transactions ON transactions.id = transaction_splits.transaction_id").
		Where("transactions.unit_id = ? AND transactions.occupant_id = ? AND transaction_splits.fund_type = ? AND transactions.status = ?",
			unitID, occupantID, string(fund), string(entity.TransactionStatusConfirmed)).
		Scan(&paid).Error
	if err != nil {
		return decimal.Zero, err
	}

	return valueobject.OutstandingDebt(charged.Total.Abs(), paid.Total), nil
}

// lockUnit reads the unit row under a FOR UPDATE lock, serializing financial
// mutations per unit. SQLite (tests) has no row locks; its single-writer
// model gives the same guarantee.
func lockUnit(tx *gorm.DB, unitID uuid.UUID) (*entity.Unit, error) {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var unit model.UnitModel
	if err := query.Where("id = ?", unitID).First(&unit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerror.ErrUnitNotFound
		}
		return nil, err
	}
	return unit.ToEntity(), nil
}

// isDuplicateKey detects unique constraint violations across the drivers in
// play: translated gorm errors, raw postgres errors and the sqlite test DB.
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value")
}
