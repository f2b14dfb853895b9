// Package model defines database models for persistence layer.
package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/building-ledger/backend/internal/domain/entity"
)

// TransactionModel represents the transactions table in the database.
type TransactionModel struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UnitID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	OccupantID       *uuid.UUID      `gorm:"type:uuid;index"`
	Amount           decimal.Decimal `gorm:"type:decimal(19,2);not null"`
	Type             string          `gorm:"type:varchar(10);not null;index"`
	PaymentMethod    string          `gorm:"type:varchar(20);not null"`
	FundType         *string         `gorm:"type:varchar(20)"`
	Description      string          `gorm:"type:varchar(255)"`
	ReferenceID      *string         `gorm:"type:varchar(255);uniqueIndex"`
	ProofURL         *string         `gorm:"type:varchar(512)"`
	ExternalProofURL *string         `gorm:"type:varchar(512)"`
	Status           string          `gorm:"type:varchar(10);not null;index"`
	CreatedAt        time.Time       `gorm:"not null;index"`

	Splits []TransactionSplitModel `gorm:"foreignKey:TransactionID;constraint:OnDelete:CASCADE"`
	Unit   *UnitModel              `gorm:"foreignKey:UnitID;references:ID"`
}

// TableName returns the table name for the TransactionModel.
func (TransactionModel) TableName() string {
	return "transactions"
}

// TransactionSplitModel represents the transaction_splits table. Splits are
// owned exclusively by their transaction and cascade with it.
type TransactionSplitModel struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index"`
	FundType      string          `gorm:"type:varchar(20);not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(19,2);not null"`
}

// TableName returns the table name for the TransactionSplitModel.
func (TransactionSplitModel) TableName() string {
	return "transaction_splits"
}

// ToEntity converts a TransactionModel to a domain Transaction entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	var fund *entity.FundType
	if m.FundType != nil {
		f := entity.FundType(*m.FundType)
		fund = &f
	}

	transaction := &entity.Transaction{
		ID:               m.ID,
		UnitID:           m.UnitID,
		OccupantID:       m.OccupantID,
		Amount:           m.Amount,
		Type:             entity.TransactionType(m.Type),
		PaymentMethod:    entity.PaymentMethod(m.PaymentMethod),
		FundType:         fund,
		Description:      m.Description,
		ReferenceID:      m.ReferenceID,
		ProofURL:         m.ProofURL,
		ExternalProofURL: m.ExternalProofURL,
		Status:           entity.TransactionStatus(m.Status),
		CreatedAt:        m.CreatedAt,
	}

	for i := range m.Splits {
		transaction.Splits = append(transaction.Splits, m.Splits[i].ToEntity())
	}

	return transaction
}

// ToEntity converts a TransactionSplitModel to a domain TransactionSplit.
func (m *TransactionSplitModel) ToEntity() *entity.TransactionSplit {
	return &entity.TransactionSplit{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		FundType:      entity.FundType(m.FundType),
		Amount:        m.Amount,
	}
}

// TransactionFromEntity creates a TransactionModel from a domain Transaction entity.
func TransactionFromEntity(transaction *entity.Transaction) *TransactionModel {
	var fund *string
	if transaction.FundType != nil {
		f := string(*transaction.FundType)
		fund = &f
	}

	m := &TransactionModel{
		ID:               transaction.ID,
		UnitID:           transaction.UnitID,
		OccupantID:       transaction.OccupantID,
		Amount:           transaction.Amount,
		Type:             string(transaction.Type),
		PaymentMethod:    string(transaction.PaymentMethod),
		FundType:         fund,
		Description:      transaction.Description,
		ReferenceID:      transaction.ReferenceID,
		ProofURL:         transaction.ProofURL,
		ExternalProofURL: transaction.ExternalProofURL,
		Status:           string(transaction.Status),
		CreatedAt:        transaction.CreatedAt,
	}

	for _, s := range transaction.Splits {
		m.Splits = append(m.Splits, TransactionSplitModel{
			ID:            s.ID,
			TransactionID: s.TransactionID,
			FundType:      string(s.FundType),
			Amount:        s.Amount,
		})
	}

	return m
}
