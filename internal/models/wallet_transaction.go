package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Transaction directions
const (
	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// Transaction categories
const (
	TransactionCategoryTicketPurchase = "ticket_purchase"
	TransactionCategoryPrizeCredit    = "prize_credit"
	TransactionCategoryDeposit        = "deposit"
	TransactionCategoryWithdrawal     = "withdrawal"
	TransactionCategoryRefund         = "refund"
	TransactionCategoryCashback       = "cashback"
)

// Transaction statuses
const (
	TransactionStatusPending   = "pending"
	TransactionStatusCompleted = "completed"
	TransactionStatusFailed    = "failed"
	TransactionStatusCancelled = "cancelled"
)

// WalletTransaction is one append-only ledger row. Invariant:
// balanceAfter = balanceBefore + amount for credits and
// balanceAfter = balanceBefore - amount for debits.
type WalletTransaction struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID          primitive.ObjectID `bson:"userId" json:"userId"`
	TransactionID   string             `bson:"transactionId" json:"transactionId"`
	TransactionType string             `bson:"transactionType" json:"transactionType"`
	Amount          float64            `bson:"amount" json:"amount"`
	Description     string             `bson:"description" json:"description"`
	Category        string             `bson:"category" json:"category"`
	BalanceBefore   float64            `bson:"balanceBefore" json:"balanceBefore"`
	BalanceAfter    float64            `bson:"balanceAfter" json:"balanceAfter"`
	Status          string             `bson:"status" json:"status"`
	ReferenceID     string             `bson:"referenceId,omitempty" json:"referenceId,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
}

// WalletSummary aggregates a user's ledger activity over a period.
type WalletSummary struct {
	UserID         string  `json:"userId"`
	CurrentBalance float64 `json:"currentBalance"`
	Days           int     `json:"days"`
	TotalCredit    float64 `json:"totalCredit"`
	TotalDebit     float64 `json:"totalDebit"`
	NetChange      float64 `json:"netChange"`
	Transactions   int     `json:"transactions"`
}
