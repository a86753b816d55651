package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Withdrawal methods
const (
	WithdrawalMethodBankTransfer = "bank_transfer"
	WithdrawalMethodUPI          = "upi"
)

// Withdrawal statuses. pending -> {processing -> completed | rejected} |
// cancelled. completed, rejected and cancelled are terminal.
const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusProcessing = "processing"
	WithdrawalStatusCompleted  = "completed"
	WithdrawalStatusRejected   = "rejected"
	WithdrawalStatusCancelled  = "cancelled"
)

// Withdrawal is a payout request. The requested amount is debited from the
// wallet at creation time (reservation); cancel and reject refund it.
type Withdrawal struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	Amount            float64            `bson:"amount" json:"amount"`
	BankDetailsID     primitive.ObjectID `bson:"bankDetailsId" json:"bankDetailsId"`
	WithdrawalMethod  string             `bson:"withdrawalMethod" json:"withdrawalMethod"`
	Status            string             `bson:"status" json:"status"`
	RequestDate       time.Time          `bson:"requestDate" json:"requestDate"`
	ProcessedDate     *time.Time         `bson:"processedDate,omitempty" json:"processedDate,omitempty"`
	DebitTxnID        string             `bson:"debitTransactionId,omitempty" json:"debitTransactionId,omitempty"`
	RefundTxnID       string             `bson:"refundTransactionId,omitempty" json:"refundTransactionId,omitempty"`
	BankTransactionID string             `bson:"bankTransactionId,omitempty" json:"bankTransactionId,omitempty"`
	RejectionReason   string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	AdminNotes        string             `bson:"adminNotes,omitempty" json:"adminNotes,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsTerminal reports whether the withdrawal has reached a final state.
func (w *Withdrawal) IsTerminal() bool {
	switch w.Status {
	case WithdrawalStatusCompleted, WithdrawalStatusRejected, WithdrawalStatusCancelled:
		return true
	}
	return false
}
