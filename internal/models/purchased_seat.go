package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment methods
const (
	PaymentMethodWallet     = "wallet"
	PaymentMethodUPI        = "upi"
	PaymentMethodCard       = "card"
	PaymentMethodNetBanking = "netbanking"
)

// Purchase statuses
const (
	PurchaseStatusPurchased = "purchased"
	PurchaseStatusRefunded  = "refunded"
	PurchaseStatusCancelled = "cancelled"
)

// PurchasedSeat records ownership of one seat in one contest. The storage
// layer enforces uniqueness of (contestId, seatNumber); the winner fields
// are stamped by the draw and never change afterwards.
type PurchasedSeat struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ContestID     primitive.ObjectID `bson:"contestId" json:"contestId"`
	UserID        primitive.ObjectID `bson:"userId" json:"userId"`
	SeatNumber    int                `bson:"seatNumber" json:"seatNumber"`
	CategoryID    int                `bson:"categoryId" json:"categoryId"`
	CategoryName  string             `bson:"categoryName" json:"categoryName"`
	TicketPrice   float64            `bson:"ticketPrice" json:"ticketPrice"`
	PurchaseDate  time.Time          `bson:"purchaseDate" json:"purchaseDate"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	PaymentMethod string             `bson:"paymentMethod" json:"paymentMethod"`
	Status        string             `bson:"status" json:"status"`
	IsWinner      bool               `bson:"isWinner" json:"isWinner"`
	PrizeAmount   float64            `bson:"prizeAmount" json:"prizeAmount"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
}
