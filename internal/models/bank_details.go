package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BankDetails holds a user's payout destination. Withdrawals require a
// verified record.
type BankDetails struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID            primitive.ObjectID `bson:"userId" json:"userId"`
	AccountNumber     string             `bson:"accountNumber" json:"accountNumber"`
	IFSCCode          string             `bson:"ifscCode" json:"ifscCode"`
	BankName          string             `bson:"bankName" json:"bankName"`
	AccountHolderName string             `bson:"accountHolderName" json:"accountHolderName"`
	Place             string             `bson:"place,omitempty" json:"place,omitempty"`
	UPIID             string             `bson:"upiId,omitempty" json:"upiId,omitempty"`
	IsVerified        bool               `bson:"isVerified" json:"isVerified"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt" json:"updatedAt"`
}
