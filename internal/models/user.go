package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a player account. WalletBalance is the cached current
// balance and must always equal the balanceAfter of the user's most recent
// wallet transaction.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserName       string             `bson:"userName" json:"userName"`
	UserID         string             `bson:"userId" json:"userId"`
	Email          string             `bson:"email" json:"email"`
	PhoneNumber    string             `bson:"phoneNumber" json:"phoneNumber"`
	Password       string             `bson:"password" json:"-"`
	ProfilePicture string             `bson:"profilePicture,omitempty" json:"profilePicture,omitempty"`
	City           string             `bson:"city,omitempty" json:"city,omitempty"`
	State          string             `bson:"state,omitempty" json:"state,omitempty"`
	WalletBalance  float64            `bson:"walletBalance" json:"walletBalance"`
	Role           string             `bson:"role" json:"role"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}
