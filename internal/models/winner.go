package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Winner is the append-only record of one prize allocation, created exactly
// once per selected seat by the draw.
type Winner struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ContestID        primitive.ObjectID `bson:"contestId" json:"contestId"`
	UserID           primitive.ObjectID `bson:"userId" json:"userId"`
	SeatNumber       int                `bson:"seatNumber" json:"seatNumber"`
	CategoryName     string             `bson:"categoryName" json:"categoryName"`
	PrizeRank        int                `bson:"prizeRank" json:"prizeRank"`
	PrizeAmount      float64            `bson:"prizeAmount" json:"prizeAmount"`
	PrizeDescription string             `bson:"prizeDescription,omitempty" json:"prizeDescription,omitempty"`
	DrawDate         time.Time          `bson:"drawDate" json:"drawDate"`
	IsPrizeClaimed   bool               `bson:"isPrizeClaimed" json:"isPrizeClaimed"`
	PrizeClaimedDate *time.Time         `bson:"prizeClaimedDate,omitempty" json:"prizeClaimedDate,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
}
