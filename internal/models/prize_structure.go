package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PrizeStructure is one ranked tier of a contest's prize table. Ranks are
// processed in ascending order by the draw. WinnerSeatNumbers, when set,
// pins specific seats as winners for the rank before any random fill.
type PrizeStructure struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ContestID         primitive.ObjectID `bson:"contestId" json:"contestId"`
	PrizeRank         int                `bson:"prizeRank" json:"prizeRank"`
	PrizeAmount       float64            `bson:"prizeAmount" json:"prizeAmount"`
	NumberOfWinners   int                `bson:"numberOfWinners" json:"numberOfWinners"`
	PrizeDescription  string             `bson:"prizeDescription,omitempty" json:"prizeDescription,omitempty"`
	WinnerSeatNumbers []int              `bson:"winnerSeatNumbers,omitempty" json:"winnerSeatNumbers,omitempty"`
	CreatedAt         time.Time          `bson:"createdAt" json:"createdAt"`
}
