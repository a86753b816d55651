package models

import (
	"time"
)

// DrawResult is the outcome of conducting a contest draw.
type DrawResult struct {
	ContestID    string    `json:"contestId"`
	TotalWinners int       `json:"totalWinners"`
	Winners      []*Winner `json:"winners"`
	DrawDate     time.Time `json:"drawDate"`
}

// PrizeDistribution summarizes the winners of one prize rank.
type PrizeDistribution struct {
	PrizeRank   int     `bson:"_id" json:"prizeRank"`
	PrizeAmount float64 `bson:"prizeAmount" json:"prizeAmount"`
	WinnerCount int     `bson:"winnerCount" json:"winnerCount"`
	TotalAmount float64 `bson:"totalAmount" json:"totalAmount"`
}

// ContestStatistics is the read-only statistics projection for a contest.
type ContestStatistics struct {
	ContestID         string              `json:"contestId"`
	ContestName       string              `json:"contestName"`
	TotalSeats        int                 `json:"totalSeats"`
	PurchasedSeats    int                 `json:"purchasedSeats"`
	AvailableSeats    int                 `json:"availableSeats"`
	TotalWinners      int                 `json:"totalWinners"`
	IsDrawCompleted   bool                `json:"isDrawCompleted"`
	PrizeDistribution []PrizeDistribution `json:"prizeDistribution"`
}

// PurchaseResult is returned by a successful seat purchase.
type PurchaseResult struct {
	TransactionID  string  `json:"transactionId"`
	TotalAmount    float64 `json:"totalAmount"`
	PurchasedSeats []int   `json:"purchasedSeats"`
	ContestName    string  `json:"contestName"`
}
