package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Contest statuses
const (
	ContestStatusUpcoming  = "upcoming"
	ContestStatusActive    = "active"
	ContestStatusCompleted = "completed"
	ContestStatusCancelled = "cancelled"
)

// Category is a contiguous seat-number sub-range of a contest. Its counters
// are a denormalized cache of seat state within the range and are updated in
// lockstep with the contest-level counters.
type Category struct {
	CategoryID     int    `bson:"categoryId" json:"categoryId"`
	CategoryName   string `bson:"categoryName" json:"categoryName"`
	SeatRangeStart int    `bson:"seatRangeStart" json:"seatRangeStart"`
	SeatRangeEnd   int    `bson:"seatRangeEnd" json:"seatRangeEnd"`
	TotalSeats     int    `bson:"totalSeats" json:"totalSeats"`
	AvailableSeats int    `bson:"availableSeats" json:"availableSeats"`
	PurchasedSeats int    `bson:"purchasedSeats" json:"purchasedSeats"`
}

// Contest represents a fixed-price raffle over a numbered seat range.
// TotalSeats = AvailableSeats + PurchasedSeats holds at all times, both
// globally and per category.
type Contest struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ContestName      string             `bson:"contestName" json:"contestName"`
	TotalPrizeMoney  float64            `bson:"totalPrizeMoney" json:"totalPrizeMoney"`
	TicketPrice      float64            `bson:"ticketPrice" json:"ticketPrice"`
	TotalSeats       int                `bson:"totalSeats" json:"totalSeats"`
	AvailableSeats   int                `bson:"availableSeats" json:"availableSeats"`
	PurchasedSeats   int                `bson:"purchasedSeats" json:"purchasedSeats"`
	TotalWinners     int                `bson:"totalWinners" json:"totalWinners"`
	Status           string             `bson:"status" json:"status"`
	ContestStartDate time.Time          `bson:"contestStartDate" json:"contestStartDate"`
	ContestEndDate   time.Time          `bson:"contestEndDate" json:"contestEndDate"`
	DrawDate         time.Time          `bson:"drawDate" json:"drawDate"`
	IsDrawCompleted  bool               `bson:"isDrawCompleted" json:"isDrawCompleted"`
	Categories       []Category         `bson:"categories" json:"categories"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// defaultCategoryNames are the conventional ten category names, each
// covering an equal slice of the contest's seat range.
var defaultCategoryNames = []string{
	"Bike", "Auto", "Car", "Jeep", "Van",
	"Bus", "Lorry", "Train", "Helicopter", "Airplane",
}

// DefaultCategories splits totalSeats into the conventional ten contiguous
// categories. totalSeats must be a positive multiple of ten.
func DefaultCategories(totalSeats int) ([]Category, error) {
	if totalSeats <= 0 || totalSeats%len(defaultCategoryNames) != 0 {
		return nil, fmt.Errorf("total seats must be a positive multiple of %d, got %d", len(defaultCategoryNames), totalSeats)
	}
	size := totalSeats / len(defaultCategoryNames)
	categories := make([]Category, 0, len(defaultCategoryNames))
	for i, name := range defaultCategoryNames {
		start := i*size + 1
		categories = append(categories, Category{
			CategoryID:     i + 1,
			CategoryName:   name,
			SeatRangeStart: start,
			SeatRangeEnd:   start + size - 1,
			TotalSeats:     size,
			AvailableSeats: size,
		})
	}
	return categories, nil
}

// CategoryForSeat maps a seat number to its category using the contest's own
// category list.
func (c *Contest) CategoryForSeat(seatNumber int) (*Category, error) {
	for i := range c.Categories {
		cat := &c.Categories[i]
		if seatNumber >= cat.SeatRangeStart && seatNumber <= cat.SeatRangeEnd {
			return cat, nil
		}
	}
	return nil, fmt.Errorf("seat number %d is outside every category range", seatNumber)
}

// CategoryByID returns the category with the given id.
func (c *Contest) CategoryByID(categoryID int) (*Category, error) {
	for i := range c.Categories {
		if c.Categories[i].CategoryID == categoryID {
			return &c.Categories[i], nil
		}
	}
	return nil, fmt.Errorf("contest has no category %d", categoryID)
}

// ValidateCategories checks that the categories are non-overlapping,
// contiguous and cover exactly 1..TotalSeats.
func (c *Contest) ValidateCategories() error {
	next := 1
	for _, cat := range c.Categories {
		if cat.SeatRangeStart != next {
			return fmt.Errorf("category %d starts at %d, expected %d", cat.CategoryID, cat.SeatRangeStart, next)
		}
		if cat.SeatRangeEnd < cat.SeatRangeStart {
			return fmt.Errorf("category %d has an empty seat range", cat.CategoryID)
		}
		if cat.TotalSeats != cat.SeatRangeEnd-cat.SeatRangeStart+1 {
			return fmt.Errorf("category %d seat count does not match its range", cat.CategoryID)
		}
		next = cat.SeatRangeEnd + 1
	}
	if next-1 != c.TotalSeats {
		return fmt.Errorf("categories cover %d seats, contest has %d", next-1, c.TotalSeats)
	}
	return nil
}
