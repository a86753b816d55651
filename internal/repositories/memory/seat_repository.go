package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.SeatRepository = (*SeatRepository)(nil)

type seatKey struct {
	contestID  primitive.ObjectID
	seatNumber int
}

// SeatRepository is an in-memory SeatRepository enforcing the same
// (contestId, seatNumber) uniqueness as the mongo unique index.
type SeatRepository struct {
	mu    sync.Mutex
	seats map[seatKey]*models.PurchasedSeat
}

// NewSeatRepository creates an empty in-memory seat store.
func NewSeatRepository() *SeatRepository {
	return &SeatRepository{seats: make(map[seatKey]*models.PurchasedSeat)}
}

func (r *SeatRepository) CreateMany(ctx context.Context, seats []*models.PurchasedSeat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	conflict := &repositories.SeatConflictError{}
	for _, seat := range seats {
		key := seatKey{seat.ContestID, seat.SeatNumber}
		if _, taken := r.seats[key]; taken {
			conflict.SeatNumbers = append(conflict.SeatNumbers, seat.SeatNumber)
		}
	}
	if len(conflict.SeatNumbers) > 0 {
		sort.Ints(conflict.SeatNumbers)
		return conflict
	}
	for _, seat := range seats {
		seat.ID = primitive.NewObjectID()
		seat.CreatedAt = time.Now()
		clone := *seat
		r.seats[seatKey{seat.ContestID, seat.SeatNumber}] = &clone
	}
	return nil
}

func (r *SeatRepository) DeleteByTransactionID(ctx context.Context, contestID primitive.ObjectID, transactionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, seat := range r.seats {
		if seat.ContestID == contestID && seat.TransactionID == transactionID {
			delete(r.seats, key)
		}
	}
	return nil
}

func (r *SeatRepository) FindPurchased(ctx context.Context, contestID primitive.ObjectID, categoryID int) ([]*models.PurchasedSeat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PurchasedSeat
	for _, seat := range r.seats {
		if seat.ContestID != contestID || seat.Status != models.PurchaseStatusPurchased {
			continue
		}
		if categoryID != 0 && seat.CategoryID != categoryID {
			continue
		}
		clone := *seat
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out, nil
}

func (r *SeatRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, contestID *primitive.ObjectID) ([]*models.PurchasedSeat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PurchasedSeat
	for _, seat := range r.seats {
		if seat.UserID != userID {
			continue
		}
		if contestID != nil && seat.ContestID != *contestID {
			continue
		}
		clone := *seat
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeatNumber < out[j].SeatNumber })
	return out, nil
}

func (r *SeatRepository) MarkWinner(ctx context.Context, contestID primitive.ObjectID, seatNumber int, prizeAmount float64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seat, ok := r.seats[seatKey{contestID, seatNumber}]
	if !ok || seat.Status != models.PurchaseStatusPurchased || seat.IsWinner {
		return false, nil
	}
	seat.IsWinner = true
	seat.PrizeAmount = prizeAmount
	return true, nil
}

func (r *SeatRepository) CountPurchased(ctx context.Context, contestID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, seat := range r.seats {
		if seat.ContestID == contestID && seat.Status == models.PurchaseStatusPurchased {
			n++
		}
	}
	return n, nil
}
