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

var (
	_ repositories.PrizeStructureRepository = (*PrizeStructureRepository)(nil)
	_ repositories.WinnerRepository         = (*WinnerRepository)(nil)
	_ repositories.BankDetailsRepository    = (*BankDetailsRepository)(nil)
	_ repositories.NotificationRepository   = (*NotificationRepository)(nil)
)

// PrizeStructureRepository is an in-memory PrizeStructureRepository.
type PrizeStructureRepository struct {
	mu     sync.Mutex
	prizes []*models.PrizeStructure
}

// NewPrizeStructureRepository creates an empty in-memory prize table store.
func NewPrizeStructureRepository() *PrizeStructureRepository {
	return &PrizeStructureRepository{}
}

func (r *PrizeStructureRepository) CreateMany(ctx context.Context, prizes []*models.PrizeStructure) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, prize := range prizes {
		prize.ID = primitive.NewObjectID()
		prize.CreatedAt = time.Now()
		clone := *prize
		clone.WinnerSeatNumbers = append([]int(nil), prize.WinnerSeatNumbers...)
		r.prizes = append(r.prizes, &clone)
	}
	return nil
}

func (r *PrizeStructureRepository) FindByContest(ctx context.Context, contestID primitive.ObjectID) ([]*models.PrizeStructure, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.PrizeStructure
	for _, prize := range r.prizes {
		if prize.ContestID == contestID {
			clone := *prize
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PrizeRank < out[j].PrizeRank })
	return out, nil
}

func (r *PrizeStructureRepository) DeleteByContest(ctx context.Context, contestID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.prizes[:0]
	for _, prize := range r.prizes {
		if prize.ContestID != contestID {
			kept = append(kept, prize)
		}
	}
	r.prizes = kept
	return nil
}

// WinnerRepository is an in-memory WinnerRepository.
type WinnerRepository struct {
	mu      sync.Mutex
	winners []*models.Winner
}

// NewWinnerRepository creates an empty in-memory winner store.
func NewWinnerRepository() *WinnerRepository {
	return &WinnerRepository{}
}

func (r *WinnerRepository) CreateMany(ctx context.Context, winners []*models.Winner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, winner := range winners {
		winner.ID = primitive.NewObjectID()
		winner.CreatedAt = time.Now()
		clone := *winner
		r.winners = append(r.winners, &clone)
	}
	return nil
}

func (r *WinnerRepository) FindByContest(ctx context.Context, contestID primitive.ObjectID) ([]*models.Winner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Winner
	for _, winner := range r.winners {
		if winner.ContestID == contestID {
			clone := *winner
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PrizeRank != out[j].PrizeRank {
			return out[i].PrizeRank < out[j].PrizeRank
		}
		return out[i].SeatNumber < out[j].SeatNumber
	})
	return out, nil
}

func (r *WinnerRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Winner
	for _, winner := range r.winners {
		if winner.UserID == userID {
			clone := *winner
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *WinnerRepository) CountByContest(ctx context.Context, contestID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, winner := range r.winners {
		if winner.ContestID == contestID {
			n++
		}
	}
	return n, nil
}

func (r *WinnerRepository) PrizeDistribution(ctx context.Context, contestID primitive.ObjectID) ([]models.PrizeDistribution, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byRank := make(map[int]*models.PrizeDistribution)
	for _, winner := range r.winners {
		if winner.ContestID != contestID {
			continue
		}
		entry, ok := byRank[winner.PrizeRank]
		if !ok {
			entry = &models.PrizeDistribution{PrizeRank: winner.PrizeRank, PrizeAmount: winner.PrizeAmount}
			byRank[winner.PrizeRank] = entry
		}
		entry.WinnerCount++
		entry.TotalAmount += winner.PrizeAmount
	}
	var out []models.PrizeDistribution
	for _, entry := range byRank {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PrizeRank < out[j].PrizeRank })
	return out, nil
}

func (r *WinnerRepository) MarkClaimed(ctx context.Context, id primitive.ObjectID, claimedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, winner := range r.winners {
		if winner.ID == id && !winner.IsPrizeClaimed {
			winner.IsPrizeClaimed = true
			winner.PrizeClaimedDate = &claimedAt
			return nil
		}
	}
	return repositories.ErrNotFound
}

// BankDetailsRepository is an in-memory BankDetailsRepository.
type BankDetailsRepository struct {
	mu      sync.Mutex
	details map[primitive.ObjectID]*models.BankDetails
}

// NewBankDetailsRepository creates an empty in-memory bank-details store.
func NewBankDetailsRepository() *BankDetailsRepository {
	return &BankDetailsRepository{details: make(map[primitive.ObjectID]*models.BankDetails)}
}

func (r *BankDetailsRepository) Create(ctx context.Context, details *models.BankDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	details.ID = primitive.NewObjectID()
	details.CreatedAt = time.Now()
	details.UpdatedAt = time.Now()
	clone := *details
	r.details[details.ID] = &clone
	return nil
}

func (r *BankDetailsRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BankDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	details, ok := r.details[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *details
	return &clone, nil
}

func (r *BankDetailsRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.BankDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.BankDetails
	for _, details := range r.details {
		if details.UserID == userID {
			clone := *details
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *BankDetailsRepository) Update(ctx context.Context, details *models.BankDetails) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.details[details.ID]; !ok {
		return repositories.ErrNotFound
	}
	details.UpdatedAt = time.Now()
	clone := *details
	r.details[details.ID] = &clone
	return nil
}

func (r *BankDetailsRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.details[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.details, id)
	return nil
}

// NotificationRepository is an in-memory NotificationRepository.
type NotificationRepository struct {
	mu            sync.Mutex
	notifications []*models.Notification
}

// NewNotificationRepository creates an empty in-memory notification store.
func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now()
	clone := *notification
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *NotificationRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Notification
	for _, notification := range r.notifications {
		if notification.UserID == userID || notification.UserID == primitive.NilObjectID {
			clone := *notification
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	start := (page - 1) * limit
	if start >= len(out) {
		return nil, nil
	}
	end := start + limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID, readAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, notification := range r.notifications {
		if notification.ID == id && notification.UserID == userID {
			notification.IsRead = true
			notification.ReadAt = &readAt
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, notification := range r.notifications {
		if notification.UserID == userID && !notification.IsRead {
			n++
		}
	}
	return n, nil
}
