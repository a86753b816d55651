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

var _ repositories.WithdrawalRepository = (*WithdrawalRepository)(nil)

// WithdrawalRepository is an in-memory WithdrawalRepository.
type WithdrawalRepository struct {
	mu          sync.Mutex
	withdrawals map[primitive.ObjectID]*models.Withdrawal
}

// NewWithdrawalRepository creates an empty in-memory withdrawal store.
func NewWithdrawalRepository() *WithdrawalRepository {
	return &WithdrawalRepository{withdrawals: make(map[primitive.ObjectID]*models.Withdrawal)}
}

func (r *WithdrawalRepository) Create(ctx context.Context, withdrawal *models.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	withdrawal.ID = primitive.NewObjectID()
	withdrawal.CreatedAt = time.Now()
	withdrawal.UpdatedAt = time.Now()
	clone := *withdrawal
	r.withdrawals[withdrawal.ID] = &clone
	return nil
}

func (r *WithdrawalRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	withdrawal, ok := r.withdrawals[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	clone := *withdrawal
	return &clone, nil
}

func (r *WithdrawalRepository) Update(ctx context.Context, withdrawal *models.Withdrawal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.withdrawals[withdrawal.ID]; !ok {
		return repositories.ErrNotFound
	}
	withdrawal.UpdatedAt = time.Now()
	clone := *withdrawal
	r.withdrawals[withdrawal.ID] = &clone
	return nil
}

func (r *WithdrawalRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.withdrawals, id)
	return nil
}

func (r *WithdrawalRepository) FindOutstandingByUser(ctx context.Context, userID primitive.ObjectID) (*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, withdrawal := range r.withdrawals {
		if withdrawal.UserID != userID {
			continue
		}
		if withdrawal.Status == models.WithdrawalStatusPending || withdrawal.Status == models.WithdrawalStatusProcessing {
			clone := *withdrawal
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *WithdrawalRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Withdrawal
	for _, withdrawal := range r.withdrawals {
		if withdrawal.UserID == userID {
			clone := *withdrawal
			out = append(out, &clone)
		}
	}
	sortWithdrawals(out)
	return paginateWithdrawals(out, page, limit), nil
}

func (r *WithdrawalRepository) FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Withdrawal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Withdrawal
	for _, withdrawal := range r.withdrawals {
		if status == "" || withdrawal.Status == status {
			clone := *withdrawal
			out = append(out, &clone)
		}
	}
	sortWithdrawals(out)
	return paginateWithdrawals(out, page, limit), nil
}

func (r *WithdrawalRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, withdrawal := range r.withdrawals {
		if status == "" || withdrawal.Status == status {
			n++
		}
	}
	return n, nil
}

func sortWithdrawals(withdrawals []*models.Withdrawal) {
	sort.SliceStable(withdrawals, func(i, j int) bool {
		return withdrawals[i].CreatedAt.After(withdrawals[j].CreatedAt)
	})
}

func paginateWithdrawals(withdrawals []*models.Withdrawal, page, limit int) []*models.Withdrawal {
	start := (page - 1) * limit
	if start >= len(withdrawals) {
		return nil
	}
	end := start + limit
	if end > len(withdrawals) {
		end = len(withdrawals)
	}
	return withdrawals[start:end]
}
