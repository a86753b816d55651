package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.WalletTransactionRepository = (*WalletTransactionRepository)(nil)

// WalletTransactionRepository is an in-memory ledger enforcing
// transaction-id uniqueness like the mongo unique index.
type WalletTransactionRepository struct {
	mu   sync.Mutex
	rows []*models.WalletTransaction
	ids  map[string]bool
}

// NewWalletTransactionRepository creates an empty in-memory ledger.
func NewWalletTransactionRepository() *WalletTransactionRepository {
	return &WalletTransactionRepository{ids: make(map[string]bool)}
}

func (r *WalletTransactionRepository) Create(ctx context.Context, txn *models.WalletTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ids[txn.TransactionID] {
		return fmt.Errorf("duplicate transaction id %q", txn.TransactionID)
	}
	txn.ID = primitive.NewObjectID()
	txn.CreatedAt = time.Now()
	clone := *txn
	r.rows = append(r.rows, &clone)
	r.ids[txn.TransactionID] = true
	return nil
}

func (r *WalletTransactionRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, category string, page, limit int) ([]*models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WalletTransaction
	for _, row := range r.rows {
		if row.UserID != userID {
			continue
		}
		if category != "" && row.Category != category {
			continue
		}
		clone := *row
		out = append(out, &clone)
	}
	// Newest first, as the mongo implementation sorts.
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

func (r *WalletTransactionRepository) FindByReference(ctx context.Context, userID primitive.ObjectID, category, referenceID string) (*models.WalletTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.rows {
		if row.UserID == userID && row.Category == category && row.ReferenceID == referenceID {
			clone := *row
			return &clone, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *WalletTransactionRepository) Summary(ctx context.Context, userID primitive.ObjectID, since time.Time) (float64, float64, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var credit, debit float64
	var count int
	for _, row := range r.rows {
		if row.UserID != userID || row.CreatedAt.Before(since) {
			continue
		}
		count++
		if row.TransactionType == models.TransactionTypeCredit {
			credit += row.Amount
		} else {
			debit += row.Amount
		}
	}
	return credit, debit, count, nil
}

// All returns every ledger row for a user in insertion order; test helper.
func (r *WalletTransactionRepository) All(userID primitive.ObjectID) []*models.WalletTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.WalletTransaction
	for _, row := range r.rows {
		if row.UserID == userID {
			clone := *row
			out = append(out, &clone)
		}
	}
	return out
}
