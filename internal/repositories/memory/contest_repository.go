package memory

import (
	"context"
	"sync"
	"time"

	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var _ repositories.ContestRepository = (*ContestRepository)(nil)

// ContestRepository is an in-memory ContestRepository.
type ContestRepository struct {
	mu       sync.Mutex
	contests map[primitive.ObjectID]*models.Contest
}

// NewContestRepository creates an empty in-memory contest store.
func NewContestRepository() *ContestRepository {
	return &ContestRepository{contests: make(map[primitive.ObjectID]*models.Contest)}
}

func cloneContest(c *models.Contest) *models.Contest {
	clone := *c
	clone.Categories = append([]models.Category(nil), c.Categories...)
	return &clone
}

func (r *ContestRepository) Create(ctx context.Context, contest *models.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	contest.ID = primitive.NewObjectID()
	contest.CreatedAt = time.Now()
	contest.UpdatedAt = time.Now()
	r.contests[contest.ID] = cloneContest(contest)
	return nil
}

func (r *ContestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	contest, ok := r.contests[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return cloneContest(contest), nil
}

func (r *ContestRepository) FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Contest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Contest
	for _, contest := range r.contests {
		if status == "" || contest.Status == status {
			out = append(out, cloneContest(contest))
		}
	}
	return out, nil
}

func (r *ContestRepository) Update(ctx context.Context, contest *models.Contest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.contests[contest.ID]; !ok {
		return repositories.ErrNotFound
	}
	contest.UpdatedAt = time.Now()
	r.contests[contest.ID] = cloneContest(contest)
	return nil
}

func (r *ContestRepository) ApplySeatCounters(ctx context.Context, id primitive.ObjectID, total int, perCategory map[int]int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	contest, ok := r.contests[id]
	if !ok {
		return repositories.ErrNotFound
	}
	contest.PurchasedSeats += total
	contest.AvailableSeats -= total
	for categoryID, count := range perCategory {
		for i := range contest.Categories {
			if contest.Categories[i].CategoryID == categoryID {
				contest.Categories[i].PurchasedSeats += count
				contest.Categories[i].AvailableSeats -= count
			}
		}
	}
	contest.UpdatedAt = time.Now()
	return nil
}

func (r *ContestRepository) MarkDrawCompleted(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	contest, ok := r.contests[id]
	if !ok || contest.IsDrawCompleted {
		return repositories.ErrNotFound
	}
	contest.IsDrawCompleted = true
	contest.Status = models.ContestStatusCompleted
	contest.UpdatedAt = time.Now()
	return nil
}

func (r *ContestRepository) Count(ctx context.Context, status string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, contest := range r.contests {
		if status == "" || contest.Status == status {
			n++
		}
	}
	return n, nil
}
