package mongodb

import (
	"context"
	"errors"
	"time"

	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure ContestRepository implements the interface
var _ repositories.ContestRepository = (*ContestRepository)(nil)

// ContestRepository handles MongoDB operations for Contest
type ContestRepository struct {
	collection *mongo.Collection
}

// NewContestRepository creates a new ContestRepository
func NewContestRepository(db *mongo.Database) *ContestRepository {
	return &ContestRepository{
		collection: db.Collection("contests"),
	}
}

// Create inserts a new contest
func (r *ContestRepository) Create(ctx context.Context, contest *models.Contest) error {
	contest.ID = primitive.NewObjectID()
	contest.CreatedAt = time.Now()
	contest.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, contest)
	return err
}

// FindByID finds a contest by ID
func (r *ContestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Contest, error) {
	var contest models.Contest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&contest)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &contest, nil
}

// FindByStatus returns contests filtered by status; an empty status matches all
func (r *ContestRepository) FindByStatus(ctx context.Context, status string, page, limit int) ([]*models.Contest, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "drawDate", Value: 1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var contests []*models.Contest
	if err := cursor.All(ctx, &contests); err != nil {
		return nil, err
	}
	return contests, nil
}

// Update updates an existing contest
func (r *ContestRepository) Update(ctx context.Context, contest *models.Contest) error {
	contest.UpdatedAt = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": contest.ID}, bson.M{"$set": contest})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// ApplySeatCounters moves seats between available and purchased at contest
// level and per category. The per-category update is keyed by categoryId
// through the positional operator, one update per category in the batch.
func (r *ContestRepository) ApplySeatCounters(ctx context.Context, id primitive.ObjectID, total int, perCategory map[int]int) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$inc": bson.M{
			"purchasedSeats": total,
			"availableSeats": -total,
		},
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	for categoryID, count := range perCategory {
		_, err := r.collection.UpdateOne(ctx,
			bson.M{"_id": id, "categories.categoryId": categoryID},
			bson.M{"$inc": bson.M{
				"categories.$.purchasedSeats": count,
				"categories.$.availableSeats": -count,
			}},
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// MarkDrawCompleted atomically claims the draw for a contest. The guard on
// isDrawCompleted makes two concurrent draw calls mutually exclusive.
func (r *ContestRepository) MarkDrawCompleted(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isDrawCompleted": false},
		bson.M{"$set": bson.M{
			"isDrawCompleted": true,
			"status":          models.ContestStatusCompleted,
			"updatedAt":       time.Now(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Count returns the number of contests with the given status; empty matches all
func (r *ContestRepository) Count(ctx context.Context, status string) (int64, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.collection.CountDocuments(ctx, filter)
}
