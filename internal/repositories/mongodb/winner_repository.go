package mongodb

import (
	"context"
	"time"

	"github.com/luckyseats/lottery-backend/internal/models"
	"github.com/luckyseats/lottery-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Compile-time check to ensure WinnerRepository implements the interface
var _ repositories.WinnerRepository = (*WinnerRepository)(nil)

// WinnerRepository handles MongoDB operations for Winner
type WinnerRepository struct {
	collection *mongo.Collection
}

// NewWinnerRepository creates a new WinnerRepository
func NewWinnerRepository(db *mongo.Database) *WinnerRepository {
	return &WinnerRepository{
		collection: db.Collection("winners"),
	}
}

// CreateMany inserts winner records
func (r *WinnerRepository) CreateMany(ctx context.Context, winners []*models.Winner) error {
	if len(winners) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(winners))
	for _, winner := range winners {
		winner.ID = primitive.NewObjectID()
		winner.CreatedAt = time.Now()
		docs = append(docs, winner)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByContest returns every winner of a contest ordered by prize rank
func (r *WinnerRepository) FindByContest(ctx context.Context, contestID primitive.ObjectID) ([]*models.Winner, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"contestId": contestID},
		options.Find().SetSort(bson.D{{Key: "prizeRank", Value: 1}, {Key: "seatNumber", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	return winners, nil
}

// FindByUser returns a user's wins, newest draw first
func (r *WinnerRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.Winner, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"userId": userID},
		options.Find().SetSort(bson.D{{Key: "drawDate", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var winners []*models.Winner
	if err := cursor.All(ctx, &winners); err != nil {
		return nil, err
	}
	return winners, nil
}

// CountByContest returns the number of winner records for a contest
func (r *WinnerRepository) CountByContest(ctx context.Context, contestID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"contestId": contestID})
}

// PrizeDistribution groups a contest's winners by prize rank
func (r *WinnerRepository) PrizeDistribution(ctx context.Context, contestID primitive.ObjectID) ([]models.PrizeDistribution, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"contestId": contestID}}},
		{{Key: "$group", Value: bson.M{
			"_id":         "$prizeRank",
			"prizeAmount": bson.M{"$first": "$prizeAmount"},
			"winnerCount": bson.M{"$sum": 1},
			"totalAmount": bson.M{"$sum": "$prizeAmount"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var distribution []models.PrizeDistribution
	if err := cursor.All(ctx, &distribution); err != nil {
		return nil, err
	}
	return distribution, nil
}

// MarkClaimed flags a winner record as claimed
func (r *WinnerRepository) MarkClaimed(ctx context.Context, id primitive.ObjectID, claimedAt time.Time) error {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "isPrizeClaimed": false},
		bson.M{"$set": bson.M{
			"isPrizeClaimed":   true,
			"prizeClaimedDate": claimedAt,
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
