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

// Compile-time check to ensure PrizeStructureRepository implements the interface
var _ repositories.PrizeStructureRepository = (*PrizeStructureRepository)(nil)

// PrizeStructureRepository handles MongoDB operations for PrizeStructure
type PrizeStructureRepository struct {
	collection *mongo.Collection
}

// NewPrizeStructureRepository creates a new PrizeStructureRepository
func NewPrizeStructureRepository(db *mongo.Database) *PrizeStructureRepository {
	return &PrizeStructureRepository{
		collection: db.Collection("prize_structure"),
	}
}

// CreateMany inserts the prize ranks of one contest
func (r *PrizeStructureRepository) CreateMany(ctx context.Context, prizes []*models.PrizeStructure) error {
	if len(prizes) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(prizes))
	for _, prize := range prizes {
		prize.ID = primitive.NewObjectID()
		prize.CreatedAt = time.Now()
		docs = append(docs, prize)
	}
	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// FindByContest returns the prize table sorted ascending by rank
func (r *PrizeStructureRepository) FindByContest(ctx context.Context, contestID primitive.ObjectID) ([]*models.PrizeStructure, error) {
	cursor, err := r.collection.Find(ctx,
		bson.M{"contestId": contestID},
		options.Find().SetSort(bson.D{{Key: "prizeRank", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var prizes []*models.PrizeStructure
	if err := cursor.All(ctx, &prizes); err != nil {
		return nil, err
	}
	return prizes, nil
}

// DeleteByContest removes the contest's prize table (replace-before-draw path)
func (r *PrizeStructureRepository) DeleteByContest(ctx context.Context, contestID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"contestId": contestID})
	return err
}
