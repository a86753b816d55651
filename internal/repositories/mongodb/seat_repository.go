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

// Compile-time check to ensure SeatRepository implements the interface
var _ repositories.SeatRepository = (*SeatRepository)(nil)

// SeatRepository handles MongoDB operations for PurchasedSeat
type SeatRepository struct {
	collection *mongo.Collection
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db *mongo.Database) *SeatRepository {
	return &SeatRepository{
		collection: db.Collection("purchased_seats"),
	}
}

// CreateMany inserts a purchase batch. The unique (contestId, seatNumber)
// index is the authority on seat collisions: a concurrent purchase of the
// same seat surfaces here as a duplicate-key error, never as a double sale.
// On conflict the documents that did get inserted are removed again so the
// batch is all-or-nothing.
func (r *SeatRepository) CreateMany(ctx context.Context, seats []*models.PurchasedSeat) error {
	if len(seats) == 0 {
		return nil
	}
	docs := make([]interface{}, 0, len(seats))
	for _, seat := range seats {
		seat.ID = primitive.NewObjectID()
		seat.CreatedAt = time.Now()
		docs = append(docs, seat)
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return nil
	}

	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) {
		conflict := &repositories.SeatConflictError{}
		for _, writeErr := range bulkErr.WriteErrors {
			if writeErr.Code == 11000 && writeErr.Index >= 0 && writeErr.Index < len(seats) {
				conflict.SeatNumbers = append(conflict.SeatNumbers, seats[writeErr.Index].SeatNumber)
			}
		}
		if len(conflict.SeatNumbers) > 0 {
			// Roll back the part of the unordered batch that went through.
			_ = r.DeleteByTransactionID(ctx, seats[0].ContestID, seats[0].TransactionID)
			return conflict
		}
	}
	return err
}

// DeleteByTransactionID removes every seat inserted under one purchase
// transaction id
func (r *SeatRepository) DeleteByTransactionID(ctx context.Context, contestID primitive.ObjectID, transactionID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{
		"contestId":     contestID,
		"transactionId": transactionID,
	})
	return err
}

// FindPurchased returns purchased-status seats for a contest; categoryID 0
// matches every category
func (r *SeatRepository) FindPurchased(ctx context.Context, contestID primitive.ObjectID, categoryID int) ([]*models.PurchasedSeat, error) {
	filter := bson.M{
		"contestId": contestID,
		"status":    models.PurchaseStatusPurchased,
	}
	if categoryID != 0 {
		filter["categoryId"] = categoryID
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "seatNumber", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var seats []*models.PurchasedSeat
	if err := cursor.All(ctx, &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

// FindByUser returns a user's seats, optionally restricted to one contest
func (r *SeatRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, contestID *primitive.ObjectID) ([]*models.PurchasedSeat, error) {
	filter := bson.M{"userId": userID}
	if contestID != nil {
		filter["contestId"] = *contestID
	}
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "purchaseDate", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var seats []*models.PurchasedSeat
	if err := cursor.All(ctx, &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

// MarkWinner stamps a seat as a winner exactly once. The isWinner guard in
// the filter makes the draw's apply step safe to re-enter: a seat that was
// already stamped reports false and must not be credited again.
func (r *SeatRepository) MarkWinner(ctx context.Context, contestID primitive.ObjectID, seatNumber int, prizeAmount float64) (bool, error) {
	res, err := r.collection.UpdateOne(ctx,
		bson.M{
			"contestId":  contestID,
			"seatNumber": seatNumber,
			"status":     models.PurchaseStatusPurchased,
			"isWinner":   false,
		},
		bson.M{"$set": bson.M{
			"isWinner":    true,
			"prizeAmount": prizeAmount,
		}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// CountPurchased returns the number of purchased-status seats in a contest
func (r *SeatRepository) CountPurchased(ctx context.Context, contestID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"contestId": contestID,
		"status":    models.PurchaseStatusPurchased,
	})
}
