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
)

// Compile-time check to ensure BankDetailsRepository implements the interface
var _ repositories.BankDetailsRepository = (*BankDetailsRepository)(nil)

// BankDetailsRepository handles MongoDB operations for BankDetails
type BankDetailsRepository struct {
	collection *mongo.Collection
}

// NewBankDetailsRepository creates a new BankDetailsRepository
func NewBankDetailsRepository(db *mongo.Database) *BankDetailsRepository {
	return &BankDetailsRepository{
		collection: db.Collection("bank_details"),
	}
}

// Create inserts new bank details
func (r *BankDetailsRepository) Create(ctx context.Context, details *models.BankDetails) error {
	details.ID = primitive.NewObjectID()
	details.CreatedAt = time.Now()
	details.UpdatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, details)
	return err
}

// FindByID finds bank details by ID
func (r *BankDetailsRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.BankDetails, error) {
	var details models.BankDetails
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&details)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &details, nil
}

// FindByUser returns every payout destination of a user
func (r *BankDetailsRepository) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.BankDetails, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var details []*models.BankDetails
	if err := cursor.All(ctx, &details); err != nil {
		return nil, err
	}
	return details, nil
}

// Update updates existing bank details
func (r *BankDetailsRepository) Update(ctx context.Context, details *models.BankDetails) error {
	details.UpdatedAt = time.Now()
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": details.ID}, bson.M{"$set": details})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}

// Delete removes bank details by ID
func (r *BankDetailsRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repositories.ErrNotFound
	}
	return nil
}
