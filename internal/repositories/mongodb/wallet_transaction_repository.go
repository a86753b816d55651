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

// Compile-time check to ensure WalletTransactionRepository implements the interface
var _ repositories.WalletTransactionRepository = (*WalletTransactionRepository)(nil)

// WalletTransactionRepository handles MongoDB operations for the wallet ledger
type WalletTransactionRepository struct {
	collection *mongo.Collection
}

// NewWalletTransactionRepository creates a new WalletTransactionRepository
func NewWalletTransactionRepository(db *mongo.Database) *WalletTransactionRepository {
	return &WalletTransactionRepository{
		collection: db.Collection("wallet_transactions"),
	}
}

// Create appends one ledger row. The unique transactionId index rejects a
// duplicate append of the same transaction.
func (r *WalletTransactionRepository) Create(ctx context.Context, txn *models.WalletTransaction) error {
	txn.ID = primitive.NewObjectID()
	txn.CreatedAt = time.Now()
	_, err := r.collection.InsertOne(ctx, txn)
	return err
}

// FindByUser returns a user's ledger rows newest first, optionally filtered
// by category
func (r *WalletTransactionRepository) FindByUser(ctx context.Context, userID primitive.ObjectID, category string, page, limit int) ([]*models.WalletTransaction, error) {
	filter := bson.M{"userId": userID}
	if category != "" {
		filter["category"] = category
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var transactions []*models.WalletTransaction
	if err := cursor.All(ctx, &transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindByReference looks up a prior row by category and reference id
func (r *WalletTransactionRepository) FindByReference(ctx context.Context, userID primitive.ObjectID, category, referenceID string) (*models.WalletTransaction, error) {
	var txn models.WalletTransaction
	err := r.collection.FindOne(ctx, bson.M{
		"userId":      userID,
		"category":    category,
		"referenceId": referenceID,
	}).Decode(&txn)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repositories.ErrNotFound
		}
		return nil, err
	}
	return &txn, nil
}

// Summary aggregates credit and debit totals for a user since the given time
func (r *WalletTransactionRepository) Summary(ctx context.Context, userID primitive.ObjectID, since time.Time) (float64, float64, int, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"userId":    userID,
			"createdAt": bson.M{"$gte": since},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id": nil,
			"credit": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$transactionType", models.TransactionTypeCredit}}, "$amount", 0},
			}},
			"debit": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$transactionType", models.TransactionTypeDebit}}, "$amount", 0},
			}},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, 0, err
	}
	defer cursor.Close(ctx)

	var results []struct {
		Credit float64 `bson:"credit"`
		Debit  float64 `bson:"debit"`
		Count  int     `bson:"count"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, 0, nil
	}
	return results[0].Credit, results[0].Debit, results[0].Count, nil
}
