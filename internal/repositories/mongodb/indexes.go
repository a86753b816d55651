package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the core invariants depend on. The two
// unique indexes are load-bearing: seat uniqueness per contest and ledger
// transaction-id uniqueness are enforced here, not by application-level
// check-then-insert.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	seatIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "contestId", Value: 1}, {Key: "seatNumber", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_contest_seat"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "contestId", Value: 1}},
			Options: options.Index().SetName("user_contest"),
		},
	}
	if _, err := db.Collection("purchased_seats").Indexes().CreateMany(ctx, seatIndexes); err != nil {
		return fmt.Errorf("failed to create purchased_seats indexes: %w", err)
	}

	ledgerIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transactionId", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_transaction_id"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("user_created"),
		},
	}
	if _, err := db.Collection("wallet_transactions").Indexes().CreateMany(ctx, ledgerIndexes); err != nil {
		return fmt.Errorf("failed to create wallet_transactions indexes: %w", err)
	}

	withdrawalIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("user_status"),
		},
	}
	if _, err := db.Collection("withdrawals").Indexes().CreateMany(ctx, withdrawalIndexes); err != nil {
		return fmt.Errorf("failed to create withdrawals indexes: %w", err)
	}

	prizeIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "contestId", Value: 1}, {Key: "prizeRank", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_contest_rank"),
		},
	}
	if _, err := db.Collection("prize_structure").Indexes().CreateMany(ctx, prizeIndexes); err != nil {
		return fmt.Errorf("failed to create prize_structure indexes: %w", err)
	}

	return nil
}
