package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

// HistoryRepository persists the append-only performance history. Entries
// are also embedded in the session document; this collection exists so
// operators can query answers across sessions.
type HistoryRepository interface {
	Append(ctx context.Context, entry *model.PerformanceEntry) error
	GetBySessionID(ctx context.Context, sessionID string) ([]*model.PerformanceEntry, error)
	GetByCategory(ctx context.Context, categoryID string, limit int64) ([]*model.PerformanceEntry, error)
}

type historyRepository struct {
	collection *mongo.Collection
}

func NewHistoryRepository(client *mongo.Client, dbName string) HistoryRepository {
	db := client.Database(dbName)
	return &historyRepository{
		collection: db.Collection("performance_history"),
	}
}

func (r *historyRepository) Append(ctx context.Context, entry *model.PerformanceEntry) error {
	_, err := r.collection.InsertOne(ctx, entry)
	return err
}

func (r *historyRepository) GetBySessionID(ctx context.Context, sessionID string) ([]*model.PerformanceEntry, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"sessionId": sessionID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.PerformanceEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *historyRepository) GetByCategory(ctx context.Context, categoryID string, limit int64) ([]*model.PerformanceEntry, error) {
	opts := options.Find().SetSort(bson.M{"timestamp": -1}).SetLimit(limit)
	cursor, err := r.collection.Find(ctx, bson.M{"categoryId": categoryID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var entries []*model.PerformanceEntry
	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
