package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	GetByID(ctx context.Context, id string) (*model.Session, error)
	Update(ctx context.Context, session *model.Session) error
	ListActive(ctx context.Context) ([]*model.Session, error)
}

type sessionRepository struct {
	collection *mongo.Collection
}

func NewSessionRepository(client *mongo.Client, dbName string) SessionRepository {
	db := client.Database(dbName)
	return &sessionRepository{
		collection: db.Collection("sessions"),
	}
}

func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	_, err := r.collection.InsertOne(ctx, session)
	return err
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *model.Session) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session, opts)
	return err
}

func (r *sessionRepository) ListActive(ctx context.Context) ([]*model.Session, error) {
	filter := bson.M{"phase": bson.M{"$nin": []model.Phase{
		model.PhaseTerminatedNormal,
		model.PhaseTerminatedViolation,
	}}}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
