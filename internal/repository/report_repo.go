package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/vinaythanay/Interview-ChatBOt/internal/model"
)

type ReportRepository interface {
	Save(ctx context.Context, report *model.PerformanceReport) error
	GetBySessionID(ctx context.Context, sessionID string) (*model.PerformanceReport, error)
	SaveFeedback(ctx context.Context, feedback *model.Feedback) error
}

type reportRepository struct {
	reports  *mongo.Collection
	feedback *mongo.Collection
}

func NewReportRepository(client *mongo.Client, dbName string) ReportRepository {
	db := client.Database(dbName)
	return &reportRepository{
		reports:  db.Collection("reports"),
		feedback: db.Collection("feedback"),
	}
}

func (r *reportRepository) Save(ctx context.Context, report *model.PerformanceReport) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.reports.ReplaceOne(ctx, bson.M{"_id": report.SessionID}, report, opts)
	return err
}

func (r *reportRepository) GetBySessionID(ctx context.Context, sessionID string) (*model.PerformanceReport, error) {
	var report model.PerformanceReport
	err := r.reports.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&report)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) SaveFeedback(ctx context.Context, feedback *model.Feedback) error {
	_, err := r.feedback.InsertOne(ctx, feedback)
	return err
}
