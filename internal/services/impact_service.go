package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tolo017/eco-sawa/internal/db"
	"github.com/tolo017/eco-sawa/internal/models"
)

// IImpactService defines the interface for the daily impact ledger.
type IImpactService interface {
	RecordCompletion(ctx context.Context, day string, quantityKg float64) error
	CurrentImpact(ctx context.Context) (*models.Impact, error)
	ImpactForDay(ctx context.Context, day string) (*models.ImpactEntry, error)
}

const impactCollection = "impact"

// DayKey formats a timestamp as the UTC calendar-day ledger key.
func DayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// impactService implements IImpactService.
type impactService struct {
	db *mongo.Database
}

// NewImpactService creates a new ImpactService.
func NewImpactService(database *mongo.Database) IImpactService {
	return &impactService{db: database}
}

// RecordCompletion adds a completed pickup to the day's entry, creating the
// entry lazily on the first completion of that day. Counters never decrement.
// The upsert can race on first creation of a day key, which surfaces as a
// duplicate key error, so it is retried.
func (s *impactService) RecordCompletion(ctx context.Context, day string, quantityKg float64) error {
	if quantityKg < 0 {
		return NewValidationError("quantityKg", "must not be negative")
	}
	collection := s.db.Collection(impactCollection)

	operation := func() error {
		filter := bson.M{"_id": day}
		update := bson.M{
			"$inc": bson.M{
				"total_kg": quantityKg,
				"pickups":  int64(1),
			},
		}
		_, err := collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
		return err
	}

	if err := db.Try(operation); err != nil {
		return fmt.Errorf("failed to record completion for day %s: %w", day, err)
	}
	return nil
}

// CurrentImpact returns today's totals, or zeros if nothing was completed yet.
func (s *impactService) CurrentImpact(ctx context.Context) (*models.Impact, error) {
	entry, err := s.ImpactForDay(ctx, DayKey(time.Now()))
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return &models.Impact{}, nil
	}
	return &models.Impact{TotalKg: entry.TotalKg, PickupsToday: entry.Pickups}, nil
}

// ImpactForDay returns the ledger entry for a specific day, or nil if none.
func (s *impactService) ImpactForDay(ctx context.Context, day string) (*models.ImpactEntry, error) {
	var entry models.ImpactEntry
	err := s.db.Collection(impactCollection).FindOne(ctx, bson.M{"_id": day}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load impact entry for day %s: %w", day, err)
	}
	return &entry, nil
}
