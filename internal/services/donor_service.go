package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tolo017/eco-sawa/internal/db"
	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// IDonorService defines the interface for donor operations.
type IDonorService interface {
	RegisterDonor(ctx context.Context, id *utils.SixID, name, phone string) (*models.Donor, error)
	FindDonorByID(ctx context.Context, donorID utils.SixID) (*models.Donor, error)
	// RecomputeReputation derives the donor's reputation from all of their
	// listings at call time and persists it. Returns the new reputation.
	RecomputeReputation(ctx context.Context, donorID utils.SixID) (float64, error)
}

const donorsCollection = "donors"

// donorService implements IDonorService.
type donorService struct {
	db *mongo.Database
}

// NewDonorService creates a new DonorService.
func NewDonorService(database *mongo.Database) IDonorService {
	return &donorService{db: database}
}

// RegisterDonor creates (or refreshes) a donor record. When id is nil a new
// one is generated; registration is upsert-style so re-registering an
// existing donor updates name/phone without touching reputation.
func (s *donorService) RegisterDonor(ctx context.Context, id *utils.SixID, name, phone string) (*models.Donor, error) {
	collection := s.db.Collection(donorsCollection)
	now := time.Now().UTC()

	donorID := utils.NewSixID()
	if id != nil && !id.IsZero() {
		donorID = *id
	}
	if name == "" {
		name = fmt.Sprintf("Donor %s", donorID.String())
	}

	filter := bson.M{"_id": donorID}
	update := bson.M{
		"$set": bson.M{
			"name":       name,
			"phone":      phone,
			"updated_at": now,
		},
		"$setOnInsert": bson.M{
			"reputation": models.DefaultReputation,
			"created_at": now,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var donor models.Donor
	operation := func() error {
		return collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&donor)
	}
	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to register donor %s: %w", donorID.String(), err)
	}
	return &donor, nil
}

// FindDonorByID finds a donor by its ID.
func (s *donorService) FindDonorByID(ctx context.Context, donorID utils.SixID) (*models.Donor, error) {
	var donor models.Donor
	err := s.db.Collection(donorsCollection).FindOne(ctx, bson.M{"_id": donorID}).Decode(&donor)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding donor %s: %w", donorID.String(), err)
	}
	return &donor, nil
}

// RecomputeReputation counts the donor's listings and completed listings and
// derives reputation as (successful/total)*5 rounded to 2 decimals, 5.0 when
// the donor has no listings. Recomputing from scratch avoids drift.
func (s *donorService) RecomputeReputation(ctx context.Context, donorID utils.SixID) (float64, error) {
	listings := s.db.Collection(listingsCollection)

	total, err := listings.CountDocuments(ctx, bson.M{"donor_id": donorID})
	if err != nil {
		return 0, fmt.Errorf("failed to count listings for donor %s: %w", donorID.String(), err)
	}
	successful, err := listings.CountDocuments(ctx, bson.M{"donor_id": donorID, "status": models.StatusCompleted})
	if err != nil {
		return 0, fmt.Errorf("failed to count completed listings for donor %s: %w", donorID.String(), err)
	}

	reputation := models.DefaultReputation
	if total > 0 {
		reputation = math.Round(float64(successful)/float64(total)*5*100) / 100
	}

	update := bson.M{"$set": bson.M{
		"reputation": reputation,
		"updated_at": time.Now().UTC(),
	}}
	result, err := s.db.Collection(donorsCollection).UpdateByID(ctx, donorID, update)
	if err != nil {
		return 0, fmt.Errorf("failed to store reputation for donor %s: %w", donorID.String(), err)
	}
	if result.MatchedCount == 0 {
		return 0, ErrNotFound
	}
	return reputation, nil
}
