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
	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// IRescuerService defines the interface for rescuer operations.
type IRescuerService interface {
	RegisterRescuer(ctx context.Context, id *utils.SixID, name, phone string, location *geo.Coordinate) (*models.Rescuer, error)
	FindRescuerByID(ctx context.Context, rescuerID utils.SixID) (*models.Rescuer, error)
	FindNearby(ctx context.Context, center geo.Coordinate, radiusKm float64) ([]models.Rescuer, error)
	// ClaimedListingIDs returns the rescuer's claimed-but-not-completed listings.
	ClaimedListingIDs(ctx context.Context, rescuerID utils.SixID) ([]utils.SixID, error)
}

const rescuersCollection = "rescuers"

// rescuerService implements IRescuerService.
type rescuerService struct {
	db *mongo.Database
}

// NewRescuerService creates a new RescuerService.
func NewRescuerService(database *mongo.Database) IRescuerService {
	return &rescuerService{db: database}
}

// RegisterRescuer creates (or refreshes) a rescuer record.
func (s *rescuerService) RegisterRescuer(ctx context.Context, id *utils.SixID, name, phone string, location *geo.Coordinate) (*models.Rescuer, error) {
	if location != nil && !location.Valid() {
		return nil, NewValidationError("location", "coordinates out of range")
	}

	collection := s.db.Collection(rescuersCollection)
	now := time.Now().UTC()

	rescuerID := utils.NewSixID()
	if id != nil && !id.IsZero() {
		rescuerID = *id
	}
	if name == "" {
		name = fmt.Sprintf("Rescuer %s", rescuerID.String())
	}

	set := bson.M{
		"name":       name,
		"phone":      phone,
		"updated_at": now,
	}
	if location != nil {
		set["location"] = location
	}
	update := bson.M{
		"$set":         set,
		"$setOnInsert": bson.M{"created_at": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var rescuer models.Rescuer
	operation := func() error {
		return collection.FindOneAndUpdate(ctx, bson.M{"_id": rescuerID}, update, opts).Decode(&rescuer)
	}
	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to register rescuer %s: %w", rescuerID.String(), err)
	}
	return &rescuer, nil
}

// FindRescuerByID finds a rescuer by its ID.
func (s *rescuerService) FindRescuerByID(ctx context.Context, rescuerID utils.SixID) (*models.Rescuer, error) {
	var rescuer models.Rescuer
	err := s.db.Collection(rescuersCollection).FindOne(ctx, bson.M{"_id": rescuerID}).Decode(&rescuer)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding rescuer %s: %w", rescuerID.String(), err)
	}
	return &rescuer, nil
}

// FindNearby returns rescuers with a known location within radiusKm of the
// center. Distance is great-circle; rescuers without a location never match.
func (s *rescuerService) FindNearby(ctx context.Context, center geo.Coordinate, radiusKm float64) ([]models.Rescuer, error) {
	if !center.Valid() {
		return nil, NewValidationError("center", "coordinates out of range")
	}
	if radiusKm <= 0 {
		radiusKm = 5
	}

	cursor, err := s.db.Collection(rescuersCollection).Find(ctx, bson.M{"location": bson.M{"$ne": nil}})
	if err != nil {
		return nil, fmt.Errorf("failed to load rescuers for nearby lookup: %w", err)
	}
	defer cursor.Close(ctx)

	var nearby []models.Rescuer
	for cursor.Next(ctx) {
		var r models.Rescuer
		if err := cursor.Decode(&r); err != nil {
			return nil, fmt.Errorf("failed to decode rescuer: %w", err)
		}
		if r.Location == nil {
			continue
		}
		if geo.HaversineKm(center, *r.Location) <= radiusKm {
			nearby = append(nearby, r)
		}
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("rescuer cursor error: %w", err)
	}
	return nearby, nil
}

// ClaimedListingIDs scans listings claimed by the rescuer that are not yet
// completed; the set is derived rather than stored on the rescuer.
func (s *rescuerService) ClaimedListingIDs(ctx context.Context, rescuerID utils.SixID) ([]utils.SixID, error) {
	filter := bson.M{
		"claimed_by": rescuerID,
		"status":     models.StatusClaimed,
	}
	cursor, err := s.db.Collection(listingsCollection).Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to load claimed listings for rescuer %s: %w", rescuerID.String(), err)
	}
	defer cursor.Close(ctx)

	var ids []utils.SixID
	for cursor.Next(ctx) {
		var l models.Listing
		if err := cursor.Decode(&l); err != nil {
			return nil, fmt.Errorf("failed to decode listing: %w", err)
		}
		ids = append(ids, l.ID)
	}
	return ids, cursor.Err()
}
