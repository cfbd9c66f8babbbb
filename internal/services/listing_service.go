package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/tolo017/eco-sawa/internal/config"
	"github.com/tolo017/eco-sawa/internal/db"
	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/urgency"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// CreateListingRequest is the typed input for CreateListing.
// DonorID and QuantityKg are required; everything else is optional with the
// defaulting rules applied in CreateListing.
type CreateListingRequest struct {
	DonorID          utils.SixID
	FoodType         string // defaults to "Surplus"
	QuantityKg       float64
	Category         string
	PerishabilityTag string
	Location         *geo.Coordinate // defaults to (0,0) when omitted
	Address          string
	TimeWindow       string
}

// IListingService owns the listing lifecycle state machine.
type IListingService interface {
	CreateListing(ctx context.Context, req CreateListingRequest) (*models.Listing, error)
	FindListingByID(ctx context.Context, listingID utils.SixID) (*models.Listing, error)
	FindListingsByIDs(ctx context.Context, listingIDs []utils.SixID) ([]models.Listing, error)
	Claim(ctx context.Context, listingID, rescuerID utils.SixID) error
	// ConfirmCompletion validates the proof token and completes the listing,
	// updating the impact ledger and the donor's reputation atomically with
	// the transition. Returns the donor's new reputation.
	ConfirmCompletion(ctx context.Context, listingID, rescuerID utils.SixID, token string) (float64, error)
	// ListAvailable returns a snapshot of available listings ordered by
	// urgency class, then earliest time-window start.
	ListAvailable(ctx context.Context) ([]models.Listing, error)
}

const listingsCollection = "listings"

// listingService implements IListingService.
type listingService struct {
	db         *mongo.Database
	cfg        *config.Config
	classifier *urgency.Classifier
	impact     IImpactService
	donors     IDonorService

	// Serialization points for completion side effects: one lock per donor,
	// one per ledger day. See ConfirmCompletion.
	donorLocks *keyedMutex
	dayLocks   *keyedMutex
}

// NewListingService creates a new ListingService.
func NewListingService(database *mongo.Database, cfg *config.Config, impact IImpactService, donors IDonorService) IListingService {
	return &listingService{
		db:         database,
		cfg:        cfg,
		classifier: urgency.NewClassifier(cfg.UrgentTagSynonyms...),
		impact:     impact,
		donors:     donors,
		donorLocks: newKeyedMutex(),
		dayLocks:   newKeyedMutex(),
	}
}

// CreateListing validates the request, derives the urgency class and creates
// the listing in the available state with a fresh proof token.
func (s *listingService) CreateListing(ctx context.Context, req CreateListingRequest) (*models.Listing, error) {
	if req.DonorID.IsZero() {
		return nil, NewValidationError("donorId", "is required")
	}
	if math.IsNaN(req.QuantityKg) || req.QuantityKg < 0 {
		return nil, NewValidationError("quantityKg", "must be a non-negative number")
	}
	location := geo.Coordinate{}
	if req.Location != nil {
		if !req.Location.Valid() {
			return nil, NewValidationError("location", "coordinates out of range")
		}
		location = *req.Location
	}
	foodType := req.FoodType
	if foodType == "" {
		foodType = "Surplus"
	}

	collection := s.db.Collection(listingsCollection)
	now := time.Now().UTC()

	var newListing *models.Listing
	operation := func() error {
		newListing = &models.Listing{
			ID:               utils.NewSixID(),
			DonorID:          req.DonorID,
			FoodType:         foodType,
			QuantityKg:       req.QuantityKg,
			Category:         req.Category,
			PerishabilityTag: req.PerishabilityTag,
			UrgencyClass:     s.classifier.Classify(req.PerishabilityTag),
			Location:         location,
			Address:          req.Address,
			TimeWindow:       req.TimeWindow,
			Status:           models.StatusAvailable,
			ProofToken:       utils.NewProofToken(),
			CreatedAt:        now,
		}
		_, insertErr := collection.InsertOne(ctx, newListing)
		return insertErr
	}

	if err := db.Try(operation); err != nil {
		return nil, fmt.Errorf("failed to insert new listing for donor %s: %w", req.DonorID.String(), err)
	}
	return newListing, nil
}

// FindListingByID finds a listing by its ID.
func (s *listingService) FindListingByID(ctx context.Context, listingID utils.SixID) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Collection(listingsCollection).FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding listing %s: %w", listingID.String(), err)
	}
	return &listing, nil
}

// FindListingsByIDs loads the given listings, preserving the input order.
// Unknown IDs are silently omitted.
func (s *listingService) FindListingsByIDs(ctx context.Context, listingIDs []utils.SixID) ([]models.Listing, error) {
	if len(listingIDs) == 0 {
		return nil, nil
	}
	cursor, err := s.db.Collection(listingsCollection).Find(ctx, bson.M{"_id": bson.M{"$in": listingIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to load listings by IDs: %w", err)
	}
	defer cursor.Close(ctx)

	byID := make(map[utils.SixID]models.Listing, len(listingIDs))
	for cursor.Next(ctx) {
		var l models.Listing
		if err := cursor.Decode(&l); err != nil {
			return nil, fmt.Errorf("failed to decode listing: %w", err)
		}
		byID[l.ID] = l
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("listing cursor error: %w", err)
	}

	ordered := make([]models.Listing, 0, len(byID))
	for _, id := range listingIDs {
		if l, ok := byID[id]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered, nil
}

// Claim reserves an available listing for a rescuer. The transition is a
// single conditional update on the status field, so under concurrent claim
// attempts exactly one succeeds; the rest fail with ErrInvalidState.
func (s *listingService) Claim(ctx context.Context, listingID, rescuerID utils.SixID) error {
	if rescuerID.IsZero() {
		return NewValidationError("rescuerId", "is required")
	}

	collection := s.db.Collection(listingsCollection)
	now := time.Now().UTC()

	filter := bson.M{
		"_id":    listingID,
		"status": models.StatusAvailable,
	}
	update := bson.M{"$set": bson.M{
		"status":     models.StatusClaimed,
		"claimed_by": rescuerID,
		"claimed_at": now,
	}}

	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("db error claiming listing %s: %w", listingID.String(), err)
	}
	if result.MatchedCount == 0 {
		// Either the listing doesn't exist or someone got there first.
		var listing models.Listing
		checkErr := collection.FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
		if errors.Is(checkErr, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		if checkErr != nil {
			return fmt.Errorf("db error checking listing %s: %w", listingID.String(), checkErr)
		}
		return fmt.Errorf("listing %s is %s: %w", listingID.String(), listing.Status, ErrInvalidState)
	}
	return nil
}

// ConfirmCompletion completes a claimed listing after validating the actor
// and the proof token. Failures leave the listing untouched so the rescuer
// can retry with the correct token. On success the ledger and the donor's
// reputation are updated under the per-day and per-donor locks, serialized
// against other completions touching the same donor or day.
func (s *listingService) ConfirmCompletion(ctx context.Context, listingID, rescuerID utils.SixID, token string) (float64, error) {
	collection := s.db.Collection(listingsCollection)

	var listing models.Listing
	err := collection.FindOne(ctx, bson.M{"_id": listingID}).Decode(&listing)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("error finding listing %s: %w", listingID.String(), err)
	}

	if listing.ClaimedBy == nil {
		// Never claimed; completing straight from available is illegal
		return 0, fmt.Errorf("listing %s is %s: %w", listingID.String(), listing.Status, ErrInvalidState)
	}
	if *listing.ClaimedBy != rescuerID {
		return 0, fmt.Errorf("listing %s is not claimed by rescuer %s: %w", listingID.String(), rescuerID.String(), ErrForbidden)
	}
	if !utils.TokensEqual(token, listing.ProofToken) {
		return 0, ErrInvalidToken
	}
	if listing.Status != models.StatusClaimed {
		return 0, fmt.Errorf("listing %s is %s: %w", listingID.String(), listing.Status, ErrInvalidState)
	}

	now := time.Now().UTC()
	day := DayKey(now)

	// Lock ordering is donor first, then day, everywhere.
	unlockDonor := s.donorLocks.Lock(listing.DonorID.String())
	defer unlockDonor()
	unlockDay := s.dayLocks.Lock(day)
	defer unlockDay()

	filter := bson.M{
		"_id":        listingID,
		"status":     models.StatusClaimed,
		"claimed_by": rescuerID,
	}
	update := bson.M{"$set": bson.M{
		"status":       models.StatusCompleted,
		"completed_at": now,
	}}
	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("db error completing listing %s: %w", listingID.String(), err)
	}
	if result.MatchedCount == 0 {
		// Lost a race with another confirmation
		return 0, fmt.Errorf("listing %s already transitioned: %w", listingID.String(), ErrInvalidState)
	}

	if err := s.impact.RecordCompletion(ctx, day, listing.QuantityKg); err != nil {
		return 0, fmt.Errorf("listing %s completed but ledger update failed: %w", listingID.String(), err)
	}
	reputation, err := s.donors.RecomputeReputation(ctx, listing.DonorID)
	if err != nil {
		return 0, fmt.Errorf("listing %s completed but reputation recompute failed: %w", listingID.String(), err)
	}
	return reputation, nil
}

// ListAvailable returns available listings ordered by urgency class (urgent
// first), then by the parsed start of the time window (unparsable or missing
// windows sort last). The sort is stable, so repeated calls without mutation
// yield identical order. The result is a snapshot, not a live view.
func (s *listingService) ListAvailable(ctx context.Context) ([]models.Listing, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	if s.cfg.ListAvailableLimit > 0 {
		opts.SetLimit(int64(s.cfg.ListAvailableLimit))
	}

	cursor, err := s.db.Collection(listingsCollection).Find(ctx, bson.M{"status": models.StatusAvailable}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query available listings: %w", err)
	}
	defer cursor.Close(ctx)

	var listings []models.Listing
	if err := cursor.All(ctx, &listings); err != nil {
		return nil, fmt.Errorf("failed to decode available listings: %w", err)
	}

	sort.SliceStable(listings, func(i, j int) bool {
		ri, rj := listings[i].UrgencyClass.Rank(), listings[j].UrgencyClass.Rank()
		if ri != rj {
			return ri < rj
		}
		return utils.WindowStartMillis(listings[i].TimeWindow) < utils.WindowStartMillis(listings[j].TimeWindow)
	})
	return listings, nil
}
