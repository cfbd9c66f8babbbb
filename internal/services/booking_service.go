package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// IBookingService manages opaque payment booking records. There is no
// provider integration here; bookings are created and later marked paid by
// an external confirmation.
type IBookingService interface {
	CreateBooking(ctx context.Context, listingID utils.SixID, amountKES float64) (*models.RescueBooking, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*models.RescueBooking, error)
	FindBookingByID(ctx context.Context, bookingID string) (*models.RescueBooking, error)
}

const bookingsCollection = "bookings"

// bookingService implements IBookingService.
type bookingService struct {
	db       *mongo.Database
	listings IListingService
}

// NewBookingService creates a new BookingService.
func NewBookingService(database *mongo.Database, listings IListingService) IBookingService {
	return &bookingService{db: database, listings: listings}
}

// CreateBooking records a booking in the created state for a listing.
func (s *bookingService) CreateBooking(ctx context.Context, listingID utils.SixID, amountKES float64) (*models.RescueBooking, error) {
	if amountKES < 0 {
		return nil, NewValidationError("amountKES", "must not be negative")
	}
	if _, err := s.listings.FindListingByID(ctx, listingID); err != nil {
		return nil, err
	}

	booking := &models.RescueBooking{
		ID:        uuid.NewString(),
		ListingID: listingID,
		Status:    models.BookingCreated,
		AmountKES: amountKES,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.db.Collection(bookingsCollection).InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to insert booking for listing %s: %w", listingID.String(), err)
	}
	return booking, nil
}

// ConfirmBooking flips a created booking to paid. Confirming an already paid
// booking is an invalid transition.
func (s *bookingService) ConfirmBooking(ctx context.Context, bookingID string) (*models.RescueBooking, error) {
	collection := s.db.Collection(bookingsCollection)
	now := time.Now().UTC()

	filter := bson.M{"_id": bookingID, "status": models.BookingCreated}
	update := bson.M{"$set": bson.M{
		"status":  models.BookingPaid,
		"paid_at": now,
	}}
	result, err := collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("db error confirming booking %s: %w", bookingID, err)
	}
	if result.MatchedCount == 0 {
		booking, findErr := s.FindBookingByID(ctx, bookingID)
		if findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("booking %s is %s: %w", bookingID, booking.Status, ErrInvalidState)
	}
	return s.FindBookingByID(ctx, bookingID)
}

// FindBookingByID finds a booking by its ID.
func (s *bookingService) FindBookingByID(ctx context.Context, bookingID string) (*models.RescueBooking, error) {
	var booking models.RescueBooking
	err := s.db.Collection(bookingsCollection).FindOne(ctx, bson.M{"_id": bookingID}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error finding booking %s: %w", bookingID, err)
	}
	return &booking, nil
}
