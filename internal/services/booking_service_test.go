package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tolo017/eco-sawa/internal/config"
	"github.com/tolo017/eco-sawa/internal/models"
	"github.com/tolo017/eco-sawa/internal/utils"
)

func TestBookingService_CreateAndConfirm(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_booking", "bookings", "listings", "donors", "impact")
	donorSvc := NewDonorService(db)
	listingSvc := NewListingService(db, &config.Config{}, NewImpactService(db), donorSvc)
	svc := NewBookingService(db, listingSvc)
	ctx := context.Background()

	donor, err := donorSvc.RegisterDonor(ctx, nil, "", "")
	require.NoError(t, err)
	listing, err := listingSvc.CreateListing(ctx, CreateListingRequest{DonorID: donor.ID, QuantityKg: 1})
	require.NoError(t, err)

	booking, err := svc.CreateBooking(ctx, listing.ID, 150)
	require.NoError(t, err)
	assert.NotEmpty(t, booking.ID)
	assert.Equal(t, models.BookingCreated, booking.Status)
	assert.Nil(t, booking.PaidAt)

	paid, err := svc.ConfirmBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)

	// Already paid: invalid transition
	_, err = svc.ConfirmBooking(ctx, booking.ID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestBookingService_Errors(t *testing.T) {
	db := utils.SetupTestDB(t, "testdb_booking_errors", "bookings", "listings", "donors", "impact")
	listingSvc := NewListingService(db, &config.Config{}, NewImpactService(db), NewDonorService(db))
	svc := NewBookingService(db, listingSvc)
	ctx := context.Background()

	// Unknown listing
	_, err := svc.CreateBooking(ctx, utils.NewSixID(), 100)
	assert.ErrorIs(t, err, ErrNotFound)

	// Unknown booking
	_, err = svc.ConfirmBooking(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
