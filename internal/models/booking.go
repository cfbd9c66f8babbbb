package models

import (
	"time"

	"github.com/tolo017/eco-sawa/internal/utils"
)

// BookingStatus is the status of an opaque payment booking record. No
// payment-provider integration happens here; an external webhook flips the
// status to paid.
type BookingStatus string

const (
	BookingCreated BookingStatus = "created"
	BookingPaid    BookingStatus = "paid"
)

// RescueBooking records an optional delivery-fee booking attached to a
// listing.
type RescueBooking struct {
	ID        string        `bson:"_id,omitempty" json:"id,omitempty"` // uuid
	ListingID utils.SixID   `bson:"listing_id" json:"listing_id"`
	Status    BookingStatus `bson:"status" json:"status"`
	AmountKES float64       `bson:"amount_kes" json:"amount_kes"`
	CreatedAt time.Time     `bson:"created_at" json:"created_at"`
	PaidAt    *time.Time    `bson:"paid_at,omitempty" json:"paid_at,omitempty"`
}
