package models

import (
	"time"

	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/urgency"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// ListingStatus is the lifecycle state of a listing. Transitions only move
// forward: available -> claimed -> completed.
type ListingStatus string

const (
	StatusAvailable ListingStatus = "available"
	StatusClaimed   ListingStatus = "claimed"
	StatusCompleted ListingStatus = "completed"
)

// Listing is a single surplus-food pickup opportunity posted by a donor.
type Listing struct {
	ID               utils.SixID    `bson:"_id,omitempty" json:"id,omitempty"`
	DonorID          utils.SixID    `bson:"donor_id" json:"donor_id"`
	FoodType         string         `bson:"food_type" json:"food_type"`
	QuantityKg       float64        `bson:"quantity_kg" json:"quantity_kg"`
	Category         string         `bson:"category,omitempty" json:"category,omitempty"`
	PerishabilityTag string         `bson:"perishability_tag,omitempty" json:"perishability_tag,omitempty"`
	UrgencyClass     urgency.Class  `bson:"urgency_class" json:"urgency_class"` // derived at creation, never recomputed
	Location         geo.Coordinate `bson:"location" json:"location"`
	Address          string         `bson:"address,omitempty" json:"address,omitempty"`
	TimeWindow       string         `bson:"time_window,omitempty" json:"time_window,omitempty"`
	Status           ListingStatus  `bson:"status" json:"status"`
	ClaimedBy        *utils.SixID   `bson:"claimed_by,omitempty" json:"claimed_by,omitempty"`
	ProofToken       string         `bson:"proof_token" json:"-"` // single-use secret, never exposed in listings
	CreatedAt        time.Time      `bson:"created_at" json:"created_at"`
	ClaimedAt        *time.Time     `bson:"claimed_at,omitempty" json:"claimed_at,omitempty"`
	CompletedAt      *time.Time     `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}
