package models

import (
	"time"

	"github.com/tolo017/eco-sawa/internal/utils"
)

// DefaultReputation is the reputation of a donor with no listings yet.
const DefaultReputation = 5.0

// Donor is a food donor. Reputation is recomputed over all of the donor's
// listings on every completion, not incrementally maintained.
type Donor struct {
	ID         utils.SixID `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string      `bson:"name" json:"name"`
	Phone      string      `bson:"phone,omitempty" json:"phone,omitempty"`
	Reputation float64     `bson:"reputation" json:"reputation"` // in [0,5]
	CreatedAt  time.Time   `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `bson:"updated_at" json:"updated_at"`
}
