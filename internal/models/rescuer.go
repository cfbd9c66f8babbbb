package models

import (
	"time"

	"github.com/tolo017/eco-sawa/internal/geo"
	"github.com/tolo017/eco-sawa/internal/utils"
)

// Rescuer is a volunteer who claims and collects listings. Location is
// optional; rescuers without one are never matched by nearby lookups.
type Rescuer struct {
	ID        utils.SixID     `bson:"_id,omitempty" json:"id,omitempty"`
	Name      string          `bson:"name" json:"name"`
	Phone     string          `bson:"phone,omitempty" json:"phone,omitempty"`
	Location  *geo.Coordinate `bson:"location,omitempty" json:"location,omitempty"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
}
