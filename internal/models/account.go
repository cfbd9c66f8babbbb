package models

import (
	"time"
)

// Role tells which side of a rescue an account is on.
type Role string

const (
	RoleDonor   Role = "donor"
	RoleRescuer Role = "rescuer"
)

// Account is a login identity. Its ID doubles as the Donor or Rescuer ID
// depending on Role; registration creates the matching actor record.
type Account struct {
	Base         `bson:",inline"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password" json:"-"` // Store hash, not plaintext
	Role         Role      `bson:"role" json:"role"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at"`
}
