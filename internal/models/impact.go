package models

// ImpactEntry is the daily aggregate of rescued food, keyed by UTC date
// string ("2006-01-02"). Counters only ever increase; prior days are
// immutable history.
type ImpactEntry struct {
	Day     string  `bson:"_id" json:"day"`
	TotalKg float64 `bson:"total_kg" json:"total_kg"`
	Pickups int64   `bson:"pickups" json:"pickups"`
}

// Impact is the current-day summary returned to callers.
type Impact struct {
	TotalKg      float64 `json:"total_kg"`
	PickupsToday int64   `json:"pickups_today"`
}
