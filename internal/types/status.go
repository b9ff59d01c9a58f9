package types

// Status is the lifecycle status of a catalog or rule record in the database.
// The engine only ever consumes active records; stores filter on it.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
	StatusArchived Status = "archived"
)
