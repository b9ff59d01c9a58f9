package types

import (
	"context"
	"time"
)

// BaseModel is embedded by every catalog and rule record loaded from the database
type BaseModel struct {
	OrganizationID string    `db:"organization_id" json:"organization_id"`
	Status         Status    `db:"status" json:"status"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

func GetDefaultBaseModel(ctx context.Context) BaseModel {
	now := time.Now().UTC()
	return BaseModel{
		OrganizationID: GetOrganizationID(ctx),
		Status:         StatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// IsActive reports whether the record should be considered by the engine
func (b BaseModel) IsActive() bool {
	return b.Status == StatusActive
}
