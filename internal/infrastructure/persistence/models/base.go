// Package models holds the gorm table mappings for the ledger. Domain
// entities stay free of ORM tags; each model here converts to and from its
// domain counterpart, and repositories only ever touch the models.
package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/negoce/backend/internal/domain/shared"
)

// BaseModel maps shared.BaseEntity: uuid primary key plus audit timestamps.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts the persisted identity back to the domain form.
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// FromDomainBaseEntity copies the domain identity into the model.
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}
