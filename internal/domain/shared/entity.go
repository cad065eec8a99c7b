package shared

import (
	"time"

	"github.com/google/uuid"
)

// BaseEntity embeds the identity and audit timestamps every ledger entity
// carries. IDs are uuids so records created offline on a sqlite install
// merge into a hosted database without collisions.
type BaseEntity struct {
	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewBaseEntity mints an identity with both timestamps set to now.
func NewBaseEntity() BaseEntity {
	now := time.Now()
	return BaseEntity{ID: uuid.New(), CreatedAt: now, UpdatedAt: now}
}

// Touch bumps the modification timestamp.
func (e *BaseEntity) Touch() {
	e.UpdatedAt = time.Now()
}
