package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	FeaturedQueueID = "featured"
	// FeaturedCount entries at the head of the queue are currently on display.
	FeaturedCount = 2
)

type FeaturedEntry struct {
	CubeID  uuid.UUID `json:"cubeId"`
	OwnerID uuid.UUID `json:"ownerId"`
}

type FeaturedQueue struct {
	ID        string                             `json:"id" gorm:"primaryKey"`
	Entries   datatypes.JSONSlice[FeaturedEntry] `json:"entries" gorm:"type:jsonb"`
	Version   int                                `json:"version" gorm:"not null;default:0"`
	UpdatedAt time.Time                          `json:"updatedAt"`
}

// Position returns the queue position of the cube, or -1.
func (q *FeaturedQueue) Position(cubeID uuid.UUID) int {
	for i, e := range q.Entries {
		if e.CubeID == cubeID {
			return i
		}
	}
	return -1
}
