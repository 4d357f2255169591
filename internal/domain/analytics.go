package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const DefaultElo = 1200.0

// CardAnalytic is keyed by card name so every printing shares one bucket.
type CardAnalytic struct {
	Picks  int     `json:"picks"`
	Passes int     `json:"passes"`
	Elo    float64 `json:"elo"`
}

type CubeAnalytic struct {
	CubeID    uuid.UUID                                   `json:"cubeId" gorm:"type:uuid;primary_key"`
	Cards     datatypes.JSONType[map[string]CardAnalytic] `json:"cards" gorm:"type:jsonb"`
	Drafts    int                                         `json:"drafts" gorm:"not null;default:0"`
	Version   int                                         `json:"version" gorm:"not null;default:0"`
	UpdatedAt time.Time                                   `json:"updatedAt"`
}
