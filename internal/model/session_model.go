package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// StorySession is one per-user session row. The chapters and counters live
// inside Snapshot as a single JSON document; the flat columns exist for
// listing and filtering without unpacking the blob. Upserted on every save,
// last write wins.
type StorySession struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey"`
	UserId        uuid.UUID      `gorm:"type:uuid;not null;index"`
	Genre         string         `gorm:"type:varchar(50);not null"`
	CarpoolMode   bool           `gorm:"default:false"`
	IsCompleted   bool           `gorm:"default:false"`
	ChapterCount  int            `gorm:"default:0"`
	TotalDistance float64        `gorm:"default:0"`
	TotalTime     int64          `gorm:"default:0"`
	StartedAt     time.Time      `gorm:"not null"`
	Snapshot      datatypes.JSON `gorm:"not null"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime;index"`
}

func (StorySession) TableName() string {
	return "story_sessions"
}
