package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is one journey/story pairing: a ride plus its accumulated
// narrative, counters and configuration.
type Session struct {
	Id            uuid.UUID
	UserId        *uuid.UUID // nil for anonymous local-only rides
	StartTime     time.Time
	Genre         string
	PlotSeed      string
	CarpoolMode   bool
	IsCompleted   bool
	TotalDistance float64 // miles
	TotalTime     int64   // seconds
	Chapters      []Chapter
}

// Chapter is one generated narrative fragment. Immutable once appended.
type Chapter struct {
	Id                 uuid.UUID
	Title              string
	Content            string
	CreatedAt          time.Time
	SpeedAtCreation    float64
	DistanceAtCreation float64
	AudioData          *string // base64 encoded narration, absent on TTS failure
	Genre              string  // denormalized from the parent session at creation
}

// PriorContext concatenates all chapter text, for feeding back into the
// narrative prompt.
func (s *Session) PriorContext() string {
	ctx := ""
	for i, c := range s.Chapters {
		if i > 0 {
			ctx += "\n\n"
		}
		ctx += c.Content
	}
	return ctx
}

// Clone returns a deep copy safe to hand across goroutine boundaries.
func (s *Session) Clone() *Session {
	cp := *s
	if s.UserId != nil {
		uid := *s.UserId
		cp.UserId = &uid
	}
	cp.Chapters = make([]Chapter, len(s.Chapters))
	for i, c := range s.Chapters {
		cc := c
		if c.AudioData != nil {
			audio := *c.AudioData
			cc.AudioData = &audio
		}
		cp.Chapters[i] = cc
	}
	return &cp
}
