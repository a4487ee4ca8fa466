package mapper

import (
	"encoding/json"
	"time"

	"myjourney-be/internal/entity"
	"myjourney-be/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// sessionDoc is the wire/storage form of a session. Field names follow the
// original client payloads so local blobs and remote snapshots stay
// interchangeable.
type sessionDoc struct {
	Id            uuid.UUID    `json:"id"`
	UserId        *uuid.UUID   `json:"user_id,omitempty"`
	StartTime     int64        `json:"startTime"` // unix millis
	Genre         string       `json:"genre"`
	CustomPlot    string       `json:"customPlot,omitempty"`
	CarpoolMode   bool         `json:"carpoolMode"`
	IsCompleted   bool         `json:"isCompleted"`
	TotalDistance float64      `json:"totalDistance"`
	TotalTime     int64        `json:"totalTime"`
	Chapters      []chapterDoc `json:"chapters"`
}

type chapterDoc struct {
	Id                 uuid.UUID `json:"id"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	Timestamp          int64     `json:"timestamp"` // unix millis
	SpeedAtCreation    float64   `json:"speedAtCreation"`
	DistanceAtCreation float64   `json:"distanceAtCreation"`
	AudioData          *string   `json:"audioData,omitempty"`
	Genre              string    `json:"genre"`
}

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

// EncodeSession serializes a session entity into its storage document.
func (m *SessionMapper) EncodeSession(s *entity.Session) ([]byte, error) {
	return json.Marshal(m.toDoc(s))
}

// DecodeSession deserializes a storage document back into an entity.
func (m *SessionMapper) DecodeSession(data []byte) (*entity.Session, error) {
	var doc sessionDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return m.fromDoc(&doc), nil
}

func (m *SessionMapper) toDoc(s *entity.Session) *sessionDoc {
	doc := &sessionDoc{
		Id:            s.Id,
		UserId:        s.UserId,
		StartTime:     s.StartTime.UnixMilli(),
		Genre:         s.Genre,
		CustomPlot:    s.PlotSeed,
		CarpoolMode:   s.CarpoolMode,
		IsCompleted:   s.IsCompleted,
		TotalDistance: s.TotalDistance,
		TotalTime:     s.TotalTime,
		Chapters:      make([]chapterDoc, len(s.Chapters)),
	}
	for i, c := range s.Chapters {
		doc.Chapters[i] = chapterDoc{
			Id:                 c.Id,
			Title:              c.Title,
			Content:            c.Content,
			Timestamp:          c.CreatedAt.UnixMilli(),
			SpeedAtCreation:    c.SpeedAtCreation,
			DistanceAtCreation: c.DistanceAtCreation,
			AudioData:          c.AudioData,
			Genre:              c.Genre,
		}
	}
	return doc
}

func (m *SessionMapper) fromDoc(doc *sessionDoc) *entity.Session {
	s := &entity.Session{
		Id:            doc.Id,
		UserId:        doc.UserId,
		StartTime:     time.UnixMilli(doc.StartTime),
		Genre:         doc.Genre,
		PlotSeed:      doc.CustomPlot,
		CarpoolMode:   doc.CarpoolMode,
		IsCompleted:   doc.IsCompleted,
		TotalDistance: doc.TotalDistance,
		TotalTime:     doc.TotalTime,
		Chapters:      make([]entity.Chapter, len(doc.Chapters)),
	}
	for i, c := range doc.Chapters {
		s.Chapters[i] = entity.Chapter{
			Id:                 c.Id,
			Title:              c.Title,
			Content:            c.Content,
			CreatedAt:          time.UnixMilli(c.Timestamp),
			SpeedAtCreation:    c.SpeedAtCreation,
			DistanceAtCreation: c.DistanceAtCreation,
			AudioData:          c.AudioData,
			Genre:              c.Genre,
		}
	}
	return s
}

// ToModel flattens an entity into its remote row. The full document rides in
// the Snapshot column; flat columns only serve listing queries.
func (m *SessionMapper) ToModel(s *entity.Session) (*model.StorySession, error) {
	if s == nil {
		return nil, nil
	}
	if s.UserId == nil {
		return nil, ErrAnonymousSession
	}

	snapshot, err := m.EncodeSession(s)
	if err != nil {
		return nil, err
	}

	return &model.StorySession{
		Id:            s.Id,
		UserId:        *s.UserId,
		Genre:         s.Genre,
		CarpoolMode:   s.CarpoolMode,
		IsCompleted:   s.IsCompleted,
		ChapterCount:  len(s.Chapters),
		TotalDistance: s.TotalDistance,
		TotalTime:     s.TotalTime,
		StartedAt:     s.StartTime,
		Snapshot:      datatypes.JSON(snapshot),
	}, nil
}

func (m *SessionMapper) ToEntity(row *model.StorySession) (*entity.Session, error) {
	if row == nil {
		return nil, nil
	}
	s, err := m.DecodeSession([]byte(row.Snapshot))
	if err != nil {
		return nil, err
	}
	// The row owner is authoritative over whatever the snapshot carries.
	uid := row.UserId
	s.UserId = &uid
	return s, nil
}

func (m *SessionMapper) ToEntities(rows []*model.StorySession) ([]*entity.Session, error) {
	entities := make([]*entity.Session, 0, len(rows))
	for _, row := range rows {
		e, err := m.ToEntity(row)
		if err != nil {
			return nil, err
		}
		entities = append(entities, e)
	}
	return entities, nil
}
