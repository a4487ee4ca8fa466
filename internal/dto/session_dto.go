package dto

import "time"

type ChapterResponse struct {
	Id                 string    `json:"id"`
	Title              string    `json:"title"`
	Content            string    `json:"content"`
	CreatedAt          time.Time `json:"created_at"`
	SpeedAtCreation    float64   `json:"speed_at_creation"`
	DistanceAtCreation float64   `json:"distance_at_creation"`
	Genre              string    `json:"genre"`
	HasAudio           bool      `json:"has_audio"`
}

type SessionSummaryResponse struct {
	Id            string    `json:"id"`
	StartTime     time.Time `json:"start_time"`
	Genre         string    `json:"genre"`
	CarpoolMode   bool      `json:"carpool_mode"`
	IsCompleted   bool      `json:"is_completed"`
	TotalDistance float64   `json:"total_distance"`
	TotalTime     int64     `json:"total_time"`
	ChapterCount  int       `json:"chapter_count"`
}

type ShowSessionResponse struct {
	Id            string            `json:"id"`
	StartTime     time.Time         `json:"start_time"`
	Genre         string            `json:"genre"`
	PlotSeed      string            `json:"plot_seed"`
	CarpoolMode   bool              `json:"carpool_mode"`
	IsCompleted   bool              `json:"is_completed"`
	TotalDistance float64           `json:"total_distance"`
	TotalTime     int64             `json:"total_time"`
	Chapters      []ChapterResponse `json:"chapters"`
}

type DeleteSessionResponse struct {
	Id string `json:"id"`
}

type GenreListResponse struct {
	Genres []string `json:"genres"`
}
