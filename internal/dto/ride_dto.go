package dto

type StartRideRequest struct {
	Genre       string `json:"genre" validate:"required"`
	PlotSeed    string `json:"plot_seed"`
	CarpoolMode bool   `json:"carpool_mode"`
}

type StartRideResponse struct {
	SessionId string `json:"session_id"`
}

type ResumeRideRequest struct {
	SessionId string `json:"session_id" validate:"required"`
}

type ResumeRideResponse struct {
	SessionId    string `json:"session_id"`
	ChapterCount int    `json:"chapter_count"`
}

type UpdateSpeedRequest struct {
	SessionId string
	Speed     float64 `json:"speed" validate:"gte=0"`
}

type SetTrackingRequest struct {
	SessionId string
	Tracking  *bool `json:"tracking" validate:"required"`
}

type RideMetricsResponse struct {
	CurrentSpeed  float64 `json:"currentSpeed"`
	TotalDistance float64 `json:"totalDistance"`
	Co2Saved      float64 `json:"co2Saved"`
	ElapsedTime   int64   `json:"elapsedTime"`
}

type ExitRideResponse struct {
	SessionId     string  `json:"session_id"`
	TotalDistance float64 `json:"total_distance"`
	TotalTime     int64   `json:"total_time"`
	Co2Saved      float64 `json:"co2_saved"`
}
