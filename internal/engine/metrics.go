package engine

import "myjourney-be/internal/constant"

// Metrics is the transient per-tick view of a ride. It is derived state:
// the session's persisted totals are flushed from it, never the reverse.
type Metrics struct {
	CurrentSpeed  float64 `json:"currentSpeed"`  // mph
	TotalDistance float64 `json:"totalDistance"` // miles
	CO2Saved      float64 `json:"co2Saved"`      // kg
	ElapsedTime   int64   `json:"elapsedTime"`   // seconds
}

// advance applies one 1-second sample at the current speed. Speed is in
// miles per hour, so one second adds speed/3600 miles. Pure arithmetic.
func advance(m Metrics) Metrics {
	m.ElapsedTime++
	m.TotalDistance += m.CurrentSpeed / 3600.0
	m.CO2Saved = m.TotalDistance * constant.CO2KgPerMile
	return m
}
