package engine

import (
	"math"
	"testing"
)

func TestAdvance(t *testing.T) {
	m := Metrics{CurrentSpeed: 6.0}

	// 6 mph for one minute covers a tenth of a mile.
	for i := 0; i < 60; i++ {
		m = advance(m)
	}

	if m.ElapsedTime != 60 {
		t.Errorf("ElapsedTime = %d, want 60", m.ElapsedTime)
	}
	if math.Abs(m.TotalDistance-0.1) > 1e-9 {
		t.Errorf("TotalDistance = %v, want 0.1", m.TotalDistance)
	}
	if math.Abs(m.CO2Saved-0.1*0.404) > 1e-9 {
		t.Errorf("CO2Saved = %v, want %v", m.CO2Saved, 0.1*0.404)
	}
}

func TestAdvanceAtZeroSpeed(t *testing.T) {
	m := Metrics{TotalDistance: 2.5, CO2Saved: 2.5 * 0.404, ElapsedTime: 100}

	m = advance(m)

	if m.ElapsedTime != 101 {
		t.Errorf("ElapsedTime = %d, want 101", m.ElapsedTime)
	}
	if m.TotalDistance != 2.5 {
		t.Errorf("TotalDistance moved at zero speed: %v", m.TotalDistance)
	}
}

func TestAdvanceDistanceMonotonic(t *testing.T) {
	m := Metrics{}
	speeds := []float64{0, 3, 12, 0, 25, 1}
	prev := 0.0

	for _, s := range speeds {
		m.CurrentSpeed = s
		m = advance(m)
		if m.TotalDistance < prev {
			t.Fatalf("TotalDistance decreased: %v -> %v", prev, m.TotalDistance)
		}
		prev = m.TotalDistance
	}
}
