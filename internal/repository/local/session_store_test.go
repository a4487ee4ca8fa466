package local

import (
	"path/filepath"
	"testing"
	"time"

	"myjourney-be/internal/entity"
	"myjourney-be/pkg/localstore"

	"github.com/google/uuid"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	return NewSessionStore(localstore.New(filepath.Join(t.TempDir(), "sessions.json")))
}

func sampleSession() *entity.Session {
	audio := "c29tZSBhdWRpbw=="
	return &entity.Session{
		Id:            uuid.New(),
		StartTime:     time.Now(),
		Genre:         "Cosmic Horror",
		PlotSeed:      "a lighthouse that should not exist",
		CarpoolMode:   true,
		TotalDistance: 4.2,
		TotalTime:     1260,
		Chapters: []entity.Chapter{
			{
				Id:                 uuid.New(),
				Title:              "Cosmic Horror // Fragment 1",
				Content:            "The fog had teeth tonight.",
				CreatedAt:          time.Now(),
				SpeedAtCreation:    6.5,
				DistanceAtCreation: 0,
				AudioData:          &audio,
				Genre:              "Cosmic Horror",
			},
			{
				Id:        uuid.New(),
				Title:     "Cosmic Horror // Fragment 2",
				Content:   "It followed at exactly my pace.",
				CreatedAt: time.Now(),
				Genre:     "Cosmic Horror",
			},
		},
	}
}

func TestSaveAndGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	session := sampleSession()

	if err := store.Save(session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Get(session.Id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil for a saved session")
	}

	if got.Genre != session.Genre {
		t.Errorf("Genre = %q, want %q", got.Genre, session.Genre)
	}
	if got.PlotSeed != session.PlotSeed {
		t.Errorf("PlotSeed = %q, want %q", got.PlotSeed, session.PlotSeed)
	}
	if !got.CarpoolMode {
		t.Error("CarpoolMode lost in round trip")
	}
	if got.TotalDistance != session.TotalDistance || got.TotalTime != session.TotalTime {
		t.Errorf("counters = %v/%v, want %v/%v",
			got.TotalDistance, got.TotalTime, session.TotalDistance, session.TotalTime)
	}
	// Timestamps are stored at millisecond precision.
	if got.StartTime.UnixMilli() != session.StartTime.UnixMilli() {
		t.Errorf("StartTime = %v, want %v", got.StartTime, session.StartTime)
	}

	if len(got.Chapters) != 2 {
		t.Fatalf("chapters = %d, want 2", len(got.Chapters))
	}
	if got.Chapters[0].Content != session.Chapters[0].Content {
		t.Errorf("chapter content = %q, want %q", got.Chapters[0].Content, session.Chapters[0].Content)
	}
	if got.Chapters[0].AudioData == nil || *got.Chapters[0].AudioData != *session.Chapters[0].AudioData {
		t.Error("chapter audio lost in round trip")
	}
	if got.Chapters[1].AudioData != nil {
		t.Error("absent audio round-tripped as present")
	}
}

func TestSaveUpserts(t *testing.T) {
	store := newTestStore(t)
	session := sampleSession()

	if err := store.Save(session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	session.TotalTime = 2000
	session.IsCompleted = true
	if err := store.Save(session); err != nil {
		t.Fatalf("Save (update): %v", err)
	}

	all, err := store.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("sessions = %d, want 1 after upsert", len(all))
	}
	if all[0].TotalTime != 2000 || !all[0].IsCompleted {
		t.Errorf("update not applied: TotalTime=%d IsCompleted=%v", all[0].TotalTime, all[0].IsCompleted)
	}
}

func TestGetAbsent(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Get(uuid.New())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get(absent) = %+v, want nil", got)
	}
}

func TestDeleteRemovesExactlyOne(t *testing.T) {
	store := newTestStore(t)
	a, b, c := sampleSession(), sampleSession(), sampleSession()
	for _, s := range []*entity.Session{a, b, c} {
		if err := store.Save(s); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	if err := store.Delete(b.Id); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	all, err := store.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("sessions = %d, want 2", len(all))
	}
	for _, s := range all {
		if s.Id == b.Id {
			t.Error("deleted session still present")
		}
	}
	if got, _ := store.Get(a.Id); got == nil {
		t.Error("unrelated session lost on delete")
	}
	if got, _ := store.Get(c.Id); got == nil {
		t.Error("unrelated session lost on delete")
	}
}

func TestDeleteAbsentIsNoOp(t *testing.T) {
	store := newTestStore(t)
	session := sampleSession()
	if err := store.Save(session); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Delete(uuid.New()); err != nil {
		t.Errorf("Delete(absent) = %v, want nil", err)
	}
	all, _ := store.All()
	if len(all) != 1 {
		t.Errorf("sessions = %d, want 1", len(all))
	}
}

func TestAllOnEmptyStore(t *testing.T) {
	store := newTestStore(t)

	all, err := store.All()
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 0 {
		t.Errorf("sessions = %d, want 0", len(all))
	}
}
