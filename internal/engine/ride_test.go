package engine

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"myjourney-be/internal/entity"

	"github.com/google/uuid"
)

type fakeGenerator struct {
	reqs chan ChapterRequest
	gate chan struct{} // when non-nil, GenerateChapter blocks until released
}

func (g *fakeGenerator) GenerateChapter(ctx context.Context, req ChapterRequest) entity.Chapter {
	g.reqs <- req
	if g.gate != nil {
		<-g.gate
	}
	return entity.Chapter{
		Id:                 uuid.New(),
		Title:              fmt.Sprintf("Fragment %d", req.ChapterIndex),
		Content:            fmt.Sprintf("chapter %d content", req.ChapterIndex),
		CreatedAt:          time.Now(),
		SpeedAtCreation:    req.Speed,
		DistanceAtCreation: req.Distance,
		Genre:              req.Genre,
	}
}

type fakePersister struct {
	saved chan *entity.Session
}

func (p *fakePersister) PersistSession(ctx context.Context, session *entity.Session) {
	select {
	case p.saved <- session:
	default:
	}
}

type fakeFeed struct {
	appended chan entity.Chapter
}

func (f *fakeFeed) MetricsUpdated(uuid.UUID, Metrics)        {}
func (f *fakeFeed) GenerationStarted(uuid.UUID, int)         {}
func (f *fakeFeed) ChapterAppended(_ uuid.UUID, _ int, c entity.Chapter) {
	f.appended <- c
}

type rideHarness struct {
	ride  *Ride
	ticks chan time.Time
	gen   *fakeGenerator
	feed  *fakeFeed
	saved chan *entity.Session
}

func newHarness(t *testing.T, session *entity.Session, gated bool, resume bool) *rideHarness {
	t.Helper()

	h := &rideHarness{
		ticks: make(chan time.Time),
		gen:   &fakeGenerator{reqs: make(chan ChapterRequest, 4)},
		feed:  &fakeFeed{appended: make(chan entity.Chapter, 4)},
		saved: make(chan *entity.Session, 16),
	}
	if gated {
		h.gen.gate = make(chan struct{})
	}

	cfg := Config{
		Generator: h.gen,
		Persister: &fakePersister{saved: h.saved},
		Feed:      h.feed,
		ticks:     h.ticks,
	}

	if resume {
		h.ride = Resume(session, cfg)
	} else {
		h.ride = Start(session, cfg)
	}
	t.Cleanup(func() {
		select {
		case <-h.ride.Done():
		default:
			if h.gen.gate != nil {
				close(h.gen.gate)
			}
			h.ride.Exit()
			<-h.ride.Done()
		}
	})
	return h
}

// tick advances ride time and waits until the loop has absorbed every tick.
func (h *rideHarness) tick(n int) {
	for i := 0; i < n; i++ {
		h.ticks <- time.Time{}
	}
	h.ride.Metrics() // round trip forces the last tick to be processed
}

func (h *rideHarness) nextRequest(t *testing.T) ChapterRequest {
	t.Helper()
	select {
	case req := <-h.gen.reqs:
		return req
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for generation request")
		return ChapterRequest{}
	}
}

func (h *rideHarness) expectNoRequest(t *testing.T) {
	t.Helper()
	select {
	case req := <-h.gen.reqs:
		t.Fatalf("unexpected generation request for chapter %d", req.ChapterIndex)
	default:
	}
}

func (h *rideHarness) waitAppended(t *testing.T) entity.Chapter {
	t.Helper()
	select {
	case c := <-h.feed.appended:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for chapter append")
		return entity.Chapter{}
	}
}

func newTestSession() *entity.Session {
	return &entity.Session{
		Id:        uuid.New(),
		StartTime: time.Now(),
		Genre:     "Cyberpunk",
	}
}

func TestStartRequestsIntroChapter(t *testing.T) {
	h := newHarness(t, newTestSession(), false, false)

	req := h.nextRequest(t)
	if req.ChapterIndex != 1 {
		t.Errorf("intro ChapterIndex = %d, want 1", req.ChapterIndex)
	}
	if req.Speed != 0 || req.Distance != 0 {
		t.Errorf("intro requested at speed %v / distance %v, want 0 / 0", req.Speed, req.Distance)
	}
	if req.PriorContext != "" {
		t.Errorf("intro PriorContext = %q, want empty", req.PriorContext)
	}
	h.waitAppended(t)
}

func TestTimeTriggerFiresAtThreshold(t *testing.T) {
	h := newHarness(t, newTestSession(), false, false)
	h.nextRequest(t) // intro
	h.waitAppended(t)

	h.tick(599)
	h.expectNoRequest(t)

	h.tick(1)
	req := h.nextRequest(t)
	if req.ChapterIndex != 2 {
		t.Errorf("ChapterIndex = %d, want 2", req.ChapterIndex)
	}
	if got := h.ride.Metrics().ElapsedTime; got != 600 {
		t.Errorf("ElapsedTime = %d, want 600", got)
	}
	if !strings.Contains(req.PriorContext, "chapter 1 content") {
		t.Errorf("PriorContext missing intro text: %q", req.PriorContext)
	}
}

func TestDistanceTriggerFiresAtThreshold(t *testing.T) {
	h := newHarness(t, newTestSession(), false, false)
	h.nextRequest(t) // intro
	h.waitAppended(t)

	// 36 mph covers 0.01 miles per second.
	h.ride.UpdateSpeed(36)

	h.tick(99)
	h.expectNoRequest(t)

	h.tick(1)
	req := h.nextRequest(t)
	if req.ChapterIndex != 2 {
		t.Errorf("ChapterIndex = %d, want 2", req.ChapterIndex)
	}
	if req.Distance < 0.999 || req.Distance > 1.001 {
		t.Errorf("Distance = %v, want ~1.0", req.Distance)
	}
	if req.Speed != 36 {
		t.Errorf("Speed = %v, want 36", req.Speed)
	}
}

func TestInFlightSuppressesFurtherRequests(t *testing.T) {
	h := newHarness(t, newTestSession(), true, false)
	h.nextRequest(t) // intro, held open by the gate

	// Way past both thresholds while generation is still running.
	h.tick(1300)
	h.expectNoRequest(t)

	h.gen.gate <- struct{}{}
	h.waitAppended(t)

	// The next tick may fire again; chapters stay strictly ordered.
	h.tick(1)
	req := h.nextRequest(t)
	if req.ChapterIndex != 2 {
		t.Errorf("ChapterIndex = %d, want 2", req.ChapterIndex)
	}
}

func TestPauseStopsAccumulation(t *testing.T) {
	h := newHarness(t, newTestSession(), false, false)
	h.nextRequest(t)
	h.waitAppended(t)

	h.ride.UpdateSpeed(10)
	h.tick(10)
	before := h.ride.Metrics()

	h.ride.SetTracking(false)
	h.tick(100)
	after := h.ride.Metrics()

	if after.ElapsedTime != before.ElapsedTime {
		t.Errorf("ElapsedTime advanced while paused: %d -> %d", before.ElapsedTime, after.ElapsedTime)
	}
	if after.TotalDistance != before.TotalDistance {
		t.Errorf("TotalDistance advanced while paused: %v -> %v", before.TotalDistance, after.TotalDistance)
	}

	h.ride.SetTracking(true)
	h.tick(5)
	resumed := h.ride.Metrics()
	if resumed.ElapsedTime != before.ElapsedTime+5 {
		t.Errorf("ElapsedTime = %d, want %d", resumed.ElapsedTime, before.ElapsedTime+5)
	}
}

func TestSaveFlushesTotals(t *testing.T) {
	h := newHarness(t, newTestSession(), false, false)
	h.nextRequest(t)
	h.waitAppended(t)
	for len(h.saved) > 0 {
		<-h.saved
	}

	h.ride.UpdateSpeed(18)
	h.tick(20)

	m := h.ride.Save()
	saved := <-h.saved

	if saved.TotalTime != m.ElapsedTime {
		t.Errorf("persisted TotalTime = %d, want %d", saved.TotalTime, m.ElapsedTime)
	}
	if saved.TotalDistance != m.TotalDistance {
		t.Errorf("persisted TotalDistance = %v, want %v", saved.TotalDistance, m.TotalDistance)
	}
	if saved.IsCompleted {
		t.Error("save must not complete the session")
	}
}

func TestExitWaitsForInFlightChapter(t *testing.T) {
	h := newHarness(t, newTestSession(), true, false)
	h.nextRequest(t) // intro, held open

	m := h.ride.Exit()
	if m.ElapsedTime != 0 {
		t.Errorf("exit metrics ElapsedTime = %d, want 0", m.ElapsedTime)
	}

	select {
	case <-h.ride.Done():
		t.Fatal("ride stopped with a generation still in flight")
	default:
	}

	h.gen.gate <- struct{}{}
	h.waitAppended(t)

	select {
	case <-h.ride.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("ride did not stop after in-flight chapter landed")
	}

	var last *entity.Session
	for len(h.saved) > 0 {
		last = <-h.saved
	}
	if last == nil {
		t.Fatal("no persisted session")
	}
	if len(last.Chapters) != 1 {
		t.Errorf("persisted chapters = %d, want 1", len(last.Chapters))
	}
	if !last.IsCompleted {
		t.Error("exit must complete the session")
	}
}

func TestResumeSkipsIntroAndReseedsThresholds(t *testing.T) {
	session := newTestSession()
	session.TotalTime = 1800
	session.TotalDistance = 3.0
	session.Chapters = []entity.Chapter{
		{Id: uuid.New(), Content: "the story so far"},
	}

	h := newHarness(t, session, false, true)

	// No intro on resume.
	h.tick(1)
	h.expectNoRequest(t)

	if got := h.ride.Metrics().ElapsedTime; got != 1801 {
		t.Errorf("ElapsedTime = %d, want 1801", got)
	}

	// Thresholds measure progress since resume, not the whole history.
	h.tick(598)
	h.expectNoRequest(t)

	h.tick(1)
	req := h.nextRequest(t)
	if req.ChapterIndex != 2 {
		t.Errorf("ChapterIndex = %d, want 2", req.ChapterIndex)
	}
	if !strings.Contains(req.PriorContext, "the story so far") {
		t.Errorf("PriorContext missing prior chapter: %q", req.PriorContext)
	}
}

func TestAPIAfterStopReturnsFinalMetrics(t *testing.T) {
	h := newHarness(t, newTestSession(), false, false)
	h.nextRequest(t)
	h.waitAppended(t)

	h.tick(10)
	final := h.ride.Exit()
	<-h.ride.Done()

	if got := h.ride.Metrics(); got != final {
		t.Errorf("Metrics after stop = %+v, want %+v", got, final)
	}
	if got := h.ride.Save(); got != final {
		t.Errorf("Save after stop = %+v, want %+v", got, final)
	}
	// Calls must not block.
	h.ride.UpdateSpeed(5)
	h.ride.SetTracking(false)
}
