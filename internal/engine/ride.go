package engine

import (
	"context"
	"time"

	"myjourney-be/internal/constant"
	"myjourney-be/internal/entity"
	"myjourney-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// ChapterRequest carries the generation inputs as of the triggering tick,
// passed by value into the async task so no mutable ride state leaks out.
type ChapterRequest struct {
	SessionId    uuid.UUID
	Genre        string
	PlotSeed     string
	Speed        float64
	Distance     float64
	ChapterIndex int // 1-based position at append time
	PriorContext string
}

// Generator produces a finished chapter. Implementations absorb provider
// failures into fallback content and never fail the ride.
type Generator interface {
	GenerateChapter(ctx context.Context, req ChapterRequest) entity.Chapter
}

// Persister writes the session durably after each mutation. Persistence
// failures are the persister's problem (log and carry on); the ride loop
// never blocks on them.
type Persister interface {
	PersistSession(ctx context.Context, session *entity.Session)
}

// Feed receives live ride events. May be nil.
type Feed interface {
	MetricsUpdated(sessionId uuid.UUID, m Metrics)
	GenerationStarted(sessionId uuid.UUID, chapterIndex int)
	ChapterAppended(sessionId uuid.UUID, chapterIndex int, chapter entity.Chapter)
}

// Config wires a ride's collaborators.
type Config struct {
	Generator Generator
	Persister Persister
	Feed      Feed
	Logger    logger.ILogger

	// GenerationTimeout bounds one outbound generation round trip. Zero
	// means the default.
	GenerationTimeout time.Duration

	// ticks overrides the 1-second timer in tests.
	ticks <-chan time.Time
}

// Ride runs one active session. A single goroutine owns all mutable state;
// every external input (ticks, speed samples, tracking toggles, saves,
// generation completions) arrives as a message. The only concurrency
// discipline is the in-flight flag: at most one generation request is
// outstanding at any time.
type Ride struct {
	session  *entity.Session
	metrics  Metrics
	policy   *triggerPolicy
	tracking bool
	inFlight bool
	exiting  bool

	generator  Generator
	persister  Persister
	feed       Feed
	logger     logger.ILogger
	genTimeout time.Duration

	ticker *time.Ticker
	ticks  <-chan time.Time

	speedCh   chan float64
	trackCh   chan bool
	saveCh    chan chan Metrics
	exitCh    chan chan Metrics
	metricsCh chan chan Metrics
	doneCh    chan entity.Chapter

	stopped      chan struct{}
	finalMetrics Metrics
}

// Start begins running a fresh session: counters zeroed, tracking on, and
// the intro chapter requested immediately at speed 0 / distance 0 so the
// narrative exists before any motion is observed.
func Start(session *entity.Session, cfg Config) *Ride {
	r := newRide(session, cfg)
	r.fire(0, 0)
	go r.run()
	return r
}

// Resume continues a previously archived session. The trigger snapshots are
// re-seeded from the persisted totals so thresholds measure only progress
// made since resuming, not the whole history. No intro chapter is requested.
func Resume(session *entity.Session, cfg Config) *Ride {
	r := newRide(session, cfg)
	go r.run()
	return r
}

func newRide(session *entity.Session, cfg Config) *Ride {
	timeout := cfg.GenerationTimeout
	if timeout <= 0 {
		timeout = constant.GenerationTimeout
	}

	r := &Ride{
		session: session,
		metrics: Metrics{
			TotalDistance: session.TotalDistance,
			CO2Saved:      session.TotalDistance * constant.CO2KgPerMile,
			ElapsedTime:   session.TotalTime,
		},
		policy:     newTriggerPolicy(session.CarpoolMode, session.TotalTime, session.TotalDistance),
		tracking:   true,
		generator:  cfg.Generator,
		persister:  cfg.Persister,
		feed:       cfg.Feed,
		logger:     cfg.Logger,
		genTimeout: timeout,
		ticks:      cfg.ticks,
		speedCh:    make(chan float64),
		trackCh:    make(chan bool),
		saveCh:     make(chan chan Metrics),
		exitCh:     make(chan chan Metrics),
		metricsCh:  make(chan chan Metrics),
		doneCh:     make(chan entity.Chapter, 1),
		stopped:    make(chan struct{}),
	}

	if r.ticks == nil {
		r.ticker = time.NewTicker(time.Second)
		r.ticks = r.ticker.C
	}
	return r
}

func (r *Ride) SessionId() uuid.UUID {
	return r.session.Id
}

// UpdateSpeed feeds the latest externally observed speed sample (mph).
func (r *Ride) UpdateSpeed(speed float64) {
	if speed < 0 {
		speed = 0
	}
	select {
	case r.speedCh <- speed:
	case <-r.stopped:
	}
}

// SetTracking pauses or resumes metric sampling. Pausing does not cancel an
// in-flight generation: an in-progress fragment is not abandoned.
func (r *Ride) SetTracking(on bool) {
	select {
	case r.trackCh <- on:
	case <-r.stopped:
	}
}

// Metrics returns the current transient metrics view.
func (r *Ride) Metrics() Metrics {
	reply := make(chan Metrics, 1)
	select {
	case r.metricsCh <- reply:
		return <-reply
	case <-r.stopped:
		return r.finalMetrics
	}
}

// Save flushes the transient metrics into the session's durable totals and
// persists. Returns the metrics as saved.
func (r *Ride) Save() Metrics {
	reply := make(chan Metrics, 1)
	select {
	case r.saveCh <- reply:
		return <-reply
	case <-r.stopped:
		return r.finalMetrics
	}
}

// Exit saves and winds the ride down. If a generation is in flight the loop
// stays alive until the result arrives and its chapter is appended.
func (r *Ride) Exit() Metrics {
	reply := make(chan Metrics, 1)
	select {
	case r.exitCh <- reply:
		return <-reply
	case <-r.stopped:
		return r.finalMetrics
	}
}

// Done is closed once the ride loop has fully stopped.
func (r *Ride) Done() <-chan struct{} {
	return r.stopped
}

func (r *Ride) run() {
	for {
		select {
		case <-r.ticks:
			if !r.tracking || r.exiting {
				continue
			}
			r.metrics = advance(r.metrics)
			r.flushTotals()
			if r.feed != nil {
				r.feed.MetricsUpdated(r.session.Id, r.metrics)
			}
			if !r.inFlight && r.policy.shouldFire(r.metrics.ElapsedTime, r.metrics.TotalDistance) {
				r.fire(r.metrics.CurrentSpeed, r.metrics.TotalDistance)
			}

		case speed := <-r.speedCh:
			r.metrics.CurrentSpeed = speed

		case on := <-r.trackCh:
			r.tracking = on

		case reply := <-r.metricsCh:
			reply <- r.metrics

		case reply := <-r.saveCh:
			r.flushTotals()
			r.persist()
			reply <- r.metrics

		case reply := <-r.exitCh:
			r.exiting = true
			r.tracking = false
			r.session.IsCompleted = true
			r.flushTotals()
			r.persist()
			reply <- r.metrics
			if !r.inFlight {
				r.shutdown()
				return
			}

		case chapter := <-r.doneCh:
			r.inFlight = false
			r.session.Chapters = append(r.session.Chapters, chapter)
			r.flushTotals()
			r.persist()
			if r.feed != nil {
				r.feed.ChapterAppended(r.session.Id, len(r.session.Chapters), chapter)
			}
			if r.exiting {
				r.shutdown()
				return
			}
		}
	}
}

// fire snapshots the trigger point, raises the in-flight flag and dispatches
// the generation request with the values of the triggering tick. The request
// runs under a deadline so a hung provider cannot wedge the flag forever.
func (r *Ride) fire(speed, distance float64) {
	r.policy.markFired(r.metrics.ElapsedTime, distance)
	r.inFlight = true

	req := ChapterRequest{
		SessionId:    r.session.Id,
		Genre:        r.session.Genre,
		PlotSeed:     r.session.PlotSeed,
		Speed:        speed,
		Distance:     distance,
		ChapterIndex: len(r.session.Chapters) + 1,
		PriorContext: r.session.PriorContext(),
	}

	if r.feed != nil {
		r.feed.GenerationStarted(r.session.Id, req.ChapterIndex)
	}
	if r.logger != nil {
		r.logger.Info("Engine", "Chapter triggered", map[string]interface{}{
			"session_id": req.SessionId,
			"index":      req.ChapterIndex,
			"speed":      req.Speed,
			"distance":   req.Distance,
		})
	}

	go func(req ChapterRequest) {
		ctx, cancel := context.WithTimeout(context.Background(), r.genTimeout)
		defer cancel()
		r.doneCh <- r.generator.GenerateChapter(ctx, req)
	}(req)
}

func (r *Ride) flushTotals() {
	r.session.TotalDistance = r.metrics.TotalDistance
	r.session.TotalTime = r.metrics.ElapsedTime
}

func (r *Ride) persist() {
	if r.persister == nil {
		return
	}
	r.persister.PersistSession(context.Background(), r.session.Clone())
}

func (r *Ride) shutdown() {
	if r.ticker != nil {
		r.ticker.Stop()
	}
	r.finalMetrics = r.metrics
	close(r.stopped)
}
