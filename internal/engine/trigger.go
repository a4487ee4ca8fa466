package engine

import (
	"math/rand"
	"time"

	"myjourney-be/internal/constant"
)

// triggerPolicy decides, per tick, whether accumulated progress since the
// last requested chapter crosses a threshold. lastChapterTime/Dist snapshot
// the moment the previous chapter was requested, not when it completed.
type triggerPolicy struct {
	carpool         bool
	lastChapterTime int64
	lastChapterDist float64

	// carpoolThreshold is drawn once per chapter interval, not re-rolled
	// every tick: a per-tick draw turns the interval into a first-passage
	// process biased toward early triggers.
	carpoolThreshold float64
	rng              *rand.Rand
}

func newTriggerPolicy(carpool bool, seedTime int64, seedDist float64) *triggerPolicy {
	return newTriggerPolicyWithRand(carpool, seedTime, seedDist,
		rand.New(rand.NewSource(time.Now().UnixNano())))
}

func newTriggerPolicyWithRand(carpool bool, seedTime int64, seedDist float64, rng *rand.Rand) *triggerPolicy {
	p := &triggerPolicy{
		carpool:         carpool,
		lastChapterTime: seedTime,
		lastChapterDist: seedDist,
		rng:             rng,
	}
	p.rollThreshold()
	return p
}

func (p *triggerPolicy) rollThreshold() {
	p.carpoolThreshold = constant.CarpoolDistanceMin +
		p.rng.Float64()*(constant.CarpoolDistanceMax-constant.CarpoolDistanceMin)
}

// shouldFire reports whether a new chapter is due at the given elapsed
// time and distance. Carpool mode uses only its randomized distance
// threshold; standard mode is an OR of the time and distance rules.
func (p *triggerPolicy) shouldFire(elapsed int64, distance float64) bool {
	timeSinceLast := elapsed - p.lastChapterTime
	distSinceLast := distance - p.lastChapterDist

	if p.carpool {
		return distSinceLast >= p.carpoolThreshold
	}
	return timeSinceLast >= constant.ChapterTimeTrigger ||
		distSinceLast >= constant.ChapterDistanceTrigger
}

// markFired snapshots the trigger point and draws the next carpool
// threshold. Called immediately on fire, before the async request resolves.
func (p *triggerPolicy) markFired(elapsed int64, distance float64) {
	p.lastChapterTime = elapsed
	p.lastChapterDist = distance
	p.rollThreshold()
}
