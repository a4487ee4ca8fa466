package memory

import (
	"myjourney-be/internal/engine"

	"github.com/patrickmn/go-cache"
)

// RideRepository tracks the rides currently running in this process,
// keyed by session id. Rides never expire on their own; they are
// removed explicitly once the engine shuts down.
type RideRepository struct {
	cache *cache.Cache
}

func NewRideRepository() *RideRepository {
	c := cache.New(cache.NoExpiration, 0)
	return &RideRepository{
		cache: c,
	}
}

func (r *RideRepository) Save(ride *engine.Ride) {
	r.cache.Set(ride.SessionId().String(), ride, cache.NoExpiration)
}

func (r *RideRepository) Get(sessionID string) (*engine.Ride, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*engine.Ride), true
	}
	return nil, false
}

func (r *RideRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// Items returns all live rides, used for draining on shutdown.
func (r *RideRepository) Items() []*engine.Ride {
	items := r.cache.Items()
	rides := make([]*engine.Ride, 0, len(items))
	for _, item := range items {
		rides = append(rides, item.Object.(*engine.Ride))
	}
	return rides
}
