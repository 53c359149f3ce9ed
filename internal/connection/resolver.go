package connection

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/estuary/kachaka-core/internal/kachakapb"
)

// resolver builds and owns the local shelf/location name->id maps. It
// intentionally never mutates any upstream SDK state — the original Python
// implementation monkey-patches the SDK's resolver, which is why this one
// is built and owned locally instead.
type resolver struct {
	mu    sync.RWMutex
	ready bool

	shelves   map[string]string // name -> id
	shelfIDs  map[string]bool
	locations map[string]string // name -> id
	locationIDs map[string]bool

	group singleflight.Group
}

func newResolver() *resolver {
	return &resolver{}
}

// ensure fetches the shelf and location lists exactly once (idempotent,
// concurrency-safe via singleflight so parallel callers collapse into one
// fetch) and builds the name<->id maps.
func (r *resolver) ensure(ctx context.Context, client kachakapb.KachakaApiClient) error {
	r.mu.RLock()
	ready := r.ready
	r.mu.RUnlock()
	if ready {
		return nil
	}

	_, err, _ := r.group.Do("ensure", func() (interface{}, error) {
		r.mu.RLock()
		ready := r.ready
		r.mu.RUnlock()
		if ready {
			return nil, nil
		}

		shelves, err := client.GetShelves(ctx)
		if err != nil {
			return nil, err
		}
		locations, err := client.GetLocations(ctx)
		if err != nil {
			return nil, err
		}

		shelfNames := make(map[string]string, len(shelves))
		shelfIDs := make(map[string]bool, len(shelves))
		for _, s := range shelves {
			shelfNames[s.Name] = s.Id
			shelfIDs[s.Id] = true
		}
		locNames := make(map[string]string, len(locations))
		locIDs := make(map[string]bool, len(locations))
		for _, l := range locations {
			locNames[l.Name] = l.Id
			locIDs[l.Id] = true
		}

		r.mu.Lock()
		r.shelves, r.shelfIDs = shelfNames, shelfIDs
		r.locations, r.locationIDs = locNames, locIDs
		r.ready = true
		r.mu.Unlock()
		return nil, nil
	})
	return err
}

// resolveShelf resolves a shelf name or id to its canonical id with a
// three-way fallback: known id -> itself, known name -> its id, else the
// input unchanged (the server will reject it).
func (r *resolver) resolveShelf(nameOrID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.shelfIDs[nameOrID] {
		return nameOrID
	}
	if id, ok := r.shelves[nameOrID]; ok {
		return id
	}
	log.WithField("shelf", nameOrID).Warn("shelf not found by name or id")
	return nameOrID
}

// resolveLocation mirrors resolveShelf for locations.
func (r *resolver) resolveLocation(nameOrID string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.locationIDs[nameOrID] {
		return nameOrID
	}
	if id, ok := r.locations[nameOrID]; ok {
		return id
	}
	log.WithField("location", nameOrID).Warn("location not found by name or id")
	return nameOrID
}
