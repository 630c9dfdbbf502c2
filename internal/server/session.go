package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gravitas-games/hexext/field"
	"github.com/gravitas-games/hexext/grid"
	"github.com/gravitas-games/hexext/internal/cache"
	"github.com/gravitas-games/hexext/internal/config"
	"github.com/gravitas-games/hexext/internal/network"
	"github.com/gravitas-games/hexext/path"
)

// ErrRadiusTooLarge is returned for region queries above the configured limit.
var ErrRadiusTooLarge = errors.New("radius too large")

// Query kinds, also used as cache key namespaces.
const (
	kindPath   = "path"
	kindRegion = "region"
	kindFOV    = "fov"
	kindRange  = "range"
)

// Session answers queries against one loaded map. The map is never
// modified after the session is created, so queries run without locking it.
type Session struct {
	ID        string
	CreatedAt time.Time

	mapID string
	world *grid.Map
	cache *cache.Cache
	query config.QueryConfig

	connections map[*Connection]bool
	mu          sync.RWMutex
	queries     int64
}

// SessionStatus represents the current state of the session
type SessionStatus struct {
	Connections int   `json:"connections"`
	Queries     int64 `json:"queries"`
	Uptime      int64 `json:"uptime"` // seconds
}

// NewSession creates a session serving queries against world
func NewSession(id, mapID string, world *grid.Map, c *cache.Cache, qc config.QueryConfig) *Session {
	log.Printf("Creating session %s for map %s (%s)", id, mapID, world)
	return &Session{
		ID:          id,
		CreatedAt:   time.Now(),
		mapID:       mapID,
		world:       world,
		cache:       c,
		query:       qc,
		connections: make(map[*Connection]bool),
	}
}

// AddConnection registers a live connection
func (s *Session) AddConnection(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[conn] = true
}

// RemoveConnection unregisters a connection
func (s *Session) RemoveConnection(conn *Connection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.connections, conn)
}

// GetStatus returns the current session status
func (s *Session) GetStatus() SessionStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return SessionStatus{
		Connections: len(s.connections),
		Queries:     s.queries,
		Uptime:      int64(time.Since(s.CreatedAt).Seconds()),
	}
}

func (s *Session) countQuery() {
	s.mu.Lock()
	s.queries++
	s.mu.Unlock()
}

// MapInfo describes the session's map
func (s *Session) MapInfo() network.MapInfoPayload {
	return network.MapInfoPayload{
		ID:     s.mapID,
		Radius: s.world.Radius,
		Seed:   s.world.Seed,
		Hexes:  s.world.HexCount(),
	}
}

// FindPath runs A* between the requested cells
func (s *Session) FindPath(ctx context.Context, req network.PathRequest) (network.PathResultPayload, error) {
	s.countQuery()
	key := cache.Key(s.mapID, kindPath, req.Start, req.Goal)

	var out network.PathResultPayload
	if ok, err := s.cache.Get(ctx, key, &out); err != nil {
		log.Printf("Cache read failed for %s: %v", key, err)
	} else if ok {
		out.Cached = true
		return out, nil
	}

	res, err := path.Find(req.Start, req.Goal, s.world, path.WithMaxExpansions(s.query.MaxExpansions))
	if err != nil {
		return network.PathResultPayload{}, err
	}
	out = network.PathResultPayload{Path: res.Path, Cost: res.Cost, Expanded: res.Expanded}
	if err := s.cache.Set(ctx, key, out); err != nil {
		log.Printf("Cache write failed for %s: %v", key, err)
	}
	return out, nil
}

// Region computes a step-bounded reachable region (kind "region"), a
// field of view (kind "fov") or a movement-cost range (kind "range")
// around the requested origin
func (s *Session) Region(ctx context.Context, kind string, req network.RegionRequest) (network.RegionResultPayload, error) {
	s.countQuery()
	if req.Radius > s.query.MaxRadius {
		return network.RegionResultPayload{}, fmt.Errorf("%w: %d > %d", ErrRadiusTooLarge, req.Radius, s.query.MaxRadius)
	}
	key := cache.Key(s.mapID, kind, req.Origin, req.Radius)

	var out network.RegionResultPayload
	if ok, err := s.cache.Get(ctx, key, &out); err != nil {
		log.Printf("Cache read failed for %s: %v", key, err)
	} else if ok {
		out.Cached = true
		return out, nil
	}

	var (
		reg field.Region
		err error
	)
	switch kind {
	case kindRegion:
		reg, err = field.Reachable(req.Origin, req.Radius, s.world)
	case kindFOV:
		reg, err = field.Visible(req.Origin, req.Radius, s.world)
	case kindRange:
		reg, err = field.MovementRange(req.Origin, req.Radius, s.world)
	default:
		return network.RegionResultPayload{}, fmt.Errorf("unknown region kind %q", kind)
	}
	if err != nil {
		return network.RegionResultPayload{}, err
	}

	out = network.RegionResultPayload{Kind: kind, Origin: req.Origin, Radius: req.Radius, Cells: reg.Sorted()}
	if err := s.cache.Set(ctx, key, out); err != nil {
		log.Printf("Cache write failed for %s: %v", key, err)
	}
	return out, nil
}

// errorCode maps a query error to the code sent to clients
func errorCode(err error) string {
	switch {
	case errors.Is(err, path.ErrNoPath):
		return network.ErrCodeNoPath
	case errors.Is(err, path.ErrSearchLimit):
		return network.ErrCodeSearchLimit
	case errors.Is(err, ErrRadiusTooLarge):
		return network.ErrCodeRadiusTooLarge
	case errors.Is(err, field.ErrNegativeRadius), errors.Is(err, field.ErrNegativeBudget),
		errors.Is(err, path.ErrNegativeCost):
		return network.ErrCodeInvalidRequest
	default:
		return network.ErrCodeInternal
	}
}
