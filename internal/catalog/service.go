package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/elliotchance/pie/v2"

	"github.com/neexbeast/travel-guide/internal/latency"
)

// Service answers read queries over a loaded Catalog. Every call goes
// through the latency Waiter that stands in for the network.
type Service struct {
	cat   *Catalog
	index map[string]int
	wait  latency.Waiter
}

// NewService constructs a Service over cat.
func NewService(cat *Catalog, wait latency.Waiter) *Service {
	if wait == nil {
		wait = latency.None()
	}
	index := make(map[string]int, len(cat.Destinations))
	for i, d := range cat.Destinations {
		index[d.ID] = i
	}
	return &Service{cat: cat, index: index, wait: wait}
}

// Destinations returns every destination in content order.
func (s *Service) Destinations(ctx context.Context) ([]Destination, error) {
	if err := s.wait.Wait(ctx, latency.OpCatalog); err != nil {
		return nil, fmt.Errorf("listing destinations: %w", err)
	}
	return append([]Destination(nil), s.cat.Destinations...), nil
}

// Destination looks up a destination by id.
// Returns nil, nil when the id is unknown.
func (s *Service) Destination(ctx context.Context, id string) (*Destination, error) {
	if err := s.wait.Wait(ctx, latency.OpCatalog); err != nil {
		return nil, fmt.Errorf("getting destination %s: %w", id, err)
	}
	return s.lookup(id), nil
}

func (s *Service) lookup(id string) *Destination {
	i, ok := s.index[id]
	if !ok {
		return nil
	}
	d := s.cat.Destinations[i]
	return &d
}

// Search matches query case-insensitively against name, country and
// description. An empty query returns every destination.
func (s *Service) Search(ctx context.Context, query string) ([]Destination, error) {
	if err := s.wait.Wait(ctx, latency.OpSearch); err != nil {
		return nil, fmt.Errorf("searching destinations: %w", err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return append([]Destination(nil), s.cat.Destinations...), nil
	}

	return pie.Filter(s.cat.Destinations, func(d Destination) bool {
		return strings.Contains(strings.ToLower(d.Name), q) ||
			strings.Contains(strings.ToLower(d.Country), q) ||
			strings.Contains(strings.ToLower(d.Description), q)
	}), nil
}

// PlacesByCategory returns the places of one category. Unknown destinations
// yield an empty slice.
func (s *Service) PlacesByCategory(ctx context.Context, destinationID string, c Category) ([]Place, error) {
	if err := s.wait.Wait(ctx, latency.OpCatalog); err != nil {
		return nil, fmt.Errorf("listing %s places for %s: %w", c, destinationID, err)
	}
	return append([]Place{}, s.cat.Places[destinationID].ByCategory(c)...), nil
}

// Places returns every place of a destination.
func (s *Service) Places(ctx context.Context, destinationID string) ([]Place, error) {
	if err := s.wait.Wait(ctx, latency.OpCatalog); err != nil {
		return nil, fmt.Errorf("listing places for %s: %w", destinationID, err)
	}
	return s.cat.Places[destinationID].All(), nil
}

// Place looks up a single place. Returns nil, nil when not found.
func (s *Service) Place(ctx context.Context, destinationID, placeID string) (*Place, error) {
	if err := s.wait.Wait(ctx, latency.OpCatalog); err != nil {
		return nil, fmt.Errorf("getting place %s in %s: %w", placeID, destinationID, err)
	}
	for _, p := range s.cat.Places[destinationID].All() {
		if p.ID == placeID {
			return &p, nil
		}
	}
	return nil, nil
}

// Markers projects every place of a destination onto the map view.
func (s *Service) Markers(ctx context.Context, destinationID string) ([]Marker, error) {
	if err := s.wait.Wait(ctx, latency.OpCatalog); err != nil {
		return nil, fmt.Errorf("listing markers for %s: %w", destinationID, err)
	}
	return toMarkers(s.cat.Places[destinationID].All()), nil
}

func toMarkers(places []Place) []Marker {
	return pie.Map(places, func(p Place) Marker {
		return Marker{
			ID:          p.ID,
			Name:        p.Name,
			Category:    p.Category,
			Coordinates: p.Coordinates,
			Rating:      p.Rating,
		}
	})
}
