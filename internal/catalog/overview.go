package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// Overview loads a destination together with its categorized places and map
// markers in parallel. Only the destination lookup is fatal: a failed place
// bucket or marker load is logged and left empty.
// Returns nil, nil when the destination does not exist.
func (s *Service) Overview(ctx context.Context, destinationID string) (*Overview, error) {
	g, gCtx := errgroup.WithContext(ctx)

	var dest *Destination
	buckets := make([][]Place, len(Categories))
	var markers []Marker

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("destination load panicked", "recover", r)
				err = fmt.Errorf("destination load panicked: %v", r)
			}
		}()
		d, loadErr := s.Destination(gCtx, destinationID)
		if loadErr != nil {
			return loadErr
		}
		dest = d
		return nil
	})

	for i, c := range Categories {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("places load panicked", "category", c, "recover", r)
					err = fmt.Errorf("places load panicked: %v", r)
				}
			}()
			places, loadErr := s.PlacesByCategory(gCtx, destinationID, c)
			if loadErr != nil {
				slog.Warn("places load failed", "destination", destinationID, "category", c, "err", loadErr)
				return nil
			}
			buckets[i] = places
			return nil
		})
	}

	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("markers load panicked", "recover", r)
				err = fmt.Errorf("markers load panicked: %v", r)
			}
		}()
		m, loadErr := s.Markers(gCtx, destinationID)
		if loadErr != nil {
			slog.Warn("markers load failed", "destination", destinationID, "err", loadErr)
			return nil
		}
		markers = m
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("loading overview for %s: %w", destinationID, err)
	}
	if dest == nil {
		return nil, nil
	}

	return &Overview{
		Destination: *dest,
		Places: PlaceSet{
			Attractions: buckets[0],
			Food:        buckets[1],
			Hotels:      buckets[2],
			Culture:     buckets[3],
		},
		Markers: markers,
	}, nil
}
