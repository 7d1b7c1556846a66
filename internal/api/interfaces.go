package api

import (
	"context"

	"github.com/neexbeast/travel-guide/internal/catalog"
	"github.com/neexbeast/travel-guide/internal/chat"
	"github.com/neexbeast/travel-guide/internal/saved"
)

// Catalog defines the read operations needed by handlers.
type Catalog interface {
	Destinations(ctx context.Context) ([]catalog.Destination, error)
	Search(ctx context.Context, query string) ([]catalog.Destination, error)
	Destination(ctx context.Context, id string) (*catalog.Destination, error)
	Overview(ctx context.Context, id string) (*catalog.Overview, error)
	Places(ctx context.Context, destinationID string) ([]catalog.Place, error)
	PlacesByCategory(ctx context.Context, destinationID string, c catalog.Category) ([]catalog.Place, error)
	Place(ctx context.Context, destinationID, placeID string) (*catalog.Place, error)
	Markers(ctx context.Context, destinationID string) ([]catalog.Marker, error)
}

// SavedPlaces defines the saved-places operations needed by handlers.
type SavedPlaces interface {
	Toggle(ctx context.Context, place catalog.Place, destinationID string) bool
	IsSaved(placeID string) bool
	ClearAll(ctx context.Context)
	List() []saved.SavedPlace
}

// Assistant defines the chat session operations needed by handlers.
type Assistant interface {
	Ask(ctx context.Context, text, destinationID string) (chat.Message, error)
	Welcome()
	History() []chat.Message
	Clear()
	Suggestions() []string
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
