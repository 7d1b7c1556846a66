package saved

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/neexbeast/travel-guide/internal/catalog"
)

// SavedPlace is a place snapshot plus the destination it belongs to. It is
// encoded as the place object with an extra destinationId field.
type SavedPlace struct {
	catalog.Place
	DestinationID string `json:"destinationId"`
}

// Snapshotter is the durable key-value shim behind the Store.
// LoadSnapshot returns nil, nil when nothing has been persisted yet.
type Snapshotter interface {
	LoadSnapshot(ctx context.Context) ([]byte, error)
	SaveSnapshot(ctx context.Context, blob []byte) error
	Ping(ctx context.Context) error
}

// Encode serializes the collection as a JSON array, always producing "[]"
// for an empty collection.
func Encode(places []SavedPlace) ([]byte, error) {
	if places == nil {
		places = []SavedPlace{}
	}
	b, err := json.Marshal(places)
	if err != nil {
		return nil, fmt.Errorf("marshaling saved places: %w", err)
	}
	return b, nil
}

// Decode parses a snapshot. Entries without an id are dropped and duplicate
// ids keep their first occurrence.
func Decode(blob []byte) ([]SavedPlace, error) {
	var raw []SavedPlace
	if err := json.Unmarshal(blob, &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling saved places: %w", err)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]SavedPlace, 0, len(raw))
	for _, p := range raw {
		if p.ID == "" {
			continue
		}
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		out = append(out, p)
	}
	return out, nil
}

// MemorySnapshot keeps the blob in process memory.
type MemorySnapshot struct {
	mu   sync.Mutex
	blob []byte
}

// NewMemorySnapshot returns an empty MemorySnapshot.
func NewMemorySnapshot() *MemorySnapshot {
	return &MemorySnapshot{}
}

func (m *MemorySnapshot) LoadSnapshot(_ context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blob == nil {
		return nil, nil
	}
	return append([]byte(nil), m.blob...), nil
}

func (m *MemorySnapshot) SaveSnapshot(_ context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = append([]byte(nil), blob...)
	return nil
}

func (m *MemorySnapshot) Ping(_ context.Context) error { return nil }
