// Package saved keeps the session's saved places and mirrors them to a
// durable snapshot after every change.
package saved

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/neexbeast/travel-guide/internal/catalog"
)

// DefaultWriteTimeout bounds a single snapshot write.
const DefaultWriteTimeout = 5 * time.Second

// Observer receives store events; Metrics satisfies it.
type Observer interface {
	ObserveToggle(saved bool)
	ObserveSnapshotFailure()
}

// Store is the authoritative in-memory set of saved places, keyed by place
// id and kept in insertion order. It is constructed once per session and
// passed to the consumers that need it.
//
// Membership state and snapshot writes are guarded by separate locks, so a
// slow backend only delays mutations, never IsSaved, List or Len.
type Store struct {
	snap         Snapshotter
	observer     Observer
	log          *slog.Logger
	writeTimeout time.Duration

	mu     sync.Mutex
	places []SavedPlace
	index  map[string]int
	seq    uint64

	// writeMu serializes snapshot writes; written is the seq of the newest
	// collection handed to the backend.
	writeMu sync.Mutex
	written uint64

	subMu  sync.Mutex
	subs   map[int]func([]SavedPlace)
	nextID int
}

// NewStore constructs an empty Store. Call Initialize to load the snapshot.
// observer may be nil.
func NewStore(snap Snapshotter, observer Observer, log *slog.Logger) *Store {
	return &Store{
		snap:         snap,
		observer:     observer,
		log:          log,
		writeTimeout: DefaultWriteTimeout,
		index:        make(map[string]int),
		subs:         make(map[int]func([]SavedPlace)),
	}
}

// SetWriteTimeout changes the per-write deadline. Non-positive values are ignored.
func (s *Store) SetWriteTimeout(d time.Duration) {
	if d <= 0 {
		return
	}
	s.writeMu.Lock()
	s.writeTimeout = d
	s.writeMu.Unlock()
}

// Initialize replaces the collection with the persisted snapshot. A missing
// snapshot or a malformed blob leaves the store empty and returns nil. A
// failed read also leaves it empty but returns the error, since the stored
// list may still be intact and the next mutation would overwrite it.
func (s *Store) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.places = nil
	s.index = make(map[string]int)

	blob, err := s.snap.LoadSnapshot(ctx)
	if err != nil {
		s.log.Warn("loading saved places snapshot failed", "err", err)
		s.snapshotFailed()
		return fmt.Errorf("loading saved places snapshot: %w", err)
	}
	if blob == nil {
		return nil
	}

	places, err := Decode(blob)
	if err != nil {
		s.log.Warn("discarding malformed saved places snapshot", "err", err)
		s.snapshotFailed()
		return nil
	}

	for _, p := range places {
		s.insertLocked(p)
	}
	s.log.Info("saved places loaded", "count", len(s.places))
	return nil
}

// Toggle saves place under destinationID when it is not saved yet and
// removes it otherwise. It returns the new membership state.
func (s *Store) Toggle(ctx context.Context, place catalog.Place, destinationID string) bool {
	s.mu.Lock()
	_, present := s.index[place.ID]
	if present {
		s.removeLocked(place.ID)
	} else {
		s.insertLocked(SavedPlace{Place: place, DestinationID: destinationID})
	}
	current, seq := s.captureLocked()
	s.mu.Unlock()

	if s.observer != nil {
		s.observer.ObserveToggle(!present)
	}
	s.persist(ctx, current, seq)
	return !present
}

// IsSaved reports whether placeID is in the collection.
func (s *Store) IsSaved(placeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.index[placeID]
	return ok
}

// ClearAll toggles off every saved place and persists the empty collection.
func (s *Store) ClearAll(ctx context.Context) {
	s.mu.Lock()
	removed := len(s.places)
	for len(s.places) > 0 {
		s.removeLocked(s.places[len(s.places)-1].ID)
	}
	current, seq := s.captureLocked()
	s.mu.Unlock()

	if s.observer != nil {
		for i := 0; i < removed; i++ {
			s.observer.ObserveToggle(false)
		}
	}
	s.persist(ctx, current, seq)
}

// List returns the saved places in the order they were saved.
func (s *Store) List() []SavedPlace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]SavedPlace{}, s.places...)
}

// Len returns the number of saved places.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.places)
}

// Subscribe registers fn to be called with the full collection after every
// mutation. Calls are serialized with snapshot writes; fn must not mutate
// the store. The returned func removes the subscription.
func (s *Store) Subscribe(fn func([]SavedPlace)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(places []SavedPlace) {
	s.subMu.Lock()
	fns := make([]func([]SavedPlace), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(append([]SavedPlace{}, places...))
	}
}

func (s *Store) insertLocked(p SavedPlace) {
	if _, ok := s.index[p.ID]; ok {
		return
	}
	s.index[p.ID] = len(s.places)
	s.places = append(s.places, p)
}

func (s *Store) removeLocked(id string) {
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.places = append(s.places[:i], s.places[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.places); j++ {
		s.index[s.places[j].ID] = j
	}
}

// captureLocked copies the collection and stamps it with a new sequence number.
func (s *Store) captureLocked() ([]SavedPlace, uint64) {
	s.seq++
	return append([]SavedPlace{}, s.places...), s.seq
}

// persist writes current unless a newer collection has already been written,
// so the backend always ends on the latest state. The write outlives a
// canceled request context but is bounded by writeTimeout. Failures are
// logged and swallowed.
func (s *Store) persist(ctx context.Context, current []SavedPlace, seq uint64) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if seq <= s.written {
		return
	}
	s.written = seq

	blob, err := Encode(current)
	if err != nil {
		s.log.Error("encoding saved places failed", "err", err)
		s.snapshotFailed()
		return
	}

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	if err := s.snap.SaveSnapshot(wctx, blob); err != nil {
		s.log.Warn("persisting saved places failed, keeping in-memory state", "count", len(current), "err", err)
		s.snapshotFailed()
	}
	s.notify(current)
}

func (s *Store) snapshotFailed() {
	if s.observer != nil {
		s.observer.ObserveSnapshotFailure()
	}
}
