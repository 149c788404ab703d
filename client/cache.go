package client

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/wardrobe-manager/wardrobe-manager-api/models"
)

// Phase is the cache lifecycle state
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseBooting
	PhaseReady
)

// EventType tags cache notifications
type EventType int

const (
	// EventChanged fires after every cache mutation so observers can
	// re-render from the latest snapshot
	EventChanged EventType = iota
	// EventSaveError fires when a persistence call fails after the cache
	// was already updated optimistically
	EventSaveError
)

// Event is one cache notification
type Event struct {
	Type      EventType
	GarmentID string
	Err       error
}

// Patch is a partial garment update. Nil fields are left unchanged.
type Patch struct {
	Name       *string
	Photos     *models.PhotoList
	Attributes *models.Attributes
}

// GarmentCache keeps the client's working copy of the inventory. Mutations
// apply locally first and persist in the background; failures roll back or
// trigger a resync and are surfaced as events. Server fetches merge with
// unconfirmed local writes by last-write-wins on updatedAt (ISO-8601
// strings compare correctly lexicographically).
type GarmentCache struct {
	api API

	mu       sync.Mutex
	phase    Phase
	bootDone chan struct{}
	bootErr  error
	records  []models.Garment
	subs     []func(Event)

	// in-flight background persistence, awaited by Flush
	inflight sync.WaitGroup
}

// NewGarmentCache creates an empty cache persisting through api
func NewGarmentCache(api API) *GarmentCache {
	return &GarmentCache{api: api}
}

// Phase returns the cache lifecycle phase
func (gc *GarmentCache) Phase() Phase {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.phase
}

// Subscribe registers an observer for cache events. There is no
// unsubscription or back-pressure; observers must be fast.
func (gc *GarmentCache) Subscribe(fn func(Event)) {
	gc.mu.Lock()
	gc.subs = append(gc.subs, fn)
	gc.mu.Unlock()
}

func (gc *GarmentCache) emit(ev Event) {
	gc.mu.Lock()
	subs := make([]func(Event), len(gc.subs))
	copy(subs, gc.subs)
	gc.mu.Unlock()
	for _, fn := range subs {
		fn(ev)
	}
}

// Boot performs the one-time initial population. Concurrent callers share
// the same in-flight boot; later callers return immediately.
func (gc *GarmentCache) Boot(ctx context.Context) error {
	gc.mu.Lock()
	switch gc.phase {
	case PhaseReady:
		gc.mu.Unlock()
		return nil
	case PhaseBooting:
		done := gc.bootDone
		gc.mu.Unlock()
		select {
		case <-done:
			gc.mu.Lock()
			err := gc.bootErr
			gc.mu.Unlock()
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	gc.phase = PhaseBooting
	gc.bootDone = make(chan struct{})
	done := gc.bootDone
	gc.mu.Unlock()

	err := gc.Refresh(ctx)

	gc.mu.Lock()
	if err != nil {
		// A failed boot is retryable; the next caller starts over.
		gc.phase = PhaseUninitialized
		gc.bootErr = err
	} else {
		gc.phase = PhaseReady
		gc.bootErr = nil
	}
	gc.mu.Unlock()
	close(done)
	return err
}

// Refresh fetches every garment and merges the result with local records.
// A local record survives when its updatedAt is strictly newer than the
// server's copy; records the server does not know yet (optimistic creates
// still in flight) are kept.
func (gc *GarmentCache) Refresh(ctx context.Context) error {
	fetched, err := gc.api.ListGarments(ctx)
	if err != nil {
		return err
	}

	gc.mu.Lock()
	local := make(map[string]models.Garment, len(gc.records))
	order := make([]string, 0, len(gc.records))
	for _, g := range gc.records {
		local[g.ID] = g
		order = append(order, g.ID)
	}

	seen := make(map[string]bool, len(fetched))
	merged := make([]models.Garment, 0, len(fetched))
	for _, remote := range fetched {
		remote = models.NormalizeLegacyGarment(remote)
		seen[remote.ID] = true
		if l, ok := local[remote.ID]; ok && l.UpdatedAt > remote.UpdatedAt {
			merged = append(merged, l)
		} else {
			merged = append(merged, remote)
		}
	}

	// Local-only records go up front, where optimistic creates live
	head := make([]models.Garment, 0)
	for _, id := range order {
		if !seen[id] {
			head = append(head, local[id])
		}
	}
	gc.records = append(head, merged...)
	gc.mu.Unlock()

	gc.emit(Event{Type: EventChanged})
	return nil
}

// List returns a snapshot of every cached garment
func (gc *GarmentCache) List() []models.Garment {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	out := make([]models.Garment, len(gc.records))
	copy(out, gc.records)
	return out
}

// Get returns the cached garment with the given id
func (gc *GarmentCache) Get(id string) (models.Garment, bool) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	for _, g := range gc.records {
		if g.ID == id {
			return g, true
		}
	}
	return models.Garment{}, false
}

// Create inserts a new garment optimistically and persists it in the
// background. On persistence failure the insert is rolled back and a
// save-error event is emitted.
func (gc *GarmentCache) Create(ctx context.Context, input models.Garment) models.Garment {
	now := models.NowISO()
	garment := input
	if garment.ID == "" {
		garment.ID = uuid.NewString()
	}
	garment.CreatedAt = now
	garment.UpdatedAt = now
	garment.SyncDerived()

	gc.mu.Lock()
	gc.records = append([]models.Garment{garment}, gc.records...)
	gc.mu.Unlock()
	gc.emit(Event{Type: EventChanged, GarmentID: garment.ID})

	gc.inflight.Add(1)
	go func() {
		defer gc.inflight.Done()
		if err := gc.api.UpsertGarment(ctx, garment); err != nil {
			gc.remove(garment.ID)
			gc.emit(Event{Type: EventChanged, GarmentID: garment.ID})
			gc.emit(Event{Type: EventSaveError, GarmentID: garment.ID, Err: err})
		}
	}()

	return garment
}

// Update merges the patch into the cached garment, re-derives
// completionStatus, applies it immediately, and persists in the
// background. On failure a save-error event fires and the record is
// resynced from the server; until that lands the cache may briefly show
// the unsaved state.
func (gc *GarmentCache) Update(ctx context.Context, id string, patch Patch) (models.Garment, bool) {
	gc.mu.Lock()
	idx := -1
	for i := range gc.records {
		if gc.records[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		gc.mu.Unlock()
		return models.Garment{}, false
	}

	merged := gc.records[idx]
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Photos != nil {
		merged.Photos = *patch.Photos
	}
	if patch.Attributes != nil {
		merged.Attributes = *patch.Attributes
	}
	merged.SyncDerived()
	merged.UpdatedAt = models.NowISO()
	gc.records[idx] = merged
	gc.mu.Unlock()
	gc.emit(Event{Type: EventChanged, GarmentID: id})

	gc.inflight.Add(1)
	go func() {
		defer gc.inflight.Done()
		err := gc.api.UpdateGarment(ctx, merged)
		if errors.Is(err, ErrNotFound) {
			// The optimistic create may still be in flight; fall back to
			// an upsert so the update is not lost.
			err = gc.api.UpsertGarment(ctx, merged)
		}
		if err != nil {
			gc.emit(Event{Type: EventSaveError, GarmentID: id, Err: err})
			gc.resync(ctx, id)
		}
	}()

	return merged, true
}

// Delete removes the garment optimistically and persists the deletion in
// the background. A server 404 counts as success; any other failure
// restores the record and emits a save-error event.
func (gc *GarmentCache) Delete(ctx context.Context, id string) bool {
	gc.mu.Lock()
	idx := -1
	for i := range gc.records {
		if gc.records[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		gc.mu.Unlock()
		return false
	}
	removed := gc.records[idx]
	gc.records = append(gc.records[:idx:idx], gc.records[idx+1:]...)
	gc.mu.Unlock()
	gc.emit(Event{Type: EventChanged, GarmentID: id})

	gc.inflight.Add(1)
	go func() {
		defer gc.inflight.Done()
		if err := gc.api.DeleteGarment(ctx, id); err != nil {
			gc.restore(removed, idx)
			gc.emit(Event{Type: EventChanged, GarmentID: id})
			gc.emit(Event{Type: EventSaveError, GarmentID: id, Err: err})
		}
	}()

	return true
}

// Flush waits for all in-flight background persistence to settle
func (gc *GarmentCache) Flush() {
	gc.inflight.Wait()
}

// remove deletes a record by id without emitting events
func (gc *GarmentCache) remove(id string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	for i := range gc.records {
		if gc.records[i].ID == id {
			gc.records = append(gc.records[:i:i], gc.records[i+1:]...)
			return
		}
	}
}

// restore puts a removed record back, clamping the position to the current
// list length
func (gc *GarmentCache) restore(g models.Garment, at int) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	for i := range gc.records {
		if gc.records[i].ID == g.ID {
			return
		}
	}
	if at > len(gc.records) {
		at = len(gc.records)
	}
	rest := append([]models.Garment{g}, gc.records[at:]...)
	gc.records = append(gc.records[:at:at], rest...)
}

// resync replaces one record with the server's copy, best effort
func (gc *GarmentCache) resync(ctx context.Context, id string) {
	fresh, err := gc.api.GetGarment(ctx, id)
	if err != nil {
		return
	}
	g := models.NormalizeLegacyGarment(*fresh)

	gc.mu.Lock()
	found := false
	for i := range gc.records {
		if gc.records[i].ID == id {
			gc.records[i] = g
			found = true
			break
		}
	}
	if !found {
		gc.records = append([]models.Garment{g}, gc.records...)
	}
	gc.mu.Unlock()
	gc.emit(Event{Type: EventChanged, GarmentID: id})
}
