package repository

import (
	"context"
	"sync"
	"time"

	apperrors "auctiontracker/internal/errors"
	"auctiontracker/internal/models"
	"auctiontracker/internal/uuid"
)

// memoryPropertyRepository keeps properties in a process-local slice. A mutex
// serializes writers; concurrent updates to the same id are last-writer-wins.
type memoryPropertyRepository struct {
	mu         sync.RWMutex
	properties []models.Property
	index      map[string]int
	now        func() time.Time
}

// NewMemoryPropertyRepository creates an empty in-memory PropertyRepository.
func NewMemoryPropertyRepository() PropertyRepository {
	return &memoryPropertyRepository{
		index: make(map[string]int),
		now:   now,
	}
}

func (r *memoryPropertyRepository) Create(_ context.Context, in models.PropertyInput, ownerID string) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := uuid.New()
	for _, taken := r.index[id]; taken; _, taken = r.index[id] {
		id = uuid.New()
	}

	p := models.NewProperty(in, ownerID, id, r.now())
	r.index[id] = len(r.properties)
	r.properties = append(r.properties, p)

	out := p.Clone()
	return &out, nil
}

func (r *memoryPropertyRepository) Update(_ context.Context, id string, patch models.PropertyPatch) (*models.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, ok := r.index[id]
	if !ok {
		return nil, apperrors.ErrPropertyNotFound
	}

	updated := r.properties[i].Clone()
	updated.Apply(patch)
	r.properties[i] = updated

	out := updated.Clone()
	return &out, nil
}

func (r *memoryPropertyRepository) FindByID(_ context.Context, id string) (*models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, apperrors.ErrPropertyNotFound
	}
	out := r.properties[i].Clone()
	return &out, nil
}

func (r *memoryPropertyRepository) ListByOwner(_ context.Context, ownerID string) ([]models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []models.Property{}
	for i := range r.properties {
		if r.properties[i].UserID == ownerID {
			result = append(result, r.properties[i].Clone())
		}
	}
	return result, nil
}

func (r *memoryPropertyRepository) ListAll(_ context.Context) ([]models.Property, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]models.Property, 0, len(r.properties))
	for i := range r.properties {
		result = append(result, r.properties[i].Clone())
	}
	return result, nil
}

func (r *memoryPropertyRepository) CountByOwner(_ context.Context) (map[string]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	counts := make(map[string]int64)
	for i := range r.properties {
		counts[r.properties[i].UserID]++
	}
	return counts, nil
}
