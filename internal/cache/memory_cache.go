package cache

import (
	"sync"
	"time"

	"github.com/epeers/portfoliobuilder/internal/models"
)

// MemoryCache keeps solved allocations in memory, keyed by risk level.
// Price history is fixed for the life of the process, so entries only
// expire when a TTL is configured.
type MemoryCache struct {
	allocations map[models.RiskLevel]allocationEntry
	mu          sync.RWMutex
	ttl         time.Duration
}

type allocationEntry struct {
	allocation *models.Allocation
	fetchedAt  time.Time
}

// NewMemoryCache creates a new in-memory cache. A ttl of zero never expires entries.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		allocations: make(map[models.RiskLevel]allocationEntry),
		ttl:         ttl,
	}
}

// GetAllocation retrieves a cached allocation if present and fresh
func (c *MemoryCache) GetAllocation(risk models.RiskLevel) (*models.Allocation, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.allocations[risk]
	if !exists {
		return nil, false
	}
	if c.ttl > 0 && time.Since(entry.fetchedAt) > c.ttl {
		return nil, false
	}
	return entry.allocation, true
}

// SetAllocation caches an allocation
func (c *MemoryCache) SetAllocation(risk models.RiskLevel, allocation *models.Allocation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.allocations[risk] = allocationEntry{
		allocation: allocation,
		fetchedAt:  time.Now(),
	}
}
