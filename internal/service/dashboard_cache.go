package service

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type cachedSummary struct {
	summary   *DashboardSummary
	expiresAt time.Time
}

// DashboardCache holds one dashboard snapshot per tenant with a TTL. Services
// that mutate data feeding the dashboard call Invalidate so the next read
// recomputes.
type DashboardCache struct {
	ttl     time.Duration
	entries sync.Map // uuid.UUID -> cachedSummary
}

func NewDashboardCache(ttl time.Duration) *DashboardCache {
	return &DashboardCache{ttl: ttl}
}

func (c *DashboardCache) Get(tenantID uuid.UUID) (*DashboardSummary, bool) {
	v, ok := c.entries.Load(tenantID)
	if !ok {
		return nil, false
	}
	entry := v.(cachedSummary)
	if time.Now().After(entry.expiresAt) {
		c.entries.Delete(tenantID)
		return nil, false
	}
	return entry.summary, true
}

func (c *DashboardCache) Set(tenantID uuid.UUID, summary *DashboardSummary) {
	c.entries.Store(tenantID, cachedSummary{summary: summary, expiresAt: time.Now().Add(c.ttl)})
}

func (c *DashboardCache) Invalidate(tenantID uuid.UUID) {
	c.entries.Delete(tenantID)
}
