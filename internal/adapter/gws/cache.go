package gws

import (
	"context"
	"fmt"
	"sync"

	"github.com/couchcryptid/plate-kinematics-etl/internal/domain"
	"github.com/couchcryptid/plate-kinematics-etl/internal/observability"
)

// CachedEngine wraps a ReconstructionEngine with in-memory LRU caches for
// the two expensive, repeatable calls: topology resolution and subduction
// sampling. Point-dependent calls pass through uncached since their inputs
// rarely repeat.
type CachedEngine struct {
	inner      domain.ReconstructionEngine
	topologies *lruCache[[]domain.ResolvedTopology]
	subduction *lruCache[[]domain.ConvergenceSample]
	metrics    *observability.Metrics
}

// NewCachedEngine creates a cache decorator around an engine.
func NewCachedEngine(inner domain.ReconstructionEngine, maxEntries int, metrics *observability.Metrics) *CachedEngine {
	return &CachedEngine{
		inner:      inner,
		topologies: newLRUCache[[]domain.ResolvedTopology](maxEntries),
		subduction: newLRUCache[[]domain.ConvergenceSample](maxEntries),
		metrics:    metrics,
	}
}

var _ domain.ReconstructionEngine = (*CachedEngine)(nil)

func (c *CachedEngine) ResolveTopologies(ctx context.Context, model string, timeMa float64, anchorPlateID int) ([]domain.ResolvedTopology, error) {
	key := fmt.Sprintf("%s|%.4f|%d", model, timeMa, anchorPlateID)
	if result, ok := c.topologies.get(key); ok {
		c.metrics.EngineCache.WithLabelValues("resolve_topologies", "hit").Inc()
		return result, nil
	}
	c.metrics.EngineCache.WithLabelValues("resolve_topologies", "miss").Inc()

	result, err := c.inner.ResolveTopologies(ctx, model, timeMa, anchorPlateID)
	if err != nil {
		return nil, err
	}
	c.topologies.put(key, result)
	return result, nil
}

func (c *CachedEngine) SubductionZones(ctx context.Context, q domain.SubductionQuery) ([]domain.ConvergenceSample, error) {
	key := fmt.Sprintf("%s|%.4f|%.4f|%.4f|%d", q.Model, q.TimeMa, q.VelocityDeltaTime, q.SamplingDeg, q.AnchorPlateID)
	if result, ok := c.subduction.get(key); ok {
		c.metrics.EngineCache.WithLabelValues("subduction_zones", "hit").Inc()
		return result, nil
	}
	c.metrics.EngineCache.WithLabelValues("subduction_zones", "miss").Inc()

	result, err := c.inner.SubductionZones(ctx, q)
	if err != nil {
		return nil, err
	}
	c.subduction.put(key, result)
	return result, nil
}

func (c *CachedEngine) AssignPlateIDs(ctx context.Context, model string, points []domain.Point) ([]int, error) {
	return c.inner.AssignPlateIDs(ctx, model, points)
}

func (c *CachedEngine) PointVelocities(ctx context.Context, q domain.VelocityQuery) ([]domain.VelocitySample, error) {
	return c.inner.PointVelocities(ctx, q)
}

func (c *CachedEngine) ReconstructPoints(ctx context.Context, q domain.ReconstructQuery) ([]domain.Point, error) {
	return c.inner.ReconstructPoints(ctx, q)
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
