package warehouse

import "sync"

// entityQueryCache memoizes which groupings have matched a filter across
// prior enumerations, plus a high-water mark of how many lookup entries
// have been scanned. Growth is monotonic: a grouping stays cached forever
// once matched, relying on the fact that interned archetypes never change.
type entityQueryCache struct {
	mu                  sync.Mutex
	results             []EntityTableGrouping
	size                int
	previousLookupCount int
}

func newEntityQueryCache() *entityQueryCache {
	return &entityQueryCache{results: make([]EntityTableGrouping, 0, 4)}
}

// EntityQuery is a reference to one lookup plus one filter, with optional
// incremental caching of which groupings match.
type EntityQuery struct {
	lookup *EntityTableLookup
	filter EntityFilter
	cache  *entityQueryCache
}

// NewQuery constructs an uncached, Universal-filtered query over lookup.
func NewQuery(lookup *EntityTableLookup) *EntityQuery {
	return &EntityQuery{lookup: lookup, filter: Universal}
}

// NewFilteredQuery constructs an uncached query over lookup restricted to
// filter.
func NewFilteredQuery(lookup *EntityTableLookup, filter EntityFilter) *EntityQuery {
	return &EntityQuery{lookup: lookup, filter: filter}
}

// NewCachedQuery constructs a query over lookup restricted to filter, with
// caching enabled.
func NewCachedQuery(lookup *EntityTableLookup, filter EntityFilter) *EntityQuery {
	return &EntityQuery{lookup: lookup, filter: filter, cache: newEntityQueryCache()}
}

// Filter returns the query's filter.
func (q *EntityQuery) Filter() EntityFilter { return q.filter }

// IsCacheEnabled reports whether this query memoizes matched groupings.
func (q *EntityQuery) IsCacheEnabled() bool { return q.cache != nil }

// Enumerate yields every EntityTable contained in every grouping whose key
// matches the filter, without duplicates, in lookup insertion order (and,
// within a grouping, table insertion order).
func (q *EntityQuery) Enumerate(yield func(EntityTable) bool) {
	if q.cache == nil {
		q.enumerateUncached(yield)
		return
	}
	q.enumerateCached(yield)
}

func (q *EntityQuery) enumerateUncached(yield func(EntityTable) bool) {
	e := q.lookup.NewEnumerator()
	for e.Next() {
		g := e.Current()
		if !q.filter.Matches(g.Key()) {
			continue
		}
		for _, t := range g.Tables() {
			if !yield(t) {
				return
			}
		}
	}
}

// CacheSize reports the cache's current matched-grouping count. Panics if
// caching is disabled; callers should guard with IsCacheEnabled. The size
// figure only ever grows across the life of the query.
func (q *EntityQuery) CacheSize() int {
	q.cache.mu.Lock()
	defer q.cache.mu.Unlock()
	return q.cache.size
}

func (q *EntityQuery) enumerateCached(yield func(EntityTable) bool) {
	count := q.lookup.Count()

	c := q.cache
	c.mu.Lock()
	if c.previousLookupCount < count {
		for i := c.previousLookupCount; i < count; i++ {
			g, err := q.lookup.At(i)
			if err != nil {
				break
			}
			if q.filter.Matches(g.Key()) {
				c.results = append(c.results, g)
				c.size++
			}
		}
		c.previousLookupCount = count
	}
	snapshot := make([]EntityTableGrouping, c.size)
	copy(snapshot, c.results[:c.size])
	c.mu.Unlock()

	for _, g := range snapshot {
		for _, t := range g.Tables() {
			if !yield(t) {
				return
			}
		}
	}
}
