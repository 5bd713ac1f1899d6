/*
cache.go - Session-scoped memo for utilization results

PURPOSE:
  Computing utilization is a scan over the allocation set. Callers that
  validate a batch, build a summary, or sweep the roster hit the same
  (snapshot, resource) pairs repeatedly; the SessionCache memoizes those
  results for the duration of one session.

SCOPE RULES:
  - A cache is an explicit value the caller constructs and owns. There is
    no package-level cache.
  - Entries are keyed by the snapshot's allocation content hash plus the
    resource name, so a cache can never serve results for state it has
    not seen.
  - Bounded: when full, the oldest entry is evicted (FIFO).
  - Reset() drops everything; that is the invalidation story.

A pointer-identity fast path remembers the last snapshot hashed so a
session working over one snapshot pays for the hash once.

SEE ALSO:
  - snapshot.go: AllocationsFingerprint
  - utilization.go: The only producer/consumer of entries
*/
package engine

// DefaultCacheSize bounds a session cache when callers don't choose.
const DefaultCacheSize = 128

// SessionCache memoizes utilization results within one validation session.
// Not safe for concurrent use; sessions are single-goroutine by contract.
type SessionCache struct {
	limit   int
	entries map[string]*Utilization
	order   []string

	// pointer-identity fast path for the snapshot fingerprint
	lastSnap *Snapshot
	lastFP   string
}

// NewSessionCache creates a bounded cache. Non-positive limits fall back
// to DefaultCacheSize.
func NewSessionCache(limit int) *SessionCache {
	if limit <= 0 {
		limit = DefaultCacheSize
	}
	return &SessionCache{
		limit:   limit,
		entries: make(map[string]*Utilization),
	}
}

// Reset drops all entries and the remembered snapshot.
func (c *SessionCache) Reset() {
	c.entries = make(map[string]*Utilization)
	c.order = nil
	c.lastSnap = nil
	c.lastFP = ""
}

// Len returns the number of cached results.
func (c *SessionCache) Len() int {
	return len(c.entries)
}

func (c *SessionCache) fingerprint(snap *Snapshot) string {
	if snap == c.lastSnap && c.lastFP != "" {
		return c.lastFP
	}
	fp := snap.AllocationsFingerprint()
	c.lastSnap = snap
	c.lastFP = fp
	return fp
}

// lookup returns a memoized utilization for (snap, resourceName), if present.
func (c *SessionCache) lookup(snap *Snapshot, resourceName string) (*Utilization, bool) {
	u, ok := c.entries[c.fingerprint(snap)+"|"+resourceName]
	return u, ok
}

// store memoizes a utilization result, evicting the oldest entry when full.
func (c *SessionCache) store(snap *Snapshot, resourceName string, u *Utilization) {
	key := c.fingerprint(snap) + "|" + resourceName
	if _, exists := c.entries[key]; exists {
		c.entries[key] = u
		return
	}
	if len(c.entries) >= c.limit {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = u
	c.order = append(c.order, key)
}
