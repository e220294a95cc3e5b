package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"roadscout/pkg/geo"
	"roadscout/pkg/model"
)

// keyPoints is the maximum number of route points folded into a session key.
// Coordinates are rounded to two decimals (~1 km), so near-identical routes
// share a key.
const keyPoints = 20

// sessionKey builds the deterministic cache key for one pipeline invocation.
func sessionKey(route []geo.Point, dest geo.Point, prefs []string) string {
	var b strings.Builder
	for _, p := range geo.Downsample(route, keyPoints) {
		fmt.Fprintf(&b, "%.2f,%.2f;", p.Lat, p.Lon)
	}
	fmt.Fprintf(&b, "|%.2f,%.2f|", dest.Lat, dest.Lon)

	sorted := append([]string(nil), prefs...)
	sort.Strings(sorted)
	b.WriteString(strings.Join(sorted, ","))
	return b.String()
}

// sessionEntry is a completed result with its absolute expiry.
type sessionEntry struct {
	result    *model.DiscoveryResult
	expiresAt time.Time
}

// pendingRun is the shared handle for an in-flight pipeline run. Waiters
// block on done and then read result.
type pendingRun struct {
	done   chan struct{}
	result *model.DiscoveryResult
}

// SessionCache memoizes completed pipeline runs by key and coalesces
// concurrent duplicate runs. It is an explicit object with a defined
// lifecycle: construct once, pass by reference into every invocation.
type SessionCache struct {
	mu       sync.Mutex
	entries  map[string]sessionEntry
	order    []string // insertion order, for oldest-first eviction
	pending  map[string]*pendingRun
	ttl      time.Duration
	capacity int
}

// NewSessionCache creates a cache holding at most capacity entries for ttl.
func NewSessionCache(ttl time.Duration, capacity int) *SessionCache {
	if capacity < 1 {
		capacity = 1
	}
	return &SessionCache{
		entries:  make(map[string]sessionEntry),
		pending:  make(map[string]*pendingRun),
		ttl:      ttl,
		capacity: capacity,
	}
}

// Get returns the cached result for key, if present and unexpired. Expired
// entries are evicted on access.
func (s *SessionCache) Get(key string) (*model.DiscoveryResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(key)
}

func (s *SessionCache) getLocked(key string) (*model.DiscoveryResult, bool) {
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		s.evictLocked(key)
		return nil, false
	}
	return e.result, true
}

// Set stores a completed result under key, evicting the oldest-inserted
// entry if the cache is full.
func (s *SessionCache) Set(key string, result *model.DiscoveryResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(key, result)
}

func (s *SessionCache) setLocked(key string, result *model.DiscoveryResult) {
	if _, exists := s.entries[key]; exists {
		s.removeOrderLocked(key)
	} else if len(s.entries) >= s.capacity {
		s.evictLocked(s.order[0])
	}
	s.entries[key] = sessionEntry{result: result, expiresAt: time.Now().Add(s.ttl)}
	s.order = append(s.order, key)
}

// Evict removes the entry for key, if any.
func (s *SessionCache) Evict(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictLocked(key)
}

func (s *SessionCache) evictLocked(key string) {
	delete(s.entries, key)
	s.removeOrderLocked(key)
}

func (s *SessionCache) removeOrderLocked(key string) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}

// Len returns the number of cached entries.
func (s *SessionCache) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Do returns the cached result for key, joins an in-flight run for the same
// key, or executes fn as a fresh run. The cache check, in-flight check, and
// registration happen in one critical section; the registration is removed
// unconditionally once fn settles.
//
// A run whose context was canceled is never stored: its remote queries all
// failed on the dead context, so its empty result must not shadow the key
// for the full TTL. A caller arriving with an already-canceled context also
// never registers, so healthy concurrent callers cannot coalesce onto it.
func (s *SessionCache) Do(ctx context.Context, key string, fn func() *model.DiscoveryResult) *model.DiscoveryResult {
	s.mu.Lock()

	if res, ok := s.getLocked(key); ok {
		s.mu.Unlock()
		return res
	}

	if ctx.Err() != nil {
		s.mu.Unlock()
		return fn()
	}

	if p, ok := s.pending[key]; ok {
		s.mu.Unlock()
		<-p.done
		return p.result
	}

	p := &pendingRun{done: make(chan struct{})}
	s.pending[key] = p
	s.mu.Unlock()

	result := fn()

	s.mu.Lock()
	delete(s.pending, key)
	if result != nil && ctx.Err() == nil {
		s.setLocked(key, result)
	}
	s.mu.Unlock()

	p.result = result
	close(p.done)
	return result
}
