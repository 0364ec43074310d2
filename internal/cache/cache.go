package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// Cache is a small read-through TTL cache for list/detail queries. It is
// injected rather than package-global so tests can build isolated instances.
// Invalidation is best-effort and idempotent.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	ttl     time.Duration
}

type entry struct {
	value     interface{}
	expiresAt time.Time
}

func New(ttl time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttl:     ttl,
	}
}

func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

func (c *Cache) Set(key string, value interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{value: value, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
}

// Invalidate drops every cached view touching the given guardian, learner or
// assignment. Zero-valued arguments are skipped, so it is safe to call with
// any subset.
func (c *Cache) Invalidate(guardianID, learnerID, assignmentID uint) {
	var prefixes []string
	if guardianID != 0 {
		prefixes = append(prefixes, fmt.Sprintf("guardian:%d:", guardianID))
	}
	if learnerID != 0 {
		prefixes = append(prefixes, fmt.Sprintf("learner:%d:", learnerID))
	}
	if assignmentID != 0 {
		prefixes = append(prefixes, fmt.Sprintf("assignment:%d:", assignmentID))
	}
	if len(prefixes) == 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		for _, prefix := range prefixes {
			if strings.HasPrefix(key, prefix) {
				delete(c.entries, key)
				break
			}
		}
	}
}

func LearnerAssignmentsKey(learnerID uint) string {
	return fmt.Sprintf("learner:%d:assignments", learnerID)
}

func GuardianAssignmentsKey(guardianID, learnerID uint) string {
	return fmt.Sprintf("guardian:%d:learner:%d:assignments", guardianID, learnerID)
}

func AssignmentDetailKey(assignmentID, learnerID uint) string {
	return fmt.Sprintf("assignment:%d:detail:%d", assignmentID, learnerID)
}
