package engine

import (
	"sort"
	"sync"

	"go.trai.ch/facet/internal/core/domain"
	"go.trai.ch/facet/internal/engine/match"
)

// keySeparator joins widget id and source path into a recall cache key.
// Unit separator cannot appear in widget ids or vault paths.
const keySeparator = "\x1f"

// Key builds the cache key for a widget: the widget id alone for ground
// widgets, widget id plus source path for recall widgets.
func Key(widgetID, sourcePath string) string {
	if sourcePath == "" {
		return widgetID
	}
	return widgetID + keySeparator + sourcePath
}

// Cache holds computed widget results and performs pattern-driven
// invalidation on file-change notifications. It keeps a secondary index
// from widget id to keys so a widget's entire footprint can be removed as
// one unit: a similarity ranking for file A can depend on file B's content,
// so entries are never invalidated individually per source path.
//
// All methods are safe for concurrent use; lookups and invalidation are
// in-memory and never block on I/O.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]domain.CacheEntry
	byWidget map[string]map[string]struct{} // widget id -> keys
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries:  make(map[string]domain.CacheEntry),
		byWidget: make(map[string]map[string]struct{}),
	}
}

// Get returns the entry stored under key, if present.
func (c *Cache) Get(key string) (domain.CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	return entry, ok
}

// Put stores a computed result under key on behalf of the given widget,
// replacing any previous entry for that key.
func (c *Cache) Put(key, widgetID string, result domain.ComputedResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = domain.CacheEntry{Key: key, WidgetID: widgetID, Result: result}
	keys, ok := c.byWidget[widgetID]
	if !ok {
		keys = make(map[string]struct{})
		c.byWidget[widgetID] = keys
	}
	keys[key] = struct{}{}
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// InvalidateAll removes every entry unconditionally.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]domain.CacheEntry)
	c.byWidget = make(map[string]map[string]struct{})
}

// InvalidateForChangedFiles removes the whole cache footprint of every
// widget whose source pattern matches at least one changed path. Entries
// belonging to unaffected widgets are left untouched. A matched widget is
// reported as invalidated even when it had no entries stored.
func (c *Cache) InvalidateForChangedFiles(changedPaths []string, widgets []domain.WidgetDefinition) domain.InvalidationSummary {
	affected := make([]string, 0, len(widgets))
	for _, w := range widgets {
		for _, path := range changedPaths {
			if match.Matches(w.Source, path) {
				affected = append(affected, w.ID)
				break
			}
		}
	}
	if len(affected) == 0 {
		return domain.InvalidationSummary{InvalidatedWidgets: []string{}}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, widgetID := range affected {
		for key := range c.byWidget[widgetID] {
			delete(c.entries, key)
			removed++
		}
		delete(c.byWidget, widgetID)
	}

	sort.Strings(affected)
	return domain.InvalidationSummary{
		InvalidatedWidgets: affected,
		EntriesInvalidated: removed,
	}
}
