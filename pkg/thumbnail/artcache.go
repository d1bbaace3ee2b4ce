package thumbnail

import (
	"container/list"
	"sync"
)

// artCache is an in-memory LRU of rendered escape strings, bounded by their
// total length.
type artCache struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front is most recent
	maxBytes int
	used     int
}

type artEntry struct {
	key string
	art string
}

func newArtCache(maxBytes int) *artCache {
	return &artCache{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		maxBytes: maxBytes,
	}
}

func (c *artCache) get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return "", false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*artEntry).art, true
}

func (c *artCache) put(key, art string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*artEntry)
		c.used += len(art) - len(e.art)
		e.art = art
		c.order.MoveToFront(elem)
	} else {
		c.items[key] = c.order.PushFront(&artEntry{key: key, art: art})
		c.used += len(art)
	}

	// The newest entry always stays, even when it alone is over budget.
	for c.used > c.maxBytes && c.order.Len() > 1 {
		back := c.order.Back()
		e := c.order.Remove(back).(*artEntry)
		delete(c.items, e.key)
		c.used -= len(e.art)
	}
}

func (c *artCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
