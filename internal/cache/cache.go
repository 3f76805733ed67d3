// Package cache provides a small string-keyed LRU with byte accounting,
// used to bound the tag cache's derived result tiers.
package cache

import (
	"container/list"
	"fmt"
)

// SizerFunc estimates the resident bytes of one entry. It lets the owner
// decide how to weigh its value type without the cache reflecting over it.
type SizerFunc[V any] func(key string, value V) int64

type LRU[V any] struct {
	capacity  int
	evictList *list.List
	items     map[string]*list.Element
	bytes     int64
	sizeOf    SizerFunc[V]
}

type entry[V any] struct {
	key   string
	value V
	size  int64
}

// NewLRU returns an LRU bounded to capacity entries. A nil sizer disables
// byte accounting.
func NewLRU[V any](capacity int, sizeOf SizerFunc[V]) *LRU[V] {
	if capacity < 1 {
		capacity = 1
	}
	if sizeOf == nil {
		sizeOf = func(string, V) int64 { return 0 }
	}
	return &LRU[V]{
		capacity:  capacity,
		evictList: list.New(),
		items:     make(map[string]*list.Element),
		sizeOf:    sizeOf,
	}
}

func (c *LRU[V]) Get(key string) (value V, ok bool) {
	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		return ele.Value.(*entry[V]).value, true
	}
	return
}

func (c *LRU[V]) Put(key string, value V) {
	size := c.sizeOf(key, value)

	if ele, hit := c.items[key]; hit {
		c.evictList.MoveToFront(ele)
		ent := ele.Value.(*entry[V])
		c.bytes += size - ent.size
		ent.value = value
		ent.size = size
		return
	}

	ele := c.evictList.PushFront(&entry[V]{key: key, value: value, size: size})
	c.items[key] = ele
	c.bytes += size

	if c.evictList.Len() > c.capacity {
		c.removeOldest()
	}
}

// Len reports the number of resident entries.
func (c *LRU[V]) Len() int {
	return c.evictList.Len()
}

// Bytes reports the estimated resident size of all entries.
func (c *LRU[V]) Bytes() int64 {
	return c.bytes
}

// Purge drops every entry and reports how many entries and estimated bytes
// were released.
func (c *LRU[V]) Purge() (entries int, bytes int64) {
	entries = c.evictList.Len()
	bytes = c.bytes
	c.evictList.Init()
	c.items = make(map[string]*list.Element)
	c.bytes = 0
	return entries, bytes
}

func (c *LRU[V]) removeOldest() {
	ele := c.evictList.Back()
	if ele != nil {
		c.removeElement(ele)
	}
}

func (c *LRU[V]) removeElement(e *list.Element) {
	c.evictList.Remove(e)
	ent := e.Value.(*entry[V])
	delete(c.items, ent.key)
	c.bytes -= ent.size
}

// ReadableSize renders a byte count for diagnostics output.
func ReadableSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
