package main

import (
	"reflect"
	"sync"
)

// Cache keeps the last broadcast snapshot per source so late websocket
// subscribers get current state immediately, and duplicate updates are
// suppressed before they hit the dispatcher.
type cacheMapType map[string]interface{}
type Cache struct {
	cacheMap   cacheMapType
	cacheMutex sync.Mutex
}

var stateCache Cache = Cache{cacheMap: make(cacheMapType)}

func (c *Cache) update(name string, data interface{}) {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	old := c.cacheMap[name]
	if !reflect.DeepEqual(old, data) {
		Dispatcher.broadcastEvent(name, data)
		c.cacheMap[name] = data
	}
}

func (c *Cache) dump() cacheMapType {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()

	n := make(cacheMapType)
	for k, v := range c.cacheMap {
		n[k] = v
	}
	return n
}
