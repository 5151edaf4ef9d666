package workflow

import (
	"fmt"
	"sync"
)

// resultSuffix is appended to a task name to form its context key.
const resultSuffix = "_result"

// ResultKey returns the context key under which a task's result is stored.
func ResultKey(taskName string) string {
	return taskName + resultSuffix
}

// Context accumulates task results as a run progresses. Keys are written
// exactly once; tasks read from it but never mutate existing entries.
type Context struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewContext creates a context seeded with the given initial values.
func NewContext(initial map[string]any) *Context {
	values := make(map[string]any, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &Context{values: values}
}

// Value returns the value stored under key.
func (c *Context) Value(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.values[key]
	return v, ok
}

// Result returns the result of a completed task by task name.
func (c *Context) Result(taskName string) (any, bool) {
	return c.Value(ResultKey(taskName))
}

// StringResult returns a task result as a string, or "" if absent or
// not a string.
func (c *Context) StringResult(taskName string) string {
	v, ok := c.Result(taskName)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// set stores a value under key. Writing an existing key is a programming
// error and is rejected.
func (c *Context) set(key string, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.values[key]; exists {
		return fmt.Errorf("context key %q already set", key)
	}
	c.values[key] = value
	return nil
}

// Keys returns all keys currently present.
func (c *Context) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	return keys
}
