package testutil

import (
	"fmt"
	"sync"
)

// IDGenerator yields "<prefix>-1", "<prefix>-2", ... so tests can assert on
// exact identifiers.
type IDGenerator struct {
	mu      sync.Mutex
	prefix  string
	counter int
}

// NewIDGenerator returns a generator using prefix, or "id" when empty.
func NewIDGenerator(prefix string) *IDGenerator {
	if prefix == "" {
		prefix = "id"
	}
	return &IDGenerator{prefix: prefix}
}

func (g *IDGenerator) Next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("%s-%d", g.prefix, g.counter)
}

// NextFunc exposes Next for dependency injection.
func (g *IDGenerator) NextFunc() func() string {
	return g.Next
}
