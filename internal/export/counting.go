// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"sync"
)

// Stats reports how many handles an exporter created and released.
type Stats struct {
	Created  int
	Released int
}

// Live returns the number of handles not yet released.
func (s Stats) Live() int { return s.Created - s.Released }

// Counting wraps an Exporter and counts successful creations and releases.
type Counting struct {
	Exporter

	mu    sync.Mutex
	stats Stats
}

func NewCounting(inner Exporter) *Counting {
	return &Counting{Exporter: inner}
}

func (c *Counting) Create(ctx context.Context, data []byte, contentType string) (Handle, error) {
	h, err := c.Exporter.Create(ctx, data, contentType)
	if err == nil {
		c.mu.Lock()
		c.stats.Created++
		c.mu.Unlock()
	}
	return h, err
}

func (c *Counting) Release(ctx context.Context, h Handle) error {
	err := c.Exporter.Release(ctx, h)
	if err == nil {
		c.mu.Lock()
		c.stats.Released++
		c.mu.Unlock()
	}
	return err
}

func (c *Counting) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
