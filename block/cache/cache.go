// Package cache implements a bounded LRU sector cache sitting in front
// of any block.Device, so repeated reads of the superblock, directory
// blocks and hot file data don't re-hit the underlying ATA PIO driver.
package cache

import "github.com/justeres/eres-os/block"

type line struct {
	valid   bool
	lba     uint64
	lastUse uint64
	data    [block.DefaultSectorSize]byte
}

// Cache wraps a block.Device with a fixed number of cache lines,
// evicting the least-recently-used line on a miss.
type Cache struct {
	inner  block.Device
	lines  []line
	tick   uint64
	hits   uint64
	misses uint64
}

// Stats reports cumulative hit/miss counters.
type Stats struct {
	Hits   uint64
	Misses uint64
}

// New wraps inner with a cache of capacity lines. capacity is clamped to
// at least 1.
func New(inner block.Device, capacity int) *Cache {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache{inner: inner, lines: make([]line, capacity)}
}

// SectorSize delegates to the wrapped device.
func (c *Cache) SectorSize() int {
	return c.inner.SectorSize()
}

// ReadSector serves lba from cache on a hit, or populates the
// least-recently-used line from the wrapped device on a miss.
func (c *Cache) ReadSector(lba uint64, out []byte) error {
	if len(out) != block.DefaultSectorSize {
		return block.ErrInvalidBufferSize
	}

	c.tick++

	for i := range c.lines {
		l := &c.lines[i]
		if l.valid && l.lba == lba {
			l.lastUse = c.tick
			copy(out, l.data[:])
			c.hits++
			return nil
		}
	}

	victim := c.pickVictim()
	l := &c.lines[victim]
	if err := c.inner.ReadSector(lba, l.data[:]); err != nil {
		c.misses++
		return err
	}
	l.valid = true
	l.lba = lba
	l.lastUse = c.tick
	copy(out, l.data[:])
	c.misses++
	return nil
}

// pickVictim returns the index of the line to evict: an invalid line
// always wins first; among valid lines, the one with the smallest
// lastUse.
func (c *Cache) pickVictim() int {
	victim := 0
	var victimKey uint64
	for i := range c.lines {
		if !c.lines[i].valid {
			return i
		}
		key := c.lines[i].lastUse
		if i == 0 || key < victimKey {
			victim = i
			victimKey = key
		}
	}
	return victim
}

// Stats returns the cumulative hit/miss counters.
func (c *Cache) Stats() Stats {
	return Stats{Hits: c.hits, Misses: c.misses}
}
