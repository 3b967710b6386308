package pagination

import (
	"github.com/cespare/xxhash/v2"

	"github.com/goliatone/go-discussion-pager/cache"
	"github.com/goliatone/go-discussion-pager/forum"
)

// runningCache accumulates every discussion fetched for one parameter set,
// indexed by list offset. Offsets that were never fetched hold nil.
type runningCache struct {
	items  []*forum.Discussion
	total  int
	loaded map[int]*Page

	// generation digests the include/filter/sort set the items belong to.
	generation    uint64
	hasGeneration bool
}

func newRunningCache() runningCache {
	return runningCache{loaded: make(map[int]*Page)}
}

func generationOf(req forum.RequestParams) uint64 {
	return xxhash.Sum64String(cache.ParameterFingerprint(cache.Request{
		Include: req.Include,
		Filter:  req.Filter,
		Sort:    req.Sort,
	}))
}

// adopt records gen as the parameter set of the cache if none is set yet.
func (c *runningCache) adopt(gen uint64) {
	if !c.hasGeneration {
		c.generation = gen
		c.hasGeneration = true
	}
}

func (c *runningCache) matches(gen uint64) bool {
	return c.hasGeneration && c.generation == gen
}

// reset empties the cache and makes total the new baseline.
func (c *runningCache) reset(total int, gen uint64) {
	c.items = make([]*forum.Discussion, 0, total)
	c.total = total
	c.loaded = make(map[int]*Page)
	c.generation = gen
	c.hasGeneration = true
}

// splice writes items at offset start, growing the cache as needed.
func (c *runningCache) splice(start int, items []*forum.Discussion) {
	if end := start + len(items); end > len(c.items) {
		c.items = append(c.items, make([]*forum.Discussion, end-len(c.items))...)
	}
	copy(c.items[start:], items)
}

// window returns the items in [start, start+size) if every slot the total
// says should exist has been fetched.
func (c *runningCache) window(start, size int) ([]*forum.Discussion, bool) {
	want := min(size, c.total-start)
	if want <= 0 || start+want > len(c.items) {
		return nil, false
	}
	out := make([]*forum.Discussion, want)
	for i := range out {
		d := c.items[start+i]
		if d == nil {
			return nil, false
		}
		out[i] = d
	}
	return out, true
}

func (c *runningCache) indexOf(id string) int {
	return forum.IndexOf(c.items, id)
}

func (c *runningCache) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}

func (c *runningCache) prepend(d *forum.Discussion) {
	c.items = append([]*forum.Discussion{d}, c.items...)
}
