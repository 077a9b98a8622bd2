package client

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Divy2003/realstate/model"
)

// Bucket names a status partition of the cached catalog.
type Bucket string

const (
	BucketAll       Bucket = "all"
	BucketUpcoming  Bucket = "upcoming"
	BucketOngoing   Bucket = "ongoing"
	BucketCompleted Bucket = "completed"
)

var statusBuckets = []Bucket{BucketUpcoming, BucketOngoing, BucketCompleted}

// BucketForStatus maps a project status to its partition. The legacy
// under-construction status belongs to the ongoing bucket.
func BucketForStatus(status string) Bucket {
	switch model.NormalizeStatus(status) {
	case model.StatusUpcoming:
		return BucketUpcoming
	case model.StatusCompleted:
		return BucketCompleted
	default:
		return BucketOngoing
	}
}

// CatalogAPI is the slice of the REST client the cache fetches through.
type CatalogAPI interface {
	ListProjects(ctx context.Context, opts ListOptions) (*ProjectList, error)
	GetProject(ctx context.Context, idOrSlug string) (*model.Project, error)
}

// Cache holds projects bucketed by lifecycle status. Each bucket carries its
// own loading flag and a "fetch attempted" flag so a legitimately empty
// bucket is distinguishable from one that was never loaded. Views check the
// attempted flag instead of re-dispatching a fetch every time they see an
// empty list. All state transitions happen under one mutex, so a reader can
// never observe a project in zero buckets mid-reconciliation.
type Cache struct {
	api CatalogAPI

	mu         sync.Mutex
	buckets    map[Bucket][]model.Project
	loading    map[Bucket]bool
	attempted  map[Bucket]bool
	loaded     map[Bucket]bool
	pagination map[Bucket]Pagination
	current    *model.Project
	lastErr    string

	// collapses concurrent fetches of the same bucket into one call
	flight singleflight.Group
}

// NewCache creates an empty cache backed by the given API.
func NewCache(api CatalogAPI) *Cache {
	return &Cache{
		api:        api,
		buckets:    make(map[Bucket][]model.Project),
		loading:    make(map[Bucket]bool),
		attempted:  make(map[Bucket]bool),
		loaded:     make(map[Bucket]bool),
		pagination: make(map[Bucket]Pagination),
	}
}

// RequestBucket resolves a bucket's contents, fetching at most once. If the
// bucket has already been loaded, or holds locally reconciled items, and force
// is false the cached slice is returned without a network call even when it is
// empty. A failed fetch does not count as loaded, so the next request retries.
// Concurrent requests for the same bucket share a single in-flight fetch.
func (c *Cache) RequestBucket(ctx context.Context, bucket Bucket, limit, page int, force bool) ([]model.Project, error) {
	c.mu.Lock()
	if !force && (c.loaded[bucket] || len(c.buckets[bucket]) > 0) {
		items := snapshot(c.buckets[bucket])
		c.mu.Unlock()
		return items, nil
	}
	c.loading[bucket] = true
	c.mu.Unlock()

	_, err, _ := c.flight.Do(string(bucket), func() (any, error) {
		opts := ListOptions{Limit: limit, Page: page}
		if bucket != BucketAll {
			opts.Status = string(bucket)
		}

		list, err := c.api.ListProjects(ctx, opts)

		c.mu.Lock()
		defer c.mu.Unlock()
		c.loading[bucket] = false
		c.attempted[bucket] = true

		if err != nil {
			c.lastErr = err.Error()
			return nil, err
		}

		c.buckets[bucket] = list.Projects
		c.pagination[bucket] = list.Pagination
		c.loaded[bucket] = true
		c.lastErr = ""

		// A full fetch also re-derives the status partitions, so the
		// per-status views need no fetch of their own.
		if bucket == BucketAll {
			parts := map[Bucket][]model.Project{}
			for _, p := range list.Projects {
				b := BucketForStatus(p.Status)
				parts[b] = append(parts[b], p)
			}
			for _, b := range statusBuckets {
				c.buckets[b] = parts[b]
				c.attempted[b] = true
				c.loaded[b] = true
				c.loading[b] = false
			}
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.buckets[bucket]), nil
}

// RequestOne loads a single project into the current-project slot. A failure
// records the error without touching any bucket.
func (c *Cache) RequestOne(ctx context.Context, idOrSlug string) (*model.Project, error) {
	p, err := c.api.GetProject(ctx, idOrSlug)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.lastErr = err.Error()
		return nil, err
	}
	c.current = p
	c.lastErr = ""
	return p, nil
}

// ClearCurrent empties the current-project slot; called on navigation away.
func (c *Cache) ClearCurrent() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = nil
}

// ApplyCreate reconciles a newly created project: it is unshifted into its
// status bucket, and into all if that bucket has been populated.
func (c *Cache) ApplyCreate(p model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()

	b := BucketForStatus(p.Status)
	c.buckets[b] = prepend(c.buckets[b], p)
	if c.attempted[BucketAll] {
		c.buckets[BucketAll] = prepend(c.buckets[BucketAll], p)
	}
}

// ApplyUpdate reconciles an updated project across every bucket. Buckets that
// hold the old version either replace it in place (status unchanged) or drop
// it (status moved away); the bucket matching the current status gains the
// project at the front if it was missing. The current-project slot is synced
// when its identifier matches.
func (c *Cache) ApplyUpdate(p model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()

	home := BucketForStatus(p.Status)

	for _, b := range statusBuckets {
		idx := indexOf(c.buckets[b], p.ID)
		switch {
		case idx >= 0 && b == home:
			c.buckets[b][idx] = p
		case idx >= 0:
			c.buckets[b] = remove(c.buckets[b], idx)
		}
	}
	if indexOf(c.buckets[home], p.ID) < 0 && c.attempted[home] {
		c.buckets[home] = prepend(c.buckets[home], p)
	}

	if idx := indexOf(c.buckets[BucketAll], p.ID); idx >= 0 {
		c.buckets[BucketAll][idx] = p
	} else if c.attempted[BucketAll] {
		c.buckets[BucketAll] = prepend(c.buckets[BucketAll], p)
	}

	if c.current != nil && c.current.ID == p.ID {
		clone := p
		c.current = &clone
	}
}

// ApplyDelete purges the identifier from every bucket and from the
// current-project slot if it matches.
func (c *Cache) ApplyDelete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for b, items := range c.buckets {
		if idx := indexOf(items, id); idx >= 0 {
			c.buckets[b] = remove(items, idx)
		}
	}
	if c.current != nil && c.current.ID == id {
		c.current = nil
	}
}

// ApplyFeatureToggle replaces the project in place wherever it appears. The
// featured flag never changes bucket membership.
func (c *Cache) ApplyFeatureToggle(p model.Project) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for b, items := range c.buckets {
		if idx := indexOf(items, p.ID); idx >= 0 {
			c.buckets[b][idx] = p
		}
	}
	if c.current != nil && c.current.ID == p.ID {
		clone := p
		c.current = &clone
	}
}

// Projects returns a snapshot of a bucket's contents.
func (c *Cache) Projects(bucket Bucket) []model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.buckets[bucket])
}

// Loading reports whether a fetch for the bucket is in flight.
func (c *Cache) Loading(bucket Bucket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading[bucket]
}

// Attempted reports whether the bucket has been fetched at least once.
func (c *Cache) Attempted(bucket Bucket) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attempted[bucket]
}

// PageInfo returns the bucket's last-recorded pagination metadata.
func (c *Cache) PageInfo(bucket Bucket) Pagination {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pagination[bucket]
}

// Current returns the current-project slot.
func (c *Cache) Current() *model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	clone := *c.current
	return &clone
}

// Err returns the last recorded fetch error message, empty when the most
// recent operation succeeded.
func (c *Cache) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Featured returns the featured projects across every status bucket.
func (c *Cache) Featured() []model.Project {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []model.Project
	seen := map[string]bool{}
	for _, b := range statusBuckets {
		for _, p := range c.buckets[b] {
			if p.Featured && !seen[p.ID] {
				out = append(out, p)
				seen[p.ID] = true
			}
		}
	}
	return out
}

func snapshot(items []model.Project) []model.Project {
	out := make([]model.Project, len(items))
	copy(out, items)
	return out
}

func prepend(items []model.Project, p model.Project) []model.Project {
	return append([]model.Project{p}, items...)
}

func indexOf(items []model.Project, id string) int {
	for i, p := range items {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func remove(items []model.Project, idx int) []model.Project {
	return append(items[:idx:idx], items[idx+1:]...)
}
