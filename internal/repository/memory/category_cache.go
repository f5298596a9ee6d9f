package memory

import (
	"time"

	"food-donation-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// CategoryCache keeps full category listings per kind. Entries are dropped
// on every write, the expiry only bounds staleness across instances.
type CategoryCache struct {
	cache *cache.Cache
}

func NewCategoryCache(ttl time.Duration) *CategoryCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &CategoryCache{
		cache: cache.New(ttl, 2*ttl),
	}
}

func (c *CategoryCache) Save(kind entity.CategoryKind, categories []*entity.Category) {
	c.cache.Set(string(kind), categories, cache.DefaultExpiration)
}

func (c *CategoryCache) Get(kind entity.CategoryKind) ([]*entity.Category, bool) {
	if x, found := c.cache.Get(string(kind)); found {
		return x.([]*entity.Category), true
	}
	return nil, false
}

func (c *CategoryCache) Invalidate(kind entity.CategoryKind) {
	c.cache.Delete(string(kind))
}
