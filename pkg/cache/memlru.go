package cache

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru"

	"github.com/xakep666/licensecatalog/pkg/catalog"
	"github.com/xakep666/licensecatalog/pkg/spdx"
)

type MemLRU struct {
	backed Cacher

	cache *lru.Cache
}

func NewMemLRU(backed Cacher, size int) (*MemLRU, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("LRU init failed: %w", err)
	}

	return &MemLRU{
		backed: backed,
		cache:  c,
	}, nil
}

func (*MemLRU) queryKey(q catalog.Query) string {
	return fmt.Sprintf("query:%s|%s|%s", q.ID, q.URL, q.Name)
}

func (ml *MemLRU) Resolve(ctx context.Context, q catalog.Query) (spdx.LicenseInfo, bool, error) {
	key := ml.queryKey(q)
	licI, ok := ml.cache.Get(key)
	if ok {
		return licI.(spdx.LicenseInfo), true, nil
	}

	lic, found, err := ml.backed.Resolve(ctx, q)
	if err != nil {
		return spdx.LicenseInfo{}, false, fmt.Errorf("%w", err)
	}

	if !found {
		return spdx.LicenseInfo{}, false, nil
	}

	ml.cache.Add(key, lic)
	return lic, true, nil
}
