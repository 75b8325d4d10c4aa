package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/xakep666/licensecatalog/pkg/catalog"
	"github.com/xakep666/licensecatalog/pkg/spdx"
)

// MemoryCache is a simple in-memory cache of resolved queries.
// Only found results are cached, misses and errors always reach the
// backed resolver.
type MemoryCache struct {
	Backed Cacher

	licenseMu          sync.RWMutex
	licenseMapOnceInit sync.Once
	licenseMap         map[string]spdx.LicenseInfo
}

func (*MemoryCache) queryKey(q catalog.Query) string {
	return fmt.Sprintf("query:%s|%s|%s", q.ID, q.URL, q.Name)
}

func (c *MemoryCache) Resolve(ctx context.Context, q catalog.Query) (spdx.LicenseInfo, bool, error) {
	c.licenseMapOnceInit.Do(func() {
		c.licenseMap = make(map[string]spdx.LicenseInfo)
	})

	key := c.queryKey(q)
	c.licenseMu.RLock()
	item, ok := c.licenseMap[key]
	c.licenseMu.RUnlock()
	if ok {
		return item, true, nil
	}

	lic, found, err := c.Backed.Resolve(ctx, q)
	if err != nil {
		return spdx.LicenseInfo{}, false, fmt.Errorf("%w", err)
	}

	if !found {
		return spdx.LicenseInfo{}, false, nil
	}

	c.licenseMu.Lock()
	c.licenseMap[key] = lic
	c.licenseMu.Unlock()

	return lic, true, nil
}
