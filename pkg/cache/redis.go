package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mediocregopher/radix/v3"

	"github.com/xakep666/licensecatalog/pkg/catalog"
	"github.com/xakep666/licensecatalog/pkg/spdx"
)

// RedisCache keeps resolved queries in redis so a fleet of catalog
// instances shares warm results. Values are stored as JSON blobs:
// LicenseInfo carries a slice field which doesn't flatten into a hash.
type RedisCache struct {
	Backed Cacher
	Client radix.Client
	TTL    time.Duration
}

func (*RedisCache) queryKey(q catalog.Query) string {
	return fmt.Sprintf("licensecatalog:query:%s|%s|%s", q.ID, q.URL, q.Name)
}

func (rc *RedisCache) Resolve(ctx context.Context, q catalog.Query) (spdx.LicenseInfo, bool, error) {
	key := rc.queryKey(q)

	var raw []byte
	maybeNil := radix.MaybeNil{Rcv: &raw}

	err := rc.Client.Do(radix.Cmd(&maybeNil, "GET", key))
	if err != nil {
		return spdx.LicenseInfo{}, false, fmt.Errorf("get license from redis failed: %w", err)
	}

	if !maybeNil.Nil && len(raw) > 0 {
		var lic spdx.LicenseInfo
		if err := json.Unmarshal(raw, &lic); err != nil {
			return spdx.LicenseInfo{}, false, fmt.Errorf("cached license decode failed: %w", err)
		}

		return lic, true, nil
	}

	lic, found, err := rc.Backed.Resolve(ctx, q)
	if err != nil {
		return spdx.LicenseInfo{}, false, fmt.Errorf("%w", err)
	}

	if !found {
		return spdx.LicenseInfo{}, false, nil
	}

	buf, err := json.Marshal(lic)
	if err != nil {
		return spdx.LicenseInfo{}, false, fmt.Errorf("license encode failed: %w", err)
	}

	cmds := []radix.CmdAction{
		radix.FlatCmd(nil, "SET", key, buf),
	}
	if rc.TTL > 0 {
		cmds = append(cmds, radix.FlatCmd(nil, "PEXPIRE", key, int64(rc.TTL/time.Millisecond)))
	}

	err = rc.Client.Do(radix.Pipeline(cmds...))
	if err != nil {
		return lic, true, fmt.Errorf("set license in redis failed: %w", err)
	}

	return lic, true, nil
}
