package observ

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/api/key"
	"go.opentelemetry.io/otel/api/metric"

	"github.com/xakep666/licensecatalog/pkg/catalog"
	"github.com/xakep666/licensecatalog/pkg/spdx"
)

// Resolver decorates a catalog resolver with a lookup counter.
type Resolver struct {
	catalog.Resolver
	Meter metric.Meter

	initMetricsOnce sync.Once
	lookupMetric    metric.Int64Counter
}

func (r *Resolver) initMetrics() {
	r.initMetricsOnce.Do(func() {
		m := r.Meter
		if m == nil {
			m = metric.NoopMeter{}
		}

		r.lookupMetric, _ = m.NewInt64Counter("catalog_lookups", metric.WithDescription("Count of catalog lookups by result and license id"))
	})
}

func (r *Resolver) Resolve(ctx context.Context, q catalog.Query) (spdx.LicenseInfo, bool, error) {
	r.initMetrics()

	lic, found, err := r.Resolver.Resolve(ctx, q)
	switch {
	case err != nil:
		// infrastructure failures counted by the http layer
	case found:
		r.lookupMetric.Add(ctx, 1, key.String("result", "hit"), key.String("id", lic.ID))
	default:
		r.lookupMetric.Add(ctx, 1, key.String("result", "miss"), key.String("id", "unknown"))
	}

	return lic, found, err
}
