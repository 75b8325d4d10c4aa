package catalog

import (
	"context"
	"sync/atomic"

	"github.com/xakep666/licensecatalog/pkg/spdx"
)

// Atomic holds the current index and allows to replace it atomically,
// i.e. when the dataset file changes on disk. A reload must build a fresh
// index and Store it; indexes are never mutated in place.
type Atomic struct {
	v atomic.Value
}

func NewAtomic(idx *Index) *Atomic {
	a := new(Atomic)
	a.v.Store(idx)
	return a
}

// Load returns the current index.
func (a *Atomic) Load() *Index {
	return a.v.Load().(*Index)
}

// Store replaces the current index. In-flight readers keep the index
// they already loaded.
func (a *Atomic) Store(idx *Index) {
	a.v.Store(idx)
}

// Resolve implements Resolver against the current index.
func (a *Atomic) Resolve(ctx context.Context, q Query) (spdx.LicenseInfo, bool, error) {
	return a.Load().Resolve(ctx, q)
}
