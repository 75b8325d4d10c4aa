// Package catalog builds in-memory lookup tables over the SPDX license list
// and answers point lookups by id, display name or reference url.
package catalog

import (
	"context"
	"fmt"

	"github.com/xakep666/licensecatalog/pkg/spdx"
)

// Query is a license lookup request. All fields are optional,
// a fully empty query simply resolves to nothing.
type Query struct {
	// ID is a canonical SPDX identifier. Matched case-sensitively
	// and takes priority over all other fields.
	ID string

	// URL is a reference url for the license. Leading https:// or http://
	// is ignored during matching.
	URL string

	// Name is a display name. Matched case-insensitively on its own;
	// also used to disambiguate url collisions.
	Name string
}

func (q *Query) String() string {
	return fmt.Sprintf("Query<id: %s, url: %s, name: %s>", q.ID, q.URL, q.Name)
}

// Resolver resolves a license query.
// The error return is for implementations doing I/O (i.e. caches);
// found=false with nil error is the regular miss.
type Resolver interface {
	Resolve(ctx context.Context, q Query) (lic spdx.LicenseInfo, found bool, err error)
}

// ErrUnknownSynonymID reports a synonym entry referencing a license id
// absent from the license list. The dataset is considered corrupt and
// no index is built.
type ErrUnknownSynonymID struct {
	// ID is the offending license id.
	ID string

	// Section is the synonym sub-mapping containing it ("names" or "urls").
	Section string
}

func (e *ErrUnknownSynonymID) Error() string {
	return fmt.Sprintf("unknown license id %q in synonym %s", e.ID, e.Section)
}
