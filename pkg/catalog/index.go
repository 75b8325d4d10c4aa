package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/xakep666/licensecatalog/pkg/spdx"
)

// Index is an immutable set of lookup tables over a license list.
// It is built once by NewIndex and is safe for concurrent readers
// without locking.
type Index struct {
	byID   map[string]spdx.LicenseInfo
	byName map[string]spdx.LicenseInfo
	byURL  map[string][]spdx.LicenseInfo
}

// NewIndex builds lookup tables from a license list and a synonym list.
//
// Display names are lowercase-folded and populated first-writer-wins:
// record names in list order, then synonym names. A synonym never
// overrides a name already claimed. Urls are protocol-stripped and
// accumulated into ordered collision lists: reference, then seeAlso,
// then synonym urls. A synonym referencing an id absent from the list
// fails the whole build with ErrUnknownSynonymID.
func NewIndex(list spdx.LicenseList, synonyms spdx.SynonymList) (*Index, error) {
	idx := &Index{
		byID:   make(map[string]spdx.LicenseInfo, len(list.Licenses)),
		byName: make(map[string]spdx.LicenseInfo, len(list.Licenses)),
		byURL:  make(map[string][]spdx.LicenseInfo),
	}

	for _, lic := range list.Licenses {
		idx.byID[lic.ID] = lic

		if key := strings.ToLower(lic.Name); key != "" {
			if _, taken := idx.byName[key]; !taken {
				idx.byName[key] = lic
			}
		}

		idx.addURL(lic.Reference, lic)
		for _, u := range lic.SeeAlso {
			idx.addURL(u, lic)
		}
	}

	// Synonym maps are walked in sorted key order so first-writer-wins
	// outcomes and url list order are reproducible between runs.
	for _, id := range sortedKeys(synonyms.Names) {
		lic, ok := idx.byID[id]
		if !ok {
			return nil, &ErrUnknownSynonymID{ID: id, Section: "names"}
		}

		for _, name := range synonyms.Names[id] {
			key := strings.ToLower(name)
			if _, taken := idx.byName[key]; !taken {
				idx.byName[key] = lic
			}
		}
	}

	for _, id := range sortedKeys(synonyms.URLs) {
		lic, ok := idx.byID[id]
		if !ok {
			return nil, &ErrUnknownSynonymID{ID: id, Section: "urls"}
		}

		for _, u := range synonyms.URLs[id] {
			idx.addURL(u, lic)
		}
	}

	return idx, nil
}

func (idx *Index) addURL(url string, lic spdx.LicenseInfo) {
	if url == "" {
		return
	}

	key := normalizeURL(url)
	idx.byURL[key] = append(idx.byURL[key], lic)
}

// normalizeURL strips a leading https:// or http:// prefix, at most one.
// No other canonicalization happens: trailing slashes, case and query
// strings are matched verbatim.
func normalizeURL(url string) string {
	if trimmed := strings.TrimPrefix(url, "https://"); trimmed != url {
		return trimmed
	}

	return strings.TrimPrefix(url, "http://")
}

func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)
	return keys
}

// Len reports the number of indexed licenses.
func (idx *Index) Len() int {
	return len(idx.byID)
}

// FindByID looks up a license by its canonical id. Exact match, ids are
// case-sensitive in the catalog.
func (idx *Index) FindByID(id string) (spdx.LicenseInfo, bool) {
	lic, ok := idx.byID[id]
	return lic, ok
}

// FindByName looks up a license by display name, case-insensitively.
func (idx *Index) FindByName(name string) (spdx.LicenseInfo, bool) {
	lic, ok := idx.byName[strings.ToLower(name)]
	return lic, ok
}

// FindByURL looks up a license by url. When several licenses claim the
// url the one with the shortest id wins, ties resolved by registration
// order.
func (idx *Index) FindByURL(url string) (spdx.LicenseInfo, bool) {
	candidates := idx.byURL[normalizeURL(url)]
	if len(candidates) == 0 {
		return spdx.LicenseInfo{}, false
	}

	return shortestID(candidates), true
}

// FindLicense resolves a query trying id, then url, then name.
//
// A matching id wins immediately even when url or name disagree.
// On the url step collisions are first narrowed to candidates whose
// display name equals q.Name exactly (skipped when q.Name is empty);
// the narrowed set resolves by shortest id.
func (idx *Index) FindLicense(q Query) (spdx.LicenseInfo, bool) {
	if q.ID != "" {
		if lic, ok := idx.FindByID(q.ID); ok {
			return lic, true
		}
	}

	if q.URL != "" {
		if candidates := idx.byURL[normalizeURL(q.URL)]; len(candidates) > 0 {
			return disambiguate(candidates, q.Name), true
		}
	}

	if q.Name != "" {
		if lic, ok := idx.FindByName(q.Name); ok {
			return lic, true
		}
	}

	return spdx.LicenseInfo{}, false
}

func disambiguate(candidates []spdx.LicenseInfo, name string) spdx.LicenseInfo {
	if len(candidates) == 1 {
		return candidates[0]
	}

	if name != "" {
		var matched []spdx.LicenseInfo
		for _, c := range candidates {
			if c.Name == name {
				matched = append(matched, c)
			}
		}

		if len(matched) > 0 {
			return shortestID(matched)
		}

		// No candidate carries the queried name. Historically the first
		// registered license wins here, unlike FindByURL which always
		// takes the shortest id.
		return candidates[0]
	}

	return shortestID(candidates)
}

// shortestID picks the candidate with the shortest id string.
// Stable: the earliest registered candidate wins length ties.
func shortestID(candidates []spdx.LicenseInfo) spdx.LicenseInfo {
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c.ID) < len(best.ID) {
			best = c
		}
	}

	return best
}

// Resolve implements Resolver over the immutable index. It never errors.
func (idx *Index) Resolve(_ context.Context, q Query) (spdx.LicenseInfo, bool, error) {
	lic, found := idx.FindLicense(q)
	return lic, found, nil
}
