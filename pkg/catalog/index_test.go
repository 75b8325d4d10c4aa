package catalog_test

import (
	"testing"

	"github.com/xakep666/licensecatalog/pkg/catalog"
	"github.com/xakep666/licensecatalog/pkg/spdx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	apache = spdx.LicenseInfo{
		ID:        "Apache-2.0",
		Name:      "Apache License 2.0",
		Reference: "https://spdx.org/licenses/Apache-2.0.html",
		SeeAlso: []string{
			"https://www.apache.org/licenses/LICENSE-2.0",
			"https://opensource.org/licenses/Apache-2.0",
		},
		OSIApproved: true,
		FSFLibre:    true,
	}

	mit = spdx.LicenseInfo{
		ID:          "MIT",
		Name:        "MIT License",
		Reference:   "https://spdx.org/licenses/MIT.html",
		SeeAlso:     []string{"https://opensource.org/licenses/MIT"},
		OSIApproved: true,
		FSFLibre:    true,
	}

	gpl2 = spdx.LicenseInfo{
		ID:         "GPL-2.0",
		Name:       "GNU General Public License v2.0 only",
		Reference:  "https://spdx.org/licenses/GPL-2.0.html",
		Deprecated: true,
	}
)

func testList() spdx.LicenseList {
	return spdx.LicenseList{
		Version:  "3.21",
		Licenses: []spdx.LicenseInfo{apache, mit, gpl2},
	}
}

func mustIndex(t *testing.T, list spdx.LicenseList, syn spdx.SynonymList) *catalog.Index {
	t.Helper()
	idx, err := catalog.NewIndex(list, syn)
	require.NoError(t, err)
	return idx
}

func TestIndex_FindByID(t *testing.T) {
	t.Parallel()
	idx := mustIndex(t, testList(), spdx.SynonymList{})

	for _, lic := range testList().Licenses {
		got, ok := idx.FindByID(lic.ID)
		if assert.True(t, ok, "license %s not found by id", lic.ID) {
			assert.Equal(t, lic, got)
		}
	}

	_, ok := idx.FindByID("mit") // ids are case-sensitive
	assert.False(t, ok)

	_, ok = idx.FindByID("No-Such-License")
	assert.False(t, ok)
}

func TestIndex_FindByName(t *testing.T) {
	t.Parallel()
	idx := mustIndex(t, testList(), spdx.SynonymList{})

	type testCase struct {
		Name     string
		Query    string
		Expected spdx.LicenseInfo
		Found    bool
	}

	f := func(tc testCase) {
		t.Run(tc.Name, func(t *testing.T) {
			got, ok := idx.FindByName(tc.Query)
			assert.Equal(t, tc.Found, ok)
			assert.Equal(t, tc.Expected, got)
		})
	}

	f(testCase{Name: "exact", Query: "Apache License 2.0", Expected: apache, Found: true})
	f(testCase{Name: "uppercase", Query: "APACHE LICENSE 2.0", Expected: apache, Found: true})
	f(testCase{Name: "lowercase", Query: "apache license 2.0", Expected: apache, Found: true})
	f(testCase{Name: "unknown", Query: "Solaris Public License"})
}

func TestIndex_FindByName_first_writer_wins(t *testing.T) {
	t.Parallel()
	first := spdx.LicenseInfo{ID: "DUP-1", Name: "Duplicated Name"}
	second := spdx.LicenseInfo{ID: "DUP-2", Name: "duplicated name"}

	idx := mustIndex(t, spdx.LicenseList{Licenses: []spdx.LicenseInfo{first, second}}, spdx.SynonymList{})

	got, ok := idx.FindByName("Duplicated Name")
	if assert.True(t, ok) {
		assert.Equal(t, first, got, "earlier record must keep the name slot")
	}
}

func TestIndex_FindByName_synonym(t *testing.T) {
	t.Parallel()
	idx := mustIndex(t, testList(), spdx.SynonymList{
		Names: map[string][]string{
			"Apache-2.0": {"Apache License v2.0"},
			// synonym colliding with a genuine record name must not win
			"MIT": {"Apache License 2.0"},
		},
	})

	got, ok := idx.FindByName("apache license v2.0")
	if assert.True(t, ok) {
		assert.Equal(t, apache, got)
	}

	got, ok = idx.FindByName("Apache License 2.0")
	if assert.True(t, ok) {
		assert.Equal(t, apache, got, "synonym must not override a record name")
	}
}

func TestIndex_FindByURL(t *testing.T) {
	t.Parallel()
	idx := mustIndex(t, testList(), spdx.SynonymList{
		URLs: map[string][]string{
			"MIT": {"https://mit-license.org/"},
		},
	})

	type testCase struct {
		Name     string
		Query    string
		Expected spdx.LicenseInfo
		Found    bool
	}

	f := func(tc testCase) {
		t.Run(tc.Name, func(t *testing.T) {
			got, ok := idx.FindByURL(tc.Query)
			assert.Equal(t, tc.Found, ok)
			assert.Equal(t, tc.Expected, got)
		})
	}

	f(testCase{Name: "https reference", Query: "https://spdx.org/licenses/Apache-2.0.html", Expected: apache, Found: true})
	f(testCase{Name: "http variant", Query: "http://spdx.org/licenses/Apache-2.0.html", Expected: apache, Found: true})
	f(testCase{Name: "pre-stripped", Query: "spdx.org/licenses/Apache-2.0.html", Expected: apache, Found: true})
	f(testCase{Name: "seeAlso url", Query: "https://www.apache.org/licenses/LICENSE-2.0", Expected: apache, Found: true})
	f(testCase{Name: "synonym url", Query: "https://mit-license.org/", Expected: mit, Found: true})
	f(testCase{Name: "trailing slash not trimmed", Query: "https://mit-license.org"})
	f(testCase{Name: "unknown", Query: "https://example.com/license"})
}

func TestIndex_FindByURL_shortest_id_wins(t *testing.T) {
	t.Parallel()
	sharedURL := "https://example.com/a1.html"

	longer := spdx.LicenseInfo{ID: "A-1-or-later", Name: "A1 or later", Reference: sharedURL}
	shorter := spdx.LicenseInfo{ID: "A-1", Name: "A1", Reference: sharedURL}

	// longer id registered first, shortest must still win
	idx := mustIndex(t, spdx.LicenseList{Licenses: []spdx.LicenseInfo{longer, shorter}}, spdx.SynonymList{})

	got, ok := idx.FindByURL(sharedURL)
	if assert.True(t, ok) {
		assert.Equal(t, shorter, got)
	}
}

func TestIndex_FindByURL_length_tie_stable(t *testing.T) {
	t.Parallel()
	sharedURL := "https://example.com/shared.html"

	first := spdx.LicenseInfo{ID: "B-1", Name: "B1", Reference: sharedURL}
	second := spdx.LicenseInfo{ID: "C-1", Name: "C1", Reference: sharedURL}

	idx := mustIndex(t, spdx.LicenseList{Licenses: []spdx.LicenseInfo{first, second}}, spdx.SynonymList{})

	got, ok := idx.FindByURL(sharedURL)
	if assert.True(t, ok) {
		assert.Equal(t, first, got, "equal-length ids resolve by registration order")
	}
}

func TestNewIndex_unknown_synonym_id(t *testing.T) {
	t.Parallel()

	idx, err := catalog.NewIndex(testList(), spdx.SynonymList{
		Names: map[string][]string{"No-Such-Id": {"whatever"}},
	})
	assert.Nil(t, idx)
	assert.Equal(t, &catalog.ErrUnknownSynonymID{ID: "No-Such-Id", Section: "names"}, err)

	idx, err = catalog.NewIndex(testList(), spdx.SynonymList{
		URLs: map[string][]string{"No-Such-Id": {"https://example.com"}},
	})
	assert.Nil(t, idx)
	assert.Equal(t, &catalog.ErrUnknownSynonymID{ID: "No-Such-Id", Section: "urls"}, err)
}

func TestIndex_Len(t *testing.T) {
	t.Parallel()
	idx := mustIndex(t, testList(), spdx.SynonymList{})
	assert.Equal(t, 3, idx.Len())
}
