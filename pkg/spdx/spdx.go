// Package spdx contains data structures of the SPDX license list
// and its companion synonym list.
package spdx

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// LicenseList is the root of the SPDX-published license list document.
type LicenseList struct {
	// Version is the raw version string of the license list.
	Version string `json:"licenseListVersion"`

	// ReleaseDate is a release date of the license list. Not used in lookups.
	ReleaseDate string `json:"releaseDate"`

	// Licenses is the list of known licenses.
	Licenses []LicenseInfo `json:"licenses"`
}

// LicenseInfo is a single software license.
//
// Basic descriptions are documented in the fields below.
// For a full description of the fields, see the official SPDX specification here:
// https://github.com/spdx/license-list-data/blob/master/accessingLicenses.md
type LicenseInfo struct {
	// ID is the canonical SPDX identifier (i.e. "Apache-2.0").
	// Unique across the whole list.
	ID string `json:"licenseId"`

	// Name is a human-readable display name. Not guaranteed unique.
	Name string `json:"name"`

	// Reference is a canonical URL for the license.
	Reference string `json:"reference"`

	// ReferenceNumber is an ordinal assigned by SPDX. Not used in lookups.
	ReferenceNumber int `json:"referenceNumber"`

	// DetailsURL points to the per-license JSON document. Not used in lookups.
	DetailsURL string `json:"detailsUrl"`

	// SeeAlso is an ordered list of additional URLs for the license.
	SeeAlso []string `json:"seeAlso"`

	Deprecated  bool `json:"isDeprecatedLicenseId"`
	OSIApproved bool `json:"isOsiApproved"`
	FSFLibre    bool `json:"isFsfLibre"`
}

// SynonymList maps known alternate display names and urls to existing
// license ids. It is maintained alongside the license list document.
// Every key must be a license id present in the license list.
type SynonymList struct {
	// Names maps license id to alternate display names.
	Names map[string][]string `json:"names"`

	// URLs maps license id to alternate urls.
	URLs map[string][]string `json:"urls"`
}

// ParseLicenseList decodes a license list document.
func ParseLicenseList(r io.Reader) (LicenseList, error) {
	var list LicenseList
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return LicenseList{}, fmt.Errorf("license list parse failed: %w", err)
	}

	return list, nil
}

// ParseSynonymList decodes a synonym list document.
func ParseSynonymList(r io.Reader) (SynonymList, error) {
	var syn SynonymList
	if err := json.NewDecoder(r).Decode(&syn); err != nil {
		return SynonymList{}, fmt.Errorf("synonym list parse failed: %w", err)
	}

	return syn, nil
}

// LicenseListFromFile reads a license list document from path.
func LicenseListFromFile(path string) (LicenseList, error) {
	f, err := os.Open(path)
	if err != nil {
		return LicenseList{}, fmt.Errorf("license list open failed: %w", err)
	}

	defer f.Close()

	return ParseLicenseList(f)
}

// SynonymListFromFile reads a synonym list document from path.
func SynonymListFromFile(path string) (SynonymList, error) {
	f, err := os.Open(path)
	if err != nil {
		return SynonymList{}, fmt.Errorf("synonym list open failed: %w", err)
	}

	defer f.Close()

	return ParseSynonymList(f)
}
