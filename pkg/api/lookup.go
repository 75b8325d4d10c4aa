// Package api exposes the catalog lookup surface over HTTP.
// It is consumed by manifest scanners and similar tooling that needs to
// classify a license string into a canonical SPDX identifier.
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/xakep666/licensecatalog/pkg/catalog"
)

// LookupHandler resolves license queries.
// Query parameters: id, url, name; at least one must be present.
// A hit answers 200 with the license record as json, a miss answers 404.
func LookupHandler(resolver catalog.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
			return
		}

		params := r.URL.Query()
		q := catalog.Query{
			ID:   params.Get("id"),
			URL:  params.Get("url"),
			Name: params.Get("name"),
		}

		if q == (catalog.Query{}) {
			http.Error(w, "at least one of id, url, name required", http.StatusBadRequest)
			return
		}

		lic, found, err := resolver.Resolve(r.Context(), q)
		if err != nil {
			http.Error(w, fmt.Sprintf("lookup failed: %s", err), http.StatusInternalServerError)
			return
		}

		if !found {
			http.Error(w, "license not found", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(lic); err != nil {
			http.Error(w, fmt.Sprintf("response encode failed: %s", err), http.StatusInternalServerError)
		}
	}
}
