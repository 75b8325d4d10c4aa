package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/xakep666/licensecatalog/pkg/github"

	gh "github.com/google/go-github/v18/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const licensesJSON = /*language=json*/ `{
  "licenseListVersion": "3.21",
  "licenses": [
    {
      "reference": "https://spdx.org/licenses/MIT.html",
      "name": "MIT License",
      "licenseId": "MIT",
      "seeAlso": ["https://opensource.org/licenses/MIT"],
      "isOsiApproved": true
    }
  ]
}`

const synonymsJSON = /*language=json*/ `{
  "names": {"MIT": ["MIT/X11"]},
  "urls": {"MIT": ["https://mit-license.org/"]}
}`

func TestClient_Fetch(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	// directory listing consulted by DownloadContents
	mux.HandleFunc("/repos/spdx/license-list-data/contents/json", func(w http.ResponseWriter, r *http.Request) {
		serveJSON(w, http.StatusOK, []map[string]interface{}{
			{
				"type":         "file",
				"name":         "licenses.json",
				"path":         "json/licenses.json",
				"download_url": server.URL + "/raw/licenses.json",
			},
			{
				"type":         "file",
				"name":         "synonyms.json",
				"path":         "json/synonyms.json",
				"download_url": server.URL + "/raw/synonyms.json",
			},
		})
	})
	mux.HandleFunc("/raw/licenses.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, licensesJSON)
	})
	mux.HandleFunc("/raw/synonyms.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, synonymsJSON)
	})

	ghClient := gh.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	ghClient.BaseURL = baseURL

	client := github.NewClient(zaptest.NewLogger(t), github.ClientParams{
		Client: ghClient,
	})

	list, syn, err := client.Fetch(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "3.21", list.Version)
	require.Len(t, list.Licenses, 1)
	assert.Equal(t, "MIT", list.Licenses[0].ID)

	assert.Equal(t, []string{"MIT/X11"}, syn.Names["MIT"])
	assert.Equal(t, []string{"https://mit-license.org/"}, syn.URLs["MIT"])
}

func TestClient_Fetch_missing_document(t *testing.T) {
	mux := http.NewServeMux()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	mux.HandleFunc("/repos/spdx/license-list-data/contents/json", func(w http.ResponseWriter, r *http.Request) {
		serveJSON(w, http.StatusOK, []map[string]interface{}{})
	})

	ghClient := gh.NewClient(nil)
	baseURL, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	ghClient.BaseURL = baseURL

	client := github.NewClient(zaptest.NewLogger(t), github.ClientParams{
		Client: ghClient,
	})

	_, _, err = client.Fetch(context.Background())
	assert.Error(t, err)
}

func serveJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
