package api_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xakep666/licensecatalog/pkg/api"
	"github.com/xakep666/licensecatalog/pkg/catalog"
	"github.com/xakep666/licensecatalog/pkg/spdx"
)

func TestLookupHandler(t *testing.T) {
	t.Parallel()

	mit := spdx.LicenseInfo{
		ID:          "MIT",
		Name:        "MIT License",
		Reference:   "https://spdx.org/licenses/MIT.html",
		SeeAlso:     []string{"https://opensource.org/licenses/MIT"},
		OSIApproved: true,
	}

	type testCase struct {
		Name         string
		Target       string
		Method       string
		Setup        func(m *catalog.ResolverMock)
		ExpectedCode int
		ExpectedBody *spdx.LicenseInfo
	}

	f := func(tc testCase) {
		t.Run(tc.Name, func(t *testing.T) {
			var resolverMock catalog.ResolverMock
			defer resolverMock.AssertExpectations(t)

			if tc.Setup != nil {
				tc.Setup(&resolverMock)
			}

			method := tc.Method
			if method == "" {
				method = http.MethodGet
			}

			res := httptest.NewRecorder()
			req := httptest.NewRequest(method, tc.Target, nil)

			api.LookupHandler(&resolverMock).ServeHTTP(res, req)

			assert.Equal(t, tc.ExpectedCode, res.Code)

			if tc.ExpectedBody != nil {
				var lic spdx.LicenseInfo
				require.NoError(t, json.NewDecoder(res.Body).Decode(&lic))
				assert.Equal(t, *tc.ExpectedBody, lic)
			}
		})
	}

	f(testCase{
		Name:   "found by id",
		Target: "/v1/license?id=MIT",
		Setup: func(m *catalog.ResolverMock) {
			m.On("Resolve", mock.Anything, catalog.Query{ID: "MIT"}).Return(mit, true, nil).Once()
		},
		ExpectedCode: http.StatusOK,
		ExpectedBody: &mit,
	})

	f(testCase{
		Name:   "found by url and name",
		Target: "/v1/license?url=https%3A%2F%2Fspdx.org%2Flicenses%2FMIT.html&name=MIT+License",
		Setup: func(m *catalog.ResolverMock) {
			m.On("Resolve", mock.Anything, catalog.Query{
				URL:  "https://spdx.org/licenses/MIT.html",
				Name: "MIT License",
			}).Return(mit, true, nil).Once()
		},
		ExpectedCode: http.StatusOK,
		ExpectedBody: &mit,
	})

	f(testCase{
		Name:   "miss",
		Target: "/v1/license?name=unknown",
		Setup: func(m *catalog.ResolverMock) {
			m.On("Resolve", mock.Anything, catalog.Query{Name: "unknown"}).
				Return(spdx.LicenseInfo{}, false, nil).Once()
		},
		ExpectedCode: http.StatusNotFound,
	})

	f(testCase{
		Name:         "empty query",
		Target:       "/v1/license",
		ExpectedCode: http.StatusBadRequest,
	})

	f(testCase{
		Name:         "method not allowed",
		Target:       "/v1/license?id=MIT",
		Method:       http.MethodPost,
		ExpectedCode: http.StatusMethodNotAllowed,
	})

	f(testCase{
		Name:   "resolver error",
		Target: "/v1/license?id=MIT",
		Setup: func(m *catalog.ResolverMock) {
			m.On("Resolve", mock.Anything, catalog.Query{ID: "MIT"}).
				Return(spdx.LicenseInfo{}, false, fmt.Errorf("redis down")).Once()
		},
		ExpectedCode: http.StatusInternalServerError,
	})
}
