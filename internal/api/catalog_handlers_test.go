package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chapteredapp/chaptered-server/internal/catalog/googlebooks"
)

func TestCatalogRoutes(t *testing.T) {
	ts := setupTestServer(t)
	ts.catalog.volumes["zyTCAlFPjgYC"] = googlebooks.Volume{ID: "zyTCAlFPjgYC", Title: "Dune", Authors: []string{"Frank Herbert"}}

	resp := ts.api.Get("/api/v1/catalog/search?q=Dune")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	volumes := decodeEnvelope[[]googlebooks.Volume](t, resp.Body).Data
	require.Len(t, volumes, 1)
	assert.Equal(t, []string{"Frank Herbert"}, volumes[0].Authors)

	resp = ts.api.Get("/api/v1/catalog/search?q=Unknown")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"success":true,"data":[]}`, resp.Body.String())

	resp = ts.api.Get("/api/v1/catalog/volumes/zyTCAlFPjgYC")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "Dune", decodeEnvelope[googlebooks.Volume](t, resp.Body).Data.Title)

	resp = ts.api.Get("/api/v1/catalog/volumes/missing")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestCatalogRoutes_Failures(t *testing.T) {
	ts := setupTestServer(t)

	ts.catalog.err = googlebooks.ErrRateLimited
	resp := ts.api.Get("/api/v1/catalog/search?q=Dune")
	assert.Equal(t, http.StatusTooManyRequests, resp.Code)
	assert.Equal(t, "RATE_LIMITED", decodeEnvelope[any](t, resp.Body).Code)

	ts.catalog.err = googlebooks.ErrServer
	resp = ts.api.Get("/api/v1/catalog/search?q=Dune")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)

	disabled := setupTestServer(t, withoutCatalog())
	resp = disabled.api.Get("/api/v1/catalog/volumes/abc")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Equal(t, "UNAVAILABLE", decodeEnvelope[any](t, resp.Body).Code)
}
