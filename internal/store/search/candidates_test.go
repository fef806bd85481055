package search

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/geo"
	"campus-gig-workers/internal/ranking"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	path string
	body map[string]interface{}
}

func newTestCandidates(t *testing.T, status int, response string) (*Candidates, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.body)

		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(server.Close)

	client, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{server.URL}})
	require.NoError(t, err)

	return NewCandidates(client, "gigs", "users", logger.NewTestLogger(t)), captured
}

func TestCandidates_OpenGigs(t *testing.T) {
	c, req := newTestCandidates(t, http.StatusOK, `{
		"took": 3,
		"hits": {"hits": [
			{"_id": "g-1", "_source": {"title": "Tutor", "tags": "math", "description": "calculus help", "location": {"lat": 12.97, "lon": 77.59}, "urgency": 7}},
			{"_id": "g-2", "_source": {"id": "g-2", "title": "Remote", "tags": "typing"}}
		]}
	}`)

	near := geo.Point{Lat: 12.97, Lng: 77.59}
	cands, err := c.OpenGigs(context.Background(), ranking.Query{ExcludeID: "s-1", Near: &near, RadiusKm: 5, Limit: 20})

	require.NoError(t, err)
	require.Len(t, cands, 2)
	assert.Equal(t, "g-1", cands[0].ID)
	assert.Equal(t, 7, cands[0].Urgency)
	assert.True(t, cands[0].Location.Known())
	assert.False(t, cands[1].Location.Known())

	assert.True(t, strings.HasPrefix(req.path, "/gigs/_search"))
	filters := req.body["query"].(map[string]interface{})["bool"].(map[string]interface{})["filter"].([]interface{})
	require.Len(t, filters, 2)
	geoClause := filters[1].(map[string]interface{})["geo_distance"].(map[string]interface{})
	assert.Equal(t, "5km", geoClause["distance"])
}

func TestCandidates_Talent(t *testing.T) {
	c, req := newTestCandidates(t, http.StatusOK, `{
		"hits": {"hits": [
			{"_id": "s-1", "_source": {"skills": "python, sql", "location": {"lat": 1.0, "lon": 2.0}}}
		]}
	}`)

	cands, err := c.Talent(context.Background(), ranking.Query{ExcludeID: "p-1"})

	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Equal(t, "s-1", cands[0].ID)
	assert.Equal(t, "python, sql", cands[0].Tags)
	assert.True(t, strings.HasPrefix(req.path, "/users/_search"))
	_, sorted := req.body["sort"]
	assert.False(t, sorted)
}

func TestCandidates_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   errors.ErrorCode
	}{
		{name: "missing index", status: http.StatusNotFound, body: `{"error":{"type":"index_not_found_exception"}}`, code: errors.ErrCodeResourceNotFound},
		{name: "cluster error", status: http.StatusInternalServerError, body: `{"error":"boom"}`, code: errors.ErrCodeSearchQueryFailed},
		{name: "garbage", status: http.StatusOK, body: `not json`, code: errors.ErrCodeSearchQueryFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCandidates(t, tt.status, tt.body)

			_, err := c.OpenGigs(context.Background(), ranking.Query{})

			assert.Equal(t, tt.code, errors.CodeOf(err))
		})
	}
}

func TestBuildOpenGigsQuery_NoGeo(t *testing.T) {
	body := buildOpenGigsQuery(ranking.Query{})

	boolQuery := body["query"].(map[string]interface{})["bool"].(map[string]interface{})
	assert.Len(t, boolQuery["filter"], 1)
	assert.Empty(t, boolQuery["must_not"])
}
