// Package search reads ranking candidates from Elasticsearch, using a
// geo_distance filter to keep the candidate set near the requester.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/geo"
	"campus-gig-workers/internal/ranking"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

const defaultSize = 500

type location struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type gigDocument struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Tags        string    `json:"tags"`
	Description string    `json:"description"`
	Location    *location `json:"location"`
	Urgency     int       `json:"urgency"`
}

type userDocument struct {
	ID       string    `json:"id"`
	Skills   string    `json:"skills"`
	Location *location `json:"location"`
}

type hit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

type searchResponse struct {
	Took int64 `json:"took"`
	Hits struct {
		Hits []hit `json:"hits"`
	} `json:"hits"`
}

// Candidates implements ranking.CandidateSource over two indices.
type Candidates struct {
	client    *elasticsearch.Client
	gigIndex  string
	userIndex string
	logger    logger.Logger
}

var _ ranking.CandidateSource = (*Candidates)(nil)

func NewCandidates(client *elasticsearch.Client, gigIndex, userIndex string, log logger.Logger) *Candidates {
	return &Candidates{
		client:    client,
		gigIndex:  gigIndex,
		userIndex: userIndex,
		logger:    log.WithFields(map[string]interface{}{"component": "search"}),
	}
}

func (c *Candidates) OpenGigs(ctx context.Context, q ranking.Query) ([]ranking.Candidate, error) {
	hits, err := c.search(ctx, "open_gigs", c.gigIndex, buildOpenGigsQuery(q), q.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]ranking.Candidate, 0, len(hits))
	for _, h := range hits {
		var doc gigDocument
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return nil, errors.NewSearchQueryFailedError("open_gigs", fmt.Errorf("decode hit %s: %w", h.ID, err))
		}
		if doc.ID == "" {
			doc.ID = h.ID
		}
		out = append(out, ranking.Candidate{
			ID:          doc.ID,
			Title:       doc.Title,
			Tags:        doc.Tags,
			Description: doc.Description,
			Location:    doc.Location.coordinate(),
			Urgency:     doc.Urgency,
		})
	}
	return out, nil
}

func (c *Candidates) Talent(ctx context.Context, q ranking.Query) ([]ranking.Candidate, error) {
	hits, err := c.search(ctx, "talent", c.userIndex, buildTalentQuery(q), q.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]ranking.Candidate, 0, len(hits))
	for _, h := range hits {
		var doc userDocument
		if err := json.Unmarshal(h.Source, &doc); err != nil {
			return nil, errors.NewSearchQueryFailedError("talent", fmt.Errorf("decode hit %s: %w", h.ID, err))
		}
		if doc.ID == "" {
			doc.ID = h.ID
		}
		out = append(out, ranking.Candidate{
			ID:       doc.ID,
			Tags:     doc.Skills,
			Location: doc.Location.coordinate(),
		})
	}
	return out, nil
}

func (c *Candidates) search(ctx context.Context, queryType, index string, body map[string]interface{}, limit int) ([]hit, error) {
	if limit <= 0 {
		limit = defaultSize
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewSearchQueryFailedError(queryType, err)
	}

	req := esapi.SearchRequest{
		Index: []string{index},
		Body:  bytes.NewReader(payload),
		Size:  &limit,
	}

	res, err := req.Do(ctx, c.client)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, errors.NewTimeoutError("elasticsearch", err)
		}
		return nil, errors.NewSearchQueryFailedError(queryType, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		if res.StatusCode == 404 {
			return nil, errors.NewResourceNotFoundError("elasticsearch", fmt.Sprintf("index: %s", index))
		}
		return nil, errors.NewSearchQueryFailedError(queryType, fmt.Errorf("search returned %s", res.Status()))
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, errors.NewSearchQueryFailedError(queryType, fmt.Errorf("decode response: %w", err))
	}

	c.logger.Debug("candidates fetched", map[string]interface{}{
		"queryType": queryType,
		"index":     index,
		"hits":      len(parsed.Hits.Hits),
		"took":      parsed.Took,
	})
	return parsed.Hits.Hits, nil
}

func (l *location) coordinate() geo.Coordinate {
	if l == nil {
		return geo.Coordinate{}
	}
	return geo.Coordinate{Latitude: l.Lat, Longitude: l.Lon}
}
