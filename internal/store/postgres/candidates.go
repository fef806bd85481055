package postgres

import (
	"context"
	"database/sql"

	"campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/geo"
	"campus-gig-workers/internal/models"
	"campus-gig-workers/internal/ranking"

	"github.com/gocraft/dbr/v2"
)

type gigRow struct {
	ID          string   `db:"id"`
	Title       string   `db:"title"`
	Tags        string   `db:"tags"`
	Description string   `db:"description"`
	Latitude    *float64 `db:"latitude"`
	Longitude   *float64 `db:"longitude"`
	Urgency     int      `db:"urgency"`
}

// Candidates reads open gigs and students for the ranking workers.
type Candidates struct {
	sess *dbr.Session
}

var _ ranking.CandidateSource = (*Candidates)(nil)

func NewCandidates(db *sql.DB) *Candidates {
	return &Candidates{sess: newSession(db)}
}

func (c *Candidates) OpenGigs(ctx context.Context, q ranking.Query) ([]ranking.Candidate, error) {
	stmt := c.sess.
		Select("id", "title", "tags", "description", "latitude", "longitude", "urgency").
		From("gigs").
		Where("status = ?", string(models.GigOpen)).
		OrderBy("created_at DESC").
		OrderBy("id")
	if q.ExcludeID != "" {
		stmt = stmt.Where("poster_id <> ?", q.ExcludeID)
	}
	withinBox(stmt, q)
	if q.Limit > 0 {
		stmt = stmt.Limit(uint64(q.Limit))
	}

	var rows []gigRow
	if _, err := stmt.LoadContext(ctx, &rows); err != nil {
		return nil, errors.NewQueryExecutionFailedError("open_gigs", err)
	}

	out := make([]ranking.Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, ranking.Candidate{
			ID:          r.ID,
			Title:       r.Title,
			Tags:        r.Tags,
			Description: r.Description,
			Location:    geo.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude},
			Urgency:     r.Urgency,
		})
	}
	return out, nil
}

func (c *Candidates) Talent(ctx context.Context, q ranking.Query) ([]ranking.Candidate, error) {
	stmt := c.sess.
		Select("id", "role", "skills", "latitude", "longitude", "rating", "completed_jobs").
		From("users").
		Where("role = ?", string(models.RoleStudent)).
		OrderBy("id")
	if q.ExcludeID != "" {
		stmt = stmt.Where("id <> ?", q.ExcludeID)
	}
	withinBox(stmt, q)
	if q.Limit > 0 {
		stmt = stmt.Limit(uint64(q.Limit))
	}

	var rows []userRow
	if _, err := stmt.LoadContext(ctx, &rows); err != nil {
		return nil, errors.NewQueryExecutionFailedError("talent", err)
	}

	out := make([]ranking.Candidate, 0, len(rows))
	for _, r := range rows {
		out = append(out, ranking.Candidate{
			ID:       r.ID,
			Tags:     r.Skills,
			Location: geo.Coordinate{Latitude: r.Latitude, Longitude: r.Longitude},
		})
	}
	return out, nil
}

// withinBox restricts to a coarse bounding box; the engine applies the exact radius.
func withinBox(stmt *dbr.SelectStmt, q ranking.Query) {
	if q.Near == nil || q.RadiusKm <= 0 {
		return
	}
	box := ranking.BoundingBox(*q.Near, q.RadiusKm)
	stmt.Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	stmt.Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
}
