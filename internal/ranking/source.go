package ranking

import (
	"context"
	"math"

	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/geo"
)

// Query narrows a candidate fetch. Sources may over-fetch; the engine applies
// the exact distance rules.
type Query struct {
	// ExcludeID drops the requester's own records (their gigs, or themselves as talent).
	ExcludeID string
	// Near enables a coarse geo pre-filter of RadiusKm around the point.
	Near     *geo.Point
	RadiusKm float64
	Limit    int
}

// CandidateSource loads rankable records from a backing store.
type CandidateSource interface {
	OpenGigs(ctx context.Context, q Query) ([]Candidate, error)
	Talent(ctx context.Context, q Query) ([]Candidate, error)
}

// ProfileSource loads a requester profile by user id.
type ProfileSource interface {
	Profile(ctx context.Context, userID string) (*Profile, error)
}

// Box is a latitude/longitude bounding box.
type Box struct {
	MinLat, MaxLat, MinLng, MaxLng float64
}

// BoundingBox returns a box that contains every point within radiusKm of p.
func BoundingBox(p geo.Point, radiusKm float64) Box {
	const kmPerDegree = math.Pi * geo.EarthRadiusKm / 180
	dLat := radiusKm / kmPerDegree
	dLng := 180.0
	if c := math.Cos(p.Lat * math.Pi / 180); c > 1e-9 {
		dLng = math.Min(radiusKm/(kmPerDegree*c), 180)
	}
	return Box{
		MinLat: math.Max(p.Lat-dLat, -90),
		MaxLat: math.Min(p.Lat+dLat, 90),
		MinLng: p.Lng - dLng,
		MaxLng: p.Lng + dLng,
	}
}

// Requester returns the inline profile when one is supplied, otherwise the
// profile of userID from src.
func Requester(ctx context.Context, src ProfileSource, inline *Profile, userID string) (*Profile, error) {
	if inline != nil {
		p := *inline
		if p.ID == "" {
			p.ID = userID
		}
		return &p, nil
	}
	if userID == "" {
		return nil, apperrors.NewValidationError("profile or userId is required")
	}
	if src == nil {
		return nil, apperrors.NewValidationError("profile is required: no profile source configured")
	}
	return src.Profile(ctx, userID)
}
