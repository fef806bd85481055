package ranking

import (
	"context"
	"testing"

	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoundingBox_ContainsRadius(t *testing.T) {
	center := geo.Point{Lat: 12.9716, Lng: 77.5946}
	box := BoundingBox(center, 5)

	north := geo.Point{Lat: box.MaxLat, Lng: center.Lng}
	east := geo.Point{Lat: center.Lat, Lng: box.MaxLng}

	assert.InDelta(t, 5, geo.Haversine(center, north), 0.01)
	assert.GreaterOrEqual(t, geo.Haversine(center, east), 4.99)
	assert.Less(t, box.MinLat, center.Lat)
	assert.Less(t, box.MinLng, center.Lng)
}

func TestBoundingBox_Pole(t *testing.T) {
	box := BoundingBox(geo.Point{Lat: 90, Lng: 0}, 10)

	assert.Equal(t, 90.0, box.MaxLat)
	assert.Equal(t, 180.0, box.MaxLng)
}

type staticProfiles map[string]*Profile

func (s staticProfiles) Profile(_ context.Context, userID string) (*Profile, error) {
	if p, ok := s[userID]; ok {
		return p, nil
	}
	return nil, apperrors.NewResourceNotFoundError("directory", userID)
}

func TestRequester(t *testing.T) {
	src := staticProfiles{"u-1": {ID: "u-1", Skills: "go"}}
	ctx := context.Background()

	p, err := Requester(ctx, src, &Profile{Skills: "react"}, "u-9")
	require.NoError(t, err)
	assert.Equal(t, "u-9", p.ID)
	assert.Equal(t, "react", p.Skills)

	p, err = Requester(ctx, src, nil, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "go", p.Skills)

	_, err = Requester(ctx, src, nil, "")
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))

	_, err = Requester(ctx, nil, nil, "u-1")
	assert.Equal(t, apperrors.ErrCodeValidationFailed, apperrors.CodeOf(err))

	_, err = Requester(ctx, src, nil, "u-2")
	assert.Equal(t, apperrors.ErrCodeResourceNotFound, apperrors.CodeOf(err))
}
