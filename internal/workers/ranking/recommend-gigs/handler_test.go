package recommendgigs

import (
	"context"
	"testing"

	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/geo"
	"campus-gig-workers/internal/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCandidates struct{ mock.Mock }

func (m *mockCandidates) OpenGigs(ctx context.Context, q ranking.Query) ([]ranking.Candidate, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]ranking.Candidate), args.Error(1)
}

func (m *mockCandidates) Talent(ctx context.Context, q ranking.Query) ([]ranking.Candidate, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]ranking.Candidate), args.Error(1)
}

type profileFunc func(ctx context.Context, userID string) (*ranking.Profile, error)

func (f profileFunc) Profile(ctx context.Context, userID string) (*ranking.Profile, error) {
	return f(ctx, userID)
}

// kmNorth is roughly km kilometres north of the campus.
func kmNorth(km float64) geo.Coordinate {
	return geo.At(12.9716+km/111.195, 77.5946)
}

func TestHandler_Execute_RadiusAndOrder(t *testing.T) {
	rating := 5.0
	student := &ranking.Profile{ID: "s-1", Skills: "React", Location: kmNorth(0), Rating: &rating, CompletedJobs: 30}
	gigs := []ranking.Candidate{
		{ID: "edge", Tags: "React", Location: kmNorth(4.9)},
		{ID: "outside", Tags: "React", Location: kmNorth(5.5)},
		{ID: "unlocated", Tags: "React"},
		{ID: "near-urgent", Tags: "React", Location: kmNorth(0.5), Urgency: 10},
		{ID: "near", Tags: "React", Location: kmNorth(0.5)},
	}

	source := &mockCandidates{}
	source.On("OpenGigs", mock.Anything, mock.MatchedBy(func(q ranking.Query) bool {
		return q.ExcludeID == "s-1" && q.Near != nil && q.RadiusKm == 5 && q.Limit == 500
	})).Return(gigs, nil)

	h := NewHandler(DefaultConfig(), ranking.NewEngine(), nil, source, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{Profile: student})

	require.NoError(t, err)
	source.AssertExpectations(t)
	assert.Equal(t, "composite", out.Policy)
	assert.Equal(t, 5.0, out.RadiusKm)
	require.Equal(t, 3, out.Count)
	assert.Equal(t, "near-urgent", out.Results[0].ID)
	assert.Equal(t, 100, out.Results[0].Score)
	assert.Equal(t, "near", out.Results[1].ID)
	assert.Equal(t, 90, out.Results[1].Score)
	assert.Equal(t, "edge", out.Results[2].ID)
}

func TestHandler_Execute_UnlocatableRequester(t *testing.T) {
	source := &mockCandidates{}
	h := NewHandler(DefaultConfig(), ranking.NewEngine(), profileFunc(func(context.Context, string) (*ranking.Profile, error) {
		return &ranking.Profile{ID: "s-1", Skills: "Go"}, nil
	}), source, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{UserID: "s-1"})

	require.NoError(t, err)
	assert.Empty(t, out.Results)
	assert.NotNil(t, out.Results)
	source.AssertNotCalled(t, "OpenGigs", mock.Anything, mock.Anything)
}

func TestHandler_Execute_ProfileLookupFails(t *testing.T) {
	h := NewHandler(DefaultConfig(), ranking.NewEngine(), profileFunc(func(_ context.Context, id string) (*ranking.Profile, error) {
		return nil, apperrors.NewResourceNotFoundError("directory", "user "+id)
	}), nil, logger.NewTestLogger(t))

	_, err := h.Execute(context.Background(), &Input{UserID: "ghost"})

	assert.Equal(t, apperrors.ErrCodeResourceNotFound, apperrors.CodeOf(err))
}

func TestHandler_Execute_RespectsLimit(t *testing.T) {
	student := &ranking.Profile{ID: "s-1", Skills: "React", Location: kmNorth(0)}
	var gigs []ranking.Candidate
	for _, km := range []float64{0.1, 0.2, 0.3, 0.4} {
		gigs = append(gigs, ranking.Candidate{ID: "g", Tags: "React", Location: kmNorth(km)})
	}

	h := NewHandler(DefaultConfig(), ranking.NewEngine(), nil, nil, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{Profile: student, Candidates: gigs, Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, 2, out.Count)
}
