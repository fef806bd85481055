package recommendtalent

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

func kmNorth(km float64) geo.Coordinate {
	return geo.At(12.9716+km/111.195, 77.5946)
}

func TestHandler_Execute(t *testing.T) {
	poster := &ranking.Profile{ID: "p-1", Location: kmNorth(0)}
	talent := []ranking.Candidate{
		{ID: "three", Tags: "Go", Location: kmNorth(3)},
		{ID: "one", Tags: "Go", Location: kmNorth(1)},
		{ID: "nowhere", Tags: "Go"},
		{ID: "far", Tags: "Go", Location: kmNorth(8)},
		{ID: "two", Tags: "Go", Location: kmNorth(2)},
	}

	source := &mockCandidates{}
	source.On("Talent", mock.Anything, mock.MatchedBy(func(q ranking.Query) bool {
		return q.ExcludeID == "p-1" && q.Near != nil && q.RadiusKm == 5
	})).Return(talent, nil)

	h := NewHandler(DefaultConfig(), ranking.NewEngine(), nil, source, logger.NewTestLogger(t))
	out, err := h.Execute(context.Background(), &Input{Profile: poster})

	require.NoError(t, err)
	require.Equal(t, 3, out.Count)

	var ids []string
	for _, r := range out.Results {
		ids = append(ids, r.ID)
		assert.Zero(t, r.Score)
		assert.Zero(t, r.SkillScore)
		require.NotNil(t, r.DistanceKm)
	}
	assert.Equal(t, []string{"one", "two", "three"}, ids)
	assert.InDelta(t, 1.0, *out.Results[0].DistanceKm, 0.01)
}

func TestHandler_Execute_UnlocatablePoster(t *testing.T) {
	h := NewHandler(DefaultConfig(), ranking.NewEngine(), nil, &mockCandidates{}, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{Profile: &ranking.Profile{ID: "p-1"}})

	require.NoError(t, err)
	assert.Equal(t, 0, out.Count)
	assert.NotNil(t, out.Results)
}

func TestHandler_Execute_SourceError(t *testing.T) {
	source := &mockCandidates{}
	source.On("Talent", mock.Anything, mock.Anything).
		Return([]ranking.Candidate(nil), apperrors.NewQueryExecutionFailedError("talent", assert.AnError))

	h := NewHandler(DefaultConfig(), ranking.NewEngine(), nil, source, logger.NewTestLogger(t))
	_, err := h.Execute(context.Background(), &Input{Profile: &ranking.Profile{ID: "p-1", Location: kmNorth(0)}})

	assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, apperrors.CodeOf(err))
}
