package searchgigs

import (
	"context"
	"testing"

	apperrors "campus-gig-workers/internal/common/errors"
	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/common/validation"
	"campus-gig-workers/internal/geo"
	"campus-gig-workers/internal/ranking"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProfiles struct{ mock.Mock }

func (m *mockProfiles) Profile(ctx context.Context, userID string) (*ranking.Profile, error) {
	args := m.Called(ctx, userID)
	if p := args.Get(0); p != nil {
		return p.(*ranking.Profile), args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCandidates struct{ mock.Mock }

func (m *mockCandidates) OpenGigs(ctx context.Context, q ranking.Query) ([]ranking.Candidate, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]ranking.Candidate), args.Error(1)
}

func (m *mockCandidates) Talent(ctx context.Context, q ranking.Query) ([]ranking.Candidate, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]ranking.Candidate), args.Error(1)
}

var campus = geo.At(12.9716, 77.5946)

func newTestHandler(t *testing.T, profiles ranking.ProfileSource, candidates ranking.CandidateSource) *Handler {
	return NewHandler(DefaultConfig(), ranking.NewEngine(), profiles, candidates, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	student := &ranking.Profile{ID: "student-1", Skills: "React,Node.js", Location: campus}
	gigs := []ranking.Candidate{
		{ID: "gig-far", Tags: "React", Location: geo.At(13.0716, 77.5946)},
		{ID: "gig-match", Tags: "React,Next.js,TypeScript", Description: "Node.js backend", Location: campus},
		{ID: "gig-none", Tags: "Python"},
	}

	tests := []struct {
		name      string
		input     *Input
		setup     func(p *mockProfiles, c *mockCandidates)
		wantIDs   []string
		wantError apperrors.ErrorCode
	}{
		{
			name:    "inline profile and candidates",
			input:   &Input{Profile: student, Candidates: gigs},
			wantIDs: []string{"gig-far", "gig-match", "gig-none"},
		},
		{
			name:  "profile and gigs fetched",
			input: &Input{UserID: "student-1", Limit: 2},
			setup: func(p *mockProfiles, c *mockCandidates) {
				p.On("Profile", mock.Anything, "student-1").Return(student, nil)
				c.On("OpenGigs", mock.Anything, ranking.Query{ExcludeID: "student-1", Limit: 500}).Return(gigs, nil)
			},
			wantIDs: []string{"gig-far", "gig-match"},
		},
		{
			name:    "explicit empty candidates are not fetched",
			input:   &Input{Profile: student, Candidates: []ranking.Candidate{}},
			wantIDs: []string{},
		},
		{
			name:      "no requester",
			input:     &Input{},
			wantError: apperrors.ErrCodeValidationFailed,
		},
		{
			name:  "candidate source failure",
			input: &Input{Profile: student},
			setup: func(p *mockProfiles, c *mockCandidates) {
				c.On("OpenGigs", mock.Anything, mock.Anything).
					Return([]ranking.Candidate(nil), apperrors.NewSearchQueryFailedError("open_gigs", assert.AnError))
			},
			wantError: apperrors.ErrCodeSearchQueryFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profiles := &mockProfiles{}
			candidates := &mockCandidates{}
			if tt.setup != nil {
				tt.setup(profiles, candidates)
			}

			out, err := newTestHandler(t, profiles, candidates).Execute(context.Background(), tt.input)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Equal(t, tt.wantError, apperrors.CodeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "hybrid", out.Policy)
			assert.Equal(t, len(tt.wantIDs), out.Count)

			ids := make([]string, len(out.Results))
			for i, r := range out.Results {
				ids[i] = r.ID
			}
			assert.ElementsMatch(t, tt.wantIDs, ids)
			profiles.AssertExpectations(t)
			candidates.AssertExpectations(t)
		})
	}
}

func TestHandler_Execute_ScoresAndOrder(t *testing.T) {
	h := newTestHandler(t, nil, nil)

	out, err := h.Execute(context.Background(), &Input{
		Profile: &ranking.Profile{ID: "s", Skills: "React,Node.js", Location: campus},
		Candidates: []ranking.Candidate{
			{ID: "unlocated", Tags: "React,Next.js,TypeScript", Description: "Node.js backend"},
			{ID: "here", Tags: "React,Next.js,TypeScript", Description: "Node.js backend", Location: campus},
		},
	})

	require.NoError(t, err)
	require.Len(t, out.Results, 2)
	assert.Equal(t, "here", out.Results[0].ID)
	assert.Equal(t, 65, out.Results[0].Score)
	assert.Equal(t, "unlocated", out.Results[1].ID)
	assert.Equal(t, 50, out.Results[1].Score)
	assert.Nil(t, out.Results[1].DistanceKm)
}

func TestGetInputSchema(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		valid bool
	}{
		{"inline", `{"profile":{"skills":"go","location":{"latitude":12.9,"longitude":77.5}},"candidates":[{"id":"g"}]}`, true},
		{"by user id", `{"userId":"u-1","limit":5}`, true},
		{"unknown location", `{"profile":{"location":{"latitude":null,"longitude":null}}}`, true},
		{"latitude out of range", `{"profile":{"location":{"latitude":91,"longitude":0}}}`, false},
		{"candidate without id", `{"userId":"u","candidates":[{"tags":"go"}]}`, false},
		{"limit too large", `{"userId":"u","limit":1000}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := validation.ValidateJSON(tt.raw, GetInputSchema())
			require.NoError(t, err)
			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())
		})
	}
}
