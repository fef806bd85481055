package ranking

import (
	"math"
	"sort"

	"campus-gig-workers/internal/geo"

	"github.com/sourcegraph/conc/iter"
)

const (
	DefaultLimit    = 10
	DefaultRadiusKm = 5.0

	hybridSkillWeight     = 0.7
	hybridProximityWeight = 0.3

	compositeSkillWeight     = 0.4
	compositeProximityWeight = 0.25
	compositeRatingWeight    = 0.15
	compositeJobsWeight      = 0.1
	compositeUrgencyWeight   = 0.1

	jobsSaturation    = 30.0
	urgencySaturation = 10.0
)

// Engine ranks candidates. It holds no mutable state and is safe for concurrent use.
type Engine struct {
	limit         int
	radiusKm      float64
	maxGoroutines int
}

type Option func(*Engine)

// WithLimit sets the result cap used when a call passes limit <= 0.
func WithLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// WithRadiusKm sets the hard cutoff for the recommendation policies.
func WithRadiusKm(km float64) Option {
	return func(e *Engine) {
		if km > 0 {
			e.radiusKm = km
		}
	}
}

// WithMaxGoroutines bounds scoring parallelism. Zero means GOMAXPROCS.
func WithMaxGoroutines(n int) Option {
	return func(e *Engine) {
		e.maxGoroutines = n
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		limit:    DefaultLimit,
		radiusKm: DefaultRadiusKm,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) RadiusKm() float64 { return e.radiusKm }

type scored struct {
	result   Result
	distance float64
	keep     bool
}

// Hybrid ranks by skill fit weighted 70/30 against proximity. Candidates with
// no known location get a neutral proximity and are never dropped.
func (e *Engine) Hybrid(p Profile, candidates []Candidate, limit int) []Result {
	rows := e.score(candidates, func(c *Candidate) scored {
		skill := MatchScore(p.Skills, c.Tags, c.Description)
		dist := distancePtr(p.Location, c.Location)
		prox := RadiusScore(dist)

		final := math.Round(float64(skill)*hybridSkillWeight + prox*100*hybridProximityWeight)
		return scored{
			result: Result{
				ID:             c.ID,
				Title:          c.Title,
				Score:          int(final),
				SkillScore:     skill,
				ProximityScore: prox,
				DistanceKm:     dist,
			},
			keep: true,
		}
	})

	return e.finish(rows, limit, byScoreDesc)
}

// Composite ranks within the engine radius using skill, proximity, the
// requester's rating and completed jobs, and the candidate's urgency.
func (e *Engine) Composite(p Profile, candidates []Candidate, limit int) []Result {
	if !p.Location.Known() {
		return []Result{}
	}

	ratingTerm := p.EffectiveRating() / 5 * compositeRatingWeight
	jobs := p.CompletedJobs
	if jobs < 0 {
		jobs = 0
	}
	jobsTerm := math.Min(float64(jobs)/jobsSaturation, 1) * compositeJobsWeight

	rows := e.score(candidates, func(c *Candidate) scored {
		d, ok := geo.Distance(p.Location, c.Location)
		if !ok || d > e.radiusKm {
			return scored{}
		}

		skill := MatchScore(p.Skills, c.Tags, c.Description)
		prox := RadiusScore(&d)
		urgency := c.Urgency
		if urgency < 0 {
			urgency = 0
		}

		raw := float64(skill)/100*compositeSkillWeight +
			prox*compositeProximityWeight +
			ratingTerm +
			jobsTerm +
			math.Min(float64(urgency)/urgencySaturation, 1)*compositeUrgencyWeight

		return scored{
			result: Result{
				ID:             c.ID,
				Title:          c.Title,
				Score:          int(math.Round(raw * 100)),
				SkillScore:     skill,
				ProximityScore: prox,
				DistanceKm:     &d,
			},
			distance: d,
			keep:     true,
		}
	})

	return e.finish(rows, limit, byScoreDesc)
}

// Talent orders nearby talent by distance only, nearest first. Match score is
// reported as zero; talent with unknown location or outside the radius is dropped.
func (e *Engine) Talent(p Profile, candidates []Candidate, limit int) []Result {
	if !p.Location.Known() {
		return []Result{}
	}

	rows := e.score(candidates, func(c *Candidate) scored {
		d, ok := geo.Distance(p.Location, c.Location)
		if !ok || d > e.radiusKm {
			return scored{}
		}
		return scored{
			result: Result{
				ID:             c.ID,
				Title:          c.Title,
				ProximityScore: RadiusScore(&d),
				DistanceKm:     &d,
			},
			distance: d,
			keep:     true,
		}
	})

	return e.finish(rows, limit, byDistanceAsc)
}

func (e *Engine) score(candidates []Candidate, fn func(*Candidate) scored) []scored {
	if len(candidates) == 0 {
		return nil
	}
	mapper := iter.Mapper[Candidate, scored]{MaxGoroutines: e.maxGoroutines}
	return mapper.Map(candidates, fn)
}

func byScoreDesc(a, b scored) bool { return a.result.Score > b.result.Score }

func byDistanceAsc(a, b scored) bool { return a.distance < b.distance }

func (e *Engine) finish(rows []scored, limit int, less func(a, b scored) bool) []Result {
	kept := rows[:0]
	for _, r := range rows {
		if r.keep {
			kept = append(kept, r)
		}
	}

	sort.SliceStable(kept, func(i, j int) bool { return less(kept[i], kept[j]) })

	if limit <= 0 {
		limit = e.limit
	}
	if len(kept) > limit {
		kept = kept[:limit]
	}

	out := make([]Result, len(kept))
	for i, r := range kept {
		out[i] = r.result
	}
	return out
}

func distancePtr(a, b geo.Coordinate) *float64 {
	d, ok := geo.Distance(a, b)
	if !ok {
		return nil
	}
	return &d
}
