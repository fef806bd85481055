// Package cache fronts slow profile lookups with Redis.
package cache

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"time"

	"campus-gig-workers/internal/common/logger"
	"campus-gig-workers/internal/ranking"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "gig:profile:"

// Profiles is a read-through cache. Redis failures degrade to the backing
// source and never fail the lookup.
type Profiles struct {
	client redis.UniversalClient
	source ranking.ProfileSource
	ttl    time.Duration
	logger logger.Logger
}

var _ ranking.ProfileSource = (*Profiles)(nil)

func NewProfiles(client redis.UniversalClient, source ranking.ProfileSource, ttl time.Duration, log logger.Logger) *Profiles {
	return &Profiles{client: client, source: source, ttl: ttl, logger: log}
}

func key(userID string) string { return keyPrefix + userID }

func (p *Profiles) Profile(ctx context.Context, userID string) (*ranking.Profile, error) {
	raw, err := p.client.Get(ctx, key(userID)).Bytes()
	switch {
	case err == nil:
		var profile ranking.Profile
		if jsonErr := json.Unmarshal(raw, &profile); jsonErr == nil {
			return &profile, nil
		}
		p.logger.Warn("discarding corrupt cached profile", map[string]interface{}{"userId": userID})
	case stderrors.Is(err, redis.Nil):
	default:
		p.logger.Warn("profile cache read failed", map[string]interface{}{"userId": userID, "error": err})
	}

	profile, err := p.source.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(profile); err == nil {
		if err := p.client.Set(ctx, key(userID), data, p.ttl).Err(); err != nil {
			p.logger.Warn("profile cache write failed", map[string]interface{}{"userId": userID, "error": err})
		}
	}
	return profile, nil
}

// Invalidate drops a cached profile, e.g. after the user edits their skills.
func (p *Profiles) Invalidate(ctx context.Context, userID string) error {
	return p.client.Del(ctx, key(userID)).Err()
}
