package common

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// RateLimiter paces outgoing requests so that all of its restrictions
// hold at the same time. A nil or empty RateLimiter never waits.
type RateLimiter struct {
	restrictions []Restriction
	limiters     []*rate.Limiter
}

func NewRateLimiter(restrictions []Restriction) *RateLimiter {
	rl := &RateLimiter{restrictions: make([]Restriction, len(restrictions))}
	copy(rl.restrictions, restrictions)
	for _, restriction := range rl.restrictions {
		rl.limiters = append(rl.limiters, restriction.Limiter())
	}
	return rl
}

// Block until every restriction allows one more request,
// or the context is done
func (rl *RateLimiter) Wait(ctx context.Context) error {
	if rl == nil {
		return nil
	}
	for i, limiter := range rl.limiters {
		if limiter.Allow() {
			continue
		}
		log.Debug().Str("restriction", rl.restrictions[i].String()).Msg("Request delayed by rate limiter")
		if err := limiter.Wait(ctx); err != nil {
			return err
		}
	}
	return nil
}
