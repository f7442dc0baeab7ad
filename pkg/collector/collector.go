// Package collector drains a paginated tweet source into a deduplicated
// collection, pacing requests and honoring the account's real post count.
package collector

import (
	"context"
	"errors"
	"fmt"
	"io"

	"xscraper/pkg/logger"
	"xscraper/pkg/models"
	"xscraper/pkg/ratelimit"
)

// progressInterval is how many accepted items pass between progress logs.
const progressInterval = 100

// TweetSource hands out one post at a time. It is finite and
// non-restartable: Next returns io.EOF once the source is exhausted.
type TweetSource interface {
	Next() (*models.Post, error)
}

// ProfileFetcher resolves an account's profile ahead of collection.
type ProfileFetcher interface {
	GetProfile(ctx context.Context, handle string) (*models.Profile, error)
}

// Engine collects posts for one handle.
type Engine struct {
	profiles ProfileFetcher
	pacer    ratelimit.Pacer
	log      logger.Logger
}

// New creates a collection engine.
func New(profiles ProfileFetcher, pacer ratelimit.Pacer, log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Engine{
		profiles: profiles,
		pacer:    pacer,
		log:      log,
	}
}

// Collect drains source into a deduplicated set, stopping at maxWanted
// accepted posts or source exhaustion. The target is capped at the account's
// post count when the profile lookup yields one; lookup failure or a zero
// count means the real total is unknown and the configured max stands.
func (e *Engine) Collect(ctx context.Context, handle string, maxWanted int, source TweetSource) (*models.CollectedSet, error) {
	if maxWanted <= 0 {
		return nil, fmt.Errorf("maxWanted must be positive, got %d", maxWanted)
	}

	target := maxWanted
	profile, err := e.profiles.GetProfile(ctx, handle)
	switch {
	case err != nil:
		e.log.WithError(err).WithField("handle", handle).Warn("Profile lookup failed, using configured max")
	case profile.PostCount <= 0:
		e.log.WithField("handle", handle).Debug("Profile reports no post count, using configured max")
	case profile.PostCount < target:
		target = profile.PostCount
	}

	e.log.InfoWithFields("Starting collection", map[string]interface{}{
		"handle": handle,
		"target": target,
	})

	set := models.NewCollectedSet()
	skipped := 0
	duplicates := 0

	for set.Len() < target {
		if err := ctx.Err(); err != nil {
			return set, err
		}

		post, err := source.Next()
		if errors.Is(err, io.EOF) {
			e.log.InfoWithFields("Source exhausted", map[string]interface{}{
				"handle":    handle,
				"collected": set.Len(),
				"target":    target,
			})
			break
		}
		if err != nil {
			return set, fmt.Errorf("failed to fetch next tweet: %w", err)
		}

		if post.ID == "" {
			skipped++
			continue
		}
		if !set.Add(post) {
			duplicates++
			continue
		}

		if set.Len()%progressInterval == 0 {
			logger.LogCollectionProgress(handle, set.Len(), target)
		}
		e.pacer.Tick()
	}

	e.log.InfoWithFields("Collection finished", map[string]interface{}{
		"handle":     handle,
		"collected":  set.Len(),
		"duplicates": duplicates,
		"skipped":    skipped,
	})
	return set, nil
}
