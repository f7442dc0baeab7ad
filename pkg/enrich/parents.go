// Package enrich attaches parent-post text to collected replies.
package enrich

import (
	"context"

	errs "xscraper/pkg/errors"
	"xscraper/pkg/logger"
	"xscraper/pkg/models"
	"xscraper/pkg/ratelimit"
)

// TweetFetcher resolves a single post by ID.
type TweetFetcher interface {
	GetTweet(ctx context.Context, id string) (*models.Post, error)
}

// Resolver fills in InReplyToText for every reply in a collected set.
type Resolver struct {
	fetcher TweetFetcher
	pacer   ratelimit.Pacer
	log     logger.Logger
}

// New creates a parent resolver.
func New(fetcher TweetFetcher, pacer ratelimit.Pacer, log logger.Logger) *Resolver {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Resolver{
		fetcher: fetcher,
		pacer:   pacer,
		log:     log,
	}
}

// ResolveParents fetches the parent post for every reply in set and attaches
// its text. Any per-item failure attaches empty text with a warning; the
// batch itself never aborts. Only context cancellation stops it early.
func (r *Resolver) ResolveParents(ctx context.Context, set *models.CollectedSet) error {
	replies := set.Replies()
	if len(replies) == 0 {
		return nil
	}

	r.log.InfoWithFields("Resolving reply parents", map[string]interface{}{
		"replies": len(replies),
	})

	resolved := 0
	failed := 0
	for _, reply := range replies {
		if err := ctx.Err(); err != nil {
			return err
		}

		parent, err := r.fetcher.GetTweet(ctx, reply.InReplyToID)
		if err == nil && parent == nil {
			err = errs.New(errs.ErrorTypeNotFound, 0, "parent tweet unavailable")
		}
		logger.LogParentFetch(reply.ID, reply.InReplyToID, err)
		if err != nil || parent == nil {
			reply.InReplyToText = ""
			failed++
		} else {
			reply.InReplyToText = parent.Text
			resolved++
		}

		r.pacer.Tick()
	}

	r.log.InfoWithFields("Parent resolution finished", map[string]interface{}{
		"resolved": resolved,
		"failed":   failed,
	})
	return nil
}
