// Package scraper wires the session, collection, enrichment and persistence
// stages into one sequential pipeline.
package scraper

import (
	"context"
	"fmt"

	"xscraper/pkg/auth"
	"xscraper/pkg/collector"
	"xscraper/pkg/config"
	"xscraper/pkg/enrich"
	"xscraper/pkg/logger"
	"xscraper/pkg/models"
	"xscraper/pkg/ratelimit"
	"xscraper/pkg/session"
	"xscraper/pkg/storage"
)

// Pacing intervals: how many processed items pass between pauses.
const (
	collectPaceInterval = 100
	enrichPaceInterval  = 50
)

// Scraper runs the full pipeline for one handle per invocation.
type Scraper struct {
	client   TwitterClient
	cfg      *config.Config
	store    *storage.Manager
	sessions *session.Manager
	log      logger.Logger
}

// New builds a scraper around a client and validated configuration.
func New(client TwitterClient, cfg *config.Config, log logger.Logger) (*Scraper, error) {
	if log == nil {
		log = logger.GetLogger()
	}

	store, err := storage.NewManager(cfg.Output.BaseDirectory, cfg.Output.CreateHandleFolders, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	sessions := session.NewManager(
		client,
		store.SessionPath(cfg.Account.Username),
		cfg.Scrape.MaxLoginRetries,
		cfg.Scrape.RetryDelay,
		log,
	)

	return &Scraper{
		client:   client,
		cfg:      cfg,
		store:    store,
		sessions: sessions,
		log:      log,
	}, nil
}

// Run executes the pipeline for one handle: establish a session, collect
// posts, resolve reply parents, persist the corpus and analytics report,
// record the checkpoint, and always attempt logout. Session establishment
// and corpus persistence failures are fatal; checkpoint and enrichment
// degradation is logged and survived.
func (s *Scraper) Run(ctx context.Context, handle string) (models.AnalyticsReport, error) {
	var report models.AnalyticsReport

	cred := &auth.Credential{
		Username: s.cfg.Account.Username,
		Password: s.cfg.Account.Password,
		Email:    s.cfg.Account.Email,
	}
	if err := s.sessions.Establish(ctx, cred); err != nil {
		return report, fmt.Errorf("failed to establish session: %w", err)
	}
	defer s.sessions.Logout(context.WithoutCancel(ctx))

	source := s.client.SearchTweets(ctx, handle)

	// Resume from the last checkpoint when the source supports it.
	// Checkpoints are advisory: read failure means a cold start.
	token, err := s.store.GetLastCheckpoint(handle)
	if err != nil {
		s.log.WithError(err).Warn("Checkpoint read failed, starting cold")
	} else if token != "" {
		if seeker, ok := source.(Seeker); ok {
			seeker.Seek(token)
			s.log.WithField("handle", handle).Info("Resuming from checkpoint")
		}
	}

	collectPacer := ratelimit.NewIntervalPacer("collect", collectPaceInterval,
		s.cfg.Scrape.MinDelay, s.cfg.Scrape.MaxDelay, s.log)
	engine := collector.New(s.client, collectPacer, s.log)

	set, err := engine.Collect(ctx, handle, s.cfg.Scrape.MaxTweets, source)
	if err != nil {
		return report, fmt.Errorf("collection failed: %w", err)
	}

	enrichPacer := ratelimit.NewIntervalPacer("enrich", enrichPaceInterval,
		s.cfg.Scrape.MinDelay, s.cfg.Scrape.MaxDelay, s.log)
	resolver := enrich.New(s.client, enrichPacer, s.log)

	if err := resolver.ResolveParents(ctx, set); err != nil {
		return report, fmt.Errorf("parent resolution aborted: %w", err)
	}

	report, err = s.store.SaveTweets(handle, set.Posts())
	if err != nil {
		return report, fmt.Errorf("failed to persist tweets: %w", err)
	}

	if positioned, ok := source.(Positioned); ok {
		if err := s.store.SaveCheckpoint(handle, positioned.Cursor(), set.Len()); err != nil {
			s.log.WithError(err).Warn("Checkpoint write failed")
		}
	}

	s.log.InfoWithFields("Scrape complete", map[string]interface{}{
		"handle":    handle,
		"collected": set.Len(),
	})
	return report, nil
}
