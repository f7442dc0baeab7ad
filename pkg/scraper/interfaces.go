package scraper

import (
	"context"

	"xscraper/pkg/collector"
	"xscraper/pkg/cookies"
	"xscraper/pkg/models"
)

// TwitterClient is the full capability surface the pipeline needs from the
// scraping client. The concrete HTTP client lives in pkg/twitter; tests
// substitute fakes.
type TwitterClient interface {
	// Login performs a fresh credentialed login.
	Login(ctx context.Context, username, password, email string) error

	// IsLoggedIn probes whether the current session is authenticated.
	IsLoggedIn(ctx context.Context) bool

	// GetCookies exports the session cookies for persistence.
	GetCookies() []cookies.Entry

	// SetCookies installs previously persisted session cookies.
	SetCookies(entries []cookies.Entry) error

	// GetProfile fetches profile metadata for a handle.
	GetProfile(ctx context.Context, handle string) (*models.Profile, error)

	// SearchTweets starts a paginated walk over a handle's posts.
	SearchTweets(ctx context.Context, handle string) collector.TweetSource

	// GetTweet fetches a single post by ID.
	GetTweet(ctx context.Context, id string) (*models.Post, error)

	// Logout invalidates the current session.
	Logout(ctx context.Context) error
}

// Seeker is implemented by tweet sources that can resume from a previously
// checkpointed pagination token.
type Seeker interface {
	Seek(cursor string)
}

// Positioned is implemented by tweet sources that expose their current
// pagination token for checkpointing.
type Positioned interface {
	Cursor() string
}
