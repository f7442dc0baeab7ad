package models

import "time"

// Post is a single collected post from the target account's timeline.
// Timestamp is nil when the source delivered an invalid or missing date;
// such posts are still counted in totals but excluded from time-range
// analytics.
type Post struct {
	ID            string     `json:"id"`
	Author        string     `json:"author"`
	Text          string     `json:"text"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
	IsReply       bool       `json:"is_reply"`
	IsRetweet     bool       `json:"is_retweet"`
	Likes         int        `json:"likes"`
	RetweetCount  int        `json:"retweet_count"`
	Replies       int        `json:"replies"`
	Photos        []string   `json:"photos,omitempty"`
	Videos        []string   `json:"videos,omitempty"`
	URLs          []string   `json:"urls,omitempty"`
	InReplyToID   string     `json:"in_reply_to_id,omitempty"`
	InReplyToText string     `json:"in_reply_to_text,omitempty"`
}

// HasPhotos reports whether the post carries at least one photo.
func (p *Post) HasPhotos() bool { return len(p.Photos) > 0 }

// HasVideos reports whether the post carries at least one video.
func (p *Post) HasVideos() bool { return len(p.Videos) > 0 }

// HasLinks reports whether the post carries at least one URL.
func (p *Post) HasLinks() bool { return len(p.URLs) > 0 }

// Profile is the subset of account metadata the collector needs.
type Profile struct {
	Handle    string `json:"handle"`
	UserID    string `json:"user_id"`
	PostCount int    `json:"post_count"`
}

// CollectedSet accumulates posts keyed by identifier. No identifier appears
// twice regardless of how many fetch pages produced it. Insertion order is
// preserved so downstream stages behave deterministically for a given run.
type CollectedSet struct {
	byID  map[string]*Post
	order []string
}

// NewCollectedSet returns an empty set.
func NewCollectedSet() *CollectedSet {
	return &CollectedSet{byID: make(map[string]*Post)}
}

// Add inserts the post if its identifier is not already present and reports
// whether an insertion happened. Posts without an identifier are rejected.
func (s *CollectedSet) Add(p *Post) bool {
	if p == nil || p.ID == "" {
		return false
	}
	if _, ok := s.byID[p.ID]; ok {
		return false
	}
	s.byID[p.ID] = p
	s.order = append(s.order, p.ID)
	return true
}

// Get returns the post for id, or nil.
func (s *CollectedSet) Get(id string) *Post {
	return s.byID[id]
}

// Len returns the number of distinct posts collected.
func (s *CollectedSet) Len() int {
	return len(s.byID)
}

// Posts returns the posts in insertion order.
func (s *CollectedSet) Posts() []*Post {
	out := make([]*Post, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out
}

// Replies returns the posts that reference a parent post, in insertion order.
func (s *CollectedSet) Replies() []*Post {
	var out []*Post
	for _, id := range s.order {
		if p := s.byID[id]; p.InReplyToID != "" {
			out = append(out, p)
		}
	}
	return out
}

// EngagementStats aggregates interaction counts over non-retweet posts.
// AverageLikes is pre-formatted to two decimals; "0.00" when no posts
// participated.
type EngagementStats struct {
	TotalLikes    int    `json:"total_likes"`
	TotalRetweets int    `json:"total_retweets"`
	TotalReplies  int    `json:"total_replies"`
	AverageLikes  string `json:"average_likes"`
}

// TimeRange holds the formatted inclusive bounds of valid post timestamps.
// Both fields are "N/A" when no post has a valid timestamp.
type TimeRange struct {
	Oldest string `json:"oldest"`
	Newest string `json:"newest"`
}

// ContentTypeCounts classifies posts by attached media. A post with both
// photos and links increments both counters; TextOnly counts posts with no
// photos, videos, or links at all.
type ContentTypeCounts struct {
	WithPhotos int `json:"with_photos"`
	WithVideos int `json:"with_videos"`
	WithLinks  int `json:"with_links"`
	TextOnly   int `json:"text_only"`
}

// TopTweet is one entry of the report's most-liked list. Text is truncated
// for display.
type TopTweet struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Likes int    `json:"likes"`
}

// AnalyticsReport is an immutable snapshot derived from a finished corpus.
type AnalyticsReport struct {
	TotalTweets  int               `json:"total_tweets"`
	DirectTweets int               `json:"direct_tweets"`
	Replies      int               `json:"replies"`
	Retweets     int               `json:"retweets"`
	Engagement   EngagementStats   `json:"engagement"`
	TimeRange    TimeRange         `json:"time_range"`
	ContentTypes ContentTypeCounts `json:"content_types"`
	TopTweets    []TopTweet        `json:"top_tweets"`
}
