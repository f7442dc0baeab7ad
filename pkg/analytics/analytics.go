// Package analytics reduces a finished corpus of posts to an aggregate
// engagement report. Aggregation is a pure function of its input: the same
// posts always produce the same report.
package analytics

import (
	"fmt"
	"sort"
	"time"

	"xscraper/pkg/logger"
	"xscraper/pkg/models"
)

const (
	// topTweetCount is the size of the most-liked list in a report.
	topTweetCount = 5
	// textPreviewRunes bounds the display text of a top tweet.
	textPreviewRunes = 100
	// timeFormat renders the report's time range bounds.
	timeFormat = "2006-01-02 15:04:05"
	// noTimeRange is the sentinel when no valid timestamps exist.
	noTimeRange = "N/A"
)

// Engine computes analytics reports.
type Engine struct {
	log logger.Logger
}

// New creates an analytics engine.
func New(log logger.Logger) *Engine {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Engine{log: log}
}

// Aggregate reduces posts to a report. The empty input yields the defined
// zero report: all counts zero, AverageLikes "0.00", time range "N/A"/"N/A"
// and an empty top list, so downstream consumers stay branch-free.
func (e *Engine) Aggregate(posts []*models.Post) models.AnalyticsReport {
	report := models.AnalyticsReport{
		Engagement: models.EngagementStats{AverageLikes: "0.00"},
		TimeRange:  models.TimeRange{Oldest: noTimeRange, Newest: noTimeRange},
		TopTweets:  []models.TopTweet{},
	}

	report.TotalTweets = len(posts)

	// Engagement participates over non-retweets only: retweets count toward
	// totals but their interaction numbers belong to the original author.
	var organic []*models.Post
	for _, p := range posts {
		switch {
		case p.IsRetweet:
			report.Retweets++
		case p.IsReply:
			report.Replies++
		default:
			report.DirectTweets++
		}

		if p.IsRetweet {
			continue
		}
		organic = append(organic, p)
		report.Engagement.TotalLikes += p.Likes
		report.Engagement.TotalRetweets += p.RetweetCount
		report.Engagement.TotalReplies += p.Replies
	}

	if len(organic) > 0 {
		avg := float64(report.Engagement.TotalLikes) / float64(len(organic))
		report.Engagement.AverageLikes = fmt.Sprintf("%.2f", avg)
	}

	report.ContentTypes = classifyContent(posts)
	report.TimeRange = e.timeRange(posts)
	report.TopTweets = topTweets(organic)

	return report
}

// classifyContent counts media presence. WithPhotos/WithVideos/WithLinks
// overlap; TextOnly is exclusive by definition.
func classifyContent(posts []*models.Post) models.ContentTypeCounts {
	var counts models.ContentTypeCounts
	for _, p := range posts {
		if p.HasPhotos() {
			counts.WithPhotos++
		}
		if p.HasVideos() {
			counts.WithVideos++
		}
		if p.HasLinks() {
			counts.WithLinks++
		}
		if !p.HasPhotos() && !p.HasVideos() && !p.HasLinks() {
			counts.TextOnly++
		}
	}
	return counts
}

// timeRange computes the inclusive bounds over valid timestamps. Posts with
// a nil timestamp are excluded from the bounds but stay in every count; when
// any were excluded a warning names how many.
func (e *Engine) timeRange(posts []*models.Post) models.TimeRange {
	var oldest, newest *time.Time
	excluded := 0

	for _, p := range posts {
		if p.Timestamp == nil {
			excluded++
			continue
		}
		ts := *p.Timestamp
		if oldest == nil || ts.Before(*oldest) {
			oldest = &ts
		}
		if newest == nil || ts.After(*newest) {
			newest = &ts
		}
	}

	if excluded > 0 {
		e.log.WarnWithFields("Posts with invalid dates excluded from time range", map[string]interface{}{
			"excluded": excluded,
		})
	}

	if oldest == nil {
		return models.TimeRange{Oldest: noTimeRange, Newest: noTimeRange}
	}
	return models.TimeRange{
		Oldest: oldest.Format(timeFormat),
		Newest: newest.Format(timeFormat),
	}
}

// topTweets selects the most-liked non-retweet posts. The sort is stable so
// ties keep their original relative order.
func topTweets(organic []*models.Post) []models.TopTweet {
	ranked := make([]*models.Post, len(organic))
	copy(ranked, organic)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Likes > ranked[j].Likes
	})

	n := topTweetCount
	if len(ranked) < n {
		n = len(ranked)
	}

	top := make([]models.TopTweet, 0, n)
	for _, p := range ranked[:n] {
		top = append(top, models.TopTweet{
			ID:    p.ID,
			Text:  truncate(p.Text, textPreviewRunes),
			Likes: p.Likes,
		})
	}
	return top
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
