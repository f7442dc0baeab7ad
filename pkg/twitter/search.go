package twitter

import (
	"context"
	"io"
	"sort"

	"xscraper/pkg/models"
)

// TweetCursor walks a handle's posts page by page. Next returns io.EOF once
// the service stops yielding new tweets.
type TweetCursor struct {
	client *Client
	ctx    context.Context
	handle string

	buffer []*models.Post
	cursor string
	done   bool
}

// SearchTweets starts a paginated walk over a handle's posts, newest first.
func (c *Client) SearchTweets(ctx context.Context, handle string) *TweetCursor {
	return &TweetCursor{
		client: c,
		ctx:    ctx,
		handle: handle,
	}
}

// Next returns the next post, fetching a new page when the buffer is empty.
// It returns io.EOF when the timeline is exhausted.
func (tc *TweetCursor) Next() (*models.Post, error) {
	for len(tc.buffer) == 0 {
		if tc.done {
			return nil, io.EOF
		}
		if err := tc.fetchPage(); err != nil {
			return nil, err
		}
	}

	post := tc.buffer[0]
	tc.buffer = tc.buffer[1:]
	return post, nil
}

// Cursor exposes the current pagination token for checkpointing.
func (tc *TweetCursor) Cursor() string {
	return tc.cursor
}

// Seek resumes the walk from a previously checkpointed pagination token.
func (tc *TweetCursor) Seek(cursor string) {
	tc.cursor = cursor
}

func (tc *TweetCursor) fetchPage() error {
	var page searchResponse
	if err := tc.client.GetJSON(tc.ctx, SearchURL(tc.handle, tc.cursor), &page); err != nil {
		return err
	}

	tweets := page.GlobalObjects.Tweets
	ids := make([]string, 0, len(tweets))
	for id := range tweets {
		ids = append(ids, id)
	}
	// The wire map has no order; newest-first by ID matches timeline order
	// because status IDs are time-sortable. IDs are decimal strings of
	// varying length, so compare length before value.
	sort.Slice(ids, func(i, j int) bool {
		if len(ids[i]) != len(ids[j]) {
			return len(ids[i]) > len(ids[j])
		}
		return ids[i] > ids[j]
	})

	for _, id := range ids {
		raw := tweets[id]
		tc.buffer = append(tc.buffer, raw.ToPost())
	}

	next := bottomCursor(&page)
	// An empty page or a cursor that stopped moving means the timeline is
	// exhausted.
	if len(tweets) == 0 || next == "" || next == tc.cursor {
		tc.done = true
	}
	tc.cursor = next

	tc.client.logger.DebugWithFields("Fetched search page", map[string]interface{}{
		"handle": tc.handle,
		"tweets": len(tweets),
		"done":   tc.done,
	})
	return nil
}

func bottomCursor(page *searchResponse) string {
	for _, inst := range page.Timeline.Instructions {
		for _, entry := range inst.AddEntries.Entries {
			if entry.EntryID == "sq-cursor-bottom" {
				return entry.Content.Operation.Cursor.Value
			}
		}
		if inst.ReplaceEntry.Entry.EntryID == "sq-cursor-bottom" {
			return inst.ReplaceEntry.Entry.Content.Operation.Cursor.Value
		}
	}
	return ""
}
