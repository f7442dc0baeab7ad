package twitter

import (
	"time"

	"xscraper/pkg/models"
)

// createdAtFormat is how the legacy API renders tweet timestamps.
const createdAtFormat = "Mon Jan 02 15:04:05 -0700 2006"

// RawTweet is the legacy wire shape of one tweet.
type RawTweet struct {
	IDStr                string      `json:"id_str"`
	FullText             string      `json:"full_text"`
	Text                 string      `json:"text"`
	CreatedAt            string      `json:"created_at"`
	FavoriteCount        int         `json:"favorite_count"`
	RetweetCount         int         `json:"retweet_count"`
	ReplyCount           int         `json:"reply_count"`
	InReplyToStatusIDStr string      `json:"in_reply_to_status_id_str"`
	RetweetedStatus      *RawTweet   `json:"retweeted_status,omitempty"`
	User                 RawUser     `json:"user"`
	Entities             RawEntities `json:"entities"`
}

// RawUser is the subset of the wire user object the scraper reads.
type RawUser struct {
	IDStr         string `json:"id_str"`
	ScreenName    string `json:"screen_name"`
	StatusesCount int    `json:"statuses_count"`
}

// RawEntities carries attached media and link metadata.
type RawEntities struct {
	Media []RawMedia `json:"media,omitempty"`
	URLs  []RawURL   `json:"urls,omitempty"`
}

// RawMedia is one attached media object.
type RawMedia struct {
	Type     string `json:"type"` // "photo", "video", "animated_gif"
	MediaURL string `json:"media_url_https"`
}

// RawURL is one attached link.
type RawURL struct {
	ExpandedURL string `json:"expanded_url"`
}

// searchResponse is the adaptive search page shape: a flat tweet map plus
// timeline instructions carrying the pagination cursor.
type searchResponse struct {
	GlobalObjects struct {
		Tweets map[string]RawTweet `json:"tweets"`
	} `json:"globalObjects"`
	Timeline struct {
		Instructions []instruction `json:"instructions"`
	} `json:"timeline"`
}

type instruction struct {
	AddEntries struct {
		Entries []timelineEntry `json:"entries"`
	} `json:"addEntries"`
	ReplaceEntry struct {
		Entry timelineEntry `json:"entry"`
	} `json:"replaceEntry"`
}

type timelineEntry struct {
	EntryID string `json:"entryId"`
	Content struct {
		Item struct {
			Content struct {
				Tweet struct {
					ID string `json:"id"`
				} `json:"tweet"`
			} `json:"content"`
		} `json:"item"`
		Operation struct {
			Cursor struct {
				Value      string `json:"value"`
				CursorType string `json:"cursorType"`
			} `json:"cursor"`
		} `json:"operation"`
	} `json:"content"`
}

// flowResponse is one step of the credentialed login flow.
type flowResponse struct {
	FlowToken string `json:"flow_token"`
	Status    string `json:"status"`
	Subtasks  []struct {
		SubtaskID string `json:"subtask_id"`
	} `json:"subtasks"`
	Errors []apiError `json:"errors"`
}

// verifyResponse is the shape of the credential-verification probe.
type verifyResponse struct {
	IDStr      string     `json:"id_str"`
	ScreenName string     `json:"screen_name"`
	Errors     []apiError `json:"errors"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToPost converts a raw wire tweet into the domain model. An unparseable
// created_at leaves Timestamp nil so analytics can exclude the post from the
// time range while still counting it.
func (r *RawTweet) ToPost() *models.Post {
	p := &models.Post{
		ID:           r.IDStr,
		Author:       r.User.ScreenName,
		Text:         r.text(),
		Likes:        r.FavoriteCount,
		RetweetCount: r.RetweetCount,
		Replies:      r.ReplyCount,
		IsRetweet:    r.RetweetedStatus != nil,
		InReplyToID:  r.InReplyToStatusIDStr,
		IsReply:      r.InReplyToStatusIDStr != "",
	}

	if ts, err := time.Parse(createdAtFormat, r.CreatedAt); err == nil {
		p.Timestamp = &ts
	}

	for _, m := range r.Entities.Media {
		switch m.Type {
		case "photo":
			p.Photos = append(p.Photos, m.MediaURL)
		case "video", "animated_gif":
			p.Videos = append(p.Videos, m.MediaURL)
		}
	}
	for _, u := range r.Entities.URLs {
		if u.ExpandedURL != "" {
			p.URLs = append(p.URLs, u.ExpandedURL)
		}
	}

	return p
}

// text prefers the full, non-truncated body.
func (r *RawTweet) text() string {
	if r.FullText != "" {
		return r.FullText
	}
	return r.Text
}
