package twitter

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// BaseURL is the base URL for the X web API.
	BaseURL = "https://api.x.com"

	// SearchEndpoint serves paginated adaptive search pages.
	SearchEndpoint = "/2/search/adaptive.json"

	// FlowEndpoint drives the credentialed login task flow.
	FlowEndpoint = "/1.1/onboarding/task.json"

	// VerifyEndpoint reports whether the session is authenticated.
	VerifyEndpoint = "/1.1/account/verify_credentials.json"

	// UserShowEndpoint returns profile metadata for one handle.
	UserShowEndpoint = "/1.1/users/show.json"

	// StatusShowEndpoint returns a single tweet by identifier.
	StatusShowEndpoint = "/1.1/statuses/show.json"

	// LogoutEndpoint invalidates the current session.
	LogoutEndpoint = "/1.1/account/logout.json"

	// SearchPageSize is how many tweets one search page requests.
	SearchPageSize = 20
)

// SearchURL builds the paginated search request for a handle's posts.
// cursor is empty for the first page.
func SearchURL(handle string, cursor string) string {
	params := url.Values{}
	params.Set("q", fmt.Sprintf("from:%s", SanitizeHandle(handle)))
	params.Set("count", fmt.Sprintf("%d", SearchPageSize))
	params.Set("tweet_mode", "extended")
	params.Set("tweet_search_mode", "live")
	if cursor != "" {
		params.Set("cursor", cursor)
	}
	return fmt.Sprintf("%s%s?%s", BaseURL, SearchEndpoint, params.Encode())
}

// UserShowURL builds the profile lookup for a handle.
func UserShowURL(handle string) string {
	params := url.Values{}
	params.Set("screen_name", SanitizeHandle(handle))
	return fmt.Sprintf("%s%s?%s", BaseURL, UserShowEndpoint, params.Encode())
}

// StatusShowURL builds the single-tweet lookup.
func StatusShowURL(id string) string {
	params := url.Values{}
	params.Set("id", id)
	params.Set("tweet_mode", "extended")
	return fmt.Sprintf("%s%s?%s", BaseURL, StatusShowEndpoint, params.Encode())
}

// FlowURL builds the login flow request. name is empty for continuation
// posts and "login" to start the flow.
func FlowURL(name string) string {
	if name == "" {
		return BaseURL + FlowEndpoint
	}
	params := url.Values{}
	params.Set("flow_name", name)
	return fmt.Sprintf("%s%s?%s", BaseURL, FlowEndpoint, params.Encode())
}

// SanitizeHandle strips a leading @ and surrounding whitespace.
func SanitizeHandle(handle string) string {
	handle = strings.TrimSpace(handle)
	return strings.TrimPrefix(handle, "@")
}

// IsValidHandle checks a handle against the service's character rules.
func IsValidHandle(handle string) bool {
	handle = SanitizeHandle(handle)
	if handle == "" || len(handle) > 15 {
		return false
	}
	for _, char := range handle {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '_') {
			return false
		}
	}
	return true
}
