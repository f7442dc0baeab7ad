// Package twitter implements the HTTP client for the X web API: the
// credentialed login flow, cookie import/export for session reuse, profile
// and single-tweet lookups, and the paginated search cursor the collector
// drains.
package twitter
