package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"xscraper/pkg/cookies"
	errs "xscraper/pkg/errors"
	"xscraper/pkg/logger"
	"xscraper/pkg/models"
)

const (
	userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// bearerToken is the public web-app token every browser session sends.
	bearerToken = "AAAAAAAAAAAAAAAAAAAAANRILgAAAAAAnNwIzUejRCOuH5E6I8xnZz4puTs%3D1Zv7ttfk8LF81IUq16cHjhLTvJu4FA33AGWWjCpTnA"

	csrfCookieName = "ct0"
	authCookieName = "auth_token"
)

// Client talks to the X web API using a cookie-backed session.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Logger
	guestToken string
}

// NewClient creates a client with a fresh cookie jar.
func NewClient(timeout time.Duration, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}
	jar, _ := cookiejar.New(nil)
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		baseURL: BaseURL,
		logger:  log,
	}
}

// SetBaseURL overrides the API origin. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = strings.TrimSuffix(base, "/")
}

// rebase swaps the production origin for the configured one.
func (c *Client) rebase(fullURL string) string {
	return strings.Replace(fullURL, BaseURL, c.baseURL, 1)
}

func (c *Client) newRequest(ctx context.Context, method, fullURL string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.rebase(fullURL), body)
	if err != nil {
		return nil, errs.New(errs.ErrorTypeNetwork, 0, fmt.Sprintf("failed to create request: %v", err))
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", "Bearer "+bearerToken)
	req.Header.Set("Accept", "application/json")
	if c.guestToken != "" {
		req.Header.Set("X-Guest-Token", c.guestToken)
	}
	if csrf := c.cookieValue(csrfCookieName); csrf != "" {
		req.Header.Set("X-CSRF-Token", csrf)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if req.Context().Err() != nil {
			return nil, req.Context().Err()
		}
		return nil, errs.New(errs.ErrorTypeNetwork, 0, fmt.Sprintf("request failed: %v", err))
	}
	if err := c.checkResponseStatus(resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}

// GetJSON fetches fullURL and decodes the response body into result.
func (c *Client) GetJSON(ctx context.Context, fullURL string, result interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.do(req)
	logger.LogRequest(http.MethodGet, fullURL, statusOf(resp), float64(time.Since(start).Milliseconds()))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return c.decodeBody(resp.Body, result)
}

// PostJSON posts payload as JSON to fullURL and decodes the response into result.
func (c *Client) PostJSON(ctx context.Context, fullURL string, payload, result interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return errs.New(errs.ErrorTypeParsing, 0, fmt.Sprintf("failed to encode request body: %v", err))
		}
		body = bytes.NewReader(data)
	}

	req, err := c.newRequest(ctx, http.MethodPost, fullURL, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.do(req)
	logger.LogRequest(http.MethodPost, fullURL, statusOf(resp), float64(time.Since(start).Milliseconds()))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return c.decodeBody(resp.Body, result)
}

func (c *Client) decodeBody(body io.Reader, result interface{}) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return errs.New(errs.ErrorTypeNetwork, 0, fmt.Sprintf("failed to read response body: %v", err))
	}
	if err := json.Unmarshal(data, result); err != nil {
		preview := string(data)
		if len(preview) > 200 {
			preview = preview[:200]
		}
		c.logger.ErrorWithFields("Failed to parse JSON response", map[string]interface{}{
			"error":        err.Error(),
			"body_preview": preview,
		})
		return errs.New(errs.ErrorTypeParsing, 0, fmt.Sprintf("failed to parse response: %v", err))
	}
	return nil
}

// checkResponseStatus maps HTTP status codes onto the error taxonomy.
func (c *Client) checkResponseStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var payload struct {
		Errors []apiError `json:"errors"`
	}
	if data, err := io.ReadAll(io.LimitReader(resp.Body, 4096)); err == nil {
		json.Unmarshal(data, &payload)
	}
	message := fmt.Sprintf("unexpected status %d", resp.StatusCode)
	if len(payload.Errors) > 0 && payload.Errors[0].Message != "" {
		message = payload.Errors[0].Message
	}

	return errs.New(errs.TypeForStatusCode(resp.StatusCode), resp.StatusCode, message)
}

func statusOf(resp *http.Response) int {
	if resp == nil {
		return 0
	}
	return resp.StatusCode
}

func (c *Client) cookieValue(name string) string {
	u, _ := url.Parse(c.baseURL)
	if u == nil {
		return ""
	}
	for _, ck := range c.httpClient.Jar.Cookies(u) {
		if ck.Name == name {
			return ck.Value
		}
	}
	return ""
}

// GetCookies exports the session cookies for persistence.
func (c *Client) GetCookies() []cookies.Entry {
	u, _ := url.Parse(c.baseURL)
	if u == nil {
		return nil
	}
	host := u.Hostname()

	// The jar strips cookie attributes on read, so they are restored here
	// before the codec applies its unquoting and filtering rules.
	jarCookies := c.httpClient.Jar.Cookies(u)
	wire := make([]*http.Cookie, 0, len(jarCookies))
	for _, ck := range jarCookies {
		wire = append(wire, &http.Cookie{
			Name:     ck.Name,
			Value:    ck.Value,
			Domain:   host,
			Path:     "/",
			Secure:   true,
			HttpOnly: ck.Name == authCookieName,
		})
	}
	return cookies.Decode(wire)
}

// SetCookies installs previously persisted cookies into the jar.
func (c *Client) SetCookies(entries []cookies.Entry) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return errs.New(errs.ErrorTypeUnknown, 0, fmt.Sprintf("invalid base URL: %v", err))
	}

	jarCookies := cookies.Encode(entries)
	for _, ck := range jarCookies {
		// Scope to the configured origin: persisted domains may not match it
		// when the base URL has been overridden.
		ck.Domain = ""
		ck.Path = "/"
	}
	c.httpClient.Jar.SetCookies(u, jarCookies)
	return nil
}

// IsLoggedIn probes the session by verifying credentials against the API.
func (c *Client) IsLoggedIn(ctx context.Context) bool {
	var verify verifyResponse
	if err := c.GetJSON(ctx, BaseURL+VerifyEndpoint, &verify); err != nil {
		c.logger.WithError(err).Debug("Session verification failed")
		return false
	}
	return verify.ScreenName != ""
}

// GetProfile fetches profile metadata for a handle.
func (c *Client) GetProfile(ctx context.Context, handle string) (*models.Profile, error) {
	if !IsValidHandle(handle) {
		return nil, errs.New(errs.ErrorTypeParsing, 0, fmt.Sprintf("invalid handle: %s", handle))
	}

	var user RawUser
	if err := c.GetJSON(ctx, UserShowURL(handle), &user); err != nil {
		return nil, err
	}

	return &models.Profile{
		Handle:    SanitizeHandle(handle),
		UserID:    user.IDStr,
		PostCount: user.StatusesCount,
	}, nil
}

// GetTweet fetches a single tweet by ID.
func (c *Client) GetTweet(ctx context.Context, id string) (*models.Post, error) {
	if id == "" {
		return nil, errs.New(errs.ErrorTypeNotFound, 0, "empty tweet id")
	}

	var raw RawTweet
	if err := c.GetJSON(ctx, StatusShowURL(id), &raw); err != nil {
		return nil, err
	}
	return raw.ToPost(), nil
}

// Logout invalidates the current session server-side and clears the jar.
func (c *Client) Logout(ctx context.Context) error {
	err := c.PostJSON(ctx, BaseURL+LogoutEndpoint, nil, nil)
	jar, _ := cookiejar.New(nil)
	c.httpClient.Jar = jar
	return err
}
