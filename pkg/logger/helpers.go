package logger

import (
	"github.com/rs/zerolog"
)

// LogLoginAttempt logs one credentialed login attempt.
func LogLoginAttempt(username string, attempt, maxAttempts int, err error) {
	fields := map[string]interface{}{
		"username":     username,
		"attempt":      attempt,
		"max_attempts": maxAttempts,
	}
	l := GetLogger().WithFields(fields)
	if err != nil {
		l.WithError(err).Warn("Login attempt failed")
	} else {
		l.Info("Login succeeded")
	}
}

// LogCollectionProgress logs paginated collection progress.
func LogCollectionProgress(handle string, collected, target int) {
	GetLogger().InfoWithFields("Collection progress", map[string]interface{}{
		"handle":    handle,
		"collected": collected,
		"target":    target,
	})
}

// LogParentFetch logs the outcome of a reply's parent-post lookup.
func LogParentFetch(tweetID, parentID string, err error) {
	fields := map[string]interface{}{
		"tweet_id":  tweetID,
		"parent_id": parentID,
	}
	l := GetLogger().WithFields(fields)
	if err != nil {
		l.WithError(err).Warn("Parent tweet fetch failed, attaching empty text")
		return
	}
	l.Debug("Parent tweet resolved")
}

// LogRequest logs HTTP request information
func LogRequest(method, url string, statusCode int, durationMs float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": durationMs,
	}
	switch {
	case statusCode >= 500:
		GetLogger().ErrorWithFields("HTTP request server error", fields)
	case statusCode >= 400:
		GetLogger().WarnWithFields("HTTP request client error", fields)
	default:
		GetLogger().DebugWithFields("HTTP request completed", fields)
	}
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

// nopLogger is a logger that does nothing
type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }
