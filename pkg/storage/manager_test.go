package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"xscraper/pkg/logger"
	"xscraper/pkg/models"
)

func TestSaveTweetsWritesCorpusAndReport(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir, true, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	posts := []*models.Post{
		{ID: "1", Author: "jack", Text: "hello", Likes: 4},
		{ID: "2", Author: "jack", Text: "world", Likes: 9},
	}

	report, err := mgr.SaveTweets("jack", posts)
	if err != nil {
		t.Fatalf("SaveTweets failed: %v", err)
	}

	if report.TotalTweets != 2 {
		t.Errorf("report.TotalTweets = %d, want 2", report.TotalTweets)
	}
	if report.TopTweets[0].Likes != 9 {
		t.Errorf("top tweet likes = %d, want 9", report.TopTweets[0].Likes)
	}

	data, err := os.ReadFile(filepath.Join(dir, "jack", "tweets.json"))
	if err != nil {
		t.Fatalf("tweets.json not written: %v", err)
	}
	var back []*models.Post
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("tweets.json is not valid JSON: %v", err)
	}
	if len(back) != 2 || back[0].ID != "1" {
		t.Errorf("tweets.json content mismatch: %+v", back)
	}

	if _, err := os.Stat(filepath.Join(dir, "jack", "report.json")); err != nil {
		t.Errorf("report.json not written: %v", err)
	}
}

func TestSaveTweetsFlatLayout(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir, false, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	if _, err := mgr.SaveTweets("jack", nil); err != nil {
		t.Fatalf("SaveTweets failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "tweets.json")); err != nil {
		t.Errorf("expected tweets.json directly under base dir: %v", err)
	}
}

func TestCheckpointRoundTrip(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir, true, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	token, err := mgr.GetLastCheckpoint("jack")
	if err != nil {
		t.Fatalf("GetLastCheckpoint on fresh dir errored: %v", err)
	}
	if token != "" {
		t.Errorf("expected empty token on fresh dir, got %q", token)
	}

	if err := mgr.SaveCheckpoint("jack", "cursor-123", 42); err != nil {
		t.Fatalf("SaveCheckpoint failed: %v", err)
	}

	token, err = mgr.GetLastCheckpoint("jack")
	if err != nil {
		t.Fatalf("GetLastCheckpoint failed: %v", err)
	}
	if token != "cursor-123" {
		t.Errorf("token = %q, want cursor-123", token)
	}
}

func TestSessionPathIsPerUsername(t *testing.T) {
	dir := t.TempDir()
	mgr, err := NewManager(dir, true, logger.NewNopLogger())
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	a := mgr.SessionPath("alice")
	b := mgr.SessionPath("bob")
	if a == b {
		t.Error("session paths must differ per username")
	}
	if filepath.Ext(a) != ".json" {
		t.Errorf("session file should be JSON, got %s", a)
	}
}
