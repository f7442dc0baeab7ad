package enrich

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"xscraper/pkg/logger"
	"xscraper/pkg/models"
)

type fakeFetcher struct {
	parents map[string]*models.Post
	errs    map[string]error
	calls   []string
}

func (f *fakeFetcher) GetTweet(ctx context.Context, id string) (*models.Post, error) {
	f.calls = append(f.calls, id)
	if err, ok := f.errs[id]; ok {
		return nil, err
	}
	if parent, ok := f.parents[id]; ok {
		return parent, nil
	}
	return nil, errors.New("not found")
}

type countingPacer struct {
	ticks int
}

func (p *countingPacer) Tick()  { p.ticks++ }
func (p *countingPacer) Reset() {}

func setOf(t *testing.T, posts ...*models.Post) *models.CollectedSet {
	t.Helper()
	set := models.NewCollectedSet()
	for _, p := range posts {
		if !set.Add(p) {
			t.Fatalf("duplicate post in fixture: %s", p.ID)
		}
	}
	return set
}

func TestResolveParentsAttachesText(t *testing.T) {
	set := setOf(t,
		&models.Post{ID: "1", IsReply: true, InReplyToID: "p1"},
		&models.Post{ID: "2"},
		&models.Post{ID: "3", IsReply: true, InReplyToID: "p3"},
	)
	fetcher := &fakeFetcher{parents: map[string]*models.Post{
		"p1": {ID: "p1", Text: "first parent"},
		"p3": {ID: "p3", Text: "third parent"},
	}}
	pacer := &countingPacer{}
	resolver := New(fetcher, pacer, logger.NewNopLogger())

	if err := resolver.ResolveParents(context.Background(), set); err != nil {
		t.Fatalf("ResolveParents() error = %v", err)
	}

	if got := set.Get("1").InReplyToText; got != "first parent" {
		t.Errorf("post 1 parent text = %q, want %q", got, "first parent")
	}
	if got := set.Get("3").InReplyToText; got != "third parent" {
		t.Errorf("post 3 parent text = %q, want %q", got, "third parent")
	}
	if got := set.Get("2").InReplyToText; got != "" {
		t.Errorf("non-reply post has parent text %q", got)
	}

	// Only replies hit the fetcher, and each one ticks the pacer.
	if len(fetcher.calls) != 2 {
		t.Errorf("fetcher called %d times, want 2", len(fetcher.calls))
	}
	if pacer.ticks != 2 {
		t.Errorf("pacer ticked %d times, want 2", pacer.ticks)
	}
}

func TestResolveParentsFailureAttachesEmptyText(t *testing.T) {
	set := setOf(t,
		&models.Post{ID: "1", IsReply: true, InReplyToID: "gone", InReplyToText: "stale"},
		&models.Post{ID: "2", IsReply: true, InReplyToID: "p2"},
	)
	fetcher := &fakeFetcher{
		parents: map[string]*models.Post{"p2": {ID: "p2", Text: "alive"}},
		errs:    map[string]error{"gone": errors.New("deleted")},
	}
	resolver := New(fetcher, &countingPacer{}, logger.NewNopLogger())

	if err := resolver.ResolveParents(context.Background(), set); err != nil {
		t.Fatalf("ResolveParents() error = %v", err)
	}

	// One failure never aborts the batch, and clears any stale text.
	if got := set.Get("1").InReplyToText; got != "" {
		t.Errorf("failed parent text = %q, want empty", got)
	}
	if got := set.Get("2").InReplyToText; got != "alive" {
		t.Errorf("post 2 parent text = %q, want %q", got, "alive")
	}
}

func TestResolveParentsNilParentWarns(t *testing.T) {
	capture := logger.NewTestLogger()
	previous := logger.GetLogger()
	logger.SetLogger(capture)
	defer logger.SetLogger(previous)

	set := setOf(t,
		&models.Post{ID: "1", IsReply: true, InReplyToID: "missing", InReplyToText: "stale"},
		&models.Post{ID: "2", IsReply: true, InReplyToID: "p2"},
	)
	fetcher := &fakeFetcher{parents: map[string]*models.Post{
		"missing": nil, // fetch reports success but yields no parent
		"p2":      {ID: "p2", Text: "alive"},
	}}
	resolver := New(fetcher, &countingPacer{}, logger.NewNopLogger())

	if err := resolver.ResolveParents(context.Background(), set); err != nil {
		t.Fatalf("ResolveParents() error = %v", err)
	}

	if got := set.Get("1").InReplyToText; got != "" {
		t.Errorf("nil parent text = %q, want empty", got)
	}
	if got := set.Get("2").InReplyToText; got != "alive" {
		t.Errorf("post 2 parent text = %q, want %q", got, "alive")
	}

	warned := false
	for _, m := range capture.MessagesByLevel("WARN") {
		if m.Fields["parent_id"] == "missing" {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a warning for the missing parent, captured:\n%s", capture.String())
	}
}

func TestResolveParentsEmptySet(t *testing.T) {
	fetcher := &fakeFetcher{}
	resolver := New(fetcher, &countingPacer{}, logger.NewNopLogger())

	if err := resolver.ResolveParents(context.Background(), models.NewCollectedSet()); err != nil {
		t.Fatalf("ResolveParents() error = %v", err)
	}
	if len(fetcher.calls) != 0 {
		t.Errorf("fetcher called %d times for empty set", len(fetcher.calls))
	}
}

func TestResolveParentsContextCancellation(t *testing.T) {
	var posts []*models.Post
	for i := 0; i < 5; i++ {
		posts = append(posts, &models.Post{
			ID: fmt.Sprintf("%d", i), IsReply: true, InReplyToID: fmt.Sprintf("p%d", i),
		})
	}
	set := setOf(t, posts...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resolver := New(&fakeFetcher{}, &countingPacer{}, logger.NewNopLogger())
	if err := resolver.ResolveParents(ctx, set); !errors.Is(err, context.Canceled) {
		t.Errorf("ResolveParents() error = %v, want context.Canceled", err)
	}
}
