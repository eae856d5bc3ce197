package catalog

import (
	"context"
	"errors"
	"testing"
	"time"
)

func transientErr() error {
	return &ErrUnavailable{Op: "search-albums", Cause: errors.New("HTTP 503")}
}

func TestRetryingClientRecoversWithinBudget(t *testing.T) {
	inner := &countingClient{
		failuresLeft: 2,
		failWith:     transientErr(),
		albums:       []Album{{ID: "al1", Name: "Sheet Music"}},
	}
	rc := NewRetryingClient(inner, 2, time.Millisecond, testLogger())

	albums, err := rc.SearchAlbums(context.Background(), AlbumQuery{Album: "Sheet Music"})
	if err != nil {
		t.Fatalf("expected recovery within budget, got %v", err)
	}
	if len(albums) != 1 {
		t.Fatalf("expected 1 album, got %d", len(albums))
	}
	if inner.albumCalls != 3 {
		t.Errorf("remote calls = %d, want 3 (initial + 2 retries)", inner.albumCalls)
	}
}

func TestRetryingClientExhaustsBudget(t *testing.T) {
	inner := &countingClient{
		failuresLeft: 3,
		failWith:     transientErr(),
	}
	rc := NewRetryingClient(inner, 2, time.Millisecond, testLogger())

	_, err := rc.SearchAlbums(context.Background(), AlbumQuery{Album: "Sheet Music"})
	if !IsTransient(err) {
		t.Fatalf("expected transient error after exhaustion, got %v", err)
	}
	if inner.albumCalls != 3 {
		t.Errorf("remote calls = %d, want 3 (initial + 2 retries)", inner.albumCalls)
	}
}

func TestRetryingClientDoesNotRetryFatal(t *testing.T) {
	inner := &countingClient{
		failuresLeft: 5,
		failWith:     &ErrAuthRequired{Reason: "client credentials rejected"},
	}
	rc := NewRetryingClient(inner, 2, time.Millisecond, testLogger())

	_, err := rc.SearchArtists(context.Background(), "10cc")
	if !IsFatal(err) {
		t.Fatalf("expected fatal auth error, got %v", err)
	}
	if inner.artistCalls != 1 {
		t.Errorf("remote calls = %d, want 1 (fatal errors are not retried)", inner.artistCalls)
	}
}

func TestErrorClassification(t *testing.T) {
	wrapped := &ErrUnavailable{Op: "x", Cause: errors.New("boom")}
	if !IsTransient(wrapped) {
		t.Error("ErrUnavailable must classify as transient")
	}
	if IsTransient(&ErrNotFound{Op: "x", ID: "y"}) {
		t.Error("ErrNotFound must not classify as transient")
	}
	if !IsFatal(&ErrAuthRequired{Reason: "no key"}) {
		t.Error("ErrAuthRequired must classify as fatal")
	}
	if IsFatal(wrapped) {
		t.Error("ErrUnavailable must not classify as fatal")
	}
}
