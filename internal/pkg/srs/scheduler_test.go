package srs

import (
	"testing"
	"time"
)

func TestNewMemoryIsDueNow(t *testing.T) {
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	mem := NewMemory(now)

	if !mem.Due.Equal(now) {
		t.Fatalf("due = %s, want %s", mem.Due, now)
	}
	if mem.Reps != 0 || mem.LastReview != nil {
		t.Fatalf("new card has review history: %+v", mem)
	}
	if NextReviewDate(mem).String() != "2025-01-10" {
		t.Fatalf("next review date = %s", NextReviewDate(mem))
	}
}

func TestCorrectReviewPushesDueForward(t *testing.T) {
	s := NewScheduler()
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	mem := s.Review(NewMemory(now), true, now)
	if mem.Reps != 1 {
		t.Fatalf("reps = %d, want 1", mem.Reps)
	}
	if mem.LastReview == nil || !mem.LastReview.Equal(now) {
		t.Fatalf("last review not recorded: %+v", mem.LastReview)
	}
	if mem.Due.Before(now) {
		t.Fatalf("due %s is before review time", mem.Due)
	}

	// After a second good review in the Review state the interval grows.
	later := mem.Due
	mem2 := s.Review(mem, true, later)
	if !mem2.Due.After(later) {
		t.Fatalf("second review did not schedule into the future: %s", mem2.Due)
	}
}

func TestWrongAnswerIsSoonerThanCorrect(t *testing.T) {
	s := NewScheduler()
	now := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)

	start := s.Review(NewMemory(now), true, now)
	reviewAt := start.Due.Add(24 * time.Hour)

	good := s.Review(start, true, reviewAt)
	again := s.Review(start, false, reviewAt)

	if !again.Due.Before(good.Due) {
		t.Fatalf("again due %s should be before good due %s", again.Due, good.Due)
	}
}
