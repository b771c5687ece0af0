// Package srs schedules flashcard reviews with the FSRS algorithm.
package srs

import (
	"time"

	fsrs "github.com/open-spaced-repetition/go-fsrs"
	"github.com/yigit/acetrack/internal/app/models"
)

// Scheduler computes the next memory state of a card after a review.
type Scheduler struct {
	params fsrs.Parameters
}

// NewScheduler returns a scheduler with the default FSRS weights.
func NewScheduler() *Scheduler {
	return &Scheduler{params: fsrs.DefaultParam()}
}

// NewMemory is the state of a card that has never been reviewed, due at now.
func NewMemory(now time.Time) models.FlashcardMemory {
	card := fsrs.NewCard()
	card.Due = now
	return fromCard(card)
}

// Review applies a pass/fail review at now. A correct answer is graded Good
// and a wrong one Again.
func (s *Scheduler) Review(mem models.FlashcardMemory, correct bool, now time.Time) models.FlashcardMemory {
	rating := fsrs.Again
	if correct {
		rating = fsrs.Good
	}

	p := s.params
	next := p.Repeat(toCard(mem), now)[rating].Card
	return fromCard(next)
}

// NextReviewDate is the calendar day a card becomes due.
func NextReviewDate(mem models.FlashcardMemory) models.Date {
	return models.NewDate(mem.Due)
}

func toCard(m models.FlashcardMemory) fsrs.Card {
	card := fsrs.Card{
		Due:           m.Due,
		Stability:     m.Stability,
		Difficulty:    m.Difficulty,
		ElapsedDays:   m.ElapsedDays,
		ScheduledDays: m.ScheduledDays,
		Reps:          m.Reps,
		Lapses:        m.Lapses,
		State:         fsrs.State(max(m.State, 0)),
	}
	if m.LastReview != nil {
		card.LastReview = *m.LastReview
	}
	return card
}

func fromCard(c fsrs.Card) models.FlashcardMemory {
	m := models.FlashcardMemory{
		Due:           c.Due,
		Stability:     c.Stability,
		Difficulty:    c.Difficulty,
		ElapsedDays:   c.ElapsedDays,
		ScheduledDays: c.ScheduledDays,
		Reps:          c.Reps,
		Lapses:        c.Lapses,
		State:         int8(c.State),
	}
	if !c.LastReview.IsZero() {
		last := c.LastReview
		m.LastReview = &last
	}
	return m
}
