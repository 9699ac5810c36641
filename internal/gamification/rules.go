package gamification

import (
	"time"

	"github.com/founder-prep/backend/internal/models"
)

// Review intervals. The schedule is deliberately binary: a correct answer
// pushes the card out a day, a miss brings it back within the hour.
const (
	ReviewIntervalCorrect   = 24 * time.Hour
	ReviewIntervalIncorrect = 1 * time.Hour
)

// MaxMasteryLevel is the mastery ceiling; cards at this level leave the
// review queue.
const MaxMasteryLevel = 4

// dateOf reduces a time to its calendar date components, anchored in one
// zone so a DATE scanned from Postgres and the process clock compare by
// day even when their locations differ. Streaks compare calendar days,
// not elapsed hours: 20h apart across midnight is two days, 20h apart
// within one day is one.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NextStreak computes the streak after activity on today's date.
// Same calendar day is a no-op, the day right after lastActive increments,
// any longer gap (or no prior activity) resets to 1.
func NextStreak(lastActive *time.Time, today time.Time, current int) int {
	if lastActive == nil {
		return 1
	}

	last := dateOf(*lastActive)
	day := dateOf(today)

	switch {
	case last.Equal(day):
		return current
	case last.AddDate(0, 0, 1).Equal(day):
		return current + 1
	default:
		return 1
	}
}

// ApplyReview returns the card's progress after one review event. Mastery
// moves by at most one step and stays in [0, MaxMasteryLevel];
// TimesCorrect can never pass TimesReviewed.
func ApplyReview(fp models.FlashcardProgress, correct bool, now time.Time) models.FlashcardProgress {
	fp.TimesReviewed++

	var next time.Time
	if correct {
		fp.TimesCorrect++
		if fp.MasteryLevel < MaxMasteryLevel {
			fp.MasteryLevel++
		}
		next = now.Add(ReviewIntervalCorrect)
	} else {
		if fp.MasteryLevel > 0 {
			fp.MasteryLevel--
		}
		next = now.Add(ReviewIntervalIncorrect)
	}

	reviewed := now
	fp.LastReviewed = &reviewed
	fp.NextReviewAt = &next
	return fp
}

// IsDue reports whether a card belongs in the review queue: it has been seen
// at least once, is not yet mastered, and its next review time has arrived.
func IsDue(fp models.FlashcardProgress, now time.Time) bool {
	if fp.TimesReviewed == 0 || fp.MasteryLevel >= MaxMasteryLevel {
		return false
	}
	return fp.NextReviewAt != nil && !fp.NextReviewAt.After(now)
}
