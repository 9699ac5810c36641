package gamification

import (
	"testing"
	"time"

	"github.com/founder-prep/backend/internal/models"
)

func TestNextStreak(t *testing.T) {
	day := func(d int, hour int) time.Time {
		return time.Date(2026, time.March, d, hour, 0, 0, 0, time.UTC)
	}

	tests := []struct {
		name       string
		lastActive *time.Time
		today      time.Time
		current    int
		want       int
	}{
		{"no prior activity", nil, day(10, 12), 0, 1},
		{"same day is a no-op", ptr(day(10, 9)), day(10, 22), 4, 4},
		{"next day increments", ptr(day(10, 22)), day(11, 7), 4, 5},
		{"two-day gap resets", ptr(day(10, 12)), day(12, 12), 9, 1},
		{"long gap resets", ptr(day(1, 12)), day(25, 12), 30, 1},
		// Calendar days, not elapsed hours: 4h apart across midnight is
		// still the next day, 20h apart within one day is still the same.
		{"short hop across midnight increments", ptr(day(10, 23)), day(11, 3), 2, 3},
		{"long same-day session holds", ptr(day(10, 1)), day(10, 21), 2, 2},
	}

	for _, tt := range tests {
		got := NextStreak(tt.lastActive, tt.today, tt.current)
		if got != tt.want {
			t.Errorf("%s: NextStreak = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestNextStreakMixedLocations(t *testing.T) {
	// last_active_date comes back from Postgres as midnight UTC while the
	// activity clock runs in the server's local zone. Day comparison must
	// go by date components, not instants.
	cet := time.FixedZone("CET", 3600)
	last := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	if got := NextStreak(&last, time.Date(2026, time.March, 10, 15, 0, 0, 0, cet), 4); got != 4 {
		t.Errorf("same day across zones: NextStreak = %d, want 4", got)
	}
	if got := NextStreak(&last, time.Date(2026, time.March, 11, 9, 0, 0, 0, cet), 4); got != 5 {
		t.Errorf("next day across zones: NextStreak = %d, want 5", got)
	}
	if got := NextStreak(&last, time.Date(2026, time.March, 13, 9, 0, 0, 0, cet), 4); got != 1 {
		t.Errorf("gap across zones: NextStreak = %d, want 1", got)
	}
}

func TestApplyReviewMasteryClamp(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	fp := models.FlashcardProgress{CardID: "fb-runway"}

	// Mastery never drops below 0 no matter how many misses.
	for i := 0; i < 10; i++ {
		fp = ApplyReview(fp, false, now)
	}
	if fp.MasteryLevel != 0 {
		t.Errorf("mastery after 10 misses = %d, want 0", fp.MasteryLevel)
	}
	if fp.TimesReviewed != 10 || fp.TimesCorrect != 0 {
		t.Errorf("counters = %d reviewed / %d correct, want 10/0", fp.TimesReviewed, fp.TimesCorrect)
	}

	// Mastery caps at MaxMasteryLevel.
	for i := 0; i < 10; i++ {
		fp = ApplyReview(fp, true, now)
	}
	if fp.MasteryLevel != MaxMasteryLevel {
		t.Errorf("mastery after 10 hits = %d, want %d", fp.MasteryLevel, MaxMasteryLevel)
	}
	if fp.TimesCorrect > fp.TimesReviewed {
		t.Errorf("times_correct %d exceeds times_reviewed %d", fp.TimesCorrect, fp.TimesReviewed)
	}
}

func TestApplyReviewScheduling(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

	fp := ApplyReview(models.FlashcardProgress{CardID: "c"}, true, now)
	if got := *fp.NextReviewAt; !got.Equal(now.Add(24 * time.Hour)) {
		t.Errorf("next review after correct = %v, want +24h", got)
	}
	if !fp.LastReviewed.Equal(now) {
		t.Errorf("last reviewed = %v, want %v", fp.LastReviewed, now)
	}

	fp = ApplyReview(models.FlashcardProgress{CardID: "c"}, false, now)
	if got := *fp.NextReviewAt; !got.Equal(now.Add(time.Hour)) {
		t.Errorf("next review after miss = %v, want +1h", got)
	}
}

func TestIsDue(t *testing.T) {
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Minute)

	tests := []struct {
		name string
		fp   models.FlashcardProgress
		want bool
	}{
		{"never reviewed", models.FlashcardProgress{}, false},
		{"mastered card leaves the queue", models.FlashcardProgress{TimesReviewed: 8, MasteryLevel: MaxMasteryLevel, NextReviewAt: &past}, false},
		{"due", models.FlashcardProgress{TimesReviewed: 2, MasteryLevel: 1, NextReviewAt: &past}, true},
		{"due exactly now", models.FlashcardProgress{TimesReviewed: 2, MasteryLevel: 1, NextReviewAt: &now}, true},
		{"not yet due", models.FlashcardProgress{TimesReviewed: 2, MasteryLevel: 1, NextReviewAt: &future}, false},
		{"no schedule", models.FlashcardProgress{TimesReviewed: 2, MasteryLevel: 1}, false},
	}

	for _, tt := range tests {
		if got := IsDue(tt.fp, now); got != tt.want {
			t.Errorf("%s: IsDue = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func ptr(t time.Time) *time.Time { return &t }
