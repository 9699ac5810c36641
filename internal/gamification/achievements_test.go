package gamification

import "testing"

func TestQualifiedAchievements(t *testing.T) {
	// Fresh account qualifies for nothing.
	if got := QualifiedAchievements(ProgressStats{}); len(got) != 0 {
		t.Errorf("fresh account qualified for %v, want none", got)
	}

	// One term learned fires exactly first_term.
	got := QualifiedAchievements(ProgressStats{TermsLearned: 1})
	if len(got) != 1 || got[0] != "first_term" {
		t.Errorf("one term qualified for %v, want [first_term]", got)
	}

	// Thresholds are >= comparisons: 25 terms fires both tiers.
	got = QualifiedAchievements(ProgressStats{TermsLearned: 25})
	if !contains(got, "first_term") || !contains(got, "terms_25") {
		t.Errorf("25 terms qualified for %v, want first_term and terms_25", got)
	}
	if contains(got, "terms_100") {
		t.Errorf("25 terms should not unlock terms_100")
	}

	// Streak achievements read CurrentStreak, not LongestStreak.
	got = QualifiedAchievements(ProgressStats{CurrentStreak: 7, LongestStreak: 40})
	if !contains(got, "streak_3") || !contains(got, "streak_7") {
		t.Errorf("7-day streak qualified for %v, want streak_3 and streak_7", got)
	}
	if contains(got, "streak_30") {
		t.Errorf("7-day streak should not unlock streak_30")
	}
}

func TestQualifiedAchievementsStable(t *testing.T) {
	// Same snapshot, same result. Award dedup relies on re-evaluation
	// being harmless.
	stats := ProgressStats{XP: 600, TermsLearned: 30, QuizAttempts: 3, CurrentStreak: 3}
	first := QualifiedAchievements(stats)
	second := QualifiedAchievements(stats)
	if len(first) != len(second) {
		t.Fatalf("re-evaluation changed results: %v vs %v", first, second)
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("re-evaluation changed order: %v vs %v", first, second)
		}
	}
}

func TestLookupAchievement(t *testing.T) {
	def, ok := LookupAchievement("xp_500")
	if !ok || def.Name != "Ramen Profitable" {
		t.Errorf("LookupAchievement(xp_500) = %+v, %v", def, ok)
	}
	if _, ok := LookupAchievement("no_such_badge"); ok {
		t.Error("unknown id should not resolve")
	}
}

func TestAchievementDefsWellFormed(t *testing.T) {
	seen := map[string]bool{}
	for _, def := range Achievements {
		if def.ID == "" || def.Name == "" || def.Check == nil {
			t.Errorf("achievement %q is missing required fields", def.ID)
		}
		if seen[def.ID] {
			t.Errorf("duplicate achievement id %q", def.ID)
		}
		seen[def.ID] = true
		if def.XPReward < 0 {
			t.Errorf("achievement %q has negative xp reward", def.ID)
		}
	}
}

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
