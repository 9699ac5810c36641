package gamification

// ProgressStats is the snapshot achievement predicates run against. All
// fields are plain counts so every predicate is a pure comparison.
type ProgressStats struct {
	XP               int64
	Level            int
	CurrentStreak    int
	LongestStreak    int
	TermsLearned     int
	QuizAttempts     int
	QuizzesPassed    int
	PerfectQuizzes   int
	CardsReviewed    int
	CardsMastered    int
	VideosWatched    int
	ModulesCompleted int
	CoursesCompleted int
}

// AchievementDef defines a single achievement. Check must be a pure function
// of the stats snapshot so repeated evaluation can never double-fire.
type AchievementDef struct {
	ID          string
	Name        string
	Description string
	Category    string
	Rarity      string
	XPReward    int
	Check       func(ProgressStats) bool
}

// Achievements lists every definition in evaluation order.
var Achievements = []AchievementDef{
	{"first_term", "Vocabulary Builder", "Learn your first startup term", "glossary", "common", 10,
		func(s ProgressStats) bool { return s.TermsLearned >= 1 }},
	{"terms_25", "Word on the Street", "Learn 25 terms", "glossary", "uncommon", 25,
		func(s ProgressStats) bool { return s.TermsLearned >= 25 }},
	{"terms_100", "Walking Glossary", "Learn 100 terms", "glossary", "rare", 100,
		func(s ProgressStats) bool { return s.TermsLearned >= 100 }},

	{"first_quiz", "Pop Quiz", "Finish your first quiz", "quiz", "common", 10,
		func(s ProgressStats) bool { return s.QuizAttempts >= 1 }},
	{"quizzes_passed_10", "Serial Passer", "Pass 10 quizzes", "quiz", "uncommon", 50,
		func(s ProgressStats) bool { return s.QuizzesPassed >= 10 }},
	{"perfect_quiz", "Flawless Round", "Score 100 on a quiz", "quiz", "uncommon", 25,
		func(s ProgressStats) bool { return s.PerfectQuizzes >= 1 }},
	{"perfect_quiz_5", "Perfectionist", "Score 100 on 5 quizzes", "quiz", "rare", 75,
		func(s ProgressStats) bool { return s.PerfectQuizzes >= 5 }},

	{"first_review", "Card Flipper", "Review your first flashcard", "flashcards", "common", 5,
		func(s ProgressStats) bool { return s.CardsReviewed >= 1 }},
	{"mastered_10", "Deck Veteran", "Master 10 flashcards", "flashcards", "uncommon", 50,
		func(s ProgressStats) bool { return s.CardsMastered >= 10 }},
	{"mastered_50", "Total Recall", "Master 50 flashcards", "flashcards", "epic", 150,
		func(s ProgressStats) bool { return s.CardsMastered >= 50 }},

	{"streak_3", "Warming Up", "3-day streak", "streak", "common", 15,
		func(s ProgressStats) bool { return s.CurrentStreak >= 3 }},
	{"streak_7", "Week One", "7-day streak", "streak", "uncommon", 35,
		func(s ProgressStats) bool { return s.CurrentStreak >= 7 }},
	{"streak_30", "Default Alive", "30-day streak", "streak", "epic", 150,
		func(s ProgressStats) bool { return s.CurrentStreak >= 30 }},

	{"xp_500", "Ramen Profitable", "Earn 500 XP", "xp", "common", 25,
		func(s ProgressStats) bool { return s.XP >= 500 }},
	{"xp_2500", "Series A", "Earn 2,500 XP", "xp", "rare", 75,
		func(s ProgressStats) bool { return s.XP >= 2500 }},
	{"xp_7500", "Unicorn", "Earn 7,500 XP", "xp", "legendary", 250,
		func(s ProgressStats) bool { return s.XP >= 7500 }},

	{"first_module", "Onboarded", "Complete your first module", "course", "common", 20,
		func(s ProgressStats) bool { return s.ModulesCompleted >= 1 }},
	{"first_course", "Graduate", "Complete your first course", "course", "rare", 100,
		func(s ProgressStats) bool { return s.CoursesCompleted >= 1 }},
	{"all_videos_10", "Binge Learner", "Watch 10 lesson videos", "course", "uncommon", 30,
		func(s ProgressStats) bool { return s.VideosWatched >= 10 }},
}

// achievementIndex maps ids to definitions for O(1) lookup.
var achievementIndex = buildAchievementIndex()

func buildAchievementIndex() map[string]AchievementDef {
	idx := make(map[string]AchievementDef, len(Achievements))
	for _, def := range Achievements {
		idx[def.ID] = def
	}
	return idx
}

// LookupAchievement returns the definition for an id.
func LookupAchievement(id string) (AchievementDef, bool) {
	def, ok := achievementIndex[id]
	return def, ok
}

// QualifiedAchievements returns the ids of every achievement whose predicate
// holds for the snapshot. The caller diffs against what the user has already
// unlocked and awards only the new ones.
func QualifiedAchievements(stats ProgressStats) []string {
	var earned []string
	for _, def := range Achievements {
		if def.Check(stats) {
			earned = append(earned, def.ID)
		}
	}
	return earned
}
