package models

import "time"

// ── Core Progress Structs ─────────────────────────────────

// UserProgress is the root progress row for one user. XP only ever goes up;
// streak fields follow calendar days, not elapsed hours.
type UserProgress struct {
	UserID         int64      `json:"user_id"`
	XP             int64      `json:"xp"`
	CurrentStreak  int        `json:"current_streak"`
	LongestStreak  int        `json:"longest_streak"`
	LastActiveDate *time.Time `json:"last_active_date"`
	PendingLevelUp *int       `json:"pending_level_up,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// FlashcardProgress tracks one card's review history for a user.
// MasteryLevel stays inside [0,4]; TimesCorrect never exceeds TimesReviewed.
type FlashcardProgress struct {
	CardID        string     `json:"card_id"`
	TimesReviewed int        `json:"times_reviewed"`
	TimesCorrect  int        `json:"times_correct"`
	MasteryLevel  int        `json:"mastery_level"`
	LastReviewed  *time.Time `json:"last_reviewed,omitempty"`
	NextReviewAt  *time.Time `json:"next_review_at,omitempty"`
}

// QuizAttempt is an append-only record; repeated attempts at the same quiz
// are all kept.
type QuizAttempt struct {
	ID               int64             `json:"id"`
	QuizID           string            `json:"quiz_id"`
	ModuleID         string            `json:"module_id"`
	Score            int               `json:"score"`
	Passed           bool              `json:"passed"`
	Answers          map[string]string `json:"answers,omitempty"`
	TimeSpentSeconds int               `json:"time_spent_seconds"`
	XPEarned         int               `json:"xp_earned"`
	AttemptedAt      time.Time         `json:"attempted_at"`
}

type ModuleProgress struct {
	ModuleID           string     `json:"module_id"`
	VideosWatched      []string   `json:"videos_watched"`
	QuizzesPassed      []string   `json:"quizzes_passed"`
	FlashcardsReviewed bool       `json:"flashcards_reviewed"`
	Completed          bool       `json:"completed"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

type Certificate struct {
	ID           int64     `json:"id"`
	CourseID     string    `json:"course_id"`
	CourseName   string    `json:"course_name"`
	ModulesCount int       `json:"modules_count"`
	QuizzesCount int       `json:"quizzes_count"`
	XPEarned     int64     `json:"xp_earned"`
	IssuedAt     time.Time `json:"issued_at"`
}

type UnlockedAchievement struct {
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
	Acknowledged  bool      `json:"acknowledged"`
}

type VideoProgress struct {
	VideoID             string `json:"video_id"`
	ModuleID            string `json:"module_id"`
	Watched             bool   `json:"watched"`
	LastPositionSeconds int    `json:"last_position_seconds"`
}

// ── Request Types ─────────────────────────────────────────

type EarnXPRequest struct {
	Amount int    `json:"amount"`
	Source string `json:"source"`
}

type RecordQuizAttemptRequest struct {
	QuizID           string            `json:"quiz_id"`
	ModuleID         string            `json:"module_id"`
	Score            int               `json:"score"`
	Passed           bool              `json:"passed"`
	Answers          map[string]string `json:"answers,omitempty"`
	TimeSpentSeconds int               `json:"time_spent_seconds"`
	XPEarned         int               `json:"xp_earned"`
}

type FlashcardReviewRequest struct {
	ModuleID string `json:"module_id,omitempty"`
	Correct  bool   `json:"correct"`
}

type MarkVideoWatchedRequest struct {
	ModuleID string `json:"module_id"`
	XPReward int    `json:"xp_reward,omitempty"`
}

type VideoTimestampRequest struct {
	ModuleID        string `json:"module_id,omitempty"`
	PositionSeconds int    `json:"position_seconds"`
}

type CompleteModuleRequest struct {
	XPReward int `json:"xp_reward,omitempty"`
}

type CompleteCourseRequest struct {
	CourseName   string `json:"course_name"`
	ModulesCount int    `json:"modules_count"`
	QuizzesCount int    `json:"quizzes_count"`
	XPReward     int    `json:"xp_reward,omitempty"`
}

type GameResultRequest struct {
	Score    int `json:"score"`
	XPEarned int `json:"xp_earned"`
}

// ── Response Types ────────────────────────────────────────

type LevelProgress struct {
	Level    int     `json:"level"`
	Current  int64   `json:"current"`
	Needed   int64   `json:"needed"`
	Fraction float64 `json:"fraction"`
}

type EarnXPResponse struct {
	XP        int64 `json:"xp"`
	LeveledUp bool  `json:"leveled_up"`
	NewLevel  int   `json:"new_level"`
}

type StreakResponse struct {
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	LastActiveDate string `json:"last_active_date,omitempty"`
}

// ProgressSnapshot is the full aggregate the UI re-reads after each mutation.
type ProgressSnapshot struct {
	XP                  int64                 `json:"xp"`
	Level               int                   `json:"level"`
	LevelProgress       LevelProgress         `json:"level_progress"`
	CurrentStreak       int                   `json:"current_streak"`
	LongestStreak       int                   `json:"longest_streak"`
	LastActiveDate      string                `json:"last_active_date,omitempty"`
	LearnedTerms        []string              `json:"learned_terms"`
	Achievements        []UnlockedAchievement `json:"achievements"`
	PendingAchievements []string              `json:"pending_achievements"`
	PendingLevelUp      *int                  `json:"pending_level_up,omitempty"`
	QuizAttempts        []QuizAttempt         `json:"quiz_attempts"`
	Modules             []ModuleProgress      `json:"modules"`
	Videos              []VideoProgress       `json:"videos"`
	ModulesCompleted    []string              `json:"modules_completed"`
	CoursesCompleted    []string              `json:"courses_completed"`
	Certificates        []Certificate         `json:"certificates"`
	Flashcards          []FlashcardProgress   `json:"flashcards"`
	DueFlashcards       int                   `json:"due_flashcards"`
}

type FlashcardReviewResponse struct {
	Card      FlashcardProgress `json:"card"`
	XP        int64             `json:"xp"`
	LeveledUp bool              `json:"leveled_up"`
	NewLevel  int               `json:"new_level"`
}

type LearnTermResponse struct {
	TermID       string `json:"term_id"`
	FirstLearned bool   `json:"first_learned"`
	XP           int64  `json:"xp"`
}

type CheckAchievementsResponse struct {
	NewlyUnlocked []AchievementInfo `json:"newly_unlocked"`
}

// AchievementInfo is the static definition as exposed to clients.
type AchievementInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Rarity      string `json:"rarity"`
	XPReward    int    `json:"xp_reward"`
}

type CourseCompletionResponse struct {
	Certificate Certificate `json:"certificate"`
	AlreadyDone bool        `json:"already_completed"`
}
