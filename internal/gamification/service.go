package gamification

import (
	"fmt"
	"log"
	"time"

	"github.com/founder-prep/backend/internal/models"
)

// XP credited the first time a glossary term is learned. Re-learning an
// already-learned term stays a no-op for XP.
const TermXPReward = 5

// Default rewards used when the caller does not supply one.
const (
	DefaultVideoXP  = 10
	DefaultModuleXP = 50
	DefaultCourseXP = 200
)

// Storage is the persistence surface the service drives. *Store is the
// Postgres implementation.
type Storage interface {
	GetOrCreateProgress(userID int64) (*models.UserProgress, error)
	AddXP(userID int64, amount int) error
	SetPendingLevelUp(userID int64, level int) error
	ClearPendingLevelUp(userID int64) error
	UpdateStreakData(userID int64, current, longest int, lastActive time.Time) error
	ResetLapsedStreaks(cutoff time.Time) (int64, error)
	LogXPEvent(userID int64, eventType string, xpAmount int, metadata map[string]interface{}) error
	LearnTerm(userID int64, termID string) (bool, error)
	GetLearnedTerms(userID int64) ([]string, error)
	AwardAchievement(userID int64, achievement string) (bool, error)
	GetAchievements(userID int64) ([]models.UnlockedAchievement, error)
	AcknowledgeAchievement(userID int64, achievement string) error
	InsertQuizAttempt(userID int64, req models.RecordQuizAttemptRequest) (*models.QuizAttempt, error)
	MarkQuizPassed(userID int64, moduleID, quizID string) error
	GetQuizAttempts(userID int64) ([]models.QuizAttempt, error)
	GetFlashcard(userID int64, cardID string) (models.FlashcardProgress, error)
	SaveFlashcard(userID int64, fp models.FlashcardProgress) error
	GetFlashcards(userID int64) ([]models.FlashcardProgress, error)
	DueFlashcards(userID int64, now time.Time) ([]models.FlashcardProgress, error)
	EnsureModuleProgress(userID int64, moduleID string) error
	MarkVideoWatched(userID int64, moduleID, videoID string) (bool, error)
	UpdateVideoTimestamp(userID int64, moduleID, videoID string, positionSeconds int) error
	SetFlashcardsReviewed(userID int64, moduleID string) error
	CompleteModule(userID int64, moduleID string) (bool, error)
	GetModuleProgress(userID int64) ([]models.ModuleProgress, error)
	GetVideoProgress(userID int64) ([]models.VideoProgress, error)
	InsertCertificate(userID int64, courseID string, req models.CompleteCourseRequest, xpEarned int64) (*models.Certificate, bool, error)
	GetCertificate(userID int64, courseID string) (*models.Certificate, error)
	GetCertificates(userID int64) ([]models.Certificate, error)
	GetStats(userID int64) (ProgressStats, error)
}

type Service struct {
	store Storage
	now   func() time.Time
}

func NewService(store Storage) *Service {
	return &Service{store: store, now: time.Now}
}

// ── XP ──────────────────────────────────────────────────

// EarnXP adds XP and reports level crossings. Non-positive amounts are a
// no-op rather than an error: a bad caller must never shrink the aggregate.
func (s *Service) EarnXP(userID int64, amount int, source string) (*models.EarnXPResponse, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	if amount <= 0 {
		level := CalculateLevel(p.XP)
		return &models.EarnXPResponse{XP: p.XP, LeveledUp: false, NewLevel: level}, nil
	}

	oldLevel := CalculateLevel(p.XP)
	newXP := p.XP + int64(amount)
	newLevel := CalculateLevel(newXP)

	if err := s.store.AddXP(userID, amount); err != nil {
		return nil, fmt.Errorf("add xp: %w", err)
	}

	leveledUp := newLevel > oldLevel
	if leveledUp {
		if err := s.store.SetPendingLevelUp(userID, newLevel); err != nil {
			log.Printf("[gamification] failed to queue level-up for user %d: %v", userID, err)
		}
	}

	s.store.LogXPEvent(userID, source, amount, map[string]interface{}{
		"total_xp":   newXP,
		"level":      newLevel,
		"leveled_up": leveledUp,
	})

	return &models.EarnXPResponse{XP: newXP, LeveledUp: leveledUp, NewLevel: newLevel}, nil
}

// ── Streak ──────────────────────────────────────────────

func (s *Service) UpdateStreak(userID int64) (*models.StreakResponse, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	today := s.now()
	streak := NextStreak(p.LastActiveDate, today, p.CurrentStreak)

	longest := p.LongestStreak
	if streak > longest {
		longest = streak
	}

	if err := s.store.UpdateStreakData(userID, streak, longest, dateOf(today)); err != nil {
		return nil, fmt.Errorf("update streak: %w", err)
	}

	return &models.StreakResponse{
		CurrentStreak:  streak,
		LongestStreak:  longest,
		LastActiveDate: dateOf(today).Format("2006-01-02"),
	}, nil
}

// ── Quizzes ─────────────────────────────────────────────

// RecordQuizAttempt appends to the attempt log unconditionally; the log is
// never deduplicated. A passing attempt also adds the quiz to the module's
// passed set, where set semantics absorb repeats.
func (s *Service) RecordQuizAttempt(userID int64, req models.RecordQuizAttemptRequest) (*models.QuizAttempt, error) {
	if req.Score < 0 {
		req.Score = 0
	}
	if req.Score > 100 {
		req.Score = 100
	}

	s.store.GetOrCreateProgress(userID)

	attempt, err := s.store.InsertQuizAttempt(userID, req)
	if err != nil {
		return nil, err
	}

	if req.Passed {
		if err := s.store.MarkQuizPassed(userID, req.ModuleID, req.QuizID); err != nil {
			log.Printf("[gamification] failed to mark quiz passed for user %d: %v", userID, err)
		}
	}

	if req.XPEarned > 0 {
		if _, err := s.EarnXP(userID, req.XPEarned, "quiz"); err != nil {
			log.Printf("[gamification] failed to award quiz XP for user %d: %v", userID, err)
		}
	}

	return attempt, nil
}

// ── Flashcards ──────────────────────────────────────────

// ReviewFlashcard applies one review outcome to a card, initializing the
// card's counters on first sight. Any review carrying a module id marks
// that module's flashcards as reviewed, correct or not.
func (s *Service) ReviewFlashcard(userID int64, cardID string, req models.FlashcardReviewRequest) (*models.FlashcardReviewResponse, error) {
	s.store.GetOrCreateProgress(userID)

	fp, err := s.store.GetFlashcard(userID, cardID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	fp = ApplyReview(fp, req.Correct, now)

	if err := s.store.SaveFlashcard(userID, fp); err != nil {
		return nil, err
	}

	if req.ModuleID != "" {
		if err := s.store.SetFlashcardsReviewed(userID, req.ModuleID); err != nil {
			log.Printf("[gamification] failed to flag module flashcards for user %d: %v", userID, err)
		}
	}

	xpResult := &models.EarnXPResponse{}
	if req.Correct {
		xpResult, err = s.EarnXP(userID, 2, "flashcard")
		if err != nil {
			log.Printf("[gamification] failed to award review XP for user %d: %v", userID, err)
			xpResult = &models.EarnXPResponse{}
		}
	} else {
		p, err := s.store.GetOrCreateProgress(userID)
		if err == nil {
			xpResult.XP = p.XP
			xpResult.NewLevel = CalculateLevel(p.XP)
		}
	}

	return &models.FlashcardReviewResponse{
		Card:      fp,
		XP:        xpResult.XP,
		LeveledUp: xpResult.LeveledUp,
		NewLevel:  xpResult.NewLevel,
	}, nil
}

func (s *Service) DueFlashcards(userID int64) ([]models.FlashcardProgress, error) {
	return s.store.DueFlashcards(userID, s.now())
}

// ── Glossary ────────────────────────────────────────────

// LearnTerm adds a term to the learned set. The set absorbs repeats, and XP
// is credited only on the first occurrence so re-marking a known term
// cannot farm XP.
func (s *Service) LearnTerm(userID int64, termID string) (*models.LearnTermResponse, error) {
	s.store.GetOrCreateProgress(userID)

	first, err := s.store.LearnTerm(userID, termID)
	if err != nil {
		return nil, err
	}

	var xp int64
	if first {
		result, err := s.EarnXP(userID, TermXPReward, "term")
		if err != nil {
			log.Printf("[gamification] failed to award term XP for user %d: %v", userID, err)
		} else {
			xp = result.XP
		}
	} else {
		p, err := s.store.GetOrCreateProgress(userID)
		if err == nil {
			xp = p.XP
		}
	}

	return &models.LearnTermResponse{TermID: termID, FirstLearned: first, XP: xp}, nil
}

// ── Videos & Modules ────────────────────────────────────

func (s *Service) MarkVideoWatched(userID int64, moduleID, videoID string, xpReward int) error {
	s.store.GetOrCreateProgress(userID)
	if err := s.store.EnsureModuleProgress(userID, moduleID); err != nil {
		return err
	}

	first, err := s.store.MarkVideoWatched(userID, moduleID, videoID)
	if err != nil {
		return err
	}

	if first {
		if xpReward <= 0 {
			xpReward = DefaultVideoXP
		}
		if _, err := s.EarnXP(userID, xpReward, "video"); err != nil {
			log.Printf("[gamification] failed to award video XP for user %d: %v", userID, err)
		}
	}
	return nil
}

func (s *Service) UpdateVideoTimestamp(userID int64, videoID string, req models.VideoTimestampRequest) error {
	if req.PositionSeconds < 0 {
		req.PositionSeconds = 0
	}
	s.store.GetOrCreateProgress(userID)
	return s.store.UpdateVideoTimestamp(userID, req.ModuleID, videoID, req.PositionSeconds)
}

func (s *Service) CompleteModule(userID int64, moduleID string, xpReward int) error {
	s.store.GetOrCreateProgress(userID)

	first, err := s.store.CompleteModule(userID, moduleID)
	if err != nil {
		return err
	}

	if first {
		if xpReward <= 0 {
			xpReward = DefaultModuleXP
		}
		if _, err := s.EarnXP(userID, xpReward, "module"); err != nil {
			log.Printf("[gamification] failed to award module XP for user %d: %v", userID, err)
		}
	}
	return nil
}

// ── Courses & Certificates ──────────────────────────────

// CompleteCourse issues at most one certificate per course. Repeated calls
// return the original certificate and award nothing.
func (s *Service) CompleteCourse(userID int64, courseID string, req models.CompleteCourseRequest) (*models.CourseCompletionResponse, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	cert, created, err := s.store.InsertCertificate(userID, courseID, req, p.XP)
	if err != nil {
		return nil, err
	}

	if created {
		xpReward := req.XPReward
		if xpReward <= 0 {
			xpReward = DefaultCourseXP
		}
		if _, err := s.EarnXP(userID, xpReward, "course"); err != nil {
			log.Printf("[gamification] failed to award course XP for user %d: %v", userID, err)
		}
	}

	return &models.CourseCompletionResponse{Certificate: *cert, AlreadyDone: !created}, nil
}

func (s *Service) IsCourseCompleted(userID int64, courseID string) (bool, error) {
	cert, err := s.store.GetCertificate(userID, courseID)
	if err != nil {
		return false, err
	}
	return cert != nil, nil
}

func (s *Service) GetCertificate(userID int64, courseID string) (*models.Certificate, error) {
	return s.store.GetCertificate(userID, courseID)
}

// ── Achievements ────────────────────────────────────────

// CheckAchievements evaluates every definition against the current snapshot
// and unlocks the newly satisfied ones. Safe to call after any action:
// already-unlocked achievements never re-fire and predicates have no side
// effects, so two back-to-back calls return nothing the second time.
func (s *Service) CheckAchievements(userID int64) (*models.CheckAchievementsResponse, error) {
	stats, err := s.store.GetStats(userID)
	if err != nil {
		return nil, fmt.Errorf("get stats: %w", err)
	}

	newlyUnlocked := []models.AchievementInfo{}
	for _, id := range QualifiedAchievements(stats) {
		awarded, err := s.store.AwardAchievement(userID, id)
		if err != nil {
			log.Printf("[gamification] failed to award %s for user %d: %v", id, userID, err)
			continue
		}
		if !awarded {
			continue
		}

		def, _ := LookupAchievement(id)
		newlyUnlocked = append(newlyUnlocked, models.AchievementInfo{
			ID:          def.ID,
			Name:        def.Name,
			Description: def.Description,
			Category:    def.Category,
			Rarity:      def.Rarity,
			XPReward:    def.XPReward,
		})
		if def.XPReward > 0 {
			if _, err := s.EarnXP(userID, def.XPReward, "achievement"); err != nil {
				log.Printf("[gamification] failed to award achievement XP for user %d: %v", userID, err)
			}
		}
	}

	return &models.CheckAchievementsResponse{NewlyUnlocked: newlyUnlocked}, nil
}

// DismissAchievement clears one unlock from the celebration queue. The
// unlock record itself is permanent.
func (s *Service) DismissAchievement(userID int64, achievementID string) error {
	return s.store.AcknowledgeAchievement(userID, achievementID)
}

func (s *Service) DismissLevelUp(userID int64) error {
	return s.store.ClearPendingLevelUp(userID)
}

// ── Snapshot ────────────────────────────────────────────

// GetProgress assembles the full aggregate snapshot the UI renders from.
func (s *Service) GetProgress(userID int64) (*models.ProgressSnapshot, error) {
	p, err := s.store.GetOrCreateProgress(userID)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}

	snap := &models.ProgressSnapshot{
		XP:             p.XP,
		Level:          CalculateLevel(p.XP),
		LevelProgress:  XPForNextLevel(p.XP),
		CurrentStreak:  p.CurrentStreak,
		LongestStreak:  p.LongestStreak,
		PendingLevelUp: p.PendingLevelUp,
	}
	if p.LastActiveDate != nil {
		snap.LastActiveDate = p.LastActiveDate.Format("2006-01-02")
	}

	if snap.LearnedTerms, err = s.store.GetLearnedTerms(userID); err != nil {
		return nil, err
	}
	if snap.Achievements, err = s.store.GetAchievements(userID); err != nil {
		return nil, err
	}
	snap.PendingAchievements = []string{}
	for _, a := range snap.Achievements {
		if !a.Acknowledged {
			snap.PendingAchievements = append(snap.PendingAchievements, a.AchievementID)
		}
	}
	if snap.QuizAttempts, err = s.store.GetQuizAttempts(userID); err != nil {
		return nil, err
	}
	if snap.Modules, err = s.store.GetModuleProgress(userID); err != nil {
		return nil, err
	}
	if snap.Videos, err = s.store.GetVideoProgress(userID); err != nil {
		return nil, err
	}
	snap.ModulesCompleted = []string{}
	for _, m := range snap.Modules {
		if m.Completed {
			snap.ModulesCompleted = append(snap.ModulesCompleted, m.ModuleID)
		}
	}
	if snap.Certificates, err = s.store.GetCertificates(userID); err != nil {
		return nil, err
	}
	snap.CoursesCompleted = []string{}
	for _, c := range snap.Certificates {
		snap.CoursesCompleted = append(snap.CoursesCompleted, c.CourseID)
	}
	if snap.Flashcards, err = s.store.GetFlashcards(userID); err != nil {
		return nil, err
	}

	now := s.now()
	for _, fp := range snap.Flashcards {
		if IsDue(fp, now) {
			snap.DueFlashcards++
		}
	}

	return snap, nil
}

// ── Maintenance ─────────────────────────────────────────

// AuditStreaks zeroes streaks for users who were not active yesterday or
// today. Run daily so snapshots never show a streak the user already lost.
func (s *Service) AuditStreaks() {
	yesterday := dateOf(s.now()).AddDate(0, 0, -1)
	reset, err := s.store.ResetLapsedStreaks(yesterday)
	if err != nil {
		log.Printf("[gamification] streak audit failed: %v", err)
		return
	}
	if reset > 0 {
		log.Printf("[gamification] streak audit reset %d lapsed streaks", reset)
	}
}
