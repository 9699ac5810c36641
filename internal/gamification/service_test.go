package gamification

import (
	"testing"
	"time"

	"github.com/founder-prep/backend/internal/models"
)

// fakeStorage is an in-memory Storage for exercising service logic without
// Postgres. Only the behavior the tests depend on is modeled.
type fakeStorage struct {
	progress     map[int64]*models.UserProgress
	learned      map[int64]map[string]bool
	awarded      map[int64]map[string]bool
	certificates map[int64]map[string]*models.Certificate
	modules      map[int64]map[string]bool
	videos       map[int64]map[string]bool
	xpEvents     []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		progress:     map[int64]*models.UserProgress{},
		learned:      map[int64]map[string]bool{},
		awarded:      map[int64]map[string]bool{},
		certificates: map[int64]map[string]*models.Certificate{},
		modules:      map[int64]map[string]bool{},
		videos:       map[int64]map[string]bool{},
	}
}

func (f *fakeStorage) GetOrCreateProgress(userID int64) (*models.UserProgress, error) {
	p, ok := f.progress[userID]
	if !ok {
		p = &models.UserProgress{UserID: userID}
		f.progress[userID] = p
	}
	copied := *p
	return &copied, nil
}

func (f *fakeStorage) AddXP(userID int64, amount int) error {
	f.progress[userID].XP += int64(amount)
	return nil
}

func (f *fakeStorage) SetPendingLevelUp(userID int64, level int) error {
	lv := level
	f.progress[userID].PendingLevelUp = &lv
	return nil
}

func (f *fakeStorage) ClearPendingLevelUp(userID int64) error {
	f.progress[userID].PendingLevelUp = nil
	return nil
}

func (f *fakeStorage) UpdateStreakData(userID int64, current, longest int, lastActive time.Time) error {
	p := f.progress[userID]
	p.CurrentStreak = current
	p.LongestStreak = longest
	p.LastActiveDate = &lastActive
	return nil
}

func (f *fakeStorage) ResetLapsedStreaks(cutoff time.Time) (int64, error) { return 0, nil }

func (f *fakeStorage) LogXPEvent(userID int64, eventType string, xpAmount int, metadata map[string]interface{}) error {
	f.xpEvents = append(f.xpEvents, eventType)
	return nil
}

func (f *fakeStorage) LearnTerm(userID int64, termID string) (bool, error) {
	set, ok := f.learned[userID]
	if !ok {
		set = map[string]bool{}
		f.learned[userID] = set
	}
	if set[termID] {
		return false, nil
	}
	set[termID] = true
	return true, nil
}

func (f *fakeStorage) GetLearnedTerms(userID int64) ([]string, error) {
	terms := []string{}
	for t := range f.learned[userID] {
		terms = append(terms, t)
	}
	return terms, nil
}

func (f *fakeStorage) AwardAchievement(userID int64, achievement string) (bool, error) {
	set, ok := f.awarded[userID]
	if !ok {
		set = map[string]bool{}
		f.awarded[userID] = set
	}
	if set[achievement] {
		return false, nil
	}
	set[achievement] = true
	return true, nil
}

func (f *fakeStorage) GetAchievements(userID int64) ([]models.UnlockedAchievement, error) {
	return []models.UnlockedAchievement{}, nil
}

func (f *fakeStorage) AcknowledgeAchievement(userID int64, achievement string) error { return nil }

func (f *fakeStorage) InsertQuizAttempt(userID int64, req models.RecordQuizAttemptRequest) (*models.QuizAttempt, error) {
	return &models.QuizAttempt{QuizID: req.QuizID, ModuleID: req.ModuleID, Score: req.Score, Passed: req.Passed}, nil
}

func (f *fakeStorage) MarkQuizPassed(userID int64, moduleID, quizID string) error { return nil }

func (f *fakeStorage) GetQuizAttempts(userID int64) ([]models.QuizAttempt, error) {
	return []models.QuizAttempt{}, nil
}

func (f *fakeStorage) GetFlashcard(userID int64, cardID string) (models.FlashcardProgress, error) {
	return models.FlashcardProgress{CardID: cardID}, nil
}

func (f *fakeStorage) SaveFlashcard(userID int64, fp models.FlashcardProgress) error { return nil }

func (f *fakeStorage) GetFlashcards(userID int64) ([]models.FlashcardProgress, error) {
	return []models.FlashcardProgress{}, nil
}

func (f *fakeStorage) DueFlashcards(userID int64, now time.Time) ([]models.FlashcardProgress, error) {
	return []models.FlashcardProgress{}, nil
}

func (f *fakeStorage) EnsureModuleProgress(userID int64, moduleID string) error { return nil }

func (f *fakeStorage) MarkVideoWatched(userID int64, moduleID, videoID string) (bool, error) {
	set, ok := f.videos[userID]
	if !ok {
		set = map[string]bool{}
		f.videos[userID] = set
	}
	if set[videoID] {
		return false, nil
	}
	set[videoID] = true
	return true, nil
}

func (f *fakeStorage) UpdateVideoTimestamp(userID int64, moduleID, videoID string, positionSeconds int) error {
	return nil
}

func (f *fakeStorage) SetFlashcardsReviewed(userID int64, moduleID string) error { return nil }

func (f *fakeStorage) CompleteModule(userID int64, moduleID string) (bool, error) {
	set, ok := f.modules[userID]
	if !ok {
		set = map[string]bool{}
		f.modules[userID] = set
	}
	if set[moduleID] {
		return false, nil
	}
	set[moduleID] = true
	return true, nil
}

func (f *fakeStorage) GetModuleProgress(userID int64) ([]models.ModuleProgress, error) {
	return []models.ModuleProgress{}, nil
}

func (f *fakeStorage) GetVideoProgress(userID int64) ([]models.VideoProgress, error) {
	return []models.VideoProgress{}, nil
}

func (f *fakeStorage) InsertCertificate(userID int64, courseID string, req models.CompleteCourseRequest, xpEarned int64) (*models.Certificate, bool, error) {
	certs, ok := f.certificates[userID]
	if !ok {
		certs = map[string]*models.Certificate{}
		f.certificates[userID] = certs
	}
	if existing, ok := certs[courseID]; ok {
		return existing, false, nil
	}
	cert := &models.Certificate{
		CourseID:     courseID,
		CourseName:   req.CourseName,
		ModulesCount: req.ModulesCount,
		QuizzesCount: req.QuizzesCount,
		XPEarned:     xpEarned,
	}
	certs[courseID] = cert
	return cert, true, nil
}

func (f *fakeStorage) GetCertificate(userID int64, courseID string) (*models.Certificate, error) {
	return f.certificates[userID][courseID], nil
}

func (f *fakeStorage) GetCertificates(userID int64) ([]models.Certificate, error) {
	return []models.Certificate{}, nil
}

func (f *fakeStorage) GetStats(userID int64) (ProgressStats, error) { return ProgressStats{}, nil }

// ── Tests ───────────────────────────────────────────────

func TestLearnTermCreditsXPOnce(t *testing.T) {
	svc := NewService(newFakeStorage())

	first, err := svc.LearnTerm(1, "runway")
	if err != nil {
		t.Fatalf("LearnTerm failed: %v", err)
	}
	if !first.FirstLearned {
		t.Error("first call should report FirstLearned")
	}
	if first.XP != int64(TermXPReward) {
		t.Errorf("XP after first learn = %d, want %d", first.XP, TermXPReward)
	}

	second, err := svc.LearnTerm(1, "runway")
	if err != nil {
		t.Fatalf("repeat LearnTerm failed: %v", err)
	}
	if second.FirstLearned {
		t.Error("repeat call should not report FirstLearned")
	}
	if second.XP != first.XP {
		t.Errorf("XP after repeat learn = %d, want unchanged %d", second.XP, first.XP)
	}
}

func TestEarnXPQueuesLevelUp(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store)

	resp, err := svc.EarnXP(1, 150, "quiz")
	if err != nil {
		t.Fatalf("EarnXP failed: %v", err)
	}
	if !resp.LeveledUp || resp.NewLevel != 2 {
		t.Errorf("EarnXP(150) = %+v, want level-up to 2", resp)
	}
	if p := store.progress[1]; p.PendingLevelUp == nil || *p.PendingLevelUp != 2 {
		t.Errorf("pending level-up = %v, want 2", p.PendingLevelUp)
	}

	// No crossing, no new celebration; the queued one stays.
	resp, err = svc.EarnXP(1, 10, "quiz")
	if err != nil {
		t.Fatalf("EarnXP failed: %v", err)
	}
	if resp.LeveledUp {
		t.Error("EarnXP(10) should not level up again")
	}
	if p := store.progress[1]; p.PendingLevelUp == nil || *p.PendingLevelUp != 2 {
		t.Errorf("pending level-up = %v, want 2 still queued", p.PendingLevelUp)
	}

	if err := svc.DismissLevelUp(1); err != nil {
		t.Fatalf("DismissLevelUp failed: %v", err)
	}
	if p := store.progress[1]; p.PendingLevelUp != nil {
		t.Error("dismiss should clear the queued level-up")
	}
}

func TestIsCourseCompleted(t *testing.T) {
	store := newFakeStorage()
	svc := NewService(store)

	done, err := svc.IsCourseCompleted(1, "startup-fundamentals")
	if err != nil {
		t.Fatalf("IsCourseCompleted failed: %v", err)
	}
	if done {
		t.Error("fresh account should have no completed courses")
	}

	req := models.CompleteCourseRequest{CourseName: "Startup Fundamentals", ModulesCount: 2, QuizzesCount: 3}
	resp, err := svc.CompleteCourse(1, "startup-fundamentals", req)
	if err != nil {
		t.Fatalf("CompleteCourse failed: %v", err)
	}
	if resp.AlreadyDone {
		t.Error("first completion should not report already done")
	}

	done, err = svc.IsCourseCompleted(1, "startup-fundamentals")
	if err != nil {
		t.Fatalf("IsCourseCompleted failed: %v", err)
	}
	if !done {
		t.Error("course should be completed after certificate issue")
	}

	// Repeat completion returns the original certificate and awards nothing.
	xpBefore := store.progress[1].XP
	resp, err = svc.CompleteCourse(1, "startup-fundamentals", req)
	if err != nil {
		t.Fatalf("repeat CompleteCourse failed: %v", err)
	}
	if !resp.AlreadyDone {
		t.Error("repeat completion should report already done")
	}
	if store.progress[1].XP != xpBefore {
		t.Errorf("repeat completion changed XP from %d to %d", xpBefore, store.progress[1].XP)
	}
}
