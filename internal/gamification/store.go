package gamification

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/founder-prep/backend/internal/models"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Core Progress CRUD ──────────────────────────────────

func (s *Store) GetOrCreateProgress(userID int64) (*models.UserProgress, error) {
	_, err := s.db.Exec(
		`INSERT INTO user_progress (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}

	var p models.UserProgress
	err = s.db.QueryRow(
		`SELECT user_id, xp, current_streak, longest_streak, last_active_date,
		        pending_level_up, created_at, updated_at
		 FROM user_progress WHERE user_id = $1`,
		userID,
	).Scan(&p.UserID, &p.XP, &p.CurrentStreak, &p.LongestStreak,
		&p.LastActiveDate, &p.PendingLevelUp, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get progress: %w", err)
	}
	return &p, nil
}

// AddXP increments the user's total. Amounts are validated by the service;
// the xp column also carries a CHECK (xp >= 0) so it can never go negative.
func (s *Store) AddXP(userID int64, amount int) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET xp = xp + $2, updated_at = NOW()
		 WHERE user_id = $1`,
		userID, amount,
	)
	return err
}

func (s *Store) SetPendingLevelUp(userID int64, level int) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET pending_level_up = $2, updated_at = NOW()
		 WHERE user_id = $1`,
		userID, level,
	)
	return err
}

func (s *Store) ClearPendingLevelUp(userID int64) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET pending_level_up = NULL, updated_at = NOW()
		 WHERE user_id = $1`,
		userID,
	)
	return err
}

func (s *Store) UpdateStreakData(userID int64, current, longest int, lastActive time.Time) error {
	_, err := s.db.Exec(
		`UPDATE user_progress SET
		    current_streak = $2, longest_streak = $3, last_active_date = $4,
		    updated_at = NOW()
		 WHERE user_id = $1`,
		userID, current, longest, lastActive,
	)
	return err
}

// ResetLapsedStreaks zeroes the streak of every user whose last activity was
// before the cutoff date. Returns how many rows changed.
func (s *Store) ResetLapsedStreaks(cutoff time.Time) (int64, error) {
	result, err := s.db.Exec(
		`UPDATE user_progress SET current_streak = 0, updated_at = NOW()
		 WHERE current_streak > 0 AND last_active_date < $1`,
		cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("reset lapsed streaks: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (s *Store) LogXPEvent(userID int64, eventType string, xpAmount int, metadata map[string]interface{}) error {
	var metaJSON *string
	if metadata != nil {
		b, err := json.Marshal(metadata)
		if err == nil {
			s := string(b)
			metaJSON = &s
		}
	}
	_, err := s.db.Exec(
		`INSERT INTO xp_events (user_id, event_type, xp_amount, metadata)
		 VALUES ($1, $2, $3, $4)`,
		userID, eventType, xpAmount, metaJSON,
	)
	return err
}

// ── Learned Terms ───────────────────────────────────────

// LearnTerm adds a term to the learned set. Returns true only when the term
// was not already there, so XP can be credited exactly once.
func (s *Store) LearnTerm(userID int64, termID string) (bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO learned_terms (user_id, term_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, term_id) DO NOTHING`,
		userID, termID,
	)
	if err != nil {
		return false, fmt.Errorf("learn term: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (s *Store) GetLearnedTerms(userID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT term_id FROM learned_terms WHERE user_id = $1 ORDER BY learned_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get learned terms: %w", err)
	}
	defer rows.Close()

	terms := []string{}
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// ── Achievements ────────────────────────────────────────

// AwardAchievement unlocks an achievement if the user does not already have
// it. Returns true only on first unlock.
func (s *Store) AwardAchievement(userID int64, achievement string) (bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO achievements (user_id, achievement) VALUES ($1, $2)
		 ON CONFLICT (user_id, achievement) DO NOTHING`,
		userID, achievement,
	)
	if err != nil {
		return false, fmt.Errorf("award achievement: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (s *Store) GetAchievements(userID int64) ([]models.UnlockedAchievement, error) {
	rows, err := s.db.Query(
		`SELECT achievement, unlocked_at, acknowledged
		 FROM achievements WHERE user_id = $1 ORDER BY unlocked_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get achievements: %w", err)
	}
	defer rows.Close()

	achievements := []models.UnlockedAchievement{}
	for rows.Next() {
		var a models.UnlockedAchievement
		if err := rows.Scan(&a.AchievementID, &a.UnlockedAt, &a.Acknowledged); err != nil {
			return nil, err
		}
		achievements = append(achievements, a)
	}
	return achievements, rows.Err()
}

// AcknowledgeAchievement clears an unlock from the celebration queue. The
// unlock itself is untouched.
func (s *Store) AcknowledgeAchievement(userID int64, achievement string) error {
	result, err := s.db.Exec(
		`UPDATE achievements SET acknowledged = true
		 WHERE user_id = $1 AND achievement = $2`,
		userID, achievement,
	)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("achievement not found")
	}
	return nil
}

// ── Quiz Attempts ───────────────────────────────────────

func (s *Store) InsertQuizAttempt(userID int64, req models.RecordQuizAttemptRequest) (*models.QuizAttempt, error) {
	var answersJSON *string
	if req.Answers != nil {
		b, err := json.Marshal(req.Answers)
		if err == nil {
			s := string(b)
			answersJSON = &s
		}
	}

	attempt := models.QuizAttempt{
		QuizID:           req.QuizID,
		ModuleID:         req.ModuleID,
		Score:            req.Score,
		Passed:           req.Passed,
		Answers:          req.Answers,
		TimeSpentSeconds: req.TimeSpentSeconds,
		XPEarned:         req.XPEarned,
	}
	err := s.db.QueryRow(
		`INSERT INTO quiz_attempts (user_id, quiz_id, module_id, score, passed, answers, time_spent_seconds, xp_earned)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, attempted_at`,
		userID, req.QuizID, req.ModuleID, req.Score, req.Passed, answersJSON,
		req.TimeSpentSeconds, req.XPEarned,
	).Scan(&attempt.ID, &attempt.AttemptedAt)
	if err != nil {
		return nil, fmt.Errorf("insert quiz attempt: %w", err)
	}
	return &attempt, nil
}

func (s *Store) MarkQuizPassed(userID int64, moduleID, quizID string) error {
	_, err := s.db.Exec(
		`INSERT INTO module_quizzes_passed (user_id, module_id, quiz_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, quiz_id) DO NOTHING`,
		userID, moduleID, quizID,
	)
	return err
}

func (s *Store) GetQuizAttempts(userID int64) ([]models.QuizAttempt, error) {
	rows, err := s.db.Query(
		`SELECT id, quiz_id, module_id, score, passed, answers, time_spent_seconds, xp_earned, attempted_at
		 FROM quiz_attempts WHERE user_id = $1 ORDER BY attempted_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get quiz attempts: %w", err)
	}
	defer rows.Close()

	attempts := []models.QuizAttempt{}
	for rows.Next() {
		var a models.QuizAttempt
		var answersJSON *string
		if err := rows.Scan(&a.ID, &a.QuizID, &a.ModuleID, &a.Score, &a.Passed,
			&answersJSON, &a.TimeSpentSeconds, &a.XPEarned, &a.AttemptedAt); err != nil {
			return nil, err
		}
		if answersJSON != nil {
			// Corrupt answers payloads are skipped, not fatal
			json.Unmarshal([]byte(*answersJSON), &a.Answers)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// ── Flashcards ──────────────────────────────────────────

// GetFlashcard returns the card's progress, or a zeroed record the first
// time a card is seen.
func (s *Store) GetFlashcard(userID int64, cardID string) (models.FlashcardProgress, error) {
	var fp models.FlashcardProgress
	err := s.db.QueryRow(
		`SELECT card_id, times_reviewed, times_correct, mastery_level, last_reviewed, next_review_at
		 FROM flashcard_progress WHERE user_id = $1 AND card_id = $2`,
		userID, cardID,
	).Scan(&fp.CardID, &fp.TimesReviewed, &fp.TimesCorrect, &fp.MasteryLevel,
		&fp.LastReviewed, &fp.NextReviewAt)
	if err == sql.ErrNoRows {
		return models.FlashcardProgress{CardID: cardID}, nil
	}
	if err != nil {
		return fp, fmt.Errorf("get flashcard: %w", err)
	}
	return fp, nil
}

func (s *Store) SaveFlashcard(userID int64, fp models.FlashcardProgress) error {
	_, err := s.db.Exec(
		`INSERT INTO flashcard_progress (user_id, card_id, times_reviewed, times_correct, mastery_level, last_reviewed, next_review_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, card_id) DO UPDATE SET
		    times_reviewed = EXCLUDED.times_reviewed,
		    times_correct = EXCLUDED.times_correct,
		    mastery_level = EXCLUDED.mastery_level,
		    last_reviewed = EXCLUDED.last_reviewed,
		    next_review_at = EXCLUDED.next_review_at`,
		userID, fp.CardID, fp.TimesReviewed, fp.TimesCorrect, fp.MasteryLevel,
		fp.LastReviewed, fp.NextReviewAt,
	)
	if err != nil {
		return fmt.Errorf("save flashcard: %w", err)
	}
	return nil
}

func (s *Store) GetFlashcards(userID int64) ([]models.FlashcardProgress, error) {
	rows, err := s.db.Query(
		`SELECT card_id, times_reviewed, times_correct, mastery_level, last_reviewed, next_review_at
		 FROM flashcard_progress WHERE user_id = $1 ORDER BY card_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get flashcards: %w", err)
	}
	defer rows.Close()

	cards := []models.FlashcardProgress{}
	for rows.Next() {
		var fp models.FlashcardProgress
		if err := rows.Scan(&fp.CardID, &fp.TimesReviewed, &fp.TimesCorrect,
			&fp.MasteryLevel, &fp.LastReviewed, &fp.NextReviewAt); err != nil {
			return nil, err
		}
		cards = append(cards, fp)
	}
	return cards, rows.Err()
}

// DueFlashcards returns cards ready for review: seen before, not mastered,
// and past their next review time. Never-reviewed cards are excluded by the
// times_reviewed > 0 condition.
func (s *Store) DueFlashcards(userID int64, now time.Time) ([]models.FlashcardProgress, error) {
	rows, err := s.db.Query(
		`SELECT card_id, times_reviewed, times_correct, mastery_level, last_reviewed, next_review_at
		 FROM flashcard_progress
		 WHERE user_id = $1 AND times_reviewed > 0 AND mastery_level < $2 AND next_review_at <= $3
		 ORDER BY next_review_at`,
		userID, MaxMasteryLevel, now,
	)
	if err != nil {
		return nil, fmt.Errorf("get due flashcards: %w", err)
	}
	defer rows.Close()

	cards := []models.FlashcardProgress{}
	for rows.Next() {
		var fp models.FlashcardProgress
		if err := rows.Scan(&fp.CardID, &fp.TimesReviewed, &fp.TimesCorrect,
			&fp.MasteryLevel, &fp.LastReviewed, &fp.NextReviewAt); err != nil {
			return nil, err
		}
		cards = append(cards, fp)
	}
	return cards, rows.Err()
}

// ── Modules & Videos ────────────────────────────────────

func (s *Store) EnsureModuleProgress(userID int64, moduleID string) error {
	_, err := s.db.Exec(
		`INSERT INTO module_progress (user_id, module_id) VALUES ($1, $2)
		 ON CONFLICT (user_id, module_id) DO NOTHING`,
		userID, moduleID,
	)
	return err
}

// MarkVideoWatched records a watched video. Returns true only on the first
// watch so XP is credited once.
func (s *Store) MarkVideoWatched(userID int64, moduleID, videoID string) (bool, error) {
	var alreadyWatched bool
	err := s.db.QueryRow(
		`SELECT watched FROM module_videos WHERE user_id = $1 AND video_id = $2`,
		userID, videoID,
	).Scan(&alreadyWatched)
	if err != nil && err != sql.ErrNoRows {
		return false, fmt.Errorf("check video watched: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT INTO module_videos (user_id, module_id, video_id, watched)
		 VALUES ($1, $2, $3, true)
		 ON CONFLICT (user_id, video_id) DO UPDATE SET watched = true, module_id = $2`,
		userID, moduleID, videoID,
	)
	if err != nil {
		return false, fmt.Errorf("mark video watched: %w", err)
	}
	return !alreadyWatched, nil
}

func (s *Store) UpdateVideoTimestamp(userID int64, moduleID, videoID string, positionSeconds int) error {
	_, err := s.db.Exec(
		`INSERT INTO module_videos (user_id, module_id, video_id, last_position_seconds)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, video_id) DO UPDATE SET last_position_seconds = $4`,
		userID, moduleID, videoID, positionSeconds,
	)
	if err != nil {
		return fmt.Errorf("update video timestamp: %w", err)
	}
	return nil
}

// GetVideoProgress returns per-video state, watched or not, so clients can
// resume playback from the last saved position.
func (s *Store) GetVideoProgress(userID int64) ([]models.VideoProgress, error) {
	rows, err := s.db.Query(
		`SELECT video_id, module_id, watched, last_position_seconds
		 FROM module_videos WHERE user_id = $1 ORDER BY video_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get video progress: %w", err)
	}
	defer rows.Close()

	videos := []models.VideoProgress{}
	for rows.Next() {
		var v models.VideoProgress
		if err := rows.Scan(&v.VideoID, &v.ModuleID, &v.Watched, &v.LastPositionSeconds); err != nil {
			return nil, err
		}
		videos = append(videos, v)
	}
	return videos, rows.Err()
}

func (s *Store) SetFlashcardsReviewed(userID int64, moduleID string) error {
	if err := s.EnsureModuleProgress(userID, moduleID); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`UPDATE module_progress SET flashcards_reviewed = true
		 WHERE user_id = $1 AND module_id = $2`,
		userID, moduleID,
	)
	return err
}

// CompleteModule marks a module done. Returns true only on the transition.
func (s *Store) CompleteModule(userID int64, moduleID string) (bool, error) {
	if err := s.EnsureModuleProgress(userID, moduleID); err != nil {
		return false, err
	}
	result, err := s.db.Exec(
		`UPDATE module_progress SET completed = true, completed_at = NOW()
		 WHERE user_id = $1 AND module_id = $2 AND completed = false`,
		userID, moduleID,
	)
	if err != nil {
		return false, fmt.Errorf("complete module: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows > 0, nil
}

func (s *Store) GetModuleProgress(userID int64) ([]models.ModuleProgress, error) {
	rows, err := s.db.Query(
		`SELECT module_id, flashcards_reviewed, completed, completed_at
		 FROM module_progress WHERE user_id = $1 ORDER BY module_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get module progress: %w", err)
	}
	defer rows.Close()

	modules := []models.ModuleProgress{}
	for rows.Next() {
		var m models.ModuleProgress
		if err := rows.Scan(&m.ModuleID, &m.FlashcardsReviewed, &m.Completed, &m.CompletedAt); err != nil {
			return nil, err
		}
		m.VideosWatched = []string{}
		m.QuizzesPassed = []string{}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	index := make(map[string]int, len(modules))
	for i, m := range modules {
		index[m.ModuleID] = i
	}

	videoRows, err := s.db.Query(
		`SELECT module_id, video_id FROM module_videos
		 WHERE user_id = $1 AND watched = true ORDER BY video_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get watched videos: %w", err)
	}
	defer videoRows.Close()
	for videoRows.Next() {
		var moduleID, videoID string
		if err := videoRows.Scan(&moduleID, &videoID); err != nil {
			return nil, err
		}
		if i, ok := index[moduleID]; ok {
			modules[i].VideosWatched = append(modules[i].VideosWatched, videoID)
		}
	}
	if err := videoRows.Err(); err != nil {
		return nil, err
	}

	quizRows, err := s.db.Query(
		`SELECT module_id, quiz_id FROM module_quizzes_passed
		 WHERE user_id = $1 ORDER BY quiz_id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get passed quizzes: %w", err)
	}
	defer quizRows.Close()
	for quizRows.Next() {
		var moduleID, quizID string
		if err := quizRows.Scan(&moduleID, &quizID); err != nil {
			return nil, err
		}
		if i, ok := index[moduleID]; ok {
			modules[i].QuizzesPassed = append(modules[i].QuizzesPassed, quizID)
		}
	}
	return modules, quizRows.Err()
}

// ── Certificates ────────────────────────────────────────

// InsertCertificate issues a certificate unless one already exists for the
// course. Returns the stored certificate either way, with created reporting
// whether this call issued it.
func (s *Store) InsertCertificate(userID int64, courseID string, req models.CompleteCourseRequest, xpEarned int64) (*models.Certificate, bool, error) {
	result, err := s.db.Exec(
		`INSERT INTO certificates (user_id, course_id, course_name, modules_count, quizzes_count, xp_earned)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, course_id) DO NOTHING`,
		userID, courseID, req.CourseName, req.ModulesCount, req.QuizzesCount, xpEarned,
	)
	if err != nil {
		return nil, false, fmt.Errorf("insert certificate: %w", err)
	}
	rows, _ := result.RowsAffected()

	cert, err := s.GetCertificate(userID, courseID)
	if err != nil {
		return nil, false, err
	}
	return cert, rows > 0, nil
}

func (s *Store) GetCertificate(userID int64, courseID string) (*models.Certificate, error) {
	var c models.Certificate
	err := s.db.QueryRow(
		`SELECT id, course_id, course_name, modules_count, quizzes_count, xp_earned, issued_at
		 FROM certificates WHERE user_id = $1 AND course_id = $2`,
		userID, courseID,
	).Scan(&c.ID, &c.CourseID, &c.CourseName, &c.ModulesCount, &c.QuizzesCount, &c.XPEarned, &c.IssuedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get certificate: %w", err)
	}
	return &c, nil
}

func (s *Store) GetCertificates(userID int64) ([]models.Certificate, error) {
	rows, err := s.db.Query(
		`SELECT id, course_id, course_name, modules_count, quizzes_count, xp_earned, issued_at
		 FROM certificates WHERE user_id = $1 ORDER BY issued_at`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("get certificates: %w", err)
	}
	defer rows.Close()

	certs := []models.Certificate{}
	for rows.Next() {
		var c models.Certificate
		if err := rows.Scan(&c.ID, &c.CourseID, &c.CourseName, &c.ModulesCount,
			&c.QuizzesCount, &c.XPEarned, &c.IssuedAt); err != nil {
			return nil, err
		}
		certs = append(certs, c)
	}
	return certs, rows.Err()
}

// ── Stats Snapshot ──────────────────────────────────────

// GetStats assembles the snapshot achievement predicates evaluate against.
func (s *Store) GetStats(userID int64) (ProgressStats, error) {
	var stats ProgressStats

	p, err := s.GetOrCreateProgress(userID)
	if err != nil {
		return stats, err
	}
	stats.XP = p.XP
	stats.Level = CalculateLevel(p.XP)
	stats.CurrentStreak = p.CurrentStreak
	stats.LongestStreak = p.LongestStreak

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM learned_terms WHERE user_id = $1`, &stats.TermsLearned},
		{`SELECT COUNT(*) FROM quiz_attempts WHERE user_id = $1`, &stats.QuizAttempts},
		{`SELECT COUNT(*) FROM module_quizzes_passed WHERE user_id = $1`, &stats.QuizzesPassed},
		{`SELECT COUNT(*) FROM quiz_attempts WHERE user_id = $1 AND score = 100`, &stats.PerfectQuizzes},
		{`SELECT COUNT(*) FROM flashcard_progress WHERE user_id = $1 AND times_reviewed > 0`, &stats.CardsReviewed},
		{`SELECT COUNT(*) FROM flashcard_progress WHERE user_id = $1 AND mastery_level >= 4`, &stats.CardsMastered},
		{`SELECT COUNT(*) FROM module_videos WHERE user_id = $1 AND watched = true`, &stats.VideosWatched},
		{`SELECT COUNT(*) FROM module_progress WHERE user_id = $1 AND completed = true`, &stats.ModulesCompleted},
		{`SELECT COUNT(*) FROM certificates WHERE user_id = $1`, &stats.CoursesCompleted},
	}
	for _, c := range counts {
		if err := s.db.QueryRow(c.query, userID).Scan(c.dest); err != nil {
			return stats, fmt.Errorf("get stats: %w", err)
		}
	}
	return stats, nil
}
