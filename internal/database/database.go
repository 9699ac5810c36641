package database

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func Connect() (*sql.DB, error) {
	host := getEnv("DB_HOST", "localhost")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "founder_prep")
	password := getEnv("DB_PASSWORD", "founder_prep")
	dbname := getEnv("DB_NAME", "founder_prep")
	sslmode := getEnv("DB_SSLMODE", "disable")

	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func Migrate(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		password VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

	CREATE TABLE IF NOT EXISTS user_progress (
		user_id          BIGINT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		xp               BIGINT NOT NULL DEFAULT 0 CHECK (xp >= 0),
		current_streak   INT NOT NULL DEFAULT 0,
		longest_streak   INT NOT NULL DEFAULT 0,
		last_active_date DATE,
		pending_level_up INT,
		created_at       TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at       TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS learned_terms (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		term_id    VARCHAR(100) NOT NULL,
		learned_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, term_id)
	);

	CREATE TABLE IF NOT EXISTS achievements (
		id           BIGSERIAL PRIMARY KEY,
		user_id      BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		achievement  VARCHAR(100) NOT NULL,
		unlocked_at  TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
		UNIQUE(user_id, achievement)
	);

	CREATE TABLE IF NOT EXISTS quiz_attempts (
		id                 BIGSERIAL PRIMARY KEY,
		user_id            BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		quiz_id            VARCHAR(100) NOT NULL,
		module_id          VARCHAR(100) NOT NULL,
		score              INT NOT NULL CHECK (score >= 0 AND score <= 100),
		passed             BOOLEAN NOT NULL,
		answers            JSONB,
		time_spent_seconds INT NOT NULL DEFAULT 0 CHECK (time_spent_seconds >= 0),
		xp_earned          INT NOT NULL DEFAULT 0 CHECK (xp_earned >= 0),
		attempted_at       TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS module_quizzes_passed (
		id        BIGSERIAL PRIMARY KEY,
		user_id   BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		module_id VARCHAR(100) NOT NULL,
		quiz_id   VARCHAR(100) NOT NULL,
		passed_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, quiz_id)
	);

	CREATE TABLE IF NOT EXISTS module_progress (
		id                  BIGSERIAL PRIMARY KEY,
		user_id             BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		module_id           VARCHAR(100) NOT NULL,
		flashcards_reviewed BOOLEAN NOT NULL DEFAULT FALSE,
		completed           BOOLEAN NOT NULL DEFAULT FALSE,
		completed_at        TIMESTAMP WITH TIME ZONE,
		UNIQUE(user_id, module_id)
	);

	CREATE TABLE IF NOT EXISTS module_videos (
		id                    BIGSERIAL PRIMARY KEY,
		user_id               BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		module_id             VARCHAR(100) NOT NULL,
		video_id              VARCHAR(100) NOT NULL,
		watched               BOOLEAN NOT NULL DEFAULT FALSE,
		last_position_seconds INT NOT NULL DEFAULT 0,
		UNIQUE(user_id, video_id)
	);

	CREATE TABLE IF NOT EXISTS flashcard_progress (
		id             BIGSERIAL PRIMARY KEY,
		user_id        BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		card_id        VARCHAR(100) NOT NULL,
		times_reviewed INT NOT NULL DEFAULT 0 CHECK (times_reviewed >= 0),
		times_correct  INT NOT NULL DEFAULT 0 CHECK (times_correct >= 0 AND times_correct <= times_reviewed),
		mastery_level  INT NOT NULL DEFAULT 0 CHECK (mastery_level >= 0 AND mastery_level <= 4),
		last_reviewed  TIMESTAMP WITH TIME ZONE,
		next_review_at TIMESTAMP WITH TIME ZONE,
		UNIQUE(user_id, card_id)
	);

	CREATE TABLE IF NOT EXISTS certificates (
		id            BIGSERIAL PRIMARY KEY,
		user_id       BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		course_id     VARCHAR(100) NOT NULL,
		course_name   VARCHAR(255) NOT NULL,
		modules_count INT NOT NULL DEFAULT 0,
		quizzes_count INT NOT NULL DEFAULT 0,
		xp_earned     BIGINT NOT NULL DEFAULT 0,
		issued_at     TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(user_id, course_id)
	);

	CREATE TABLE IF NOT EXISTS xp_events (
		id         BIGSERIAL PRIMARY KEY,
		user_id    BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		event_type VARCHAR(50) NOT NULL,
		xp_amount  INT NOT NULL,
		metadata   JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	// These are idempotent for databases created before the columns existed
	alterStatements := []string{
		`ALTER TABLE user_progress ADD COLUMN IF NOT EXISTS pending_level_up INT`,
		`ALTER TABLE achievements ADD COLUMN IF NOT EXISTS acknowledged BOOLEAN NOT NULL DEFAULT FALSE`,
		`ALTER TABLE module_videos ADD COLUMN IF NOT EXISTS last_position_seconds INT NOT NULL DEFAULT 0`,
	}
	for _, stmt := range alterStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("alter table failed: %w", err)
		}
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_learned_terms_user ON learned_terms(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_achievements_user ON achievements(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_achievements_pending ON achievements(user_id, acknowledged)`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_attempts_user ON quiz_attempts(user_id, attempted_at)`,
		`CREATE INDEX IF NOT EXISTS idx_quizzes_passed_module ON module_quizzes_passed(user_id, module_id)`,
		`CREATE INDEX IF NOT EXISTS idx_module_progress_user ON module_progress(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_module_videos_module ON module_videos(user_id, module_id)`,
		`CREATE INDEX IF NOT EXISTS idx_flashcards_user ON flashcard_progress(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_flashcards_due ON flashcard_progress(user_id, next_review_at) WHERE times_reviewed > 0 AND mastery_level < 4`,
		`CREATE INDEX IF NOT EXISTS idx_certificates_user ON certificates(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_xp_events_user ON xp_events(user_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_progress_streak ON user_progress(last_active_date) WHERE current_streak > 0`,
	}
	for _, stmt := range indexes {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("create index failed: %w", err)
		}
	}

	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
