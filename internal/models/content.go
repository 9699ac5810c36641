package models

// ── Content Types ─────────────────────────────────────────
//
// Content is static reference data shipped with the binary. The progress
// engine never writes to it.

type GlossaryTerm struct {
	ID         string `json:"id" yaml:"id"`
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
	Category   string `json:"category" yaml:"category"`
	Example    string `json:"example,omitempty" yaml:"example"`
}

type Flashcard struct {
	ID     string `json:"id" yaml:"id"`
	Front  string `json:"front" yaml:"front"`
	Back   string `json:"back" yaml:"back"`
	TermID string `json:"term_id,omitempty" yaml:"term_id"`
}

type Deck struct {
	ID       string      `json:"id" yaml:"id"`
	Name     string      `json:"name" yaml:"name"`
	ModuleID string      `json:"module_id" yaml:"module_id"`
	Cards    []Flashcard `json:"cards" yaml:"cards"`
}

type QuizQuestion struct {
	ID            string   `json:"id" yaml:"id"`
	Prompt        string   `json:"prompt" yaml:"prompt"`
	Choices       []string `json:"choices" yaml:"choices"`
	CorrectChoice int      `json:"correct_choice" yaml:"correct_choice"`
	Explanation   string   `json:"explanation,omitempty" yaml:"explanation"`
}

type Quiz struct {
	ID           string         `json:"id" yaml:"id"`
	Name         string         `json:"name" yaml:"name"`
	ModuleID     string         `json:"module_id" yaml:"module_id"`
	PassingScore int            `json:"passing_score" yaml:"passing_score"`
	XPReward     int            `json:"xp_reward" yaml:"xp_reward"`
	Questions    []QuizQuestion `json:"questions" yaml:"questions"`
}

type Video struct {
	ID              string `json:"id" yaml:"id"`
	Title           string `json:"title" yaml:"title"`
	DurationSeconds int    `json:"duration_seconds" yaml:"duration_seconds"`
	XPReward        int    `json:"xp_reward" yaml:"xp_reward"`
}

type Module struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Videos   []Video  `json:"videos" yaml:"videos"`
	QuizIDs  []string `json:"quiz_ids" yaml:"quiz_ids"`
	DeckID   string   `json:"deck_id,omitempty" yaml:"deck_id"`
	XPReward int      `json:"xp_reward" yaml:"xp_reward"`
}

type Course struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Modules  []Module `json:"modules" yaml:"modules"`
	XPReward int      `json:"xp_reward" yaml:"xp_reward"`
}

// GameScenario is one round of a timed mini-game (burn-rate, dilemma,
// pitch, valuation). The server only serves the tables; rounds run on the
// client.
type GameScenario struct {
	ID       string         `json:"id" yaml:"id"`
	Game     string         `json:"game" yaml:"game"`
	Title    string         `json:"title" yaml:"title"`
	Setup    string         `json:"setup" yaml:"setup"`
	Choices  []string       `json:"choices,omitempty" yaml:"choices"`
	Answer   int            `json:"answer,omitempty" yaml:"answer"`
	Values   map[string]int `json:"values,omitempty" yaml:"values"`
	XPReward int            `json:"xp_reward" yaml:"xp_reward"`
}
