package content

import (
	"embed"
	"fmt"
	"sort"

	"github.com/founder-prep/backend/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Library holds every static content table, indexed for lookup. It is
// loaded once at startup and never written to.
type Library struct {
	Glossary  []models.GlossaryTerm
	Decks     []models.Deck
	Quizzes   []models.Quiz
	Courses   []models.Course
	Scenarios []models.GameScenario

	termIndex   map[string]models.GlossaryTerm
	deckIndex   map[string]models.Deck
	quizIndex   map[string]models.Quiz
	courseIndex map[string]models.Course
	gameIndex   map[string][]models.GameScenario
}

type glossaryFile struct {
	Terms []models.GlossaryTerm `yaml:"terms"`
}

type decksFile struct {
	Decks []models.Deck `yaml:"decks"`
}

type quizzesFile struct {
	Quizzes []models.Quiz `yaml:"quizzes"`
}

type coursesFile struct {
	Courses []models.Course `yaml:"courses"`
}

type scenariosFile struct {
	Scenarios []models.GameScenario `yaml:"scenarios"`
}

// Load parses and validates the embedded content tables. A malformed table
// is a build artifact problem, so Load fails hard instead of serving a
// partial library.
func Load() (*Library, error) {
	lib := &Library{
		termIndex:   map[string]models.GlossaryTerm{},
		deckIndex:   map[string]models.Deck{},
		quizIndex:   map[string]models.Quiz{},
		courseIndex: map[string]models.Course{},
		gameIndex:   map[string][]models.GameScenario{},
	}

	var glossary glossaryFile
	if err := readYAML("data/glossary.yaml", &glossary); err != nil {
		return nil, err
	}
	lib.Glossary = glossary.Terms
	for _, t := range lib.Glossary {
		if t.ID == "" || t.Term == "" || t.Definition == "" {
			return nil, fmt.Errorf("glossary term %q: id, term, and definition are required", t.ID)
		}
		if _, dup := lib.termIndex[t.ID]; dup {
			return nil, fmt.Errorf("duplicate glossary term id %q", t.ID)
		}
		lib.termIndex[t.ID] = t
	}

	var decks decksFile
	if err := readYAML("data/decks.yaml", &decks); err != nil {
		return nil, err
	}
	lib.Decks = decks.Decks
	for _, d := range lib.Decks {
		if d.ID == "" || len(d.Cards) == 0 {
			return nil, fmt.Errorf("deck %q: id and at least one card are required", d.ID)
		}
		if _, dup := lib.deckIndex[d.ID]; dup {
			return nil, fmt.Errorf("duplicate deck id %q", d.ID)
		}
		for _, c := range d.Cards {
			if c.ID == "" || c.Front == "" || c.Back == "" {
				return nil, fmt.Errorf("deck %q card %q: id, front, and back are required", d.ID, c.ID)
			}
		}
		lib.deckIndex[d.ID] = d
	}

	var quizzes quizzesFile
	if err := readYAML("data/quizzes.yaml", &quizzes); err != nil {
		return nil, err
	}
	lib.Quizzes = quizzes.Quizzes
	for _, q := range lib.Quizzes {
		if q.ID == "" || len(q.Questions) == 0 {
			return nil, fmt.Errorf("quiz %q: id and at least one question are required", q.ID)
		}
		if q.PassingScore < 0 || q.PassingScore > 100 {
			return nil, fmt.Errorf("quiz %q: passing_score must be in [0,100]", q.ID)
		}
		if _, dup := lib.quizIndex[q.ID]; dup {
			return nil, fmt.Errorf("duplicate quiz id %q", q.ID)
		}
		for _, question := range q.Questions {
			if len(question.Choices) < 2 {
				return nil, fmt.Errorf("quiz %q question %q: at least two choices are required", q.ID, question.ID)
			}
			if question.CorrectChoice < 0 || question.CorrectChoice >= len(question.Choices) {
				return nil, fmt.Errorf("quiz %q question %q: correct_choice out of range", q.ID, question.ID)
			}
		}
		lib.quizIndex[q.ID] = q
	}

	var courses coursesFile
	if err := readYAML("data/courses.yaml", &courses); err != nil {
		return nil, err
	}
	lib.Courses = courses.Courses
	for _, c := range lib.Courses {
		if c.ID == "" || len(c.Modules) == 0 {
			return nil, fmt.Errorf("course %q: id and at least one module are required", c.ID)
		}
		if _, dup := lib.courseIndex[c.ID]; dup {
			return nil, fmt.Errorf("duplicate course id %q", c.ID)
		}
		for _, m := range c.Modules {
			if m.ID == "" {
				return nil, fmt.Errorf("course %q: module id is required", c.ID)
			}
			for _, quizID := range m.QuizIDs {
				if _, ok := lib.quizIndex[quizID]; !ok {
					return nil, fmt.Errorf("course %q module %q: unknown quiz %q", c.ID, m.ID, quizID)
				}
			}
			if m.DeckID != "" {
				if _, ok := lib.deckIndex[m.DeckID]; !ok {
					return nil, fmt.Errorf("course %q module %q: unknown deck %q", c.ID, m.ID, m.DeckID)
				}
			}
		}
		lib.courseIndex[c.ID] = c
	}

	var scenarios scenariosFile
	if err := readYAML("data/scenarios.yaml", &scenarios); err != nil {
		return nil, err
	}
	lib.Scenarios = scenarios.Scenarios
	for _, sc := range lib.Scenarios {
		if sc.ID == "" || sc.Game == "" {
			return nil, fmt.Errorf("scenario %q: id and game are required", sc.ID)
		}
		lib.gameIndex[sc.Game] = append(lib.gameIndex[sc.Game], sc)
	}
	for game := range lib.gameIndex {
		list := lib.gameIndex[game]
		sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
		lib.gameIndex[game] = list
	}

	return lib, nil
}

func readYAML(path string, out interface{}) error {
	b, err := dataFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// ── Lookups ─────────────────────────────────────────────

func (l *Library) Term(id string) (models.GlossaryTerm, bool) {
	t, ok := l.termIndex[id]
	return t, ok
}

func (l *Library) Deck(id string) (models.Deck, bool) {
	d, ok := l.deckIndex[id]
	return d, ok
}

func (l *Library) Quiz(id string) (models.Quiz, bool) {
	q, ok := l.quizIndex[id]
	return q, ok
}

func (l *Library) Course(id string) (models.Course, bool) {
	c, ok := l.courseIndex[id]
	return c, ok
}

// GameScenarios returns every scenario for a game, or nil for an unknown
// game id.
func (l *Library) GameScenarios(game string) []models.GameScenario {
	return l.gameIndex[game]
}

// Games lists the known game ids.
func (l *Library) Games() []string {
	games := make([]string, 0, len(l.gameIndex))
	for g := range l.gameIndex {
		games = append(games, g)
	}
	sort.Strings(games)
	return games
}
