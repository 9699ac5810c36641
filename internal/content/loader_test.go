package content

import "testing"

func TestLoad(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(lib.Glossary) == 0 {
		t.Error("glossary is empty")
	}
	if len(lib.Decks) == 0 {
		t.Error("no decks loaded")
	}
	if len(lib.Quizzes) == 0 {
		t.Error("no quizzes loaded")
	}
	if len(lib.Courses) == 0 {
		t.Error("no courses loaded")
	}
	if len(lib.Scenarios) == 0 {
		t.Error("no game scenarios loaded")
	}
}

func TestLookups(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if _, ok := lib.Term("runway"); !ok {
		t.Error("term runway not found")
	}
	if _, ok := lib.Term("nonexistent"); ok {
		t.Error("unknown term id resolved")
	}

	deck, ok := lib.Deck("finance-basics")
	if !ok {
		t.Fatal("deck finance-basics not found")
	}
	if len(deck.Cards) == 0 {
		t.Error("deck finance-basics has no cards")
	}

	quiz, ok := lib.Quiz("fundraising-quiz-1")
	if !ok {
		t.Fatal("quiz fundraising-quiz-1 not found")
	}
	if quiz.PassingScore < 0 || quiz.PassingScore > 100 {
		t.Errorf("passing score %d out of range", quiz.PassingScore)
	}

	if _, ok := lib.Course("startup-fundamentals"); !ok {
		t.Error("course startup-fundamentals not found")
	}
}

func TestCourseReferencesResolve(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Load validates these, but the guarantee is load-bearing for the
	// progress endpoints, so pin it here too.
	for _, course := range lib.Courses {
		for _, module := range course.Modules {
			for _, quizID := range module.QuizIDs {
				if _, ok := lib.Quiz(quizID); !ok {
					t.Errorf("course %s module %s references unknown quiz %s", course.ID, module.ID, quizID)
				}
			}
			if module.DeckID != "" {
				if _, ok := lib.Deck(module.DeckID); !ok {
					t.Errorf("course %s module %s references unknown deck %s", course.ID, module.ID, module.DeckID)
				}
			}
		}
	}
}

func TestGameScenarios(t *testing.T) {
	lib, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	games := lib.Games()
	if len(games) == 0 {
		t.Fatal("no games loaded")
	}
	for _, game := range games {
		if len(lib.GameScenarios(game)) == 0 {
			t.Errorf("game %s has no scenarios", game)
		}
	}

	if lib.GameScenarios("no-such-game") != nil {
		t.Error("unknown game should return nil")
	}

	// Choice-style scenarios keep the answer in range.
	for _, sc := range lib.Scenarios {
		if len(sc.Choices) > 0 && (sc.Answer < 0 || sc.Answer >= len(sc.Choices)) {
			t.Errorf("scenario %s answer %d out of range", sc.ID, sc.Answer)
		}
	}
}
