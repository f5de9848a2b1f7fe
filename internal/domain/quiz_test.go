package domain

import "testing"

func TestQuizCardValidate(t *testing.T) {
	valid := func() QuizCard {
		return QuizCard{
			ID:            0,
			Topic:         "GENERAL",
			Question:      "Q?",
			Options:       []string{"a", "b", "c", "d"},
			CorrectAnswer: 2,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*QuizCard)
		wantErr bool
	}{
		{"valid card", func(c *QuizCard) {}, false},
		{"negative id", func(c *QuizCard) { c.ID = -1 }, true},
		{"three options", func(c *QuizCard) { c.Options = c.Options[:3] }, true},
		{"five options", func(c *QuizCard) { c.Options = append(c.Options, "e") }, true},
		{"answer out of range high", func(c *QuizCard) { c.CorrectAnswer = 4 }, true},
		{"answer out of range low", func(c *QuizCard) { c.CorrectAnswer = -1 }, true},
		{"empty strings are fine", func(c *QuizCard) { c.Question = ""; c.Explanation = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := valid()
			tt.mutate(&card)
			err := card.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("QuizCard.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProfileValidate(t *testing.T) {
	profile := NewProfile("Ada", "ada@example.com", []string{"science"}, "key")
	if err := profile.Validate(); err != nil {
		t.Errorf("Profile.Validate() unexpected error = %v", err)
	}

	missing := NewProfile("Ada", "ada@example.com", nil, "key")
	if err := missing.Validate(); err == nil {
		t.Error("Profile.Validate() expected error for empty interests")
	}
}
